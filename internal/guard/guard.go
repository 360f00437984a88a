// Package guard implements the Guard stage of the tick pipeline (§4.5):
// a composable chain of in-place CommandMap sanitizers run after Decision
// and before Output. Grounded on
// original_source/crabe_guard/src/lib.rs's Guard trait and its SpeedGuard
// implementation; translated the way the teacher (fight-club-go) composes
// small single-purpose passes over shared state rather than one monolith.
package guard

import (
	"math"
	"strconv"

	"crabe/internal/logging"
	"crabe/internal/model"
	"crabe/internal/spatial"
	"crabe/internal/vmath"
)

// MaxAngular bounds angular velocity regardless of GameState, per spec.md
// §4.5 ("MAX_ANGULAR (configuration constant)"). There is no per-state
// angular limit in the referee rules, unlike linear speed.
const MaxAngular = 8.0 // rad/s

// MaxKickPower is the legal upper bound on Kick.Power.
const MaxKickPower = 8.0 // m/s

// Guard is one pass over a tick's CommandMap. Guards compose: Pipeline
// runs each registered Guard in order over every command.
type Guard interface {
	Apply(world *model.World, cmds model.CommandMap, tools *model.ToolData, log *logging.Logger)
}

// Pipeline runs its Guards in order, once per tick, per spec.md §4.5's
// contract `step(&world, &mut commands, &mut tool_commands)`.
type Pipeline struct {
	guards []Guard
}

// New builds a Pipeline running guards in order. SpeedGuard should
// normally run first since later guards may assume velocities are
// already finite.
func New(guards ...Guard) *Pipeline {
	return &Pipeline{guards: guards}
}

// DefaultPipeline is the canonical guard chain: NaN correction plus speed
// clamping, then an optional robot-robot proximity diagnostic.
func DefaultPipeline() *Pipeline {
	return New(&SpeedGuard{}, &CollisionDiagnostic{})
}

func (p *Pipeline) Step(world *model.World, cmds model.CommandMap, tools *model.ToolData, log *logging.Logger) {
	for _, g := range p.guards {
		g.Apply(world, cmds, tools, log)
	}
}

// SpeedGuard is the canonical Guard instance (spec.md §4.5): it replaces
// NaN velocities with 0, clamps forward/left velocity to the current
// GameState's speed limit, clamps angular velocity to MaxAngular, and
// clamps kick power to MaxKickPower.
type SpeedGuard struct{}

func (g *SpeedGuard) Apply(world *model.World, cmds model.CommandMap, tools *model.ToolData, log *logging.Logger) {
	limit := world.Data.Orders.SpeedLimit
	for id, cmd := range cmds {
		if math.IsNaN(cmd.ForwardVelocity) {
			if log != nil {
				log.Warnf("guard: robot %d forward_velocity was NaN, zeroing", id)
			}
			cmd.ForwardVelocity = 0
		}
		if math.IsNaN(cmd.LeftVelocity) {
			if log != nil {
				log.Warnf("guard: robot %d left_velocity was NaN, zeroing", id)
			}
			cmd.LeftVelocity = 0
		}
		if math.IsNaN(cmd.AngularVelocity) {
			if log != nil {
				log.Warnf("guard: robot %d angular_velocity was NaN, zeroing", id)
			}
			cmd.AngularVelocity = 0
		}

		cmd.ForwardVelocity = clamp(cmd.ForwardVelocity, limit)
		cmd.LeftVelocity = clamp(cmd.LeftVelocity, limit)
		cmd.AngularVelocity = clamp(cmd.AngularVelocity, MaxAngular)

		if cmd.Kick != nil {
			if math.IsNaN(cmd.Kick.Power) {
				cmd.Kick.Power = 0
			}
			if cmd.Kick.Power > MaxKickPower {
				cmd.Kick.Power = MaxKickPower
			}
			if cmd.Kick.Power < 0 {
				cmd.Kick.Power = 0
			}
		}
		if math.IsNaN(cmd.Dribbler) {
			cmd.Dribbler = 0
		}
		if cmd.Dribbler > model.DribblerMaxRPM {
			cmd.Dribbler = model.DribblerMaxRPM
		}
		if cmd.Dribbler < 0 {
			cmd.Dribbler = 0
		}

		cmds[id] = cmd
	}
}

func clamp(v, limit float64) float64 {
	if v > limit {
		return limit
	}
	if v < -limit {
		return -limit
	}
	return v
}

// CollisionDiagnostic annotates (but never mutates commands for) ally
// robot pairs whose current positions are within collision distance,
// using a sweep over current x-positions as a cheap broad phase before
// reporting to the Tool Server. Commanded velocities are not considered. Supplemented from
// spec.md's "optionally clamp" wording generalized to a proximity check;
// grounded on internal/spatial's SweepAndPrune, itself adapted from the
// teacher's internal/game/hitbox.go overlap sweep.
type CollisionDiagnostic struct{}

const collisionRadius = 0.2 // 2x robot radius plus margin

func (g *CollisionDiagnostic) Apply(world *model.World, cmds model.CommandMap, tools *model.ToolData, log *logging.Logger) {
	n := len(world.AlliesBot)
	if n == 0 {
		return
	}
	sap := spatial.NewSweepAndPrune(n)
	ids := make([]uint8, 0, n)
	xs := make([]float64, 0, n)
	for id, r := range world.AlliesBot {
		ids = append(ids, id)
		xs = append(xs, r.Pose.Position.X)
	}
	pairs := sap.Update(xs, collisionRadius)
	if tools == nil {
		return
	}
	for _, pair := range pairs {
		a, b := world.AlliesBot[ids[pair.A]], world.AlliesBot[ids[pair.B]]
		if a == nil || b == nil {
			continue
		}
		if a.Pose.Position.Distance(b.Pose.Position) < collisionRadius {
			key := "collision_risk_" + strconv.Itoa(int(ids[pair.A])) + "_" + strconv.Itoa(int(ids[pair.B]))
			tools.Annotations.AddLine(key, vmath.Line{Start: a.Pose.Position, End: b.Pose.Position})
			if log != nil {
				log.Warnf("guard: robots %d/%d within collision distance", ids[pair.A], ids[pair.B])
			}
		}
	}
}
