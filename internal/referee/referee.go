// Package referee turns raw SSL-Referee packets into the tiered
// model.GameState the rest of the pipeline branches on, and derives the
// model.RefereeOrders (speed limit, latest event) Guard and Decision
// consume each tick. Grounded on spec.md §4.3 and on
// original_source/crabe_framework's referee_orders.rs state-derivation
// logic, translated from the Rust match-on-enum into a Go switch over
// the raw wire command value.
package referee

import (
	"time"

	"crabe/internal/model"
	"crabe/internal/vmath"
	"crabe/internal/wire"
)

// dynamicTimeout is how long a KickOff/Penalty/FreeKick phase may run
// before it is force-advanced to Run, per spec.md §4.3.
const dynamicTimeout = 10 * time.Second

// ballMovedThreshold is how far the ball must travel from its position at
// phase entry before a KickOff/Penalty/FreeKick phase is considered live.
const ballMovedThreshold = 0.05

// robotTouchThreshold is how close a robot must come to the ball to count
// as "the freekick has been taken" (§4.3's DirectFree exit condition).
const robotTouchThreshold = 0.05

// StateMachine tracks the evolving referee state across ticks: the
// dynamic exit conditions inside KickOff/Penalty/FreeKick are evaluated
// locally every tick against the live World, since the game controller
// itself does not narrate the ball-moved/timeout transition.
type StateMachine struct {
	lastCommandCounter uint32
	haveCounter        bool

	stateEnteredAt  time.Time
	ballAtEntry     vmath.Vec2
	haveBallAtEntry bool

	pendingRunningKind model.RunningKind
	pendingTeam        model.TeamColor

	haveScores bool
}

func New() *StateMachine { return &StateMachine{} }

func scoreOf(t model.Team) int {
	if t.Info == nil {
		return 0
	}
	return t.Info.Score
}

// ApplyPacket updates world.Data in place from a freshly decoded
// SSL-Referee packet. now is the Filter tick's clock reading, passed in
// rather than read internally so the state machine stays deterministic
// and testable.
func (sm *StateMachine) ApplyPacket(world *model.World, pkt *wire.RefereePacket, ball vmath.Vec2, now time.Time) {
	data := &world.Data
	isNewCommand := !sm.haveCounter || pkt.CommandCounter != sm.lastCommandCounter
	sm.lastCommandCounter = pkt.CommandCounter
	sm.haveCounter = true

	if pkt.BlueTeamOnPositiveHalf != nil {
		color := model.Yellow
		if *pkt.BlueTeamOnPositiveHalf {
			color = model.Blue
		}
		data.PositiveHalf = &color
	}

	prevAllyScore, prevEnemyScore := scoreOf(data.Ally), scoreOf(data.Enemy)
	if data.Ally.Color == model.Blue {
		data.Ally.UpdateInfo(teamInfoFromWire(pkt.Blue))
		data.Enemy.UpdateInfo(teamInfoFromWire(pkt.Yellow))
	} else {
		data.Ally.UpdateInfo(teamInfoFromWire(pkt.Yellow))
		data.Enemy.UpdateInfo(teamInfoFromWire(pkt.Blue))
	}
	var scoringTeam *model.TeamColor
	if sm.haveScores {
		switch {
		case scoreOf(data.Ally) > prevAllyScore:
			t := data.Ally.Color
			scoringTeam = &t
		case scoreOf(data.Enemy) > prevEnemyScore:
			t := data.Enemy.Color
			scoringTeam = &t
		}
	}
	sm.haveScores = true

	var event *model.GameEvent
	if len(pkt.GameEvents) > 0 {
		last := pkt.GameEvents[len(pkt.GameEvents)-1]
		ev := model.GameEvent{Type: model.GameEventType(last.Type)}
		if last.Team != nil {
			color := model.Yellow
			if *last.Team == 1 {
				color = model.Blue
			}
			ev.Team = &color
		}
		if last.Origin != nil {
			ev.Origin = vmath.Vec2{X: float64(last.Origin.X) / 1000, Y: float64(last.Origin.Y) / 1000}
		}
		event = &ev
	}

	if isNewCommand {
		sm.stateEnteredAt = now
		sm.ballAtEntry = ball
		sm.haveBallAtEntry = true
	}

	state := sm.deriveState(pkt, now, ball, event, scoringTeam, world)
	data.Orders = model.NewRefereeOrders(state, event)
}

func teamInfoFromWire(ti wire.RefereeTeamInfo) model.TeamInfo {
	return model.TeamInfo{
		Name:         ti.Name,
		Score:        int(ti.Score),
		RedCards:     int(ti.RedCards),
		YellowCards:  int(ti.YellowCards),
		Timeouts:     int(ti.Timeouts),
		GoalkeeperID: uint8(ti.GoalkeeperID),
		FoulCounter:  int(ti.FoulCounter),
	}
}

// deriveState maps the raw wire command plus dynamic exit conditions onto
// model.GameState, per spec.md §4.3's three tiers.
func (sm *StateMachine) deriveState(pkt *wire.RefereePacket, now time.Time, ball vmath.Vec2, event *model.GameEvent, scoringTeam *model.TeamColor, world *model.World) model.GameState {
	switch pkt.Command {
	case wire.CommandHalt:
		return model.HaltedState(model.Halt)
	case wire.CommandTimeoutYellow:
		return model.HaltedTeamState(model.Timeout, model.Yellow)
	case wire.CommandTimeoutBlue:
		return model.HaltedTeamState(model.Timeout, model.Blue)
	case wire.CommandStop:
		return sm.deriveStop(event, scoringTeam, world)
	case wire.CommandPrepareKickoffYellow:
		sm.pendingRunningKind, sm.pendingTeam = model.KickOff, model.Yellow
		return model.StoppedTeamState(model.PrepareKickoff, model.Yellow)
	case wire.CommandPrepareKickoffBlue:
		sm.pendingRunningKind, sm.pendingTeam = model.KickOff, model.Blue
		return model.StoppedTeamState(model.PrepareKickoff, model.Blue)
	case wire.CommandPreparePenaltyYellow:
		sm.pendingRunningKind, sm.pendingTeam = model.Penalty, model.Yellow
		return model.StoppedTeamState(model.PreparePenalty, model.Yellow)
	case wire.CommandPreparePenaltyBlue:
		sm.pendingRunningKind, sm.pendingTeam = model.Penalty, model.Blue
		return model.StoppedTeamState(model.PreparePenalty, model.Blue)
	case wire.CommandDirectFreeYellow:
		return sm.runningOrStopped(model.FreeKick, model.Yellow, now, ball, world)
	case wire.CommandDirectFreeBlue:
		return sm.runningOrStopped(model.FreeKick, model.Blue, now, ball, world)
	case wire.CommandBallPlacementYellow:
		return model.StoppedTeamState(model.BallPlacement, model.Yellow)
	case wire.CommandBallPlacementBlue:
		return model.StoppedTeamState(model.BallPlacement, model.Blue)
	case wire.CommandForceStart:
		return model.RunningState(model.Run)
	case wire.CommandNormalStart:
		// NORMAL_START follows a PrepareKickoff or PreparePenalty command;
		// the state machine remembers which by holding the prior phase's
		// team/kind until the dynamic exit condition below fires.
		return sm.runningOrStopped(sm.pendingRunningKind, sm.pendingTeam, now, ball, world)
	default:
		return model.HaltedState(model.GameNotStarted)
	}
}

// deriveStop implements §4.3's Stop-command branch: a scored goal takes
// priority over any reported event, then the latest event (if any) is
// mapped onto its Stopped substate, defaulting to a plain Stop.
func (sm *StateMachine) deriveStop(event *model.GameEvent, scoringTeam *model.TeamColor, world *model.World) model.GameState {
	if scoringTeam != nil {
		return model.StoppedTeamState(model.PrepareKickoff, scoringTeam.Opposite())
	}
	if event == nil {
		return model.StoppedState(model.Stop)
	}
	if event.Type.IsStoppingFoul() {
		return model.StoppedState(model.FoulStop)
	}
	switch event.Type {
	case model.EventBallLeftFieldTouchLine:
		return model.StoppedTeamState(model.BallLeftFieldTouchLine, awardedTeam(event, world))
	case model.EventBallLeftFieldGoalLine:
		return model.StoppedTeamState(sm.goalLineKind(event, world), awardedTeam(event, world))
	case model.EventAimlessKick:
		return model.StoppedTeamState(model.AimlessKick, awardedTeam(event, world))
	case model.EventNoProgressInGame:
		return model.StoppedState(model.NoProgressInGame)
	default:
		return model.StoppedState(model.Stop)
	}
}

// awardedTeam is the opposite of the faulting team reported on the event,
// since a ball-out-of-play event awards the restart to the other side.
// Falls back to the ally color when the event carries no team attribution.
func awardedTeam(event *model.GameEvent, world *model.World) model.TeamColor {
	if event.Team == nil {
		return world.TeamColor
	}
	return event.Team.Opposite()
}

// goalLineKind decides CornerKick vs GoalKick for a ball-left-via-goal-line
// event: the faulting team's own defending side gets a corner kick awarded
// against it, the attacking side conceding into the goal area gets a goal
// kick awarded to the defense. Origin.X's sign relative to positive_half
// identifies which goal the ball left through.
func (sm *StateMachine) goalLineKind(event *model.GameEvent, world *model.World) model.StoppedKind {
	if event.Team == nil || world.Data.PositiveHalf == nil {
		return model.CornerKick
	}
	faultingDefendsPositive := *world.Data.PositiveHalf == *event.Team
	ballLeftPositiveSide := event.Origin.X > 0
	// The faulting team kicked it out through the goal line it defends ⇒
	// a corner kick for the opponent; through the opponent's goal line ⇒
	// a goal kick for the opponent.
	if faultingDefendsPositive == ballLeftPositiveSide {
		return model.CornerKick
	}
	return model.GoalKick
}

// runningOrStopped reports Running(kind, team) immediately after entry,
// then Running(Run) once the ball has moved beyond tolerance, the dynamic
// timeout elapses, or (FreeKick only) a robot has closed within touching
// distance of the ball — spec.md §4.3's live-phase exit conditions.
func (sm *StateMachine) runningOrStopped(kind model.RunningKind, team model.TeamColor, now time.Time, ball vmath.Vec2, world *model.World) model.GameState {
	sm.pendingRunningKind, sm.pendingTeam = kind, team
	if sm.haveBallAtEntry && ball.Distance(sm.ballAtEntry) > ballMovedThreshold {
		return model.RunningState(model.Run)
	}
	if !sm.stateEnteredAt.IsZero() && now.Sub(sm.stateEnteredAt) > dynamicTimeout {
		return model.RunningState(model.Run)
	}
	if kind == model.FreeKick && world != nil && robotNearBall(world, ball) {
		return model.RunningState(model.Run)
	}
	return model.RunningTeamState(kind, team)
}

func robotNearBall(world *model.World, ball vmath.Vec2) bool {
	for _, r := range world.AlliesBot {
		if r.Pose.Position.Distance(ball) < robotTouchThreshold {
			return true
		}
	}
	for _, r := range world.EnemiesBot {
		if r.Pose.Position.Distance(ball) < robotTouchThreshold {
			return true
		}
	}
	return false
}
