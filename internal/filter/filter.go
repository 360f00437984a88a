// Package filter is the World's sole writer: it folds InboundData into
// tracked robot/ball state, reconciles raw vision-frame coordinates onto
// the team-relative field frame, runs the referee state machine, and
// hands the result to Decision as a coherent World snapshot. Grounded on
// spec.md §4.2 and the tracked-entity merge logic described by
// original_source/crabe_filter (one pass of pre-filters building a
// per-camera view, one pass of post-filters producing the team-relative
// World).
package filter

import (
	"math"
	"time"

	"crabe/internal/input"
	"crabe/internal/model"
	"crabe/internal/referee"
	"crabe/internal/vmath"
	"crabe/internal/wire"
)

// mmToM converts SSL-Vision's millimeter coordinates to this stack's
// meters, used throughout the pipeline.
const mmToM = 1.0 / 1000.0

// FieldMask restricts the World's robots and ball to one half of the
// field by deletion, for split-field testing (spec.md §4.2 "optional
// filters"), grounded on
// original_source/crabe_filter/src/post_filter/field_mask.rs's
// FieldMaskFilter. original_source also has a FieldSideFilter
// (post_filter/field_side.rs) under a separate name, but its
// filter_robots_by_side/filter_ball_by_side bodies are the same
// retain-by-sign-of-x logic as FieldMaskFilter's — the two are the same
// filter under two names in the Rust source, so FieldMask alone covers
// both here instead of carrying a duplicate type.
type FieldMask int

const (
	FieldMaskNone FieldMask = iota
	FieldMaskPositive
	FieldMaskNegative
)

// Pipeline owns the World and every piece of cross-tick filter state: the
// referee state machine and the configured optional FieldMask post-filter.
type Pipeline struct {
	world *model.World
	ref   *referee.StateMachine

	fieldMask FieldMask
}

// New constructs a Pipeline that owns world. fieldMask selects the
// optional FieldMask post-filter (FieldMaskNone disables it); the §4.2c
// coordinate-reconciliation mirror is mandatory and always runs.
func New(world *model.World, fieldMask FieldMask) *Pipeline {
	return &Pipeline{
		world:     world,
		ref:       referee.New(),
		fieldMask: fieldMask,
	}
}

// Step folds one tick's InboundData into the World and returns it. Filter
// is the only pipeline stage allowed to mutate the World's robot/ball
// maps; every later stage this tick only reads it.
func (p *Pipeline) Step(in input.InboundData, now time.Time) *model.World {
	for _, pkt := range in.Vision {
		p.applyWrapperPacket(pkt, now)
	}
	for _, pkt := range in.Tracker {
		p.applyWrapperPacket(pkt, now)
	}

	ballPos := vmath.Vec2{}
	if p.world.Ball != nil {
		ballPos = p.world.Ball.Position2D()
	}
	for _, pkt := range in.Referee {
		p.ref.ApplyPacket(p.world, pkt, ballPos, now)
	}

	p.normalizeFieldSide()
	if p.fieldMask != FieldMaskNone {
		p.applyFieldMask()
	}

	p.updatePossession()

	return p.world
}

func (p *Pipeline) applyWrapperPacket(pkt *wire.WrapperPacket, now time.Time) {
	if pkt.Geometry != nil {
		p.applyGeometry(pkt.Geometry)
	}
	if pkt.Detection != nil {
		p.applyDetection(pkt.Detection, now)
	}
}

func (p *Pipeline) applyGeometry(g *wire.GeometryData) {
	fs := g.Field
	if fs.FieldLength == 0 {
		return
	}
	geo := &p.world.Geometry
	geo.FieldLength = float64(fs.FieldLength) * mmToM
	geo.FieldWidth = float64(fs.FieldWidth) * mmToM
	geo.CenterCircle = vmath.Circle{Center: vmath.Vec2{}, Radius: float64(fs.CenterCircleRadius) * mmToM}
	if fs.BallRadius > 0 {
		geo.BallRadius = float64(fs.BallRadius) * mmToM
	}
	if fs.RobotRadius > 0 {
		geo.RobotRadius = float64(fs.RobotRadius) * mmToM
	}

	halfLen := geo.FieldLength / 2
	goalHalfWidth := float64(fs.GoalWidth) * mmToM / 2
	goalDepth := float64(fs.GoalDepth) * mmToM
	geo.PositiveGoal = vmath.NewRectangle(goalDepth, 2*goalHalfWidth, vmath.Vec2{X: halfLen, Y: goalHalfWidth})
	geo.NegativeGoal = vmath.NewRectangle(goalDepth, 2*goalHalfWidth, vmath.Vec2{X: -halfLen - goalDepth, Y: goalHalfWidth})

	penHalfWidth := float64(fs.PenaltyAreaWidth) * mmToM / 2
	penDepth := float64(fs.PenaltyAreaDepth) * mmToM
	geo.PositivePenalty = vmath.NewRectangle(penDepth, 2*penHalfWidth, vmath.Vec2{X: halfLen, Y: penHalfWidth})
	geo.NegativePenalty = vmath.NewRectangle(penDepth, 2*penHalfWidth, vmath.Vec2{X: -halfLen, Y: penHalfWidth})

	geo.Received = true
}

func (p *Pipeline) applyDetection(f *wire.DetectionFrame, now time.Time) {
	for _, rob := range f.RobotsBlue {
		p.applyRobotObservation(model.Blue, rob, now)
	}
	for _, rob := range f.RobotsYellow {
		p.applyRobotObservation(model.Yellow, rob, now)
	}
	for _, ball := range f.Balls {
		p.applyBallObservation(ball, now)
	}
}

func (p *Pipeline) applyRobotObservation(color model.TeamColor, obs wire.DetectionRobot, now time.Time) {
	if !obs.HasID {
		return
	}
	pos := vmath.Vec2{X: float64(obs.X) * mmToM, Y: float64(obs.Y) * mmToM}
	if color == p.world.TeamColor {
		r := p.world.AllyOrInsert(obs.ID)
		updatePose(&r.Pose, &r.Velocity, &r.Acceleration, pos, float64(obs.Orientation))
		r.Timestamp = now
	} else {
		r := p.world.EnemyOrInsert(obs.ID)
		updatePose(&r.Pose, &r.Velocity, &r.Acceleration, pos, float64(obs.Orientation))
		r.Timestamp = now
	}
}

// updatePose commits the latest observation as the entity's pose and
// resets velocity/acceleration to their zero value: the filter's
// passthrough mode from spec.md §4.2b, which commits "(position,
// orientation, capture timestamp, default velocity/acceleration)" — no
// Kalman smoothing, no differentiation, camera frames trusted directly.
// Grounded on
// original_source/crabe_filter/src/filter/passthrough.rs, whose robot
// path sets linear_velocity/angular_velocity to Default::default() on
// every commit. A more elaborate filter (velocity/acceleration
// estimation) would replace this function with the same contract; none
// is wired in here.
func updatePose(pose *model.Pose, vel *model.Velocity, accel *model.Acceleration, pos vmath.Vec2, orientation float64) {
	pose.Position = pos
	pose.Orientation = orientation
	*vel = model.Velocity{}
	*accel = model.Acceleration{}
}

func (p *Pipeline) applyBallObservation(obs wire.DetectionBall, now time.Time) {
	pos := vmath.Vec3{X: float64(obs.X) * mmToM, Y: float64(obs.Y) * mmToM, Z: float64(obs.Z) * mmToM}
	if p.world.Ball == nil {
		p.world.Ball = &model.Ball{Position: pos, Timestamp: now}
		return
	}
	b := p.world.Ball
	dt := now.Sub(b.Timestamp).Seconds()
	if dt > 0 && dt <= 0.5 {
		newVel := pos.Sub(b.Position)
		newVel.X, newVel.Y, newVel.Z = newVel.X/dt, newVel.Y/dt, newVel.Z/dt
		accel := newVel.Sub(b.Velocity)
		accel.X, accel.Y, accel.Z = accel.X/dt, accel.Y/dt, accel.Z/dt
		b.Acceleration = accel
		b.Velocity = newVel
	}
	b.Position = pos
	b.Timestamp = now

	if id, dist, ok := model.ClosestRobot(b, p.world.AlliesBot); ok && dist < p.world.Geometry.RobotRadius+p.world.Geometry.BallRadius+0.02 {
		b.LastTouch = &model.BallTouchInfo{RobotID: id, TeamColor: p.world.TeamColor, Timestamp: now, Position: pos}
	} else if id, dist, ok := model.ClosestRobot(b, p.world.EnemiesBot); ok && dist < p.world.Geometry.RobotRadius+p.world.Geometry.BallRadius+0.02 {
		b.LastTouch = &model.BallTouchInfo{RobotID: id, TeamColor: p.world.TeamColor.Opposite(), Timestamp: now, Position: pos}
	}
}

// updatePossession derives Ball.Possession from LastTouch, per SPEC_FULL's
// supplemented possession helper: possession belongs to whichever team
// touched the ball last, cleared once the ball has traveled far enough
// from that touch that the attribution is stale (2m).
func (p *Pipeline) updatePossession() {
	b := p.world.Ball
	if b == nil || b.LastTouch == nil {
		return
	}
	if b.Position2D().Distance(b.LastTouch.Position.XY()) > 2.0 {
		b.LastTouch = nil
		b.Possession = nil
		return
	}
	color := b.LastTouch.TeamColor
	b.Possession = &color
}

// normalizeFieldSide is spec.md §4.2c's mandatory coordinate
// reconciliation: it mirrors every tracked position/orientation so the
// ally team always defends -x, regardless of which half the referee
// assigned it. Decision and Guard are written against this normalized
// frame; only Input/Output ever see raw vision coordinates. Unlike
// FieldMask this always runs — there is no config knob for it, only the
// internal "does this team currently defend the positive half" check.
func (p *Pipeline) normalizeFieldSide() {
	color, known := p.world.PositiveHalf()
	if !known || color != p.world.TeamColor {
		return
	}
	for _, r := range p.world.AlliesBot {
		mirrorRobot(r)
	}
	for _, r := range p.world.EnemiesBot {
		mirrorRobot(r)
	}
	if p.world.Ball != nil {
		p.world.Ball.Position.X = -p.world.Ball.Position.X
		p.world.Ball.Velocity.X = -p.world.Ball.Velocity.X
	}
}

// mirrorRobot applies §4.2c's literal transform: x ← −x, orientation ← π−orientation.
// y is left untouched — only the x-axis defines which goal a side defends.
// A reflection flips the sign of every velocity component measured along
// a flipped axis, linear and angular alike (mirroring orientation without
// mirroring the rate it turns at would be inconsistent).
func mirrorRobot[T any](r *model.Robot[T]) {
	r.Pose.Position.X = -r.Pose.Position.X
	r.Pose.Orientation = vmath.AngleDiff(math.Pi-r.Pose.Orientation, 0)
	r.Velocity.Linear.X = -r.Velocity.Linear.X
	r.Velocity.Angular = -r.Velocity.Angular
}

// applyFieldMask deletes every robot and the ball that falls on the
// excluded half, per the FieldMask post-filter configured on this
// Pipeline. Grounded on
// original_source/crabe_filter/src/post_filter/field_mask.rs's
// FieldMaskFilter: robot maps are filtered by retaining only the
// configured side, the ball is dropped outright rather than retained
// when it falls outside it.
func (p *Pipeline) applyFieldMask() {
	keep := func(x float64) bool {
		if p.fieldMask == FieldMaskPositive {
			return x >= 0
		}
		return x <= 0
	}
	for id, r := range p.world.AlliesBot {
		if !keep(r.Pose.Position.X) {
			delete(p.world.AlliesBot, id)
		}
	}
	for id, r := range p.world.EnemiesBot {
		if !keep(r.Pose.Position.X) {
			delete(p.world.EnemiesBot, id)
		}
	}
	if p.world.Ball != nil && !keep(p.world.Ball.Position.X) {
		p.world.Ball = nil
	}
}
