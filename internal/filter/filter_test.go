package filter

import (
	"math"
	"testing"
	"time"

	"crabe/internal/input"
	"crabe/internal/model"
	"crabe/internal/vmath"
	"crabe/internal/wire"
)

func newTestWorld() *model.World {
	return model.NewWorld(model.Blue)
}

// updatePose must commit the observation and reset velocity/acceleration
// to zero regardless of what they held before, per the passthrough
// contract (spec.md §4.2b).
func TestUpdatePoseCommitsPositionAndZerosDerivatives(t *testing.T) {
	pose := model.Pose{Position: vmath.Vec2{X: 1, Y: 1}, Orientation: 0.5}
	vel := model.Velocity{Linear: vmath.Vec2{X: 3, Y: 4}, Angular: 2}
	accel := model.Acceleration{Linear: vmath.Vec2{X: 9, Y: 9}, Angular: 9}

	updatePose(&pose, &vel, &accel, vmath.Vec2{X: 2, Y: 3}, 1.2)

	if pose.Position != (vmath.Vec2{X: 2, Y: 3}) || pose.Orientation != 1.2 {
		t.Fatalf("expected pose to round-trip the observation, got %+v", pose)
	}
	if vel != (model.Velocity{}) {
		t.Fatalf("expected velocity to be zeroed by the passthrough filter, got %+v", vel)
	}
	if accel != (model.Acceleration{}) {
		t.Fatalf("expected acceleration to be zeroed by the passthrough filter, got %+v", accel)
	}
}

// A lone observation (no prior pose) must behave the same way: position
// committed, derivatives at their zero value.
func TestUpdatePoseFirstObservationHasZeroDerivatives(t *testing.T) {
	var pose model.Pose
	var vel model.Velocity
	var accel model.Acceleration

	updatePose(&pose, &vel, &accel, vmath.Vec2{X: 5, Y: -1}, 0)

	if pose.Position != (vmath.Vec2{X: 5, Y: -1}) {
		t.Fatalf("expected position to be committed, got %+v", pose)
	}
	if vel != (model.Velocity{}) || accel != (model.Acceleration{}) {
		t.Fatalf("expected zero derivatives on a fresh entity, got vel=%+v accel=%+v", vel, accel)
	}
}

// mirrorRobot's reflection must flip every axis-aligned quantity: x
// position, orientation (about pi), and both linear-x and angular
// velocity. Leaving angular velocity unflipped while flipping orientation
// would be an inconsistent reflection.
func TestMirrorRobotFlipsPositionOrientationAndVelocity(t *testing.T) {
	r := &model.Robot[model.AllyInfo]{
		Pose:     model.Pose{Position: vmath.Vec2{X: 1.5, Y: 0.4}, Orientation: 0.3},
		Velocity: model.Velocity{Linear: vmath.Vec2{X: 2, Y: -1}, Angular: 1.7},
	}

	mirrorRobot(r)

	if r.Pose.Position.X != -1.5 {
		t.Fatalf("expected x position negated, got %v", r.Pose.Position.X)
	}
	if r.Pose.Position.Y != 0.4 {
		t.Fatalf("expected y position untouched, got %v", r.Pose.Position.Y)
	}
	wantOrientation := vmath.AngleDiff(math.Pi-0.3, 0)
	if r.Pose.Orientation != wantOrientation {
		t.Fatalf("expected orientation pi-orientation = %v, got %v", wantOrientation, r.Pose.Orientation)
	}
	if r.Velocity.Linear.X != -2 {
		t.Fatalf("expected linear x velocity negated, got %v", r.Velocity.Linear.X)
	}
	if r.Velocity.Angular != -1.7 {
		t.Fatalf("expected angular velocity negated, got %v", r.Velocity.Angular)
	}
}

// normalizeFieldSide is a no-op until the referee has reported which
// color defends the positive half, and a no-op again once it has if the
// ally team isn't that color — only an ally-defends-positive-half World
// gets mirrored onto the "ally always defends -x" frame.
func TestNormalizeFieldSideOnlyMirrorsWhenAllyDefendsPositiveHalf(t *testing.T) {
	w := newTestWorld() // ally is Blue
	w.AlliesBot[0] = &model.Robot[model.AllyInfo]{ID: 0, Pose: model.Pose{Position: vmath.Vec2{X: 1, Y: 0}}}
	p := &Pipeline{world: w}

	p.normalizeFieldSide()
	if w.AlliesBot[0].Pose.Position.X != 1 {
		t.Fatalf("expected no mirror before positive half is known, got x=%v", w.AlliesBot[0].Pose.Position.X)
	}

	yellow := model.Yellow
	w.Data.PositiveHalf = &yellow
	p.normalizeFieldSide()
	if w.AlliesBot[0].Pose.Position.X != 1 {
		t.Fatalf("expected no mirror when ally (Blue) doesn't defend the positive half, got x=%v", w.AlliesBot[0].Pose.Position.X)
	}

	blue := model.Blue
	w.Data.PositiveHalf = &blue
	p.normalizeFieldSide()
	if w.AlliesBot[0].Pose.Position.X != -1 {
		t.Fatalf("expected the ally robot mirrored once it defends the positive half, got x=%v", w.AlliesBot[0].Pose.Position.X)
	}
}

// applyFieldMask deletes robots and the ball on the excluded half; it
// never reports a violation in place, it removes the entity outright
// (SPEC_FULL.md's supplemented FieldMask post-filter).
func TestApplyFieldMaskDeletesOppositeHalf(t *testing.T) {
	w := newTestWorld()
	w.AlliesBot[0] = &model.Robot[model.AllyInfo]{ID: 0, Pose: model.Pose{Position: vmath.Vec2{X: 1, Y: 0}}}
	w.AlliesBot[1] = &model.Robot[model.AllyInfo]{ID: 1, Pose: model.Pose{Position: vmath.Vec2{X: -1, Y: 0}}}
	w.EnemiesBot[2] = &model.Robot[model.EnemyInfo]{ID: 2, Pose: model.Pose{Position: vmath.Vec2{X: -2, Y: 0}}}
	w.Ball = &model.Ball{Position: vmath.Vec3{X: -0.5}}

	p := &Pipeline{world: w, fieldMask: FieldMaskPositive}
	p.applyFieldMask()

	if _, ok := w.AlliesBot[0]; !ok {
		t.Fatalf("expected the positive-half ally to survive")
	}
	if _, ok := w.AlliesBot[1]; ok {
		t.Fatalf("expected the negative-half ally to be deleted")
	}
	if _, ok := w.EnemiesBot[2]; ok {
		t.Fatalf("expected the negative-half enemy to be deleted")
	}
	if w.Ball != nil {
		t.Fatalf("expected the negative-half ball to be dropped, got %+v", w.Ball)
	}
}

func TestApplyFieldMaskNoneLeavesWorldUntouched(t *testing.T) {
	w := newTestWorld()
	w.AlliesBot[0] = &model.Robot[model.AllyInfo]{ID: 0, Pose: model.Pose{Position: vmath.Vec2{X: -5, Y: 0}}}
	p := New(w, FieldMaskNone)

	in := input.InboundData{}
	p.Step(in, time.Unix(0, 0))

	if _, ok := w.AlliesBot[0]; !ok {
		t.Fatalf("expected FieldMaskNone to never delete anything")
	}
}

// Step must drive the referee state machine with every Referee packet in
// the tick's InboundData, folding the result into World.Data.Orders.
func TestStepDrivesRefereeStateMachine(t *testing.T) {
	w := newTestWorld()
	p := New(w, FieldMaskNone)

	in := input.InboundData{Referee: []*wire.RefereePacket{{Command: wire.CommandForceStart}}}
	p.Step(in, time.Unix(0, 0))

	if w.Data.Orders.State.Tier != model.TierRunning {
		t.Fatalf("expected ForceStart to drive the world into TierRunning, got %v", w.Data.Orders.State)
	}
}
