package strategy

import (
	"math"
	"testing"

	"crabe/internal/decision/action"
	"crabe/internal/model"
	"crabe/internal/vmath"
)

func newTestWorld() *model.World {
	w := model.NewWorld(model.Blue)
	w.AllyOrInsert(0).Pose.Position = vmath.Vec2{X: -1, Y: 0}
	w.AllyOrInsert(1).Pose.Position = vmath.Vec2{X: 0, Y: 1}
	w.AllyOrInsert(2).Pose.Position = vmath.Vec2{X: 0, Y: -1}
	w.Ball = &model.Ball{}
	return w
}

func TestHaltPushesZeroCommand(t *testing.T) {
	w := newTestWorld()
	actions := action.NewActionWrapper()
	h := NewHalt([]uint8{0, 1})
	if done := h.Step(w, nil, actions); done {
		t.Fatalf("Halt should never report done")
	}
	cmds := actions.Compute(w, nil)
	for _, id := range []uint8{0, 1} {
		if cmd := cmds[id]; cmd != (model.Command{}) {
			t.Fatalf("expected zero command for id %d, got %+v", id, cmd)
		}
	}
}

func TestStopMaintainsClearanceFromBall(t *testing.T) {
	w := newTestWorld()
	w.Ball.Position = vmath.Vec3{X: -1, Y: 0}
	s := NewStop([]uint8{0})
	actions := action.NewActionWrapper()
	s.Step(w, nil, actions)
	cmds := actions.Compute(w, nil)
	// robot 0 sits exactly on the ball; it must be commanded to move away.
	cmd := cmds[0]
	if cmd.ForwardVelocity == 0 && cmd.LeftVelocity == 0 {
		t.Fatalf("expected Stop to drive robot away from the ball, got zero command")
	}
}

func TestGoalKeeperTracksBallYClampedToGoalWidth(t *testing.T) {
	w := newTestWorld()
	w.Geometry.NegativeGoal.Height = 1.0
	w.Ball.Position = vmath.Vec3{X: 0, Y: 5}
	g := NewGoalKeeper(0)
	actions := action.NewActionWrapper()
	g.Step(w, nil, actions)
	cmds := actions.Compute(w, nil)
	cmd, ok := cmds[0]
	if !ok {
		t.Fatalf("expected GoalKeeper to command robot 0")
	}
	// Ball y=5 is clamped to the goal half-width 0.5; robot 0 faces +x at
	// y=0, so the left velocity is gotoSpeed (1.5) * 0.5.
	if math.Abs(cmd.LeftVelocity-0.75) > 1e-9 {
		t.Fatalf("expected left velocity 0.75 toward the clamped y, got %v", cmd.LeftVelocity)
	}
}

func TestPrepareKickOffCommandsEveryID(t *testing.T) {
	w := newTestWorld()
	p := NewPrepareKickOff([]uint8{1, 2}, model.Blue)
	actions := action.NewActionWrapper()
	p.Step(w, nil, actions)
	cmds := actions.Compute(w, nil)
	if len(cmds) != 2 {
		t.Fatalf("expected both ids commanded, got %d", len(cmds))
	}
}

func TestMessagesDrainOnClear(t *testing.T) {
	p := NewPlay([]uint8{0})
	p.queue(model.MessageData{From: "Play", Kind: "shot_taken"})
	if len(p.Messages()) != 1 {
		t.Fatalf("expected one queued message")
	}
	p.ClearMessages()
	if len(p.Messages()) != 0 {
		t.Fatalf("expected ClearMessages to empty the queue")
	}
}

func TestSpreadYCentersSingleID(t *testing.T) {
	if y := spreadY(0, 1, 6.0); y != 0 {
		t.Fatalf("expected single id centered at y=0, got %v", y)
	}
}

func TestSpreadYDistributesEvenly(t *testing.T) {
	y0 := spreadY(0, 2, 6.0)
	y1 := spreadY(1, 2, 6.0)
	if y0 >= y1 {
		t.Fatalf("expected increasing y across slots, got %v then %v", y0, y1)
	}
	if y0 <= -3 || y1 >= 3 {
		t.Fatalf("expected slots within field width, got %v and %v", y0, y1)
	}
}
