package referee

import (
	"testing"
	"time"

	"crabe/internal/model"
	"crabe/internal/vmath"
	"crabe/internal/wire"
)

func newWorld() *model.World {
	return model.NewWorld(model.Blue)
}

func TestHaltMapsToHaltedState(t *testing.T) {
	sm := New()
	w := newWorld()
	pkt := &wire.RefereePacket{Command: wire.CommandHalt}
	sm.ApplyPacket(w, pkt, vmath.Vec2{}, time.Unix(0, 0))

	if w.Data.Orders.State.Tier != model.TierHalted {
		t.Fatalf("expected TierHalted, got %v", w.Data.Orders.State)
	}
	if w.Data.Orders.SpeedLimit != 0 {
		t.Fatalf("expected speed limit 0, got %v", w.Data.Orders.SpeedLimit)
	}
}

func TestPrepareKickoffThenNormalStartStaysKickOffUntilBallMoves(t *testing.T) {
	sm := New()
	w := newWorld()
	base := time.Unix(0, 0)

	sm.ApplyPacket(w, &wire.RefereePacket{Command: wire.CommandPrepareKickoffBlue, CommandCounter: 1}, vmath.Vec2{}, base)
	if w.Data.Orders.State.Tier != model.TierStopped || w.Data.Orders.State.Stopped != model.PrepareKickoff {
		t.Fatalf("expected Stopped(PrepareKickoff), got %v", w.Data.Orders.State)
	}

	sm.ApplyPacket(w, &wire.RefereePacket{Command: wire.CommandNormalStart, CommandCounter: 2}, vmath.Vec2{}, base.Add(time.Second))
	if w.Data.Orders.State.Tier != model.TierRunning || w.Data.Orders.State.Running != model.KickOff {
		t.Fatalf("expected Running(KickOff) before ball moves, got %v", w.Data.Orders.State)
	}

	moved := vmath.Vec2{X: 0.2, Y: 0}
	sm.ApplyPacket(w, &wire.RefereePacket{Command: wire.CommandNormalStart, CommandCounter: 2}, moved, base.Add(2*time.Second))
	if w.Data.Orders.State != model.RunningState(model.Run) {
		t.Fatalf("expected Running(Run) once ball has moved, got %v", w.Data.Orders.State)
	}
}

func TestStopWithStoppingFoulEventYieldsFoulStop(t *testing.T) {
	sm := New()
	w := newWorld()
	pkt := &wire.RefereePacket{
		Command:    wire.CommandStop,
		GameEvents: []wire.RefereeGameEvent{{Type: int32(model.EventBotPushedBot)}},
	}
	sm.ApplyPacket(w, pkt, vmath.Vec2{}, time.Unix(0, 0))

	if w.Data.Orders.State.Stopped != model.FoulStop {
		t.Fatalf("expected FoulStop, got %v", w.Data.Orders.State)
	}
}

func TestStopAfterGoalYieldsPrepareKickoffForConcedingTeam(t *testing.T) {
	sm := New()
	w := newWorld()
	base := time.Unix(0, 0)

	sm.ApplyPacket(w, &wire.RefereePacket{Command: wire.CommandHalt, CommandCounter: 1, Blue: wire.RefereeTeamInfo{Score: 0}, Yellow: wire.RefereeTeamInfo{Score: 0}}, vmath.Vec2{}, base)
	sm.ApplyPacket(w, &wire.RefereePacket{Command: wire.CommandStop, CommandCounter: 2, Blue: wire.RefereeTeamInfo{Score: 1}, Yellow: wire.RefereeTeamInfo{Score: 0}}, vmath.Vec2{}, base.Add(time.Second))

	if w.Data.Orders.State.Stopped != model.PrepareKickoff || w.Data.Orders.State.Team != model.Yellow {
		t.Fatalf("expected Stopped(PrepareKickoff(yellow)) after blue scores, got %v", w.Data.Orders.State)
	}
}

func TestDynamicTimeoutForcesRun(t *testing.T) {
	sm := New()
	w := newWorld()
	base := time.Unix(0, 0)

	sm.ApplyPacket(w, &wire.RefereePacket{Command: wire.CommandDirectFreeBlue, CommandCounter: 1}, vmath.Vec2{}, base)
	sm.ApplyPacket(w, &wire.RefereePacket{Command: wire.CommandDirectFreeBlue, CommandCounter: 1}, vmath.Vec2{}, base.Add(11*time.Second))

	if w.Data.Orders.State != model.RunningState(model.Run) {
		t.Fatalf("expected Running(Run) after dynamic timeout, got %v", w.Data.Orders.State)
	}
}

func TestDirectFreeEndsWhenRobotTouchesBall(t *testing.T) {
	sm := New()
	w := newWorld()
	base := time.Unix(0, 0)

	sm.ApplyPacket(w, &wire.RefereePacket{Command: wire.CommandDirectFreeBlue, CommandCounter: 1}, vmath.Vec2{}, base)
	w.AllyOrInsert(0).Pose.Position = vmath.Vec2{X: 0.01, Y: 0}
	sm.ApplyPacket(w, &wire.RefereePacket{Command: wire.CommandDirectFreeBlue, CommandCounter: 1}, vmath.Vec2{}, base.Add(100*time.Millisecond))

	if w.Data.Orders.State != model.RunningState(model.Run) {
		t.Fatalf("expected Running(Run) once a robot reaches the ball, got %v", w.Data.Orders.State)
	}
}
