package guard

import (
	"math"
	"testing"

	"crabe/internal/model"
	"crabe/internal/vmath"
)

func TestSpeedGuardZeroesNaN(t *testing.T) {
	world := model.NewWorld(model.Blue)
	world.Data.Orders.SpeedLimit = 6.0
	cmds := model.CommandMap{0: {ForwardVelocity: math.NaN(), LeftVelocity: math.NaN(), AngularVelocity: math.NaN()}}

	g := &SpeedGuard{}
	g.Apply(world, cmds, &model.ToolData{}, nil)

	cmd := cmds[0]
	if cmd.ForwardVelocity != 0 || cmd.LeftVelocity != 0 || cmd.AngularVelocity != 0 {
		t.Fatalf("expected NaN velocities zeroed, got %+v", cmd)
	}
}

func TestSpeedGuardClampsToStateLimit(t *testing.T) {
	world := model.NewWorld(model.Blue)
	world.Data.Orders.SpeedLimit = model.StoppedState(model.Stop).SpeedLimit()
	cmds := model.CommandMap{0: {ForwardVelocity: 9.0, LeftVelocity: -9.0}}

	g := &SpeedGuard{}
	g.Apply(world, cmds, &model.ToolData{}, nil)

	cmd := cmds[0]
	if cmd.ForwardVelocity != 1.5 {
		t.Fatalf("expected forward_velocity clamped to 1.5, got %v", cmd.ForwardVelocity)
	}
	if cmd.LeftVelocity != -1.5 {
		t.Fatalf("expected left_velocity clamped to -1.5, got %v", cmd.LeftVelocity)
	}
}

func TestSpeedGuardClampsAngularAndKickPower(t *testing.T) {
	world := model.NewWorld(model.Blue)
	world.Data.Orders.SpeedLimit = 6.0
	cmds := model.CommandMap{0: {AngularVelocity: 100, Kick: &model.Kick{Power: 50}}}

	g := &SpeedGuard{}
	g.Apply(world, cmds, &model.ToolData{}, nil)

	cmd := cmds[0]
	if cmd.AngularVelocity != MaxAngular {
		t.Fatalf("expected angular_velocity clamped to %v, got %v", MaxAngular, cmd.AngularVelocity)
	}
	if cmd.Kick.Power != MaxKickPower {
		t.Fatalf("expected kick power clamped to %v, got %v", MaxKickPower, cmd.Kick.Power)
	}
}

func TestCollisionDiagnosticAnnotatesNearbyRobots(t *testing.T) {
	world := model.NewWorld(model.Blue)
	world.AllyOrInsert(0).Pose.Position = vmath.Vec2{X: 0, Y: 0}
	world.AllyOrInsert(1).Pose.Position = vmath.Vec2{X: 0.05, Y: 0}
	tools := model.NewToolData()

	g := &CollisionDiagnostic{}
	g.Apply(world, model.CommandMap{}, &tools, nil)

	if len(tools.Annotations.All()) == 0 {
		t.Fatalf("expected a collision annotation for two overlapping robots")
	}
}

func TestCollisionDiagnosticIgnoresDistantRobots(t *testing.T) {
	world := model.NewWorld(model.Blue)
	world.AllyOrInsert(0).Pose.Position = vmath.Vec2{X: 0, Y: 0}
	world.AllyOrInsert(1).Pose.Position = vmath.Vec2{X: 5, Y: 0}
	tools := model.NewToolData()

	g := &CollisionDiagnostic{}
	g.Apply(world, model.CommandMap{}, &tools, nil)

	if len(tools.Annotations.All()) != 0 {
		t.Fatalf("expected no annotation for distant robots, got %v", tools.Annotations.All())
	}
}
