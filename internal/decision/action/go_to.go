package action

import (
	"crabe/internal/decision/nav"
	"crabe/internal/model"
	"crabe/internal/vmath"
)

// GoTo drives a robot to target without constraining orientation,
// translated from original_source's go_to.rs.
type GoTo struct {
	state    State
	target   vmath.Vec2
	dribbler float64
	charge   bool
	kick     *model.Kick
	fast     bool
}

func NewGoTo(target vmath.Vec2, dribbler float64, charge bool, kick *model.Kick, fast bool) *GoTo {
	return &GoTo{state: Running, target: target, dribbler: dribbler, charge: charge, kick: kick, fast: fast}
}

func (a *GoTo) Name() string { return "GoTo" }
func (a *GoTo) State() State { return a.state }
func (a *GoTo) Cancel()      { a.state = Failed }

func (a *GoTo) ComputeOrder(id uint8, world *model.World, tools *model.ToolData) model.Command {
	robot, ok := world.AlliesBot[id]
	if !ok {
		return model.Command{}
	}

	obstacles := nav.ObstaclesFor(world, id)
	waypoint := nav.Avoid(robot.Pose.Position, a.target, obstacles, world.Geometry.RobotRadius)

	local := waypoint.Sub(robot.Pose.Position).Rotate(-robot.Pose.Orientation)
	if local.Norm() < errTolerance {
		a.state = Done
	}

	speed := gotoSpeed
	if a.fast {
		speed = gotoSpeedFast
	}

	return model.Command{
		ForwardVelocity: speed * local.X,
		LeftVelocity:    speed * local.Y,
		Kick:            a.kick,
		Dribbler:        a.dribbler,
		Charge:          a.charge,
	}
}
