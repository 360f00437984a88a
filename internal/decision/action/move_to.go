package action

import (
	"math"

	"crabe/internal/decision/nav"
	"crabe/internal/model"
	"crabe/internal/vmath"
)

// Movement gains, translated from
// original_source/crabe_decision/src/action/move_to.go's tuned constants.
const (
	gotoSpeed         = 1.5
	gotoSpeedFast     = 3.0
	gotoRotation      = 1.5
	gotoRotationFast  = 3.0
	errTolerance      = 0.1
)

// MoveTo drives a robot to target with a target orientation, routing
// around obstacles via nav.Avoid.
type MoveTo struct {
	state       State
	target      vmath.Vec2
	orientation float64
	dribbler    float64
	charge      bool
	kick        *model.Kick
	fast        bool
}

func NewMoveTo(target vmath.Vec2, orientation float64, dribbler float64, charge bool, kick *model.Kick, fast bool) *MoveTo {
	return &MoveTo{state: Running, target: target, orientation: orientation, dribbler: dribbler, charge: charge, kick: kick, fast: fast}
}

func (a *MoveTo) Name() string  { return "MoveTo" }
func (a *MoveTo) State() State  { return a.state }
func (a *MoveTo) Cancel()       { a.state = Failed }

func (a *MoveTo) ComputeOrder(id uint8, world *model.World, tools *model.ToolData) model.Command {
	robot, ok := world.AlliesBot[id]
	if !ok {
		return model.Command{}
	}

	obstacles := nav.ObstaclesFor(world, id)
	waypoint := nav.Avoid(robot.Pose.Position, a.target, obstacles, world.Geometry.RobotRadius)

	toWaypoint := waypoint.Sub(robot.Pose.Position)
	local := toWaypoint.Rotate(-robot.Pose.Orientation)
	errOrientation := vmath.AngleDiff(a.orientation, robot.Pose.Orientation)

	arrived := math.Sqrt(local.X*local.X+local.Y*local.Y+errOrientation*errOrientation) < errTolerance
	if arrived {
		a.state = Done
	}

	speed, rot := gotoSpeed, gotoRotation
	if a.fast {
		speed, rot = gotoSpeedFast, gotoRotationFast
	}

	return model.Command{
		ForwardVelocity: speed * local.X,
		LeftVelocity:    speed * local.Y,
		AngularVelocity: rot * errOrientation,
		Kick:            a.kick,
		Dribbler:        a.dribbler,
		Charge:          a.charge,
	}
}
