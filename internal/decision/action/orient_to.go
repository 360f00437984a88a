package action

import (
	"crabe/internal/model"
	"crabe/internal/vmath"
)

// OrientTo rotates a robot in place to a target orientation, without
// moving its position. Translated from original_source's orient_to.rs.
type OrientTo struct {
	state       State
	orientation float64
	dribbler    float64
	charge      bool
	kick        *model.Kick
	fast        bool
}

func NewOrientTo(orientation float64, dribbler float64, charge bool, kick *model.Kick, fast bool) *OrientTo {
	return &OrientTo{state: Running, orientation: orientation, dribbler: dribbler, charge: charge, kick: kick, fast: fast}
}

func (a *OrientTo) Name() string { return "OrientTo" }
func (a *OrientTo) State() State { return a.state }
func (a *OrientTo) Cancel()      { a.state = Failed }

func (a *OrientTo) ComputeOrder(id uint8, world *model.World, tools *model.ToolData) model.Command {
	robot, ok := world.AlliesBot[id]
	if !ok {
		return model.Command{}
	}

	errOrientation := vmath.AngleDiff(a.orientation, robot.Pose.Orientation)
	if errOrientation < errTolerance && errOrientation > -errTolerance {
		a.state = Done
	}

	rot := gotoRotation
	if a.fast {
		rot = gotoRotationFast
	}

	return model.Command{
		AngularVelocity: rot * errOrientation,
		Kick:            a.kick,
		Dribbler:        a.dribbler,
		Charge:          a.charge,
	}
}
