package strategy

import (
	"crabe/internal/decision/action"
	"crabe/internal/model"
	"crabe/internal/vmath"
)

// stopDistance is the minimum ball clearance the Stop command requires.
const stopDistance = 0.6

// Stop drives every assigned robot at least stopDistance away from the
// ball, holding position otherwise. Grounded on
// original_source/crabe_decision/src/strategy/formations.rs's
// MoveAwayFromBall, invoked by bigbro.rs's everyone_stop.
type Stop struct{ base }

func NewStop(ids []uint8) *Stop { return &Stop{base: base{ids: ids}} }

func (*Stop) Name() string { return "Stop" }

func (s *Stop) Step(world *model.World, tools *model.ToolData, actions *action.ActionWrapper) bool {
	ball := vmath.Vec2{}
	if world.Ball != nil {
		ball = world.Ball.Position2D()
	}
	for _, id := range s.ids {
		robot, ok := world.AlliesBot[id]
		if !ok {
			continue
		}
		target := robot.Pose.Position
		if d := robot.Pose.Position.Distance(ball); d < stopDistance {
			dir := robot.Pose.Position.Sub(ball)
			if dir.Norm() < 1e-6 {
				dir = vmath.Vec2{X: 1}
			}
			target = ball.Add(dir.Normalize().Scale(stopDistance))
		}
		actions.Clear(id)
		actions.Push(id, action.NewGoTo(target, 0, false, nil, false))
	}
	return false
}
