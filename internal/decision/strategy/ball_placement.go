package strategy

import (
	"crabe/internal/decision/action"
	"crabe/internal/model"
	"crabe/internal/vmath"
)

// placementClearance is the distance ball-placement rules require every
// non-placing robot to keep from the ball.
const placementClearance = 0.5

// BallPlacementRetreat drives every assigned robot outside
// placementClearance of the ball so the game controller's autoref does
// not flag an interference foul during a BallPlacement stop. Grounded on
// original_source/crabe_decision/src/strategy/formations.rs's
// GoOutFromBall.
type BallPlacementRetreat struct{ base }

func NewBallPlacementRetreat(ids []uint8) *BallPlacementRetreat {
	return &BallPlacementRetreat{base: base{ids: ids}}
}

func (*BallPlacementRetreat) Name() string { return "BallPlacementRetreat" }

func (r *BallPlacementRetreat) Step(world *model.World, tools *model.ToolData, actions *action.ActionWrapper) bool {
	ball := vmath.Vec2{}
	if world.Ball != nil {
		ball = world.Ball.Position2D()
	}
	for _, id := range r.ids {
		robot, ok := world.AlliesBot[id]
		if !ok {
			continue
		}
		target := robot.Pose.Position
		if d := robot.Pose.Position.Distance(ball); d < placementClearance {
			dir := robot.Pose.Position.Sub(ball)
			if dir.Norm() < 1e-6 {
				dir = vmath.Vec2{Y: 1}
			}
			target = ball.Add(dir.Normalize().Scale(placementClearance + 0.1))
		}
		actions.Clear(id)
		actions.Push(id, action.NewGoTo(target, 0, false, nil, false))
	}
	return false
}
