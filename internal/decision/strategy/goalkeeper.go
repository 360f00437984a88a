package strategy

import (
	"crabe/internal/decision/action"
	"crabe/internal/model"
	"crabe/internal/vmath"
)

// GoalKeeper parks its one robot on the ally goal line, sliding along it
// to track the ball's lateral position. Grounded on
// original_source/crabe_decision/src/strategy/keeper.rs's Goal/Keep,
// simplified to the single positioning behavior common to both (the
// penalty-specific dash-out behavior of Keep is tactical content left to
// the implementer per spec.md §1).
type GoalKeeper struct{ base }

func NewGoalKeeper(id uint8) *GoalKeeper { return &GoalKeeper{base: base{ids: []uint8{id}}} }

func (*GoalKeeper) Name() string { return "GoalKeeper" }

func (g *GoalKeeper) Step(world *model.World, tools *model.ToolData, actions *action.ActionWrapper) bool {
	if len(g.ids) == 0 {
		return false
	}
	id := g.ids[0]
	halfLen := world.Geometry.FieldLength / 2
	if halfLen == 0 {
		halfLen = 4.5
	}
	goalHalfWidth := world.Geometry.NegativeGoal.Height / 2
	if goalHalfWidth == 0 {
		goalHalfWidth = 0.5
	}

	y := 0.0
	if world.Ball != nil {
		y = world.Ball.Position2D().Y
		if y > goalHalfWidth {
			y = goalHalfWidth
		}
		if y < -goalHalfWidth {
			y = -goalHalfWidth
		}
	}
	target := vmath.Vec2{X: -halfLen + world.Geometry.RobotRadius + 0.05, Y: y}
	actions.Clear(id)
	actions.Push(id, action.NewMoveTo(target, 0, 0, false, nil, false))
	return false
}
