package strategy

import (
	"crabe/internal/decision/action"
	"crabe/internal/model"
	"crabe/internal/vmath"
)

// PrepareKickOff lines every assigned (non-keeper) robot up on the ally
// side of the halfway line: 0.2 m behind it for the ally's kickoff, and a
// quarter of the field length behind it for the enemy's, clear of the
// center circle. Grounded on
// original_source/crabe_decision/src/strategy/formations.rs's
// PrepareKickOffAlly/PrepareKickOffEnemy, merged into one strategy
// parametrized by the kicking team (the Run-state assignment after
// NormalStart is the Manager's concern, not this strategy's).
type PrepareKickOff struct {
	base
	forTeam model.TeamColor
}

func NewPrepareKickOff(ids []uint8, forTeam model.TeamColor) *PrepareKickOff {
	return &PrepareKickOff{base: base{ids: ids}, forTeam: forTeam}
}

func (*PrepareKickOff) Name() string { return "PrepareKickOff" }

func (p *PrepareKickOff) Step(world *model.World, tools *model.ToolData, actions *action.ActionWrapper) bool {
	n := len(p.ids)
	halfLen := world.Geometry.FieldLength / 2
	if halfLen == 0 {
		halfLen = 4.5
	}
	standoff := 0.2
	x := -standoff
	if p.forTeam != world.TeamColor {
		// Enemy's kickoff: stand well clear of the center circle on the
		// ally half so the robots don't encroach before NormalStart.
		x = -halfLen / 4
	}
	for i, id := range p.ids {
		y := spreadY(i, n, world.Geometry.FieldWidth)
		actions.Clear(id)
		actions.Push(id, action.NewMoveTo(vmath.Vec2{X: x, Y: y}, 0, 0, false, nil, false))
	}
	return false
}
