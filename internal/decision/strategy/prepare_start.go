package strategy

import (
	"crabe/internal/decision/action"
	"crabe/internal/model"
	"crabe/internal/vmath"
)

// PrepareStart spreads every assigned robot across an even line halfway
// between the ally goal line and the halfway line (x = -FieldLength/4), a
// neutral ready formation the managers use for PrepareForGameStart.
// Grounded on
// original_source/crabe_decision/src/strategy/formations.rs's
// PrepareStart, invoked by bigbro.rs's prepare_start.
type PrepareStart struct{ base }

func NewPrepareStart(ids []uint8) *PrepareStart { return &PrepareStart{base: base{ids: ids}} }

func (*PrepareStart) Name() string { return "PrepareStart" }

func (p *PrepareStart) Step(world *model.World, tools *model.ToolData, actions *action.ActionWrapper) bool {
	n := len(p.ids)
	halfLen := world.Geometry.FieldLength / 2
	if halfLen == 0 {
		halfLen = 4.5
	}
	x := -halfLen / 2
	for i, id := range p.ids {
		y := spreadY(i, n, world.Geometry.FieldWidth)
		actions.Clear(id)
		actions.Push(id, action.NewMoveTo(vmath.Vec2{X: x, Y: y}, 0, 0, false, nil, false))
	}
	return false
}

// spreadY positions slot i of n evenly across [-width/2, width/2],
// defaulting to a 6 m field width before geometry has been received.
func spreadY(i, n int, width float64) float64 {
	if width == 0 {
		width = 6.0
	}
	if n <= 1 {
		return 0
	}
	step := width / float64(n+1)
	return -width/2 + step*float64(i+1)
}
