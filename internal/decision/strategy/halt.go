package strategy

import (
	"crabe/internal/decision/action"
	"crabe/internal/model"
)

// Halt clears every assigned robot's action queue and holds it at the
// zero command, for GameState tiers where movement is forbidden
// (Halted, BallPlacement). Grounded on
// original_source/crabe_decision/src/strategy/formations.rs's Halt.
type Halt struct{ base }

func NewHalt(ids []uint8) *Halt {
	return &Halt{base: base{ids: ids}}
}

func (*Halt) Name() string { return "Halt" }

func (h *Halt) Step(world *model.World, tools *model.ToolData, actions *action.ActionWrapper) bool {
	for _, id := range h.ids {
		actions.Clear(id)
		actions.Push(id, action.NewRawOrder(model.Command{}))
	}
	return false
}
