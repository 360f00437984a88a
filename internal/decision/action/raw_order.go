package action

import "crabe/internal/model"

// RawOrder sends a fixed Command verbatim, once, then reports Done —
// translated from original_source's order_raw.rs. Used by strategies
// that have already computed the exact velocities/kick they want (e.g.
// a BigBrotherManager override) and don't need any of the movement
// actions' closed-loop tracking.
type RawOrder struct {
	state State
	cmd   model.Command
}

func NewRawOrder(cmd model.Command) *RawOrder {
	return &RawOrder{state: Running, cmd: cmd}
}

func (a *RawOrder) Name() string { return "RawOrder" }
func (a *RawOrder) State() State { return a.state }
func (a *RawOrder) Cancel()      { a.state = Failed }

func (a *RawOrder) ComputeOrder(id uint8, world *model.World, tools *model.ToolData) model.Command {
	a.state = Done
	return a.cmd
}
