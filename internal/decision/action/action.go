// Package action implements Decision's per-robot movement/kick primitives
// (MoveTo, GoTo, OrientTo, MoveToPID, RawOrder) and the Sequencer/
// ActionWrapper machinery that turns a strategy's queued actions into the
// tick's CommandMap. Translated from
// original_source/crabe_decision/src/action.rs and its sibling files —
// the Rust crate's enum_dispatch trait-object pattern becomes a plain Go
// interface, since Go has no sum-type dispatch macro to imitate.
package action

import (
	"crabe/internal/model"
)

// Action is one robot-level primitive: compute_order is called once per
// tick for as long as State() reports Running.
type Action interface {
	Name() string
	State() State
	ComputeOrder(id uint8, world *model.World, tools *model.ToolData) model.Command
	Cancel()
}

// ActionWrapper holds one Sequencer per robot currently assigned a task,
// and folds every robot's current action into the tick's CommandMap.
type ActionWrapper struct {
	sequencers map[uint8]*Sequencer
}

func NewActionWrapper() *ActionWrapper {
	return &ActionWrapper{sequencers: make(map[uint8]*Sequencer)}
}

// Push appends act to id's queue, creating the queue if this is the
// robot's first assigned action this match.
func (w *ActionWrapper) Push(id uint8, act Action) {
	if seq, ok := w.sequencers[id]; ok {
		seq.Push(act)
		return
	}
	w.sequencers[id] = NewSequencer(act)
}

// Clear empties id's queue, cancelling its current action.
func (w *ActionWrapper) Clear(id uint8) {
	if seq, ok := w.sequencers[id]; ok {
		seq.Clear()
	}
}

// ClearAll empties every robot's queue.
func (w *ActionWrapper) ClearAll() {
	for _, seq := range w.sequencers {
		seq.Clear()
	}
}

// Compute advances every robot's sequencer by one tick and returns the
// resulting CommandMap. A robot with no queued action is left out of the
// map entirely, so no command is sent for it this tick.
func (w *ActionWrapper) Compute(world *model.World, tools *model.ToolData) model.CommandMap {
	cmds := make(model.CommandMap, len(w.sequencers))
	for id, seq := range w.sequencers {
		if cmd, ok := seq.ComputeOrder(id, world, tools); ok {
			cmds[id] = cmd
		}
	}
	return cmds
}
