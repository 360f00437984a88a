// Package decision implements the Decision stage of the tick pipeline
// (§4.4): it runs a Manager against the tick's World, folds every
// Strategy's queued Actions into a CommandMap via an ActionWrapper, and
// collects the tick's ToolData (annotations) for the
// downstream Tool Server. Grounded on
// original_source/crabe_decision/src/lib.rs's top-level step wiring.
package decision

import (
	"crabe/internal/decision/action"
	"crabe/internal/decision/manager"
	"crabe/internal/model"
)

// Pipeline owns the Manager and ActionWrapper for one match and is
// stepped once per tick.
type Pipeline struct {
	mgr     manager.Manager
	actions *action.ActionWrapper
}

// New builds a Decision pipeline driven by mgr. Callers pick the Manager
// implementation at startup (manager.NewGameStateManager,
// manager.NewBigBrotherManager, or manager.NewTestManager for bench runs).
func New(mgr manager.Manager) *Pipeline {
	return &Pipeline{mgr: mgr, actions: action.NewActionWrapper()}
}

// Step runs the Manager for this tick's World and returns the resulting
// CommandMap plus the ToolData gathered along the way. The World must be
// the one Filter produced this tick; Decision never mutates it.
func (p *Pipeline) Step(world *model.World) (model.CommandMap, model.ToolData) {
	tools := model.NewToolData()
	p.mgr.Step(world, &tools, p.actions)
	cmds := p.actions.Compute(world, &tools)
	return cmds, tools
}
