package manager

import (
	"crabe/internal/decision/action"
	"crabe/internal/decision/strategy"
	"crabe/internal/model"
)

// TestManager runs a fixed, manually-supplied list of strategies one at a
// time: it steps only the head strategy, dropping it once it reports
// finished and advancing to the next. Intended for exercising individual
// strategies in isolation, not for an actual match. Grounded on
// original_source/crabe_decision/src/manager/test_manager.rs's TestManager.
type TestManager struct {
	strategies []strategy.Strategy
}

// NewTestManager runs each of strategies in sequence, one per head slot.
func NewTestManager(strategies ...strategy.Strategy) *TestManager {
	return &TestManager{strategies: strategies}
}

func (m *TestManager) Step(world *model.World, tools *model.ToolData, actions *action.ActionWrapper) {
	if len(m.strategies) == 0 {
		return
	}
	done := m.strategies[0].Step(world, tools, actions)
	if done {
		m.strategies = m.strategies[1:]
	}
}
