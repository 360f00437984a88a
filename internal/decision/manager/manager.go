// Package manager implements Decision's top tier: a Manager decides which
// Strategies apply this tick and steps them. Grounded on
// original_source/crabe_decision/src/manager/{game_manager,bigbro,
// test_manager}.rs.
package manager

import (
	"crabe/internal/decision/action"
	"crabe/internal/model"
)

// Manager is stepped once per tick by the Decision pipeline; it owns the
// current Strategy set and drives them against the tick's ActionWrapper.
type Manager interface {
	Step(world *model.World, tools *model.ToolData, actions *action.ActionWrapper)
}

// nonKeeperIDs returns every ally id except keeperID, sorted for
// deterministic formation slot assignment.
func nonKeeperIDs(world *model.World, keeperID uint8) []uint8 {
	ids := make([]uint8, 0, len(world.AlliesBot))
	for id := range world.AlliesBot {
		if id != keeperID {
			ids = append(ids, id)
		}
	}
	sortIDs(ids)
	return ids
}

func allIDs(world *model.World) []uint8 {
	ids := make([]uint8, 0, len(world.AlliesBot))
	for id := range world.AlliesBot {
		ids = append(ids, id)
	}
	sortIDs(ids)
	return ids
}

func sortIDs(ids []uint8) {
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && ids[j-1] > ids[j]; j-- {
			ids[j-1], ids[j] = ids[j], ids[j-1]
		}
	}
}

// keeperID is the fixed goalkeeper slot, matching the original's
// KEEPER_ID constant (original_source/crabe_decision/src/constants.rs).
const keeperID uint8 = 0
