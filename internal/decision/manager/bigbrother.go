package manager

import (
	"crabe/internal/decision/action"
	"crabe/internal/decision/strategy"
	"crabe/internal/model"
)

// MessageHandler reacts to one message a strategy queued last tick,
// typically by reassigning robots between strategies via the manager's
// Move*/Remove* primitives. Registered per message Kind; spec.md treats
// the content of any particular message vocabulary as strategy-specific
// (out of scope), so BigBrotherManager ships no built-in handlers —
// callers register the ones their strategy roster needs.
type MessageHandler func(m *BigBrotherManager, msg model.MessageData)

// BigBrotherManager additionally reshuffles robots between Strategies via
// an intra-tier message bus, on top of its own GameState-driven base
// selection (assignForState). That selection differs from
// GameStateManager's in places: BallPlacement halts every robot, and
// unlisted Stopped kinds get Stop plus the keeper. Grounded on
// original_source/crabe_decision/src/manager/bigbro.rs's BigBro: the
// strategy-list mutation primitives (RemoveBotFromStrategies,
// Move[Bot(s)]To{Existing,New}Strategy) are translated line-for-line from
// its doctested Rust methods; ProcessMessages is a registry rather than a
// hardcoded match-on-message-variant, since the original's message
// vocabulary (WantToGoLeft/Right, AttackerMessage::...) is tactical
// strategy content spec.md leaves unspecified.
type BigBrotherManager struct {
	strategies []strategy.Strategy
	handlers   map[string]MessageHandler

	lastState model.GameState
	haveState bool
}

func NewBigBrotherManager() *BigBrotherManager {
	return &BigBrotherManager{handlers: make(map[string]MessageHandler)}
}

// RegisterHandler installs the handler invoked for every queued message of
// the given Kind. A later registration for the same kind replaces the
// earlier one.
func (m *BigBrotherManager) RegisterHandler(kind string, h MessageHandler) {
	m.handlers[kind] = h
}

// Strategies returns the manager's current strategy list, for tests and
// handlers that need to inspect the live roster.
func (m *BigBrotherManager) Strategies() []strategy.Strategy { return m.strategies }

// RemoveBotFromStrategies strips botID from every strategy's id set,
// dropping any strategy left with no ids (or with exactly botID as its
// sole remaining id, before the strip — matching bigbro.rs's doctested
// behavior of pruning a single-bot strategy outright).
func (m *BigBrotherManager) RemoveBotFromStrategies(botID uint8) {
	kept := m.strategies[:0]
	for _, s := range m.strategies {
		ids := s.IDs()
		if len(ids) == 1 && ids[0] == botID {
			continue
		}
		s.SetIDs(removeID(ids, botID))
		if len(s.IDs()) == 0 {
			continue
		}
		kept = append(kept, s)
	}
	m.strategies = kept
}

// MoveBotToExistingStrategy moves one bot into the strategy at
// strategyIndex, removing it from wherever it currently sits.
func (m *BigBrotherManager) MoveBotToExistingStrategy(botID uint8, strategyIndex int) {
	m.MoveBotsToExistingStrategy([]uint8{botID}, strategyIndex)
}

// MoveBotsToExistingStrategy moves each bot in botIDs into the strategy at
// strategyIndex. Grounded on bigbro.rs's move_bots_to_existing_strategy.
func (m *BigBrotherManager) MoveBotsToExistingStrategy(botIDs []uint8, strategyIndex int) {
	if strategyIndex >= len(m.strategies) {
		return
	}
	for _, botID := range botIDs {
		target := m.strategies[strategyIndex]
		if containsID(target.IDs(), botID) {
			continue
		}
		if idx := m.findStrategyIndex(botID); idx >= 0 {
			cur := m.strategies[idx]
			cur.SetIDs(removeID(cur.IDs(), botID))
			if len(cur.IDs()) == 0 {
				m.strategies = append(m.strategies[:idx], m.strategies[idx+1:]...)
				if strategyIndex > idx {
					strategyIndex--
				}
				target = m.strategies[strategyIndex]
			}
		}
		target.SetIDs(append(target.IDs(), botID))
	}
}

// MoveBotToNewStrategy moves one bot out of its current strategy (if any)
// and into a freshly supplied one.
func (m *BigBrotherManager) MoveBotToNewStrategy(botID uint8, s strategy.Strategy) {
	m.MoveBotsToNewStrategy([]uint8{botID}, s)
}

// MoveBotsToNewStrategy moves every bot in botIDs into s, replacing
// whatever strategy each currently belongs to. Grounded on bigbro.rs's
// move_bots_to_new_strategy.
func (m *BigBrotherManager) MoveBotsToNewStrategy(botIDs []uint8, s strategy.Strategy) {
	ids := s.IDs()
	for _, botID := range botIDs {
		if !containsID(ids, botID) {
			ids = append(ids, botID)
		}
	}
	s.SetIDs(ids)
	for _, botID := range ids {
		m.RemoveBotFromStrategies(botID)
	}
	m.strategies = append(m.strategies, s)
}

// IndexStrategyWithName returns the index of the first strategy whose
// Name matches, or -1 if none does.
func (m *BigBrotherManager) IndexStrategyWithName(name string) int {
	for i, s := range m.strategies {
		if s.Name() == name {
			return i
		}
	}
	return -1
}

// BotCurrentStrategy returns the strategy currently holding botID, if any.
func (m *BigBrotherManager) BotCurrentStrategy(botID uint8) (strategy.Strategy, bool) {
	if idx := m.findStrategyIndex(botID); idx >= 0 {
		return m.strategies[idx], true
	}
	return nil, false
}

func (m *BigBrotherManager) findStrategyIndex(botID uint8) int {
	for i, s := range m.strategies {
		if containsID(s.IDs(), botID) {
			return i
		}
	}
	return -1
}

func containsID(ids []uint8, id uint8) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}

func removeID(ids []uint8, id uint8) []uint8 {
	out := ids[:0:0]
	for _, x := range ids {
		if x != id {
			out = append(out, x)
		}
	}
	return out
}

// everyoneTo assigns every ally robot (optionally excluding the keeper) to
// the named strategy, reusing it if already present rather than replacing
// it wholesale — mirrors bigbro_decisions.rs's everyone_halt/everyone_stop
// shape of "find-or-create, then move_bots_to_existing_strategy".
func (m *BigBrotherManager) everyoneTo(world *model.World, excludeKeeper bool, name string, newStrategy func(ids []uint8) strategy.Strategy) {
	var ids []uint8
	if excludeKeeper {
		ids = nonKeeperIDs(world, keeperID)
	} else {
		ids = allIDs(world)
	}
	if idx := m.IndexStrategyWithName(name); idx >= 0 {
		m.MoveBotsToExistingStrategy(ids, idx)
		return
	}
	m.MoveBotsToNewStrategy(ids, newStrategy(nil))
}

// Step re-derives the strategy assignment for the current GameState (only
// when it has changed, same as GameStateManager), steps every strategy,
// then drains and processes the messages they queued this tick — a
// reassignment triggered by one tick's message takes effect starting next
// tick. Grounded on bigbro.rs's Manager::step.
func (m *BigBrotherManager) Step(world *model.World, tools *model.ToolData, actions *action.ActionWrapper) {
	state := world.Data.Orders.State
	if !m.haveState || state != m.lastState {
		m.assignForState(world, state)
		m.haveState = true
		m.lastState = state
	}

	for _, s := range m.strategies {
		s.Step(world, tools, actions)
	}

	var messages []model.MessageData
	for _, s := range m.strategies {
		messages = append(messages, s.Messages()...)
		s.ClearMessages()
	}
	for _, msg := range messages {
		if h, ok := m.handlers[msg.Kind]; ok {
			h(m, msg)
		}
	}
}

func (m *BigBrotherManager) assignForState(world *model.World, state model.GameState) {
	switch state.Tier {
	case model.TierHalted:
		m.everyoneTo(world, false, "Halt", func(ids []uint8) strategy.Strategy { return strategy.NewHalt(ids) })
	case model.TierStopped:
		switch state.Stopped {
		case model.PrepareKickoff:
			m.everyoneTo(world, true, "PrepareKickOff", func(ids []uint8) strategy.Strategy {
				return strategy.NewPrepareKickOff(ids, state.Team)
			})
			m.assignKeeper()
		case model.BallPlacement:
			m.everyoneTo(world, false, "Halt", func(ids []uint8) strategy.Strategy { return strategy.NewHalt(ids) })
		case model.PrepareForGameStart:
			m.everyoneTo(world, false, "PrepareStart", func(ids []uint8) strategy.Strategy { return strategy.NewPrepareStart(ids) })
		default:
			m.everyoneTo(world, true, "Stop", func(ids []uint8) strategy.Strategy { return strategy.NewStop(ids) })
			m.assignKeeper()
		}
	case model.TierRunning:
		if state.Running != model.Run && state.Team != world.TeamColor {
			m.everyoneTo(world, true, "Stop", func(ids []uint8) strategy.Strategy { return strategy.NewStop(ids) })
			m.assignKeeper()
			return
		}
		m.everyoneTo(world, true, "Play", func(ids []uint8) strategy.Strategy { return strategy.NewPlay(ids) })
		m.assignKeeper()
	}
}

// assignKeeper ensures the fixed keeper slot is running GoalKeeper,
// mirroring bigbro_decisions.rs's put_goal: a no-op if it already is.
func (m *BigBrotherManager) assignKeeper() {
	if s, ok := m.BotCurrentStrategy(keeperID); ok && s.Name() == "GoalKeeper" {
		return
	}
	m.MoveBotToNewStrategy(keeperID, strategy.NewGoalKeeper(keeperID))
}
