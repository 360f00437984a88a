package manager

import (
	"crabe/internal/decision/action"
	"crabe/internal/decision/strategy"
	"crabe/internal/model"
)

// GameStateManager rebuilds its Strategy list only when
// World.Data.Orders.State changes, then steps the current set every tick. Grounded on
// original_source/crabe_decision/src/manager/game_manager.rs's GameManager
// — the per-state strategy selection follows its match arms, substituting
// the minimal Strategy catalog in [[internal/decision/strategy]] for the
// original's full tactical Attacker/Defender/Keeper roster.
type GameStateManager struct {
	lastState  model.GameState
	haveState  bool
	strategies []strategy.Strategy
}

func NewGameStateManager() *GameStateManager {
	return &GameStateManager{}
}

func (m *GameStateManager) Step(world *model.World, tools *model.ToolData, actions *action.ActionWrapper) {
	state := world.Data.Orders.State
	if !m.haveState || state != m.lastState {
		m.strategies = m.selectStrategies(world, state)
		actions.ClearAll()
		m.haveState = true
		m.lastState = state
	}
	for _, s := range m.strategies {
		s.Step(world, tools, actions)
	}
}

func (m *GameStateManager) selectStrategies(world *model.World, state model.GameState) []strategy.Strategy {
	switch state.Tier {
	case model.TierHalted:
		return []strategy.Strategy{strategy.NewHalt(allIDs(world))}
	case model.TierStopped:
		switch state.Stopped {
		case model.Stop, model.FoulStop, model.BallLeftFieldTouchLine, model.CornerKick,
			model.GoalKick, model.AimlessKick, model.NoProgressInGame, model.PrepareFreekick:
			return []strategy.Strategy{
				strategy.NewGoalKeeper(keeperID),
				strategy.NewStop(nonKeeperIDs(world, keeperID)),
			}
		case model.PrepareKickoff:
			return []strategy.Strategy{
				strategy.NewGoalKeeper(keeperID),
				strategy.NewPrepareKickOff(nonKeeperIDs(world, keeperID), state.Team),
			}
		case model.PreparePenalty:
			return []strategy.Strategy{
				strategy.NewGoalKeeper(keeperID),
				strategy.NewStop(nonKeeperIDs(world, keeperID)),
			}
		case model.BallPlacement:
			return []strategy.Strategy{
				strategy.NewGoalKeeper(keeperID),
				strategy.NewBallPlacementRetreat(nonKeeperIDs(world, keeperID)),
			}
		case model.PrepareForGameStart:
			return []strategy.Strategy{strategy.NewPrepareStart(allIDs(world))}
		default:
			return []strategy.Strategy{strategy.NewHalt(allIDs(world))}
		}
	case model.TierRunning:
		switch state.Running {
		case model.KickOff, model.Penalty, model.FreeKick:
			if state.Team == world.TeamColor {
				return []strategy.Strategy{
					strategy.NewGoalKeeper(keeperID),
					strategy.NewPlay(nonKeeperIDs(world, keeperID)),
				}
			}
			return []strategy.Strategy{
				strategy.NewGoalKeeper(keeperID),
				strategy.NewStop(nonKeeperIDs(world, keeperID)),
			}
		default: // Run
			return []strategy.Strategy{
				strategy.NewGoalKeeper(keeperID),
				strategy.NewPlay(nonKeeperIDs(world, keeperID)),
			}
		}
	}
	return nil
}
