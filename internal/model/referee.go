package model

import (
	"time"

	"crabe/internal/vmath"
)

// RefereeCommand is the domain encoding of the SSL game controller's
// command enum, independent of its wire representation (§4.3).
type RefereeCommand int

const (
	CmdHalt RefereeCommand = iota
	CmdStop
	CmdNormalStart
	CmdForceStart
	CmdPrepareKickoff
	CmdPreparePenalty
	CmdDirectFree
	CmdBallPlacement
	CmdTimeout
)

// GameEventType enumerates the referee protocol's game events relevant to
// state transitions and to tool-viewer annotation; it mirrors the upstream
// protobuf's event type vocabulary (§1: schema definitions are out of
// scope, only the vocabulary we consume is modeled).
type GameEventType int

const (
	EventUnknown GameEventType = iota
	EventBallLeftFieldTouchLine
	EventBallLeftFieldGoalLine
	EventAimlessKick
	EventAttackerTooCloseToDefenseArea
	EventDefenderInDefenseArea
	EventBoundaryCrossing
	EventKeeperHeldBall
	EventBotDribbledBallTooFar
	EventBotPushedBot
	EventBotHeldBallDeliberately
	EventBotTippedOver
	EventAttackerTouchedBallInDefenseArea
	EventBotKickedBallTooFast
	EventBotCrashUnique
	EventBotCrashDrawn
	EventDefenderTooCloseToKickPoint
	EventBotTooFastInStop
	EventBotInterferedPlacement
	EventPossibleGoal
	EventGoal
	EventInvalidGoal
	EventAttackerDoubleTouchedBall
	EventPlacementSucceeded
	EventPenaltyKickFailed
	EventNoProgressInGame
	EventPlacementFailed
	EventMultipleCards
	EventMultipleFouls
	EventBotSubstitution
	EventTooManyRobots
	EventEmergencyStop
)

// stoppingFouls is the subset of events that, on a Stop command with no
// goal scored, route into StoppedKind.FoulStop rather than a plain Stop
// (§4.3's "stopping fouls" branch).
var stoppingFouls = map[GameEventType]bool{
	EventBotPushedBot:                     true,
	EventBotHeldBallDeliberately:          true,
	EventBotTippedOver:                    true,
	EventBotCrashUnique:                   true,
	EventBotCrashDrawn:                    true,
	EventKeeperHeldBall:                   true,
	EventBotDribbledBallTooFar:            true,
	EventAttackerTouchedBallInDefenseArea: true,
	EventBotKickedBallTooFast:             true,
	EventMultipleFouls:                    true,
	EventEmergencyStop:                    true,
}

func (t GameEventType) IsStoppingFoul() bool { return stoppingFouls[t] }

// GameEvent is one event reported by the referee packet, optionally
// attributing a faulting team (used to decide freekick direction).
type GameEvent struct {
	Type   GameEventType
	Team   *TeamColor
	Origin vmath.Vec2
}

// Referee is the domain-mapped referee packet (§3's "Referee packet").
type Referee struct {
	Stage            string
	Command          RefereeCommand
	CommandCounter   uint32
	CommandTimestamp time.Time

	Ally  TeamInfo
	Enemy TeamInfo

	DesignatedPosition *vmath.Vec2
	PositiveHalf       *TeamColor
	NextCommand        *RefereeCommand
	Events             []GameEvent
	ActionTimeRemaining *time.Duration
}

// LatestEvent returns the most recently reported event, if any.
func (r *Referee) LatestEvent() (GameEvent, bool) {
	if len(r.Events) == 0 {
		return GameEvent{}, false
	}
	return r.Events[len(r.Events)-1], true
}

// RefereeOrders is the tuple Guard consumes every tick: the authoritative
// game state, the event that drove the latest transition (if any), and the
// derived speed limit.
type RefereeOrders struct {
	State       GameState
	Event       *GameEvent
	SpeedLimit  float64
}

// NewRefereeOrders derives the speed limit from state, per spec.md §4.3.
func NewRefereeOrders(state GameState, event *GameEvent) RefereeOrders {
	return RefereeOrders{State: state, Event: event, SpeedLimit: state.SpeedLimit()}
}

func DefaultRefereeOrders() RefereeOrders {
	return NewRefereeOrders(DefaultGameState(), nil)
}

// GameData bundles both teams, the positive-half assignment, and the
// current referee orders (§3).
type GameData struct {
	Ally         Team
	Enemy        Team
	PositiveHalf *TeamColor
	Orders       RefereeOrders
}

func NewGameData(color TeamColor) GameData {
	return GameData{
		Ally:   NewTeam(color),
		Enemy:  NewTeam(color.Opposite()),
		Orders: DefaultRefereeOrders(),
	}
}
