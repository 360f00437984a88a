package model

// Tier is the top level of the GameState tagged union: Halted, Stopped, or
// Running. Team-carrying variants within a tier store their team in the
// GameState.Team field; variants without a team leave it at its zero value
// (Blue) which callers must not interpret as meaningful.
type Tier int

const (
	TierHalted Tier = iota
	TierStopped
	TierRunning
)

type HaltedKind int

const (
	GameNotStarted HaltedKind = iota
	Halt
	Timeout
)

type StoppedKind int

const (
	Stop StoppedKind = iota
	PrepareKickoff
	PreparePenalty
	BallPlacement
	PrepareForGameStart
	BallLeftFieldTouchLine
	CornerKick
	GoalKick
	AimlessKick
	NoProgressInGame
	PrepareFreekick
	FoulStop
)

type RunningKind int

const (
	KickOff RunningKind = iota
	Penalty
	FreeKick
	Run
)

// GameState is the flat encoding of spec.md's three-level tagged union.
// Exactly one of Halted/Stopped/Running is meaningful, selected by Tier;
// Team is meaningful only for Timeout, the Stopped kinds hasStoppedTeam
// lists, and every Running kind except Run. The type is comparable so state-machine
// tests can assert transitions with plain ==.
type GameState struct {
	Tier    Tier
	Halted  HaltedKind
	Stopped StoppedKind
	Running RunningKind
	Team    TeamColor
}

func HaltedState(k HaltedKind) GameState { return GameState{Tier: TierHalted, Halted: k} }

func HaltedTeamState(k HaltedKind, team TeamColor) GameState {
	return GameState{Tier: TierHalted, Halted: k, Team: team}
}

func StoppedState(k StoppedKind) GameState { return GameState{Tier: TierStopped, Stopped: k} }

func StoppedTeamState(k StoppedKind, team TeamColor) GameState {
	return GameState{Tier: TierStopped, Stopped: k, Team: team}
}

func RunningState(k RunningKind) GameState { return GameState{Tier: TierRunning, Running: k} }

func RunningTeamState(k RunningKind, team TeamColor) GameState {
	return GameState{Tier: TierRunning, Running: k, Team: team}
}

// DefaultGameState is the state the referee state machine starts in before
// any referee packet has been received.
func DefaultGameState() GameState { return HaltedState(GameNotStarted) }

func (s GameState) String() string {
	switch s.Tier {
	case TierHalted:
		switch s.Halted {
		case GameNotStarted:
			return "Halted(GameNotStarted)"
		case Halt:
			return "Halted(Halt)"
		case Timeout:
			return "Halted(Timeout(" + s.Team.String() + "))"
		}
	case TierStopped:
		name := [...]string{"Stop", "PrepareKickoff", "PreparePenalty", "BallPlacement",
			"PrepareForGameStart", "BallLeftFieldTouchLine", "CornerKick", "GoalKick",
			"AimlessKick", "NoProgressInGame", "PrepareFreekick", "FoulStop"}[s.Stopped]
		if hasStoppedTeam(s.Stopped) {
			return "Stopped(" + name + "(" + s.Team.String() + "))"
		}
		return "Stopped(" + name + ")"
	case TierRunning:
		name := [...]string{"KickOff", "Penalty", "FreeKick", "Run"}[s.Running]
		if s.Running != Run {
			return "Running(" + name + "(" + s.Team.String() + "))"
		}
		return "Running(Run)"
	}
	return "GameState(invalid)"
}

func hasStoppedTeam(k StoppedKind) bool {
	switch k {
	case PrepareKickoff, PreparePenalty, BallPlacement, BallLeftFieldTouchLine, CornerKick, GoalKick, AimlessKick:
		return true
	default:
		return false
	}
}

// SpeedLimit is the maximum ally linear speed (m/s) authorized during this
// GameState, per spec.md §4.3.
func (s GameState) SpeedLimit() float64 {
	switch s.Tier {
	case TierHalted:
		return 0
	case TierStopped:
		return 1.5
	case TierRunning:
		return 6.0
	}
	return 0
}
