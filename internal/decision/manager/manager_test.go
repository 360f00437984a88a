package manager

import (
	"testing"

	"crabe/internal/decision/action"
	"crabe/internal/decision/strategy"
	"crabe/internal/model"
	"crabe/internal/vmath"
)

func newTestWorld() *model.World {
	w := model.NewWorld(model.Blue)
	for i := uint8(0); i < 4; i++ {
		w.AllyOrInsert(i).Pose.Position = vmath.Vec2{X: float64(i), Y: 0}
	}
	w.Ball = &model.Ball{}
	return w
}

func TestGameStateManagerRebuildsOnlyOnStateChange(t *testing.T) {
	w := newTestWorld()
	m := NewGameStateManager()
	actions := action.NewActionWrapper()

	w.Data.Orders.State = model.HaltedState(model.GameNotStarted)
	m.Step(w, &model.ToolData{}, actions)
	first := m.strategies

	m.Step(w, &model.ToolData{}, actions)
	if &m.strategies[0] != &first[0] {
		t.Fatalf("expected strategy list to stay stable across ticks without a state change")
	}

	w.Data.Orders.State = model.StoppedState(model.Stop)
	m.Step(w, &model.ToolData{}, actions)
	if len(m.strategies) == 0 {
		t.Fatalf("expected strategies rebuilt after a GameState change")
	}
}

func TestGameStateManagerAssignsKeeperAndPlayWhenRunning(t *testing.T) {
	w := newTestWorld()
	w.Data.Orders.State = model.RunningState(model.Run)
	m := NewGameStateManager()
	actions := action.NewActionWrapper()
	m.Step(w, &model.ToolData{}, actions)

	var haveKeeper, havePlay bool
	for _, s := range m.strategies {
		switch s.Name() {
		case "GoalKeeper":
			haveKeeper = true
		case "Play":
			havePlay = true
		}
	}
	if !haveKeeper || !havePlay {
		t.Fatalf("expected GoalKeeper and Play strategies while Running, got %+v", m.strategies)
	}
}

func TestTestManagerAdvancesOnDone(t *testing.T) {
	m := NewTestManager(&doneAfterOneStep{}, &doneAfterOneStep{})
	w := newTestWorld()
	actions := action.NewActionWrapper()

	m.Step(w, &model.ToolData{}, actions)
	if len(m.strategies) != 1 {
		t.Fatalf("expected first strategy retired after reporting done, got %d left", len(m.strategies))
	}
	m.Step(w, &model.ToolData{}, actions)
	if len(m.strategies) != 0 {
		t.Fatalf("expected second strategy retired after reporting done, got %d left", len(m.strategies))
	}
}

type doneAfterOneStep struct {
	stepped bool
	msgs    []model.MessageData
}

func (*doneAfterOneStep) Name() string              { return "DoneAfterOneStep" }
func (*doneAfterOneStep) IDs() []uint8               { return nil }
func (*doneAfterOneStep) SetIDs(ids []uint8)         {}
func (d *doneAfterOneStep) Messages() []model.MessageData { return d.msgs }
func (d *doneAfterOneStep) ClearMessages()           { d.msgs = nil }
func (d *doneAfterOneStep) Step(world *model.World, tools *model.ToolData, actions *action.ActionWrapper) bool {
	return true
}

func TestBigBrotherMoveBotsToExistingStrategy(t *testing.T) {
	m := NewBigBrotherManager()
	a := strategy.NewHalt([]uint8{0, 1})
	b := strategy.NewStop([]uint8{2})
	m.strategies = []strategy.Strategy{a, b}

	m.MoveBotsToExistingStrategy([]uint8{2}, 0)

	if len(b.IDs()) != 0 {
		t.Fatalf("expected bot 2 removed from its old strategy, still has %v", b.IDs())
	}
	found := false
	for _, id := range a.IDs() {
		if id == 2 {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected bot 2 moved into the target strategy, got %v", a.IDs())
	}
}

func TestBigBrotherRemoveBotFromStrategiesPrunesEmptyStrategy(t *testing.T) {
	m := NewBigBrotherManager()
	solo := strategy.NewHalt([]uint8{5})
	shared := strategy.NewHalt([]uint8{1, 2})
	m.strategies = []strategy.Strategy{solo, shared}

	m.RemoveBotFromStrategies(5)
	if len(m.strategies) != 1 {
		t.Fatalf("expected the now-empty solo strategy pruned, got %d strategies", len(m.strategies))
	}

	m.RemoveBotFromStrategies(1)
	if len(m.strategies[0].IDs()) != 1 || m.strategies[0].IDs()[0] != 2 {
		t.Fatalf("expected bot 1 stripped from the shared strategy, got %v", m.strategies[0].IDs())
	}
}

func TestBigBrotherMoveBotToNewStrategyReplacesOldAssignment(t *testing.T) {
	m := NewBigBrotherManager()
	old := strategy.NewHalt([]uint8{3})
	m.strategies = []strategy.Strategy{old}

	replacement := strategy.NewStop(nil)
	m.MoveBotToNewStrategy(3, replacement)

	if len(m.strategies) != 1 {
		t.Fatalf("expected the stale empty Halt strategy pruned, got %d strategies", len(m.strategies))
	}
	cur, ok := m.BotCurrentStrategy(3)
	if !ok || cur.Name() != "Stop" {
		t.Fatalf("expected bot 3 reassigned to Stop, got %v ok=%v", cur, ok)
	}
}

func TestBigBrotherProcessesMessagesBetweenSteps(t *testing.T) {
	m := NewBigBrotherManager()
	var handled []model.MessageData
	m.RegisterHandler("shot_taken", func(m *BigBrotherManager, msg model.MessageData) {
		handled = append(handled, msg)
	})
	s := strategy.NewPlay([]uint8{0})
	m.strategies = []strategy.Strategy{s}

	w := newTestWorld()
	w.Data.Orders.State = model.RunningState(model.Run)
	w.Ball.Position = vmath.Vec3{X: 0, Y: 0}
	w.AllyOrInsert(0).Pose.Position = vmath.Vec2{X: 0, Y: 0}

	m.haveState = true
	m.lastState = w.Data.Orders.State
	actions := action.NewActionWrapper()
	m.Step(w, &model.ToolData{}, actions)

	if len(handled) != 1 {
		t.Fatalf("expected the shot_taken message handled once, got %d", len(handled))
	}
	if len(s.Messages()) != 0 {
		t.Fatalf("expected Step to drain the strategy's message queue, got %v", s.Messages())
	}
}
