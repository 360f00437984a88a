package action

import "crabe/internal/model"

// Sequencer runs a FIFO of Actions for one robot: the current action is
// ticked until it reports Done or Failed, then the next one starts.
type Sequencer struct {
	queue []Action
}

func NewSequencer(first Action) *Sequencer {
	return &Sequencer{queue: []Action{first}}
}

func (s *Sequencer) Push(act Action) {
	s.queue = append(s.queue, act)
}

// Clear cancels the current action (if any) and empties the queue.
func (s *Sequencer) Clear() {
	if len(s.queue) > 0 {
		s.queue[0].Cancel()
	}
	s.queue = nil
}

// ComputeOrder advances the front action, popping it once it finishes.
// ok is false once the queue has drained — the caller leaves this robot
// out of the tick's CommandMap, so no command is sent for it.
func (s *Sequencer) ComputeOrder(id uint8, world *model.World, tools *model.ToolData) (model.Command, bool) {
	for len(s.queue) > 0 {
		current := s.queue[0]
		cmd := current.ComputeOrder(id, world, tools)
		switch current.State() {
		case Done, Failed:
			s.queue = s.queue[1:]
			if len(s.queue) == 0 {
				return cmd, true
			}
			continue
		default:
			return cmd, true
		}
	}
	return model.Command{}, false
}
