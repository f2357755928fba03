package conversation

import (
	"github.com/arnavzz/Conversation-Management/types"
)

// History is the ordered sequence of turns that makes up the active
// context. Order is semantically meaningful: it is replayed verbatim to
// the model. The system prompt is injected at send time and never stored,
// so a History never contains a system turn.
//
// History is not safe for concurrent use on its own; the Manager
// serializes all access to it.
type History struct {
	msgs []types.Message
}

// NewHistory creates an empty history.
func NewHistory() *History {
	return &History{}
}

// Append adds a turn to the end of the history. System turns are rejected.
func (h *History) Append(msg types.Message) error {
	if msg.Role == types.RoleSystem {
		return types.NewError(types.ErrInvalidRequest, "system turns are injected at send time, not stored")
	}
	if !msg.Role.Valid() {
		return types.NewError(types.ErrInvalidRequest, "message has unknown role")
	}
	h.msgs = append(h.msgs, msg)
	return nil
}

// Replace swaps the entire history for the given turns. Used by the
// summarizer (single summary turn) and by truncation strategies.
func (h *History) Replace(msgs []types.Message) {
	h.msgs = append(h.msgs[:0:0], msgs...)
}

// RemoveLast drops the most recent turn. Used for rollback of the user
// turn when a gateway call fails and the manager is configured to do so.
func (h *History) RemoveLast() {
	if len(h.msgs) > 0 {
		h.msgs = h.msgs[:len(h.msgs)-1]
	}
}

// Messages returns a defensive copy of the turns in order.
func (h *History) Messages() []types.Message {
	return append([]types.Message{}, h.msgs...)
}

// Len returns the number of turns.
func (h *History) Len() int {
	return len(h.msgs)
}

// Clear removes all turns.
func (h *History) Clear() {
	h.msgs = h.msgs[:0]
}
