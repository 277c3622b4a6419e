// Package transcript holds the per-persona reply history and merges it with
// the shared user history into the single ordered view used for display.
package transcript

import (
	"github.com/viant/divinity/genai/llm"
)

// Phase is the lifecycle state of one persona reply.
type Phase int

const (
	// Placeholder is a reply that was requested but has no text yet.
	Placeholder Phase = iota
	// Streaming is a reply whose stream is still open.
	Streaming
	// Complete is a reply whose stream ended cleanly.
	Complete
	// Failed is a reply whose request or stream failed; Content keeps whatever arrived.
	Failed
)

func (p Phase) String() string {
	switch p {
	case Placeholder:
		return "placeholder"
	case Streaming:
		return "streaming"
	case Complete:
		return "complete"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Terminal reports whether no further update can reach the reply.
func (p Phase) Terminal() bool {
	return p == Complete || p == Failed
}

// Reply is one persona's answer to one user turn.
type Reply struct {
	Phase   Phase
	Content string
	Err     error
}

// Message returns the reply as an assistant message.
func (r Reply) Message() llm.Message {
	return llm.NewAssistantMessage(r.Content)
}

// History is a persona history: the directive as system entry followed by
// exactly one reply per user turn. It is not safe for concurrent use; the
// owner serialises access.
type History struct {
	System  llm.Message
	Replies []Reply
}

// NewHistory creates a history led by the given directive.
func NewHistory(directive string) *History {
	return &History{System: llm.NewSystemMessage(directive)}
}

// SetSystem swaps the leading directive, leaving replies untouched.
func (h *History) SetSystem(msg llm.Message) {
	msg.Role = llm.RoleSystem
	h.System = msg
}

// Len returns the number of entries including the system entry.
func (h *History) Len() int {
	return len(h.Replies) + 1
}

// Messages returns the system entry followed by every reply; placeholders show up with empty content.
func (h *History) Messages() []llm.Message {
	result := make([]llm.Message, 0, h.Len())
	result = append(result, h.System)
	for _, reply := range h.Replies {
		result = append(result, reply.Message())
	}
	return result
}

// Begin appends a placeholder for a new turn.
func (h *History) Begin() {
	h.Replies = append(h.Replies, Reply{Phase: Placeholder})
}

// Last returns the trailing reply.
func (h *History) Last() (Reply, bool) {
	if len(h.Replies) == 0 {
		return Reply{}, false
	}
	return h.Replies[len(h.Replies)-1], true
}

// Replace sets the trailing reply content (full replacement) while its stream is open.
// It is ignored once the reply reached a terminal phase.
func (h *History) Replace(content string) bool {
	last := h.last()
	if last == nil || last.Phase.Terminal() {
		return false
	}
	last.Content = content
	last.Phase = Streaming
	return true
}

// Complete marks the trailing reply as finished.
func (h *History) Complete() {
	if last := h.last(); last != nil && !last.Phase.Terminal() {
		last.Phase = Complete
	}
}

// Fail marks the trailing reply as failed, keeping partial content.
func (h *History) Fail(err error) {
	if last := h.last(); last != nil && !last.Phase.Terminal() {
		last.Phase = Failed
		last.Err = err
	}
}

// Clone returns a deep copy safe to hand to readers.
func (h *History) Clone() *History {
	clone := &History{System: h.System, Replies: make([]Reply, len(h.Replies))}
	copy(clone.Replies, h.Replies)
	return clone
}

func (h *History) last() *Reply {
	if len(h.Replies) == 0 {
		return nil
	}
	return &h.Replies[len(h.Replies)-1]
}
