package transcript

import (
	"github.com/viant/divinity/genai/llm"
)

// Slot names a column of the three-way layout.
type Slot int

const (
	SlotUser Slot = iota
	SlotPersonaA
	SlotPersonaB
)

// Transcript is the derived, read-only display order of a three-way chat.
type Transcript []llm.Message

// Merge interleaves the user history with two persona histories. Both persona
// histories carry their system entry at index 0, so turn i emits
//
//	users[i], a[i+1], b[i+1]
//
// skipping entries that do not exist yet. System entries never reach the
// result. Merge does not modify its inputs.
func Merge(users, a, b []llm.Message) Transcript {
	turns := max(len(users), len(a)-1, len(b)-1)
	if turns <= 0 {
		return Transcript{}
	}
	merged := make(Transcript, 0, len(users)+len(a)+len(b))
	for i := 0; i < turns; i++ {
		if i < len(users) {
			merged = append(merged, users[i])
		}
		if i+1 < len(a) {
			merged = append(merged, a[i+1])
		}
		if i+1 < len(b) {
			merged = append(merged, b[i+1])
		}
	}
	return merged
}

// MergePair interleaves a single assistant list that carries no system entry
// with the user history: users[i], then assistant[i]. It is not equivalent to
// Merge and must not be fed a history that starts with a system entry.
func MergePair(users, assistant []llm.Message) Transcript {
	turns := max(len(users), len(assistant))
	merged := make(Transcript, 0, len(users)+len(assistant))
	for i := 0; i < turns; i++ {
		if i < len(users) {
			merged = append(merged, users[i])
		}
		if i < len(assistant) {
			merged = append(merged, assistant[i])
		}
	}
	return merged
}

// Conversation builds the request sent for one persona: history entry i
// followed by user entry i. history must not contain the placeholder of the
// turn being requested, which yields system, U1, R1, ..., Rn-1, Un.
// Assistant entries left empty by a failed turn are dropped.
func Conversation(history, users []llm.Message) llm.Messages {
	turns := max(len(history), len(users))
	result := make(llm.Messages, 0, len(history)+len(users))
	for i := 0; i < turns; i++ {
		if i < len(history) {
			msg := history[i]
			if !(msg.Role == llm.RoleAssistant && msg.Content == "") {
				result = append(result, msg)
			}
		}
		if i < len(users) {
			result = append(result, users[i])
		}
	}
	return result
}

// Latest returns the most recent entry of the given column. The layout treats
// the last three entries as user, persona A, persona B, which holds whenever
// every turn has a reply (placeholder or not) from both personas. It reports
// false until one full turn exists.
func (t Transcript) Latest(slot Slot) (llm.Message, bool) {
	if len(t) < 3 {
		return llm.Message{}, false
	}
	var offset int
	switch slot {
	case SlotUser:
		offset = 3
	case SlotPersonaA:
		offset = 2
	case SlotPersonaB:
		offset = 1
	default:
		return llm.Message{}, false
	}
	return t[len(t)-offset], true
}
