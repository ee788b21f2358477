package state

// CompactThreshold is the raw message count above which a cycle ends
// with history compaction.
const CompactThreshold = 18

// tailAfterUser bounds the retained window: the last user message plus
// at most this many messages after it.
const tailAfterUser = 3

// RetainWindow computes the tail window of raw history kept verbatim
// after compaction. The window spans from the last user message through
// at most tailAfterUser messages after it, repaired so that no tool
// call survives without its result:
//   - if the window's final assistant message carries tool calls and the
//     message right after the window in full history is its tool result,
//     that result is pulled into the window;
//   - otherwise the unanswerable assistant message is dropped.
//
// The returned window always starts with a user message or is empty.
func RetainWindow(msgs []Message) []Message {
	lastUser := -1
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Kind == KindUser {
			lastUser = i
			break
		}
	}
	if lastUser < 0 {
		return nil
	}

	end := lastUser + tailAfterUser + 1
	if end > len(msgs) {
		end = len(msgs)
	}
	window := append([]Message(nil), msgs[lastUser:end]...)

	// Repair tool pairing at the window edge.
	lastCall := -1
	for i, m := range window {
		if m.HasToolCalls() {
			lastCall = i
		}
	}
	if lastCall >= 0 {
		global := lastUser + lastCall
		answered := global+1 < len(msgs) && msgs[global+1].Kind == KindToolResult
		if answered {
			if lastCall == len(window)-1 {
				window = append(window, msgs[global+1])
			}
		} else {
			window = append(window[:lastCall], window[lastCall+1:]...)
		}
	}

	// The window must open a complete user-initiated exchange.
	for len(window) > 0 && window[0].Kind != KindUser {
		window = window[1:]
	}
	return window
}

// TombstonesOutside marks every message of the full history that is not
// part of the retained window.
func TombstonesOutside(msgs, window []Message) []Tombstone {
	keep := make(map[string]struct{}, len(window))
	for _, m := range window {
		keep[m.ID] = struct{}{}
	}
	var out []Tombstone
	for _, m := range msgs {
		if _, ok := keep[m.ID]; !ok {
			out = append(out, Tombstone{MessageID: m.ID})
		}
	}
	return out
}

// ToolArtifacts marks every assistant message that carries tool calls
// and every tool result, unconditionally. Run after each cycle so only
// plain user/assistant text turns reach long-term retention.
func ToolArtifacts(msgs []Message) []Tombstone {
	var out []Tombstone
	for _, m := range msgs {
		if m.HasToolCalls() || m.Kind == KindToolResult {
			out = append(out, Tombstone{MessageID: m.ID})
		}
	}
	return out
}
