package enginenode

import (
	"fmt"

	contractx "github.com/dermaluz/concierge/agent/contract"
	statex "github.com/dermaluz/concierge/agent/state"
)

// ToolCleanup drops every tool artifact of the finished cycle so only
// plain text turns reach long-term retention, then advances the turn
// counter.
func ToolCleanup(in *GraphState) (*GraphState, error) {
	if in == nil || in.Session == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	in.Session.ApplyTombstones(statex.ToolArtifacts(in.Session.Messages))
	in.Session.TurnCount++
	return in, nil
}
