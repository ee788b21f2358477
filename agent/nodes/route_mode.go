package enginenode

import (
	"fmt"

	contractx "github.com/dermaluz/concierge/agent/contract"
)

const (
	NodeAssistantTurn = "assistant_turn"
	NodeQuizTurn      = "quiz_turn"
)

// RouteMode picks the turn executor for this cycle from the persisted
// session mode.
func RouteMode(in *GraphState) (string, error) {
	if in == nil || in.Session == nil {
		return "", fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}
	if in.Session.Mode() == contractx.ModeQuiz {
		return NodeQuizTurn, nil
	}
	return NodeAssistantTurn, nil
}
