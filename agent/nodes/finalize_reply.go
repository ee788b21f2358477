package enginenode

import (
	"fmt"
	"strings"

	contractx "github.com/dermaluz/concierge/agent/contract"
)

func FinalizeReply(in *GraphState) (GraphOutput, error) {
	if in == nil || in.Session == nil {
		return GraphOutput{}, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	last := in.Session.LastAssistant()
	if last == nil || strings.TrimSpace(last.Text) == "" {
		return GraphOutput{}, fmt.Errorf("%w: turn produced no assistant reply", contractx.ErrValidation)
	}

	format := contractx.ReplyFollowup
	if in.InitialTurn {
		format = contractx.ReplyInitial
	}

	return GraphOutput{
		Reply:  strings.TrimSpace(last.Text),
		Format: format,
	}, nil
}
