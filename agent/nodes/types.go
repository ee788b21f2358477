package enginenode

import (
	"errors"
	"strings"
	"time"

	contractx "github.com/dermaluz/concierge/agent/contract"
	statex "github.com/dermaluz/concierge/agent/state"
)

var (
	ErrInvalidMessage = errors.New("message is empty")
	ErrInvalidSession = errors.New("session id is empty")
)

type GraphInput struct {
	SessionID   string
	CallerPhone string
	Text        string
}

type GraphOutput struct {
	Reply  string
	Format contractx.ReplyFormat
}

type GraphState struct {
	SessionID   string
	CallerPhone string
	Text        string
	Now         time.Time

	// InitialTurn is latched before the turn counter moves, so the
	// reply format reflects whether this is the session's first cycle.
	InitialTurn bool

	Session *statex.SessionState
}

func ValidateRequest(in GraphInput, nowFn func() time.Time) (*GraphState, error) {
	sessionID := strings.TrimSpace(in.SessionID)
	if sessionID == "" {
		return nil, ErrInvalidSession
	}

	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, ErrInvalidMessage
	}

	return &GraphState{
		SessionID:   sessionID,
		CallerPhone: strings.TrimSpace(in.CallerPhone),
		Text:        text,
		Now:         nowFn().UTC(),
	}, nil
}
