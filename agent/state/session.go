package state

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	contractx "github.com/dermaluz/concierge/agent/contract"
)

// MessageKind discriminates the closed message variant. Consumers must
// switch exhaustively; there is no class hierarchy behind this.
type MessageKind string

const (
	KindUser       MessageKind = "user"
	KindSystem     MessageKind = "system"
	KindAssistant  MessageKind = "assistant"
	KindToolResult MessageKind = "tool_result"
)

// ToolCall is a model-issued request to run a named capability.
// Args carries the raw JSON argument object as the model produced it.
type ToolCall struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Args string `json:"args,omitempty"`
}

// Message is one entry of a session's history. Every message gets a
// stable unique ID at creation; tombstone deletion targets that ID.
type Message struct {
	ID         string      `json:"id"`
	Kind       MessageKind `json:"kind"`
	Text       string      `json:"text,omitempty"`
	ToolCalls  []ToolCall  `json:"tool_calls,omitempty"`
	ToolCallID string      `json:"tool_call_id,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
}

// Tombstone marks a message for physical removal from the store.
type Tombstone struct {
	MessageID string `json:"message_id"`
}

func NewUserMessage(text string, now time.Time) Message {
	return Message{ID: uuid.NewString(), Kind: KindUser, Text: text, CreatedAt: now.UTC()}
}

func NewAssistantMessage(text string, calls []ToolCall, now time.Time) Message {
	return Message{ID: uuid.NewString(), Kind: KindAssistant, Text: text, ToolCalls: calls, CreatedAt: now.UTC()}
}

func NewToolResult(toolCallID, text string, now time.Time) Message {
	return Message{ID: uuid.NewString(), Kind: KindToolResult, Text: text, ToolCallID: toolCallID, CreatedAt: now.UTC()}
}

func (m Message) HasToolCalls() bool {
	return m.Kind == KindAssistant && len(m.ToolCalls) > 0
}

// SessionState is the persistent source-of-truth for one conversation.
// Messages keeps chronological order; that order is the model's context
// and is load-bearing.
type SessionState struct {
	SessionID   string `json:"session_id"`
	CallerPhone string `json:"caller_phone"`

	Messages []Message `json:"messages,omitempty"`

	// Digest is the rolling summary of everything pruned so far.
	Digest string `json:"digest,omitempty"`

	// TurnCount counts completed orchestrator cycles. It drives the
	// initial/followup reply format and never decreases.
	TurnCount int `json:"turn_count"`

	SkinProfile         contractx.SkinProfile `json:"skin_profile,omitempty"`
	EscalationRequested bool                  `json:"escalation_requested"`
	QuizActive          bool                  `json:"quiz_active"`

	UpdatedAt time.Time `json:"updated_at"`
}

var (
	ErrOrphanToolCall   = errors.New("assistant tool call without matching tool result")
	ErrDanglingToolMsg  = errors.New("tool result without preceding tool call")
	ErrNegativeTurn     = errors.New("turn count is negative")
	ErrDuplicateMessage = errors.New("duplicate message id")
)

func NewSessionState(sessionID, callerPhone string, now time.Time) *SessionState {
	return &SessionState{
		SessionID:   sessionID,
		CallerPhone: callerPhone,
		UpdatedAt:   now.UTC(),
	}
}

func (s *SessionState) Touch(now time.Time) {
	s.UpdatedAt = now.UTC()
}

// Mode routes the next turn: quiz while the skin test is running,
// assistant otherwise. Pure function of QuizActive.
func (s *SessionState) Mode() contractx.Mode {
	if s != nil && s.QuizActive {
		return contractx.ModeQuiz
	}
	return contractx.ModeAssistant
}

func (s *SessionState) Append(msgs ...Message) {
	s.Messages = append(s.Messages, msgs...)
}

// LastAssistant returns the most recent assistant message, or nil.
func (s *SessionState) LastAssistant() *Message {
	if s == nil {
		return nil
	}
	for i := len(s.Messages) - 1; i >= 0; i-- {
		if s.Messages[i].Kind == KindAssistant {
			return &s.Messages[i]
		}
	}
	return nil
}

// ApplyTombstones physically removes the referenced messages,
// preserving the order of everything that survives.
func (s *SessionState) ApplyTombstones(tombstones []Tombstone) {
	if s == nil || len(tombstones) == 0 {
		return
	}
	dead := make(map[string]struct{}, len(tombstones))
	for _, t := range tombstones {
		dead[t.MessageID] = struct{}{}
	}
	kept := s.Messages[:0]
	for _, m := range s.Messages {
		if _, ok := dead[m.ID]; ok {
			continue
		}
		kept = append(kept, m)
	}
	s.Messages = kept
}

// Validate checks the structural invariants before persisting:
// unique message IDs, non-negative turn count, and tool-call pairing.
// Every assistant message carrying tool calls must be immediately
// followed by one tool result per call, and no tool result may float
// without its originating call.
func (s *SessionState) Validate() error {
	if s == nil {
		return errors.New("nil session state")
	}
	if strings.TrimSpace(s.SessionID) == "" {
		return errors.New("session id is empty")
	}
	if s.TurnCount < 0 {
		return ErrNegativeTurn
	}

	seen := make(map[string]struct{}, len(s.Messages))
	for _, m := range s.Messages {
		if _, ok := seen[m.ID]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateMessage, m.ID)
		}
		seen[m.ID] = struct{}{}
	}

	for i := 0; i < len(s.Messages); i++ {
		m := s.Messages[i]
		switch {
		case m.HasToolCalls():
			pending := make(map[string]struct{}, len(m.ToolCalls))
			for _, c := range m.ToolCalls {
				pending[c.ID] = struct{}{}
			}
			j := i + 1
			for len(pending) > 0 && j < len(s.Messages) && s.Messages[j].Kind == KindToolResult {
				if _, ok := pending[s.Messages[j].ToolCallID]; !ok {
					return fmt.Errorf("%w: tool_call_id=%s", ErrDanglingToolMsg, s.Messages[j].ToolCallID)
				}
				delete(pending, s.Messages[j].ToolCallID)
				j++
			}
			if len(pending) > 0 {
				return fmt.Errorf("%w: message_id=%s", ErrOrphanToolCall, m.ID)
			}
			i = j - 1
		case m.Kind == KindToolResult:
			return fmt.Errorf("%w: tool_call_id=%s", ErrDanglingToolMsg, m.ToolCallID)
		}
	}
	return nil
}
