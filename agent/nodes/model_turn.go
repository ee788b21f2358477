package enginenode

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	contractx "github.com/dermaluz/concierge/agent/contract"
	promptx "github.com/dermaluz/concierge/agent/prompt"
	"github.com/dermaluz/concierge/agent/quiz"
	statex "github.com/dermaluz/concierge/agent/state"
	toolx "github.com/dermaluz/concierge/agent/tool"
)

// maxToolRounds bounds the generate/execute loop inside one cycle.
// Hitting the cap escalates to a human and closes the turn with a
// canned apology instead of spinning.
const maxToolRounds = 6

const capExceededReport = "El asistente excedió el número máximo de invocaciones de herramientas en un solo turno sin producir una respuesta."

const capFallbackReply = "Lo siento, no pude completar tu solicitud en este momento. He avisado a un asistente humano para que te ayude en breve."

func AssistantTurn(ctx context.Context, in *GraphState, model contractx.ChatModel, prompts promptx.PromptSet, tools *toolx.Executor) (*GraphState, error) {
	if in == nil || in.Session == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}
	system := promptx.RenderAssistant(prompts.Assistant, in.Session.SkinProfile, in.Now, in.Session.CallerPhone, in.Session.Digest)
	return runTurn(ctx, in, model, system, tools)
}

func QuizTurn(ctx context.Context, in *GraphState, model contractx.ChatModel, prompts promptx.PromptSet, tools *toolx.Executor) (*GraphState, error) {
	if in == nil || in.Session == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}
	system := promptx.RenderQuiz(prompts.Quiz, in.Session.Digest)
	return runTurn(ctx, in, model, system, tools)
}

// runTurn drives the model until it answers with plain text: generate,
// persist the assistant message, execute any requested tools, persist
// the results, repeat. The mode is latched at entry so tool gating
// stays stable even when a call flips the quiz flag mid-turn.
func runTurn(ctx context.Context, in *GraphState, model contractx.ChatModel, systemPrompt string, tools *toolx.Executor) (*GraphState, error) {
	session := in.Session
	mode := session.Mode()

	for round := 0; round < maxToolRounds; round++ {
		out, err := model.Generate(ctx, buildModelInput(systemPrompt, session.Messages))
		if err != nil {
			return nil, fmt.Errorf("%w: generate reply: %v", contractx.ErrModelInvoke, err)
		}
		if out == nil {
			return nil, fmt.Errorf("%w: model returned nil message", contractx.ErrModelInvoke)
		}

		calls := toStateCalls(out.ToolCalls)
		session.Append(statex.NewAssistantMessage(strings.TrimSpace(out.Content), calls, in.Now))

		if len(calls) == 0 {
			return in, nil
		}

		log.Debug().Str("session_id", session.SessionID).Int("round", round).Int("calls", len(calls)).Msg("executing tool calls")

		results, err := tools.Execute(ctx, mode, calls, session.CallerPhone, in.Now)
		if err != nil {
			return nil, err
		}
		session.Append(results...)
		applyFlagTransitions(session, calls)
	}

	log.Warn().Str("session_id", session.SessionID).Msg("tool round cap reached, escalating")
	tools.Handoff(ctx, session.CallerPhone, capExceededReport, "")
	session.EscalationRequested = true
	session.Append(statex.NewAssistantMessage(capFallbackReply, nil, in.Now))
	return in, nil
}

func buildModelInput(systemPrompt string, history []statex.Message) []*schema.Message {
	msgs := make([]*schema.Message, 0, len(history)+1)
	msgs = append(msgs, schema.SystemMessage(systemPrompt))
	return append(msgs, historyMessages(history)...)
}

func historyMessages(history []statex.Message) []*schema.Message {
	msgs := make([]*schema.Message, 0, len(history))
	for _, m := range history {
		switch m.Kind {
		case statex.KindUser:
			msgs = append(msgs, schema.UserMessage(m.Text))
		case statex.KindSystem:
			msgs = append(msgs, schema.SystemMessage(m.Text))
		case statex.KindAssistant:
			msgs = append(msgs, &schema.Message{
				Role:      schema.Assistant,
				Content:   m.Text,
				ToolCalls: toSchemaCalls(m.ToolCalls),
			})
		case statex.KindToolResult:
			msgs = append(msgs, &schema.Message{
				Role:       schema.Tool,
				Content:    m.Text,
				ToolCallID: m.ToolCallID,
			})
		}
	}
	return msgs
}

func toStateCalls(calls []schema.ToolCall) []statex.ToolCall {
	if len(calls) == 0 {
		return nil
	}
	out := make([]statex.ToolCall, 0, len(calls))
	for _, c := range calls {
		id := strings.TrimSpace(c.ID)
		if id == "" {
			id = uuid.NewString()
		}
		out = append(out, statex.ToolCall{
			ID:   id,
			Name: strings.TrimSpace(c.Function.Name),
			Args: c.Function.Arguments,
		})
	}
	return out
}

func toSchemaCalls(calls []statex.ToolCall) []schema.ToolCall {
	if len(calls) == 0 {
		return nil
	}
	out := make([]schema.ToolCall, 0, len(calls))
	for _, c := range calls {
		out = append(out, schema.ToolCall{
			ID: c.ID,
			Function: schema.FunctionCall{
				Name:      c.Name,
				Arguments: c.Args,
			},
		})
	}
	return out
}

// applyFlagTransitions moves the session flags that tool calls imply:
// starting the quiz, closing it with a valid classification, and
// recording that a human was requested.
func applyFlagTransitions(session *statex.SessionState, calls []statex.ToolCall) {
	for _, c := range calls {
		switch c.Name {
		case toolx.ToolStartSkinQuiz:
			session.QuizActive = true
		case toolx.ToolClassifySkin:
			var args struct {
				TipoDePiel string `json:"tipo_de_piel"`
			}
			if raw := strings.TrimSpace(c.Args); raw != "" {
				_ = json.Unmarshal([]byte(raw), &args)
			}
			profile, err := quiz.ParseProfile(args.TipoDePiel)
			if err != nil {
				continue
			}
			session.SkinProfile = profile
			session.QuizActive = false
		case toolx.ToolHumanHandoff:
			session.EscalationRequested = true
		}
	}
}
