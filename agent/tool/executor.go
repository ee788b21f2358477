package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	contractx "github.com/dermaluz/concierge/agent/contract"
	"github.com/dermaluz/concierge/agent/quiz"
	statex "github.com/dermaluz/concierge/agent/state"
)

const (
	noInfoPayload        = "No encontré información al respecto."
	handoffOKPayload     = "He llamado a un asistente humano, se comunicará contigo en breve para ayudarte."
	quizStartedPayload   = "¡Listo! Vamos a aplicar un skin test para conocer el tipo de piel del usuario. Pregunta al usuario si está listo para comenzar."
	classifiedPayloadFmt = "Tipo de piel: %s. Pregunta al usuario si desea una rutina y consejos para su tipo de piel."
)

// Executor runs model-issued tool calls against their bound
// capabilities and turns each outcome into a tool-result message.
// Capability failures become textual payloads, never turn failures;
// only an unknown tool name aborts the cycle.
type Executor struct {
	storeInfo        contractx.Retriever
	productInfo      contractx.Retriever
	notifier         contractx.Notifier
	defaultRecipient string
}

func NewExecutor(storeInfo, productInfo contractx.Retriever, notifier contractx.Notifier, defaultRecipient string) *Executor {
	return &Executor{
		storeInfo:        storeInfo,
		productInfo:      productInfo,
		notifier:         notifier,
		defaultRecipient: strings.TrimSpace(defaultRecipient),
	}
}

// Execute produces exactly one tool result per call, in call order.
func (e *Executor) Execute(ctx context.Context, mode contractx.Mode, calls []statex.ToolCall, callerPhone string, now time.Time) ([]statex.Message, error) {
	results := make([]statex.Message, 0, len(calls))
	for _, call := range calls {
		if !allowedInMode(mode, call.Name) {
			return nil, fmt.Errorf("%w: tool=%s mode=%s", contractx.ErrUnknownTool, call.Name, mode)
		}
		payload := e.dispatch(ctx, call, callerPhone)
		results = append(results, statex.NewToolResult(call.ID, payload, now))
	}
	return results, nil
}

func (e *Executor) dispatch(ctx context.Context, call statex.ToolCall, callerPhone string) string {
	switch call.Name {
	case ToolStoreInfo:
		return e.search(ctx, e.storeInfo, call.Args)
	case ToolProductInfo:
		return e.search(ctx, e.productInfo, call.Args)
	case ToolHumanHandoff:
		var args struct {
			ClientPhone string `json:"client_phone"`
			Body        string `json:"body"`
			Recipient   string `json:"recipient"`
		}
		decodeArgs(call.Args, &args)
		phone := strings.TrimSpace(args.ClientPhone)
		if phone == "" {
			phone = callerPhone
		}
		return e.Handoff(ctx, phone, args.Body, args.Recipient)
	case ToolStartSkinQuiz:
		return quizStartedPayload
	case ToolClassifySkin:
		var args struct {
			TipoDePiel string `json:"tipo_de_piel"`
		}
		decodeArgs(call.Args, &args)
		profile, err := quiz.ParseProfile(args.TipoDePiel)
		if err != nil {
			return fmt.Sprintf("Valor inválido %q. Usa exactamente uno de: %s, %s, %s.",
				args.TipoDePiel, contractx.SkinDry, contractx.SkinNormal, contractx.SkinOily)
		}
		return fmt.Sprintf(classifiedPayloadFmt, profile)
	default:
		// allowedInMode filters earlier; kept for exhaustiveness.
		return ""
	}
}

// Handoff dispatches the human-escalation notification and renders the
// outcome as a tool payload. A transport failure is reported in the
// payload so the turn can continue.
func (e *Executor) Handoff(ctx context.Context, callerPhone, report, recipientOverride string) string {
	recipient := strings.TrimSpace(recipientOverride)
	if recipient == "" {
		recipient = e.defaultRecipient
	}

	esc := contractx.Escalation{
		Recipient:   recipient,
		Subject:     fmt.Sprintf("Un usuario con teléfono %s necesita tu ayuda", callerPhone),
		Body:        fmt.Sprintf("El chatbot no pudo contestar una duda del usuario con el teléfono: %s\n\nÉste es el reporte del chatbot:\n%s\n\nPor favor, revisa esta solicitud y comunícate con el usuario lo antes posible.", callerPhone, report),
		CallerPhone: callerPhone,
	}

	if err := e.notifier.Notify(ctx, esc); err != nil {
		log.Warn().Err(err).Str("caller_phone", callerPhone).Msg("escalation dispatch failed")
		return fmt.Sprintf("Fallo al enviar la solicitud de asistencia humana. Error: %v", err)
	}
	return handoffOKPayload
}

func (e *Executor) search(ctx context.Context, retriever contractx.Retriever, rawArgs string) string {
	var args struct {
		Query string `json:"query"`
	}
	decodeArgs(rawArgs, &args)

	query := strings.TrimSpace(args.Query)
	if query == "" {
		return noInfoPayload
	}

	snippets, err := retriever.Search(ctx, query)
	if err != nil {
		log.Warn().Err(err).Str("query", query).Msg("retrieval failed")
		return noInfoPayload
	}
	if strings.TrimSpace(snippets) == "" {
		return noInfoPayload
	}
	return snippets
}

func decodeArgs(raw string, dst any) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return
	}
	if err := json.Unmarshal([]byte(trimmed), dst); err != nil {
		log.Debug().Err(err).Msg("tool args are not valid json")
	}
}
