package engine

import (
	"context"
	"errors"
	"time"

	"github.com/cloudwego/eino/compose"

	contractx "github.com/dermaluz/concierge/agent/contract"
	enginenode "github.com/dermaluz/concierge/agent/nodes"
	promptx "github.com/dermaluz/concierge/agent/prompt"
	statex "github.com/dermaluz/concierge/agent/state"
	toolx "github.com/dermaluz/concierge/agent/tool"
)

var (
	ErrInvalidMessage = enginenode.ErrInvalidMessage
	ErrInvalidSession = enginenode.ErrInvalidSession
)

// Engine runs one conversational cycle per ProcessTurn call: route by
// mode, drive the model and its tools, clean up tool artifacts, compact
// history past the threshold, and persist the session.
type Engine struct {
	store     statex.Store
	assistant contractx.ChatModel
	quiz      contractx.ChatModel
	digester  contractx.Digester
	tools     *toolx.Executor
	prompts   promptx.PromptSet

	graphRunner compose.Runnable[enginenode.GraphInput, enginenode.GraphOutput]

	now func() time.Time
}

func New(
	store statex.Store,
	assistant contractx.ChatModel,
	quiz contractx.ChatModel,
	digester contractx.Digester,
	tools *toolx.Executor,
) (*Engine, error) {
	if store == nil {
		return nil, errors.New("state store is required")
	}
	if assistant == nil {
		return nil, errors.New("assistant model is required")
	}
	if quiz == nil {
		return nil, errors.New("quiz model is required")
	}
	if digester == nil {
		return nil, errors.New("digester is required")
	}
	if tools == nil {
		return nil, errors.New("tool executor is required")
	}

	e := &Engine{
		store:     store,
		assistant: assistant,
		quiz:      quiz,
		digester:  digester,
		tools:     tools,
		prompts:   promptx.LoadPromptSet(),
		now:       time.Now,
	}

	graphRunner, err := e.compileProcessTurnGraph(context.Background())
	if err != nil {
		return nil, err
	}
	e.graphRunner = graphRunner

	return e, nil
}

// ProcessTurn handles one inbound user message and returns the reply
// ready for the transport.
func (e *Engine) ProcessTurn(ctx context.Context, sessionID, callerPhone, text string) (contractx.TurnResult, error) {
	out, err := e.graphRunner.Invoke(ctx, enginenode.GraphInput{
		SessionID:   sessionID,
		CallerPhone: callerPhone,
		Text:        text,
	})
	if err != nil {
		return contractx.TurnResult{}, err
	}
	return contractx.TurnResult{
		Reply:  out.Reply,
		Format: out.Format,
	}, nil
}
