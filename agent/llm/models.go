package llm

import (
	"context"
	"fmt"

	contractx "github.com/dermaluz/concierge/agent/contract"
	toolx "github.com/dermaluz/concierge/agent/tool"
)

// ModelSet bundles the per-role chat models and the digester backing a
// single engine instance.
type ModelSet struct {
	Assistant contractx.ChatModel
	Quiz      contractx.ChatModel
	Digester  contractx.Digester
}

// BuildModels resolves each role's model config, binds the tool set
// allowed in that mode, and wires the summarization client.
func BuildModels(ctx context.Context, cfg Config) (ModelSet, error) {
	if err := cfg.Validate(); err != nil {
		return ModelSet{}, err
	}

	assistantCfg := cfg.OpenRouterFor(RoleAssistant)
	assistantModel, err := assistantCfg.New(ctx)
	if err != nil {
		return ModelSet{}, fmt.Errorf("%w: create assistant model: %v", contractx.ErrModelInvoke, err)
	}
	assistantTooled, err := assistantModel.WithTools(toolx.InfosForMode(contractx.ModeAssistant))
	if err != nil {
		return ModelSet{}, fmt.Errorf("%w: bind assistant tools: %v", contractx.ErrModelInvoke, err)
	}

	quizCfg := cfg.OpenRouterFor(RoleQuiz)
	quizModel, err := quizCfg.New(ctx)
	if err != nil {
		return ModelSet{}, fmt.Errorf("%w: create quiz model: %v", contractx.ErrModelInvoke, err)
	}
	quizTooled, err := quizModel.WithTools(toolx.InfosForMode(contractx.ModeQuiz))
	if err != nil {
		return ModelSet{}, fmt.Errorf("%w: bind quiz tools: %v", contractx.ErrModelInvoke, err)
	}

	digestCfg := cfg.OpenRouterFor(RoleDigest)
	digester, err := NewDigester(digestCfg)
	if err != nil {
		return ModelSet{}, err
	}

	return ModelSet{
		Assistant: assistantTooled,
		Quiz:      quizTooled,
		Digester:  digester,
	}, nil
}
