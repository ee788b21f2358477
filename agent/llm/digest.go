package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"
	openaisdk "github.com/openai/openai-go"

	contractx "github.com/dermaluz/concierge/agent/contract"
	openrouterx "github.com/dermaluz/concierge/pkg/openrouter"
)

// OpenAIDigester condenses a transcript into a short running summary
// with a plain completion call, no tools bound.
type OpenAIDigester struct {
	client *openaisdk.Client
	model  string
}

var _ contractx.Digester = (*OpenAIDigester)(nil)

func NewDigester(cfg openrouterx.Config) (*OpenAIDigester, error) {
	client := openrouterx.NewClient(cfg)
	if client == nil {
		return nil, fmt.Errorf("%w: digester api key is required", contractx.ErrValidation)
	}
	modelName := strings.TrimSpace(cfg.Model)
	if modelName == "" {
		return nil, fmt.Errorf("%w: digester model is required", contractx.ErrValidation)
	}
	return &OpenAIDigester{client: client, model: modelName}, nil
}

func (d *OpenAIDigester) Summarize(ctx context.Context, transcript []*schema.Message, instruction string) (string, error) {
	params := openaisdk.ChatCompletionNewParams{
		Model:    openaisdk.ChatModel(d.model),
		Messages: make([]openaisdk.ChatCompletionMessageParamUnion, 0, len(transcript)+1),
	}

	for _, msg := range transcript {
		if msg == nil {
			continue
		}
		switch msg.Role {
		case schema.System:
			params.Messages = append(params.Messages, openaisdk.SystemMessage(msg.Content))
		case schema.User:
			params.Messages = append(params.Messages, openaisdk.UserMessage(msg.Content))
		case schema.Assistant:
			// Tool-call turns carry no prose worth summarizing.
			if strings.TrimSpace(msg.Content) == "" {
				continue
			}
			params.Messages = append(params.Messages, openaisdk.AssistantMessage(msg.Content))
		}
	}
	params.Messages = append(params.Messages, openaisdk.UserMessage(instruction))

	resp, err := d.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("%w: summarize transcript: %v", contractx.ErrModelInvoke, err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: summarize returned no choices", contractx.ErrModelInvoke)
	}

	summary := strings.TrimSpace(resp.Choices[0].Message.Content)
	if summary == "" {
		return "", fmt.Errorf("%w: summarize returned empty content", contractx.ErrModelInvoke)
	}
	return summary, nil
}
