package contract

import (
	"context"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// ChatModel is the subset of eino's chat model surface the engine needs.
// Any einomodel.ToolCallingChatModel satisfies it after WithTools binding.
type ChatModel interface {
	Generate(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.Message, error)
}

// Digester produces a rolling conversation summary. The digest call
// carries no tool set, so it goes through a plain completion client.
type Digester interface {
	Summarize(ctx context.Context, transcript []*schema.Message, instruction string) (string, error)
}

// Retriever answers a free-text query with concatenated ranked snippets.
// An empty result is ("", nil); the tool layer substitutes the
// user-facing "no information" payload.
type Retriever interface {
	Search(ctx context.Context, query string) (string, error)
}

// Notifier dispatches a human-escalation notification.
type Notifier interface {
	Notify(ctx context.Context, esc Escalation) error
}
