// Package notify adapts the QStash publisher to the engine's
// escalation contract.
package notify

import (
	"context"
	"errors"
	"strings"

	contractx "github.com/dermaluz/concierge/agent/contract"
	qstashx "github.com/dermaluz/concierge/pkg/qstash"
)

type escalationPayload struct {
	Recipient   string `json:"recipient,omitempty"`
	Subject     string `json:"subject"`
	Body        string `json:"body"`
	CallerPhone string `json:"caller_phone"`
}

// QStashNotifier publishes escalations to a QStash destination that
// fans out to the human operators channel.
type QStashNotifier struct {
	client      *qstashx.Client
	destination string
}

func NewQStashNotifier(client *qstashx.Client, destination string) (*QStashNotifier, error) {
	if client == nil {
		return nil, errors.New("qstash client is required")
	}
	destination = strings.TrimSpace(destination)
	if destination == "" {
		return nil, errors.New("qstash destination is required")
	}
	return &QStashNotifier{client: client, destination: destination}, nil
}

var _ contractx.Notifier = (*QStashNotifier)(nil)

func (n *QStashNotifier) Notify(ctx context.Context, esc contractx.Escalation) error {
	return n.client.Publish(ctx, n.destination, escalationPayload{
		Recipient:   esc.Recipient,
		Subject:     esc.Subject,
		Body:        esc.Body,
		CallerPhone: esc.CallerPhone,
	})
}
