package enginenode

import (
	"context"
	"fmt"

	contractx "github.com/dermaluz/concierge/agent/contract"
	statex "github.com/dermaluz/concierge/agent/state"
)

const (
	NodeCompactHistory = "compact_history"
	NodeSaveState      = "save_state"
)

const (
	createDigestInstruction = "Crea un resumen breve de la conversación anterior. Conserva los datos del usuario, su tipo de piel si se conoce, los productos mencionados y cualquier pedido pendiente."
	extendDigestInstruction = "Este es el resumen de la conversación hasta ahora: %s\n\nExtiende el resumen tomando en cuenta los mensajes anteriores. Conserva los datos del usuario, su tipo de piel si se conoce, los productos mencionados y cualquier pedido pendiente."
)

// NeedsCompaction routes the cycle tail: histories past the threshold
// go through the digester before persisting.
func NeedsCompaction(in *GraphState) (string, error) {
	if in == nil || in.Session == nil {
		return "", fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}
	if len(in.Session.Messages) > statex.CompactThreshold {
		return NodeCompactHistory, nil
	}
	return NodeSaveState, nil
}

// CompactHistory folds everything outside the retained tail window into
// the rolling digest and removes it from raw history.
func CompactHistory(ctx context.Context, in *GraphState, digester contractx.Digester) (*GraphState, error) {
	if in == nil || in.Session == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}
	session := in.Session

	window := statex.RetainWindow(session.Messages)
	tombstones := statex.TombstonesOutside(session.Messages, window)
	if len(tombstones) == 0 {
		return in, nil
	}

	instruction := createDigestInstruction
	if session.Digest != "" {
		instruction = fmt.Sprintf(extendDigestInstruction, session.Digest)
	}

	digest, err := digester.Summarize(ctx, historyMessages(session.Messages), instruction)
	if err != nil {
		return nil, err
	}

	session.Digest = digest
	session.ApplyTombstones(tombstones)
	return in, nil
}
