package enginenode

import (
	"context"
	"errors"
	"fmt"

	contractx "github.com/dermaluz/concierge/agent/contract"
	statex "github.com/dermaluz/concierge/agent/state"
)

func LoadOrCreateState(ctx context.Context, in *GraphState, store statex.Store) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	st, err := store.Load(ctx, in.SessionID)
	if err != nil {
		if !errors.Is(err, statex.ErrStateNotFound) {
			return nil, err
		}
		st = statex.NewSessionState(in.SessionID, in.CallerPhone, in.Now)
	}
	if st.CallerPhone == "" {
		st.CallerPhone = in.CallerPhone
	}

	in.InitialTurn = st.TurnCount == 0
	st.Append(statex.NewUserMessage(in.Text, in.Now))

	in.Session = st
	return in, nil
}
