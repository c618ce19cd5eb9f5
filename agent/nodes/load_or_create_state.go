package turnnode

import (
	"context"
	"errors"
	"fmt"

	contractx "github.com/Mannyasoh/ai-ecommerce-chatbot/agent/contract"
	statex "github.com/Mannyasoh/ai-ecommerce-chatbot/agent/state"
)

func LoadOrCreateState(ctx context.Context, in *GraphState, store statex.Store) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	sess, err := store.Load(ctx, in.SessionID)
	if err != nil {
		if !errors.Is(err, statex.ErrStateNotFound) {
			return nil, err
		}
		sess = statex.NewSession(in.SessionID, in.Now)
	}

	in.Session = sess
	return in, nil
}
