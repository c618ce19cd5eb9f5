package turnnode

import (
	"context"
	"fmt"

	contractx "github.com/Mannyasoh/ai-ecommerce-chatbot/agent/contract"
	routerx "github.com/Mannyasoh/ai-ecommerce-chatbot/agent/router"
)

func RouteIntent(ctx context.Context, in *GraphState, router *routerx.Router) (*GraphState, error) {
	if in == nil || in.Session == nil {
		return nil, fmt.Errorf("%w: graph session is nil", contractx.ErrValidation)
	}

	in.Agent = router.Route(ctx, in.Session, in.Text)
	return in, nil
}
