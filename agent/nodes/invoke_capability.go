package turnnode

import (
	"context"
	"fmt"

	contractx "github.com/Mannyasoh/ai-ecommerce-chatbot/agent/contract"
	"github.com/cloudwego/eino/schema"
)

func InvokeCapability(
	ctx context.Context,
	in *GraphState,
	capability contractx.Capability,
	tools []*schema.ToolInfo,
) (*GraphState, error) {
	if in == nil || in.Session == nil {
		return nil, fmt.Errorf("%w: graph session is nil", contractx.ErrValidation)
	}

	// History excludes the current turn; it is appended after the reply.
	reply, err := capability.Respond(ctx, in.Agent, in.Text, in.Session.Turns, tools)
	if err != nil {
		return nil, err
	}

	in.Reply = reply
	return in, nil
}
