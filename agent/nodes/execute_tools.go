package turnnode

import (
	"context"
	"errors"
	"fmt"
	"strings"

	contractx "github.com/Mannyasoh/ai-ecommerce-chatbot/agent/contract"
	toolx "github.com/Mannyasoh/ai-ecommerce-chatbot/agent/tool"
	"github.com/rs/zerolog/log"
)

// ExecuteTools runs the capability's tool call, if any. Every dispatch
// failure is converted into a conversational reply: the session survives all
// of them.
func ExecuteTools(ctx context.Context, in *GraphState, dispatcher *toolx.Dispatcher) (*GraphState, error) {
	if in == nil || in.Session == nil {
		return nil, fmt.Errorf("%w: graph session is nil", contractx.ErrValidation)
	}
	if in.Reply.ToolCall == nil {
		return in, nil
	}

	res, err := dispatcher.Dispatch(ctx, in.Session, *in.Reply.ToolCall)
	if err != nil {
		in.Message = recoveryMessage(err)
		log.Warn().
			Err(err).
			Str("session_id", in.SessionID).
			Str("tool", in.Reply.ToolCall.Tool).
			Msg("tool call recovered as conversational reply")
		return in, nil
	}

	in.ToolResult = &res
	in.Order = toolx.CommittedOrder(res)
	return in, nil
}

func recoveryMessage(err error) string {
	var argErr *contractx.ArgumentError
	switch {
	case errors.Is(err, contractx.ErrUnknownTool):
		return "I'm sorry, I can't do that. I can help you with product questions or placing an order."
	case errors.As(err, &argErr):
		return fmt.Sprintf("I need a valid value for %s before I can continue. Could you clarify?",
			strings.Join(argErr.Fields, ", "))
	case errors.Is(err, contractx.ErrOrderCommit):
		return "I'm sorry, I couldn't save your order just now. Nothing was lost - please confirm again in a moment."
	default:
		return "I'm sorry, something went wrong while processing that. Please try again in a moment."
	}
}
