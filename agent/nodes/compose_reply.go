package turnnode

import (
	"fmt"
	"strings"

	contractx "github.com/Mannyasoh/ai-ecommerce-chatbot/agent/contract"
	statex "github.com/Mannyasoh/ai-ecommerce-chatbot/agent/state"
	toolx "github.com/Mannyasoh/ai-ecommerce-chatbot/agent/tool"
)

const fallbackReply = "I'm not sure how to help with that. I can answer product questions or place an order for you."

// ComposeReply settles the assistant's reply for the turn and records both
// sides of the exchange on the session.
func ComposeReply(in *GraphState) (*GraphState, error) {
	if in == nil || in.Session == nil {
		return nil, fmt.Errorf("%w: graph session is nil", contractx.ErrValidation)
	}

	if in.Message == "" {
		switch {
		case in.ToolResult != nil:
			in.Message = toolx.ReplyText(*in.ToolResult)
		default:
			in.Message = strings.TrimSpace(in.Reply.Message)
		}
	}
	if in.Message == "" {
		in.Message = fallbackReply
	}

	in.Session.AppendTurn(statex.RoleUser, in.Text, in.Now)
	in.Session.AppendTurn(statex.RoleAssistant, in.Message, in.Now)
	return in, nil
}
