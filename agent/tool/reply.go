package tool

import (
	"encoding/json"

	contractx "github.com/Mannyasoh/ai-ecommerce-chatbot/agent/contract"
	orderx "github.com/Mannyasoh/ai-ecommerce-chatbot/agent/order"
)

// ReplyText renders a tool result as the assistant's reply for the turn.
func ReplyText(res contractx.ToolResult) string {
	if res.Error != "" {
		return res.Error
	}
	switch out := res.Result.(type) {
	case SearchOutput:
		return out.Message
	case DetailsOutput:
		return out.Message
	case CategoryOutput:
		return out.Message
	case AvailabilityOutput:
		return out.Message
	case CreateOutput:
		return out.Message
	case ValidateOutput:
		return out.Message
	case StatusOutput:
		return out.Message
	case CancelOutput:
		return out.Message
	}
	// Unknown payloads fall back to their JSON form rather than dropping data.
	raw, err := json.Marshal(res.Result)
	if err != nil {
		return ""
	}
	return string(raw)
}

// CommittedOrder extracts the order record from a create result, if any.
func CommittedOrder(res contractx.ToolResult) *orderx.Record {
	if out, ok := res.Result.(CreateOutput); ok {
		return out.Order
	}
	return nil
}
