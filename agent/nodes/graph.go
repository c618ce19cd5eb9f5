package turnnode

import (
	"errors"
	"strings"
	"time"

	contractx "github.com/Mannyasoh/ai-ecommerce-chatbot/agent/contract"
	orderx "github.com/Mannyasoh/ai-ecommerce-chatbot/agent/order"
	statex "github.com/Mannyasoh/ai-ecommerce-chatbot/agent/state"
)

var (
	ErrInvalidMessage   = errors.New("message is empty")
	ErrInvalidSessionID = errors.New("session id is empty")
)

type GraphInput struct {
	SessionID string
	Text      string
}

type GraphOutput struct {
	Reply string
	Order *orderx.Record
}

// GraphState threads one turn through the pipeline.
type GraphState struct {
	SessionID string
	Text      string
	Now       time.Time

	Session *statex.Session
	Agent   statex.Agent

	Reply      contractx.CapabilityReply
	ToolResult *contractx.ToolResult
	Order      *orderx.Record

	Message string
}

func ValidateRequest(in GraphInput, nowFn func() time.Time) (*GraphState, error) {
	sessionID := strings.TrimSpace(in.SessionID)
	if sessionID == "" {
		return nil, ErrInvalidSessionID
	}

	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, ErrInvalidMessage
	}

	return &GraphState{
		SessionID: sessionID,
		Text:      text,
		Now:       nowFn().UTC(),
	}, nil
}
