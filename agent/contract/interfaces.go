package contract

import (
	"context"

	statex "github.com/Mannyasoh/ai-ecommerce-chatbot/agent/state"
	"github.com/cloudwego/eino/schema"
)

// Capability is the language-model boundary. Classify picks the agent for a
// turn; Respond produces either a reply or a tool-call request for the agent
// that owns the turn. Any backend satisfying this contract plugs in.
type Capability interface {
	Classify(ctx context.Context, text string, history []statex.Turn) (statex.Agent, error)
	Respond(ctx context.Context, agent statex.Agent, text string, history []statex.Turn, tools []*schema.ToolInfo) (CapabilityReply, error)
}

// Searcher is the vector-similarity boundary.
type Searcher interface {
	Search(ctx context.Context, query string, topK int) ([]Match, error)
}

// Catalog is the product-lookup boundary.
type Catalog interface {
	Product(ctx context.Context, productID string) (*Product, error)
}
