package orchestrator

import (
	"context"
	"errors"
	"sync"
	"time"

	contractx "github.com/Mannyasoh/ai-ecommerce-chatbot/agent/contract"
	turnnode "github.com/Mannyasoh/ai-ecommerce-chatbot/agent/nodes"
	orderx "github.com/Mannyasoh/ai-ecommerce-chatbot/agent/order"
	routerx "github.com/Mannyasoh/ai-ecommerce-chatbot/agent/router"
	statex "github.com/Mannyasoh/ai-ecommerce-chatbot/agent/state"
	toolx "github.com/Mannyasoh/ai-ecommerce-chatbot/agent/tool"
	"github.com/cloudwego/eino/compose"
)

var (
	ErrInvalidMessage   = turnnode.ErrInvalidMessage
	ErrInvalidSessionID = turnnode.ErrInvalidSessionID
)

// TurnResult is what one conversational turn produced: the assistant's reply
// and, when the turn confirmed an order, the committed record.
type TurnResult struct {
	Reply string
	Order *orderx.Record
}

type Orchestrator struct {
	store      statex.Store
	router     *routerx.Router
	capability contractx.Capability
	dispatcher *toolx.Dispatcher
	registry   *toolx.Registry

	graphRunner compose.Runnable[turnnode.GraphInput, turnnode.GraphOutput]

	// Turns for the same session run one at a time; different sessions
	// proceed concurrently.
	mu       sync.Mutex
	sessions map[string]*sync.Mutex

	now func() time.Time
}

type Option func(*Orchestrator)

func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		if now != nil {
			o.now = now
		}
	}
}

func New(
	store statex.Store,
	router *routerx.Router,
	capability contractx.Capability,
	dispatcher *toolx.Dispatcher,
	registry *toolx.Registry,
	opts ...Option,
) (*Orchestrator, error) {
	if store == nil {
		return nil, errors.New("state store is required")
	}
	if router == nil {
		return nil, errors.New("intent router is required")
	}
	if capability == nil {
		return nil, errors.New("capability is required")
	}
	if dispatcher == nil {
		return nil, errors.New("tool dispatcher is required")
	}
	if registry == nil {
		return nil, errors.New("tool registry is required")
	}

	o := &Orchestrator{
		store:      store,
		router:     router,
		capability: capability,
		dispatcher: dispatcher,
		registry:   registry,
		sessions:   make(map[string]*sync.Mutex),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}

	graphRunner, err := o.compileHandleTurnGraph(context.Background())
	if err != nil {
		return nil, err
	}
	o.graphRunner = graphRunner

	return o, nil
}

// HandleTurn processes one user message end to end: route the intent, let
// the capability respond, execute any tool call, and persist the session.
func (o *Orchestrator) HandleTurn(ctx context.Context, sessionID string, text string) (TurnResult, error) {
	lock := o.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	out, err := o.graphRunner.Invoke(ctx, turnnode.GraphInput{
		SessionID: sessionID,
		Text:      text,
	})
	if err != nil {
		return TurnResult{}, err
	}
	return TurnResult{Reply: out.Reply, Order: out.Order}, nil
}

func (o *Orchestrator) sessionLock(sessionID string) *sync.Mutex {
	o.mu.Lock()
	defer o.mu.Unlock()

	lock, ok := o.sessions[sessionID]
	if !ok {
		lock = &sync.Mutex{}
		o.sessions[sessionID] = lock
	}
	return lock
}
