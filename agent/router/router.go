package router

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	contractx "github.com/Mannyasoh/ai-ecommerce-chatbot/agent/contract"
	statex "github.com/Mannyasoh/ai-ecommerce-chatbot/agent/state"
	"github.com/rs/zerolog/log"
)

// cancelSignals reset an in-progress order and send the turn back to
// classification.
// Phrases only: a bare token like "reset" would match unrelated turns
// ("reset my password") and wipe a pending order.
var cancelSignals = []string{
	"cancel the order",
	"cancel my order",
	"cancel that",
	"never mind",
	"nevermind",
	"start over",
	"forget it",
	"reset the order",
}

var orderIDPattern = regexp.MustCompile(`(?i)\bord-\d{8}-[a-z0-9]+\b`)

// Router selects the acting capability for each turn. An incomplete pending
// order keeps the Order agent sticky; everything else defers to the
// capability's classifier with Information as the default-safe fallback.
type Router struct {
	capability contractx.Capability
	now        func() time.Time
}

type Option func(*Router)

// WithClock overrides the time source, used by tests.
func WithClock(now func() time.Time) Option {
	return func(r *Router) {
		if now != nil {
			r.now = now
		}
	}
}

func New(capability contractx.Capability, opts ...Option) (*Router, error) {
	if capability == nil {
		return nil, errors.New("capability is required")
	}
	r := &Router{capability: capability, now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r, nil
}

// Route picks the agent for the turn and records it on the session.
// Classification failure degrades to Information; it is never fatal.
func (r *Router) Route(ctx context.Context, sess *statex.Session, text string) statex.Agent {
	now := r.now()

	if isCancelSignal(text) {
		if !sess.Slots.IsEmpty() {
			log.Info().Str("session_id", sess.SessionID).Msg("order reset by cancel signal")
		}
		sess.ResetOrder(now)
	} else if sess.ActiveAgent == statex.AgentOrder && !sess.Slots.IsEmpty() && !sess.Slots.IsComplete() {
		// Sticky continuation: keep collecting slots for the pending order.
		return statex.AgentOrder
	}

	agent := r.classify(ctx, sess, text)
	sess.ActiveAgent = agent
	sess.Touch(now)
	return agent
}

func (r *Router) classify(ctx context.Context, sess *statex.Session, text string) statex.Agent {
	// A literal order id is an order-status turn regardless of phrasing.
	if orderIDPattern.MatchString(text) {
		return statex.AgentOrder
	}

	agent, err := r.capability.Classify(ctx, text, sess.RecentTurns(8))
	if err != nil {
		log.Debug().
			Err(err).
			Str("session_id", sess.SessionID).
			Msg("classification degraded to information")
		return statex.AgentInformation
	}
	switch agent {
	case statex.AgentInformation, statex.AgentOrder:
		return agent
	default:
		return statex.AgentInformation
	}
}

func isCancelSignal(text string) bool {
	lower := strings.ToLower(text)
	for _, signal := range cancelSignals {
		if strings.Contains(lower, signal) {
			return true
		}
	}
	return false
}
