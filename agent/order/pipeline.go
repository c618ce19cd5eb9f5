package order

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	contractx "github.com/Mannyasoh/ai-ecommerce-chatbot/agent/contract"
	statex "github.com/Mannyasoh/ai-ecommerce-chatbot/agent/state"
	"github.com/rs/zerolog/log"
)

// Pipeline turns a completed slot set into exactly one persisted Record.
type Pipeline struct {
	store Store
	seq   *Sequence
	now   func() time.Time
}

type PipelineOption func(*Pipeline)

// WithPipelineClock overrides the time source, used by tests.
func WithPipelineClock(now func() time.Time) PipelineOption {
	return func(p *Pipeline) {
		if now != nil {
			p.now = now
		}
	}
}

func NewPipeline(store Store, seq *Sequence, opts ...PipelineOption) (*Pipeline, error) {
	if store == nil {
		return nil, errors.New("order store is required")
	}
	if seq == nil {
		seq = NewSequence()
	}
	p := &Pipeline{store: store, seq: seq, now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p, nil
}

// Commit validates the session's slots, generates an order id, and performs
// an idempotent insert. On success the session is marked committed and its
// slots cleared; on store failure the slots stay untouched so the
// confirmation turn can be retried without data loss.
func (p *Pipeline) Commit(ctx context.Context, sess *statex.Session) (*Record, error) {
	if sess == nil {
		return nil, fmt.Errorf("%w: session is nil", contractx.ErrValidation)
	}

	slots := sess.Slots
	if !slots.IsComplete() {
		return nil, fmt.Errorf("%w: order slots incomplete: missing=%v", contractx.ErrValidation, slots.Missing())
	}

	// A re-sent confirmation for an already committed slot set returns the
	// existing record instead of inserting a second one.
	fingerprint := slots.Fingerprint()
	if sess.LastCommit != nil && sess.LastCommit.Fingerprint == fingerprint {
		existing, err := p.store.Get(ctx, sess.LastCommit.OrderID)
		if err != nil {
			return nil, fmt.Errorf("%w: load committed order: %v", contractx.ErrOrderCommit, err)
		}
		log.Debug().
			Str("session_id", sess.SessionID).
			Str("order_id", existing.OrderID).
			Msg("duplicate commit short-circuited")
		return existing, nil
	}

	now := p.now().UTC()
	rec := &Record{
		ProductName:  slots.ProductName,
		ProductID:    slots.ProductID,
		Quantity:     slots.Quantity,
		UnitPrice:    slots.UnitPrice,
		TotalPrice:   roundCents(float64(slots.Quantity) * slots.UnitPrice),
		Status:       StatusPending,
		CustomerInfo: slots.CustomerInfo,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// One regeneration attempt on id collision, then the turn fails.
	var insertErr error
	for attempt := 0; attempt < 2; attempt++ {
		rec.OrderID = p.seq.Next()
		if err := rec.Validate(); err != nil {
			return nil, err
		}
		insertErr = p.store.Insert(ctx, rec)
		if insertErr == nil {
			break
		}
		if !errors.Is(insertErr, contractx.ErrOrderIDConflict) {
			return nil, fmt.Errorf("%w: %v", contractx.ErrOrderCommit, insertErr)
		}
		log.Warn().
			Str("session_id", sess.SessionID).
			Str("order_id", rec.OrderID).
			Msg("order id conflict, regenerating")
	}
	if insertErr != nil {
		return nil, fmt.Errorf("%w: %v", contractx.ErrOrderCommit, insertErr)
	}

	sess.MarkCommitted(rec.OrderID, fingerprint, now)
	log.Info().
		Str("session_id", sess.SessionID).
		Str("order_id", rec.OrderID).
		Int("quantity", rec.Quantity).
		Float64("total_price", rec.TotalPrice).
		Msg("order committed")
	return rec, nil
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
