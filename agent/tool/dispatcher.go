package tool

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	contractx "github.com/Mannyasoh/ai-ecommerce-chatbot/agent/contract"
	statex "github.com/Mannyasoh/ai-ecommerce-chatbot/agent/state"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"
)

const (
	defaultTimeout     = 10 * time.Second
	defaultMaxRetries  = 2
	defaultBackoffBase = 200 * time.Millisecond
)

// Dispatcher validates and executes a capability's tool-call request against
// the registry. Transient execution errors are retried with exponential
// backoff; validation and unknown-tool errors never reach a handler, and a
// commit failure ends the turn without retry.
type Dispatcher struct {
	registry *Registry

	timeout     time.Duration
	maxRetries  int
	backoffBase time.Duration

	sleep func(ctx context.Context, d time.Duration) error
}

type DispatcherOption func(*Dispatcher)

func WithTimeout(timeout time.Duration) DispatcherOption {
	return func(d *Dispatcher) {
		if timeout > 0 {
			d.timeout = timeout
		}
	}
}

func WithRetries(maxRetries int, backoffBase time.Duration) DispatcherOption {
	return func(d *Dispatcher) {
		if maxRetries >= 0 {
			d.maxRetries = maxRetries
		}
		if backoffBase > 0 {
			d.backoffBase = backoffBase
		}
	}
}

// WithSleep overrides the backoff sleeper, used by tests.
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) DispatcherOption {
	return func(d *Dispatcher) {
		if sleep != nil {
			d.sleep = sleep
		}
	}
}

func NewDispatcher(registry *Registry, opts ...DispatcherOption) (*Dispatcher, error) {
	if registry == nil {
		return nil, fmt.Errorf("%w: registry is required", contractx.ErrValidation)
	}
	d := &Dispatcher{
		registry:    registry,
		timeout:     defaultTimeout,
		maxRetries:  defaultMaxRetries,
		backoffBase: defaultBackoffBase,
		sleep:       sleepCtx,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d, nil
}

func (d *Dispatcher) Dispatch(ctx context.Context, sess *statex.Session, req contractx.ToolCallRequest) (contractx.ToolResult, error) {
	def, err := d.registry.Resolve(req.Tool)
	if err != nil {
		return contractx.ToolResult{}, err
	}

	args, argErr := validateArgs(def, req.Args)
	if argErr != nil {
		return contractx.ToolResult{}, argErr
	}

	var lastErr error
	for attempt := 0; attempt <= d.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(float64(d.backoffBase) * math.Pow(2, float64(attempt-1)))
			if err := d.sleep(ctx, backoff); err != nil {
				break
			}
			log.Debug().
				Str("tool", def.Name).
				Int("attempt", attempt+1).
				Msg("retrying tool call")
		}

		res, err := d.execute(ctx, def, sess, args)
		if err == nil {
			return res, nil
		}
		// A failed commit is terminal for the turn: the pipeline already
		// preserved the slots, and a dispatcher retry would re-enter it.
		if errors.Is(err, contractx.ErrOrderCommit) {
			return contractx.ToolResult{}, err
		}
		lastErr = err
	}

	return contractx.ToolResult{}, fmt.Errorf("%w: tool=%s: %w", contractx.ErrToolExecution, def.Name, lastErr)
}

func (d *Dispatcher) execute(ctx context.Context, def Definition, sess *statex.Session, args map[string]any) (contractx.ToolResult, error) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()
	return def.Handler(ctx, sess, args)
}

// validateArgs checks required fields, coerces types, and enforces numeric
// domains. Unknown fields are rejected rather than trusted.
func validateArgs(def Definition, raw map[string]any) (map[string]any, error) {
	var bad []string
	out := make(map[string]any, len(raw))

	for name := range raw {
		if _, ok := def.Fields[name]; !ok {
			bad = append(bad, name)
		}
	}

	for name, field := range def.Fields {
		val, present := raw[name]
		if !present || val == nil {
			if field.Required {
				bad = append(bad, name)
			}
			continue
		}

		coerced, ok := coerce(field, val)
		if !ok {
			bad = append(bad, name)
			continue
		}
		out[name] = coerced
	}

	if len(bad) > 0 {
		sort.Strings(bad)
		return nil, &contractx.ArgumentError{Tool: def.Name, Fields: bad}
	}
	return out, nil
}

func coerce(field Field, val any) (any, bool) {
	switch field.Type {
	case schema.String:
		s, ok := val.(string)
		if !ok || strings.TrimSpace(s) == "" {
			return nil, false
		}
		return strings.TrimSpace(s), true
	case schema.Integer:
		n, ok := toInt(val)
		if !ok {
			return nil, false
		}
		if field.Positive && n <= 0 {
			return nil, false
		}
		return n, true
	case schema.Number:
		f, ok := toFloat(val)
		if !ok {
			return nil, false
		}
		if field.Positive && f <= 0 {
			return nil, false
		}
		return f, true
	case schema.Object:
		m, ok := val.(map[string]any)
		if !ok {
			return nil, false
		}
		return m, true
	default:
		return nil, false
	}
}

func toInt(val any) (int, bool) {
	switch v := val.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		// JSON numbers decode as float64; only integral values pass.
		if v != math.Trunc(v) {
			return 0, false
		}
		return int(v), true
	default:
		return 0, false
	}
}

func toFloat(val any) (float64, bool) {
	switch v := val.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
