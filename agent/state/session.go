package state

import (
	"errors"
	"strings"
	"time"
)

// Agent identifies which capability owns the next turn of a session.
type Agent string

const (
	AgentUnset       Agent = "unset"
	AgentInformation Agent = "information"
	AgentOrder       Agent = "order"
)

type TurnRole string

const (
	RoleUser      TurnRole = "user"
	RoleAssistant TurnRole = "assistant"
)

type Turn struct {
	Role TurnRole  `json:"role"`
	Text string    `json:"text"`
	At   time.Time `json:"at"`
}

// CommitMarker records the order a session has already committed so a
// duplicate confirmation turn short-circuits instead of inserting twice.
type CommitMarker struct {
	OrderID     string `json:"order_id"`
	Fingerprint string `json:"fingerprint"`
}

// Session is the per-conversation source of truth. It is owned by the
// orchestrator and mutated only by the router (ActiveAgent) and the slot
// accumulator (Slots). One turn per session is in flight at a time.
type Session struct {
	SessionID   string `json:"session_id"`
	Turns       []Turn `json:"turns,omitempty"`
	ActiveAgent Agent  `json:"active_agent"`

	Slots      OrderSlots    `json:"slots"`
	LastCommit *CommitMarker `json:"last_commit,omitempty"`

	UpdatedAt time.Time `json:"updated_at"`
}

var (
	ErrNilSession     = errors.New("session is nil")
	ErrInvalidSession = errors.New("session id is empty")
)

func NewSession(sessionID string, now time.Time) *Session {
	return &Session{
		SessionID:   sessionID,
		ActiveAgent: AgentUnset,
		UpdatedAt:   now.UTC(),
	}
}

func (s *Session) Touch(now time.Time) {
	s.UpdatedAt = now.UTC()
}

func (s *Session) AppendTurn(role TurnRole, text string, now time.Time) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	s.Turns = append(s.Turns, Turn{Role: role, Text: text, At: now.UTC()})
}

// RecentTurns returns up to n trailing turns without copying the backing array.
func (s *Session) RecentTurns(n int) []Turn {
	if s == nil || n <= 0 || len(s.Turns) == 0 {
		return nil
	}
	if len(s.Turns) <= n {
		return s.Turns
	}
	return s.Turns[len(s.Turns)-n:]
}

// MarkCommitted records a successful order commit and resets the session
// toward classification readiness: slots cleared, agent back to unset.
func (s *Session) MarkCommitted(orderID, fingerprint string, now time.Time) {
	s.LastCommit = &CommitMarker{OrderID: orderID, Fingerprint: fingerprint}
	s.Slots = OrderSlots{}
	s.ActiveAgent = AgentUnset
	s.Touch(now)
}

// ResetOrder discards in-progress slots after an explicit cancel signal.
func (s *Session) ResetOrder(now time.Time) {
	s.Slots = OrderSlots{}
	s.ActiveAgent = AgentUnset
	s.Touch(now)
}

func (s *Session) Validate() error {
	if s == nil {
		return ErrNilSession
	}
	if strings.TrimSpace(s.SessionID) == "" {
		return ErrInvalidSession
	}
	switch s.ActiveAgent {
	case AgentUnset, AgentInformation, AgentOrder:
	default:
		return errors.New("invalid active agent: " + string(s.ActiveAgent))
	}
	return nil
}

// Clone returns a deep copy so store implementations never hand out aliased
// mutable state across session boundaries.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	out := *s
	if len(s.Turns) > 0 {
		out.Turns = append([]Turn(nil), s.Turns...)
	}
	out.Slots = s.Slots.clone()
	if s.LastCommit != nil {
		marker := *s.LastCommit
		out.LastCommit = &marker
	}
	return &out
}
