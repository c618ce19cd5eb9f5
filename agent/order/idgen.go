package order

import (
	"fmt"
	"sync"
	"time"
)

// Sequence generates order ids in the format ORD-<YYYYMMDD>-<sequence>,
// monotonically increasing within a day and reset on date rollover.
type Sequence struct {
	mu  sync.Mutex
	day string
	n   int

	now func() time.Time
}

type SequenceOption func(*Sequence)

// WithClock overrides the time source, used by tests.
func WithClock(now func() time.Time) SequenceOption {
	return func(s *Sequence) {
		if now != nil {
			s.now = now
		}
	}
}

func NewSequence(opts ...SequenceOption) *Sequence {
	s := &Sequence{now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *Sequence) Next() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	day := s.now().UTC().Format("20060102")
	if day != s.day {
		s.day = day
		s.n = 0
	}
	s.n++
	return fmt.Sprintf("ORD-%s-%06d", day, s.n)
}
