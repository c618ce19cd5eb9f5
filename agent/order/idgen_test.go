package order

import (
	"testing"
	"time"
)

func TestSequenceFormat(t *testing.T) {
	t.Parallel()

	day := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	seq := NewSequence(WithClock(func() time.Time { return day }))

	if got := seq.Next(); got != "ORD-20250601-000001" {
		t.Fatalf("Next() = %q", got)
	}
	if got := seq.Next(); got != "ORD-20250601-000002" {
		t.Fatalf("Next() = %q", got)
	}
}

func TestSequenceResetsOnDayRollover(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 23, 59, 0, 0, time.UTC)
	seq := NewSequence(WithClock(func() time.Time { return now }))

	seq.Next()
	seq.Next()

	now = now.Add(2 * time.Minute)
	if got := seq.Next(); got != "ORD-20250602-000001" {
		t.Fatalf("Next() after rollover = %q", got)
	}
}

func TestSequenceUsesUTCDay(t *testing.T) {
	t.Parallel()

	loc := time.FixedZone("UTC+7", 7*3600)
	local := time.Date(2025, 6, 2, 3, 0, 0, 0, loc) // still 2025-06-01 in UTC
	seq := NewSequence(WithClock(func() time.Time { return local }))

	if got := seq.Next(); got != "ORD-20250601-000001" {
		t.Fatalf("Next() = %q", got)
	}
}
