package order

import (
	"context"
	"fmt"
	"sync"
	"time"

	contractx "github.com/Mannyasoh/ai-ecommerce-chatbot/agent/contract"
)

// MemoryStore keeps order records in process memory. It backs local runs
// and tests where Postgres is not available.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]Record
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]Record)}
}

func (m *MemoryStore) Insert(_ context.Context, rec *Record) error {
	if rec == nil {
		return fmt.Errorf("%w: record is nil", contractx.ErrValidation)
	}
	if err := rec.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.records[rec.OrderID]; exists {
		return fmt.Errorf("%w: order_id=%s", contractx.ErrOrderIDConflict, rec.OrderID)
	}
	m.records[rec.OrderID] = *rec
	return nil
}

func (m *MemoryStore) Get(_ context.Context, orderID string) (*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.records[orderID]
	if !ok {
		return nil, fmt.Errorf("%w: order_id=%s", ErrNotFound, orderID)
	}
	out := rec
	return &out, nil
}

func (m *MemoryStore) UpdateStatus(_ context.Context, orderID string, status Status) error {
	if !status.Valid() {
		return fmt.Errorf("%w: status %q", contractx.ErrValidation, status)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.records[orderID]
	if !ok {
		return fmt.Errorf("%w: order_id=%s", ErrNotFound, orderID)
	}
	rec.Status = status
	rec.UpdatedAt = time.Now().UTC()
	m.records[orderID] = rec
	return nil
}
