package catalog

import (
	"context"
	"errors"
	"testing"

	contractx "github.com/Mannyasoh/ai-ecommerce-chatbot/agent/contract"
)

func TestSearchRanksByOverlap(t *testing.T) {
	t.Parallel()

	m := NewMemory(DefaultProducts()...)

	matches, err := m.Search(context.Background(), "macbook air laptop", 3)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(matches) == 0 {
		t.Fatal("no matches for catalog product")
	}

	top, err := m.Product(context.Background(), matches[0].ProductID)
	if err != nil {
		t.Fatalf("Product() error = %v", err)
	}
	if top.Name != "MacBook Air 15-inch" {
		t.Fatalf("top match = %q, want MacBook Air 15-inch", top.Name)
	}
}

func TestSearchUnknownQueryReturnsEmpty(t *testing.T) {
	t.Parallel()

	m := NewMemory(DefaultProducts()...)
	matches, err := m.Search(context.Background(), "submarine propeller", 5)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(matches) != 0 {
		t.Fatalf("expected no matches, got %v", matches)
	}
}

func TestProductNotFound(t *testing.T) {
	t.Parallel()

	m := NewMemory(DefaultProducts()...)
	_, err := m.Product(context.Background(), "prod-999")
	if !errors.Is(err, contractx.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestSearchTopKLimit(t *testing.T) {
	t.Parallel()

	m := NewMemory(DefaultProducts()...)
	matches, err := m.Search(context.Background(), "laptop", 1)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(matches) > 1 {
		t.Fatalf("topK=1 returned %d matches", len(matches))
	}
}
