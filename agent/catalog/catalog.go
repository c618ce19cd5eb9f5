package catalog

import (
	"context"
	"fmt"
	"sort"
	"strings"

	contractx "github.com/Mannyasoh/ai-ecommerce-chatbot/agent/contract"
)

// Memory is an in-process product index implementing both the similarity
// lookup and the catalog boundary. Token-overlap scoring stands in for a
// vector store behind the same interface.
type Memory struct {
	products map[string]contractx.Product
	order    []string
}

func NewMemory(products ...contractx.Product) *Memory {
	m := &Memory{products: make(map[string]contractx.Product, len(products))}
	for _, p := range products {
		if strings.TrimSpace(p.ID) == "" {
			continue
		}
		if _, ok := m.products[p.ID]; !ok {
			m.order = append(m.order, p.ID)
		}
		m.products[p.ID] = p
	}
	return m
}

func (m *Memory) Product(_ context.Context, productID string) (*contractx.Product, error) {
	p, ok := m.products[strings.TrimSpace(productID)]
	if !ok {
		return nil, fmt.Errorf("%w: id=%s", contractx.ErrProductNotFound, productID)
	}
	out := p
	return &out, nil
}

func (m *Memory) Search(_ context.Context, query string, topK int) ([]contractx.Match, error) {
	terms := tokenize(query)
	if len(terms) == 0 {
		return nil, nil
	}
	if topK <= 0 {
		topK = 5
	}

	matches := make([]contractx.Match, 0, len(m.order))
	for _, id := range m.order {
		p := m.products[id]
		score := overlap(terms, tokenize(p.Name+" "+p.Category+" "+p.Description))
		if score <= 0 {
			continue
		}
		matches = append(matches, contractx.Match{ProductID: id, Score: score})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if len(matches) > topK {
		matches = matches[:topK]
	}
	return matches, nil
}

func tokenize(s string) []string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !('a' <= r && r <= 'z' || '0' <= r && r <= '9')
	})
	out := fields[:0]
	for _, f := range fields {
		if len(f) > 1 {
			out = append(out, f)
		}
	}
	return out
}

func overlap(query, doc []string) float64 {
	if len(query) == 0 {
		return 0
	}
	seen := make(map[string]struct{}, len(doc))
	for _, t := range doc {
		seen[t] = struct{}{}
	}
	hits := 0
	for _, t := range query {
		if _, ok := seen[t]; ok {
			hits++
		}
	}
	return float64(hits) / float64(len(query))
}

// DefaultProducts seeds the demo catalog.
func DefaultProducts() []contractx.Product {
	return []contractx.Product{
		{
			ID: "prod-001", Name: "iPhone 15 Pro", Category: "smartphones", Price: 999.00,
			Description: "Latest iPhone with A17 Pro chip, titanium design, and advanced camera system",
			Stock:       contractx.StockInStock,
			Specifications: map[string]string{
				"display": "6.1-inch Super Retina XDR",
				"chip":    "A17 Pro",
			},
		},
		{
			ID: "prod-002", Name: "Samsung Galaxy S24 Ultra", Category: "smartphones", Price: 1199.00,
			Description: "Premium Android phone with S Pen, 200MP camera, and AI features",
			Stock:       contractx.StockInStock,
		},
		{
			ID: "prod-003", Name: "MacBook Air 15-inch", Category: "laptops", Price: 1299.00,
			Description: "Lightweight laptop with M3 chip and 15-inch Liquid Retina display",
			Stock:       contractx.StockInStock,
			Specifications: map[string]string{
				"display": "15.3-inch Liquid Retina",
				"chip":    "Apple M3",
				"battery": "Up to 18 hours",
			},
		},
		{
			ID: "prod-004", Name: "MacBook Pro 14-inch", Category: "laptops", Price: 1999.00,
			Description: "Pro laptop with M3 Pro chip for demanding workloads",
			Stock:       contractx.StockOutOfStock,
		},
		{
			ID: "prod-005", Name: "AirPods Pro", Category: "audio", Price: 249.00,
			Description: "Wireless earbuds with active noise cancellation and spatial audio",
			Stock:       contractx.StockInStock,
		},
		{
			ID: "prod-006", Name: "Sony WH-1000XM5", Category: "audio", Price: 399.00,
			Description: "Premium wireless headphones with industry-leading noise cancellation",
			Stock:       contractx.StockInStock,
		},
		{
			ID: "prod-007", Name: "Dell XPS 13", Category: "laptops", Price: 1149.00,
			Description: "Premium ultrabook with InfinityEdge display",
			Stock:       contractx.StockInStock,
		},
		{
			ID: "prod-008", Name: "iPad Pro 12.9-inch", Category: "tablets", Price: 1099.00,
			Description: "Professional tablet with M2 chip and Liquid Retina XDR display",
			Stock:       contractx.StockDiscontinued,
		},
	}
}
