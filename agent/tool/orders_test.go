package tool

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	contractx "github.com/Mannyasoh/ai-ecommerce-chatbot/agent/contract"
	orderx "github.com/Mannyasoh/ai-ecommerce-chatbot/agent/order"
	statex "github.com/Mannyasoh/ai-ecommerce-chatbot/agent/state"
)

type fakeCatalog struct {
	products map[string]contractx.Product
}

func newFakeCatalog(products ...contractx.Product) *fakeCatalog {
	f := &fakeCatalog{products: make(map[string]contractx.Product, len(products))}
	for _, p := range products {
		f.products[p.ID] = p
	}
	return f
}

func (f *fakeCatalog) Product(_ context.Context, productID string) (*contractx.Product, error) {
	p, ok := f.products[productID]
	if !ok {
		return nil, fmt.Errorf("%w: id=%s", contractx.ErrProductNotFound, productID)
	}
	out := p
	return &out, nil
}

func (f *fakeCatalog) Search(_ context.Context, query string, _ int) ([]contractx.Match, error) {
	var matches []contractx.Match
	lower := strings.ToLower(query)
	for id, p := range f.products {
		if strings.Contains(strings.ToLower(p.Name), lower) || strings.Contains(lower, strings.ToLower(p.Name)) {
			matches = append(matches, contractx.Match{ProductID: id, Score: 1})
		}
	}
	return matches, nil
}

var testProduct = contractx.Product{
	ID: "prod-010", Name: "Mechanical Keyboard", Category: "accessories",
	Price: 89.99, Stock: contractx.StockInStock,
}

func TestCreateOrderAsksForProduct(t *testing.T) {
	t.Parallel()

	cat := newFakeCatalog(testProduct)
	store := orderx.NewMemoryStore()
	pipeline, _ := orderx.NewPipeline(store, orderx.NewSequence())
	def := CreateOrder(pipeline, cat, cat)

	sess := statex.NewSession("s1", time.Now())
	res, err := def.Handler(context.Background(), sess, map[string]any{})
	if err != nil {
		t.Fatalf("Handler() error = %v", err)
	}

	out, ok := res.Result.(CreateOutput)
	if !ok {
		t.Fatalf("unexpected result type %T", res.Result)
	}
	if out.Order != nil {
		t.Fatalf("order committed without a product: %+v", out.Order)
	}
	if len(out.Missing) != 1 || out.Missing[0] != statex.SlotProductName {
		t.Fatalf("missing = %v, want [product_name]", out.Missing)
	}
}

func TestCreateOrderDefaultsQuantityToOne(t *testing.T) {
	t.Parallel()

	cat := newFakeCatalog(testProduct)
	store := orderx.NewMemoryStore()
	pipeline, _ := orderx.NewPipeline(store, orderx.NewSequence())
	def := CreateOrder(pipeline, cat, cat)

	sess := statex.NewSession("s1", time.Now())
	res, err := def.Handler(context.Background(), sess, map[string]any{
		"product_name": "mechanical keyboard",
	})
	if err != nil {
		t.Fatalf("Handler() error = %v", err)
	}

	out := res.Result.(CreateOutput)
	if out.Order == nil {
		t.Fatalf("expected committed order, got %+v", out)
	}
	if out.Order.Quantity != 1 {
		t.Fatalf("quantity = %d, want default 1", out.Order.Quantity)
	}
	if out.Order.UnitPrice != 89.99 {
		t.Fatalf("unit price = %v, want catalog price", out.Order.UnitPrice)
	}
	if out.Order.ProductName != "Mechanical Keyboard" {
		t.Fatalf("product name = %q, want canonical catalog name", out.Order.ProductName)
	}
}

func TestCreateOrderUnknownProductIsSoftFailure(t *testing.T) {
	t.Parallel()

	cat := newFakeCatalog(testProduct)
	store := orderx.NewMemoryStore()
	pipeline, _ := orderx.NewPipeline(store, orderx.NewSequence())
	def := CreateOrder(pipeline, cat, cat)

	sess := statex.NewSession("s1", time.Now())
	res, err := def.Handler(context.Background(), sess, map[string]any{
		"product_name": "flux capacitor",
	})
	if err != nil {
		t.Fatalf("unknown product must not be a hard error, got %v", err)
	}
	if res.Error == "" {
		t.Fatalf("expected user-facing error, got %+v", res)
	}
	if !strings.Contains(res.Error, "flux capacitor") {
		t.Fatalf("error does not name the product: %q", res.Error)
	}
}

func TestOrderStatusNormalizesID(t *testing.T) {
	t.Parallel()

	store := orderx.NewMemoryStore()
	now := time.Now().UTC()
	rec := &orderx.Record{
		OrderID: "ORD-20250601-000001", ProductName: "Mechanical Keyboard",
		Quantity: 1, UnitPrice: 89.99, TotalPrice: 89.99,
		Status: orderx.StatusPending, CreatedAt: now, UpdatedAt: now,
	}
	if err := store.Insert(context.Background(), rec); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	def := OrderStatus(store)
	res, err := def.Handler(context.Background(), nil, map[string]any{
		"order_id": "#ord-20250601-000001",
	})
	if err != nil {
		t.Fatalf("Handler() error = %v", err)
	}
	out := res.Result.(StatusOutput)
	if out.Order.OrderID != rec.OrderID {
		t.Fatalf("order id = %q, want %q", out.Order.OrderID, rec.OrderID)
	}
}

func TestCancelOrderRefusesShipped(t *testing.T) {
	t.Parallel()

	store := orderx.NewMemoryStore()
	now := time.Now().UTC()
	rec := &orderx.Record{
		OrderID: "ORD-20250601-000001", ProductName: "Mechanical Keyboard",
		Quantity: 1, UnitPrice: 89.99, TotalPrice: 89.99,
		Status: orderx.StatusPending, CreatedAt: now, UpdatedAt: now,
	}
	if err := store.Insert(context.Background(), rec); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	if err := store.UpdateStatus(context.Background(), rec.OrderID, orderx.StatusShipped); err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}

	def := CancelOrder(store)
	res, err := def.Handler(context.Background(), nil, map[string]any{
		"order_id": rec.OrderID,
	})
	if err != nil {
		t.Fatalf("Handler() error = %v", err)
	}
	if res.Error == "" {
		t.Fatalf("shipped order was cancelled: %+v", res)
	}

	stored, _ := store.Get(context.Background(), rec.OrderID)
	if stored.Status != orderx.StatusShipped {
		t.Fatalf("status = %q, want shipped untouched", stored.Status)
	}
}

func TestCancelOrderTransitionsToCancelled(t *testing.T) {
	t.Parallel()

	store := orderx.NewMemoryStore()
	now := time.Now().UTC()
	rec := &orderx.Record{
		OrderID: "ORD-20250601-000002", ProductName: "Mechanical Keyboard",
		Quantity: 2, UnitPrice: 89.99, TotalPrice: 179.98,
		Status: orderx.StatusPending, CreatedAt: now, UpdatedAt: now,
	}
	if err := store.Insert(context.Background(), rec); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	def := CancelOrder(store)
	res, err := def.Handler(context.Background(), nil, map[string]any{
		"order_id": rec.OrderID,
		"reason":   "changed my mind",
	})
	if err != nil {
		t.Fatalf("Handler() error = %v", err)
	}
	out := res.Result.(CancelOutput)
	if !strings.Contains(out.Message, "changed my mind") {
		t.Fatalf("message does not carry reason: %q", out.Message)
	}

	stored, _ := store.Get(context.Background(), rec.OrderID)
	if stored.Status != orderx.StatusCancelled {
		t.Fatalf("status = %q, want cancelled", stored.Status)
	}
}
