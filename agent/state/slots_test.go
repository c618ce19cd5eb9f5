package state

import (
	"reflect"
	"testing"
)

func TestMergeOverwritesOnlyProvidedFields(t *testing.T) {
	t.Parallel()

	base := OrderSlots{
		ProductName: "Wireless Mouse",
		Quantity:    2,
		UnitPrice:   29.99,
	}

	merged := base.Merge(OrderSlots{Quantity: 3})
	if merged.Quantity != 3 {
		t.Fatalf("quantity = %d, want 3", merged.Quantity)
	}
	if merged.ProductName != "Wireless Mouse" {
		t.Fatalf("product name changed to %q", merged.ProductName)
	}
	if merged.UnitPrice != 29.99 {
		t.Fatalf("unit price changed to %v", merged.UnitPrice)
	}
}

func TestMergeNeverClearsSetSlots(t *testing.T) {
	t.Parallel()

	base := OrderSlots{
		ProductID:   "prod-001",
		ProductName: "Wireless Mouse",
		Quantity:    2,
		UnitPrice:   29.99,
	}

	merged := base.Merge(OrderSlots{})
	if !reflect.DeepEqual(merged, base) {
		t.Fatalf("empty patch mutated slots: %+v != %+v", merged, base)
	}

	merged = base.Merge(OrderSlots{ProductName: "   ", Quantity: 0, UnitPrice: -1})
	if merged.ProductName != "Wireless Mouse" || merged.Quantity != 2 || merged.UnitPrice != 29.99 {
		t.Fatalf("zero-value patch cleared slots: %+v", merged)
	}
}

func TestMergeCustomerInfoKeywise(t *testing.T) {
	t.Parallel()

	base := OrderSlots{
		CustomerInfo: map[string]string{"name": "Alice", "email": "alice@example.com"},
	}

	merged := base.Merge(OrderSlots{
		CustomerInfo: map[string]string{"email": "alice@work.example", "phone": "555-0101", "address": "  "},
	})

	want := map[string]string{
		"name":  "Alice",
		"email": "alice@work.example",
		"phone": "555-0101",
	}
	if !reflect.DeepEqual(merged.CustomerInfo, want) {
		t.Fatalf("customer info = %v, want %v", merged.CustomerInfo, want)
	}
	if base.CustomerInfo["email"] != "alice@example.com" {
		t.Fatalf("merge mutated the receiver: %v", base.CustomerInfo)
	}
}

func TestIsCompleteAndMissing(t *testing.T) {
	t.Parallel()

	slots := OrderSlots{ProductName: "Wireless Mouse"}
	if slots.IsComplete() {
		t.Fatal("slots without quantity and price reported complete")
	}
	missing := slots.Missing()
	if !reflect.DeepEqual(missing, []string{SlotQuantity, SlotUnitPrice}) {
		t.Fatalf("missing = %v", missing)
	}

	slots = slots.Merge(OrderSlots{Quantity: 1, UnitPrice: 29.99})
	if !slots.IsComplete() {
		t.Fatalf("complete slots reported incomplete: %+v", slots)
	}
	if got := slots.Missing(); got != nil {
		t.Fatalf("complete slots still missing %v", got)
	}
}

func TestFingerprintNormalizesName(t *testing.T) {
	t.Parallel()

	a := OrderSlots{ProductName: "MacBook Air 15-inch", Quantity: 1, UnitPrice: 1299}
	b := OrderSlots{ProductName: "  macbook air 15-inch ", Quantity: 1, UnitPrice: 1299}
	if a.Fingerprint() != b.Fingerprint() {
		t.Fatalf("fingerprints differ: %q vs %q", a.Fingerprint(), b.Fingerprint())
	}

	c := OrderSlots{ProductName: "MacBook Air 15-inch", Quantity: 2, UnitPrice: 1299}
	if a.Fingerprint() == c.Fingerprint() {
		t.Fatalf("different quantities produced equal fingerprint %q", a.Fingerprint())
	}
}
