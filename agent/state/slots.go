package state

import (
	"fmt"
	"strings"
)

// Slot names as reported to the user when a field is missing or malformed.
const (
	SlotProductID    = "product_id"
	SlotProductName  = "product_name"
	SlotQuantity     = "quantity"
	SlotUnitPrice    = "unit_price"
	SlotCustomerInfo = "customer_info"
)

// OrderSlots holds the order fields accumulated across turns. Zero values
// mean "not set yet"; quantity and price are only valid when positive.
type OrderSlots struct {
	ProductID    string            `json:"product_id,omitempty"`
	ProductName  string            `json:"product_name,omitempty"`
	Quantity     int               `json:"quantity,omitempty"`
	UnitPrice    float64           `json:"unit_price,omitempty"`
	CustomerInfo map[string]string `json:"customer_info,omitempty"`
}

// Merge folds patch into s and returns the result. A field is overwritten
// only when the patch carries an explicit non-empty value for it; a set slot
// is never silently cleared. CustomerInfo merges key-wise.
func (s OrderSlots) Merge(patch OrderSlots) OrderSlots {
	out := s.clone()
	if v := strings.TrimSpace(patch.ProductID); v != "" {
		out.ProductID = v
	}
	if v := strings.TrimSpace(patch.ProductName); v != "" {
		out.ProductName = v
	}
	if patch.Quantity > 0 {
		out.Quantity = patch.Quantity
	}
	if patch.UnitPrice > 0 {
		out.UnitPrice = patch.UnitPrice
	}
	for k, v := range patch.CustomerInfo {
		k = strings.TrimSpace(k)
		v = strings.TrimSpace(v)
		if k == "" || v == "" {
			continue
		}
		if out.CustomerInfo == nil {
			out.CustomerInfo = make(map[string]string, len(patch.CustomerInfo))
		}
		out.CustomerInfo[k] = v
	}
	return out
}

// IsComplete reports whether the slot set can be committed: product name,
// positive quantity, and positive unit price.
func (s OrderSlots) IsComplete() bool {
	return strings.TrimSpace(s.ProductName) != "" && s.Quantity > 0 && s.UnitPrice > 0
}

func (s OrderSlots) IsEmpty() bool {
	return strings.TrimSpace(s.ProductName) == "" &&
		strings.TrimSpace(s.ProductID) == "" &&
		s.Quantity == 0 &&
		s.UnitPrice == 0 &&
		len(s.CustomerInfo) == 0
}

// Missing lists the slot names still required before a commit.
func (s OrderSlots) Missing() []string {
	var missing []string
	if strings.TrimSpace(s.ProductName) == "" {
		missing = append(missing, SlotProductName)
	}
	if s.Quantity <= 0 {
		missing = append(missing, SlotQuantity)
	}
	if s.UnitPrice <= 0 {
		missing = append(missing, SlotUnitPrice)
	}
	return missing
}

// Fingerprint identifies a completed slot set for commit idempotence.
func (s OrderSlots) Fingerprint() string {
	return fmt.Sprintf("%s|%d|%.2f", strings.ToLower(strings.TrimSpace(s.ProductName)), s.Quantity, s.UnitPrice)
}

func (s OrderSlots) clone() OrderSlots {
	out := s
	if len(s.CustomerInfo) > 0 {
		out.CustomerInfo = make(map[string]string, len(s.CustomerInfo))
		for k, v := range s.CustomerInfo {
			out.CustomerInfo[k] = v
		}
	} else {
		out.CustomerInfo = nil
	}
	return out
}
