package order

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	contractx "github.com/Mannyasoh/ai-ecommerce-chatbot/agent/contract"
	"github.com/uptrace/bun"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// CanCancel reports whether a cancel transition is still allowed.
func (s Status) CanCancel() bool {
	switch s {
	case StatusShipped, StatusDelivered, StatusCancelled:
		return false
	}
	return true
}

// Record is the persisted order entity. Created exactly once per completed
// slot set; status changes are the only allowed mutation afterwards, and a
// record is never deleted (cancellation is a transition, not removal).
type Record struct {
	bun.BaseModel `bun:"table:orders,alias:o" json:"-"`

	OrderID      string            `bun:"order_id,pk" json:"order_id"`
	ProductName  string            `bun:"product_name,notnull" json:"product_name"`
	ProductID    string            `bun:"product_id,nullzero" json:"product_id,omitempty"`
	Quantity     int               `bun:"quantity,notnull" json:"quantity"`
	UnitPrice    float64           `bun:"unit_price,notnull" json:"unit_price"`
	TotalPrice   float64           `bun:"total_price,notnull" json:"total_price"`
	Status       Status            `bun:"status,notnull" json:"status"`
	CustomerInfo map[string]string `bun:"customer_info,type:jsonb" json:"customer_info,omitempty"`
	CreatedAt    time.Time         `bun:"created_at,notnull" json:"created_at"`
	UpdatedAt    time.Time         `bun:"updated_at,notnull" json:"updated_at"`
}

// priceTolerance absorbs float drift when checking total = quantity × unit.
const priceTolerance = 0.005

func (r *Record) Validate() error {
	if r == nil {
		return fmt.Errorf("%w: order record is nil", contractx.ErrValidation)
	}
	if strings.TrimSpace(r.OrderID) == "" {
		return fmt.Errorf("%w: order id is empty", contractx.ErrValidation)
	}
	if strings.TrimSpace(r.ProductName) == "" {
		return fmt.Errorf("%w: product name is empty", contractx.ErrValidation)
	}
	if r.Quantity <= 0 {
		return fmt.Errorf("%w: quantity must be > 0", contractx.ErrValidation)
	}
	if r.UnitPrice <= 0 {
		return fmt.Errorf("%w: unit price must be > 0", contractx.ErrValidation)
	}
	if r.TotalPrice <= 0 {
		return fmt.Errorf("%w: total price must be > 0", contractx.ErrValidation)
	}
	if math.Abs(r.TotalPrice-float64(r.Quantity)*r.UnitPrice) > priceTolerance {
		return fmt.Errorf("%w: total price must equal quantity * unit price", contractx.ErrValidation)
	}
	if !r.Status.Valid() {
		return fmt.Errorf("%w: invalid status %q", contractx.ErrValidation, r.Status)
	}
	return nil
}

var ErrNotFound = errors.New("order not found")

// Store is the order persistence contract. Insert must be atomic and must
// surface contract.ErrOrderIDConflict on a duplicate order id.
type Store interface {
	Insert(ctx context.Context, rec *Record) error
	Get(ctx context.Context, orderID string) (*Record, error)
	UpdateStatus(ctx context.Context, orderID string, status Status) error
}
