package tool

import (
	"context"
	"errors"
	"fmt"
	"strings"

	contractx "github.com/Mannyasoh/ai-ecommerce-chatbot/agent/contract"
	orderx "github.com/Mannyasoh/ai-ecommerce-chatbot/agent/order"
	statex "github.com/Mannyasoh/ai-ecommerce-chatbot/agent/state"
	"github.com/cloudwego/eino/schema"
)

const (
	ToolOrderCreate   = "order.create"
	ToolOrderValidate = "order.validate"
	ToolOrderStatus   = "order.status"
	ToolOrderCancel   = "order.cancel"
)

type CreateOutput struct {
	Order   *orderx.Record `json:"order,omitempty"`
	Missing []string       `json:"missing,omitempty"`
	Message string         `json:"message"`
}

type ValidateOutput struct {
	Valid      bool               `json:"valid"`
	Product    *contractx.Product `json:"product,omitempty"`
	Quantity   int                `json:"quantity"`
	TotalPrice float64            `json:"total_price"`
	Message    string             `json:"message"`
}

type StatusOutput struct {
	Order   *orderx.Record `json:"order"`
	Message string         `json:"message"`
}

type CancelOutput struct {
	OrderID string `json:"order_id"`
	Reason  string `json:"reason,omitempty"`
	Message string `json:"message"`
}

// CreateOrder merges the call's fields into the session slots, resolves the
// product, and commits through the pipeline once the slot set is complete.
// An incomplete set yields a clarifying result, not an error.
func CreateOrder(pipeline *orderx.Pipeline, searcher contractx.Searcher, cat contractx.Catalog) Definition {
	return Definition{
		Name: ToolOrderCreate,
		Desc: "Create an order once the customer confirms purchase intent. Product name and quantity may come from earlier turns.",
		Fields: map[string]Field{
			"product_name":  {Type: schema.String, Desc: "Name of the product to order"},
			"quantity":      {Type: schema.Integer, Desc: "Quantity to order", Positive: true},
			"customer_info": {Type: schema.Object, Desc: "Optional customer details (name, email, phone, address)"},
		},
		Handler: func(ctx context.Context, sess *statex.Session, args map[string]any) (contractx.ToolResult, error) {
			if sess == nil {
				return contractx.ToolResult{}, fmt.Errorf("%w: session is required", contractx.ErrValidation)
			}

			sess.Slots = sess.Slots.Merge(slotsFromArgs(args))

			if strings.TrimSpace(sess.Slots.ProductName) == "" {
				return contractx.ToolResult{
					Tool: ToolOrderCreate,
					Result: CreateOutput{
						Missing: []string{statex.SlotProductName},
						Message: "Which product would you like to order?",
					},
				}, nil
			}

			product, err := resolveProduct(ctx, searcher, cat, sess.Slots.ProductName)
			if err != nil {
				if errors.Is(err, contractx.ErrProductNotFound) {
					return contractx.ToolResult{
						Tool:  ToolOrderCreate,
						Error: fmt.Sprintf("Sorry, I couldn't find %q in our product catalog. Please check the product name and try again.", sess.Slots.ProductName),
					}, nil
				}
				return contractx.ToolResult{}, err
			}
			if !product.InStock() {
				return contractx.ToolResult{
					Tool:  ToolOrderCreate,
					Error: fmt.Sprintf("Sorry, %s is currently %s. Please choose a different product or try again later.", product.Name, product.Stock),
				}, nil
			}

			// Resolved catalog values win over free-text extraction.
			sess.Slots = sess.Slots.Merge(statex.OrderSlots{
				ProductID:   product.ID,
				ProductName: product.Name,
				UnitPrice:   product.Price,
			})
			if sess.Slots.Quantity == 0 {
				sess.Slots = sess.Slots.Merge(statex.OrderSlots{Quantity: 1})
			}

			if missing := sess.Slots.Missing(); len(missing) > 0 {
				return contractx.ToolResult{
					Tool: ToolOrderCreate,
					Result: CreateOutput{
						Missing: missing,
						Message: fmt.Sprintf("I still need the following before placing the order: %s.", strings.Join(missing, ", ")),
					},
				}, nil
			}

			rec, err := pipeline.Commit(ctx, sess)
			if err != nil {
				return contractx.ToolResult{}, err
			}

			msg := fmt.Sprintf("Order confirmed! %dx %s for $%.2f total. Order ID: %s",
				rec.Quantity, rec.ProductName, rec.TotalPrice, rec.OrderID)
			return contractx.ToolResult{
				Tool:   ToolOrderCreate,
				Result: CreateOutput{Order: rec, Message: msg},
			}, nil
		},
	}
}

// ValidateOrder previews availability and total price without committing.
func ValidateOrder(searcher contractx.Searcher, cat contractx.Catalog) Definition {
	return Definition{
		Name: ToolOrderValidate,
		Desc: "Check availability and total price for a product and quantity before creating an order.",
		Fields: map[string]Field{
			"product_name": {Type: schema.String, Desc: "Name of the product to validate", Required: true},
			"quantity":     {Type: schema.Integer, Desc: "Quantity to validate", Positive: true},
		},
		Handler: func(ctx context.Context, _ *statex.Session, args map[string]any) (contractx.ToolResult, error) {
			name := args["product_name"].(string)
			quantity := 1
			if v, ok := args["quantity"].(int); ok {
				quantity = v
			}

			product, err := resolveProduct(ctx, searcher, cat, name)
			if err != nil {
				if errors.Is(err, contractx.ErrProductNotFound) {
					return contractx.ToolResult{
						Tool:  ToolOrderValidate,
						Error: fmt.Sprintf("I couldn't find %q in our catalog.", name),
					}, nil
				}
				return contractx.ToolResult{}, err
			}

			total := float64(quantity) * product.Price
			out := ValidateOutput{
				Valid:      product.InStock(),
				Product:    product,
				Quantity:   quantity,
				TotalPrice: total,
			}
			availability := "available"
			if !out.Valid {
				availability = string(product.Stock)
			}
			out.Message = fmt.Sprintf("%s: $%.2f x %d = $%.2f (%s)", product.Name, product.Price, quantity, total, availability)
			return contractx.ToolResult{Tool: ToolOrderValidate, Result: out}, nil
		},
	}
}

// OrderStatus looks up an existing order by id.
func OrderStatus(store orderx.Store) Definition {
	return Definition{
		Name: ToolOrderStatus,
		Desc: "Get the current status of an existing order by its id (format ORD-YYYYMMDD-NNNNNN).",
		Fields: map[string]Field{
			"order_id": {Type: schema.String, Desc: "Order id, with or without a leading #", Required: true},
		},
		Handler: func(ctx context.Context, _ *statex.Session, args map[string]any) (contractx.ToolResult, error) {
			orderID := normalizeOrderID(args["order_id"].(string))

			rec, err := store.Get(ctx, orderID)
			if err != nil {
				if errors.Is(err, orderx.ErrNotFound) {
					return contractx.ToolResult{
						Tool:  ToolOrderStatus,
						Error: fmt.Sprintf("I couldn't find an order with ID %s. Please check the order ID and try again.", orderID),
					}, nil
				}
				return contractx.ToolResult{}, err
			}

			msg := fmt.Sprintf("Order %s: %dx %s - $%.2f - status: %s",
				rec.OrderID, rec.Quantity, rec.ProductName, rec.TotalPrice, rec.Status)
			return contractx.ToolResult{
				Tool:   ToolOrderStatus,
				Result: StatusOutput{Order: rec, Message: msg},
			}, nil
		},
	}
}

// CancelOrder transitions an order to cancelled. Shipped, delivered, and
// already cancelled orders are refused; nothing is ever deleted.
func CancelOrder(store orderx.Store) Definition {
	return Definition{
		Name: ToolOrderCancel,
		Desc: "Cancel an existing order by its id.",
		Fields: map[string]Field{
			"order_id": {Type: schema.String, Desc: "Order id to cancel", Required: true},
			"reason":   {Type: schema.String, Desc: "Optional cancellation reason"},
		},
		Handler: func(ctx context.Context, _ *statex.Session, args map[string]any) (contractx.ToolResult, error) {
			orderID := normalizeOrderID(args["order_id"].(string))
			reason, _ := args["reason"].(string)

			rec, err := store.Get(ctx, orderID)
			if err != nil {
				if errors.Is(err, orderx.ErrNotFound) {
					return contractx.ToolResult{
						Tool:  ToolOrderCancel,
						Error: fmt.Sprintf("I couldn't find an order with ID %s to cancel.", orderID),
					}, nil
				}
				return contractx.ToolResult{}, err
			}
			if !rec.Status.CanCancel() {
				return contractx.ToolResult{
					Tool:  ToolOrderCancel,
					Error: fmt.Sprintf("Order %s cannot be cancelled because it is already %s.", rec.OrderID, rec.Status),
				}, nil
			}

			if err := store.UpdateStatus(ctx, orderID, orderx.StatusCancelled); err != nil {
				return contractx.ToolResult{}, err
			}

			msg := fmt.Sprintf("Order %s has been cancelled.", orderID)
			if reason != "" {
				msg += " Reason: " + reason
			}
			return contractx.ToolResult{
				Tool:   ToolOrderCancel,
				Result: CancelOutput{OrderID: orderID, Reason: reason, Message: msg},
			}, nil
		},
	}
}

func slotsFromArgs(args map[string]any) statex.OrderSlots {
	patch := statex.OrderSlots{}
	if v, ok := args["product_name"].(string); ok {
		patch.ProductName = v
	}
	if v, ok := args["quantity"].(int); ok {
		patch.Quantity = v
	}
	if raw, ok := args["customer_info"].(map[string]any); ok {
		info := make(map[string]string, len(raw))
		for k, v := range raw {
			if s, ok := v.(string); ok {
				info[k] = s
			}
		}
		patch.CustomerInfo = info
	}
	return patch
}

func normalizeOrderID(id string) string {
	return strings.ToUpper(strings.TrimPrefix(strings.TrimSpace(id), "#"))
}
