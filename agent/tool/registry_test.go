package tool

import (
	"context"
	"errors"
	"testing"

	contractx "github.com/Mannyasoh/ai-ecommerce-chatbot/agent/contract"
	statex "github.com/Mannyasoh/ai-ecommerce-chatbot/agent/state"
	"github.com/cloudwego/eino/schema"
)

func noopHandler(_ context.Context, _ *statex.Session, _ map[string]any) (contractx.ToolResult, error) {
	return contractx.ToolResult{}, nil
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	def := Definition{Name: "product.search", Handler: noopHandler}

	if err := r.Register(def); err != nil {
		t.Fatalf("first Register() error = %v", err)
	}
	err := r.Register(def)
	if !errors.Is(err, contractx.ErrDuplicateTool) {
		t.Fatalf("expected ErrDuplicateTool, got %v", err)
	}
}

func TestRegisterRejectsInvalidDefinitions(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	if err := r.Register(Definition{Name: "  ", Handler: noopHandler}); err == nil {
		t.Fatal("expected error for empty name")
	}
	if err := r.Register(Definition{Name: "product.search"}); err == nil {
		t.Fatal("expected error for nil handler")
	}
}

func TestResolveUnknownTool(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	_, err := r.Resolve("order.teleport")
	if !errors.Is(err, contractx.ErrUnknownTool) {
		t.Fatalf("expected ErrUnknownTool, got %v", err)
	}
}

func TestInfosStableOrder(t *testing.T) {
	t.Parallel()

	r := NewRegistry().MustRegister(
		Definition{
			Name:    "order.create",
			Fields:  map[string]Field{"quantity": {Type: schema.Integer, Required: true}},
			Handler: noopHandler,
		},
		Definition{Name: "product.search", Handler: noopHandler},
		Definition{Name: "order.status", Handler: noopHandler},
	)

	infos := r.Infos()
	if len(infos) != 3 {
		t.Fatalf("len(infos) = %d, want 3", len(infos))
	}
	want := []string{"order.create", "order.status", "product.search"}
	for i, name := range want {
		if infos[i].Name != name {
			t.Fatalf("infos[%d] = %q, want %q", i, infos[i].Name, name)
		}
	}
}
