package router

import (
	"context"
	"errors"
	"testing"
	"time"

	contractx "github.com/Mannyasoh/ai-ecommerce-chatbot/agent/contract"
	statex "github.com/Mannyasoh/ai-ecommerce-chatbot/agent/state"
	"github.com/cloudwego/eino/schema"
)

type fakeCapability struct {
	agent       statex.Agent
	classifyErr error
	calls       int
}

func (f *fakeCapability) Classify(_ context.Context, _ string, _ []statex.Turn) (statex.Agent, error) {
	f.calls++
	if f.classifyErr != nil {
		return "", f.classifyErr
	}
	return f.agent, nil
}

func (f *fakeCapability) Respond(_ context.Context, _ statex.Agent, _ string, _ []statex.Turn, _ []*schema.ToolInfo) (contractx.CapabilityReply, error) {
	return contractx.CapabilityReply{}, nil
}

func TestRouteFollowsClassifier(t *testing.T) {
	t.Parallel()

	capability := &fakeCapability{agent: statex.AgentOrder}
	r, err := New(capability)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	sess := statex.NewSession("s1", time.Now())
	agent := r.Route(context.Background(), sess, "I want to buy a mouse")
	if agent != statex.AgentOrder {
		t.Fatalf("agent = %q, want order", agent)
	}
	if sess.ActiveAgent != statex.AgentOrder {
		t.Fatalf("session agent = %q, want order", sess.ActiveAgent)
	}
}

func TestRouteSticksToPendingOrder(t *testing.T) {
	t.Parallel()

	// The classifier would pick Information, but the pending order wins.
	capability := &fakeCapability{agent: statex.AgentInformation}
	r, _ := New(capability)

	sess := statex.NewSession("s1", time.Now())
	sess.ActiveAgent = statex.AgentOrder
	sess.Slots = statex.OrderSlots{ProductName: "Wireless Mouse"}

	agent := r.Route(context.Background(), sess, "make it two")
	if agent != statex.AgentOrder {
		t.Fatalf("agent = %q, want sticky order", agent)
	}
	if capability.calls != 0 {
		t.Fatalf("classifier consulted %d times during sticky continuation", capability.calls)
	}
}

func TestRouteCancelSignalResetsOrder(t *testing.T) {
	t.Parallel()

	capability := &fakeCapability{agent: statex.AgentInformation}
	r, _ := New(capability)

	sess := statex.NewSession("s1", time.Now())
	sess.ActiveAgent = statex.AgentOrder
	sess.Slots = statex.OrderSlots{ProductName: "Wireless Mouse", Quantity: 2}

	agent := r.Route(context.Background(), sess, "actually, never mind")
	if !sess.Slots.IsEmpty() {
		t.Fatalf("slots survived cancel: %+v", sess.Slots)
	}
	if agent != statex.AgentInformation {
		t.Fatalf("agent = %q, want information after cancel", agent)
	}
	if capability.calls != 1 {
		t.Fatalf("classifier calls = %d, want 1", capability.calls)
	}
}

func TestRouteResetMentionDoesNotCancelOrder(t *testing.T) {
	t.Parallel()

	capability := &fakeCapability{agent: statex.AgentInformation}
	r, _ := New(capability)

	sess := statex.NewSession("s1", time.Now())
	sess.ActiveAgent = statex.AgentOrder
	sess.Slots = statex.OrderSlots{ProductName: "Wireless Mouse", Quantity: 2}

	agent := r.Route(context.Background(), sess, "how do I reset my password?")
	if sess.Slots.IsEmpty() {
		t.Fatal("pending order wiped by an unrelated reset mention")
	}
	if agent != statex.AgentOrder {
		t.Fatalf("agent = %q, want sticky order", agent)
	}
}

func TestRouteClassifierFailureDefaultsToInformation(t *testing.T) {
	t.Parallel()

	capability := &fakeCapability{classifyErr: errors.New("model timeout")}
	r, _ := New(capability)

	sess := statex.NewSession("s1", time.Now())
	agent := r.Route(context.Background(), sess, "ummm")
	if agent != statex.AgentInformation {
		t.Fatalf("agent = %q, want information fallback", agent)
	}
}

func TestRouteAmbiguousAgentDefaultsToInformation(t *testing.T) {
	t.Parallel()

	capability := &fakeCapability{agent: statex.Agent("billing")}
	r, _ := New(capability)

	sess := statex.NewSession("s1", time.Now())
	if agent := r.Route(context.Background(), sess, "hello"); agent != statex.AgentInformation {
		t.Fatalf("agent = %q, want information", agent)
	}
}

func TestRouteOrderIDGoesToOrder(t *testing.T) {
	t.Parallel()

	capability := &fakeCapability{agent: statex.AgentInformation}
	r, _ := New(capability)

	sess := statex.NewSession("s1", time.Now())
	agent := r.Route(context.Background(), sess, "where is ORD-20250601-000042?")
	if agent != statex.AgentOrder {
		t.Fatalf("agent = %q, want order for explicit order id", agent)
	}
	if capability.calls != 0 {
		t.Fatalf("classifier consulted despite literal order id")
	}
}
