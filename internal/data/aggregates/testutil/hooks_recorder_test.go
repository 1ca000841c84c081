package testutil

import (
	"testing"
	"time"
)

func TestHooksRecorder_CapturesSignals(t *testing.T) {
	h := &HooksRecorder{}
	h.ObserveOperation("Recipe.Create", "success", 10*time.Millisecond)
	h.IncConflict("Recipe.Create")
	h.IncRetry("Recipe.Create")

	if len(h.Operations) != 1 {
		t.Fatalf("expected 1 op event, got %d", len(h.Operations))
	}
	if h.Operations[0].Name != "Recipe.Create" || h.Operations[0].Status != "success" {
		t.Fatalf("unexpected op event: %+v", h.Operations[0])
	}
	if len(h.Conflicts) != 1 || h.Conflicts[0] != "Recipe.Create" {
		t.Fatalf("unexpected conflicts: %+v", h.Conflicts)
	}
	if len(h.Retries) != 1 || h.Retries[0] != "Recipe.Create" {
		t.Fatalf("unexpected retries: %+v", h.Retries)
	}
}

func TestHooksRecorder_LastStatus(t *testing.T) {
	h := &HooksRecorder{}
	h.ObserveOperation("Favorites.Add", "success", time.Millisecond)
	h.ObserveOperation("Favorites.Add", "conflict", time.Millisecond)
	h.ObserveOperation("Cart.Add", "success", time.Millisecond)

	if got := h.LastStatus("Favorites.Add"); got != "conflict" {
		t.Fatalf("expected conflict, got %q", got)
	}
	if got := h.LastStatus("Subscription.Follow"); got != "" {
		t.Fatalf("expected empty status, got %q", got)
	}
}
