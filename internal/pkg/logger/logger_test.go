package logger

import "testing"

func TestRedactMasksSensitiveValues(t *testing.T) {
	got := redact([]interface{}{"email", "a@b.c", "Password", "hunter2", "token", "abc"})
	if got[1] != "a@b.c" {
		t.Fatalf("email should pass through, got %v", got[1])
	}
	if got[3] != "[redacted]" || got[5] != "[redacted]" {
		t.Fatalf("expected password and token redacted, got %v", got)
	}
}

func TestRedactKeepsOddTrailingValue(t *testing.T) {
	got := redact([]interface{}{"user", "bob", "dangling"})
	if len(got) != 3 || got[2] != "dangling" {
		t.Fatalf("unexpected result %v", got)
	}
}

func TestNewModes(t *testing.T) {
	for _, mode := range []string{"development", "production", ""} {
		log, err := New(mode)
		if err != nil {
			t.Fatalf("New(%q): %v", mode, err)
		}
		log.With("component", "test").Debug("hello", "k", "v")
	}
}
