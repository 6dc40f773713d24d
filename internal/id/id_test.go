package id

import (
	"strings"
	"testing"
)

func TestNewIDShape(t *testing.T) {
	got, err := NewID()
	if err != nil {
		t.Fatalf("new id: %v", err)
	}
	if len(got) != 26 {
		t.Fatalf("expected 26 characters, got %d (%q)", len(got), got)
	}
	if got != strings.ToLower(got) {
		t.Fatalf("expected lowercase id, got %q", got)
	}
	if strings.Contains(got, "=") {
		t.Fatalf("expected unpadded id, got %q", got)
	}
}

func TestNewIDUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		got, err := NewID()
		if err != nil {
			t.Fatalf("new id: %v", err)
		}
		if seen[got] {
			t.Fatalf("expected unique ids, got duplicate %q", got)
		}
		seen[got] = true
	}
}
