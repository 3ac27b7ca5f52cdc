package uuid

import (
	"strings"
	"testing"
)

func TestNewIsVersion7(t *testing.T) {
	id := New()
	if !IsValid(id) {
		t.Fatalf("expected valid uuid, got %q", id)
	}
	// version nibble is the first character of the third group
	if got := strings.Split(id, "-")[2][0]; got != '7' {
		t.Errorf("expected version 7, got %c", got)
	}
}

func TestNewIsUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := New()
		if seen[id] {
			t.Fatalf("duplicate id %s", id)
		}
		seen[id] = true
	}
}

func TestParse(t *testing.T) {
	got, err := Parse("0192F0C4-7B1A-7C3D-9E4F-0123456789AB")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "0192f0c4-7b1a-7c3d-9e4f-0123456789ab" {
		t.Errorf("expected canonical form, got %s", got)
	}

	if _, err := Parse("not-a-uuid"); err == nil {
		t.Error("expected error for malformed input")
	}
}
