package identifier

import (
	"regexp"
	"testing"
)

var hexShape = regexp.MustCompile(`^[0-9a-f]{5}$`)

func TestGenerateShape(t *testing.T) {
	id := Generate("mkbhd", "kling_3", "de")
	if !hexShape.MatchString(id) {
		t.Errorf("Generate() = %q, want 5 lowercase hex chars", id)
	}
}

func TestGenerateDiffersAcrossCalls(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		seen[Generate("mkbhd", "kling_3", "de")] = true
	}
	// The nanosecond clock makes repeated ids effectively impossible in a
	// tight loop of 50 calls.
	if len(seen) < 2 {
		t.Errorf("Generate() produced %d distinct ids over 50 calls", len(seen))
	}
}

func TestGenerateEmptyInputs(t *testing.T) {
	if id := Generate("", "", ""); !hexShape.MatchString(id) {
		t.Errorf("Generate with empty inputs = %q, want 5 hex chars", id)
	}
}

func TestGenerateN(t *testing.T) {
	if id := GenerateN("a", "b", "c", 8); len(id) != 8 {
		t.Errorf("GenerateN length = %d, want 8", len(id))
	}
	// Longer than the digest clamps instead of panicking.
	if id := GenerateN("a", "b", "c", 1000); len(id) != 64 {
		t.Errorf("GenerateN oversized length = %d, want 64", len(id))
	}
}
