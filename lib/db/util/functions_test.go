package util

import "testing"

func TestHashString(t *testing.T) {
	// FNV-1a of the empty string is the offset basis
	if got := HashString("", 0); got != 14695981039346656037 {
		t.Errorf("expected offset basis for empty string, got %d", got)
	}
	// FNV-1a("a") reference value
	if got := HashString("a", 0); got != 0xaf63dc4c8601ec8c {
		t.Errorf("unexpected hash for \"a\": %x", uint64(got))
	}
	if HashString("key", 1) == HashString("key", 2) {
		t.Error("expected different seeds to produce different hashes")
	}
	if HashString("key", 7) != HashString("key", 7) {
		t.Error("expected hash to be deterministic")
	}
}
