package random

import "testing"

func TestNewSeed(t *testing.T) {
	seen := make(map[int64]bool)
	for i := 0; i < 32; i++ {
		seed, err := NewSeed()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if seed <= 0 {
			t.Errorf("expected positive seed, got %d", seed)
		}
		seen[seed] = true
	}
	if len(seen) < 30 {
		t.Errorf("expected distinct seeds, got %d unique of 32", len(seen))
	}
}
