package idgen

import "testing"

func TestGenerateIDIsUniqueAndIncreasing(t *testing.T) {
	seen := make(map[int64]bool)
	var last int64
	for i := 0; i < 1000; i++ {
		id := GenerateID()
		if seen[id] {
			t.Fatalf("duplicate id %d", id)
		}
		if id <= last {
			t.Fatalf("id %d not greater than previous %d", id, last)
		}
		seen[id] = true
		last = id
	}
}
