package boundedset

import (
	"fmt"
	"testing"
)

func TestSet_EvictsOldestAtCapacity(t *testing.T) {
	capacities := []int{1, 2, 5, 301}

	for _, capacity := range capacities {
		t.Run(fmt.Sprintf("capacity_%d", capacity), func(t *testing.T) {
			s := New(capacity)

			// Add capacity+1 distinct items; only the first should fall out.
			for i := 0; i <= capacity; i++ {
				s.Add(fmt.Sprintf("t3_%d", i))
			}

			if s.Contains("t3_0") {
				t.Errorf("oldest item survived eviction at capacity %d", capacity)
			}
			for i := 1; i <= capacity; i++ {
				name := fmt.Sprintf("t3_%d", i)
				if !s.Contains(name) {
					t.Errorf("expected %s to remain in set", name)
				}
			}
			if s.Len() != capacity {
				t.Errorf("Len() = %d, want %d", s.Len(), capacity)
			}
		})
	}
}

func TestSet_NoEvictionBelowCapacity(t *testing.T) {
	s := New(10)

	for i := 0; i < 9; i++ {
		s.Add(fmt.Sprintf("t1_%d", i))
	}

	for i := 0; i < 9; i++ {
		name := fmt.Sprintf("t1_%d", i)
		if !s.Contains(name) {
			t.Errorf("item %s missing before capacity was reached", name)
		}
	}
}

func TestSet_ContainsUnknownItem(t *testing.T) {
	s := New(3)
	if s.Contains("t3_missing") {
		t.Error("Contains() reported an item that was never added")
	}
	s.Add("t3_a")
	if s.Contains("t3_b") {
		t.Error("Contains() reported the wrong item")
	}
}

func TestSet_DuplicateAddRecordsSecondOccurrence(t *testing.T) {
	s := New(3)
	s.Add("a")
	s.Add("b")
	s.Add("a") // duplicate occupies another FIFO slot

	// Set is not yet at distinct-member capacity, nothing evicted.
	if !s.Contains("a") || !s.Contains("b") {
		t.Fatal("duplicate add evicted a member below capacity")
	}

	s.Add("c") // distinct count hits capacity
	s.Add("d") // evicts the oldest FIFO slot, which is the first "a"

	if s.Contains("a") {
		t.Error("expected the first occurrence of a to be the eviction victim")
	}
	if !s.Contains("b") || !s.Contains("c") || !s.Contains("d") {
		t.Error("newer members evicted unexpectedly")
	}
}

func TestSet_MinimumCapacity(t *testing.T) {
	s := New(0)
	if s.Capacity() != 1 {
		t.Fatalf("Capacity() = %d, want 1", s.Capacity())
	}
	s.Add("x")
	s.Add("y")
	if s.Contains("x") {
		t.Error("capacity-1 set retained more than one member")
	}
	if !s.Contains("y") {
		t.Error("newest member missing from capacity-1 set")
	}
}
