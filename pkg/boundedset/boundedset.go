// Package boundedset provides a set with a fixed capacity that discards the
// oldest member once the capacity is exceeded.
package boundedset

// Set tracks the most recently added values in insertion order. Membership
// checks are O(1); once the set holds its full capacity of distinct values,
// each Add first evicts the single oldest surviving member.
//
// Set does not implement the complete set interface: there is no removal
// besides eviction and no iteration. It is not safe for concurrent use.
type Set struct {
	capacity int
	fifo     []string
	members  map[string]struct{}
}

// New returns an empty Set that retains at most capacity distinct values.
// A capacity below 1 is treated as 1.
func New(capacity int) *Set {
	if capacity < 1 {
		capacity = 1
	}
	return &Set{
		capacity: capacity,
		members:  make(map[string]struct{}, capacity),
	}
}

// Contains reports whether item was added and has not since been evicted.
func (s *Set) Contains(item string) bool {
	_, ok := s.members[item]
	return ok
}

// Add inserts item, evicting the oldest surviving member first if the set is
// full. Add does not deduplicate on insert: adding a value that is already
// present records a second occurrence in insertion order and may evict a
// different, older member. Callers that want duplicate suppression must
// check Contains before Add.
func (s *Set) Add(item string) {
	if len(s.members) == s.capacity {
		oldest := s.fifo[0]
		s.fifo = s.fifo[1:]
		delete(s.members, oldest)
	}
	s.fifo = append(s.fifo, item)
	s.members[item] = struct{}{}
}

// Len returns the number of distinct members currently retained.
func (s *Set) Len() int {
	return len(s.members)
}

// Capacity returns the maximum number of distinct members the set retains.
func (s *Set) Capacity() int {
	return s.capacity
}
