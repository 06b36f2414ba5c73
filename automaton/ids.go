package automaton

// IDAllocator hands out stable, increasing integer identities for NFA
// states. Construction threads one allocator through every rule's build and
// the merge step, so ids stay unique across the whole merged automaton
// without a process-wide counter.
type IDAllocator struct {
	next int
}

// NewIDAllocator returns an allocator starting at zero.
func NewIDAllocator() *IDAllocator {
	return &IDAllocator{}
}

// Alloc returns the next unused id.
func (a *IDAllocator) Alloc() int {
	id := a.next
	a.next++
	return id
}
