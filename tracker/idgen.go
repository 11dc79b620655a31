package tracker

import "sync"

// IDGenerator is a struct to hold a counter for generating the next
// incremental track ID.  Each Manager owns its own generator so IDs are
// unique per overlay instance rather than per process.
type IDGenerator struct {
	// base is the first ID issued and the value returned to on Reset
	base uint64
	// next is the ID the following GetNext call returns
	next uint64
	sync.Mutex
}

// NewIDGenerator returns a generator whose first ID is base
func NewIDGenerator(base uint64) *IDGenerator {
	return &IDGenerator{
		base: base,
		next: base,
	}
}

// GetNext returns the next incremental ID
func (id *IDGenerator) GetNext() uint64 {
	id.Lock()
	defer id.Unlock()
	n := id.next
	id.next++
	return n
}

// Peek returns the ID the next GetNext call will issue without consuming it
func (id *IDGenerator) Peek() uint64 {
	id.Lock()
	defer id.Unlock()
	return id.next
}

// Reset returns the counter to its base value
func (id *IDGenerator) Reset() {
	id.Lock()
	defer id.Unlock()
	id.next = id.base
}
