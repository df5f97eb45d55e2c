package gesture

import "sync/atomic"

// Publisher hands State snapshots from the tracker to the render loop.
// Each Publish swaps in a whole snapshot, so readers never observe a mix of
// old and new fields. Intended for a single writer and any number of readers.
type Publisher struct {
	cur     atomic.Pointer[State]
	version atomic.Uint64
}

// NewPublisher creates a publisher holding the initial state.
func NewPublisher(initial State) *Publisher {
	p := &Publisher{}
	p.cur.Store(&initial)
	return p
}

// Publish replaces the current snapshot.
func (p *Publisher) Publish(s State) {
	p.cur.Store(&s)
	p.version.Add(1)
}

// Load returns the latest snapshot.
func (p *Publisher) Load() State {
	return *p.cur.Load()
}

// Version counts publishes since creation.
func (p *Publisher) Version() uint64 {
	return p.version.Load()
}
