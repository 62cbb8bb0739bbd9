package sublog

import (
	"context"
	"sync"
)

// Ring keeps the newest entries in memory, newest first. Capacity is
// fixed; old entries fall off the end.
type Ring struct {
	mu      sync.Mutex
	entries []Entry
	cap     int
}

func NewRing(capacity int) *Ring {
	if capacity <= 0 {
		capacity = 100
	}
	return &Ring{cap: capacity}
}

func (r *Ring) Record(ctx context.Context, e Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = append([]Entry{e}, r.entries...)
	if len(r.entries) > r.cap {
		r.entries = r.entries[:r.cap]
	}
	return nil
}

func (r *Ring) Recent(ctx context.Context, n int) ([]Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if n <= 0 || n > len(r.entries) {
		n = len(r.entries)
	}
	out := make([]Entry, n)
	copy(out, r.entries[:n])
	return out, nil
}
