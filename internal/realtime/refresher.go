package realtime

import (
	"context"
	"sync"
	"sync/atomic"
)

// Refresher serializes refetch-on-change. Every dispatched refresh carries a
// monotonically increasing generation number; a completion only applies if no
// newer refresh was dispatched after it, so a slow stale fetch can never
// overwrite a fresher result.
type Refresher struct {
	fetch func(ctx context.Context) (interface{}, error)
	apply func(interface{})

	seq     atomic.Uint64
	mu      sync.Mutex
	applied uint64
}

func NewRefresher(
	fetch func(ctx context.Context) (interface{}, error),
	apply func(interface{}),
) *Refresher {
	return &Refresher{fetch: fetch, apply: apply}
}

// Refresh runs one fetch cycle. Returns true if the result was applied,
// false if it was discarded as superseded.
func (r *Refresher) Refresh(ctx context.Context) (bool, error) {
	gen := r.seq.Add(1)

	snapshot, err := r.fetch(ctx)
	if err != nil {
		return false, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	// Discard unless this is still the latest dispatched refresh and nothing
	// newer has already been applied.
	if gen != r.seq.Load() || gen <= r.applied {
		return false, nil
	}
	r.applied = gen
	r.apply(snapshot)
	return true, nil
}
