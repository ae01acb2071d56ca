package monitor

import "sync"

// DedupState tracks which thread IDs have already been observed this
// run. A thread is scored and persisted at most once; re-observations
// are no-ops. State is in-process only and resets on restart.
type DedupState struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

// NewDedupState returns an empty dedup state.
func NewDedupState() *DedupState {
	return &DedupState{seen: make(map[string]struct{})}
}

// Observe records a thread ID and reports whether this is its first
// observation. The check and the mark are one atomic step so two
// concurrent observers can never both see "new".
func (d *DedupState) Observe(threadID string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[threadID]; ok {
		return false
	}

	d.seen[threadID] = struct{}{}

	return true
}

// Len returns the number of distinct threads observed.
func (d *DedupState) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	return len(d.seen)
}
