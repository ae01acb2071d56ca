// Package digest accumulates stored thread records and emits them as a
// daily batch.
package digest

import (
	"sync"
	"time"

	"github.com/nookly/lead-monitor/internal/core/domain"
)

// windowDuration is the trailing period a record stays eligible for the
// next digest.
const windowDuration = 24 * time.Hour

// Window holds the records collected since the last digest. The monitor
// loop appends while the scheduler drains, so all access is serialized.
type Window struct {
	mu      sync.Mutex
	records []domain.ThreadRecord
}

// NewWindow returns an empty window.
func NewWindow() *Window {
	return &Window{}
}

// Append adds a record to the window.
func (w *Window) Append(record domain.ThreadRecord) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.records = append(w.records, record)
}

// Len returns the number of accumulated records.
func (w *Window) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()

	return len(w.records)
}

// TakeBatch returns the records observed within the trailing window
// before now and empties the window. Clearing is unconditional: records
// older than the window are silently dropped, and the caller gets the
// batch whether or not it manages to deliver it.
func (w *Window) TakeBatch(now time.Time) []domain.ThreadRecord {
	w.mu.Lock()
	defer w.mu.Unlock()

	cutoff := now.Add(-windowDuration)

	var batch []domain.ThreadRecord

	for _, record := range w.records {
		if record.ObservedAt.After(cutoff) {
			batch = append(batch, record)
		}
	}

	w.records = nil

	return batch
}
