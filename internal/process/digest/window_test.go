package digest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/nookly/lead-monitor/internal/core/domain"
)

func recordObservedAt(id string, at time.Time) domain.ThreadRecord {
	return domain.ThreadRecord{ID: id, ThreadID: id, ObservedAt: at}
}

func TestTakeBatchTrailingWindow(t *testing.T) {
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

	window := NewWindow()
	window.Append(recordObservedAt("fresh", now.Add(-23*time.Hour)))
	window.Append(recordObservedAt("stale", now.Add(-25*time.Hour)))

	batch := window.TakeBatch(now)

	if len(batch) != 1 {
		t.Fatalf("got %d records, want 1", len(batch))
	}

	if batch[0].ID != "fresh" {
		t.Errorf("batch = %v, want the 23h-old record", batch[0].ID)
	}
}

func TestTakeBatchClearsEverything(t *testing.T) {
	now := time.Now()

	window := NewWindow()
	window.Append(recordObservedAt("fresh", now.Add(-time.Hour)))
	window.Append(recordObservedAt("stale", now.Add(-48*time.Hour)))

	_ = window.TakeBatch(now)

	if window.Len() != 0 {
		t.Errorf("window.Len() = %d after TakeBatch, want 0", window.Len())
	}

	if batch := window.TakeBatch(now); len(batch) != 0 {
		t.Errorf("second TakeBatch = %v, want empty", batch)
	}
}

func TestTakeBatchEmptyWindow(t *testing.T) {
	window := NewWindow()

	if batch := window.TakeBatch(time.Now()); batch != nil {
		t.Errorf("TakeBatch on empty window = %v, want nil", batch)
	}
}

type stubSender struct {
	batches [][]domain.ThreadRecord
	err     error
}

func (s *stubSender) Send(_ context.Context, batch []domain.ThreadRecord) error {
	s.batches = append(s.batches, batch)
	return s.err
}

func TestEmitSendsFreshRecords(t *testing.T) {
	logger := zerolog.Nop()
	now := time.Now()

	window := NewWindow()
	window.Append(recordObservedAt("a", now.Add(-time.Hour)))

	sender := &stubSender{}
	scheduler := NewScheduler(window, sender, 8, 0, time.UTC, &logger)

	scheduler.Emit(context.Background(), now)

	if len(sender.batches) != 1 || len(sender.batches[0]) != 1 {
		t.Fatalf("sender got %v, want one batch of one record", sender.batches)
	}
}

func TestEmitClearsWindowEvenWhenDeliveryFails(t *testing.T) {
	logger := zerolog.Nop()
	now := time.Now()

	window := NewWindow()
	window.Append(recordObservedAt("a", now.Add(-time.Hour)))

	sender := &stubSender{err: errors.New("smtp unavailable")}
	scheduler := NewScheduler(window, sender, 8, 0, time.UTC, &logger)

	scheduler.Emit(context.Background(), now)

	if window.Len() != 0 {
		t.Errorf("window.Len() = %d after failed delivery, want 0", window.Len())
	}
}

func TestEmitSkipsSendOnEmptyWindow(t *testing.T) {
	logger := zerolog.Nop()

	sender := &stubSender{}
	scheduler := NewScheduler(NewWindow(), sender, 8, 0, time.UTC, &logger)

	scheduler.Emit(context.Background(), time.Now())

	if len(sender.batches) != 0 {
		t.Errorf("sender called %d times on empty window, want 0", len(sender.batches))
	}
}
