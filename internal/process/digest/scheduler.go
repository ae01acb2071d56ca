package digest

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/nookly/lead-monitor/internal/core/domain"
	"github.com/nookly/lead-monitor/internal/platform/observability"
	"github.com/nookly/lead-monitor/internal/platform/schedule"
	"github.com/nookly/lead-monitor/internal/platform/worker"
)

const (
	statusSent    = "sent"
	statusFailed  = "failed"
	statusSkipped = "skipped_empty"
)

// Sender delivers a digest batch.
type Sender interface {
	Send(ctx context.Context, batch []domain.ThreadRecord) error
}

// Scheduler emits the accumulated window once a day at a fixed
// wall-clock time.
type Scheduler struct {
	window *Window
	sender Sender
	hour   int
	minute int
	loc    *time.Location
	logger *zerolog.Logger
}

// NewScheduler builds a daily digest scheduler.
func NewScheduler(window *Window, sender Sender, hour, minute int, loc *time.Location, logger *zerolog.Logger) *Scheduler {
	return &Scheduler{
		window: window,
		sender: sender,
		hour:   hour,
		minute: minute,
		loc:    loc,
		logger: logger,
	}
}

// Run waits for each daily trigger and emits the digest, until ctx is
// canceled.
func (s *Scheduler) Run(ctx context.Context) error {
	for {
		next := schedule.NextDaily(time.Now(), s.hour, s.minute, s.loc)

		s.logger.Info().Time("next_digest", next).Msg("digest scheduled")

		if err := worker.WaitUntil(ctx, next); err != nil {
			return fmt.Errorf("digest scheduler: %w", err)
		}

		s.Emit(ctx, time.Now())
	}
}

// Emit drains the window and sends whatever falls inside the trailing
// 24h. The window is already cleared when delivery runs, so a failed
// send drops the batch rather than replaying it tomorrow.
func (s *Scheduler) Emit(ctx context.Context, now time.Time) {
	batch := s.window.TakeBatch(now)

	observability.DigestWindowSize.Set(float64(s.window.Len()))

	if len(batch) == 0 {
		observability.DigestsSent.WithLabelValues(statusSkipped).Inc()
		s.logger.Info().Msg("digest window empty, nothing to send")

		return
	}

	observability.DigestBatchSize.Observe(float64(len(batch)))

	if err := s.sender.Send(ctx, batch); err != nil {
		observability.DigestsSent.WithLabelValues(statusFailed).Inc()
		s.logger.Error().Err(err).Int("batch_size", len(batch)).Msg("digest delivery failed, batch dropped")

		return
	}

	observability.DigestsSent.WithLabelValues(statusSent).Inc()
	s.logger.Info().Int("batch_size", len(batch)).Msg("digest sent")
}
