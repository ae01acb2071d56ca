// Package app wires configuration, the content source, the analyzers,
// storage, and the digest pipeline into runnable service modes.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/nookly/lead-monitor/internal/analyze"
	"github.com/nookly/lead-monitor/internal/core/domain"
	"github.com/nookly/lead-monitor/internal/deliver"
	"github.com/nookly/lead-monitor/internal/ingest/reddit"
	"github.com/nookly/lead-monitor/internal/llm"
	"github.com/nookly/lead-monitor/internal/platform/config"
	"github.com/nookly/lead-monitor/internal/platform/observability"
	"github.com/nookly/lead-monitor/internal/platform/worker"
	"github.com/nookly/lead-monitor/internal/process/digest"
	"github.com/nookly/lead-monitor/internal/process/monitor"
	"github.com/nookly/lead-monitor/internal/respond"
	"github.com/nookly/lead-monitor/internal/storage"
)

// App holds the wired service components.
type App struct {
	cfg       *config.Config
	logger    *zerolog.Logger
	monitor   *monitor.Monitor
	scheduler *digest.Scheduler
}

// New wires the application. The store is built by the caller so the
// binary owns its lifecycle.
func New(cfg *config.Config, store storage.Store, logger *zerolog.Logger) (*App, error) {
	watchlist, err := config.LoadWatchlist(cfg.WatchlistPath)
	if err != nil {
		return nil, fmt.Errorf("loading watchlist: %w", err)
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	var completer llm.Client
	if cfg.LLMAPIKey != "" {
		completer = llm.NewOpenAI(cfg.LLMAPIKey, cfg.LLMModel, cfg.LLMRPS, logger)
	} else {
		logger.Warn().Msg("no LLM API key configured, every thread takes the fallback scorer")
	}

	fallback := analyze.NewFallbackScorer(analyze.Multipliers{
		NegativeSentiment: cfg.MultNegSentiment,
		AgeRelevance:      cfg.MultAgeRelevance,
		UrgencyHigh:       cfg.MultUrgencyHigh,
		UrgencyMedium:     cfg.MultUrgencyMedium,
	})

	var primary analyze.Assessor
	if completer != nil {
		primary = analyze.NewPrimaryAnalyzer(completer, logger)
	}

	arbiter := analyze.NewArbiter(primary, fallback, logger)
	drafter := respond.New(completer, logger)

	source := reddit.NewClient(reddit.Config{
		BaseURL:           cfg.RedditBaseURL,
		UserAgent:         cfg.RedditUserAgent,
		RequestsPerMinute: cfg.RedditRPM,
		Timeout:           cfg.RedditTimeout,
	}, logger)

	window := digest.NewWindow()

	mon := monitor.New(
		monitor.Config{
			Watchlist:      watchlist,
			PostFetchLimit: cfg.PostFetchLimit,
			CommentLimit:   cfg.CommentLimit,
			Thresholds: domain.TierThresholds{
				Low:    cfg.TierLowBound,
				Medium: cfg.TierMediumBound,
				High:   cfg.TierHighBound,
			},
			ResponseThreshold: cfg.ResponseThreshold,
		},
		source,
		arbiter,
		drafter,
		store,
		monitor.NewDedupState(),
		window,
		logger,
	)

	var sender digest.Sender
	if cfg.EmailEnabled() {
		sender = deliver.NewEmailSender(deliver.Config{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.EmailFrom,
			To:       cfg.EmailTo,
		}, logger)
	} else {
		logger.Warn().Msg("email delivery not configured, digests go to the log only")

		sender = &logSender{logger: logger}
	}

	scheduler := digest.NewScheduler(window, sender, cfg.DigestHour, cfg.DigestMinute, loc, logger)

	return &App{
		cfg:       cfg,
		logger:    logger,
		monitor:   mon,
		scheduler: scheduler,
	}, nil
}

// RunMonitor runs the polling cycle, with the digest scheduler on a
// background goroutine since the window lives in this process. With
// once set it runs a single cycle and exits without scheduling digests.
func (a *App) RunMonitor(ctx context.Context, once bool) error {
	if once {
		return a.monitor.Cycle(ctx)
	}

	go func() {
		defer worker.RecoverPanic(a.logger, "digest scheduler")

		if err := a.scheduler.Run(ctx); err != nil {
			a.logger.Info().Err(err).Msg("digest scheduler stopped")
		}
	}()

	return worker.Loop(ctx, worker.Config{
		Name:         "monitor",
		PollInterval: a.cfg.PollInterval,
		Process:      a.monitor.Cycle,
		Logger:       a.logger,
	})
}

// RunDigest runs only the digest scheduler. With once set it emits
// whatever the window currently holds and exits.
func (a *App) RunDigest(ctx context.Context, once bool) error {
	if once {
		a.scheduler.Emit(ctx, time.Now())
		return nil
	}

	return a.scheduler.Run(ctx)
}

// StartHealthServer serves health, readiness, metrics, and status until
// ctx is canceled.
func (a *App) StartHealthServer(ctx context.Context) error {
	server := observability.NewServer(a.cfg.HealthPort, a.monitor.Status, nil, a.logger)
	return server.Start(ctx)
}

// logSender stands in for email delivery in environments without SMTP
// configured.
type logSender struct {
	logger *zerolog.Logger
}

func (s *logSender) Send(_ context.Context, batch []domain.ThreadRecord) error {
	for _, record := range batch {
		s.logger.Info().
			Str("thread_id", record.ThreadID).
			Str("subreddit", record.Subreddit).
			Str("tier", string(record.Tier)).
			Float64("score", record.Assessment.TotalScore).
			Msg("digest entry")
	}

	s.logger.Info().Int("batch_size", len(batch)).Msg("digest logged (no email transport)")

	return nil
}
