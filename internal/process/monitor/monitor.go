// Package monitor runs the polling cycle: fetch new threads from the
// watchlist, gate them through dedup, assess relevance, classify into
// tiers, persist, and hand drafted leads to the digest window.
package monitor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nookly/lead-monitor/internal/analyze"
	"github.com/nookly/lead-monitor/internal/core/domain"
	"github.com/nookly/lead-monitor/internal/platform/config"
	"github.com/nookly/lead-monitor/internal/platform/observability"
	"github.com/nookly/lead-monitor/internal/process/digest"
	"github.com/nookly/lead-monitor/internal/storage"
)

// Fetch cadence per watchlist group.
const (
	secondaryCadence = 3 * 24 * time.Hour
	tertiaryCadence  = 7 * 24 * time.Hour
)

const (
	logFieldSubreddit = "subreddit"
	logFieldThread    = "thread_id"
	logFieldTier      = "tier"

	skipReasonStoreError = "store_error"
	skipReasonNoComments = "comments_unavailable"
)

// ContentSource is the slice of the Reddit client the monitor needs.
type ContentSource interface {
	FetchNewPosts(ctx context.Context, subreddit string, limit int) ([]domain.Post, error)
	FetchComments(ctx context.Context, subreddit, postID string, limit int) ([]domain.Comment, error)
	FetchSubredditInfo(ctx context.Context, subreddit string) (domain.SubredditInfo, error)
}

// Drafter produces an outreach draft for a qualifying record.
type Drafter interface {
	Draft(ctx context.Context, record domain.ThreadRecord) (string, error)
}

// Config carries the monitor's tunables.
type Config struct {
	Watchlist         config.Watchlist
	PostFetchLimit    int
	CommentLimit      int
	Thresholds        domain.TierThresholds
	ResponseThreshold float64
}

// Monitor owns one full monitoring cycle and the run-scoped state
// behind it.
type Monitor struct {
	cfg     Config
	source  ContentSource
	arbiter *analyze.Arbiter
	drafter Drafter
	store   storage.Store
	dedup   *DedupState
	window  *digest.Window
	logger  *zerolog.Logger

	// vetted caches the per-subreddit metadata check for this run.
	// Touched only from the cycle goroutine.
	vetted map[string]bool

	mu            sync.Mutex
	cycleCount    int
	lastCycleAt   time.Time
	lastSecondary time.Time
	lastTertiary  time.Time
	tierCounts    map[domain.PriorityTier]int
	discarded     int
	deduplicated  int
}

// New wires a monitor. drafter may be nil to disable response drafting.
func New(
	cfg Config,
	source ContentSource,
	arbiter *analyze.Arbiter,
	drafter Drafter,
	store storage.Store,
	dedup *DedupState,
	window *digest.Window,
	logger *zerolog.Logger,
) *Monitor {
	return &Monitor{
		cfg:        cfg,
		source:     source,
		arbiter:    arbiter,
		drafter:    drafter,
		store:      store,
		dedup:      dedup,
		window:     window,
		logger:     logger,
		vetted:     make(map[string]bool),
		tierCounts: make(map[domain.PriorityTier]int),
	}
}

// Cycle runs one monitoring pass over the subreddits due this cycle.
// Per-subreddit and per-thread failures are logged and skipped; only
// context cancellation aborts the pass.
func (m *Monitor) Cycle(ctx context.Context) error {
	start := time.Now()
	subreddits := m.subredditsDue(start)

	m.logger.Info().
		Int("subreddits", len(subreddits)).
		Msg("monitoring cycle started")

	for _, subreddit := range subreddits {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("cycle interrupted: %w", err)
		}

		if err := m.processSubreddit(ctx, subreddit); err != nil {
			observability.FetchErrors.WithLabelValues("listing").Inc()
			m.logger.Warn().Err(err).Str(logFieldSubreddit, subreddit).Msg("subreddit skipped")
		}
	}

	m.finishCycle(start)

	return nil
}

func (m *Monitor) processSubreddit(ctx context.Context, subreddit string) error {
	if !m.vetSubreddit(ctx, subreddit) {
		return nil
	}

	posts, err := m.source.FetchNewPosts(ctx, subreddit, m.cfg.PostFetchLimit)
	if err != nil {
		return err
	}

	for _, post := range posts {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("subreddit drain: %w", err)
		}

		m.processThread(ctx, subreddit, post)
	}

	return nil
}

// processThread takes one post through the gate-assess-classify-persist
// pipeline. All failures are absorbed here; a bad thread never stops
// the cycle.
func (m *Monitor) processThread(ctx context.Context, subreddit string, post domain.Post) {
	if !m.dedup.Observe(post.ID) {
		observability.ThreadsDeduplicated.Inc()
		m.addDeduplicated()

		return
	}

	comments, err := m.source.FetchComments(ctx, subreddit, post.ID, m.cfg.CommentLimit)
	if err != nil {
		// Assess on the post alone rather than losing the lead.
		observability.ThreadsSkipped.WithLabelValues(skipReasonNoComments).Inc()
		m.logger.Warn().Err(err).Str(logFieldThread, post.ID).Msg("comments unavailable, assessing post only")

		comments = nil
	}

	blob := analyze.NormalizeThread(postText(post), commentBodies(comments))
	assessment := m.arbiter.Assess(ctx, blob)

	tier, keep := m.cfg.Thresholds.Classify(assessment.TotalScore)
	if !keep {
		observability.ThreadsDiscarded.Inc()
		m.addDiscarded()
		m.logger.Debug().
			Str(logFieldThread, post.ID).
			Float64("score", assessment.TotalScore).
			Msg("thread below relevance threshold, discarded")

		return
	}

	record := domain.ThreadRecord{
		ID:         uuid.NewString(),
		ThreadID:   post.ID,
		Subreddit:  subreddit,
		Post:       post,
		Comments:   comments,
		Assessment: assessment,
		Tier:       tier,
		ObservedAt: time.Now(),
	}

	if m.drafter != nil && assessment.TotalScore >= m.cfg.ResponseThreshold {
		draft, err := m.drafter.Draft(ctx, record)
		if err != nil {
			m.logger.Warn().Err(err).Str(logFieldThread, post.ID).Msg("response drafting failed")
		} else {
			record.DraftedResponse = draft
		}
	}

	if err := m.store.Write(ctx, record); err != nil {
		observability.ThreadsSkipped.WithLabelValues(skipReasonStoreError).Inc()
		m.logger.Error().Err(err).Str(logFieldThread, post.ID).Msg("persisting thread record")

		return
	}

	observability.ThreadsStored.WithLabelValues(string(tier)).Inc()
	m.addStored(tier)

	// Only records that acquired a draft belong in the digest window;
	// stored-but-draftless leads stay queryable through the store.
	if record.DraftedResponse != "" {
		m.window.Append(record)
		observability.DigestWindowSize.Set(float64(m.window.Len()))
	}

	m.logger.Info().
		Str(logFieldThread, post.ID).
		Str(logFieldSubreddit, subreddit).
		Str(logFieldTier, string(tier)).
		Float64("score", assessment.TotalScore).
		Msg("thread stored")
}

// vetSubreddit checks a subreddit's metadata once per run. Over-18
// communities never make it into the pipeline no matter what the
// watchlist says. An info-fetch failure lets the subreddit through
// unvetted rather than losing its leads, and retries next cycle.
func (m *Monitor) vetSubreddit(ctx context.Context, subreddit string) bool {
	if allowed, ok := m.vetted[subreddit]; ok {
		return allowed
	}

	info, err := m.source.FetchSubredditInfo(ctx, subreddit)
	if err != nil {
		m.logger.Warn().Err(err).Str(logFieldSubreddit, subreddit).Msg("subreddit info unavailable, proceeding unvetted")

		return true
	}

	allowed := !info.Over18
	m.vetted[subreddit] = allowed

	if !allowed {
		m.logger.Warn().Str(logFieldSubreddit, subreddit).Msg("over-18 subreddit excluded from monitoring")

		return false
	}

	m.logger.Debug().
		Str(logFieldSubreddit, subreddit).
		Int("subscribers", info.Subscribers).
		Msg("subreddit vetted")

	return true
}

// subredditsDue returns the primary group plus whichever slower groups
// have come due, and stamps the groups it returns.
func (m *Monitor) subredditsDue(now time.Time) []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	due := make([]string, 0, len(m.cfg.Watchlist.Primary))
	due = append(due, m.cfg.Watchlist.Primary...)

	if m.lastSecondary.IsZero() || now.Sub(m.lastSecondary) >= secondaryCadence {
		due = append(due, m.cfg.Watchlist.Secondary...)
		m.lastSecondary = now
	}

	if m.lastTertiary.IsZero() || now.Sub(m.lastTertiary) >= tertiaryCadence {
		due = append(due, m.cfg.Watchlist.Tertiary...)
		m.lastTertiary = now
	}

	return due
}

func (m *Monitor) finishCycle(start time.Time) {
	elapsed := time.Since(start)

	observability.CycleDuration.Observe(elapsed.Seconds())
	observability.LastCycleTimestamp.Set(float64(time.Now().Unix()))

	m.mu.Lock()
	m.cycleCount++
	m.lastCycleAt = time.Now()
	m.mu.Unlock()

	m.logger.Info().Dur("elapsed", elapsed).Msg("monitoring cycle finished")
}

// Status reports a snapshot of the monitor's run-scoped counters.
func (m *Monitor) Status() observability.StatusSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	tiers := make(map[string]int, len(m.tierCounts))
	for tier, count := range m.tierCounts {
		tiers[string(tier)] = count
	}

	return observability.StatusSnapshot{
		LastCycleAt:  m.lastCycleAt,
		CycleCount:   m.cycleCount,
		TierCounts:   tiers,
		Discarded:    m.discarded,
		Deduplicated: m.deduplicated,
		WindowSize:   m.window.Len(),
	}
}

func (m *Monitor) addStored(tier domain.PriorityTier) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.tierCounts[tier]++
}

func (m *Monitor) addDiscarded() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.discarded++
}

func (m *Monitor) addDeduplicated() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.deduplicated++
}

func postText(post domain.Post) string {
	if post.Selftext == "" {
		return post.Title
	}

	return post.Title + " " + post.Selftext
}

func commentBodies(comments []domain.Comment) []string {
	if len(comments) == 0 {
		return nil
	}

	bodies := make([]string, 0, len(comments))
	for _, comment := range comments {
		bodies = append(bodies, comment.Body)
	}

	return bodies
}
