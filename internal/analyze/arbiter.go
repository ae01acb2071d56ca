package analyze

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/nookly/lead-monitor/internal/core/domain"
	"github.com/nookly/lead-monitor/internal/platform/observability"
)

// Assessor produces an assessment for a content blob or reports why it
// could not.
type Assessor interface {
	Assess(ctx context.Context, content string) (domain.Assessment, error)
}

// Analyzer path labels used in logs and metrics.
const (
	pathPrimary  = "primary"
	pathFallback = "fallback"

	logFieldPath  = "analyzer_path"
	logFieldScore = "score"
)

// Arbiter guarantees exactly one assessment per thread: it tries the
// primary analyzer once and falls back to the deterministic scorer on
// any failure. It never retries the primary within a single call.
type Arbiter struct {
	primary  Assessor
	fallback *FallbackScorer
	logger   *zerolog.Logger
}

// NewArbiter wires the primary analyzer and fallback scorer. primary
// may be nil, in which case every assessment takes the fallback path.
func NewArbiter(primary Assessor, fallback *FallbackScorer, logger *zerolog.Logger) *Arbiter {
	return &Arbiter{primary: primary, fallback: fallback, logger: logger}
}

// Assess returns an assessment for the blob, always.
func (a *Arbiter) Assess(ctx context.Context, content string) domain.Assessment {
	if a.primary != nil {
		assessment, err := a.primary.Assess(ctx, content)
		if err == nil {
			observability.AssessmentsTotal.WithLabelValues(pathPrimary).Inc()
			a.logger.Debug().
				Str(logFieldPath, pathPrimary).
				Float64(logFieldScore, assessment.TotalScore).
				Msg("thread assessed")

			return assessment
		}

		a.logger.Warn().Err(err).Msg("primary analyzer failed, using fallback scorer")
	}

	assessment := a.fallback.Score(content)

	observability.AssessmentsTotal.WithLabelValues(pathFallback).Inc()
	a.logger.Debug().
		Str(logFieldPath, pathFallback).
		Float64(logFieldScore, assessment.TotalScore).
		Msg("thread assessed")

	return assessment
}
