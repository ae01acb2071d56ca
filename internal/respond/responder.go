// Package respond drafts outreach replies for qualifying threads. The
// completion service produces three scored variations and the best one
// wins; when the service fails, a per-audience template fills in.
package respond

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/nookly/lead-monitor/internal/core/domain"
	"github.com/nookly/lead-monitor/internal/platform/observability"
)

const (
	pathLLM      = "llm"
	pathTemplate = "template"

	scoreLinePrefix = "relevance score:"
	variationCount  = 3
)

// Completer is the generative-text surface used for drafting.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Responder drafts replies. completer may be nil to force templates.
type Responder struct {
	completer Completer
	logger    *zerolog.Logger
}

// New builds a responder.
func New(completer Completer, logger *zerolog.Logger) *Responder {
	return &Responder{completer: completer, logger: logger}
}

// Draft produces an outreach reply for a record. The completion path is
// tried first; any failure falls back to the audience template. An
// audience without a template (administrator, other) yields an error
// and the record stays draft-less.
func (r *Responder) Draft(ctx context.Context, record domain.ThreadRecord) (string, error) {
	if r.completer != nil {
		draft, err := r.draftWithCompletion(ctx, record)
		if err == nil {
			observability.ResponsesDrafted.WithLabelValues(pathLLM).Inc()
			return draft, nil
		}

		r.logger.Warn().Err(err).Str("thread_id", record.ThreadID).Msg("completion drafting failed, using template")
	}

	draft, err := r.draftFromTemplate(record)
	if err != nil {
		return "", err
	}

	observability.ResponsesDrafted.WithLabelValues(pathTemplate).Inc()

	return draft, nil
}

func (r *Responder) draftWithCompletion(ctx context.Context, record domain.ThreadRecord) (string, error) {
	reply, err := r.completer.Complete(ctx, buildDraftPrompt(record))
	if err != nil {
		return "", fmt.Errorf("draft completion: %w", err)
	}

	best, ok := bestVariation(reply)
	if !ok {
		return "", fmt.Errorf("draft reply contained no scored variations")
	}

	return best, nil
}

func buildDraftPrompt(record domain.ThreadRecord) string {
	var sb strings.Builder

	sb.WriteString(`You draft Reddit replies for Nookly, an educational platform for
children ages 2-8. The voice is a helpful community member: lead with
genuine advice and free resources, mention Nookly once, briefly, and
never oversell. No links except plain resource names.

Write `)
	sb.WriteString(strconv.Itoa(variationCount))
	sb.WriteString(` reply variations for the thread below. After each variation put
a line "Relevance Score: <0-1>" rating how well it fits the thread.

Audience: `)
	sb.WriteString(string(record.Assessment.UserType))

	if len(record.Assessment.PainPoints) > 0 {
		sb.WriteString("\nPain points: ")
		sb.WriteString(strings.Join(record.Assessment.PainPoints, "; "))
	}

	sb.WriteString("\n\nThread title: ")
	sb.WriteString(record.Post.Title)
	sb.WriteString("\nThread body: ")
	sb.WriteString(record.Post.Selftext)

	return sb.String()
}

// bestVariation splits the reply on "Relevance Score:" lines and keeps
// the variation with the highest score. Unscored trailing text is
// treated as score zero.
func bestVariation(reply string) (string, bool) {
	var (
		bestText  string
		bestScore = -1.0
		current   strings.Builder
	)

	flush := func(score float64) {
		text := strings.TrimSpace(current.String())
		current.Reset()

		if text != "" && score > bestScore {
			bestText = text
			bestScore = score
		}
	}

	for _, line := range strings.Split(reply, "\n") {
		trimmed := strings.ToLower(strings.TrimSpace(line))
		if strings.HasPrefix(trimmed, scoreLinePrefix) {
			raw := strings.TrimSpace(trimmed[len(scoreLinePrefix):])

			score, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				score = 0
			}

			flush(score)

			continue
		}

		current.WriteString(line)
		current.WriteString("\n")
	}

	flush(0)

	return bestText, bestScore >= 0
}

func (r *Responder) draftFromTemplate(record domain.ThreadRecord) (string, error) {
	template, ok := fallbackTemplates[record.Assessment.UserType]
	if !ok {
		return "", fmt.Errorf("no reply template for audience %q", record.Assessment.UserType)
	}

	issue, resources, feature := matchResources(record.Assessment.KeywordsFound)

	replacer := strings.NewReplacer(
		"{issue}", issue,
		"{resource_1}", freeResources[resources[0]],
		"{resource_2}", freeResources[resources[1]],
		"{feature}", productFeatures[feature],
	)

	return replacer.Replace(template), nil
}

// matchResources picks the issue wording, two resource keys, and the
// feature key from the thread's keywords.
func matchResources(keywords []string) (string, [2]string, string) {
	issue := defaultIssue
	feature := ""

	var picked []string

	seen := make(map[string]struct{})

	for _, entry := range keywordResources {
		if !keywordPresent(keywords, entry.keyword) {
			continue
		}

		if issue == defaultIssue {
			issue = entry.keyword
		}

		if feature == "" {
			feature = entry.resources[0]
		}

		for _, res := range entry.resources {
			if _, ok := seen[res]; !ok {
				seen[res] = struct{}{}
				picked = append(picked, res)
			}
		}
	}

	resources := [2]string{defaultResourceFirst, defaultResourceSecond}

	if len(picked) >= 2 {
		resources = [2]string{picked[0], picked[1]}
	} else if len(picked) == 1 {
		resources = [2]string{picked[0], defaultResourceFirst}
	}

	if feature == "" {
		feature = defaultFeature
	}

	return issue, resources, feature
}

func keywordPresent(keywords []string, target string) bool {
	for _, keyword := range keywords {
		if strings.Contains(strings.ToLower(keyword), target) {
			return true
		}
	}

	return false
}
