package analyze

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/nookly/lead-monitor/internal/core/domain"
	apperrors "github.com/nookly/lead-monitor/internal/core/errors"
)

// Reply labels the primary analyzer is asked to emit, one per line, in
// any order, case-insensitive.
const (
	labelScore       = "score"
	labelType        = "type"
	labelPain        = "pain"
	labelKeywords    = "keywords"
	labelSentiment   = "sentiment"
	labelAge         = "age"
	labelUrgency     = "urgency"
	labelCompetitors = "competitors"
)

var (
	replyLineRegex = regexp.MustCompile(`(?im)^\s*(score|type|pain|keywords|sentiment|age|urgency|competitors)\s*:\s*(.*)$`)
	numberRegex    = regexp.MustCompile(`[-+]?\d+(?:\.\d+)?`)
)

// parseAssessment decodes the labeled reply format into an Assessment.
// Every field except the score is optional and defaults safely; a reply
// without a parseable numeric score is a request-level failure so the
// caller can fall back. No partial assessment is ever returned alongside
// an error.
func parseAssessment(reply string) (domain.Assessment, error) {
	fields := extractFields(reply)

	score, ok := parseScore(fields[labelScore])
	if !ok {
		return domain.Assessment{}, fmt.Errorf("%w: %q", apperrors.ErrUnparseableReply, firstLine(reply))
	}

	return domain.Assessment{
		TotalScore:          clamp(score, 0, maxTotalScore),
		UserType:            domain.NormalizeUserType(fields[labelType]),
		PainPoints:          splitList(fields[labelPain]),
		KeywordsFound:       splitList(fields[labelKeywords]),
		SentimentScore:      parseSentiment(fields[labelSentiment]),
		AgeRelevance:        parseBool(fields[labelAge]),
		UrgencyLevel:        domain.NormalizeUrgency(fields[labelUrgency]),
		CompetitiveMentions: splitList(fields[labelCompetitors]),
	}, nil
}

// extractFields collects the first occurrence of each labeled line.
func extractFields(reply string) map[string]string {
	fields := make(map[string]string)

	for _, match := range replyLineRegex.FindAllStringSubmatch(reply, -1) {
		label := strings.ToLower(match[1])
		if _, seen := fields[label]; !seen {
			fields[label] = strings.TrimSpace(match[2])
		}
	}

	return fields
}

// parseScore pulls the first numeric token out of the score field.
// Tolerates suffixes like "7.5/10" or "7.5 out of 10".
func parseScore(raw string) (float64, bool) {
	token := numberRegex.FindString(raw)
	if token == "" {
		return 0, false
	}

	value, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return 0, false
	}

	return value, true
}

func parseSentiment(raw string) float64 {
	token := numberRegex.FindString(raw)
	if token == "" {
		return 0
	}

	value, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return 0
	}

	return clamp(value, -1, 1)
}

func parseBool(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "yes", "y", "1":
		return true
	default:
		return false
	}
}

// splitList comma-splits a field, trimming whitespace and dropping
// empty entries.
func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	var items []string

	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			items = append(items, part)
		}
	}

	return items
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}

	if v > hi {
		return hi
	}

	return v
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		s = s[:idx]
	}

	const maxLen = 120
	if len(s) > maxLen {
		s = s[:maxLen]
	}

	return s
}
