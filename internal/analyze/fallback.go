package analyze

import (
	"strings"

	"github.com/jonreiter/govader"
	"golang.org/x/text/cases"

	"github.com/nookly/lead-monitor/internal/core/domain"
)

const (
	maxTotalScore          = 10
	negativeSentimentFloor = -0.5
)

// Multipliers adjust the keyword score before clamping. The composition
// order is fixed (sentiment, then age, then urgency); only the constants
// are configurable.
type Multipliers struct {
	NegativeSentiment float64
	AgeRelevance      float64
	UrgencyHigh       float64
	UrgencyMedium     float64
}

// DefaultMultipliers returns the standard scoring adjustments.
func DefaultMultipliers() Multipliers {
	return Multipliers{
		NegativeSentiment: 1.2,
		AgeRelevance:      1.1,
		UrgencyHigh:       1.3,
		UrgencyMedium:     1.1,
	}
}

// FallbackScorer produces a full relevance assessment from local text
// analysis only. It needs no network and never fails: every detection
// degrades to empty, false, low, or other on input it cannot read.
type FallbackScorer struct {
	sentiment *govader.SentimentIntensityAnalyzer
	mult      Multipliers
	caser     cases.Caser
}

// NewFallbackScorer builds a scorer with the given multipliers.
func NewFallbackScorer(mult Multipliers) *FallbackScorer {
	return &FallbackScorer{
		sentiment: govader.NewSentimentIntensityAnalyzer(),
		mult:      mult,
		caser:     cases.Fold(),
	}
}

// Score assesses a normalized content blob.
func (s *FallbackScorer) Score(content string) domain.Assessment {
	folded := s.caser.String(content)

	keywordScore := keywordScore(folded)
	userType := detectUserType(folded)
	painPoints := extractPainPoints(folded)
	sentimentScore := s.sentimentScore(content)
	ageRelevant := detectAgeRelevance(folded)
	urgency := detectUrgency(folded)
	competitors := findCompetitors(folded)

	return domain.Assessment{
		TotalScore:          s.finalScore(keywordScore, sentimentScore, ageRelevant, urgency),
		UserType:            userType,
		PainPoints:          painPoints,
		KeywordsFound:       foundKeywords(folded),
		SentimentScore:      sentimentScore,
		AgeRelevance:        ageRelevant,
		UrgencyLevel:        urgency,
		CompetitiveMentions: competitors,
	}
}

// keywordScore sums the three term tables. A term contributes its weight
// at most once regardless of how often it repeats.
func keywordScore(folded string) float64 {
	var score float64

	for _, table := range [][]weightedTerm{highValueTerms, mediumValueTerms, problemIndicators} {
		for _, term := range table {
			if strings.Contains(folded, term.phrase) {
				score += term.weight
			}
		}
	}

	return score
}

// detectUserType counts indicator phrases per type and picks the type
// with the most matches. Ties resolve in declaration order; zero matches
// resolve to other.
func detectUserType(folded string) domain.UserType {
	best := domain.UserTypeOther
	bestCount := 0

	for _, entry := range userTypeIndicators {
		count := 0

		for _, phrase := range entry.phrases {
			if strings.Contains(folded, phrase) {
				count++
			}
		}

		if count > bestCount {
			best = entry.userType
			bestCount = count
		}
	}

	return best
}

// extractPainPoints collects, for every problem indicator present, each
// period-delimited sentence containing it. A sentence may appear once
// per matching indicator.
func extractPainPoints(folded string) []string {
	var points []string

	sentences := strings.Split(folded, ".")

	for _, term := range problemIndicators {
		if !strings.Contains(folded, term.phrase) {
			continue
		}

		for _, sentence := range sentences {
			if strings.Contains(sentence, term.phrase) {
				points = append(points, strings.TrimSpace(sentence))
			}
		}
	}

	return points
}

func (s *FallbackScorer) sentimentScore(content string) float64 {
	if strings.TrimSpace(content) == "" {
		return 0
	}

	return s.sentiment.PolarityScores(content).Compound
}

func detectAgeRelevance(folded string) bool {
	for _, pattern := range agePatterns {
		if pattern.MatchString(folded) {
			return true
		}
	}

	return false
}

func detectUrgency(folded string) domain.UrgencyLevel {
	maxValue := 0

	for _, term := range urgencyTerms {
		if strings.Contains(folded, term.phrase) && term.value > maxValue {
			maxValue = term.value
		}
	}

	switch {
	case maxValue >= urgencyHighValue:
		return domain.UrgencyHigh
	case maxValue >= urgencyMediumValue:
		return domain.UrgencyMedium
	default:
		return domain.UrgencyLow
	}
}

func findCompetitors(folded string) []string {
	var mentions []string

	for _, term := range competitorTerms {
		if strings.Contains(folded, term) {
			mentions = append(mentions, term)
		}
	}

	return mentions
}

// finalScore applies the multiplier chain to the keyword score and
// clamps the result to [0, maxTotalScore].
func (s *FallbackScorer) finalScore(keywordScore, sentiment float64, ageRelevant bool, urgency domain.UrgencyLevel) float64 {
	score := keywordScore

	if sentiment < negativeSentimentFloor {
		score *= s.mult.NegativeSentiment
	}

	if ageRelevant {
		score *= s.mult.AgeRelevance
	}

	switch urgency {
	case domain.UrgencyHigh:
		score *= s.mult.UrgencyHigh
	case domain.UrgencyMedium:
		score *= s.mult.UrgencyMedium
	}

	if score > maxTotalScore {
		return maxTotalScore
	}

	if score < 0 {
		return 0
	}

	return score
}

// foundKeywords returns the union of high and medium value terms present.
func foundKeywords(folded string) []string {
	var found []string

	for _, table := range [][]weightedTerm{highValueTerms, mediumValueTerms} {
		for _, term := range table {
			if strings.Contains(folded, term.phrase) {
				found = append(found, term.phrase)
			}
		}
	}

	return found
}
