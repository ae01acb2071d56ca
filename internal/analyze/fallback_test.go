package analyze

import (
	"strings"
	"testing"

	"github.com/nookly/lead-monitor/internal/core/domain"
)

func TestScoreEmptyInput(t *testing.T) {
	scorer := NewFallbackScorer(DefaultMultipliers())

	got := scorer.Score("")

	if got.TotalScore != 0 {
		t.Errorf("TotalScore = %v, want 0", got.TotalScore)
	}

	if got.UserType != domain.UserTypeOther {
		t.Errorf("UserType = %v, want %v", got.UserType, domain.UserTypeOther)
	}

	if got.UrgencyLevel != domain.UrgencyLow {
		t.Errorf("UrgencyLevel = %v, want %v", got.UrgencyLevel, domain.UrgencyLow)
	}

	if got.SentimentScore != 0 {
		t.Errorf("SentimentScore = %v, want 0", got.SentimentScore)
	}

	if len(got.PainPoints) != 0 || len(got.KeywordsFound) != 0 || len(got.CompetitiveMentions) != 0 {
		t.Errorf("expected empty detections, got %+v", got)
	}
}

func TestScoreStrugglingParentThread(t *testing.T) {
	scorer := NewFallbackScorer(DefaultMultipliers())

	content := "I am struggling with my 5 year old's emotional outbursts, looking for help"

	got := scorer.Score(content)

	if !got.AgeRelevance {
		t.Error("AgeRelevance = false, want true for '5 year old'")
	}

	if got.TotalScore < 6 {
		t.Errorf("TotalScore = %v, want >= 6", got.TotalScore)
	}

	if got.UrgencyLevel != domain.UrgencyMedium {
		t.Errorf("UrgencyLevel = %v, want %v", got.UrgencyLevel, domain.UrgencyMedium)
	}

	wantIndicators := []string{"struggling with", "looking for"}
	for _, indicator := range wantIndicators {
		if !containsSubstring(got.PainPoints, indicator) {
			t.Errorf("PainPoints %v missing sentence with %q", got.PainPoints, indicator)
		}
	}
}

func TestScoreBoundsAlwaysHeld(t *testing.T) {
	scorer := NewFallbackScorer(DefaultMultipliers())

	inputs := []string{
		"",
		"nothing relevant here at all",
		"struggling with need help at my wit's end nothing works looking for recommendations difficulty challenge frustrated overwhelmed urgent my 3 year old",
		"autism iep 504 sel visual schedule social story urgent asap preschool toddler",
	}

	for _, input := range inputs {
		got := scorer.Score(input)
		if got.TotalScore < 0 || got.TotalScore > 10 {
			t.Errorf("Score(%q).TotalScore = %v, want within [0, 10]", input, got.TotalScore)
		}
	}
}

func TestScoreClampsAtTen(t *testing.T) {
	scorer := NewFallbackScorer(DefaultMultipliers())

	// Every problem indicator present: raw keyword score alone is 30.
	content := "struggling with. need help. at my wit's end. nothing works. looking for. recommendations. difficulty. challenge. frustrated. overwhelmed."

	got := scorer.Score(content)

	if got.TotalScore != 10 {
		t.Errorf("TotalScore = %v, want clamped to 10", got.TotalScore)
	}
}

func TestScoreUrgencyMonotonic(t *testing.T) {
	scorer := NewFallbackScorer(DefaultMultipliers())

	base := "my students need an iep and autism routine plan"
	withUrgency := base + " urgent"

	baseScore := scorer.Score(base)
	urgentScore := scorer.Score(withUrgency)

	if urgentScore.UrgencyLevel != domain.UrgencyHigh {
		t.Fatalf("UrgencyLevel = %v, want %v", urgentScore.UrgencyLevel, domain.UrgencyHigh)
	}

	if urgentScore.TotalScore < baseScore.TotalScore {
		t.Errorf("urgent score %v < base score %v", urgentScore.TotalScore, baseScore.TotalScore)
	}
}

func TestScoreKeywordTierBoundaries(t *testing.T) {
	// Neutral phrasing keeps every multiplier inactive so the keyword
	// sum passes through to the total unchanged.
	scorer := NewFallbackScorer(DefaultMultipliers())
	thresholds := domain.DefaultTierThresholds()

	tests := []struct {
		name     string
		content  string
		score    float64
		tier     domain.PriorityTier
		retained bool
	}{
		{"eight is high", "iep autism sel visual supports", 8, domain.TierHigh, true},
		{"six is medium", "iep autism sel", 6, domain.TierMedium, true},
		{"four is low", "iep autism", 4, domain.TierLow, true},
		{"three is discarded", "iep homeschool", 3, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := scorer.Score(tt.content)

			if got.TotalScore != tt.score {
				t.Fatalf("TotalScore = %v, want %v", got.TotalScore, tt.score)
			}

			tier, retained := thresholds.Classify(got.TotalScore)
			if retained != tt.retained {
				t.Fatalf("retained = %v, want %v", retained, tt.retained)
			}

			if retained && tier != tt.tier {
				t.Errorf("tier = %v, want %v", tier, tt.tier)
			}
		})
	}
}

func TestScoreOverlappingTermsBothCount(t *testing.T) {
	// "speech therapy resources" contains "speech therapy", so both
	// table entries match and the phrase is worth 4, not 2.
	scorer := NewFallbackScorer(DefaultMultipliers())

	got := scorer.Score("any speech therapy resources to share?")

	if got.TotalScore != 4 {
		t.Errorf("TotalScore = %v, want 4", got.TotalScore)
	}

	if !containsSubstring(got.KeywordsFound, "speech therapy") {
		t.Errorf("KeywordsFound = %v, missing speech therapy", got.KeywordsFound)
	}

	if !containsSubstring(got.KeywordsFound, "speech therapy resources") {
		t.Errorf("KeywordsFound = %v, missing speech therapy resources", got.KeywordsFound)
	}
}

func TestScoreRepeatedTermCountsOnce(t *testing.T) {
	scorer := NewFallbackScorer(DefaultMultipliers())

	once := scorer.Score("iep")
	thrice := scorer.Score("iep iep iep")

	if once.TotalScore != thrice.TotalScore {
		t.Errorf("repeated term changed score: %v vs %v", once.TotalScore, thrice.TotalScore)
	}
}

func TestScoreCaseFolding(t *testing.T) {
	scorer := NewFallbackScorer(DefaultMultipliers())

	got := scorer.Score("AUTISM and an IEP for my KINDERGARTEN student")

	if !containsSubstring(got.KeywordsFound, "autism") || !containsSubstring(got.KeywordsFound, "iep") {
		t.Errorf("KeywordsFound = %v, want autism and iep despite uppercase input", got.KeywordsFound)
	}

	if !got.AgeRelevance {
		t.Error("AgeRelevance = false, want true for KINDERGARTEN")
	}
}

func TestDetectUserTypeTieBreaksInDeclarationOrder(t *testing.T) {
	scorer := NewFallbackScorer(DefaultMultipliers())

	// One parent phrase and one teacher phrase: parent is declared
	// first so the tie resolves to parent.
	got := scorer.Score("parent teacher conference notes")

	if got.UserType != domain.UserTypeParent {
		t.Errorf("UserType = %v, want %v", got.UserType, domain.UserTypeParent)
	}
}

func TestDetectUserTypeMostMatchesWins(t *testing.T) {
	scorer := NewFallbackScorer(DefaultMultipliers())

	got := scorer.Score("as a teacher my students in my classroom, and also a parent")

	if got.UserType != domain.UserTypeTeacher {
		t.Errorf("UserType = %v, want %v", got.UserType, domain.UserTypeTeacher)
	}
}

func TestScoreCompetitorMentions(t *testing.T) {
	scorer := NewFallbackScorer(DefaultMultipliers())

	got := scorer.Score("we tried Boardmaker and a visual schedule app already")

	if !containsSubstring(got.CompetitiveMentions, "boardmaker") {
		t.Errorf("CompetitiveMentions = %v, want boardmaker", got.CompetitiveMentions)
	}

	if !containsSubstring(got.CompetitiveMentions, "visual schedule app") {
		t.Errorf("CompetitiveMentions = %v, want visual schedule app", got.CompetitiveMentions)
	}
}

func containsSubstring(items []string, substr string) bool {
	for _, item := range items {
		if strings.Contains(item, substr) {
			return true
		}
	}

	return false
}
