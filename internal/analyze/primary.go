package analyze

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/nookly/lead-monitor/internal/core/domain"
)

// Completer is the minimal surface of the generative-text service used
// for assessment.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

const assessmentPromptHeader = `You evaluate a discussion thread for relevance to Nookly, an educational
platform for children ages 2-8 focused on personalized learning,
social-emotional skills, and special needs support.

Reply with EXACTLY one line per field, labels as shown, any order:
SCORE: <relevance 0-10>
TYPE: <parent|teacher|therapist|administrator|other>
PAIN: <comma-separated pain point fragments, empty if none>
KEYWORDS: <comma-separated matched keywords>
SENTIMENT: <-1 to 1>
AGE: <true|false, does it concern children ages 2-8>
URGENCY: <low|medium|high>
COMPETITORS: <comma-separated competitor products mentioned>

Thread content:
`

// PrimaryAnalyzer delegates assessment to a generative-text service and
// decodes its labeled reply. Transport errors and replies without a
// parseable score surface as errors so the arbiter can fall back.
type PrimaryAnalyzer struct {
	completer Completer
	logger    *zerolog.Logger
}

// NewPrimaryAnalyzer builds an analyzer over the given completer.
func NewPrimaryAnalyzer(completer Completer, logger *zerolog.Logger) *PrimaryAnalyzer {
	return &PrimaryAnalyzer{completer: completer, logger: logger}
}

// Assess sends the content blob for evaluation and parses the reply.
func (a *PrimaryAnalyzer) Assess(ctx context.Context, content string) (domain.Assessment, error) {
	reply, err := a.completer.Complete(ctx, buildAssessmentPrompt(content))
	if err != nil {
		return domain.Assessment{}, fmt.Errorf("analyzer completion: %w", err)
	}

	assessment, err := parseAssessment(reply)
	if err != nil {
		return domain.Assessment{}, err
	}

	return assessment, nil
}

func buildAssessmentPrompt(content string) string {
	var sb strings.Builder

	sb.WriteString(assessmentPromptHeader)
	sb.WriteString(content)

	return sb.String()
}
