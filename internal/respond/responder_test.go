package respond

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/nookly/lead-monitor/internal/core/domain"
)

type stubCompleter struct {
	reply string
	err   error
}

func (s *stubCompleter) Complete(_ context.Context, _ string) (string, error) {
	return s.reply, s.err
}

func parentRecord(keywords ...string) domain.ThreadRecord {
	return domain.ThreadRecord{
		ThreadID: "abc123",
		Post: domain.Post{
			Title:    "Need help with transitions",
			Selftext: "My child melts down at every transition",
		},
		Assessment: domain.Assessment{
			TotalScore:    7,
			UserType:      domain.UserTypeParent,
			KeywordsFound: keywords,
		},
	}
}

func TestDraftPicksBestVariation(t *testing.T) {
	logger := zerolog.Nop()

	completer := &stubCompleter{reply: `First variation, decent.
Relevance Score: 0.4
Second variation, the strongest one.
Relevance Score: 0.9
Third variation, weak.
Relevance Score: 0.2`}

	responder := New(completer, &logger)

	draft, err := responder.Draft(context.Background(), parentRecord())
	if err != nil {
		t.Fatalf("Draft() error = %v", err)
	}

	if draft != "Second variation, the strongest one." {
		t.Errorf("Draft() = %q, want the 0.9 variation", draft)
	}
}

func TestDraftFallsBackToTemplate(t *testing.T) {
	logger := zerolog.Nop()

	completer := &stubCompleter{err: errors.New("service down")}
	responder := New(completer, &logger)

	draft, err := responder.Draft(context.Background(), parentRecord("autism"))
	if err != nil {
		t.Fatalf("Draft() error = %v", err)
	}

	if !strings.Contains(draft, "autism") {
		t.Errorf("template draft missing issue keyword: %q", draft)
	}

	if !strings.Contains(draft, "Visual Schedule Creator") {
		t.Errorf("template draft missing matched resource: %q", draft)
	}

	if strings.Contains(draft, "{") {
		t.Errorf("template draft has unfilled placeholders: %q", draft)
	}
}

func TestDraftTemplateDefaultsWithoutKeywords(t *testing.T) {
	logger := zerolog.Nop()

	responder := New(nil, &logger)

	draft, err := responder.Draft(context.Background(), parentRecord())
	if err != nil {
		t.Fatalf("Draft() error = %v", err)
	}

	if !strings.Contains(draft, "these challenges") {
		t.Errorf("draft missing default issue wording: %q", draft)
	}
}

func TestDraftNoTemplateForAudience(t *testing.T) {
	logger := zerolog.Nop()

	responder := New(nil, &logger)

	record := parentRecord()
	record.Assessment.UserType = domain.UserTypeAdministrator

	if _, err := responder.Draft(context.Background(), record); err == nil {
		t.Error("Draft() error = nil, want error for audience without template")
	}
}

func TestDraftUnscoredReplyFallsBack(t *testing.T) {
	logger := zerolog.Nop()

	completer := &stubCompleter{reply: "   \n  \n"}
	responder := New(completer, &logger)

	draft, err := responder.Draft(context.Background(), parentRecord("adhd"))
	if err != nil {
		t.Fatalf("Draft() error = %v", err)
	}

	if !strings.Contains(draft, "Nookly") {
		t.Errorf("expected template fallback, got %q", draft)
	}
}

func TestBestVariationTrailingUnscoredText(t *testing.T) {
	best, ok := bestVariation("Only variation without a score line")
	if !ok {
		t.Fatal("bestVariation() ok = false, want true")
	}

	if best != "Only variation without a score line" {
		t.Errorf("bestVariation() = %q", best)
	}
}
