package deliver

import (
	"context"
	"errors"
	"net/smtp"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/nookly/lead-monitor/internal/core/domain"
	apperrors "github.com/nookly/lead-monitor/internal/core/errors"
)

func digestRecord(title string) domain.ThreadRecord {
	return domain.ThreadRecord{
		ID:        "rec-1",
		ThreadID:  "abc123",
		Subreddit: "autism",
		Post: domain.Post{
			Title:     title,
			Selftext:  strings.Repeat("long body ", 40),
			Permalink: "/r/autism/comments/abc123/",
		},
		Assessment: domain.Assessment{
			TotalScore:   8.2,
			UserType:     domain.UserTypeParent,
			UrgencyLevel: domain.UrgencyMedium,
		},
		Tier:            domain.TierHigh,
		ObservedAt:      time.Now(),
		DraftedResponse: "Here is a helpful reply.",
	}
}

func TestSendBuildsDigestEmail(t *testing.T) {
	logger := zerolog.Nop()

	var (
		gotAddr string
		gotFrom string
		gotTo   []string
		gotMsg  []byte
	)

	sender := NewEmailSender(Config{
		Host: "smtp.example.com",
		Port: 587,
		From: "digest@example.com",
		To:   []string{"founder@example.com"},
	}, &logger)

	sender.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, msg
		return nil
	}

	err := sender.Send(context.Background(), []domain.ThreadRecord{digestRecord("Visual schedule help")})
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	if gotAddr != "smtp.example.com:587" {
		t.Errorf("addr = %q", gotAddr)
	}

	if gotFrom != "digest@example.com" || len(gotTo) != 1 {
		t.Errorf("from = %q, to = %v", gotFrom, gotTo)
	}

	body := string(gotMsg)

	for _, want := range []string{
		"Subject: Daily Digest: 1 Relevant Threads",
		"Visual schedule help",
		"r/autism",
		"Here is a helpful reply.",
		"Content-Type: text/html",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("message missing %q", want)
		}
	}
}

func TestSendEmptyBatch(t *testing.T) {
	logger := zerolog.Nop()
	sender := NewEmailSender(Config{Host: "smtp.example.com"}, &logger)

	err := sender.Send(context.Background(), nil)
	if !errors.Is(err, apperrors.ErrEmptyBatch) {
		t.Errorf("Send(nil) error = %v, want ErrEmptyBatch", err)
	}
}

func TestSendPropagatesSMTPFailure(t *testing.T) {
	logger := zerolog.Nop()
	sender := NewEmailSender(Config{Host: "smtp.example.com"}, &logger)
	sender.send = func(string, smtp.Auth, string, []string, []byte) error {
		return errors.New("connection refused")
	}

	err := sender.Send(context.Background(), []domain.ThreadRecord{digestRecord("x")})
	if err == nil {
		t.Error("Send() error = nil, want smtp failure")
	}
}

func TestRenderDigestEscapesHTML(t *testing.T) {
	body, err := renderDigest([]domain.ThreadRecord{digestRecord("<script>alert(1)</script>")})
	if err != nil {
		t.Fatalf("renderDigest() error = %v", err)
	}

	if strings.Contains(body, "<script>") {
		t.Error("digest body contains unescaped HTML")
	}
}

func TestExcerptTruncates(t *testing.T) {
	long := strings.Repeat("a", 300)

	got := excerpt(long)
	if len([]rune(got)) != excerptLength+3 {
		t.Errorf("excerpt length = %d, want %d", len([]rune(got)), excerptLength+3)
	}

	if excerpt("short") != "short" {
		t.Errorf("short text should pass through")
	}
}
