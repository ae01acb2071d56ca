// Package deliver sends the daily digest by email.
package deliver

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/smtp"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/nookly/lead-monitor/internal/core/domain"
	apperrors "github.com/nookly/lead-monitor/internal/core/errors"
)

const excerptLength = 200

// Config holds SMTP delivery settings.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       []string
}

// sendFunc performs the actual SMTP submission; swapped in tests.
type sendFunc func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error

// EmailSender renders the digest to HTML and submits it over SMTP with
// STARTTLS.
type EmailSender struct {
	cfg    Config
	send   sendFunc
	logger *zerolog.Logger
}

// NewEmailSender builds a sender from cfg.
func NewEmailSender(cfg Config, logger *zerolog.Logger) *EmailSender {
	return &EmailSender{cfg: cfg, send: smtp.SendMail, logger: logger}
}

// Send delivers a digest batch. An empty batch is an error so callers
// never pay for a blank email.
func (s *EmailSender) Send(ctx context.Context, batch []domain.ThreadRecord) error {
	if len(batch) == 0 {
		return apperrors.ErrEmptyBatch
	}

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("digest delivery: %w", err)
	}

	body, err := renderDigest(batch)
	if err != nil {
		return fmt.Errorf("rendering digest: %w", err)
	}

	subject := fmt.Sprintf("Daily Digest: %d Relevant Threads - %s", len(batch), time.Now().Format("2006-01-02"))
	msg := s.buildMessage(subject, body)

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)

	if err := s.send(addr, auth, s.cfg.From, s.cfg.To, msg); err != nil {
		return fmt.Errorf("sending digest email: %w", err)
	}

	s.logger.Info().Int("threads", len(batch)).Strs("to", s.cfg.To).Msg("digest email sent")

	return nil
}

func (s *EmailSender) buildMessage(subject, body string) []byte {
	var sb strings.Builder

	sb.WriteString("From: " + s.cfg.From + "\r\n")
	sb.WriteString("To: " + strings.Join(s.cfg.To, ", ") + "\r\n")
	sb.WriteString("Subject: " + subject + "\r\n")
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	sb.WriteString("\r\n")
	sb.WriteString(body)

	return []byte(sb.String())
}

type digestThread struct {
	Title     string
	Subreddit string
	Score     float64
	UserType  string
	Tier      string
	Excerpt   string
	Permalink string
	Response  string
}

var digestTemplate = template.Must(template.New("digest").Parse(`<html>
<head>
<style>
    body { font-family: Arial, sans-serif; line-height: 1.6; }
    .thread { margin-bottom: 20px; padding: 15px; border: 1px solid #ddd; border-radius: 5px; }
    .thread-title { font-size: 18px; font-weight: bold; color: #2c3e50; }
    .thread-meta { color: #7f8c8d; font-size: 14px; margin: 5px 0; }
    .thread-summary { margin: 10px 0; }
    .thread-response { background: #f9f9f9; padding: 10px; border-left: 3px solid #3498db; }
</style>
</head>
<body>
<h1>Daily Digest: Relevant Reddit Threads</h1>
<p>Here are the relevant threads from the past 24 hours:</p>
{{range .}}
<div class="thread">
    <div class="thread-title">{{.Title}}</div>
    <div class="thread-meta">
        Subreddit: r/{{.Subreddit}} |
        Relevance Score: {{printf "%.1f" .Score}} |
        User Type: {{.UserType}} |
        Tier: {{.Tier}}
    </div>
    <div class="thread-summary"><strong>Summary:</strong> {{.Excerpt}}</div>
    {{if .Response}}
    <div class="thread-response"><strong>Drafted Response:</strong><br>{{.Response}}</div>
    {{end}}
    {{if .Permalink}}<a href="https://www.reddit.com{{.Permalink}}">Open thread</a>{{end}}
</div>
{{end}}
</body>
</html>`))

func renderDigest(batch []domain.ThreadRecord) (string, error) {
	threads := make([]digestThread, 0, len(batch))

	for _, record := range batch {
		threads = append(threads, digestThread{
			Title:     record.Post.Title,
			Subreddit: record.Subreddit,
			Score:     record.Assessment.TotalScore,
			UserType:  string(record.Assessment.UserType),
			Tier:      string(record.Tier),
			Excerpt:   excerpt(record.Post.Selftext),
			Permalink: record.Post.Permalink,
			Response:  record.DraftedResponse,
		})
	}

	var buf bytes.Buffer
	if err := digestTemplate.Execute(&buf, threads); err != nil {
		return "", err
	}

	return buf.String(), nil
}

func excerpt(text string) string {
	runes := []rune(text)
	if len(runes) <= excerptLength {
		return text
	}

	return string(runes[:excerptLength]) + "..."
}
