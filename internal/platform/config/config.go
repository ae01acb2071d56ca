// Package config loads service configuration from the environment and
// the subreddit watchlist from a YAML file.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv string `env:"APP_ENV" envDefault:"local"`

	// Content source
	RedditBaseURL   string        `env:"REDDIT_BASE_URL" envDefault:"https://www.reddit.com"`
	RedditUserAgent string        `env:"REDDIT_USER_AGENT" envDefault:"lead-monitor/1.0"`
	RedditRPM       int           `env:"REDDIT_RPM" envDefault:"60"`
	RedditTimeout   time.Duration `env:"REDDIT_TIMEOUT" envDefault:"30s"`
	PostFetchLimit  int           `env:"POST_FETCH_LIMIT" envDefault:"25"`
	CommentLimit    int           `env:"COMMENT_LIMIT" envDefault:"50"`

	// Primary analyzer. An empty API key disables the primary path and
	// every thread is scored by the deterministic fallback.
	LLMAPIKey string  `env:"LLM_API_KEY"`
	LLMModel  string  `env:"LLM_MODEL" envDefault:"gpt-4o-mini"`
	LLMRPS    float64 `env:"LLM_RPS" envDefault:"1"`

	// Monitoring loop
	PollInterval  time.Duration `env:"POLL_INTERVAL" envDefault:"5m"`
	WatchlistPath string        `env:"WATCHLIST_PATH" envDefault:""`

	// Scoring policy. Composition order of the multipliers is fixed;
	// only the constants are tunable.
	TierLowBound        float64 `env:"TIER_LOW_BOUND" envDefault:"4"`
	TierMediumBound     float64 `env:"TIER_MEDIUM_BOUND" envDefault:"6"`
	TierHighBound       float64 `env:"TIER_HIGH_BOUND" envDefault:"8"`
	ResponseThreshold   float64 `env:"RESPONSE_THRESHOLD" envDefault:"6"`
	MultNegSentiment    float64 `env:"MULT_NEGATIVE_SENTIMENT" envDefault:"1.2"`
	MultAgeRelevance    float64 `env:"MULT_AGE_RELEVANCE" envDefault:"1.1"`
	MultUrgencyHigh     float64 `env:"MULT_URGENCY_HIGH" envDefault:"1.3"`
	MultUrgencyMedium   float64 `env:"MULT_URGENCY_MEDIUM" envDefault:"1.1"`

	// Record store
	StoreBackend string `env:"STORE_BACKEND" envDefault:"file"`
	StoreDir     string `env:"STORE_DIR" envDefault:"./data/threads"`
	PostgresDSN  string `env:"POSTGRES_DSN"`

	// Digest
	DigestHour   int    `env:"DIGEST_HOUR" envDefault:"8"`
	DigestMinute int    `env:"DIGEST_MINUTE" envDefault:"0"`
	Timezone     string `env:"TIMEZONE" envDefault:"Local"`

	// Email delivery
	SMTPHost     string   `env:"SMTP_HOST"`
	SMTPPort     int      `env:"SMTP_PORT" envDefault:"587"`
	SMTPUsername string   `env:"SMTP_USERNAME"`
	SMTPPassword string   `env:"SMTP_PASSWORD"`
	EmailFrom    string   `env:"EMAIL_FROM"`
	EmailTo      []string `env:"EMAIL_TO" envSeparator:","`

	HealthPort int `env:"HEALTH_PORT" envDefault:"8080"`
}

func Load() (*Config, error) {
	_ = godotenv.Load() //nolint:errcheck // .env file is optional, error is expected when not present

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing environment config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.DigestHour < 0 || c.DigestHour > 23 {
		return fmt.Errorf("DIGEST_HOUR %d out of range [0, 23]", c.DigestHour)
	}

	if c.DigestMinute < 0 || c.DigestMinute > 59 {
		return fmt.Errorf("DIGEST_MINUTE %d out of range [0, 59]", c.DigestMinute)
	}

	if !(c.TierLowBound <= c.TierMediumBound && c.TierMediumBound <= c.TierHighBound) {
		return fmt.Errorf("tier bounds must be ordered: low %v <= medium %v <= high %v",
			c.TierLowBound, c.TierMediumBound, c.TierHighBound)
	}

	switch c.StoreBackend {
	case "file", "postgres":
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q (want file or postgres)", c.StoreBackend)
	}

	if c.StoreBackend == "postgres" && c.PostgresDSN == "" {
		return fmt.Errorf("STORE_BACKEND postgres requires POSTGRES_DSN")
	}

	return nil
}

// Location resolves the configured timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("loading timezone %q: %w", c.Timezone, err)
	}

	return loc, nil
}

// EmailEnabled reports whether SMTP delivery is configured.
func (c *Config) EmailEnabled() bool {
	return c.SMTPHost != "" && len(c.EmailTo) > 0
}
