// Package reddit fetches posts, comments, and subreddit metadata from
// the public Reddit JSON API. All calls go through a shared blocking
// rate limiter and a circuit breaker so a degraded API slows the
// monitor down instead of failing the whole cycle.
package reddit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/nookly/lead-monitor/internal/core/domain"
	apperrors "github.com/nookly/lead-monitor/internal/core/errors"
	"github.com/nookly/lead-monitor/internal/platform/observability"
)

const (
	breakerMaxRequests = 3
	breakerInterval    = 60 * time.Second
	breakerTimeout     = 30 * time.Second

	breakerConsecutiveFailures = 5
	breakerMinRequests         = 10
	breakerFailureRatio        = 0.6

	rateLimiterBurst = 5
)

// Config holds the client settings.
type Config struct {
	BaseURL   string
	UserAgent string
	// RequestsPerMinute caps the call budget against the API.
	RequestsPerMinute int
	Timeout           time.Duration
}

// Client talks to the Reddit JSON API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	limiter    *rate.Limiter
	cb         *gobreaker.CircuitBreaker
	logger     *zerolog.Logger
}

// NewClient builds a Reddit client from cfg.
func NewClient(cfg Config, logger *zerolog.Logger) *Client {
	if cfg.RequestsPerMinute <= 0 {
		cfg.RequestsPerMinute = 60
	}

	cbSettings := gobreaker.Settings{
		Name:        "reddit-api",
		MaxRequests: breakerMaxRequests,
		Interval:    breakerInterval,
		Timeout:     breakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.ConsecutiveFailures > breakerConsecutiveFailures ||
				(counts.Requests >= breakerMinRequests && failureRatio >= breakerFailureRatio)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state changed")
		},
	}

	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    cfg.BaseURL,
		userAgent:  cfg.UserAgent,
		limiter:    rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RequestsPerMinute)), rateLimiterBurst),
		cb:         gobreaker.NewCircuitBreaker(cbSettings),
		logger:     logger,
	}
}

// FetchNewPosts returns up to limit newest posts of a subreddit.
func (c *Client) FetchNewPosts(ctx context.Context, subreddit string, limit int) ([]domain.Post, error) {
	body, err := c.get(ctx, fmt.Sprintf("/r/%s/new.json", url.PathEscape(subreddit)), limit)
	if err != nil {
		return nil, fmt.Errorf("fetching new posts of r/%s: %w", subreddit, err)
	}

	var envelope thing
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("decoding r/%s listing: %w", subreddit, err)
	}

	posts, err := decodePosts(envelope)
	if err != nil {
		return nil, fmt.Errorf("decoding r/%s posts: %w", subreddit, err)
	}

	observability.PostsFetched.WithLabelValues(subreddit).Add(float64(len(posts)))

	return posts, nil
}

// FetchComments returns up to limit comments under a post. Nested
// replies and "load more" stubs are skipped; the top-level comments are
// enough signal for assessment.
func (c *Client) FetchComments(ctx context.Context, subreddit, postID string, limit int) ([]domain.Comment, error) {
	path := fmt.Sprintf("/r/%s/comments/%s.json", url.PathEscape(subreddit), url.PathEscape(postID))

	body, err := c.get(ctx, path, limit)
	if err != nil {
		return nil, fmt.Errorf("fetching comments of %s: %w", postID, err)
	}

	// The comments endpoint returns a two-element array: the post
	// listing, then the comment tree.
	var envelopes []thing
	if err := json.Unmarshal(body, &envelopes); err != nil {
		return nil, fmt.Errorf("decoding comment envelope of %s: %w", postID, err)
	}

	if len(envelopes) < 2 {
		return nil, fmt.Errorf("%w: comment envelope of %s has %d listings", apperrors.ErrMalformedThread, postID, len(envelopes))
	}

	comments, err := decodeComments(envelopes[1])
	if err != nil {
		return nil, fmt.Errorf("decoding comments of %s: %w", postID, err)
	}

	return comments, nil
}

// FetchSubredditInfo returns metadata about a subreddit.
func (c *Client) FetchSubredditInfo(ctx context.Context, subreddit string) (domain.SubredditInfo, error) {
	body, err := c.get(ctx, fmt.Sprintf("/r/%s/about.json", url.PathEscape(subreddit)), 0)
	if err != nil {
		return domain.SubredditInfo{}, fmt.Errorf("fetching info of r/%s: %w", subreddit, err)
	}

	var envelope thing
	if err := json.Unmarshal(body, &envelope); err != nil {
		return domain.SubredditInfo{}, fmt.Errorf("decoding r/%s info: %w", subreddit, err)
	}

	if envelope.Kind != kindSubreddit {
		return domain.SubredditInfo{}, fmt.Errorf("%w: r/%s info has kind %q", apperrors.ErrMalformedThread, subreddit, envelope.Kind)
	}

	var data subredditData
	if err := json.Unmarshal(envelope.Data, &data); err != nil {
		return domain.SubredditInfo{}, fmt.Errorf("decoding r/%s info data: %w", subreddit, err)
	}

	return domain.SubredditInfo{
		Name:        data.DisplayName,
		Title:       data.Title,
		Description: data.PublicDescription,
		Subscribers: data.Subscribers,
		Over18:      data.Over18,
		CreatedUTC:  int64(data.CreatedUTC),
	}, nil
}

// get performs a rate-limited GET through the circuit breaker and
// returns the response body.
func (c *Client) get(ctx context.Context, path string, limit int) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	endpoint := c.baseURL + path
	if limit > 0 {
		endpoint += fmt.Sprintf("?limit=%d", limit)
	}

	result, err := c.cb.Execute(func() (interface{}, error) {
		return c.do(ctx, endpoint)
	})

	var nce *nonCircuitError
	if errors.As(err, &nce) {
		return nil, nce.err
	}

	if err != nil {
		return nil, err
	}

	return result.([]byte), nil
}

func (c *Client) do(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &nonCircuitError{err: fmt.Errorf("building request: %w", err)}
	}

	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("performing request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		// Missing subreddits are a caller problem, not API health.
		return nil, &nonCircuitError{err: apperrors.ErrNotFound}
	case http.StatusTooManyRequests:
		return nil, apperrors.ErrRateLimited
	default:
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	return body, nil
}

func decodePosts(envelope thing) ([]domain.Post, error) {
	var listing listingData
	if err := json.Unmarshal(envelope.Data, &listing); err != nil {
		return nil, err
	}

	posts := make([]domain.Post, 0, len(listing.Children))

	for _, child := range listing.Children {
		if child.Kind != kindPost {
			continue
		}

		var data postData
		if err := json.Unmarshal(child.Data, &data); err != nil {
			return nil, err
		}

		posts = append(posts, domain.Post{
			ID:          data.ID,
			Title:       data.Title,
			Author:      data.Author,
			Selftext:    data.Selftext,
			URL:         data.URL,
			Permalink:   data.Permalink,
			Score:       data.Score,
			NumComments: data.NumComments,
			CreatedUTC:  int64(data.CreatedUTC),
		})
	}

	return posts, nil
}

func decodeComments(envelope thing) ([]domain.Comment, error) {
	var listing listingData
	if err := json.Unmarshal(envelope.Data, &listing); err != nil {
		return nil, err
	}

	comments := make([]domain.Comment, 0, len(listing.Children))

	for _, child := range listing.Children {
		if child.Kind != kindComment {
			continue
		}

		var data commentData
		if err := json.Unmarshal(child.Data, &data); err != nil {
			return nil, err
		}

		comments = append(comments, domain.Comment{
			ID:          data.ID,
			Author:      data.Author,
			Body:        data.Body,
			Score:       data.Score,
			Permalink:   data.Permalink,
			IsSubmitter: data.IsSubmitter,
			CreatedUTC:  int64(data.CreatedUTC),
		})
	}

	return comments, nil
}

// nonCircuitError wraps errors that should not trip the circuit breaker.
type nonCircuitError struct {
	err error
}

func (e *nonCircuitError) Error() string {
	return e.err.Error()
}

func (e *nonCircuitError) Unwrap() error {
	return e.err
}
