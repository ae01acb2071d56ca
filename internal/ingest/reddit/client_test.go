package reddit

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	apperrors "github.com/nookly/lead-monitor/internal/core/errors"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	logger := zerolog.Nop()

	return NewClient(Config{
		BaseURL:           srv.URL,
		UserAgent:         "lead-monitor-test/1.0",
		RequestsPerMinute: 6000,
		Timeout:           5 * time.Second,
	}, &logger), srv
}

func TestFetchNewPosts(t *testing.T) {
	var gotUserAgent string

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserAgent = r.Header.Get("User-Agent")

		if r.URL.Path != "/r/autism/new.json" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}

		if r.URL.Query().Get("limit") != "25" {
			t.Errorf("unexpected limit %q", r.URL.Query().Get("limit"))
		}

		_, _ = w.Write([]byte(`{
			"kind": "Listing",
			"data": {
				"children": [
					{"kind": "t3", "data": {
						"id": "abc123",
						"title": "Visual schedule recommendations?",
						"author": "tiredparent",
						"selftext": "Looking for help with transitions",
						"permalink": "/r/autism/comments/abc123/",
						"score": 12,
						"num_comments": 4,
						"created_utc": 1740000000.0
					}},
					{"kind": "t5", "data": {}}
				]
			}
		}`))
	}))

	posts, err := client.FetchNewPosts(context.Background(), "autism", 25)
	if err != nil {
		t.Fatalf("FetchNewPosts() error = %v", err)
	}

	if gotUserAgent != "lead-monitor-test/1.0" {
		t.Errorf("User-Agent = %q, want lead-monitor-test/1.0", gotUserAgent)
	}

	if len(posts) != 1 {
		t.Fatalf("got %d posts, want 1 (non-t3 children skipped)", len(posts))
	}

	post := posts[0]
	if post.ID != "abc123" || post.Title != "Visual schedule recommendations?" {
		t.Errorf("unexpected post %+v", post)
	}

	if post.CreatedUTC != 1740000000 {
		t.Errorf("CreatedUTC = %d, want 1740000000", post.CreatedUTC)
	}
}

func TestFetchComments(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/r/autism/comments/abc123.json" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}

		_, _ = w.Write([]byte(`[
			{"kind": "Listing", "data": {"children": [{"kind": "t3", "data": {"id": "abc123"}}]}},
			{"kind": "Listing", "data": {"children": [
				{"kind": "t1", "data": {
					"id": "c1",
					"author": "helper",
					"body": "Have you tried a printed schedule?",
					"score": 3,
					"is_submitter": false,
					"created_utc": 1740000100.0
				}},
				{"kind": "more", "data": {}}
			]}}
		]`))
	}))

	comments, err := client.FetchComments(context.Background(), "autism", "abc123", 50)
	if err != nil {
		t.Fatalf("FetchComments() error = %v", err)
	}

	if len(comments) != 1 {
		t.Fatalf("got %d comments, want 1 (more stubs skipped)", len(comments))
	}

	if comments[0].Body != "Have you tried a printed schedule?" {
		t.Errorf("unexpected comment %+v", comments[0])
	}
}

func TestFetchCommentsMalformedEnvelope(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"kind": "Listing", "data": {"children": []}}]`))
	}))

	_, err := client.FetchComments(context.Background(), "autism", "abc123", 50)
	if !errors.Is(err, apperrors.ErrMalformedThread) {
		t.Errorf("error = %v, want ErrMalformedThread", err)
	}
}

func TestFetchSubredditInfo(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{
			"kind": "t5",
			"data": {
				"display_name": "autism",
				"title": "Autism community",
				"public_description": "A community for autistic people and families",
				"subscribers": 250000,
				"over18": false,
				"created_utc": 1210000000.0
			}
		}`))
	}))

	info, err := client.FetchSubredditInfo(context.Background(), "autism")
	if err != nil {
		t.Fatalf("FetchSubredditInfo() error = %v", err)
	}

	if info.Name != "autism" || info.Subscribers != 250000 {
		t.Errorf("unexpected info %+v", info)
	}
}

func TestGetNotFound(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	_, err := client.FetchNewPosts(context.Background(), "doesnotexist", 25)
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestGetRateLimited(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))

	_, err := client.FetchNewPosts(context.Background(), "autism", 25)
	if !errors.Is(err, apperrors.ErrRateLimited) {
		t.Errorf("error = %v, want ErrRateLimited", err)
	}
}
