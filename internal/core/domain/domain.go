// Package domain defines the core value objects of the lead monitor:
// posts and comments fetched from Reddit, the relevance assessment
// produced for a thread, and the priority tier derived from its score.
package domain

import (
	"strings"
	"time"
)

// UserType classifies who is asking for help in a thread.
type UserType string

// Known user types. Unrecognized input always resolves to UserTypeOther.
const (
	UserTypeParent        UserType = "parent"
	UserTypeTeacher       UserType = "teacher"
	UserTypeTherapist     UserType = "therapist"
	UserTypeAdministrator UserType = "administrator"
	UserTypeOther         UserType = "other"
)

// userTypeSynonyms maps free-text variants to canonical user types.
var userTypeSynonyms = map[string]UserType{
	"educator":     UserTypeTeacher,
	"admin":        UserTypeAdministrator,
	"principal":    UserTypeAdministrator,
	"slp":          UserTypeTherapist,
	"ot":           UserTypeTherapist,
	"speech":       UserTypeTherapist,
	"occupational": UserTypeTherapist,
}

// NormalizeUserType maps free text to a canonical UserType.
// Plural forms are singularized and known synonyms are applied before
// matching. Unresolved input maps to UserTypeOther, never an error.
func NormalizeUserType(raw string) UserType {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return UserTypeOther
	}

	s = strings.TrimSuffix(s, "s")

	if t, ok := userTypeSynonyms[s]; ok {
		return t
	}

	switch UserType(s) {
	case UserTypeParent, UserTypeTeacher, UserTypeTherapist, UserTypeAdministrator:
		return UserType(s)
	}

	return UserTypeOther
}

// UrgencyLevel grades how time-sensitive a thread is.
type UrgencyLevel string

// Urgency levels, lowest to highest.
const (
	UrgencyLow    UrgencyLevel = "low"
	UrgencyMedium UrgencyLevel = "medium"
	UrgencyHigh   UrgencyLevel = "high"
)

// NormalizeUrgency maps free text to an UrgencyLevel, defaulting to low.
func NormalizeUrgency(raw string) UrgencyLevel {
	switch UrgencyLevel(strings.ToLower(strings.TrimSpace(raw))) {
	case UrgencyHigh:
		return UrgencyHigh
	case UrgencyMedium:
		return UrgencyMedium
	default:
		return UrgencyLow
	}
}

// Assessment is the structured relevance judgment for one thread.
// It is immutable once produced; TotalScore is always within [0, 10].
type Assessment struct {
	TotalScore          float64      `json:"total_score"`
	UserType            UserType     `json:"user_type"`
	PainPoints          []string     `json:"pain_points,omitempty"`
	KeywordsFound       []string     `json:"keywords_found,omitempty"`
	SentimentScore      float64      `json:"sentiment_score"`
	AgeRelevance        bool         `json:"age_relevance"`
	UrgencyLevel        UrgencyLevel `json:"urgency_level"`
	CompetitiveMentions []string     `json:"competitive_mentions,omitempty"`
}

// PriorityTier buckets assessments by score.
type PriorityTier string

// Priority tiers. Threads scoring below the low boundary have no tier
// and are discarded.
const (
	TierLow    PriorityTier = "low"
	TierMedium PriorityTier = "medium"
	TierHigh   PriorityTier = "high"
)

// Tiers lists all tiers from highest to lowest priority.
func Tiers() []PriorityTier {
	return []PriorityTier{TierHigh, TierMedium, TierLow}
}

// TierThresholds holds the inclusive lower score bounds per tier.
type TierThresholds struct {
	Low    float64
	Medium float64
	High   float64
}

// DefaultTierThresholds returns the standard 4/6/8 boundaries.
func DefaultTierThresholds() TierThresholds {
	return TierThresholds{Low: 4, Medium: 6, High: 8}
}

// Classify maps a score to its tier. The second return value is false
// when the score falls below the low boundary and the thread should be
// discarded. Boundaries are inclusive: a score exactly on a bound
// classifies into the higher tier.
func (t TierThresholds) Classify(score float64) (PriorityTier, bool) {
	switch {
	case score >= t.High:
		return TierHigh, true
	case score >= t.Medium:
		return TierMedium, true
	case score >= t.Low:
		return TierLow, true
	default:
		return "", false
	}
}

// Post is a submission fetched from the content source.
type Post struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Author      string `json:"author"`
	Selftext    string `json:"selftext,omitempty"`
	URL         string `json:"url,omitempty"`
	Permalink   string `json:"permalink"`
	Score       int    `json:"score"`
	NumComments int    `json:"num_comments"`
	CreatedUTC  int64  `json:"created_utc"`
}

// Comment is a single comment under a post.
type Comment struct {
	ID          string `json:"id"`
	Author      string `json:"author"`
	Body        string `json:"body"`
	Score       int    `json:"score"`
	Permalink   string `json:"permalink,omitempty"`
	IsSubmitter bool   `json:"is_submitter"`
	CreatedUTC  int64  `json:"created_utc"`
}

// SubredditInfo carries subreddit metadata from the content source.
type SubredditInfo struct {
	Name        string `json:"name"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Subscribers int    `json:"subscribers"`
	Over18      bool   `json:"over_18"`
	CreatedUTC  int64  `json:"created_utc"`
}

// ThreadRecord ties a monitored thread to its assessment and tier.
// A record is created once a thread clears the dedup gate and is never
// mutated after it has been persisted.
type ThreadRecord struct {
	ID              string       `json:"id"`
	ThreadID        string       `json:"thread_id"`
	Subreddit       string       `json:"subreddit"`
	Post            Post         `json:"post"`
	Comments        []Comment    `json:"comments,omitempty"`
	Assessment      Assessment   `json:"assessment"`
	Tier            PriorityTier `json:"tier"`
	ObservedAt      time.Time    `json:"observed_at"`
	DraftedResponse string       `json:"drafted_response,omitempty"`
}
