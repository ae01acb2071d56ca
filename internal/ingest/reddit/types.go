package reddit

import "encoding/json"

// Reddit listing envelope: every response wraps payloads in kinded
// "things". Posts are t3, comments t1, subreddits t5; unknown kinds
// (like "more" comment stubs) are skipped.
const (
	kindPost      = "t3"
	kindComment   = "t1"
	kindSubreddit = "t5"
)

type thing struct {
	Kind string          `json:"kind"`
	Data json.RawMessage `json:"data"`
}

type listingData struct {
	Children []thing `json:"children"`
	After    string  `json:"after"`
}

type postData struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Author      string  `json:"author"`
	Selftext    string  `json:"selftext"`
	URL         string  `json:"url"`
	Permalink   string  `json:"permalink"`
	Score       int     `json:"score"`
	NumComments int     `json:"num_comments"`
	CreatedUTC  float64 `json:"created_utc"`
}

type commentData struct {
	ID          string  `json:"id"`
	Author      string  `json:"author"`
	Body        string  `json:"body"`
	Score       int     `json:"score"`
	Permalink   string  `json:"permalink"`
	IsSubmitter bool    `json:"is_submitter"`
	CreatedUTC  float64 `json:"created_utc"`
}

type subredditData struct {
	DisplayName       string  `json:"display_name"`
	Title             string  `json:"title"`
	PublicDescription string  `json:"public_description"`
	Subscribers       int     `json:"subscribers"`
	Over18            bool    `json:"over18"`
	CreatedUTC        float64 `json:"created_utc"`
}
