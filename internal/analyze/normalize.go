package analyze

import "strings"

// NormalizeThread merges a post body and its comment bodies into a
// single space-joined blob for assessment. No filtering or truncation
// happens here; any length limit belongs to the analyzer that consumes
// the blob.
func NormalizeThread(post string, comments []string) string {
	if len(comments) == 0 {
		return post
	}

	parts := make([]string, 0, len(comments)+1)
	parts = append(parts, post)
	parts = append(parts, comments...)

	return strings.Join(parts, " ")
}
