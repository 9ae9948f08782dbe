// Package digest renders a ranked signal feed for the command line.
package digest

import (
	"io"
	"strings"

	"github.com/ppiankov/moltsignal/internal/signal"
)

// SnippetRunes is how much post content a digest entry shows.
const SnippetRunes = 150

// DigestInput is the full input for a digest formatter.
type DigestInput struct {
	Items       []signal.ScoredPost
	TotalPosts  int    // posts fetched before filtering
	PostURLBase string // prefix for post links, e.g. https://www.moltbook.com/post/
}

// Formatter writes a formatted digest to w.
type Formatter interface {
	Format(w io.Writer, input DigestInput) error
}

// Snippet collapses whitespace in s and returns its first n runes, with
// "..." appended when s was cut.
func Snippet(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	if n <= 0 || s == "" {
		return ""
	}
	count := 0
	for i := range s {
		if count == n {
			return strings.TrimSpace(s[:i]) + "..."
		}
		count++
	}
	return s
}

func postLink(base, id string) string {
	if base == "" || id == "" {
		return ""
	}
	return base + id
}

func byline(sp signal.ScoredPost) string {
	var parts []string
	if name := sp.Post.Author.Name; name != "" {
		parts = append(parts, "@"+name)
	}
	if sub := sp.Post.Submolt.Name; sub != "" {
		parts = append(parts, "m/"+sub)
	}
	return strings.Join(parts, " in ")
}

func title(sp signal.ScoredPost) string {
	if t := strings.TrimSpace(sp.Post.Title); t != "" {
		return t
	}
	return "(untitled)"
}
