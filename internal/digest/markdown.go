package digest

import (
	"fmt"
	"io"
	"strings"

	"github.com/ppiankov/moltsignal/internal/signal"
)

// MarkdownFormatter formats a digest as Markdown.
type MarkdownFormatter struct{}

// NewMarkdown creates a Markdown formatter.
func NewMarkdown() *MarkdownFormatter {
	return &MarkdownFormatter{}
}

// Format writes the digest as Markdown to w.
func (f *MarkdownFormatter) Format(w io.Writer, input DigestInput) error {
	fmt.Fprintf(w, "# moltsignal digest\n\n")
	fmt.Fprintf(w, "%d posts fetched, %d with signal\n\n", input.TotalPosts, len(input.Items))

	if len(input.Items) == 0 {
		fmt.Fprintln(w, "No signal found.")
		return nil
	}

	for _, item := range input.Items {
		f.writeItem(w, item, input.PostURLBase)
	}
	return nil
}

func (f *MarkdownFormatter) writeItem(w io.Writer, item signal.ScoredPost, base string) {
	fmt.Fprintf(w, "### [%d] %s\n\n", item.Score, title(item))

	if by := byline(item); by != "" {
		fmt.Fprintf(w, "_%s_\n\n", by)
	}
	if s := Snippet(item.Post.Content, SnippetRunes); s != "" {
		fmt.Fprintf(w, "> %s\n\n", s)
	}
	var links []string
	if item.Post.URL != "" {
		links = append(links, fmt.Sprintf("[Link](%s)", item.Post.URL))
	}
	if link := postLink(base, item.Post.ID); link != "" {
		links = append(links, fmt.Sprintf("[View](%s)", link))
	}
	if len(links) > 0 {
		fmt.Fprintf(w, "%s\n\n", strings.Join(links, " · "))
	}
}
