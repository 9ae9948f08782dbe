package digest

import (
	"fmt"
	"io"

	"github.com/ppiankov/moltsignal/internal/signal"
)

// TerminalFormatter formats a digest for terminal output.
type TerminalFormatter struct {
	color bool
}

// NewTerminal creates a terminal formatter. Set color=true for ANSI colors.
func NewTerminal(color bool) *TerminalFormatter {
	return &TerminalFormatter{color: color}
}

// Format writes the ranked posts to w, highest score first.
func (f *TerminalFormatter) Format(w io.Writer, input DigestInput) error {
	header := fmt.Sprintf("moltsignal — %d posts fetched, %d with signal",
		input.TotalPosts, len(input.Items))
	fmt.Fprintln(w, f.bold(header))
	fmt.Fprintln(w)

	if len(input.Items) == 0 {
		fmt.Fprintln(w, "No signal found.")
		return nil
	}

	for _, item := range input.Items {
		f.writeItem(w, item, input.PostURLBase)
	}

	if dropped := input.TotalPosts - len(input.Items); dropped > 0 {
		fmt.Fprintln(w, f.dim(fmt.Sprintf("Filtered: %d posts (noise suppressed)", dropped)))
	}
	return nil
}

func (f *TerminalFormatter) writeItem(w io.Writer, item signal.ScoredPost, base string) {
	by := byline(item)
	if by != "" {
		by = " " + f.dim(by)
	}
	fmt.Fprintf(w, "  %s%s — %s\n", f.green(f.bold(fmt.Sprintf("[%d]", item.Score))), by, title(item))

	if s := Snippet(item.Post.Content, SnippetRunes); s != "" {
		fmt.Fprintf(w, "      %s\n", s)
	}
	if item.Post.URL != "" {
		fmt.Fprintf(w, "      %s\n", f.dim(item.Post.URL))
	}
	if link := postLink(base, item.Post.ID); link != "" {
		fmt.Fprintf(w, "      %s\n", f.dim(link))
	}
	fmt.Fprintln(w)
}

// ANSI helpers, no-op when color=false.

func (f *TerminalFormatter) bold(s string) string {
	if !f.color {
		return s
	}
	return "\033[1m" + s + "\033[0m"
}

func (f *TerminalFormatter) green(s string) string {
	if !f.color {
		return s
	}
	return "\033[32m" + s + "\033[0m"
}

func (f *TerminalFormatter) dim(s string) string {
	if !f.color {
		return s
	}
	return "\033[2m" + s + "\033[0m"
}
