package digest

import (
	"encoding/json"
	"io"

	"github.com/ppiankov/moltsignal/internal/signal"
)

// JSONFormatter writes the ranked posts as a JSON array, the same shape the
// HTTP endpoint serves.
type JSONFormatter struct{}

// NewJSON creates a JSON formatter.
func NewJSON() *JSONFormatter {
	return &JSONFormatter{}
}

// Format writes the digest as JSON to w.
func (f *JSONFormatter) Format(w io.Writer, input DigestInput) error {
	items := input.Items
	if items == nil {
		items = []signal.ScoredPost{}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(items)
}
