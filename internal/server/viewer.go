package server

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*.html
var templatesFS embed.FS

const viewerTitle = "Moltbook Signal Filter"

// viewerData holds data for the viewer page template.
type viewerData struct {
	Title        string
	SignalPath   string
	PostURLBase  string
	SnippetRunes int
}

// renderViewer executes the viewer template once. The page is static for
// the lifetime of the server.
func renderViewer(data viewerData) ([]byte, error) {
	tmpl, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "index.html", data); err != nil {
		return nil, fmt.Errorf("execute template %q: %w", "index.html", err)
	}
	return buf.Bytes(), nil
}
