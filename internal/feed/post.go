package feed

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"math"
	"strconv"
	"strings"
)

// Post is a single record from the Moltbook posts listing.
//
// Typed fields are the ones scoring and rendering need. Fields keeps every
// key of the original record so the post can be re-serialized unchanged.
type Post struct {
	ID           string
	Title        string
	Content      string
	Author       Author
	URL          string
	Submolt      Submolt
	CommentCount int

	Fields map[string]json.RawMessage
}

// Author is the posting agent.
type Author struct {
	Name string `json:"name"`
}

// Submolt is the community a post belongs to.
type Submolt struct {
	Name string `json:"name"`
}

// UnmarshalJSON decodes a post leniently. Only a post that is not a JSON
// object is an error. Text fields accept strings or numbers, anything else
// reads as empty. comment_count accepts numbers or numeric strings and is
// never negative.
func (p *Post) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	if fields == nil {
		return fmt.Errorf("post is null")
	}

	*p = Post{
		ID:           looseText(fields["id"]),
		Title:        looseText(fields["title"]),
		Content:      looseText(fields["content"]),
		Author:       Author{Name: nameOf(fields["author"])},
		URL:          stringOnly(fields["url"]),
		Submolt:      Submolt{Name: nameOf(fields["submolt"])},
		CommentCount: looseCount(fields["comment_count"]),
		Fields:       fields,
	}
	return nil
}

// MarshalJSON writes the original record when one is present, otherwise the
// typed fields.
func (p Post) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.fieldMap())
}

// WithField returns the post's JSON object with one extra key set. The
// receiver's Fields map is not modified.
func (p Post) WithField(key string, value any) ([]byte, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", key, err)
	}
	fields := p.fieldMap()
	fields[key] = raw
	return json.Marshal(fields)
}

func (p Post) fieldMap() map[string]json.RawMessage {
	if p.Fields != nil {
		return maps.Clone(p.Fields)
	}

	fields := make(map[string]json.RawMessage, 7)
	set := func(key string, v any) {
		raw, _ := json.Marshal(v)
		fields[key] = raw
	}
	set("id", p.ID)
	set("title", p.Title)
	if p.Content != "" {
		set("content", p.Content)
	}
	set("author", p.Author)
	if p.URL != "" {
		set("url", p.URL)
	}
	if p.Submolt.Name != "" {
		set("submolt", p.Submolt)
	}
	set("comment_count", p.CommentCount)
	return fields
}

// looseText returns a JSON string's value or a JSON number's literal text.
func looseText(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}
	if raw[0] == '"' {
		return stringOnly(raw)
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return ""
	}
	return n.String()
}

func stringOnly(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

// nameOf reads {"name": ...} or a bare string.
func nameOf(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}
	if raw[0] == '"' {
		return stringOnly(raw)
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return ""
	}
	return looseText(obj["name"])
}

// looseCount truncates fractional counts; negative or unreadable counts are 0.
func looseCount(raw json.RawMessage) int {
	text := strings.TrimSpace(looseText(raw))
	if text == "" {
		return 0
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(f) || f <= 0 {
		return 0
	}
	if f > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(f)
}
