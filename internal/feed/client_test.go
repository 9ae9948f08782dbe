package feed

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func clientWithTransport(t *testing.T, rt roundTripFunc, opts ...Option) *Client {
	t.Helper()
	opts = append([]Option{WithHTTPClient(&http.Client{Transport: rt})}, opts...)
	c, err := NewClient("https://molt.test/api/v1", "sk-test", opts...)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c
}

func response(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func TestNewClient_Validation(t *testing.T) {
	if _, err := NewClient("", "key"); err == nil {
		t.Error("expected error for empty base URL")
	}
	if _, err := NewClient("https://molt.test", ""); err == nil {
		t.Error("expected error for empty API key")
	}
	if _, err := NewClient("https://molt.test", "   "); err == nil {
		t.Error("expected error for blank API key")
	}
}

func TestFetch_Request(t *testing.T) {
	calls := 0
	c := clientWithTransport(t, func(r *http.Request) (*http.Response, error) {
		calls++
		if r.Method != http.MethodGet {
			t.Errorf("method = %s, want GET", r.Method)
		}
		if r.URL.Host != "molt.test" || r.URL.Path != "/api/v1/posts" {
			t.Errorf("url = %s, want https://molt.test/api/v1/posts", r.URL)
		}
		if got := r.URL.Query().Get("sort"); got != "new" {
			t.Errorf("sort query = %q, want new", got)
		}
		if got := r.URL.Query().Get("limit"); got != "100" {
			t.Errorf("limit query = %q, want 100", got)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Errorf("authorization = %q, want Bearer sk-test", got)
		}
		if got := r.Header.Get("User-Agent"); got != "moltsignal/test" {
			t.Errorf("user-agent = %q", got)
		}
		return response(http.StatusOK, `{"success":true,"posts":[]}`), nil
	}, WithUserAgent("moltsignal/test"))

	if _, err := c.Fetch(context.Background()); err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestFetch_TrailingSlashBaseURL(t *testing.T) {
	c, err := NewClient("https://molt.test/api/v1/", "sk", WithHTTPClient(&http.Client{
		Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			if r.URL.Path != "/api/v1/posts" {
				t.Errorf("path = %q", r.URL.Path)
			}
			return response(http.StatusOK, `{"posts":[]}`), nil
		}),
	}))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if _, err := c.Fetch(context.Background()); err != nil {
		t.Fatalf("fetch: %v", err)
	}
}

func TestFetch_LimitAndSortOptions(t *testing.T) {
	c := clientWithTransport(t, func(r *http.Request) (*http.Response, error) {
		if got := r.URL.Query().Get("limit"); got != "25" {
			t.Errorf("limit = %q, want 25", got)
		}
		if got := r.URL.Query().Get("sort"); got != "hot" {
			t.Errorf("sort = %q, want hot", got)
		}
		return response(http.StatusOK, `{"posts":[]}`), nil
	}, WithLimit(25), WithSort("hot"))

	if _, err := c.Fetch(context.Background()); err != nil {
		t.Fatalf("fetch: %v", err)
	}
}

func TestNewClient_TimeoutDoesNotTouchSharedClient(t *testing.T) {
	calls := 0
	rt := roundTripFunc(func(_ *http.Request) (*http.Response, error) {
		calls++
		return response(http.StatusOK, `{"posts":[]}`), nil
	})

	orders := map[string]func(*http.Client) []Option{
		"timeout first": func(hc *http.Client) []Option {
			return []Option{WithTimeout(5 * time.Second), WithHTTPClient(hc)}
		},
		"client first": func(hc *http.Client) []Option {
			return []Option{WithHTTPClient(hc), WithTimeout(5 * time.Second)}
		},
	}
	for name, opts := range orders {
		shared := &http.Client{Transport: rt, Timeout: time.Minute}
		c, err := NewClient("https://molt.test/api/v1", "sk", opts(shared)...)
		if err != nil {
			t.Fatalf("%s: new client: %v", name, err)
		}
		if c.client.Timeout != 5*time.Second {
			t.Errorf("%s: timeout = %v, want 5s", name, c.client.Timeout)
		}
		if shared.Timeout != time.Minute {
			t.Errorf("%s: shared client timeout changed to %v", name, shared.Timeout)
		}
		if c.client == shared {
			t.Errorf("%s: client not copied", name)
		}
		if _, err := c.Fetch(context.Background()); err != nil {
			t.Fatalf("%s: fetch: %v", name, err)
		}
	}
	if calls != 2 {
		t.Errorf("transport calls = %d, want 2", calls)
	}
}

func TestNewClient_DefaultTimeout(t *testing.T) {
	c, err := NewClient("https://molt.test", "sk")
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if c.client.Timeout != defaultTimeout {
		t.Errorf("timeout = %v, want %v", c.client.Timeout, defaultTimeout)
	}
	if c.client == http.DefaultClient {
		t.Error("default client must not be shared")
	}

	c, err = NewClient("https://molt.test", "sk", WithHTTPClient(&http.Client{}))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if c.client.Timeout != 0 {
		t.Errorf("timeout = %v, want the given client's 0", c.client.Timeout)
	}
}

func TestFetch_SuccessfulBatch(t *testing.T) {
	body := `{"posts":[
		{"id":"p1","title":"Shipped a scanner","content":"see github.com/x","author":{"name":"alice"},
		 "url":"https://github.com/x","submolt":{"name":"builds"},"comment_count":5,"upvotes":12},
		{"id":"p2","title":"gm","content":null,"author":{"name":"bob"},"comment_count":0}
	]}`
	c := clientWithTransport(t, func(_ *http.Request) (*http.Response, error) {
		return response(http.StatusOK, body), nil
	})

	posts, err := c.Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(posts) != 2 {
		t.Fatalf("got %d posts, want 2", len(posts))
	}

	p := posts[0]
	if p.ID != "p1" || p.Title != "Shipped a scanner" || p.Content != "see github.com/x" {
		t.Errorf("post = %+v", p)
	}
	if p.Author.Name != "alice" {
		t.Errorf("author = %q", p.Author.Name)
	}
	if p.Submolt.Name != "builds" {
		t.Errorf("submolt = %q", p.Submolt.Name)
	}
	if p.CommentCount != 5 {
		t.Errorf("comment_count = %d", p.CommentCount)
	}
	if _, ok := p.Fields["upvotes"]; !ok {
		t.Error("passthrough field upvotes missing")
	}

	if posts[1].Content != "" {
		t.Errorf("null content = %q, want empty", posts[1].Content)
	}
}

func TestFetch_MissingPostsField(t *testing.T) {
	for _, body := range []string{`{}`, `{"success":true}`, `{"posts":null}`, `null`} {
		c := clientWithTransport(t, func(_ *http.Request) (*http.Response, error) {
			return response(http.StatusOK, body), nil
		})

		posts, err := c.Fetch(context.Background())
		if err != nil {
			t.Fatalf("body %s: fetch: %v", body, err)
		}
		if posts == nil || len(posts) != 0 {
			t.Errorf("body %s: posts = %v, want empty non-nil", body, posts)
		}
	}
}

func TestFetch_StatusErrors(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusTooManyRequests, http.StatusServiceUnavailable} {
		c := clientWithTransport(t, func(_ *http.Request) (*http.Response, error) {
			return response(status, `{"error":"nope"}`), nil
		})

		posts, err := c.Fetch(context.Background())
		if err == nil {
			t.Fatalf("status %d: expected error", status)
		}
		if posts != nil {
			t.Errorf("status %d: posts = %v, want nil", status, posts)
		}
		if !errors.Is(err, ErrUnavailable) {
			t.Errorf("status %d: error %v should match ErrUnavailable", status, err)
		}
		if errors.Is(err, ErrMalformed) {
			t.Errorf("status %d: error should not match ErrMalformed", status)
		}

		var se *StatusError
		if !errors.As(err, &se) {
			t.Fatalf("status %d: error %T is not *StatusError", status, err)
		}
		if se.StatusCode != status {
			t.Errorf("status code = %d, want %d", se.StatusCode, status)
		}
	}
}

func TestFetch_503Message(t *testing.T) {
	c := clientWithTransport(t, func(_ *http.Request) (*http.Response, error) {
		return response(http.StatusServiceUnavailable, ""), nil
	})
	_, err := c.Fetch(context.Background())
	if err == nil || err.Error() != "moltbook api error: 503" {
		t.Errorf("error = %v, want moltbook api error: 503", err)
	}
}

func TestFetch_MalformedBodies(t *testing.T) {
	bodies := []string{
		`{{{not json`,
		`[]`,
		`{"posts":"nope"}`,
		`{"posts":[1,2]}`,
		`{"posts":[{"id":"x"},"y"]}`,
		`{"posts":[null]}`,
	}
	for _, body := range bodies {
		c := clientWithTransport(t, func(_ *http.Request) (*http.Response, error) {
			return response(http.StatusOK, body), nil
		})

		_, err := c.Fetch(context.Background())
		if err == nil {
			t.Errorf("body %s: expected error", body)
			continue
		}
		if !errors.Is(err, ErrMalformed) {
			t.Errorf("body %s: error %v should match ErrMalformed", body, err)
		}
		if errors.Is(err, ErrUnavailable) {
			t.Errorf("body %s: error should not match ErrUnavailable", body)
		}
	}
}

func TestFetch_OddFieldTypesKeepBatch(t *testing.T) {
	body := `{"posts":[
		{"id":"a","title":"Shipped a tool","comment_count":1},
		{"id":"b","title":"x","comment_count":3.0},
		{"id":"c","title":42,"comment_count":"7","url":false},
		{"id":"d","content":["list"],"author":"solo","submolt":{"name":7}}
	]}`
	c := clientWithTransport(t, func(_ *http.Request) (*http.Response, error) {
		return response(http.StatusOK, body), nil
	})

	posts, err := c.Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(posts) != 4 {
		t.Fatalf("posts = %d, want 4", len(posts))
	}
	if posts[0].Title != "Shipped a tool" || posts[0].CommentCount != 1 {
		t.Errorf("posts[0] = %+v", posts[0])
	}
	if posts[1].CommentCount != 3 {
		t.Errorf("posts[1].CommentCount = %d, want 3", posts[1].CommentCount)
	}
	if posts[2].Title != "42" || posts[2].CommentCount != 7 || posts[2].URL != "" {
		t.Errorf("posts[2] = %+v", posts[2])
	}
	if posts[3].Content != "" || posts[3].Author.Name != "solo" || posts[3].Submolt.Name != "7" {
		t.Errorf("posts[3] = %+v", posts[3])
	}
}

func TestFetch_TransportError(t *testing.T) {
	c := clientWithTransport(t, func(_ *http.Request) (*http.Response, error) {
		return nil, errors.New("connection reset")
	})

	_, err := c.Fetch(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if errors.Is(err, ErrUnavailable) || errors.Is(err, ErrMalformed) {
		t.Errorf("transport error %v should not be classified", err)
	}
	if !strings.Contains(err.Error(), "connection reset") {
		t.Errorf("error = %v, want wrapped cause", err)
	}
}

func TestFetch_CanceledContext(t *testing.T) {
	c := clientWithTransport(t, func(r *http.Request) (*http.Response, error) {
		return nil, r.Context().Err()
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Fetch(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}
