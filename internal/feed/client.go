// Package feed fetches the newest posts from the Moltbook API.
package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultLimit     = 100
	defaultSort      = "new"
	defaultUserAgent = "moltsignal/dev"
	maxResponseBytes = 8 << 20
)

// Fetcher returns one batch of posts.
type Fetcher interface {
	Fetch(ctx context.Context) ([]Post, error)
}

// Client fetches posts from the Moltbook posts listing endpoint.
type Client struct {
	baseURL   string
	apiKey    string
	limit     int
	sort      string
	userAgent string
	timeout   time.Duration
	client    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client requests are sent with. The client
// is copied, so later options never modify it.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.client = hc
		}
	}
}

// WithTimeout sets the per-request timeout. It applies whether or not
// WithHTTPClient is also given, in any order.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLimit sets the requested page size.
func WithLimit(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.limit = n
		}
	}
}

// WithSort sets the requested ordering.
func WithSort(s string) Option {
	return func(c *Client) {
		if s != "" {
			c.sort = s
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// NewClient creates a feed client. baseURL is the API root, e.g.
// https://www.moltbook.com/api/v1.
func NewClient(baseURL, apiKey string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("feed: base URL is required")
	}
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("feed: API key is required")
	}

	c := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		apiKey:    apiKey,
		limit:     defaultLimit,
		sort:      defaultSort,
		userAgent: defaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}

	hc := http.Client{Timeout: defaultTimeout}
	if c.client != nil {
		hc = *c.client
	}
	if c.timeout > 0 {
		hc.Timeout = c.timeout
	}
	c.client = &hc
	return c, nil
}

// Fetch requests the newest posts. It makes exactly one request and does
// not retry.
func (c *Client) Fetch(ctx context.Context) ([]Post, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.postsURL(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch posts: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return nil, &StatusError{StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read posts: %w", err)
	}

	return decodeListing(body)
}

func (c *Client) postsURL() string {
	q := url.Values{}
	q.Set("sort", c.sort)
	q.Set("limit", strconv.Itoa(c.limit))
	return c.baseURL + "/posts?" + q.Encode()
}

func decodeListing(body []byte) ([]Post, error) {
	var listing struct {
		Posts []Post `json:"posts"`
	}
	if err := json.Unmarshal(body, &listing); err != nil {
		return nil, &malformedError{err: err}
	}
	if listing.Posts == nil {
		return []Post{}, nil
	}
	return listing.Posts, nil
}
