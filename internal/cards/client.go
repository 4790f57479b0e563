package cards

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	DefaultGitHubAPI = "https://api.github.com"
	DefaultGiteeAPI  = "https://gitee.com/api/v5"

	// DefaultFetchTimeout bounds a single metadata request.
	DefaultFetchTimeout = 10 * time.Second

	// maxPayloadBytes caps how much of an API response is read.
	maxPayloadBytes = 1 << 20
)

// Client fetches repository and user metadata from the platform APIs.
type Client struct {
	httpClient  *http.Client
	githubBase  string
	giteeBase   string
	githubToken string
	userAgent   string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the HTTP client used for API calls.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

// WithAPIBases overrides the GitHub and Gitee API roots. Empty values keep
// the defaults.
func WithAPIBases(github, gitee string) ClientOption {
	return func(c *Client) {
		if github != "" {
			c.githubBase = strings.TrimRight(github, "/")
		}
		if gitee != "" {
			c.giteeBase = strings.TrimRight(gitee, "/")
		}
	}
}

// WithGitHubToken authenticates GitHub requests, lifting the anonymous
// rate limit.
func WithGitHubToken(token string) ClientOption {
	return func(c *Client) { c.githubToken = token }
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.httpClient = &http.Client{Timeout: d}
		}
	}
}

// NewClient creates a metadata client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultFetchTimeout},
		githubBase: DefaultGitHubAPI,
		giteeBase:  DefaultGiteeAPI,
		userAgent:  "textend-cards",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoint returns the API address for a marker's entity.
func (c *Client) Endpoint(m Marker) string {
	base := c.githubBase
	if m.Platform == Gitee {
		base = c.giteeBase
	}
	if m.Kind == KindRepository {
		return base + "/repos/" + url.PathEscape(m.Owner) + "/" + url.PathEscape(m.Repo)
	}
	return base + "/users/" + url.PathEscape(m.Owner)
}

// Fetch returns the raw JSON payload for the marker's entity.
func (c *Client) Fetch(ctx context.Context, m Marker) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.Endpoint(m), nil)
	if err != nil {
		return nil, fmt.Errorf("%s request: %w", m.Platform, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if m.Platform == GitHub && c.githubToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.githubToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s http: %w", m.Platform, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPayloadBytes))
	if err != nil {
		return nil, fmt.Errorf("%s read body: %w", m.Platform, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s API error (status %d): %s", m.Platform, resp.StatusCode, string(body))
	}
	return body, nil
}
