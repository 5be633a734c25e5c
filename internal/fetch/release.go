package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"
)

// DefaultIndexTimeout bounds the release index request.
const DefaultIndexTimeout = 30 * time.Second

var (
	ErrReleaseIndex = errors.New("release index request failed")
	ErrRateLimited  = errors.New("rate limited by GitHub API")
)

// ReleaseClient queries the GitHub releases API for one repository.
type ReleaseClient struct {
	apiBase    string
	repo       string
	token      string
	userAgent  string
	httpClient *http.Client
}

// ReleaseClientOption configures a ReleaseClient.
type ReleaseClientOption func(*ReleaseClient)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) ReleaseClientOption {
	return func(c *ReleaseClient) {
		c.httpClient = client
	}
}

// NewReleaseClient creates a client for repo ("owner/name") against apiBase.
// GITHUB_TOKEN, when set, is sent as a bearer token.
func NewReleaseClient(apiBase, repo string, opts ...ReleaseClientOption) *ReleaseClient {
	c := &ReleaseClient{
		apiBase:   strings.TrimRight(apiBase, "/"),
		repo:      repo,
		token:     os.Getenv("GITHUB_TOKEN"),
		userAgent: DefaultUserAgent,
		httpClient: &http.Client{
			Timeout: DefaultIndexTimeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Latest fetches the latest published release.
func (c *ReleaseClient) Latest(ctx context.Context) (*Release, error) {
	url := fmt.Sprintf("%s/repos/%s/releases/latest", c.apiBase, c.repo)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", c.userAgent)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReleaseIndex, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if isRateLimited(resp) {
		return nil, ErrRateLimited
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrReleaseIndex, resp.StatusCode)
	}

	var release Release
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return nil, fmt.Errorf("decode release: %w", err)
	}
	if release.TagName == "" {
		return nil, fmt.Errorf("%w: release has no tag name", ErrReleaseIndex)
	}

	return &release, nil
}

// isRateLimited distinguishes GitHub's rate limit responses from other 403s,
// such as a token without access to the repository.
func isRateLimited(resp *http.Response) bool {
	switch resp.StatusCode {
	case http.StatusTooManyRequests:
		return true
	case http.StatusForbidden:
		return resp.Header.Get("X-RateLimit-Remaining") == "0"
	default:
		return false
	}
}
