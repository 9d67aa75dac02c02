// Package githubapi lists closed pull requests from the GitHub REST API.
// It exposes a lazy, restartable page sequence sorted by most recent
// update; it never retries, and any transport or status failure surfaces
// as a fetch error for the caller to treat as fatal.
package githubapi

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ariel-frischer/relnote/internal/errors"
)

// DefaultBaseURL is the GitHub REST API endpoint.
const DefaultBaseURL = "https://api.github.com"

// DefaultPageSize is the number of records requested per page, the
// provider's maximum.
const DefaultPageSize = 100

// Options configures a Client.
type Options struct {
	// Repo is the "owner/name" slug. Required.
	Repo string
	// BaseBranch filters pull requests by the branch they target.
	// Empty means no base filter.
	BaseBranch string
	// Token is the bearer token. Empty means unauthenticated requests.
	Token string
	// PageSize is the per-page record count (1..100). 0 means DefaultPageSize.
	PageSize int
	// Timeout bounds each page fetch. 0 means no timeout.
	Timeout time.Duration
	// BaseURL overrides the API endpoint, for tests.
	BaseURL string
	// Logger receives request diagnostics. Nil disables them.
	Logger *slog.Logger
}

// Client fetches pages of closed pull requests for one repository.
type Client struct {
	httpClient *http.Client
	baseURL    string
	owner      string
	name       string
	baseBranch string
	token      string
	pageSize   int
	timeout    time.Duration
	logger     *slog.Logger
}

// NewClient validates the options and builds a Client.
func NewClient(opts Options) (*Client, error) {
	parts := strings.Split(strings.TrimSpace(opts.Repo), "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return nil, errors.NewConfigError(
			fmt.Sprintf("invalid repository slug %q, expected owner/name", opts.Repo),
		)
	}

	pageSize := opts.PageSize
	if pageSize == 0 {
		pageSize = DefaultPageSize
	}
	if pageSize < 1 || pageSize > 100 {
		return nil, errors.NewConfigError(
			fmt.Sprintf("page size %d out of range 1..100", pageSize),
		)
	}

	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Client{
		httpClient: &http.Client{},
		baseURL:    strings.TrimRight(baseURL, "/"),
		owner:      parts[0],
		name:       parts[1],
		baseBranch: opts.BaseBranch,
		token:      opts.Token,
		pageSize:   pageSize,
		timeout:    opts.Timeout,
		logger:     logger,
	}, nil
}

// FetchPage returns one page of closed pull requests, most recently updated
// first. Pages are 1-based. An empty slice means the listing is exhausted.
func (c *Client) FetchPage(ctx context.Context, page int) ([]PullRequest, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	endpoint := c.pageURL(page)
	c.logger.Debug("fetching pull requests", "page", page, "url", endpoint)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.Fetch, "creating request")
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if stderrors.Is(err, context.DeadlineExceeded) {
			return nil, errors.Wrap(err, errors.Fetch, fmt.Sprintf("page %d fetch timed out", page))
		}
		return nil, errors.Wrap(err, errors.Fetch, fmt.Sprintf("fetching page %d", page))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.statusError(resp, page)
	}

	var rows []pullRequestJSON
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, errors.Wrap(err, errors.Fetch, fmt.Sprintf("decoding page %d", page))
	}

	records := make([]PullRequest, 0, len(rows))
	for _, row := range rows {
		if row.Number <= 0 {
			// A record without a number cannot be deduplicated or reported.
			return nil, errors.RecordMissingNumber(page)
		}
		records = append(records, row.record())
	}
	return records, nil
}

// pageURL builds the listing URL for one page.
func (c *Client) pageURL(page int) string {
	query := url.Values{}
	query.Set("state", "closed")
	query.Set("sort", "updated")
	query.Set("direction", "desc")
	query.Set("per_page", strconv.Itoa(c.pageSize))
	query.Set("page", strconv.Itoa(page))
	if c.baseBranch != "" {
		query.Set("base", c.baseBranch)
	}
	return fmt.Sprintf("%s/repos/%s/%s/pulls?%s", c.baseURL, c.owner, c.name, query.Encode())
}

// statusError turns a non-200 response into a fetch error with remediation
// hints for the common auth and rate-limit cases.
func (c *Client) statusError(resp *http.Response, page int) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	msg := fmt.Sprintf("page %d: %s returned %d", page, c.owner+"/"+c.name, resp.StatusCode)
	c.logger.Debug("provider error response", "status", resp.StatusCode, "body", string(body))

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return errors.NewFetchError(msg,
			"Set GITHUB_TOKEN to a token with repo read access",
			"Forbidden responses can also mean the rate limit was exhausted",
		)
	case http.StatusNotFound:
		return errors.NewFetchError(msg,
			"Check the repository slug (owner/name)",
			"Private repositories require GITHUB_TOKEN",
		)
	default:
		return errors.NewFetchError(msg)
	}
}
