// Package github collects repository topic distributions from the
// GitHub search API. A search query selects an ecosystem (topic: and
// stars: qualifiers, optionally a created: window) and the topics
// carried by the matching repositories feed the entropy estimators.
package github

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/tidwall/gjson"

	"entrolab/domain/core"
	"entrolab/domain/panel"
	"entrolab/ports"
)

const (
	defaultBaseURL  = "https://api.github.com"
	defaultPerPage  = 100
	defaultMaxPages = 5
	defaultTimeout  = 30 * time.Second
	defaultPause    = 700 * time.Millisecond
)

// Options configures a Client. Zero values fall back to the public API
// defaults; tests point BaseURL at an httptest server and stub the
// sleep hook.
type Options struct {
	BaseURL  string
	Token    string
	PerPage  int
	MaxPages int
	Timeout  time.Duration
	Pause    time.Duration
}

// Client implements ports.TopicSearcher against the GitHub search API.
type Client struct {
	baseURL    string
	token      string
	perPage    int
	maxPages   int
	pause      time.Duration
	httpClient *http.Client

	// sleep is swapped out in tests so throttled retries don't stall them.
	sleep func(time.Duration)
}

// New creates a search client. An empty token is allowed; unauthenticated
// requests just hit the lower rate limit.
func New(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultBaseURL
	}
	if opts.PerPage <= 0 {
		opts.PerPage = defaultPerPage
	}
	if opts.MaxPages <= 0 {
		opts.MaxPages = defaultMaxPages
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.Pause <= 0 {
		opts.Pause = defaultPause
	}
	return &Client{
		baseURL:  opts.BaseURL,
		token:    opts.Token,
		perPage:  opts.PerPage,
		maxPages: opts.MaxPages,
		pause:    opts.Pause,
		httpClient: &http.Client{
			Timeout: opts.Timeout,
		},
		sleep: time.Sleep,
	}
}

// SearchRepos pages through /search/repositories for query, sorted by
// stars descending, up to the page cap. A throttled response (403/429)
// is retried once after waiting out X-RateLimit-Reset; a second throttle
// aborts the search with core.ErrRateLimited rather than returning a
// silently truncated sample.
func (c *Client) SearchRepos(ctx context.Context, query string) ([]ports.Repo, error) {
	var collected []ports.Repo
	retried := false
	page := 1

	for page <= c.maxPages {
		req, err := c.searchRequest(ctx, query, page)
		if err != nil {
			return nil, fmt.Errorf("build search request: %w", err)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("github search: %w", err)
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("read search response: %w", err)
		}

		if resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusTooManyRequests {
			if retried {
				return nil, fmt.Errorf("%w: github search throttled twice for %q", core.ErrRateLimited, query)
			}
			retried = true
			c.sleep(resetWait(resp.Header, time.Now()))
			continue
		}
		if resp.StatusCode != http.StatusOK {
			return nil, core.NewStatusError("github search", resp.StatusCode)
		}

		items := gjson.GetBytes(body, "items").Array()
		for _, item := range items {
			repo := ports.Repo{
				FullName: item.Get("full_name").String(),
				Stars:    int(item.Get("stargazers_count").Int()),
			}
			for _, t := range item.Get("topics").Array() {
				repo.Topics = append(repo.Topics, t.String())
			}
			collected = append(collected, repo)
		}

		if len(items) < c.perPage {
			break
		}
		page++
		c.sleep(c.pause)
	}

	return collected, nil
}

// searchRequest builds one page request with the search qualifiers and
// auth headers the API expects.
func (c *Client) searchRequest(ctx context.Context, query string, page int) (*http.Request, error) {
	u := fmt.Sprintf("%s/search/repositories?q=%s&per_page=%d&page=%d&sort=stars&order=desc",
		c.baseURL, url.QueryEscape(query), c.perPage, page)

	req, err := http.NewRequestWithContext(ctx, "GET", u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

// resetWait converts the X-RateLimit-Reset header (unix seconds) into a
// sleep duration, floored at 5s. Without the header it assumes the
// usual one-minute search window.
func resetWait(h http.Header, now time.Time) time.Duration {
	reset := now.Add(65 * time.Second)
	if v := h.Get("X-RateLimit-Reset"); v != "" {
		if sec, err := strconv.ParseInt(v, 10, 64); err == nil {
			reset = time.Unix(sec, 0)
		}
	}
	wait := reset.Sub(now)
	if wait < 5*time.Second {
		wait = 5 * time.Second
	}
	return wait
}

// MonthQuery appends a created: window covering one calendar month to a
// base ecosystem query.
func MonthQuery(base string, m panel.Month) string {
	return fmt.Sprintf("%s created:%s..%s", base, m.FirstDay(), m.LastDay())
}

// YearQuery appends a created: window covering one calendar year.
func YearQuery(base string, year int) string {
	return fmt.Sprintf("%s created:%d-01-01..%d-12-31", base, year, year)
}
