// Package stackexchange collects co-tag distributions from the Stack
// Exchange API. The related-tags endpoint returns the tags that
// co-occur with a queried tag and their question volumes, the
// demand-side counterpart of the repository topic measure.
package stackexchange

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/tidwall/gjson"

	"entrolab/domain/core"
	"entrolab/ports"
)

const (
	defaultBaseURL  = "https://api.stackexchange.com"
	defaultSite     = "stackoverflow"
	defaultPageSize = 100
	defaultTimeout  = 20 * time.Second
)

// Options configures a Client. Zero values fall back to the public API
// querying Stack Overflow.
type Options struct {
	BaseURL  string
	Site     string
	PageSize int
	Timeout  time.Duration
}

// Client implements ports.RelatedTagsReader against the Stack Exchange
// API. No auth; the anonymous quota covers a full run.
type Client struct {
	baseURL    string
	site       string
	pageSize   int
	httpClient *http.Client
}

// New creates a related-tags client.
func New(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultBaseURL
	}
	if opts.Site == "" {
		opts.Site = defaultSite
	}
	if opts.PageSize <= 0 {
		opts.PageSize = defaultPageSize
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	return &Client{
		baseURL:  opts.BaseURL,
		site:     opts.Site,
		pageSize: opts.PageSize,
		httpClient: &http.Client{
			Timeout: opts.Timeout,
		},
	}
}

// RelatedTags returns the co-tags of tag with their question counts.
// The queried tag itself is dropped from the result so downstream
// entropy sees only the co-occurrence distribution.
func (c *Client) RelatedTags(ctx context.Context, tag string) ([]ports.RelatedTag, error) {
	u := fmt.Sprintf("%s/2.3/tags/%s/related?site=%s&pagesize=%d",
		c.baseURL, url.PathEscape(tag), c.site, c.pageSize)

	req, err := http.NewRequestWithContext(ctx, "GET", u, nil)
	if err != nil {
		return nil, fmt.Errorf("build related-tags request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("stackexchange related tags: %w", err)
	}

	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("read related-tags response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, core.NewStatusError("stackexchange related tags", resp.StatusCode)
	}

	var tags []ports.RelatedTag
	for _, item := range gjson.GetBytes(body, "items").Array() {
		name := item.Get("name").String()
		if name == tag {
			continue
		}
		tags = append(tags, ports.RelatedTag{
			Name:          name,
			QuestionCount: int(item.Get("question_count").Int()),
		})
	}
	return tags, nil
}
