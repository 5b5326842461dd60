// Package npmreg collects package keyword distributions and download
// volumes from the public npm APIs. Keyword search runs against the
// registry search endpoint; download totals come from the separate
// downloads API host. Neither endpoint needs auth.
package npmreg

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
	defaultRegistryURL  = "https://registry.npmjs.org"
	defaultDownloadsURL = "https://api.npmjs.org"
	defaultTimeout      = 20 * time.Second
	defaultPause        = 500 * time.Millisecond

	// searchWindow is the largest page the registry search endpoint
	// serves in one response.
	searchWindow = 250
)

// Options configures a Client. Zero values fall back to the public npm
// hosts; tests point both URLs at httptest servers.
type Options struct {
	RegistryURL  string
	DownloadsURL string
	Timeout      time.Duration
	Pause        time.Duration
}

// Client implements ports.KeywordSearcher and ports.DownloadsReader
// against the npm registry and downloads APIs.
type Client struct {
	registryURL  string
	downloadsURL string
	pause        time.Duration
	window       int
	httpClient   *http.Client

	sleep func(time.Duration)
}

// New creates an npm API client.
func New(opts Options) *Client {
	if opts.RegistryURL == "" {
		opts.RegistryURL = defaultRegistryURL
	}
	if opts.DownloadsURL == "" {
		opts.DownloadsURL = defaultDownloadsURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.Pause <= 0 {
		opts.Pause = defaultPause
	}
	return &Client{
		registryURL:  opts.RegistryURL,
		downloadsURL: opts.DownloadsURL,
		pause:        opts.Pause,
		window:       searchWindow,
		httpClient: &http.Client{
			Timeout: opts.Timeout,
		},
		sleep: time.Sleep,
	}
}

// SearchPackages pages through /-/v1/search for packages matching
// keyword, up to max packages. Keywords come back verbatim; callers own
// normalization and exclusion of the query keyword itself.
func (c *Client) SearchPackages(ctx context.Context, keyword string, max int) ([]ports.Package, error) {
	var collected []ports.Package
	offset := 0

	for len(collected) < max {
		size := c.window
		if remaining := max - len(collected); remaining < size {
			size = remaining
		}

		u := fmt.Sprintf("%s/-/v1/search?text=%s&size=%d&from=%d",
			c.registryURL, url.QueryEscape("keywords:"+keyword), size, offset)
		body, err := c.get(ctx, u, "npm search")
		if err != nil {
			return nil, err
		}

		objects := gjson.GetBytes(body, "objects").Array()
		if len(objects) == 0 {
			break
		}
		for _, obj := range objects {
			pkg := ports.Package{Name: obj.Get("package.name").String()}
			for _, kw := range obj.Get("package.keywords").Array() {
				pkg.Keywords = append(pkg.Keywords, kw.String())
			}
			collected = append(collected, pkg)
		}

		offset += len(objects)
		if len(objects) < size {
			break
		}
		c.sleep(c.pause)
	}

	return collected, nil
}

// AnnualDownloads returns the total downloads for pkg over year, summed
// from the downloads API's range buckets. Scoped names keep their
// slash: the endpoint expects /downloads/range/{window}/@scope/name
// unescaped.
func (c *Client) AnnualDownloads(ctx context.Context, pkg string, year int) (int64, error) {
	u := fmt.Sprintf("%s/downloads/range/%d-01-01:%d-12-31/%s",
		c.downloadsURL, year, year, pkg)
	body, err := c.get(ctx, u, "npm downloads")
	if err != nil {
		return 0, err
	}

	var total int64
	for _, bucket := range gjson.GetBytes(body, "downloads").Array() {
		total += bucket.Get("downloads").Int()
	}
	return total, nil
}

// get performs one GET and returns the body. Any non-200 becomes a
// bad-status error; there is no retry, the npm hosts do not throttle at
// this request rate.
func (c *Client) get(ctx context.Context, u, api string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", u, nil)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", api, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", api, err)
	}

	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", api, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, core.NewStatusError(api, resp.StatusCode)
	}
	return body, nil
}
