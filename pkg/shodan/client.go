// Package shodan is a minimal client for the Shodan host search API.
package shodan

import (
	"context"
	"errors"
	"net/url"
	"strconv"

	"github.com/go-resty/resty/v2"
	"github.com/rotisserie/eris"
)

const (
	// DefaultBaseURL is the public REST endpoint.
	DefaultBaseURL = "https://api.shodan.io"
	// PageSize is the number of matches the API returns per search page.
	PageSize = 100

	searchPath = "/shodan/host/search"
	userAgent  = "ipcammap/1.0"
)

// Client issues search requests against the host search endpoint.
type Client struct {
	http   *resty.Client
	apiKey string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at a different API host.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.http.SetBaseURL(baseURL)
	}
}

// New returns a client authenticated with apiKey.
func New(apiKey string, opts ...Option) *Client {
	r := resty.New()
	r.SetBaseURL(DefaultBaseURL)
	r.SetHeader("Accept", "application/json")
	r.SetHeader("User-Agent", userAgent)

	c := &Client{http: r, apiKey: apiKey}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Search returns up to limit matches for query, walking result pages until
// the limit is reached or a short page signals the end of the results.
func (c *Client) Search(ctx context.Context, query string, limit int) (*SearchResult, error) {
	out := &SearchResult{}
	if limit <= 0 {
		return out, nil
	}

	for page := 1; len(out.Matches) < limit; page++ {
		res, err := c.searchPage(ctx, query, page)
		if err != nil {
			return nil, err
		}
		out.Total = res.Total
		out.Matches = append(out.Matches, res.Matches...)
		if len(res.Matches) < PageSize {
			break
		}
	}

	if len(out.Matches) > limit {
		out.Matches = out.Matches[:limit]
	}
	return out, nil
}

func (c *Client) searchPage(ctx context.Context, query string, page int) (*SearchResult, error) {
	var result SearchResult
	var apiErr APIError

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"key":   c.apiKey,
			"query": query,
			"page":  strconv.Itoa(page),
		}).
		SetResult(&result).
		SetError(&apiErr).
		Get(searchPath)
	if err != nil {
		return nil, eris.Wrapf(redactKey(err), "shodan: search %q page %d", query, page)
	}

	if resp.IsError() {
		msg := apiErr.Message
		if msg == "" {
			msg = resp.Status()
		}
		return nil, eris.Errorf("shodan: search %q page %d: %d %s", query, page, resp.StatusCode(), msg)
	}

	return &result, nil
}

// redactKey strips the query string from transport errors so the API key
// never reaches the logs.
func redactKey(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		if u, parseErr := url.Parse(urlErr.URL); parseErr == nil {
			u.RawQuery = ""
			return &url.Error{Op: urlErr.Op, URL: u.String(), Err: urlErr.Err}
		}
	}
	return err
}
