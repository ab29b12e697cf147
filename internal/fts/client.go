// Package fts talks to the rentalcars full-text search (FTS) autocomplete endpoint.
package fts

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/oakwood-commons/pickup/internal/place"
	"github.com/oakwood-commons/pickup/pkg/logger"

	json "github.com/goccy/go-json"
	"github.com/hashicorp/go-cleanhttp"
)

const (
	// DefaultEndpoint is the URL template; {index}, {rows} and {query} are substituted per request.
	DefaultEndpoint = "https://www.rentalcars.com/FTSAutocomplete.do?solrIndex={index}&solrRows={rows}&solrTerm={query}"
	DefaultIndex    = "fts_en"
	DefaultRows     = 6

	maxBodyBytes = 4 << 20
)

// ErrStatus is returned (wrapped) when the endpoint answers with a non-2xx status.
var ErrStatus = errors.New("fts: unexpected status")

// Response is the decoded result of one search request.
type Response struct {
	Query    string         `json:"query" yaml:"query"`
	Docs     []place.Record `json:"docs" yaml:"docs"`
	NumFound int            `json:"numFound" yaml:"numFound"`
}

// Searcher resolves a query into place records.
type Searcher interface {
	Search(ctx context.Context, query string) (*Response, error)
}

// Options configures a Client. Zero values fall back to the defaults above.
type Options struct {
	Endpoint   string
	Index      string
	Rows       int
	HTTPClient *http.Client
}

// Client is the HTTP implementation of Searcher.
type Client struct {
	endpoint string
	index    string
	rows     int
	http     *http.Client
}

var _ Searcher = (*Client)(nil)

// NewClient builds a Client from opts.
func NewClient(opts Options) *Client {
	c := &Client{
		endpoint: opts.Endpoint,
		index:    opts.Index,
		rows:     opts.Rows,
		http:     opts.HTTPClient,
	}
	if c.endpoint == "" {
		c.endpoint = DefaultEndpoint
	}
	if c.index == "" {
		c.index = DefaultIndex
	}
	if c.rows <= 0 {
		c.rows = DefaultRows
	}
	if c.http == nil {
		c.http = cleanhttp.DefaultPooledClient()
	}
	return c
}

// URL returns the request URL for query. The query is inserted as typed;
// only characters that would make the URL unparseable are percent-encoded.
func (c *Client) URL(query string) string {
	return strings.NewReplacer(
		"{index}", escapeTerm(c.index),
		"{rows}", strconv.Itoa(c.rows),
		"{query}", escapeTerm(query),
	).Replace(c.endpoint)
}

type wireResponse struct {
	Results struct {
		Docs     []place.Record `json:"docs"`
		NumFound int            `json:"numFound"`
	} `json:"results"`
}

// Search performs one GET request for query. Transport failures and non-2xx
// statuses are errors; an empty or undecodable body yields zero results.
func (c *Client) Search(ctx context.Context, query string) (*Response, error) {
	lgr := logger.WithValues(logger.FromContext(ctx), logger.QueryKey, query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL(query), nil)
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return nil, fmt.Errorf("%w: %d", ErrStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read search response: %w", err)
	}

	out := &Response{Query: query, Docs: []place.Record{}}
	if len(strings.TrimSpace(string(body))) == 0 {
		lgr.V(1).Info("empty search response body")
		return out, nil
	}

	var wire wireResponse
	if err := json.Unmarshal(body, &wire); err != nil {
		lgr.V(1).Info("undecodable search response", "error", err.Error())
		return out, nil
	}
	if wire.Results.Docs != nil {
		out.Docs = wire.Results.Docs
	}
	out.NumFound = wire.Results.NumFound
	lgr.V(1).Info("search complete", "docs", len(out.Docs))
	return out, nil
}

const upperhex = "0123456789ABCDEF"

// escapeTerm percent-encodes control bytes, non-ASCII bytes and the handful of
// ASCII characters that cannot appear literally in a URL. Everything else,
// including '&' and '=', is passed through.
func escapeTerm(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if needsEscape(ch) {
			b.WriteByte('%')
			b.WriteByte(upperhex[ch>>4])
			b.WriteByte(upperhex[ch&0x0f])
			continue
		}
		b.WriteByte(ch)
	}
	return b.String()
}

func needsEscape(ch byte) bool {
	if ch <= 0x20 || ch >= 0x7f {
		return true
	}
	switch ch {
	case '"', '#', '%', '<', '>', '\\', '^', '`', '{', '|', '}':
		return true
	}
	return false
}
