package fabric

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	DefaultSearchPath = "/api/find-fabrics"
	DefaultLookupPath = "/api/get-all-info"
)

// Options configures a Client.
type Options struct {
	BaseURL    string
	SearchPath string
	LookupPath string
	Token      string
	UserAgent  string
	Timeout    time.Duration
	Metrics    *Metrics
	// Base overrides the underlying RoundTripper (tests).
	Base http.RoundTripper
}

// Client talks to the fabric metadata service.
type Client struct {
	http       *http.Client
	base       *url.URL
	searchPath string
	lookupPath string
	metrics    *Metrics
}

func New(opts Options) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parsing base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", opts.BaseURL)
	}
	if opts.SearchPath == "" {
		opts.SearchPath = DefaultSearchPath
	}
	if opts.LookupPath == "" {
		opts.LookupPath = DefaultLookupPath
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	if opts.Metrics == nil {
		opts.Metrics = NewMetrics()
	}
	tr := &Transport{
		Base:      opts.Base,
		Metrics:   opts.Metrics,
		UserAgent: opts.UserAgent,
		Token:     opts.Token,
	}
	return &Client{
		http:       &http.Client{Timeout: opts.Timeout, Transport: tr},
		base:       base,
		searchPath: opts.SearchPath,
		lookupPath: opts.LookupPath,
		metrics:    opts.Metrics,
	}, nil
}

// MetricsSnapshot returns the current HTTP counters.
func (c *Client) MetricsSnapshot() MetricsSnapshot { return c.metrics.Snapshot() }

// ResolveURL turns service-relative paths ("/static/...") into absolute URLs.
// Absolute URLs are returned unchanged.
func (c *Client) ResolveURL(raw string) string {
	raw = strings.TrimSpace(raw)
	ref, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	if ref.IsAbs() {
		return raw
	}
	return c.base.ResolveReference(ref).String()
}

func (c *Client) endpoint(path string, q url.Values) string {
	u := *c.base
	u.Path = strings.TrimRight(c.base.Path, "/") + "/" + strings.TrimLeft(path, "/")
	u.RawQuery = q.Encode()
	return u.String()
}

// ---------- Search / Lookup ----------

// Search queries the multi-result endpoint with a (possibly partial) term.
func (c *Client) Search(ctx context.Context, term string) ([]Record, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, errors.New("search term empty")
	}
	var out []Record
	if err := c.getJSON(ctx, "fabrics.search", c.endpoint(c.searchPath, url.Values{"search": {term}}), &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []Record{}
	}
	return out, nil
}

// Lookup fetches the single record for an exact reference code.
func (c *Client) Lookup(ctx context.Context, ref string) (Record, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return Record{}, errors.New("ref empty")
	}
	var out lookupRecord
	if err := c.getJSON(ctx, "fabrics.lookup", c.endpoint(c.lookupPath, url.Values{"ref": {ref}}), &out); err != nil {
		return Record{}, err
	}
	return out.record(ref), nil
}

func (c *Client) getJSON(ctx context.Context, op, u string, into any) error {
	res, err := c.get(ctx, op, u, "application/json")
	if err != nil {
		return err
	}
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("%s: reading body: %w", op, err)
	}
	c.metrics.AddBytes(int64(len(body)))
	if err := json.Unmarshal(body, into); err != nil {
		return fmt.Errorf("%s: %w: %v", op, ErrMalformed, err)
	}
	return nil
}

// get issues a GET and converts non-2xx responses into *APIError.
func (c *Client) get(ctx context.Context, op, u, accept string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: building request: %w", op, err)
	}
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	res, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("%s: %w", op, ctxErr)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		defer res.Body.Close()
		return nil, &APIError{StatusCode: res.StatusCode, Message: readErrorMessage(res.Body), Op: op}
	}
	return res, nil
}

// readErrorMessage extracts {"error": "..."} from an error body.
func readErrorMessage(r io.Reader) string {
	body, err := io.ReadAll(io.LimitReader(r, 64*1024))
	if err != nil || len(body) == 0 {
		return ""
	}
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		return ""
	}
	return strings.TrimSpace(eb.Error)
}
