package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"userdir/internal/metrics"
)

// Searcher runs one search against a directory backend.
type Searcher interface {
	Search(ctx context.Context, req Request) (Response, error)
}

// Option configures a Client.
type Option interface {
	apply(*Client)
}

type optionFunc func(*Client)

func (f optionFunc) apply(c *Client) { f(c) }

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return optionFunc(func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	})
}

// WithSearchPath overrides the search endpoint path.
func WithSearchPath(path string) Option {
	return optionFunc(func(c *Client) {
		if path != "" {
			c.searchPath = path
		}
	})
}

// WithTimeout sets a per-request timeout. Zero means none.
func WithTimeout(d time.Duration) Option {
	return optionFunc(func(c *Client) {
		c.timeout = d
	})
}

// WithLogger enables debug logging of completed and failed searches.
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(c *Client) {
		if l != nil {
			c.logger = l
		}
	})
}

// WithMetrics records search counts and durations.
func WithMetrics(m *metrics.Search) Option {
	return optionFunc(func(c *Client) {
		c.metrics = m
	})
}

// Client talks to the directory API over HTTP.
type Client struct {
	baseURL    string
	searchPath string
	timeout    time.Duration
	http       *http.Client
	logger     *zap.Logger
	metrics    *metrics.Search
}

var _ Searcher = (*Client)(nil)

// NewClient creates a Client for the API rooted at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		searchPath: DefaultSearchPath,
		http:       http.DefaultClient,
		logger:     zap.NewNop(),
	}
	for _, o := range opts {
		o.apply(c)
	}
	return c
}

// Search issues GET {base}{path}?q=..&limit=..&skip=..[&city=..].
func (c *Client) Search(ctx context.Context, req Request) (resp Response, err error) {
	start := time.Now()
	defer func() { c.observe(req, start, err) }()

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	target := req.URL(c.baseURL, c.searchPath)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, target, http.NoBody)
	if err != nil {
		return Response{}, fmt.Errorf("build search request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if req.ID != "" {
		httpReq.Header.Set("X-Request-ID", req.ID)
	}

	res, err := c.http.Do(httpReq)
	if err != nil {
		return Response{}, fmt.Errorf("search %s: %w", target, err)
	}
	defer res.Body.Close()

	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return Response{}, &StatusError{Code: res.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
		return Response{}, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return resp, nil
}

func (c *Client) observe(req Request, start time.Time, err error) {
	dur := time.Since(start)
	c.metrics.Observe(err, dur)

	if err != nil {
		c.logger.Debug("search failed",
			zap.String("request_id", req.ID),
			zap.Duration("duration", dur),
			zap.Error(err),
		)
		return
	}
	c.logger.Debug("search completed",
		zap.String("request_id", req.ID),
		zap.String("query", req.Encode()),
		zap.Duration("duration", dur),
	)
}
