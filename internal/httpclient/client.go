// Package httpclient provides the transport layer for every scraper:
// a browser-like native HTTP fetcher, an external-process fallback, and
// a composing try-primary-then-fallback policy. All three satisfy the
// same Fetcher interface so each can be tested and swapped in isolation.
package httpclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"
)

// Request is one HTTP call. A non-nil Form turns the request into a
// form-encoded POST body. Header entries override the default header set.
type Request struct {
	Method  string
	URL     string
	Header  map[string]string
	Form    url.Values
	Timeout time.Duration
}

// Response carries the raw body of a completed call.
type Response struct {
	StatusCode int
	Body       []byte
}

// Fetcher is the transport capability shared by the native HTTP client
// and the external-process fallback.
type Fetcher interface {
	Do(ctx context.Context, req *Request) (*Response, error)
}

// StatusError is returned for any non-2xx response. Transport problems
// surface as wrapped errors instead; neither escapes this boundary as a
// panic.
type StatusError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d from %s", e.StatusCode, e.URL)
}

// defaultHeaders is the realistic browser fingerprint sent on every
// request. Several targets reject obviously non-browser clients.
func defaultHeaders(userAgent string) map[string]string {
	return map[string]string{
		"User-Agent":                userAgent,
		"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
		"Accept-Language":           "tr-TR,tr;q=0.9,en-US;q=0.8,en;q=0.7",
		"Referer":                   "https://www.google.com/",
		"Upgrade-Insecure-Requests": "1",
	}
}

// Client is the native HTTP implementation of Fetcher.
type Client struct {
	httpClient *http.Client
	userAgent  string
	limiter    *rate.Limiter
	logger     arbor.ILogger
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithUserAgent overrides the default browser user agent.
func WithUserAgent(userAgent string) ClientOption {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithHTTPClient sets a custom underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithLogger sets a logger.
func WithLogger(logger arbor.ILogger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit applies a politeness limit across scrape targets.
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		if requestsPerSecond > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
		}
	}
}

// NewClient creates a Fetcher backed by net/http.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{
			Timeout: 20 * time.Second, // outer bound; per-request timeouts are usually tighter
		},
		userAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Do performs one request and returns the raw body. Non-2xx statuses
// yield a *StatusError so callers can branch on the failure class.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter interrupted: %w", err)
		}
	}

	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	if req.Form != nil {
		body = strings.NewReader(req.Form.Encode())
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, req.URL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for k, v := range defaultHeaders(c.userAgent) {
		httpReq.Header.Set(k, v)
	}
	if req.Form != nil {
		httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for k, v := range req.Header {
		httpReq.Header.Set(k, v)
	}

	if c.logger != nil {
		c.logger.Debug().Str("method", method).Str("url", req.URL).Msg("HTTP request")
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", req.URL, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response from %s: %w", req.URL, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{
			StatusCode: resp.StatusCode,
			URL:        req.URL,
			Body:       truncate(string(data), 512),
		}
	}

	return &Response{StatusCode: resp.StatusCode, Body: data}, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
