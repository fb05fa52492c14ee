// Package httpclient issues single timed HTTP requests and normalizes their
// results. It deliberately carries no retry policy; retries, if any, belong
// to the caller.
package httpclient

import (
	"context"
	"io"
	"net/http"
	"time"
)

// DefaultTimeout is the request deadline used when no timeout is configured.
const DefaultTimeout = 30 * time.Second

// Client represents an HTTP client with customizable options
type Client struct {
	httpClient *http.Client
	baseURL    string
	headers    map[string]string
	timeout    time.Duration
}

// ClientOption is a function that configures a Client
type ClientOption func(*Client)

// NewClient creates a new HTTP client with the given options
func NewClient(options ...ClientOption) *Client {
	client := &Client{
		httpClient: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        1000,
				MaxIdleConnsPerHost: 100,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		headers: make(map[string]string),
		timeout: DefaultTimeout,
	}

	for _, option := range options {
		option(client)
	}

	return client
}

// WithBaseURL sets the base URL for the client
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithTimeout sets the default timeout for requests issued by the client
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithHeader adds a header applied to every request
func WithHeader(key, value string) ClientOption {
	return func(c *Client) {
		c.headers[key] = value
	}
}

// WithTransport replaces the underlying transport. Used by tests.
func WithTransport(rt http.RoundTripper) ClientOption {
	return func(c *Client) {
		c.httpClient.Transport = rt
	}
}

// BaseURL returns the base URL the client was configured with
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do executes an HTTP request and returns the normalized response.
//
// The deadline is enforced through the passed context: if ctx carries no
// deadline, the client's configured timeout is applied. A deadline expiry
// is reported as *TimeoutError, any other transport failure as
// *NetworkError. HTTP error statuses are not errors at this layer.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	httpReq, err := req.Build(c.baseURL)
	if err != nil {
		return nil, err
	}

	for key, value := range c.headers {
		httpReq.Header.Set(key, value)
	}

	// limit records the effective deadline for error reporting: the
	// caller's, if its context carries one, else the client's.
	limit := c.timeout
	if d, ok := ctx.Deadline(); ok {
		limit = time.Until(d)
	} else if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	httpReq = httpReq.WithContext(ctx)

	start := time.Now()
	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, classifyError(httpReq.URL.String(), limit, err)
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, classifyError(httpReq.URL.String(), limit, err)
	}

	return &Response{
		StatusCode:   httpResp.StatusCode,
		Status:       httpResp.Status,
		Headers:      httpResp.Header,
		Body:         body,
		ResponseTime: time.Since(start),
	}, nil
}
