package httpclient

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Request describes one load-test request: a method, a path relative to the
// client's base URL, and an optional raw body. Scenario paths may carry
// their own query string ("/search?q=shoes"); it is preserved and merged
// with any query on the base URL.
type Request struct {
	Method  string
	Path    string
	Headers map[string]string
	Body    []byte
}

// NewRequest creates a request for one target path.
func NewRequest(method, path string) *Request {
	return &Request{
		Method:  method,
		Path:    path,
		Headers: make(map[string]string),
	}
}

// WithHeader adds a header to the request
func (r *Request) WithHeader(key, value string) *Request {
	r.Headers[key] = value
	return r
}

// WithBody sets a raw request body and its content type.
func (r *Request) WithBody(contentType string, body []byte) *Request {
	r.Body = body
	if contentType != "" {
		r.Headers["Content-Type"] = contentType
	}
	return r
}

// Build constructs the http.Request against the given base URL.
func (r *Request) Build(baseURL string) (*http.Request, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}
	ref, err := url.Parse(r.Path)
	if err != nil {
		return nil, fmt.Errorf("invalid request path %q: %w", r.Path, err)
	}

	u.Path = joinPath(u.Path, ref.Path)
	if ref.RawQuery != "" {
		if u.RawQuery != "" {
			u.RawQuery += "&" + ref.RawQuery
		} else {
			u.RawQuery = ref.RawQuery
		}
	}

	var body io.Reader
	if len(r.Body) > 0 {
		body = bytes.NewReader(r.Body)
	}

	req, err := http.NewRequest(r.Method, u.String(), body)
	if err != nil {
		return nil, err
	}
	for key, value := range r.Headers {
		req.Header.Set(key, value)
	}
	return req, nil
}

// joinPath appends a request path to a base path without doubling or
// dropping the separating slash.
func joinPath(base, p string) string {
	if p == "" {
		return base
	}
	if base == "" || base == "/" {
		return "/" + strings.TrimLeft(p, "/")
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(p, "/")
}
