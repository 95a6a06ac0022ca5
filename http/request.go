package http

import (
	"context"
	"io"
	"net/http"
	"strings"
)

// Request describes a single call against an absolute database URL.
type Request struct {
	Method  Method
	URL     string
	Headers map[string]string

	payload    string
	hasPayload bool
}

// NewRequest creates a request for the given verb and absolute URL.
func NewRequest(method Method, url string) *Request {
	return &Request{
		Method:  method,
		URL:     url,
		Headers: make(map[string]string),
	}
}

// WithHeader adds a header to the request.
func (r *Request) WithHeader(key, value string) *Request {
	r.Headers[key] = value
	return r
}

// WithHeaders adds multiple headers to the request.
func (r *Request) WithHeaders(headers map[string]string) *Request {
	for key, value := range headers {
		r.Headers[key] = value
	}
	return r
}

// WithJSON attaches a JSON encoded payload as the request body and declares
// the JSON content type.
func (r *Request) WithJSON(payload string) *Request {
	r.payload = payload
	r.hasPayload = true
	if _, ok := r.Headers["Content-Type"]; !ok {
		r.Headers["Content-Type"] = "application/json"
	}
	return r
}

// Payload returns the attached payload and whether one is present.
func (r *Request) Payload() (string, bool) {
	return r.payload, r.hasPayload
}

// Build constructs a net/http request bound to ctx.
func (r *Request) Build(ctx context.Context) (*http.Request, error) {
	var body io.Reader
	if r.hasPayload {
		body = strings.NewReader(r.payload)
	}

	req, err := http.NewRequestWithContext(ctx, string(r.Method), r.URL, body)
	if err != nil {
		return nil, err
	}

	for key, value := range r.Headers {
		req.Header.Set(key, value)
	}

	return req, nil
}
