package http

import (
	"context"
	"crypto/tls"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptrace"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/wesleyorama2/rtdb/http"

// Client performs single, synchronous calls against the database service.
// Client is safe for concurrent use by multiple goroutines.
type Client struct {
	httpClient *http.Client
	headers    map[string]string
	logger     *slog.Logger
	tracer     trace.Tracer
}

// ClientOption is a function that configures a Client.
type ClientOption func(*Client)

// NewClient creates a new client with the given options.
//
// Example:
//
//	client := http.NewClient(
//	    http.WithTimeout(10*time.Second),
//	    http.WithHeader("X-Firebase-ETag", "true"),
//	)
func NewClient(options ...ClientOption) *Client {
	client := &Client{
		httpClient: &http.Client{},
		headers:    make(map[string]string),
		tracer:     otel.Tracer(tracerName),
	}

	for _, option := range options {
		option(client)
	}

	if client.logger == nil {
		client.logger = slog.Default()
	}

	return client
}

// WithTimeout sets the timeout for all requests made by this client.
// Without it a call is bounded only by its context.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithHeader adds a default header to all requests made by this client.
// Headers set on individual requests will override these defaults.
func WithHeader(key, value string) ClientOption {
	return func(c *Client) {
		c.headers[key] = value
	}
}

// WithHTTPClient sets a custom *http.Client for this client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithLogger sets the logger used for per-call debug records.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithInsecureSkipVerify disables TLS certificate verification.
// WARNING: This should only be used against local emulators.
func WithInsecureSkipVerify() ClientOption {
	return func(c *Client) {
		c.httpClient.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}
}

// Do performs exactly one call and normalizes its outcome.
//
// Any status code the server answers with yields a *Response and a nil
// error. Transport failures yield a nil *Response and a *NetworkError.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	ctx, span := c.tracer.Start(ctx, "rtdb "+req.Method.String(),
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", req.Method.String()),
			attribute.String("url.full", req.URL),
		))
	defer span.End()

	timing := TimingInfo{
		StartTime: time.Now(),
	}

	httpReq, err := req.Build(httptrace.WithClientTrace(ctx, timingTrace(&timing)))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "build request")
		return nil, err
	}

	for key, value := range c.headers {
		if httpReq.Header.Get(key) == "" {
			httpReq.Header.Set(key, value)
		}
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.DebugContext(ctx, "request failed", "method", req.Method, "url", req.URL, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "transport")
		return nil, &NetworkError{Method: req.Method, URL: req.URL, Err: err}
	}
	defer httpResp.Body.Close()

	contentTransferStart := time.Now()
	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		c.logger.DebugContext(ctx, "reading body failed", "method", req.Method, "url", req.URL, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "read body")
		return nil, &NetworkError{Method: req.Method, URL: req.URL, Err: err}
	}
	timing.ContentTransferTime = time.Since(contentTransferStart)
	timing.TotalTime = time.Since(timing.StartTime)

	span.SetAttributes(attribute.Int("http.response.status_code", httpResp.StatusCode))
	c.logger.DebugContext(ctx, "request complete",
		"method", req.Method,
		"url", req.URL,
		"status", httpResp.StatusCode,
		"duration", timing.TotalTime)

	return &Response{
		StatusCode: httpResp.StatusCode,
		Status:     httpResp.Status,
		Headers:    httpResp.Header,
		Timing:     timing,
		body:       body,
	}, nil
}

// timingTrace fills timing as the transport progresses through each phase.
func timingTrace(timing *TimingInfo) *httptrace.ClientTrace {
	var dnsStart, connectStart, tlsHandshakeStart time.Time
	var dnsDone, connectDone bool

	// end of the last completed phase, TTFB is measured from here
	lastPhaseEnd := timing.StartTime

	return &httptrace.ClientTrace{
		DNSStart: func(httptrace.DNSStartInfo) {
			dnsStart = time.Now()
		},
		DNSDone: func(httptrace.DNSDoneInfo) {
			dnsEnd := time.Now()
			timing.DNSLookupTime = dnsEnd.Sub(dnsStart)
			dnsDone = true
			lastPhaseEnd = dnsEnd
		},
		ConnectStart: func(network, addr string) {
			if dnsDone || connectStart.IsZero() {
				connectStart = time.Now()
			}
		},
		ConnectDone: func(network, addr string, err error) {
			if err == nil {
				connectEnd := time.Now()
				timing.TCPConnectTime = connectEnd.Sub(connectStart)
				connectDone = true
				lastPhaseEnd = connectEnd
			}
		},
		TLSHandshakeStart: func() {
			if connectDone {
				tlsHandshakeStart = time.Now()
			}
		},
		TLSHandshakeDone: func(state tls.ConnectionState, err error) {
			if err == nil && !tlsHandshakeStart.IsZero() {
				tlsHandshakeEnd := time.Now()
				timing.TLSHandshakeTime = tlsHandshakeEnd.Sub(tlsHandshakeStart)
				lastPhaseEnd = tlsHandshakeEnd
			}
		},
		GotFirstResponseByte: func() {
			timing.TimeToFirstByte = time.Since(lastPhaseEnd)
		},
	}
}
