package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/tidwall/gjson"
)

// TimingInfo stores detailed timing information for a call.
// All durations represent the time spent in each phase of the request.
type TimingInfo struct {
	// StartTime is when the request started
	StartTime time.Time

	// DNSLookupTime is the time spent looking up the DNS address
	DNSLookupTime time.Duration

	// TCPConnectTime is the time spent establishing a TCP connection
	TCPConnectTime time.Duration

	// TLSHandshakeTime is the time spent performing the TLS handshake (for HTTPS)
	TLSHandshakeTime time.Duration

	// TimeToFirstByte (TTFB) is the time from connection established to receiving the first byte
	TimeToFirstByte time.Duration

	// ContentTransferTime is the time spent reading the response body
	ContentTransferTime time.Duration

	// TotalTime is the total time from request start to completion
	TotalTime time.Duration
}

// Response is the normalized outcome of one call. It is produced for every
// status code the service answers with; callers branch on IsSuccess.
type Response struct {
	// StatusCode is the HTTP status code (e.g., 200, 404, 500)
	StatusCode int

	// Status is the HTTP status string (e.g., "200 OK")
	Status string

	// Headers contains the response headers
	Headers http.Header

	// Timing contains detailed timing information
	Timing TimingInfo

	body []byte
}

// NewResponse builds a Response from already read parts. It is mostly useful
// for executors that do not talk to a real server.
func NewResponse(statusCode int, body string) *Response {
	return &Response{
		StatusCode: statusCode,
		Status:     statusLine(statusCode),
		Headers:    make(http.Header),
		body:       []byte(body),
	}
}

func statusLine(code int) string {
	text := http.StatusText(code)
	if text == "" {
		return strconv.Itoa(code)
	}
	return strconv.Itoa(code) + " " + text
}

// Body returns the raw response body as text.
func (r *Response) Body() string {
	return string(r.body)
}

// Bytes returns the raw response body.
func (r *Response) Bytes() []byte {
	return r.body
}

// Decode unmarshals the response body into v.
func (r *Response) Decode(v interface{}) error {
	return json.Unmarshal(r.body, v)
}

// Get looks up a value in the JSON body using gjson path syntax.
func (r *Response) Get(path string) gjson.Result {
	return gjson.GetBytes(r.body, path)
}

// GetHeader returns the value of the specified header.
// Returns an empty string if the header is not present.
func (r *Response) GetHeader(key string) string {
	return r.Headers.Get(key)
}

// IsSuccess returns true if the response status code is in the 2xx range.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// IsRedirect returns true if the response status code is in the 3xx range.
func (r *Response) IsRedirect() bool {
	return r.StatusCode >= 300 && r.StatusCode < 400
}

// IsClientError returns true if the response status code is in the 4xx range.
func (r *Response) IsClientError() bool {
	return r.StatusCode >= 400 && r.StatusCode < 500
}

// IsServerError returns true if the response status code is in the 5xx range.
func (r *Response) IsServerError() bool {
	return r.StatusCode >= 500 && r.StatusCode < 600
}

// ErrorDetail returns the parsed failure detail, or nil for a 2xx response.
// The service reports failures as {"error": "message"}; bodies that do not
// follow that shape are reported verbatim.
func (r *Response) ErrorDetail() *ErrorDetail {
	if r.IsSuccess() {
		return nil
	}
	detail := &ErrorDetail{StatusCode: r.StatusCode}
	if msg := gjson.GetBytes(r.body, "error"); msg.Exists() && gjson.ValidBytes(r.body) {
		detail.Message = msg.String()
	} else {
		detail.Message = string(r.body)
	}
	return detail
}

// GetResponseTimeMillis returns the total response time in milliseconds.
func (r *Response) GetResponseTimeMillis() int64 {
	return r.Timing.TotalTime.Milliseconds()
}
