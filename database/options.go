package database

import (
	"context"

	"github.com/wesleyorama2/rtdb/http"
)

// Executor performs one call and returns the normalized response.
// *http.Client satisfies it; tests substitute their own.
type Executor interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// PayloadValidator checks a payload before it is sent to the given locator.
type PayloadValidator interface {
	ValidatePayload(locator, payload string) error
}

// PayloadValidatorFunc adapts a function to PayloadValidator.
type PayloadValidatorFunc func(locator, payload string) error

// ValidatePayload calls f(locator, payload).
func (f PayloadValidatorFunc) ValidatePayload(locator, payload string) error {
	return f(locator, payload)
}

// Option configures the references created by New.
type Option func(*settings)

// settings is shared, read-only, by every Reference derived from one New call.
type settings struct {
	executor      Executor
	clientOptions []http.ClientOption
	headers       map[string]string
	validator     PayloadValidator
	jsonSuffix    bool
}

// WithExecutor sets the executor used for every call.
// When set, WithClientOptions is ignored.
func WithExecutor(executor Executor) Option {
	return func(s *settings) {
		s.executor = executor
	}
}

// WithClientOptions configures the default *http.Client executor.
func WithClientOptions(options ...http.ClientOption) Option {
	return func(s *settings) {
		s.clientOptions = append(s.clientOptions, options...)
	}
}

// WithHeader adds a header to every request.
func WithHeader(key, value string) Option {
	return func(s *settings) {
		s.headers[key] = value
	}
}

// WithPayloadValidator runs v on every write, create and update payload
// after the JSON well-formedness check.
func WithPayloadValidator(v PayloadValidator) Option {
	return func(s *settings) {
		s.validator = v
	}
}

// WithJSONSuffix appends ".json" to the request URL of every call, as the
// service's REST dialect expects. Locator text is not affected.
func WithJSONSuffix() Option {
	return func(s *settings) {
		s.jsonSuffix = true
	}
}
