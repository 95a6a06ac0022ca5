package database

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/tidwall/gjson"

	"github.com/wesleyorama2/rtdb/http"
)

const separator = "/"

// Reference is the absolute locator of one node in the remote tree.
//
// A Reference is an immutable value: Child and Path return new values and
// never modify the receiver, so any number of goroutines may derive from and
// call through the same Reference.
type Reference struct {
	locator string
	root    string
	s       *settings
}

// New returns a Reference to the root of the database at baseURL.
//
// The base URL must be an absolute http or https URL without a query or a
// fragment. Trailing separators are removed so that appending never yields
// a double separator.
func New(baseURL string, opts ...Option) (Reference, error) {
	root, err := normalizeBaseURL(baseURL)
	if err != nil {
		return Reference{}, err
	}

	s := &settings{headers: make(map[string]string)}
	for _, opt := range opts {
		opt(s)
	}
	if s.executor == nil {
		s.executor = http.NewClient(s.clientOptions...)
	}

	return Reference{locator: root, root: root, s: s}, nil
}

func normalizeBaseURL(baseURL string) (string, error) {
	invalid := func(reason string) error {
		return &InvalidArgumentError{
			Argument: "base URL",
			Value:    baseURL,
			Err:      fmt.Errorf("%w: %s", ErrInvalidURL, reason),
		}
	}

	u, err := url.Parse(baseURL)
	if err != nil {
		return "", invalid(err.Error())
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", invalid("scheme must be http or https")
	}
	if u.Host == "" {
		return "", invalid("host is required")
	}
	if u.RawQuery != "" || u.ForceQuery || u.Fragment != "" {
		return "", invalid("query and fragment are not allowed")
	}

	return strings.TrimRight(baseURL, separator), nil
}

// Child returns the reference one level below r. The segment must not contain
// a separator; use Path for multi-segment addresses.
func (r Reference) Child(segment string) (Reference, error) {
	if strings.Contains(segment, separator) {
		return Reference{}, &InvalidArgumentError{
			Argument: "segment",
			Value:    segment,
			Err:      ErrInvalidSegment,
		}
	}
	return r.derive(segment), nil
}

// Children applies Child for each segment in order. It is the safe way to
// build a locator from keys of unknown origin.
func (r Reference) Children(segments ...string) (Reference, error) {
	ref := r
	for _, segment := range segments {
		var err error
		if ref, err = ref.Child(segment); err != nil {
			return Reference{}, err
		}
	}
	return ref, nil
}

// Path appends subPath verbatim, separators included.
func (r Reference) Path(subPath string) Reference {
	return r.derive(subPath)
}

func (r Reference) derive(rel string) Reference {
	return Reference{locator: r.locator + separator + rel, root: r.root, s: r.s}
}

// Parent returns the reference one level up. It reports false at the root.
func (r Reference) Parent() (Reference, bool) {
	if r.IsRoot() {
		return r, false
	}
	i := strings.LastIndex(r.locator, separator)
	if i < len(r.root) {
		return r.Root(), true
	}
	return Reference{locator: r.locator[:i], root: r.root, s: r.s}, true
}

// Root returns the reference to the database root.
func (r Reference) Root() Reference {
	return Reference{locator: r.root, root: r.root, s: r.s}
}

// IsRoot reports whether r addresses the database root.
func (r Reference) IsRoot() bool {
	return r.locator == r.root
}

// Key returns the last segment of the locator, or "" at the root.
func (r Reference) Key() string {
	if r.IsRoot() {
		return ""
	}
	return r.locator[strings.LastIndex(r.locator, separator)+1:]
}

// String returns the locator verbatim.
func (r Reference) String() string {
	return r.locator
}

// Get reads the JSON stored at r.
func (r Reference) Get(ctx context.Context) (*http.Response, error) {
	return r.call(ctx, http.MethodGet, "")
}

// Set replaces the whole subtree at r with payload.
func (r Reference) Set(ctx context.Context, payload string) (*http.Response, error) {
	return r.call(ctx, http.MethodPut, payload)
}

// Push appends payload under a new child of r. The service generates the
// child key and returns it in the response body; see PushedKey.
func (r Reference) Push(ctx context.Context, payload string) (*http.Response, error) {
	return r.call(ctx, http.MethodPost, payload)
}

// Update merges the keys present in payload into r. Sibling keys are kept.
func (r Reference) Update(ctx context.Context, payload string) (*http.Response, error) {
	return r.call(ctx, http.MethodPatch, payload)
}

// Remove deletes the whole subtree at r.
func (r Reference) Remove(ctx context.Context) (*http.Response, error) {
	return r.call(ctx, http.MethodDelete, "")
}

// Request builds the request Get, Set, Push, Update or Remove would send,
// without sending it.
func (r Reference) Request(method http.Method, payload string) (*http.Request, error) {
	s := r.settings()

	if !method.Valid() {
		return nil, &InvalidArgumentError{Argument: "method", Value: string(method), Err: fmt.Errorf("unsupported method")}
	}

	target := r.locator
	if s.jsonSuffix {
		target += ".json"
	}
	req := http.NewRequest(method, target).WithHeaders(s.headers)

	if method.HasBody() {
		if err := r.validatePayload(payload); err != nil {
			return nil, err
		}
		req.WithJSON(payload)
	}
	return req, nil
}

func (r Reference) call(ctx context.Context, method http.Method, payload string) (*http.Response, error) {
	req, err := r.Request(method, payload)
	if err != nil {
		return nil, err
	}
	return r.settings().executor.Do(ctx, req)
}

func (r Reference) validatePayload(payload string) error {
	if !gjson.Valid(payload) {
		return &InvalidArgumentError{
			Argument: "payload",
			Value:    abbreviate(payload),
			Err:      fmt.Errorf("%w: not well-formed JSON", ErrInvalidPayload),
		}
	}
	if v := r.settings().validator; v != nil {
		if err := v.ValidatePayload(r.locator, payload); err != nil {
			return &InvalidArgumentError{
				Argument: "payload",
				Value:    abbreviate(payload),
				Err:      fmt.Errorf("%w: %w", ErrInvalidPayload, err),
			}
		}
	}
	return nil
}

func abbreviate(s string) string {
	const limit = 64
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}

// defaultSettings is built on first use so the client picks up the
// slog default installed by then.
var defaultSettings = sync.OnceValue(func() *settings {
	return &settings{
		executor: http.NewClient(),
		headers:  map[string]string{},
	}
})

// settings tolerates the zero Reference, which behaves like a reference
// with default options.
func (r Reference) settings() *settings {
	if r.s == nil {
		return defaultSettings()
	}
	return r.s
}

// PushedKey extracts the generated child key from the response to Push.
// A failure response yields its *http.ErrorDetail as the error.
func PushedKey(resp *http.Response) (string, error) {
	if resp == nil {
		return "", fmt.Errorf("no response")
	}
	if !resp.IsSuccess() {
		return "", resp.ErrorDetail()
	}
	name := resp.Get("name")
	if !name.Exists() || name.String() == "" {
		return "", fmt.Errorf("response has no generated key: %s", abbreviate(resp.Body()))
	}
	return name.String(), nil
}
