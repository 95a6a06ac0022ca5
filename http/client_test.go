package http

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestClient_Do(t *testing.T) {
	// Create a test server
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "PATCH" {
			t.Errorf("Expected method PATCH, got %s", r.Method)
		}

		if r.URL.Path != "/users/42" {
			t.Errorf("Expected path /users/42, got %s", r.URL.Path)
		}

		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("Expected JSON content type, got %s", r.Header.Get("Content-Type"))
		}

		if r.Header.Get("X-Test-Header") != "test-value" {
			t.Errorf("Expected header X-Test-Header: test-value, got %s", r.Header.Get("X-Test-Header"))
		}

		body, _ := io.ReadAll(r.Body)
		if string(body) != `{"name":"Ada"}` {
			t.Errorf("Expected body %s, got %s", `{"name":"Ada"}`, body)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"name":"Ada"}`))
	}))
	defer server.Close()

	client := NewClient(
		WithTimeout(5*time.Second),
		WithHeader("X-Test-Header", "test-value"),
	)

	req := NewRequest(MethodPatch, server.URL+"/users/42").WithJSON(`{"name":"Ada"}`)

	resp, err := client.Do(context.Background(), req)
	if err != nil {
		t.Fatalf("Error executing request: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status code %d, got %d", http.StatusOK, resp.StatusCode)
	}

	if !resp.IsSuccess() {
		t.Errorf("Expected IsSuccess to be true")
	}

	if resp.Body() != `{"name":"Ada"}` {
		t.Errorf("Expected body %s, got %s", `{"name":"Ada"}`, resp.Body())
	}

	if resp.Timing.TotalTime <= 0 {
		t.Errorf("Expected a positive total time, got %v", resp.Timing.TotalTime)
	}
}

func TestClient_DoWithoutPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.ContentLength > 0 {
			t.Errorf("Expected no body for %s, got %d bytes", r.Method, r.ContentLength)
		}
		if r.Header.Get("Content-Type") != "" {
			t.Errorf("Expected no content type for %s, got %s", r.Method, r.Header.Get("Content-Type"))
		}
		w.Write([]byte(`null`))
	}))
	defer server.Close()

	client := NewClient()
	for _, method := range []Method{MethodGet, MethodDelete} {
		resp, err := client.Do(context.Background(), NewRequest(method, server.URL+"/a"))
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", method, err)
		}
		if resp.Body() != "null" {
			t.Errorf("%s: expected body null, got %s", method, resp.Body())
		}
	}
}

func TestClient_NonSuccessStatusIsNotAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"not found"}`))
	}))
	defer server.Close()

	resp, err := NewClient().Do(context.Background(), NewRequest(MethodGet, server.URL+"/missing"))
	if err != nil {
		t.Fatalf("Expected no error for a 404, got %v", err)
	}

	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("Expected status code 404, got %d", resp.StatusCode)
	}

	if resp.IsSuccess() {
		t.Errorf("Expected IsSuccess to be false")
	}

	detail := resp.ErrorDetail()
	if detail == nil || detail.Message != "not found" {
		t.Errorf("Expected error detail 'not found', got %+v", detail)
	}
}

func TestClient_ConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	resp, err := NewClient(WithTimeout(2*time.Second)).Do(context.Background(), NewRequest(MethodGet, url+"/a"))
	if err == nil {
		t.Fatal("Expected an error for a closed server")
	}

	if resp != nil {
		t.Errorf("Expected no response, got %+v", resp)
	}

	var netErr *NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("Expected *NetworkError, got %T", err)
	}

	if netErr.Method != MethodGet || netErr.URL != url+"/a" {
		t.Errorf("Unexpected error context: %s %s", netErr.Method, netErr.URL)
	}

	if netErr.Unwrap() == nil {
		t.Errorf("Expected the underlying cause to be kept")
	}
}

func TestClient_ContextCanceled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewClient().Do(ctx, NewRequest(MethodGet, server.URL))
	if !IsNetworkError(err) {
		t.Fatalf("Expected a network error, got %v", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected the error to wrap context.Canceled, got %v", err)
	}
}

func TestClient_WithOptions(t *testing.T) {
	timeout := 10 * time.Second
	headerKey := "X-Test"
	headerValue := "test-value"

	client := NewClient(
		WithTimeout(timeout),
		WithHeader(headerKey, headerValue),
	)

	if client.httpClient.Timeout != timeout {
		t.Errorf("Expected timeout %v, got %v", timeout, client.httpClient.Timeout)
	}

	if client.headers[headerKey] != headerValue {
		t.Errorf("Expected header %s: %s, got %s", headerKey, headerValue, client.headers[headerKey])
	}

	if client.logger == nil {
		t.Errorf("Expected a default logger")
	}
}

func TestClient_RequestHeaderOverridesDefault(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(r.Header.Get("X-Mode")))
	}))
	defer server.Close()

	client := NewClient(WithHeader("X-Mode", "default"))
	resp, err := client.Do(context.Background(), NewRequest(MethodGet, server.URL).WithHeader("X-Mode", "override"))
	if err != nil {
		t.Fatalf("Error executing request: %v", err)
	}
	if resp.Body() != "override" {
		t.Errorf("Expected override, got %s", resp.Body())
	}
}

func TestNewClient_NoDefaultTimeout(t *testing.T) {
	client := NewClient()
	if client.httpClient.Timeout != 0 {
		t.Errorf("Expected no client timeout, got %v", client.httpClient.Timeout)
	}
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func TestClient_WithHTTPClient(t *testing.T) {
	var seen string
	custom := &http.Client{
		Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			seen = r.Method + " " + r.URL.String()
			return &http.Response{
				StatusCode: http.StatusOK,
				Status:     "200 OK",
				Header:     http.Header{"X-Served-By": []string{"custom"}},
				Body:       io.NopCloser(strings.NewReader(`"ok"`)),
				Request:    r,
			}, nil
		}),
	}

	resp, err := NewClient(WithHTTPClient(custom)).Do(context.Background(), NewRequest(MethodDelete, "https://x.test/db/a"))
	if err != nil {
		t.Fatalf("Error executing request: %v", err)
	}
	if seen != "DELETE https://x.test/db/a" {
		t.Errorf("Expected the custom transport to see the call, got %q", seen)
	}
	if resp.GetHeader("X-Served-By") != "custom" {
		t.Errorf("Expected X-Served-By: custom, got %q", resp.GetHeader("X-Served-By"))
	}
	if resp.GetHeader("X-Missing") != "" {
		t.Errorf("Expected an empty value for a missing header")
	}
	if resp.Body() != `"ok"` {
		t.Errorf("Expected body %q, got %q", `"ok"`, resp.Body())
	}
}

func TestClient_WithInsecureSkipVerify(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`null`))
	}))
	defer server.Close()

	req := NewRequest(MethodGet, server.URL+"/a")

	_, err := NewClient().Do(context.Background(), req)
	if !IsNetworkError(err) {
		t.Fatalf("Expected a network error for an untrusted certificate, got %v", err)
	}

	resp, err := NewClient(WithInsecureSkipVerify()).Do(context.Background(), req)
	if err != nil {
		t.Fatalf("Error executing request: %v", err)
	}
	if !resp.IsSuccess() {
		t.Errorf("Expected success, got %s", resp.Status)
	}
	if resp.GetHeader("Content-Type") != "application/json" {
		t.Errorf("Expected JSON content type, got %q", resp.GetHeader("Content-Type"))
	}
}
