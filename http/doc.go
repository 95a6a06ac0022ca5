// Package http executes single calls against a realtime JSON database service.
//
// This package is the transport half of rtdb and provides:
//   - A configurable client with functional options
//   - An enumerated verb type (GET, PUT, POST, PATCH, DELETE)
//   - A normalized Response with the raw body, status and success flag
//   - Detailed timing information (DNS, TCP, TLS, TTFB)
//
// Basic Usage:
//
//	client := http.NewClient(
//	    http.WithTimeout(10*time.Second),
//	)
//
//	req := http.NewRequest(http.MethodPatch, "https://project.example.com/users/42").
//	    WithJSON(`{"name":"Ada"}`)
//
//	resp, err := client.Do(context.Background(), req)
//	if err != nil {
//	    log.Fatal(err) // *http.NetworkError
//	}
//	if !resp.IsSuccess() {
//	    fmt.Println(resp.ErrorDetail())
//	}
//
// Error Model:
//
// Only transport failures are returned as errors. A response with a failure
// status, such as 401 or 404, is a normal value the caller inspects.
//
// Thread Safety:
//
// Client is safe for concurrent use. Multiple goroutines may invoke methods
// on a Client simultaneously.
package http
