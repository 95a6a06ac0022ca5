package output

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/wesleyorama2/rtdb/http"
	"gopkg.in/yaml.v3"
)

// OutputFormat represents the available output formats
type OutputFormat string

const (
	// FormatText is the default human-readable text format
	FormatText OutputFormat = "text"
	// FormatJSON outputs a JSON envelope with status, body and timing
	FormatJSON OutputFormat = "json"
	// FormatYAML outputs the same envelope as YAML
	FormatYAML OutputFormat = "yaml"
	// FormatRaw outputs the response body exactly as received
	FormatRaw OutputFormat = "raw"
)

// Formats lists the accepted --output values.
var Formats = []OutputFormat{FormatText, FormatJSON, FormatYAML, FormatRaw}

// ParseFormat validates an --output value.
func ParseFormat(s string) (OutputFormat, error) {
	for _, f := range Formats {
		if strings.EqualFold(s, string(f)) {
			return f, nil
		}
	}
	names := make([]string, len(Formats))
	for i, f := range Formats {
		names[i] = string(f)
	}
	return "", fmt.Errorf("unknown output format %q (want one of %s)", s, strings.Join(names, ", "))
}

// FormatProvider is an interface for different output formatters
type FormatProvider interface {
	FormatRequest(req *http.Request) string
	FormatResponse(resp *http.Response) string
	FormatValue(value string) string
}

// GetFormatter returns the provider for format, falling back to text.
func GetFormatter(format OutputFormat, verbose, noColor bool) FormatProvider {
	switch format {
	case FormatJSON:
		return &JSONFormatter{Verbose: verbose, Pretty: true}
	case FormatYAML:
		return &YAMLFormatter{Verbose: verbose}
	case FormatRaw:
		return RawFormatter{}
	}
	return NewFormatter(verbose, noColor)
}

// RequestData represents the structured data of a request
type RequestData struct {
	Method    string            `json:"method" yaml:"method"`
	URL       string            `json:"url" yaml:"url"`
	Headers   map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	Body      interface{}       `json:"body,omitempty" yaml:"body,omitempty"`
	Timestamp string            `json:"timestamp" yaml:"timestamp"`
}

// TimingData represents detailed timing information for a request
type TimingData struct {
	DNSLookup       int64 `json:"dnsLookupMs,omitempty" yaml:"dnsLookupMs,omitempty"`
	TCPConnection   int64 `json:"tcpConnectionMs,omitempty" yaml:"tcpConnectionMs,omitempty"`
	TLSHandshake    int64 `json:"tlsHandshakeMs,omitempty" yaml:"tlsHandshakeMs,omitempty"`
	TimeToFirstByte int64 `json:"timeToFirstByteMs,omitempty" yaml:"timeToFirstByteMs,omitempty"`
	ContentTransfer int64 `json:"contentTransferMs,omitempty" yaml:"contentTransferMs,omitempty"`
	Total           int64 `json:"totalMs" yaml:"totalMs"`
}

// ResponseData represents the structured data of a response
type ResponseData struct {
	StatusCode int               `json:"statusCode" yaml:"statusCode"`
	Status     string            `json:"status" yaml:"status"`
	Success    bool              `json:"success" yaml:"success"`
	Error      string            `json:"error,omitempty" yaml:"error,omitempty"`
	Headers    map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	Body       interface{}       `json:"body" yaml:"body"`
	Timing     *TimingData       `json:"timing,omitempty" yaml:"timing,omitempty"`
}

func newRequestData(req *http.Request) RequestData {
	data := RequestData{
		Method:    req.Method.String(),
		URL:       req.URL,
		Headers:   req.Headers,
		Timestamp: time.Now().Format(time.RFC3339),
	}
	if payload, ok := req.Payload(); ok {
		data.Body = decodeBody(payload)
	}
	return data
}

func newResponseData(resp *http.Response, verbose bool) ResponseData {
	data := ResponseData{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Success:    resp.IsSuccess(),
		Body:       decodeBody(resp.Body()),
	}
	if detail := resp.ErrorDetail(); detail != nil {
		data.Error = detail.Message
	}
	if verbose {
		data.Headers = make(map[string]string)
		for key, values := range resp.Headers {
			if len(values) > 0 {
				data.Headers[key] = values[0]
			}
		}
		t := resp.Timing
		data.Timing = &TimingData{
			DNSLookup:       t.DNSLookupTime.Milliseconds(),
			TCPConnection:   t.TCPConnectTime.Milliseconds(),
			TLSHandshake:    t.TLSHandshakeTime.Milliseconds(),
			TimeToFirstByte: t.TimeToFirstByte.Milliseconds(),
			ContentTransfer: t.ContentTransferTime.Milliseconds(),
			Total:           t.TotalTime.Milliseconds(),
		}
	}
	return data
}

// decodeBody returns the decoded JSON value, or the text itself if it is not JSON.
func decodeBody(s string) interface{} {
	if s == "" {
		return nil
	}
	var v interface{}
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return s
	}
	return v
}

// JSONFormatter formats output as JSON
type JSONFormatter struct {
	Verbose bool
	Pretty  bool
}

func (f *JSONFormatter) marshal(v interface{}) string {
	var out []byte
	var err error
	if f.Pretty {
		out, err = json.MarshalIndent(v, "", "  ")
	} else {
		out, err = json.Marshal(v)
	}
	if err != nil {
		return fmt.Sprintf(`{"error":%q}`, "failed to marshal output: "+err.Error())
	}
	return string(out) + "\n"
}

// FormatRequest formats a request as JSON. Only verbose output shows it.
func (f *JSONFormatter) FormatRequest(req *http.Request) string {
	if !f.Verbose {
		return ""
	}
	return f.marshal(newRequestData(req))
}

// FormatResponse formats a response as JSON
func (f *JSONFormatter) FormatResponse(resp *http.Response) string {
	return f.marshal(newResponseData(resp, f.Verbose))
}

// FormatValue formats an extracted value as JSON
func (f *JSONFormatter) FormatValue(value string) string {
	return f.marshal(decodeBody(value))
}

// YAMLFormatter formats output as YAML
type YAMLFormatter struct {
	Verbose bool
}

func (f *YAMLFormatter) marshal(v interface{}) string {
	out, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Sprintf("error: failed to marshal output: %s\n", err)
	}
	return "---\n" + string(out)
}

// FormatRequest formats a request as YAML. Only verbose output shows it.
func (f *YAMLFormatter) FormatRequest(req *http.Request) string {
	if !f.Verbose {
		return ""
	}
	return f.marshal(newRequestData(req))
}

// FormatResponse formats a response as YAML
func (f *YAMLFormatter) FormatResponse(resp *http.Response) string {
	return f.marshal(newResponseData(resp, f.Verbose))
}

// FormatValue formats an extracted value as YAML
func (f *YAMLFormatter) FormatValue(value string) string {
	return f.marshal(decodeBody(value))
}

// RawFormatter writes bodies verbatim, for piping into other tools.
type RawFormatter struct{}

// FormatRequest never prints anything.
func (RawFormatter) FormatRequest(*http.Request) string { return "" }

// FormatResponse returns the body as received.
func (RawFormatter) FormatResponse(resp *http.Response) string {
	return resp.Body() + "\n"
}

// FormatValue returns value unchanged.
func (RawFormatter) FormatValue(value string) string {
	return value + "\n"
}
