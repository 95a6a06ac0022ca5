package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/wesleyorama2/rtdb/http"
)

// Formatter renders requests and responses as human readable text
type Formatter struct {
	Verbose bool
	NoColor bool
	scheme  *ColorScheme
}

// NewFormatter creates a new formatter with the given options
func NewFormatter(verbose, noColor bool) *Formatter {
	scheme := DefaultColorScheme()
	if noColor {
		scheme = NoColorScheme()
	}
	return &Formatter{
		Verbose: verbose,
		NoColor: noColor,
		scheme:  scheme,
	}
}

// FormatRequest formats a request for display. Only verbose output shows it.
func (f *Formatter) FormatRequest(req *http.Request) string {
	if !f.Verbose {
		return ""
	}

	var buf strings.Builder
	buf.WriteString(fmt.Sprintf("▶ %s %s\n", f.scheme.Method.Sprint(req.Method), f.scheme.URL.Sprint(req.URL)))

	if len(req.Headers) > 0 {
		buf.WriteString("  Headers:\n")
		for _, key := range sortedKeys(req.Headers) {
			buf.WriteString(fmt.Sprintf("    %s: %s\n", f.scheme.HeaderKey.Sprint(key), req.Headers[key]))
		}
	}

	if payload, ok := req.Payload(); ok {
		buf.WriteString("  Body: ")
		buf.WriteString(formatJSONString(payload))
		buf.WriteString("\n")
	}

	return buf.String()
}

// FormatResponse formats a response for display
func (f *Formatter) FormatResponse(resp *http.Response) string {
	var buf strings.Builder

	if f.Verbose || !resp.IsSuccess() {
		statusColor := f.scheme.StatusError
		if resp.IsSuccess() {
			statusColor = f.scheme.StatusOK
		} else if resp.IsRedirect() {
			statusColor = f.scheme.StatusWarn
		}
		buf.WriteString(fmt.Sprintf("◀ %s (%dms)\n", statusColor.Sprint(resp.Status), resp.GetResponseTimeMillis()))
	}

	if f.Verbose {
		t := resp.Timing
		buf.WriteString("  Timing:\n")
		buf.WriteString(fmt.Sprintf("    DNS Lookup:         %dms\n", t.DNSLookupTime.Milliseconds()))
		buf.WriteString(fmt.Sprintf("    TCP Connection:     %dms\n", t.TCPConnectTime.Milliseconds()))
		buf.WriteString(fmt.Sprintf("    TLS Handshake:      %dms\n", t.TLSHandshakeTime.Milliseconds()))
		buf.WriteString(fmt.Sprintf("    Time to First Byte: %dms\n", t.TimeToFirstByte.Milliseconds()))
		buf.WriteString(fmt.Sprintf("    Content Transfer:   %dms\n", t.ContentTransferTime.Milliseconds()))
		buf.WriteString(fmt.Sprintf("    Total:              %dms\n", t.TotalTime.Milliseconds()))

		buf.WriteString("  Headers:\n")
		keys := make([]string, 0, len(resp.Headers))
		for key := range resp.Headers {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			for _, value := range resp.Headers[key] {
				buf.WriteString(fmt.Sprintf("    %s: %s\n", f.scheme.HeaderKey.Sprint(key), value))
			}
		}
	}

	if detail := resp.ErrorDetail(); detail != nil {
		buf.WriteString(fmt.Sprintf("%s %s\n", ErrorIcon(f.NoColor), f.scheme.Error.Sprint(detail.Message)))
		return buf.String()
	}

	if body := resp.Body(); body != "" {
		buf.WriteString(formatJSONString(body))
		buf.WriteString("\n")
	}

	return buf.String()
}

// FormatValue formats an already extracted value.
func (f *Formatter) FormatValue(value string) string {
	return formatJSONString(value) + "\n"
}

// formatJSONString attempts to pretty-print a JSON string
func formatJSONString(s string) string {
	var prettyJSON bytes.Buffer
	err := json.Indent(&prettyJSON, []byte(s), "", "  ")
	if err != nil {
		return s
	}
	return prettyJSON.String()
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
