package http

import (
	"fmt"
	"strings"
)

// Method is an HTTP verb understood by the database service.
type Method string

const (
	// MethodGet reads the JSON stored at a location.
	MethodGet Method = "GET"
	// MethodPut replaces the subtree at a location.
	MethodPut Method = "PUT"
	// MethodPost appends a child with a server generated key.
	MethodPost Method = "POST"
	// MethodPatch merges the given keys into a location.
	MethodPatch Method = "PATCH"
	// MethodDelete removes the subtree at a location.
	MethodDelete Method = "DELETE"
)

// Valid reports whether m is one of the supported verbs.
func (m Method) Valid() bool {
	switch m {
	case MethodGet, MethodPut, MethodPost, MethodPatch, MethodDelete:
		return true
	}
	return false
}

// HasBody reports whether requests with this verb carry a payload.
func (m Method) HasBody() bool {
	return m == MethodPut || m == MethodPost || m == MethodPatch
}

func (m Method) String() string {
	return string(m)
}

// ParseMethod converts a case-insensitive verb name into a Method.
func ParseMethod(s string) (Method, error) {
	m := Method(strings.ToUpper(strings.TrimSpace(s)))
	if !m.Valid() {
		return "", fmt.Errorf("unsupported method: %s", s)
	}
	return m, nil
}
