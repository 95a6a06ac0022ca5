// Package filter applies jq expressions to database responses.
package filter

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/itchyny/gojq"
)

// NormalizeExpression fixes shell-escaped operators in jq expressions.
// Zsh escapes ! to \! even in single quotes, breaking operators like !=.
func NormalizeExpression(expr string) string {
	return strings.ReplaceAll(strings.TrimSpace(expr), `\!`, `!`)
}

// Apply runs expression against already decoded JSON data. A single result
// is returned as is; multiple results are collected into a slice.
func Apply(data interface{}, expression string) (interface{}, error) {
	if expression == "" {
		return data, nil
	}

	query, err := gojq.Parse(NormalizeExpression(expression))
	if err != nil {
		return nil, fmt.Errorf("invalid filter expression: %w", err)
	}

	iter := query.Run(data)

	var results []interface{}
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if err, ok := v.(error); ok {
			return nil, fmt.Errorf("filter error: %w", err)
		}
		results = append(results, v)
	}

	switch len(results) {
	case 0:
		return nil, nil
	case 1:
		return results[0], nil
	}
	return results, nil
}

// ApplyToJSON decodes body, runs expression and re-encodes the result.
func ApplyToJSON(body []byte, expression string) ([]byte, error) {
	var data interface{}
	if len(body) > 0 {
		if err := json.Unmarshal(body, &data); err != nil {
			return nil, fmt.Errorf("response is not JSON: %w", err)
		}
	}

	result, err := Apply(data, expression)
	if err != nil {
		return nil, err
	}

	return json.Marshal(result)
}
