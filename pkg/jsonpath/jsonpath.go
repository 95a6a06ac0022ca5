// Package jsonpath extracts values from database responses with a small
// JSONPath dialect: $, .key, ['key'], ["key"] and [index].
package jsonpath

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// Extract extracts a value from a JSON string using a JSONPath expression.
// Strings are returned unquoted, null as "null" and objects or arrays as raw JSON.
func Extract(json string, path string) (string, error) {
	if json == "" {
		return "", fmt.Errorf("empty JSON string")
	}

	if path == "" {
		return "", fmt.Errorf("empty JSONPath expression")
	}

	gpath, err := ToGjsonPath(path)
	if err != nil {
		return "", err
	}

	result := gjson.Get(json, gpath)
	if !result.Exists() {
		return "", fmt.Errorf("path not found: %s", path)
	}

	if result.Type == gjson.Null {
		return "null", nil
	}

	return result.String(), nil
}

// ExtractMultiple extracts one value per named expression. Values that could
// be extracted are returned even when others fail.
func ExtractMultiple(json string, paths map[string]string) (map[string]string, error) {
	if json == "" {
		return nil, fmt.Errorf("empty JSON string")
	}

	if len(paths) == 0 {
		return nil, fmt.Errorf("no JSONPath expressions provided")
	}

	results := make(map[string]string)
	var errors []string

	for name, path := range paths {
		value, err := Extract(json, path)
		if err != nil {
			errors = append(errors, fmt.Sprintf("%s: %v", name, err))
			continue
		}
		results[name] = value
	}

	if len(errors) > 0 {
		return results, fmt.Errorf("extraction errors: %s", strings.Join(errors, "; "))
	}

	return results, nil
}

// ToGjsonPath converts a JSONPath expression to gjson path syntax:
//
//	$.users['-Nabc'].tags[0]  ->  users.-Nabc.tags.0
func ToGjsonPath(path string) (string, error) {
	rest := strings.TrimPrefix(strings.TrimSpace(path), "$")

	var parts []string
	for rest != "" {
		switch rest[0] {
		case '.':
			rest = rest[1:]
			end := strings.IndexAny(rest, ".[")
			if end < 0 {
				end = len(rest)
			}
			if end == 0 {
				return "", fmt.Errorf("invalid JSONPath %q: empty key", path)
			}
			parts = append(parts, escapeKey(rest[:end]))
			rest = rest[end:]
		case '[':
			end := strings.IndexByte(rest, ']')
			if end < 0 {
				return "", fmt.Errorf("invalid JSONPath %q: unclosed bracket", path)
			}
			inner := rest[1:end]
			if len(inner) >= 2 && (inner[0] == '\'' || inner[0] == '"') && inner[len(inner)-1] == inner[0] {
				inner = inner[1 : len(inner)-1]
			}
			parts = append(parts, escapeKey(inner))
			rest = rest[end+1:]
		default:
			// bare leading key, e.g. "users.42"
			end := strings.IndexAny(rest, ".[")
			if end < 0 {
				end = len(rest)
			}
			parts = append(parts, escapeKey(rest[:end]))
			rest = rest[end:]
		}
	}

	if len(parts) == 0 {
		return "@this", nil
	}
	return strings.Join(parts, "."), nil
}

// escapeKey escapes the characters gjson treats as path syntax.
func escapeKey(key string) string {
	var sb strings.Builder
	for _, r := range key {
		switch r {
		case '.', '*', '?', '|', '#', '@', '!', '=', '<', '>', '%', '\\':
			sb.WriteByte('\\')
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
