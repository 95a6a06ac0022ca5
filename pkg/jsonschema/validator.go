// Package jsonschema validates database payloads against JSON Schemas.
package jsonschema

import (
	"encoding/json"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ValidationErrors represents a collection of validation errors
type ValidationErrors []error

// Error implements the error interface for ValidationErrors
func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return ""
	}

	var sb strings.Builder
	for i, err := range ve {
		if i > 0 {
			sb.WriteString("; ")
		}
		sb.WriteString(err.Error())
	}
	return sb.String()
}

// Schema is a compiled JSON Schema.
type Schema struct {
	name   string
	schema *jsonschema.Schema
}

// Compile compiles schemaStr. name identifies the schema in error messages.
func Compile(name, schemaStr string) (*Schema, error) {
	compiler := jsonschema.NewCompiler()

	if err := compiler.AddResource(name, strings.NewReader(schemaStr)); err != nil {
		return nil, fmt.Errorf("invalid schema %s: %w", name, err)
	}

	schema, err := compiler.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("invalid schema %s: %w", name, err)
	}

	return &Schema{name: name, schema: schema}, nil
}

// CompileFile reads and compiles the schema stored at filename.
func CompileFile(filename string) (*Schema, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("error reading schema file: %w", err)
	}
	return Compile(filename, string(data))
}

// Name returns the name the schema was compiled with.
func (s *Schema) Name() string {
	return s.name
}

// Validate checks a JSON document against the schema. A nil return means the
// document is valid; otherwise the result is a ValidationErrors listing
// every failed keyword.
func (s *Schema) Validate(jsonStr string) error {
	var doc interface{}
	if err := json.Unmarshal([]byte(jsonStr), &doc); err != nil {
		return ValidationErrors{fmt.Errorf("invalid JSON: %w", err)}
	}

	err := s.schema.Validate(doc)
	if err == nil {
		return nil
	}
	if validationErr, ok := err.(*jsonschema.ValidationError); ok {
		return extractValidationErrors(validationErr)
	}
	return ValidationErrors{err}
}

// Validate validates a JSON string against a JSON Schema
// Returns true if the JSON is valid, false otherwise
// If there's an error in the schema or JSON parsing, it returns an error
func Validate(jsonStr, schemaStr string) (bool, error) {
	schema, err := Compile("schema.json", schemaStr)
	if err != nil {
		return false, err
	}

	var doc interface{}
	if err := json.Unmarshal([]byte(jsonStr), &doc); err != nil {
		return false, fmt.Errorf("invalid JSON: %w", err)
	}

	return schema.schema.Validate(doc) == nil, nil
}

// extractValidationErrors flattens a jsonschema.ValidationError tree,
// keeping only the entries that carry a message.
func extractValidationErrors(err *jsonschema.ValidationError) ValidationErrors {
	var errors ValidationErrors

	if err.Message != "" {
		location := err.InstanceLocation
		if location == "" {
			location = "/"
		}
		errors = append(errors, fmt.Errorf("validation error at %s: %s", location, err.Message))
	}

	for _, childErr := range err.Causes {
		errors = append(errors, extractValidationErrors(childErr)...)
	}

	return errors
}

// PathValidator applies schemas to payloads by locator. Patterns are
// relative to the database root and use path.Match syntax, e.g. "users/*".
// Every matching rule must pass.
type PathValidator struct {
	root  string
	rules []pathRule
}

type pathRule struct {
	pattern string
	schema  *Schema
}

// NewPathValidator creates a validator for locators under root.
func NewPathValidator(root string) *PathValidator {
	return &PathValidator{root: strings.TrimRight(root, "/")}
}

// Add registers schema for locators matching pattern.
func (v *PathValidator) Add(pattern string, schema *Schema) error {
	pattern = strings.Trim(pattern, "/")
	if _, err := path.Match(pattern, ""); err != nil {
		return fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}
	v.rules = append(v.rules, pathRule{pattern: pattern, schema: schema})
	return nil
}

// Len returns the number of registered rules.
func (v *PathValidator) Len() int {
	return len(v.rules)
}

// ValidatePayload validates payload against every rule matching locator.
// Locators outside root are not checked.
func (v *PathValidator) ValidatePayload(locator, payload string) error {
	if locator != v.root && !strings.HasPrefix(locator, v.root+"/") {
		return nil
	}
	rel := strings.Trim(strings.TrimPrefix(locator, v.root), "/")

	for _, rule := range v.rules {
		if ok, _ := path.Match(rule.pattern, rel); !ok {
			continue
		}
		if err := rule.schema.Validate(payload); err != nil {
			return fmt.Errorf("schema %s: %w", rule.schema.Name(), err)
		}
	}
	return nil
}
