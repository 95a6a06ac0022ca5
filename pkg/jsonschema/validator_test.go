package jsonschema

import (
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	// Test cases
	tests := []struct {
		name          string
		schema        string
		json          string
		expectedValid bool
		expectedError bool
	}{
		{
			name: "Valid simple object",
			schema: `{
				"type": "object",
				"properties": {
					"name": { "type": "string" },
					"age": { "type": "integer" }
				},
				"required": ["name"]
			}`,
			json: `{
				"name": "John Doe",
				"age": 30
			}`,
			expectedValid: true,
			expectedError: false,
		},
		{
			name: "Invalid - missing required property",
			schema: `{
				"type": "object",
				"properties": {
					"name": { "type": "string" },
					"age": { "type": "integer" }
				},
				"required": ["name"]
			}`,
			json: `{
				"age": 30
			}`,
			expectedValid: false,
			expectedError: false,
		},
		{
			name: "Invalid - wrong type",
			schema: `{
				"type": "object",
				"properties": {
					"name": { "type": "string" },
					"age": { "type": "integer" }
				}
			}`,
			json: `{
				"name": "John Doe",
				"age": "thirty"
			}`,
			expectedValid: false,
			expectedError: false,
		},
		{
			name: "Valid array",
			schema: `{
				"type": "array",
				"items": {
					"type": "object",
					"properties": {
						"id": { "type": "integer" },
						"name": { "type": "string" }
					},
					"required": ["id"]
				}
			}`,
			json: `[
				{ "id": 1, "name": "Item 1" },
				{ "id": 2, "name": "Item 2" }
			]`,
			expectedValid: true,
			expectedError: false,
		},
		{
			name: "Invalid array item",
			schema: `{
				"type": "array",
				"items": {
					"type": "object",
					"properties": {
						"id": { "type": "integer" },
						"name": { "type": "string" }
					},
					"required": ["id"]
				}
			}`,
			json: `[
				{ "id": 1, "name": "Item 1" },
				{ "name": "Missing ID" }
			]`,
			expectedValid: false,
			expectedError: false,
		},
		{
			name: "Invalid schema",
			schema: `{
				"type": "invalid-type"
			}`,
			json:          `{}`,
			expectedValid: false,
			expectedError: true,
		},
		{
			name: "Invalid JSON",
			schema: `{
				"type": "object"
			}`,
			json:          `{ invalid json }`,
			expectedValid: false,
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			valid, err := Validate(tt.json, tt.schema)

			// Check error
			if tt.expectedError && err == nil {
				t.Errorf("Expected error, got nil")
			}
			if !tt.expectedError && err != nil {
				t.Errorf("Expected no error, got %v", err)
			}

			// If we expect an error, don't check validity
			if tt.expectedError {
				return
			}

			// Check validity
			if valid != tt.expectedValid {
				t.Errorf("Expected valid=%v, got %v", tt.expectedValid, valid)
			}
		})
	}
}

func TestSchema_Validate(t *testing.T) {
	schema, err := Compile("user.json", `{
		"type": "object",
		"properties": {
			"name": { "type": "string" },
			"age": { "type": "integer", "minimum": 0 }
		},
		"required": ["name"]
	}`)
	if err != nil {
		t.Fatalf("Unexpected compile error: %v", err)
	}

	if err := schema.Validate(`{"name":"Ada","age":36}`); err != nil {
		t.Errorf("Expected valid document, got %v", err)
	}

	err = schema.Validate(`{"age":-1}`)
	if err == nil {
		t.Fatal("Expected validation errors")
	}
	errs, ok := err.(ValidationErrors)
	if !ok {
		t.Fatalf("Expected ValidationErrors, got %T", err)
	}
	if len(errs) < 2 {
		t.Errorf("Expected at least 2 errors (required, minimum), got %d: %v", len(errs), errs)
	}
	if !strings.Contains(err.Error(), "name") {
		t.Errorf("Expected the missing property to be named, got %s", err)
	}

	if err := schema.Validate(`{`); err == nil || !strings.Contains(err.Error(), "invalid JSON") {
		t.Errorf("Expected an invalid JSON error, got %v", err)
	}
}

func TestCompile_InvalidSchema(t *testing.T) {
	if _, err := Compile("bad.json", `{"type": 12}`); err == nil {
		t.Error("Expected an error for an invalid schema")
	}
	if _, err := Compile("broken.json", `{`); err == nil {
		t.Error("Expected an error for malformed schema JSON")
	}
}

func TestPathValidator(t *testing.T) {
	user, err := Compile("user.json", `{"type":"object","required":["name"]}`)
	if err != nil {
		t.Fatalf("Unexpected compile error: %v", err)
	}
	counter, err := Compile("counter.json", `{"type":"integer"}`)
	if err != nil {
		t.Fatalf("Unexpected compile error: %v", err)
	}

	v := NewPathValidator("https://x.test/db/")
	if err := v.Add("users/*", user); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if err := v.Add("/stats/visits/", counter); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if err := v.Add("[", counter); err == nil {
		t.Error("Expected an error for a malformed pattern")
	}
	if v.Len() != 2 {
		t.Errorf("Expected 2 rules, got %d", v.Len())
	}

	tests := []struct {
		locator string
		payload string
		wantErr bool
	}{
		{"https://x.test/db/users/42", `{"name":"Ada"}`, false},
		{"https://x.test/db/users/42", `{"age":1}`, true},
		{"https://x.test/db/users", `{"age":1}`, false},
		{"https://x.test/db/users/42/name", `"Ada"`, false},
		{"https://x.test/db/stats/visits", `12`, false},
		{"https://x.test/db/stats/visits", `"twelve"`, true},
		{"https://other.test/users/42", `{"age":1}`, false},
		{"https://x.test/db", `{}`, false},
	}

	for _, tt := range tests {
		err := v.ValidatePayload(tt.locator, tt.payload)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidatePayload(%s, %s) error = %v, wantErr %v", tt.locator, tt.payload, err, tt.wantErr)
		}
	}
}
