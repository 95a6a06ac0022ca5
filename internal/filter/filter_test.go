package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const users = `{"42":{"name":"Ada","age":36},"7":{"name":"Grace","age":45}}`

func TestApplyToJSON(t *testing.T) {
	tests := []struct {
		name string
		expr string
		want string
	}{
		{"identity", "", users},
		{"field", `.["42"].name`, `"Ada"`},
		{"keys", `keys`, `["42","7"]`},
		{"multiple results", `.[] | .age`, `[36,45]`},
		{"select with escaped bang", `[.[] | select(.name \!= "Ada") | .name]`, `["Grace"]`},
		{"no results", `.[] | select(.age > 100)`, `null`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ApplyToJSON([]byte(users), tt.expr)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(got))
		})
	}
}

func TestApplyToJSON_Errors(t *testing.T) {
	_, err := ApplyToJSON([]byte(users), `.[`)
	assert.ErrorContains(t, err, "invalid filter expression")

	_, err = ApplyToJSON([]byte(users), `.["42"].name | tonumber`)
	assert.ErrorContains(t, err, "filter error")

	_, err = ApplyToJSON([]byte(`not json`), `.`)
	assert.ErrorContains(t, err, "not JSON")
}

func TestApplyToJSON_EmptyBody(t *testing.T) {
	got, err := ApplyToJSON(nil, `.`)
	require.NoError(t, err)
	assert.Equal(t, "null", string(got))
}

func TestApply(t *testing.T) {
	data := map[string]interface{}{
		"a": map[string]interface{}{"n": 1.0},
		"b": map[string]interface{}{"n": 2.0},
	}

	got, err := Apply(data, "")
	require.NoError(t, err)
	assert.Equal(t, data, got)

	got, err = Apply(data, ".a.n")
	require.NoError(t, err)
	assert.Equal(t, 1.0, got)

	got, err = Apply(data, "[.[] | .n] | add")
	require.NoError(t, err)
	assert.Equal(t, 3.0, got)

	got, err = Apply(data, ".[] | .n")
	require.NoError(t, err)
	assert.ElementsMatch(t, []interface{}{1.0, 2.0}, got)

	got, err = Apply(data, ".missing")
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = Apply(data, "..[")
	assert.ErrorContains(t, err, "invalid filter expression")
}
