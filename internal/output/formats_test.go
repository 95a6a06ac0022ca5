package output

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/wesleyorama2/rtdb/http"
)

func TestParseFormat(t *testing.T) {
	for _, s := range []string{"text", "json", "YAML", "raw"} {
		_, err := ParseFormat(s)
		assert.NoError(t, err, s)
	}
	_, err := ParseFormat("junit")
	assert.ErrorContains(t, err, "unknown output format")
}

func TestGetFormatter(t *testing.T) {
	assert.IsType(t, &Formatter{}, GetFormatter(FormatText, false, true))
	assert.IsType(t, &JSONFormatter{}, GetFormatter(FormatJSON, false, true))
	assert.IsType(t, &YAMLFormatter{}, GetFormatter(FormatYAML, false, true))
	assert.IsType(t, RawFormatter{}, GetFormatter(FormatRaw, false, true))
	assert.IsType(t, &Formatter{}, GetFormatter("other", false, true))
}

func TestJSONFormatter_FormatResponse(t *testing.T) {
	f := &JSONFormatter{}

	var data ResponseData
	require.NoError(t, json.Unmarshal([]byte(f.FormatResponse(http.NewResponse(200, `{"name":"-N1"}`))), &data))
	assert.Equal(t, 200, data.StatusCode)
	assert.True(t, data.Success)
	assert.Equal(t, map[string]interface{}{"name": "-N1"}, data.Body)
	assert.Nil(t, data.Timing)

	require.NoError(t, json.Unmarshal([]byte(f.FormatResponse(http.NewResponse(404, "gone"))), &data))
	assert.False(t, data.Success)
	assert.Equal(t, "gone", data.Error)
	assert.Equal(t, "gone", data.Body)
}

func TestJSONFormatter_Verbose(t *testing.T) {
	f := &JSONFormatter{Verbose: true, Pretty: true}
	req := http.NewRequest(http.MethodPost, "https://x.test/db/posts").WithJSON(`{"t":1}`)

	var reqData RequestData
	require.NoError(t, json.Unmarshal([]byte(f.FormatRequest(req)), &reqData))
	assert.Equal(t, "POST", reqData.Method)
	assert.Equal(t, map[string]interface{}{"t": float64(1)}, reqData.Body)

	var data ResponseData
	require.NoError(t, json.Unmarshal([]byte(f.FormatResponse(http.NewResponse(200, "null"))), &data))
	assert.NotNil(t, data.Timing)
	assert.Nil(t, data.Body)
}

func TestYAMLFormatter(t *testing.T) {
	f := &YAMLFormatter{}
	out := f.FormatResponse(http.NewResponse(200, `{"a":[1,2]}`))

	var data map[string]interface{}
	require.NoError(t, yaml.Unmarshal([]byte(out), &data))
	assert.Equal(t, 200, data["statusCode"])
	assert.Equal(t, map[string]interface{}{"a": []interface{}{1, 2}}, data["body"])

	assert.Empty(t, f.FormatRequest(http.NewRequest(http.MethodGet, "https://x.test")))
	assert.Equal(t, "---\nAda\n", f.FormatValue(`"Ada"`))
}

func TestRawFormatter(t *testing.T) {
	f := RawFormatter{}
	assert.Equal(t, "{\"a\":1}\n", f.FormatResponse(http.NewResponse(200, `{"a":1}`)))
	assert.Equal(t, "x\n", f.FormatValue("x"))
	assert.Empty(t, f.FormatRequest(http.NewRequest(http.MethodGet, "https://x.test")))
}

func TestUseColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	assert.False(t, UseColor(nil, false))
	assert.Equal(t, "✗", ErrorIcon(true))
	assert.Equal(t, "✓", SuccessIcon(true))
}
