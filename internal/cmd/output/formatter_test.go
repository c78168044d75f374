package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	for _, valid := range []string{"table", "json", "yaml", "JSON", ""} {
		_, err := ParseFormat(valid)
		assert.NoError(t, err, valid)
	}
	_, err := ParseFormat("xml")
	assert.Error(t, err)
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter(FormatJSON)
	require.NoError(t, f.Format(&buf, map[string]string{"dataset": "vote"}))
	assert.Contains(t, buf.String(), `"dataset": "vote"`)
}

func TestYAMLFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter(FormatYAML)
	require.NoError(t, f.Format(&buf, map[string]string{"dataset": "vote"}))
	assert.Contains(t, buf.String(), "dataset: vote")
}

func TestTableFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter(FormatTable)
	data := Data{
		Headers: []string{"Dataset", "Url"},
		Rows:    [][]string{{"vote", "https://example.com/sov.zip"}},
	}
	require.NoError(t, f.Format(&buf, data))
	out := buf.String()
	assert.Contains(t, out, "vote")
	assert.Contains(t, out, "https://example.com/sov.zip")
}

func TestTableFormatterFallsBackToJSON(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter(FormatTable)
	require.NoError(t, f.Format(&buf, map[string]int{"edges": 3}))
	assert.True(t, strings.HasPrefix(strings.TrimSpace(buf.String()), "{"))
}

func TestHeader(t *testing.T) {
	assert.Equal(t, "Total Vote", Header("total_vote"))
}
