package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf)

	logger.Info().Str("dataset", "vote").Msg("fetched")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "fetched", entry["message"])
	assert.Equal(t, "vote", entry["dataset"])
	assert.NotEmpty(t, entry["time"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zerolog.WarnLevel, parseLevel("WARN"))
	assert.Equal(t, zerolog.InfoLevel, parseLevel("not-a-level"))
}

func TestContextRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf)

	ctx := WithLogger(context.Background(), &logger)
	got := FromContext(ctx)
	require.NotNil(t, got)

	got.Info().Msg("from context")
	assert.Contains(t, buf.String(), "from context")
}

func TestFromContextFallsBack(t *testing.T) {
	assert.Equal(t, Default(), FromContext(context.Background()))
	assert.Equal(t, Default(), FromContext(nil)) //nolint:staticcheck // exercising nil handling
	assert.Equal(t, Default(), Ctx(context.Background()))
}

func TestConfigureRespectsLevel(t *testing.T) {
	prev := *Default()
	defer SetDefault(prev)

	Configure(&Config{Level: "warn", Format: "json", Output: "discard"})
	assert.Equal(t, zerolog.WarnLevel, Default().GetLevel())
}
