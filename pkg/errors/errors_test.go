package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotFoundError(t *testing.T) {
	err := NewNotFoundError("config", "ca_2038")

	assert.Equal(t, "config with ID ca_2038 not found", err.Error())
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.True(t, IsNotFound(err))
	assert.False(t, IsNotFound(errors.New("other")))
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("vote_url", "", "must not be empty")

	assert.Equal(t, "validation failed for field vote_url: must not be empty", err.Error())
	assert.True(t, errors.Is(err, ErrInvalidInput))
	assert.True(t, IsValidationError(err))

	bare := &ValidationError{Message: "bad row"}
	assert.Equal(t, "validation failed: bad row", bare.Error())
}

func TestDatasetError(t *testing.T) {
	tests := []struct {
		name        string
		err         *DatasetError
		want        string
		unavailable bool
	}{
		{
			name:        "server error maps to unavailable",
			err:         NewDatasetError("vote", "https://example.com/sov.zip", 503, "service unavailable"),
			want:        "dataset error for vote (status 503): service unavailable",
			unavailable: true,
		},
		{
			name:        "client error does not",
			err:         NewDatasetError("census", "https://example.com/cvap.csv", 404, "not found"),
			want:        "dataset error for census (status 404): not found",
			unavailable: false,
		},
		{
			name:        "no status code",
			err:         &DatasetError{Dataset: "shapefile", Message: "connection refused"},
			want:        "dataset error for shapefile: connection refused",
			unavailable: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
			assert.Equal(t, tt.unavailable, IsSourceUnavailable(tt.err))
		})
	}
}

func TestErrorUnwrapping(t *testing.T) {
	inner := errors.New("disk full")

	ioErr := NewIOError("write", "/tmp/vote_data_2022.csv", inner)
	assert.True(t, errors.Is(ioErr, inner))
	assert.Contains(t, ioErr.Error(), "/tmp/vote_data_2022.csv")

	parseErr := NewParseError("csv", "sov.csv", "bad record", inner)
	assert.True(t, errors.Is(parseErr, inner))

	resErr := NewResourceError("merge", "rollup", "governor", inner)
	assert.True(t, errors.Is(resErr, inner))
	assert.Contains(t, resErr.Error(), "failed to merge rollup governor")

	cfgErr := NewConfigError("sources", "missing url", inner)
	assert.True(t, errors.Is(cfgErr, inner))
}

func TestParseErrorWithPosition(t *testing.T) {
	err := &ParseError{Format: "csv", File: "blk_map.csv", Line: 12, Column: 3, Message: "not a number"}
	assert.Equal(t, "parse error in csv at blk_map.csv:12:3: not a number", err.Error())
}

func TestWrapHelpers(t *testing.T) {
	assert.Nil(t, WrapIO("read", "x", nil))
	assert.Nil(t, WrapParse("csv", "x", nil))
	assert.Nil(t, WrapResource("fetch", "dataset", "vote", nil))
	assert.Nil(t, WrapValidation("field", nil))
	assert.Nil(t, WrapDataset("vote", "u", 0, nil))

	err := WrapDataset("vote", "https://example.com", 500, fmt.Errorf("boom"))
	var dsErr *DatasetError
	assert.True(t, errors.As(err, &dsErr))
	assert.Equal(t, 500, dsErr.StatusCode)
}
