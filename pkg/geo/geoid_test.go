package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeBlock(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		want    GEOID
		wantErr bool
	}{
		{
			name: "swdb key without state leading zero",
			key:  "60750179031000",
			want: GEOID("060750179031000"),
		},
		{
			name: "already full width",
			key:  "060750179031000",
			want: GEOID("060750179031000"),
		},
		{
			name: "surrounding whitespace",
			key:  " 60750179031000 ",
			want: GEOID("060750179031000"),
		},
		{name: "empty", key: "", wantErr: true},
		{name: "too long", key: "0607501790310001", wantErr: true},
		{name: "non numeric", key: "06075017903100X", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeBlock(tt.key)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTruncate(t *testing.T) {
	block := GEOID("060750179031000")

	assert.Equal(t, GEOID("060750179031"), block.Truncate(LevelBlockGroup))
	assert.Equal(t, GEOID("06075017903"), block.Truncate(LevelTract))
	assert.Equal(t, GEOID("06075"), block.Truncate(LevelCounty))
	assert.Equal(t, block, block.Truncate(LevelBlock))
	assert.Equal(t, "06075", block.County())

	// Shorter than the requested level is returned unchanged.
	short := GEOID("06075")
	assert.Equal(t, short, short.Truncate(LevelBlockGroup))
}

func TestIsWaterBlockGroup(t *testing.T) {
	// Block group digit is position 12 of the normalized GEOID.
	assert.True(t, GEOID("060759804010000").IsWaterBlockGroup())
	assert.True(t, GEOID("060759804010").IsWaterBlockGroup())
	assert.False(t, GEOID("060750179031000").IsWaterBlockGroup())
	assert.False(t, GEOID("06075").IsWaterBlockGroup())
}

func TestParseLevel(t *testing.T) {
	for _, l := range Levels() {
		got, err := ParseLevel(string(l))
		require.NoError(t, err)
		assert.Equal(t, l, got)
	}

	got, err := ParseLevel(" BlockGroup ")
	require.NoError(t, err)
	assert.Equal(t, LevelBlockGroup, got)

	_, err = ParseLevel("district")
	assert.Error(t, err)
}

func TestLevelWidths(t *testing.T) {
	assert.Equal(t, 15, LevelBlock.Width())
	assert.Equal(t, 12, LevelBlockGroup.Width())
	assert.Equal(t, 11, LevelTract.Width())
	assert.Equal(t, 5, LevelCounty.Width())
	assert.False(t, Level("precinct").IsValid())
}
