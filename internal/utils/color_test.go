package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHexRGB(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		r, g, b uint8
		wantErr bool
	}{
		{name: "lowercase", input: "#8b4513", r: 0x8b, g: 0x45, b: 0x13},
		{name: "uppercase", input: "#8B4513", r: 0x8b, g: 0x45, b: 0x13},
		{name: "white", input: "#ffffff", r: 255, g: 255, b: 255},
		{name: "black", input: "#000000", r: 0, g: 0, b: 0},
		{name: "missing hash", input: "8b4513", wantErr: true},
		{name: "garbage", input: "not-a-color", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, g, b, err := ParseHexRGB(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.r, r)
			assert.Equal(t, tt.g, g)
			assert.Equal(t, tt.b, b)
		})
	}
}

func TestFormatHexRGB(t *testing.T) {
	assert.Equal(t, "#8b4513", FormatHexRGB(0x8b, 0x45, 0x13))
	assert.Equal(t, "#000a0f", FormatHexRGB(0, 10, 15))
}

func TestBrightness(t *testing.T) {
	b, err := Brightness("#ffffff")
	require.NoError(t, err)
	assert.InDelta(t, 255.0, b, 0.0001)

	b, err = Brightness("#8B4513")
	require.NoError(t, err)
	assert.InDelta(t, (139.0+69.0+19.0)/3.0, b, 0.0001)

	_, err = Brightness("#zz")
	assert.Error(t, err)
}
