package scale

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   RGB
		wantOK bool
	}{
		{name: "six digit hex", input: "#3B82F6", want: RGB{0x3b, 0x82, 0xf6}, wantOK: true},
		{name: "three digit hex", input: "#fff", want: RGB{255, 255, 255}, wantOK: true},
		{name: "eight digit hex", input: "#00000080", want: RGB{0, 0, 0}, wantOK: true},
		{name: "eight digit hex fully transparent", input: "#00000000", wantOK: false},
		{name: "rgb", input: "rgb(239, 68, 68)", want: RGB{239, 68, 68}, wantOK: true},
		{name: "rgba opaque", input: "rgba(0, 0, 0, 1)", want: RGB{0, 0, 0}, wantOK: true},
		{name: "rgba zero alpha", input: "rgba(0, 0, 0, 0)", wantOK: false},
		{name: "space syntax", input: "rgb(10 20 30 / 50%)", want: RGB{10, 20, 30}, wantOK: true},
		{name: "transparent keyword", input: "transparent", wantOK: false},
		{name: "named color unsupported", input: "red", wantOK: false},
		{name: "hsl unsupported", input: "hsl(0, 100%, 50%)", wantOK: false},
		{name: "empty", input: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseColor(tt.input)
			require.Equal(t, tt.wantOK, ok)
			if ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestFindNearestColor(t *testing.T) {
	p := DefaultPalette()

	tests := []struct {
		name   string
		input  string
		want   string
		wantOK bool
	}{
		{name: "exact hex", input: "#ef4444", want: "red-500", wantOK: true},
		{name: "exact rgb", input: "rgb(59, 130, 246)", want: "blue-500", wantOK: true},
		{name: "near white", input: "rgb(250, 250, 250)", want: "gray-50", wantOK: true},
		{name: "near black", input: "rgb(3, 3, 3)", want: "black", wantOK: true},
		{name: "transparent", input: "rgba(0, 0, 0, 0)", wantOK: false},
		{name: "unparsable", input: "currentcolor", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := p.FindNearestColor(tt.input)
			require.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFindNearestColorThresholdBoundary(t *testing.T) {
	p := Palette{
		Swatches:  []Swatch{{Hex: "#000000", Name: "black"}},
		Threshold: 30,
	}

	_, ok := p.FindNearestColor("rgb(30, 0, 0)")
	assert.False(t, ok, "distance equal to threshold is rejected")

	got, ok := p.FindNearestColor("rgb(29, 0, 0)")
	require.True(t, ok)
	assert.Equal(t, "black", got)

	_, ok = p.FindNearestColor("rgb(200, 0, 0)")
	assert.False(t, ok)
}

func TestFindNearestColorExactMatchIgnoresThreshold(t *testing.T) {
	p := Palette{
		Swatches:  []Swatch{{Hex: "#123456", Name: "brand"}},
		Threshold: 0,
	}
	got, ok := p.FindNearestColor("#123456")
	require.True(t, ok)
	assert.Equal(t, "brand", got)

	_, ok = p.FindNearestColor("#123457")
	assert.False(t, ok)
}
