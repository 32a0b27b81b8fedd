package normalize

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/dtnitsch/ninja-snatch/models"
	"github.com/dtnitsch/ninja-snatch/pkg/dom"
)

type fixedStyle dom.Style

func (f fixedStyle) ComputedStyle(*html.Node) (dom.Style, error) {
	return dom.Style(f), nil
}

type brokenStyle struct{}

func (brokenStyle) ComputedStyle(*html.Node) (dom.Style, error) {
	return nil, errors.New("detached")
}

func element(t *testing.T, src dom.StyleSource) dom.Element {
	t.Helper()
	doc, err := dom.ParseString(`<div id="el"></div>`, nil)
	require.NoError(t, err)
	doc.Styles = src
	el, err := doc.Select("#el")
	require.NoError(t, err)
	return el
}

func newNormalizer(mode models.Mode) *Normalizer {
	cfg := models.DefaultConfig()
	cfg.Mode = mode
	return New(cfg)
}

func TestExtractStylesSpacingScenario(t *testing.T) {
	style := fixedStyle{"margin-top": "17px", "display": "flex", "gap": "16px"}

	res, err := newNormalizer(models.ModeLoose).ExtractStyles(element(t, style))
	require.NoError(t, err)
	assert.Contains(t, res.ClassList, "mt-4")
	assert.Contains(t, res.ClassList, "gap-4")
	assert.Contains(t, res.ClassList, "flex")
	assert.Equal(t, "mt-4", res.Details["marginTop"])
	assert.Equal(t, "gap-4", res.Details["gap"])
	assert.Equal(t, "flex", res.Details["display"])
}

func TestExtractStylesStrictMode(t *testing.T) {
	style := fixedStyle{"margin-top": "17px", "margin-bottom": "16px", "display": "flex", "gap": "17px"}

	res, err := newNormalizer(models.ModeStrict).ExtractStyles(element(t, style))
	require.NoError(t, err)
	assert.Contains(t, res.ClassList, "mt-[17px]")
	assert.NotContains(t, res.ClassList, "mt-4")
	assert.Contains(t, res.ClassList, "mb-4")
	assert.Contains(t, res.ClassList, "gap-4")
}

func TestExtractStylesIdempotent(t *testing.T) {
	style := fixedStyle{
		"display": "grid", "grid-template-columns": "repeat(3, 1fr)", "gap": "24px",
		"padding-top": "8px", "padding-left": "13px", "font-size": "18px", "line-height": "27px",
		"color": "rgb(17, 24, 39)", "background-color": "rgb(255, 255, 255)",
		"border-top-width": "1px", "border-top-style": "solid", "border-top-color": "#e5e7eb",
		"border-radius": "8px", "box-shadow": "0 1px 2px rgba(0,0,0,.05)", "position": "relative",
	}
	el := element(t, style)
	n := newNormalizer(models.ModeLoose)

	first, err := n.ExtractStyles(el)
	require.NoError(t, err)
	second, err := n.ExtractStyles(el)
	require.NoError(t, err)
	assert.Equal(t, first.ClassList, second.ClassList)
	assert.Equal(t, first.Details, second.Details)
}

func TestExtractStylesErrors(t *testing.T) {
	n := newNormalizer(models.ModeLoose)

	_, err := n.ExtractStyles(nil)
	assert.ErrorIs(t, err, dom.ErrNoComputedStyle)

	_, err = n.ExtractStyles(element(t, nil))
	assert.ErrorIs(t, err, dom.ErrNoComputedStyle)

	_, err = n.ExtractStyles(element(t, brokenStyle{}))
	assert.Error(t, err)
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name    string
		style   dom.Style
		mode    models.Mode
		want    []string
		without []string
	}{
		{
			name:  "display none",
			style: dom.Style{"display": "none"},
			want:  []string{"hidden"},
		},
		{
			name:    "unmapped display",
			style:   dom.Style{"display": "ruby"},
			without: []string{"ruby"},
		},
		{
			name:  "flex column centered",
			style: dom.Style{"display": "flex", "flex-direction": "column", "flex-wrap": "wrap", "justify-content": "space-between", "align-items": "center"},
			want:  []string{"flex", "flex-col", "flex-wrap", "justify-between", "items-center"},
		},
		{
			name:    "flex row emits no direction",
			style:   dom.Style{"display": "flex", "flex-direction": "row", "gap": "normal"},
			want:    []string{"flex"},
			without: []string{"flex-row", "gap-0"},
		},
		{
			name:    "flex properties ignored on block",
			style:   dom.Style{"display": "block", "flex-direction": "column", "gap": "16px"},
			want:    []string{"block"},
			without: []string{"flex-col", "gap-4"},
		},
		{
			name:  "grid with repeat",
			style: dom.Style{"display": "grid", "grid-template-columns": "repeat(4, minmax(0, 1fr))", "gap": "8px"},
			want:  []string{"grid", "grid-cols-4", "gap-2"},
		},
		{
			name:  "grid with resolved tracks",
			style: dom.Style{"display": "grid", "grid-template-columns": "200px 200px 200px"},
			want:  []string{"grid-cols-3"},
		},
		{
			name:  "grid columns clamped",
			style: dom.Style{"display": "grid", "grid-template-columns": "repeat(20, 10px)"},
			want:  []string{"grid-cols-12"},
		},
		{
			name:    "zero and auto spacing skipped",
			style:   dom.Style{"margin-top": "0px", "margin-left": "auto", "padding-top": "24px"},
			want:    []string{"pt-6"},
			without: []string{"mt-0", "ml-auto"},
		},
		{
			name:  "negative margin",
			style: dom.Style{"margin-top": "-8px"},
			want:  []string{"-mt-2"},
		},
		{
			name:  "negative margin strict",
			style: dom.Style{"margin-top": "-9px"},
			mode:  models.ModeStrict,
			want:  []string{"mt-[-9px]"},
		},
		{
			name:  "sizing keywords",
			style: dom.Style{"width": "100%", "height": "100vh"},
			want:  []string{"w-full", "h-screen"},
		},
		{
			name:    "pixel width not normalized",
			style:   dom.Style{"width": "320px", "height": "fit-content"},
			want:    []string{"h-fit"},
			without: []string{"w-80"},
		},
		{
			name:  "typography",
			style: dom.Style{"font-size": "24px", "font-weight": "700", "text-align": "center", "line-height": "36px"},
			want:  []string{"text-2xl", "font-bold", "text-center", "leading-normal"},
		},
		{
			name:    "unmapped font weight",
			style:   dom.Style{"font-weight": "650"},
			without: []string{"font-semibold", "font-bold"},
		},
		{
			name:  "unitless line height",
			style: dom.Style{"font-size": "16px", "line-height": "1.25"},
			want:  []string{"leading-tight"},
		},
		{
			name:    "colors",
			style:   dom.Style{"color": "rgb(239, 68, 68)", "background-color": "rgba(0, 0, 0, 0)"},
			want:    []string{"text-red-500"},
			without: []string{"bg-black"},
		},
		{
			name:    "far color rejected",
			style:   dom.Style{"color": "rgb(120, 200, 10)"},
			without: []string{"text-green-500", "text-lime-500"},
		},
		{
			name:  "border",
			style: dom.Style{"border-top-width": "2px", "border-top-style": "solid", "border-top-color": "rgb(59, 130, 246)", "border-radius": "6px"},
			want:  []string{"border-2", "border-blue-500", "rounded-md"},
		},
		{
			name:    "border style none",
			style:   dom.Style{"border-top-width": "2px", "border-top-style": "none", "border-top-color": "rgb(0, 0, 0)"},
			without: []string{"border-2", "border-black"},
		},
		{
			name:    "unmapped border width",
			style:   dom.Style{"border-top-width": "3px", "border-top-style": "solid", "border-top-color": "#000000"},
			want:    []string{"border-black"},
			without: []string{"border-3"},
		},
		{
			name:  "circle radius",
			style: dom.Style{"border-radius": "50%"},
			want:  []string{"rounded-full"},
		},
		{
			name:  "effects",
			style: dom.Style{"opacity": "0.42", "box-shadow": "rgba(0, 0, 0, 0.1) 0px 1px 3px 0px", "overflow": "hidden"},
			want:  []string{"opacity-40", "shadow", "overflow-hidden"},
		},
		{
			name:    "opaque and no shadow",
			style:   dom.Style{"opacity": "1", "box-shadow": "none", "overflow": "visible"},
			without: []string{"opacity-100", "shadow", "overflow-visible"},
		},
		{
			name:  "position and z-index",
			style: dom.Style{"position": "absolute", "z-index": "37"},
			want:  []string{"absolute", "z-40"},
		},
		{
			name:    "static position and low z-index",
			style:   dom.Style{"position": "static", "z-index": "3"},
			without: []string{"static", "z-0"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mode := tt.mode
			if mode == "" {
				mode = models.ModeLoose
			}
			res := newNormalizer(mode).Normalize(tt.style)
			for _, w := range tt.want {
				assert.Contains(t, res.ClassList, w)
			}
			for _, w := range tt.without {
				assert.NotContains(t, res.ClassList, w)
			}
		})
	}
}

func TestNormalizeNoDuplicates(t *testing.T) {
	res := newNormalizer(models.ModeLoose).Normalize(dom.Style{
		"margin-top": "16px", "margin-bottom": "16px", "padding-top": "16px", "padding-bottom": "17px",
	})
	assert.Equal(t, []string{"mt-4", "mb-4", "pt-4", "pb-4"}, res.ClassList)

	seen := map[string]bool{}
	for _, c := range res.ClassList {
		assert.False(t, seen[c], "duplicate %s", c)
		seen[c] = true
	}
}

func TestGridColumnCount(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"none", 0},
		{"", 0},
		{"1fr 1fr", 2},
		{"repeat(3, 1fr)", 3},
		{"[full-start] minmax(1rem, 1fr) [content-start] 60ch [content-end] minmax(1rem, 1fr) [full-end]", 3},
		{"repeat(auto-fill, minmax(200px, 1fr))", 1},
		{"100px repeat(2, 50px) auto", 4},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, gridColumnCount(tt.in))
		})
	}
}

func TestParseInt(t *testing.T) {
	tests := []struct {
		in     string
		want   int
		wantOK bool
	}{
		{"17px", 17, true},
		{"17.8px", 17, true},
		{"-4px", -4, true},
		{"0", 0, true},
		{"auto", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := parseInt(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
