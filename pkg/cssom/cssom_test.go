package cssom

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtnitsch/ninja-snatch/models"
	"github.com/dtnitsch/ninja-snatch/pkg/dom"
)

type mapLoader map[string]string

func (m mapLoader) Load(_ context.Context, u *url.URL) ([]byte, error) {
	if s, ok := m[u.String()]; ok {
		return []byte(s), nil
	}
	return nil, errors.New("not found")
}

var testViewport = models.Viewport{Width: 1280, Height: 800}

func TestParseStyleSheetKinds(t *testing.T) {
	css := `
.a { color: red; }
@media (min-width: 600px) { .b { margin: 0; } }
@keyframes spin { from { opacity: 0; } to { opacity: 1; } }
@font-face { font-family: "Inter"; src: url(inter.woff2); }
@supports (display: grid) { .c { display: grid; } }
@page { margin: 1cm; }
`
	sheet, err := ParseStyleSheet(css, "inline")
	require.NoError(t, err)
	require.Len(t, sheet.Rules, 6)

	kinds := make([]RuleKind, 0, len(sheet.Rules))
	for _, r := range sheet.Rules {
		kinds = append(kinds, r.Kind)
	}
	assert.Equal(t, []RuleKind{KindStyle, KindMedia, KindKeyframes, KindFontFace, KindSupports, KindOther}, kinds)

	assert.Equal(t, ".a", sheet.Rules[0].Selector)
	assert.Equal(t, "(min-width: 600px)", sheet.Rules[1].Prelude)
	require.Len(t, sheet.Rules[1].Rules, 1)
	assert.Equal(t, ".b", sheet.Rules[1].Rules[0].Selector)
	assert.Equal(t, "spin", sheet.Rules[2].Name())

	family, ok := sheet.Rules[3].Value("font-family")
	require.True(t, ok)
	assert.Equal(t, `"Inter"`, family)
}

func TestParseStyleSheetGroupingRules(t *testing.T) {
	css := `
@layer base, components;
@layer components { .card { padding: 4px; } @media (min-width: 600px) { .card { padding: 8px; } } }
@container sidebar (min-width: 400px) { .card h3 { font-size: 20px; } }
@-webkit-keyframes pulse { from { opacity: 0; } to { opacity: 1; } }
/* @container ignored { } */
.after { content: "@layer x { }"; }
`
	sheet, err := ParseStyleSheet(css, "inline")
	require.NoError(t, err)
	require.Len(t, sheet.Rules, 5)

	kinds := make([]RuleKind, 0, len(sheet.Rules))
	for _, r := range sheet.Rules {
		kinds = append(kinds, r.Kind)
	}
	assert.Equal(t, []RuleKind{KindLayer, KindLayer, KindContainer, KindKeyframes, KindStyle}, kinds)

	assert.Equal(t, "base, components", sheet.Rules[0].Prelude)
	assert.Empty(t, sheet.Rules[0].Rules)
	assert.Equal(t, "@layer base, components;\n", sheet.Rules[0].String())

	layer := sheet.Rules[1]
	require.Len(t, layer.Rules, 2)
	assert.Equal(t, ".card", layer.Rules[0].Selector)
	assert.Equal(t, KindMedia, layer.Rules[1].Kind)
	require.Len(t, layer.Rules[1].Rules, 1)

	container := sheet.Rules[2]
	assert.Equal(t, "sidebar (min-width: 400px)", container.Prelude)
	require.Len(t, container.Rules, 1)
	assert.Equal(t, ".card h3", container.Rules[0].Selector)

	assert.Equal(t, "@-webkit-keyframes", sheet.Rules[3].AtName)
	assert.Equal(t, "pulse", sheet.Rules[3].Name())
	assert.Equal(t, ".after", sheet.Rules[4].Selector)
}

func TestRuleString(t *testing.T) {
	sheet, err := ParseStyleSheet(`.card h3 { font-weight: 700 !important; } @media screen { .x { color: red; } }`, "inline")
	require.NoError(t, err)
	require.Len(t, sheet.Rules, 2)

	assert.Equal(t, ".card h3 {\n  font-weight: 700 !important;\n}\n", sheet.Rules[0].String())
	assert.Equal(t, "@media screen {\n  .x {\n    color: red;\n  }\n}\n", sheet.Rules[1].String())
}

func TestCollect(t *testing.T) {
	page := `<html><head>
		<link rel="stylesheet" href="/css/site.css">
		<style>.inline { color: blue; }</style>
		<link rel="stylesheet" href="https://cdn.other.test/lib.css">
		<link rel="stylesheet" href="/missing.css">
		<link rel="icon" href="/favicon.ico">
		<style media="print">.print-only { display: none; }</style>
	</head><body></body></html>`
	base, _ := url.Parse("https://example.test/page")
	doc, err := dom.ParseString(page, base)
	require.NoError(t, err)

	loader := mapLoader{
		"https://example.test/css/site.css": `@import "base.css"; .site { margin: 0; }`,
		"https://example.test/css/base.css": `html { font-size: 16px; }`,
	}
	coll := Collect(context.Background(), doc, loader, nil)

	require.Len(t, coll.Sheets, 3)
	assert.Equal(t, "https://example.test/css/base.css", coll.Sheets[0].Href)
	assert.Equal(t, "https://example.test/css/site.css", coll.Sheets[1].Href)
	assert.Equal(t, "inline", coll.Sheets[2].Href)
	assert.Equal(t, 2, coll.Skipped)

	rules := coll.Rules()
	require.Len(t, rules, 3)
	assert.Equal(t, "html", rules[0].Selector)
	assert.Equal(t, ".site", rules[1].Selector)
	assert.Equal(t, ".inline", rules[2].Selector)
}

func TestCollectWithoutLoader(t *testing.T) {
	doc, err := dom.ParseString(`<link rel="stylesheet" href="site.css"><style>p { margin: 0 }</style>`, nil)
	require.NoError(t, err)

	coll := Collect(context.Background(), doc, nil, nil)
	assert.Len(t, coll.Sheets, 1)
	assert.Equal(t, 1, coll.Skipped)
}

func TestMediaActive(t *testing.T) {
	tests := []struct {
		query string
		want  bool
	}{
		{"", true},
		{"screen", true},
		{"print", false},
		{"(min-width: 768px)", true},
		{"(max-width: 600px)", false},
		{"screen and (min-width: 40em)", true},
		{"screen and (min-width: 1440px)", false},
		{"print, (orientation: landscape)", true},
		{"(orientation: portrait)", false},
		{"not print", true},
		{"only screen and (max-width: 1280px)", true},
		{"(prefers-color-scheme: dark)", false},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, MediaActive(tt.query, testViewport))
		})
	}
}

const enginePage = `<html><head><style>
.card { font-size: 20px; padding: 1em 0.5em; color: #ef4444; border: 1px solid #e5e7eb;
        margin-left: 3px !important; margin-bottom: 1px; background: url(x.png) no-repeat #fff; }
div.card { margin-top: 8px; }
#hero { margin-top: 4px; }
.row { display: flex; gap: 1rem; margin-top: 17px; }
.plain { border-width: 2px; }
p { line-height: 1.5; }
.named { color: red; }
.lh { font-size: 16px; line-height: 150%; }
.ratio { font-size: 16px; line-height: 1.5; }
.lh em, .ratio em { font-size: 32px; }
@media (max-width: 600px) { .card { display: none; } }
@media (min-width: 1024px) { .card { opacity: .5; } }
</style></head>
<body>
<div id="hero" class="card" style="margin-left: 9px; margin-bottom: 5px"><span>inherit</span><p>text</p></div>
<div class="row"></div>
<div class="plain named"></div>
<div class="lh"><em>fixed</em></div>
<div class="ratio"><em>scaled</em></div>
<div class="shadow-host"><template shadowrootmode="open"><i>open</i></template><template><i>inert</i></template></div>
<h1>Title</h1>
<b>bold</b>
</body></html>`

func engineStyle(t *testing.T, selector string) dom.Style {
	t.Helper()
	doc, err := dom.ParseString(enginePage, nil)
	require.NoError(t, err)
	doc.Styles = NewEngine(Collect(context.Background(), doc, nil, nil), testViewport)

	el, err := doc.Select(selector)
	require.NoError(t, err)
	st, err := el.ComputedStyle()
	require.NoError(t, err)
	return st
}

func TestEngineComputedStyle(t *testing.T) {
	tests := []struct {
		selector string
		prop     string
		want     string
	}{
		{"#hero", "display", "block"},
		{"#hero", "font-size", "20px"},
		{"#hero", "padding-top", "20px"},
		{"#hero", "padding-right", "10px"},
		{"#hero", "margin-top", "4px"},
		{"#hero", "margin-left", "3px"},
		{"#hero", "margin-bottom", "5px"},
		{"#hero", "color", "rgb(239, 68, 68)"},
		{"#hero", "border-top-width", "1px"},
		{"#hero", "border-top-color", "rgb(229, 231, 235)"},
		{"#hero", "background-color", "rgb(255, 255, 255)"},
		{"#hero", "opacity", ".5"},
		{"#hero span", "color", "rgb(239, 68, 68)"},
		{"#hero span", "font-size", "20px"},
		{"#hero span", "display", "inline"},
		{"#hero span", "background-color", "rgba(0, 0, 0, 0)"},
		{"#hero p", "line-height", "1.5"},
		{".lh", "line-height", "24px"},
		{".lh em", "line-height", "24px"},
		{".lh em", "font-size", "32px"},
		{".ratio", "line-height", "1.5"},
		{".ratio em", "line-height", "1.5"},
		{".ratio em", "font-size", "32px"},
		{".shadow-host template[shadowrootmode]", "display", "contents"},
		{".shadow-host template:not([shadowrootmode])", "display", "none"},
		{"#hero p", "margin-top", "20px"},
		{".row", "gap", "16px"},
		{".row", "margin-top", "17px"},
		{".plain", "border-top-width", "0px"},
		{".named", "color", "rgb(255, 0, 0)"},
		{"h1", "font-size", "32px"},
		{"h1", "font-weight", "700"},
		{"b", "font-weight", "700"},
		{"body", "margin-top", "8px"},
		{"body", "position", "static"},
	}

	for _, tt := range tests {
		t.Run(tt.selector+" "+tt.prop, func(t *testing.T) {
			assert.Equal(t, tt.want, engineStyle(t, tt.selector).Get(tt.prop))
		})
	}
}

func TestEngineRejectsNonElement(t *testing.T) {
	e := NewEngine(&Collection{}, testViewport)
	_, err := e.ComputedStyle(nil)
	assert.ErrorIs(t, err, dom.ErrNoComputedStyle)
}

func TestExpand(t *testing.T) {
	tests := []struct {
		name string
		decl Declaration
		want map[string]string
	}{
		{
			name: "margin two values",
			decl: Declaration{Property: "margin", Value: "4px 8px"},
			want: map[string]string{"margin-top": "4px", "margin-right": "8px", "margin-bottom": "4px", "margin-left": "8px"},
		},
		{
			name: "padding three values",
			decl: Declaration{Property: "padding", Value: "1px 2px 3px"},
			want: map[string]string{"padding-top": "1px", "padding-right": "2px", "padding-bottom": "3px", "padding-left": "2px"},
		},
		{
			name: "border side",
			decl: Declaration{Property: "border-bottom", Value: "2px dashed rgb(0, 0, 0)"},
			want: map[string]string{"border-bottom-width": "2px", "border-bottom-style": "dashed", "border-bottom-color": "rgb(0, 0, 0)"},
		},
		{
			name: "radius with elliptical part",
			decl: Declaration{Property: "border-radius", Value: "8px 4px / 2px"},
			want: map[string]string{"border-top-left-radius": "8px", "border-top-right-radius": "4px", "border-bottom-right-radius": "8px", "border-bottom-left-radius": "4px"},
		},
		{
			name: "flex single number",
			decl: Declaration{Property: "flex", Value: "1"},
			want: map[string]string{"flex-grow": "1", "flex-shrink": "1", "flex-basis": "0%"},
		},
		{
			name: "flex flow",
			decl: Declaration{Property: "flex-flow", Value: "column wrap"},
			want: map[string]string{"flex-direction": "column", "flex-wrap": "wrap"},
		},
		{
			name: "font",
			decl: Declaration{Property: "font", Value: "bold 14px/20px Inter, sans-serif"},
			want: map[string]string{"font-weight": "bold", "font-size": "14px", "line-height": "20px", "font-family": "Inter, sans-serif"},
		},
		{
			name: "plain property",
			decl: Declaration{Property: "display", Value: "grid"},
			want: map[string]string{"display": "grid"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := map[string]string{}
			for _, d := range expand(tt.decl) {
				got[d.Property] = d.Value
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseColorValues(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"#fff", "rgb(255, 255, 255)"},
		{"#0000ff80", "rgba(0, 0, 255, 0.5)"},
		{"rgba(1, 2, 3, 0.25)", "rgba(1, 2, 3, 0.25)"},
		{"hsl(0, 100%, 50%)", "rgb(255, 0, 0)"},
		{"transparent", "rgba(0, 0, 0, 0)"},
		{"rebeccapurple", "rgb(102, 51, 153)"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			c, ok := parseColor(tt.in)
			require.True(t, ok)
			assert.Equal(t, tt.want, c.String())
		})
	}

	_, ok := parseColor("var(--brand)")
	assert.False(t, ok)
}

func TestParseDeclarations(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []Declaration
	}{
		{name: "empty", text: "  ", want: nil},
		{name: "single without semicolon", text: "color: #ff0000", want: []Declaration{
			{Property: "color", Value: "#ff0000"},
		}},
		{name: "last without semicolon", text: "margin-top:17px;display:flex;gap:16px", want: []Declaration{
			{Property: "margin-top", Value: "17px"},
			{Property: "display", Value: "flex"},
			{Property: "gap", Value: "16px"},
		}},
		{name: "trailing semicolon", text: "gap: 8px !important;", want: []Declaration{
			{Property: "gap", Value: "8px", Important: true},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDeclarations(tt.text)
			require.NoError(t, err)
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}
