package emitter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtnitsch/ninja-snatch/models"
)

func sampleTree() *models.AnnotatedNode {
	return &models.AnnotatedNode{
		TagName:    "section",
		ClassList:  []string{"grid", "gap-4"},
		Attributes: []models.Attribute{{Name: "id", Value: "products"}},
		Patterns: []models.PatternRef{
			{ID: "pattern-1", Size: 2, AverageSimilarity: 95.4, Members: []int{0, 1}},
		},
		Children: []*models.AnnotatedNode{
			{
				TagName:     "div",
				ClassList:   []string{"flex"},
				Attributes:  []models.Attribute{{Name: "data-pattern", Value: "pattern-1"}},
				TextContent: "One",
			},
			{
				TagName:     "div",
				ClassList:   []string{"flex"},
				Attributes:  []models.Attribute{{Name: "data-pattern", Value: "pattern-1"}},
				TextContent: "Two",
				Children: []*models.AnnotatedNode{
					{TagName: "img", Attributes: []models.Attribute{{Name: "src", Value: "a.png"}}},
				},
			},
		},
	}
}

func TestHTML(t *testing.T) {
	out, err := HTML(sampleTree(), Options{Lang: "en"})
	require.NoError(t, err)
	assert.Equal(t,
		`<section class="grid gap-4" id="products" lang="en">`+
			`<div class="flex" data-pattern="pattern-1">One</div>`+
			`<div class="flex" data-pattern="pattern-1">Two<img src="a.png"/></div>`+
			`</section>`, out)
}

func TestHTMLEscapesText(t *testing.T) {
	out, err := HTML(&models.AnnotatedNode{TagName: "p", TextContent: "a < b & c"}, Options{})
	require.NoError(t, err)
	assert.Equal(t, `<p>a &lt; b &amp; c</p>`, out)
}

func TestHTMLStandalone(t *testing.T) {
	out, err := HTML(sampleTree(), Options{Standalone: true, Lang: "de", Title: "Cards", CSS: ".card h3 { font-weight: 700; }"})
	require.NoError(t, err)
	assert.Contains(t, out, "<!DOCTYPE html>")
	assert.Contains(t, out, `<html lang="de">`)
	assert.Contains(t, out, "<title>Cards</title>")
	assert.Contains(t, out, "<style>.card h3 { font-weight: 700; }</style>")
	assert.Contains(t, out, `<body><section class="grid gap-4" id="products">`)
}

func TestHTMLNil(t *testing.T) {
	out, err := HTML(nil, Options{})
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestJSX(t *testing.T) {
	want := `export default function ProductGrid() {
  return (
    <section className="grid gap-4" id="products">
      {/* pattern-1: 2 similar elements, avg similarity 95% */}
      <div className="flex" data-pattern="pattern-1">One</div>
      <div className="flex" data-pattern="pattern-1">
        Two
        <img src="a.png" />
      </div>
    </section>
  );
}
`
	assert.Equal(t, want, JSX(sampleTree(), "product-grid"))
}

func TestJSXAttributes(t *testing.T) {
	node := &models.AnnotatedNode{
		TagName: "label",
		Attributes: []models.Attribute{
			{Name: "for", Value: "email"},
			{Name: "onclick", Value: "track()"},
			{Name: "style", Value: "margin-top: 4px; --accent: red; -webkit-line-clamp: 2"},
			{Name: "title", Value: `say "hi"`},
			{Name: "tabindex", Value: "0"},
		},
		TextContent: "{email}",
	}
	out := JSX(node, "")
	assert.Contains(t, out, "function Snapshot()")
	assert.Contains(t, out, `<label htmlFor="email" style={{marginTop: "4px", "--accent": "red", webkitLineClamp: "2"}} title={"say \"hi\""} tabIndex="0">{"{email}"}</label>`)
	assert.NotContains(t, out, "onclick")
}

func TestComponentName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"product-grid", "ProductGrid"},
		{"hero card", "HeroCard"},
		{"42 cards", "Cards"},
		{"", DefaultComponentName},
		{"---", DefaultComponentName},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, componentName(tt.in))
		})
	}
}

func TestSanitize(t *testing.T) {
	in := `<div class="mt-[17px] w-1/2 py-0.5" onclick="steal()" data-pattern="pattern-1">` +
		`<script>alert(1)</script><a href="javascript:alert(1)">x</a><section>ok</section></div>`
	out := Sanitize(in)

	assert.Contains(t, out, `class="mt-[17px] w-1/2 py-0.5"`)
	assert.Contains(t, out, `data-pattern="pattern-1"`)
	assert.Contains(t, out, "<section>ok</section>")
	assert.NotContains(t, out, "onclick")
	assert.NotContains(t, out, "<script")
	assert.NotContains(t, out, "javascript:")
}
