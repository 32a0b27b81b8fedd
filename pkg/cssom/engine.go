package cssom

import (
	"fmt"
	"maps"
	"strconv"
	"strings"
	"sync"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"

	"github.com/dtnitsch/ninja-snatch/models"
	"github.com/dtnitsch/ninja-snatch/pkg/dom"
)

type origin int

const (
	originUserAgent origin = iota
	originAuthor
	originInline
)

type compiledRule struct {
	sel    cascadia.Sel
	spec   cascadia.Specificity
	decls  []Declaration
	order  int
	origin origin
}

type cascaded struct {
	value     string
	important bool
	origin    origin
	spec      cascadia.Specificity
	order     int
}

// priority ranks origin and importance: important declarations reverse
// the origin order.
func (c cascaded) priority() int {
	switch {
	case c.important && c.origin == originUserAgent:
		return 6
	case c.important && c.origin == originInline:
		return 5
	case c.important:
		return 4
	case c.origin == originInline:
		return 3
	case c.origin == originAuthor:
		return 2
	}
	return 1
}

func (c cascaded) beats(prev cascaded) bool {
	if p, q := c.priority(), prev.priority(); p != q {
		return p > q
	}
	if c.spec != prev.spec {
		return prev.spec.Less(c.spec)
	}
	return c.order >= prev.order
}

var inherited = map[string]bool{
	"color": true, "font-family": true, "font-size": true, "font-style": true,
	"font-weight": true, "line-height": true, "text-align": true, "text-transform": true,
	"letter-spacing": true, "word-spacing": true, "white-space": true, "visibility": true,
	"cursor": true, "list-style-type": true, "direction": true,
}

var initialValues = map[string]string{
	"display":          "inline",
	"position":         "static",
	"opacity":          "1",
	"overflow":         "visible",
	"box-shadow":       "none",
	"z-index":          "auto",
	"flex-direction":   "row",
	"flex-wrap":        "nowrap",
	"justify-content":  "normal",
	"align-items":      "normal",
	"row-gap":          "normal",
	"column-gap":       "normal",
	"width":            "auto",
	"height":           "auto",
	"background-color": "transparent",

	"grid-template-columns": "none",

	"margin-top": "0px", "margin-right": "0px", "margin-bottom": "0px", "margin-left": "0px",
	"padding-top": "0px", "padding-right": "0px", "padding-bottom": "0px", "padding-left": "0px",

	"border-top-width": "medium", "border-right-width": "medium",
	"border-bottom-width": "medium", "border-left-width": "medium",
	"border-top-style": "none", "border-right-style": "none",
	"border-bottom-style": "none", "border-left-style": "none",
	"border-top-color": "currentcolor", "border-right-color": "currentcolor",
	"border-bottom-color": "currentcolor", "border-left-color": "currentcolor",
	"border-top-left-radius": "0px", "border-top-right-radius": "0px",
	"border-bottom-right-radius": "0px", "border-bottom-left-radius": "0px",

	// inherited, used at the root
	"color":       "rgb(0, 0, 0)",
	"font-size":   "16px",
	"font-weight": "400",
	"font-style":  "normal",
	"line-height": "normal",
	"text-align":  "start",
	"visibility":  "visible",
}

// length properties resolved to px; percentages and keywords are kept
var lengthProps = []string{
	"margin-top", "margin-right", "margin-bottom", "margin-left",
	"padding-top", "padding-right", "padding-bottom", "padding-left",
	"row-gap", "column-gap",
	"border-top-left-radius", "border-top-right-radius",
	"border-bottom-right-radius", "border-bottom-left-radius",
	"top", "right", "bottom", "left", "letter-spacing", "word-spacing",
	"min-width", "max-width", "min-height", "max-height", "flex-basis",
}

var colorProps = []string{
	"background-color",
	"border-top-color", "border-right-color", "border-bottom-color", "border-left-color",
	"outline-color", "text-decoration-color",
}

var borderWidthKeywords = map[string]string{
	"thin":   "1px",
	"medium": "3px",
	"thick":  "5px",
}

// Engine resolves computed style for a static document from its
// collected stylesheets, a user-agent sheet and style attributes.
// Results are memoized; an Engine is safe for concurrent use.
type Engine struct {
	rules    []compiledRule
	viewport models.Viewport

	mu    sync.Mutex
	cache map[*html.Node]dom.Style
}

var uaSheet = mustParseUA()

func mustParseUA() *StyleSheet {
	sheet, err := ParseStyleSheet(userAgentCSS, "user-agent")
	if err != nil {
		panic(fmt.Sprintf("cssom: invalid user-agent stylesheet: %v", err))
	}
	return sheet
}

// NewEngine compiles every applicable rule of c. @media blocks are
// evaluated once against vp.
func NewEngine(c *Collection, vp models.Viewport) *Engine {
	e := &Engine{viewport: vp, cache: make(map[*html.Node]dom.Style)}
	order := 0
	e.compile(uaSheet.Rules, originUserAgent, &order)
	e.compile(c.Rules(), originAuthor, &order)
	return e
}

func (e *Engine) compile(rules []*Rule, o origin, order *int) {
	for _, r := range rules {
		switch r.Kind {
		case KindStyle:
			group, err := cascadia.ParseGroupWithPseudoElements(r.Selector)
			if err != nil {
				continue
			}
			for _, sel := range group {
				if sel == nil || sel.PseudoElement() != "" {
					continue
				}
				e.rules = append(e.rules, compiledRule{
					sel:    sel,
					spec:   sel.Specificity(),
					decls:  r.Declarations,
					order:  *order,
					origin: o,
				})
				*order++
			}
		case KindMedia:
			if MediaActive(r.Prelude, e.viewport) {
				e.compile(r.Rules, o, order)
			}
		case KindSupports, KindLayer:
			// layer order is not modeled; layered rules cascade by source order
			e.compile(r.Rules, o, order)
		case KindContainer:
			// needs box sizes, which a static document does not have
		}
	}
}

// ComputedStyle implements dom.StyleSource.
func (e *Engine) ComputedStyle(n *html.Node) (dom.Style, error) {
	if n == nil || n.Type != html.ElementNode {
		return nil, dom.ErrNoComputedStyle
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	var chain []*html.Node
	for p := n; p != nil && p.Type == html.ElementNode; p = p.Parent {
		if _, ok := e.cache[p]; ok {
			break
		}
		chain = append(chain, p)
	}
	for i := len(chain) - 1; i >= 0; i-- {
		node := chain[i]
		var parent dom.Style
		if node.Parent != nil {
			parent = e.cache[node.Parent]
		}
		e.cache[node] = e.compute(node, parent)
	}
	return maps.Clone(e.cache[n]), nil
}

func (e *Engine) compute(n *html.Node, parent dom.Style) dom.Style {
	winners := make(map[string]cascaded)
	apply := func(d Declaration, c cascaded) {
		for _, ld := range expand(d) {
			c.value = ld.Value
			c.important = ld.Important
			if prev, ok := winners[ld.Property]; ok && !c.beats(prev) {
				continue
			}
			winners[ld.Property] = c
		}
	}

	for _, r := range e.rules {
		if !r.sel.Match(n) {
			continue
		}
		for _, d := range r.decls {
			apply(d, cascaded{origin: r.origin, spec: r.spec, order: r.order})
		}
	}
	if inline, ok := dom.Attr(n, "style"); ok {
		for i, d := range inlineDeclarations(inline) {
			apply(d, cascaded{origin: originInline, order: len(e.rules) + i})
		}
	}

	st := make(dom.Style, len(winners)+len(initialValues))
	for prop := range inherited {
		if v, ok := parent[prop]; ok {
			st[prop] = v
		}
	}
	for prop, c := range winners {
		switch strings.ToLower(c.value) {
		case "inherit":
			if v, ok := parent[prop]; ok {
				st[prop] = v
			} else {
				st[prop] = initialValues[prop]
			}
		case "initial":
			st[prop] = initialValues[prop]
		case "unset", "revert":
			if inherited[prop] {
				if v, ok := parent[prop]; ok {
					st[prop] = v
					continue
				}
			}
			st[prop] = initialValues[prop]
		default:
			st[prop] = c.value
		}
	}
	for prop, v := range initialValues {
		if _, ok := st[prop]; !ok {
			st[prop] = v
		}
	}

	e.resolve(st, parent)
	return st
}

// resolve turns specified values into computed values.
func (e *Engine) resolve(st, parent dom.Style) {
	lc := lengthContext{rootFontSize: baseFontSize, viewport: e.viewport}

	parentSize := baseFontSize
	if v, ok := parent["font-size"]; ok {
		if f, ok := lengthPx(v, lc); ok {
			parentSize = f
		}
	}
	fontSize := resolveFontSize(st["font-size"], parentSize, lc)
	st["font-size"] = formatPx(fontSize)
	lc.fontSize = fontSize

	parentWeight := 400
	if w, err := strconv.Atoi(parent["font-weight"]); err == nil {
		parentWeight = w
	}
	st["font-weight"] = strconv.Itoa(resolveFontWeight(st["font-weight"], parentWeight))

	if st["line-height"] != parent["line-height"] {
		st["line-height"] = resolveLineHeight(st["line-height"], fontSize, lc)
	}

	for _, prop := range lengthProps {
		if v, ok := st[prop]; ok {
			if px, ok := lengthPx(v, lc); ok {
				st[prop] = formatPx(px)
			}
		}
	}
	for _, prop := range []string{"width", "height"} {
		v := st[prop]
		if strings.HasSuffix(v, "px") || strings.HasSuffix(v, "em") || strings.HasSuffix(v, "rem") {
			if px, ok := lengthPx(v, lc); ok {
				st[prop] = formatPx(px)
			}
		}
	}

	color, ok := parseColor(st["color"])
	if !ok {
		if pc, pok := parseColor(parent["color"]); pok {
			color = pc
		} else {
			color = rgba{a: 1}
		}
	}
	st["color"] = color.String()
	for _, prop := range colorProps {
		v, present := st[prop]
		if !present {
			continue
		}
		if strings.EqualFold(v, "currentcolor") {
			st[prop] = color.String()
			continue
		}
		if c, ok := parseColor(v); ok {
			st[prop] = c.String()
		}
	}

	for _, s := range sides {
		w := "border-" + s + "-width"
		switch st["border-"+s+"-style"] {
		case "none", "hidden":
			st[w] = "0px"
			continue
		}
		if kw, ok := borderWidthKeywords[st[w]]; ok {
			st[w] = kw
		} else if px, ok := lengthPx(st[w], lc); ok {
			st[w] = formatPx(px)
		}
	}

	st["row-gap"] = gapValue(st["row-gap"])
	st["column-gap"] = gapValue(st["column-gap"])
	if st["row-gap"] == st["column-gap"] {
		st["gap"] = st["row-gap"]
	} else {
		st["gap"] = st["row-gap"] + " " + st["column-gap"]
	}
	st["border-radius"] = st["border-top-left-radius"]
}

func gapValue(v string) string {
	if v == "" {
		return "normal"
	}
	return v
}

// inlineDeclarations parses a style attribute, falling back to a plain
// split when the tokenizer rejects it.
func inlineDeclarations(text string) []Declaration {
	if decls, err := ParseDeclarations(text); err == nil {
		return decls
	}
	var out []Declaration
	for _, part := range strings.Split(text, ";") {
		prop, val, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		d := Declaration{
			Property: strings.ToLower(strings.TrimSpace(prop)),
			Value:    strings.TrimSpace(val),
		}
		if lower := strings.ToLower(d.Value); strings.HasSuffix(lower, "!important") {
			d.Important = true
			d.Value = strings.TrimSpace(d.Value[:len(d.Value)-len("!important")])
		}
		if d.Property != "" && d.Value != "" {
			out = append(out, d)
		}
	}
	return out
}
