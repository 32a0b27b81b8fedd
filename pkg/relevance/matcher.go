// Package relevance filters a page's CSS rules down to those that can
// affect a captured subtree.
package relevance

import (
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"

	"github.com/dtnitsch/ninja-snatch/pkg/cssom"
	"github.com/dtnitsch/ninja-snatch/pkg/dom"
)

// Result is the filtered rule list in source order plus diagnostics.
type Result struct {
	Rules              []*cssom.Rule
	Total              int
	Elements           int
	InvalidSelectors   int
	SkippedShadowRoots int
}

// CSS renders the kept rules as a stylesheet.
func (r Result) CSS() string {
	var sb strings.Builder
	for _, rule := range r.Rules {
		sb.WriteString(rule.String())
	}
	return sb.String()
}

// Matcher decides rule relevance for a subtree.
type Matcher struct {
	// FollowReferences keeps @keyframes and @font-face rules that a kept
	// rule refers to by name. When false both kinds are dropped.
	FollowReferences bool
}

// NewMatcher returns a matcher that follows animation and font references.
func NewMatcher() *Matcher {
	return &Matcher{FollowReferences: true}
}

// Match returns the rules relevant to root and its descendants.
// Style rules are kept when any selector in their list, reduced to its
// base form, matches an element of the subtree. Universal and root rules
// and @media / @supports / @container / @layer blocks are kept whole.
func (m *Matcher) Match(rules []*cssom.Rule, root *html.Node) Result {
	res := Result{Total: len(rules)}
	elements, closed := subtreeElements(root)
	res.Elements = len(elements)
	res.SkippedShadowRoots = closed

	keep := make([]bool, len(rules))
	seen := make(map[string]int)
	out := make([]*cssom.Rule, len(rules))

	for i, rule := range rules {
		switch rule.Kind {
		case cssom.KindStyle:
			ok, invalid := matchesAny(rule.Selector, elements)
			res.InvalidSelectors += invalid
			if !ok {
				continue
			}
			// an identical later copy supersedes the earlier one without
			// changing the cascade
			key := ruleKey(rule)
			if prev, dup := seen[key]; dup {
				keep[prev] = false
				out[prev] = nil
			}
			seen[key] = i
			keep[i] = true
			out[i] = rule.Clone()
		case cssom.KindMedia, cssom.KindSupports, cssom.KindContainer, cssom.KindLayer:
			keep[i] = true
			out[i] = rule.Clone()
		}
	}

	if m.FollowReferences {
		animations, fonts := references(out)
		for i, rule := range rules {
			switch rule.Kind {
			case cssom.KindKeyframes:
				if animations[strings.ToLower(rule.Name())] {
					keep[i] = true
					out[i] = rule.Clone()
				}
			case cssom.KindFontFace:
				family, _ := rule.Value("font-family")
				if family = strings.ToLower(unquote(family)); family != "" && fonts(family) {
					keep[i] = true
					out[i] = rule.Clone()
				}
			}
		}
	}

	for i := range rules {
		if keep[i] {
			res.Rules = append(res.Rules, out[i])
		}
	}
	return res
}

// matchesAny reports whether any selector of the list matches one of the
// elements. Selectors cascadia cannot parse are counted and skipped.
func matchesAny(list string, elements []*html.Node) (bool, int) {
	invalid := 0
	for _, part := range SplitSelectorList(list) {
		base := BaseSelector(part)
		if IsUniversal(base) {
			return true, invalid
		}
		sel, err := cascadia.Parse(base)
		if err != nil {
			invalid++
			continue
		}
		for _, n := range elements {
			if sel.Match(n) {
				return true, invalid
			}
		}
	}
	return false, invalid
}

// subtreeElements lists root and its element descendants in document
// order. Open declarative shadow roots are entered; closed ones are
// counted and skipped along with inert templates.
func subtreeElements(root *html.Node) ([]*html.Node, int) {
	if root == nil || root.Type != html.ElementNode {
		return nil, 0
	}
	var out []*html.Node
	closed := 0
	stack := []*html.Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		out = append(out, n)

		var kids []*html.Node
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			if strings.EqualFold(c.Data, "template") {
				switch dom.ShadowRootMode(c) {
				case dom.ShadowOpen:
					kids = append(kids, c)
				case dom.ShadowClosed:
					closed++
				}
				continue
			}
			kids = append(kids, c)
		}
		for i := len(kids) - 1; i >= 0; i-- {
			stack = append(stack, kids[i])
		}
	}
	return out, closed
}

func ruleKey(r *cssom.Rule) string {
	var sb strings.Builder
	sb.WriteString(normalizeSelector(r.Selector))
	for _, d := range r.Declarations {
		sb.WriteString("\x00")
		sb.WriteString(d.String())
	}
	return sb.String()
}

func normalizeSelector(sel string) string {
	parts := SplitSelectorList(sel)
	for i, p := range parts {
		parts[i] = strings.Join(strings.Fields(p), " ")
	}
	return strings.Join(parts, ", ")
}

// references gathers animation names and a font-family test from every
// kept rule, nested ones included.
func references(rules []*cssom.Rule) (map[string]bool, func(string) bool) {
	animations := make(map[string]bool)
	var fontValues []string

	stack := make([]*cssom.Rule, 0, len(rules))
	for _, r := range rules {
		if r != nil {
			stack = append(stack, r)
		}
	}
	for len(stack) > 0 {
		r := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		stack = append(stack, r.Rules...)
		if r.Kind == cssom.KindKeyframes || r.Kind == cssom.KindFontFace {
			continue
		}
		for _, d := range r.Declarations {
			switch d.Property {
			case "animation", "animation-name":
				for _, tok := range strings.FieldsFunc(d.Value, func(c rune) bool { return c == ',' || c == ' ' }) {
					animations[strings.ToLower(unquote(tok))] = true
				}
			case "font-family", "font":
				fontValues = append(fontValues, strings.ToLower(d.Value))
			}
		}
	}

	usesFont := func(family string) bool {
		for _, v := range fontValues {
			for _, name := range strings.Split(v, ",") {
				name = strings.NewReplacer(`"`, "", "'", "").Replace(strings.TrimSpace(name))
				if name == family || strings.HasSuffix(name, " "+family) {
					return true
				}
			}
		}
		return false
	}
	return animations, usesFont
}

func unquote(v string) string {
	return strings.Trim(strings.TrimSpace(v), `"'`)
}
