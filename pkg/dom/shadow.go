package dom

import (
	"strings"

	"golang.org/x/net/html"
)

// ShadowMode classifies a declarative shadow root template.
type ShadowMode int

const (
	NotShadowRoot ShadowMode = iota
	ShadowOpen
	ShadowClosed
)

// ShadowRootMode reports whether n is a <template shadowrootmode=...> element
// and which mode it declares. Closed roots are inaccessible to page scripts
// and are expected to be skipped by callers.
func ShadowRootMode(n *html.Node) ShadowMode {
	if n == nil || n.Type != html.ElementNode || !strings.EqualFold(n.Data, "template") {
		return NotShadowRoot
	}
	mode, ok := Attr(n, "shadowrootmode")
	if !ok {
		mode, ok = Attr(n, "shadowroot")
	}
	if !ok {
		return NotShadowRoot
	}
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "open":
		return ShadowOpen
	case "closed":
		return ShadowClosed
	}
	return NotShadowRoot
}

// IsRendered reports whether an element contributes to the rendered tree.
// Inert templates, scripts and metadata elements do not.
func IsRendered(n *html.Node) bool {
	if n == nil || n.Type != html.ElementNode {
		return false
	}
	switch strings.ToLower(n.Data) {
	case "script", "style", "noscript", "link", "meta", "title", "base", "head":
		return false
	case "template":
		return ShadowRootMode(n) == ShadowOpen
	}
	return true
}
