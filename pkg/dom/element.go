// Package dom exposes a read-only element view over an HTML parse tree.
// Computed style is supplied by a StyleSource, either the static cascade
// in pkg/cssom or a live browser capture.
package dom

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

var (
	// ErrNoComputedStyle is returned when an element has no accessible computed style.
	ErrNoComputedStyle = errors.New("computed style not available")
	// ErrNoMatch is returned when a selector matches no element.
	ErrNoMatch = errors.New("selector matched no element")
)

// Attribute is one attribute in source order.
type Attribute struct {
	Name  string
	Value string
}

// Style is a resolved property→value map.
type Style map[string]string

// Get returns the value of prop or "".
func (s Style) Get(prop string) string {
	return s[prop]
}

// StyleSource resolves computed style for element nodes.
type StyleSource interface {
	ComputedStyle(n *html.Node) (Style, error)
}

// Element is the handle the analysis core works against.
type Element interface {
	TagName() string
	Children() []Element
	Attributes() []Attribute
	ClassList() []string
	DirectText() string
	ComputedStyle() (Style, error)
	Node() *html.Node
}

type element struct {
	n      *html.Node
	styles StyleSource
}

// Wrap returns an Element for n, or nil if n is not an element node.
func Wrap(n *html.Node, styles StyleSource) Element {
	if n == nil || n.Type != html.ElementNode {
		return nil
	}
	return &element{n: n, styles: styles}
}

// IsNil reports whether el is a nil interface or wraps a nil node.
func IsNil(el Element) bool {
	if el == nil {
		return true
	}
	if e, ok := el.(*element); ok {
		return e == nil || e.n == nil
	}
	return el.Node() == nil
}

func (e *element) TagName() string {
	return strings.ToLower(e.n.Data)
}

func (e *element) Node() *html.Node {
	return e.n
}

// Children skips elements that never render (scripts, metadata, inert
// templates). An open declarative shadow root is returned as a child.
func (e *element) Children() []Element {
	var out []Element
	for c := e.n.FirstChild; c != nil; c = c.NextSibling {
		if IsRendered(c) {
			out = append(out, &element{n: c, styles: e.styles})
		}
	}
	return out
}

func (e *element) Attributes() []Attribute {
	out := make([]Attribute, 0, len(e.n.Attr))
	for _, a := range e.n.Attr {
		out = append(out, Attribute{Name: strings.ToLower(a.Key), Value: a.Val})
	}
	return out
}

func (e *element) ClassList() []string {
	return ClassList(e.n)
}

func (e *element) DirectText() string {
	var sb strings.Builder
	for c := e.n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
		}
	}
	return strings.Join(strings.Fields(sb.String()), " ")
}

func (e *element) ComputedStyle() (Style, error) {
	if e.styles == nil {
		return nil, fmt.Errorf("<%s>: %w", e.TagName(), ErrNoComputedStyle)
	}
	st, err := e.styles.ComputedStyle(e.n)
	if err != nil {
		return nil, fmt.Errorf("<%s>: %w", e.TagName(), err)
	}
	return st, nil
}

// Attr returns the value of the named attribute on n.
func Attr(n *html.Node, name string) (string, bool) {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, name) {
			return a.Val, true
		}
	}
	return "", false
}

// ClassList splits the class attribute of n into an ordered, duplicate-free list.
func ClassList(n *html.Node) []string {
	raw, ok := Attr(n, "class")
	if !ok {
		return nil
	}
	seen := make(map[string]struct{})
	var out []string
	for _, c := range strings.Fields(raw) {
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}
