// Package emitter serializes an annotated tree as HTML or as a React
// component.
package emitter

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/dtnitsch/ninja-snatch/models"
)

// Options control HTML output.
type Options struct {
	// Lang is set as the lang attribute of the root element when non-empty.
	Lang string
	// Standalone wraps the fragment in a full document. CSS, when set, is
	// embedded in a <style> element of its head.
	Standalone bool
	Title      string
	CSS        string
}

// HTML renders node with each element's class attribute set to its
// utility class list.
func HTML(node *models.AnnotatedNode, opts Options) (string, error) {
	if node == nil {
		return "", nil
	}
	root := toNode(node)
	if opts.Lang != "" && !opts.Standalone {
		setAttr(root, "lang", opts.Lang)
	}

	var buf bytes.Buffer
	if opts.Standalone {
		if err := html.Render(&buf, document(root, opts)); err != nil {
			return "", fmt.Errorf("failed to render document: %w", err)
		}
		return buf.String(), nil
	}
	if err := html.Render(&buf, root); err != nil {
		return "", fmt.Errorf("failed to render fragment: %w", err)
	}
	return buf.String(), nil
}

func document(body *html.Node, opts Options) *html.Node {
	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})

	htmlEl := element("html")
	if opts.Lang != "" {
		setAttr(htmlEl, "lang", opts.Lang)
	}
	head := element("head")
	meta := element("meta")
	setAttr(meta, "charset", "utf-8")
	head.AppendChild(meta)
	if opts.Title != "" {
		title := element("title")
		title.AppendChild(&html.Node{Type: html.TextNode, Data: opts.Title})
		head.AppendChild(title)
	}
	if strings.TrimSpace(opts.CSS) != "" {
		style := element("style")
		style.AppendChild(&html.Node{Type: html.TextNode, Data: opts.CSS})
		head.AppendChild(style)
	}

	bodyEl := element("body")
	bodyEl.AppendChild(body)
	htmlEl.AppendChild(head)
	htmlEl.AppendChild(bodyEl)
	doc.AppendChild(htmlEl)
	return doc
}

// toNode converts the annotated tree iteratively.
func toNode(root *models.AnnotatedNode) *html.Node {
	type pair struct {
		src *models.AnnotatedNode
		dst *html.Node
	}
	out := convert(root)
	stack := []pair{{root, out}}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, c := range p.src.Children {
			n := convert(c)
			p.dst.AppendChild(n)
			stack = append(stack, pair{c, n})
		}
	}
	return out
}

func convert(n *models.AnnotatedNode) *html.Node {
	el := element(n.TagName)
	if len(n.ClassList) > 0 {
		el.Attr = append(el.Attr, html.Attribute{Key: "class", Val: strings.Join(n.ClassList, " ")})
	}
	for _, a := range n.Attributes {
		if a.Name == "class" {
			continue
		}
		el.Attr = append(el.Attr, html.Attribute{Key: a.Name, Val: a.Value})
	}
	if n.TextContent != "" && !isVoid(n.TagName) {
		el.AppendChild(&html.Node{Type: html.TextNode, Data: n.TextContent})
	}
	return el
}

func element(tag string) *html.Node {
	tag = strings.ToLower(tag)
	return &html.Node{Type: html.ElementNode, Data: tag, DataAtom: atom.Lookup([]byte(tag))}
}

func setAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true, "hr": true,
	"img": true, "input": true, "link": true, "meta": true, "source": true,
	"track": true, "wbr": true,
}

func isVoid(tag string) bool {
	return voidElements[strings.ToLower(tag)]
}
