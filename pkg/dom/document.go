package dom

import (
	"bytes"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// Document is a parsed page plus the style source used to read computed style.
type Document struct {
	URL    *url.URL
	Query  *goquery.Document
	Styles StyleSource
	raw    []byte
}

// Parse reads HTML into a Document. pageURL may be nil for local files.
func Parse(r io.Reader, pageURL *url.URL) (*Document, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read HTML: %w", err)
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	doc.Url = pageURL
	return &Document{URL: pageURL, Query: doc, raw: raw}, nil
}

// ParseString is Parse for in-memory markup.
func ParseString(markup string, pageURL *url.URL) (*Document, error) {
	return Parse(strings.NewReader(markup), pageURL)
}

// Root returns the document node.
func (d *Document) Root() *html.Node {
	if len(d.Query.Nodes) == 0 {
		return nil
	}
	return d.Query.Nodes[0]
}

// Raw returns the markup the document was parsed from.
func (d *Document) Raw() []byte {
	return d.raw
}

// Select returns the first element matching selector. An empty selector selects <body>.
func (d *Document) Select(selector string) (Element, error) {
	if strings.TrimSpace(selector) == "" {
		selector = "body"
	}
	sel, err := compileSelection(d.Query, selector)
	if err != nil {
		return nil, err
	}
	if sel.Length() == 0 {
		return nil, fmt.Errorf("%q: %w", selector, ErrNoMatch)
	}
	return Wrap(sel.Nodes[0], d.Styles), nil
}

// Wrap returns an Element bound to this document's style source.
func (d *Document) Wrap(n *html.Node) Element {
	return Wrap(n, d.Styles)
}

// compileSelection validates selector with cascadia so that a typo is
// reported instead of silently matching nothing.
func compileSelection(doc *goquery.Document, selector string) (*goquery.Selection, error) {
	m, err := cascadia.Compile(selector)
	if err != nil {
		return nil, fmt.Errorf("invalid selector %q: %w", selector, err)
	}
	return doc.FindMatcher(m).First(), nil
}
