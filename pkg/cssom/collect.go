package cssom

import (
	"context"
	"log/slog"
	"net/url"
	"strings"

	"golang.org/x/net/html"

	"github.com/dtnitsch/ninja-snatch/pkg/dom"
)

const maxImportDepth = 8

// Loader fetches the body of a linked or imported stylesheet.
type Loader interface {
	Load(ctx context.Context, u *url.URL) ([]byte, error)
}

// Collection is every stylesheet of a document in cascade order.
type Collection struct {
	Sheets []*StyleSheet
	// Skipped counts sheets that could not be read: cross-origin,
	// failed to load, or failed to parse.
	Skipped int
}

// Rules returns the top-level rules of every sheet in order.
func (c *Collection) Rules() []*Rule {
	if c == nil {
		return nil
	}
	var out []*Rule
	for _, s := range c.Sheets {
		out = append(out, s.Rules...)
	}
	return out
}

// Add appends an already parsed sheet.
func (c *Collection) Add(s *StyleSheet) {
	c.Sheets = append(c.Sheets, s)
}

type collector struct {
	ctx     context.Context
	base    *url.URL
	loader  Loader
	logger  *slog.Logger
	visited map[string]struct{}
	out     *Collection
}

// Collect gathers <style> blocks and same-origin <link rel=stylesheet>
// sheets from doc in document order, following @import. Sheets that
// cannot be read are counted, never fatal. loader may be nil, in which
// case linked sheets are skipped.
func Collect(ctx context.Context, doc *dom.Document, loader Loader, logger *slog.Logger) *Collection {
	if logger == nil {
		logger = slog.Default()
	}
	c := &collector{
		ctx:     ctx,
		base:    doc.URL,
		loader:  loader,
		logger:  logger,
		visited: make(map[string]struct{}),
		out:     &Collection{},
	}

	root := doc.Root()
	if root == nil {
		return c.out
	}

	stack := []*html.Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if n.Type == html.ElementNode {
			switch strings.ToLower(n.Data) {
			case "style":
				c.inline(n)
				continue
			case "link":
				c.link(n)
				continue
			case "template":
				if dom.ShadowRootMode(n) != dom.ShadowOpen {
					continue
				}
			}
		}
		var kids []*html.Node
		for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
			kids = append(kids, ch)
		}
		for i := len(kids) - 1; i >= 0; i-- {
			stack = append(stack, kids[i])
		}
	}
	return c.out
}

func (c *collector) inline(n *html.Node) {
	if media, ok := dom.Attr(n, "media"); ok && !mediaMatchesScreen(media) {
		return
	}
	var sb strings.Builder
	for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
		if ch.Type == html.TextNode {
			sb.WriteString(ch.Data)
		}
	}
	c.add(sb.String(), "inline", c.base, 0)
}

func (c *collector) link(n *html.Node) {
	rel, _ := dom.Attr(n, "rel")
	if !containsToken(rel, "stylesheet") || containsToken(rel, "alternate") {
		return
	}
	if typ, ok := dom.Attr(n, "type"); ok && typ != "" && !strings.EqualFold(typ, "text/css") {
		return
	}
	href, _ := dom.Attr(n, "href")
	if strings.TrimSpace(href) == "" {
		return
	}
	c.fetch(href, c.base, 0)
}

func (c *collector) fetch(href string, base *url.URL, depth int) {
	if depth > maxImportDepth {
		c.out.Skipped++
		return
	}
	u, err := resolve(base, href)
	if err != nil {
		c.logger.Warn("Skipping stylesheet with bad URL", "href", href, "error", err)
		c.out.Skipped++
		return
	}
	if !sameOrigin(c.base, u) {
		c.logger.Debug("Skipping cross-origin stylesheet", "url", u.String())
		c.out.Skipped++
		return
	}
	key := u.String()
	if _, seen := c.visited[key]; seen {
		return
	}
	c.visited[key] = struct{}{}

	if c.loader == nil {
		c.out.Skipped++
		return
	}
	body, err := c.loader.Load(c.ctx, u)
	if err != nil {
		c.logger.Warn("Failed to load stylesheet", "url", key, "error", err)
		c.out.Skipped++
		return
	}
	c.add(string(body), key, u, depth)
}

// add parses text and appends it, expanding @import rules in place so the
// imported rules precede the importing sheet's own rules.
func (c *collector) add(text, href string, base *url.URL, depth int) {
	sheet, err := ParseStyleSheet(text, href)
	if err != nil {
		c.logger.Warn("Failed to parse stylesheet", "href", href, "error", err)
		c.out.Skipped++
		return
	}

	own := sheet.Rules[:0:0]
	for _, r := range sheet.Rules {
		if r.Kind != KindImport {
			own = append(own, r)
			continue
		}
		target, media := importTarget(r.Prelude)
		if target == "" || (media != "" && !mediaMatchesScreen(media)) {
			continue
		}
		c.fetch(target, base, depth+1)
	}
	sheet.Rules = own
	c.out.Add(sheet)
}

func resolve(base *url.URL, href string) (*url.URL, error) {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return nil, err
	}
	if base == nil {
		return ref, nil
	}
	return base.ResolveReference(ref), nil
}

// sameOrigin treats a relative URL under a local document as same-origin.
func sameOrigin(base, u *url.URL) bool {
	if u.Scheme == "data" {
		return false
	}
	if base == nil {
		return u.Host == ""
	}
	return strings.EqualFold(base.Scheme, u.Scheme) && strings.EqualFold(base.Host, u.Host)
}

func containsToken(list, token string) bool {
	for _, f := range strings.Fields(strings.ToLower(list)) {
		if f == token {
			return true
		}
	}
	return false
}

// importTarget splits an @import prelude into its URL and media list.
func importTarget(prelude string) (string, string) {
	s := strings.TrimSpace(prelude)
	if s == "" {
		return "", ""
	}
	if strings.HasPrefix(strings.ToLower(s), "url(") {
		end := strings.Index(s, ")")
		if end == -1 {
			return "", ""
		}
		return trimQuotes(s[4:end]), strings.TrimSpace(s[end+1:])
	}
	if s[0] == '"' || s[0] == '\'' {
		if idx := strings.IndexByte(s[1:], s[0]); idx != -1 {
			return s[1 : idx+1], strings.TrimSpace(s[idx+2:])
		}
	}
	fields := strings.Fields(s)
	return trimQuotes(fields[0]), strings.TrimSpace(strings.TrimPrefix(s, fields[0]))
}

func trimQuotes(v string) string {
	v = strings.TrimSpace(v)
	if len(v) >= 2 && (v[0] == '"' || v[0] == '\'') && v[len(v)-1] == v[0] {
		return v[1 : len(v)-1]
	}
	return v
}

// mediaMatchesScreen accepts media lists that can apply to a screen.
func mediaMatchesScreen(media string) bool {
	for _, q := range strings.Split(media, ",") {
		q = strings.ToLower(strings.TrimSpace(q))
		if q == "" || q == "all" || q == "screen" || strings.HasPrefix(q, "screen ") ||
			strings.HasPrefix(q, "all ") || strings.HasPrefix(q, "(") {
			return true
		}
	}
	return false
}
