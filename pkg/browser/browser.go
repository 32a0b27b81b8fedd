// Package browser captures a page in a headless Chrome so that computed
// style comes from the real rendering engine.
package browser

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"golang.org/x/net/html"

	"github.com/dtnitsch/ninja-snatch/models"
	"github.com/dtnitsch/ninja-snatch/pkg/cssom"
	"github.com/dtnitsch/ninja-snatch/pkg/dom"
	"github.com/dtnitsch/ninja-snatch/pkg/normalize"
)

// markerAttr tags captured elements while the page is serialized.
const markerAttr = "data-snatch-id"

// ErrNotFound is returned when the selector matches nothing on the live page.
var ErrNotFound = errors.New("selector matched nothing on the live page")

// Options configure a live capture.
type Options struct {
	Viewport models.Viewport
	Timeout  time.Duration
	// Bin is an explicit Chrome binary; empty lets the launcher find or
	// download one.
	Bin string
	// RemoteURL connects to an already running browser instead of launching one.
	RemoteURL string
	Logger    *slog.Logger
}

// Capture is a page as the browser rendered it.
type Capture struct {
	Document *dom.Document
	Sheets   *cssom.Collection
}

type payload struct {
	Found   bool                         `json:"found"`
	HTML    string                       `json:"html"`
	Styles  map[string]map[string]string `json:"styles"`
	Sheets  []sheetText                  `json:"sheets"`
	Skipped int                          `json:"skipped"`
}

type sheetText struct {
	Href string `json:"href"`
	Text string `json:"text"`
}

// Load opens pageURL in a stealth tab, waits for it to load and captures
// the subtree under selector. The browser is always shut down before
// Load returns.
func Load(ctx context.Context, pageURL, selector string, opts Options) (*Capture, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = models.DefaultConfig().FetchTimeout
	}
	vp := opts.Viewport
	if vp.Width <= 0 || vp.Height <= 0 {
		vp = models.DefaultConfig().Viewport
	}

	u, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL %s: %w", pageURL, err)
	}

	b, cleanup, err := connect(opts, logger)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	page, err := stealth.Page(b)
	if err != nil {
		return nil, fmt.Errorf("failed to open tab: %w", err)
	}
	defer page.Close()

	pctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	page = page.Context(pctx)

	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             vp.Width,
		Height:            vp.Height,
		DeviceScaleFactor: 1,
	}); err != nil {
		return nil, fmt.Errorf("failed to set viewport: %w", err)
	}
	if err := page.Navigate(pageURL); err != nil {
		return nil, fmt.Errorf("failed to navigate to %s: %w", pageURL, err)
	}
	if err := page.WaitLoad(); err != nil {
		logger.Warn("Page did not finish loading", "url", pageURL, "error", err)
	}

	res, err := page.Eval(captureScript, selector, normalize.Properties, markerAttr)
	if err != nil {
		return nil, fmt.Errorf("failed to capture %s: %w", pageURL, err)
	}

	var p payload
	if err := json.Unmarshal([]byte(res.Value.Str()), &p); err != nil {
		return nil, fmt.Errorf("failed to decode capture: %w", err)
	}
	c, err := fromPayload(p, u, logger)
	if err != nil {
		return nil, err
	}
	logger.Debug("Captured live page", "url", pageURL, "elements", len(p.Styles), "sheets", len(p.Sheets), "skipped", p.Skipped)
	return c, nil
}

func connect(opts Options, logger *slog.Logger) (*rod.Browser, func(), error) {
	controlURL := opts.RemoteURL
	var l *launcher.Launcher
	if controlURL == "" {
		l = launcher.New().Headless(true).Leakless(true)
		if opts.Bin != "" {
			l = l.Bin(opts.Bin)
		}
		u, err := l.Launch()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to launch browser: %w", err)
		}
		controlURL = u
	}

	b := rod.New().ControlURL(controlURL)
	if err := b.Connect(); err != nil {
		if l != nil {
			l.Cleanup()
		}
		return nil, nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	var once sync.Once
	cleanup := func() {
		once.Do(func() {
			if err := b.Close(); err != nil {
				logger.Debug("Browser close failed", "error", err)
			}
			if l != nil {
				l.Cleanup()
			}
		})
	}
	return b, cleanup, nil
}

// fromPayload parses the serialized page, binds each marked element to its
// captured style and removes the marker. Open shadow roots arrive as
// declarative templates and render as display: contents.
func fromPayload(p payload, pageURL *url.URL, logger *slog.Logger) (*Capture, error) {
	if !p.Found {
		return nil, ErrNotFound
	}
	doc, err := dom.ParseString(p.HTML, pageURL)
	if err != nil {
		return nil, err
	}

	styles := make(StyleMap)
	stack := []*html.Node{doc.Root()}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n == nil {
			continue
		}
		if dom.ShadowRootMode(n) == dom.ShadowOpen {
			styles[n] = dom.Style{"display": "contents"}
		}
		if n.Type == html.ElementNode {
			for i, a := range n.Attr {
				if a.Key != markerAttr {
					continue
				}
				if st, ok := p.Styles[a.Val]; ok {
					styles[n] = dom.Style(st)
				}
				n.Attr = append(n.Attr[:i], n.Attr[i+1:]...)
				break
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			stack = append(stack, c)
		}
	}
	doc.Styles = styles

	sheets := &cssom.Collection{Skipped: p.Skipped}
	for _, s := range p.Sheets {
		sheet, err := cssom.ParseStyleSheet(s.Text, s.Href)
		if err != nil {
			logger.Warn("Skipping unparsable stylesheet", "href", s.Href, "error", err)
			sheets.Skipped++
			continue
		}
		sheets.Add(sheet)
	}
	return &Capture{Document: doc, Sheets: sheets}, nil
}

// StyleMap holds computed style captured from the browser.
type StyleMap map[*html.Node]dom.Style

// ComputedStyle returns the captured style of n. Elements outside the
// captured subtree have none.
func (m StyleMap) ComputedStyle(n *html.Node) (dom.Style, error) {
	st, ok := m[n]
	if !ok {
		name := ""
		if n != nil {
			name = strings.ToLower(n.Data)
		}
		return nil, fmt.Errorf("<%s> was not captured: %w", name, dom.ErrNoComputedStyle)
	}
	return st, nil
}
