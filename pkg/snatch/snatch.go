// Package snatch runs the full capture of one element: pattern analysis,
// style normalization, the annotated walk, CSS relevance and page metadata.
package snatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/dtnitsch/ninja-snatch/models"
	"github.com/dtnitsch/ninja-snatch/pkg/browser"
	"github.com/dtnitsch/ninja-snatch/pkg/cssom"
	"github.com/dtnitsch/ninja-snatch/pkg/detector"
	"github.com/dtnitsch/ninja-snatch/pkg/dom"
	"github.com/dtnitsch/ninja-snatch/pkg/relevance"
	"github.com/dtnitsch/ninja-snatch/pkg/walker"
)

// ErrNoMatch is returned when the selector matches no element.
var ErrNoMatch = dom.ErrNoMatch

// Pipeline holds everything one extraction needs. A Pipeline carries no
// state between runs and may be shared by concurrent callers.
type Pipeline struct {
	Config models.Config
	Logger *slog.Logger
	// Loader fetches linked stylesheets for static documents. Nil skips them.
	Loader cssom.Loader
	now    func() time.Time
}

// New returns a Pipeline for cfg.
func New(cfg models.Config, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{Config: cfg, Logger: logger, now: time.Now}
}

func (p *Pipeline) logger() *slog.Logger {
	if p.Logger == nil {
		return slog.Default()
	}
	return p.Logger
}

func (p *Pipeline) timestamp() time.Time {
	if p.now == nil {
		return time.Now().UTC()
	}
	return p.now().UTC()
}

// Run captures the first element matching selector in doc. When doc has
// no style source, computed style is resolved from the document's own
// stylesheets.
func (p *Pipeline) Run(ctx context.Context, doc *dom.Document, selector string) (*models.Snapshot, error) {
	if doc == nil {
		return nil, errors.New("failed to run pipeline: nil document")
	}
	if err := p.Config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	sheets := cssom.Collect(ctx, doc, p.Loader, p.logger())
	return p.run(doc, sheets, selector, false)
}

// RunLive renders pageURL in a headless browser and captures selector
// from the rendered page.
func (p *Pipeline) RunLive(ctx context.Context, pageURL, selector string, opts browser.Options) (*models.Snapshot, error) {
	if err := p.Config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if opts.Logger == nil {
		opts.Logger = p.logger()
	}
	if opts.Viewport == (models.Viewport{}) {
		opts.Viewport = p.Config.Viewport
	}
	if opts.Timeout <= 0 {
		opts.Timeout = p.Config.FetchTimeout
	}
	capture, err := browser.Load(ctx, pageURL, selector, opts)
	if errors.Is(err, browser.ErrNotFound) {
		return nil, fmt.Errorf("%q: %w", selector, ErrNoMatch)
	}
	if err != nil {
		return nil, err
	}
	return p.run(capture.Document, capture.Sheets, selector, true)
}

func (p *Pipeline) run(doc *dom.Document, sheets *cssom.Collection, selector string, live bool) (*models.Snapshot, error) {
	logger := p.logger()
	cfg := p.Config

	if doc.Styles == nil {
		doc.Styles = cssom.NewEngine(sheets, cfg.Viewport)
	}
	root, err := doc.Select(selector)
	if err != nil {
		return nil, err
	}

	snap := &models.Snapshot{
		ID:        uuid.NewString(),
		URL:       urlString(doc.URL),
		Selector:  selector,
		Mode:      cfg.Mode,
		Live:      live,
		CreatedAt: p.timestamp(),
	}
	if snap.Selector == "" {
		snap.Selector = "body"
	}

	res, err := walker.New(cfg).Walk(root)
	if err != nil {
		logger.Warn("Analysis failed, falling back to raw clone", "selector", snap.Selector, "error", err)
		snap.Root = walker.Clone(root, cfg.MaxNodes)
		snap.Fallback = true
		snap.Error = err.Error()
		snap.Stats.Nodes = snap.Root.Count()
	} else {
		snap.Root = res.Root
		snap.Stats.Nodes = res.Nodes
		snap.Stats.Patterns = len(res.Groups)
		snap.Stats.Truncated = res.Truncated
		if res.Truncated {
			logger.Warn("Walk truncated", "selector", snap.Selector, "nodes", res.Nodes, "max_nodes", cfg.MaxNodes, "max_depth", cfg.MaxDepth)
		}
	}

	rel := relevance.NewMatcher().Match(sheets.Rules(), root.Node())
	snap.CSS = rel.CSS()
	snap.Stats.Rules = len(rel.Rules)
	snap.Stats.TotalRules = rel.Total
	snap.Stats.SkippedSheets = sheets.Skipped
	snap.Stats.SkippedShadowRoots = rel.SkippedShadowRoots
	snap.Stats.InvalidSelectors = rel.InvalidSelectors

	text := doc.Query.FindNodes(root.Node()).Text()
	snap.Metadata = detector.Detect(doc.Raw(), doc.URL, text)

	logger.Debug("Snapshot built",
		"id", snap.ID,
		"selector", snap.Selector,
		"nodes", snap.Stats.Nodes,
		"patterns", snap.Stats.Patterns,
		"rules", snap.Stats.Rules,
		"total_rules", snap.Stats.TotalRules,
		"fallback", snap.Fallback,
	)
	return snap, nil
}

func urlString(u *url.URL) string {
	if u == nil {
		return ""
	}
	return u.String()
}
