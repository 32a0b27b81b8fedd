package extract

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"

	"github.com/dtnitsch/ninja-snatch/models"
	"github.com/dtnitsch/ninja-snatch/pkg/browser"
	"github.com/dtnitsch/ninja-snatch/pkg/db"
	"github.com/dtnitsch/ninja-snatch/pkg/dom"
	"github.com/dtnitsch/ninja-snatch/pkg/fetcher"
	"github.com/dtnitsch/ninja-snatch/pkg/snatch"
	"github.com/dtnitsch/ninja-snatch/pkg/storage"
)

// Runner turns jobs into stored snapshots. Storage and DB are optional.
type Runner struct {
	Pipeline *snatch.Pipeline
	Fetcher  *fetcher.Fetcher
	Storage  *storage.Storage
	DB       *db.DB
	Format   snatch.Format
	Sanitize bool
	Live     bool
	Browser  browser.Options
	Logger   *slog.Logger
}

// NewRunner wires a runner for cfg. f may be nil when only files are captured.
func NewRunner(cfg models.Config, f *fetcher.Fetcher, logger *slog.Logger) *Runner {
	p := snatch.New(cfg, logger)
	if f != nil {
		p.Loader = f
	}
	return &Runner{
		Pipeline: p,
		Fetcher:  f,
		Format:   snatch.FormatJSON,
		Logger:   logger,
	}
}

// Snapshot captures the job's element without rendering or storing it.
func (r *Runner) Snapshot(ctx context.Context, job Job) (*models.Snapshot, string, error) {
	if job.File != "" {
		f, err := os.Open(job.File)
		if err != nil {
			return nil, "read_error", fmt.Errorf("failed to open %s: %w", job.File, err)
		}
		defer f.Close()
		doc, err := dom.Parse(f, nil)
		if err != nil {
			return nil, "parse_error", err
		}
		return r.run(ctx, doc, job)
	}

	if job.HTML != "" {
		var base *url.URL
		if job.URL != "" {
			u, err := url.Parse(job.URL)
			if err != nil {
				return nil, "invalid_url", fmt.Errorf("failed to parse URL %s: %w", job.URL, err)
			}
			base = u
		}
		doc, err := dom.ParseString(job.HTML, base)
		if err != nil {
			return nil, "parse_error", err
		}
		return r.run(ctx, doc, job)
	}

	if r.Live {
		snap, err := r.Pipeline.RunLive(ctx, job.URL, job.Selector, r.Browser)
		if err != nil {
			return nil, errorType(err, "browser_error"), err
		}
		return snap, "", nil
	}

	if r.Fetcher == nil {
		return nil, "fetch_error", errors.New("failed to fetch: no fetcher configured")
	}
	doc, err := r.Fetcher.GetHtml(ctx, job.URL)
	if err != nil {
		return nil, "fetch_error", err
	}
	return r.run(ctx, doc, job)
}

func (r *Runner) run(ctx context.Context, doc *dom.Document, job Job) (*models.Snapshot, string, error) {
	snap, err := r.Pipeline.Run(ctx, doc, job.Selector)
	if err != nil {
		return nil, errorType(err, "pipeline_error"), err
	}
	return snap, "", nil
}

// Process captures, renders and persists one job.
func (r *Runner) Process(ctx context.Context, job Job) Result {
	result := Result{Job: job}

	snap, errType, err := r.Snapshot(ctx, job)
	if err != nil {
		result.Error = err
		result.ErrorType = errType
		return result
	}
	result.Snapshot = snap

	out, err := snatch.Render(snap, r.Format, r.Sanitize)
	if err != nil {
		result.Error = err
		result.ErrorType = "render_error"
		return result
	}
	result.Output = out

	if r.Storage != nil {
		artifacts := storage.Artifacts{YAML: r.Format == snatch.FormatYAML}
		switch r.Format {
		case snatch.FormatHTML:
			artifacts.HTML = out
		default:
			page, err := snatch.RenderHTML(snap, r.Sanitize)
			if err != nil {
				r.logger().Warn("Failed to render HTML artifact", "id", snap.ID, "error", err)
			}
			artifacts.HTML = page
		}
		if r.Format == snatch.FormatJSX {
			artifacts.JSX = out
		}
		dir, err := r.Storage.SaveSnapshot(snap, artifacts)
		if err != nil {
			result.Error = err
			result.ErrorType = "storage_error"
			return result
		}
		result.Dir = dir
	}

	if r.DB != nil {
		if err := r.DB.InsertSnapshot(snap, result.Dir); err != nil {
			r.logger().Warn("Failed to record snapshot", "id", snap.ID, "error", err)
		}
	}
	return result
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.Default()
	}
	return r.Logger
}

func errorType(err error, fallback string) string {
	switch {
	case errors.Is(err, snatch.ErrNoMatch):
		return "no_match"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	}
	return fallback
}
