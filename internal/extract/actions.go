package extract

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/dtnitsch/ninja-snatch/internal/common"
	"github.com/dtnitsch/ninja-snatch/models"
	"github.com/dtnitsch/ninja-snatch/pkg/browser"
	"github.com/dtnitsch/ninja-snatch/pkg/caching"
	"github.com/dtnitsch/ninja-snatch/pkg/db"
	"github.com/dtnitsch/ninja-snatch/pkg/fetcher"
	"github.com/dtnitsch/ninja-snatch/pkg/mapreduce"
	"github.com/dtnitsch/ninja-snatch/pkg/snatch"
	"github.com/dtnitsch/ninja-snatch/pkg/storage"
)

func ExtractAction(c *cli.Context) error {
	logger := common.NewLogger(c)
	startTime := time.Now()

	cfg, err := common.LoadConfig(c)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	format, err := snatch.ParseFormat(c.String("format"))
	if err != nil {
		logger.Error("invalid format", "error", err)
		os.Exit(1)
	}
	jobs, err := jobsFromFlags(c)
	if err != nil {
		printUsage(err)
		os.Exit(1)
	}

	database, err := db.Open(c.String("db"))
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(2)
	}
	defer database.Close()

	r, err := newRunner(c, cfg, logger, database)
	if err != nil {
		logger.Error("failed to initialize runner", "error", err)
		os.Exit(2)
	}
	r.Format = format
	r.Sanitize = c.Bool("sanitize")
	r.Storage = &storage.Storage{Root: cfg.OutputDir}
	r.DB = database

	results := run(c.Context, logger, r, jobs, c.Int("workers"))

	// a single capture goes straight to stdout in the requested format
	if len(results) == 1 && results[0].Error == nil {
		fmt.Print(results[0].Output)
		logger.Info("Snapshot saved", "id", results[0].Snapshot.ID, "dir", results[0].Dir)
		return nil
	}

	final := FinalOutput{Status: "success", Stats: Stats{Total: len(results)}}
	var classCounts []map[string]int
	for _, res := range results {
		final.Results = append(final.Results, summarize(res))
		if res.Error != nil {
			final.Stats.Failed++
			continue
		}
		final.Stats.Successful++
		classCounts = append(classCounts, mapreduce.Map(res.Snapshot.Root))
	}
	final.Stats.TopClasses = mapreduce.TopClasses(mapreduce.Reduce(classCounts), 25)
	final.Stats.TotalTimeSeconds = time.Since(startTime).Seconds()
	if final.Stats.Failed > 0 {
		final.Status = "partial"
		if final.Stats.Successful == 0 {
			final.Status = "failed"
		}
	}

	out, err := yaml.Marshal(final)
	if err != nil {
		return fmt.Errorf("failed to encode summary: %w", err)
	}
	fmt.Print(string(out))

	if final.Stats.Successful == 0 {
		os.Exit(2)
	}
	return nil
}

// PatternsAction prints the repeating patterns found under the selector
// as a tree.
func PatternsAction(c *cli.Context) error {
	logger := common.NewLogger(c)
	snap := captureOne(c, logger)
	fmt.Print(PatternTree(snap.Root))
	fmt.Printf("\n%d pattern group(s), %d node(s)\n", snap.Stats.Patterns, snap.Stats.Nodes)
	return nil
}

// CSSAction prints only the stylesheet relevant to the selector.
func CSSAction(c *cli.Context) error {
	logger := common.NewLogger(c)
	snap := captureOne(c, logger)
	fmt.Print(snap.CSS)
	logger.Info("Relevant rules", "rules", snap.Stats.Rules, "total_rules", snap.Stats.TotalRules,
		"skipped_sheets", snap.Stats.SkippedSheets, "invalid_selectors", snap.Stats.InvalidSelectors)
	return nil
}

// captureOne runs the pipeline for the first source without storing it.
func captureOne(c *cli.Context, logger *slog.Logger) *models.Snapshot {
	cfg, err := common.LoadConfig(c)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	jobs, err := jobsFromFlags(c)
	if err != nil {
		printUsage(err)
		os.Exit(1)
	}
	if len(jobs) > 1 {
		logger.Warn("Only the first source is used", "sources", len(jobs))
	}

	r, err := newRunner(c, cfg, logger, nil)
	if err != nil {
		logger.Error("failed to initialize runner", "error", err)
		os.Exit(2)
	}
	snap, _, err := r.Snapshot(c.Context, jobs[0])
	if errors.Is(err, snatch.ErrNoMatch) {
		logger.Error("selector matched nothing", "source", jobs[0].Source(), "selector", jobs[0].Selector)
		os.Exit(1)
	}
	if err != nil {
		logger.Error("failed to capture", "source", jobs[0].Source(), "error", err)
		os.Exit(2)
	}
	return snap
}

func newRunner(c *cli.Context, cfg models.Config, logger *slog.Logger, database *db.DB) (*Runner, error) {
	var cache *caching.Cache
	if !c.Bool("no-cache") {
		var err error
		cache, err = caching.NewCache(cfg.CacheDir, cfg.CacheTTL)
		if err != nil {
			return nil, err
		}
	}

	f := fetcher.NewFetcher(cfg.FetchTimeout, cache, logger)
	if database != nil {
		f.OnAccess = RecordAccess(database, logger)
	}

	r := NewRunner(cfg, f, logger)
	r.Live = c.Bool("live")
	r.Browser = browser.Options{
		Viewport:  cfg.Viewport,
		Timeout:   cfg.FetchTimeout,
		Bin:       c.String("browser-bin"),
		RemoteURL: c.String("remote-browser"),
		Logger:    logger,
	}
	return r, nil
}

// RecordAccess returns a fetch hook that logs every network access to the
// url history.
func RecordAccess(database *db.DB, logger *slog.Logger) fetcher.AccessFunc {
	return func(rawURL string, statusCode int, err error) {
		urlID, insertErr := database.InsertURL(rawURL)
		if insertErr != nil {
			logger.Warn("Failed to record URL", "url", rawURL, "error", insertErr)
			return
		}
		errType := ""
		if err != nil {
			errType = "fetch_error"
			if errors.Is(err, context.DeadlineExceeded) {
				errType = "timeout"
			}
		}
		if recErr := database.RecordAccess(urlID, statusCode, errType, err == nil); recErr != nil {
			logger.Warn("Failed to record access", "url", rawURL, "error", recErr)
		}
	}
}

func jobsFromFlags(c *cli.Context) ([]Job, error) {
	selector := c.String("selector")
	var jobs []Job

	if c.IsSet("url") {
		urls, invalid := common.SanitizeAndValidateURLs(common.SplitList(c.String("url")))
		if len(invalid) > 0 {
			return nil, fmt.Errorf("%d URL(s) are malformed (even after cleanup): %v", len(invalid), invalid)
		}
		for _, u := range urls {
			jobs = append(jobs, Job{URL: u, Selector: selector})
		}
	}
	for _, f := range c.StringSlice("file") {
		jobs = append(jobs, Job{File: f, Selector: selector})
	}

	if len(jobs) == 0 {
		return nil, errors.New("no URLs or files provided")
	}
	if c.Bool("live") {
		for _, j := range jobs {
			if j.File != "" {
				return nil, errors.New("--live requires --url")
			}
		}
	}
	return jobs, nil
}

func printUsage(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, `  ninja-snatch extract --url "https://example.com" --selector ".product-grid"`)
	fmt.Fprintln(os.Stderr, `  ninja-snatch extract --file page.html --selector "#hero" --format html`)
	fmt.Fprintln(os.Stderr, `  ninja-snatch extract --url "https://a.com,https://b.com" --workers 4`)
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Need help? Run: ninja-snatch extract --help")
}
