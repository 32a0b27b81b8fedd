package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/ninja-snatch/internal/db"
	"github.com/dtnitsch/ninja-snatch/internal/extract"
	"github.com/dtnitsch/ninja-snatch/internal/serve"
	"github.com/dtnitsch/ninja-snatch/pkg/help"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "YAML config file", Value: "snatch.yaml", EnvVars: []string{"SNATCH_CONFIG"}},
		&cli.BoolFlag{Name: "quiet", Aliases: []string{"q"}, Usage: "Only log errors"},
		&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "Log debug output"},
		&cli.StringFlag{Name: "db", Usage: "SQLite history database (default: next to the binary)", EnvVars: []string{"SNATCH_DB"}},
	}
}

func sourceFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "url", Aliases: []string{"u"}, Usage: "Comma separated page URLs"},
		&cli.StringSliceFlag{Name: "file", Aliases: []string{"f"}, Usage: "Local HTML file (repeatable)"},
		&cli.StringFlag{Name: "selector", Aliases: []string{"s"}, Usage: "CSS selector of the element to capture (default: body)"},
		&cli.StringFlag{Name: "mode", Aliases: []string{"m"}, Usage: "Normalization mode: loose|strict"},
		&cli.IntFlag{Name: "threshold", Usage: "Pattern similarity threshold 0-100"},
		&cli.BoolFlag{Name: "live", Usage: "Render the page in headless Chrome"},
		&cli.StringFlag{Name: "browser-bin", Usage: "Chrome binary for --live"},
		&cli.StringFlag{Name: "remote-browser", Usage: "DevTools URL of a running browser for --live"},
		&cli.BoolFlag{Name: "no-cache", Usage: "Bypass the page cache"},
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "ninja-snatch",
		Usage:   "Capture a page element as normalized utility-class markup",
		Version: "0.1.0",
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			{
				Name:    "extract",
				Aliases: []string{"x"},
				Usage:   "Capture elements and store snapshots",
				Flags: append(sourceFlags(),
					&cli.StringFlag{Name: "format", Usage: "Output format: json|yaml|html|jsx", Value: "json"},
					&cli.BoolFlag{Name: "sanitize", Usage: "Strip scripts and handlers from HTML output"},
					&cli.StringFlag{Name: "output-dir", Aliases: []string{"o"}, Usage: "Artifact directory"},
					&cli.IntFlag{Name: "workers", Aliases: []string{"w"}, Usage: "Concurrent captures", Value: 4},
				),
				Action: extract.ExtractAction,
			},
			{
				Name:   "patterns",
				Usage:  "Show repeating patterns under an element",
				Flags:  sourceFlags(),
				Action: extract.PatternsAction,
			},
			{
				Name:   "css",
				Usage:  "Print the CSS rules relevant to an element",
				Flags:  sourceFlags(),
				Action: extract.CSSAction,
			},
			{
				Name:  "db",
				Usage: "Inspect snapshot history",
				Subcommands: []*cli.Command{
					{
						Name:   "snapshots",
						Usage:  "List recent snapshots",
						Flags:  []cli.Flag{&cli.IntFlag{Name: "limit", Aliases: []string{"n"}, Value: 20}},
						Action: db.SnapshotsAction,
					},
					{
						Name:      "show",
						Usage:     "Print a stored snapshot (latest when no id)",
						ArgsUsage: "[id]",
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "format", Value: "json"},
							&cli.BoolFlag{Name: "sanitize"},
						},
						Action: db.ShowAction,
					},
					{
						Name:      "access",
						Usage:     "Show the last fetch of a URL",
						ArgsUsage: "<url>",
						Action:    db.AccessAction,
					},
				},
			},
			{
				Name:  "serve",
				Usage: "Run the HTTP API",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "addr", Value: ":8080", EnvVars: []string{"SNATCH_ADDR"}},
					&cli.StringFlag{Name: "mode", Usage: "Normalization mode: loose|strict"},
					&cli.IntFlag{Name: "threshold", Usage: "Pattern similarity threshold 0-100"},
				},
				Action: serve.ServeAction,
			},
			{
				Name:  "quickstart",
				Usage: "Print a quick start guide",
				Action: func(*cli.Context) error {
					fmt.Print(help.QuickstartYAML)
					return nil
				},
			},
		},
	}
}
