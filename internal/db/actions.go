package db

import (
	"errors"
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	dbpkg "github.com/dtnitsch/ninja-snatch/pkg/db"
	"github.com/dtnitsch/ninja-snatch/pkg/snatch"
)

func SnapshotsAction(c *cli.Context) error {
	database, err := dbpkg.Open(c.String("db"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	snapshots, err := database.ListSnapshots(c.Int("limit"))
	if err != nil {
		return fmt.Errorf("failed to list snapshots: %w", err)
	}

	if len(snapshots) == 0 {
		fmt.Println("No snapshots found")
		return nil
	}

	// Print table header
	fmt.Printf("%-36s %-20s %-6s %-6s %-8s %-6s %-24s %s\n",
		"ID", "Created", "Mode", "Nodes", "Patterns", "Rules", "Selector", "URL")
	fmt.Println(strings.Repeat("-", 140))

	for _, s := range snapshots {
		mode := s.Mode
		if s.Fallback {
			mode += "*"
		}
		fmt.Printf("%-36s %-20s %-6s %-6d %-8d %-6d %-24s %s\n",
			s.ID,
			s.CreatedAt.Format("2006-01-02 15:04:05"),
			mode,
			s.Nodes,
			s.Patterns,
			s.Rules,
			truncate(s.Selector, 24),
			s.URL,
		)
	}

	fmt.Printf("\nTotal: %d snapshots (* = fallback)\n", len(snapshots))
	fmt.Printf("\nTip: Use 'ninja-snatch db show <id>' to see a snapshot\n")

	return nil
}

// ShowAction prints a stored snapshot in the requested format.
func ShowAction(c *cli.Context) error {
	database, err := dbpkg.Open(c.String("db"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	id, err := GetSnapshotIDOrLatest(c, database)
	if err != nil {
		return err
	}

	snap, err := database.GetSnapshot(id)
	if errors.Is(err, dbpkg.ErrSnapshotNotFound) {
		return fmt.Errorf("snapshot %s not found\nUsage: ninja-snatch db show <id>", id)
	}
	if err != nil {
		return err
	}

	format, err := snatch.ParseFormat(c.String("format"))
	if err != nil {
		return err
	}
	out, err := snatch.Render(snap, format, c.Bool("sanitize"))
	if err != nil {
		return err
	}
	fmt.Print(out)
	return nil
}

// AccessAction shows the last recorded fetch of a URL.
func AccessAction(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("URL required\nUsage: ninja-snatch db access <url>")
	}
	database, err := dbpkg.Open(c.String("db"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	out, err := DescribeAccess(database, c.Args().First())
	if err != nil {
		return err
	}
	fmt.Print(out)
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
