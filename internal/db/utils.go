package db

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	dbpkg "github.com/dtnitsch/ninja-snatch/pkg/db"
)

// GetSnapshotIDOrLatest returns the snapshot ID from args, or the latest snapshot if not provided
func GetSnapshotIDOrLatest(c *cli.Context, database *dbpkg.DB) (string, error) {
	if c.NArg() > 0 {
		return c.Args().First(), nil
	}

	snapshots, err := database.ListSnapshots(1)
	if err != nil {
		return "", fmt.Errorf("failed to get latest snapshot: %w", err)
	}
	if len(snapshots) == 0 {
		return "", fmt.Errorf("no snapshots found. Run 'ninja-snatch extract --url \"...\"' first")
	}
	return snapshots[0].ID, nil
}

// DescribeAccess renders the last recorded fetch of rawURL.
func DescribeAccess(database *dbpkg.DB, rawURL string) (string, error) {
	urlID, err := database.GetURLID(rawURL)
	if err != nil {
		return "", fmt.Errorf("URL not found in history: %s", rawURL)
	}
	record, err := database.GetLastAccess(urlID)
	if err != nil {
		return "", err
	}
	if record == nil {
		return fmt.Sprintf("[#%d] %s has never been fetched\n", urlID, rawURL), nil
	}

	status := "ok"
	if !record.Success {
		status = "failed: " + record.ErrorType
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "[#%d] %s\n", urlID, rawURL)
	fmt.Fprintf(&sb, "  Last fetch: %s\n", record.AccessedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&sb, "  Status:     %d (%s)\n", record.StatusCode, status)
	return sb.String(), nil
}
