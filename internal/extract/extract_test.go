package extract

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dbcmd "github.com/dtnitsch/ninja-snatch/internal/db"
	"github.com/dtnitsch/ninja-snatch/models"
	"github.com/dtnitsch/ninja-snatch/pkg/db"
	"github.com/dtnitsch/ninja-snatch/pkg/fetcher"
	"github.com/dtnitsch/ninja-snatch/pkg/snatch"
	"github.com/dtnitsch/ninja-snatch/pkg/storage"
)

const page = `<html><head><style>
.list { display: flex; gap: 8px; }
.item { padding: 4px; }
.item b { font-weight: 700; }
.nowhere { color: red; }
</style></head><body>
<ul class="list" id="items">
  <li class="item"><b>One</b></li>
  <li class="item"><b>Two</b></li>
  <li class="item"><b>Three</b></li>
</ul>
</body></html>`

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writePage(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(page), 0644))
	return path
}

func newTestRunner(t *testing.T) (*Runner, *db.DB) {
	t.Helper()
	dir := t.TempDir()
	database, err := db.Open(filepath.Join(dir, "snatch.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	r := NewRunner(models.DefaultConfig(), nil, discard())
	r.Storage = &storage.Storage{Root: filepath.Join(dir, "results")}
	r.DB = database
	return r, database
}

func TestProcessFile(t *testing.T) {
	r, database := newTestRunner(t)
	r.Format = snatch.FormatJSX
	file := writePage(t, t.TempDir(), "page.html")

	res := r.Process(context.Background(), Job{File: file, Selector: "#items"})
	require.NoError(t, res.Error)
	require.NotNil(t, res.Snapshot)

	assert.True(t, strings.HasPrefix(res.Output, "export default function Snapshot()"))
	assert.Equal(t, r.Storage.Dir(res.Snapshot.ID), res.Dir)
	for _, name := range []string{storage.SnapshotJSON, storage.SnapshotHTML, storage.SnapshotJSX, storage.StylesCSS} {
		assert.FileExists(t, filepath.Join(res.Dir, name))
	}

	stored, err := database.GetSnapshot(res.Snapshot.ID)
	require.NoError(t, err)
	assert.Equal(t, "#items", stored.Selector)
	assert.Equal(t, res.Snapshot.Stats, stored.Stats)

	css, err := os.ReadFile(filepath.Join(res.Dir, storage.StylesCSS))
	require.NoError(t, err)
	assert.Contains(t, string(css), ".item b")
	assert.NotContains(t, string(css), ".nowhere")
}

func TestProcessErrors(t *testing.T) {
	r, _ := newTestRunner(t)
	file := writePage(t, t.TempDir(), "page.html")

	tests := []struct {
		name    string
		job     Job
		errType string
	}{
		{name: "missing file", job: Job{File: filepath.Join(t.TempDir(), "nope.html")}, errType: "read_error"},
		{name: "no match", job: Job{File: file, Selector: ".missing"}, errType: "no_match"},
		{name: "no fetcher", job: Job{URL: "https://example.com"}, errType: "fetch_error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := r.Process(context.Background(), tt.job)
			require.Error(t, res.Error)
			assert.Equal(t, tt.errType, res.ErrorType)
			assert.Nil(t, res.Snapshot)
			assert.Equal(t, "failed", summarize(res).Status)
		})
	}
}

func TestRecordAccess(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/shop", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, strings.Replace(page, "<style>",
			`<link rel="stylesheet" href="/site.css"><link rel="stylesheet" href="/gone.css"><style>`, 1))
	})
	mux.HandleFunc("/site.css", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, ".item { margin: 0; }")
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	r, database := newTestRunner(t)
	f := fetcher.NewFetcher(5*time.Second, nil, discard())
	f.OnAccess = RecordAccess(database, discard())
	r.Fetcher = f
	r.Pipeline.Loader = f

	res := r.Process(context.Background(), Job{URL: ts.URL + "/shop", Selector: "#items"})
	require.NoError(t, res.Error)
	assert.Equal(t, 1, res.Snapshot.Stats.SkippedSheets)
	assert.Contains(t, res.Snapshot.CSS, "margin")

	tests := []struct {
		path        string
		status      int
		success     bool
		errorType   string
		description string
	}{
		{path: "/shop", status: 200, success: true, description: "200 (ok)"},
		{path: "/site.css", status: 200, success: true, description: "200 (ok)"},
		{path: "/gone.css", status: 404, errorType: "fetch_error", description: "404 (failed: fetch_error)"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			urlID, err := database.GetURLID(ts.URL + tt.path)
			require.NoError(t, err)
			record, err := database.GetLastAccess(urlID)
			require.NoError(t, err)
			require.NotNil(t, record)
			assert.Equal(t, tt.status, record.StatusCode)
			assert.Equal(t, tt.success, record.Success)
			assert.Equal(t, tt.errorType, record.ErrorType)

			out, err := dbcmd.DescribeAccess(database, ts.URL+tt.path)
			require.NoError(t, err)
			assert.Contains(t, out, tt.description)
		})
	}

	_, err := dbcmd.DescribeAccess(database, ts.URL+"/never")
	assert.Error(t, err)
}

func TestRecordAccessTimeout(t *testing.T) {
	_, database := newTestRunner(t)
	hook := RecordAccess(database, discard())
	hook("https://slow.example.com/", 0, fmt.Errorf("failed to make HTTP request: %w", context.DeadlineExceeded))

	urlID, err := database.GetURLID("https://slow.example.com/")
	require.NoError(t, err)
	record, err := database.GetLastAccess(urlID)
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, "timeout", record.ErrorType)
	assert.False(t, record.Success)
}

func TestRunKeepsJobOrder(t *testing.T) {
	r, database := newTestRunner(t)
	dir := t.TempDir()

	var jobs []Job
	for _, name := range []string{"a.html", "b.html", "c.html", "d.html"} {
		jobs = append(jobs, Job{File: writePage(t, dir, name), Selector: ".list"})
	}
	jobs = append(jobs, Job{File: filepath.Join(dir, "missing.html")})

	results := run(context.Background(), discard(), r, jobs, 3)
	require.Len(t, results, len(jobs))
	for i, res := range results {
		assert.Equal(t, jobs[i].Source(), res.Job.Source())
	}
	for _, res := range results[:4] {
		require.NoError(t, res.Error)
		out := summarize(res)
		assert.Equal(t, "success", out.Status)
		assert.Equal(t, 1, out.Patterns)
	}
	assert.Error(t, results[4].Error)

	list, err := database.ListSnapshots(0)
	require.NoError(t, err)
	assert.Len(t, list, 4)
}

func TestRunCanceled(t *testing.T) {
	r, _ := newTestRunner(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := run(ctx, discard(), r, []Job{{File: writePage(t, t.TempDir(), "p.html")}}, 1)
	require.Len(t, results, 1)
	assert.Equal(t, "canceled", results[0].ErrorType)
}

func TestPatternTree(t *testing.T) {
	root := &models.AnnotatedNode{
		TagName:    "section",
		Attributes: []models.Attribute{{Name: "id", Value: "shop"}},
		Children: []*models.AnnotatedNode{
			{TagName: "h2"},
			{
				TagName:   "ul",
				ClassList: []string{"flex", "gap-2"},
				Children: []*models.AnnotatedNode{
					{TagName: "li", ClassList: []string{"p-1"}},
					{TagName: "li", ClassList: []string{"p-1"}},
				},
				Patterns: []models.PatternRef{{ID: "pattern-1", Size: 2, AverageSimilarity: 100, Members: []int{0, 1}}},
			},
		},
	}

	out := PatternTree(root)
	assert.Contains(t, out, "section#shop")
	assert.Contains(t, out, "ul .flex.gap-2")
	assert.Contains(t, out, "pattern-1 ×2 (avg 100%)")
	assert.Contains(t, out, "[0] li .p-1")
	assert.Contains(t, out, "[1] li .p-1")
	assert.NotContains(t, out, "h2")
}
