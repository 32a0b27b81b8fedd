package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtnitsch/ninja-snatch/models"
)

func TestSaveSnapshot(t *testing.T) {
	s := &Storage{Root: t.TempDir()}
	snap := &models.Snapshot{
		ID:        "abc",
		Selector:  ".card",
		Mode:      models.ModeStrict,
		Root:      &models.AnnotatedNode{TagName: "div", ClassList: []string{"mt-[17px]"}},
		CSS:       ".card { color: red; }\n",
		CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	dir, err := s.SaveSnapshot(snap, Artifacts{HTML: `<div class="mt-[17px]"></div>`, YAML: true})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(s.Root, "abc"), dir)

	for _, name := range []string{SnapshotJSON, SnapshotYAML, SnapshotHTML, StylesCSS} {
		assert.True(t, s.HasFile(filepath.Join(dir, name)), name)
	}
	_, err = os.Stat(filepath.Join(dir, SnapshotJSX))
	assert.True(t, errors.Is(err, os.ErrNotExist))

	stats, err := s.GetFileStats(filepath.Join(dir, StylesCSS))
	require.NoError(t, err)
	assert.Equal(t, int64(len(snap.CSS)), stats.SizeBytes)

	loaded, err := s.LoadSnapshot("abc")
	require.NoError(t, err)
	assert.Equal(t, snap.Root.ClassList, loaded.Root.ClassList)
	assert.Equal(t, models.ModeStrict, loaded.Mode)
	assert.True(t, snap.CreatedAt.Equal(loaded.CreatedAt))
}

func TestSaveSnapshotRequiresID(t *testing.T) {
	s := &Storage{Root: t.TempDir()}
	_, err := s.SaveSnapshot(&models.Snapshot{}, Artifacts{})
	assert.Error(t, err)
}

func TestLoadSnapshotMissing(t *testing.T) {
	s := &Storage{Root: t.TempDir()}
	_, err := s.LoadSnapshot("nope")
	assert.ErrorIs(t, err, os.ErrNotExist)
}
