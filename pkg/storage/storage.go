// Package storage writes snapshot artifacts to disk.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dtnitsch/ninja-snatch/models"
)

const (
	SnapshotJSON = "snapshot.json"
	SnapshotYAML = "snapshot.yaml"
	SnapshotHTML = "snapshot.html"
	SnapshotJSX  = "Snapshot.jsx"
	StylesCSS    = "styles.css"
)

// Storage lays artifacts out as <Root>/<snapshot-id>/<file>.
type Storage struct {
	Root string
}

// FileStats holds metadata about a file without reading its contents.
type FileStats struct {
	SizeBytes int64
	ModTime   time.Time
}

// Artifacts are the rendered forms written next to the snapshot document.
// Empty fields are skipped.
type Artifacts struct {
	HTML string
	JSX  string
	YAML bool
}

// Dir returns the artifact directory of a snapshot.
func (s *Storage) Dir(id string) string {
	return filepath.Join(s.Root, id)
}

// SaveSnapshot writes snap and its rendered forms and returns the directory.
func (s *Storage) SaveSnapshot(snap *models.Snapshot, a Artifacts) (string, error) {
	if snap.ID == "" {
		return "", fmt.Errorf("failed to save snapshot: missing id")
	}
	dir := s.Dir(snap.ID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create artifact directory: %w", err)
	}

	doc, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode snapshot: %w", err)
	}
	if err := s.SaveFile(filepath.Join(dir, SnapshotJSON), doc); err != nil {
		return "", err
	}

	if a.YAML {
		out, err := yaml.Marshal(snap)
		if err != nil {
			return "", fmt.Errorf("failed to encode snapshot: %w", err)
		}
		if err := s.SaveFile(filepath.Join(dir, SnapshotYAML), out); err != nil {
			return "", err
		}
	}

	files := []struct {
		name, body string
	}{
		{SnapshotHTML, a.HTML},
		{SnapshotJSX, a.JSX},
		{StylesCSS, snap.CSS},
	}
	for _, f := range files {
		if f.body == "" {
			continue
		}
		if err := s.SaveFile(filepath.Join(dir, f.name), []byte(f.body)); err != nil {
			return "", err
		}
	}
	return dir, nil
}

// LoadSnapshot reads the snapshot document stored for id.
func (s *Storage) LoadSnapshot(id string) (*models.Snapshot, error) {
	data, err := s.ReadFile(filepath.Join(s.Dir(id), SnapshotJSON))
	if err != nil {
		return nil, err
	}
	var snap models.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot %s: %w", id, err)
	}
	return &snap, nil
}

func (s *Storage) SaveFile(filePath string, content []byte) error {
	if err := os.WriteFile(filePath, content, 0644); err != nil {
		return fmt.Errorf("error saving file: %w", err)
	}
	return nil
}

func (s *Storage) ReadFile(filePath string) ([]byte, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}
	return data, nil
}

func (s *Storage) HasFile(fn string) bool {
	_, err := os.Stat(fn)
	return err == nil || !os.IsNotExist(err)
}

// GetFileStats returns metadata about a file using os.Stat.
func (s *Storage) GetFileStats(filePath string) (*FileStats, error) {
	info, err := os.Stat(filePath)
	if err != nil {
		return nil, fmt.Errorf("error getting file stats: %w", err)
	}

	return &FileStats{
		SizeBytes: info.Size(),
		ModTime:   info.ModTime(),
	}, nil
}
