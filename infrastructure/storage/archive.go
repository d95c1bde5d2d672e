package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// ScreenshotArchive keeps timestamped copies of captured screenshots in a
// local directory, pruning the oldest files beyond the retention count.
type ScreenshotArchive struct {
	dir  string
	keep int
}

// NewScreenshotArchive - creates the archive directory if needed. keep <= 0
// disables pruning.
func NewScreenshotArchive(dir string, keep int) (*ScreenshotArchive, error) {
	if dir == "" {
		dir = "screenshots"
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create screenshots directory: %w", err)
	}
	return &ScreenshotArchive{dir: dir, keep: keep}, nil
}

// SaveCapture - writes the screenshot under a timestamped name and returns
// the file path.
func (a *ScreenshotArchive) SaveCapture(data []byte, takenAt time.Time) (string, error) {
	name := fmt.Sprintf("solar_dashboard_%s.png", takenAt.Format("20060102_150405"))
	path := filepath.Join(a.dir, name)

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write screenshot: %w", err)
	}

	if a.keep > 0 {
		a.prune()
	}

	return path, nil
}

// prune - removes the oldest archived screenshots beyond the retention
// count. Prune failures are ignored: archival is best effort.
func (a *ScreenshotArchive) prune() {
	matches, err := filepath.Glob(filepath.Join(a.dir, "solar_dashboard_*.png"))
	if err != nil || len(matches) <= a.keep {
		return
	}

	// Timestamped names sort chronologically.
	sort.Strings(matches)
	for _, path := range matches[:len(matches)-a.keep] {
		os.Remove(path)
	}
}
