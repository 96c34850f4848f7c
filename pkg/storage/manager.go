package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"sspscraper/pkg/portal"
)

// partialSuffix marks a download Chrome has not finished writing
const partialSuffix = ".crdownload"

// Checker decides whether a category period is already on disk
type Checker interface {
	IsDownloaded(category string, year, month portal.Field) bool
}

// Never is the default Checker: every period is treated as not yet downloaded
type Never struct{}

// IsDownloaded always returns false
func (Never) IsDownloaded(string, portal.Field, portal.Field) bool {
	return false
}

// Manager detects already downloaded periods by globbing the download
// directory. The pattern may use {category}, {year}, {month} and {month2}
// (zero padded) placeholders. Nothing is ever written by the Manager.
type Manager struct {
	outputDir string
	pattern   string
	found     map[string]bool
	mu        sync.RWMutex
}

// NewManager creates a new storage manager for outputDir
func NewManager(outputDir, pattern string) (*Manager, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	if pattern != "" {
		if _, err := filepath.Match(pattern, ""); err != nil {
			return nil, fmt.Errorf("invalid download pattern %q: %w", pattern, err)
		}
	}

	return &Manager{
		outputDir: outputDir,
		pattern:   pattern,
		found:     make(map[string]bool),
	}, nil
}

// Expand substitutes the placeholders of the pattern for one period
func (m *Manager) Expand(category string, year, month portal.Field) string {
	month2 := month.String()
	if month.Valid {
		month2 = fmt.Sprintf("%02d", month.Value)
	}
	r := strings.NewReplacer(
		"{category}", escapeGlob(category),
		"{year}", escapeGlob(year.String()),
		"{month2}", escapeGlob(month2),
		"{month}", escapeGlob(month.String()),
	)
	return r.Replace(m.pattern)
}

// IsDownloaded reports whether a finished file matching the period exists
func (m *Manager) IsDownloaded(category string, year, month portal.Field) bool {
	if m.pattern == "" {
		return false
	}
	key := m.Expand(category, year, month)

	m.mu.RLock()
	hit := m.found[key]
	m.mu.RUnlock()
	if hit {
		return true
	}

	matches, err := filepath.Glob(filepath.Join(m.outputDir, key))
	if err != nil {
		return false
	}
	for _, match := range matches {
		if strings.HasSuffix(match, partialSuffix) {
			continue
		}
		if info, err := os.Stat(match); err == nil && !info.IsDir() {
			m.mu.Lock()
			m.found[key] = true
			m.mu.Unlock()
			return true
		}
	}
	return false
}

// GetOutputDir returns the output directory path
func (m *Manager) GetOutputDir() string {
	return m.outputDir
}

// GetDownloadedCount returns how many periods were found on disk so far
func (m *Manager) GetDownloadedCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.found)
}

func escapeGlob(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '*', '?', '[', ']', '\\':
			b.WriteRune('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
