// filepath: internal/storage/paths.go
// Package storage manages the application data directory: downloaded player
// binaries and library export archives live under it.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	binSubdir    = "bin"
	exportSubdir = "exports"
)

// Resolve joins parts under root and validates the result stays inside root.
func Resolve(root string, parts ...string) (string, error) {
	joined := filepath.Join(root, filepath.Join(parts...))

	// --- SECURITY: Prevent Path Traversal ---
	cleaned := filepath.Clean(joined)
	cleanedRoot := filepath.Clean(root)
	if !strings.HasPrefix(cleaned, cleanedRoot+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid path: %q escapes data directory %q", joined, root)
	}
	return cleaned, nil
}

// EnsureDir resolves a subdirectory under root and creates it if missing.
func EnsureDir(root string, parts ...string) (string, error) {
	dir, err := Resolve(root, parts...)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("could not create directory structure: %w", err)
	}
	return dir, nil
}

// EnsureDataDir creates the data directory layout on startup.
func EnsureDataDir(root string) error {
	if err := os.MkdirAll(filepath.Clean(root), 0755); err != nil {
		return fmt.Errorf("could not create data directory: %w", err)
	}
	for _, sub := range []string{binSubdir, exportSubdir} {
		if _, err := EnsureDir(root, sub); err != nil {
			return err
		}
	}
	return nil
}

// BinDir returns the directory for downloaded player binaries, creating it.
func BinDir(root string) (string, error) {
	return EnsureDir(root, binSubdir)
}

// ExportDir returns the directory for export archives, creating it.
func ExportDir(root string) (string, error) {
	return EnsureDir(root, exportSubdir)
}
