// filepath: internal/media/metadata.go
package media

import (
	"os"
	"path/filepath"

	"mpvshelf/internal/models"
)

// FileMetadataFromPath probes the filesystem for a file's timestamps and
// size. Returns nil when the file cannot be stat'd; callers treat a nil
// metadata block as stale.
func FileMetadataFromPath(path string) *models.FileMetadata {
	info, err := os.Stat(path)
	if err != nil {
		return nil
	}

	size := info.Size()
	modified := info.ModTime().Unix()
	meta := &models.FileMetadata{
		Modified: &modified,
		Size:     &size,
	}
	// Created/accessed times are platform dependent; the modified time is the
	// only stamp the reconciler compares, so missing values stay nil.
	return meta
}

// IsStaleMetadata reports whether a video's stored metadata no longer matches
// the file on disk. A missing metadata block, or a file that can no longer be
// probed, is considered stale.
func IsStaleMetadata(v models.OsVideo) bool {
	if v.Metadata == nil || v.Metadata.Size == nil {
		return true
	}
	current := FileMetadataFromPath(v.Path)
	if current == nil {
		return true
	}
	return *current.Size != *v.Metadata.Size
}

// FolderMetadataFromPath aggregates direct-children counts and the total size
// of supported media files in a directory.
func FolderMetadataFromPath(path string) (*models.FolderMetadata, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}

	meta := &models.FolderMetadata{}
	for _, entry := range entries {
		if entry.IsDir() {
			meta.Contains.Folders++
			continue
		}
		meta.Contains.Files++
		if info, err := entry.Info(); err == nil {
			meta.Size += info.Size()
		}
	}
	return meta, nil
}

// TitleFromPath derives the display title of a folder or video from its path.
func TitleFromPath(path string) string {
	return filepath.Base(filepath.Clean(path))
}
