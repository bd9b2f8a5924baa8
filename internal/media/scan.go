package media

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"mpvshelf/internal/shared"
)

// DirListing is the raw result of scanning one directory, before any
// reconciliation against cached records.
type DirListing struct {
	ChildFolderPaths []string
	VideoFilePaths   []string
	AudioFilePaths   []string
}

// Empty reports whether the directory held nothing the library cares about.
func (l DirListing) Empty() bool {
	return len(l.ChildFolderPaths) == 0 && len(l.VideoFilePaths) == 0 && len(l.AudioFilePaths) == 0
}

// ScanDir reads the direct children of path and buckets them into child
// directories and supported media files. Hidden directories are skipped.
// A directory with no supported content yields a NotFound-kinded error,
// matching the historical "contains 0 supported files" behavior.
func ScanDir(path string) (DirListing, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return DirListing{}, shared.WrapCommandError(shared.KindNotFound, "OsFolders Not Found", err)
	}

	var listing DirListing
	for _, entry := range entries {
		full := filepath.Join(path, entry.Name())
		if entry.IsDir() {
			if entry.Name()[0] == '.' {
				continue
			}
			listing.ChildFolderPaths = append(listing.ChildFolderPaths, full)
			continue
		}
		switch {
		case IsSupportedVideo(entry.Name()):
			listing.VideoFilePaths = append(listing.VideoFilePaths, full)
		case IsSupportedAudio(entry.Name()):
			listing.AudioFilePaths = append(listing.AudioFilePaths, full)
		}
	}

	if listing.Empty() {
		return listing, shared.NewCommandError(shared.KindNotFound, "OsFolders Not Found",
			fmt.Sprintf("%s contains 0 supported files.", path))
	}

	sort.Strings(listing.ChildFolderPaths)
	sort.Strings(listing.VideoFilePaths)
	sort.Strings(listing.AudioFilePaths)
	return listing, nil
}
