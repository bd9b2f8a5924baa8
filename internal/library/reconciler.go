// filepath: internal/library/reconciler.go
package library

import (
	"errors"
	"fmt"

	"mpvshelf/internal/logging"
	"mpvshelf/internal/media"
	"mpvshelf/internal/models"
	"mpvshelf/internal/repository"
	"mpvshelf/internal/shared"
)

// Reconciler hydrates folder records from the filesystem. It is the only
// writer that scans disk; everything else reads through the repository.
type Reconciler struct {
	Repo *repository.Repository
}

func NewReconciler(repo *repository.Repository) *Reconciler {
	return &Reconciler{Repo: repo}
}

// ignoreNotFound turns an empty-collection error into an empty slice so the
// reconciler can diff against "nothing stored yet".
func ignoreNotFound(err error) error {
	if err == nil {
		return nil
	}
	var cmdErr *shared.CommandError
	if errors.As(err, &cmdErr) && cmdErr.Kind == shared.KindNotFound {
		return nil
	}
	return err
}

// UpsertReadOsDir scans dirPath, reconciles the stored records with what is
// actually on disk, and reports whether the caller's view is out of date.
//
// The returned bool is true when the database changed during this call, or
// when the caller's held collections no longer match the reconciled state.
// Passing nil for heldFolders or heldVideos means the caller holds no view
// of that collection and it is excluded from the comparison. Calling twice
// in a row with an unchanged disk and accurate held collections yields false.
//
// parentPath records where dirPath hangs in the tree. It is applied when the
// directory's own record is first created, so hydrating a subdirectory
// directly never promotes it to a library root. nil means dirPath is a root.
func (r *Reconciler) UpsertReadOsDir(user *models.User, dirPath string, parentPath *string, heldFolders []models.OsFolder, heldVideos []models.OsVideo) (bool, error) {
	listing, err := media.ScanDir(dirPath)
	if err != nil {
		// The directory vanished out from under us. Drop its records so
		// stale entries do not linger in the panel.
		if stored, lookupErr := r.Repo.GetOsFolderByPath(dirPath); lookupErr == nil {
			logging.Log.WithField("path", dirPath).Warn("Watched directory is gone, removing its records")
			if delErr := r.Repo.DeleteOsFolders([]models.OsFolder{*stored}, user); delErr != nil {
				return false, delErr
			}
			return true, err
		}
		return false, err
	}

	changed := false

	folderChanged, childFolders, err := r.reconcileFolders(user, dirPath, parentPath, listing)
	if err != nil {
		return false, err
	}
	changed = changed || folderChanged

	videoChanged, videos, err := r.reconcileVideos(user, dirPath, listing)
	if err != nil {
		return false, err
	}
	changed = changed || videoChanged

	if heldFolders != nil && !samePathSetFolders(heldFolders, childFolders) {
		changed = true
	}
	if heldVideos != nil && !samePathSetVideos(heldVideos, videos) {
		changed = true
	}

	return changed, nil
}

// reconcileFolders upserts the record for dirPath itself plus records for
// each on-disk child directory, and cascades away children that no longer
// exist. Returns the surviving child folder records.
func (r *Reconciler) reconcileFolders(user *models.User, dirPath string, parentPath *string, listing media.DirListing) (bool, []models.OsFolder, error) {
	changed := false

	self, err := r.Repo.GetOsFolderByPath(dirPath)
	if err != nil {
		if err = ignoreNotFound(err); err != nil {
			return false, nil, err
		}
		self = &models.OsFolder{
			UserID:     user.ID,
			Path:       dirPath,
			Title:      media.TitleFromPath(dirPath),
			ParentPath: parentPath,
		}
		if err := r.Repo.UpsertOsFolders([]models.OsFolder{*self}); err != nil {
			return false, nil, err
		}
		changed = true
	} else if self.ParentPath == nil && parentPath != nil {
		// Repair a record that was hydrated before its parent was known.
		self.ParentPath = parentPath
		if err := r.Repo.UpsertOsFolders([]models.OsFolder{*self}); err != nil {
			return false, nil, err
		}
		changed = true
	}

	stored, err := r.Repo.GetOsFoldersByPath(dirPath, models.SortNone)
	if err = ignoreNotFound(err); err != nil {
		return false, nil, err
	}

	storedByPath := make(map[string]models.OsFolder, len(stored))
	for _, f := range stored {
		storedByPath[f.Path] = f
	}
	onDisk := make(map[string]struct{}, len(listing.ChildFolderPaths))

	var toUpsert []models.OsFolder
	for _, childPath := range listing.ChildFolderPaths {
		onDisk[childPath] = struct{}{}
		if _, ok := storedByPath[childPath]; ok {
			continue
		}
		parent := dirPath
		toUpsert = append(toUpsert, models.OsFolder{
			UserID:     user.ID,
			Path:       childPath,
			Title:      media.TitleFromPath(childPath),
			ParentPath: &parent,
		})
	}

	var toDelete []models.OsFolder
	for _, f := range stored {
		if _, ok := onDisk[f.Path]; !ok {
			toDelete = append(toDelete, f)
		}
	}

	if len(toUpsert) > 0 {
		if err := r.Repo.UpsertOsFolders(toUpsert); err != nil {
			return false, nil, err
		}
		changed = true
	}
	if len(toDelete) > 0 {
		if err := r.Repo.DeleteOsFolders(toDelete, user); err != nil {
			return false, nil, err
		}
		changed = true
	}

	survivors, err := r.Repo.GetOsFoldersByPath(dirPath, models.SortNone)
	if err = ignoreNotFound(err); err != nil {
		return false, nil, err
	}
	return changed, survivors, nil
}

// reconcileVideos upserts records for supported files directly inside
// dirPath, re-reads metadata for videos whose on-disk size drifted, and
// removes records for files that are gone.
func (r *Reconciler) reconcileVideos(user *models.User, dirPath string, listing media.DirListing) (bool, []models.OsVideo, error) {
	stored, err := r.Repo.GetOsVideos(dirPath, models.SortNone)
	if err = ignoreNotFound(err); err != nil {
		return false, nil, err
	}

	storedByPath := make(map[string]models.OsVideo, len(stored))
	for _, v := range stored {
		storedByPath[v.Path] = v
	}

	filePaths := make([]string, 0, len(listing.VideoFilePaths)+len(listing.AudioFilePaths))
	filePaths = append(filePaths, listing.VideoFilePaths...)
	filePaths = append(filePaths, listing.AudioFilePaths...)

	onDisk := make(map[string]struct{}, len(filePaths))
	var toUpsert []models.OsVideo
	for _, filePath := range filePaths {
		onDisk[filePath] = struct{}{}
		existing, ok := storedByPath[filePath]
		if ok && !media.IsStaleMetadata(existing) {
			continue
		}
		if !ok {
			existing = models.OsVideo{
				UserID:         user.ID,
				MainFolderPath: dirPath,
				Path:           filePath,
				Title:          media.TitleFromPath(filePath),
			}
		}
		existing.Metadata = media.FileMetadataFromPath(filePath)
		toUpsert = append(toUpsert, existing)
	}

	var toDelete []string
	for _, v := range stored {
		if _, ok := onDisk[v.Path]; !ok {
			toDelete = append(toDelete, v.Path)
		}
	}

	changed := false
	if len(toUpsert) > 0 {
		if err := r.Repo.UpsertOsVideos(toUpsert); err != nil {
			return false, nil, err
		}
		changed = true
	}
	if len(toDelete) > 0 {
		if err := r.Repo.DeleteOsVideoRecords(toDelete); err != nil {
			return false, nil, err
		}
		changed = true
	}

	survivors, err := r.Repo.GetOsVideos(dirPath, models.SortNone)
	if err = ignoreNotFound(err); err != nil {
		return false, nil, err
	}
	return changed, survivors, nil
}

func samePathSetFolders(a, b []models.OsFolder) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[string]struct{}, len(a))
	for _, f := range a {
		seen[f.Path] = struct{}{}
	}
	for _, f := range b {
		if _, ok := seen[f.Path]; !ok {
			return false
		}
	}
	return true
}

func samePathSetVideos(a, b []models.OsVideo) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[string]struct{}, len(a))
	for _, v := range a {
		seen[v.Path] = struct{}{}
	}
	for _, v := range b {
		if _, ok := seen[v.Path]; !ok {
			return false
		}
	}
	return true
}

// AddRootFolders registers new top-level folders for a user and performs the
// initial hydration pass on each.
func (r *Reconciler) AddRootFolders(user *models.User, paths []string) error {
	for _, p := range paths {
		if _, err := r.UpsertReadOsDir(user, p, nil, nil, nil); err != nil {
			return fmt.Errorf("hydrating %s: %w", p, err)
		}
	}
	return nil
}
