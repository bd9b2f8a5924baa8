// filepath: internal/housekeeping/interfaces.go
package housekeeping

import (
	"mpvshelf/internal/models"
)

// DBTX defines the database methods required by the housekeeping service.
// This decouples the rescan logic from the concrete repository implementation.
type DBTX interface {
	GetDefaultUser() (*models.User, error)
	GetOsFolders(userID string, sort models.SortType) ([]models.OsFolder, error)
}

// Hydrator re-reconciles one directory against the filesystem.
type Hydrator interface {
	UpsertReadOsDir(user *models.User, dirPath string, parentPath *string, heldFolders []models.OsFolder, heldVideos []models.OsVideo) (bool, error)
}

// Dependencies bundles everything the housekeeping service needs.
type Dependencies struct {
	DB       DBTX
	Hydrator Hydrator
}
