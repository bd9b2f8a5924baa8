// filepath: internal/library/export.go
package library

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"mpvshelf/internal/logging"
	"mpvshelf/internal/models"
	"mpvshelf/internal/repository"
	"mpvshelf/internal/storage"
)

// Archive is the on-disk shape of a full data export. Field names keep the
// legacy export format so old archives remain importable.
type Archive struct {
	User *models.User      `json:"user"`
	Dirs []models.OsFolder `json:"dirs"`
	Vids []models.OsVideo  `json:"vids"`
}

func exportFilename(username string) string {
	return fmt.Sprintf("%s-%s.json", username, time.Now().Format("2006-01-02_15-04-05"))
}

// ExportAllData snapshots a user's profile, folders and videos into a single
// JSON file under destDir and returns the written path.
func ExportAllData(repo *repository.Repository, user *models.User, destDir string) (string, error) {
	dirs, err := repo.GetOsFoldersByUser(user.ID, models.SortNone)
	if err != nil {
		return "", err
	}
	vids, err := repo.GetOsVideosByUser(user.ID, models.SortNone)
	if err != nil {
		return "", err
	}

	archive := Archive{User: user, Dirs: dirs, Vids: vids}
	data, err := json.MarshalIndent(archive, "", "  ")
	if err != nil {
		return "", err
	}

	exportDir, err := storage.ExportDir(destDir)
	if err != nil {
		return "", err
	}
	outPath := filepath.Join(exportDir, exportFilename(user.Username))
	if err := os.WriteFile(outPath, data, 0644); err != nil {
		return "", err
	}

	logging.Log.WithField("path", outPath).Info("Exported library data")
	return outPath, nil
}

// ImportAllData restores an archive written by ExportAllData. Records are
// upserted, so importing over an existing library merges rather than wipes.
func ImportAllData(repo *repository.Repository, srcPath string) (*models.User, error) {
	data, err := os.ReadFile(srcPath)
	if err != nil {
		return nil, err
	}

	var archive Archive
	if err := json.Unmarshal(data, &archive); err != nil {
		return nil, fmt.Errorf("parsing archive %s: %w", srcPath, err)
	}
	if archive.User == nil {
		return nil, fmt.Errorf("archive %s has no user record", srcPath)
	}

	if err := repo.UpsertUser(archive.User); err != nil {
		return nil, err
	}
	if len(archive.Dirs) > 0 {
		if err := repo.UpsertOsFolders(archive.Dirs); err != nil {
			return nil, err
		}
	}
	if len(archive.Vids) > 0 {
		if err := repo.UpsertOsVideos(archive.Vids); err != nil {
			return nil, err
		}
	}

	logging.Log.WithFields(logrus.Fields{
		"folders": len(archive.Dirs),
		"videos":  len(archive.Vids),
	}).Info("Imported library data")
	return archive.User, nil
}

// CheckCoverImgExists reports whether a previously generated cover image is
// still present on disk.
func CheckCoverImgExists(imgPath string) bool {
	if imgPath == "" {
		return false
	}
	info, err := os.Stat(imgPath)
	return err == nil && !info.IsDir()
}
