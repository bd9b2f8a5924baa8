// filepath: internal/repository/folder_repo.go
package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"mpvshelf/internal/models"
	"mpvshelf/internal/shared"
)

const folderColumns = "path, user_id, title, parent_path, last_watched_video, cover_img_path, update_date, update_time"

func scanFolder(row interface{ Scan(...any) error }) (models.OsFolder, error) {
	var f models.OsFolder
	var parent, lastWatched, cover sql.NullString
	err := row.Scan(&f.Path, &f.UserID, &f.Title, &parent, &lastWatched, &cover, &f.UpdateDate, &f.UpdateTime)
	if err != nil {
		return f, err
	}
	f.ParentPath = strPtr(parent)
	f.CoverImgPath = strPtr(cover)
	f.LastWatchedVideo = videoSnapshotFromJSON(lastWatched)
	return f, nil
}

func (s *Repository) queryFolders(query squirrel.SelectBuilder) ([]models.OsFolder, error) {
	sqlQuery, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.DB.Query(sqlQuery, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	folders := make([]models.OsFolder, 0)
	for rows.Next() {
		f, err := scanFolder(rows)
		if err != nil {
			return nil, err
		}
		folders = append(folders, f)
	}
	return folders, rows.Err()
}

// GetOsFolders returns a user's root folders (parent_path IS NULL), sorted.
// An empty result is a NotFound error, matching the historical wire contract.
func (s *Repository) GetOsFolders(userID string, sort models.SortType) ([]models.OsFolder, error) {
	folders, err := s.queryFolders(s.Builder.
		Select(folderColumns).
		From("os_folders").
		Where(squirrel.Eq{"user_id": userID, "parent_path": nil}))
	if err != nil {
		return nil, err
	}

	if len(folders) == 0 {
		return nil, shared.NewCommandError(shared.KindNotFound, "OsFolders Not Found",
			fmt.Sprintf("0 OsFolders found belonging to user_id: %s", userID))
	}

	models.SortFolders(folders, sort)
	return folders, nil
}

// GetOsFoldersByPath returns the direct child folders of parentPath, sorted.
func (s *Repository) GetOsFoldersByPath(parentPath string, sort models.SortType) ([]models.OsFolder, error) {
	folders, err := s.queryFolders(s.Builder.
		Select(folderColumns).
		From("os_folders").
		Where(squirrel.Eq{"parent_path": parentPath}))
	if err != nil {
		return nil, err
	}

	if len(folders) == 0 {
		return nil, shared.NewCommandError(shared.KindNotFound, "OsFolders Not Found",
			fmt.Sprintf("0 child folders found in dir: %s", parentPath))
	}

	models.SortFolders(folders, sort)
	return folders, nil
}

// GetOsFoldersByUser returns every folder belonging to a user, roots and
// children alike. Used by the data export; an empty library is not an error.
func (s *Repository) GetOsFoldersByUser(userID string, sort models.SortType) ([]models.OsFolder, error) {
	folders, err := s.queryFolders(s.Builder.
		Select(folderColumns).
		From("os_folders").
		Where(squirrel.Eq{"user_id": userID}))
	if err != nil {
		return nil, err
	}
	models.SortFolders(folders, sort)
	return folders, nil
}

// GetOsFolderByPath retrieves a single folder record by primary key.
func (s *Repository) GetOsFolderByPath(folderPath string) (*models.OsFolder, error) {
	query := s.Builder.
		Select(folderColumns).
		From("os_folders").
		Where(squirrel.Eq{"path": folderPath})

	sqlQuery, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	f, err := scanFolder(s.DB.QueryRow(sqlQuery, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, shared.NewCommandError(shared.KindNotFound, "OsFolders Not Found",
				fmt.Sprintf("OsFolder not found from path: %s", folderPath))
		}
		return nil, err
	}
	return &f, nil
}

// UpsertOsFolders writes the given folder records, refreshing their update
// stamps, matching the update_os_folders contract.
func (s *Repository) UpsertOsFolders(folders []models.OsFolder) error {
	tx, err := s.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	date, timeOfDay := models.NowStamp()
	query := `
		INSERT INTO os_folders (path, user_id, title, parent_path, last_watched_video, cover_img_path, update_date, update_time)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			user_id = excluded.user_id,
			title = excluded.title,
			parent_path = excluded.parent_path,
			last_watched_video = excluded.last_watched_video,
			cover_img_path = excluded.cover_img_path,
			update_date = excluded.update_date,
			update_time = excluded.update_time
	`
	for _, f := range folders {
		lastWatched, err := videoSnapshotJSON(f.LastWatchedVideo)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(query, f.Path, f.UserID, f.Title, nullStr(f.ParentPath),
			lastWatched, nullStr(f.CoverImgPath), date, timeOfDay); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// subtreePaths walks parent_path links breadth-first from root, returning
// root plus every descendant folder path. Folder trees mirror the
// filesystem, so the walk terminates.
func (s *Repository) subtreePaths(tx *sql.Tx, root string) ([]string, error) {
	paths := []string{root}
	frontier := []string{root}
	for len(frontier) > 0 {
		query := s.Builder.Select("path").From("os_folders").
			Where(squirrel.Eq{"parent_path": frontier})
		sqlQuery, args, err := query.ToSql()
		if err != nil {
			return nil, err
		}
		rows, err := tx.Query(sqlQuery, args...)
		if err != nil {
			return nil, err
		}
		var next []string
		for rows.Next() {
			var p string
			if err := rows.Scan(&p); err != nil {
				rows.Close()
				return nil, err
			}
			next = append(next, p)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return nil, err
		}
		paths = append(paths, next...)
		frontier = next
	}
	return paths, nil
}

// DeleteOsFolders removes the given folders together with every descendant
// folder and their videos. When the passed user's last-watched pointer
// refers to one of the removed videos it is cleared and the user saved in
// the same pass.
func (s *Repository) DeleteOsFolders(folders []models.OsFolder, user *models.User) error {
	tx, err := s.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	userDirty := false
	for _, folder := range folders {
		paths, err := s.subtreePaths(tx, folder.Path)
		if err != nil {
			return err
		}

		if user != nil && user.LastWatchedVideo != nil {
			lwQuery := s.Builder.Select("count(1)").From("os_videos").
				Where(squirrel.Eq{"main_folder_path": paths, "path": user.LastWatchedVideo.Path})
			sqlQuery, args, err := lwQuery.ToSql()
			if err != nil {
				return err
			}
			var n int
			if err := tx.QueryRow(sqlQuery, args...).Scan(&n); err != nil {
				return err
			}
			if n > 0 {
				user.LastWatchedVideo = nil
				userDirty = true
			}
		}

		delVideos := s.Builder.Delete("os_videos").Where(squirrel.Eq{"main_folder_path": paths})
		sqlQuery, args, err := delVideos.ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(sqlQuery, args...); err != nil {
			return err
		}

		delFolders := s.Builder.Delete("os_folders").Where(squirrel.Eq{"path": paths})
		sqlQuery, args, err = delFolders.ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(sqlQuery, args...); err != nil {
			return err
		}
	}

	if userDirty {
		lastWatched, err := videoSnapshotJSON(user.LastWatchedVideo)
		if err != nil {
			return err
		}
		if _, err := tx.Exec("UPDATE users SET last_watched_video = ? WHERE id = ?", lastWatched, user.ID); err != nil {
			return err
		}
		s.Cache.Delete(fmt.Sprintf("user_by_id_%s", user.ID))
	}

	return tx.Commit()
}
