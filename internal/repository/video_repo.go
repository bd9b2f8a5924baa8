// filepath: internal/repository/video_repo.go
package repository

import (
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"mpvshelf/internal/models"
	"mpvshelf/internal/shared"
)

const videoColumns = "path, user_id, main_folder_path, title, cover_img_path, watched, duration, position, metadata, update_date, update_time"

func scanVideo(row interface{ Scan(...any) error }) (models.OsVideo, error) {
	var v models.OsVideo
	var cover, metadata sql.NullString
	err := row.Scan(&v.Path, &v.UserID, &v.MainFolderPath, &v.Title, &cover,
		&v.Watched, &v.Duration, &v.Position, &metadata, &v.UpdateDate, &v.UpdateTime)
	if err != nil {
		return v, err
	}
	v.CoverImgPath = strPtr(cover)
	v.Metadata = metadataFromJSON(metadata)
	return v, nil
}

func (s *Repository) queryVideos(query squirrel.SelectBuilder) ([]models.OsVideo, error) {
	sqlQuery, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.DB.Query(sqlQuery, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	videos := make([]models.OsVideo, 0)
	for rows.Next() {
		v, err := scanVideo(rows)
		if err != nil {
			return nil, err
		}
		videos = append(videos, v)
	}
	return videos, rows.Err()
}

// GetOsVideos returns the videos directly inside mainFolderPath, sorted.
// An empty result is a NotFound error, matching the historical wire contract.
func (s *Repository) GetOsVideos(mainFolderPath string, sort models.SortType) ([]models.OsVideo, error) {
	videos, err := s.queryVideos(s.Builder.
		Select(videoColumns).
		From("os_videos").
		Where(squirrel.Eq{"main_folder_path": mainFolderPath}))
	if err != nil {
		return nil, err
	}

	if len(videos) == 0 {
		return nil, shared.NewCommandError(shared.KindNotFound, "OsVideos Not Found",
			fmt.Sprintf("0 OsVideos found belonging to: %s", mainFolderPath))
	}

	models.SortVideos(videos, sort)
	return videos, nil
}

// GetOsVideosByUser returns every video belonging to a user. Used by the
// data export; an empty library is not an error here.
func (s *Repository) GetOsVideosByUser(userID string, sort models.SortType) ([]models.OsVideo, error) {
	videos, err := s.queryVideos(s.Builder.
		Select(videoColumns).
		From("os_videos").
		Where(squirrel.Eq{"user_id": userID}))
	if err != nil {
		return nil, err
	}
	models.SortVideos(videos, sort)
	return videos, nil
}

// UpsertOsVideos writes the given video records in the order given,
// refreshing their update stamps, matching the update_os_videos contract.
func (s *Repository) UpsertOsVideos(videos []models.OsVideo) error {
	tx, err := s.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	date, timeOfDay := models.NowStamp()
	query := `
		INSERT INTO os_videos (path, user_id, main_folder_path, title, cover_img_path, watched, duration, position, metadata, update_date, update_time)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			user_id = excluded.user_id,
			main_folder_path = excluded.main_folder_path,
			title = excluded.title,
			cover_img_path = excluded.cover_img_path,
			watched = excluded.watched,
			duration = excluded.duration,
			position = excluded.position,
			metadata = excluded.metadata,
			update_date = excluded.update_date,
			update_time = excluded.update_time
	`
	for _, v := range videos {
		metadata, err := metadataJSON(v.Metadata)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(query, v.Path, v.UserID, v.MainFolderPath, v.Title,
			nullStr(v.CoverImgPath), v.Watched, v.Duration, v.Position, metadata,
			date, timeOfDay); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// DeleteOsVideoRecords removes video rows by path.
func (s *Repository) DeleteOsVideoRecords(paths []string) error {
	if len(paths) == 0 {
		return nil
	}
	query := s.Builder.Delete("os_videos").Where(squirrel.Eq{"path": paths})
	sqlQuery, args, err := query.ToSql()
	if err != nil {
		return err
	}
	_, err = s.DB.Exec(sqlQuery, args...)
	return err
}
