// filepath: internal/repository/user_repo.go
package repository

import (
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/oklog/ulid/v2"

	"mpvshelf/internal/logging"
	"mpvshelf/internal/models"
	"mpvshelf/internal/shared"
)

const userCacheTTL = 5 * time.Minute

// GetDefaultUser resolves the single profile treated as "current" absent
// explicit selection.
func (s *Repository) GetDefaultUser() (*models.User, error) {
	return s.GetUserByID(models.DefaultUserID)
}

// GetUserByID retrieves a user and their settings, using a cache for the hot
// dashboard lookups.
func (s *Repository) GetUserByID(id string) (*models.User, error) {
	cacheKey := fmt.Sprintf("user_by_id_%s", id)
	if user, found := s.Cache.Get(cacheKey); found {
		return user.(*models.User), nil
	}

	logging.Log.Debugf("GetUserByID: CACHE MISS for '%s'. Querying DB.", id)
	query := s.Builder.
		Select("u.id", "u.username", "u.last_watched_video",
			"s.mpv_exe_path", "s.mpv_config_path", "s.mpv_plugins_path", "s.autoplay",
			"s.update_date", "s.update_time").
		From("users u").
		Join("settings s ON s.user_id = u.id").
		Where(squirrel.Eq{"u.id": id})

	sqlQuery, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	var user models.User
	var lastWatched sql.NullString
	var exe, cfgPath, plugins sql.NullString
	row := s.DB.QueryRow(sqlQuery, args...)
	if err := row.Scan(&user.ID, &user.Username, &lastWatched,
		&exe, &cfgPath, &plugins, &user.Settings.Mpv.Autoplay,
		&user.Settings.UpdateDate, &user.Settings.UpdateTime); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, shared.NewCommandError(shared.KindNotFound, "User Not Found",
				fmt.Sprintf("User with ID %s not found.", id))
		}
		return nil, err
	}

	user.Settings.UserID = user.ID
	user.Settings.Mpv.ExePath = strPtr(exe)
	user.Settings.Mpv.ConfigPath = strPtr(cfgPath)
	user.Settings.Mpv.PluginsPath = strPtr(plugins)
	user.LastWatchedVideo = videoSnapshotFromJSON(lastWatched)

	s.Cache.Set(cacheKey, &user, userCacheTTL)
	return &user, nil
}

// CreateUser inserts a new profile with its settings row. An empty id gets a
// fresh ULID; the default profile keeps the fixed id "1".
func (s *Repository) CreateUser(user *models.User) (*models.User, error) {
	if user.ID == "" {
		user.ID = ulid.MustNew(ulid.Now(), rand.Reader).String()
	}
	user.Settings.UserID = user.ID
	if user.Settings.UpdateDate == "" {
		user.Settings.UpdateDate, user.Settings.UpdateTime = models.NowStamp()
	}
	return user, s.UpsertUser(user)
}

// UpsertUser is a whole-object replace-on-save of the user and their
// embedded settings, matching the update_user contract.
func (s *Repository) UpsertUser(user *models.User) error {
	tx, err := s.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	lastWatched, err := videoSnapshotJSON(user.LastWatchedVideo)
	if err != nil {
		return err
	}

	userQuery := `
		INSERT INTO users (id, username, last_watched_video)
		VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			username = excluded.username,
			last_watched_video = excluded.last_watched_video
	`
	if _, err := tx.Exec(userQuery, user.ID, user.Username, lastWatched); err != nil {
		return err
	}

	settingsQuery := `
		INSERT INTO settings (user_id, mpv_exe_path, mpv_config_path, mpv_plugins_path, autoplay, update_date, update_time)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			mpv_exe_path = excluded.mpv_exe_path,
			mpv_config_path = excluded.mpv_config_path,
			mpv_plugins_path = excluded.mpv_plugins_path,
			autoplay = excluded.autoplay,
			update_date = excluded.update_date,
			update_time = excluded.update_time
	`
	date, timeOfDay := models.NowStamp()
	if _, err := tx.Exec(settingsQuery, user.ID,
		nullStr(user.Settings.Mpv.ExePath), nullStr(user.Settings.Mpv.ConfigPath),
		nullStr(user.Settings.Mpv.PluginsPath), user.Settings.Mpv.Autoplay,
		date, timeOfDay); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	s.Cache.Delete(fmt.Sprintf("user_by_id_%s", user.ID))
	return nil
}

// CreateDefaultUser provisions the "1" profile with default settings if it
// does not exist yet, returning the stored user either way.
func (s *Repository) CreateDefaultUser(username string) (*models.User, error) {
	if existing, err := s.GetDefaultUser(); err == nil {
		return existing, nil
	}

	if username == "" {
		username = "default"
	}
	user := &models.User{
		ID:       models.DefaultUserID,
		Username: username,
		Settings: models.Settings{
			UserID: models.DefaultUserID,
			Mpv:    models.MpvSettings{Autoplay: true},
		},
	}
	user.Settings.UpdateDate, user.Settings.UpdateTime = models.NowStamp()
	return s.CreateUser(user)
}
