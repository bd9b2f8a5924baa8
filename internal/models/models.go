// filepath: internal/models/models.go
// Package models contains the core data structures for the application.
package models

// User is a library profile. Exactly one user (id "1") acts as the default
// profile and is resolved without an explicit id by get_default_user.
type User struct {
	ID               string   `json:"id"`
	Username         string   `json:"username"`
	Settings         Settings `json:"settings"`
	LastWatchedVideo *OsVideo `json:"last_watched_video,omitempty"`
}

// DefaultUserID is the fixed id of the default profile.
const DefaultUserID = "1"

// Settings is owned 1:1 by a User. update_date and update_time are kept as
// separately formatted strings for direct display, not as a single datetime.
type Settings struct {
	UserID     string      `json:"user_id"`
	Mpv        MpvSettings `json:"mpv_settings"`
	UpdateDate string      `json:"update_date"`
	UpdateTime string      `json:"update_time"`
}

// MpvSettings holds the external player configuration.
type MpvSettings struct {
	ExePath     *string `json:"exe_path"`
	ConfigPath  *string `json:"config_path"`
	PluginsPath *string `json:"plugins_path"`
	Autoplay    bool    `json:"autoplay"`
}

// OsFolder represents a directory under a user's library. The absolute path
// is the primary key; parent_path is nil for library roots.
type OsFolder struct {
	UserID           string    `json:"user_id"`
	Path             string    `json:"path"`
	Title            string    `json:"title"`
	ParentPath       *string   `json:"parent_path,omitempty"`
	OsVideos         []OsVideo `json:"os_videos,omitempty"`
	LastWatchedVideo *OsVideo  `json:"last_watched_video,omitempty"`
	CoverImgPath     *string   `json:"cover_img_path,omitempty"`
	UpdateDate       string    `json:"update_date"`
	UpdateTime       string    `json:"update_time"`
}

// OsVideo represents a single playable file, keyed by absolute path.
// main_folder_path points back at the owning OsFolder.
type OsVideo struct {
	UserID         string        `json:"user_id"`
	MainFolderPath string        `json:"main_folder_path"`
	Path           string        `json:"path"`
	Title          string        `json:"title"`
	CoverImgPath   *string       `json:"cover_img_path,omitempty"`
	Watched        bool          `json:"watched"`
	Duration       float64       `json:"duration"`
	Position       float64       `json:"position"`
	Metadata       *FileMetadata `json:"metadata,omitempty"`
	UpdateDate     string        `json:"update_date"`
	UpdateTime     string        `json:"update_time"`
}

// FileMetadata carries filesystem timestamps (unix seconds) and size.
type FileMetadata struct {
	Created  *int64 `json:"created"`
	Modified *int64 `json:"modified"`
	Accessed *int64 `json:"accessed"`
	Size     *int64 `json:"size"`
}

// FolderMetadata is a backend-computed aggregate over a folder's contents.
type FolderMetadata struct {
	Contains FolderContains `json:"contains"`
	Size     int64          `json:"size"`
}

type FolderContains struct {
	Files   int `json:"files"`
	Folders int `json:"folders"`
}

// ProgressPercent clamps a playback position against the stored duration for
// display. position > duration is tolerated, never asserted.
func (v OsVideo) ProgressPercent() float64 {
	if v.Duration <= 0 {
		return 0
	}
	pct := v.Position / v.Duration * 100
	if pct > 100 {
		return 100
	}
	if pct < 0 {
		return 0
	}
	return pct
}
