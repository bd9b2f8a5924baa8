// filepath: internal/bridge/client.go
package bridge

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"mpvshelf/internal/logging"
	"mpvshelf/internal/models"
	"mpvshelf/internal/shared"
)

// Client is the typed command client: one method per backend capability.
//
// Error handling is uniform across the surface. Read operations swallow
// failures into nil and log, so views degrade to empty states instead of
// surfacing errors. The two player operations (MpvSystemCheck, PlayVideo)
// propagate their failure as a wire string because the user can act on it.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 0}, // play_video blocks for the whole session
	}
}

// invoke posts one command and decodes the response into out (when non-nil).
// A non-2xx response is returned as a CommandError reparsed from the wire
// error string.
func (c *Client) invoke(name string, args interface{}, out interface{}) error {
	var body io.Reader
	if args != nil {
		payload, err := json.Marshal(args)
		if err != nil {
			return err
		}
		body = bytes.NewReader(payload)
	}

	resp, err := c.HTTPClient.Post(c.BaseURL+"/api/command/"+name, "application/json", body)
	if err != nil {
		return shared.WrapCommandError(shared.KindUnreachable, "Backend Unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var wireErr struct {
			Error string `json:"error"`
			Kind  string `json:"kind"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&wireErr); err != nil || wireErr.Error == "" {
			return shared.NewCommandError(shared.KindUnknown, "Backend Error",
				fmt.Sprintf("command %s failed with status %d", name, resp.StatusCode))
		}
		cmdErr := shared.ParseErrorString(wireErr.Error)
		if wireErr.Kind != "" {
			cmdErr.Kind = shared.ErrorKind(wireErr.Kind)
		}
		return cmdErr
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// logSwallowed records a read failure that is being converted to nil.
func logSwallowed(op string, err error) {
	logging.Log.WithError(err).Debugf("%s failed, returning nil", op)
}

// effectiveSort applies the listing default: an omitted sort means "updated".
func effectiveSort(sort models.SortType) models.SortType {
	if sort == "" {
		return models.DefaultSortType
	}
	return sort
}

// GetDefaultUser returns the default profile, or nil when none exists yet.
// The nil is the first-run signal that routes to profile creation.
func (c *Client) GetDefaultUser() *models.User {
	var user models.User
	if err := c.invoke("get_default_user", nil, &user); err != nil {
		logSwallowed("get_default_user", err)
		return nil
	}
	return &user
}

func (c *Client) GetUserByID(userID string) *models.User {
	args := map[string]string{"user_id": userID}
	var user models.User
	if err := c.invoke("get_user_by_id", args, &user); err != nil {
		logSwallowed("get_user_by_id", err)
		return nil
	}
	return &user
}

// UpdateUser saves a whole profile object. The error is returned so callers
// can surface save failures instead of dropping them.
func (c *Client) UpdateUser(user *models.User) error {
	err := c.invoke("update_user", map[string]interface{}{"user": user}, nil)
	if err != nil {
		logging.Log.WithError(err).Error("update_user failed")
	}
	return err
}

func (c *Client) GetOsFolders(userID string, sort models.SortType) []models.OsFolder {
	args := map[string]string{"user_id": userID, "sort_type": string(effectiveSort(sort))}
	var folders []models.OsFolder
	if err := c.invoke("get_os_folders", args, &folders); err != nil {
		logSwallowed("get_os_folders", err)
		return nil
	}
	return folders
}

func (c *Client) GetOsFoldersByPath(parentPath string, sort models.SortType) []models.OsFolder {
	args := map[string]string{"parent_path": parentPath, "sort_type": string(effectiveSort(sort))}
	var folders []models.OsFolder
	if err := c.invoke("get_os_folders_by_path", args, &folders); err != nil {
		logSwallowed("get_os_folders_by_path", err)
		return nil
	}
	return folders
}

func (c *Client) GetOsVideos(mainFolderPath string, sort models.SortType) []models.OsVideo {
	args := map[string]string{"main_folder_path": mainFolderPath, "sort_type": string(effectiveSort(sort))}
	var videos []models.OsVideo
	if err := c.invoke("get_os_videos_from_path", args, &videos); err != nil {
		logSwallowed("get_os_videos_from_path", err)
		return nil
	}
	return videos
}

func (c *Client) GetOsFolderByPath(folderPath string) *models.OsFolder {
	args := map[string]string{"folder_path": folderPath}
	var folder models.OsFolder
	if err := c.invoke("get_os_folder_by_path", args, &folder); err != nil {
		logSwallowed("get_os_folder_by_path", err)
		return nil
	}
	return &folder
}

func (c *Client) UpdateOsVideos(videos []models.OsVideo) error {
	err := c.invoke("update_os_videos", map[string]interface{}{"os_videos": videos}, nil)
	if err != nil {
		logging.Log.WithError(err).Error("update_os_videos failed")
	}
	return err
}

func (c *Client) DeleteOsFolders(folders []models.OsFolder, user *models.User) error {
	args := map[string]interface{}{"os_folders": folders, "user": user}
	err := c.invoke("delete_os_folders", args, nil)
	if err != nil {
		logging.Log.WithError(err).Error("delete_os_folders failed")
	}
	return err
}

// UpsertReadOsDir reconciles one directory. The contract never fails: any
// transport or backend error maps to false ("no refetch needed") so
// navigation is never blocked by a reconciliation problem.
func (c *Client) UpsertReadOsDir(path, userID string, parentPath *string, oldDirs []models.OsFolder, oldVideos []models.OsVideo) bool {
	args := map[string]interface{}{
		"path":        path,
		"user_id":     userID,
		"parent_path": parentPath,
		"old_dirs":    oldDirs,
		"old_videos":  oldVideos,
	}
	var needsRefetch bool
	if err := c.invoke("upsert_read_os_dir", args, &needsRefetch); err != nil {
		logging.Log.WithError(err).WithField("path", path).
			Warn("upsert_read_os_dir failed, treating as no refetch")
		return false
	}
	return needsRefetch
}

// MpvSystemCheck returns nil when the player is usable, or the wire error
// string for the user to act on.
func (c *Client) MpvSystemCheck(mpvPath *string) *string {
	args := map[string]interface{}{"mpv_path": mpvPath}
	if err := c.invoke("mpv_system_check", args, nil); err != nil {
		s := err.Error()
		return &s
	}
	return nil
}

// PlayVideo blocks for the whole playback session. A nil return means the
// session ended and its watch state was persisted; otherwise the error
// string is returned for surfacing.
func (c *Client) PlayVideo(mainFolder *models.OsFolder, osVideos []models.OsVideo, video *models.OsVideo, user *models.User) *string {
	args := map[string]interface{}{
		"main_folder": mainFolder,
		"os_videos":   osVideos,
		"video":       video,
		"user":        user,
	}
	if err := c.invoke("play_video", args, nil); err != nil {
		s := err.Error()
		return &s
	}
	return nil
}

// DownloadMpvBinary triggers a player download and returns the installed
// executable path. Subscribe to the progress event stream before calling.
func (c *Client) DownloadMpvBinary() (string, error) {
	var path string
	if err := c.invoke("download_mpv_binary", nil, &path); err != nil {
		return "", err
	}
	return path, nil
}

// ShowInFolder reveals a library path in the OS file manager.
func (c *Client) ShowInFolder(path string) error {
	err := c.invoke("show_in_folder", map[string]string{"path": path}, nil)
	if err != nil {
		logging.Log.WithError(err).WithField("path", path).Error("show_in_folder failed")
	}
	return err
}

func (c *Client) CheckCoverImgExists(imgPath string) bool {
	args := map[string]string{"img_path": imgPath}
	var exists bool
	if err := c.invoke("check_cover_img_exists", args, &exists); err != nil {
		logSwallowed("check_cover_img_exists", err)
		return false
	}
	return exists
}

func (c *Client) ExportAllData(userID string) (string, error) {
	var path string
	err := c.invoke("export_all_data", map[string]string{"user_id": userID}, &path)
	return path, err
}

func (c *Client) ImportAllData(path string) (*models.User, error) {
	var user models.User
	if err := c.invoke("import_all_data", map[string]string{"path": path}, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// WaitReachable polls the daemon's health endpoint until it responds or the
// timeout elapses. Used on startup when the daemon is spawned alongside.
func (c *Client) WaitReachable(timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		resp, err := c.HTTPClient.Get(c.BaseURL + "/health")
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return true
			}
		}
		time.Sleep(100 * time.Millisecond)
	}
	return false
}
