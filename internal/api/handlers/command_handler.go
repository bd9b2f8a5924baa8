// filepath: internal/api/handlers/command_handler.go
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"mpvshelf/internal/library"
	"mpvshelf/internal/logging"
	"mpvshelf/internal/models"
	"mpvshelf/internal/mpv"
	"mpvshelf/internal/shared"
	"mpvshelf/internal/shell"
)

// command names are the wire-level operation identifiers. They are part of
// the compatibility surface and must not be renamed.
func (h *Handlers) commands() map[string]http.HandlerFunc {
	return map[string]http.HandlerFunc{
		"get_default_user":        h.GetDefaultUser,
		"get_user_by_id":          h.GetUserByID,
		"create_default_user":     h.CreateDefaultUser,
		"update_user":             h.UpdateUser,
		"get_os_folders":          h.GetOsFolders,
		"get_os_folders_by_path":  h.GetOsFoldersByPath,
		"get_os_videos":           h.GetOsVideos,
		"get_os_videos_from_path": h.GetOsVideos,
		"get_os_folder_by_path":   h.GetOsFolderByPath,
		"update_os_folders":       h.UpdateOsFolders,
		"update_os_videos":        h.UpdateOsVideos,
		"delete_os_folders":       h.DeleteOsFolders,
		"upsert_read_os_dir":      h.UpsertReadOsDir,
		"show_in_folder":          h.ShowInFolder,
		"mpv_system_check":        h.MpvSystemCheck,
		"play_video":              h.PlayVideo,
		"download_mpv_binary":     h.DownloadMpvBinary,
		"check_cover_img_exists":  h.CheckCoverImgExists,
		"export_all_data":         h.ExportAllData,
		"import_all_data":         h.ImportAllData,
	}
}

// DispatchCommand routes POST /api/command/{name} to its handler.
func (h *Handlers) DispatchCommand(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	handler, ok := h.commands()[name]
	if !ok {
		respondWithError(w, http.StatusNotFound, "Unknown command: "+name)
		return
	}
	handler(w, r)
}

// decodeArgs decodes the request body into args, tolerating an empty body
// for argument-less commands.
func decodeArgs(w http.ResponseWriter, r *http.Request, args interface{}) bool {
	if r.Body == nil || r.ContentLength == 0 {
		return true
	}
	if err := json.NewDecoder(r.Body).Decode(args); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

func parseSort(w http.ResponseWriter, raw string) (models.SortType, bool) {
	sort, err := models.ParseSortType(raw)
	if err != nil {
		respondWithCommandError(w, shared.WrapCommandError(shared.KindInvalid, "Invalid Sort Type", err))
		return sort, false
	}
	return sort, true
}

func (h *Handlers) GetDefaultUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.Repo.GetDefaultUser()
	if err != nil {
		respondWithCommandError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, user)
}

func (h *Handlers) GetUserByID(w http.ResponseWriter, r *http.Request) {
	var args struct {
		UserID string `json:"user_id"`
	}
	if !decodeArgs(w, r, &args) {
		return
	}
	user, err := h.Repo.GetUserByID(args.UserID)
	if err != nil {
		respondWithCommandError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, user)
}

// CreateDefaultUser provisions the default profile when none exists yet and
// returns it. Idempotent: an existing profile is returned as-is.
func (h *Handlers) CreateDefaultUser(w http.ResponseWriter, r *http.Request) {
	var args struct {
		Username string `json:"username"`
	}
	if !decodeArgs(w, r, &args) {
		return
	}
	if args.Username == "" {
		args.Username = "main"
	}
	user, err := h.Repo.CreateDefaultUser(args.Username)
	if err != nil {
		respondWithCommandError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, user)
}

func (h *Handlers) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var args struct {
		User *models.User `json:"user"`
	}
	if !decodeArgs(w, r, &args) {
		return
	}
	if args.User == nil {
		respondWithError(w, http.StatusBadRequest, "Missing user object.")
		return
	}
	if err := h.Repo.UpsertUser(args.User); err != nil {
		respondWithCommandError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, MessageResponse{Message: "User updated."})
}

func (h *Handlers) GetOsFolders(w http.ResponseWriter, r *http.Request) {
	var args struct {
		UserID   string `json:"user_id"`
		SortType string `json:"sort_type"`
	}
	if !decodeArgs(w, r, &args) {
		return
	}
	sort, ok := parseSort(w, args.SortType)
	if !ok {
		return
	}
	folders, err := h.Repo.GetOsFolders(args.UserID, sort)
	if err != nil {
		respondWithCommandError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, folders)
}

func (h *Handlers) GetOsFoldersByPath(w http.ResponseWriter, r *http.Request) {
	var args struct {
		ParentPath string `json:"parent_path"`
		SortType   string `json:"sort_type"`
	}
	if !decodeArgs(w, r, &args) {
		return
	}
	sort, ok := parseSort(w, args.SortType)
	if !ok {
		return
	}
	folders, err := h.Repo.GetOsFoldersByPath(args.ParentPath, sort)
	if err != nil {
		respondWithCommandError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, folders)
}

func (h *Handlers) GetOsVideos(w http.ResponseWriter, r *http.Request) {
	var args struct {
		MainFolderPath string `json:"main_folder_path"`
		SortType       string `json:"sort_type"`
	}
	if !decodeArgs(w, r, &args) {
		return
	}
	sort, ok := parseSort(w, args.SortType)
	if !ok {
		return
	}
	videos, err := h.Repo.GetOsVideos(args.MainFolderPath, sort)
	if err != nil {
		respondWithCommandError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, videos)
}

func (h *Handlers) GetOsFolderByPath(w http.ResponseWriter, r *http.Request) {
	var args struct {
		FolderPath string `json:"folder_path"`
	}
	if !decodeArgs(w, r, &args) {
		return
	}
	folder, err := h.Repo.GetOsFolderByPath(args.FolderPath)
	if err != nil {
		respondWithCommandError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, folder)
}

func (h *Handlers) UpdateOsFolders(w http.ResponseWriter, r *http.Request) {
	var args struct {
		OsFolders []models.OsFolder `json:"os_folders"`
	}
	if !decodeArgs(w, r, &args) {
		return
	}
	if err := h.Repo.UpsertOsFolders(args.OsFolders); err != nil {
		respondWithCommandError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, MessageResponse{Message: "Folders updated."})
}

func (h *Handlers) UpdateOsVideos(w http.ResponseWriter, r *http.Request) {
	var args struct {
		OsVideos []models.OsVideo `json:"os_videos"`
	}
	if !decodeArgs(w, r, &args) {
		return
	}
	if err := h.Repo.UpsertOsVideos(args.OsVideos); err != nil {
		respondWithCommandError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, MessageResponse{Message: "Videos updated."})
}

func (h *Handlers) DeleteOsFolders(w http.ResponseWriter, r *http.Request) {
	var args struct {
		OsFolders []models.OsFolder `json:"os_folders"`
		User      *models.User      `json:"user"`
	}
	if !decodeArgs(w, r, &args) {
		return
	}
	if args.User == nil {
		respondWithError(w, http.StatusBadRequest, "Missing user object.")
		return
	}
	if err := h.Repo.DeleteOsFolders(args.OsFolders, args.User); err != nil {
		respondWithCommandError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, MessageResponse{Message: "Folders deleted."})
}

// UpsertReadOsDir reconciles one directory. Its contract never fails: any
// error during reconciliation is logged and reported as "no refetch needed"
// so navigation is never blocked by a scan problem.
func (h *Handlers) UpsertReadOsDir(w http.ResponseWriter, r *http.Request) {
	var args struct {
		Path       string            `json:"path"`
		UserID     string            `json:"user_id"`
		ParentPath *string           `json:"parent_path"`
		OldDirs    []models.OsFolder `json:"old_dirs"`
		OldVideos  []models.OsVideo  `json:"old_videos"`
	}
	if !decodeArgs(w, r, &args) {
		return
	}

	user, err := h.Repo.GetUserByID(args.UserID)
	if err != nil {
		logging.Log.WithError(err).Warn("upsert_read_os_dir: user lookup failed")
		respondWithJSON(w, http.StatusOK, false)
		return
	}

	changed, err := h.Reconciler.UpsertReadOsDir(user, args.Path, args.ParentPath, args.OldDirs, args.OldVideos)
	if err != nil {
		logging.Log.WithError(err).WithField("path", args.Path).
			Warn("upsert_read_os_dir: reconciliation failed")
		respondWithJSON(w, http.StatusOK, changed)
		return
	}
	respondWithJSON(w, http.StatusOK, changed)
}

// ShowInFolder reveals a library path in the OS file manager.
func (h *Handlers) ShowInFolder(w http.ResponseWriter, r *http.Request) {
	var args struct {
		Path string `json:"path"`
	}
	if !decodeArgs(w, r, &args) {
		return
	}
	if args.Path == "" {
		respondWithError(w, http.StatusBadRequest, "Missing path.")
		return
	}
	if err := shell.ShowInFolder(args.Path); err != nil {
		respondWithCommandError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, MessageResponse{Message: "Opened file manager."})
}

func (h *Handlers) MpvSystemCheck(w http.ResponseWriter, r *http.Request) {
	var args struct {
		MpvPath *string `json:"mpv_path"`
	}
	if !decodeArgs(w, r, &args) {
		return
	}
	if args.MpvPath == nil && h.Cfg.Mpv.ExePath != "" {
		args.MpvPath = &h.Cfg.Mpv.ExePath
	}
	if err := mpv.SystemCheck(args.MpvPath); err != nil {
		respondWithCommandError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, MessageResponse{Message: "mpv is available."})
}

func (h *Handlers) PlayVideo(w http.ResponseWriter, r *http.Request) {
	var args struct {
		MainFolder *models.OsFolder `json:"main_folder"`
		OsVideos   []models.OsVideo `json:"os_videos"`
		Video      *models.OsVideo  `json:"video"`
		User       *models.User     `json:"user"`
	}
	if !decodeArgs(w, r, &args) {
		return
	}
	if args.MainFolder == nil || args.Video == nil || args.User == nil {
		respondWithError(w, http.StatusBadRequest, "Missing main_folder, video, or user.")
		return
	}
	if err := h.Player.PlayVideo(r.Context(), args.MainFolder, args.OsVideos, *args.Video, args.User); err != nil {
		respondWithCommandError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, MessageResponse{Message: "Playback finished."})
}

func (h *Handlers) DownloadMpvBinary(w http.ResponseWriter, r *http.Request) {
	path, err := mpv.DownloadBinary(r.Context(), h.Cfg.Database.DataDir, h.Progress.Publish)
	if err != nil {
		respondWithCommandError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, path)
}

func (h *Handlers) CheckCoverImgExists(w http.ResponseWriter, r *http.Request) {
	var args struct {
		ImgPath string `json:"img_path"`
	}
	if !decodeArgs(w, r, &args) {
		return
	}
	respondWithJSON(w, http.StatusOK, library.CheckCoverImgExists(args.ImgPath))
}

func (h *Handlers) ExportAllData(w http.ResponseWriter, r *http.Request) {
	var args struct {
		UserID string `json:"user_id"`
	}
	if !decodeArgs(w, r, &args) {
		return
	}
	if args.UserID == "" {
		args.UserID = models.DefaultUserID
	}
	user, err := h.Repo.GetUserByID(args.UserID)
	if err != nil {
		respondWithCommandError(w, err)
		return
	}
	path, err := library.ExportAllData(h.Repo, user, h.Cfg.Database.DataDir)
	if err != nil {
		respondWithCommandError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, path)
}

func (h *Handlers) ImportAllData(w http.ResponseWriter, r *http.Request) {
	var args struct {
		Path string `json:"path"`
	}
	if !decodeArgs(w, r, &args) {
		return
	}
	user, err := library.ImportAllData(h.Repo, args.Path)
	if err != nil {
		respondWithCommandError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, user)
}
