// filepath: internal/api/handlers/info_handler.go
package handlers

import (
	"net/http"
	"time"

	"mpvshelf/internal/mpv"
)

// Info describes the running daemon.
type Info struct {
	Name         string `json:"name"`
	Version      string `json:"version"`
	Uptime       string `json:"uptime"`
	MpvAvailable bool   `json:"mpv_available"`
}

// GetInfo reports the daemon name, version, uptime, and whether the mpv
// player is currently reachable.
func (h *Handlers) GetInfo(w http.ResponseWriter, r *http.Request) {
	var exePath *string
	if h.Cfg.Mpv.ExePath != "" {
		p := h.Cfg.Mpv.ExePath
		exePath = &p
	}

	info := Info{
		Name:         "mpvshelf",
		Version:      h.Version,
		Uptime:       time.Since(h.StartTime).Round(time.Second).String(),
		MpvAvailable: mpv.SystemCheck(exePath) == nil,
	}
	respondWithJSON(w, http.StatusOK, info)
}
