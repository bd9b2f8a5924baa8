// filepath: internal/api/handlers/main.go
package handlers

import (
	"time"

	"mpvshelf/internal/api/events"
	"mpvshelf/internal/config"
	"mpvshelf/internal/library"
	"mpvshelf/internal/mpv"
	"mpvshelf/internal/repository"
)

// Handlers holds the shared dependencies for the command API handlers.
type Handlers struct {
	Repo       *repository.Repository
	Reconciler *library.Reconciler
	Player     *mpv.Player
	Progress   *events.Broker

	Cfg       *config.Config
	Version   string
	StartTime time.Time
}

// NewHandlers creates a new instance of Handlers with its dependencies.
func NewHandlers(
	repo *repository.Repository,
	reconciler *library.Reconciler,
	player *mpv.Player,
	progress *events.Broker,
	cfg *config.Config,
	version string,
) *Handlers {
	return &Handlers{
		Repo:       repo,
		Reconciler: reconciler,
		Player:     player,
		Progress:   progress,
		Cfg:        cfg,
		Version:    version,
		StartTime:  time.Now(),
	}
}
