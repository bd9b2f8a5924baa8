// filepath: internal/cli/server.go
package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mpvshelf/internal/api/events"
	"mpvshelf/internal/api/handlers"
	"mpvshelf/internal/housekeeping"
	"mpvshelf/internal/httpserver"
	"mpvshelf/internal/library"
	"mpvshelf/internal/logging"
	"mpvshelf/internal/mpv"
	"mpvshelf/internal/repository"
	"mpvshelf/internal/shared"
	"mpvshelf/internal/storage"
)

// runServer contains the logic to start the HTTP daemon with graceful shutdown.
func runServer(globalOptions *GlobalOptions, serveOptions *ServeOptions) error {
	cfg := globalOptions.Conf

	if err := storage.EnsureDataDir(cfg.Database.DataDir); err != nil {
		return err
	}

	repo, err := repository.NewRepository(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize repository: %w", err)
	}
	defer repo.Close()

	if err := repo.EnsureSchemaBootstrapped(); err != nil {
		logging.Log.Errorf("Failed to bootstrap database: %v", err)
		return err
	}

	user, err := repo.CreateDefaultUser(serveOptions.Username)
	if err != nil {
		return fmt.Errorf("failed to ensure default profile: %w", err)
	}

	reconciler := library.NewReconciler(repo)
	if len(serveOptions.AddFolders) > 0 {
		if err := reconciler.AddRootFolders(user, serveOptions.AddFolders); err != nil {
			logging.Log.Warnf("Startup folder registration failed: %v", err)
		}
	}

	player := mpv.NewPlayer(repo, cfg.Mpv.ScriptPath, cfg.Mpv.ExePath)
	progress := events.NewBroker()

	// Background rescan, disabled when the interval is "0".
	var hkService *housekeeping.Service
	if interval, err := shared.ParseDuration(cfg.Housekeeping.Interval); err == nil && interval > 0 {
		hkService = housekeeping.NewService(housekeeping.Dependencies{
			DB:       repo,
			Hydrator: reconciler,
		}, interval)
		hkService.Start()
	}

	h := handlers.NewHandlers(repo, reconciler, player, progress, cfg, Version)
	r := httpserver.SetupRouter(h)

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    serverAddr,
		Handler: r,
	}

	// --- Graceful Shutdown Setup ---
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		logging.Log.Infof("Server starting on %s", serverAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-stop
	logging.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if hkService != nil {
		hkService.Stop()
	}

	if err := srv.Shutdown(ctx); err != nil {
		logging.Log.Errorf("Server forced to shutdown: %v", err)
		return err
	}

	logging.Log.Info("Server exiting")
	return nil
}
