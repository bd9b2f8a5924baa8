// filepath: internal/housekeeping/service.go
package housekeeping

import (
	"errors"
	"time"

	"github.com/robfig/cron/v3"

	"mpvshelf/internal/logging"
	"mpvshelf/internal/shared"
)

// MinInterval is the minimum time between rescans to prevent busy-looping.
const MinInterval = 1 * time.Minute

// Service periodically walks every registered root folder and reconciles its
// records with the filesystem, so the library stays fresh even when the user
// never navigates into a folder.
type Service struct {
	Deps     Dependencies
	interval time.Duration
	cron     *cron.Cron
}

// NewService creates a housekeeping service running at the given interval.
// Intervals below MinInterval are clamped.
func NewService(deps Dependencies, interval time.Duration) *Service {
	if interval < MinInterval {
		interval = MinInterval
	}
	return &Service{
		Deps:     deps,
		interval: interval,
		cron:     cron.New(),
	}
}

// Start kicks off the background rescan schedule.
func (s *Service) Start() {
	logging.Log.Infof("Starting background housekeeping service, rescanning every %v.", s.interval)
	s.cron.Schedule(cron.Every(s.interval), cron.FuncJob(s.RunScan))
	s.cron.Start()
}

// Stop terminates the schedule, waiting for a running scan to finish.
func (s *Service) Stop() {
	logging.Log.Info("Stopping background housekeeping service.")
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// RunScan reconciles every root folder of the default user once. Individual
// folder failures are logged and skipped so one unreadable mount does not
// starve the rest of the library.
func (s *Service) RunScan() {
	user, err := s.Deps.DB.GetDefaultUser()
	if err != nil {
		logging.Log.WithError(err).Warn("Housekeeping skipped, no default user")
		return
	}

	folders, err := s.Deps.DB.GetOsFolders(user.ID, "none")
	if err != nil {
		var cmdErr *shared.CommandError
		if errors.As(err, &cmdErr) && cmdErr.Kind == shared.KindNotFound {
			return
		}
		logging.Log.WithError(err).Error("Housekeeping failed to list root folders")
		return
	}

	rescanned := 0
	for _, folder := range folders {
		changed, err := s.Deps.Hydrator.UpsertReadOsDir(user, folder.Path, folder.ParentPath, nil, nil)
		if err != nil {
			logging.Log.WithError(err).WithField("path", folder.Path).
				Warn("Housekeeping rescan failed for folder")
			continue
		}
		if changed {
			rescanned++
		}
	}

	if rescanned > 0 {
		logging.Log.Infof("Housekeeping refreshed %d of %d root folders.", rescanned, len(folders))
	}
}
