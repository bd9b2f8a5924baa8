// filepath: internal/mpv/play.go
package mpv

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"mpvshelf/internal/logging"
	"mpvshelf/internal/media"
	"mpvshelf/internal/models"
	"mpvshelf/internal/repository"
	"mpvshelf/internal/shared"
)

// Player launches mpv sessions and folds the resulting playback state back
// into the library.
type Player struct {
	Repo *repository.Repository
	// ScriptPath is an optional lua plugin loaded into every session.
	ScriptPath string
	// DefaultExePath is the configured player executable, used when the
	// profile does not pin its own.
	DefaultExePath string
}

func NewPlayer(repo *repository.Repository, scriptPath, defaultExePath string) *Player {
	return &Player{Repo: repo, ScriptPath: scriptPath, DefaultExePath: defaultExePath}
}

// exePath resolves the player executable: the profile's own path wins, then
// the configured default, then the system PATH lookup.
func (p *Player) exePath(user *models.User) *string {
	if user.Settings.Mpv.ExePath != nil && *user.Settings.Mpv.ExePath != "" {
		return user.Settings.Mpv.ExePath
	}
	if p.DefaultExePath != "" {
		return &p.DefaultExePath
	}
	return nil
}

// buildArgs assembles the mpv invocation. With autoplay on, the whole parent
// directory is handed over as a playlist starting at the chosen video, so
// mpv advances through episodes without the library re-launching it.
func (p *Player) buildArgs(mainFolder *models.OsFolder, video models.OsVideo, autoplay bool) ([]string, error) {
	var args []string

	if autoplay {
		parentDir := filepath.Dir(video.Path)
		index, err := playlistIndex(parentDir, video.Path)
		if err != nil {
			return nil, err
		}
		args = append(args,
			fmt.Sprintf("--playlist-start=%d", index),
			fmt.Sprintf("--playlist=%s", parentDir),
		)
	} else {
		args = append(args, video.Path)
	}

	if p.ScriptPath != "" {
		args = append(args, fmt.Sprintf("--script=%s", p.ScriptPath))
	}
	args = append(args, fmt.Sprintf("--title=%s | mpvshelf", mainFolder.Title))
	return args, nil
}

// playlistIndex locates video within the playable files of dir, matching the
// order mpv builds its directory playlist in.
func playlistIndex(dir, videoPath string) (int, error) {
	listing, err := media.ScanDir(dir)
	if err != nil {
		return 0, err
	}

	files := make([]string, 0, len(listing.VideoFilePaths)+len(listing.AudioFilePaths))
	files = append(files, listing.VideoFilePaths...)
	files = append(files, listing.AudioFilePaths...)
	for i, f := range files {
		if f == videoPath {
			return i, nil
		}
	}
	return 0, shared.NewCommandError(shared.KindNotFound, "OsVideos Not Found",
		fmt.Sprintf("%s is not present in %s", videoPath, dir))
}

// PlayVideo runs a blocking mpv session for video and persists everything
// the session watched: per-video position/duration/watched flags plus the
// last-watched pointer on both the folder and the user. The sibling list is
// passed in so playlist advances update records without re-querying.
func (p *Player) PlayVideo(ctx context.Context, mainFolder *models.OsFolder, osVideos []models.OsVideo, video models.OsVideo, user *models.User) error {
	exeOverride := p.exePath(user)
	if err := SystemCheck(exeOverride); err != nil {
		return err
	}

	args, err := p.buildArgs(mainFolder, video, user.Settings.Mpv.Autoplay)
	if err != nil {
		return err
	}

	exe := defaultExe
	if exeOverride != nil {
		exe = *exeOverride
	}

	logging.Log.WithFields(logrus.Fields{
		"exe":   exe,
		"video": video.Path,
	}).Info("Spawning mpv")

	var stdout bytes.Buffer
	cmd := exec.CommandContext(ctx, exe, args...)
	cmd.Stdout = &stdout

	if err := cmd.Run(); err != nil {
		// mpv exits non-zero when closed mid-playback on some platforms;
		// only a session with no usable output is treated as a failure.
		if stdout.Len() == 0 {
			return shared.WrapCommandError(shared.KindUnknown, "Failed to execute MPV Player", err)
		}
	}

	parsed, err := ParseStdout(stdout.Bytes())
	if err != nil {
		return shared.WrapCommandError(shared.KindUnknown, "Failed to execute MPV Player", err)
	}

	return p.applyPlayback(mainFolder, osVideos, user, parsed)
}

// applyPlayback marks every video the session touched as watched, stamps its
// final position, and moves the last-watched pointers.
func (p *Player) applyPlayback(mainFolder *models.OsFolder, osVideos []models.OsVideo, user *models.User, parsed []PlaybackData) error {
	var lastWatched *models.OsVideo

	for _, entry := range parsed {
		for i := range osVideos {
			if osVideos[i].Path != entry.Path {
				continue
			}
			osVideos[i].Watched = true
			osVideos[i].Position = entry.Position
			osVideos[i].Duration = entry.Duration
			lastWatched = &osVideos[i]
		}
	}

	if lastWatched == nil {
		return nil
	}

	mainFolder.LastWatchedVideo = lastWatched
	user.LastWatchedVideo = lastWatched

	if err := p.Repo.UpsertOsVideos(osVideos); err != nil {
		return err
	}
	if err := p.Repo.UpsertOsFolders([]models.OsFolder{*mainFolder}); err != nil {
		return err
	}
	return p.Repo.UpsertUser(user)
}
