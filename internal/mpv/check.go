// filepath: internal/mpv/check.go
package mpv

import (
	"errors"
	"fmt"
	"os"
	"os/exec"

	"mpvshelf/internal/shared"
)

const defaultExe = "mpv"

// SystemCheck verifies the mpv player is launchable. exePath selects an
// explicit binary; when nil or empty the system PATH is consulted. A nil
// return means the player responded to --version.
func SystemCheck(exePath *string) error {
	exe := defaultExe
	explicit := exePath != nil && *exePath != ""
	if explicit {
		exe = *exePath
	}

	out, err := exec.Command(exe, "--version").CombinedOutput()
	if err == nil {
		return nil
	}

	var execErr *exec.Error
	var exitErr *exec.ExitError
	notFound := errors.As(err, &execErr) || errors.Is(err, os.ErrNotExist)
	if notFound || errors.As(err, &exitErr) {
		if explicit {
			return shared.NewCommandError(shared.KindUnreachable,
				"MPV Player was not found @ the specified path", *exePath)
		}
		return shared.NewCommandError(shared.KindUnreachable,
			"MPV Player was not found on the System PATH", "install mpv or set an explicit path in settings")
	}

	return shared.WrapCommandError(shared.KindUnknown,
		"Failed to execute MPV Player", fmt.Errorf("%w: %s", err, out))
}
