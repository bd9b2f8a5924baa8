// filepath: internal/shell/show.go
// Package shell integrates with the desktop environment, currently opening
// the OS file manager at a library path.
package shell

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"runtime"

	"mpvshelf/internal/shared"
)

// showCommand builds the file-manager invocation for a platform. Windows
// and macOS can select the file itself; Linux file managers open the
// containing directory.
func showCommand(goos, path string) (string, []string, error) {
	switch goos {
	case "windows":
		return "explorer", []string{"/select,", path}, nil
	case "darwin":
		return "open", []string{"-R", path}, nil
	case "linux":
		return "xdg-open", []string{filepath.Dir(path)}, nil
	default:
		return "", nil, fmt.Errorf("no file manager integration for %s", goos)
	}
}

// ShowInFolder reveals path in the OS file manager. The file manager is
// detached; only the launch itself can fail.
func ShowInFolder(path string) error {
	name, args, err := showCommand(runtime.GOOS, path)
	if err != nil {
		return shared.WrapCommandError(shared.KindUnreachable, "Failed to open file manager", err)
	}
	if err := exec.Command(name, args...).Start(); err != nil {
		return shared.WrapCommandError(shared.KindUnreachable, "Failed to open file manager", err)
	}
	return nil
}
