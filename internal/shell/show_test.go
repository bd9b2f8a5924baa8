// filepath: internal/shell/show_test.go
package shell

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShowCommandPerPlatform(t *testing.T) {
	tests := []struct {
		goos     string
		wantName string
		wantArgs []string
	}{
		{"windows", "explorer", []string{"/select,", `C:\media\show\ep1.mkv`}},
		{"darwin", "open", []string{"-R", "/media/show/ep1.mkv"}},
		{"linux", "xdg-open", []string{"/media/show"}},
	}
	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			path := "/media/show/ep1.mkv"
			if tt.goos == "windows" {
				path = `C:\media\show\ep1.mkv`
			}
			name, args, err := showCommand(tt.goos, path)
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, name)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestShowCommandUnsupportedPlatform(t *testing.T) {
	_, _, err := showCommand("plan9", "/media/show/ep1.mkv")
	assert.Error(t, err)
}
