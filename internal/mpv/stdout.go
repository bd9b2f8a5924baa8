// filepath: internal/mpv/stdout.go
package mpv

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"mpvshelf/internal/logging"
)

// PlaybackData is one video's worth of state recovered from an mpv session.
// Position and Duration are in seconds.
type PlaybackData struct {
	Path     string
	Position float64
	Duration float64
}

// fallbackSeconds is used when a section has a path but no timestamp line.
// mpv prints no AV line for a video that autoplayed to completion right
// before the player was closed.
const fallbackSeconds = 600

// parseTimestamp converts an "HH:MM:SS" string, optionally with a decimal
// fraction, to whole seconds.
func parseTimestamp(ts string) (float64, error) {
	base, _, _ := strings.Cut(ts, ".")
	parts := strings.Split(base, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("invalid timestamp %q", ts)
	}

	var total float64
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return 0, fmt.Errorf("invalid timestamp %q: %w", ts, err)
		}
		total = total*60 + float64(n)
	}
	return total, nil
}

// ParseStdout extracts per-video playback state from a finished mpv
// process's combined stdout. mpv prints a "Playing: <path>" banner for each
// playlist entry and a stream of "AV: <pos> / <dur> (..." status lines while
// that entry plays; the last status line before the next banner carries the
// final watch position.
func ParseStdout(stdout []byte) ([]PlaybackData, error) {
	sections := strings.Split(string(stdout), "Playing")
	if len(sections) < 2 {
		return nil, nil
	}

	var results []PlaybackData
	for _, sect := range sections[1:] {
		data, err := parseSection("Playing" + strings.TrimSpace(sect))
		if err != nil {
			return nil, err
		}
		results = append(results, data)
	}
	return results, nil
}

func parseSection(sect string) (PlaybackData, error) {
	var data PlaybackData

	lines := strings.Split(sect, "\n")
	for _, line := range lines {
		if path, ok := strings.CutPrefix(line, "Playing: "); ok {
			data.Path = filepath.Clean(strings.TrimSpace(path))
			break
		}
	}
	if data.Path == "" {
		return data, fmt.Errorf("section has no video path: %q", firstLine(sect))
	}

	found := false
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if strings.HasPrefix(line, "Exiting...") || strings.HasPrefix(line, "Saving state.") {
			continue
		}
		rest, ok := strings.CutPrefix(line, "AV: ")
		if !ok {
			continue
		}
		posPart, durPart, ok := strings.Cut(rest, "/")
		if !ok {
			continue
		}
		dur, _, ok := strings.Cut(durPart, "(")
		if !ok {
			continue
		}

		pos, err := parseTimestamp(strings.TrimSpace(posPart))
		if err != nil {
			return data, err
		}
		d, err := parseTimestamp(strings.TrimSpace(dur))
		if err != nil {
			return data, err
		}
		data.Position = pos
		data.Duration = d
		found = true
		break
	}

	if !found {
		data.Position = fallbackSeconds
		data.Duration = fallbackSeconds
		logging.Log.WithField("path", data.Path).
			Warn("No timestamp found in player output, using defaults")
	}

	return data, nil
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
