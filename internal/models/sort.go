package models

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"mpvshelf/internal/shared"
)

// SortType is the closed enumeration governing list ordering.
type SortType string

const (
	SortNone              SortType = "none"
	SortUpdated           SortType = "updated"
	SortEpisodeTitleRegex SortType = "episode_title_regex"
)

// DefaultSortType is used whenever a listing call omits the sort parameter.
const DefaultSortType = SortUpdated

// ParseSortType validates a wire sort string. The empty string resolves to
// the default.
func ParseSortType(s string) (SortType, error) {
	switch s {
	case "":
		return DefaultSortType, nil
	case string(SortNone), string(SortUpdated), string(SortEpisodeTitleRegex):
		return SortType(s), nil
	}
	return "", fmt.Errorf("%w: %q", shared.ErrInvalidSortType, s)
}

// episodeTitleRe extracts an episode/chapter/volume number out of a media
// title. The last capture group is the number.
var episodeTitleRe = regexp.MustCompile(
	`(?i)(?:S\d{1,2}[-\s]*|(?:第|EP?|Episode|Ch|Chapter|Vol|Volume|#)?\s*)?(\d{1,3})(?:話|巻|章|節|[._\-\s]|$)`,
)

// EpisodeNumber parses the episode number out of title, 0 when none matches.
func EpisodeNumber(title string) int {
	m := episodeTitleRe.FindStringSubmatch(title)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[len(m)-1])
	if err != nil {
		return 0
	}
	return n
}

// Stamped is anything carrying the split update_date/update_time pair.
type Stamped interface {
	Stamp() (date, timeOfDay string)
}

func (f OsFolder) Stamp() (string, string) { return f.UpdateDate, f.UpdateTime }
func (v OsVideo) Stamp() (string, string)  { return v.UpdateDate, v.UpdateTime }

// NowStamp formats the current local time into the split date/time pair:
// "2024-11-30" and "10:43pm". The hour is taken modulo 12, matching the
// historical on-disk format (noon renders as "00:30pm").
func NowStamp() (date, timeOfDay string) {
	return FormatStamp(time.Now())
}

func FormatStamp(t time.Time) (date, timeOfDay string) {
	date = t.Format("2006-01-02")
	h := t.Hour()
	suffix := "am"
	if h >= 12 {
		suffix = "pm"
	}
	timeOfDay = fmt.Sprintf("%02d:%02d%s", h%12, t.Minute(), suffix)
	return date, timeOfDay
}

// parseStamp reconstructs a comparable time from the split pair. The am/pm
// suffix is stripped and the hour read back as-is, mirroring how the stamps
// are produced; a pair that fails to parse sorts last.
func parseStamp(date, timeOfDay string) (time.Time, error) {
	if len(timeOfDay) < 2 {
		return time.Time{}, fmt.Errorf("short time %q", timeOfDay)
	}
	hm := timeOfDay[:len(timeOfDay)-2]
	t, err := time.Parse("2006-01-02 15:04", date+" "+hm)
	if err != nil {
		return time.Time{}, err
	}
	if strings.HasSuffix(timeOfDay, "pm") {
		t = t.Add(12 * time.Hour)
	}
	return t, nil
}

// SortFolders orders folders in place according to st.
func SortFolders(folders []OsFolder, st SortType) {
	sortStamped(folders, st, func(f OsFolder) string { return f.Title })
}

// SortVideos orders videos in place according to st.
func SortVideos(videos []OsVideo, st SortType) {
	sortStamped(videos, st, func(v OsVideo) string { return v.Title })
}

func sortStamped[T Stamped](items []T, st SortType, title func(T) string) {
	switch st {
	case SortUpdated:
		sort.SliceStable(items, func(i, j int) bool {
			di, ti := items[i].Stamp()
			dj, tj := items[j].Stamp()
			a, errA := parseStamp(di, ti)
			b, errB := parseStamp(dj, tj)
			if errA != nil || errB != nil {
				return errB != nil && errA == nil
			}
			// newest first
			return b.Before(a)
		})
	case SortEpisodeTitleRegex:
		sort.SliceStable(items, func(i, j int) bool {
			return EpisodeNumber(title(items[i])) < EpisodeNumber(title(items[j]))
		})
	}
}
