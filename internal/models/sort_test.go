package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseSortType(t *testing.T) {
	st, err := ParseSortType("")
	assert.NoError(t, err)
	assert.Equal(t, SortUpdated, st)

	st, err = ParseSortType("episode_title_regex")
	assert.NoError(t, err)
	assert.Equal(t, SortEpisodeTitleRegex, st)

	st, err = ParseSortType("none")
	assert.NoError(t, err)
	assert.Equal(t, SortNone, st)

	_, err = ParseSortType("alphabetical")
	assert.Error(t, err)
}

func TestEpisodeNumber(t *testing.T) {
	tests := []struct {
		title string
		want  int
	}{
		{"Episode 12.mkv", 12},
		{"EP03 - intro.mp4", 3},
		{"S01E05.mkv", 5},
		{"show - 07.mkv", 7},
		{"第3話.mkv", 3},
		{"no numbers here", 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, EpisodeNumber(tt.title), tt.title)
	}
}

func TestFormatStamp(t *testing.T) {
	d, tm := FormatStamp(time.Date(2024, 11, 30, 22, 43, 0, 0, time.Local))
	assert.Equal(t, "2024-11-30", d)
	assert.Equal(t, "10:43pm", tm)

	// noon keeps the historical modulo-12 rendering
	d, tm = FormatStamp(time.Date(2024, 11, 30, 12, 30, 0, 0, time.Local))
	assert.Equal(t, "2024-11-30", d)
	assert.Equal(t, "00:30pm", tm)

	_, tm = FormatStamp(time.Date(2024, 11, 30, 0, 5, 0, 0, time.Local))
	assert.Equal(t, "00:05am", tm)
}

func TestSortVideosUpdated(t *testing.T) {
	videos := []OsVideo{
		{Title: "old", UpdateDate: "2024-01-01", UpdateTime: "01:00am"},
		{Title: "new", UpdateDate: "2024-06-01", UpdateTime: "09:30pm"},
		{Title: "mid", UpdateDate: "2024-03-15", UpdateTime: "11:00am"},
	}
	SortVideos(videos, SortUpdated)
	assert.Equal(t, []string{"new", "mid", "old"}, []string{videos[0].Title, videos[1].Title, videos[2].Title})
}

func TestSortVideosEpisodeRegex(t *testing.T) {
	videos := []OsVideo{
		{Title: "Episode 10.mkv"},
		{Title: "Episode 2.mkv"},
		{Title: "Episode 1.mkv"},
	}
	SortVideos(videos, SortEpisodeTitleRegex)
	assert.Equal(t, "Episode 1.mkv", videos[0].Title)
	assert.Equal(t, "Episode 2.mkv", videos[1].Title)
	assert.Equal(t, "Episode 10.mkv", videos[2].Title)
}

func TestSortNoneKeepsOrder(t *testing.T) {
	folders := []OsFolder{{Title: "b"}, {Title: "a"}, {Title: "c"}}
	SortFolders(folders, SortNone)
	assert.Equal(t, "b", folders[0].Title)
	assert.Equal(t, "a", folders[1].Title)
	assert.Equal(t, "c", folders[2].Title)
}

func TestProgressPercentClamped(t *testing.T) {
	v := OsVideo{Position: 500, Duration: 1000}
	assert.InDelta(t, 50, v.ProgressPercent(), 0.001)

	v = OsVideo{Position: 1500, Duration: 1000}
	assert.InDelta(t, 100, v.ProgressPercent(), 0.001)

	v = OsVideo{Position: 10, Duration: 0}
	assert.Zero(t, v.ProgressPercent())
}
