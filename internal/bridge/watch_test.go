// filepath: internal/bridge/watch_test.go
package bridge

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mpvshelf/internal/models"
)

// recordingUpdater captures every persisted batch.
type recordingUpdater struct {
	batches [][]models.OsVideo
	fail    bool
}

func (u *recordingUpdater) UpdateOsVideos(videos []models.OsVideo) error {
	if u.fail {
		return errors.New("backend down")
	}
	batch := make([]models.OsVideo, len(videos))
	copy(batch, videos)
	u.batches = append(u.batches, batch)
	return nil
}

func testVideos(n int) []models.OsVideo {
	videos := make([]models.OsVideo, n)
	for i := range videos {
		videos[i] = models.OsVideo{
			Path:  fmt.Sprintf("/media/show/ep%d.mkv", i),
			Title: fmt.Sprintf("ep%d.mkv", i),
		}
	}
	return videos
}

func watchedFlags(videos []models.OsVideo) []bool {
	flags := make([]bool, len(videos))
	for i, v := range videos {
		flags[i] = v.Watched
	}
	return flags
}

func TestToggleIsolation(t *testing.T) {
	updater := &recordingUpdater{}
	list := NewWatchList(updater, testVideos(5))

	err := list.Toggle("/media/show/ep3.mkv")
	require.NoError(t, err)

	assert.Equal(t, []bool{false, false, false, true, false}, watchedFlags(list.Videos()))

	// Exactly one video in the persisted call, the mutated one.
	require.Len(t, updater.batches, 1)
	require.Len(t, updater.batches[0], 1)
	assert.Equal(t, "/media/show/ep3.mkv", updater.batches[0][0].Path)
	assert.True(t, updater.batches[0][0].Watched)

	// Toggling back clears it again.
	require.NoError(t, list.Toggle("/media/show/ep3.mkv"))
	assert.Equal(t, []bool{false, false, false, false, false}, watchedFlags(list.Videos()))
}

func TestToggleUnknownPath(t *testing.T) {
	list := NewWatchList(&recordingUpdater{}, testVideos(2))
	assert.Error(t, list.Toggle("/media/show/ep9.mkv"))
}

func TestToggleBackendFailureLeavesStateUntouched(t *testing.T) {
	updater := &recordingUpdater{fail: true}
	list := NewWatchList(updater, testVideos(3))

	err := list.Toggle("/media/show/ep1.mkv")
	require.Error(t, err)
	assert.Equal(t, []bool{false, false, false}, watchedFlags(list.Videos()))
}

func TestWatchToHereInclusive(t *testing.T) {
	updater := &recordingUpdater{}
	videos := testVideos(5)
	videos[4].Watched = true // above the click, must stay untouched
	list := NewWatchList(updater, videos)

	require.NoError(t, list.WatchToHere(2))

	assert.Equal(t, []bool{true, true, true, false, true}, watchedFlags(list.Videos()))

	// Only the three newly watched videos are persisted.
	require.Len(t, updater.batches, 1)
	assert.Len(t, updater.batches[0], 3)
}

func TestUnwatchToHereExclusive(t *testing.T) {
	updater := &recordingUpdater{}
	videos := testVideos(5)
	for i := range videos {
		videos[i].Watched = true
	}
	list := NewWatchList(updater, videos)

	require.NoError(t, list.UnwatchToHere(2))

	// The clicked index itself and everything after end up unwatched;
	// everything strictly before stays watched.
	assert.Equal(t, []bool{true, true, false, false, false}, watchedFlags(list.Videos()))

	require.Len(t, updater.batches, 1)
	assert.Len(t, updater.batches[0], 3)
}

func TestUnwatchToHereRemarksEarlierVideos(t *testing.T) {
	updater := &recordingUpdater{}
	list := NewWatchList(updater, testVideos(4)) // nothing watched yet

	require.NoError(t, list.UnwatchToHere(3))

	// Everything before the clicked index is re-marked watched even though
	// it was not watched to begin with.
	assert.Equal(t, []bool{true, true, true, false}, watchedFlags(list.Videos()))
}

func TestRangeNoChangeSkipsPersist(t *testing.T) {
	updater := &recordingUpdater{}
	videos := testVideos(3)
	for i := range videos {
		videos[i].Watched = true
	}
	list := NewWatchList(updater, videos)

	require.NoError(t, list.WatchToHere(2))
	assert.Empty(t, updater.batches, "no flags changed, nothing to persist")
}

func TestRangeIndexOutOfRange(t *testing.T) {
	list := NewWatchList(&recordingUpdater{}, testVideos(3))
	assert.Error(t, list.WatchToHere(3))
	assert.Error(t, list.WatchToHere(-1))
	assert.Error(t, list.UnwatchToHere(5))
}
