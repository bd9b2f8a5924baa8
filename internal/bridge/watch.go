// filepath: internal/bridge/watch.go
package bridge

import (
	"fmt"
	"sync"

	"mpvshelf/internal/models"
)

// VideoUpdater persists a batch of mutated video records.
type VideoUpdater interface {
	UpdateOsVideos(videos []models.OsVideo) error
}

// WatchList maintains the watched flags of one folder's ordered video list.
// All mutations are write-then-reflect: the backend call happens first and
// local state only changes after it succeeds, under a lock so a second
// mutation during an in-flight one cannot corrupt index-based state.
type WatchList struct {
	mu      sync.Mutex
	updater VideoUpdater
	videos  []models.OsVideo
}

func NewWatchList(updater VideoUpdater, videos []models.OsVideo) *WatchList {
	return &WatchList{updater: updater, videos: videos}
}

// Videos returns a snapshot of the current list.
func (l *WatchList) Videos() []models.OsVideo {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]models.OsVideo, len(l.videos))
	copy(out, l.videos)
	return out
}

// Toggle flips the watched flag of exactly one video, identified by path.
// No other video is touched.
func (l *WatchList) Toggle(path string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.videos {
		if l.videos[i].Path != path {
			continue
		}
		mutated := l.videos[i]
		mutated.Watched = !mutated.Watched
		if err := l.updater.UpdateOsVideos([]models.OsVideo{mutated}); err != nil {
			return err
		}
		l.videos[i] = mutated
		return nil
	}
	return fmt.Errorf("no video with path %s", path)
}

// WatchToHere marks indices [0, i] inclusive as watched. Indices above i are
// left unchanged. Only videos whose flag actually changed are persisted.
func (l *WatchList) WatchToHere(i int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if i < 0 || i >= len(l.videos) {
		return fmt.Errorf("index %d out of range", i)
	}

	next := make([]models.OsVideo, len(l.videos))
	copy(next, l.videos)
	for j := 0; j <= i; j++ {
		next[j].Watched = true
	}
	return l.commit(next)
}

// UnwatchToHere clears every watched flag, then re-marks indices [0, i)
// exclusive as watched: the clicked video itself ends up unwatched, along
// with everything after it. Note the asymmetry with WatchToHere, which
// includes the clicked index.
func (l *WatchList) UnwatchToHere(i int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if i < 0 || i >= len(l.videos) {
		return fmt.Errorf("index %d out of range", i)
	}

	next := make([]models.OsVideo, len(l.videos))
	copy(next, l.videos)
	for j := range next {
		next[j].Watched = false
	}
	for j := 0; j < i; j++ {
		next[j].Watched = true
	}
	return l.commit(next)
}

// commit persists every video whose watched flag differs from the current
// state, then reflects the new state locally. Caller holds the lock.
func (l *WatchList) commit(next []models.OsVideo) error {
	var changed []models.OsVideo
	for j := range next {
		if next[j].Watched != l.videos[j].Watched {
			changed = append(changed, next[j])
		}
	}
	if len(changed) == 0 {
		return nil
	}
	if err := l.updater.UpdateOsVideos(changed); err != nil {
		return err
	}
	l.videos = next
	return nil
}
