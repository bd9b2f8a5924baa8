// filepath: internal/bridge/navigator.go
package bridge

import (
	"sync"

	"mpvshelf/internal/models"
	"mpvshelf/internal/shared"
)

// FolderView is the state of one browsed folder: its child folders and
// videos as last fetched.
type FolderView struct {
	Folder  *models.OsFolder
	Folders []models.OsFolder
	Videos  []models.OsVideo
}

// Navigator owns the application's navigation state. Each navigation gets a
// monotonically increasing key; completions carrying an older key are
// discarded, so a slow fetch can never clobber the state of a newer
// navigation. Reconciliation runs at most once per navigation.
type Navigator struct {
	client *Client

	mu         sync.Mutex
	current    Route
	navKey     uint64
	reconciled map[uint64]bool
	user       *models.User
	view       *FolderView
}

func NewNavigator(client *Client) *Navigator {
	return &Navigator{
		client:     client,
		current:    Route{Kind: RouteDashboard},
		reconciled: make(map[uint64]bool),
	}
}

// Current returns the active route.
func (n *Navigator) Current() Route {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

// User returns the resolved profile, nil before Start or on first run.
func (n *Navigator) User() *models.User {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.user
}

// View returns the folder state of the current library route.
func (n *Navigator) View() *FolderView {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.view
}

// Start resolves the default profile and routes accordingly: no profile
// routes to creation, an existing one to the dashboard.
func (n *Navigator) Start() Route {
	user := n.client.GetDefaultUser()

	n.mu.Lock()
	defer n.mu.Unlock()
	n.user = user
	if user == nil {
		n.current = CreateProfileRoute()
	} else {
		n.current = DashboardRoute()
	}
	return n.current
}

// CreateProfile builds the initial profile and routes to the dashboard on
// success. The save error is surfaced, not swallowed.
func (n *Navigator) CreateProfile(username string) (Route, error) {
	user := &models.User{
		ID:       models.DefaultUserID,
		Username: username,
		Settings: models.Settings{
			UserID: models.DefaultUserID,
			Mpv:    models.MpvSettings{Autoplay: true},
		},
	}
	if err := n.client.UpdateUser(user); err != nil {
		return n.Current(), err
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	n.user = user
	n.current = DashboardRoute()
	return n.current, nil
}

// beginNavigation claims a fresh navigation key and sets the route.
func (n *Navigator) beginNavigation(route Route) uint64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.navKey++
	n.current = route
	return n.navKey
}

// stillCurrent reports whether key belongs to the active navigation.
func (n *Navigator) stillCurrent(key uint64) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.navKey == key
}

// OpenFolder navigates into a folder: fetch child folders and videos
// concurrently, then reconcile once against the filesystem, refetching both
// collections when the reconciler reports drift.
func (n *Navigator) OpenFolder(folderPath string, sort models.SortType) *FolderView {
	n.mu.Lock()
	user := n.user
	n.mu.Unlock()
	if user == nil {
		return nil
	}

	key := n.beginNavigation(LibraryRoute(folderPath))

	folder := n.client.GetOsFolderByPath(folderPath)

	// The child collections have no dependency on each other.
	var folders []models.OsFolder
	var videos []models.OsVideo
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		folders = n.client.GetOsFoldersByPath(folderPath, sort)
	}()
	go func() {
		defer wg.Done()
		videos = n.client.GetOsVideos(folderPath, sort)
	}()
	wg.Wait()

	// Both reads have settled; reconcile exactly once for this navigation.
	if n.claimReconcile(key) {
		var parentPath *string
		if folder != nil {
			parentPath = folder.ParentPath
		}
		if n.client.UpsertReadOsDir(folderPath, user.ID, parentPath, folders, videos) {
			folders = n.client.GetOsFoldersByPath(folderPath, sort)
			videos = n.client.GetOsVideos(folderPath, sort)
		}
	}

	view := &FolderView{Folder: folder, Folders: folders, Videos: videos}

	n.mu.Lock()
	defer n.mu.Unlock()
	if n.navKey != key {
		// The user has navigated elsewhere; discard this completion.
		return nil
	}
	n.view = view
	return view
}

// claimReconcile marks the navigation as reconciled, returning false when a
// reconcile already ran for it.
func (n *Navigator) claimReconcile(key uint64) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.reconciled[key] {
		return false
	}
	// Old keys can never be claimed again; drop them to bound the map.
	for k := range n.reconciled {
		if k < key {
			delete(n.reconciled, k)
		}
	}
	n.reconciled[key] = true
	return true
}

// AddFolder registers a new root folder: first hydration runs with no held
// collections, and the follow-up listing is immediately consistent.
func (n *Navigator) AddFolder(folderPath string) []models.OsFolder {
	n.mu.Lock()
	user := n.user
	n.mu.Unlock()
	if user == nil {
		return nil
	}

	n.client.UpsertReadOsDir(folderPath, user.ID, nil, nil, nil)
	return n.client.GetOsFolders(user.ID, models.DefaultSortType)
}

// Play launches playback and, on a player failure, returns an alert that
// deep-links into the mpv settings section.
func (n *Navigator) Play(mainFolder *models.OsFolder, osVideos []models.OsVideo, video *models.OsVideo) *Alert {
	n.mu.Lock()
	user := n.user
	n.mu.Unlock()
	if user == nil {
		return nil
	}

	if errStr := n.client.PlayVideo(mainFolder, osVideos, video, user); errStr != nil {
		return playerAlert(*errStr)
	}

	// Playback mutates watch state server-side; pull the fresh profile.
	if fresh := n.client.GetDefaultUser(); fresh != nil {
		n.mu.Lock()
		n.user = fresh
		n.mu.Unlock()
	}
	return nil
}

// UpdateSettings applies a settings mutation and persists it immediately.
// The held profile only reflects the change once the save succeeds, so a
// failed save never leaves the client claiming settings the backend lost.
func (n *Navigator) UpdateSettings(mutate func(*models.Settings)) error {
	n.mu.Lock()
	user := n.user
	n.mu.Unlock()
	if user == nil {
		return shared.ErrUserNotFound
	}

	next := *user
	mutate(&next.Settings)
	if err := n.client.UpdateUser(&next); err != nil {
		return err
	}

	n.mu.Lock()
	n.user = &next
	n.mu.Unlock()
	return nil
}

// CheckPlayer validates the player and builds the settings deep-link alert
// on failure.
func (n *Navigator) CheckPlayer(mpvPath *string) *Alert {
	if errStr := n.client.MpvSystemCheck(mpvPath); errStr != nil {
		return playerAlert(*errStr)
	}
	return nil
}

func playerAlert(wireErr string) *Alert {
	title, desc := shared.SplitErrorString(wireErr)
	remediation := SettingsRoute("mpv")
	return &Alert{
		Title:       title,
		Description: desc,
		Remediation: &remediation,
	}
}
