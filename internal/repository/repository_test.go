// filepath: internal/repository/repository_test.go
package repository

import (
	"os"
	"testing"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mpvshelf/internal/config"
	"mpvshelf/internal/db/migrations"
	"mpvshelf/internal/models"
)

func applyTestMigrations(t *testing.T, repo *Repository) {
	t.Helper()
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("sqlite3"); err != nil {
		t.Fatalf("Failed to set goose dialect: %v", err)
	}
	if err := goose.Up(repo.DB, "."); err != nil {
		t.Fatalf("Failed to apply test migrations: %v", err)
	}
}

func setupTestDB(t *testing.T) (*Repository, func()) {
	t.Helper()
	dbPath := t.TempDir() + "/test_library.db"

	dummyCfg := &config.Config{
		Database: config.DatabaseConfig{
			Path: dbPath,
		},
	}

	repo, err := NewRepository(dummyCfg)
	if err != nil {
		t.Fatalf("Failed to create new repository: %v", err)
	}

	applyTestMigrations(t, repo)

	cleanup := func() {
		repo.Close()
		os.Remove(dbPath)
	}

	return repo, cleanup
}

func seedTestUser(t *testing.T, repo *Repository) *models.User {
	t.Helper()
	user, err := repo.CreateDefaultUser("main")
	require.NoError(t, err)
	return user
}

func strp(s string) *string { return &s }

func TestNewRepository(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	tables := []string{"users", "settings", "os_folders", "os_videos"}
	for _, table := range tables {
		var name string
		err := repo.DB.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Errorf("Table '%s' was not created: %v", table, err)
		}
	}
}

func TestDefaultUserLifecycle(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	user := seedTestUser(t, repo)
	assert.Equal(t, models.DefaultUserID, user.ID)
	assert.True(t, user.Settings.Mpv.Autoplay)

	// Creating again is a no-op and returns the existing row.
	again, err := repo.CreateDefaultUser("main")
	assert.NoError(t, err)
	assert.Equal(t, user.ID, again.ID)

	fetched, err := repo.GetDefaultUser()
	assert.NoError(t, err)
	assert.Equal(t, "main", fetched.Username)

	fetched.Settings.Mpv.ExePath = strp("/usr/bin/mpv")
	fetched.Settings.Mpv.Autoplay = false
	err = repo.UpsertUser(fetched)
	assert.NoError(t, err)

	updated, err := repo.GetUserByID(models.DefaultUserID)
	assert.NoError(t, err)
	require.NotNil(t, updated.Settings.Mpv.ExePath)
	assert.Equal(t, "/usr/bin/mpv", *updated.Settings.Mpv.ExePath)
	assert.False(t, updated.Settings.Mpv.Autoplay)
}

func TestGetUserByIDNotFound(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.GetUserByID("missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "User Not Found: ")
}

func TestFolderCRUD(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	user := seedTestUser(t, repo)

	folders := []models.OsFolder{
		{UserID: user.ID, Path: "/media/anime", Title: "anime"},
		{UserID: user.ID, Path: "/media/anime/show", Title: "show", ParentPath: strp("/media/anime")},
	}
	err := repo.UpsertOsFolders(folders)
	assert.NoError(t, err)

	roots, err := repo.GetOsFolders(user.ID, models.SortUpdated)
	assert.NoError(t, err)
	require.Len(t, roots, 1)
	assert.Equal(t, "/media/anime", roots[0].Path)
	assert.NotEmpty(t, roots[0].UpdateDate)

	children, err := repo.GetOsFoldersByPath("/media/anime", models.SortUpdated)
	assert.NoError(t, err)
	require.Len(t, children, 1)
	assert.Equal(t, "show", children[0].Title)

	one, err := repo.GetOsFolderByPath("/media/anime/show")
	assert.NoError(t, err)
	require.NotNil(t, one.ParentPath)
	assert.Equal(t, "/media/anime", *one.ParentPath)

	_, err = repo.GetOsFolderByPath("/does/not/exist")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OsFolders Not Found: ")
}

func TestGetOsFoldersEmpty(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	user := seedTestUser(t, repo)

	_, err := repo.GetOsFolders(user.ID, models.SortUpdated)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OsFolders Not Found: 0 OsFolders found")
}

func TestVideoCRUD(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	user := seedTestUser(t, repo)

	size := int64(2048)
	videos := []models.OsVideo{
		{
			UserID:         user.ID,
			MainFolderPath: "/media/anime/show",
			Path:           "/media/anime/show/ep1.mkv",
			Title:          "ep1.mkv",
			Duration:       1420,
			Metadata:       &models.FileMetadata{Size: &size},
		},
		{
			UserID:         user.ID,
			MainFolderPath: "/media/anime/show",
			Path:           "/media/anime/show/ep2.mkv",
			Title:          "ep2.mkv",
		},
	}
	err := repo.UpsertOsVideos(videos)
	assert.NoError(t, err)

	got, err := repo.GetOsVideos("/media/anime/show", models.SortNone)
	assert.NoError(t, err)
	require.Len(t, got, 2)
	require.NotNil(t, got[0].Metadata)
	require.NotNil(t, got[0].Metadata.Size)
	assert.Equal(t, size, *got[0].Metadata.Size)
	assert.NotEmpty(t, got[0].UpdateDate)

	// Upsert keeps path identity and overwrites fields.
	videos[0].Position = 300
	videos[0].Watched = true
	err = repo.UpsertOsVideos(videos[:1])
	assert.NoError(t, err)

	got, err = repo.GetOsVideos("/media/anime/show", models.SortNone)
	assert.NoError(t, err)
	require.Len(t, got, 2)
	assert.True(t, got[0].Watched)
	assert.Equal(t, float64(300), got[0].Position)

	all, err := repo.GetOsVideosByUser(user.ID, models.SortNone)
	assert.NoError(t, err)
	assert.Len(t, all, 2)

	err = repo.DeleteOsVideoRecords([]string{"/media/anime/show/ep2.mkv"})
	assert.NoError(t, err)
	got, err = repo.GetOsVideos("/media/anime/show", models.SortNone)
	assert.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestGetOsVideosEmpty(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.GetOsVideos("/media/empty", models.SortUpdated)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OsVideos Not Found: 0 OsVideos found belonging to: /media/empty")
}

func TestDeleteOsFoldersCascades(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	user := seedTestUser(t, repo)

	folders := []models.OsFolder{
		{UserID: user.ID, Path: "/media/anime", Title: "anime"},
		{UserID: user.ID, Path: "/media/anime/show", Title: "show", ParentPath: strp("/media/anime")},
	}
	require.NoError(t, repo.UpsertOsFolders(folders))

	videos := []models.OsVideo{
		{UserID: user.ID, MainFolderPath: "/media/anime/show", Path: "/media/anime/show/ep1.mkv", Title: "ep1.mkv"},
	}
	require.NoError(t, repo.UpsertOsVideos(videos))

	user.LastWatchedVideo = &videos[0]
	require.NoError(t, repo.UpsertUser(user))

	err := repo.DeleteOsFolders(folders[:1], user)
	assert.NoError(t, err)

	_, err = repo.GetOsFolderByPath("/media/anime/show")
	assert.Error(t, err)
	_, err = repo.GetOsVideos("/media/anime/show", models.SortNone)
	assert.Error(t, err)

	// Pointer to a deleted video is cleared on the user row.
	refetched, err := repo.GetUserByID(user.ID)
	assert.NoError(t, err)
	assert.Nil(t, refetched.LastWatchedVideo)
}

func TestDeleteOsFoldersRemovesWholeSubtree(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	user := seedTestUser(t, repo)

	folders := []models.OsFolder{
		{UserID: user.ID, Path: "/media/show", Title: "show"},
		{UserID: user.ID, Path: "/media/show/season1", Title: "season1", ParentPath: strp("/media/show")},
		{UserID: user.ID, Path: "/media/show/season1/extras", Title: "extras", ParentPath: strp("/media/show/season1")},
	}
	require.NoError(t, repo.UpsertOsFolders(folders))
	require.NoError(t, repo.UpsertOsVideos([]models.OsVideo{
		{UserID: user.ID, MainFolderPath: "/media/show/season1/extras", Path: "/media/show/season1/extras/ep1.mkv", Title: "ep1.mkv"},
	}))

	require.NoError(t, repo.DeleteOsFolders(folders[:1], user))

	// Grandchildren and their videos go with the root, not just direct children.
	_, err := repo.GetOsFolderByPath("/media/show/season1/extras")
	assert.Error(t, err)
	vids, err := repo.GetOsVideosByUser(user.ID, models.SortNone)
	assert.NoError(t, err)
	assert.Empty(t, vids)
}
