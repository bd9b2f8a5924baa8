// filepath: internal/library/reconciler_test.go
package library

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mpvshelf/internal/config"
	"mpvshelf/internal/db/migrations"
	"mpvshelf/internal/models"
	"mpvshelf/internal/repository"
)

func setupTest(t *testing.T) (*repository.Repository, *models.User, *Reconciler) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test_library.db")

	repo, err := repository.NewRepository(&config.Config{
		Database: config.DatabaseConfig{Path: dbPath},
	})
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	goose.SetBaseFS(migrations.FS)
	require.NoError(t, goose.SetDialect("sqlite3"))
	require.NoError(t, goose.Up(repo.DB, "."))

	user, err := repo.CreateDefaultUser("main")
	require.NoError(t, err)

	return repo, user, NewReconciler(repo)
}

func writeVideoFile(t *testing.T, dir, name string, size int) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, make([]byte, size), 0644))
	return path
}

func TestUpsertReadOsDirFirstScan(t *testing.T) {
	repo, user, rec := setupTest(t)

	dir := t.TempDir()
	writeVideoFile(t, dir, "ep1.mkv", 10)
	writeVideoFile(t, dir, "ep2.mkv", 20)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "extras"), 0755))

	changed, err := rec.UpsertReadOsDir(user, dir, nil, nil, nil)
	require.NoError(t, err)
	assert.True(t, changed, "first scan must report a change")

	videos, err := repo.GetOsVideos(dir, models.SortNone)
	require.NoError(t, err)
	assert.Len(t, videos, 2)
	require.NotNil(t, videos[0].Metadata)
	require.NotNil(t, videos[0].Metadata.Size)

	folders, err := repo.GetOsFoldersByPath(dir, models.SortNone)
	require.NoError(t, err)
	require.Len(t, folders, 1)
	assert.Equal(t, "extras", folders[0].Title)

	self, err := repo.GetOsFolderByPath(dir)
	require.NoError(t, err)
	assert.Nil(t, self.ParentPath)
}

func TestUpsertReadOsDirIdempotent(t *testing.T) {
	repo, user, rec := setupTest(t)

	dir := t.TempDir()
	writeVideoFile(t, dir, "ep1.mkv", 10)

	changed, err := rec.UpsertReadOsDir(user, dir, nil, nil, nil)
	require.NoError(t, err)
	require.True(t, changed)

	// Second pass with an unchanged disk and an accurate held view.
	heldVideos, err := repo.GetOsVideos(dir, models.SortNone)
	require.NoError(t, err)

	changed, err = rec.UpsertReadOsDir(user, dir, nil, []models.OsFolder{}, heldVideos)
	require.NoError(t, err)
	assert.False(t, changed, "re-scan of an unchanged dir must not require a refetch")
}

func TestUpsertReadOsDirDetectsNewFile(t *testing.T) {
	repo, user, rec := setupTest(t)

	dir := t.TempDir()
	writeVideoFile(t, dir, "ep1.mkv", 10)

	_, err := rec.UpsertReadOsDir(user, dir, nil, nil, nil)
	require.NoError(t, err)
	held, err := repo.GetOsVideos(dir, models.SortNone)
	require.NoError(t, err)

	writeVideoFile(t, dir, "ep2.mkv", 10)

	changed, err := rec.UpsertReadOsDir(user, dir, nil, nil, held)
	require.NoError(t, err)
	assert.True(t, changed)

	videos, err := repo.GetOsVideos(dir, models.SortNone)
	require.NoError(t, err)
	assert.Len(t, videos, 2)
}

func TestUpsertReadOsDirDetectsDeletedFile(t *testing.T) {
	repo, user, rec := setupTest(t)

	dir := t.TempDir()
	keep := writeVideoFile(t, dir, "ep1.mkv", 10)
	gone := writeVideoFile(t, dir, "ep2.mkv", 10)

	_, err := rec.UpsertReadOsDir(user, dir, nil, nil, nil)
	require.NoError(t, err)
	held, err := repo.GetOsVideos(dir, models.SortNone)
	require.NoError(t, err)
	require.Len(t, held, 2)

	require.NoError(t, os.Remove(gone))

	changed, err := rec.UpsertReadOsDir(user, dir, nil, nil, held)
	require.NoError(t, err)
	assert.True(t, changed)

	videos, err := repo.GetOsVideos(dir, models.SortNone)
	require.NoError(t, err)
	require.Len(t, videos, 1)
	assert.Equal(t, keep, videos[0].Path)
}

func TestUpsertReadOsDirRefreshesStaleMetadata(t *testing.T) {
	repo, user, rec := setupTest(t)

	dir := t.TempDir()
	path := writeVideoFile(t, dir, "ep1.mkv", 10)

	_, err := rec.UpsertReadOsDir(user, dir, nil, nil, nil)
	require.NoError(t, err)

	// File grows on disk; the stored size no longer matches.
	require.NoError(t, os.WriteFile(path, make([]byte, 99), 0644))

	changed, err := rec.UpsertReadOsDir(user, dir, nil, nil, nil)
	require.NoError(t, err)
	assert.True(t, changed)

	videos, err := repo.GetOsVideos(dir, models.SortNone)
	require.NoError(t, err)
	require.NotNil(t, videos[0].Metadata)
	require.NotNil(t, videos[0].Metadata.Size)
	assert.Equal(t, int64(99), *videos[0].Metadata.Size)
}

func TestUpsertReadOsDirHeldViewDrift(t *testing.T) {
	_, user, rec := setupTest(t)

	dir := t.TempDir()
	writeVideoFile(t, dir, "ep1.mkv", 10)

	_, err := rec.UpsertReadOsDir(user, dir, nil, nil, nil)
	require.NoError(t, err)

	// The caller holds a view that never matched reality: the disk and DB
	// agree, but the held set is empty, so a refetch is still required.
	changed, err := rec.UpsertReadOsDir(user, dir, nil, nil, []models.OsVideo{})
	require.NoError(t, err)
	assert.True(t, changed)
}

func TestUpsertReadOsDirMissingDirectory(t *testing.T) {
	_, user, rec := setupTest(t)

	_, err := rec.UpsertReadOsDir(user, "/does/not/exist", nil, nil, nil)
	assert.Error(t, err)
}

func TestUpsertReadOsDirRemovesVanishedDir(t *testing.T) {
	repo, user, rec := setupTest(t)

	parent := t.TempDir()
	dir := filepath.Join(parent, "show")
	require.NoError(t, os.MkdirAll(dir, 0755))
	writeVideoFile(t, dir, "ep1.mkv", 10)

	_, err := rec.UpsertReadOsDir(user, dir, nil, nil, nil)
	require.NoError(t, err)

	require.NoError(t, os.RemoveAll(dir))

	changed, err := rec.UpsertReadOsDir(user, dir, nil, nil, nil)
	assert.Error(t, err)
	assert.True(t, changed, "record removal is a change even though the scan failed")

	_, err = repo.GetOsFolderByPath(dir)
	assert.Error(t, err)
}

func TestAddRootFolders(t *testing.T) {
	repo, user, rec := setupTest(t)

	dirA := t.TempDir()
	dirB := t.TempDir()
	writeVideoFile(t, dirA, "a.mkv", 10)
	writeVideoFile(t, dirB, "b.mkv", 10)

	require.NoError(t, rec.AddRootFolders(user, []string{dirA, dirB}))

	roots, err := repo.GetOsFolders(user.ID, models.SortUpdated)
	require.NoError(t, err)
	assert.Len(t, roots, 2)
}

func TestExportImportRoundTrip(t *testing.T) {
	repo, user, rec := setupTest(t)

	dir := t.TempDir()
	writeVideoFile(t, dir, "ep1.mkv", 10)
	require.NoError(t, rec.AddRootFolders(user, []string{dir}))

	outPath, err := ExportAllData(repo, user, t.TempDir())
	require.NoError(t, err)
	assert.FileExists(t, outPath)

	// Wipe and restore.
	folders, err := repo.GetOsFoldersByUser(user.ID, models.SortNone)
	require.NoError(t, err)
	require.NoError(t, repo.DeleteOsFolders(folders, user))

	restored, err := ImportAllData(repo, outPath)
	require.NoError(t, err)
	assert.Equal(t, user.ID, restored.ID)

	videos, err := repo.GetOsVideos(dir, models.SortNone)
	require.NoError(t, err)
	assert.Len(t, videos, 1)
}

func TestCheckCoverImgExists(t *testing.T) {
	dir := t.TempDir()
	img := filepath.Join(dir, "cover.jpg")
	require.NoError(t, os.WriteFile(img, []byte{0xff}, 0644))

	assert.True(t, CheckCoverImgExists(img))
	assert.False(t, CheckCoverImgExists(filepath.Join(dir, "missing.jpg")))
	assert.False(t, CheckCoverImgExists(""))
	assert.False(t, CheckCoverImgExists(dir))
}

func TestUpsertReadOsDirKeepsSubdirectoryNested(t *testing.T) {
	repo, user, rec := setupTest(t)

	root := t.TempDir()
	sub := filepath.Join(root, "season1")
	require.NoError(t, os.MkdirAll(sub, 0755))
	writeVideoFile(t, sub, "ep1.mkv", 10)

	// Hydrating the subdirectory directly must not promote it to a root.
	_, err := rec.UpsertReadOsDir(user, sub, &root, nil, nil)
	require.NoError(t, err)

	stored, err := repo.GetOsFolderByPath(sub)
	require.NoError(t, err)
	require.NotNil(t, stored.ParentPath)
	assert.Equal(t, root, *stored.ParentPath)

	// The only record hangs under root, so the roots listing stays empty.
	_, err = repo.GetOsFolders(user.ID, models.SortNone)
	assert.Error(t, err)
}

func TestUpsertReadOsDirRepairsMissingParent(t *testing.T) {
	repo, user, rec := setupTest(t)

	root := t.TempDir()
	sub := filepath.Join(root, "season1")
	require.NoError(t, os.MkdirAll(sub, 0755))
	writeVideoFile(t, sub, "ep1.mkv", 10)

	_, err := rec.UpsertReadOsDir(user, sub, nil, nil, nil)
	require.NoError(t, err)

	changed, err := rec.UpsertReadOsDir(user, sub, &root, nil, nil)
	require.NoError(t, err)
	assert.True(t, changed)

	stored, err := repo.GetOsFolderByPath(sub)
	require.NoError(t, err)
	require.NotNil(t, stored.ParentPath)
	assert.Equal(t, root, *stored.ParentPath)
}
