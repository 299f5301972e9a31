package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
}

func TestCleanupOldImages(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"new.jpg", "new-mobile.webp", "old.png", "old-desktop.webp", "transcript.pdf"} {
		touch(t, filepath.Join(dir, name))
	}
	for _, name := range []string{"new-thumb.webp", "new-thumb.png", "old-thumb.webp"} {
		touch(t, filepath.Join(dir, ThumbsDir, name))
	}

	removed := CleanupOldImages(dir, []string{"new.jpg", "new-mobile.webp"})

	assert.ElementsMatch(t, []string{
		filepath.Join(dir, "old.png"),
		filepath.Join(dir, "old-desktop.webp"),
		filepath.Join(dir, ThumbsDir, "old-thumb.webp"),
	}, removed)

	assert.FileExists(t, filepath.Join(dir, "new.jpg"))
	assert.FileExists(t, filepath.Join(dir, "transcript.pdf"))
	assert.FileExists(t, filepath.Join(dir, ThumbsDir, "new-thumb.webp"))
	assert.FileExists(t, filepath.Join(dir, ThumbsDir, "new-thumb.png"))
}

func TestCleanupOldImages_MissingDirIsWarningOnly(t *testing.T) {
	assert.Empty(t, CleanupOldImages(filepath.Join(t.TempDir(), "nope"), []string{"a.jpg"}))
}

func TestNewerOriginals(t *testing.T) {
	dir := t.TempDir()
	base := time.Now().Add(-time.Hour)
	stamp := func(name string, offset time.Duration) {
		path := filepath.Join(dir, name)
		touch(t, path)
		at := base.Add(offset)
		require.NoError(t, os.Chtimes(path, at, at))
	}
	stamp("a.png", 0)
	stamp("older.jpg", -time.Minute)
	stamp("b.jpg", time.Minute)
	stamp("b-mobile.webp", 2*time.Minute)
	stamp("c-backup-1.png", 3*time.Minute)
	stamp("notes.pdf", 4*time.Minute)
	stamp("tie.webp", 0)
	touch(t, filepath.Join(dir, ThumbsDir, "b-thumb.webp"))

	newer, err := NewerOriginals(dir, filepath.Join(dir, "a.png"))

	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"b.jpg", "tie.webp"}, newer)

	newest, err := NewerOriginals(dir, filepath.Join(dir, "b.jpg"))
	require.NoError(t, err)
	assert.Empty(t, newest)

	_, err = NewerOriginals(dir, filepath.Join(dir, "gone.png"))
	assert.Error(t, err)
}

func TestIsImageFile(t *testing.T) {
	assert.True(t, IsImageFile("a.JPG"))
	assert.True(t, IsImageFile("a.webp"))
	assert.False(t, IsImageFile("a.pdf"))
	assert.False(t, IsImageFile("thumbs"))
}

func TestSweepBackups(t *testing.T) {
	root := t.TempDir()
	now := time.Now()
	oldBackup := filepath.Join(root, "jordan-davis", "photo-backup-1.jpg")
	freshBackup := filepath.Join(root, "jordan-davis", "photo-backup-2.jpg")
	regular := filepath.Join(root, "jordan-davis", "photo.jpg")
	for _, p := range []string{oldBackup, freshBackup, regular} {
		touch(t, p)
	}
	old := now.Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(oldBackup, old, old))
	require.NoError(t, os.Chtimes(regular, old, old))

	n, err := SweepBackups(root, 24*time.Hour, now)

	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.NoFileExists(t, oldBackup)
	assert.FileExists(t, freshBackup)
	assert.FileExists(t, regular)
}
