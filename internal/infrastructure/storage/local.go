package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"oneshot-backend/internal/shared/apperror"
	"oneshot-backend/internal/shared/utils"

	"github.com/google/uuid"
)

// LocalStorage places uploads under <root>/<slug>/ with a thumbs/ child.
type LocalStorage struct {
	Root string
	now  func() time.Time
}

func NewLocalStorage(root string) *LocalStorage {
	return &LocalStorage{Root: root, now: time.Now}
}

// SlugDir returns <root>/<slug>.
func (s *LocalStorage) SlugDir(slug string) string {
	return filepath.Join(s.Root, slug)
}

// EnsureUploadDirectories creates <root>/<slug>/thumbs and returns the slug directory.
func (s *LocalStorage) EnsureUploadDirectories(slug string) (string, error) {
	if !utils.IsValidSlug(slug) {
		return "", apperror.Validation("INVALID_SLUG", "Invalid athlete slug",
			apperror.FieldError{Field: "slug", Message: "Slug must contain only lowercase letters, numbers and hyphens"})
	}
	dir := s.SlugDir(slug)
	if err := os.MkdirAll(filepath.Join(dir, ThumbsDir), 0o755); err != nil {
		return "", apperror.IO("UPLOAD_DIR_FAILED", "Failed to create upload directories", err)
	}
	return dir, nil
}

// UniqueFilename builds <slug>-<base>-<unix-ms>-<16 hex>.<ext>.
func (s *LocalStorage) UniqueFilename(originalName, slug string) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	base := strings.ToLower(strings.TrimSuffix(filepath.Base(originalName), filepath.Ext(originalName)))
	base = utils.SanitizeFileBase(base)

	return fmt.Sprintf("%s-%s-%d-%s%s", slug, base, s.now().UnixMilli(), randomHex(), ext)
}

// HandleDuplicateFile renames an existing file at path to
// <base>-backup-<unix-ms><ext>. It returns the backup path, or "" when
// nothing was there.
func (s *LocalStorage) HandleDuplicateFile(path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		return "", nil
	}
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(filepath.Base(path), ext)
	backup := filepath.Join(filepath.Dir(path), fmt.Sprintf("%s-backup-%d%s", base, s.now().UnixMilli(), ext))

	if err := os.Rename(path, backup); err != nil {
		return "", apperror.IO("BACKUP_FAILED", "Failed to back up existing file", err)
	}
	return backup, nil
}

// Save writes data under <root>/<slug>/<name>, backing up any file already there.
func (s *LocalStorage) Save(slug, name string, data []byte) (string, error) {
	dir, err := s.EnsureUploadDirectories(slug)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, name)
	if _, err := s.HandleDuplicateFile(path); err != nil {
		return "", err
	}
	if err := WriteFileAtomic(path, data, 0o644); err != nil {
		return "", apperror.IO("UPLOAD_WRITE_FAILED", "Failed to store uploaded file", err)
	}
	return path, nil
}

// randomHex returns 16 hex characters from a random UUID.
func randomHex() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
}
