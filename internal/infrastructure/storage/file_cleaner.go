package storage

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

var supportedImageExts = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".webp": true}

// IsImageFile reports whether name has a supported image extension.
func IsImageFile(name string) bool {
	return supportedImageExts[strings.ToLower(filepath.Ext(name))]
}

// CleanupOldImages removes superseded images from uploadDir and its
// thumbs directory. In uploadDir only image files whose name is not in
// keepFiles are removed. A thumbnail survives when its name contains the
// extensionless base name of any kept file. Failures are logged and
// skipped; the removed paths are returned.
func CleanupOldImages(uploadDir string, keepFiles []string) []string {
	keep := make(map[string]bool, len(keepFiles))
	bases := make([]string, 0, len(keepFiles))
	for _, name := range keepFiles {
		name = filepath.Base(name)
		keep[name] = true
		bases = append(bases, strings.TrimSuffix(name, filepath.Ext(name)))
	}

	var removed []string

	// Main directory
	entries, err := os.ReadDir(uploadDir)
	if err != nil {
		log.Warn().Err(err).Str("dir", uploadDir).Msg("Cleanup warning")
		return removed
	}
	for _, entry := range entries {
		name := entry.Name()
		if name == ThumbsDir || entry.IsDir() {
			continue
		}
		if keep[name] || !IsImageFile(name) {
			continue
		}
		path := filepath.Join(uploadDir, name)
		if err := os.Remove(path); err != nil {
			log.Warn().Err(err).Str("file", path).Msg("Cleanup warning")
			continue
		}
		removed = append(removed, path)
	}

	// Thumbnails, matched loosely so a format change between uploads
	// still finds the thumbnail of a kept original.
	thumbDir := filepath.Join(uploadDir, ThumbsDir)
	thumbs, err := os.ReadDir(thumbDir)
	if err != nil {
		return removed
	}
	for _, entry := range thumbs {
		if entry.IsDir() || containsAny(entry.Name(), bases) {
			continue
		}
		path := filepath.Join(thumbDir, entry.Name())
		if err := os.Remove(path); err != nil {
			log.Warn().Err(err).Str("file", path).Msg("Cleanup warning")
			continue
		}
		removed = append(removed, path)
	}

	return removed
}

// NewerOriginals returns the base names of uploaded originals in
// uploadDir stored after sourcePath. Files are ordered by modification
// time, then by name. Derivatives and backups are not originals.
func NewerOriginals(uploadDir, sourcePath string) ([]string, error) {
	source, err := os.Stat(sourcePath)
	if err != nil {
		return nil, err
	}
	sourceName := filepath.Base(sourcePath)

	entries, err := os.ReadDir(uploadDir)
	if err != nil {
		return nil, err
	}

	var newer []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || name == sourceName || !isOriginal(name) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		switch {
		case info.ModTime().After(source.ModTime()):
			newer = append(newer, name)
		case info.ModTime().Equal(source.ModTime()) && name > sourceName:
			newer = append(newer, name)
		}
	}
	return newer, nil
}

func isOriginal(name string) bool {
	if !IsImageFile(name) || strings.Contains(name, "-backup-") {
		return false
	}
	for _, kind := range []string{KindMobile, KindDesktop} {
		if strings.HasSuffix(name, "-"+kind+"."+OutputFormat) {
			return false
		}
	}
	return true
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if sub != "" && strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// SweepBackups deletes "-backup-" files under root older than retention.
func SweepBackups(root string, retention time.Duration, now time.Time) (int, error) {
	count := 0
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return filepath.SkipDir
			}
			return err
		}
		if d.IsDir() || !strings.Contains(d.Name(), "-backup-") {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		if now.Sub(info.ModTime()) < retention {
			return nil
		}
		if err := os.Remove(path); err != nil {
			log.Warn().Err(err).Str("file", path).Msg("Backup sweep warning")
			return nil
		}
		count++
		return nil
	})
	return count, err
}
