package model

import (
	"path/filepath"
	"slices"
	"strconv"
	"strings"
)

// Upload fields accepted by POST /api/upload/:slug
const (
	FieldPhoto      = "photo"
	FieldTranscript = "transcript"
)

var (
	allowedImages    = []string{"image/jpeg", "image/jpg", "image/png", "image/webp"}
	allowedDocuments = []string{"application/pdf"}

	dangerousExtensions = []string{".exe", ".bat", ".cmd", ".scr", ".com", ".pif", ".vbs", ".js", ".jar"}
)

// Limits are the per-field size ceilings in bytes.
type Limits struct {
	MaxPhotoBytes      int64
	MaxTranscriptBytes int64
}

func DefaultLimits() Limits {
	return Limits{
		MaxPhotoBytes:      5 * 1024 * 1024,
		MaxTranscriptBytes: 10 * 1024 * 1024,
	}
}

// IsAllowedMIME reports whether the declared content type is accepted for field.
func IsAllowedMIME(field, mimeType string) bool {
	mimeType = strings.ToLower(strings.TrimSpace(strings.Split(mimeType, ";")[0]))

	switch field {
	case FieldPhoto:
		return slices.Contains(allowedImages, mimeType)
	case FieldTranscript:
		return slices.Contains(allowedDocuments, mimeType)
	default:
		return false
	}
}

// WithinSizeLimit reports whether size fits the limit of field.
func WithinSizeLimit(field string, size int64, limits Limits) bool {
	switch field {
	case FieldPhoto:
		return size <= limits.MaxPhotoBytes
	case FieldTranscript:
		return size <= limits.MaxTranscriptBytes
	default:
		return false
	}
}

// HasDangerousExtension matches the filename against the executable and
// script denylist, independent of the declared content type.
func HasDangerousExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(strings.TrimSpace(filename)))
	return slices.Contains(dangerousExtensions, ext)
}

// ValidateFile runs every check for one file and returns the
// human-readable problems. The denylist check always runs.
func ValidateFile(field, filename, mimeType string, size int64, limits Limits) []string {
	var problems []string

	switch field {
	case FieldPhoto:
		if !IsAllowedMIME(field, mimeType) {
			problems = append(problems, "Photo must be JPEG, PNG, or WebP format")
		}
		if !WithinSizeLimit(field, size, limits) {
			problems = append(problems, "Photo must be less than "+humanMB(limits.MaxPhotoBytes))
		}
	case FieldTranscript:
		if !IsAllowedMIME(field, mimeType) {
			problems = append(problems, "Transcript must be PDF format")
		}
		if !WithinSizeLimit(field, size, limits) {
			problems = append(problems, "Transcript must be less than "+humanMB(limits.MaxTranscriptBytes))
		}
	default:
		problems = append(problems, "Unexpected file field: "+field)
	}

	if HasDangerousExtension(filename) {
		problems = append(problems, "File type not allowed for security reasons")
	}

	return problems
}

func humanMB(bytes int64) string {
	mb := bytes / (1024 * 1024)
	if mb*1024*1024 == bytes {
		return strconv.FormatInt(mb, 10) + "MB"
	}
	return strconv.FormatInt(bytes, 10) + " bytes"
}
