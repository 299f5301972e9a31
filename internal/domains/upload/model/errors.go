package model

import (
	"oneshot-backend/internal/shared/apperror"
)

const (
	CodeNoFiles          = "NO_FILES"
	CodeInvalidFile      = "INVALID_FILE"
	CodeTooManyFiles     = "TOO_MANY_FILES"
	CodeProcessingFailed = "PHOTO_PROCESSING_FAILED"
	CodeUploadFailed     = "UPLOAD_FAILED"
	CodePhotoSuperseded  = "PHOTO_SUPERSEDED"
)

var ErrNoFiles = apperror.Validation(CodeNoFiles, "No files provided",
	apperror.FieldError{Field: "files", Message: "At least one file must be uploaded"})

// ErrPhotoSuperseded is returned for a queued photo when a newer one
// has been uploaded for the same slug.
var ErrPhotoSuperseded = apperror.Conflict(CodePhotoSuperseded, "A newer photo was uploaded")

// NewInvalidFile reports every problem found for one field.
func NewInvalidFile(field string, problems []string) *apperror.AppError {
	fields := make([]apperror.FieldError, 0, len(problems))
	for _, p := range problems {
		fields = append(fields, apperror.FieldError{Field: field, Message: p})
	}
	return apperror.Validation(CodeInvalidFile, "File validation failed", fields...)
}

func NewTooManyFiles(field string) *apperror.AppError {
	return apperror.Validation(CodeTooManyFiles, "File validation failed",
		apperror.FieldError{Field: field, Message: "Only one " + field + " may be uploaded"})
}

func NewProcessingFailed(err error) *apperror.AppError {
	return apperror.Wrap(err, CodeProcessingFailed, "Photo processing failed")
}
