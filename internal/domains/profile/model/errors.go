package model

import (
	"fmt"

	"oneshot-backend/internal/shared/apperror"
)

// ============================================
// DOMAIN-SPECIFIC ERRORS
// ============================================

const (
	CodeProfileNotFound   = "PROFILE_NOT_FOUND"
	CodeSlugTaken         = "PROFILE_SLUG_TAKEN"
	CodeInvalidSlug       = "INVALID_SLUG"
	CodeGenerationFailed  = "PROFILE_GENERATION_FAILED"
	CodeTemplateRead      = "TEMPLATE_READ_FAILED"
	CodeProfileWrite      = "PROFILE_WRITE_FAILED"
	CodeProfileDirFailed  = "PROFILES_DIR_FAILED"
	CodeExportFailed      = "PROFILE_EXPORT_FAILED"
	CodeRepositoryFailure = "PROFILE_REPOSITORY_ERROR"
)

func NewProfileNotFound(id string) *apperror.AppError {
	return apperror.NotFound(CodeProfileNotFound,
		fmt.Sprintf("No profile found with ID: %s", id))
}

func NewProfileSlugNotFound(slug string) *apperror.AppError {
	return apperror.NotFound(CodeProfileNotFound,
		fmt.Sprintf("No athlete found with slug: %s", slug))
}

func NewSlugTaken(slug string) *apperror.AppError {
	return apperror.Conflict(CodeSlugTaken,
		fmt.Sprintf("A profile with slug '%s' already exists", slug))
}

// NewEmptySlug is returned when a name has no characters usable in a slug.
func NewEmptySlug(name string) *apperror.AppError {
	return apperror.Validation(CodeInvalidSlug, "Validation failed", apperror.FieldError{
		Field:   "fullName",
		Message: fmt.Sprintf("Full name %q does not contain any letters or digits", name),
	})
}

func NewRepositoryError(op string, err error) *apperror.AppError {
	return apperror.Internal(CodeRepositoryFailure, fmt.Sprintf("Failed to %s profile", op), err)
}
