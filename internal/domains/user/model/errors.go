package model

import (
	"oneshot-backend/internal/shared/apperror"
)

const (
	CodeUserNotFound       = "USER_NOT_FOUND"
	CodeEmailTaken         = "EMAIL_ALREADY_EXISTS"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeInvalidToken       = "INVALID_TOKEN"
	CodeUserRepository     = "USER_REPOSITORY_ERROR"
)

var (
	ErrUserNotFound = apperror.NotFound(CodeUserNotFound, "User not found")

	ErrEmailTaken = apperror.Conflict(CodeEmailTaken, "User with this email already exists")

	// Unknown e-mail and wrong password look the same to the caller
	ErrInvalidCredentials = apperror.Unauthorized(CodeInvalidCredentials, "Invalid email or password")
)

func NewInvalidToken(err error) *apperror.AppError {
	appErr := apperror.Unauthorized(CodeInvalidToken, "Invalid or expired token")
	appErr.Err = err
	return appErr
}

func NewRepositoryError(op string, err error) *apperror.AppError {
	return apperror.Internal(CodeUserRepository, "Failed to "+op+" user", err)
}
