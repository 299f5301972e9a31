package model

import (
	"regexp"
	"strings"

	"oneshot-backend/internal/shared/apperror"
	"oneshot-backend/internal/shared/utils"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

var (
	hasLower = regexp.MustCompile(`[a-z]`)
	hasUpper = regexp.MustCompile(`[A-Z]`)
	hasDigit = regexp.MustCompile(`[0-9]`)

	authFieldOrder = []string{"email", "password", "fullName"}
)

const passwordRule = "Password must contain at least one uppercase letter, one lowercase letter, and one number"

// RegisterRequest is the body of POST /api/auth/register
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName,omitempty"`
}

// Normalize lowercases and trims the e-mail address.
func (r *RegisterRequest) Normalize() {
	r.Email = utils.TrimToLower(r.Email)
	r.FullName = strings.TrimSpace(r.FullName)
}

func (r RegisterRequest) Validate() error {
	err := validation.ValidateStruct(&r,
		validation.Field(&r.Email,
			validation.Required.Error("Please enter a valid email address"),
			validation.RuneLength(5, 255).Error("Email must be between 5 and 255 characters"),
			is.EmailFormat.Error("Please enter a valid email address"),
		),
		validation.Field(&r.Password,
			validation.Required.Error("Password must be at least 8 characters"),
			validation.RuneLength(8, 128).Error("Password must be between 8 and 128 characters"),
			validation.Match(hasLower).Error(passwordRule),
			validation.Match(hasUpper).Error(passwordRule),
			validation.Match(hasDigit).Error(passwordRule),
		),
		validation.Field(&r.FullName,
			validation.RuneLength(0, 100).Error("Full name must be at most 100 characters"),
		),
	)
	return apperror.FromValidation(err, authFieldOrder...)
}

// LoginRequest is the body of POST /api/auth/login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Normalize() {
	r.Email = utils.TrimToLower(r.Email)
}

func (r LoginRequest) Validate() error {
	err := validation.ValidateStruct(&r,
		validation.Field(&r.Email,
			validation.Required.Error("Please enter a valid email address"),
			is.EmailFormat.Error("Please enter a valid email address"),
		),
		validation.Field(&r.Password, validation.Required.Error("Password is required")),
	)
	return apperror.FromValidation(err, authFieldOrder...)
}

// RefreshRequest is the optional body of POST /api/auth/refresh; the
// refresh_token cookie is used when it is empty.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// LoginResponse carries a token pair. ExpiresIn is in seconds.
type LoginResponse struct {
	AccessToken  string  `json:"accessToken"`
	RefreshToken string  `json:"refreshToken"`
	ExpiresIn    int64   `json:"expiresIn"`
	User         UserDTO `json:"user"`
}
