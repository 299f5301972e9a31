package model

import (
	"regexp"
	"strings"
	"time"

	"oneshot-backend/internal/shared"
	"oneshot-backend/internal/shared/apperror"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

const (
	CodeSendFailed = "CONTACT_SEND_FAILED"

	SendFailedMessage = "Failed to send email. Please try again later."
)

var (
	slugPattern = regexp.MustCompile(`^[a-z0-9-]+$`)
	fieldOrder  = []string{"fullName", "email", "message", "athleteSlug"}
)

// ContactRequest is the body of POST /api/contact
type ContactRequest struct {
	FullName    string `json:"fullName"`
	Email       string `json:"email"`
	Message     string `json:"message"`
	AthleteSlug string `json:"athleteSlug,omitempty"`
}

// Normalize trims surrounding whitespace from every field.
func (r *ContactRequest) Normalize() {
	r.FullName = strings.TrimSpace(r.FullName)
	r.Email = strings.TrimSpace(r.Email)
	r.Message = strings.TrimSpace(r.Message)
	r.AthleteSlug = strings.TrimSpace(r.AthleteSlug)
}

func (r ContactRequest) Validate() error {
	err := validation.ValidateStruct(&r,
		validation.Field(&r.FullName,
			validation.Required.Error("Full name is required"),
			validation.RuneLength(2, 100).Error("Full name must be between 2 and 100 characters"),
		),
		validation.Field(&r.Email,
			validation.Required.Error("Email is required"),
			validation.RuneLength(0, 255).Error("Email must be at most 255 characters"),
			is.EmailFormat.Error("Invalid email address"),
		),
		validation.Field(&r.Message,
			validation.Required.Error("Message is required"),
			validation.RuneLength(10, 2000).Error("Message must be between 10 and 2000 characters"),
		),
		validation.Field(&r.AthleteSlug,
			validation.When(r.AthleteSlug != "", validation.Match(slugPattern).Error("Invalid athlete slug")),
		),
	)
	return apperror.FromValidation(err, fieldOrder...)
}

func (r ContactRequest) ToPayload(submittedAt time.Time) shared.ContactPayload {
	return shared.ContactPayload{
		FullName:    r.FullName,
		Email:       r.Email,
		Message:     r.Message,
		AthleteSlug: r.AthleteSlug,
		SubmittedAt: submittedAt,
	}
}

// SubmitResult tells the caller whether the e-mail went out or is queued.
type SubmitResult struct {
	Queued      bool      `json:"queued"`
	SubmittedAt time.Time `json:"submittedAt"`
}

func NewSendFailed(err error) *apperror.AppError {
	return apperror.Internal(CodeSendFailed, SendFailedMessage, err)
}
