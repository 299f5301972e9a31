package shared

import "time"

// ========================================
// BACKGROUND TASK TYPES
// ========================================

const (
	TypeGenerateProfile = "profile:generate"
	TypeProcessPhoto    = "upload:process_photo"
	TypeSweepBackups    = "upload:sweep_backups"
	TypeSendContact     = "contact:send_email"
)

// Queue names, highest priority first
const (
	QueueCritical = "critical"
	QueueDefault  = "default"
	QueueLow      = "low"
)

// QueuePriorities is the weighted queue map for the worker server.
var QueuePriorities = map[string]int{
	QueueCritical: 6,
	QueueDefault:  3,
	QueueLow:      1,
}

// GenerateProfilePayload asks the worker to (re)generate the static page of a stored profile.
type GenerateProfilePayload struct {
	ProfileID   string    `json:"profileId"`
	BaseURL     string    `json:"baseUrl"`
	RequestedAt time.Time `json:"requestedAt"`
}

// ProcessPhotoPayload points at an uploaded original that still needs derivatives.
type ProcessPhotoPayload struct {
	Slug       string `json:"slug"`
	SourcePath string `json:"sourcePath"`
}

// SweepBackupsPayload is empty; retention comes from worker config.
type SweepBackupsPayload struct{}

// ContactPayload is a validated contact form submission.
type ContactPayload struct {
	FullName    string    `json:"fullName"`
	Email       string    `json:"email"`
	Message     string    `json:"message"`
	AthleteSlug string    `json:"athleteSlug,omitempty"`
	SubmittedAt time.Time `json:"submittedAt"`
}
