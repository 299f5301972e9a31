package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AthleteProfile is the athlete record rendered into a static page and
// exported as a contact card. Only FullName is required everywhere;
// PrimaryPosition and HighSchoolName are required by the API.
type AthleteProfile struct {
	ID     string `json:"id"`
	UserID string `json:"userId,omitempty"`
	Slug   string `json:"slug"`
	Public bool   `json:"public"`

	// Identity
	FullName     string `json:"fullName"`
	JerseyNumber string `json:"jerseyNumber,omitempty"`

	// Academic
	GPA            *decimal.Decimal `json:"gpa,omitempty"`
	GraduationYear int              `json:"graduationYear,omitempty"`
	HighSchoolName string           `json:"highSchoolName"`
	State          string           `json:"state,omitempty"`

	// Positions
	PrimaryPosition   string `json:"primaryPosition"`
	SecondaryPosition string `json:"secondaryPosition,omitempty"`

	// Physical
	Height string `json:"height,omitempty"` // 6'2"
	Weight *int   `json:"weight,omitempty"` // lbs

	// Performance
	FortyYardDashSeconds *decimal.Decimal `json:"fortyYardDashSeconds,omitempty"`
	VerticalJumpInches   *decimal.Decimal `json:"verticalJumpInches,omitempty"`
	BroadJumpInches      *decimal.Decimal `json:"broadJumpInches,omitempty"`
	ShuttleTimeSeconds   *decimal.Decimal `json:"shuttleTimeSeconds,omitempty"`
	BenchPressLbs        *int             `json:"benchPressLbs,omitempty"`
	SquatLbs             *int             `json:"squatLbs,omitempty"`
	DeadliftLbs          *int             `json:"deadliftLbs,omitempty"`

	// Contact
	Email      string `json:"email,omitempty"`
	Phone      string `json:"phone,omitempty"`
	Twitter    string `json:"twitter,omitempty"`
	CoachName  string `json:"coachName,omitempty"`
	CoachPhone string `json:"coachPhone,omitempty"`

	// Media
	Photo             string `json:"photo,omitempty"`
	Transcript        string `json:"transcript,omitempty"`
	HighlightVideoURL string `json:"highlightVideoUrl,omitempty"`
	HudlVideoURL      string `json:"hudlVideoUrl,omitempty"`

	// Narrative
	Bio          string   `json:"bio,omitempty"`
	Achievements []string `json:"achievements,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Positions joins primary and secondary position as "QB / WR".
func (p *AthleteProfile) Positions() string {
	if p.SecondaryPosition == "" {
		return p.PrimaryPosition
	}
	return p.PrimaryPosition + " / " + p.SecondaryPosition
}

// HTMLPath is the public path of the generated page.
func HTMLPath(slug string) string {
	return "/profiles/" + slug + ".html"
}

// ListFilter narrows the public profile list. Position and School are
// case-insensitive substring matches, Year is exact.
type ListFilter struct {
	Position string
	School   string
	Year     int
}

// MediaUpdate replaces photo and/or transcript paths; empty fields are left alone.
type MediaUpdate struct {
	Photo      string
	Transcript string
}

// NewID returns a new profile identifier.
func NewID() string {
	return uuid.NewString()
}
