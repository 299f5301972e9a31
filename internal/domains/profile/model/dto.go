package model

import (
	"regexp"

	"oneshot-backend/internal/shared/apperror"
	"oneshot-backend/internal/shared/utils"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

var (
	heightPattern = regexp.MustCompile(`^\d+'\d+"?$`)
	fieldOrder    = []string{"fullName", "primaryPosition", "highSchoolName"}
)

// ========================================
// REQUEST DTOs
// ========================================

// ProfileRequest is the body of POST /api/profiles and POST /api/profiles/generate
type ProfileRequest struct {
	FullName          string   `json:"fullName" yaml:"fullName"`
	JerseyNumber      string   `json:"jerseyNumber,omitempty" yaml:"jerseyNumber"`
	PrimaryPosition   string   `json:"primaryPosition" yaml:"primaryPosition"`
	SecondaryPosition string   `json:"secondaryPosition,omitempty" yaml:"secondaryPosition"`
	HighSchoolName    string   `json:"highSchoolName" yaml:"highSchoolName"`
	State             string   `json:"state,omitempty" yaml:"state"`
	GraduationYear    int      `json:"graduationYear,omitempty" yaml:"graduationYear"`
	GPA               *float64 `json:"gpa,omitempty" yaml:"gpa"`
	Height            string   `json:"height,omitempty" yaml:"height"`
	Weight            *int     `json:"weight,omitempty" yaml:"weight"`

	FortyYardDashSeconds *float64 `json:"fortyYardDashSeconds,omitempty" yaml:"fortyYardDashSeconds"`
	VerticalJumpInches   *float64 `json:"verticalJumpInches,omitempty" yaml:"verticalJumpInches"`
	BroadJumpInches      *float64 `json:"broadJumpInches,omitempty" yaml:"broadJumpInches"`
	ShuttleTimeSeconds   *float64 `json:"shuttleTimeSeconds,omitempty" yaml:"shuttleTimeSeconds"`
	BenchPressLbs        *int     `json:"benchPressLbs,omitempty" yaml:"benchPressLbs"`
	SquatLbs             *int     `json:"squatLbs,omitempty" yaml:"squatLbs"`
	DeadliftLbs          *int     `json:"deadliftLbs,omitempty" yaml:"deadliftLbs"`

	Email      string `json:"email,omitempty" yaml:"email"`
	Phone      string `json:"phone,omitempty" yaml:"phone"`
	Twitter    string `json:"twitter,omitempty" yaml:"twitter"`
	CoachName  string `json:"coachName,omitempty" yaml:"coachName"`
	CoachPhone string `json:"coachPhone,omitempty" yaml:"coachPhone"`

	Photo             string `json:"photo,omitempty" yaml:"photo"`
	Transcript        string `json:"transcript,omitempty" yaml:"transcript"`
	HighlightVideoURL string `json:"highlightVideoUrl,omitempty" yaml:"highlightVideoUrl"`
	HudlVideoURL      string `json:"hudlVideoUrl,omitempty" yaml:"hudlVideoUrl"`

	Bio          string   `json:"bio,omitempty" yaml:"bio"`
	Achievements []string `json:"achievements,omitempty" yaml:"achievements"`

	Public *bool `json:"public,omitempty" yaml:"public"`
}

// Validate enforces the required fields. Optional fields are checked
// only when present.
func (r ProfileRequest) Validate() error {
	err := validation.ValidateStruct(&r,
		validation.Field(&r.FullName,
			validation.Required.Error("Full name is required (min 2 characters)"),
			validation.RuneLength(2, 0).Error("Full name is required (min 2 characters)"),
		),
		validation.Field(&r.PrimaryPosition,
			validation.Required.Error("Position is required"),
		),
		validation.Field(&r.HighSchoolName,
			validation.Required.Error("School name is required"),
		),
		validation.Field(&r.Email,
			validation.When(r.Email != "", is.EmailFormat.Error("Invalid email address")),
		),
		validation.Field(&r.Height,
			validation.When(r.Height != "", validation.Match(heightPattern).Error(`Height must be in format: 6'2"`)),
		),
		validation.Field(&r.GPA,
			validation.When(r.GPA != nil, validation.Min(0.0), validation.Max(5.0)),
		),
		validation.Field(&r.HighlightVideoURL,
			validation.When(r.HighlightVideoURL != "", is.URL.Error("Highlight video must be a valid URL")),
		),
		validation.Field(&r.HudlVideoURL,
			validation.When(r.HudlVideoURL != "", is.URL.Error("Hudl video must be a valid URL")),
		),
		validation.Field(&r.Photo,
			validation.When(r.Photo != "", is.RequestURI.Error("Photo must be a URL or an absolute path")),
		),
		validation.Field(&r.Transcript,
			validation.When(r.Transcript != "", is.RequestURI.Error("Transcript must be a URL or an absolute path")),
		),
	)
	return apperror.FromValidation(err, fieldOrder...)
}

// ToProfile maps the request onto a new AthleteProfile (no id/slug yet).
func (r ProfileRequest) ToProfile() *AthleteProfile {
	public := true
	if r.Public != nil {
		public = *r.Public
	}

	return &AthleteProfile{
		Public:               public,
		FullName:             r.FullName,
		JerseyNumber:         r.JerseyNumber,
		GPA:                  utils.ParseFloatToDecimal(r.GPA),
		GraduationYear:       r.GraduationYear,
		HighSchoolName:       r.HighSchoolName,
		State:                r.State,
		PrimaryPosition:      r.PrimaryPosition,
		SecondaryPosition:    r.SecondaryPosition,
		Height:               r.Height,
		Weight:               r.Weight,
		FortyYardDashSeconds: utils.ParseFloatToDecimal(r.FortyYardDashSeconds),
		VerticalJumpInches:   utils.ParseFloatToDecimal(r.VerticalJumpInches),
		BroadJumpInches:      utils.ParseFloatToDecimal(r.BroadJumpInches),
		ShuttleTimeSeconds:   utils.ParseFloatToDecimal(r.ShuttleTimeSeconds),
		BenchPressLbs:        r.BenchPressLbs,
		SquatLbs:             r.SquatLbs,
		DeadliftLbs:          r.DeadliftLbs,
		Email:                r.Email,
		Phone:                r.Phone,
		Twitter:              r.Twitter,
		CoachName:            r.CoachName,
		CoachPhone:           r.CoachPhone,
		Photo:                r.Photo,
		Transcript:           r.Transcript,
		HighlightVideoURL:    r.HighlightVideoURL,
		HudlVideoURL:         r.HudlVideoURL,
		Bio:                  r.Bio,
		Achievements:         r.Achievements,
	}
}

// ========================================
// RESPONSE DTOs
// ========================================

type ListResponse struct {
	Count    int               `json:"count"`
	Profiles []*AthleteProfile `json:"profiles"`
}

type DetailResponse struct {
	Profile          *AthleteProfile `json:"profile"`
	HasGeneratedHTML bool            `json:"hasGeneratedHtml"`
	HTMLURL          *string         `json:"htmlUrl"`
}

// GenerationResult describes a written profile page.
type GenerationResult struct {
	Slug       string `json:"slug"`
	FileName   string `json:"fileName"`
	FilePath   string `json:"filePath"`
	ProfileURL string `json:"profileUrl"`
	Degraded   bool   `json:"degraded"`
	Reason     string `json:"reason,omitempty"`
}

type GenerateResponse struct {
	Profile struct {
		Name     string `json:"name"`
		Slug     string `json:"slug"`
		FileName string `json:"fileName"`
		URL      string `json:"url"`
		Degraded bool   `json:"degraded"`
	} `json:"profile"`
	Generated string `json:"generated"`
}

type QRCodeResponse struct {
	Profile struct {
		ID   string `json:"id"`
		Name string `json:"name"`
		Slug string `json:"slug"`
	} `json:"profile"`
	QRCode struct {
		DataURL     string `json:"dataURL"`
		ProfileURL  string `json:"profileUrl"`
		Format      string `json:"format"`
		Size        string `json:"size"`
		DownloadURL string `json:"downloadUrl"`
	} `json:"qrCode"`
}
