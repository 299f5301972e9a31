package service

import (
	"context"
	"fmt"
	"time"

	"oneshot-backend/internal/domains/profile/model"
	"oneshot-backend/internal/domains/profile/repository"
	"oneshot-backend/internal/infrastructure/qrcode"
	"oneshot-backend/internal/infrastructure/queue"
	"oneshot-backend/internal/shared"
	"oneshot-backend/internal/shared/apperror"
	"oneshot-backend/internal/shared/utils"

	"github.com/rs/zerolog/log"
)

type ProfileService struct {
	repo        repository.Repository
	generator   *Generator
	qr          *qrcode.Encoder
	queue       queue.Enqueuer
	frontendURL string
}

// NewProfileService wires the profile use cases. q may be nil, in which
// case async regeneration falls back to running inline.
func NewProfileService(
	repo repository.Repository,
	generator *Generator,
	qr *qrcode.Encoder,
	q queue.Enqueuer,
	frontendURL string,
) ServiceInterface {
	return &ProfileService{
		repo:        repo,
		generator:   generator,
		qr:          qr,
		queue:       q,
		frontendURL: frontendURL,
	}
}

func (s *ProfileService) ListProfiles(ctx context.Context, filter model.ListFilter) (*model.ListResponse, error) {
	profiles, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &model.ListResponse{Count: len(profiles), Profiles: profiles}, nil
}

// GetProfile returns a public profile and whether its page exists on disk.
// Private profiles are reported as not found.
func (s *ProfileService) GetProfile(ctx context.Context, id string) (*model.DetailResponse, error) {
	profile, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !profile.Public {
		return nil, apperror.NotFound(model.CodeProfileNotFound,
			"This profile does not exist or is not publicly accessible")
	}

	resp := &model.DetailResponse{Profile: profile}
	if s.generator.Exists(profile.Slug) {
		htmlURL := model.HTMLPath(profile.Slug)
		resp.HasGeneratedHTML = true
		resp.HTMLURL = &htmlURL
	}
	return resp, nil
}

func (s *ProfileService) CreateProfile(ctx context.Context, req model.ProfileRequest, userID string) (*model.AthleteProfile, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	profile := req.ToProfile()
	profile.Slug = utils.GenerateSlug(profile.FullName)
	if profile.Slug == "" {
		return nil, model.NewEmptySlug(profile.FullName)
	}
	profile.UserID = userID

	if err := s.repo.Create(ctx, profile); err != nil {
		return nil, err
	}

	log.Info().Str("id", profile.ID).Str("slug", profile.Slug).Msg("Profile created")
	return profile, nil
}

func (s *ProfileService) GeneratePage(ctx context.Context, req model.ProfileRequest, baseURL string) (*model.GenerationResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.generator.Generate(ctx, req.ToProfile(), baseURL)
}

// RegenerateProfile renders the stored profile id. With async and a queue
// configured it only enqueues the work and returns the expected descriptor.
func (s *ProfileService) RegenerateProfile(ctx context.Context, id, baseURL string, async bool) (*model.GenerationResult, error) {
	profile, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !async || s.queue == nil {
		return s.generator.Generate(ctx, profile, baseURL)
	}

	payload := shared.GenerateProfilePayload{
		ProfileID:   profile.ID,
		BaseURL:     baseURL,
		RequestedAt: time.Now().UTC(),
	}
	if _, err := queue.EnqueueJSON(s.queue, shared.TypeGenerateProfile, payload, queue.GenerateProfileOptions()...); err != nil {
		return nil, apperror.Internal(model.CodeGenerationFailed, "Failed to schedule profile generation", err)
	}

	return &model.GenerationResult{
		Slug:       profile.Slug,
		FileName:   profile.Slug + ".html",
		ProfileURL: ProfileURL(baseURL, profile.Slug),
	}, nil
}

// QRCode encodes the frontend athlete page of profile id as a preview data URL.
func (s *ProfileService) QRCode(ctx context.Context, id string) (*model.QRCodeResponse, error) {
	profile, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	opts := qrcode.PreviewOptions()
	target := s.athleteURL(profile.ID)
	dataURL, err := s.qr.DataURL(target, opts)
	if err != nil {
		return nil, err
	}

	resp := &model.QRCodeResponse{}
	resp.Profile.ID = profile.ID
	resp.Profile.Name = profile.FullName
	resp.Profile.Slug = profile.Slug
	resp.QRCode.DataURL = dataURL
	resp.QRCode.ProfileURL = target
	resp.QRCode.Format = "PNG"
	resp.QRCode.Size = fmt.Sprintf("%dx%d", opts.WidthPx, opts.WidthPx)
	resp.QRCode.DownloadURL = fmt.Sprintf("/api/profiles/%s/qr/download", profile.ID)
	return resp, nil
}

// QRCodePNG returns the download-size PNG and the profile slug for the filename.
func (s *ProfileService) QRCodePNG(ctx context.Context, id string) ([]byte, string, error) {
	profile, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, "", err
	}

	png, err := s.qr.PNG(s.athleteURL(profile.ID), qrcode.DownloadOptions())
	if err != nil {
		return nil, "", err
	}
	return png, profile.Slug, nil
}

func (s *ProfileService) athleteURL(id string) string {
	return fmt.Sprintf("%s/athlete/%s", s.frontendURL, id)
}
