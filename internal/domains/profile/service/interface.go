package service

import (
	"context"

	"oneshot-backend/internal/domains/profile/model"

	"github.com/xuri/excelize/v2"
)

type ServiceInterface interface {
	ListProfiles(ctx context.Context, filter model.ListFilter) (*model.ListResponse, error)
	GetProfile(ctx context.Context, id string) (*model.DetailResponse, error)
	CreateProfile(ctx context.Context, req model.ProfileRequest, userID string) (*model.AthleteProfile, error)

	// GeneratePage renders an unsaved record straight to disk
	GeneratePage(ctx context.Context, req model.ProfileRequest, baseURL string) (*model.GenerationResult, error)
	// RegenerateProfile renders a stored profile, inline or through the queue
	RegenerateProfile(ctx context.Context, id, baseURL string, async bool) (*model.GenerationResult, error)

	QRCode(ctx context.Context, id string) (*model.QRCodeResponse, error)
	QRCodePNG(ctx context.Context, id string) ([]byte, string, error)

	ExportProfilesToExcel(ctx context.Context, filter model.ListFilter) (*excelize.File, int, error)
}
