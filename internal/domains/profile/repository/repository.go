package repository

import (
	"context"

	"oneshot-backend/internal/domains/profile/model"
)

// Repository is the profile store. The generation pipeline only needs a
// resolved AthleteProfile and never depends on a concrete backend.
type Repository interface {
	// Create assigns ID and timestamps. Returns a conflict error when the slug is taken.
	Create(ctx context.Context, p *model.AthleteProfile) error

	// GetByID returns a not-found error for unknown ids
	GetByID(ctx context.Context, id string) (*model.AthleteProfile, error)

	GetBySlug(ctx context.Context, slug string) (*model.AthleteProfile, error)

	// List returns public profiles matching filter, oldest first
	List(ctx context.Context, filter model.ListFilter) ([]*model.AthleteProfile, error)

	// UpdateMedia sets photo/transcript paths of the profile with slug
	UpdateMedia(ctx context.Context, slug string, media model.MediaUpdate) error
}
