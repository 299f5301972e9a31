package repository

import (
	"context"
	"strings"
	"sync"
	"time"

	"oneshot-backend/internal/domains/profile/model"
)

type memoryRepository struct {
	mu       sync.RWMutex
	profiles []*model.AthleteProfile
	now      func() time.Time
}

// NewMemoryRepository keeps profiles in process memory, pre-filled with seed.
func NewMemoryRepository(seed ...*model.AthleteProfile) Repository {
	r := &memoryRepository{now: time.Now}
	for _, p := range seed {
		r.profiles = append(r.profiles, clone(p))
	}
	return r
}

func (r *memoryRepository) Create(ctx context.Context, p *model.AthleteProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.profiles {
		if existing.Slug == p.Slug {
			return model.NewSlugTaken(p.Slug)
		}
	}

	if p.ID == "" {
		p.ID = model.NewID()
	}
	now := r.now().UTC()
	p.CreatedAt, p.UpdatedAt = now, now

	r.profiles = append(r.profiles, clone(p))
	return nil
}

func (r *memoryRepository) GetByID(ctx context.Context, id string) (*model.AthleteProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.profiles {
		if p.ID == id {
			return clone(p), nil
		}
	}
	return nil, model.NewProfileNotFound(id)
}

func (r *memoryRepository) GetBySlug(ctx context.Context, slug string) (*model.AthleteProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.profiles {
		if p.Slug == slug {
			return clone(p), nil
		}
	}
	return nil, model.NewProfileSlugNotFound(slug)
}

func (r *memoryRepository) List(ctx context.Context, filter model.ListFilter) ([]*model.AthleteProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	position := strings.ToLower(filter.Position)
	school := strings.ToLower(filter.School)

	result := make([]*model.AthleteProfile, 0, len(r.profiles))
	for _, p := range r.profiles {
		if !p.Public {
			continue
		}
		if position != "" && !strings.Contains(strings.ToLower(p.PrimaryPosition), position) {
			continue
		}
		if school != "" && !strings.Contains(strings.ToLower(p.HighSchoolName), school) {
			continue
		}
		if filter.Year != 0 && p.GraduationYear != filter.Year {
			continue
		}
		result = append(result, clone(p))
	}
	return result, nil
}

func (r *memoryRepository) UpdateMedia(ctx context.Context, slug string, media model.MediaUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.profiles {
		if p.Slug != slug {
			continue
		}
		if media.Photo != "" {
			p.Photo = media.Photo
		}
		if media.Transcript != "" {
			p.Transcript = media.Transcript
		}
		p.UpdatedAt = r.now().UTC()
		return nil
	}
	return model.NewProfileSlugNotFound(slug)
}

// clone keeps callers from mutating stored records
func clone(p *model.AthleteProfile) *model.AthleteProfile {
	c := *p
	if p.Achievements != nil {
		c.Achievements = append([]string(nil), p.Achievements...)
	}
	return &c
}
