package repository

import (
	"context"
	"sync"
	"time"

	"oneshot-backend/internal/domains/user/model"
)

type memoryRepository struct {
	mu      sync.RWMutex
	byID    map[string]*model.User
	byEmail map[string]string
	now     func() time.Time
}

func NewMemoryRepository() Repository {
	return &memoryRepository{
		byID:    make(map[string]*model.User),
		byEmail: make(map[string]string),
		now:     time.Now,
	}
}

func (r *memoryRepository) Create(ctx context.Context, u *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.byEmail[u.Email]; taken {
		return model.ErrEmailTaken
	}
	if u.ID == "" {
		u.ID = model.NewID()
	}
	now := r.now().UTC()
	u.CreatedAt, u.UpdatedAt = now, now

	stored := *u
	r.byID[u.ID] = &stored
	r.byEmail[u.Email] = u.ID
	return nil
}

func (r *memoryRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	found := *u
	return &found, nil
}

func (r *memoryRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	r.mu.RLock()
	id, ok := r.byEmail[email]
	r.mu.RUnlock()
	if !ok {
		return nil, model.ErrUserNotFound
	}
	return r.FindByID(ctx, id)
}

func (r *memoryRepository) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return model.ErrUserNotFound
	}
	at = at.UTC()
	u.LastLoginAt = &at
	u.UpdatedAt = at
	return nil
}
