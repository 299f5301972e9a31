package repository

import (
	"context"
	"time"

	"oneshot-backend/internal/domains/user/model"
)

// Repository is the account store. E-mail addresses are stored lowercased.
type Repository interface {
	// Create assigns ID and timestamps. Returns a conflict error when the e-mail is taken.
	Create(ctx context.Context, u *model.User) error

	FindByID(ctx context.Context, id string) (*model.User, error)

	FindByEmail(ctx context.Context, email string) (*model.User, error)

	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
}
