package repository

import (
	"context"
	"testing"
	"time"

	"oneshot-backend/internal/domains/user/model"
	"oneshot-backend/internal/shared/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepository_CreateAndFind(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	u := &model.User{Email: "a@b.co", PasswordHash: "hash", Role: model.RoleUser}
	require.NoError(t, repo.Create(ctx, u))
	assert.NotEmpty(t, u.ID)
	assert.False(t, u.CreatedAt.IsZero())

	byEmail, err := repo.FindByEmail(ctx, "a@b.co")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)

	err = repo.Create(ctx, &model.User{Email: "a@b.co"})
	assert.True(t, apperror.IsKind(err, apperror.KindConflict))

	_, err = repo.FindByID(ctx, "missing")
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}

func TestMemoryRepository_UpdateLastLogin(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	u := &model.User{Email: "a@b.co"}
	require.NoError(t, repo.Create(ctx, u))

	at := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	require.NoError(t, repo.UpdateLastLogin(ctx, u.ID, at))

	found, err := repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, found.LastLoginAt)
	assert.Equal(t, at, *found.LastLoginAt)

	assert.Error(t, repo.UpdateLastLogin(ctx, "missing", at))
}
