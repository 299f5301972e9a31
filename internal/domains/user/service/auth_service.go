package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"oneshot-backend/internal/domains/user/model"
	"oneshot-backend/internal/domains/user/repository"
	"oneshot-backend/internal/shared/apperror"
	"oneshot-backend/pkg/jwt"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost matches the cost existing hashes were created with.
const DefaultBcryptCost = 10

type ServiceInterface interface {
	Register(ctx context.Context, req model.RegisterRequest) (*model.UserDTO, error)
	Login(ctx context.Context, req model.LoginRequest) (*model.LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*model.LoginResponse, error)
	Me(ctx context.Context, userID string) (*model.UserDTO, error)
}

type AuthService struct {
	repo       repository.Repository
	tokens     *jwt.Manager
	bcryptCost int
	now        func() time.Time
}

func NewAuthService(repo repository.Repository, tokens *jwt.Manager, bcryptCost int) ServiceInterface {
	if bcryptCost < bcrypt.MinCost {
		bcryptCost = DefaultBcryptCost
	}
	return &AuthService{repo: repo, tokens: tokens, bcryptCost: bcryptCost, now: time.Now}
}

func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (*model.UserDTO, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, apperror.Internal("PASSWORD_HASH_FAILED", "Failed to secure password", err)
	}

	u := &model.User{
		Email:        req.Email,
		PasswordHash: string(hash),
		FullName:     req.FullName,
		Role:         model.RoleUser,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}

	log.Info().Str("user_id", u.ID).Msg("User registered")

	dto := u.ToDTO()
	return &dto, nil
}

func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (*model.LoginResponse, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	u, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		if apperror.IsKind(err, apperror.KindNotFound) {
			return nil, model.ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		if !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			log.Warn().Err(err).Str("user_id", u.ID).Msg("Stored password hash is unusable")
		}
		return nil, model.ErrInvalidCredentials
	}

	now := s.now().UTC()
	if err := s.repo.UpdateLastLogin(ctx, u.ID, now); err != nil {
		log.Warn().Err(err).Str("user_id", u.ID).Msg("Failed to record last login")
	} else {
		u.LastLoginAt = &now
	}

	return s.issueTokens(u)
}

func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*model.LoginResponse, error) {
	claims, err := s.tokens.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, model.NewInvalidToken(err)
	}

	u, err := s.repo.FindByID(ctx, claims.UserID)
	if err != nil {
		if apperror.IsKind(err, apperror.KindNotFound) {
			return nil, model.NewInvalidToken(err)
		}
		return nil, err
	}
	return s.issueTokens(u)
}

func (s *AuthService) Me(ctx context.Context, userID string) (*model.UserDTO, error) {
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	dto := u.ToDTO()
	return &dto, nil
}

func (s *AuthService) issueTokens(u *model.User) (*model.LoginResponse, error) {
	access, err := s.tokens.GenerateAccessToken(u.ID, u.Email, u.Role)
	if err != nil {
		return nil, apperror.Internal("TOKEN_SIGN_FAILED", "Failed to issue token", err)
	}
	refresh, err := s.tokens.GenerateRefreshToken(u.ID)
	if err != nil {
		return nil, apperror.Internal("TOKEN_SIGN_FAILED", "Failed to issue token", fmt.Errorf("refresh: %w", err))
	}

	return &model.LoginResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(s.tokens.AccessTTL() / time.Second),
		User:         u.ToDTO(),
	}, nil
}
