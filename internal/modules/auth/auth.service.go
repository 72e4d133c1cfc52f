package auth

import (
	"context"
	"database/sql"
	"time"

	"github.com/rhizano/era-beacon-api/internal/infrastructure/security"
	"github.com/rhizano/era-beacon-api/internal/shared/errors"
)

// Service handles account and token business logic
type Service struct {
	store           *Store
	jwtService      *security.JWTService
	passwordService *security.PasswordService
}

// NewService creates a new auth service
func NewService(store *Store, jwtService *security.JWTService, passwordService *security.PasswordService) *Service {
	return &Service{
		store:           store,
		jwtService:      jwtService,
		passwordService: passwordService,
	}
}

// Register creates a new account with a bcrypt-hashed password
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*UserResponse, error) {
	if err := s.passwordService.Validate(req.Password); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeValidation, "Password does not meet requirements")
	}

	passwordHash, err := s.passwordService.Hash(ctx, req.Password)
	if err != nil {
		return nil, WrapAuthError(err, "hash password")
	}

	id, err := s.store.Create(ctx, req.Username, passwordHash)
	if err != nil {
		return nil, err
	}

	return &UserResponse{
		ID:        id,
		Username:  req.Username,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// Login verifies credentials and grants a bearer token
func (s *Service) Login(ctx context.Context, req LoginRequest) (*TokenResponse, uint64, error) {
	user, err := s.store.GetByUsername(ctx, req.Username)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, 0, errors.ErrInvalidCredentials
		}
		return nil, 0, WrapAuthError(err, "find user")
	}

	if !user.IsActive {
		return nil, user.ID, ErrAccountInactive
	}

	if err := s.passwordService.Compare(ctx, user.PasswordHash, req.Password); err != nil {
		return nil, user.ID, errors.ErrInvalidCredentials
	}

	accessToken, err := s.jwtService.GenerateAccessToken(ctx, user.ID, user.Username)
	if err != nil {
		return nil, user.ID, WrapAuthError(err, "generate access token")
	}

	return &TokenResponse{
		AccessToken: accessToken,
		TokenType:   "bearer",
		ExpiresIn:   int(s.jwtService.GetAccessExpiry().Seconds()),
	}, user.ID, nil
}
