package auth

import (
	"context"
	"time"

	"github.com/rhizano/era-beacon-api/internal/infrastructure/database"
	dberrors "github.com/rhizano/era-beacon-api/internal/infrastructure/database/errors"
)

// User is a persisted API account
type User struct {
	ID           uint64
	Username     string
	PasswordHash string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Store persists API accounts
type Store struct {
	db database.DBTX
}

// NewStore creates an account store
func NewStore(db database.DBTX) *Store {
	return &Store{db: db}
}

// GetByUsername fetches an account. Returns sql.ErrNoRows when absent so the
// service can decide between "invalid credentials" and "available".
func (s *Store) GetByUsername(ctx context.Context, username string) (*User, error) {
	var u User
	err := s.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, is_active, created_at, updated_at FROM users WHERE username = ?`,
		username).
		Scan(&u.ID, &u.Username, &u.PasswordHash, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts an account and returns its generated ID
func (s *Store) Create(ctx context.Context, username, passwordHash string) (uint64, error) {
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO users (username, password_hash, is_active) VALUES (?, ?, TRUE)`,
		username, passwordHash)
	if err != nil {
		if dberrors.ClassifyError(err) == dberrors.ErrorTypeDuplicateKey {
			return 0, ErrUsernameTaken
		}
		return 0, WrapAuthError(err, "create user")
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, WrapAuthError(err, "get user id")
	}
	return uint64(id), nil
}
