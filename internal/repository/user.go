package repository

import (
	"context"
	"errors"

	"asset-tracker/internal/domain"
)

var (
	// ErrNotFound is returned when no row matches the requested identity.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateEmail is returned when registering an email that is already taken.
	ErrDuplicateEmail = errors.New("email already in use")
)

// UserRepository defines persistence operations for User entities.
type UserRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, user *domain.User) (int64, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByAPIKey(ctx context.Context, apiKey string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	MarkVerified(ctx context.Context, email string) error
}
