package repository

import (
	"context"
	"errors"

	"github.com/galeria-app/users-api/internal/domain/entity"
)

// Sentinel errors shared by all store implementations. Handlers match on
// these with errors.Is instead of driver-specific error shapes.
var (
	ErrNotFound     = errors.New("not found")
	ErrDuplicateKey = errors.New("duplicate key")
	ErrTimeout      = errors.New("store timeout")
)

// UserRepository defines the interface for user-related database operations.
// All operations are single-document; uniqueness of username and email is
// enforced by the store's index layer.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	FindByID(ctx context.Context, id string) (*entity.User, error)
	FindByUsername(ctx context.Context, username string) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindByUsernameOrEmail(ctx context.Context, username, email string) (*entity.User, error)
	UpdateByEmail(ctx context.Context, email string, in entity.ProfileUpdate) (*entity.User, error)
	UpdatePassword(ctx context.Context, id string, hash string) error
	UpdateProfilePicture(ctx context.Context, id string, url string) error
	DeleteByUsername(ctx context.Context, username string) (*entity.User, error)
}
