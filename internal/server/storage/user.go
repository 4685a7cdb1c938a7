package storage

import (
	"context"

	"github.com/iudanet/areacheck/internal/models"
)

// UserStorage defines interface for user data persistence
type UserStorage interface {
	// CreateUser inserts a new user in a single statement.
	// Username uniqueness is enforced by the storage itself:
	// returns ErrUserAlreadyExists if username is taken
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByUsername retrieves user by username
	// Returns ErrUserNotFound if user doesn't exist
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}
