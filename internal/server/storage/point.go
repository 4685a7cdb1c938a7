package storage

import (
	"context"

	"github.com/iudanet/areacheck/internal/models"
)

// PointStorage defines interface for point check history persistence.
// Every method is scoped to a single owner.
type PointStorage interface {
	// SavePoint inserts an immutable point check.
	// Returns ErrUserNotFound if the owner no longer exists
	SavePoint(ctx context.Context, point *models.PointCheck) error

	// GetUserPoints retrieves all point checks of the owner, most recent first
	// Returns empty slice if no points found
	GetUserPoints(ctx context.Context, ownerID string) ([]*models.PointCheck, error)

	// DeleteUserPoints deletes all point checks of the owner
	// Returns number of deleted points; zero is not an error
	DeleteUserPoints(ctx context.Context, ownerID string) (int, error)
}
