// Package points evaluates submitted points against the region and keeps the
// per-owner history of outcomes.
package points

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/iudanet/areacheck/internal/area"
	"github.com/iudanet/areacheck/internal/clock"
	"github.com/iudanet/areacheck/internal/models"
	"github.com/iudanet/areacheck/internal/server/storage"
)

// Service validates, evaluates and records point checks.
type Service struct {
	points storage.PointStorage
	clock  clock.Clock
}

// NewService creates a point service. A nil clock uses the real one.
func NewService(points storage.PointStorage, clk clock.Clock) *Service {
	if clk == nil {
		clk = clock.New()
	}
	return &Service{
		points: points,
		clock:  clk,
	}
}

// Check validates (x, y, r), evaluates membership and records the outcome for
// owner. Out of range or missing inputs return area.ErrOutOfDomain and nothing
// is recorded.
func (s *Service) Check(ctx context.Context, owner *models.User, x, y, r *float64) (*models.PointCheck, error) {
	hit, err := area.Evaluate(x, y, r)
	if err != nil {
		return nil, err
	}

	point := &models.PointCheck{
		ID:        uuid.New().String(),
		OwnerID:   owner.ID,
		X:         *x,
		Y:         *y,
		R:         *r,
		Hit:       hit,
		CheckedAt: s.clock.Now().UTC(),
	}

	if err := s.Record(ctx, point); err != nil {
		return nil, err
	}

	return point, nil
}

// Record persists an already evaluated point check.
func (s *Service) Record(ctx context.Context, point *models.PointCheck) error {
	if err := s.points.SavePoint(ctx, point); err != nil {
		return fmt.Errorf("failed to save point: %w", err)
	}
	return nil
}

// History returns the owner's checks, most recent first.
func (s *Service) History(ctx context.Context, owner *models.User) ([]*models.PointCheck, error) {
	points, err := s.points.GetUserPoints(ctx, owner.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get points: %w", err)
	}
	return points, nil
}

// Clear removes every check of owner and returns how many were removed.
func (s *Service) Clear(ctx context.Context, owner *models.User) (int, error) {
	deleted, err := s.points.DeleteUserPoints(ctx, owner.ID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete points: %w", err)
	}
	return deleted, nil
}
