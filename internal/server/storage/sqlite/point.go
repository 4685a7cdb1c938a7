package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/iudanet/areacheck/internal/models"
	"github.com/iudanet/areacheck/internal/server/storage"
)

// SavePoint inserts an immutable point check.
// Владелец проверяется внешним ключом в том же INSERT, висячих записей не бывает.
func (s *Storage) SavePoint(ctx context.Context, point *models.PointCheck) error {
	query := `
		INSERT INTO points (id, owner_id, x, y, r, hit, checked_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		point.ID,
		point.OwnerID,
		point.X,
		point.Y,
		point.R,
		boolToInt(point.Hit),
		point.CheckedAt.UnixNano(),
	)

	if err != nil {
		if isForeignKeyViolation(err) {
			return storage.ErrUserNotFound
		}
		return fmt.Errorf("failed to insert point: %w", err)
	}

	return nil
}

// GetUserPoints retrieves all point checks of the owner, most recent first.
// Records with equal timestamps are returned in reverse insertion order.
func (s *Storage) GetUserPoints(ctx context.Context, ownerID string) ([]*models.PointCheck, error) {
	query := `
		SELECT id, owner_id, x, y, r, hit, checked_at
		FROM points
		WHERE owner_id = ?
		ORDER BY checked_at DESC, rowid DESC
	`

	rows, err := s.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query points: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	return s.scanPoints(rows)
}

// DeleteUserPoints deletes all point checks of the owner in one statement
func (s *Storage) DeleteUserPoints(ctx context.Context, ownerID string) (int, error) {
	query := `DELETE FROM points WHERE owner_id = ?`

	result, err := s.db.ExecContext(ctx, query, ownerID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete points: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return int(rows), nil
}

// scanPoints is a helper function to scan multiple points from rows
func (s *Storage) scanPoints(rows *sql.Rows) ([]*models.PointCheck, error) {
	points := make([]*models.PointCheck, 0)

	for rows.Next() {
		point := &models.PointCheck{}
		var hit int
		var checkedAt int64

		err := rows.Scan(
			&point.ID,
			&point.OwnerID,
			&point.X,
			&point.Y,
			&point.R,
			&hit,
			&checkedAt,
		)

		if err != nil {
			return nil, fmt.Errorf("failed to scan point: %w", err)
		}

		point.Hit = intToBool(hit)
		point.CheckedAt = unixNanoToTime(checkedAt)

		points = append(points, point)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return points, nil
}

// Helper functions for bool/int conversion
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func intToBool(i int) bool {
	return i != 0
}

func unixNanoToTime(timestamp int64) time.Time {
	return time.Unix(0, timestamp).UTC()
}
