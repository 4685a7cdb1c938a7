package points

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/areacheck/internal/area"
	"github.com/iudanet/areacheck/internal/clock"
	"github.com/iudanet/areacheck/internal/models"
	"github.com/iudanet/areacheck/internal/server/storage"
	"github.com/iudanet/areacheck/internal/server/storage/sqlite"
)

func ptr(v float64) *float64 {
	return &v
}

func setupService(t *testing.T, clk clock.Clock) (*Service, *sqlite.Storage) {
	t.Helper()

	store, err := sqlite.New(context.Background(), ":memory:", nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = store.Close()
	})

	return NewService(store, clk), store
}

func createOwner(t *testing.T, store *sqlite.Storage, username string) *models.User {
	t.Helper()

	user := &models.User{
		ID:         uuid.New().String(),
		Username:   username,
		Credential: "secret",
		CreatedAt:  time.Now(),
	}
	require.NoError(t, store.CreateUser(context.Background(), user))
	return user
}

func TestService_Check(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	svc, store := setupService(t, clock.NewMockClock(now))
	owner := createOwner(t, store, "alice")

	tests := []struct {
		x, y, r *float64
		name    string
		wantHit bool
	}{
		{name: "rectangle", x: ptr(1), y: ptr(1), r: ptr(3), wantHit: true},
		{name: "fourth quadrant", x: ptr(1), y: ptr(-1), r: ptr(3), wantHit: false},
		{name: "reflected rectangle", x: ptr(-1), y: ptr(-1), r: ptr(-3), wantHit: true},
		{name: "zero radius", x: ptr(0), y: ptr(0), r: ptr(0), wantHit: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			point, err := svc.Check(context.Background(), owner, tt.x, tt.y, tt.r)
			require.NoError(t, err)
			assert.Equal(t, tt.wantHit, point.Hit)
			assert.Equal(t, *tt.x, point.X)
			assert.Equal(t, *tt.y, point.Y)
			assert.Equal(t, *tt.r, point.R)
			assert.Equal(t, owner.ID, point.OwnerID)
			assert.Equal(t, now, point.CheckedAt)
			assert.NotEmpty(t, point.ID)
		})
	}

	history, err := svc.History(context.Background(), owner)
	require.NoError(t, err)
	assert.Len(t, history, len(tests))
}

func TestService_Check_OutOfDomain(t *testing.T) {
	svc, store := setupService(t, nil)
	owner := createOwner(t, store, "alice")

	tests := []struct {
		x, y, r *float64
		name    string
	}{
		{name: "x too large", x: ptr(3.1), y: ptr(0), r: ptr(1)},
		{name: "y too small", x: ptr(0), y: ptr(-5.1), r: ptr(1)},
		{name: "r too large", x: ptr(0), y: ptr(0), r: ptr(4)},
		{name: "missing x", y: ptr(0), r: ptr(1)},
		{name: "missing r", x: ptr(0), y: ptr(0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			point, err := svc.Check(context.Background(), owner, tt.x, tt.y, tt.r)
			assert.ErrorIs(t, err, area.ErrOutOfDomain)
			assert.Nil(t, point)
		})
	}

	history, err := svc.History(context.Background(), owner)
	require.NoError(t, err)
	assert.Empty(t, history, "rejected input must not be recorded")
}

func TestService_History_MostRecentFirst(t *testing.T) {
	clk := clock.NewMockClock(time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC))
	svc, store := setupService(t, clk)
	owner := createOwner(t, store, "alice")
	ctx := context.Background()

	var ids []string
	for i := range 3 {
		point, err := svc.Check(ctx, owner, ptr(float64(i)), ptr(0), ptr(2))
		require.NoError(t, err)
		ids = append(ids, point.ID)
		clk.Advance(time.Second)
	}

	history, err := svc.History(ctx, owner)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, ids[2], history[0].ID)
	assert.Equal(t, ids[1], history[1].ID)
	assert.Equal(t, ids[0], history[2].ID)
}

func TestService_OwnerScope(t *testing.T) {
	svc, store := setupService(t, nil)
	alice := createOwner(t, store, "alice")
	bob := createOwner(t, store, "bob")
	ctx := context.Background()

	_, err := svc.Check(ctx, alice, ptr(1), ptr(1), ptr(3))
	require.NoError(t, err)
	_, err = svc.Check(ctx, bob, ptr(-1), ptr(1), ptr(3))
	require.NoError(t, err)

	history, err := svc.History(ctx, alice)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, alice.ID, history[0].OwnerID)

	deleted, err := svc.Clear(ctx, bob)
	require.NoError(t, err)
	assert.Equal(t, 1, deleted)

	history, err = svc.History(ctx, alice)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestService_Clear_Empty(t *testing.T) {
	svc, store := setupService(t, nil)
	owner := createOwner(t, store, "alice")
	ctx := context.Background()

	deleted, err := svc.Clear(ctx, owner)
	require.NoError(t, err)
	assert.Zero(t, deleted)

	history, err := svc.History(ctx, owner)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestService_Check_UnknownOwner(t *testing.T) {
	svc, _ := setupService(t, nil)
	ghost := &models.User{ID: uuid.New().String(), Username: "ghost"}

	_, err := svc.Check(context.Background(), ghost, ptr(1), ptr(1), ptr(3))
	assert.ErrorIs(t, err, storage.ErrUserNotFound)
}

// failingPointStorage returns the configured error from every call
type failingPointStorage struct {
	err error
}

func (f *failingPointStorage) SavePoint(ctx context.Context, point *models.PointCheck) error {
	return f.err
}

func (f *failingPointStorage) GetUserPoints(ctx context.Context, ownerID string) ([]*models.PointCheck, error) {
	return nil, f.err
}

func (f *failingPointStorage) DeleteUserPoints(ctx context.Context, ownerID string) (int, error) {
	return 0, f.err
}

func TestService_StorageErrors(t *testing.T) {
	storageErr := errors.New("database is locked")
	svc := NewService(&failingPointStorage{err: storageErr}, nil)
	owner := &models.User{ID: "owner"}
	ctx := context.Background()

	_, err := svc.Check(ctx, owner, ptr(0), ptr(0), ptr(1))
	assert.ErrorIs(t, err, storageErr)

	_, err = svc.History(ctx, owner)
	assert.ErrorIs(t, err, storageErr)

	_, err = svc.Clear(ctx, owner)
	assert.ErrorIs(t, err, storageErr)
}
