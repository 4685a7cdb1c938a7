package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/areacheck/internal/models"
)

func setupTestStorage(t *testing.T) (*Storage, func()) {
	ctx := context.Background()

	// Используем in-memory database для тестов
	storage, err := New(ctx, ":memory:", nil)
	require.NoError(t, err)

	cleanup := func() {
		_ = storage.Close()
	}

	return storage, cleanup
}

func createTestUser(t *testing.T, ctx context.Context, s *Storage, username string) *models.User {
	user := &models.User{
		ID:         uuid.New().String(),
		Username:   username,
		Credential: "hash",
		CreatedAt:  time.Now(),
	}

	err := s.CreateUser(ctx, user)
	require.NoError(t, err)

	return user
}

func TestNew_FileDatabase(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "areacheck.db")

	s, err := New(ctx, dbPath, nil)
	require.NoError(t, err)
	user := createTestUser(t, ctx, s, "persisted")
	require.NoError(t, s.Close())

	// Повторное открытие: миграции не должны падать, данные на месте
	s, err = New(ctx, dbPath, nil)
	require.NoError(t, err)
	defer func() {
		_ = s.Close()
	}()

	got, err := s.GetUserByUsername(ctx, "persisted")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
}

func TestStorage_Ping(t *testing.T) {
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	require.NoError(t, s.Ping(context.Background()))
}

func TestStorage_ForeignKeysEnabled(t *testing.T) {
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	var enabled int
	err := s.DB().QueryRow("PRAGMA foreign_keys").Scan(&enabled)
	require.NoError(t, err)
	assert.Equal(t, 1, enabled)
}
