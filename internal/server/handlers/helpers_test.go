package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/iudanet/areacheck/internal/models"
	"github.com/iudanet/areacheck/internal/server/credentials"
	"github.com/iudanet/areacheck/internal/server/jwt"
	"github.com/iudanet/areacheck/internal/server/storage"
)

// setupTestLogger creates a logger for testing
func setupTestLogger() *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: slog.LevelError,
	}
	handler := slog.NewTextHandler(os.Stdout, opts)
	return slog.New(handler)
}

// mockUserStorage is a mock implementation of UserStorage for testing
type mockUserStorage struct {
	users        map[string]*models.User // username -> User
	createError  error
	getUserError error
	mu           sync.Mutex
}

func newMockUserStorage() *mockUserStorage {
	return &mockUserStorage{users: make(map[string]*models.User)}
}

func (m *mockUserStorage) CreateUser(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createError != nil {
		return m.createError
	}
	if _, exists := m.users[user.Username]; exists {
		return storage.ErrUserAlreadyExists
	}
	m.users[user.Username] = user
	return nil
}

func (m *mockUserStorage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getUserError != nil {
		return nil, m.getUserError
	}
	user, ok := m.users[username]
	if !ok {
		return nil, storage.ErrUserNotFound
	}
	return user, nil
}

// mockPointStorage is an in-memory PointStorage for testing
type mockPointStorage struct {
	points    []*models.PointCheck
	saveError error
	getError  error
	delError  error
}

func (m *mockPointStorage) SavePoint(ctx context.Context, point *models.PointCheck) error {
	if m.saveError != nil {
		return m.saveError
	}
	m.points = append(m.points, point)
	return nil
}

func (m *mockPointStorage) GetUserPoints(ctx context.Context, ownerID string) ([]*models.PointCheck, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	result := []*models.PointCheck{}
	for i := len(m.points) - 1; i >= 0; i-- {
		if m.points[i].OwnerID == ownerID {
			result = append(result, m.points[i])
		}
	}
	return result, nil
}

func (m *mockPointStorage) DeleteUserPoints(ctx context.Context, ownerID string) (int, error) {
	if m.delError != nil {
		return 0, m.delError
	}
	kept := m.points[:0]
	deleted := 0
	for _, p := range m.points {
		if p.OwnerID == ownerID {
			deleted++
			continue
		}
		kept = append(kept, p)
	}
	m.points = kept
	return deleted, nil
}

func newTestTokenManager(t *testing.T) *jwt.Manager {
	t.Helper()

	manager, err := jwt.NewManager(jwt.Config{
		Secret: []byte("test-secret-key-0123456789"),
		TTL:    15 * time.Minute,
	}, nil)
	require.NoError(t, err)
	return manager
}

func newTestCredentials(users storage.UserStorage) *credentials.Service {
	return credentials.NewService(users, nil, nil)
}

func jsonRequest(t *testing.T, method, path string, body interface{}) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}
