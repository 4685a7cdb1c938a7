// Package credentials implements the credential store: registration with an
// atomically unique username, credential verification and identity lookup.
package credentials

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/iudanet/areacheck/internal/clock"
	"github.com/iudanet/areacheck/internal/crypto"
	"github.com/iudanet/areacheck/internal/models"
	"github.com/iudanet/areacheck/internal/server/storage"
)

var (
	// ErrAlreadyExists возвращается при регистрации занятого username
	ErrAlreadyExists = storage.ErrUserAlreadyExists
	// ErrInvalidCredentials единая ошибка для несуществующего пользователя и неверного пароля
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrNotFound возвращается FindByUsername при отсутствии пользователя
	ErrNotFound = errors.New("identity not found")
)

// Service is the credential store backed by a UserStorage.
type Service struct {
	users  storage.UserStorage
	sealer crypto.CredentialSealer
	clock  clock.Clock
}

// NewService creates a credential store. A nil sealer keeps credentials as
// supplied and compares them exactly; a nil clock uses the real one.
func NewService(users storage.UserStorage, sealer crypto.CredentialSealer, clk clock.Clock) *Service {
	if sealer == nil {
		sealer = crypto.PlainSealer{}
	}
	if clk == nil {
		clk = clock.New()
	}
	return &Service{
		users:  users,
		sealer: sealer,
		clock:  clk,
	}
}

// Register creates a new identity. Uniqueness is enforced by the storage
// insert itself, so concurrent registrations of one username yield exactly one
// success and ErrAlreadyExists for the rest.
func (s *Service) Register(ctx context.Context, username, credential string) (*models.User, error) {
	sealed, err := s.sealer.Seal(credential)
	if err != nil {
		return nil, fmt.Errorf("failed to seal credential: %w", err)
	}

	user := &models.User{
		ID:         uuid.New().String(),
		Username:   username,
		Credential: sealed,
		CreatedAt:  s.clock.Now(),
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrUserAlreadyExists) {
			return nil, ErrAlreadyExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Verify returns the identity when the username exists and the credential
// matches. Both failure causes yield ErrInvalidCredentials.
func (s *Service) Verify(ctx context.Context, username, credential string) (*models.User, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !s.sealer.Match(user.Credential, credential) {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// FindByUsername resolves an identity from an already trusted username.
func (s *Service) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}
