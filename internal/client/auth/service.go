package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/iudanet/areacheck/internal/client/storage"
	"github.com/iudanet/areacheck/internal/clock"
	"github.com/iudanet/areacheck/internal/crypto"
	"github.com/iudanet/areacheck/internal/validation"
	"github.com/iudanet/areacheck/pkg/api"
)

var (
	// ErrNotAuthenticated возвращается, если локальной сессии нет
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrSessionExpired возвращается, если срок токена истек
	ErrSessionExpired = errors.New("session expired")
)

// AuthAPI описывает вызовы сервера, нужные для авторизации
type AuthAPI interface {
	Register(ctx context.Context, req api.RegisterRequest) (*api.AuthResponse, error)
	Login(ctx context.Context, req api.LoginRequest) (*api.AuthResponse, error)
}

// Status описывает состояние локальной сессии
type Status struct {
	ExpiresAt     time.Time     `json:"expires_at,omitzero"`
	Username      string        `json:"username,omitempty"`
	ServerURL     string        `json:"server_url,omitempty"`
	Remaining     time.Duration `json:"remaining_ns,omitempty"`
	Authenticated bool          `json:"authenticated"`
	Expired       bool          `json:"expired"`
}

// Service связывает API сервера и локальное хранилище сессии
type Service struct {
	api       AuthAPI
	storage   storage.AuthStorage
	clock     clock.Clock
	serverURL string
}

// NewService создает новый сервис авторизации
func NewService(apiClient AuthAPI, authStorage storage.AuthStorage, clk clock.Clock, serverURL string) *Service {
	if clk == nil {
		clk = clock.New()
	}
	return &Service{
		api:       apiClient,
		storage:   authStorage,
		clock:     clk,
		serverURL: serverURL,
	}
}

// Register регистрирует пользователя и сохраняет полученный токен
func (s *Service) Register(ctx context.Context, username, password string) (*storage.AuthData, error) {
	credential, err := prepareCredentials(username, password)
	if err != nil {
		return nil, err
	}

	resp, err := s.api.Register(ctx, api.RegisterRequest{Username: username, Password: credential})
	if err != nil {
		return nil, fmt.Errorf("registration failed: %w", err)
	}

	return s.saveSession(ctx, resp)
}

// Login выполняет вход и сохраняет полученный токен
func (s *Service) Login(ctx context.Context, username, password string) (*storage.AuthData, error) {
	credential, err := prepareCredentials(username, password)
	if err != nil {
		return nil, err
	}

	resp, err := s.api.Login(ctx, api.LoginRequest{Username: username, Password: credential})
	if err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}

	return s.saveSession(ctx, resp)
}

// Logout удаляет локальную сессию. Сервер не уведомляется: отзыва токенов нет
func (s *Service) Logout(ctx context.Context) error {
	if err := s.storage.DeleteAuth(ctx); err != nil {
		if errors.Is(err, storage.ErrAuthNotFound) {
			return ErrNotAuthenticated
		}
		return fmt.Errorf("failed to delete auth data: %w", err)
	}
	return nil
}

// Status возвращает состояние локальной сессии
func (s *Service) Status(ctx context.Context) (*Status, error) {
	auth, err := s.storage.GetAuth(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrAuthNotFound) {
			return &Status{}, nil
		}
		return nil, fmt.Errorf("failed to get auth data: %w", err)
	}

	now := s.clock.Now()
	status := &Status{
		Authenticated: true,
		Username:      auth.Username,
		ServerURL:     auth.ServerURL,
		ExpiresAt:     auth.ExpiresAt,
		Expired:       auth.Expired(now),
	}
	if !status.Expired {
		status.Remaining = auth.ExpiresAt.Sub(now)
	}

	return status, nil
}

// Token возвращает действующий токен для защищенных запросов
func (s *Service) Token(ctx context.Context) (string, error) {
	auth, err := s.storage.GetAuth(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrAuthNotFound) {
			return "", ErrNotAuthenticated
		}
		return "", fmt.Errorf("failed to get auth data: %w", err)
	}

	if auth.Expired(s.clock.Now()) {
		return "", ErrSessionExpired
	}

	return auth.Token, nil
}

func (s *Service) saveSession(ctx context.Context, resp *api.AuthResponse) (*storage.AuthData, error) {
	auth := &storage.AuthData{
		Username:  resp.User.Username,
		Token:     resp.Token,
		ServerURL: s.serverURL,
		ExpiresAt: s.clock.Now().Add(time.Duration(resp.ExpiresIn) * time.Second),
	}

	if err := s.storage.SaveAuth(ctx, auth); err != nil {
		return nil, fmt.Errorf("failed to save auth data: %w", err)
	}

	return auth, nil
}

// prepareCredentials проверяет ввод и хеширует пароль перед отправкой
func prepareCredentials(username, password string) (string, error) {
	if err := validation.ValidateUsername(username); err != nil {
		return "", fmt.Errorf("invalid username: %w", err)
	}
	if err := validation.ValidateCredential(password); err != nil {
		return "", fmt.Errorf("invalid password: %w", err)
	}

	credential, err := crypto.HashPassword(password)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	return credential, nil
}
