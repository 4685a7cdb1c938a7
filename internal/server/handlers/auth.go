package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/iudanet/areacheck/internal/models"
	"github.com/iudanet/areacheck/internal/server/credentials"
	"github.com/iudanet/areacheck/internal/server/jwt"
	"github.com/iudanet/areacheck/internal/validation"
	"github.com/iudanet/areacheck/pkg/api"
)

// CredentialStore регистрирует и проверяет пользователей
type CredentialStore interface {
	Register(ctx context.Context, username, credential string) (*models.User, error)
	Verify(ctx context.Context, username, credential string) (*models.User, error)
}

// TokenIssuer выпускает токены доступа
type TokenIssuer interface {
	Issue(username string) (*jwt.Token, error)
}

// AuthHandler обрабатывает запросы авторизации
type AuthHandler struct {
	responder
	credentials CredentialStore
	tokens      TokenIssuer
}

// NewAuthHandler создает новый handler для авторизации
func NewAuthHandler(logger *slog.Logger, credentials CredentialStore, tokens TokenIssuer) *AuthHandler {
	return &AuthHandler{
		responder:   responder{logger: logger},
		credentials: credentials,
		tokens:      tokens,
	}
}

// Register обрабатывает POST /api/v1/auth/register
// Регистрация нового пользователя и выдача токена
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// Парсим request body
	var req api.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode register request", slog.Any("error", err))
		h.sendError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	// Проверка обязательных полей
	if req.Username == "" {
		h.sendError(w, "username is required", http.StatusBadRequest)
		return
	}
	if err := validation.ValidateCredential(req.Password); err != nil {
		h.sendError(w, "password is required", http.StatusBadRequest)
		return
	}

	// Валидация username
	if err := validation.ValidateUsername(req.Username); err != nil {
		h.logger.WarnContext(ctx, "invalid username", slog.String("username", req.Username), slog.Any("error", err))
		h.sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	user, err := h.credentials.Register(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, credentials.ErrAlreadyExists) {
			h.logger.WarnContext(ctx, "user already exists", slog.String("username", req.Username))
			h.sendError(w, "username already taken", http.StatusConflict)
			return
		}
		h.logger.ErrorContext(ctx, "failed to register user", slog.Any("error", err))
		h.sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "user registered successfully",
		slog.String("username", user.Username),
		slog.String("user_id", user.ID))

	h.respondWithToken(ctx, w, user)
}

// Login обрабатывает POST /api/v1/auth/login
// Аутентификация пользователя. Неизвестный пользователь и неверный пароль
// неразличимы для клиента.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// Парсим request body
	var req api.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode login request", slog.Any("error", err))
		h.sendError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if req.Username == "" || req.Password == "" {
		h.logger.WarnContext(ctx, "login failed: missing fields")
		h.sendError(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	user, err := h.credentials.Verify(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, credentials.ErrInvalidCredentials) {
			h.logger.WarnContext(ctx, "login failed: invalid credentials", slog.String("username", req.Username))
			h.sendError(w, "invalid credentials", http.StatusUnauthorized)
			return
		}
		h.logger.ErrorContext(ctx, "failed to verify credentials", slog.Any("error", err))
		h.sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "user logged in successfully",
		slog.String("username", user.Username),
		slog.String("user_id", user.ID))

	h.respondWithToken(ctx, w, user)
}

// respondWithToken выпускает токен и отправляет api.AuthResponse
func (h *AuthHandler) respondWithToken(ctx context.Context, w http.ResponseWriter, user *models.User) {
	token, err := h.tokens.Issue(user.Username)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to issue token", slog.Any("error", err))
		h.sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	resp := api.AuthResponse{
		Success:   true,
		Token:     token.Value,
		ExpiresIn: int64(token.ExpiresAt.Sub(token.IssuedAt).Seconds()),
		User:      api.UserInfo{Username: user.Username},
	}

	h.sendJSON(w, resp, http.StatusOK)
}
