package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/iudanet/areacheck/internal/area"
	"github.com/iudanet/areacheck/internal/models"
	"github.com/iudanet/areacheck/internal/server/credentials"
	"github.com/iudanet/areacheck/pkg/api"
)

// IdentityResolver находит пользователя по доверенному username
type IdentityResolver interface {
	FindByUsername(ctx context.Context, username string) (*models.User, error)
}

// PointService проверяет точки и управляет историей
type PointService interface {
	Check(ctx context.Context, owner *models.User, x, y, r *float64) (*models.PointCheck, error)
	History(ctx context.Context, owner *models.User) ([]*models.PointCheck, error)
	Clear(ctx context.Context, owner *models.User) (int, error)
}

// PointsHandler обрабатывает проверку точек и историю
type PointsHandler struct {
	responder
	identities IdentityResolver
	points     PointService
}

// NewPointsHandler создает новый handler для точек
func NewPointsHandler(logger *slog.Logger, identities IdentityResolver, points PointService) *PointsHandler {
	return &PointsHandler{
		responder:  responder{logger: logger},
		identities: identities,
		points:     points,
	}
}

// Check обрабатывает POST /api/v1/points/check
func (h *PointsHandler) Check(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	owner, ok := h.resolveOwner(w, r)
	if !ok {
		return
	}

	var req api.CheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode check request", slog.Any("error", err))
		h.sendError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	point, err := h.points.Check(ctx, owner, req.X, req.Y, req.R)
	if err != nil {
		if errors.Is(err, area.ErrOutOfDomain) {
			h.logger.WarnContext(ctx, "point out of domain",
				slog.String("username", owner.Username),
				slog.Any("error", err))
			h.sendError(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.logger.ErrorContext(ctx, "failed to check point", slog.Any("error", err))
		h.sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.DebugContext(ctx, "point checked",
		slog.String("username", owner.Username),
		slog.Bool("hit", point.Hit))

	h.sendJSON(w, toPointResponse(point), http.StatusOK)
}

// History обрабатывает GET /api/v1/points/history
// Возвращает проверки пользователя, начиная с последней
func (h *PointsHandler) History(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	owner, ok := h.resolveOwner(w, r)
	if !ok {
		return
	}

	points, err := h.points.History(ctx, owner)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to get history", slog.Any("error", err))
		h.sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	resp := make([]api.PointResponse, 0, len(points))
	for _, p := range points {
		resp = append(resp, toPointResponse(p))
	}

	h.sendJSON(w, resp, http.StatusOK)
}

// Clear обрабатывает DELETE /api/v1/points/clear
func (h *PointsHandler) Clear(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	owner, ok := h.resolveOwner(w, r)
	if !ok {
		return
	}

	deleted, err := h.points.Clear(ctx, owner)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to clear history", slog.Any("error", err))
		h.sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "history cleared",
		slog.String("username", owner.Username),
		slog.Int("deleted", deleted))

	h.sendJSON(w, api.ClearResponse{Deleted: deleted}, http.StatusOK)
}

// resolveOwner находит пользователя по username из контекста (установлен AuthMiddleware)
func (h *PointsHandler) resolveOwner(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	ctx := r.Context()

	username, ok := GetUsername(ctx)
	if !ok {
		h.logger.ErrorContext(ctx, "username not found in context")
		h.sendError(w, "unauthorized", http.StatusUnauthorized)
		return nil, false
	}

	owner, err := h.identities.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, credentials.ErrNotFound) {
			h.logger.WarnContext(ctx, "token subject has no identity", slog.String("username", username))
			h.sendError(w, "unauthorized", http.StatusUnauthorized)
			return nil, false
		}
		h.logger.ErrorContext(ctx, "failed to resolve identity", slog.Any("error", err))
		h.sendError(w, "internal server error", http.StatusInternalServerError)
		return nil, false
	}

	return owner, true
}

func toPointResponse(p *models.PointCheck) api.PointResponse {
	return api.PointResponse{
		X:         p.X,
		Y:         p.Y,
		R:         p.R,
		Hit:       p.Hit,
		CheckedAt: p.CheckedAt.UTC(),
	}
}
