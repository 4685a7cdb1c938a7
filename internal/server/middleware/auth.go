package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/iudanet/areacheck/internal/server/handlers"
)

const bearerPrefix = "Bearer "

// TokenValidator проверяет токен и возвращает username владельца
type TokenValidator interface {
	Validate(token string) (string, error)
}

// AuthMiddleware создает middleware, устанавливающий личность вызывающего.
// Пути из publicPaths пропускаются без токена. Для остальных требуется
// заголовок "Authorization: Bearer <token>"; username из токена кладется в
// контекст и в заголовок X-Username. Присланный клиентом X-Username всегда
// удаляется.
func AuthMiddleware(logger *slog.Logger, tokens TokenValidator, publicPaths ...string) func(http.Handler) http.Handler {
	public := make(map[string]bool, len(publicPaths))
	for _, path := range publicPaths {
		public[path] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			// Клиент не может сам назначить себе личность
			r.Header.Del(handlers.UsernameHeader)

			if public[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			// Извлекаем токен из заголовка Authorization
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logger.WarnContext(ctx, "missing Authorization header", slog.String("path", r.URL.Path))
				handlers.SendError(logger, w, "missing token", http.StatusUnauthorized)
				return
			}

			// Ожидаем формат: "Bearer <token>"
			tokenString, ok := strings.CutPrefix(authHeader, bearerPrefix)
			if !ok || tokenString == "" || strings.ContainsAny(tokenString, " \t") {
				logger.WarnContext(ctx, "invalid Authorization header format", slog.String("path", r.URL.Path))
				handlers.SendError(logger, w, "invalid token format", http.StatusUnauthorized)
				return
			}

			// Валидируем токен; просроченный и поддельный неразличимы для клиента
			username, err := tokens.Validate(tokenString)
			if err != nil {
				logger.WarnContext(ctx, "invalid access token", slog.Any("error", err))
				handlers.SendError(logger, w, "invalid or expired token", http.StatusUnauthorized)
				return
			}

			r.Header.Set(handlers.UsernameHeader, username)
			ctx = handlers.WithUsername(ctx, username)

			logger.DebugContext(ctx, "user authenticated", slog.String("username", username))

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
