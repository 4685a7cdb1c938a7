package handlers

import "context"

// contextKey тип для ключей контекста
type contextKey string

// UsernameKey ключ для хранения username, установленного AuthMiddleware
const UsernameKey contextKey = "username"

// UsernameHeader заголовок с доверенным username для downstream обработчиков.
// Значение от клиента всегда отбрасывается AuthMiddleware.
const UsernameHeader = "X-Username"

// WithUsername возвращает контекст с привязанным username
func WithUsername(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, UsernameKey, username)
}

// GetUsername извлекает username из контекста запроса
func GetUsername(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(UsernameKey).(string)
	if !ok || username == "" {
		return "", false
	}
	return username, true
}
