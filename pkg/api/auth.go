package api

// RegisterRequest представляет запрос на регистрацию нового пользователя
type RegisterRequest struct {
	Username string `json:"username"` // username пользователя
	Password string `json:"password"` // учетные данные (клиент передает SHA256 hex)
}

// LoginRequest представляет запрос на аутентификацию
type LoginRequest struct {
	Username string `json:"username"` // username пользователя
	Password string `json:"password"` // учетные данные (клиент передает SHA256 hex)
}

// UserInfo описывает аутентифицированного пользователя
type UserInfo struct {
	Username string `json:"username"`
}

// AuthResponse представляет ответ на успешную регистрацию или вход
type AuthResponse struct {
	User      UserInfo `json:"user"`
	Token     string   `json:"token"`      // JWT access token
	ExpiresIn int64    `json:"expires_in"` // время жизни токена в секундах
	Success   bool     `json:"success"`
}

// ErrorResponse представляет ответ с ошибкой
type ErrorResponse struct {
	Error   string `json:"error"`             // описание ошибки
	Message string `json:"message,omitempty"` // дополнительное сообщение
}
