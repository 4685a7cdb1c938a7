package api

// Пути HTTP API
const (
	PathRegister = "/api/v1/auth/register"
	PathLogin    = "/api/v1/auth/login"
	PathCheck    = "/api/v1/points/check"
	PathHistory  = "/api/v1/points/history"
	PathClear    = "/api/v1/points/clear"
	PathHealth   = "/api/v1/health"
)
