package api

import "time"

// CheckRequest представляет запрос на проверку точки.
// Указатели позволяют отличить отсутствующее поле от нуля.
type CheckRequest struct {
	X *float64 `json:"x"`
	Y *float64 `json:"y"`
	R *float64 `json:"r"`
}

// PointResponse представляет результат одной проверки
type PointResponse struct {
	CheckedAt time.Time `json:"checked_at"`
	X         float64   `json:"x"`
	Y         float64   `json:"y"`
	R         float64   `json:"r"`
	Hit       bool      `json:"hit"`
}

// ClearResponse представляет ответ на очистку истории
type ClearResponse struct {
	Deleted int `json:"deleted"` // количество удаленных записей
}

// HealthResponse представляет ответ health check
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

// Health statuses.
const (
	HealthStatusOK       = "ok"
	HealthStatusDegraded = "degraded"
)
