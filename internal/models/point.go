package models

import "time"

// PointCheck is one persisted outcome of evaluating a point.
// Records are immutable; OwnerID always comes from the authenticated caller.
type PointCheck struct {
	CheckedAt time.Time `json:"checked_at"`
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	X         float64   `json:"x"`
	Y         float64   `json:"y"`
	R         float64   `json:"r"`
	Hit       bool      `json:"hit"`
}
