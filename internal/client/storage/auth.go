package storage

import (
	"context"
	"time"
)

// AuthStorage defines interface for storing the client session.
// The server keeps no session state, so the locally stored token is the
// whole session: deleting it is the logout.
type AuthStorage interface {
	// SaveAuth stores the session, replacing any previous one
	SaveAuth(ctx context.Context, auth *AuthData) error

	// GetAuth retrieves the stored session
	// Returns ErrAuthNotFound if no session exists
	GetAuth(ctx context.Context) (*AuthData, error)

	// DeleteAuth removes the stored session
	// Returns ErrAuthNotFound if no session exists
	DeleteAuth(ctx context.Context) error
}

// AuthData represents the client session in storage
type AuthData struct {
	ExpiresAt time.Time `json:"expires_at"`
	Username  string    `json:"username"`
	Token     string    `json:"token"`
	ServerURL string    `json:"server_url"`
}

// Expired reports whether the token is no longer valid at now
func (a *AuthData) Expired(now time.Time) bool {
	return !now.Before(a.ExpiresAt)
}
