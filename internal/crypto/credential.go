package crypto

import (
	"crypto/subtle"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Credential sealing modes accepted in configuration.
const (
	ModePlain  = "plain"
	ModeBcrypt = "bcrypt"
)

// CredentialSealer converts a credential into its stored form and compares
// a supplied credential against a stored one.
type CredentialSealer interface {
	// Seal returns the representation persisted for credential
	Seal(credential string) (string, error)

	// Match reports whether supplied corresponds to stored
	Match(stored, supplied string) bool
}

// NewSealer returns the sealer for the configured mode.
func NewSealer(mode string) (CredentialSealer, error) {
	switch mode {
	case "", ModePlain:
		return PlainSealer{}, nil
	case ModeBcrypt:
		return BcryptSealer{Cost: bcrypt.DefaultCost}, nil
	default:
		return nil, fmt.Errorf("unknown credential hashing mode %q", mode)
	}
}

// PlainSealer stores the credential as supplied and matches by exact comparison.
type PlainSealer struct{}

// Seal returns credential unchanged.
func (PlainSealer) Seal(credential string) (string, error) {
	return credential, nil
}

// Match compares in constant time.
func (PlainSealer) Match(stored, supplied string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(supplied)) == 1
}

// BcryptSealer stores a bcrypt hash of the credential.
// Credentials longer than 72 bytes are rejected by bcrypt.
type BcryptSealer struct {
	Cost int
}

// Seal hashes credential with bcrypt.
func (s BcryptSealer) Seal(credential string) (string, error) {
	cost := s.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(credential), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash credential: %w", err)
	}

	return string(hash), nil
}

// Match verifies supplied against the bcrypt hash in stored.
func (BcryptSealer) Match(stored, supplied string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(stored), []byte(supplied))
	if err != nil && !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		// битый хеш в БД трактуем как несовпадение
		return false
	}
	return err == nil
}
