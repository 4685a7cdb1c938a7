package jwt

import (
	"errors"
	"fmt"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"

	"github.com/iudanet/areacheck/internal/clock"
)

var (
	// ErrInvalidToken indicates a malformed token or a bad signature
	ErrInvalidToken = errors.New("invalid token")

	// ErrExpiredToken indicates a well-formed token past its expiry
	ErrExpiredToken = errors.New("token expired")
)

// DefaultIssuer is used when Config.Issuer is empty
const DefaultIssuer = "areacheck"

// Config содержит конфигурацию для JWT
type Config struct {
	Secret    []byte
	Issuer    string
	TTL       time.Duration
	ClockSkew time.Duration
}

// Claims represents JWT claims. The subject carries the username.
type Claims struct {
	gojwt.RegisteredClaims
}

// Token is an issued bearer token with its lifetime.
type Token struct {
	IssuedAt  time.Time
	ExpiresAt time.Time
	Value     string
}

// Manager issues and validates self-contained access tokens.
// Validity depends only on the signature and expiry; no state is kept.
type Manager struct {
	clock clock.Clock
	cfg   Config
}

// NewManager creates a new token manager
func NewManager(cfg Config, clk clock.Clock) (*Manager, error) {
	if len(cfg.Secret) == 0 {
		return nil, fmt.Errorf("jwt secret cannot be empty")
	}
	if cfg.TTL <= 0 {
		return nil, fmt.Errorf("token ttl must be positive, got %s", cfg.TTL)
	}
	if cfg.ClockSkew < 0 {
		return nil, fmt.Errorf("clock skew cannot be negative, got %s", cfg.ClockSkew)
	}
	if cfg.Issuer == "" {
		cfg.Issuer = DefaultIssuer
	}
	if clk == nil {
		clk = clock.New()
	}

	return &Manager{cfg: cfg, clock: clk}, nil
}

// TTL returns the configured token lifetime
func (m *Manager) TTL() time.Duration {
	return m.cfg.TTL
}

// Issue создает новый JWT access token для username
func (m *Manager) Issue(username string) (*Token, error) {
	if username == "" {
		return nil, fmt.Errorf("username cannot be empty")
	}

	// NumericDate хранит секунды, округляем заранее чтобы ExpiresAt совпадал с токеном
	now := m.clock.Now().Truncate(time.Second)
	expiresAt := now.Add(m.cfg.TTL)

	claims := Claims{
		RegisteredClaims: gojwt.RegisteredClaims{
			Subject:   username,
			Issuer:    m.cfg.Issuer,
			IssuedAt:  gojwt.NewNumericDate(now),
			ExpiresAt: gojwt.NewNumericDate(expiresAt),
		},
	}

	token := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.cfg.Secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &Token{Value: signed, IssuedAt: now, ExpiresAt: expiresAt}, nil
}

// Validate проверяет подпись и срок действия токена и возвращает username.
// Любая ошибка разбора сводится к ErrInvalidToken или ErrExpiredToken.
func (m *Manager) Validate(tokenString string) (string, error) {
	if tokenString == "" {
		return "", ErrInvalidToken
	}

	claims := &Claims{}
	token, err := gojwt.ParseWithClaims(tokenString, claims, func(token *gojwt.Token) (interface{}, error) {
		// Проверяем что используется правильный алгоритм подписи
		if _, ok := token.Method.(*gojwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.cfg.Secret, nil
	},
		gojwt.WithValidMethods([]string{gojwt.SigningMethodHS256.Alg()}),
		gojwt.WithIssuer(m.cfg.Issuer),
		gojwt.WithExpirationRequired(),
		gojwt.WithLeeway(m.cfg.ClockSkew),
		gojwt.WithTimeFunc(m.clock.Now),
	)
	if err != nil {
		if errors.Is(err, gojwt.ErrTokenExpired) {
			return "", fmt.Errorf("%w: %w", ErrExpiredToken, err)
		}
		return "", fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	if !token.Valid || claims.Subject == "" {
		return "", ErrInvalidToken
	}

	return claims.Subject, nil
}
