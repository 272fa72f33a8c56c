package auth

import (
	"errors"
	"fmt"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-builder-backend/config"
)

const (
	Issuer     = "portfolio-builder"
	DefaultTTL = 30 * 24 * time.Hour
)

// ErrExpired is returned by Parse for tokens past their expiry.
var ErrExpired = errors.New("token expired")

// Claims defines the JWT payload.
type Claims struct {
	UserID string `json:"id"`
	jwtlib.RegisteredClaims
}

// TokenIssuer signs and verifies bearer tokens with a shared HS256 secret.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenIssuer(secret string, ttl time.Duration) (*TokenIssuer, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is required")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// NewTokenIssuerFromConfig reads JWT_SECRET and JWT_TTL_HOURS. An unset or
// non-positive TTL falls back to DefaultTTL.
func NewTokenIssuerFromConfig(cfg map[string]string) (*TokenIssuer, error) {
	ttl := time.Duration(config.GetInt(cfg, "JWT_TTL_HOURS", 0)) * time.Hour
	return NewTokenIssuer(config.GetString(cfg, "JWT_SECRET", ""), ttl)
}

// Generate issues a signed token for userID.
func (t *TokenIssuer) Generate(userID uuid.UUID) (string, error) {
	now := t.now()
	claims := Claims{
		UserID: userID.String(),
		RegisteredClaims: jwtlib.RegisteredClaims{
			Issuer:    Issuer,
			Subject:   userID.String(),
			IssuedAt:  jwtlib.NewNumericDate(now),
			ExpiresAt: jwtlib.NewNumericDate(now.Add(t.ttl)),
		},
	}
	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Parse validates token and returns the user id it was issued for.
func (t *TokenIssuer) Parse(token string) (uuid.UUID, error) {
	parsed, err := jwtlib.ParseWithClaims(token, &Claims{}, func(*jwtlib.Token) (interface{}, error) {
		return t.secret, nil
	},
		jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Name}),
		jwtlib.WithIssuer(Issuer),
		jwtlib.WithTimeFunc(t.now),
	)
	if err != nil {
		if errors.Is(err, jwtlib.ErrTokenExpired) {
			return uuid.Nil, ErrExpired
		}
		return uuid.Nil, err
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return uuid.Nil, jwtlib.ErrTokenInvalidClaims
	}
	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("token subject: %w", err)
	}
	return id, nil
}
