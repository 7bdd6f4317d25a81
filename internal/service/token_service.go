package service

import (
	"fmt"
	"time"

	"hydrogen-credit-ledger/internal/core/domain"
	"hydrogen-credit-ledger/internal/core/ports"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// JWTTokenService implements ports.TokenService using HS256 JWT. The
// subject claim carries the caller's ledger identity.
type JWTTokenService struct {
	secret []byte
	expiry time.Duration
	issuer string
}

func NewJWTTokenService(secret string, expiry time.Duration, issuer string) *JWTTokenService {
	return &JWTTokenService{secret: []byte(secret), expiry: expiry, issuer: issuer}
}

// Generate creates a signed JWT for identity.
func (s *JWTTokenService) Generate(identity domain.Identity) (string, time.Time, error) {
	if !identity.Valid() {
		return "", time.Time{}, fmt.Errorf("invalid identity %q", identity)
	}
	now := time.Now().Truncate(time.Second)
	expiresAt := now.Add(s.expiry)

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   string(identity),
		Issuer:    s.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("signing token: %w", err)
	}
	return signed, expiresAt, nil
}

// clockSkew tolerates small clock differences with the identity provider.
const clockSkew = 30 * time.Second

// Validate verifies signature, issuer and expiry, and resolves the subject to
// a ledger identity. Only HS256 is accepted.
func (s *JWTTokenService) Validate(tokenString string) (*ports.TokenClaims, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(tokenString, &claims,
		func(*jwt.Token) (interface{}, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(clockSkew),
	)
	if err != nil {
		return nil, fmt.Errorf("parsing token: %w", err)
	}

	identity := domain.Identity(claims.Subject)
	if !identity.Valid() {
		return nil, fmt.Errorf("invalid subject claim %q", claims.Subject)
	}
	return &ports.TokenClaims{Identity: identity, ExpiresAt: claims.ExpiresAt.Time}, nil
}
