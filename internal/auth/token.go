package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// defaultAccessTokenTTL is used when no TTL is configured.
const defaultAccessTokenTTL = 15 * time.Minute

// Claims is the structured data embedded in an access token: subject,
// role, and the issued/expiry instants (epoch seconds on the wire).
type Claims struct {
	jwt.RegisteredClaims
	Role Role `json:"role"`
}

// ExpiredAt reports whether the claims are expired at the given instant.
// A token whose expiry equals now is already expired; one second of
// remaining life is enough to pass.
func (c *Claims) ExpiredAt(now time.Time) bool {
	if c.ExpiresAt == nil {
		return true
	}
	return !c.ExpiresAt.Time.After(now)
}

// Principal returns the in-memory identity carried by the claims.
func (c *Claims) Principal() Principal {
	return Principal{Subject: c.Subject, Role: c.Role}
}

// TokenCodec issues and decodes signed HS256 access tokens. It holds no
// state beyond the process-wide signing secret and the configured TTL, so
// a single codec is safe for arbitrary concurrent use.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenCodec creates a codec with the given signing secret and access
// token TTL in minutes. A non-positive TTL falls back to 15 minutes.
func NewTokenCodec(secret string, ttlMinutes int) *TokenCodec {
	ttl := time.Duration(ttlMinutes) * time.Minute
	if ttlMinutes <= 0 {
		ttl = defaultAccessTokenTTL
	}
	return &TokenCodec{secret: []byte(secret), ttl: ttl}
}

// TTL returns the configured access token lifetime.
func (tc *TokenCodec) TTL() time.Duration {
	return tc.ttl
}

// Issue creates a signed access token for the subject with iat=now and
// exp=now+TTL. The token is self-contained: no server-side record is kept.
func (tc *TokenCodec) Issue(subject string, role Role, now time.Time) (string, error) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tc.ttl)),
		},
		Role: role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(tc.secret)
	if err != nil {
		return "", fmt.Errorf("signing access token: %w", err)
	}
	return signed, nil
}

// Decode verifies structure and signature and returns the claims.
//
// Expiry is deliberately NOT checked here — that is the request
// authorizer's job, which keeps the codec a pure function of its inputs
// and lets expired tokens be inspected in tests. Structurally malformed
// input and signature mismatches both return ErrTokenInvalid.
func (tc *TokenCodec) Decode(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(_ *jwt.Token) (any, error) {
		return tc.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTokenInvalid, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}

	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrTokenInvalid)
	}

	if claims.Role == "" {
		return nil, fmt.Errorf("%w: missing role", ErrTokenInvalid)
	}

	return claims, nil
}
