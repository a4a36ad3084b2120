// Package auth issues and validates the signed access tokens backing the
// REST surface, and dispatches the three supported login methods.
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/restbridge/restbridge/internal/types"
)

// DefaultTTL is the token lifetime when none is configured.
const DefaultTTL = time.Hour

// Token validation error messages.
const (
	ErrMsgTokenExpired = "The token has expired"
	ErrMsgInvalidToken = "Invalid token"
)

// Principal is the authenticated identity extracted from a valid token.
type Principal struct {
	UserID   int64
	Name     string
	Database string
}

// Claims is the JWT payload of an access token.
type Claims struct {
	Name     string `json:"name,omitempty"`
	Database string `json:"db"`
	jwt.RegisteredClaims
}

// TokenCodec signs and verifies access tokens. It is a pure function of
// the signing key and the clock: safe for concurrent use, no state
// beyond the immutable key.
type TokenCodec struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

// NewTokenCodec builds a codec for the given HS256 signing key. A zero
// ttl falls back to DefaultTTL.
func NewTokenCodec(key []byte, ttl time.Duration) *TokenCodec {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &TokenCodec{key: key, ttl: ttl, now: time.Now}
}

// Issue creates a signed token for the principal with expiry = now + ttl.
// The exp claim has whole-second resolution, so two tokens issued within
// the same wall-clock second carry the same expiry; a renewal extends the
// lifetime only once the clock crosses a second boundary.
func (c *TokenCodec) Issue(p Principal) (string, error) {
	now := c.now()
	claims := Claims{
		Name:     p.Name,
		Database: p.Database,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(p.UserID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.key)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// Validate checks signature integrity and expiry and returns the token's
// principal. Expired tokens are reported distinctly from tampered or
// malformed ones.
func (c *TokenCodec) Validate(raw string) (Principal, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return c.key, nil
	}, jwt.WithTimeFunc(func() time.Time { return c.now() }))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Principal{}, types.NewAuth(ErrMsgTokenExpired)
		}
		return Principal{}, types.NewAuth(ErrMsgInvalidToken)
	}

	uid, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return Principal{}, types.NewAuth(ErrMsgInvalidToken)
	}
	return Principal{UserID: uid, Name: claims.Name, Database: claims.Database}, nil
}
