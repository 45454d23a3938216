// Package auth implements the session token service and its cookie
// transport.  Tokens are HS256-signed JWTs carrying the user's identity;
// validity is purely cryptographic plus an expiry check, nothing is stored
// server-side.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/iliyamo/blog-platform/internal/model"
)

// ErrTokenInvalid is returned by Verify when the signature does not match,
// the payload is malformed, or the claims are missing required fields.
// Handlers should translate this into a 401 with reason "invalid".
var ErrTokenInvalid = errors.New("invalid token")

// ErrTokenExpired is returned by Verify when the signature is valid but the
// token is past its expiry.  Handlers should translate this into a 401 with
// reason "expired".  The two failure kinds are deliberately distinguishable
// so callers can tell a stale session from a forged one.
var ErrTokenExpired = errors.New("token expired")

// Claims is the strongly-typed payload embedded in every session token.
// The shape is validated at parse time; a token whose user_id claim is
// missing or zero is rejected as invalid rather than trusted.
type Claims struct {
	UserID uint64 `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	jwt.RegisteredClaims
}

// Issue builds and signs an HS256 session token for a user.  It embeds the
// user's id, email and name, stamps the issuance time and sets the expiry
// to now + ttlDays.  The returned time is the UTC expiry, which callers use
// for the cookie Max-Age.  Issue is a pure function of its inputs, the
// secret and the clock.
func Issue(secret string, u *model.User, ttlDays int) (string, time.Time, error) {
	now := time.Now().UTC()
	exp := now.Add(time.Duration(ttlDays) * 24 * time.Hour)
	claims := Claims{
		UserID: u.ID,
		Email:  u.Email,
		Name:   u.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// Verify parses raw, validates its signature against secret and checks the
// expiry.  On success it returns the typed claims.  Failure is either
// ErrTokenExpired (valid signature, past expiry) or ErrTokenInvalid
// (everything else, including an unexpected signing method or a malformed
// claims shape).
func Verify(secret, raw string) (*Claims, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	if !tok.Valid || claims.UserID == 0 {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
