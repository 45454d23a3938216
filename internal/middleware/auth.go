package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/blog-platform/internal/auth"
)

// Context keys under which the guard exposes the authenticated identity.
// Handlers read them through typed accessors instead of re-parsing the
// token; every route shares this single verification path.
const (
	CtxUserID = "user_id"
	CtxEmail  = "email"
	CtxName   = "name"
)

// RequireAuth returns an Echo middleware that extracts the session cookie,
// verifies it and injects the claims into the request context.  Requests
// without a usable identity are rejected with 401; the body carries a
// reason field distinguishing a missing cookie ("none") from a bad
// signature or shape ("invalid") and a stale session ("expired").
func RequireAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ck, err := c.Cookie(auth.CookieName)
			if err != nil || ck.Value == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"error":  "authentication required",
					"reason": "none",
				})
			}
			claims, err := auth.Verify(secret, ck.Value)
			if err != nil {
				reason, msg := "invalid", "invalid token"
				if errors.Is(err, auth.ErrTokenExpired) {
					reason, msg = "expired", "token expired"
				}
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"error":  msg,
					"reason": reason,
				})
			}
			c.Set(CtxUserID, claims.UserID)
			c.Set(CtxEmail, claims.Email)
			c.Set(CtxName, claims.Name)
			return next(c)
		}
	}
}

// CookieAuth is the optional variant of the guard for public endpoints.
// A missing, invalid or expired cookie is a valid terminal state, not an
// error: the request simply proceeds anonymously.  When the cookie does
// verify, the claims are exposed the same way RequireAuth does, so rate
// limit keys and handlers can attribute the request to a user.
func CookieAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if ck, err := c.Cookie(auth.CookieName); err == nil && ck.Value != "" {
				if claims, err := auth.Verify(secret, ck.Value); err == nil {
					c.Set(CtxUserID, claims.UserID)
					c.Set(CtxEmail, claims.Email)
					c.Set(CtxName, claims.Name)
				}
			}
			return next(c)
		}
	}
}
