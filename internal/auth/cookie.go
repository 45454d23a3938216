package auth

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// CookieName is the single cookie the session token travels in.  No other
// transport (Authorization header, query parameter) is accepted.
const CookieName = "token"

// SetTokenCookie attaches the session token to the response as an HTTP-only,
// same-site-strict cookie valid for ttl.  The Secure attribute is only set
// in production-like environments so local development over plain HTTP
// keeps working.
func SetTokenCookie(c echo.Context, token string, ttl time.Duration, secure bool) {
	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl / time.Second),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// ClearTokenCookie overwrites the session cookie with an empty value and a
// wire Max-Age of 0, expiring it on the client immediately.  Logout is
// purely this client-side clear; an already issued token stays
// cryptographically valid until its natural expiry.
func ClearTokenCookie(c echo.Context, secure bool) {
	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1, // serialized as Max-Age=0
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	})
}
