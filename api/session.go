package api

import (
	"github.com/labstack/echo/v4"
)

// SessionCookie is the cookie carrying the browser session id.
const SessionCookie = "imarket_session"

// SessionHeader lets API clients pass the session id explicitly.
const SessionHeader = "X-Session-ID"

// SessionID extracts the caller's session id from header or cookie. Empty
// when the caller carries neither; user-state endpoints treat that as a bad
// request, read-only catalog endpoints treat it as an anonymous visitor.
func SessionID(c echo.Context) string {
	if id := c.Request().Header.Get(SessionHeader); id != "" {
		return id
	}
	if cookie, err := c.Cookie(SessionCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	return ""
}
