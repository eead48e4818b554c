package middleware

import "github.com/labstack/echo/v4"

// Context keys set by JWTAuth.
const (
	ctxUserID = "user_id"
	ctxRole   = "role"
)

// UserID returns the authenticated user id placed in the context by
// JWTAuth.  ok is false on unauthenticated requests.
func UserID(c echo.Context) (uint64, bool) {
	id, ok := c.Get(ctxUserID).(uint64)
	return id, ok && id != 0
}

// Role returns the role claim of the authenticated user, or "".
func Role(c echo.Context) string {
	r, _ := c.Get(ctxRole).(string)
	return r
}
