package middleware

// identity.go holds the helpers that read the requesting user from the Echo
// context. Authenticate stores the id; handlers and the other middleware read
// it through RequestingUser.

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

const userIDKey = "user_id"

// RequestingUser returns the authenticated user id, or nil for anonymous
// requests.
func RequestingUser(c echo.Context) *uint64 {
	if id, ok := c.Get(userIDKey).(uint64); ok {
		return &id
	}
	return nil
}

// userLabel identifies the requester in cache and rate limit keys. It
// returns "anon" when no user is authenticated.
func userLabel(c echo.Context) string {
	if id := RequestingUser(c); id != nil {
		return strconv.FormatUint(*id, 10)
	}
	return "anon"
}
