package middleware // middleware provides shared request processing for handlers

import (
	"github.com/labstack/echo/v4" // echo provides middleware chaining and context

	"github.com/iliyamo/labquiz/internal/gate"
)

// RequireAccess returns a middleware that lets the request through only if
// the requesting user passes the gate for the named capability.  The gate's
// error is returned unchanged; the server's HTTP error handler turns it into
// a 401, 403 or 500 response.
func RequireAccess(g *gate.Gate, accessName string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if err := g.Authorize(c.Request().Context(), RequestingUser(c), accessName); err != nil {
				return err
			}
			return next(c)
		}
	}
}
