package handler // handler defines http handlers

import (
	"context"
	"strconv"
	"time"

	"github.com/juju/errors"
	"github.com/labstack/echo/v4"
)

// requestTimeout bounds the database work of a single request.
const requestTimeout = 5 * time.Second

func requestContext(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), requestTimeout)
}

// parseID reads a positive integer path parameter.
func parseID(c echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.BadRequestf("invalid %s %q", name, c.Param(name))
	}
	return id, nil
}

// bindBody decodes the JSON request body into v, ignoring path and query
// parameters.
func bindBody(c echo.Context, v any) error {
	if err := (&echo.DefaultBinder{}).BindBody(c, v); err != nil {
		return errors.BadRequestf("invalid body")
	}
	return nil
}
