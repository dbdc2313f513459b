package handler

import (
	"fmt"
	"net/http"

	"github.com/juju/errors"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/labquiz/internal/gate"
	"github.com/iliyamo/labquiz/internal/repository"
	"github.com/iliyamo/labquiz/internal/search"
)

// classify maps an error onto a status and the code sent to the client.
// Forbidden and insufficient level share a response.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, search.ErrMalformedQuery),
		errors.Is(err, errors.BadRequest),
		errors.Is(err, errors.NotValid):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, gate.ErrUnauthenticated):
		return http.StatusUnauthorized, "unauthenticated"
	case errors.Is(err, gate.ErrForbidden),
		errors.Is(err, gate.ErrInsufficientLevel):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, errors.NotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, repository.ErrConflict):
		return http.StatusConflict, "conflict"
	}
	return http.StatusInternalServerError, "internal_error"
}

// ErrorHandler renders errors returned by handlers and middleware as JSON
// bodies of the form {"error": code, "message": detail}.  Server errors are
// logged and their detail is withheld from the client.
func ErrorHandler(logger *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var he *echo.HTTPError
		if errors.As(err, &he) {
			writeJSON(c, he.Code, echo.Map{"error": http.StatusText(he.Code), "message": fmt.Sprint(he.Message)})
			return
		}

		status, code := classify(err)
		body := echo.Map{"error": code}
		switch {
		case status >= http.StatusInternalServerError:
			logger.Error("request failed",
				zap.String("method", c.Request().Method),
				zap.String("path", c.Path()),
				zap.Error(err))
		case status == http.StatusBadRequest || status == http.StatusConflict:
			body["message"] = err.Error()
		}
		writeJSON(c, status, body)
	}
}

func writeJSON(c echo.Context, status int, body echo.Map) {
	var err error
	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, body)
	}
	if err != nil {
		c.Logger().Error(err)
	}
}
