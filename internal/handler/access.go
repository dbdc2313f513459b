package handler

import (
	"net/http"

	"github.com/juju/errors"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/labquiz/internal/model"
	"github.com/iliyamo/labquiz/internal/repository"
)

// AccessHandler serves /v1/access, the registry of capability names.
type AccessHandler struct {
	Access *repository.AccessRepo
}

func NewAccessHandler(access *repository.AccessRepo) *AccessHandler {
	return &AccessHandler{Access: access}
}

func (h *AccessHandler) List(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()
	list, err := h.Access.List(ctx)
	if err != nil {
		return errors.Trace(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"access": list})
}

func (h *AccessHandler) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	a, err := h.Access.Get(ctx, id)
	if err != nil {
		return errors.Trace(err)
	}
	return c.JSON(http.StatusOK, a)
}

// Create registers a capability; a taken name is a 409.
func (h *AccessHandler) Create(c echo.Context) error {
	var req model.NewAccess
	if err := bindBody(c, &req); err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	a, err := h.Access.Create(ctx, req)
	if err != nil {
		return errors.Trace(err)
	}
	return c.JSON(http.StatusCreated, a)
}

func (h *AccessHandler) Update(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req model.PartialAccess
	if err := bindBody(c, &req); err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	if err := h.Access.Update(ctx, id, req); err != nil {
		return errors.Trace(err)
	}
	a, err := h.Access.Get(ctx, id)
	if err != nil {
		return errors.Trace(err)
	}
	return c.JSON(http.StatusOK, a)
}

func (h *AccessHandler) Delete(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	if err := h.Access.Delete(ctx, id); err != nil {
		return errors.Trace(err)
	}
	return c.NoContent(http.StatusNoContent)
}
