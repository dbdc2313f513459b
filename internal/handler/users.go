package handler

import (
	"net/http"
	"strings"

	"github.com/juju/errors"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/labquiz/internal/model"
	"github.com/iliyamo/labquiz/internal/repository"
)

// UserHandler serves /v1/users.  Access checks are applied by the router.
type UserHandler struct {
	Users      *repository.UserRepo
	BcryptCost int
}

func NewUserHandler(users *repository.UserRepo, bcryptCost int) *UserHandler {
	return &UserHandler{Users: users, BcryptCost: bcryptCost}
}

// Search lists users matching the query terms; no terms lists everyone.
func (h *UserHandler) Search(c echo.Context) error {
	s, err := model.ParseUserSearch(c.QueryParams())
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	list, err := h.Users.Search(ctx, s)
	if err != nil {
		return errors.Trace(err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *UserHandler) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	u, err := h.Users.Get(ctx, id)
	if err != nil {
		return errors.Trace(err)
	}
	return c.JSON(http.StatusOK, u)
}

func (h *UserHandler) Create(c echo.Context) error {
	var req model.NewUser
	if err := bindBody(c, &req); err != nil {
		return err
	}
	if strings.TrimSpace(req.FirstName) == "" || strings.TrimSpace(req.LastName) == "" || req.BannerID == 0 {
		return errors.NotValidf("user without first_name, last_name or banner_id")
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	u, err := h.Users.Create(ctx, req)
	if err != nil {
		return errors.Trace(err)
	}
	return c.JSON(http.StatusCreated, u)
}

// Update applies a partial update and returns the stored user.
func (h *UserHandler) Update(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req model.PartialUser
	if err := bindBody(c, &req); err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	if err := h.Users.Update(ctx, id, req); err != nil {
		return errors.Trace(err)
	}
	u, err := h.Users.Get(ctx, id)
	if err != nil {
		return errors.Trace(err)
	}
	return c.JSON(http.StatusOK, u)
}

func (h *UserHandler) Delete(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	if err := h.Users.Delete(ctx, id); err != nil {
		return errors.Trace(err)
	}
	return c.NoContent(http.StatusNoContent)
}

type passwordReq struct {
	Password string `json:"password"`
}

// SetPassword replaces the user's login password.
func (h *UserHandler) SetPassword(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req passwordReq
	if err := bindBody(c, &req); err != nil {
		return err
	}
	if req.Password == "" {
		return errors.NotValidf("empty password")
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	if err := h.Users.SetPassword(ctx, id, req.Password, h.BcryptCost); err != nil {
		return errors.Trace(err)
	}
	return c.NoContent(http.StatusNoContent)
}
