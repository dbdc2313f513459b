package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/juju/errors"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/labquiz/internal/middleware"
	"github.com/iliyamo/labquiz/internal/model"
	"github.com/iliyamo/labquiz/internal/queue"
	"github.com/iliyamo/labquiz/internal/repository"
)

// AuditPublisher records grant changes.  Publish errors never fail the
// request.
type AuditPublisher interface {
	Publish(ctx context.Context, ev queue.GrantEvent) error
}

// UserAccessHandler serves /v1/user_access, the grants of capabilities to
// users.
type UserAccessHandler struct {
	Grants *repository.UserAccessRepo
	Audit  AuditPublisher
}

func NewUserAccessHandler(grants *repository.UserAccessRepo, audit AuditPublisher) *UserAccessHandler {
	return &UserAccessHandler{Grants: grants, Audit: audit}
}

// Search lists grants joined with the holder's name and banner id.
func (h *UserAccessHandler) Search(c echo.Context) error {
	s, err := model.ParseUserAccessSearch(c.QueryParams())
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	list, err := h.Grants.Search(ctx, s)
	if err != nil {
		return errors.Trace(err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *UserAccessHandler) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	g, err := h.Grants.Get(ctx, id)
	if err != nil {
		return errors.Trace(err)
	}
	return c.JSON(http.StatusOK, g)
}

// Check reports whether a user holds an access.
func (h *UserAccessHandler) Check(c echo.Context) error {
	userID, err := parseID(c, "user_id")
	if err != nil {
		return err
	}
	accessID, err := parseID(c, "access_id")
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	ok, err := h.Grants.Check(ctx, userID, accessID)
	if err != nil {
		return errors.Trace(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"has_access": ok})
}

// Create grants an access.  Granting a pair that already exists is a 409
// and leaves the existing grant unchanged.
func (h *UserAccessHandler) Create(c echo.Context) error {
	var req model.NewUserAccess
	if err := bindBody(c, &req); err != nil {
		return err
	}
	if req.UserID == 0 || req.AccessID == 0 {
		return errors.NotValidf("grant without user_id or access_id")
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	g, err := h.Grants.Create(ctx, req)
	if err != nil {
		return errors.Trace(err)
	}
	h.publish(c, queue.ActionGranted, g)
	return c.JSON(http.StatusCreated, g)
}

// Update changes a grant's permission level.
func (h *UserAccessHandler) Update(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req model.PartialUserAccess
	if err := bindBody(c, &req); err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	if err := h.Grants.Update(ctx, id, req); err != nil {
		return errors.Trace(err)
	}
	g, err := h.Grants.Get(ctx, id)
	if err != nil {
		return errors.Trace(err)
	}
	if req.PermissionLevel.Set {
		h.publish(c, queue.ActionUpdated, g)
	}
	return c.JSON(http.StatusOK, g)
}

// Delete revokes a grant.  Revoking a missing grant succeeds and publishes
// nothing.
func (h *UserAccessHandler) Delete(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	g, err := h.Grants.Get(ctx, id)
	if errors.Is(err, errors.NotFound) {
		return c.NoContent(http.StatusNoContent)
	}
	if err != nil {
		return errors.Trace(err)
	}
	if err := h.Grants.Delete(ctx, id); err != nil {
		return errors.Trace(err)
	}
	h.publish(c, queue.ActionRevoked, g)
	return c.NoContent(http.StatusNoContent)
}

func (h *UserAccessHandler) publish(c echo.Context, action string, g model.UserAccess) {
	if h.Audit == nil {
		return
	}
	ev := queue.GrantEvent{
		Action:          action,
		PermissionID:    g.PermissionID,
		UserID:          g.UserID,
		AccessID:        g.AccessID,
		PermissionLevel: g.PermissionLevel,
		At:              time.Now().UTC(),
	}
	if actor := middleware.RequestingUser(c); actor != nil {
		ev.ActorID = *actor
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request().Context()), requestTimeout)
	defer cancel()
	_ = h.Audit.Publish(ctx, ev)
}
