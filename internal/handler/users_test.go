package handler

import (
	"net/http"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/iliyamo/labquiz/internal/model"
	"github.com/iliyamo/labquiz/internal/repository"
)

func (h *harness) users() {
	uh := NewUserHandler(repository.NewUserRepo(h.db, h.logger), 4)
	h.e.GET("/v1/users", uh.Search)
	h.e.GET("/v1/users/:id", uh.Get)
	h.e.POST("/v1/users", uh.Create)
	h.e.PATCH("/v1/users/:id", uh.Update)
	h.e.DELETE("/v1/users/:id", uh.Delete)
	h.e.POST("/v1/users/:id/password", uh.SetPassword)
}

func TestUserSearchQuery(t *testing.T) {
	c := qt.New(t)
	h := newHarness(c)
	h.users()
	anna := h.user(c, "Anna", 1001)
	h.user(c, "Dan", 1002)
	h.user(c, "Bob", 1003)

	rec := h.do(c, http.MethodGet, "/v1/users?first_name=partial:an&banner_id=exact:1001", "", 0)
	c.Assert(rec.Code, qt.Equals, http.StatusOK)
	c.Assert(decode[model.UserList](c, rec).Users, qt.DeepEquals, []model.User{anna})

	rec = h.do(c, http.MethodGet, "/v1/users", "", 0)
	c.Assert(rec.Code, qt.Equals, http.StatusOK)
	c.Assert(decode[model.UserList](c, rec).Users, qt.HasLen, 3)

	rec = h.do(c, http.MethodGet, "/v1/users?email=null", "", 0)
	c.Assert(rec.Code, qt.Equals, http.StatusOK)
	c.Assert(decode[model.UserList](c, rec).Users, qt.HasLen, 3)

	for _, query := range []string{"first_name=anna", "banner_id=exact:abc", "first_name=null", "last_name=partial:"} {
		rec = h.do(c, http.MethodGet, "/v1/users?"+query, "", 0)
		c.Assert(rec.Code, qt.Equals, http.StatusBadRequest, qt.Commentf("query %s", query))
		c.Assert(decode[map[string]string](c, rec)["error"], qt.Equals, "bad_request")
	}
}

func TestUserLifecycle(t *testing.T) {
	c := qt.New(t)
	h := newHarness(c)
	h.users()

	rec := h.do(c, http.MethodPost, "/v1/users", `{"first_name":"Anna","last_name":"Smith","banner_id":1001,"email":"anna@example.edu"}`, 0)
	c.Assert(rec.Code, qt.Equals, http.StatusCreated)
	u := decode[model.User](c, rec)
	c.Assert(*u.Email, qt.Equals, "anna@example.edu")
	c.Assert(rec.Body.String(), qt.Not(qt.Contains), "password")

	rec = h.do(c, http.MethodPost, "/v1/users", `{"first_name":"Other","last_name":"Anna","banner_id":1001}`, 0)
	c.Assert(rec.Code, qt.Equals, http.StatusConflict)

	rec = h.do(c, http.MethodPost, "/v1/users", `{"first_name":"","last_name":"Smith","banner_id":1002}`, 0)
	c.Assert(rec.Code, qt.Equals, http.StatusBadRequest)

	// Explicit null clears the email; absent fields are left alone.
	rec = h.do(c, http.MethodPatch, path("/v1/users/:id", u.ID), `{"last_name":"Jones","email":null}`, 0)
	c.Assert(rec.Code, qt.Equals, http.StatusOK)
	updated := decode[model.User](c, rec)
	c.Assert(updated.FirstName, qt.Equals, "Anna")
	c.Assert(updated.LastName, qt.Equals, "Jones")
	c.Assert(updated.Email, qt.IsNil)

	rec = h.do(c, http.MethodPost, path("/v1/users/:id/password", u.ID), `{"password":""}`, 0)
	c.Assert(rec.Code, qt.Equals, http.StatusBadRequest)
	rec = h.do(c, http.MethodPost, path("/v1/users/:id/password", u.ID), `{"password":"pipette"}`, 0)
	c.Assert(rec.Code, qt.Equals, http.StatusNoContent)

	rec = h.do(c, http.MethodDelete, path("/v1/users/:id", u.ID), "", 0)
	c.Assert(rec.Code, qt.Equals, http.StatusNoContent)
	c.Assert(h.do(c, http.MethodGet, path("/v1/users/:id", u.ID), "", 0).Code, qt.Equals, http.StatusNotFound)
	c.Assert(h.do(c, http.MethodGet, "/v1/users/0", "", 0).Code, qt.Equals, http.StatusBadRequest)
}
