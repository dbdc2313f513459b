package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"

	qt "github.com/frankban/quicktest"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/iliyamo/labquiz/internal/database"
	"github.com/iliyamo/labquiz/internal/middleware"
	"github.com/iliyamo/labquiz/internal/model"
	"github.com/iliyamo/labquiz/internal/queue"
	"github.com/iliyamo/labquiz/internal/repository"
	"github.com/iliyamo/labquiz/internal/utils"
)

const secret = "handler-secret"

// harness is an Echo server over an in-memory database, with the error
// handler and authentication installed the way the router does it.
type harness struct {
	db     *sql.DB
	e      *echo.Echo
	logger *zap.Logger
	logs   *observer.ObservedLogs
}

func newHarness(c *qt.C) *harness {
	db, err := database.Open(database.Options{Driver: database.DriverSQLite})
	c.Assert(err, qt.IsNil)
	c.Cleanup(func() { _ = db.Close() })
	c.Assert(database.EnsureSchema(context.Background(), db, database.DriverSQLite), qt.IsNil)

	core, logs := observer.New(zapcore.DebugLevel)
	logger := zap.New(core)
	e := echo.New()
	e.HTTPErrorHandler = ErrorHandler(logger)
	e.Use(middleware.Authenticate(secret))
	return &harness{db: db, e: e, logger: logger, logs: logs}
}

// do sends a request as userID; zero sends it anonymously.
func (h *harness) do(c *qt.C, method, path, body string, userID uint64) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if userID != 0 {
		tok, err := utils.NewAccessToken(secret, userID, 5)
		c.Assert(err, qt.IsNil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+tok.Token)
	}
	rec := httptest.NewRecorder()
	h.e.ServeHTTP(rec, req)
	return rec
}

func (h *harness) user(c *qt.C, first string, banner uint32) model.User {
	u, err := repository.NewUserRepo(h.db, nil).Create(context.Background(),
		model.NewUser{FirstName: first, LastName: "Tester", BannerID: banner})
	c.Assert(err, qt.IsNil)
	return u
}

func (h *harness) grant(c *qt.C, userID uint64, accessName string) {
	ctx := context.Background()
	a, err := repository.NewAccessRepo(h.db).Ensure(ctx, accessName)
	c.Assert(err, qt.IsNil)
	_, err = repository.NewUserAccessRepo(h.db, nil).Create(ctx, model.NewUserAccess{UserID: userID, AccessID: a.ID})
	c.Assert(err, qt.IsNil)
}

func decode[T any](c *qt.C, rec *httptest.ResponseRecorder) T {
	var v T
	c.Assert(json.Unmarshal(rec.Body.Bytes(), &v), qt.IsNil, qt.Commentf("body: %s", rec.Body.String()))
	return v
}

func path(format string, id uint64) string {
	return strings.Replace(format, ":id", strconv.FormatUint(id, 10), 1)
}

type auditLog struct {
	events []queue.GrantEvent
}

func (a *auditLog) Publish(_ context.Context, ev queue.GrantEvent) error {
	a.events = append(a.events, ev)
	return nil
}

func newBearerRequest(method, target, token string) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	return req
}

func (h *harness) serve(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.e.ServeHTTP(rec, req)
	return rec
}
