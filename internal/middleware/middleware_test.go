package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/juju/errors"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/iliyamo/labquiz/internal/config"
	"github.com/iliyamo/labquiz/internal/gate"
	"github.com/iliyamo/labquiz/internal/model"
	"github.com/iliyamo/labquiz/internal/utils"
)

const secret = "test-secret"

// grantTable is an in-memory gate.GrantStore.
type grantTable struct {
	access map[string]model.Access
	grants map[[2]uint64]model.UserAccess
}

func (s grantTable) AccessByName(_ context.Context, name string) (model.Access, error) {
	a, ok := s.access[name]
	if !ok {
		return model.Access{}, errors.NotFoundf("access %q", name)
	}
	return a, nil
}

func (s grantTable) GrantFor(_ context.Context, userID, accessID uint64) (model.UserAccess, error) {
	g, ok := s.grants[[2]uint64{userID, accessID}]
	if !ok {
		return model.UserAccess{}, errors.NotFoundf("grant")
	}
	return g, nil
}

// whoAmI reports the requesting user, or "anon".
func whoAmI(c echo.Context) error {
	return c.String(http.StatusOK, userLabel(c))
}

func serve(e *echo.Echo, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func bearer(c *qt.C, userID uint64) string {
	tok, err := utils.NewAccessToken(secret, userID, 5)
	c.Assert(err, qt.IsNil)
	return "Bearer " + tok.Token
}

func TestAuthenticate(t *testing.T) {
	c := qt.New(t)
	e := echo.New()
	e.GET("/who", whoAmI, Authenticate(secret))

	rec := serve(e, httptest.NewRequest(http.MethodGet, "/who", nil))
	c.Assert(rec.Code, qt.Equals, http.StatusOK)
	c.Assert(rec.Body.String(), qt.Equals, "anon")

	req := httptest.NewRequest(http.MethodGet, "/who", nil)
	req.Header.Set(echo.HeaderAuthorization, bearer(c, 7))
	rec = serve(e, req)
	c.Assert(rec.Code, qt.Equals, http.StatusOK)
	c.Assert(rec.Body.String(), qt.Equals, "7")

	req = httptest.NewRequest(http.MethodGet, "/who", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer not-a-token")
	rec = serve(e, req)
	c.Assert(rec.Code, qt.Equals, http.StatusUnauthorized)

	req = httptest.NewRequest(http.MethodGet, "/who", nil)
	req.Header.Set(echo.HeaderAuthorization, "Basic Zm9vOmJhcg==")
	rec = serve(e, req)
	c.Assert(rec.Code, qt.Equals, http.StatusUnauthorized)
}

func TestRequireAccess(t *testing.T) {
	c := qt.New(t)
	store := grantTable{
		access: map[string]model.Access{gate.DeleteQuestions: {ID: 3, Name: gate.DeleteQuestions}},
		grants: map[[2]uint64]model.UserAccess{{1, 3}: {PermissionID: 1, UserID: 1, AccessID: 3}},
	}
	g := gate.New(store, nil, nil)

	var gateErr error
	e := echo.New()
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		gateErr = err
		_ = c.NoContent(http.StatusTeapot)
	}
	e.Use(Authenticate(secret))
	e.DELETE("/q", whoAmI, RequireAccess(g, gate.DeleteQuestions))

	// granted
	req := httptest.NewRequest(http.MethodDelete, "/q", nil)
	req.Header.Set(echo.HeaderAuthorization, bearer(c, 1))
	rec := serve(e, req)
	c.Assert(rec.Code, qt.Equals, http.StatusOK)
	c.Assert(rec.Body.String(), qt.Equals, "1")

	// user 7 holds nothing
	req = httptest.NewRequest(http.MethodDelete, "/q", nil)
	req.Header.Set(echo.HeaderAuthorization, bearer(c, 7))
	rec = serve(e, req)
	c.Assert(rec.Code, qt.Equals, http.StatusTeapot)
	c.Assert(errors.Is(gateErr, gate.ErrForbidden), qt.IsTrue)

	// anonymous
	rec = serve(e, httptest.NewRequest(http.MethodDelete, "/q", nil))
	c.Assert(rec.Code, qt.Equals, http.StatusTeapot)
	c.Assert(errors.Is(gateErr, gate.ErrUnauthenticated), qt.IsTrue)
}

func TestRequestLogger(t *testing.T) {
	c := qt.New(t)
	core, logs := observer.New(zapcore.InfoLevel)

	e := echo.New()
	e.Use(RequestID(), Authenticate(secret), RequestLogger(zap.New(core)))
	e.GET("/who", whoAmI)

	req := httptest.NewRequest(http.MethodGet, "/who?x=1", nil)
	req.Header.Set(echo.HeaderAuthorization, bearer(c, 9))
	rec := serve(e, req)
	c.Assert(rec.Code, qt.Equals, http.StatusOK)
	c.Assert(rec.Header().Get(echo.HeaderXRequestID), qt.HasLen, 36)

	entries := logs.All()
	c.Assert(entries, qt.HasLen, 1)
	fields := entries[0].ContextMap()
	c.Assert(fields["uri"], qt.Equals, "/who?x=1")
	c.Assert(fields["status"], qt.Equals, int64(200))
	c.Assert(fields["user"], qt.Equals, "9")
	c.Assert(fields["request_id"], qt.Equals, rec.Header().Get(echo.HeaderXRequestID))
}

func TestRedisBackedMiddlewareWithoutRedis(t *testing.T) {
	c := qt.New(t)
	cache := NewResponseCache(config.CacheConfig{Enabled: true, Methods: map[string]bool{"GET": true}}, nil, nil)

	e := echo.New()
	e.Use(NewTokenBucket(config.RateLimitConfig{Enabled: true, Capacity: 1}, nil, nil))
	e.GET("/who", whoAmI, cache.Middleware())

	for i := 0; i < 3; i++ {
		rec := serve(e, httptest.NewRequest(http.MethodGet, "/who", nil))
		c.Assert(rec.Code, qt.Equals, http.StatusOK)
		c.Assert(rec.Header().Get("X-Cache"), qt.Equals, "")
	}
	c.Assert(cache.Invalidate(context.Background(), "/who"), qt.IsNil)
}

func TestPayloadEncoding(t *testing.T) {
	c := qt.New(t)
	hdr := http.Header{"Content-Type": {"application/json"}}
	bs, err := encodePayload(http.StatusOK, hdr, []byte(`{"a":1}`))
	c.Assert(err, qt.IsNil)

	status, gotHdr, body, ok := decodePayload(bs)
	c.Assert(ok, qt.IsTrue)
	c.Assert(status, qt.Equals, http.StatusOK)
	c.Assert(gotHdr, qt.DeepEquals, hdr)
	c.Assert(string(body), qt.Equals, `{"a":1}`)

	_, _, _, ok = decodePayload(bs[:5])
	c.Assert(ok, qt.IsFalse)
}

func TestCacheKeysAreScopedByRoute(t *testing.T) {
	c := qt.New(t)
	rc := NewResponseCache(config.CacheConfig{Prefix: "cache"}, nil, nil)
	a := rc.keyFor("/v1/question_categories", "GET", "")
	b := rc.keyFor("/v1/question_categories", "GET", "page=2")
	c.Assert(a, qt.Not(qt.Equals), b)
	c.Assert(a[:len("cache:/v1/question_categories:")], qt.Equals, "cache:/v1/question_categories:")
}

func TestRateKeyStrategies(t *testing.T) {
	c := qt.New(t)
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/who", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	ctx := e.NewContext(req, httptest.NewRecorder())
	ctx.SetPath("/who")
	ctx.Set(userIDKey, uint64(4))

	c.Assert(buildRateKey(config.RateLimitConfig{Prefix: "rl", KeyStrategy: "ip"}, ctx), qt.Equals, "rl:ip:10.0.0.1")
	c.Assert(buildRateKey(config.RateLimitConfig{Prefix: "rl", KeyStrategy: "user"}, ctx), qt.Equals, "rl:user:4")
	c.Assert(buildRateKey(config.RateLimitConfig{Prefix: "rl"}, ctx), qt.Equals, "rl:ip:10.0.0.1:user:4:route:GET /who")
}
