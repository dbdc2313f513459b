package router // package router defines how HTTP routes are registered for the API

import (
	"database/sql"

	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/iliyamo/labquiz/internal/config"
	"github.com/iliyamo/labquiz/internal/gate"
	"github.com/iliyamo/labquiz/internal/handler"    // import the handlers that implement business logic
	"github.com/iliyamo/labquiz/internal/middleware" // import middleware for authentication and access checks
	"github.com/iliyamo/labquiz/internal/repository"
)

// Deps carries everything the HTTP layer needs.  Redis, Audit and Gatherer
// may be nil.
type Deps struct {
	Cfg       config.Config
	DB        *sql.DB
	Redis     *redis.Client
	Cache     config.CacheConfig
	RateLimit config.RateLimitConfig
	Gate      *gate.Gate
	Audit     handler.AuditPublisher
	Gatherer  prometheus.Gatherer
	Logger    *zap.Logger
}

// New builds the Echo server with the global middleware chain and every
// route registered.
func New(d Deps) *echo.Echo {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = handler.ErrorHandler(d.Logger)

	e.Use(echomw.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.Authenticate(d.Cfg.JWTSecret))
	e.Use(middleware.RequestLogger(d.Logger))
	e.Use(middleware.NewTokenBucket(d.RateLimit, d.Redis, d.Logger))

	users := repository.NewUserRepo(d.DB, d.Logger)
	questions := repository.NewQuestionRepo(d.DB, d.Logger)
	categories := repository.NewQuestionCategoryRepo(d.DB)
	cache := middleware.NewResponseCache(d.Cache, d.Redis, d.Logger)

	RegisterRoutes(e, d.DB, d.Gatherer)
	RegisterAuth(e, handler.NewAuthHandler(d.Cfg, users, repository.NewTokenRepo(d.DB)))
	RegisterUsers(e, handler.NewUserHandler(users, d.Cfg.BcryptCost), d.Gate)
	RegisterAccess(e, handler.NewAccessHandler(repository.NewAccessRepo(d.DB)), d.Gate)
	RegisterUserAccess(e, handler.NewUserAccessHandler(repository.NewUserAccessRepo(d.DB, d.Logger), d.Audit), d.Gate)
	RegisterChemicals(e, handler.NewChemicalHandler(repository.NewChemicalRepo(d.DB, d.Logger)), d.Gate)
	RegisterQuestions(e, handler.NewQuestionHandler(d.DB, d.Cfg.DBDriver, d.Gate, cache, d.Logger), d.Gate, cache)
	RegisterQuiz(e, handler.NewQuizHandler(questions, categories), d.Gate)
	return e
}

// RegisterRoutes registers the operational endpoints: liveness, readiness
// and Prometheus metrics.
func RegisterRoutes(e *echo.Echo, db *sql.DB, gatherer prometheus.Gatherer) {
	e.GET("/healthz", handler.Health)
	e.GET("/readyz", handler.Ready(db))
	if gatherer != nil {
		e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}
}

// RegisterAuth registers login, token refresh and logout under /v1/auth,
// plus /v1/me.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler) {
	g := e.Group("/v1/auth")
	g.POST("/login", a.Login)
	// Rotates the refresh token.
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)

	e.GET("/v1/me", a.Me)
}

// RegisterUsers registers /v1/users.  Updates are accepted on both POST and
// PATCH.
func RegisterUsers(e *echo.Echo, h *handler.UserHandler, g *gate.Gate) {
	r := e.Group("/v1/users")
	r.GET("", h.Search, middleware.RequireAccess(g, gate.GetUsers))
	r.GET("/:id", h.Get, middleware.RequireAccess(g, gate.GetUsers))
	r.POST("", h.Create, middleware.RequireAccess(g, gate.CreateUsers))
	r.POST("/:id", h.Update, middleware.RequireAccess(g, gate.UpdateUsers))
	r.PATCH("/:id", h.Update, middleware.RequireAccess(g, gate.UpdateUsers))
	r.POST("/:id/password", h.SetPassword, middleware.RequireAccess(g, gate.UpdateUsers))
	r.DELETE("/:id", h.Delete, middleware.RequireAccess(g, gate.DeleteUsers))
}

// RegisterAccess registers the capability registry under /v1/access.
func RegisterAccess(e *echo.Echo, h *handler.AccessHandler, g *gate.Gate) {
	r := e.Group("/v1/access")
	r.GET("", h.List, middleware.RequireAccess(g, gate.GetAccess))
	r.GET("/:id", h.Get, middleware.RequireAccess(g, gate.GetAccess))
	r.POST("", h.Create, middleware.RequireAccess(g, gate.CreateAccess))
	r.POST("/:id", h.Update, middleware.RequireAccess(g, gate.UpdateAccess))
	r.PATCH("/:id", h.Update, middleware.RequireAccess(g, gate.UpdateAccess))
	r.DELETE("/:id", h.Delete, middleware.RequireAccess(g, gate.DeleteAccess))
}

// RegisterUserAccess registers grant management under /v1/user_access.
func RegisterUserAccess(e *echo.Echo, h *handler.UserAccessHandler, g *gate.Gate) {
	r := e.Group("/v1/user_access")
	r.GET("", h.Search, middleware.RequireAccess(g, gate.GetUserAccess))
	r.GET("/:id", h.Get, middleware.RequireAccess(g, gate.GetUserAccess))
	r.GET("/:user_id/:access_id", h.Check, middleware.RequireAccess(g, gate.GetUserAccess))
	r.POST("", h.Create, middleware.RequireAccess(g, gate.CreateUserAccess))
	r.POST("/:id", h.Update, middleware.RequireAccess(g, gate.UpdateUserAccess))
	r.PATCH("/:id", h.Update, middleware.RequireAccess(g, gate.UpdateUserAccess))
	r.DELETE("/:id", h.Delete, middleware.RequireAccess(g, gate.DeleteUserAccess))
}

// RegisterChemicals registers the chemical inventory under /v1/chemicals.
func RegisterChemicals(e *echo.Echo, h *handler.ChemicalHandler, g *gate.Gate) {
	r := e.Group("/v1/chemicals")
	r.GET("", h.Search, middleware.RequireAccess(g, gate.GetChemicals))
	r.GET("/:id", h.Get, middleware.RequireAccess(g, gate.GetChemicals))
	r.POST("", h.Create, middleware.RequireAccess(g, gate.CreateChemicals))
	r.POST("/:id", h.Update, middleware.RequireAccess(g, gate.UpdateChemicals))
	r.PATCH("/:id", h.Update, middleware.RequireAccess(g, gate.UpdateChemicals))
	r.DELETE("/:id", h.Delete, middleware.RequireAccess(g, gate.DeleteChemicals))
}

// RegisterQuestions registers /v1/questions and /v1/question_categories.
// Question create and delete check access inside their own transaction, so
// no RequireAccess is attached to them.
func RegisterQuestions(e *echo.Echo, h *handler.QuestionHandler, g *gate.Gate, cache *middleware.ResponseCache) {
	r := e.Group("/v1/questions")
	r.GET("", h.Search, middleware.RequireAccess(g, gate.GetQuestions))
	r.GET("/:id", h.Get, middleware.RequireAccess(g, gate.GetQuestions))
	r.POST("", h.Create)
	r.DELETE("/:id", h.Delete)

	e.GET(handler.CategoriesRoute, h.ListCategories, cache.Middleware())
	e.POST(handler.CategoriesRoute, h.CreateCategory, middleware.RequireAccess(g, gate.CreateQuestionCategories))
	e.DELETE(handler.CategoriesRoute+"/:id", h.DeleteCategory, middleware.RequireAccess(g, gate.DeleteQuestionCategories))
}

// RegisterQuiz registers quiz taking and grading under /v1/quiz.
func RegisterQuiz(e *echo.Echo, h *handler.QuizHandler, g *gate.Gate) {
	r := e.Group("/v1/quiz", middleware.RequireAccess(g, gate.TakeQuiz))
	r.POST("/grade", h.Grade)
	r.GET("/:category_id", h.Take)
}
