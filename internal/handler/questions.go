package handler

import (
	"context"
	"database/sql"
	"net/http"
	"strings"

	"github.com/juju/errors"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/labquiz/internal/gate"
	"github.com/iliyamo/labquiz/internal/middleware"
	"github.com/iliyamo/labquiz/internal/model"
	"github.com/iliyamo/labquiz/internal/repository"
)

// CategoriesRoute is the registered path of the cached category listing.
const CategoriesRoute = "/v1/question_categories"

// QuestionHandler serves /v1/questions and /v1/question_categories.
// Creating and deleting questions checks the gate inside the same
// transaction as the write, so a grant revoked concurrently is honoured.
type QuestionHandler struct {
	DB         *sql.DB
	Driver     string
	Gate       *gate.Gate
	Questions  *repository.QuestionRepo
	Categories *repository.QuestionCategoryRepo
	Cache      *middleware.ResponseCache
	Logger     *zap.Logger
}

func NewQuestionHandler(db *sql.DB, driver string, g *gate.Gate, cache *middleware.ResponseCache, logger *zap.Logger) *QuestionHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QuestionHandler{
		DB:         db,
		Driver:     driver,
		Gate:       g,
		Questions:  repository.NewQuestionRepo(db, logger),
		Categories: repository.NewQuestionCategoryRepo(db),
		Cache:      cache,
		Logger:     logger,
	}
}

// guarded runs fn in a transaction after the requesting user passed the
// gate for accessName within that transaction. The grant rows read by the
// gate stay share-locked until fn's writes commit.
func (h *QuestionHandler) guarded(ctx context.Context, c echo.Context, accessName string, fn func(tx *sql.Tx) error) error {
	user := middleware.RequestingUser(c)
	return repository.WithTx(ctx, h.DB, func(tx *sql.Tx) error {
		if err := h.Gate.WithStore(repository.NewLockingGrantStore(tx, h.Driver)).Authorize(ctx, user, accessName); err != nil {
			return err
		}
		return fn(tx)
	})
}

func (h *QuestionHandler) Search(c echo.Context) error {
	s, err := model.ParseQuestionSearch(c.QueryParams())
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	list, err := h.Questions.Search(ctx, s)
	if err != nil {
		return errors.Trace(err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *QuestionHandler) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	q, err := h.Questions.Get(ctx, id)
	if err != nil {
		return errors.Trace(err)
	}
	return c.JSON(http.StatusOK, q)
}

// Create adds a question to an existing category.
func (h *QuestionHandler) Create(c echo.Context) error {
	var req model.NewQuestion
	if err := bindBody(c, &req); err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	var created model.Question
	err := h.guarded(ctx, c, gate.CreateQuestions, func(tx *sql.Tx) error {
		if err := validateQuestion(req); err != nil {
			return err
		}
		_, err := repository.NewQuestionCategoryRepo(tx).Get(ctx, req.CategoryID)
		if errors.Is(err, errors.NotFound) {
			return errors.NotValidf("category %d", req.CategoryID)
		}
		if err != nil {
			return errors.Trace(err)
		}
		created, err = repository.NewQuestionRepo(tx, h.Logger).Create(ctx, req)
		return errors.Trace(err)
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, created)
}

// Delete removes a question.  Deleting a missing question succeeds.
func (h *QuestionHandler) Delete(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	err = h.guarded(ctx, c, gate.DeleteQuestions, func(tx *sql.Tx) error {
		return repository.NewQuestionRepo(tx, h.Logger).Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func validateQuestion(q model.NewQuestion) error {
	if q.CategoryID == 0 {
		return errors.NotValidf("question without category_id")
	}
	for _, s := range []string{q.Title, q.CorrectAnswer, q.IncorrectAnswer1, q.IncorrectAnswer2, q.IncorrectAnswer3} {
		if strings.TrimSpace(s) == "" {
			return errors.NotValidf("question with empty title or answer")
		}
	}
	return nil
}

// ListCategories is public and served through the response cache.
func (h *QuestionHandler) ListCategories(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()
	list, err := h.Categories.List(ctx)
	if err != nil {
		return errors.Trace(err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *QuestionHandler) CreateCategory(c echo.Context) error {
	var req model.NewQuestionCategory
	if err := bindBody(c, &req); err != nil {
		return err
	}
	if strings.TrimSpace(req.Title) == "" {
		return errors.NotValidf("category without title")
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	qc, err := h.Categories.Create(ctx, req)
	if err != nil {
		return errors.Trace(err)
	}
	h.invalidateCategories(ctx)
	return c.JSON(http.StatusCreated, qc)
}

// DeleteCategory removes a category together with its questions.
func (h *QuestionHandler) DeleteCategory(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	if err := h.Categories.Delete(ctx, id); err != nil {
		return errors.Trace(err)
	}
	h.invalidateCategories(ctx)
	return c.NoContent(http.StatusNoContent)
}

func (h *QuestionHandler) invalidateCategories(ctx context.Context) {
	if err := h.Cache.Invalidate(ctx, CategoriesRoute); err != nil {
		h.Logger.Warn("dropping cached categories failed", zap.Error(err))
	}
}
