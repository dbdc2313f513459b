package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/juju/errors"
	"go.uber.org/zap"

	"github.com/iliyamo/labquiz/internal/model"
	"github.com/iliyamo/labquiz/internal/search"
)

const questionColumns = "id, category_id, title, correct_answer, incorrect_answer_1, incorrect_answer_2, incorrect_answer_3"

// QuestionRepo persists quiz questions.
type QuestionRepo struct {
	db     DBTX
	logger *zap.Logger
}

func NewQuestionRepo(db DBTX, logger *zap.Logger) *QuestionRepo {
	return &QuestionRepo{db: db, logger: logger}
}

// Search lists questions matching s. An empty search lists every question.
func (r *QuestionRepo) Search(ctx context.Context, s model.QuestionSearch) (model.QuestionList, error) {
	f := search.NewFilter(r.logger)
	search.Number(f, "category_id", s.CategoryID)
	f.Text("title", s.Title)
	where, args := f.Where()
	return r.list(ctx, "SELECT "+questionColumns+" FROM questions"+where+" ORDER BY id", args...)
}

// ListByCategory returns the questions of one category.
func (r *QuestionRepo) ListByCategory(ctx context.Context, categoryID uint64) (model.QuestionList, error) {
	return r.list(ctx, "SELECT "+questionColumns+" FROM questions WHERE category_id = ? ORDER BY id", categoryID)
}

func (r *QuestionRepo) list(ctx context.Context, q string, args ...any) (model.QuestionList, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return model.QuestionList{}, errors.Annotate(err, "listing questions")
	}
	defer rows.Close()

	out := model.QuestionList{Questions: []model.Question{}}
	for rows.Next() {
		var qu model.Question
		if err := scanQuestion(rows, &qu); err != nil {
			return model.QuestionList{}, errors.Trace(err)
		}
		out.Questions = append(out.Questions, qu)
	}
	return out, errors.Trace(rows.Err())
}

func (r *QuestionRepo) Get(ctx context.Context, id uint64) (model.Question, error) {
	var qu model.Question
	err := scanQuestion(r.db.QueryRowContext(ctx, "SELECT "+questionColumns+" FROM questions WHERE id = ?", id), &qu)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Question{}, errors.NotFoundf("question %d", id)
	}
	return qu, errors.Trace(err)
}

// CorrectAnswers maps each of ids that exists to its correct answer.
func (r *QuestionRepo) CorrectAnswers(ctx context.Context, ids []uint64) (map[uint64]string, error) {
	out := make(map[uint64]string, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	marks := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	rows, err := r.db.QueryContext(ctx, "SELECT id, correct_answer FROM questions WHERE id IN ("+marks+")", args...)
	if err != nil {
		return nil, errors.Annotate(err, "loading correct answers")
	}
	defer rows.Close()
	for rows.Next() {
		var (
			id     uint64
			answer string
		)
		if err := rows.Scan(&id, &answer); err != nil {
			return nil, errors.Trace(err)
		}
		out[id] = answer
	}
	return out, errors.Trace(rows.Err())
}

func (r *QuestionRepo) Create(ctx context.Context, q model.NewQuestion) (model.Question, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO questions (category_id, title, correct_answer, incorrect_answer_1, incorrect_answer_2, incorrect_answer_3)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		q.CategoryID, q.Title, q.CorrectAnswer, q.IncorrectAnswer1, q.IncorrectAnswer2, q.IncorrectAnswer3)
	if err != nil {
		return model.Question{}, translate(err, "creating question")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Question{}, errors.Trace(err)
	}
	return r.Get(ctx, uint64(id))
}

// Delete removes a question. Deleting a missing id is not an error.
func (r *QuestionRepo) Delete(ctx context.Context, id uint64) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM questions WHERE id = ?", id)
	return errors.Annotatef(err, "deleting question %d", id)
}

func scanQuestion(row rowScanner, q *model.Question) error {
	return row.Scan(&q.ID, &q.CategoryID, &q.Title, &q.CorrectAnswer,
		&q.IncorrectAnswer1, &q.IncorrectAnswer2, &q.IncorrectAnswer3)
}

// QuestionCategoryRepo persists rows of `question_categories`.
type QuestionCategoryRepo struct {
	db DBTX
}

func NewQuestionCategoryRepo(db DBTX) *QuestionCategoryRepo { return &QuestionCategoryRepo{db: db} }

func (r *QuestionCategoryRepo) List(ctx context.Context) (model.QuestionCategoryList, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, title FROM question_categories ORDER BY id")
	if err != nil {
		return model.QuestionCategoryList{}, errors.Annotate(err, "listing question categories")
	}
	defer rows.Close()

	out := model.QuestionCategoryList{QuestionCategories: []model.QuestionCategory{}}
	for rows.Next() {
		var qc model.QuestionCategory
		if err := rows.Scan(&qc.ID, &qc.Title); err != nil {
			return model.QuestionCategoryList{}, errors.Trace(err)
		}
		out.QuestionCategories = append(out.QuestionCategories, qc)
	}
	return out, errors.Trace(rows.Err())
}

func (r *QuestionCategoryRepo) Get(ctx context.Context, id uint64) (model.QuestionCategory, error) {
	var qc model.QuestionCategory
	err := r.db.QueryRowContext(ctx, "SELECT id, title FROM question_categories WHERE id = ?", id).Scan(&qc.ID, &qc.Title)
	if errors.Is(err, sql.ErrNoRows) {
		return model.QuestionCategory{}, errors.NotFoundf("question category %d", id)
	}
	return qc, errors.Trace(err)
}

func (r *QuestionCategoryRepo) Create(ctx context.Context, qc model.NewQuestionCategory) (model.QuestionCategory, error) {
	title := strings.TrimSpace(qc.Title)
	if title == "" {
		return model.QuestionCategory{}, errors.NotValidf("empty category title")
	}
	res, err := r.db.ExecContext(ctx, "INSERT INTO question_categories (title) VALUES (?)", title)
	if err != nil {
		return model.QuestionCategory{}, translate(err, "creating question category")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.QuestionCategory{}, errors.Trace(err)
	}
	return r.Get(ctx, uint64(id))
}

func (r *QuestionCategoryRepo) Delete(ctx context.Context, id uint64) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM question_categories WHERE id = ?", id)
	return errors.Annotatef(err, "deleting question category %d", id)
}
