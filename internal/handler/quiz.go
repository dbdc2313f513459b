package handler

import (
	"math/rand"
	"net/http"
	"strings"

	"github.com/juju/errors"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/labquiz/internal/model"
	"github.com/iliyamo/labquiz/internal/repository"
)

// QuizHandler serves /v1/quiz: questions are handed out with shuffled
// answers and graded on submission.
type QuizHandler struct {
	Questions  *repository.QuestionRepo
	Categories *repository.QuestionCategoryRepo
	shuffle    func(n int, swap func(i, j int))
}

func NewQuizHandler(questions *repository.QuestionRepo, categories *repository.QuestionCategoryRepo) *QuizHandler {
	return &QuizHandler{Questions: questions, Categories: categories, shuffle: rand.Shuffle}
}

// Take returns the questions of a category without marking the correct
// answer.
func (h *QuizHandler) Take(c echo.Context) error {
	categoryID, err := parseID(c, "category_id")
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	if _, err := h.Categories.Get(ctx, categoryID); err != nil {
		return errors.Trace(err)
	}
	list, err := h.Questions.ListByCategory(ctx, categoryID)
	if err != nil {
		return errors.Trace(err)
	}

	out := model.AnonymousQuestionList{Questions: make([]model.AnonymousQuestion, 0, len(list.Questions))}
	for _, q := range list.Questions {
		out.Questions = append(out.Questions, h.anonymize(q))
	}
	return c.JSON(http.StatusOK, out)
}

func (h *QuizHandler) anonymize(q model.Question) model.AnonymousQuestion {
	answers := []string{q.CorrectAnswer, q.IncorrectAnswer1, q.IncorrectAnswer2, q.IncorrectAnswer3}
	h.shuffle(len(answers), func(i, j int) { answers[i], answers[j] = answers[j], answers[i] })
	return model.AnonymousQuestion{
		ID:      q.ID,
		Title:   q.Title,
		Answer1: answers[0],
		Answer2: answers[1],
		Answer3: answers[2],
		Answer4: answers[3],
	}
}

type gradeResp struct {
	Correct int `json:"correct"`
	Total   int `json:"total"`
}

// Grade counts the responses that match the stored correct answer.  Unknown
// question ids count as wrong.
func (h *QuizHandler) Grade(c echo.Context) error {
	var req model.ResponseQuestionList
	if err := bindBody(c, &req); err != nil {
		return err
	}
	if len(req.Questions) == 0 {
		return errors.NotValidf("empty quiz response")
	}
	// The first answer given for a question counts; repeats are ignored.
	answers := make(map[uint64]string, len(req.Questions))
	ids := make([]uint64, 0, len(req.Questions))
	for _, r := range req.Questions {
		if _, seen := answers[r.ID]; seen {
			continue
		}
		answers[r.ID] = strings.TrimSpace(r.Answer)
		ids = append(ids, r.ID)
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	correct, err := h.Questions.CorrectAnswers(ctx, ids)
	if err != nil {
		return errors.Trace(err)
	}

	resp := gradeResp{Total: len(ids)}
	for _, id := range ids {
		if want, ok := correct[id]; ok && answers[id] == want {
			resp.Correct++
		}
	}
	return c.JSON(http.StatusOK, resp)
}
