package model

import (
	"net/url"

	"github.com/iliyamo/labquiz/internal/search"
)

// Question is a multiple choice quiz question with one correct and three
// incorrect answers. Rows live in the `questions` table.
type Question struct {
	ID               uint64 `json:"id"`
	CategoryID       uint64 `json:"category_id"`
	Title            string `json:"title"`
	CorrectAnswer    string `json:"correct_answer"`
	IncorrectAnswer1 string `json:"incorrect_answer_1"`
	IncorrectAnswer2 string `json:"incorrect_answer_2"`
	IncorrectAnswer3 string `json:"incorrect_answer_3"`
}

type NewQuestion struct {
	CategoryID       uint64 `json:"category_id"`
	Title            string `json:"title"`
	CorrectAnswer    string `json:"correct_answer"`
	IncorrectAnswer1 string `json:"incorrect_answer_1"`
	IncorrectAnswer2 string `json:"incorrect_answer_2"`
	IncorrectAnswer3 string `json:"incorrect_answer_3"`
}

type QuestionSearch struct {
	CategoryID search.Term[uint64]
	Title      search.Term[string]
}

type QuestionList struct {
	Questions []Question `json:"questions"`
}

// AnonymousQuestion is a question as shown to a quiz taker: the answers are
// shuffled and the correct one is not identified.
type AnonymousQuestion struct {
	ID      uint64 `json:"id"`
	Title   string `json:"title"`
	Answer1 string `json:"answer_1"`
	Answer2 string `json:"answer_2"`
	Answer3 string `json:"answer_3"`
	Answer4 string `json:"answer_4"`
}

type AnonymousQuestionList struct {
	Questions []AnonymousQuestion `json:"questions"`
}

// ResponseQuestion is a quiz taker's answer to one question.
type ResponseQuestion struct {
	ID     uint64 `json:"id"`
	Answer string `json:"answer"`
}

type ResponseQuestionList struct {
	Questions []ResponseQuestion `json:"questions"`
}

// QuestionCategory groups questions into a quiz.
type QuestionCategory struct {
	ID    uint64 `json:"id"`
	Title string `json:"title"`
}

type NewQuestionCategory struct {
	Title string `json:"title"`
}

type QuestionCategoryList struct {
	QuestionCategories []QuestionCategory `json:"question_categories"`
}

func ParseQuestionSearch(values url.Values) (QuestionSearch, error) {
	b := search.NewBinder(values)
	s := QuestionSearch{
		CategoryID: search.BindTerm(b, "category_id", search.Uint64),
		Title:      search.BindTerm(b, "title", search.String),
	}
	return s, b.Err()
}
