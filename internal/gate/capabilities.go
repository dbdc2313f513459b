package gate

// Capability names checked by the handlers. Each must exist as a row of the
// access table; `labquiz bootstrap` registers them.
const (
	GetUsers    = "GetUsers"
	CreateUsers = "CreateUsers"
	UpdateUsers = "UpdateUsers"
	DeleteUsers = "DeleteUsers"

	GetAccess    = "GetAccess"
	CreateAccess = "CreateAccess"
	UpdateAccess = "UpdateAccess"
	DeleteAccess = "DeleteAccess"

	GetUserAccess    = "GetUserAccess"
	CreateUserAccess = "CreateUserAccess"
	UpdateUserAccess = "UpdateUserAccess"
	DeleteUserAccess = "DeleteUserAccess"

	GetChemicals    = "GetChemicals"
	CreateChemicals = "CreateChemicals"
	UpdateChemicals = "UpdateChemicals"
	DeleteChemicals = "DeleteChemicals"

	GetQuestions    = "GetQuestions"
	CreateQuestions = "CreateQuestions"
	DeleteQuestions = "DeleteQuestions"

	CreateQuestionCategories = "CreateQuestionCategories"
	DeleteQuestionCategories = "DeleteQuestionCategories"

	TakeQuiz = "TakeQuiz"
)

// Capabilities lists every capability name in registration order.
func Capabilities() []string {
	return []string{
		GetUsers, CreateUsers, UpdateUsers, DeleteUsers,
		GetAccess, CreateAccess, UpdateAccess, DeleteAccess,
		GetUserAccess, CreateUserAccess, UpdateUserAccess, DeleteUserAccess,
		GetChemicals, CreateChemicals, UpdateChemicals, DeleteChemicals,
		GetQuestions, CreateQuestions, DeleteQuestions,
		CreateQuestionCategories, DeleteQuestionCategories,
		TakeQuiz,
	}
}
