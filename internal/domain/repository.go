package domain

import "context"

// QuizRepository defines persistence operations for quizzes and their
// questions. Implementations return (nil, nil) when an entity is not found;
// services decide whether that is an error.
type QuizRepository interface {
	SaveQuiz(ctx context.Context, quiz *Quiz) error
	GetQuizByID(ctx context.Context, id string) (*Quiz, error)
	SaveQuestions(ctx context.Context, quizID string, questions []*Question) error
	GetQuestionsByQuizID(ctx context.Context, quizID string) ([]*Question, error)
}

// StudentRepository defines persistence operations for students of a quiz.
type StudentRepository interface {
	// EnsureStudent creates the (quizID, name) row if it does not exist.
	// A second call for the same pair is a no-op.
	EnsureStudent(ctx context.Context, quizID, name string) error

	// SetResult writes score and finished=true for the named student.
	// It returns false (and no error) when the student never joined.
	SetResult(ctx context.Context, quizID, name string, score int) (bool, error)

	GetStudentsByQuizID(ctx context.Context, quizID string) ([]*Student, error)
}

// TransactionManager runs a function inside a storage transaction. The
// transaction is carried through the context to the repositories.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// TextGenerator is the port for the external generative text service. The
// call is bounded by the implementation's configured time budget; success is
// only ever returned within that budget.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
