package util

import (
	"strings"

	"github.com/google/uuid"
)

// QuizTokenLength is the length of the short opaque token naming a quiz.
const QuizTokenLength = 8

// NewQuizToken returns a short opaque quiz identifier. Quiz tokens are typed
// by students, so they are kept short; uniqueness is enforced by the primary
// key on the quizzes table.
func NewQuizToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:QuizTokenLength]
}
