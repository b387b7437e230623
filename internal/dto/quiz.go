package dto

// GenerateQuizResponse is returned after a successful generation request.
type GenerateQuizResponse struct {
	QuizID string `json:"quiz_id"`
	Count  int    `json:"count"`
	Time   int    `json:"time"`
}

// QuizQuestion is one question as shown to students. Answer keys are
// deliberately withheld.
type QuizQuestion struct {
	Q       string   `json:"q"`
	Options []string `json:"options"`
}

// QuizResponse is the student-facing view of a quiz.
type QuizResponse struct {
	QuizID    string         `json:"quiz_id"`
	Time      int            `json:"time"`
	Questions []QuizQuestion `json:"questions"`
}

// JoinQuizRequest is the body of a join request.
type JoinQuizRequest struct {
	Name string `json:"name"`
}

// JoinQuizResponse acknowledges a (possibly repeated) join.
type JoinQuizResponse struct {
	Success bool `json:"success"`
}

// SubmitQuizRequest carries a student's answers, keyed by the question's
// 0-based index as a decimal string.
type SubmitQuizRequest struct {
	Name    string            `json:"name"`
	Answers map[string]string `json:"answers"`
}

// AnswerResult is the per-question grading outcome.
type AnswerResult struct {
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	Selected    *string  `json:"selected"` // null when nothing was selected
	Correct     string   `json:"correct"`
	IsCorrect   bool     `json:"isCorrect"`
	Explanation string   `json:"explanation"`
}

// SubmitQuizResponse is the graded submission.
type SubmitQuizResponse struct {
	Score   int            `json:"score"`
	Total   int            `json:"total"`
	Results []AnswerResult `json:"results"`
}

// StudentResult is one row of the admin view.
type StudentResult struct {
	Name     string `json:"name"`
	Score    int    `json:"score"`
	Finished bool   `json:"finished"`
}

// AdminResponse is the admin view of a quiz's students.
type AdminResponse struct {
	QuizID   string          `json:"quiz_id"`
	Students []StudentResult `json:"students"`
}

// ErrorResponse represents an error in the API response
type ErrorResponse struct {
	Error string `json:"error"`
}
