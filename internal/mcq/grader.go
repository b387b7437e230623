package mcq

import (
	"strconv"

	"quizforge/internal/domain"
)

// GradedQuestion is the per-question outcome of grading one submission.
type GradedQuestion struct {
	Question    string
	Options     []string
	Selected    *string // nil when the student made no selection
	Correct     string
	IsCorrect   bool
	Explanation string
}

// Grade scores a submitted answer map against the stored questions. Answers
// are keyed by the question's 0-based ordinal as a decimal string ("0", "1",
// ...); a missing key counts as no selection and is never correct. The letter
// comparison is exact and case-sensitive. Grade is pure: persisting the score
// is the caller's concern.
func Grade(questions []*domain.Question, submitted map[string]string) (int, []GradedQuestion) {
	score := 0
	results := make([]GradedQuestion, 0, len(questions))

	for i, q := range questions {
		var selected *string
		if s, ok := submitted[strconv.Itoa(i)]; ok {
			selected = &s
		}

		isCorrect := selected != nil && *selected == q.AnswerLetter
		if isCorrect {
			score++
		}

		results = append(results, GradedQuestion{
			Question:    q.Question,
			Options:     q.Options,
			Selected:    selected,
			Correct:     q.AnswerLetter,
			IsCorrect:   isCorrect,
			Explanation: q.Explanation,
		})
	}

	return score, results
}
