package domain

import "time"

// Quiz is the aggregate root. It is created once per generation request and
// never mutated afterwards; Questions and Students are only reachable through
// their owning quiz.
type Quiz struct {
	ID        string // short opaque token
	TimeLimit int    // minutes
	CreatedAt time.Time
}

// Question belongs to exactly one Quiz. Position is its 0-based ordinal and is
// load-bearing: submitted answers are matched to questions by index.
type Question struct {
	ID           string
	QuizID       string
	Position     int
	Question     string
	Options      []string // exactly four, display order A-D
	AnswerLetter string   // one of A, B, C, D
	Explanation  string
	CreatedAt    time.Time
}

// Student belongs to exactly one Quiz. Name is unique per quiz; joining twice
// with the same name is idempotent. Score and Finished are written on submit.
type Student struct {
	ID        string
	QuizID    string
	Name      string
	Score     int
	Finished  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
