package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"quizforge/internal/domain"
	"quizforge/internal/repository/models"
	"quizforge/internal/util"

	"github.com/jmoiron/sqlx"
)

// QuizDatabaseAdapter implements domain.QuizRepository using sqlx.
type QuizDatabaseAdapter struct {
	db *sqlx.DB
}

// NewQuizDatabaseAdapter creates a new instance of QuizDatabaseAdapter.
func NewQuizDatabaseAdapter(db *sqlx.DB) domain.QuizRepository {
	return &QuizDatabaseAdapter{db: db}
}

// SaveQuiz implements domain.QuizRepository.
func (a *QuizDatabaseAdapter) SaveQuiz(ctx context.Context, quiz *domain.Quiz) error {
	if quiz == nil {
		return fmt.Errorf("cannot save nil quiz")
	}
	if quiz.CreatedAt.IsZero() {
		quiz.CreatedAt = time.Now()
	}

	query := `INSERT INTO quizzes (id, time_limit, created_at) VALUES (?, ?, ?)`

	ex := GetExecutor(ctx, a.db)
	if _, err := ex.ExecContext(ctx, query, quiz.ID, quiz.TimeLimit, quiz.CreatedAt); err != nil {
		return fmt.Errorf("failed to save quiz: %w", err)
	}
	return nil
}

// GetQuizByID implements domain.QuizRepository. Returns (nil, nil) when the
// quiz does not exist.
func (a *QuizDatabaseAdapter) GetQuizByID(ctx context.Context, id string) (*domain.Quiz, error) {
	var modelQuiz models.Quiz
	query := `SELECT id, time_limit, created_at FROM quizzes WHERE id = ?`

	ex := GetExecutor(ctx, a.db)
	err := sqlx.GetContext(ctx, ex, &modelQuiz, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get quiz by ID %s: %w", id, err)
	}
	return toDomainQuiz(&modelQuiz), nil
}

// SaveQuestions inserts the quiz's questions in parse order, assigning each
// its ordinal position. Called inside the same transaction as SaveQuiz so a
// partial quiz is never persisted.
func (a *QuizDatabaseAdapter) SaveQuestions(ctx context.Context, quizID string, questions []*domain.Question) error {
	query := `INSERT INTO questions (
		id, quiz_id, position, question, options, answer_letter, explanation, created_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	ex := GetExecutor(ctx, a.db)
	now := time.Now()

	for i, q := range questions {
		q.ID = util.NewULID()
		q.QuizID = quizID
		q.Position = i
		q.CreatedAt = now

		_, err := ex.ExecContext(ctx, query,
			q.ID,
			q.QuizID,
			q.Position,
			q.Question,
			models.StringSlice(q.Options),
			q.AnswerLetter,
			util.StringToNullString(q.Explanation),
			q.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to save question %d: %w", i, err)
		}
	}
	return nil
}

// GetQuestionsByQuizID implements domain.QuizRepository. Questions come back
// ordered by position; grading matches submitted answers by that order.
func (a *QuizDatabaseAdapter) GetQuestionsByQuizID(ctx context.Context, quizID string) ([]*domain.Question, error) {
	var modelQuestions []models.Question
	query := `SELECT id, quiz_id, position, question, options, answer_letter, explanation, created_at
	FROM questions WHERE quiz_id = ? ORDER BY position ASC`

	ex := GetExecutor(ctx, a.db)
	if err := sqlx.SelectContext(ctx, ex, &modelQuestions, query, quizID); err != nil {
		return nil, fmt.Errorf("failed to get questions for quiz %s: %w", quizID, err)
	}

	questions := make([]*domain.Question, 0, len(modelQuestions))
	for i := range modelQuestions {
		questions = append(questions, toDomainQuestion(&modelQuestions[i]))
	}
	return questions, nil
}

func toDomainQuiz(m *models.Quiz) *domain.Quiz {
	if m == nil {
		return nil
	}
	return &domain.Quiz{
		ID:        m.ID,
		TimeLimit: m.TimeLimit,
		CreatedAt: m.CreatedAt,
	}
}

func toDomainQuestion(m *models.Question) *domain.Question {
	if m == nil {
		return nil
	}
	return &domain.Question{
		ID:           m.ID,
		QuizID:       m.QuizID,
		Position:     m.Position,
		Question:     m.Question,
		Options:      []string(m.Options),
		AnswerLetter: m.AnswerLetter,
		Explanation:  util.NullStringToString(m.Explanation),
		CreatedAt:    m.CreatedAt,
	}
}
