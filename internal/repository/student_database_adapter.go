package repository

import (
	"context"
	"fmt"
	"time"

	"quizforge/internal/domain"
	"quizforge/internal/repository/models"
	"quizforge/internal/util"

	"github.com/jmoiron/sqlx"
)

// StudentDatabaseAdapter implements domain.StudentRepository using sqlx.
type StudentDatabaseAdapter struct {
	db *sqlx.DB
}

// NewStudentDatabaseAdapter creates a new instance of StudentDatabaseAdapter.
func NewStudentDatabaseAdapter(db *sqlx.DB) domain.StudentRepository {
	return &StudentDatabaseAdapter{db: db}
}

// EnsureStudent implements domain.StudentRepository. The conflict target is
// the (quiz_id, name) unique constraint, so concurrent joins with the same
// name are serialized by the store and leave exactly one row.
func (a *StudentDatabaseAdapter) EnsureStudent(ctx context.Context, quizID, name string) error {
	query := `INSERT INTO students (id, quiz_id, name, score, finished, created_at, updated_at)
	VALUES (?, ?, ?, 0, 0, ?, ?)
	ON CONFLICT (quiz_id, name) DO NOTHING`

	now := time.Now()
	ex := GetExecutor(ctx, a.db)
	if _, err := ex.ExecContext(ctx, query, util.NewULID(), quizID, name, now, now); err != nil {
		return fmt.Errorf("failed to ensure student %q for quiz %s: %w", name, quizID, err)
	}
	return nil
}

// SetResult implements domain.StudentRepository. A repeated submit for the
// same student overwrites the previous score (idempotent overwrite, not
// accumulation). Returns false when the name never joined the quiz.
func (a *StudentDatabaseAdapter) SetResult(ctx context.Context, quizID, name string, score int) (bool, error) {
	query := `UPDATE students SET score = ?, finished = 1, updated_at = ?
	WHERE quiz_id = ? AND name = ?`

	ex := GetExecutor(ctx, a.db)
	result, err := ex.ExecContext(ctx, query, score, time.Now(), quizID, name)
	if err != nil {
		return false, fmt.Errorf("failed to set result for student %q in quiz %s: %w", name, quizID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return affected > 0, nil
}

// GetStudentsByQuizID implements domain.StudentRepository.
func (a *StudentDatabaseAdapter) GetStudentsByQuizID(ctx context.Context, quizID string) ([]*domain.Student, error) {
	var modelStudents []models.Student
	query := `SELECT id, quiz_id, name, score, finished, created_at, updated_at
	FROM students WHERE quiz_id = ? ORDER BY created_at ASC`

	ex := GetExecutor(ctx, a.db)
	if err := sqlx.SelectContext(ctx, ex, &modelStudents, query, quizID); err != nil {
		return nil, fmt.Errorf("failed to get students for quiz %s: %w", quizID, err)
	}

	students := make([]*domain.Student, 0, len(modelStudents))
	for i := range modelStudents {
		students = append(students, toDomainStudent(&modelStudents[i]))
	}
	return students, nil
}

func toDomainStudent(m *models.Student) *domain.Student {
	if m == nil {
		return nil
	}
	return &domain.Student{
		ID:        m.ID,
		QuizID:    m.QuizID,
		Name:      m.Name,
		Score:     m.Score,
		Finished:  m.Finished,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
