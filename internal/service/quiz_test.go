package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"quizforge/internal/domain"
	"quizforge/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Manual Mocks ---

type MockQuizRepository struct {
	SaveQuizFunc             func(ctx context.Context, quiz *domain.Quiz) error
	GetQuizByIDFunc          func(ctx context.Context, id string) (*domain.Quiz, error)
	SaveQuestionsFunc        func(ctx context.Context, quizID string, questions []*domain.Question) error
	GetQuestionsByQuizIDFunc func(ctx context.Context, quizID string) ([]*domain.Question, error)
}

func (m *MockQuizRepository) SaveQuiz(ctx context.Context, quiz *domain.Quiz) error {
	if m.SaveQuizFunc != nil {
		return m.SaveQuizFunc(ctx, quiz)
	}
	panic("MockQuizRepository.SaveQuizFunc not implemented")
}
func (m *MockQuizRepository) GetQuizByID(ctx context.Context, id string) (*domain.Quiz, error) {
	if m.GetQuizByIDFunc != nil {
		return m.GetQuizByIDFunc(ctx, id)
	}
	panic("MockQuizRepository.GetQuizByIDFunc not implemented")
}
func (m *MockQuizRepository) SaveQuestions(ctx context.Context, quizID string, questions []*domain.Question) error {
	if m.SaveQuestionsFunc != nil {
		return m.SaveQuestionsFunc(ctx, quizID, questions)
	}
	panic("MockQuizRepository.SaveQuestionsFunc not implemented")
}
func (m *MockQuizRepository) GetQuestionsByQuizID(ctx context.Context, quizID string) ([]*domain.Question, error) {
	if m.GetQuestionsByQuizIDFunc != nil {
		return m.GetQuestionsByQuizIDFunc(ctx, quizID)
	}
	panic("MockQuizRepository.GetQuestionsByQuizIDFunc not implemented")
}

type MockStudentRepository struct {
	EnsureStudentFunc       func(ctx context.Context, quizID, name string) error
	SetResultFunc           func(ctx context.Context, quizID, name string, score int) (bool, error)
	GetStudentsByQuizIDFunc func(ctx context.Context, quizID string) ([]*domain.Student, error)
}

func (m *MockStudentRepository) EnsureStudent(ctx context.Context, quizID, name string) error {
	if m.EnsureStudentFunc != nil {
		return m.EnsureStudentFunc(ctx, quizID, name)
	}
	panic("MockStudentRepository.EnsureStudentFunc not implemented")
}
func (m *MockStudentRepository) SetResult(ctx context.Context, quizID, name string, score int) (bool, error) {
	if m.SetResultFunc != nil {
		return m.SetResultFunc(ctx, quizID, name, score)
	}
	panic("MockStudentRepository.SetResultFunc not implemented")
}
func (m *MockStudentRepository) GetStudentsByQuizID(ctx context.Context, quizID string) ([]*domain.Student, error) {
	if m.GetStudentsByQuizIDFunc != nil {
		return m.GetStudentsByQuizIDFunc(ctx, quizID)
	}
	panic("MockStudentRepository.GetStudentsByQuizIDFunc not implemented")
}

type MockTextGenerator struct {
	GenerateFunc func(ctx context.Context, prompt string) (string, error)
}

func (m *MockTextGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, prompt)
	}
	panic("MockTextGenerator.GenerateFunc not implemented")
}

// passthroughTxManager runs the function without a real transaction.
type passthroughTxManager struct {
	calls int
}

func (m *passthroughTxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	return fn(ctx)
}

// memoryCache is a map-backed domain.Cache for service tests.
type memoryCache struct {
	data map[string]string
	sets int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: map[string]string{}}
}

func (c *memoryCache) Get(ctx context.Context, key string) (string, error) {
	v, ok := c.data[key]
	if !ok {
		return "", domain.ErrCacheMiss
	}
	return v, nil
}
func (c *memoryCache) Set(ctx context.Context, key, value string, _ time.Duration) error {
	c.sets++
	c.data[key] = value
	return nil
}
func (c *memoryCache) Delete(ctx context.Context, key string) error {
	delete(c.data, key)
	return nil
}
func (c *memoryCache) Ping(ctx context.Context) error { return nil }

const validModelOutput = `Q1: 2+2?
A. 3
B. 4
C. 5
D. 6
Answer: B
Explanation: math

Q2: Capital of France?
A. London
B. Paris
C. Berlin
D. Madrid
Answer: B
Explanation: geography
`

func domainCode(t *testing.T, err error) domain.ErrorCode {
	t.Helper()
	var de *domain.DomainError
	require.ErrorAs(t, err, &de)
	return de.Code
}

// --- GenerateQuiz ---

func TestGenerateQuiz_HappyPath(t *testing.T) {
	var savedQuiz *domain.Quiz
	var savedQuestions []*domain.Question

	quizRepo := &MockQuizRepository{
		SaveQuizFunc: func(ctx context.Context, quiz *domain.Quiz) error {
			savedQuiz = quiz
			return nil
		},
		SaveQuestionsFunc: func(ctx context.Context, quizID string, questions []*domain.Question) error {
			savedQuestions = questions
			return nil
		},
	}
	generator := &MockTextGenerator{
		GenerateFunc: func(ctx context.Context, prompt string) (string, error) {
			assert.Contains(t, prompt, "Generate 2 multiple-choice questions.")
			assert.Contains(t, prompt, "source text about arithmetic")
			return validModelOutput, nil
		},
	}
	tx := &passthroughTxManager{}
	svc := NewQuizService(quizRepo, &MockStudentRepository{}, generator, tx, nil, 0)

	resp, err := svc.GenerateQuiz(context.Background(), "source text about arithmetic", 2, 10)
	require.NoError(t, err)

	assert.Equal(t, 2, resp.Count)
	assert.Equal(t, 10, resp.Time)
	assert.Len(t, resp.QuizID, 8, "quiz token is a short opaque identifier")

	require.NotNil(t, savedQuiz)
	assert.Equal(t, resp.QuizID, savedQuiz.ID)
	assert.Equal(t, 10, savedQuiz.TimeLimit)

	require.Len(t, savedQuestions, 2)
	assert.Equal(t, "2+2?", savedQuestions[0].Question)
	assert.Equal(t, []string{"3", "4", "5", "6"}, savedQuestions[0].Options)
	assert.Equal(t, "B", savedQuestions[0].AnswerLetter)
	assert.Equal(t, 1, tx.calls, "quiz and questions are committed together")
}

func TestGenerateQuiz_NoUsableQuestions(t *testing.T) {
	saveCalled := false
	quizRepo := &MockQuizRepository{
		SaveQuizFunc: func(ctx context.Context, quiz *domain.Quiz) error {
			saveCalled = true
			return nil
		},
	}
	generator := &MockTextGenerator{
		GenerateFunc: func(ctx context.Context, prompt string) (string, error) {
			return "I cannot generate questions from this text.", nil
		},
	}
	svc := NewQuizService(quizRepo, &MockStudentRepository{}, generator, &passthroughTxManager{}, nil, 0)

	_, err := svc.GenerateQuiz(context.Background(), "text", 5, 5)
	require.Error(t, err)
	assert.Equal(t, domain.ErrNoQuestions, domainCode(t, err))
	assert.False(t, saveCalled, "no quiz may be persisted with zero questions")
}

func TestGenerateQuiz_GeneratorErrorPropagates(t *testing.T) {
	generator := &MockTextGenerator{
		GenerateFunc: func(ctx context.Context, prompt string) (string, error) {
			return "", domain.NewLLMTimeoutError(context.DeadlineExceeded)
		},
	}
	svc := NewQuizService(&MockQuizRepository{}, &MockStudentRepository{}, generator, &passthroughTxManager{}, nil, 0)

	_, err := svc.GenerateQuiz(context.Background(), "text", 5, 5)
	require.Error(t, err)
	assert.Equal(t, domain.ErrLLMTimeout, domainCode(t, err))
}

func TestGenerateQuiz_TransactionFailureRollsUp(t *testing.T) {
	quizRepo := &MockQuizRepository{
		SaveQuizFunc: func(ctx context.Context, quiz *domain.Quiz) error {
			return errors.New("disk full")
		},
	}
	generator := &MockTextGenerator{
		GenerateFunc: func(ctx context.Context, prompt string) (string, error) {
			return validModelOutput, nil
		},
	}
	svc := NewQuizService(quizRepo, &MockStudentRepository{}, generator, &passthroughTxManager{}, nil, 0)

	_, err := svc.GenerateQuiz(context.Background(), "text", 2, 5)
	require.Error(t, err)
	assert.Equal(t, domain.ErrInternal, domainCode(t, err))
}

// --- GetQuiz ---

func storedQuestions() []*domain.Question {
	return []*domain.Question{
		{Position: 0, Question: "2+2?", Options: []string{"3", "4", "5", "6"}, AnswerLetter: "B", Explanation: "math"},
		{Position: 1, Question: "Capital of France?", Options: []string{"London", "Paris", "Berlin", "Madrid"}, AnswerLetter: "B", Explanation: "geography"},
	}
}

func TestGetQuiz_WithholdsAnswerKeys(t *testing.T) {
	quizRepo := &MockQuizRepository{
		GetQuizByIDFunc: func(ctx context.Context, id string) (*domain.Quiz, error) {
			return &domain.Quiz{ID: id, TimeLimit: 5}, nil
		},
		GetQuestionsByQuizIDFunc: func(ctx context.Context, quizID string) ([]*domain.Question, error) {
			return storedQuestions(), nil
		},
	}
	svc := NewQuizService(quizRepo, &MockStudentRepository{}, &MockTextGenerator{}, &passthroughTxManager{}, nil, 0)

	resp, err := svc.GetQuiz(context.Background(), "ab12cd34")
	require.NoError(t, err)
	assert.Equal(t, "ab12cd34", resp.QuizID)
	assert.Equal(t, 5, resp.Time)
	require.Len(t, resp.Questions, 2)
	assert.Equal(t, "2+2?", resp.Questions[0].Q)

	payload, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.NotContains(t, string(payload), "Answer")
	assert.NotContains(t, string(payload), "answer_letter")
}

func TestGetQuiz_UnknownIDIsNotFound(t *testing.T) {
	quizRepo := &MockQuizRepository{
		GetQuizByIDFunc: func(ctx context.Context, id string) (*domain.Quiz, error) {
			return nil, nil
		},
	}
	svc := NewQuizService(quizRepo, &MockStudentRepository{}, &MockTextGenerator{}, &passthroughTxManager{}, nil, 0)

	_, err := svc.GetQuiz(context.Background(), "unknown1")
	require.Error(t, err, "unknown quiz must be a not-found error, not an empty-questions success")
	assert.Equal(t, domain.ErrQuizNotFound, domainCode(t, err))
}

func TestGetQuiz_ReadThroughCache(t *testing.T) {
	storeReads := 0
	quizRepo := &MockQuizRepository{
		GetQuizByIDFunc: func(ctx context.Context, id string) (*domain.Quiz, error) {
			storeReads++
			return &domain.Quiz{ID: id, TimeLimit: 5}, nil
		},
		GetQuestionsByQuizIDFunc: func(ctx context.Context, quizID string) ([]*domain.Question, error) {
			return storedQuestions(), nil
		},
	}
	quizCache := newMemoryCache()
	svc := NewQuizService(quizRepo, &MockStudentRepository{}, &MockTextGenerator{}, &passthroughTxManager{}, quizCache, time.Minute)

	first, err := svc.GetQuiz(context.Background(), "ab12cd34")
	require.NoError(t, err)
	second, err := svc.GetQuiz(context.Background(), "ab12cd34")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, storeReads, "second read is served from the cache")
	assert.Equal(t, 1, quizCache.sets)
}

// --- JoinQuiz ---

func TestJoinQuiz_Success(t *testing.T) {
	ensured := 0
	quizRepo := &MockQuizRepository{
		GetQuizByIDFunc: func(ctx context.Context, id string) (*domain.Quiz, error) {
			return &domain.Quiz{ID: id, TimeLimit: 5}, nil
		},
	}
	studentRepo := &MockStudentRepository{
		EnsureStudentFunc: func(ctx context.Context, quizID, name string) error {
			ensured++
			return nil
		},
	}
	svc := NewQuizService(quizRepo, studentRepo, &MockTextGenerator{}, &passthroughTxManager{}, nil, 0)

	// Joining twice succeeds both times.
	for i := 0; i < 2; i++ {
		resp, err := svc.JoinQuiz(context.Background(), "ab12cd34", "alice")
		require.NoError(t, err)
		assert.True(t, resp.Success)
	}
	assert.Equal(t, 2, ensured)
}

func TestJoinQuiz_UnknownQuiz(t *testing.T) {
	quizRepo := &MockQuizRepository{
		GetQuizByIDFunc: func(ctx context.Context, id string) (*domain.Quiz, error) {
			return nil, nil
		},
	}
	svc := NewQuizService(quizRepo, &MockStudentRepository{}, &MockTextGenerator{}, &passthroughTxManager{}, nil, 0)

	_, err := svc.JoinQuiz(context.Background(), "unknown1", "alice")
	require.Error(t, err)
	assert.Equal(t, domain.ErrQuizNotFound, domainCode(t, err))
}

// --- SubmitQuiz ---

func TestSubmitQuiz_GradesAndPersists(t *testing.T) {
	var persistedScore int
	quizRepo := &MockQuizRepository{
		GetQuestionsByQuizIDFunc: func(ctx context.Context, quizID string) ([]*domain.Question, error) {
			return storedQuestions(), nil
		},
	}
	studentRepo := &MockStudentRepository{
		SetResultFunc: func(ctx context.Context, quizID, name string, score int) (bool, error) {
			persistedScore = score
			return true, nil
		},
	}
	svc := NewQuizService(quizRepo, studentRepo, &MockTextGenerator{}, &passthroughTxManager{}, nil, 0)

	resp, err := svc.SubmitQuiz(context.Background(), "ab12cd34", &dto.SubmitQuizRequest{
		Name:    "alice",
		Answers: map[string]string{"0": "B", "1": "A"},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, resp.Score)
	assert.Equal(t, 2, resp.Total)
	assert.Equal(t, 1, persistedScore)
	require.Len(t, resp.Results, 2)
	assert.True(t, resp.Results[0].IsCorrect)
	assert.False(t, resp.Results[1].IsCorrect)
	assert.Equal(t, "B", resp.Results[1].Correct)
}

func TestSubmitQuiz_UnjoinedNameStillGetsScore(t *testing.T) {
	quizRepo := &MockQuizRepository{
		GetQuestionsByQuizIDFunc: func(ctx context.Context, quizID string) ([]*domain.Question, error) {
			return storedQuestions(), nil
		},
	}
	studentRepo := &MockStudentRepository{
		SetResultFunc: func(ctx context.Context, quizID, name string, score int) (bool, error) {
			return false, nil // never joined
		},
	}
	svc := NewQuizService(quizRepo, studentRepo, &MockTextGenerator{}, &passthroughTxManager{}, nil, 0)

	resp, err := svc.SubmitQuiz(context.Background(), "ab12cd34", &dto.SubmitQuizRequest{
		Name:    "ghost",
		Answers: map[string]string{"0": "B", "1": "B"},
	})
	require.NoError(t, err, "persistence is silently skipped for unknown names")
	assert.Equal(t, 2, resp.Score)
}

// --- GetAdminView ---

func TestGetAdminView(t *testing.T) {
	studentRepo := &MockStudentRepository{
		GetStudentsByQuizIDFunc: func(ctx context.Context, quizID string) ([]*domain.Student, error) {
			return []*domain.Student{
				{Name: "alice", Score: 2, Finished: true},
				{Name: "bob", Score: 0, Finished: false},
			}, nil
		},
	}
	svc := NewQuizService(&MockQuizRepository{}, studentRepo, &MockTextGenerator{}, &passthroughTxManager{}, nil, 0)

	resp, err := svc.GetAdminView(context.Background(), "ab12cd34")
	require.NoError(t, err)
	assert.Equal(t, "ab12cd34", resp.QuizID)
	require.Len(t, resp.Students, 2)
	assert.Equal(t, dto.StudentResult{Name: "alice", Score: 2, Finished: true}, resp.Students[0])
}
