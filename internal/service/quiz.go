package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"quizforge/internal/cache"
	"quizforge/internal/domain"
	"quizforge/internal/dto"
	"quizforge/internal/logger"
	"quizforge/internal/mcq"
	"quizforge/internal/util"

	"go.uber.org/zap"
)

// QuizService defines the interface for quiz-related operations
type QuizService interface {
	GenerateQuiz(ctx context.Context, sourceText string, numQuestions, quizTime int) (*dto.GenerateQuizResponse, error)
	GetQuiz(ctx context.Context, quizID string) (*dto.QuizResponse, error)
	JoinQuiz(ctx context.Context, quizID, name string) (*dto.JoinQuizResponse, error)
	SubmitQuiz(ctx context.Context, quizID string, req *dto.SubmitQuizRequest) (*dto.SubmitQuizResponse, error)
	GetAdminView(ctx context.Context, quizID string) (*dto.AdminResponse, error)
}

// quizService implements QuizService
type quizService struct {
	quizRepo    domain.QuizRepository
	studentRepo domain.StudentRepository
	generator   domain.TextGenerator
	txManager   domain.TransactionManager
	quizCache   domain.Cache // nil when caching is disabled
	cacheTTL    time.Duration
}

// NewQuizService creates a new instance of quizService. quizCache may be nil,
// in which case quiz reads always hit the store.
func NewQuizService(
	quizRepo domain.QuizRepository,
	studentRepo domain.StudentRepository,
	generator domain.TextGenerator,
	txManager domain.TransactionManager,
	quizCache domain.Cache,
	cacheTTL time.Duration,
) QuizService {
	return &quizService{
		quizRepo:    quizRepo,
		studentRepo: studentRepo,
		generator:   generator,
		txManager:   txManager,
		quizCache:   quizCache,
		cacheTTL:    cacheTTL,
	}
}

// GenerateQuiz runs the full pipeline: prompt the model with the extracted
// source text, parse the raw response into validated question records, and
// persist quiz plus questions in one transaction. An empty parse result is a
// generation failure; nothing is persisted.
func (s *quizService) GenerateQuiz(ctx context.Context, sourceText string, numQuestions, quizTime int) (*dto.GenerateQuizResponse, error) {
	l := logger.Get()

	prompt := mcq.BuildPrompt(sourceText, numQuestions)
	raw, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	records := mcq.Parse(raw)
	if len(records) == 0 {
		l.Warn("Model response yielded no usable question blocks",
			zap.Int("requested", numQuestions),
			zap.Int("response_chars", len(raw)))
		return nil, domain.NewNoQuestionsError()
	}

	quiz := &domain.Quiz{
		ID:        util.NewQuizToken(),
		TimeLimit: quizTime,
	}

	questions := make([]*domain.Question, 0, len(records))
	for _, r := range records {
		questions = append(questions, &domain.Question{
			Question:     r.Question,
			Options:      r.Options,
			AnswerLetter: r.AnswerLetter,
			Explanation:  r.Explanation,
		})
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.quizRepo.SaveQuiz(txCtx, quiz); err != nil {
			return err
		}
		return s.quizRepo.SaveQuestions(txCtx, quiz.ID, questions)
	})
	if err != nil {
		return nil, domain.NewInternalError("Failed to persist generated quiz", err)
	}

	l.Info("Quiz generated",
		zap.String("quiz_id", quiz.ID),
		zap.Int("requested", numQuestions),
		zap.Int("parsed", len(records)))

	return &dto.GenerateQuizResponse{
		QuizID: quiz.ID,
		Count:  len(questions),
		Time:   quizTime,
	}, nil
}

// GetQuiz returns the student-facing view of a quiz, answer keys withheld.
// The payload is read-through cached: quizzes are immutable, and this
// endpoint is polled by every joined student.
func (s *quizService) GetQuiz(ctx context.Context, quizID string) (*dto.QuizResponse, error) {
	cacheKey := cache.GenerateCacheKey("quiz", "payload", quizID)

	if s.quizCache != nil {
		if cached, err := s.quizCache.Get(ctx, cacheKey); err == nil {
			var resp dto.QuizResponse
			if err := json.Unmarshal([]byte(cached), &resp); err == nil {
				return &resp, nil
			}
			// Unreadable payload: fall through to the store and rewrite.
		} else if !errors.Is(err, domain.ErrCacheMiss) {
			logger.Get().Warn("Quiz cache read failed", zap.Error(err), zap.String("quiz_id", quizID))
		}
	}

	quiz, err := s.quizRepo.GetQuizByID(ctx, quizID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to load quiz", err)
	}
	if quiz == nil {
		return nil, domain.NewQuizNotFoundError(quizID)
	}

	questions, err := s.quizRepo.GetQuestionsByQuizID(ctx, quizID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to load quiz questions", err)
	}

	resp := &dto.QuizResponse{
		QuizID:    quiz.ID,
		Time:      quiz.TimeLimit,
		Questions: make([]dto.QuizQuestion, 0, len(questions)),
	}
	for _, q := range questions {
		resp.Questions = append(resp.Questions, dto.QuizQuestion{
			Q:       q.Question,
			Options: q.Options,
		})
	}

	if s.quizCache != nil {
		if payload, err := json.Marshal(resp); err == nil {
			if err := s.quizCache.Set(ctx, cacheKey, string(payload), s.cacheTTL); err != nil {
				logger.Get().Warn("Quiz cache write failed", zap.Error(err), zap.String("quiz_id", quizID))
			}
		}
	}

	return resp, nil
}

// JoinQuiz idempotently registers a student on a quiz. Joining twice with the
// same name succeeds both times and leaves a single row.
func (s *quizService) JoinQuiz(ctx context.Context, quizID, name string) (*dto.JoinQuizResponse, error) {
	quiz, err := s.quizRepo.GetQuizByID(ctx, quizID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to load quiz", err)
	}
	if quiz == nil {
		return nil, domain.NewQuizNotFoundError(quizID)
	}

	if err := s.studentRepo.EnsureStudent(ctx, quizID, name); err != nil {
		return nil, domain.NewInternalError("Failed to join quiz", err)
	}

	return &dto.JoinQuizResponse{Success: true}, nil
}

// SubmitQuiz grades the submitted answers against the stored questions and
// persists the score onto the student row. Grading is pure; a name that never
// joined still gets its computed result back, the persistence step is just
// skipped.
func (s *quizService) SubmitQuiz(ctx context.Context, quizID string, req *dto.SubmitQuizRequest) (*dto.SubmitQuizResponse, error) {
	questions, err := s.quizRepo.GetQuestionsByQuizID(ctx, quizID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to load quiz questions", err)
	}

	score, graded := mcq.Grade(questions, req.Answers)

	persisted, err := s.studentRepo.SetResult(ctx, quizID, req.Name, score)
	if err != nil {
		return nil, domain.NewInternalError("Failed to persist score", err)
	}
	if !persisted {
		logger.Get().Info("Submit from a name that never joined; score not persisted",
			zap.String("quiz_id", quizID),
			zap.String("name", req.Name))
	}

	resp := &dto.SubmitQuizResponse{
		Score:   score,
		Total:   len(questions),
		Results: make([]dto.AnswerResult, 0, len(graded)),
	}
	for _, g := range graded {
		resp.Results = append(resp.Results, dto.AnswerResult{
			Question:    g.Question,
			Options:     g.Options,
			Selected:    g.Selected,
			Correct:     g.Correct,
			IsCorrect:   g.IsCorrect,
			Explanation: g.Explanation,
		})
	}
	return resp, nil
}

// GetAdminView returns every student's name, score and finished flag.
func (s *quizService) GetAdminView(ctx context.Context, quizID string) (*dto.AdminResponse, error) {
	students, err := s.studentRepo.GetStudentsByQuizID(ctx, quizID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to load students", err)
	}

	resp := &dto.AdminResponse{
		QuizID:   quizID,
		Students: make([]dto.StudentResult, 0, len(students)),
	}
	for _, st := range students {
		resp.Students = append(resp.Students, dto.StudentResult{
			Name:     st.Name,
			Score:    st.Score,
			Finished: st.Finished,
		})
	}
	return resp, nil
}
