package handler

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"quizforge/internal/config"
	"quizforge/internal/dto"
	"quizforge/internal/extract"
	"quizforge/internal/logger"
	"quizforge/internal/service"
	"quizforge/internal/util"
	"quizforge/internal/validation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// QuizHandler handles quiz-related HTTP requests. Handlers return domain
// errors; the middleware error handler maps them to status codes and bodies.
type QuizHandler struct {
	service   service.QuizService
	extractor *extract.Extractor
	validator *validation.Validator
	quizCfg   config.QuizConfig
}

// NewQuizHandler creates a new QuizHandler instance
func NewQuizHandler(
	service service.QuizService,
	extractor *extract.Extractor,
	validator *validation.Validator,
	quizCfg config.QuizConfig,
) *QuizHandler {
	return &QuizHandler{
		service:   service,
		extractor: extractor,
		validator: validator,
		quizCfg:   quizCfg,
	}
}

// GenerateQuiz handles POST /api/generate. The request is a multipart form
// with either a document upload ("file") or raw text ("paragraph"), plus
// optional num_q and quiz_time fields that fall back to configured defaults.
func (h *QuizHandler) GenerateQuiz(c *fiber.Ctx) error {
	fileHeader, fileErr := c.FormFile("file")
	hasFile := fileErr == nil && fileHeader != nil
	paragraph := c.FormValue("paragraph")

	numQuestions := formInt(c, "num_q", h.quizCfg.DefaultNumQuestions)
	quizTime := formInt(c, "quiz_time", h.quizCfg.DefaultTimeMinutes)

	if err := h.validator.ValidateGenerateRequest(hasFile, paragraph, numQuestions, quizTime); err != nil {
		return err
	}

	var sourceText string
	var err error
	if hasFile {
		sourceText, err = h.extractFromUpload(c, fileHeader.Filename)
	} else {
		sourceText, err = h.extractor.FromParagraph(paragraph)
	}
	if err != nil {
		return err
	}

	resp, err := h.service.GenerateQuiz(c.Context(), sourceText, numQuestions, quizTime)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// extractFromUpload spools the uploaded document to a temp file, extracts its
// text, and removes the file. The decoder needs a path, not a stream.
func (h *QuizHandler) extractFromUpload(c *fiber.Ctx, filename string) (string, error) {
	tmpPath := filepath.Join(os.TempDir(), fmt.Sprintf("upload-%s-%s", util.NewQuizToken(), sanitizeFilename(filename)))

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return "", err
	}
	if err := c.SaveFile(fileHeader, tmpPath); err != nil {
		return "", err
	}
	defer func() {
		if err := os.Remove(tmpPath); err != nil {
			logger.Get().Warn("Failed to remove temp upload", zap.String("path", tmpPath), zap.Error(err))
		}
	}()

	return h.extractor.FromDocument(tmpPath)
}

// GetQuiz handles GET /api/quiz/:quizID. Answer keys are withheld from the
// response.
func (h *QuizHandler) GetQuiz(c *fiber.Ctx) error {
	quizID := c.Params("quizID")
	if err := h.validator.ValidateQuizToken(quizID); err != nil {
		return err
	}

	resp, err := h.service.GetQuiz(c.Context(), quizID)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// JoinQuiz handles POST /api/quiz/:quizID/join.
func (h *QuizHandler) JoinQuiz(c *fiber.Ctx) error {
	quizID := c.Params("quizID")
	if err := h.validator.ValidateQuizToken(quizID); err != nil {
		return err
	}

	var req dto.JoinQuizRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := h.validator.ValidateStudentName(req.Name); err != nil {
		return err
	}

	resp, err := h.service.JoinQuiz(c.Context(), quizID, req.Name)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// SubmitQuiz handles POST /api/quiz/:quizID/submit. Answers are keyed by the
// question's 0-based index as a decimal string.
func (h *QuizHandler) SubmitQuiz(c *fiber.Ctx) error {
	quizID := c.Params("quizID")
	if err := h.validator.ValidateQuizToken(quizID); err != nil {
		return err
	}

	var req dto.SubmitQuizRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := h.validator.ValidateStudentName(req.Name); err != nil {
		return err
	}

	resp, err := h.service.SubmitQuiz(c.Context(), quizID, &req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// AdminView handles GET /api/quiz/:quizID/admin.
func (h *QuizHandler) AdminView(c *fiber.Ctx) error {
	quizID := c.Params("quizID")
	if err := h.validator.ValidateQuizToken(quizID); err != nil {
		return err
	}

	resp, err := h.service.GetAdminView(c.Context(), quizID)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// formInt reads a positive-or-absent integer form field, falling back to def
// when the field is missing or blank. A present but malformed value parses to
// zero so validation rejects it with a clear message.
func formInt(c *fiber.Ctx, key string, def int) int {
	raw := strings.TrimSpace(c.FormValue(key))
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return n
}

// sanitizeFilename strips path separators from a client-supplied filename so
// it is safe to embed in a temp file name.
func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, string(os.PathSeparator), "_")
	if name == "" || name == "." {
		name = "document"
	}
	return name
}
