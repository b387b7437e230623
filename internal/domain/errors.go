package domain

import (
	"encoding/json"
	"fmt"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	// Common errors
	ErrInternal     ErrorCode = "INTERNAL_ERROR"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrNotFound     ErrorCode = "NOT_FOUND"

	// Quiz generation pipeline errors
	ErrQuizNotFound     ErrorCode = "QUIZ_NOT_FOUND"
	ErrExtractionFailed ErrorCode = "EXTRACTION_FAILED"
	ErrLLMServiceError  ErrorCode = "LLM_SERVICE_ERROR"
	ErrLLMTimeout       ErrorCode = "LLM_TIMEOUT"
	ErrNoQuestions      ErrorCode = "NO_QUESTIONS_GENERATED"
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// MarshalJSON implements the json.Marshaler interface
func (e *DomainError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}{
		Code:    string(e.Code),
		Message: e.Message,
	})
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Helper functions for common errors
func NewInternalError(message string, err error) *DomainError {
	return NewError(ErrInternal, message, err)
}

func NewInvalidInputError(message string) *DomainError {
	return NewError(ErrInvalidInput, message, nil)
}

func NewQuizNotFoundError(quizID string) *DomainError {
	return NewError(ErrQuizNotFound, fmt.Sprintf("Quiz not found: %s", quizID), nil)
}

func NewExtractionError(message string, err error) *DomainError {
	return NewError(ErrExtractionFailed, message, err)
}

func NewLLMServiceError(err error) *DomainError {
	return NewError(ErrLLMServiceError, "Failed to generate questions with LLM service", err)
}

func NewLLMTimeoutError(err error) *DomainError {
	return NewError(ErrLLMTimeout, "LLM call exceeded the configured time budget", err)
}

func NewNoQuestionsError() *DomainError {
	return NewError(ErrNoQuestions, "Model response contained no usable questions", nil)
}
