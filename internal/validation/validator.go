package validation

import (
	"strings"

	"quizforge/internal/domain"
)

// Validator provides request validation functionality
type Validator struct{}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateGenerateRequest checks the generation form fields. Exactly one of
// file/paragraph must be present.
func (v *Validator) ValidateGenerateRequest(hasFile bool, paragraph string, numQuestions, quizTime int) error {
	hasParagraph := strings.TrimSpace(paragraph) != ""

	if !hasFile && !hasParagraph {
		return domain.NewInvalidInputError("Either a file or a paragraph is required")
	}
	if hasFile && hasParagraph {
		return domain.NewInvalidInputError("Provide either a file or a paragraph, not both")
	}
	if numQuestions <= 0 {
		return domain.NewInvalidInputError("num_q must be a positive integer")
	}
	if quizTime <= 0 {
		return domain.NewInvalidInputError("quiz_time must be a positive integer")
	}
	return nil
}

// ValidateQuizToken checks the quiz identifier from the URL. Shape is not
// validated beyond presence; an unknown token surfaces as a 404 from the
// store, which is more useful to clients than a rejected format.
func (v *Validator) ValidateQuizToken(quizID string) error {
	if strings.TrimSpace(quizID) == "" {
		return domain.NewInvalidInputError("quiz_id is required")
	}
	return nil
}

// ValidateStudentName checks a join/submit name.
func (v *Validator) ValidateStudentName(name string) error {
	if strings.TrimSpace(name) == "" {
		return domain.NewInvalidInputError("Name required")
	}
	if len(name) > 100 {
		return domain.NewInvalidInputError("Name must be at most 100 characters")
	}
	return nil
}
