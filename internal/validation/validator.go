package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/comment-moderation-api/internal/models"
)

// Validator enforces structural constraints on submitted comment content
type Validator struct {
	minLength int
	maxLength int
}

// NewValidator creates a validator with the platform's content bounds
func NewValidator() *Validator {
	return &Validator{
		minLength: models.MinCommentLength,
		maxLength: models.MaxCommentLength,
	}
}

// ValidateContent trims the content and checks the length bounds.
// It returns the trimmed content, or a validation error describing the
// first rule violated. No side effects.
func (v *Validator) ValidateContent(content string) (string, *models.ValidationError) {
	trimmed := strings.TrimSpace(content)

	if trimmed == "" {
		return "", &models.ValidationError{Field: "content", Message: "comment content is required"}
	}
	length := utf8.RuneCountInString(trimmed)
	if length < v.minLength {
		return "", &models.ValidationError{
			Field:   "content",
			Message: fmt.Sprintf("comment must be at least %d characters long", v.minLength),
		}
	}
	if length > v.maxLength {
		return "", &models.ValidationError{
			Field:   "content",
			Message: fmt.Sprintf("comment must not exceed %d characters", v.maxLength),
		}
	}

	return trimmed, nil
}
