package models

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for the comment pipeline and moderation workflow.
// Handlers map these to HTTP status codes; services never log-and-swallow them.
var (
	ErrPostNotFound    = errors.New("post not found")
	ErrCommentNotFound = errors.New("comment not found")
	ErrForbidden       = errors.New("access denied")
	ErrDuplicate       = errors.New("duplicate comment detected")
	ErrAlreadyFlagged  = errors.New("comment already flagged by this user")
	ErrSelfFlag        = errors.New("authors cannot flag their own comments")
)

// ValidationError describes a recoverable problem with submitted content
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

// RateLimitError is returned when an author exceeds the submission window.
// RetryAfter is the time until the oldest submission leaves the window.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit exceeded, retry after %s", e.RetryAfter.Round(time.Second))
}
