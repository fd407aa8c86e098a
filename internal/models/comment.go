package models

import (
	"time"
)

// CommentStatus represents the moderation status of a comment
type CommentStatus string

const (
	CommentStatusPending  CommentStatus = "pending"
	CommentStatusApproved CommentStatus = "approved"
	CommentStatusRejected CommentStatus = "rejected"
)

// ValidCommentStatuses defines allowed comment statuses
var ValidCommentStatuses = map[CommentStatus]bool{
	CommentStatusPending:  true,
	CommentStatusApproved: true,
	CommentStatusRejected: true,
}

// Comment represents a comment on a post. Content always holds the
// sanitized text; raw submissions are never persisted.
type Comment struct {
	ID              string        `json:"id" db:"id"`
	PostID          string        `json:"post_id" db:"post_id"`
	AuthorID        string        `json:"author_id" db:"author_id"`
	Content         string        `json:"content" db:"content"`
	Status          CommentStatus `json:"status" db:"status"`
	RejectionReason *string       `json:"rejection_reason,omitempty" db:"rejection_reason"`
	FlagCount       int           `json:"flag_count" db:"flag_count"`
	FlagReason      *string       `json:"flag_reason,omitempty" db:"flag_reason"`
	CreatedAt       time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at" db:"updated_at"`
	DeletedAt       *time.Time    `json:"deleted_at,omitempty" db:"deleted_at"`
}

// IsDeleted reports whether the comment has been soft-deleted
func (c *Comment) IsDeleted() bool {
	return c.DeletedAt != nil
}

// Comment content bounds, measured after trimming
const (
	MinCommentLength = 5
	MaxCommentLength = 2000
)

// SubmitCommentRequest is the payload for creating a comment
type SubmitCommentRequest struct {
	PostID  string `json:"post_id" binding:"required"`
	Content string `json:"content" binding:"required"`
}

// UpdateCommentRequest is the payload for editing a comment's content
type UpdateCommentRequest struct {
	Content string `json:"content" binding:"required"`
}

// RejectCommentRequest carries the optional rejection reason
type RejectCommentRequest struct {
	Reason string `json:"reason"`
}

// FlagCommentRequest carries the flag reason
type FlagCommentRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// SubmitCommentResponse is returned on successful submission. Warnings
// carries spam heuristic reasons when the comment was admitted for review.
type SubmitCommentResponse struct {
	Comment  *Comment `json:"comment"`
	Warnings []string `json:"warnings,omitempty"`
}

// CommentListOptions controls pagination and sorting of comment reads
type CommentListOptions struct {
	Page   int
	Limit  int
	Sort   string        // "newest" or "oldest"
	Status CommentStatus // optional status filter for admin reads
}

// CommentStats holds per-status aggregate counts for the admin dashboard
type CommentStats struct {
	Total    int `json:"total"`
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
	Flagged  int `json:"flagged"`
	Deleted  int `json:"deleted"`
}
