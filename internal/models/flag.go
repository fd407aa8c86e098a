package models

import (
	"time"
)

// Flag records a single user flagging a single comment. At most one flag
// per (comment, user) pair is allowed.
type Flag struct {
	ID        string    `json:"id" db:"id"`
	CommentID string    `json:"comment_id" db:"comment_id"`
	UserID    string    `json:"user_id" db:"user_id"`
	Reason    string    `json:"reason" db:"reason"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
