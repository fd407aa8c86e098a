package models

import (
	"time"
)

// Post represents a blog post. Posts are managed elsewhere; this core only
// checks existence and maintains the comments_count aggregate.
type Post struct {
	ID            string     `json:"id" db:"id"`
	Slug          string     `json:"slug" db:"slug"`
	Title         string     `json:"title" db:"title"`
	AuthorID      string     `json:"author_id" db:"author_id"`
	Status        string     `json:"status" db:"status"`
	CommentsCount int        `json:"comments_count" db:"comments_count"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt     *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}

// ValidPostStatuses defines allowed post statuses
var ValidPostStatuses = map[string]bool{
	"draft":     true,
	"published": true,
}
