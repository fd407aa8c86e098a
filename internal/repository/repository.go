package repository

import (
	"context"
	"time"

	"github.com/comment-moderation-api/internal/database"
	"github.com/comment-moderation-api/internal/models"
)

// CommentRepository defines the persistence boundary for comments.
// All reads exclude soft-deleted rows unless the method says otherwise.
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id string) (*models.Comment, error)
	UpdateContent(ctx context.Context, id, content string) (bool, error)
	UpdateStatus(ctx context.Context, id string, status models.CommentStatus, rejectionReason *string) (bool, error)
	IncrementFlagCount(ctx context.Context, id, reason string) (bool, error)
	SoftDelete(ctx context.Context, id string) (bool, error)
	ListVisibleByPost(ctx context.Context, postID, viewerID string, opts models.CommentListOptions) ([]*models.Comment, error)
	ListAllByPost(ctx context.Context, postID string, opts models.CommentListOptions) ([]*models.Comment, error)
	ListAll(ctx context.Context, opts models.CommentListOptions) ([]*models.Comment, error)
	ListDeleted(ctx context.Context, opts models.CommentListOptions) ([]*models.Comment, error)
	FindRecentByAuthor(ctx context.Context, authorID, postID string, since time.Time) (*models.Comment, error)
	CountApprovedByPost(ctx context.Context, postID string) (int, error)
	Stats(ctx context.Context) (*models.CommentStats, error)
}

// PostRepository defines the post operations this core needs: existence
// checks on the write path and the comments_count aggregate write.
type PostRepository interface {
	GetByID(ctx context.Context, id string) (*models.Post, error)
	Exists(ctx context.Context, id string) (bool, error)
	SyncCommentsCount(ctx context.Context, postID string) (int, error)
}

// UserRepository defines read-only user lookups for author metadata
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	Exists(ctx context.Context, id string) (bool, error)
}

// FlagRepository defines the per-(comment, user) flag record operations
type FlagRepository interface {
	Create(ctx context.Context, flag *models.Flag) error
	Exists(ctx context.Context, commentID, userID string) (bool, error)
}

// Repositories holds all repository interfaces
type Repositories struct {
	Comment CommentRepository
	Post    PostRepository
	User    UserRepository
	Flag    FlagRepository
}

// New creates all repositories with the given database connection
func New(db *database.DB) *Repositories {
	return &Repositories{
		Comment: NewCommentRepo(db),
		Post:    NewPostRepo(db),
		User:    NewUserRepo(db),
		Flag:    NewFlagRepo(db),
	}
}
