package repository

import (
	"context"
	"database/sql"

	"github.com/comment-moderation-api/internal/database"
	"github.com/comment-moderation-api/internal/models"
)

// postRepo is the concrete implementation of PostRepository
type postRepo struct {
	db *database.DB
}

// NewPostRepo creates a new post repository
func NewPostRepo(db *database.DB) PostRepository {
	return &postRepo{db: db}
}

// GetByID retrieves a live post by ID. Returns nil when the post does not
// exist or has been soft-deleted.
func (r *postRepo) GetByID(ctx context.Context, id string) (*models.Post, error) {
	query := `
		SELECT id, slug, title, author_id, status, comments_count, created_at, updated_at, deleted_at
		FROM posts WHERE id = $1 AND deleted_at IS NULL
	`
	var post models.Post
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&post.ID, &post.Slug, &post.Title, &post.AuthorID, &post.Status,
		&post.CommentsCount, &post.CreatedAt, &post.UpdatedAt, &post.DeletedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// Exists checks if a live post with the given ID exists
func (r *postRepo) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM posts WHERE id = $1 AND deleted_at IS NULL)", id,
	).Scan(&exists)
	return exists, err
}

// SyncCommentsCount recomputes comments_count from the live count of
// approved, non-deleted comments in a single statement and returns the new
// value. Idempotent by construction.
func (r *postRepo) SyncCommentsCount(ctx context.Context, postID string) (int, error) {
	query := `
		UPDATE posts
		SET comments_count = (
			SELECT COUNT(*) FROM comments
			WHERE post_id = $1 AND status = 'approved' AND deleted_at IS NULL
		)
		WHERE id = $1
		RETURNING comments_count
	`
	var count int
	err := r.db.QueryRowContext(ctx, query, postID).Scan(&count)
	if err == sql.ErrNoRows {
		// Post vanished between the transition and the sync; nothing to update
		return 0, nil
	}
	return count, err
}
