package repository

import (
	"context"

	"github.com/comment-moderation-api/internal/database"
	"github.com/comment-moderation-api/internal/models"
)

// flagRepo is the concrete implementation of FlagRepository
type flagRepo struct {
	db *database.DB
}

// NewFlagRepo creates a new flag repository
func NewFlagRepo(db *database.DB) FlagRepository {
	return &flagRepo{db: db}
}

// Create inserts a flag record. The (comment_id, user_id) unique constraint
// backs the one-flag-per-user rule; callers check Exists first for a clean
// error, the constraint catches the race.
func (r *flagRepo) Create(ctx context.Context, flag *models.Flag) error {
	query := `
		INSERT INTO comment_flags (id, comment_id, user_id, reason, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.ExecContext(ctx, query,
		flag.ID, flag.CommentID, flag.UserID, flag.Reason, flag.CreatedAt,
	)
	return err
}

// Exists checks whether the user has already flagged the comment
func (r *flagRepo) Exists(ctx context.Context, commentID, userID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM comment_flags WHERE comment_id = $1 AND user_id = $2)",
		commentID, userID,
	).Scan(&exists)
	return exists, err
}
