package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/comment-moderation-api/internal/database"
	"github.com/comment-moderation-api/internal/models"
)

const commentColumns = `id, post_id, author_id, content, status, rejection_reason,
	flag_count, flag_reason, created_at, updated_at, deleted_at`

// commentRepo is the concrete implementation of CommentRepository
type commentRepo struct {
	db *database.DB
}

// NewCommentRepo creates a new comment repository
func NewCommentRepo(db *database.DB) CommentRepository {
	return &commentRepo{db: db}
}

// Create inserts a new comment
func (r *commentRepo) Create(ctx context.Context, comment *models.Comment) error {
	query := `
		INSERT INTO comments (id, post_id, author_id, content, status, rejection_reason,
			flag_count, flag_reason, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
	`
	_, err := r.db.ExecContext(ctx, query,
		comment.ID, comment.PostID, comment.AuthorID, comment.Content,
		comment.Status, comment.RejectionReason, comment.FlagCount,
		comment.FlagReason, comment.CreatedAt,
	)
	return err
}

// GetByID retrieves a live comment by ID. Returns nil when the comment does
// not exist or has been soft-deleted.
func (r *commentRepo) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	query := fmt.Sprintf(`SELECT %s FROM comments WHERE id = $1 AND deleted_at IS NULL`, commentColumns)
	return r.queryOne(ctx, query, id)
}

// UpdateContent replaces the sanitized content and bumps updated_at.
// Returns false when the comment is missing or soft-deleted.
func (r *commentRepo) UpdateContent(ctx context.Context, id, content string) (bool, error) {
	query := `
		UPDATE comments SET content = $2, updated_at = $3
		WHERE id = $1 AND deleted_at IS NULL
	`
	res, err := r.db.ExecContext(ctx, query, id, content, time.Now())
	if err != nil {
		return false, err
	}
	rows, err := res.RowsAffected()
	return rows > 0, err
}

// UpdateStatus transitions the comment to the given status in one conditional
// update; soft-deleted comments never transition. rejectionReason is stored
// as given, so approving with nil clears any previous reason.
func (r *commentRepo) UpdateStatus(ctx context.Context, id string, status models.CommentStatus, rejectionReason *string) (bool, error) {
	query := `
		UPDATE comments SET status = $2, rejection_reason = $3, updated_at = $4
		WHERE id = $1 AND deleted_at IS NULL
	`
	res, err := r.db.ExecContext(ctx, query, id, status, rejectionReason, time.Now())
	if err != nil {
		return false, err
	}
	rows, err := res.RowsAffected()
	return rows > 0, err
}

// IncrementFlagCount bumps flag_count and records the latest flag reason.
// The comment's status is deliberately left untouched.
func (r *commentRepo) IncrementFlagCount(ctx context.Context, id, reason string) (bool, error) {
	query := `
		UPDATE comments SET flag_count = flag_count + 1, flag_reason = $2, updated_at = $3
		WHERE id = $1 AND deleted_at IS NULL
	`
	res, err := r.db.ExecContext(ctx, query, id, reason, time.Now())
	if err != nil {
		return false, err
	}
	rows, err := res.RowsAffected()
	return rows > 0, err
}

// SoftDelete marks the comment deleted. Idempotent: a second call affects no
// rows and returns false.
func (r *commentRepo) SoftDelete(ctx context.Context, id string) (bool, error) {
	query := `
		UPDATE comments SET deleted_at = $2, updated_at = $2
		WHERE id = $1 AND deleted_at IS NULL
	`
	res, err := r.db.ExecContext(ctx, query, id, time.Now())
	if err != nil {
		return false, err
	}
	rows, err := res.RowsAffected()
	return rows > 0, err
}

// ListVisibleByPost returns the comments a non-admin viewer may see on a
// post: approved ones, plus the viewer's own regardless of status.
func (r *commentRepo) ListVisibleByPost(ctx context.Context, postID, viewerID string, opts models.CommentListOptions) ([]*models.Comment, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM comments
		WHERE post_id = $1 AND deleted_at IS NULL
		  AND (status = 'approved' OR author_id = $2)
		ORDER BY created_at %s
		LIMIT $3 OFFSET $4
	`, commentColumns, sortDirection(opts.Sort))
	return r.queryMany(ctx, query, postID, viewerID, limitOf(opts), offsetOf(opts))
}

// ListAllByPost returns every live comment on a post, any status
func (r *commentRepo) ListAllByPost(ctx context.Context, postID string, opts models.CommentListOptions) ([]*models.Comment, error) {
	if opts.Status != "" {
		query := fmt.Sprintf(`
			SELECT %s FROM comments
			WHERE post_id = $1 AND status = $2 AND deleted_at IS NULL
			ORDER BY created_at %s
			LIMIT $3 OFFSET $4
		`, commentColumns, sortDirection(opts.Sort))
		return r.queryMany(ctx, query, postID, opts.Status, limitOf(opts), offsetOf(opts))
	}
	query := fmt.Sprintf(`
		SELECT %s FROM comments
		WHERE post_id = $1 AND deleted_at IS NULL
		ORDER BY created_at %s
		LIMIT $2 OFFSET $3
	`, commentColumns, sortDirection(opts.Sort))
	return r.queryMany(ctx, query, postID, limitOf(opts), offsetOf(opts))
}

// ListAll returns live comments across all posts, optionally filtered by status
func (r *commentRepo) ListAll(ctx context.Context, opts models.CommentListOptions) ([]*models.Comment, error) {
	if opts.Status != "" {
		query := fmt.Sprintf(`
			SELECT %s FROM comments
			WHERE status = $1 AND deleted_at IS NULL
			ORDER BY created_at %s
			LIMIT $2 OFFSET $3
		`, commentColumns, sortDirection(opts.Sort))
		return r.queryMany(ctx, query, opts.Status, limitOf(opts), offsetOf(opts))
	}
	query := fmt.Sprintf(`
		SELECT %s FROM comments
		WHERE deleted_at IS NULL
		ORDER BY created_at %s
		LIMIT $1 OFFSET $2
	`, commentColumns, sortDirection(opts.Sort))
	return r.queryMany(ctx, query, limitOf(opts), offsetOf(opts))
}

// ListDeleted returns soft-deleted comments for the admin audit view
func (r *commentRepo) ListDeleted(ctx context.Context, opts models.CommentListOptions) ([]*models.Comment, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM comments
		WHERE deleted_at IS NOT NULL
		ORDER BY deleted_at DESC
		LIMIT $1 OFFSET $2
	`, commentColumns)
	return r.queryMany(ctx, query, limitOf(opts), offsetOf(opts))
}

// FindRecentByAuthor returns the author's most recent live comment on a post
// created at or after since. Used by the duplicate detector.
func (r *commentRepo) FindRecentByAuthor(ctx context.Context, authorID, postID string, since time.Time) (*models.Comment, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM comments
		WHERE author_id = $1 AND post_id = $2 AND created_at >= $3 AND deleted_at IS NULL
		ORDER BY created_at DESC
		LIMIT 1
	`, commentColumns)
	return r.queryOne(ctx, query, authorID, postID, since)
}

// CountApprovedByPost is the live source of truth behind the post counter
func (r *commentRepo) CountApprovedByPost(ctx context.Context, postID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM comments WHERE post_id = $1 AND status = 'approved' AND deleted_at IS NULL`,
		postID,
	).Scan(&count)
	return count, err
}

// Stats returns aggregate counts for the moderation dashboard
func (r *commentRepo) Stats(ctx context.Context) (*models.CommentStats, error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE deleted_at IS NULL),
			COUNT(*) FILTER (WHERE status = 'pending' AND deleted_at IS NULL),
			COUNT(*) FILTER (WHERE status = 'approved' AND deleted_at IS NULL),
			COUNT(*) FILTER (WHERE status = 'rejected' AND deleted_at IS NULL),
			COUNT(*) FILTER (WHERE flag_count > 0 AND deleted_at IS NULL),
			COUNT(*) FILTER (WHERE deleted_at IS NOT NULL)
		FROM comments
	`
	var stats models.CommentStats
	err := r.db.QueryRowContext(ctx, query).Scan(
		&stats.Total, &stats.Pending, &stats.Approved,
		&stats.Rejected, &stats.Flagged, &stats.Deleted,
	)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func (r *commentRepo) queryOne(ctx context.Context, query string, args ...interface{}) (*models.Comment, error) {
	var comment models.Comment
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&comment.ID, &comment.PostID, &comment.AuthorID, &comment.Content,
		&comment.Status, &comment.RejectionReason, &comment.FlagCount,
		&comment.FlagReason, &comment.CreatedAt, &comment.UpdatedAt, &comment.DeletedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepo) queryMany(ctx context.Context, query string, args ...interface{}) ([]*models.Comment, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := []*models.Comment{}
	for rows.Next() {
		var comment models.Comment
		err := rows.Scan(
			&comment.ID, &comment.PostID, &comment.AuthorID, &comment.Content,
			&comment.Status, &comment.RejectionReason, &comment.FlagCount,
			&comment.FlagReason, &comment.CreatedAt, &comment.UpdatedAt, &comment.DeletedAt,
		)
		if err != nil {
			return nil, err
		}
		comments = append(comments, &comment)
	}
	return comments, rows.Err()
}

func sortDirection(sort string) string {
	if sort == "oldest" {
		return "ASC"
	}
	return "DESC"
}

func limitOf(opts models.CommentListOptions) int {
	if opts.Limit <= 0 {
		return 20
	}
	if opts.Limit > 100 {
		return 100
	}
	return opts.Limit
}

func offsetOf(opts models.CommentListOptions) int {
	page := opts.Page
	if page < 1 {
		page = 1
	}
	return (page - 1) * limitOf(opts)
}
