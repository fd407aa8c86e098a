package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/comment-moderation-api/internal/config"
	"github.com/comment-moderation-api/internal/models"
	"github.com/comment-moderation-api/internal/moderation"
	"github.com/comment-moderation-api/internal/ratelimit"
	"github.com/comment-moderation-api/internal/repository"
	"github.com/comment-moderation-api/internal/validation"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// commentService implements CommentService: the intake pipeline and the
// owner-facing read/update/delete operations.
type commentService struct {
	repos     *repository.Repositories
	validator *validation.Validator
	sanitizer *moderation.Sanitizer
	spam      *moderation.SpamDetector
	limiter   ratelimit.Limiter
	counter   *CounterSynchronizer
	cfg       *config.ModerationConfig
	log       zerolog.Logger
}

func newCommentService(
	repos *repository.Repositories,
	validator *validation.Validator,
	sanitizer *moderation.Sanitizer,
	spam *moderation.SpamDetector,
	limiter ratelimit.Limiter,
	counter *CounterSynchronizer,
	cfg *config.ModerationConfig,
	log zerolog.Logger,
) *commentService {
	return &commentService{
		repos:     repos,
		validator: validator,
		sanitizer: sanitizer,
		spam:      spam,
		limiter:   limiter,
		counter:   counter,
		cfg:       cfg,
		log:       log.With().Str("component", "comment_service").Logger(),
	}
}

// Submit runs the full intake pipeline:
// validate -> sanitize -> spam heuristics -> duplicate check -> rate limit -> persist.
// Spam never aborts the submission; its effect depends on the configured policy.
func (s *commentService) Submit(ctx context.Context, principal models.Principal, req *models.SubmitCommentRequest) (*models.SubmitCommentResponse, error) {
	trimmed, verr := s.validator.ValidateContent(req.Content)
	if verr != nil {
		return nil, verr
	}

	// The upstream auth layer vouches for the id; the account must still
	// exist here and be active.
	author, err := s.repos.User.GetByID(ctx, principal.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up author: %w", err)
	}
	if author == nil || !author.Active {
		return nil, models.ErrForbidden
	}

	post, err := s.repos.Post.GetByID(ctx, req.PostID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up post: %w", err)
	}
	if post == nil {
		return nil, models.ErrPostNotFound
	}

	sanitized := s.sanitizer.Sanitize(trimmed)
	if _, verr := s.validator.ValidateContent(sanitized); verr != nil {
		// Content was mostly markup; what survived is too short to keep
		return nil, &models.ValidationError{Field: "content", Message: "comment contains disallowed markup"}
	}

	spamResult := s.spam.Check(sanitized)

	// Duplicate resubmissions are turned away before admission so a
	// double-click does not burn a rate-limit slot.
	if err := s.checkDuplicate(ctx, principal.UserID, req.PostID, sanitized); err != nil {
		return nil, err
	}

	if result := s.limiter.Allow(principal.UserID); !result.Allowed {
		s.log.Info().
			Str("author_id", principal.UserID).
			Dur("retry_after", result.RetryAfter).
			Msg("Submission rate limited")
		return nil, &models.RateLimitError{RetryAfter: result.RetryAfter}
	}

	now := time.Now()
	comment := &models.Comment{
		ID:        uuid.New().String(),
		PostID:    req.PostID,
		AuthorID:  principal.UserID,
		Content:   sanitized,
		Status:    models.CommentStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	var warnings []string
	if spamResult.IsSpam {
		warnings = spamResult.Reasons
		reasons := strings.Join(spamResult.Reasons, "; ")
		if s.cfg.SpamPolicy == config.SpamPolicyAutoReject {
			comment.Status = models.CommentStatusRejected
			comment.RejectionReason = &reasons
		} else {
			comment.FlagReason = &reasons
		}
	} else if s.cfg.AutoApprove {
		comment.Status = models.CommentStatusApproved
	}

	if err := s.repos.Comment.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	if comment.Status == models.CommentStatusApproved {
		if err := s.counter.Sync(ctx, comment.PostID); err != nil {
			return nil, err
		}
	}

	s.log.Info().
		Str("comment_id", comment.ID).
		Str("post_id", comment.PostID).
		Str("author_id", comment.AuthorID).
		Str("status", string(comment.Status)).
		Bool("spam_flagged", spamResult.IsSpam).
		Msg("Comment submitted")

	return &models.SubmitCommentResponse{Comment: comment, Warnings: warnings}, nil
}

// checkDuplicate rejects a resubmission of the author's most recent comment
// on the same post within the lookback window. Courtesy check only: distinct
// content is never blocked.
func (s *commentService) checkDuplicate(ctx context.Context, authorID, postID, sanitized string) error {
	since := time.Now().Add(-s.cfg.DuplicateWindow)
	recent, err := s.repos.Comment.FindRecentByAuthor(ctx, authorID, postID, since)
	if err != nil {
		return fmt.Errorf("failed to check for duplicates: %w", err)
	}
	if recent != nil && strings.EqualFold(strings.TrimSpace(recent.Content), sanitized) {
		return models.ErrDuplicate
	}
	return nil
}

// Update edits a comment's content. Owners may edit only while the comment
// is pending; admins may edit any live comment.
func (s *commentService) Update(ctx context.Context, principal models.Principal, commentID, content string) (*models.Comment, error) {
	comment, err := s.repos.Comment.GetByID(ctx, commentID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up comment: %w", err)
	}
	if comment == nil {
		return nil, models.ErrCommentNotFound
	}

	isOwner := comment.AuthorID == principal.UserID
	if !principal.IsAdmin() && !(isOwner && comment.Status == models.CommentStatusPending) {
		return nil, models.ErrForbidden
	}

	trimmed, verr := s.validator.ValidateContent(content)
	if verr != nil {
		return nil, verr
	}
	sanitized := s.sanitizer.Sanitize(trimmed)
	if _, verr := s.validator.ValidateContent(sanitized); verr != nil {
		return nil, &models.ValidationError{Field: "content", Message: "comment contains disallowed markup"}
	}

	ok, err := s.repos.Comment.UpdateContent(ctx, commentID, sanitized)
	if err != nil {
		return nil, fmt.Errorf("failed to update comment: %w", err)
	}
	if !ok {
		return nil, models.ErrCommentNotFound
	}

	comment.Content = sanitized
	comment.UpdatedAt = time.Now()

	s.log.Info().Str("comment_id", commentID).Str("caller_id", principal.UserID).Msg("Comment updated")
	return comment, nil
}

// Delete soft-deletes a comment. Owner or admin only. Deleting an approved
// comment decrements the post's visible-comment counter.
func (s *commentService) Delete(ctx context.Context, principal models.Principal, commentID string) error {
	comment, err := s.repos.Comment.GetByID(ctx, commentID)
	if err != nil {
		return fmt.Errorf("failed to look up comment: %w", err)
	}
	if comment == nil {
		return models.ErrCommentNotFound
	}

	if !principal.IsAdmin() && comment.AuthorID != principal.UserID {
		return models.ErrForbidden
	}

	ok, err := s.repos.Comment.SoftDelete(ctx, commentID)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	if !ok {
		return models.ErrCommentNotFound
	}

	if comment.Status == models.CommentStatusApproved {
		if err := s.counter.Sync(ctx, comment.PostID); err != nil {
			return err
		}
	}

	s.log.Info().Str("comment_id", commentID).Str("caller_id", principal.UserID).Msg("Comment deleted")
	return nil
}

// Get returns a single comment. Non-admin callers see approved comments and
// their own; anything else reads as not found.
func (s *commentService) Get(ctx context.Context, principal models.Principal, commentID string) (*models.Comment, error) {
	comment, err := s.repos.Comment.GetByID(ctx, commentID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up comment: %w", err)
	}
	if comment == nil {
		return nil, models.ErrCommentNotFound
	}

	if !principal.IsAdmin() && comment.AuthorID != principal.UserID &&
		comment.Status != models.CommentStatusApproved {
		return nil, models.ErrCommentNotFound
	}

	return comment, nil
}

// ListForPost returns a post's comments. Admins see every status; other
// viewers see approved comments plus their own.
func (s *commentService) ListForPost(ctx context.Context, principal models.Principal, postID string, opts models.CommentListOptions) ([]*models.Comment, error) {
	exists, err := s.repos.Post.Exists(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up post: %w", err)
	}
	if !exists {
		return nil, models.ErrPostNotFound
	}

	if principal.IsAdmin() {
		return s.repos.Comment.ListAllByPost(ctx, postID, opts)
	}
	return s.repos.Comment.ListVisibleByPost(ctx, postID, principal.UserID, opts)
}
