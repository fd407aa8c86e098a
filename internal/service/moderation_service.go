package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/comment-moderation-api/internal/models"
	"github.com/comment-moderation-api/internal/repository"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// moderationService implements ModerationService: the pending/approved/
// rejected state machine, flagging, bulk operations and the admin views.
type moderationService struct {
	repos   *repository.Repositories
	counter *CounterSynchronizer
	log     zerolog.Logger
}

func newModerationService(repos *repository.Repositories, counter *CounterSynchronizer, log zerolog.Logger) *moderationService {
	return &moderationService{
		repos:   repos,
		counter: counter,
		log:     log.With().Str("component", "moderation_service").Logger(),
	}
}

// Approve transitions a comment to approved from any state, clears any
// rejection reason, and resyncs the post counter. Idempotent.
func (s *moderationService) Approve(ctx context.Context, commentID string) (*models.Comment, error) {
	comment, affected, err := s.approveOne(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if affected {
		if err := s.counter.Sync(ctx, comment.PostID); err != nil {
			return nil, err
		}
	}
	s.log.Info().Str("comment_id", commentID).Msg("Comment approved")
	return comment, nil
}

// Reject transitions a comment to rejected with an optional reason. The
// counter only changes when an approved comment loses visibility.
func (s *moderationService) Reject(ctx context.Context, commentID, reason string) (*models.Comment, error) {
	comment, affected, err := s.rejectOne(ctx, commentID, reason)
	if err != nil {
		return nil, err
	}
	if affected {
		if err := s.counter.Sync(ctx, comment.PostID); err != nil {
			return nil, err
		}
	}
	s.log.Info().Str("comment_id", commentID).Msg("Comment rejected")
	return comment, nil
}

// Flag records a user's flag on a comment and bumps its flag count. Flags
// are orthogonal to status and never touch the visible-comment counter.
// A user may flag a given comment at most once; authors cannot flag their own.
func (s *moderationService) Flag(ctx context.Context, principal models.Principal, commentID, reason string) error {
	comment, err := s.repos.Comment.GetByID(ctx, commentID)
	if err != nil {
		return fmt.Errorf("failed to look up comment: %w", err)
	}
	if comment == nil {
		return models.ErrCommentNotFound
	}
	if comment.AuthorID == principal.UserID {
		return models.ErrSelfFlag
	}

	flagged, err := s.repos.Flag.Exists(ctx, commentID, principal.UserID)
	if err != nil {
		return fmt.Errorf("failed to check existing flag: %w", err)
	}
	if flagged {
		return models.ErrAlreadyFlagged
	}

	flag := &models.Flag{
		ID:        uuid.New().String(),
		CommentID: commentID,
		UserID:    principal.UserID,
		Reason:    reason,
		CreatedAt: time.Now(),
	}
	if err := s.repos.Flag.Create(ctx, flag); err != nil {
		return fmt.Errorf("failed to create flag: %w", err)
	}

	if _, err := s.repos.Comment.IncrementFlagCount(ctx, commentID, reason); err != nil {
		return fmt.Errorf("failed to increment flag count: %w", err)
	}

	s.log.Info().
		Str("comment_id", commentID).
		Str("user_id", principal.UserID).
		Str("reason", reason).
		Msg("Comment flagged")
	return nil
}

// BulkModerate applies one action to each id independently. A failing id is
// recorded and skipped, never aborting the batch. Counters are resynced once
// per affected post after all ids are processed.
func (s *moderationService) BulkModerate(ctx context.Context, req *models.BulkModerateRequest) (*models.BulkModerateResult, error) {
	if !models.ValidBulkActions[req.Action] {
		return nil, &models.ValidationError{
			Field:   "action",
			Message: "action must be one of: approve, reject, delete",
		}
	}

	result := &models.BulkModerateResult{
		Success: []string{},
		Failed:  []models.BulkFailure{},
	}
	affectedPosts := make(map[string]struct{})

	for _, id := range req.CommentIDs {
		var (
			comment  *models.Comment
			affected bool
			err      error
		)
		switch req.Action {
		case models.BulkActionApprove:
			comment, affected, err = s.approveOne(ctx, id)
		case models.BulkActionReject:
			comment, affected, err = s.rejectOne(ctx, id, req.Reason)
		case models.BulkActionDelete:
			comment, affected, err = s.deleteOne(ctx, id)
		}

		if err != nil {
			result.Failed = append(result.Failed, models.BulkFailure{ID: id, Reason: failureReason(err)})
			continue
		}

		result.Success = append(result.Success, id)
		if affected {
			affectedPosts[comment.PostID] = struct{}{}
		}
	}

	s.counter.SyncAll(ctx, affectedPosts)

	s.log.Info().
		Str("action", string(req.Action)).
		Int("requested", len(req.CommentIDs)).
		Int("succeeded", len(result.Success)).
		Int("failed", len(result.Failed)).
		Int("posts_synced", len(affectedPosts)).
		Msg("Bulk moderation completed")

	return result, nil
}

// ListAll returns live comments of any status for the admin dashboard
func (s *moderationService) ListAll(ctx context.Context, opts models.CommentListOptions) ([]*models.Comment, error) {
	return s.repos.Comment.ListAll(ctx, opts)
}

// ListDeleted returns soft-deleted comments; the only read path exposing them
func (s *moderationService) ListDeleted(ctx context.Context, opts models.CommentListOptions) ([]*models.Comment, error) {
	return s.repos.Comment.ListDeleted(ctx, opts)
}

// Stats returns aggregate per-status counts
func (s *moderationService) Stats(ctx context.Context) (*models.CommentStats, error) {
	return s.repos.Comment.Stats(ctx)
}

// approveOne applies the approve transition to a single comment. The second
// return reports whether the post's visible count may have changed.
func (s *moderationService) approveOne(ctx context.Context, id string) (*models.Comment, bool, error) {
	comment, err := s.repos.Comment.GetByID(ctx, id)
	if err != nil {
		return nil, false, fmt.Errorf("failed to look up comment: %w", err)
	}
	if comment == nil {
		return nil, false, models.ErrCommentNotFound
	}

	ok, err := s.repos.Comment.UpdateStatus(ctx, id, models.CommentStatusApproved, nil)
	if err != nil {
		return nil, false, fmt.Errorf("failed to update status: %w", err)
	}
	if !ok {
		return nil, false, models.ErrCommentNotFound
	}

	comment.Status = models.CommentStatusApproved
	comment.RejectionReason = nil
	return comment, true, nil
}

// rejectOne applies the reject transition; an empty reason is stored as NULL
func (s *moderationService) rejectOne(ctx context.Context, id, reason string) (*models.Comment, bool, error) {
	comment, err := s.repos.Comment.GetByID(ctx, id)
	if err != nil {
		return nil, false, fmt.Errorf("failed to look up comment: %w", err)
	}
	if comment == nil {
		return nil, false, models.ErrCommentNotFound
	}

	var reasonPtr *string
	if reason != "" {
		reasonPtr = &reason
	}
	ok, err := s.repos.Comment.UpdateStatus(ctx, id, models.CommentStatusRejected, reasonPtr)
	if err != nil {
		return nil, false, fmt.Errorf("failed to update status: %w", err)
	}
	if !ok {
		return nil, false, models.ErrCommentNotFound
	}

	wasApproved := comment.Status == models.CommentStatusApproved
	comment.Status = models.CommentStatusRejected
	comment.RejectionReason = reasonPtr
	return comment, wasApproved, nil
}

// deleteOne soft-deletes a single comment
func (s *moderationService) deleteOne(ctx context.Context, id string) (*models.Comment, bool, error) {
	comment, err := s.repos.Comment.GetByID(ctx, id)
	if err != nil {
		return nil, false, fmt.Errorf("failed to look up comment: %w", err)
	}
	if comment == nil {
		return nil, false, models.ErrCommentNotFound
	}

	ok, err := s.repos.Comment.SoftDelete(ctx, id)
	if err != nil {
		return nil, false, fmt.Errorf("failed to delete comment: %w", err)
	}
	if !ok {
		return nil, false, models.ErrCommentNotFound
	}

	return comment, comment.Status == models.CommentStatusApproved, nil
}

// failureReason maps a per-id error to the short reason reported to the caller
func failureReason(err error) string {
	switch {
	case errors.Is(err, models.ErrCommentNotFound):
		return "NotFound"
	default:
		return err.Error()
	}
}
