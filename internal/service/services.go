package service

import (
	"context"

	"github.com/comment-moderation-api/internal/config"
	"github.com/comment-moderation-api/internal/models"
	"github.com/comment-moderation-api/internal/moderation"
	"github.com/comment-moderation-api/internal/ratelimit"
	"github.com/comment-moderation-api/internal/repository"
	"github.com/comment-moderation-api/internal/validation"
	"github.com/rs/zerolog"
)

// CommentService defines the comment intake and read operations
type CommentService interface {
	Submit(ctx context.Context, principal models.Principal, req *models.SubmitCommentRequest) (*models.SubmitCommentResponse, error)
	Update(ctx context.Context, principal models.Principal, commentID, content string) (*models.Comment, error)
	Delete(ctx context.Context, principal models.Principal, commentID string) error
	Get(ctx context.Context, principal models.Principal, commentID string) (*models.Comment, error)
	ListForPost(ctx context.Context, principal models.Principal, postID string, opts models.CommentListOptions) ([]*models.Comment, error)
}

// ModerationService defines the moderation workflow operations
type ModerationService interface {
	Approve(ctx context.Context, commentID string) (*models.Comment, error)
	Reject(ctx context.Context, commentID, reason string) (*models.Comment, error)
	Flag(ctx context.Context, principal models.Principal, commentID, reason string) error
	BulkModerate(ctx context.Context, req *models.BulkModerateRequest) (*models.BulkModerateResult, error)
	ListAll(ctx context.Context, opts models.CommentListOptions) ([]*models.Comment, error)
	ListDeleted(ctx context.Context, opts models.CommentListOptions) ([]*models.Comment, error)
	Stats(ctx context.Context) (*models.CommentStats, error)
}

// Services holds all service interfaces
type Services struct {
	Comment    CommentService
	Moderation ModerationService
}

// NewServices creates all services
func NewServices(repos *repository.Repositories, limiter ratelimit.Limiter, cfg *config.Config, log zerolog.Logger) *Services {
	counter := NewCounterSynchronizer(repos.Post, log)

	commentSvc := newCommentService(
		repos,
		validation.NewValidator(),
		moderation.NewSanitizer(),
		moderation.NewSpamDetector(cfg.Moderation.SpamKeywords, cfg.Moderation.MaxURLs),
		limiter,
		counter,
		&cfg.Moderation,
		log,
	)
	moderationSvc := newModerationService(repos, counter, log)

	return &Services{
		Comment:    commentSvc,
		Moderation: moderationSvc,
	}
}
