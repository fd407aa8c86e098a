package service

import (
	"context"

	"github.com/comment-moderation-api/internal/repository"
	"github.com/rs/zerolog"
)

// CounterSynchronizer keeps a post's comments_count equal to the live count
// of approved, non-deleted comments. It is the single place counter writes
// happen; every visibility-affecting transition goes through it.
type CounterSynchronizer struct {
	posts repository.PostRepository
	log   zerolog.Logger
}

// NewCounterSynchronizer creates a counter synchronizer
func NewCounterSynchronizer(posts repository.PostRepository, log zerolog.Logger) *CounterSynchronizer {
	return &CounterSynchronizer{
		posts: posts,
		log:   log.With().Str("component", "counter").Logger(),
	}
}

// Sync recomputes the visible-comment count for one post. Idempotent.
func (s *CounterSynchronizer) Sync(ctx context.Context, postID string) error {
	count, err := s.posts.SyncCommentsCount(ctx, postID)
	if err != nil {
		s.log.Error().Err(err).Str("post_id", postID).Msg("Failed to sync comments count")
		return err
	}
	s.log.Debug().Str("post_id", postID).Int("comments_count", count).Msg("Comments count synced")
	return nil
}

// SyncAll recomputes the count for each post id once. Used by bulk
// moderation, which dedupes affected posts before calling.
func (s *CounterSynchronizer) SyncAll(ctx context.Context, postIDs map[string]struct{}) {
	for postID := range postIDs {
		// Counter drift self-heals on the next transition, so a failed
		// sync is logged inside Sync and not propagated.
		_ = s.Sync(ctx, postID)
	}
}
