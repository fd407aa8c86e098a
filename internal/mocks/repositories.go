package mocks

import (
	"context"
	"sort"
	"time"

	"github.com/comment-moderation-api/internal/models"
)

// MockCommentRepository is an in-memory implementation of CommentRepository
type MockCommentRepository struct {
	Comments    map[string]*models.Comment
	CreateError error
	UpdateError error
	QueryError  error
}

func NewMockCommentRepository() *MockCommentRepository {
	return &MockCommentRepository{
		Comments: make(map[string]*models.Comment),
	}
}

func (m *MockCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if m.CreateError != nil {
		return m.CreateError
	}
	stored := *comment
	m.Comments[comment.ID] = &stored
	return nil
}

func (m *MockCommentRepository) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	if m.QueryError != nil {
		return nil, m.QueryError
	}
	comment, ok := m.Comments[id]
	if !ok || comment.DeletedAt != nil {
		return nil, nil
	}
	copied := *comment
	return &copied, nil
}

func (m *MockCommentRepository) UpdateContent(ctx context.Context, id, content string) (bool, error) {
	if m.UpdateError != nil {
		return false, m.UpdateError
	}
	comment, ok := m.Comments[id]
	if !ok || comment.DeletedAt != nil {
		return false, nil
	}
	comment.Content = content
	comment.UpdatedAt = time.Now()
	return true, nil
}

func (m *MockCommentRepository) UpdateStatus(ctx context.Context, id string, status models.CommentStatus, rejectionReason *string) (bool, error) {
	if m.UpdateError != nil {
		return false, m.UpdateError
	}
	comment, ok := m.Comments[id]
	if !ok || comment.DeletedAt != nil {
		return false, nil
	}
	comment.Status = status
	comment.RejectionReason = rejectionReason
	comment.UpdatedAt = time.Now()
	return true, nil
}

func (m *MockCommentRepository) IncrementFlagCount(ctx context.Context, id, reason string) (bool, error) {
	if m.UpdateError != nil {
		return false, m.UpdateError
	}
	comment, ok := m.Comments[id]
	if !ok || comment.DeletedAt != nil {
		return false, nil
	}
	comment.FlagCount++
	comment.FlagReason = &reason
	comment.UpdatedAt = time.Now()
	return true, nil
}

func (m *MockCommentRepository) SoftDelete(ctx context.Context, id string) (bool, error) {
	if m.UpdateError != nil {
		return false, m.UpdateError
	}
	comment, ok := m.Comments[id]
	if !ok || comment.DeletedAt != nil {
		return false, nil
	}
	now := time.Now()
	comment.DeletedAt = &now
	comment.UpdatedAt = now
	return true, nil
}

func (m *MockCommentRepository) ListVisibleByPost(ctx context.Context, postID, viewerID string, opts models.CommentListOptions) ([]*models.Comment, error) {
	return m.list(func(c *models.Comment) bool {
		return c.PostID == postID && c.DeletedAt == nil &&
			(c.Status == models.CommentStatusApproved || c.AuthorID == viewerID)
	}, opts)
}

func (m *MockCommentRepository) ListAllByPost(ctx context.Context, postID string, opts models.CommentListOptions) ([]*models.Comment, error) {
	return m.list(func(c *models.Comment) bool {
		if c.PostID != postID || c.DeletedAt != nil {
			return false
		}
		return opts.Status == "" || c.Status == opts.Status
	}, opts)
}

func (m *MockCommentRepository) ListAll(ctx context.Context, opts models.CommentListOptions) ([]*models.Comment, error) {
	return m.list(func(c *models.Comment) bool {
		if c.DeletedAt != nil {
			return false
		}
		return opts.Status == "" || c.Status == opts.Status
	}, opts)
}

func (m *MockCommentRepository) ListDeleted(ctx context.Context, opts models.CommentListOptions) ([]*models.Comment, error) {
	return m.list(func(c *models.Comment) bool {
		return c.DeletedAt != nil
	}, opts)
}

func (m *MockCommentRepository) FindRecentByAuthor(ctx context.Context, authorID, postID string, since time.Time) (*models.Comment, error) {
	if m.QueryError != nil {
		return nil, m.QueryError
	}
	var newest *models.Comment
	for _, c := range m.Comments {
		if c.AuthorID != authorID || c.PostID != postID || c.DeletedAt != nil {
			continue
		}
		if c.CreatedAt.Before(since) {
			continue
		}
		if newest == nil || c.CreatedAt.After(newest.CreatedAt) {
			newest = c
		}
	}
	if newest == nil {
		return nil, nil
	}
	copied := *newest
	return &copied, nil
}

func (m *MockCommentRepository) CountApprovedByPost(ctx context.Context, postID string) (int, error) {
	count := 0
	for _, c := range m.Comments {
		if c.PostID == postID && c.Status == models.CommentStatusApproved && c.DeletedAt == nil {
			count++
		}
	}
	return count, nil
}

func (m *MockCommentRepository) Stats(ctx context.Context) (*models.CommentStats, error) {
	if m.QueryError != nil {
		return nil, m.QueryError
	}
	stats := &models.CommentStats{}
	for _, c := range m.Comments {
		if c.DeletedAt != nil {
			stats.Deleted++
			continue
		}
		stats.Total++
		switch c.Status {
		case models.CommentStatusPending:
			stats.Pending++
		case models.CommentStatusApproved:
			stats.Approved++
		case models.CommentStatusRejected:
			stats.Rejected++
		}
		if c.FlagCount > 0 {
			stats.Flagged++
		}
	}
	return stats, nil
}

func (m *MockCommentRepository) list(match func(*models.Comment) bool, opts models.CommentListOptions) ([]*models.Comment, error) {
	if m.QueryError != nil {
		return nil, m.QueryError
	}
	out := []*models.Comment{}
	for _, c := range m.Comments {
		if match(c) {
			copied := *c
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if opts.Sort == "oldest" {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// MockPostRepository is an in-memory implementation of PostRepository.
// When Comments is set, SyncCommentsCount recomputes counts from it the way
// the SQL implementation recomputes from the comments table.
type MockPostRepository struct {
	Posts     map[string]*models.Post
	Comments  *MockCommentRepository
	SyncCalls []string
	SyncError error
}

func NewMockPostRepository() *MockPostRepository {
	return &MockPostRepository{
		Posts: make(map[string]*models.Post),
	}
}

func (m *MockPostRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	post, ok := m.Posts[id]
	if !ok || post.DeletedAt != nil {
		return nil, nil
	}
	return post, nil
}

func (m *MockPostRepository) Exists(ctx context.Context, id string) (bool, error) {
	post, ok := m.Posts[id]
	return ok && post.DeletedAt == nil, nil
}

func (m *MockPostRepository) SyncCommentsCount(ctx context.Context, postID string) (int, error) {
	if m.SyncError != nil {
		return 0, m.SyncError
	}
	m.SyncCalls = append(m.SyncCalls, postID)

	count := 0
	if m.Comments != nil {
		count, _ = m.Comments.CountApprovedByPost(ctx, postID)
	}
	if post, ok := m.Posts[postID]; ok {
		post.CommentsCount = count
	}
	return count, nil
}

// MockUserRepository is an in-memory implementation of UserRepository
type MockUserRepository struct {
	Users map[string]*models.User
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		Users: make(map[string]*models.User),
	}
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return m.Users[id], nil
}

func (m *MockUserRepository) Exists(ctx context.Context, id string) (bool, error) {
	_, exists := m.Users[id]
	return exists, nil
}

// MockFlagRepository is an in-memory implementation of FlagRepository
type MockFlagRepository struct {
	Flags       map[string]*models.Flag // keyed by comment_id + "/" + user_id
	CreateError error
}

func NewMockFlagRepository() *MockFlagRepository {
	return &MockFlagRepository{
		Flags: make(map[string]*models.Flag),
	}
}

func (m *MockFlagRepository) Create(ctx context.Context, flag *models.Flag) error {
	if m.CreateError != nil {
		return m.CreateError
	}
	m.Flags[flag.CommentID+"/"+flag.UserID] = flag
	return nil
}

func (m *MockFlagRepository) Exists(ctx context.Context, commentID, userID string) (bool, error) {
	_, exists := m.Flags[commentID+"/"+userID]
	return exists, nil
}
