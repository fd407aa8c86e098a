package mocks

import (
	"context"

	"github.com/comment-moderation-api/internal/models"
)

// MockCommentService is a mock implementation of service.CommentService
type MockCommentService struct {
	SubmitResponse *models.SubmitCommentResponse
	SubmitError    error
	SubmitCalls    int

	UpdateComment *models.Comment
	UpdateError   error

	DeleteError error

	GetComment *models.Comment
	GetError   error

	ListComments []*models.Comment
	ListError    error
}

func NewMockCommentService() *MockCommentService {
	return &MockCommentService{}
}

func (m *MockCommentService) Submit(ctx context.Context, principal models.Principal, req *models.SubmitCommentRequest) (*models.SubmitCommentResponse, error) {
	m.SubmitCalls++
	if m.SubmitError != nil {
		return nil, m.SubmitError
	}
	return m.SubmitResponse, nil
}

func (m *MockCommentService) Update(ctx context.Context, principal models.Principal, commentID, content string) (*models.Comment, error) {
	if m.UpdateError != nil {
		return nil, m.UpdateError
	}
	return m.UpdateComment, nil
}

func (m *MockCommentService) Delete(ctx context.Context, principal models.Principal, commentID string) error {
	return m.DeleteError
}

func (m *MockCommentService) Get(ctx context.Context, principal models.Principal, commentID string) (*models.Comment, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	if m.GetComment == nil {
		return nil, models.ErrCommentNotFound
	}
	return m.GetComment, nil
}

func (m *MockCommentService) ListForPost(ctx context.Context, principal models.Principal, postID string, opts models.CommentListOptions) ([]*models.Comment, error) {
	if m.ListError != nil {
		return nil, m.ListError
	}
	return m.ListComments, nil
}

// MockModerationService is a mock implementation of service.ModerationService
type MockModerationService struct {
	ApproveComment *models.Comment
	ApproveError   error

	RejectComment *models.Comment
	RejectError   error

	FlagError error

	BulkResult *models.BulkModerateResult
	BulkError  error

	ListComments    []*models.Comment
	DeletedComments []*models.Comment
	ListError       error

	StatsResult *models.CommentStats
	StatsError  error
}

func NewMockModerationService() *MockModerationService {
	return &MockModerationService{}
}

func (m *MockModerationService) Approve(ctx context.Context, commentID string) (*models.Comment, error) {
	if m.ApproveError != nil {
		return nil, m.ApproveError
	}
	return m.ApproveComment, nil
}

func (m *MockModerationService) Reject(ctx context.Context, commentID, reason string) (*models.Comment, error) {
	if m.RejectError != nil {
		return nil, m.RejectError
	}
	return m.RejectComment, nil
}

func (m *MockModerationService) Flag(ctx context.Context, principal models.Principal, commentID, reason string) error {
	return m.FlagError
}

func (m *MockModerationService) BulkModerate(ctx context.Context, req *models.BulkModerateRequest) (*models.BulkModerateResult, error) {
	if m.BulkError != nil {
		return nil, m.BulkError
	}
	return m.BulkResult, nil
}

func (m *MockModerationService) ListAll(ctx context.Context, opts models.CommentListOptions) ([]*models.Comment, error) {
	if m.ListError != nil {
		return nil, m.ListError
	}
	return m.ListComments, nil
}

func (m *MockModerationService) ListDeleted(ctx context.Context, opts models.CommentListOptions) ([]*models.Comment, error) {
	if m.ListError != nil {
		return nil, m.ListError
	}
	return m.DeletedComments, nil
}

func (m *MockModerationService) Stats(ctx context.Context) (*models.CommentStats, error) {
	if m.StatsError != nil {
		return nil, m.StatsError
	}
	if m.StatsResult == nil {
		return &models.CommentStats{}, nil
	}
	return m.StatsResult, nil
}
