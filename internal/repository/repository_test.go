package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/comment-moderation-api/internal/mocks"
	"github.com/comment-moderation-api/internal/models"
)

func seedComment(repo *mocks.MockCommentRepository, id, postID, authorID string, status models.CommentStatus, age time.Duration) *models.Comment {
	comment := &models.Comment{
		ID:        id,
		PostID:    postID,
		AuthorID:  authorID,
		Content:   "comment " + id,
		Status:    status,
		CreatedAt: time.Now().Add(-age),
		UpdatedAt: time.Now().Add(-age),
	}
	_ = repo.Create(context.Background(), comment)
	return comment
}

func TestCommentRepository_SoftDelete(t *testing.T) {
	repo := mocks.NewMockCommentRepository()
	ctx := context.Background()

	seedComment(repo, "c1", "p1", "u1", models.CommentStatusApproved, 0)

	affected, err := repo.SoftDelete(ctx, "c1")
	if err != nil {
		t.Fatalf("SoftDelete failed: %v", err)
	}
	if !affected {
		t.Fatal("Expected the delete to report an affected row")
	}

	// Deleted rows vanish from point reads
	got, err := repo.GetByID(ctx, "c1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got != nil {
		t.Error("Expected deleted comment to be invisible to GetByID")
	}

	// And from further writes
	if affected, _ := repo.UpdateStatus(ctx, "c1", models.CommentStatusPending, nil); affected {
		t.Error("Status update must not touch a deleted row")
	}
	if affected, _ := repo.SoftDelete(ctx, "c1"); affected {
		t.Error("Second delete must be a no-op")
	}

	// But stay reachable through the deleted view
	deleted, err := repo.ListDeleted(ctx, models.CommentListOptions{})
	if err != nil {
		t.Fatalf("ListDeleted failed: %v", err)
	}
	if len(deleted) != 1 || deleted[0].ID != "c1" {
		t.Errorf("Expected deleted view to hold c1, got %v", deleted)
	}
}

func TestCommentRepository_ListVisibleByPost(t *testing.T) {
	repo := mocks.NewMockCommentRepository()
	ctx := context.Background()

	seedComment(repo, "approved", "p1", "u1", models.CommentStatusApproved, 3*time.Minute)
	seedComment(repo, "own-pending", "p1", "u2", models.CommentStatusPending, 2*time.Minute)
	seedComment(repo, "foreign-pending", "p1", "u3", models.CommentStatusPending, time.Minute)
	seedComment(repo, "rejected", "p1", "u3", models.CommentStatusRejected, time.Minute)
	seedComment(repo, "other-post", "p2", "u1", models.CommentStatusApproved, time.Minute)

	comments, err := repo.ListVisibleByPost(ctx, "p1", "u2", models.CommentListOptions{})
	if err != nil {
		t.Fatalf("ListVisibleByPost failed: %v", err)
	}

	if len(comments) != 2 {
		t.Fatalf("Expected 2 visible comments, got %d", len(comments))
	}
	ids := map[string]bool{}
	for _, c := range comments {
		ids[c.ID] = true
	}
	if !ids["approved"] || !ids["own-pending"] {
		t.Errorf("Expected approved + viewer's own pending, got %v", ids)
	}
}

func TestCommentRepository_ListAllByPost_StatusFilter(t *testing.T) {
	repo := mocks.NewMockCommentRepository()
	ctx := context.Background()

	seedComment(repo, "c1", "p1", "u1", models.CommentStatusPending, 3*time.Minute)
	seedComment(repo, "c2", "p1", "u2", models.CommentStatusApproved, 2*time.Minute)
	seedComment(repo, "c3", "p1", "u3", models.CommentStatusPending, time.Minute)

	pending, err := repo.ListAllByPost(ctx, "p1", models.CommentListOptions{Status: models.CommentStatusPending})
	if err != nil {
		t.Fatalf("ListAllByPost failed: %v", err)
	}
	if len(pending) != 2 {
		t.Errorf("Expected 2 pending comments, got %d", len(pending))
	}

	all, err := repo.ListAllByPost(ctx, "p1", models.CommentListOptions{})
	if err != nil {
		t.Fatalf("ListAllByPost failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("Expected 3 comments without a filter, got %d", len(all))
	}
}

func TestCommentRepository_SortOrder(t *testing.T) {
	repo := mocks.NewMockCommentRepository()
	ctx := context.Background()

	seedComment(repo, "oldest", "p1", "u1", models.CommentStatusApproved, 3*time.Minute)
	seedComment(repo, "middle", "p1", "u2", models.CommentStatusApproved, 2*time.Minute)
	seedComment(repo, "newest", "p1", "u3", models.CommentStatusApproved, time.Minute)

	newest, _ := repo.ListAllByPost(ctx, "p1", models.CommentListOptions{})
	if newest[0].ID != "newest" {
		t.Errorf("Default sort should be newest first, got %s", newest[0].ID)
	}

	oldest, _ := repo.ListAllByPost(ctx, "p1", models.CommentListOptions{Sort: "oldest"})
	if oldest[0].ID != "oldest" {
		t.Errorf("Sort=oldest should put the oldest first, got %s", oldest[0].ID)
	}
}

func TestCommentRepository_FindRecentByAuthor(t *testing.T) {
	repo := mocks.NewMockCommentRepository()
	ctx := context.Background()

	seedComment(repo, "recent", "p1", "u1", models.CommentStatusPending, 2*time.Minute)
	seedComment(repo, "stale", "p1", "u1", models.CommentStatusPending, 30*time.Minute)
	seedComment(repo, "other-author", "p1", "u2", models.CommentStatusPending, time.Minute)

	since := time.Now().Add(-10 * time.Minute)

	found, err := repo.FindRecentByAuthor(ctx, "u1", "p1", since)
	if err != nil {
		t.Fatalf("FindRecentByAuthor failed: %v", err)
	}
	if found == nil || found.ID != "recent" {
		t.Fatalf("Expected the recent comment, got %v", found)
	}

	// Nothing inside the window for a quiet author
	none, err := repo.FindRecentByAuthor(ctx, "u3", "p1", since)
	if err != nil {
		t.Fatalf("FindRecentByAuthor failed: %v", err)
	}
	if none != nil {
		t.Errorf("Expected no match for u3, got %v", none)
	}
}

func TestCommentRepository_Stats(t *testing.T) {
	repo := mocks.NewMockCommentRepository()
	ctx := context.Background()

	seedComment(repo, "c1", "p1", "u1", models.CommentStatusPending, 0)
	seedComment(repo, "c2", "p1", "u2", models.CommentStatusApproved, 0)
	seedComment(repo, "c3", "p1", "u3", models.CommentStatusApproved, 0)
	seedComment(repo, "c4", "p1", "u4", models.CommentStatusRejected, 0)
	flagged := seedComment(repo, "c5", "p1", "u5", models.CommentStatusPending, 0)
	_, _ = repo.IncrementFlagCount(ctx, flagged.ID, "spam")

	gone := seedComment(repo, "c6", "p1", "u6", models.CommentStatusApproved, 0)
	_, _ = repo.SoftDelete(ctx, gone.ID)

	stats, err := repo.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}

	if stats.Total != 5 {
		t.Errorf("Expected total 5, got %d", stats.Total)
	}
	if stats.Pending != 2 || stats.Approved != 2 || stats.Rejected != 1 {
		t.Errorf("Unexpected status breakdown: %+v", stats)
	}
	if stats.Flagged != 1 {
		t.Errorf("Expected 1 flagged, got %d", stats.Flagged)
	}
	if stats.Deleted != 1 {
		t.Errorf("Expected 1 deleted, got %d", stats.Deleted)
	}
}

func TestPostRepository_SyncCommentsCount(t *testing.T) {
	comments := mocks.NewMockCommentRepository()
	posts := mocks.NewMockPostRepository()
	posts.Comments = comments
	posts.Posts["p1"] = &models.Post{ID: "p1", Slug: "p1", Title: "Post", Status: "published", CommentsCount: 99}
	ctx := context.Background()

	seedComment(comments, "c1", "p1", "u1", models.CommentStatusApproved, 0)
	seedComment(comments, "c2", "p1", "u2", models.CommentStatusApproved, 0)
	seedComment(comments, "c3", "p1", "u3", models.CommentStatusPending, 0)
	gone := seedComment(comments, "c4", "p1", "u4", models.CommentStatusApproved, 0)
	_, _ = comments.SoftDelete(ctx, gone.ID)

	// Recomputes from scratch, repairing any drift
	count, err := posts.SyncCommentsCount(ctx, "p1")
	if err != nil {
		t.Fatalf("SyncCommentsCount failed: %v", err)
	}
	if count != 2 {
		t.Errorf("Expected 2 approved live comments, got %d", count)
	}
	if posts.Posts["p1"].CommentsCount != 2 {
		t.Errorf("Expected stored count 2, got %d", posts.Posts["p1"].CommentsCount)
	}

	// Idempotent
	if count, _ := posts.SyncCommentsCount(ctx, "p1"); count != 2 {
		t.Errorf("Second sync changed the count to %d", count)
	}
}

func TestFlagRepository_Uniqueness(t *testing.T) {
	flags := mocks.NewMockFlagRepository()
	ctx := context.Background()

	flag := &models.Flag{ID: "f1", CommentID: "c1", UserID: "u1", Reason: "spam", CreatedAt: time.Now()}
	if err := flags.Create(ctx, flag); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	exists, err := flags.Exists(ctx, "c1", "u1")
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if !exists {
		t.Error("Expected flag to exist for (c1, u1)")
	}

	other, _ := flags.Exists(ctx, "c1", "u2")
	if other {
		t.Error("A different user must not be reported as having flagged")
	}
}
