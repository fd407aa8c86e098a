package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/comment-moderation-api/internal/api"
	"github.com/comment-moderation-api/internal/config"
	"github.com/comment-moderation-api/internal/mocks"
	"github.com/comment-moderation-api/internal/models"
	"github.com/comment-moderation-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

func setupTestRouter() (*gin.Engine, *mocks.MockCommentService, *mocks.MockModerationService) {
	gin.SetMode(gin.TestMode)

	mockComment := mocks.NewMockCommentService()
	mockModeration := mocks.NewMockModerationService()

	services := &service.Services{
		Comment:    mockComment,
		Moderation: mockModeration,
	}

	cfg := &config.Config{}
	router := api.NewRouter(services, cfg, zerolog.Nop())

	return router, mockComment, mockModeration
}

func doRequest(router *gin.Engine, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func asUser(id string) map[string]string {
	return map[string]string{"X-User-ID": id, "X-User-Role": "viewer"}
}

func asAdmin() map[string]string {
	return map[string]string{"X-User-ID": "admin-1", "X-User-Role": "admin"}
}

func TestHealthCheck(t *testing.T) {
	router, _, _ := setupTestRouter()

	w := doRequest(router, http.MethodGet, "/health", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Invalid JSON response: %v", err)
	}
	if resp["status"] != "healthy" {
		t.Errorf("Expected healthy status, got %v", resp["status"])
	}
}

func TestMetrics(t *testing.T) {
	router, _, mockModeration := setupTestRouter()
	mockModeration.StatsResult = &models.CommentStats{Total: 10, Pending: 3, Approved: 6, Rejected: 1}

	w := doRequest(router, http.MethodGet, "/metrics", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	var resp struct {
		Comments models.CommentStats `json:"comments"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Invalid JSON response: %v", err)
	}
	if resp.Comments.Total != 10 {
		t.Errorf("Expected total 10, got %d", resp.Comments.Total)
	}
}

func TestSubmitComment(t *testing.T) {
	router, mockComment, _ := setupTestRouter()
	mockComment.SubmitResponse = &models.SubmitCommentResponse{
		Comment: &models.Comment{
			ID:      "c-1",
			PostID:  "p-1",
			Status:  models.CommentStatusPending,
			Content: "Great post, thanks!",
		},
	}

	body := models.SubmitCommentRequest{PostID: "p-1", Content: "Great post, thanks!"}
	w := doRequest(router, http.MethodPost, "/v1/comments", body, asUser("u-1"))

	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if mockComment.SubmitCalls != 1 {
		t.Errorf("Expected 1 submit call, got %d", mockComment.SubmitCalls)
	}

	var resp models.SubmitCommentResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Invalid JSON response: %v", err)
	}
	if resp.Comment.Status != models.CommentStatusPending {
		t.Errorf("Expected pending status, got %s", resp.Comment.Status)
	}
}

func TestSubmitComment_RequiresAuth(t *testing.T) {
	router, mockComment, _ := setupTestRouter()

	body := models.SubmitCommentRequest{PostID: "p-1", Content: "Great post, thanks!"}
	w := doRequest(router, http.MethodPost, "/v1/comments", body, nil)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("Expected 401, got %d", w.Code)
	}
	if mockComment.SubmitCalls != 0 {
		t.Error("Service must not be reached without a caller identity")
	}
}

func TestSubmitComment_MissingFields(t *testing.T) {
	router, _, _ := setupTestRouter()

	w := doRequest(router, http.MethodPost, "/v1/comments", map[string]string{"post_id": "p-1"}, asUser("u-1"))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", w.Code)
	}
}

func TestSubmitComment_ValidationError(t *testing.T) {
	router, mockComment, _ := setupTestRouter()
	mockComment.SubmitError = &models.ValidationError{Field: "content", Message: "comment must be at least 5 characters"}

	body := models.SubmitCommentRequest{PostID: "p-1", Content: "hi"}
	w := doRequest(router, http.MethodPost, "/v1/comments", body, asUser("u-1"))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", w.Code)
	}

	var resp map[string]string
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["field"] != "content" {
		t.Errorf("Expected field=content in error body, got %v", resp)
	}
}

func TestSubmitComment_RateLimited(t *testing.T) {
	router, mockComment, _ := setupTestRouter()
	mockComment.SubmitError = &models.RateLimitError{RetryAfter: 15 * time.Minute}

	body := models.SubmitCommentRequest{PostID: "p-1", Content: "Another distinct comment"}
	w := doRequest(router, http.MethodPost, "/v1/comments", body, asUser("u-1"))

	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("Expected 429, got %d", w.Code)
	}
	if w.Header().Get("Retry-After") != "901" {
		t.Errorf("Expected Retry-After header of 901s, got %q", w.Header().Get("Retry-After"))
	}

	var resp map[string]string
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["retry_after"] == "" {
		t.Errorf("Expected retry_after in body, got %v", resp)
	}
}

func TestSubmitComment_PostNotFound(t *testing.T) {
	router, mockComment, _ := setupTestRouter()
	mockComment.SubmitError = models.ErrPostNotFound

	body := models.SubmitCommentRequest{PostID: "missing", Content: "Great post, thanks!"}
	w := doRequest(router, http.MethodPost, "/v1/comments", body, asUser("u-1"))

	if w.Code != http.StatusNotFound {
		t.Fatalf("Expected 404, got %d", w.Code)
	}
}

func TestSubmitComment_Duplicate(t *testing.T) {
	router, mockComment, _ := setupTestRouter()
	mockComment.SubmitError = models.ErrDuplicate

	body := models.SubmitCommentRequest{PostID: "p-1", Content: "Great post, thanks!"}
	w := doRequest(router, http.MethodPost, "/v1/comments", body, asUser("u-1"))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", w.Code)
	}
}

func TestGetComment(t *testing.T) {
	router, mockComment, _ := setupTestRouter()
	mockComment.GetComment = &models.Comment{ID: "c-1", Status: models.CommentStatusApproved}

	w := doRequest(router, http.MethodGet, "/v1/comments/c-1", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	var comment models.Comment
	if err := json.Unmarshal(w.Body.Bytes(), &comment); err != nil {
		t.Fatalf("Invalid JSON response: %v", err)
	}
	if comment.ID != "c-1" {
		t.Errorf("Expected comment c-1, got %s", comment.ID)
	}
}

func TestGetComment_NotFound(t *testing.T) {
	router, _, _ := setupTestRouter()

	w := doRequest(router, http.MethodGet, "/v1/comments/missing", nil, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("Expected 404, got %d", w.Code)
	}
}

func TestUpdateComment_Forbidden(t *testing.T) {
	router, mockComment, _ := setupTestRouter()
	mockComment.UpdateError = models.ErrForbidden

	body := models.UpdateCommentRequest{Content: "Edited text here"}
	w := doRequest(router, http.MethodPatch, "/v1/comments/c-1", body, asUser("u-2"))

	if w.Code != http.StatusForbidden {
		t.Fatalf("Expected 403, got %d", w.Code)
	}
}

func TestDeleteComment(t *testing.T) {
	router, _, _ := setupTestRouter()

	w := doRequest(router, http.MethodDelete, "/v1/comments/c-1", nil, asUser("u-1"))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	// Unauthenticated delete never reaches the service
	w = doRequest(router, http.MethodDelete, "/v1/comments/c-1", nil, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("Expected 401, got %d", w.Code)
	}
}

func TestFlagComment(t *testing.T) {
	router, _, mockModeration := setupTestRouter()

	body := models.FlagCommentRequest{Reason: "spam"}
	w := doRequest(router, http.MethodPost, "/v1/comments/c-1/flag", body, asUser("u-2"))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	// Missing reason is rejected at the binding layer
	w = doRequest(router, http.MethodPost, "/v1/comments/c-1/flag", map[string]string{}, asUser("u-2"))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400 without a reason, got %d", w.Code)
	}

	// Repeat flags surface as a conflict
	mockModeration.FlagError = models.ErrAlreadyFlagged
	w = doRequest(router, http.MethodPost, "/v1/comments/c-1/flag", body, asUser("u-2"))
	if w.Code != http.StatusConflict {
		t.Fatalf("Expected 409, got %d", w.Code)
	}

	// Self-flags are a plain bad request
	mockModeration.FlagError = models.ErrSelfFlag
	w = doRequest(router, http.MethodPost, "/v1/comments/c-1/flag", body, asUser("u-1"))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400 for self-flag, got %d", w.Code)
	}
}

func TestApproveComment_AdminOnly(t *testing.T) {
	router, _, mockModeration := setupTestRouter()
	mockModeration.ApproveComment = &models.Comment{ID: "c-1", Status: models.CommentStatusApproved}

	// Non-admin is rejected before the service
	w := doRequest(router, http.MethodPost, "/v1/comments/c-1/approve", nil, asUser("u-1"))
	if w.Code != http.StatusForbidden {
		t.Fatalf("Expected 403 for non-admin, got %d", w.Code)
	}

	w = doRequest(router, http.MethodPost, "/v1/comments/c-1/approve", nil, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("Expected 401 for anonymous, got %d", w.Code)
	}

	w = doRequest(router, http.MethodPost, "/v1/comments/c-1/approve", nil, asAdmin())
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200 for admin, got %d: %s", w.Code, w.Body.String())
	}
}

func TestRejectComment_WithReason(t *testing.T) {
	router, _, mockModeration := setupTestRouter()
	reason := "off topic"
	mockModeration.RejectComment = &models.Comment{ID: "c-1", Status: models.CommentStatusRejected, RejectionReason: &reason}

	body := models.RejectCommentRequest{Reason: reason}
	w := doRequest(router, http.MethodPost, "/v1/comments/c-1/reject", body, asAdmin())
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	// Reason is optional: an empty body still rejects
	w = doRequest(router, http.MethodPost, "/v1/comments/c-1/reject", nil, asAdmin())
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200 without a reason, got %d: %s", w.Code, w.Body.String())
	}
}

func TestBulkModerate(t *testing.T) {
	router, _, mockModeration := setupTestRouter()
	mockModeration.BulkResult = &models.BulkModerateResult{
		Success: []string{"c-1"},
		Failed:  []models.BulkFailure{{ID: "c-2", Reason: "NotFound"}},
	}

	body := models.BulkModerateRequest{Action: models.BulkActionApprove, CommentIDs: []string{"c-1", "c-2"}}
	w := doRequest(router, http.MethodPost, "/v1/admin/comments/bulk", body, asAdmin())
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var result models.BulkModerateResult
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("Invalid JSON response: %v", err)
	}
	if len(result.Success) != 1 || len(result.Failed) != 1 {
		t.Errorf("Expected per-id results, got %+v", result)
	}
	if result.Failed[0].Reason != "NotFound" {
		t.Errorf("Expected NotFound failure reason, got %q", result.Failed[0].Reason)
	}
}

func TestBulkModerate_EmptyIDs(t *testing.T) {
	router, _, _ := setupTestRouter()

	body := models.BulkModerateRequest{Action: models.BulkActionApprove, CommentIDs: []string{}}
	w := doRequest(router, http.MethodPost, "/v1/admin/comments/bulk", body, asAdmin())
	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400 for empty comment_ids, got %d", w.Code)
	}
}

func TestListForPost(t *testing.T) {
	router, mockComment, _ := setupTestRouter()
	mockComment.ListComments = []*models.Comment{
		{ID: "c-1", Status: models.CommentStatusApproved},
		{ID: "c-2", Status: models.CommentStatusApproved},
	}

	w := doRequest(router, http.MethodGet, "/v1/posts/p-1/comments?page=1&limit=10&sort=oldest", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	var resp struct {
		Comments []*models.Comment `json:"comments"`
		Count    int               `json:"count"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Invalid JSON response: %v", err)
	}
	if resp.Count != 2 {
		t.Errorf("Expected count 2, got %d", resp.Count)
	}
}

func TestAdminListEndpoints(t *testing.T) {
	router, _, mockModeration := setupTestRouter()
	mockModeration.ListComments = []*models.Comment{{ID: "c-1", Status: models.CommentStatusPending}}
	mockModeration.DeletedComments = []*models.Comment{{ID: "c-9"}}
	mockModeration.StatsResult = &models.CommentStats{Total: 1, Pending: 1}

	paths := []string{
		"/v1/admin/comments",
		"/v1/admin/comments/deleted",
		"/v1/admin/comments/stats",
	}

	for _, path := range paths {
		// Admin gate first
		w := doRequest(router, http.MethodGet, path, nil, asUser("u-1"))
		if w.Code != http.StatusForbidden {
			t.Errorf("%s: expected 403 for non-admin, got %d", path, w.Code)
		}

		w = doRequest(router, http.MethodGet, path, nil, asAdmin())
		if w.Code != http.StatusOK {
			t.Errorf("%s: expected 200 for admin, got %d: %s", path, w.Code, w.Body.String())
		}
	}
}

func TestCORSPreflight(t *testing.T) {
	router, _, _ := setupTestRouter()

	w := doRequest(router, http.MethodOptions, "/v1/comments", nil, nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("Expected 204 for preflight, got %d", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("Expected CORS headers on preflight response")
	}
}
