package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/comment-moderation-api/internal/models"
	"github.com/comment-moderation-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// CommentHandler handles comment submission and read endpoints
type CommentHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(services *service.Services, log zerolog.Logger) *CommentHandler {
	return &CommentHandler{
		services: services,
		log:      log.With().Str("handler", "comment").Logger(),
	}
}

// Submit handles POST /v1/comments
func (h *CommentHandler) Submit(c *gin.Context) {
	var req models.SubmitCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "post_id and content are required"})
		return
	}

	resp, err := h.services.Comment.Submit(c.Request.Context(), getPrincipal(c), &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// Get handles GET /v1/comments/:id
func (h *CommentHandler) Get(c *gin.Context) {
	comment, err := h.services.Comment.Get(c.Request.Context(), getPrincipal(c), c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, comment)
}

// Update handles PATCH /v1/comments/:id
func (h *CommentHandler) Update(c *gin.Context) {
	var req models.UpdateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "content is required"})
		return
	}

	comment, err := h.services.Comment.Update(c.Request.Context(), getPrincipal(c), c.Param("id"), req.Content)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, comment)
}

// Delete handles DELETE /v1/comments/:id
func (h *CommentHandler) Delete(c *gin.Context) {
	if err := h.services.Comment.Delete(c.Request.Context(), getPrincipal(c), c.Param("id")); err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "comment deleted"})
}

// ListForPost handles GET /v1/posts/:post_id/comments
func (h *CommentHandler) ListForPost(c *gin.Context) {
	comments, err := h.services.Comment.ListForPost(
		c.Request.Context(),
		getPrincipal(c),
		c.Param("post_id"),
		listOptionsFromQuery(c),
	)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"comments": comments,
		"count":    len(comments),
	})
}

// listOptionsFromQuery reads pagination, sorting and status filtering from
// the query string
func listOptionsFromQuery(c *gin.Context) models.CommentListOptions {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	opts := models.CommentListOptions{
		Page:  page,
		Limit: limit,
		Sort:  c.DefaultQuery("sort", "newest"),
	}
	if status := c.Query("status"); status != "" {
		opts.Status = models.CommentStatus(status)
	}
	return opts
}

// respondError maps domain errors to HTTP responses. Infrastructure errors
// become generic 500s; the details stay in the logs.
func respondError(c *gin.Context, log zerolog.Logger, err error) {
	var verr *models.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Message, "field": verr.Field})
		return
	}

	var rle *models.RateLimitError
	if errors.As(err, &rle) {
		retryAfter := int(rle.RetryAfter.Seconds()) + 1
		c.Header("Retry-After", strconv.Itoa(retryAfter))
		c.JSON(http.StatusTooManyRequests, gin.H{
			"error":       "too many comments, please slow down",
			"retry_after": fmt.Sprintf("%ds", retryAfter),
		})
		return
	}

	switch {
	case errors.Is(err, models.ErrPostNotFound), errors.Is(err, models.ErrCommentNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrDuplicate), errors.Is(err, models.ErrSelfFlag):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrAlreadyFlagged):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		log.Error().Err(err).Msg("Request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
