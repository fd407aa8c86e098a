package api

import (
	"net/http"

	"github.com/comment-moderation-api/internal/models"
	"github.com/comment-moderation-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// ModerationHandler handles the admin moderation endpoints and flagging
type ModerationHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewModerationHandler creates a new ModerationHandler
func NewModerationHandler(services *service.Services, log zerolog.Logger) *ModerationHandler {
	return &ModerationHandler{
		services: services,
		log:      log.With().Str("handler", "moderation").Logger(),
	}
}

// Approve handles POST /v1/comments/:id/approve
func (h *ModerationHandler) Approve(c *gin.Context) {
	comment, err := h.services.Moderation.Approve(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "comment approved",
		"comment": comment,
	})
}

// Reject handles POST /v1/comments/:id/reject
func (h *ModerationHandler) Reject(c *gin.Context) {
	// Reason is optional; an empty body is a plain rejection
	var req models.RejectCommentRequest
	_ = c.ShouldBindJSON(&req)

	comment, err := h.services.Moderation.Reject(c.Request.Context(), c.Param("id"), req.Reason)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "comment rejected",
		"comment": comment,
	})
}

// Flag handles POST /v1/comments/:id/flag
func (h *ModerationHandler) Flag(c *gin.Context) {
	var req models.FlagCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "reason is required"})
		return
	}

	if err := h.services.Moderation.Flag(c.Request.Context(), getPrincipal(c), c.Param("id"), req.Reason); err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "comment flagged for review"})
}

// BulkModerate handles POST /v1/admin/comments/bulk
func (h *ModerationHandler) BulkModerate(c *gin.Context) {
	var req models.BulkModerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "action and comment_ids are required"})
		return
	}
	if len(req.CommentIDs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "comment_ids must not be empty"})
		return
	}

	result, err := h.services.Moderation.BulkModerate(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ListAll handles GET /v1/admin/comments
func (h *ModerationHandler) ListAll(c *gin.Context) {
	comments, err := h.services.Moderation.ListAll(c.Request.Context(), listOptionsFromQuery(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"comments": comments,
		"count":    len(comments),
	})
}

// ListDeleted handles GET /v1/admin/comments/deleted
func (h *ModerationHandler) ListDeleted(c *gin.Context) {
	comments, err := h.services.Moderation.ListDeleted(c.Request.Context(), listOptionsFromQuery(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"comments": comments,
		"count":    len(comments),
	})
}

// Stats handles GET /v1/admin/comments/stats
func (h *ModerationHandler) Stats(c *gin.Context) {
	stats, err := h.services.Moderation.Stats(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
