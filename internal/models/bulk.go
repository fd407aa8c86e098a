package models

// BulkAction represents the action applied by a bulk moderation request
type BulkAction string

const (
	BulkActionApprove BulkAction = "approve"
	BulkActionReject  BulkAction = "reject"
	BulkActionDelete  BulkAction = "delete"
)

// ValidBulkActions defines allowed bulk moderation actions
var ValidBulkActions = map[BulkAction]bool{
	BulkActionApprove: true,
	BulkActionReject:  true,
	BulkActionDelete:  true,
}

// BulkModerateRequest is the payload for a bulk moderation call
type BulkModerateRequest struct {
	Action     BulkAction `json:"action" binding:"required"`
	CommentIDs []string   `json:"comment_ids" binding:"required"`
	Reason     string     `json:"reason,omitempty"`
}

// BulkFailure records why a single id in a bulk request was not processed
type BulkFailure struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

// BulkModerateResult reports per-id outcomes of a bulk moderation call.
// Bulk operations are never all-or-nothing: one bad id must not abort the rest.
type BulkModerateResult struct {
	Success []string      `json:"success"`
	Failed  []BulkFailure `json:"failed"`
}
