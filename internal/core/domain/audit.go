package domain

import (
	"time"

	"github.com/google/uuid"
)

// AuditAction represents the type of audited API action.
type AuditAction string

const (
	AuditActionIssue    AuditAction = "ISSUE"
	AuditActionTransfer AuditAction = "TRANSFER"
	AuditActionRetire   AuditAction = "RETIRE"
	AuditActionGrant    AuditAction = "GRANT_ROLE"
	AuditActionRevoke   AuditAction = "REVOKE_ROLE"
	AuditActionPause    AuditAction = "PAUSE"
	AuditActionUnpause  AuditAction = "UNPAUSE"
)

// AuditLog records one mutating API call, including rejected ones. It is
// an operational trail kept apart from the transaction log.
type AuditLog struct {
	ID           uuid.UUID   `json:"id"`
	Actor        Identity    `json:"actor,omitempty"`
	Action       AuditAction `json:"action"`
	ResourceType string      `json:"resource_type"`
	ResourceID   string      `json:"resource_id,omitempty"`
	HTTPStatus   int         `json:"http_status"`
	ErrorCode    string      `json:"error_code,omitempty"`
	Details      string      `json:"details,omitempty"` // JSON string
	IPAddress    string      `json:"ip_address"`
	CreatedAt    time.Time   `json:"created_at"`
}

// Succeeded reports whether the audited call was accepted.
func (a *AuditLog) Succeeded() bool {
	return a.HTTPStatus >= 200 && a.HTTPStatus < 300
}
