package middleware

import (
	"encoding/json"
	"net/http"
	"time"

	"hydrogen-credit-ledger/internal/core/domain"
	"hydrogen-credit-ledger/internal/core/ports"
	"hydrogen-credit-ledger/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AuditLog creates an audit middleware for mutating ledger calls. Rejected
// calls are recorded too, with the error code they returned.
func AuditLog(auditSvc ports.AuditService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Request.Method == http.MethodGet || c.Request.Method == http.MethodHead || c.Request.Method == http.MethodOptions {
			return
		}

		action, resourceType := mapRouteToAction(c.FullPath(), c.Request.Method)
		if action == "" {
			return
		}

		status := c.Writer.Status()
		entry := &domain.AuditLog{
			ID:           uuid.New(),
			Action:       action,
			ResourceType: resourceType,
			ResourceID:   c.Param("id"),
			HTTPStatus:   status,
			IPAddress:    c.ClientIP(),
			CreatedAt:    time.Now().UTC(),
		}
		if id, ok := Identity(c); ok {
			entry.Actor = id
		}
		if status >= http.StatusBadRequest {
			entry.ErrorCode = errorCode(c, status)
		}

		details, _ := json.Marshal(map[string]interface{}{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     status,
			"request_id": c.GetString(CtxRequestID),
		})
		entry.Details = string(details)

		auditSvc.Log(c.Request.Context(), entry)
	}
}

// errorCode recovers the code the response carried. Errors that are not
// AppErrors were rendered as SYS_001.
func errorCode(c *gin.Context, status int) string {
	if last := c.Errors.Last(); last != nil {
		if code := apperror.Code(last.Err); code != "" {
			return code
		}
		return apperror.CodeInternal
	}
	if status == http.StatusRequestEntityTooLarge {
		return apperror.CodeValidation
	}
	return ""
}

func mapRouteToAction(route, method string) (domain.AuditAction, string) {
	if method != http.MethodPost {
		return "", ""
	}
	switch route {
	case "/api/v1/credits":
		return domain.AuditActionIssue, "batch"
	case "/api/v1/credits/:id/transfer":
		return domain.AuditActionTransfer, "batch"
	case "/api/v1/credits/:id/retire":
		return domain.AuditActionRetire, "batch"
	case "/api/v1/roles/grant":
		return domain.AuditActionGrant, "role"
	case "/api/v1/roles/revoke":
		return domain.AuditActionRevoke, "role"
	case "/api/v1/admin/pause":
		return domain.AuditActionPause, "ledger"
	case "/api/v1/admin/unpause":
		return domain.AuditActionUnpause, "ledger"
	}
	return "", ""
}
