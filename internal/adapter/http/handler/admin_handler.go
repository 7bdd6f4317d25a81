package handler

import (
	"hydrogen-credit-ledger/internal/adapter/http/dto"
	"hydrogen-credit-ledger/internal/core/domain"
	"hydrogen-credit-ledger/internal/core/ports"
	"hydrogen-credit-ledger/pkg/apperror"
	"hydrogen-credit-ledger/pkg/response"

	"github.com/gin-gonic/gin"
)

// AdminHandler handles the pause switch, log verification, and the API
// audit trail.
type AdminHandler struct {
	ledger   ports.LedgerService
	txlog    ports.TransactionLogService
	auditSvc ports.AuditService // nil = audit trail unavailable
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(ledger ports.LedgerService, txlog ports.TransactionLogService, auditSvc ports.AuditService) *AdminHandler {
	return &AdminHandler{ledger: ledger, txlog: txlog, auditSvc: auditSvc}
}

// Pause handles POST /api/v1/admin/pause.
func (h *AdminHandler) Pause(c *gin.Context) {
	actor, ok := caller(c)
	if !ok {
		return
	}
	if err := h.ledger.Pause(c.Request.Context(), actor); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.PausedResponse{Paused: true})
}

// Unpause handles POST /api/v1/admin/unpause.
func (h *AdminHandler) Unpause(c *gin.Context) {
	actor, ok := caller(c)
	if !ok {
		return
	}
	if err := h.ledger.Unpause(c.Request.Context(), actor); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.PausedResponse{Paused: false})
}

// Paused handles GET /api/v1/admin/paused.
func (h *AdminHandler) Paused(c *gin.Context) {
	response.OK(c, dto.PausedResponse{Paused: h.ledger.Paused()})
}

// Verify handles GET /api/v1/admin/verify. A broken chain is still a 200;
// the report says where it breaks.
func (h *AdminHandler) Verify(c *gin.Context) {
	report, err := h.txlog.Verify(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, report)
}

// Audit handles GET /api/v1/admin/audit. Admins only.
func (h *AdminHandler) Audit(c *gin.Context) {
	actor, ok := caller(c)
	if !ok {
		return
	}
	if !h.ledger.HasRole(actor, domain.RoleAdmin) {
		response.Error(c, apperror.ErrUnauthorized(string(domain.RoleAdmin)))
		return
	}
	if h.auditSvc == nil {
		response.List(c, []domain.AuditLog{}, 0)
		return
	}

	entries, err := h.auditSvc.Recent(c.Request.Context(), queryLimit(c, 0))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, entries, len(entries))
}
