package handler

import (
	"context"

	"hydrogen-credit-ledger/internal/adapter/http/dto"
	"hydrogen-credit-ledger/internal/core/domain"
	"hydrogen-credit-ledger/internal/core/ports"
	"hydrogen-credit-ledger/pkg/apperror"
	"hydrogen-credit-ledger/pkg/response"

	"github.com/gin-gonic/gin"
)

// RoleHandler handles role grants, revocations, and checks.
type RoleHandler struct {
	ledger ports.LedgerService
}

// NewRoleHandler creates a new RoleHandler.
func NewRoleHandler(ledger ports.LedgerService) *RoleHandler {
	return &RoleHandler{ledger: ledger}
}

// Grant handles POST /api/v1/roles/grant.
func (h *RoleHandler) Grant(c *gin.Context) {
	h.change(c, h.ledger.GrantRole)
}

// Revoke handles POST /api/v1/roles/revoke.
func (h *RoleHandler) Revoke(c *gin.Context) {
	h.change(c, h.ledger.RevokeRole)
}

type roleChange func(ctx context.Context, subject domain.Identity, role domain.Role, actor domain.Identity) error

func (h *RoleHandler) change(c *gin.Context, apply roleChange) {
	actor, ok := caller(c)
	if !ok {
		return
	}

	var req dto.RoleRequest
	if !bindJSON(c, &req) {
		return
	}
	dto.SanitizeStruct(&req)

	subject, role := domain.Identity(req.Identity), domain.Role(req.Role)
	if err := apply(c.Request.Context(), subject, role, actor); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.RoleCheckResponse{
		Identity: req.Identity,
		Role:     req.Role,
		HasRole:  h.ledger.HasRole(subject, role),
	})
}

// Check handles GET /api/v1/roles/:role/:identity.
func (h *RoleHandler) Check(c *gin.Context) {
	role, ok := domain.ParseRole(c.Param("role"))
	if !ok {
		response.Error(c, apperror.ErrInvalidRole(c.Param("role")))
		return
	}
	identity := domain.Identity(c.Param("identity"))

	response.OK(c, dto.RoleCheckResponse{
		Identity: string(identity),
		Role:     string(role),
		HasRole:  h.ledger.HasRole(identity, role),
	})
}
