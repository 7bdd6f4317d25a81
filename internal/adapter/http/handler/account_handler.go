package handler

import (
	"strconv"

	"hydrogen-credit-ledger/internal/adapter/http/dto"
	"hydrogen-credit-ledger/internal/core/domain"
	"hydrogen-credit-ledger/internal/core/ports"
	"hydrogen-credit-ledger/pkg/apperror"
	"hydrogen-credit-ledger/pkg/response"

	"github.com/gin-gonic/gin"
)

// AccountHandler serves per-identity views. Ledger data is public, so any
// authenticated caller may read any account.
type AccountHandler struct {
	ledger ports.LedgerService
	txlog  ports.TransactionLogService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(ledger ports.LedgerService, txlog ports.TransactionLogService) *AccountHandler {
	return &AccountHandler{ledger: ledger, txlog: txlog}
}

// Credits handles GET /api/v1/accounts/:identity/credits.
func (h *AccountHandler) Credits(c *gin.Context) {
	identity := domain.Identity(c.Param("identity"))
	response.OK(c, dto.AccountCreditsResponse{
		Identity: string(identity),
		Batches:  h.ledger.GetUserCredits(identity),
	})
}

// Balance handles GET /api/v1/accounts/:identity/balance. With ?batch_id=
// the balance is scoped to that batch.
func (h *AccountHandler) Balance(c *gin.Context) {
	identity := domain.Identity(c.Param("identity"))

	raw := c.Query("batch_id")
	if raw == "" {
		response.OK(c, dto.BalanceResponse{
			Identity: string(identity),
			Balance:  h.ledger.BalanceOf(identity).String(),
		})
		return
	}

	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		response.Error(c, apperror.Validation("batch_id must be a non-negative integer"))
		return
	}
	id := domain.BatchID(n)
	if _, err := h.ledger.GetCreditBatch(id); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.BalanceResponse{
		Identity: string(identity),
		BatchID:  &id,
		Balance:  h.ledger.BatchBalance(id, identity).String(),
	})
}

// Transactions handles GET /api/v1/accounts/:identity/transactions.
func (h *AccountHandler) Transactions(c *gin.Context) {
	identity := domain.Identity(c.Param("identity"))

	recs, err := h.txlog.QueryByParty(c.Request.Context(), identity)
	if err != nil {
		response.Error(c, err)
		return
	}
	items := dto.NewTransactionResponses(recs)
	response.List(c, items, len(items))
}
