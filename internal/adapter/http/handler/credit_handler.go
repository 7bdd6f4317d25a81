package handler

import (
	"hydrogen-credit-ledger/internal/adapter/http/dto"
	"hydrogen-credit-ledger/internal/core/domain"
	"hydrogen-credit-ledger/internal/core/ports"
	"hydrogen-credit-ledger/pkg/response"

	"github.com/gin-gonic/gin"
)

// CreditHandler handles the batch lifecycle endpoints.
type CreditHandler struct {
	ledger ports.LedgerService
	txlog  ports.TransactionLogService
}

// NewCreditHandler creates a new CreditHandler.
func NewCreditHandler(ledger ports.LedgerService, txlog ports.TransactionLogService) *CreditHandler {
	return &CreditHandler{ledger: ledger, txlog: txlog}
}

// Issue handles POST /api/v1/credits.
func (h *CreditHandler) Issue(c *gin.Context) {
	actor, ok := caller(c)
	if !ok {
		return
	}

	var req dto.IssueRequest
	if !bindJSON(c, &req) {
		return
	}
	dto.SanitizeStruct(&req)

	credits, ok := parseAmount(c, "credit_amount", req.CreditAmount)
	if !ok {
		return
	}
	hydrogen, ok := parseAmount(c, "hydrogen_amount", req.HydrogenAmount)
	if !ok {
		return
	}

	id, err := h.ledger.IssueCredits(c.Request.Context(), ports.IssueRequest{
		To:               domain.Identity(req.To),
		CreditAmount:     credits,
		Facility:         req.Facility,
		HydrogenAmount:   hydrogen,
		VerificationHash: req.VerificationHash,
		Actor:            actor,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.IssueResponse{BatchID: id})
}

// List handles GET /api/v1/credits. status is active, retired or empty for
// every batch.
func (h *CreditHandler) List(c *gin.Context) {
	status := domain.BatchStatus(c.Query("status"))
	batches, err := h.ledger.ListBatches(status, queryLimit(c, 0))
	if err != nil {
		response.Error(c, err)
		return
	}
	items := make([]dto.BatchResponse, 0, len(batches))
	for i := range batches {
		items = append(items, dto.NewBatchResponse(&batches[i]))
	}
	response.List(c, items, len(items))
}

// Get handles GET /api/v1/credits/:id.
func (h *CreditHandler) Get(c *gin.Context) {
	id, ok := batchIDParam(c)
	if !ok {
		return
	}

	batch, err := h.ledger.GetCreditBatch(id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.NewBatchResponse(batch))
}

// Transactions handles GET /api/v1/credits/:id/transactions.
func (h *CreditHandler) Transactions(c *gin.Context) {
	id, ok := batchIDParam(c)
	if !ok {
		return
	}
	if _, err := h.ledger.GetCreditBatch(id); err != nil {
		response.Error(c, err)
		return
	}

	recs, err := h.txlog.QueryByBatch(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	items := dto.NewTransactionResponses(recs)
	response.List(c, items, len(items))
}

// Holders handles GET /api/v1/credits/:id/holders.
func (h *CreditHandler) Holders(c *gin.Context) {
	id, ok := batchIDParam(c)
	if !ok {
		return
	}

	holdings, err := h.ledger.Holders(id)
	if err != nil {
		response.Error(c, err)
		return
	}
	items := make([]dto.HoldingResponse, 0, len(holdings))
	for _, hd := range holdings {
		items = append(items, dto.HoldingResponse{Holder: string(hd.Holder), Amount: hd.Amount.String()})
	}
	response.List(c, items, len(items))
}

// Transfer handles POST /api/v1/credits/:id/transfer.
func (h *CreditHandler) Transfer(c *gin.Context) {
	actor, ok := caller(c)
	if !ok {
		return
	}
	id, ok := batchIDParam(c)
	if !ok {
		return
	}

	var req dto.TransferRequest
	if !bindJSON(c, &req) {
		return
	}
	dto.SanitizeStruct(&req)

	amount, ok := parseAmount(c, "amount", req.Amount)
	if !ok {
		return
	}
	from := actor
	if req.From != nil && *req.From != "" {
		from = domain.Identity(*req.From)
	}

	remaining, err := h.ledger.Transfer(c.Request.Context(), ports.TransferRequest{
		BatchID: id,
		From:    from,
		To:      domain.Identity(req.To),
		Amount:  amount,
		Actor:   actor,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.BalanceResponse{
		Identity: string(from),
		BatchID:  &id,
		Balance:  remaining.String(),
	})
}

// Retire handles POST /api/v1/credits/:id/retire.
func (h *CreditHandler) Retire(c *gin.Context) {
	actor, ok := caller(c)
	if !ok {
		return
	}
	id, ok := batchIDParam(c)
	if !ok {
		return
	}

	var req dto.RetireRequest
	if !bindJSON(c, &req) {
		return
	}
	dto.SanitizeStruct(&req)

	amount, ok := parseAmount(c, "amount", req.Amount)
	if !ok {
		return
	}

	batch, err := h.ledger.RetireCredits(c.Request.Context(), ports.RetireRequest{
		BatchID: id,
		Amount:  amount,
		Actor:   actor,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.NewBatchResponse(batch))
}
