package handler

import (
	"hydrogen-credit-ledger/internal/adapter/http/dto"
	"hydrogen-credit-ledger/internal/core/ports"
	"hydrogen-credit-ledger/pkg/response"

	"github.com/gin-gonic/gin"
)

const defaultStatsRecent = 10

// ReportHandler serves ledger-wide totals and reports.
type ReportHandler struct {
	ledger       ports.LedgerService
	txlog        ports.TransactionLogService
	reportingSvc ports.ReportingService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(ledger ports.LedgerService, txlog ports.TransactionLogService, reportingSvc ports.ReportingService) *ReportHandler {
	return &ReportHandler{ledger: ledger, txlog: txlog, reportingSvc: reportingSvc}
}

// Supply handles GET /api/v1/supply.
func (h *ReportHandler) Supply(c *gin.Context) {
	response.OK(c, dto.NewSupplyResponse(h.ledger.Supply()))
}

// Stats handles GET /api/v1/stats.
func (h *ReportHandler) Stats(c *gin.Context) {
	stats, err := h.reportingSvc.ComplianceStats(c.Request.Context(), queryLimit(c, defaultStatsRecent))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.NewStatsResponse(stats))
}

// RecentTransactions handles GET /api/v1/transactions/recent. The
// transaction log clamps the limit.
func (h *ReportHandler) RecentTransactions(c *gin.Context) {
	recs, err := h.txlog.RecentTransactions(c.Request.Context(), queryLimit(c, 0))
	if err != nil {
		response.Error(c, err)
		return
	}
	items := dto.NewTransactionResponses(recs)
	response.List(c, items, len(items))
}
