package dto

import (
	"time"

	"hydrogen-credit-ledger/internal/core/domain"
)

// Amounts travel as decimal strings so values beyond 2^53 survive JSON
// clients.

// IssueRequest is the request body for POST /api/v1/credits.
type IssueRequest struct {
	To               string `json:"to" binding:"required,max=128"`
	CreditAmount     string `json:"credit_amount" binding:"required,amount"`
	Facility         string `json:"production_facility" binding:"required,max=200"`
	HydrogenAmount   string `json:"hydrogen_amount" binding:"required,amount"`
	VerificationHash string `json:"verification_hash" binding:"required,max=200,safe_id"`
}

// IssueResponse carries the id of the new batch.
type IssueResponse struct {
	BatchID domain.BatchID `json:"batch_id"`
}

// TransferRequest is the request body for POST /api/v1/credits/:id/transfer.
// From defaults to the caller; naming another holder requires the operator
// role.
type TransferRequest struct {
	To     string  `json:"to" binding:"required,max=128"`
	Amount string  `json:"amount" binding:"required,amount"`
	From   *string `json:"from,omitempty" binding:"omitempty,max=128"`
}

// RetireRequest is the request body for POST /api/v1/credits/:id/retire.
type RetireRequest struct {
	Amount string `json:"amount" binding:"required,amount"`
}

// RoleRequest is the request body for role grant and revoke.
type RoleRequest struct {
	Identity string `json:"identity" binding:"required,max=128"`
	Role     string `json:"role" binding:"required,max=32"`
}

// BatchResponse is the public view of a credit batch.
type BatchResponse struct {
	ID                 domain.BatchID `json:"id"`
	Owner              string         `json:"owner"`
	ProductionFacility string         `json:"production_facility"`
	HydrogenAmount     string         `json:"hydrogen_amount"`
	CreditAmount       string         `json:"credit_amount"`
	IssuedAmount       string         `json:"issued_amount"`
	VerificationHash   string         `json:"verification_hash"`
	Certifier          string         `json:"certifier"`
	IsRetired          bool           `json:"is_retired"`
	IssuanceDate       string         `json:"issuance_date"`
	RetiredAt          *string        `json:"retired_at,omitempty"`
}

// HoldingResponse is one holder's share of a batch.
type HoldingResponse struct {
	Holder string `json:"holder"`
	Amount string `json:"amount"`
}

// TransactionResponse is one transaction log record.
type TransactionResponse struct {
	Seq              uint64         `json:"seq"`
	Type             string         `json:"type"`
	BatchID          domain.BatchID `json:"batch_id"`
	From             string         `json:"from"`
	To               string         `json:"to"`
	Amount           string         `json:"amount"`
	Actor            string         `json:"actor"`
	Timestamp        string         `json:"timestamp"`
	Facility         string         `json:"production_facility,omitempty"`
	HydrogenAmount   string         `json:"hydrogen_amount,omitempty"`
	VerificationHash string         `json:"verification_hash,omitempty"`
	PrevHash         string         `json:"prev_hash"`
	Hash             string         `json:"hash"`
}

// AccountCreditsResponse lists every batch an identity has received.
type AccountCreditsResponse struct {
	Identity string           `json:"identity"`
	Batches  []domain.BatchID `json:"batches"`
}

// BalanceResponse is an identity's outstanding balance. BatchID is set when
// the balance is scoped to one batch.
type BalanceResponse struct {
	Identity string          `json:"identity"`
	BatchID  *domain.BatchID `json:"batch_id,omitempty"`
	Balance  string          `json:"balance"`
}

// SupplyResponse carries the ledger-wide counters.
type SupplyResponse struct {
	TotalSupply           string `json:"total_supply"`
	TotalRetired          string `json:"total_retired"`
	OutstandingSupply     string `json:"outstanding_supply"`
	TotalHydrogenProduced string `json:"total_hydrogen_produced"`
}

// StatsResponse is the compliance report.
type StatsResponse struct {
	SupplyResponse
	TotalBatches       int                   `json:"total_batches"`
	ActiveBatches      int                   `json:"active_batches"`
	RetiredBatches     int                   `json:"retired_batches"`
	TransferCount      uint64                `json:"transfer_count"`
	LastSeq            uint64                `json:"last_seq"`
	Paused             bool                  `json:"paused"`
	RecentTransactions []TransactionResponse `json:"recent_transactions"`
	GeneratedAt        string                `json:"generated_at"`
}

// RoleCheckResponse answers whether an identity holds a role.
type RoleCheckResponse struct {
	Identity string `json:"identity"`
	Role     string `json:"role"`
	HasRole  bool   `json:"has_role"`
}

// PausedResponse reports the pause flag.
type PausedResponse struct {
	Paused bool `json:"paused"`
}

// NewBatchResponse converts a domain batch.
func NewBatchResponse(b *domain.CreditBatch) BatchResponse {
	resp := BatchResponse{
		ID:                 b.ID,
		Owner:              string(b.Owner),
		ProductionFacility: b.ProductionFacility,
		HydrogenAmount:     b.HydrogenAmount.String(),
		CreditAmount:       b.CreditAmount.String(),
		IssuedAmount:       b.IssuedAmount.String(),
		VerificationHash:   b.VerificationHash,
		Certifier:          string(b.Certifier),
		IsRetired:          b.IsRetired,
		IssuanceDate:       formatTime(b.IssuanceDate),
	}
	if b.RetiredAt != nil {
		s := formatTime(*b.RetiredAt)
		resp.RetiredAt = &s
	}
	return resp
}

// NewTransactionResponses converts log records, keeping their order.
func NewTransactionResponses(recs []domain.TransactionRecord) []TransactionResponse {
	out := make([]TransactionResponse, 0, len(recs))
	for i := range recs {
		r := &recs[i]
		resp := TransactionResponse{
			Seq:              r.Seq,
			Type:             string(r.Kind),
			BatchID:          r.BatchID,
			From:             string(r.From),
			To:               string(r.To),
			Amount:           r.Amount.String(),
			Actor:            string(r.Actor),
			Timestamp:        formatTime(r.Timestamp),
			Facility:         r.Facility,
			VerificationHash: r.VerificationHash,
			PrevHash:         r.PrevHash,
			Hash:             r.Hash,
		}
		if r.Kind == domain.RecordIssue {
			resp.HydrogenAmount = r.HydrogenAmount.String()
		}
		out = append(out, resp)
	}
	return out
}

// NewSupplyResponse converts the ledger counters.
func NewSupplyResponse(s domain.Supply) SupplyResponse {
	return SupplyResponse{
		TotalSupply:           s.TotalSupply.String(),
		TotalRetired:          s.TotalRetired.String(),
		OutstandingSupply:     s.OutstandingSupply.String(),
		TotalHydrogenProduced: s.TotalHydrogenProduced.String(),
	}
}

// NewStatsResponse converts a compliance report.
func NewStatsResponse(s *domain.ComplianceStats) StatsResponse {
	return StatsResponse{
		SupplyResponse:     NewSupplyResponse(s.Supply),
		TotalBatches:       s.TotalBatches,
		ActiveBatches:      s.ActiveBatches,
		RetiredBatches:     s.RetiredBatches,
		TransferCount:      s.TransferCount,
		LastSeq:            s.LastSeq,
		Paused:             s.Paused,
		RecentTransactions: NewTransactionResponses(s.RecentTransactions),
		GeneratedAt:        formatTime(s.GeneratedAt),
	}
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
