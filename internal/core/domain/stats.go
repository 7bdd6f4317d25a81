package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Supply holds the ledger-wide counters.
type Supply struct {
	TotalSupply           decimal.Decimal `json:"total_supply"`
	TotalRetired          decimal.Decimal `json:"total_retired"`
	OutstandingSupply     decimal.Decimal `json:"outstanding_supply"`
	TotalHydrogenProduced decimal.Decimal `json:"total_hydrogen_produced"`
}

// ComplianceStats summarizes the ledger for registry reporting.
type ComplianceStats struct {
	Supply
	TotalBatches       int                 `json:"total_batches"`
	ActiveBatches      int                 `json:"active_batches"`
	RetiredBatches     int                 `json:"retired_batches"`
	TransferCount      uint64              `json:"transfer_count"`
	LastSeq            uint64              `json:"last_seq"`
	Paused             bool                `json:"paused"`
	RecentTransactions []TransactionRecord `json:"recent_transactions"`
	GeneratedAt        time.Time           `json:"generated_at"`
}

// ChainReport is the outcome of walking the transaction log hash chain.
// BrokenAt is the first offending sequence number when Valid is false.
type ChainReport struct {
	Valid    bool   `json:"valid"`
	Records  uint64 `json:"records"`
	HeadHash string `json:"head_hash"`
	BrokenAt uint64 `json:"broken_at,omitempty"`
	Reason   string `json:"reason,omitempty"`
}
