package domain

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// BatchID identifies a credit batch. IDs start at 1 and are never reused.
type BatchID uint64

func (id BatchID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// ParseBatchID parses a positive decimal batch id.
func ParseBatchID(s string) (BatchID, bool) {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	return BatchID(n), true
}

// CreditBatch is one issuance of credits tied to a verified production run.
type CreditBatch struct {
	ID                 BatchID         `json:"id"`
	Owner              Identity        `json:"owner"`
	ProductionFacility string          `json:"production_facility"`
	HydrogenAmount     decimal.Decimal `json:"hydrogen_amount"`
	// CreditAmount is the outstanding (not yet retired) quantity. It only decreases.
	CreditAmount     decimal.Decimal `json:"credit_amount"`
	IssuedAmount     decimal.Decimal `json:"issued_amount"`
	VerificationHash string          `json:"verification_hash"`
	Certifier        Identity        `json:"certifier"`
	IsRetired        bool            `json:"is_retired"`
	IssuanceDate     time.Time       `json:"issuance_date"`
	RetiredAt        *time.Time      `json:"retired_at,omitempty"`
}

// BatchStatus filters batch listings. The zero value matches every batch.
type BatchStatus string

const (
	BatchStatusAny     BatchStatus = ""
	BatchStatusActive  BatchStatus = "active"
	BatchStatusRetired BatchStatus = "retired"
)

func (s BatchStatus) Valid() bool {
	switch s {
	case BatchStatusAny, BatchStatusActive, BatchStatusRetired:
		return true
	}
	return false
}

// Matches reports whether b is in status s.
func (s BatchStatus) Matches(b *CreditBatch) bool {
	switch s {
	case BatchStatusActive:
		return !b.IsRetired
	case BatchStatusRetired:
		return b.IsRetired
	}
	return true
}

// RetiredAmount is the quantity of the batch retired so far.
func (b *CreditBatch) RetiredAmount() decimal.Decimal {
	return b.IssuedAmount.Sub(b.CreditAmount)
}

// Holding is the outstanding quantity of one batch held by one identity.
type Holding struct {
	BatchID BatchID         `json:"batch_id"`
	Holder  Identity        `json:"holder"`
	Amount  decimal.Decimal `json:"amount"`
}
