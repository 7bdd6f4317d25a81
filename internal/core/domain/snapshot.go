package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SnapshotVersion is bumped whenever the Snapshot layout changes.
const SnapshotVersion = 1

// Snapshot is a point-in-time image of the whole ledger state. LastSeq and
// LastAdminSeq mark where log replay resumes.
type Snapshot struct {
	Version      int       `json:"version"`
	TakenAt      time.Time `json:"taken_at"`
	LastSeq      uint64    `json:"last_seq"`
	LastHash     string    `json:"last_hash"`
	LastAdminSeq uint64    `json:"last_admin_seq"`
	Paused       bool      `json:"paused"`

	Batches  []CreditBatch          `json:"batches"`
	Holdings []Holding              `json:"holdings"`
	Received map[Identity][]BatchID `json:"received"`
	Roles    map[Role][]Identity    `json:"roles"`

	TotalSupply   decimal.Decimal `json:"total_supply"`
	TotalRetired  decimal.Decimal `json:"total_retired"`
	TotalHydrogen decimal.Decimal `json:"total_hydrogen"`
	TransferCount uint64          `json:"transfer_count"`
}
