package domain

import (
	"encoding/hex"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/sha3"
)

// RecordKind is the kind of ledger transition a TransactionRecord captures.
type RecordKind string

const (
	RecordIssue    RecordKind = "issue"
	RecordTransfer RecordKind = "transfer"
	RecordRetire   RecordKind = "retire"
)

// Valid reports whether k is a known record kind.
func (k RecordKind) Valid() bool {
	switch k {
	case RecordIssue, RecordTransfer, RecordRetire:
		return true
	}
	return false
}

// GenesisHash is the PrevHash of the first record.
var GenesisHash = "0x" + strings.Repeat("0", 64)

// TransactionRecord is one immutable entry of the append-only transaction log.
// Issue records carry the issuance details so the log alone rebuilds state.
type TransactionRecord struct {
	Seq     uint64          `json:"seq"`
	Kind    RecordKind      `json:"kind"`
	BatchID BatchID         `json:"batch_id"`
	From    Identity        `json:"from"`
	To      Identity        `json:"to"`
	Amount  decimal.Decimal `json:"amount"`
	Actor   Identity        `json:"actor"`
	// Timestamp is UTC with microsecond precision.
	Timestamp time.Time `json:"timestamp"`

	Facility         string          `json:"facility,omitempty"`
	HydrogenAmount   decimal.Decimal `json:"hydrogen_amount"`
	VerificationHash string          `json:"verification_hash,omitempty"`

	PrevHash string `json:"prev_hash"`
	Hash     string `json:"hash"`
}

// LedgerTime truncates t to the precision every store can persist.
func LedgerTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}

// canonical is the byte string covered by the record hash.
func (r *TransactionRecord) canonical() string {
	fields := []string{
		strconv.FormatUint(r.Seq, 10),
		string(r.Kind),
		r.BatchID.String(),
		string(r.From),
		string(r.To),
		r.Amount.String(),
		string(r.Actor),
		strconv.FormatInt(r.Timestamp.UnixMicro(), 10),
		r.Facility,
		r.HydrogenAmount.String(),
		r.VerificationHash,
		r.PrevHash,
	}
	return strings.Join(fields, "|")
}

// ComputeRecordHash returns the 0x-prefixed Keccak-256 digest of the record's
// canonical form. Hash itself is not covered.
func ComputeRecordHash(r *TransactionRecord) string {
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(r.canonical()))
	return "0x" + hex.EncodeToString(h.Sum(nil))
}

// Seal sets PrevHash and Hash.
func (r *TransactionRecord) Seal(prevHash string) {
	r.PrevHash = prevHash
	r.Hash = ComputeRecordHash(r)
}

// Involves reports whether id is the sender or the recipient of the record.
func (r *TransactionRecord) Involves(id Identity) bool {
	return r.From == id || r.To == id
}
