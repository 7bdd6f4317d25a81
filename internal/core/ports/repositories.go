package ports

import (
	"context"
	"time"

	"hydrogen-credit-ledger/internal/core/domain"
)

// LedgerStore persists the transaction log, the admin event log, and the
// batch/holding projections. The logs are append-only: there is no update
// or delete for records or admin events.
//
// Reads return nil, nil when a batch does not exist. List methods return
// records in ascending sequence order unless noted.
type LedgerStore interface {
	AppendRecord(ctx context.Context, rec *domain.TransactionRecord) error
	PutBatch(ctx context.Context, batch *domain.CreditBatch) error
	PutHolding(ctx context.Context, holding domain.Holding) error
	AppendAdminEvent(ctx context.Context, ev *domain.AdminEvent) error

	GetBatch(ctx context.Context, id domain.BatchID) (*domain.CreditBatch, error)
	ListByBatch(ctx context.Context, id domain.BatchID) ([]domain.TransactionRecord, error)
	ListByParty(ctx context.Context, party domain.Identity) ([]domain.TransactionRecord, error)
	// ListRecent returns at most limit records, newest first.
	ListRecent(ctx context.Context, limit int) ([]domain.TransactionRecord, error)
	ListSince(ctx context.Context, afterSeq uint64) ([]domain.TransactionRecord, error)
	ListAdminEvents(ctx context.Context, afterSeq uint64) ([]domain.AdminEvent, error)

	// RunInTx runs fn against a transactional view of the store. Writes made
	// through that view are committed together when fn returns nil and
	// discarded otherwise.
	RunInTx(ctx context.Context, fn func(tx LedgerStore) error) error
}

// SnapshotStore keeps the most recent ledger snapshot. Load returns nil, nil
// when no snapshot exists.
type SnapshotStore interface {
	Save(ctx context.Context, snap *domain.Snapshot) error
	Load(ctx context.Context) (*domain.Snapshot, error)
}

// AuditRepository persists API audit entries.
type AuditRepository interface {
	Create(ctx context.Context, entry *domain.AuditLog) error
	ListRecent(ctx context.Context, limit int) ([]domain.AuditLog, error)
}

// EventPublisher delivers ledger events to one sink. Events for a sink are
// delivered in emission order.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.Event) error
	Name() string
}

// RateLimitResult is the outcome of one rate limit check.
type RateLimitResult struct {
	Allowed   bool
	Limit     int64
	Remaining int64
	ResetAt   int64 // Unix timestamp
}

// RateLimitStore counts requests in fixed windows.
type RateLimitStore interface {
	Allow(ctx context.Context, key string, limit int64, window time.Duration) (*RateLimitResult, error)
}
