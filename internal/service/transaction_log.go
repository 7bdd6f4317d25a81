package service

import (
	"context"
	"fmt"

	"hydrogen-credit-ledger/internal/core/domain"
	"hydrogen-credit-ledger/internal/core/ports"
	"hydrogen-credit-ledger/pkg/apperror"

	"github.com/rs/zerolog"
)

const (
	defaultRecentLimit = 20
	maxRecentLimit     = 500
)

// TransactionLog implements ports.TransactionLogService over a LedgerStore.
// Appends go through the owning Ledger; the exported API is read-only.
type TransactionLog struct {
	store ports.LedgerStore
	log   zerolog.Logger
}

// NewTransactionLog creates a transaction log reader.
func NewTransactionLog(store ports.LedgerStore, log zerolog.Logger) *TransactionLog {
	return &TransactionLog{store: store, log: log}
}

func (t *TransactionLog) append(ctx context.Context, tx ports.LedgerStore, rec *domain.TransactionRecord) error {
	if !rec.Kind.Valid() {
		return fmt.Errorf("append record %d: unknown kind %q", rec.Seq, rec.Kind)
	}
	if rec.Hash == "" {
		return fmt.Errorf("append record %d: unsealed", rec.Seq)
	}
	if err := tx.AppendRecord(ctx, rec); err != nil {
		return fmt.Errorf("append record %d: %w", rec.Seq, err)
	}
	return nil
}

// QueryByBatch returns every record touching the batch, oldest first.
func (t *TransactionLog) QueryByBatch(ctx context.Context, id domain.BatchID) ([]domain.TransactionRecord, error) {
	recs, err := t.store.ListByBatch(ctx, id)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list by batch: %w", err))
	}
	return nonNil(recs), nil
}

// QueryByParty returns every record where party is sender or recipient,
// oldest first.
func (t *TransactionLog) QueryByParty(ctx context.Context, party domain.Identity) ([]domain.TransactionRecord, error) {
	recs, err := t.store.ListByParty(ctx, party)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list by party: %w", err))
	}
	return nonNil(recs), nil
}

// RecentTransactions returns up to limit records, newest first. A
// non-positive limit selects the default; large limits are capped.
func (t *TransactionLog) RecentTransactions(ctx context.Context, limit int) ([]domain.TransactionRecord, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	if limit > maxRecentLimit {
		limit = maxRecentLimit
	}
	recs, err := t.store.ListRecent(ctx, limit)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list recent: %w", err))
	}
	return nonNil(recs), nil
}

// Verify walks the whole log and checks sequence continuity and the hash
// chain. A broken chain is reported, not returned as an error.
func (t *TransactionLog) Verify(ctx context.Context) (*domain.ChainReport, error) {
	recs, err := t.store.ListSince(ctx, 0)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list log: %w", err))
	}

	report := &domain.ChainReport{Valid: true, HeadHash: domain.GenesisHash}
	for i := range recs {
		r := &recs[i]
		want := uint64(i) + 1
		switch {
		case r.Seq != want:
			report.Reason = fmt.Sprintf("expected seq %d, found %d", want, r.Seq)
		case r.PrevHash != report.HeadHash:
			report.Reason = "prev hash does not match preceding record"
		case r.Hash != domain.ComputeRecordHash(r):
			report.Reason = "record hash does not match contents"
		}
		if report.Reason != "" {
			report.Valid = false
			report.BrokenAt = want
			t.log.Error().Uint64("seq", want).Str("reason", report.Reason).Msg("transaction log verification failed")
			return report, nil
		}
		report.HeadHash = r.Hash
		report.Records++
	}
	return report, nil
}

func nonNil(recs []domain.TransactionRecord) []domain.TransactionRecord {
	if recs == nil {
		return []domain.TransactionRecord{}
	}
	return recs
}
