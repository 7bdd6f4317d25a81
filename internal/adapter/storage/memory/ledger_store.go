// Package memory provides in-process implementations of the storage ports.
// They back the default single-node deployment and the test suites.
package memory

import (
	"context"
	"fmt"
	"sync"

	"hydrogen-credit-ledger/internal/core/domain"
	"hydrogen-credit-ledger/internal/core/ports"

	"github.com/shopspring/decimal"
)

type holdingKey struct {
	batch  domain.BatchID
	holder domain.Identity
}

// LedgerStore is an in-memory ports.LedgerStore. State is lost on exit.
type LedgerStore struct {
	mu       sync.RWMutex
	records  []domain.TransactionRecord
	admin    []domain.AdminEvent
	batches  map[domain.BatchID]domain.CreditBatch
	holdings map[holdingKey]decimal.Decimal
}

// NewLedgerStore creates an empty store.
func NewLedgerStore() *LedgerStore {
	return &LedgerStore{
		batches:  make(map[domain.BatchID]domain.CreditBatch),
		holdings: make(map[holdingKey]decimal.Decimal),
	}
}

func (s *LedgerStore) AppendRecord(ctx context.Context, rec *domain.TransactionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.appendRecordLocked(rec)
}

func (s *LedgerStore) appendRecordLocked(rec *domain.TransactionRecord) error {
	if want := uint64(len(s.records)) + 1; rec.Seq != want {
		return fmt.Errorf("record seq %d conflicts with log head %d", rec.Seq, want-1)
	}
	s.records = append(s.records, *rec)
	return nil
}

func (s *LedgerStore) AppendAdminEvent(ctx context.Context, ev *domain.AdminEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.appendAdminLocked(ev)
}

func (s *LedgerStore) appendAdminLocked(ev *domain.AdminEvent) error {
	if want := uint64(len(s.admin)) + 1; ev.Seq != want {
		return fmt.Errorf("admin event seq %d conflicts with log head %d", ev.Seq, want-1)
	}
	s.admin = append(s.admin, *ev)
	return nil
}

func (s *LedgerStore) PutBatch(ctx context.Context, batch *domain.CreditBatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batches[batch.ID] = *batch
	return nil
}

func (s *LedgerStore) PutHolding(ctx context.Context, h domain.Holding) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.holdings[holdingKey{h.BatchID, h.Holder}] = h.Amount
	return nil
}

func (s *LedgerStore) GetBatch(ctx context.Context, id domain.BatchID) (*domain.CreditBatch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.batches[id]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

// Holding returns the persisted holding projection.
func (s *LedgerStore) Holding(id domain.BatchID, holder domain.Identity) decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.holdings[holdingKey{id, holder}]
}

func (s *LedgerStore) ListByBatch(ctx context.Context, id domain.BatchID) ([]domain.TransactionRecord, error) {
	return s.filter(func(r *domain.TransactionRecord) bool { return r.BatchID == id }), nil
}

func (s *LedgerStore) ListByParty(ctx context.Context, party domain.Identity) ([]domain.TransactionRecord, error) {
	return s.filter(func(r *domain.TransactionRecord) bool { return r.Involves(party) }), nil
}

func (s *LedgerStore) ListRecent(ctx context.Context, limit int) ([]domain.TransactionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.TransactionRecord, 0, limit)
	for i := len(s.records) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.records[i])
	}
	return out, nil
}

func (s *LedgerStore) ListSince(ctx context.Context, afterSeq uint64) ([]domain.TransactionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if afterSeq >= uint64(len(s.records)) {
		return nil, nil
	}
	return append([]domain.TransactionRecord(nil), s.records[afterSeq:]...), nil
}

func (s *LedgerStore) ListAdminEvents(ctx context.Context, afterSeq uint64) ([]domain.AdminEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if afterSeq >= uint64(len(s.admin)) {
		return nil, nil
	}
	return append([]domain.AdminEvent(nil), s.admin[afterSeq:]...), nil
}

func (s *LedgerStore) filter(keep func(r *domain.TransactionRecord) bool) []domain.TransactionRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.TransactionRecord
	for i := range s.records {
		if keep(&s.records[i]) {
			out = append(out, s.records[i])
		}
	}
	return out
}

// RunInTx stages the writes made by fn and applies them under one lock
// acquisition if fn succeeds.
func (s *LedgerStore) RunInTx(ctx context.Context, fn func(tx ports.LedgerStore) error) error {
	tx := &stagedTx{parent: s}
	if err := fn(tx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.commit(tx)
}

func (s *LedgerStore) commit(tx *stagedTx) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	recHead, admHead := len(s.records), len(s.admin)
	for i := range tx.records {
		if err := s.appendRecordLocked(&tx.records[i]); err != nil {
			s.records = s.records[:recHead]
			return err
		}
	}
	for i := range tx.admin {
		if err := s.appendAdminLocked(&tx.admin[i]); err != nil {
			s.records = s.records[:recHead]
			s.admin = s.admin[:admHead]
			return err
		}
	}
	for _, b := range tx.batches {
		s.batches[b.ID] = b
	}
	for _, h := range tx.holdings {
		s.holdings[holdingKey{h.BatchID, h.Holder}] = h.Amount
	}
	return nil
}

// stagedTx buffers writes; reads go to the parent and do not observe them.
type stagedTx struct {
	parent   *LedgerStore
	records  []domain.TransactionRecord
	admin    []domain.AdminEvent
	batches  []domain.CreditBatch
	holdings []domain.Holding
}

func (t *stagedTx) AppendRecord(ctx context.Context, rec *domain.TransactionRecord) error {
	t.records = append(t.records, *rec)
	return nil
}

func (t *stagedTx) AppendAdminEvent(ctx context.Context, ev *domain.AdminEvent) error {
	t.admin = append(t.admin, *ev)
	return nil
}

func (t *stagedTx) PutBatch(ctx context.Context, batch *domain.CreditBatch) error {
	t.batches = append(t.batches, *batch)
	return nil
}

func (t *stagedTx) PutHolding(ctx context.Context, h domain.Holding) error {
	t.holdings = append(t.holdings, h)
	return nil
}

func (t *stagedTx) GetBatch(ctx context.Context, id domain.BatchID) (*domain.CreditBatch, error) {
	return t.parent.GetBatch(ctx, id)
}

func (t *stagedTx) ListByBatch(ctx context.Context, id domain.BatchID) ([]domain.TransactionRecord, error) {
	return t.parent.ListByBatch(ctx, id)
}

func (t *stagedTx) ListByParty(ctx context.Context, party domain.Identity) ([]domain.TransactionRecord, error) {
	return t.parent.ListByParty(ctx, party)
}

func (t *stagedTx) ListRecent(ctx context.Context, limit int) ([]domain.TransactionRecord, error) {
	return t.parent.ListRecent(ctx, limit)
}

func (t *stagedTx) ListSince(ctx context.Context, afterSeq uint64) ([]domain.TransactionRecord, error) {
	return t.parent.ListSince(ctx, afterSeq)
}

func (t *stagedTx) ListAdminEvents(ctx context.Context, afterSeq uint64) ([]domain.AdminEvent, error) {
	return t.parent.ListAdminEvents(ctx, afterSeq)
}

func (t *stagedTx) RunInTx(ctx context.Context, fn func(tx ports.LedgerStore) error) error {
	return fn(t)
}
