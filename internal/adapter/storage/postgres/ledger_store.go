package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hydrogen-credit-ledger/internal/core/domain"
	"hydrogen-credit-ledger/internal/core/ports"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// Numeric columns are read back as text so decimals round-trip exactly.
const recordColumns = `seq, kind, batch_id, from_identity, to_identity, amount::text, actor, created_at,
	facility, hydrogen_amount::text, verification_hash, prev_hash, hash`

const batchColumns = `id, owner, production_facility, hydrogen_amount::text, credit_amount::text,
	issued_amount::text, verification_hash, certifier, is_retired, issuance_date, retired_at`

// LedgerStore implements ports.LedgerStore on PostgreSQL.
type LedgerStore struct {
	pool Pool // nil on a transactional view
	q    querier
}

// NewLedgerStore creates a PostgreSQL ledger store.
func NewLedgerStore(pool Pool) *LedgerStore {
	return &LedgerStore{pool: pool, q: pool}
}

// RunInTx runs fn in one database transaction. Calls on a transactional view
// run fn on the same transaction.
func (s *LedgerStore) RunInTx(ctx context.Context, fn func(tx ports.LedgerStore) error) error {
	if s.pool == nil {
		return fn(s)
	}
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(&LedgerStore{q: tx}); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
		}
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// Ping checks that the database answers and the ledger schema is in place.
func (s *LedgerStore) Ping(ctx context.Context) error {
	_, err := s.q.Exec(ctx, `SELECT 1 FROM ledger_records LIMIT 1`)
	return err
}

// Name identifies the store on /health.
func (s *LedgerStore) Name() string {
	return "postgresql"
}

// AppendRecord inserts a sealed record. The seq primary key rejects
// duplicate appends.
func (s *LedgerStore) AppendRecord(ctx context.Context, rec *domain.TransactionRecord) error {
	query := `INSERT INTO ledger_records (seq, kind, batch_id, from_identity, to_identity, amount, actor, created_at,
		facility, hydrogen_amount, verification_hash, prev_hash, hash)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err := s.q.Exec(ctx, query,
		int64(rec.Seq), string(rec.Kind), int64(rec.BatchID), string(rec.From), string(rec.To),
		rec.Amount.String(), string(rec.Actor), rec.Timestamp,
		rec.Facility, rec.HydrogenAmount.String(), rec.VerificationHash, rec.PrevHash, rec.Hash,
	)
	if err != nil {
		return fmt.Errorf("insert record %d: %w", rec.Seq, err)
	}
	return nil
}

// AppendAdminEvent inserts an admin event.
func (s *LedgerStore) AppendAdminEvent(ctx context.Context, ev *domain.AdminEvent) error {
	query := `INSERT INTO admin_events (seq, kind, subject, role, actor, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := s.q.Exec(ctx, query,
		int64(ev.Seq), string(ev.Kind), string(ev.Subject), string(ev.Role), string(ev.Actor), ev.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("insert admin event %d: %w", ev.Seq, err)
	}
	return nil
}

// PutBatch upserts the batch projection. Only the mutable columns change on
// conflict.
func (s *LedgerStore) PutBatch(ctx context.Context, b *domain.CreditBatch) error {
	query := `INSERT INTO credit_batches (id, owner, production_facility, hydrogen_amount, credit_amount,
		issued_amount, verification_hash, certifier, is_retired, issuance_date, retired_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET
			owner = EXCLUDED.owner,
			credit_amount = EXCLUDED.credit_amount,
			is_retired = EXCLUDED.is_retired,
			retired_at = EXCLUDED.retired_at`

	_, err := s.q.Exec(ctx, query,
		int64(b.ID), string(b.Owner), b.ProductionFacility, b.HydrogenAmount.String(), b.CreditAmount.String(),
		b.IssuedAmount.String(), b.VerificationHash, string(b.Certifier), b.IsRetired, b.IssuanceDate, b.RetiredAt,
	)
	if err != nil {
		return fmt.Errorf("upsert batch %d: %w", b.ID, err)
	}
	return nil
}

// PutHolding upserts a holding; a zero amount deletes the row.
func (s *LedgerStore) PutHolding(ctx context.Context, h domain.Holding) error {
	if h.Amount.IsZero() {
		_, err := s.q.Exec(ctx, `DELETE FROM holdings WHERE batch_id = $1 AND holder = $2`,
			int64(h.BatchID), string(h.Holder))
		if err != nil {
			return fmt.Errorf("delete holding %d/%s: %w", h.BatchID, h.Holder, err)
		}
		return nil
	}

	query := `INSERT INTO holdings (batch_id, holder, amount) VALUES ($1, $2, $3)
		ON CONFLICT (batch_id, holder) DO UPDATE SET amount = EXCLUDED.amount`
	if _, err := s.q.Exec(ctx, query, int64(h.BatchID), string(h.Holder), h.Amount.String()); err != nil {
		return fmt.Errorf("upsert holding %d/%s: %w", h.BatchID, h.Holder, err)
	}
	return nil
}

// GetBatch returns the batch projection, or nil if it does not exist.
func (s *LedgerStore) GetBatch(ctx context.Context, id domain.BatchID) (*domain.CreditBatch, error) {
	query := `SELECT ` + batchColumns + ` FROM credit_batches WHERE id = $1`

	b, err := scanBatch(s.q.QueryRow(ctx, query, int64(id)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get batch %d: %w", id, err)
	}
	return b, nil
}

func (s *LedgerStore) ListByBatch(ctx context.Context, id domain.BatchID) ([]domain.TransactionRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM ledger_records WHERE batch_id = $1 ORDER BY seq`
	return s.queryRecords(ctx, "list by batch", query, int64(id))
}

func (s *LedgerStore) ListByParty(ctx context.Context, party domain.Identity) ([]domain.TransactionRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM ledger_records
		WHERE from_identity = $1 OR to_identity = $1 ORDER BY seq`
	return s.queryRecords(ctx, "list by party", query, string(party))
}

func (s *LedgerStore) ListRecent(ctx context.Context, limit int) ([]domain.TransactionRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM ledger_records ORDER BY seq DESC LIMIT $1`
	return s.queryRecords(ctx, "list recent", query, limit)
}

func (s *LedgerStore) ListSince(ctx context.Context, afterSeq uint64) ([]domain.TransactionRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM ledger_records WHERE seq > $1 ORDER BY seq`
	return s.queryRecords(ctx, "list since", query, int64(afterSeq))
}

func (s *LedgerStore) ListAdminEvents(ctx context.Context, afterSeq uint64) ([]domain.AdminEvent, error) {
	query := `SELECT seq, kind, subject, role, actor, created_at FROM admin_events WHERE seq > $1 ORDER BY seq`

	rows, err := s.q.Query(ctx, query, int64(afterSeq))
	if err != nil {
		return nil, fmt.Errorf("list admin events: %w", err)
	}
	defer rows.Close()

	var out []domain.AdminEvent
	for rows.Next() {
		var (
			seq                        int64
			kind, subject, role, actor string
			createdAt                  time.Time
		)
		if err := rows.Scan(&seq, &kind, &subject, &role, &actor, &createdAt); err != nil {
			return nil, fmt.Errorf("scan admin event row: %w", err)
		}
		out = append(out, domain.AdminEvent{
			Seq:       uint64(seq),
			Kind:      domain.AdminEventKind(kind),
			Subject:   domain.Identity(subject),
			Role:      domain.Role(role),
			Actor:     domain.Identity(actor),
			Timestamp: domain.LedgerTime(createdAt),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate admin event rows: %w", err)
	}
	return out, nil
}

func (s *LedgerStore) queryRecords(ctx context.Context, op, query string, args ...any) ([]domain.TransactionRecord, error) {
	rows, err := s.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var out []domain.TransactionRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		out = append(out, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: iterate rows: %w", op, err)
	}
	return out, nil
}

func scanRecord(row pgx.Row) (*domain.TransactionRecord, error) {
	var (
		seq, batchID                     int64
		kind, from, to, amount, actor    string
		facility, hydrogen, verification string
		prevHash, hash                   string
		createdAt                        time.Time
	)
	err := row.Scan(&seq, &kind, &batchID, &from, &to, &amount, &actor, &createdAt,
		&facility, &hydrogen, &verification, &prevHash, &hash)
	if err != nil {
		return nil, err
	}

	amt, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("record %d amount: %w", seq, err)
	}
	h2, err := decimal.NewFromString(hydrogen)
	if err != nil {
		return nil, fmt.Errorf("record %d hydrogen amount: %w", seq, err)
	}
	return &domain.TransactionRecord{
		Seq:              uint64(seq),
		Kind:             domain.RecordKind(kind),
		BatchID:          domain.BatchID(batchID),
		From:             domain.Identity(from),
		To:               domain.Identity(to),
		Amount:           amt,
		Actor:            domain.Identity(actor),
		Timestamp:        domain.LedgerTime(createdAt),
		Facility:         facility,
		HydrogenAmount:   h2,
		VerificationHash: verification,
		PrevHash:         prevHash,
		Hash:             hash,
	}, nil
}

func scanBatch(row pgx.Row) (*domain.CreditBatch, error) {
	var (
		id                                int64
		owner, facility, certifier, vhash string
		hydrogen, credit, issued          string
		retired                           bool
		issuedAt                          time.Time
		retiredAt                         *time.Time
	)
	err := row.Scan(&id, &owner, &facility, &hydrogen, &credit, &issued, &vhash, &certifier,
		&retired, &issuedAt, &retiredAt)
	if err != nil {
		return nil, err
	}

	b := &domain.CreditBatch{
		ID:                 domain.BatchID(id),
		Owner:              domain.Identity(owner),
		ProductionFacility: facility,
		VerificationHash:   vhash,
		Certifier:          domain.Identity(certifier),
		IsRetired:          retired,
		IssuanceDate:       domain.LedgerTime(issuedAt),
	}
	if retiredAt != nil {
		t := domain.LedgerTime(*retiredAt)
		b.RetiredAt = &t
	}
	for _, f := range []struct {
		dst *decimal.Decimal
		src string
	}{{&b.HydrogenAmount, hydrogen}, {&b.CreditAmount, credit}, {&b.IssuedAmount, issued}} {
		d, err := decimal.NewFromString(f.src)
		if err != nil {
			return nil, fmt.Errorf("batch %d numeric column: %w", id, err)
		}
		*f.dst = d
	}
	return b, nil
}
