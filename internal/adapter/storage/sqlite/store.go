// Package sqlite provides an embedded, single-file LedgerStore for
// deployments without PostgreSQL.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"hydrogen-credit-ledger/internal/core/domain"
	"hydrogen-credit-ledger/internal/core/ports"

	"github.com/shopspring/decimal"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

// ErrSeqConflict is returned when a record or admin event reuses a sequence
// number already in the log.
var ErrSeqConflict = errors.New("sequence number already used")

const schema = `
CREATE TABLE IF NOT EXISTS ledger_records (
	seq               INTEGER PRIMARY KEY,
	kind              TEXT NOT NULL,
	batch_id          INTEGER NOT NULL,
	from_identity     TEXT NOT NULL,
	to_identity       TEXT NOT NULL,
	amount            TEXT NOT NULL,
	actor             TEXT NOT NULL,
	created_at        INTEGER NOT NULL,
	facility          TEXT NOT NULL DEFAULT '',
	hydrogen_amount   TEXT NOT NULL DEFAULT '0',
	verification_hash TEXT NOT NULL DEFAULT '',
	prev_hash         TEXT NOT NULL,
	hash              TEXT NOT NULL UNIQUE
);
CREATE INDEX IF NOT EXISTS idx_ledger_records_batch ON ledger_records (batch_id, seq);
CREATE INDEX IF NOT EXISTS idx_ledger_records_from ON ledger_records (from_identity, seq);
CREATE INDEX IF NOT EXISTS idx_ledger_records_to ON ledger_records (to_identity, seq);

CREATE TABLE IF NOT EXISTS admin_events (
	seq        INTEGER PRIMARY KEY,
	kind       TEXT NOT NULL,
	subject    TEXT NOT NULL DEFAULT '',
	role       TEXT NOT NULL DEFAULT '',
	actor      TEXT NOT NULL,
	created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS credit_batches (
	id                  INTEGER PRIMARY KEY,
	owner               TEXT NOT NULL,
	production_facility TEXT NOT NULL DEFAULT '',
	hydrogen_amount     TEXT NOT NULL,
	credit_amount       TEXT NOT NULL,
	issued_amount       TEXT NOT NULL,
	verification_hash   TEXT NOT NULL DEFAULT '',
	certifier           TEXT NOT NULL,
	is_retired          INTEGER NOT NULL DEFAULT 0,
	issuance_date       INTEGER NOT NULL,
	retired_at          INTEGER
);

CREATE TABLE IF NOT EXISTS holdings (
	batch_id INTEGER NOT NULL REFERENCES credit_batches (id),
	holder   TEXT NOT NULL,
	amount   TEXT NOT NULL,
	PRIMARY KEY (batch_id, holder)
);
`

const recordColumns = `seq, kind, batch_id, from_identity, to_identity, amount, actor, created_at,
	facility, hydrogen_amount, verification_hash, prev_hash, hash`

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store persists the ledger in SQLite. Timestamps are stored as Unix
// microseconds and amounts as decimal text.
type Store struct {
	sqlDB *sql.DB // nil on a transactional view
	q     querier
}

func toMicros(value time.Time) int64 {
	return value.UTC().UnixMicro()
}

func fromMicros(value int64) time.Time {
	return time.UnixMicro(value).UTC()
}

// Open opens a SQLite ledger store and creates its tables.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// The ledger is a single writer; one connection avoids SQLITE_BUSY.
	sqlDB.SetMaxOpenConns(1)
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{sqlDB: sqlDB, q: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Ping implements ports.HealthChecker.
func (s *Store) Ping(ctx context.Context) error {
	if s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	return s.sqlDB.PingContext(ctx)
}

// Name implements ports.HealthChecker.
func (s *Store) Name() string {
	return "sqlite"
}

// RunInTx runs fn in one SQLite transaction.
func (s *Store) RunInTx(ctx context.Context, fn func(tx ports.LedgerStore) error) error {
	if s.sqlDB == nil {
		return fn(s)
	}
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(&Store{q: tx}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (s *Store) AppendRecord(ctx context.Context, rec *domain.TransactionRecord) error {
	_, err := s.q.ExecContext(ctx,
		`INSERT INTO ledger_records (`+recordColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		int64(rec.Seq), string(rec.Kind), int64(rec.BatchID), string(rec.From), string(rec.To),
		rec.Amount.String(), string(rec.Actor), toMicros(rec.Timestamp),
		rec.Facility, rec.HydrogenAmount.String(), rec.VerificationHash, rec.PrevHash, rec.Hash,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert record %d: %w", rec.Seq, ErrSeqConflict)
		}
		return fmt.Errorf("insert record %d: %w", rec.Seq, err)
	}
	return nil
}

func (s *Store) AppendAdminEvent(ctx context.Context, ev *domain.AdminEvent) error {
	_, err := s.q.ExecContext(ctx,
		`INSERT INTO admin_events (seq, kind, subject, role, actor, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		int64(ev.Seq), string(ev.Kind), string(ev.Subject), string(ev.Role), string(ev.Actor), toMicros(ev.Timestamp),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert admin event %d: %w", ev.Seq, ErrSeqConflict)
		}
		return fmt.Errorf("insert admin event %d: %w", ev.Seq, err)
	}
	return nil
}

func (s *Store) PutBatch(ctx context.Context, b *domain.CreditBatch) error {
	var retiredAt sql.NullInt64
	if b.RetiredAt != nil {
		retiredAt = sql.NullInt64{Int64: toMicros(*b.RetiredAt), Valid: true}
	}
	_, err := s.q.ExecContext(ctx,
		`INSERT INTO credit_batches (id, owner, production_facility, hydrogen_amount, credit_amount,
		   issued_amount, verification_hash, certifier, is_retired, issuance_date, retired_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET
		   owner = excluded.owner,
		   credit_amount = excluded.credit_amount,
		   is_retired = excluded.is_retired,
		   retired_at = excluded.retired_at`,
		int64(b.ID), string(b.Owner), b.ProductionFacility, b.HydrogenAmount.String(), b.CreditAmount.String(),
		b.IssuedAmount.String(), b.VerificationHash, string(b.Certifier), b.IsRetired, toMicros(b.IssuanceDate), retiredAt,
	)
	if err != nil {
		return fmt.Errorf("upsert batch %d: %w", b.ID, err)
	}
	return nil
}

func (s *Store) PutHolding(ctx context.Context, h domain.Holding) error {
	if h.Amount.IsZero() {
		if _, err := s.q.ExecContext(ctx, `DELETE FROM holdings WHERE batch_id = ? AND holder = ?`,
			int64(h.BatchID), string(h.Holder)); err != nil {
			return fmt.Errorf("delete holding %d/%s: %w", h.BatchID, h.Holder, err)
		}
		return nil
	}
	_, err := s.q.ExecContext(ctx,
		`INSERT INTO holdings (batch_id, holder, amount) VALUES (?, ?, ?)
		 ON CONFLICT (batch_id, holder) DO UPDATE SET amount = excluded.amount`,
		int64(h.BatchID), string(h.Holder), h.Amount.String(),
	)
	if err != nil {
		return fmt.Errorf("upsert holding %d/%s: %w", h.BatchID, h.Holder, err)
	}
	return nil
}

// GetBatch returns the batch projection, or nil if it does not exist.
func (s *Store) GetBatch(ctx context.Context, id domain.BatchID) (*domain.CreditBatch, error) {
	row := s.q.QueryRowContext(ctx,
		`SELECT id, owner, production_facility, hydrogen_amount, credit_amount, issued_amount,
		   verification_hash, certifier, is_retired, issuance_date, retired_at
		 FROM credit_batches WHERE id = ?`, int64(id))

	var (
		bid                               int64
		owner, facility, vhash, certifier string
		hydrogen, credit, issued          string
		retired                           bool
		issuedAt                          int64
		retiredAt                         sql.NullInt64
	)
	err := row.Scan(&bid, &owner, &facility, &hydrogen, &credit, &issued, &vhash, &certifier,
		&retired, &issuedAt, &retiredAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get batch %d: %w", id, err)
	}

	b := &domain.CreditBatch{
		ID:                 domain.BatchID(bid),
		Owner:              domain.Identity(owner),
		ProductionFacility: facility,
		VerificationHash:   vhash,
		Certifier:          domain.Identity(certifier),
		IsRetired:          retired,
		IssuanceDate:       fromMicros(issuedAt),
	}
	if retiredAt.Valid {
		t := fromMicros(retiredAt.Int64)
		b.RetiredAt = &t
	}
	if b.HydrogenAmount, err = decimal.NewFromString(hydrogen); err != nil {
		return nil, fmt.Errorf("batch %d hydrogen amount: %w", id, err)
	}
	if b.CreditAmount, err = decimal.NewFromString(credit); err != nil {
		return nil, fmt.Errorf("batch %d credit amount: %w", id, err)
	}
	if b.IssuedAmount, err = decimal.NewFromString(issued); err != nil {
		return nil, fmt.Errorf("batch %d issued amount: %w", id, err)
	}
	return b, nil
}

func (s *Store) ListByBatch(ctx context.Context, id domain.BatchID) ([]domain.TransactionRecord, error) {
	return s.queryRecords(ctx, "list by batch",
		`SELECT `+recordColumns+` FROM ledger_records WHERE batch_id = ? ORDER BY seq`, int64(id))
}

func (s *Store) ListByParty(ctx context.Context, party domain.Identity) ([]domain.TransactionRecord, error) {
	return s.queryRecords(ctx, "list by party",
		`SELECT `+recordColumns+` FROM ledger_records WHERE from_identity = ?1 OR to_identity = ?1 ORDER BY seq`,
		string(party))
}

func (s *Store) ListRecent(ctx context.Context, limit int) ([]domain.TransactionRecord, error) {
	return s.queryRecords(ctx, "list recent",
		`SELECT `+recordColumns+` FROM ledger_records ORDER BY seq DESC LIMIT ?`, limit)
}

func (s *Store) ListSince(ctx context.Context, afterSeq uint64) ([]domain.TransactionRecord, error) {
	return s.queryRecords(ctx, "list since",
		`SELECT `+recordColumns+` FROM ledger_records WHERE seq > ? ORDER BY seq`, int64(afterSeq))
}

func (s *Store) ListAdminEvents(ctx context.Context, afterSeq uint64) ([]domain.AdminEvent, error) {
	rows, err := s.q.QueryContext(ctx,
		`SELECT seq, kind, subject, role, actor, created_at FROM admin_events WHERE seq > ? ORDER BY seq`,
		int64(afterSeq))
	if err != nil {
		return nil, fmt.Errorf("list admin events: %w", err)
	}
	defer rows.Close()

	var out []domain.AdminEvent
	for rows.Next() {
		var (
			seq, createdAt             int64
			kind, subject, role, actor string
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
			Timestamp: fromMicros(createdAt),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate admin event rows: %w", err)
	}
	return out, nil
}

func (s *Store) queryRecords(ctx context.Context, op, query string, args ...any) ([]domain.TransactionRecord, error) {
	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var out []domain.TransactionRecord
	for rows.Next() {
		var (
			seq, batchID, createdAt          int64
			kind, from, to, amount, actor    string
			facility, hydrogen, verification string
			prevHash, hash                   string
		)
		if err := rows.Scan(&seq, &kind, &batchID, &from, &to, &amount, &actor, &createdAt,
			&facility, &hydrogen, &verification, &prevHash, &hash); err != nil {
			return nil, fmt.Errorf("%s: scan row: %w", op, err)
		}
		amt, err := decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("%s: record %d amount: %w", op, seq, err)
		}
		h2, err := decimal.NewFromString(hydrogen)
		if err != nil {
			return nil, fmt.Errorf("%s: record %d hydrogen amount: %w", op, seq, err)
		}
		out = append(out, domain.TransactionRecord{
			Seq:              uint64(seq),
			Kind:             domain.RecordKind(kind),
			BatchID:          domain.BatchID(batchID),
			From:             domain.Identity(from),
			To:               domain.Identity(to),
			Amount:           amt,
			Actor:            domain.Identity(actor),
			Timestamp:        fromMicros(createdAt),
			Facility:         facility,
			HydrogenAmount:   h2,
			VerificationHash: verification,
			PrevHash:         prevHash,
			Hash:             hash,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: iterate rows: %w", op, err)
	}
	return out, nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}

var _ ports.LedgerStore = (*Store)(nil)
