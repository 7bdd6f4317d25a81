package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"hydrogen-credit-ledger/internal/core/domain"
	"hydrogen-credit-ledger/internal/core/ports"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTime = time.Date(2026, 5, 1, 9, 0, 0, 123000, time.UTC)

func newTestRecord() *domain.TransactionRecord {
	rec := &domain.TransactionRecord{
		Seq:              1,
		Kind:             domain.RecordIssue,
		BatchID:          1,
		From:             domain.VoidIdentity,
		To:               "user1",
		Amount:           decimal.NewFromInt(100),
		Actor:            "certifier",
		Timestamp:        testTime,
		Facility:         "Facility A",
		HydrogenAmount:   decimal.NewFromInt(1000),
		VerificationHash: "hash123",
	}
	rec.Seal(domain.GenesisHash)
	return rec
}

func recordColumnNames() []string {
	return []string{"seq", "kind", "batch_id", "from_identity", "to_identity", "amount", "actor", "created_at",
		"facility", "hydrogen_amount", "verification_hash", "prev_hash", "hash"}
}

func addRecordRow(rows *pgxmock.Rows, r *domain.TransactionRecord) *pgxmock.Rows {
	return rows.AddRow(
		int64(r.Seq), string(r.Kind), int64(r.BatchID), string(r.From), string(r.To),
		r.Amount.String(), string(r.Actor), r.Timestamp,
		r.Facility, r.HydrogenAmount.String(), r.VerificationHash, r.PrevHash, r.Hash,
	)
}

func recordArgs(r *domain.TransactionRecord) []any {
	return []any{
		int64(r.Seq), string(r.Kind), int64(r.BatchID), string(r.From), string(r.To),
		r.Amount.String(), string(r.Actor), r.Timestamp,
		r.Facility, r.HydrogenAmount.String(), r.VerificationHash, r.PrevHash, r.Hash,
	}
}

func TestEnsureSchema(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS ledger_records").
		WillReturnResult(pgxmock.NewResult("CREATE TABLE", 0))

	require.NoError(t, EnsureSchema(context.Background(), mock))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLedgerStore_RunInTx_Commit(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store := NewLedgerStore(mock)
	rec := newTestRecord()
	batch := &domain.CreditBatch{
		ID: 1, Owner: "user1", ProductionFacility: "Facility A",
		HydrogenAmount: decimal.NewFromInt(1000), CreditAmount: decimal.NewFromInt(100), IssuedAmount: decimal.NewFromInt(100),
		VerificationHash: "hash123", Certifier: "certifier", IssuanceDate: testTime,
	}
	holding := domain.Holding{BatchID: 1, Holder: "user1", Amount: decimal.NewFromInt(100)}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO ledger_records").
		WithArgs(recordArgs(rec)...).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO credit_batches").
		WithArgs(int64(1), "user1", "Facility A", "1000", "100", "100", "hash123", "certifier", false, testTime, (*time.Time)(nil)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO holdings").
		WithArgs(int64(1), "user1", "100").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	err = store.RunInTx(context.Background(), func(tx ports.LedgerStore) error {
		if err := tx.AppendRecord(context.Background(), rec); err != nil {
			return err
		}
		if err := tx.PutBatch(context.Background(), batch); err != nil {
			return err
		}
		return tx.PutHolding(context.Background(), holding)
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLedgerStore_RunInTx_Rollback(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store := NewLedgerStore(mock)
	rec := newTestRecord()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO ledger_records").
		WithArgs(recordArgs(rec)...).
		WillReturnError(errors.New("duplicate key value violates unique constraint"))
	mock.ExpectRollback()

	err = store.RunInTx(context.Background(), func(tx ports.LedgerStore) error {
		return tx.AppendRecord(context.Background(), rec)
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert record 1")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLedgerStore_PutHolding_ZeroDeletes(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store := NewLedgerStore(mock)
	mock.ExpectExec("DELETE FROM holdings").
		WithArgs(int64(3), "user2").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	err = store.PutHolding(context.Background(), domain.Holding{BatchID: 3, Holder: "user2", Amount: decimal.Zero})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLedgerStore_ListSince(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store := NewLedgerStore(mock)
	first := newTestRecord()
	second := &domain.TransactionRecord{
		Seq: 2, Kind: domain.RecordTransfer, BatchID: 1, From: "user1", To: "user2",
		Amount: decimal.NewFromInt(40), Actor: "user1", Timestamp: testTime.Add(time.Second),
		HydrogenAmount: decimal.Zero,
	}
	second.Seal(first.Hash)

	mock.ExpectQuery("SELECT .+ FROM ledger_records WHERE seq >").
		WithArgs(int64(0)).
		WillReturnRows(addRecordRow(addRecordRow(pgxmock.NewRows(recordColumnNames()), first), second))

	recs, err := store.ListSince(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, first.Hash, recs[0].Hash)
	assert.True(t, recs[1].Amount.Equal(decimal.NewFromInt(40)))
	assert.Equal(t, domain.ComputeRecordHash(&recs[1]), recs[1].Hash, "scanned records re-hash to the stored hash")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLedgerStore_ListByParty(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store := NewLedgerStore(mock)
	rec := newTestRecord()
	mock.ExpectQuery("SELECT .+ FROM ledger_records\\s+WHERE from_identity = .+ OR to_identity").
		WithArgs("user1").
		WillReturnRows(addRecordRow(pgxmock.NewRows(recordColumnNames()), rec))

	recs, err := store.ListByParty(context.Background(), "user1")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, domain.Identity("user1"), recs[0].To)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLedgerStore_ListRecent_Error(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store := NewLedgerStore(mock)
	mock.ExpectQuery("SELECT .+ FROM ledger_records ORDER BY seq DESC").
		WithArgs(10).
		WillReturnError(errors.New("connection reset"))

	_, err = store.ListRecent(context.Background(), 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list recent")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLedgerStore_GetBatch(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store := NewLedgerStore(mock)
	retiredAt := testTime.Add(time.Hour)
	cols := []string{"id", "owner", "production_facility", "hydrogen_amount", "credit_amount",
		"issued_amount", "verification_hash", "certifier", "is_retired", "issuance_date", "retired_at"}

	mock.ExpectQuery("SELECT .+ FROM credit_batches WHERE id").
		WithArgs(int64(1)).
		WillReturnRows(pgxmock.NewRows(cols).
			AddRow(int64(1), "user1", "Facility A", "1000", "0", "100", "hash123", "certifier", true, testTime, &retiredAt))

	b, err := store.GetBatch(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, b)
	assert.True(t, b.IsRetired)
	assert.True(t, b.CreditAmount.IsZero())
	assert.True(t, b.RetiredAmount().Equal(decimal.NewFromInt(100)))
	require.NotNil(t, b.RetiredAt)
	assert.True(t, retiredAt.Equal(*b.RetiredAt))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLedgerStore_GetBatch_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store := NewLedgerStore(mock)
	mock.ExpectQuery("SELECT .+ FROM credit_batches WHERE id").
		WithArgs(int64(42)).
		WillReturnRows(pgxmock.NewRows([]string{"id"}))

	b, err := store.GetBatch(context.Background(), 42)
	require.NoError(t, err)
	assert.Nil(t, b)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLedgerStore_AdminEvents(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store := NewLedgerStore(mock)
	ev := &domain.AdminEvent{Seq: 1, Kind: domain.AdminRoleGranted, Subject: "admin", Role: domain.RoleAdmin, Actor: "admin", Timestamp: testTime}

	mock.ExpectExec("INSERT INTO admin_events").
		WithArgs(int64(1), "role_granted", "admin", "admin", "admin", testTime).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectQuery("SELECT .+ FROM admin_events WHERE seq >").
		WithArgs(int64(0)).
		WillReturnRows(pgxmock.NewRows([]string{"seq", "kind", "subject", "role", "actor", "created_at"}).
			AddRow(int64(1), "role_granted", "admin", "admin", "admin", testTime).
			AddRow(int64(2), "paused", "", "", "pauser", testTime.Add(time.Minute)))

	require.NoError(t, store.AppendAdminEvent(context.Background(), ev))
	events, err := store.ListAdminEvents(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, *ev, events[0])
	assert.Equal(t, domain.AdminPaused, events[1].Kind)
	assert.Empty(t, events[1].Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuditRepo(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewAuditRepo(mock)
	entry := &domain.AuditLog{
		ID: uuid.New(), Actor: "certifier", Action: domain.AuditActionIssue, ResourceType: "credit_batch",
		ResourceID: "1", HTTPStatus: 201, IPAddress: "10.0.0.1", CreatedAt: testTime,
	}

	mock.ExpectExec("INSERT INTO audit_logs").
		WithArgs(entry.ID, "certifier", "ISSUE", "credit_batch", "1", 201, "", "", "10.0.0.1", testTime).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectQuery("SELECT .+ FROM audit_logs ORDER BY created_at DESC").
		WithArgs(5).
		WillReturnRows(pgxmock.NewRows([]string{"id", "actor", "action", "resource_type", "resource_id",
			"http_status", "error_code", "details", "ip_address", "created_at"}).
			AddRow(entry.ID, "certifier", "ISSUE", "credit_batch", "1", 201, "", "", "10.0.0.1", testTime))

	require.NoError(t, repo.Create(context.Background(), entry))
	logs, err := repo.ListRecent(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, *entry, logs[0])
	assert.NoError(t, mock.ExpectationsWereMet())
}
