package service

import (
	"context"
	"errors"
	"testing"

	"hydrogen-credit-ledger/internal/core/domain"
	"hydrogen-credit-ledger/internal/core/ports"
	"hydrogen-credit-ledger/internal/core/ports/mocks"
	"hydrogen-credit-ledger/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestTransactionLog_Queries(t *testing.T) {
	ctx := context.Background()
	l, _ := newMemoryLedger(t)
	a := issue(t, l, user1, 10)
	b := issue(t, l, user2, 10)
	transfer(t, l, ports.TransferRequest{BatchID: a, From: user1, To: user2, Amount: amt(5), Actor: user1})
	retire(t, l, ports.RetireRequest{BatchID: a, Amount: amt(5), Actor: user2})

	txlog := l.TransactionLog()

	byBatch, err := txlog.QueryByBatch(ctx, a)
	require.NoError(t, err)
	require.Len(t, byBatch, 3)
	assert.Equal(t, []domain.RecordKind{domain.RecordIssue, domain.RecordTransfer, domain.RecordRetire},
		[]domain.RecordKind{byBatch[0].Kind, byBatch[1].Kind, byBatch[2].Kind})

	byParty, err := txlog.QueryByParty(ctx, user2)
	require.NoError(t, err)
	seqs := make([]uint64, len(byParty))
	for i, r := range byParty {
		seqs[i] = r.Seq
	}
	assert.Equal(t, []uint64{2, 3, 4}, seqs)

	none, err := txlog.QueryByBatch(ctx, b+10)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)

	recent, err := txlog.RecentTransactions(ctx, 0)
	require.NoError(t, err)
	require.Len(t, recent, 4)
	assert.Equal(t, uint64(4), recent[0].Seq)
}

func TestTransactionLog_RecentTransactions_Limits(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockLedgerStore(ctrl)
	txlog := NewTransactionLog(store, newTestLogger())

	store.EXPECT().ListRecent(gomock.Any(), 20).Return(nil, nil)
	store.EXPECT().ListRecent(gomock.Any(), 500).Return(nil, nil)
	store.EXPECT().ListRecent(gomock.Any(), 7).Return(nil, errors.New("timeout"))

	recs, err := txlog.RecentTransactions(context.Background(), -1)
	require.NoError(t, err)
	assert.NotNil(t, recs)

	_, err = txlog.RecentTransactions(context.Background(), 100000)
	require.NoError(t, err)

	_, err = txlog.RecentTransactions(context.Background(), 7)
	assertAppError(t, err, apperror.CodeInternal)
}

func TestTransactionLog_Verify(t *testing.T) {
	ctx := context.Background()
	l, store := newMemoryLedger(t)
	for i := 0; i < 5; i++ {
		issue(t, l, user1, 3)
	}

	report, err := l.TransactionLog().Verify(ctx)
	require.NoError(t, err)
	assert.True(t, report.Valid)
	assert.Equal(t, uint64(5), report.Records)
	recs, _ := store.ListSince(ctx, 0)
	assert.Equal(t, recs[4].Hash, report.HeadHash)
}

func TestTransactionLog_Verify_Empty(t *testing.T) {
	l, _ := newMemoryLedger(t)
	report, err := l.TransactionLog().Verify(context.Background())
	require.NoError(t, err)
	assert.True(t, report.Valid)
	assert.Equal(t, domain.GenesisHash, report.HeadHash)
}

func sealedChain(n int) []domain.TransactionRecord {
	recs := make([]domain.TransactionRecord, n)
	prev := domain.GenesisHash
	for i := range recs {
		recs[i] = domain.TransactionRecord{
			Seq: uint64(i + 1), Kind: domain.RecordIssue, BatchID: domain.BatchID(i + 1),
			From: domain.VoidIdentity, To: user1, Amount: amt(1), Actor: testCertifier,
		}
		recs[i].Seal(prev)
		prev = recs[i].Hash
	}
	return recs
}

func TestTransactionLog_Verify_Broken(t *testing.T) {
	tests := []struct {
		name     string
		tamper   func(recs []domain.TransactionRecord) []domain.TransactionRecord
		brokenAt uint64
	}{
		{
			name: "altered amount",
			tamper: func(recs []domain.TransactionRecord) []domain.TransactionRecord {
				recs[2].Amount = amt(1000)
				return recs
			},
			brokenAt: 3,
		},
		{
			name: "resealed record breaks successor",
			tamper: func(recs []domain.TransactionRecord) []domain.TransactionRecord {
				recs[1].To = user2
				recs[1].Seal(recs[1].PrevHash)
				return recs
			},
			brokenAt: 3,
		},
		{
			name: "missing record",
			tamper: func(recs []domain.TransactionRecord) []domain.TransactionRecord {
				return append(recs[:1], recs[2:]...)
			},
			brokenAt: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			store := mocks.NewMockLedgerStore(ctrl)
			store.EXPECT().ListSince(gomock.Any(), uint64(0)).Return(tt.tamper(sealedChain(4)), nil)

			report, err := NewTransactionLog(store, newTestLogger()).Verify(context.Background())
			require.NoError(t, err)
			assert.False(t, report.Valid)
			assert.Equal(t, tt.brokenAt, report.BrokenAt)
			assert.NotEmpty(t, report.Reason)
		})
	}
}
