package service

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"testing"
	"time"

	"hydrogen-credit-ledger/internal/adapter/storage/memory"
	"hydrogen-credit-ledger/internal/core/domain"
	"hydrogen-credit-ledger/internal/core/ports"
	"hydrogen-credit-ledger/pkg/apperror"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testAdmin     domain.Identity = "admin"
	testCertifier domain.Identity = "certifier"
	testPauser    domain.Identity = "pauser"
	testOperator  domain.Identity = "operator"
	user1         domain.Identity = "user1"
	user2         domain.Identity = "user2"
)

func newTestLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

func amt(n int64) decimal.Decimal {
	return decimal.NewFromInt(n)
}

// fixedClock advances one second per reading.
func fixedClock() func() time.Time {
	var mu sync.Mutex
	t := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Second)
		return t
	}
}

// recordingPublisher captures events in publish order.
type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.Event
}

func (p *recordingPublisher) Publish(ctx context.Context, ev domain.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) Name() string { return "recording" }

func (p *recordingPublisher) types() []domain.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]domain.EventType, len(p.events))
	for i, ev := range p.events {
		out[i] = ev.Type
	}
	return out
}

// newTestLedger restores a ledger over store with admin at genesis and the
// certifier, pauser and operator roles granted.
func newTestLedger(t *testing.T, store ports.LedgerStore, events ports.EventPublisher) *Ledger {
	t.Helper()
	ctx := context.Background()

	l := NewLedger(store, events, newTestLogger())
	l.now = fixedClock()
	require.NoError(t, l.Restore(ctx, nil, testAdmin))

	require.NoError(t, l.GrantRole(ctx, testCertifier, domain.RoleCertifier, testAdmin))
	require.NoError(t, l.GrantRole(ctx, testPauser, domain.RolePauser, testAdmin))
	require.NoError(t, l.GrantRole(ctx, testOperator, domain.RoleOperator, testAdmin))
	return l
}

func newMemoryLedger(t *testing.T) (*Ledger, *memory.LedgerStore) {
	t.Helper()
	store := memory.NewLedgerStore()
	return newTestLedger(t, store, nil), store
}

func issue(t *testing.T, l *Ledger, to domain.Identity, credits int64) domain.BatchID {
	t.Helper()
	id, err := l.IssueCredits(context.Background(), ports.IssueRequest{
		To:               to,
		CreditAmount:     amt(credits),
		Facility:         "Facility A",
		HydrogenAmount:   amt(credits * 10),
		VerificationHash: "hash123",
		Actor:            testCertifier,
	})
	require.NoError(t, err)
	return id
}

func transfer(t *testing.T, l *Ledger, req ports.TransferRequest) decimal.Decimal {
	t.Helper()
	remaining, err := l.Transfer(context.Background(), req)
	require.NoError(t, err)
	return remaining
}

func retire(t *testing.T, l *Ledger, req ports.RetireRequest) *domain.CreditBatch {
	t.Helper()
	b, err := l.RetireCredits(context.Background(), req)
	require.NoError(t, err)
	return b
}

func assertAppError(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, apperror.HasCode(err, code), "expected %s, got %v", code, err)
}

// assertConserved checks outstandingSupply == Σ creditAmount == Σ holdings.
func assertConserved(t *testing.T, l *Ledger) {
	t.Helper()
	snap := l.Snapshot()

	sumBatches := decimal.Zero
	for _, b := range snap.Batches {
		sumBatches = sumBatches.Add(b.CreditAmount)
	}
	sumHoldings := decimal.Zero
	for _, h := range snap.Holdings {
		sumHoldings = sumHoldings.Add(h.Amount)
	}
	supply := l.Supply()

	assert.True(t, supply.OutstandingSupply.Equal(sumBatches), "outstanding %s != Σ batches %s", supply.OutstandingSupply, sumBatches)
	assert.True(t, sumBatches.Equal(sumHoldings), "Σ batches %s != Σ holdings %s", sumBatches, sumHoldings)
	assert.True(t, supply.TotalSupply.Sub(supply.TotalRetired).Equal(supply.OutstandingSupply))
}

// canonicalSnapshot renders a snapshot without its capture time.
func canonicalSnapshot(t *testing.T, snap *domain.Snapshot) string {
	t.Helper()
	cp := *snap
	cp.TakenAt = time.Time{}
	data, err := json.Marshal(cp)
	require.NoError(t, err)
	return string(data)
}
