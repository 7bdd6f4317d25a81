package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"hydrogen-credit-ledger/internal/core/domain"
	"hydrogen-credit-ledger/internal/core/ports"
	"hydrogen-credit-ledger/pkg/apperror"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Ledger implements ports.LedgerService. It is the only writer of the
// transaction log: every mutation is validated against the in-memory state,
// written ahead to the store, and only then folded into the state.
type Ledger struct {
	mu     sync.RWMutex
	state  *ledgerState
	store  ports.LedgerStore
	txlog  *TransactionLog
	events ports.EventPublisher
	log    zerolog.Logger
	now    func() time.Time
}

// NewLedger creates a ledger over store. events may be nil. The ledger is
// empty until Restore is called.
func NewLedger(store ports.LedgerStore, events ports.EventPublisher, log zerolog.Logger) *Ledger {
	return &Ledger{
		state:  newLedgerState(),
		store:  store,
		txlog:  NewTransactionLog(store, log),
		events: events,
		log:    log,
		now:    time.Now,
	}
}

// TransactionLog returns the read side of the ledger's transaction log.
func (l *Ledger) TransactionLog() *TransactionLog {
	return l.txlog
}

// Restore rebuilds the state from the latest snapshot (if snapshots is
// non-nil and holds one) plus the log entries written after it. On an empty
// log, genesisAdmin is granted the admin role.
func (l *Ledger) Restore(ctx context.Context, snapshots ports.SnapshotStore, genesisAdmin domain.Identity) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	state := newLedgerState()
	if snapshots != nil {
		snap, err := snapshots.Load(ctx)
		if err != nil {
			l.log.Warn().Err(err).Msg("snapshot load failed, replaying full log")
		} else if snap != nil {
			restored, err := l.fromSnapshot(ctx, snap)
			if err != nil {
				l.log.Warn().Err(err).Uint64("seq", snap.LastSeq).Msg("snapshot rejected, replaying full log")
			} else {
				state = restored
			}
		}
	}

	fromSeq := state.lastSeq
	records, err := l.store.ListSince(ctx, state.lastSeq)
	if err != nil {
		return fmt.Errorf("load records: %w", err)
	}
	for i := range records {
		if err := state.apply(&records[i]); err != nil {
			return fmt.Errorf("replay: %w", err)
		}
	}

	admins, err := l.store.ListAdminEvents(ctx, state.lastAdminSeq)
	if err != nil {
		return fmt.Errorf("load admin events: %w", err)
	}
	for i := range admins {
		if err := state.applyAdmin(&admins[i]); err != nil {
			return fmt.Errorf("replay: %w", err)
		}
	}

	l.state = state

	if state.lastAdminSeq == 0 {
		if !genesisAdmin.Valid() {
			return fmt.Errorf("genesis admin %q is not a valid identity", genesisAdmin)
		}
		ev := &domain.AdminEvent{
			Seq:       1,
			Kind:      domain.AdminRoleGranted,
			Subject:   genesisAdmin,
			Role:      domain.RoleAdmin,
			Actor:     genesisAdmin,
			Timestamp: l.timestamp(),
		}
		if err := l.commitAdmin(ctx, ev); err != nil {
			return fmt.Errorf("genesis: %w", err)
		}
		l.log.Info().Str("admin", string(genesisAdmin)).Msg("ledger genesis: admin role granted")
	}

	l.log.Info().
		Uint64("seq", state.lastSeq).
		Uint64("replayed", state.lastSeq-fromSeq).
		Uint64("admin_seq", state.lastAdminSeq).
		Bool("paused", state.paused).
		Msg("ledger restored")
	return nil
}

// fromSnapshot accepts a snapshot only if the log still holds the record and
// the admin event it was taken at.
func (l *Ledger) fromSnapshot(ctx context.Context, snap *domain.Snapshot) (*ledgerState, error) {
	state, err := stateFromSnapshot(snap)
	if err != nil {
		return nil, err
	}
	if snap.LastSeq > 0 {
		tail, err := l.store.ListSince(ctx, snap.LastSeq-1)
		if err != nil {
			return nil, fmt.Errorf("check snapshot head: %w", err)
		}
		if len(tail) == 0 || tail[0].Seq != snap.LastSeq || tail[0].Hash != snap.LastHash {
			return nil, fmt.Errorf("snapshot head %d not found in log", snap.LastSeq)
		}
	}
	if snap.LastAdminSeq > 0 {
		admins, err := l.store.ListAdminEvents(ctx, snap.LastAdminSeq-1)
		if err != nil {
			return nil, fmt.Errorf("check snapshot admin head: %w", err)
		}
		if len(admins) == 0 || admins[0].Seq != snap.LastAdminSeq {
			return nil, fmt.Errorf("snapshot admin head %d not found in log", snap.LastAdminSeq)
		}
	}
	return state, nil
}

// Snapshot returns an image of the current state.
func (l *Ledger) Snapshot() *domain.Snapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()

	snap := l.state.snapshot()
	snap.TakenAt = l.timestamp()
	return snap
}

// ---- Credit lifecycle ----

// IssueCredits mints a new batch to req.To.
func (l *Ledger) IssueCredits(ctx context.Context, req ports.IssueRequest) (domain.BatchID, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	s := l.state

	if err := s.access.Require(req.Actor, domain.RoleCertifier); err != nil {
		return 0, err
	}
	if s.paused {
		return 0, apperror.ErrPaused()
	}
	if !domain.ValidCreditAmount(req.CreditAmount) {
		return 0, apperror.ErrInvalidAmount("credit amount")
	}
	if !domain.ValidHydrogenAmount(req.HydrogenAmount) {
		return 0, apperror.ErrInvalidAmount("hydrogen amount")
	}
	if !req.To.Valid() {
		return 0, apperror.ErrInvalidIdentity(string(req.To))
	}

	rec := &domain.TransactionRecord{
		Seq:              s.lastSeq + 1,
		Kind:             domain.RecordIssue,
		BatchID:          domain.BatchID(s.batchCount + 1),
		From:             domain.VoidIdentity,
		To:               req.To,
		Amount:           domain.NormalizeAmount(req.CreditAmount),
		Actor:            req.Actor,
		Timestamp:        l.timestamp(),
		Facility:         req.Facility,
		HydrogenAmount:   domain.NormalizeAmount(req.HydrogenAmount),
		VerificationHash: req.VerificationHash,
	}
	batch, err := l.commit(ctx, rec)
	if err != nil {
		return 0, err
	}

	l.log.Info().
		Uint64("batch_id", uint64(rec.BatchID)).
		Str("to", string(rec.To)).
		Str("amount", rec.Amount.String()).
		Str("actor", string(rec.Actor)).
		Uint64("seq", rec.Seq).
		Msg("credits issued")
	l.emit(ctx, domain.EventFromRecord(rec, batch.CreditAmount))
	return rec.BatchID, nil
}

// Transfer moves req.Amount of a batch from req.From to req.To. The actor
// must be the sender or hold the operator role. It returns the sender's
// holding in the batch after the transfer.
func (l *Ledger) Transfer(ctx context.Context, req ports.TransferRequest) (decimal.Decimal, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	s := l.state

	if s.paused {
		return decimal.Zero, apperror.ErrPaused()
	}
	batch, ok := s.batches[req.BatchID]
	if !ok {
		return decimal.Zero, apperror.ErrBatchNotFound(uint64(req.BatchID))
	}
	if batch.IsRetired {
		return decimal.Zero, apperror.ErrBatchRetired(uint64(req.BatchID))
	}
	if req.Actor != req.From && !s.access.HasRole(req.Actor, domain.RoleOperator) {
		return decimal.Zero, apperror.ErrNotHolder()
	}
	if !domain.ValidCreditAmount(req.Amount) {
		return decimal.Zero, apperror.ErrInvalidAmount("amount")
	}
	if !req.To.Valid() {
		return decimal.Zero, apperror.ErrInvalidIdentity(string(req.To))
	}
	if req.Amount.GreaterThan(s.holding(req.BatchID, req.From)) {
		return decimal.Zero, apperror.ErrInsufficientBalance(uint64(req.BatchID))
	}

	rec := &domain.TransactionRecord{
		Seq:       s.lastSeq + 1,
		Kind:      domain.RecordTransfer,
		BatchID:   req.BatchID,
		From:      req.From,
		To:        req.To,
		Amount:    domain.NormalizeAmount(req.Amount),
		Actor:     req.Actor,
		Timestamp: l.timestamp(),
	}
	batch, err := l.commit(ctx, rec)
	if err != nil {
		return decimal.Zero, err
	}

	l.log.Info().
		Uint64("batch_id", uint64(rec.BatchID)).
		Str("from", string(rec.From)).
		Str("to", string(rec.To)).
		Str("amount", rec.Amount.String()).
		Str("owner", string(batch.Owner)).
		Uint64("seq", rec.Seq).
		Msg("credits transferred")
	l.emit(ctx, domain.EventFromRecord(rec, batch.CreditAmount))
	return s.holding(req.BatchID, req.From), nil
}

// RetireCredits permanently retires req.Amount of the actor's holding and
// returns the batch as committed.
func (l *Ledger) RetireCredits(ctx context.Context, req ports.RetireRequest) (*domain.CreditBatch, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	s := l.state

	if s.paused {
		return nil, apperror.ErrPaused()
	}
	batch, ok := s.batches[req.BatchID]
	if !ok {
		return nil, apperror.ErrBatchNotFound(uint64(req.BatchID))
	}
	if batch.IsRetired {
		return nil, apperror.ErrBatchRetired(uint64(req.BatchID))
	}
	if !domain.ValidCreditAmount(req.Amount) {
		return nil, apperror.ErrInvalidAmount("amount")
	}
	if req.Amount.GreaterThan(s.holding(req.BatchID, req.Actor)) {
		return nil, apperror.ErrInsufficientBalance(uint64(req.BatchID))
	}

	rec := &domain.TransactionRecord{
		Seq:       s.lastSeq + 1,
		Kind:      domain.RecordRetire,
		BatchID:   req.BatchID,
		From:      req.Actor,
		To:        domain.VoidIdentity,
		Amount:    domain.NormalizeAmount(req.Amount),
		Actor:     req.Actor,
		Timestamp: l.timestamp(),
	}
	batch, err := l.commit(ctx, rec)
	if err != nil {
		return nil, err
	}

	l.log.Info().
		Uint64("batch_id", uint64(rec.BatchID)).
		Str("actor", string(rec.Actor)).
		Str("amount", rec.Amount.String()).
		Str("remaining", batch.CreditAmount.String()).
		Bool("batch_retired", batch.IsRetired).
		Uint64("seq", rec.Seq).
		Msg("credits retired")
	l.emit(ctx, domain.EventFromRecord(rec, batch.CreditAmount))
	return batch, nil
}

// commit seals rec, writes it with its projections in one store
// transaction, then folds it into the state. Nothing changes on error.
func (l *Ledger) commit(ctx context.Context, rec *domain.TransactionRecord) (*domain.CreditBatch, error) {
	s := l.state
	rec.Seal(s.lastHash)

	batch, holdings, err := s.effects(rec)
	if err != nil {
		return nil, apperror.InternalError(err)
	}

	err = l.store.RunInTx(ctx, func(tx ports.LedgerStore) error {
		if err := l.txlog.append(ctx, tx, rec); err != nil {
			return err
		}
		if err := tx.PutBatch(ctx, batch); err != nil {
			return fmt.Errorf("put batch: %w", err)
		}
		for _, h := range holdings {
			if err := tx.PutHolding(ctx, h); err != nil {
				return fmt.Errorf("put holding: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		l.log.Error().Err(err).Uint64("seq", rec.Seq).Str("kind", string(rec.Kind)).Msg("ledger write failed")
		return nil, apperror.InternalError(fmt.Errorf("commit record %d: %w", rec.Seq, err))
	}

	if err := s.apply(rec); err != nil {
		// The record is durable but the fold disagrees with effects; the
		// state can only be trusted again after a restart replay.
		l.log.Error().Err(err).Uint64("seq", rec.Seq).Msg("apply after commit failed")
		return nil, apperror.InternalError(err)
	}
	return copyBatch(s.batches[rec.BatchID]), nil
}

// ---- Pausing ----

// Pause halts issue, transfer and retire.
func (l *Ledger) Pause(ctx context.Context, actor domain.Identity) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.state.access.Require(actor, domain.RolePauser); err != nil {
		return err
	}
	if l.state.paused {
		return apperror.ErrPaused()
	}
	return l.commitAdminAndEmit(ctx, &domain.AdminEvent{Kind: domain.AdminPaused, Actor: actor})
}

// Unpause resumes credit operations.
func (l *Ledger) Unpause(ctx context.Context, actor domain.Identity) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.state.access.Require(actor, domain.RolePauser); err != nil {
		return err
	}
	if !l.state.paused {
		return apperror.ErrNotPaused()
	}
	return l.commitAdminAndEmit(ctx, &domain.AdminEvent{Kind: domain.AdminUnpaused, Actor: actor})
}

// Paused reports whether credit operations are halted.
func (l *Ledger) Paused() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state.paused
}

// ---- Roles ----

// GrantRole grants role to subject. Granting a held role is a no-op.
func (l *Ledger) GrantRole(ctx context.Context, subject domain.Identity, role domain.Role, actor domain.Identity) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	ac := l.state.access

	if err := ac.Require(actor, domain.RoleAdmin); err != nil {
		return err
	}
	if !role.Valid() {
		return apperror.ErrInvalidRole(string(role))
	}
	if !subject.Valid() {
		return apperror.ErrInvalidIdentity(string(subject))
	}
	if ac.HasRole(subject, role) {
		return nil
	}
	return l.commitAdminAndEmit(ctx, &domain.AdminEvent{
		Kind:    domain.AdminRoleGranted,
		Subject: subject,
		Role:    role,
		Actor:   actor,
	})
}

// RevokeRole revokes role from subject. Revoking an absent role is a no-op;
// revoking the last admin fails with LastAdminLockout.
func (l *Ledger) RevokeRole(ctx context.Context, subject domain.Identity, role domain.Role, actor domain.Identity) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	ac := l.state.access

	if err := ac.Require(actor, domain.RoleAdmin); err != nil {
		return err
	}
	if !role.Valid() {
		return apperror.ErrInvalidRole(string(role))
	}
	held, err := ac.CheckRevoke(subject, role)
	if err != nil || !held {
		return err
	}
	return l.commitAdminAndEmit(ctx, &domain.AdminEvent{
		Kind:    domain.AdminRoleRevoked,
		Subject: subject,
		Role:    role,
		Actor:   actor,
	})
}

// HasRole reports whether subject holds role.
func (l *Ledger) HasRole(subject domain.Identity, role domain.Role) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state.access.HasRole(subject, role)
}

// RoleMembers lists the identities holding role.
func (l *Ledger) RoleMembers(role domain.Role) []domain.Identity {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state.access.Members(role)
}

func (l *Ledger) commitAdminAndEmit(ctx context.Context, ev *domain.AdminEvent) error {
	ev.Seq = l.state.lastAdminSeq + 1
	ev.Timestamp = l.timestamp()
	if err := l.commitAdmin(ctx, ev); err != nil {
		return err
	}
	l.log.Info().
		Str("kind", string(ev.Kind)).
		Str("subject", string(ev.Subject)).
		Str("role", string(ev.Role)).
		Str("actor", string(ev.Actor)).
		Uint64("admin_seq", ev.Seq).
		Msg("admin event")
	l.emit(ctx, domain.EventFromAdmin(ev))
	return nil
}

func (l *Ledger) commitAdmin(ctx context.Context, ev *domain.AdminEvent) error {
	if err := l.store.AppendAdminEvent(ctx, ev); err != nil {
		l.log.Error().Err(err).Uint64("admin_seq", ev.Seq).Msg("admin event write failed")
		return apperror.InternalError(fmt.Errorf("append admin event %d: %w", ev.Seq, err))
	}
	if err := l.state.applyAdmin(ev); err != nil {
		return apperror.InternalError(err)
	}
	return nil
}

// ---- Queries ----

// GetCreditBatch returns a copy of the batch.
func (l *Ledger) GetCreditBatch(id domain.BatchID) (*domain.CreditBatch, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	b, ok := l.state.batches[id]
	if !ok {
		return nil, apperror.ErrBatchNotFound(uint64(id))
	}
	return copyBatch(b), nil
}

// ListBatches returns up to limit batches in status, newest first. A
// non-positive limit selects the default; large limits are capped.
func (l *Ledger) ListBatches(status domain.BatchStatus, limit int) ([]domain.CreditBatch, error) {
	if !status.Valid() {
		return nil, apperror.Validation(fmt.Sprintf("unknown batch status %q", status))
	}
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	if limit > maxRecentLimit {
		limit = maxRecentLimit
	}

	l.mu.RLock()
	defer l.mu.RUnlock()
	out := []domain.CreditBatch{}
	for id := l.state.batchCount; id > 0 && len(out) < limit; id-- {
		b, ok := l.state.batches[domain.BatchID(id)]
		if !ok || !status.Matches(b) {
			continue
		}
		out = append(out, *copyBatch(b))
	}
	return out, nil
}

// GetUserCredits returns the ids of every batch identity has ever received,
// ascending.
func (l *Ledger) GetUserCredits(identity domain.Identity) []domain.BatchID {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]domain.BatchID{}, l.state.received[identity]...)
}

// BalanceOf returns the identity's outstanding credits across all batches.
func (l *Ledger) BalanceOf(identity domain.Identity) decimal.Decimal {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state.balances[identity]
}

// BatchBalance returns the identity's outstanding credits in one batch.
func (l *Ledger) BatchBalance(id domain.BatchID, identity domain.Identity) decimal.Decimal {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state.holding(id, identity)
}

// Holders returns the non-zero holdings of a batch.
func (l *Ledger) Holders(id domain.BatchID) ([]domain.Holding, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if _, ok := l.state.batches[id]; !ok {
		return nil, apperror.ErrBatchNotFound(uint64(id))
	}
	out := make([]domain.Holding, 0, len(l.state.holdings[id]))
	for holder, amt := range l.state.holdings[id] {
		out = append(out, domain.Holding{BatchID: id, Holder: holder, Amount: amt})
	}
	sortHoldings(out)
	return out, nil
}

// Supply returns the ledger-wide counters.
func (l *Ledger) Supply() domain.Supply {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state.supply()
}

// Stats returns the state-derived part of the compliance report.
func (l *Ledger) Stats() domain.ComplianceStats {
	l.mu.RLock()
	defer l.mu.RUnlock()
	s := l.state

	st := domain.ComplianceStats{
		Supply:        s.supply(),
		TotalBatches:  len(s.batches),
		TransferCount: s.transferCount,
		LastSeq:       s.lastSeq,
		Paused:        s.paused,
	}
	for _, b := range s.batches {
		if b.IsRetired {
			st.RetiredBatches++
		}
	}
	st.ActiveBatches = st.TotalBatches - st.RetiredBatches
	return st
}

func (l *Ledger) timestamp() time.Time {
	return domain.LedgerTime(l.now())
}

// emit hands ev to the event publisher. Called with the write lock held so
// events leave in commit order, which is why the publisher must not block on
// delivery. EventDispatcher queues and returns.
func (l *Ledger) emit(ctx context.Context, ev domain.Event) {
	if l.events == nil {
		return
	}
	if err := l.events.Publish(context.WithoutCancel(ctx), ev); err != nil {
		l.log.Warn().Err(err).Str("event", string(ev.Type)).Uint64("seq", ev.Seq).Msg("event not published")
	}
}
