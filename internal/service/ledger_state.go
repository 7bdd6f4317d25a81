package service

import (
	"fmt"
	"sort"

	"hydrogen-credit-ledger/internal/core/domain"

	"github.com/shopspring/decimal"
)

// ledgerState is the in-memory image of the ledger. It changes only through
// apply and applyAdmin, which are used both for live writes and for replay.
type ledgerState struct {
	batches  map[domain.BatchID]*domain.CreditBatch
	holdings map[domain.BatchID]map[domain.Identity]decimal.Decimal
	balances map[domain.Identity]decimal.Decimal
	received map[domain.Identity][]domain.BatchID
	access   *AccessController
	paused   bool

	batchCount    uint64
	lastSeq       uint64
	lastHash      string
	lastAdminSeq  uint64
	totalSupply   decimal.Decimal
	totalRetired  decimal.Decimal
	totalHydrogen decimal.Decimal
	transferCount uint64
}

func newLedgerState() *ledgerState {
	return &ledgerState{
		batches:  make(map[domain.BatchID]*domain.CreditBatch),
		holdings: make(map[domain.BatchID]map[domain.Identity]decimal.Decimal),
		balances: make(map[domain.Identity]decimal.Decimal),
		received: make(map[domain.Identity][]domain.BatchID),
		access:   NewAccessController(),
		lastHash: domain.GenesisHash,
	}
}

func (s *ledgerState) holding(id domain.BatchID, holder domain.Identity) decimal.Decimal {
	return s.holdings[id][holder]
}

// effects computes the batch and holdings a record produces without
// touching the state. The returned batch is a fresh copy.
func (s *ledgerState) effects(rec *domain.TransactionRecord) (*domain.CreditBatch, []domain.Holding, error) {
	switch rec.Kind {
	case domain.RecordIssue:
		if uint64(rec.BatchID) != s.batchCount+1 {
			return nil, nil, fmt.Errorf("issue record %d: batch id %d out of order", rec.Seq, rec.BatchID)
		}
		b := &domain.CreditBatch{
			ID:                 rec.BatchID,
			Owner:              rec.To,
			ProductionFacility: rec.Facility,
			HydrogenAmount:     rec.HydrogenAmount,
			CreditAmount:       rec.Amount,
			IssuedAmount:       rec.Amount,
			VerificationHash:   rec.VerificationHash,
			Certifier:          rec.Actor,
			IssuanceDate:       rec.Timestamp,
		}
		return b, []domain.Holding{{BatchID: b.ID, Holder: rec.To, Amount: rec.Amount}}, nil

	case domain.RecordTransfer:
		cur, ok := s.batches[rec.BatchID]
		if !ok {
			return nil, nil, fmt.Errorf("transfer record %d: unknown batch %d", rec.Seq, rec.BatchID)
		}
		fromBal := s.holding(rec.BatchID, rec.From).Sub(rec.Amount)
		if fromBal.IsNegative() {
			return nil, nil, fmt.Errorf("transfer record %d: holding of %s would go negative", rec.Seq, rec.From)
		}
		b := copyBatch(cur)
		if rec.From == rec.To {
			return b, []domain.Holding{{BatchID: b.ID, Holder: rec.From, Amount: s.holding(rec.BatchID, rec.From)}}, nil
		}
		toBal := s.holding(rec.BatchID, rec.To).Add(rec.Amount)
		if b.Owner == rec.From && fromBal.IsZero() {
			b.Owner = rec.To
		}
		return b, []domain.Holding{
			{BatchID: b.ID, Holder: rec.From, Amount: fromBal},
			{BatchID: b.ID, Holder: rec.To, Amount: toBal},
		}, nil

	case domain.RecordRetire:
		cur, ok := s.batches[rec.BatchID]
		if !ok {
			return nil, nil, fmt.Errorf("retire record %d: unknown batch %d", rec.Seq, rec.BatchID)
		}
		bal := s.holding(rec.BatchID, rec.From).Sub(rec.Amount)
		if bal.IsNegative() {
			return nil, nil, fmt.Errorf("retire record %d: holding of %s would go negative", rec.Seq, rec.From)
		}
		b := copyBatch(cur)
		b.CreditAmount = b.CreditAmount.Sub(rec.Amount)
		if b.CreditAmount.IsZero() {
			b.IsRetired = true
			ts := rec.Timestamp
			b.RetiredAt = &ts
		} else if b.Owner == rec.From && bal.IsZero() {
			b.Owner = s.largestHolder(b.ID, rec.From)
		}
		return b, []domain.Holding{{BatchID: b.ID, Holder: rec.From, Amount: bal}}, nil
	}
	return nil, nil, fmt.Errorf("record %d: unknown kind %q", rec.Seq, rec.Kind)
}

// apply folds one record into the state. It rejects records that do not
// extend the hash chain.
func (s *ledgerState) apply(rec *domain.TransactionRecord) error {
	if rec.Seq != s.lastSeq+1 {
		return fmt.Errorf("record seq %d does not follow %d", rec.Seq, s.lastSeq)
	}
	if rec.PrevHash != s.lastHash {
		return fmt.Errorf("record %d: prev hash mismatch", rec.Seq)
	}
	if rec.Hash != domain.ComputeRecordHash(rec) {
		return fmt.Errorf("record %d: hash mismatch", rec.Seq)
	}

	b, hs, err := s.effects(rec)
	if err != nil {
		return err
	}

	s.batches[b.ID] = b
	for _, h := range hs {
		s.setHolding(h)
	}

	switch rec.Kind {
	case domain.RecordIssue:
		s.batchCount = uint64(rec.BatchID)
		s.totalSupply = s.totalSupply.Add(rec.Amount)
		s.totalHydrogen = s.totalHydrogen.Add(rec.HydrogenAmount)
		s.markReceived(rec.To, rec.BatchID)
	case domain.RecordTransfer:
		s.transferCount++
		s.markReceived(rec.To, rec.BatchID)
	case domain.RecordRetire:
		s.totalRetired = s.totalRetired.Add(rec.Amount)
	}

	s.lastSeq = rec.Seq
	s.lastHash = rec.Hash
	return nil
}

// largestHolder returns the holder of the biggest share of a batch other
// than skip. Ties go to the lowest identity.
func (s *ledgerState) largestHolder(id domain.BatchID, skip domain.Identity) domain.Identity {
	var best domain.Identity
	bestAmt := decimal.Zero
	for holder, amt := range s.holdings[id] {
		if holder == skip || !amt.IsPositive() {
			continue
		}
		if c := amt.Cmp(bestAmt); c > 0 || (c == 0 && holder < best) {
			best, bestAmt = holder, amt
		}
	}
	return best
}

func (s *ledgerState) setHolding(h domain.Holding) {
	byHolder, ok := s.holdings[h.BatchID]
	if !ok {
		byHolder = make(map[domain.Identity]decimal.Decimal)
		s.holdings[h.BatchID] = byHolder
	}
	prev := byHolder[h.Holder]
	s.balances[h.Holder] = s.balances[h.Holder].Sub(prev).Add(h.Amount)
	if s.balances[h.Holder].IsZero() {
		delete(s.balances, h.Holder)
	}
	if h.Amount.IsZero() {
		delete(byHolder, h.Holder)
		return
	}
	byHolder[h.Holder] = h.Amount
}

func (s *ledgerState) markReceived(id domain.Identity, batch domain.BatchID) {
	list := s.received[id]
	i := sort.Search(len(list), func(i int) bool { return list[i] >= batch })
	if i < len(list) && list[i] == batch {
		return
	}
	list = append(list, 0)
	copy(list[i+1:], list[i:])
	list[i] = batch
	s.received[id] = list
}

// applyAdmin folds one admin event into the state.
func (s *ledgerState) applyAdmin(ev *domain.AdminEvent) error {
	if ev.Seq != s.lastAdminSeq+1 {
		return fmt.Errorf("admin event seq %d does not follow %d", ev.Seq, s.lastAdminSeq)
	}
	switch ev.Kind {
	case domain.AdminRoleGranted:
		s.access.grant(ev.Subject, ev.Role)
	case domain.AdminRoleRevoked:
		s.access.revoke(ev.Subject, ev.Role)
	case domain.AdminPaused:
		s.paused = true
	case domain.AdminUnpaused:
		s.paused = false
	default:
		return fmt.Errorf("admin event %d: unknown kind %q", ev.Seq, ev.Kind)
	}
	s.lastAdminSeq = ev.Seq
	return nil
}

func (s *ledgerState) supply() domain.Supply {
	return domain.Supply{
		TotalSupply:           s.totalSupply,
		TotalRetired:          s.totalRetired,
		OutstandingSupply:     s.totalSupply.Sub(s.totalRetired),
		TotalHydrogenProduced: s.totalHydrogen,
	}
}

// snapshot exports the state. Slices are sorted so equal states produce
// equal snapshots.
func (s *ledgerState) snapshot() *domain.Snapshot {
	snap := &domain.Snapshot{
		Version:       domain.SnapshotVersion,
		LastSeq:       s.lastSeq,
		LastHash:      s.lastHash,
		LastAdminSeq:  s.lastAdminSeq,
		Paused:        s.paused,
		Batches:       make([]domain.CreditBatch, 0, len(s.batches)),
		Received:      make(map[domain.Identity][]domain.BatchID, len(s.received)),
		Roles:         s.access.export(),
		TotalSupply:   s.totalSupply,
		TotalRetired:  s.totalRetired,
		TotalHydrogen: s.totalHydrogen,
		TransferCount: s.transferCount,
	}
	for _, b := range s.batches {
		snap.Batches = append(snap.Batches, *copyBatch(b))
	}
	sort.Slice(snap.Batches, func(i, j int) bool { return snap.Batches[i].ID < snap.Batches[j].ID })

	for id, byHolder := range s.holdings {
		for holder, amt := range byHolder {
			snap.Holdings = append(snap.Holdings, domain.Holding{BatchID: id, Holder: holder, Amount: amt})
		}
	}
	sortHoldings(snap.Holdings)

	for id, list := range s.received {
		snap.Received[id] = append([]domain.BatchID(nil), list...)
	}
	return snap
}

// stateFromSnapshot rebuilds a state from a snapshot image.
func stateFromSnapshot(snap *domain.Snapshot) (*ledgerState, error) {
	if snap.Version != domain.SnapshotVersion {
		return nil, fmt.Errorf("unsupported snapshot version %d", snap.Version)
	}
	s := newLedgerState()
	s.lastSeq = snap.LastSeq
	s.lastHash = snap.LastHash
	s.lastAdminSeq = snap.LastAdminSeq
	s.paused = snap.Paused
	s.totalSupply = snap.TotalSupply
	s.totalRetired = snap.TotalRetired
	s.totalHydrogen = snap.TotalHydrogen
	s.transferCount = snap.TransferCount
	if s.lastHash == "" {
		s.lastHash = domain.GenesisHash
	}

	for i := range snap.Batches {
		b := snap.Batches[i]
		s.batches[b.ID] = copyBatch(&b)
		if uint64(b.ID) > s.batchCount {
			s.batchCount = uint64(b.ID)
		}
	}
	for _, h := range snap.Holdings {
		if _, ok := s.batches[h.BatchID]; !ok {
			return nil, fmt.Errorf("snapshot holding references unknown batch %d", h.BatchID)
		}
		s.setHolding(h)
	}
	for id, list := range snap.Received {
		for _, b := range list {
			s.markReceived(id, b)
		}
	}
	for role, ids := range snap.Roles {
		if !role.Valid() {
			return nil, fmt.Errorf("snapshot carries unknown role %q", role)
		}
		for _, id := range ids {
			s.access.grant(id, role)
		}
	}
	return s, nil
}

func sortHoldings(hs []domain.Holding) {
	sort.Slice(hs, func(i, j int) bool {
		if hs[i].BatchID != hs[j].BatchID {
			return hs[i].BatchID < hs[j].BatchID
		}
		return hs[i].Holder < hs[j].Holder
	})
}

func copyBatch(b *domain.CreditBatch) *domain.CreditBatch {
	cp := *b
	if b.RetiredAt != nil {
		ts := *b.RetiredAt
		cp.RetiredAt = &ts
	}
	return &cp
}
