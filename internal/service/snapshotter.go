package service

import (
	"context"
	"fmt"
	"time"

	"hydrogen-credit-ledger/internal/core/domain"
	"hydrogen-credit-ledger/internal/core/ports"

	"github.com/rs/zerolog"
)

// snapshotSource produces ledger snapshots.
type snapshotSource interface {
	Snapshot() *domain.Snapshot
}

// Snapshotter periodically saves ledger snapshots so restarts replay only
// the tail of the log.
type Snapshotter struct {
	ledger   snapshotSource
	store    ports.SnapshotStore
	interval time.Duration
	log      zerolog.Logger
	lastSeq  uint64
	lastAdm  uint64
	saved    bool
}

// NewSnapshotter creates a snapshotter. A non-positive interval disables the
// periodic loop; SaveNow still works.
func NewSnapshotter(ledger snapshotSource, store ports.SnapshotStore, interval time.Duration, log zerolog.Logger) *Snapshotter {
	return &Snapshotter{ledger: ledger, store: store, interval: interval, log: log}
}

// SaveNow saves a snapshot unless nothing changed since the last save.
// It reports whether a snapshot was written.
func (s *Snapshotter) SaveNow(ctx context.Context) (bool, error) {
	snap := s.ledger.Snapshot()
	if s.saved && snap.LastSeq == s.lastSeq && snap.LastAdminSeq == s.lastAdm {
		return false, nil
	}
	if err := s.store.Save(ctx, snap); err != nil {
		return false, fmt.Errorf("save snapshot at seq %d: %w", snap.LastSeq, err)
	}
	s.lastSeq, s.lastAdm, s.saved = snap.LastSeq, snap.LastAdminSeq, true
	s.log.Info().Uint64("seq", snap.LastSeq).Uint64("admin_seq", snap.LastAdminSeq).Msg("snapshot saved")
	return true, nil
}

// Run saves on every tick until ctx is done, then makes a final save with a
// fresh context.
func (s *Snapshotter) Run(ctx context.Context) {
	if s.interval <= 0 {
		return
	}
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := s.SaveNow(ctx); err != nil {
				s.log.Warn().Err(err).Msg("periodic snapshot failed")
			}
		case <-ctx.Done():
			final, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
			if _, err := s.SaveNow(final); err != nil {
				s.log.Warn().Err(err).Msg("final snapshot failed")
			}
			cancel()
			return
		}
	}
}
