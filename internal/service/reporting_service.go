package service

import (
	"context"
	"time"

	"hydrogen-credit-ledger/internal/core/domain"
	"hydrogen-credit-ledger/internal/core/ports"

	"github.com/rs/zerolog"
)

// statsSource is the ledger view reporting needs.
type statsSource interface {
	Stats() domain.ComplianceStats
}

type reportingService struct {
	ledger statsSource
	txlog  ports.TransactionLogService
	log    zerolog.Logger
}

// NewReportingService creates a reporting service over the ledger state and
// its transaction log.
func NewReportingService(ledger statsSource, txlog ports.TransactionLogService, log zerolog.Logger) ports.ReportingService {
	return &reportingService{ledger: ledger, txlog: txlog, log: log}
}

// ComplianceStats combines the ledger counters with the most recent
// transactions.
func (s *reportingService) ComplianceStats(ctx context.Context, recent int) (*domain.ComplianceStats, error) {
	stats := s.ledger.Stats()

	txs, err := s.txlog.RecentTransactions(ctx, recent)
	if err != nil {
		return nil, err
	}
	stats.RecentTransactions = txs
	stats.GeneratedAt = time.Now().UTC()

	s.log.Debug().Int("batches", stats.TotalBatches).Uint64("seq", stats.LastSeq).Msg("compliance stats generated")
	return &stats, nil
}
