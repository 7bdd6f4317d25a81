package memory

import (
	"context"
	"sync"

	"hydrogen-credit-ledger/internal/core/domain"
)

const defaultAuditCapacity = 10000

// AuditRepo keeps the newest audit entries in a bounded buffer.
type AuditRepo struct {
	mu       sync.RWMutex
	entries  []domain.AuditLog
	capacity int
}

// NewAuditRepo creates a repo holding at most capacity entries.
func NewAuditRepo(capacity int) *AuditRepo {
	if capacity <= 0 {
		capacity = defaultAuditCapacity
	}
	return &AuditRepo{capacity: capacity}
}

func (r *AuditRepo) Create(ctx context.Context, entry *domain.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, *entry)
	if over := len(r.entries) - r.capacity; over > 0 {
		r.entries = append([]domain.AuditLog(nil), r.entries[over:]...)
	}
	return nil
}

// ListRecent returns up to limit entries, newest first.
func (r *AuditRepo) ListRecent(ctx context.Context, limit int) ([]domain.AuditLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.AuditLog, 0, limit)
	for i := len(r.entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.entries[i])
	}
	return out, nil
}
