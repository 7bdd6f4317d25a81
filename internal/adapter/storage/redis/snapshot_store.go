package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"hydrogen-credit-ledger/internal/core/domain"

	goredis "github.com/redis/go-redis/v9"
)

// SnapshotStore keeps the latest ledger snapshot as one JSON value. The
// snapshot has no TTL: it is replaced, never expired.
type SnapshotStore struct {
	client goredis.UniversalClient
	key    string
}

// NewSnapshotStore creates a snapshot store writing under key.
func NewSnapshotStore(client goredis.UniversalClient, key string) *SnapshotStore {
	return &SnapshotStore{client: client, key: key}
}

// Save replaces the stored snapshot.
func (s *SnapshotStore) Save(ctx context.Context, snap *domain.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("redis set snapshot: %w", err)
	}
	return nil
}

// Load returns the stored snapshot, or nil if there is none.
func (s *SnapshotStore) Load(ctx context.Context) (*domain.Snapshot, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis get snapshot: %w", err)
	}

	var snap domain.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return &snap, nil
}
