package replication

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/DedS3t/richman/app/models"
	"github.com/DedS3t/richman/platform/cache"
)

const SnapshotKey = "richman_host_state"

// Sessions keeps the host's latest snapshot so a restarted host can resume.
type Sessions struct {
	store cache.Store
}

func NewSessions(store cache.Store) *Sessions {
	return &Sessions{store: store}
}

func (s *Sessions) Save(ctx context.Context, state models.GameState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := s.store.Set(ctx, SnapshotKey, string(data)); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// Restore returns the stored snapshot only when hostId hosted it and the
// game was still being played.
func (s *Sessions) Restore(ctx context.Context, hostId string) (models.GameState, bool, error) {
	data, err := s.store.Get(ctx, SnapshotKey)
	if errors.Is(err, cache.ErrNotFound) {
		return models.GameState{}, false, nil
	}
	if err != nil {
		return models.GameState{}, false, fmt.Errorf("load snapshot: %w", err)
	}
	var state models.GameState
	if err := json.Unmarshal([]byte(data), &state); err != nil {
		return models.GameState{}, false, fmt.Errorf("decode snapshot: %w", err)
	}
	if state.HostId != hostId || state.Status != models.StatusPlaying {
		return models.GameState{}, false, nil
	}
	return state, true, nil
}
