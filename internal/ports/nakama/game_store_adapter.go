package nakama

import (
	"context"
	"encoding/json"
	"fmt"

	"gotcha/internal/domain"
	"gotcha/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

const gameStateCollection = "games"

// NakamaGameStoreAdapter keeps the running game state in Nakama storage,
// one system-owned record per match. Clients never read these records;
// they get redacted views over the socket.
type NakamaGameStoreAdapter struct {
	nk runtime.NakamaModule
}

// NewNakamaGameStoreAdapter creates a new game store adapter.
func NewNakamaGameStoreAdapter(nk runtime.NakamaModule) *NakamaGameStoreAdapter {
	return &NakamaGameStoreAdapter{nk: nk}
}

// Load reads the saved state for a match. A fresh match has no record,
// which is reported as (nil, nil).
func (a *NakamaGameStoreAdapter) Load(ctx context.Context, gameID string) (*domain.GameState, error) {
	if gameID == "" {
		return nil, nil
	}

	objects, err := a.nk.StorageRead(ctx, []*runtime.StorageRead{
		{
			Collection: gameStateCollection,
			Key:        gameID,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read game state: %w", err)
	}
	if len(objects) == 0 {
		return nil, nil
	}

	var state domain.GameState
	if err := json.Unmarshal([]byte(objects[0].GetValue()), &state); err != nil {
		return nil, fmt.Errorf("failed to decode game state: %w", err)
	}
	return &state, nil
}

// Save overwrites the saved state for a match.
func (a *NakamaGameStoreAdapter) Save(ctx context.Context, gameID string, state *domain.GameState) error {
	if gameID == "" || state == nil {
		return nil
	}

	value, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal game state: %w", err)
	}

	writes := []*runtime.StorageWrite{
		{
			Collection:      gameStateCollection,
			Key:             gameID,
			Value:           string(value),
			PermissionRead:  runtime.STORAGE_PERMISSION_NO_READ,
			PermissionWrite: runtime.STORAGE_PERMISSION_NO_WRITE,
		},
	}
	if _, err := a.nk.StorageWrite(ctx, writes); err != nil {
		return fmt.Errorf("failed to save game state: %w", err)
	}
	return nil
}

var _ ports.GameStorePort = (*NakamaGameStoreAdapter)(nil)
