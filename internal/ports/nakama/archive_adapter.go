package nakama

import (
	"context"
	"encoding/json"
	"fmt"

	"gotcha/internal/ports"

	"github.com/google/uuid"
	"github.com/heroiclabs/nakama-common/runtime"
)

const matchArchiveCollection = "match_archive"

// NakamaMatchArchiveAdapter persists finished games to Nakama storage,
// one record per participant so history queries stay per-user.
type NakamaMatchArchiveAdapter struct {
	nk runtime.NakamaModule
}

// NewNakamaMatchArchiveAdapter creates a new match archive adapter.
func NewNakamaMatchArchiveAdapter(nk runtime.NakamaModule) *NakamaMatchArchiveAdapter {
	return &NakamaMatchArchiveAdapter{nk: nk}
}

// SaveResult writes the result under every participating human. Bots
// keep no history.
func (a *NakamaMatchArchiveAdapter) SaveResult(ctx context.Context, result ports.MatchResult) error {
	value, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal match result: %w", err)
	}

	// Match IDs repeat across rematches in the same match instance, so
	// every record gets its own key.
	key := result.MatchID
	if key == "" {
		key = "local"
	}
	key = key + "." + uuid.NewString()

	writes := make([]*runtime.StorageWrite, 0, len(result.Points))
	for userID := range result.Points {
		if isBotUserId(userID) {
			continue
		}
		writes = append(writes, &runtime.StorageWrite{
			Collection:      matchArchiveCollection,
			Key:             key,
			UserID:          userID,
			Value:           string(value),
			PermissionRead:  runtime.STORAGE_PERMISSION_OWNER_READ,
			PermissionWrite: runtime.STORAGE_PERMISSION_NO_WRITE,
		})
	}
	if len(writes) == 0 {
		return nil
	}

	if _, err := a.nk.StorageWrite(ctx, writes); err != nil {
		return fmt.Errorf("failed to archive match result: %w", err)
	}
	return nil
}

var _ ports.MatchArchivePort = (*NakamaMatchArchiveAdapter)(nil)
