package ports

import (
	"context"

	"gotcha/internal/domain"
)

// GameStorePort persists the authoritative game state between handler
// restarts, keyed by match id. The rules engine never touches storage
// itself; the adapter hands it a state and writes back the result.
type GameStorePort interface {
	// Load returns the stored state for a match, or nil when no record
	// exists. Absence is not an error.
	Load(ctx context.Context, gameID string) (*domain.GameState, error)

	// Save overwrites the stored state for a match.
	Save(ctx context.Context, gameID string, state *domain.GameState) error
}
