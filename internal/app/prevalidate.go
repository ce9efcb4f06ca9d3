package app

import (
	"errors"

	"gotcha/internal/domain"
)

var ErrActorMismatch = errors.New("action actor does not match sender")

// Prevalidate runs the cheap shared guards before an action reaches the
// rules engine: sender identity, game lifecycle and phase legality. It
// lets adapters refuse bad requests without paying for the state clone
// Advance makes. The engine re-validates everything and remains the
// source of truth.
func Prevalidate(state *domain.GameState, actorID string, a domain.Action) error {
	if state == nil {
		return ErrNilState
	}
	if a.Actor != domain.PlayerID(actorID) {
		return ErrActorMismatch
	}

	switch a.Kind {
	case domain.ActionChangePerspective, domain.ActionResetGame:
		// Accepted in every phase, terminal included.
		return nil
	case domain.ActionStartGame:
		if state.Started {
			return domain.ErrGameAlreadyStarted
		}
		return nil
	}

	if !state.Started {
		return domain.ErrGameNotStarted
	}
	if state.Phase == domain.PhaseEnded || state.Winner != "" {
		return domain.ErrGameEnded
	}
	if !domain.AllowedInPhase(state.Phase, a.Kind) {
		return &domain.IllegalActionError{Phase: state.Phase, Kind: a.Kind}
	}
	if _, _, found := state.PlayerByID(a.Actor); !found {
		return domain.ErrUnknownPlayer
	}
	return nil
}
