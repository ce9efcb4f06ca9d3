package bot

import (
	"errors"

	"gotcha/internal/domain"
)

// ErrNoLegalAction reports that a strategy was asked to act in a state
// where the player has nothing legal to submit. With a correct caller
// this only happens when the player is not the awaited actor.
var ErrNoLegalAction = errors.New("bot: no legal action available")

// Brain is the interface that all bot strategies must implement. The
// returned action is ready to feed to the rules engine unchanged.
type Brain interface {
	ChooseAction(game *domain.GameState, player *domain.Player) (domain.Action, error)
}
