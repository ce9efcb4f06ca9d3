package bot

import (
	botinternal "gotcha/internal/bot/internal"
	"gotcha/internal/domain"
)

// greedyDepth resolves two-step selections (pick a card, then place it)
// but not full twice-gotcha chains.
const greedyDepth = 2

// GreedyBot chases points and set progress and ignores what it is
// accumulating: gotcha liabilities and rival standing carry no weight.
type GreedyBot struct {
	Weights botinternal.Weights
}

func (b *GreedyBot) ChooseAction(game *domain.GameState, player *domain.Player) (domain.Action, error) {
	return chooseScored(game, player, b.Weights, greedyDepth)
}
