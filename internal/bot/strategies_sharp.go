package bot

import (
	botinternal "gotcha/internal/bot/internal"
	"gotcha/internal/domain"
)

// sharpDepth covers the longest selection chain a player can owe: a twice
// gotcha runs pick, verdict, pick, verdict.
const sharpDepth = 6

// SharpBot plays the full evaluator. On top of GreedyBot's gain terms it
// prices gotcha pairs forming in its collection, the best rival's points
// and holding the money bag, and it searches effect chains to the end.
type SharpBot struct {
	Weights botinternal.Weights
}

func (b *SharpBot) ChooseAction(game *domain.GameState, player *domain.Player) (domain.Action, error) {
	return chooseScored(game, player, b.Weights, sharpDepth)
}
