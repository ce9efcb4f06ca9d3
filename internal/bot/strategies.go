package bot

import (
	"math/rand"

	botinternal "gotcha/internal/bot/internal"
	"gotcha/internal/domain"
)

// CasualBot plays a uniformly random legal action. It is the floor tier
// and the stand-in for humans whose turn timer ran out.
type CasualBot struct {
	rng *rand.Rand
}

// NewCasualBot returns a casual strategy with its own seeded source.
func NewCasualBot(seed int64) *CasualBot {
	return &CasualBot{rng: rand.New(rand.NewSource(seed))}
}

func (b *CasualBot) ChooseAction(game *domain.GameState, player *domain.Player) (domain.Action, error) {
	actions := botinternal.LegalActions(game, player)
	if len(actions) == 0 {
		return domain.Action{}, ErrNoLegalAction
	}
	return actions[b.rng.Intn(len(actions))], nil
}
