package bot

import (
	"math"

	botinternal "gotcha/internal/bot/internal"
	"gotcha/internal/domain"
)

// chooseScored picks the legal action whose resulting position evaluates
// best under the given weights. While an effect still awaits the same
// player, the line is followed up to depth further selections, so a card
// pick is judged by what it enables rather than the half-resolved state
// it leaves behind. Ties keep the first candidate, which favors
// DECLARE_DONE over burning an action card for nothing.
func chooseScored(game *domain.GameState, player *domain.Player, w botinternal.Weights, depth int) (domain.Action, error) {
	actions := botinternal.LegalActions(game, player)
	if len(actions) == 0 {
		return domain.Action{}, ErrNoLegalAction
	}

	best := math.Inf(-1)
	var pick domain.Action
	found := false
	for _, a := range actions {
		score, err := scoreLine(game, player.ID, a, w, depth)
		if err != nil {
			continue
		}
		if !found || score > best {
			best = score
			pick = a
			found = true
		}
	}
	if !found {
		return domain.Action{}, ErrNoLegalAction
	}
	return pick, nil
}

// scoreLine applies the action on a scratch copy, resolves the actor's
// own pending selections while depth lasts, and evaluates the final
// position. Engine rejections bubble up so the caller can skip the
// candidate.
func scoreLine(s *domain.GameState, id domain.PlayerID, a domain.Action, w botinternal.Weights, depth int) (float64, error) {
	next, err := domain.Advance(s, a, nil)
	if err != nil {
		return 0, err
	}
	if depth > 0 && next.Effect != nil && next.Effect.Actor() == id {
		if player, _, found := next.PlayerByID(id); found {
			best := math.Inf(-1)
			scored := false
			for _, fa := range botinternal.LegalActions(next, player) {
				score, err := scoreLine(next, id, fa, w, depth-1)
				if err != nil {
					continue
				}
				if score > best {
					best = score
					scored = true
				}
			}
			if scored {
				return best, nil
			}
		}
	}
	return botinternal.EvaluateState(next, id, w), nil
}
