package internal

import (
	"gotcha/internal/domain"
)

// Weights tunes the positional evaluator. Gain terms add, liability terms
// subtract; tunings express both as positive magnitudes.
type Weights struct {
	Point       float64 // per own point
	RivalPoint  float64 // per point of the best rival
	SetProgress float64 // partial thing sets, see thingProgress
	BadGotcha   float64 // per bad gotcha held
	OnceGotcha  float64 // per once gotcha held
	TwiceGotcha float64 // per twice gotcha held
	ActionCard  float64 // per unspent action card
	HandCard    float64 // per hand card
	MoneyBag    float64 // holding the money bag
	WinBonus    float64 // the game is won
}

// EvaluateState scores the position from the given player's point of view.
// Higher is better.
func EvaluateState(s *domain.GameState, id domain.PlayerID, w Weights) float64 {
	p, _, found := s.PlayerByID(id)
	if !found {
		return 0
	}

	score := w.Point * float64(p.Points)
	if s.Winner == id {
		score += w.WinBonus
	} else if s.Winner != "" {
		score -= w.WinBonus
	}

	best := 0
	for _, other := range s.Players {
		if other.ID != id && other.Points > best {
			best = other.Points
		}
	}
	score -= w.RivalPoint * float64(best)

	score += w.SetProgress * thingProgress(p.Collection)

	counts := SubtypeCounts(p.Collection)
	score -= w.BadGotcha * float64(counts[domain.GotchaBad])
	score -= w.OnceGotcha * float64(counts[domain.GotchaOnce])
	score -= w.TwiceGotcha * float64(counts[domain.GotchaTwice])

	// Gotchas in the own offer may sell away or come home unsold, so they
	// weigh half of what they do in the collection. Hand cards only move
	// where the player sends them and carry no liability.
	offered := SubtypeCounts(OfferCards(p.Offer))
	score -= 0.5 * w.BadGotcha * float64(offered[domain.GotchaBad])
	score -= 0.5 * w.OnceGotcha * float64(offered[domain.GotchaOnce])
	score -= 0.5 * w.TwiceGotcha * float64(offered[domain.GotchaTwice])

	score += w.ActionCard * float64(ActionCardCount(p.Collection))
	score += w.HandCard * float64(len(p.Hand))
	if p.HasMoney {
		score += w.MoneyBag
	}
	return score
}

// thingProgress values partial thing sets quadratically, so two copies
// toward one set outweigh two scattered first copies. A complete set
// counts as 1, the point it is about to become.
func thingProgress(collection []domain.Card) float64 {
	counts := make(map[domain.Subtype]int)
	sizes := make(map[domain.Subtype]int)
	for _, c := range collection {
		if c.Type != domain.TypeThing || c.SetSize == 0 {
			continue
		}
		counts[c.Subtype]++
		sizes[c.Subtype] = c.SetSize
	}
	total := 0.0
	for sub, n := range counts {
		frac := float64(n) / float64(sizes[sub])
		if frac > 1 {
			frac = 1
		}
		total += frac * frac
	}
	return total
}
