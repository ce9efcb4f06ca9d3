package domain

import "math/rand"

// ShuffleDeck returns a shuffled copy of the given cards using the
// provided source. Callers seed the source; the engine never seeds.
func ShuffleDeck(cards []Card, rng *rand.Rand) []Card {
	out := make([]Card, len(cards))
	copy(out, cards)
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// drawCard removes the top card of the draw pile. When the draw pile is
// empty the discard pile is shuffled in first. ok is false when both
// piles are out of cards.
func drawCard(s *GameState, rng *rand.Rand) (Card, bool) {
	if len(s.DrawPile) == 0 && len(s.DiscardPile) > 0 {
		s.DrawPile = ShuffleDeck(s.DiscardPile, rng)
		s.DiscardPile = nil
	}
	if len(s.DrawPile) == 0 {
		return Card{}, false
	}
	c := s.DrawPile[len(s.DrawPile)-1]
	s.DrawPile = s.DrawPile[:len(s.DrawPile)-1]
	return c, true
}

// dealHands tops up every hand to the hand size, one card per player per
// pass, starting at the buyer. Stops quietly when the piles run dry.
func dealHands(s *GameState, rng *rand.Rand) {
	n := len(s.Players)
	for {
		dealt := false
		for off := 0; off < n; off++ {
			p := s.Players[(s.BuyerIndex+off)%n]
			if len(p.Hand) >= s.Rules.HandSize {
				continue
			}
			c, ok := drawCard(s, rng)
			if !ok {
				return
			}
			p.Hand = append(p.Hand, c)
			dealt = true
		}
		if !dealt {
			return
		}
	}
}

func handIndexByID(p *Player, cardID int) int {
	for i, c := range p.Hand {
		if c.ID == cardID {
			return i
		}
	}
	return -1
}

func collectionIndexByID(p *Player, cardID int) int {
	for i, c := range p.Collection {
		if c.ID == cardID {
			return i
		}
	}
	return -1
}

func collectionCount(p *Player, sub Subtype) int {
	n := 0
	for _, c := range p.Collection {
		if c.Subtype == sub {
			n++
		}
	}
	return n
}

// removeCollectionCards removes up to count cards of a subtype from the
// collection and returns them.
func removeCollectionCards(p *Player, sub Subtype, count int) []Card {
	removed := make([]Card, 0, count)
	kept := p.Collection[:0]
	for _, c := range p.Collection {
		if c.Subtype == sub && len(removed) < count {
			removed = append(removed, c)
			continue
		}
		kept = append(kept, c)
	}
	p.Collection = kept
	return removed
}
