package internal

import (
	"gotcha/internal/domain"
)

// SubtypeCounts tallies a pile of cards by subtype.
func SubtypeCounts(cards []domain.Card) map[domain.Subtype]int {
	counts := make(map[domain.Subtype]int, len(cards))
	for _, c := range cards {
		counts[c.Subtype]++
	}
	return counts
}

// ActionCardCount returns how many playable action cards the collection
// holds.
func ActionCardCount(collection []domain.Card) int {
	n := 0
	for _, c := range collection {
		if c.Type == domain.TypeAction {
			n++
		}
	}
	return n
}

// FaceUpCount returns how many cards of an offer are revealed.
func FaceUpCount(offer []domain.OfferCard) int {
	n := 0
	for _, oc := range offer {
		if oc.FaceUp {
			n++
		}
	}
	return n
}

// OfferCards strips the offer wrappers down to the cards.
func OfferCards(offer []domain.OfferCard) []domain.Card {
	out := make([]domain.Card, len(offer))
	for i, oc := range offer {
		out[i] = oc.Card
	}
	return out
}

// CompletesThingSet reports whether adding card to the collection would
// finish a thing set of its subtype.
func CompletesThingSet(collection []domain.Card, card domain.Card) bool {
	if card.Type != domain.TypeThing || card.SetSize == 0 {
		return false
	}
	n := 0
	for _, c := range collection {
		if c.Subtype == card.Subtype {
			n++
		}
	}
	return n+1 >= card.SetSize
}

// CompletesGotchaSet reports whether adding card would close a gotcha
// pair, triggering its penalty at the next trade-in scan.
func CompletesGotchaSet(collection []domain.Card, card domain.Card) bool {
	size := domain.GotchaSetSize(card.Subtype)
	if card.Type != domain.TypeGotcha || size == 0 {
		return false
	}
	n := 0
	for _, c := range collection {
		if c.Subtype == card.Subtype {
			n++
		}
	}
	return n+1 >= size
}
