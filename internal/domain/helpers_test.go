package domain

import (
	"fmt"
	"math/rand"
	"testing"
)

// cardOf returns copy n of the catalog cards with the given subtype.
func cardOf(t *testing.T, sub Subtype, n int) Card {
	t.Helper()
	count := 0
	for _, c := range NewDeck() {
		if c.Subtype == sub {
			if count == n {
				return c
			}
			count++
		}
	}
	t.Fatalf("catalog has no copy %d of subtype %s", n, sub)
	return Card{}
}

// cardsOf returns the first n catalog cards with the given subtype.
func cardsOf(t *testing.T, sub Subtype, n int) []Card {
	t.Helper()
	out := make([]Card, n)
	for i := range out {
		out[i] = cardOf(t, sub, i)
	}
	return out
}

// newStartedGame builds a started game with empty hands and piles so
// tests can lay out exactly the cards they need. Player IDs are p0..pN.
func newStartedGame(t *testing.T, players, buyer int) *GameState {
	t.Helper()
	if players < MinPlayers || players > MaxPlayers {
		t.Fatalf("bad player count %d", players)
	}
	s := NewGame(DefaultRules())
	for i := 0; i < players; i++ {
		id := PlayerID(fmt.Sprintf("p%d", i))
		s.Players = append(s.Players, &Player{ID: id, Name: string(id)})
	}
	s.Started = true
	s.Round = 1
	s.BuyerIndex = buyer
	s.NextBuyerIndex = buyer
	s.Players[buyer].HasMoney = true
	return s
}

func pid(i int) PlayerID {
	return PlayerID(fmt.Sprintf("p%d", i))
}

func testRNG(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

func mustAdvance(t *testing.T, s *GameState, a Action, rng *rand.Rand) *GameState {
	t.Helper()
	next, err := Advance(s, a, rng)
	if err != nil {
		t.Fatalf("advance %s by %s: %v", a.Kind, a.Actor, err)
	}
	return next
}

// totalCards counts every card in play: hands, offers, collections and
// both piles.
func totalCards(s *GameState) int {
	n := len(s.DrawPile) + len(s.DiscardPile)
	for _, p := range s.Players {
		n += len(p.Hand) + len(p.Offer) + len(p.Collection)
	}
	return n
}

// assertInvariants checks card conservation and single money bag
// ownership, the two properties that must hold after every action.
func assertInvariants(t *testing.T, s *GameState) {
	t.Helper()
	if got := totalCards(s); got != DeckSize {
		t.Fatalf("card conservation broken: %d cards in play, want %d", got, DeckSize)
	}
	holders := 0
	for _, p := range s.Players {
		if p.HasMoney {
			holders++
		}
	}
	if holders != 1 {
		t.Fatalf("money bag held by %d players, want exactly 1", holders)
	}
}
