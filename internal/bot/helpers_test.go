package bot

import (
	"fmt"
	"testing"

	"gotcha/internal/domain"
)

func init() {
	if err := LoadIdentities("testdata/bot_identities.json"); err != nil {
		panic(fmt.Sprintf("strategy tests need the identity fixture: %v", err))
	}
}

// testGame builds a started game with empty hands and piles so each test
// lays out exactly the cards it needs. Player IDs are p0..pN.
func testGame(t *testing.T, players, buyer int) *domain.GameState {
	t.Helper()
	s := domain.NewGame(domain.DefaultRules())
	for i := 0; i < players; i++ {
		id := domain.PlayerID(fmt.Sprintf("p%d", i))
		s.Players = append(s.Players, &domain.Player{ID: id, Name: string(id)})
	}
	s.Started = true
	s.Round = 1
	s.BuyerIndex = buyer
	s.NextBuyerIndex = buyer
	s.Players[buyer].HasMoney = true
	return s
}

// catalogCards returns the first n catalog cards with the given subtype.
func catalogCards(t *testing.T, sub domain.Subtype, n int) []domain.Card {
	t.Helper()
	out := make([]domain.Card, 0, n)
	for _, c := range domain.NewDeck() {
		if c.Subtype == sub {
			out = append(out, c)
			if len(out) == n {
				return out
			}
		}
	}
	t.Fatalf("catalog has fewer than %d cards of subtype %s", n, sub)
	return nil
}

// stockDraw fills the draw pile with thing cards so an action that rolls
// the round over always lands in a live offer phase.
func stockDraw(t *testing.T, s *domain.GameState) {
	t.Helper()
	for _, v := range []int{4, 5, 6, 7, 8, 9} {
		s.DrawPile = append(s.DrawPile, catalogCards(t, domain.ThingSubtype(v), 3)...)
	}
}
