package internal

import (
	"fmt"
	"testing"

	"gotcha/internal/domain"
)

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
	for _, v := range []int{1, 2, 3, 7, 8, 9} {
		s.DrawPile = append(s.DrawPile, catalogCards(t, domain.ThingSubtype(v), 4)...)
	}
}

// assertAllApply feeds every generated action to the engine and fails on
// the first rejection. Legality claims are only as good as the engine
// agreeing with them.
func assertAllApply(t *testing.T, s *domain.GameState, actions []domain.Action) {
	t.Helper()
	if len(actions) == 0 {
		t.Fatal("no actions generated")
	}
	for _, a := range actions {
		if _, err := domain.Advance(s, a, nil); err != nil {
			t.Errorf("generated action %s rejected: %v", a.Kind, err)
		}
	}
}

func TestLegalActionsOfferPhase(t *testing.T) {
	s := testGame(t, 3, 0)
	s.Phase = domain.PhaseOffer
	s.TurnIndex = 1
	seller := s.Players[1]
	seller.Hand = catalogCards(t, domain.ThingSubtype(7), 4)
	seller.Hand = append(seller.Hand, catalogCards(t, domain.GotchaOnce, 1)...)

	actions := LegalActions(s, seller)

	// C(5,3) combinations, each with three face-up choices.
	if want := 30; len(actions) != want {
		t.Fatalf("got %d offer actions, want %d", len(actions), want)
	}
	for _, a := range actions {
		if a.Kind != domain.ActionPlaceOffer {
			t.Fatalf("unexpected kind %s", a.Kind)
		}
		if len(a.CardIDs) != 3 {
			t.Fatalf("offer action holds %d cards, want 3", len(a.CardIDs))
		}
		faceUpIncluded := false
		for _, id := range a.CardIDs {
			if id == a.FaceUpID {
				faceUpIncluded = true
			}
		}
		if !faceUpIncluded {
			t.Fatalf("face-up card %d not part of offer %v", a.FaceUpID, a.CardIDs)
		}
	}
	assertAllApply(t, s, actions)
}

func TestLegalActionsOfferPhaseMidBuild(t *testing.T) {
	s := testGame(t, 3, 0)
	s.Phase = domain.PhaseOffer
	s.TurnIndex = 1
	seller := s.Players[1]
	hand := catalogCards(t, domain.ThingSubtype(8), 4)
	seller.Hand = hand[:2]
	seller.Offer = []domain.OfferCard{
		{Card: hand[2], Position: 0},
		{Card: hand[3], Position: 1},
	}
	s.Offering = &domain.OfferCreationState{Seller: seller.ID, Mode: domain.OfferSelecting}

	actions := LegalActions(s, seller)
	if len(actions) != 2 {
		t.Fatalf("got %d actions, want one per hand card", len(actions))
	}
	for _, a := range actions {
		if a.Kind != domain.ActionPlaceOffer || a.CardID == 0 || a.CardIDs != nil {
			t.Fatalf("mid-build action should place a single card, got %+v", a)
		}
	}
	assertAllApply(t, s, actions)

	// Third card placed, one flip left to finish.
	seller.Offer = append(seller.Offer, domain.OfferCard{Card: hand[0], Position: 2})
	seller.Hand = hand[1:2]
	s.Offering.Mode = domain.OfferFlipping

	actions = LegalActions(s, seller)
	if len(actions) != 3 {
		t.Fatalf("got %d flip actions, want one per face-down card", len(actions))
	}
	for _, a := range actions {
		if a.Kind != domain.ActionFlipCard || a.Owner != seller.ID {
			t.Fatalf("finishing flip should target own offer, got %+v", a)
		}
	}
	assertAllApply(t, s, actions)
}

func TestLegalActionsBuyerFlip(t *testing.T) {
	s := testGame(t, 3, 0)
	s.Phase = domain.PhaseBuyerFlip
	s.TurnIndex = 0
	buyer := s.Players[0]

	// p1 still owes a flip, p2 already has two cards revealed.
	p1Cards := catalogCards(t, domain.ThingSubtype(9), 3)
	p2Cards := catalogCards(t, domain.ThingSubtype(4), 3)
	s.Players[1].Offer = []domain.OfferCard{
		{Card: p1Cards[0], FaceUp: true, Position: 0},
		{Card: p1Cards[1], Position: 1},
		{Card: p1Cards[2], Position: 2},
	}
	s.Players[2].Offer = []domain.OfferCard{
		{Card: p2Cards[0], FaceUp: true, Position: 0},
		{Card: p2Cards[1], FaceUp: true, Position: 1},
		{Card: p2Cards[2], Position: 2},
	}

	actions := LegalActions(s, buyer)
	if len(actions) != 2 {
		t.Fatalf("got %d flip targets, want the two face-down cards of p1", len(actions))
	}
	for _, a := range actions {
		if a.Owner != "p1" {
			t.Fatalf("flip targets maxed-out offer of %s", a.Owner)
		}
	}
	assertAllApply(t, s, actions)
}

func TestLegalActionsActionPhase(t *testing.T) {
	s := testGame(t, 3, 0)
	s.Phase = domain.PhaseAction
	s.TurnIndex = 0
	actor := s.Players[0]
	actor.Collection = append(
		catalogCards(t, domain.FlipOne, 1),
		catalogCards(t, domain.ThingSubtype(1), 1)...,
	)
	s.Done = map[domain.PlayerID]bool{"p0": false, "p1": true, "p2": true}

	// A face-down offer card gives the flip-one effect a target.
	s.Players[1].Offer = []domain.OfferCard{{Card: catalogCards(t, domain.ThingSubtype(2), 1)[0], Position: 0}}

	actions := LegalActions(s, actor)
	if len(actions) != 2 {
		t.Fatalf("got %d actions, want declare done plus one playable card", len(actions))
	}
	if actions[0].Kind != domain.ActionDeclareDone {
		t.Fatalf("first action should be declare done, got %s", actions[0].Kind)
	}
	if actions[1].Kind != domain.ActionPlayActionCard {
		t.Fatalf("second action should play the flip one card, got %s", actions[1].Kind)
	}
	assertAllApply(t, s, actions)
}

func TestLegalActionsOfferSelection(t *testing.T) {
	s := testGame(t, 4, 0)
	s.Phase = domain.PhaseOfferSelection
	s.TurnIndex = 0
	stockDraw(t, s)
	buyer := s.Players[0]
	for _, idx := range []int{1, 3} {
		card := catalogCards(t, domain.ThingSubtype(5), 2)[idx/2]
		s.Players[idx].Offer = []domain.OfferCard{{Card: card, FaceUp: true, Position: 0}}
	}

	actions := LegalActions(s, buyer)
	if len(actions) != 2 {
		t.Fatalf("got %d selectable offers, want 2", len(actions))
	}
	targets := map[domain.PlayerID]bool{}
	for _, a := range actions {
		if a.Kind != domain.ActionSelectOffer {
			t.Fatalf("unexpected kind %s", a.Kind)
		}
		targets[a.Target] = true
	}
	if !targets["p1"] || !targets["p3"] {
		t.Fatalf("targets %v, want p1 and p3", targets)
	}
	assertAllApply(t, s, actions)
}

func TestLegalActionsEffectSelections(t *testing.T) {
	build := func(t *testing.T) *domain.GameState {
		s := testGame(t, 3, 0)
		s.Phase = domain.PhaseAction
		s.TurnIndex = -1
		s.Done = map[domain.PlayerID]bool{"p0": true, "p1": true, "p2": true}
		things := catalogCards(t, domain.ThingSubtype(7), 4)
		s.Players[1].Offer = []domain.OfferCard{
			{Card: things[0], FaceUp: true, Position: 0},
			{Card: things[1], Position: 1},
		}
		s.Players[2].Offer = []domain.OfferCard{
			{Card: things[2], Position: 0},
		}
		return s
	}

	t.Run("flip one targets face-down cards", func(t *testing.T) {
		s := build(t)
		s.Effect = &domain.FlipOneEffect{Player: "p0"}
		actions := LegalActions(s, s.Players[0])
		if len(actions) != 2 {
			t.Fatalf("got %d targets, want 2 face-down cards", len(actions))
		}
		assertAllApply(t, s, actions)
	})

	t.Run("add one picks a hand card first", func(t *testing.T) {
		s := build(t)
		s.Players[0].Hand = catalogCards(t, domain.ThingSubtype(3), 2)
		s.Effect = &domain.AddOneEffect{Player: "p0"}
		actions := LegalActions(s, s.Players[0])
		if len(actions) != 2 {
			t.Fatalf("got %d hand picks, want 2", len(actions))
		}
		for _, a := range actions {
			if a.Kind != domain.ActionSelectAddOneHandCard {
				t.Fatalf("unexpected kind %s", a.Kind)
			}
		}
		assertAllApply(t, s, actions)
	})

	t.Run("add one then targets other offers", func(t *testing.T) {
		s := build(t)
		hand := catalogCards(t, domain.ThingSubtype(3), 1)
		s.Players[0].Hand = hand
		s.Effect = &domain.AddOneEffect{Player: "p0", HandCardID: hand[0].ID}
		actions := LegalActions(s, s.Players[0])
		if len(actions) != 2 {
			t.Fatalf("got %d offer targets, want p1 and p2", len(actions))
		}
		for _, a := range actions {
			if a.Kind != domain.ActionSelectAddOneOffer || a.Target == "p0" {
				t.Fatalf("unexpected action %+v", a)
			}
		}
		assertAllApply(t, s, actions)
	})

	t.Run("remove one targets every offer card", func(t *testing.T) {
		s := build(t)
		s.Effect = &domain.RemoveOneEffect{Player: "p0"}
		actions := LegalActions(s, s.Players[0])
		if len(actions) != 3 {
			t.Fatalf("got %d targets, want every offer card", len(actions))
		}
		assertAllApply(t, s, actions)
	})

	t.Run("remove two targets every offer card", func(t *testing.T) {
		s := build(t)
		s.Effect = &domain.RemoveTwoEffect{Player: "p0", CardsToSelect: 2}
		actions := LegalActions(s, s.Players[0])
		if len(actions) != 3 {
			t.Fatalf("got %d targets, want every offer card", len(actions))
		}
		assertAllApply(t, s, actions)
	})

	t.Run("steal targets only richer players", func(t *testing.T) {
		s := build(t)
		s.Players[0].Points = 1
		s.Players[1].Points = 3
		s.Players[2].Points = 1
		s.Effect = &domain.StealAPointEffect{Player: "p0"}
		actions := LegalActions(s, s.Players[0])
		if len(actions) != 1 || actions[0].Target != "p1" {
			t.Fatalf("got %+v, want a single steal from p1", actions)
		}
		assertAllApply(t, s, actions)
	})

	t.Run("gotcha pick then verdict", func(t *testing.T) {
		s := build(t)
		s.Phase = domain.PhaseGotchaTradeins
		stockDraw(t, s)
		owner := s.Players[1]
		owner.Offer = nil
		s.Players[2].Offer = nil
		owner.Collection = catalogCards(t, domain.ThingSubtype(6), 2)
		s.Effect = &domain.GotchaEffect{
			Player: "p0", Owner: "p1", Subtype: domain.GotchaOnce, Iteration: 1, Picks: 1,
		}

		actions := LegalActions(s, s.Players[0])
		if len(actions) != 2 {
			t.Fatalf("got %d picks, want one per collection card", len(actions))
		}
		assertAllApply(t, s, actions)

		eff := s.Effect.(*domain.GotchaEffect)
		eff.SelectedCardID = owner.Collection[0].ID
		actions = LegalActions(s, s.Players[0])
		if len(actions) != 2 {
			t.Fatalf("got %d verdicts, want steal and discard", len(actions))
		}
		choices := map[domain.GotchaChoice]bool{}
		for _, a := range actions {
			choices[a.Choice] = true
		}
		if !choices[domain.GotchaSteal] || !choices[domain.GotchaDiscard] {
			t.Fatalf("verdicts %v, want steal and discard", choices)
		}
		assertAllApply(t, s, actions)
	})
}

func TestLegalActionsOffTurn(t *testing.T) {
	s := testGame(t, 3, 0)
	s.Phase = domain.PhaseOffer
	s.TurnIndex = 1
	s.Players[1].Hand = catalogCards(t, domain.ThingSubtype(7), 3)

	if got := LegalActions(s, s.Players[2]); got != nil {
		t.Fatalf("off-turn player generated %d actions, want none", len(got))
	}

	s.Effect = &domain.FlipOneEffect{Player: "p1"}
	if got := LegalActions(s, s.Players[0]); got != nil {
		t.Fatalf("non-actor generated %d effect actions, want none", len(got))
	}
}

func TestCombinations(t *testing.T) {
	cases := []struct {
		n, k, want int
	}{
		{5, 3, 10},
		{3, 3, 1},
		{4, 1, 4},
		{2, 3, 0},
		{4, 0, 0},
	}
	for _, tc := range cases {
		got := combinations(tc.n, tc.k)
		if len(got) != tc.want {
			t.Errorf("combinations(%d,%d) yields %d subsets, want %d", tc.n, tc.k, len(got), tc.want)
		}
		seen := map[string]bool{}
		for _, combo := range got {
			key := fmt.Sprint(combo)
			if seen[key] {
				t.Errorf("combinations(%d,%d) repeats %v", tc.n, tc.k, combo)
			}
			seen[key] = true
			for i := 1; i < len(combo); i++ {
				if combo[i] <= combo[i-1] {
					t.Errorf("combination %v not strictly increasing", combo)
				}
			}
		}
	}
}
