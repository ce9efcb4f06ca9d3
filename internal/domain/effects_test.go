package domain

import (
	"errors"
	"testing"
)

// actionPhaseGame returns a game with offers on p1 and p2 (two cards
// revealed, one face down each) ready to enter the action phase. Tests
// assign collections and then call setPhase to compute the baseline.
func actionPhaseGame(t *testing.T) *GameState {
	t.Helper()
	s := newStartedGame(t, 3, 0)
	deck := NewDeck()
	for i, p := range s.Players[1:] {
		base := 21 + i*3 // high things, no completable sets
		p.Offer = []OfferCard{
			{Card: deck[base], FaceUp: true, Position: 0},
			{Card: deck[base+1], FaceUp: true, Position: 1},
			{Card: deck[base+2], Position: 2},
		}
	}
	return s
}

func TestPlayActionCardResetsDoneToBaseline(t *testing.T) {
	rng := testRNG(61)
	s := actionPhaseGame(t)
	flip := cardOf(t, FlipOne, 0)
	s.Players[0].Collection = []Card{flip, cardOf(t, AddOne, 0)}
	s.Players[2].Collection = []Card{cardOf(t, RemoveOne, 0)}
	setPhase(s, PhaseAction)

	if !s.Done[pid(1)] || s.Done[pid(0)] || s.Done[pid(2)] {
		t.Fatalf("baseline wrong: %v", s.Done)
	}
	if s.TurnIndex != 0 {
		t.Fatalf("turn = %d, want buyer first", s.TurnIndex)
	}

	// p2 declares early... by marking directly for the scenario.
	s.Done[pid(2)] = true

	s = mustAdvance(t, s, Action{Kind: ActionPlayActionCard, Actor: pid(0), CardID: flip.ID}, rng)

	// Playing a card re-arms everyone still holding action cards.
	if s.Done[pid(2)] {
		t.Error("p2 must be re-armed after a card is played")
	}
	if !s.Done[pid(1)] {
		t.Error("p1 holds no action card and must stay done")
	}
	if _, ok := s.Effect.(*FlipOneEffect); !ok {
		t.Fatalf("effect = %T, want FlipOneEffect", s.Effect)
	}
	if len(s.Players[0].Collection) != 1 || len(s.DiscardPile) != 1 {
		t.Error("played card must move from collection to discard")
	}
}

func TestPlayActionCardValidation(t *testing.T) {
	rng := testRNG(62)
	s := actionPhaseGame(t)
	s.Players[0].Collection = []Card{cardOf(t, FlipOne, 0), cardOf(t, ThingSubtype(1), 0)}
	s.Players[2].Collection = []Card{cardOf(t, RemoveOne, 0)}
	setPhase(s, PhaseAction)

	thing := s.Players[0].Collection[1]
	if _, err := Advance(s, Action{Kind: ActionPlayActionCard, Actor: pid(0), CardID: thing.ID}, rng); !errors.Is(err, ErrInvalidSelection) {
		t.Fatalf("thing card: err = %v, want ErrInvalidSelection", err)
	}
	if _, err := Advance(s, Action{Kind: ActionPlayActionCard, Actor: pid(0), CardID: 999}, rng); !errors.Is(err, ErrUnknownCard) {
		t.Fatalf("missing card: err = %v, want ErrUnknownCard", err)
	}
	other := cardOf(t, RemoveOne, 0)
	if _, err := Advance(s, Action{Kind: ActionPlayActionCard, Actor: pid(2), CardID: other.ID}, rng); !errors.Is(err, ErrOutOfTurn) {
		t.Fatalf("out of turn: err = %v, want ErrOutOfTurn", err)
	}
}

func TestFlipOneEffectRevealsCard(t *testing.T) {
	rng := testRNG(63)
	s := actionPhaseGame(t)
	flip := cardOf(t, FlipOne, 0)
	s.Players[0].Collection = []Card{flip}
	s.Players[2].Collection = []Card{cardOf(t, RemoveOne, 0)}
	setPhase(s, PhaseAction)

	s = mustAdvance(t, s, Action{Kind: ActionPlayActionCard, Actor: pid(0), CardID: flip.ID}, rng)
	s = mustAdvance(t, s, Action{Kind: ActionSelectFlipOneCard, Actor: pid(0), Owner: pid(1), Index: 2}, rng)

	if !s.Players[1].Offer[2].FaceUp {
		t.Fatal("selected card must be face up")
	}
	if s.Effect != nil {
		t.Fatalf("effect should be cleared, got %T", s.Effect)
	}
	// p0 is out of action cards: marked done, turn moves to p2.
	if !s.Done[pid(0)] || s.TurnIndex != 2 {
		t.Fatalf("done=%v turn=%d, want p0 done and turn at 2", s.Done[pid(0)], s.TurnIndex)
	}
}

func TestFlipOneSkipsWithoutFaceDownCards(t *testing.T) {
	rng := testRNG(64)
	s := actionPhaseGame(t)
	for _, p := range s.Players[1:] {
		for i := range p.Offer {
			p.Offer[i].FaceUp = true
		}
	}
	flip := cardOf(t, FlipOne, 0)
	s.Players[0].Collection = []Card{flip}
	s.Players[2].Collection = []Card{cardOf(t, RemoveOne, 0)}
	setPhase(s, PhaseAction)

	s = mustAdvance(t, s, Action{Kind: ActionPlayActionCard, Actor: pid(0), CardID: flip.ID}, rng)

	// No legal target: the card is spent and the turn moves on.
	if s.Effect != nil {
		t.Fatalf("effect = %T, want none", s.Effect)
	}
	if len(s.DiscardPile) != 1 || s.TurnIndex != 2 {
		t.Fatalf("discard=%d turn=%d, want 1 and 2", len(s.DiscardPile), s.TurnIndex)
	}
}

func TestAddOneEffectTwoSteps(t *testing.T) {
	rng := testRNG(65)
	s := actionPhaseGame(t)
	add := cardOf(t, AddOne, 0)
	handCard := cardOf(t, ThingSubtype(2), 0)
	s.Players[0].Collection = []Card{add}
	s.Players[0].Hand = []Card{handCard, cardOf(t, ThingSubtype(3), 0)}
	s.Players[2].Collection = []Card{cardOf(t, RemoveOne, 0)}
	setPhase(s, PhaseAction)

	s = mustAdvance(t, s, Action{Kind: ActionPlayActionCard, Actor: pid(0), CardID: add.ID}, rng)

	// Offer target before hand card is rejected.
	if _, err := Advance(s, Action{Kind: ActionSelectAddOneOffer, Actor: pid(0), Target: pid(1)}, rng); !errors.Is(err, ErrInvalidSelection) {
		t.Fatalf("offer before hand card: err = %v, want ErrInvalidSelection", err)
	}
	if _, err := Advance(s, Action{Kind: ActionSelectAddOneHandCard, Actor: pid(0), CardID: 999}, rng); !errors.Is(err, ErrUnknownCard) {
		t.Fatalf("foreign hand card: err = %v, want ErrUnknownCard", err)
	}

	s = mustAdvance(t, s, Action{Kind: ActionSelectAddOneHandCard, Actor: pid(0), CardID: handCard.ID}, rng)
	if eff, ok := s.Effect.(*AddOneEffect); !ok || eff.HandCardID != handCard.ID {
		t.Fatalf("effect = %+v, want recorded hand card %d", s.Effect, handCard.ID)
	}

	s = mustAdvance(t, s, Action{Kind: ActionSelectAddOneOffer, Actor: pid(0), Target: pid(2)}, rng)

	target := s.Players[2]
	if len(target.Offer) != 4 {
		t.Fatalf("target offer = %d cards, want 4", len(target.Offer))
	}
	slipped := target.Offer[3]
	if slipped.FaceUp || !slipped.HiddenFromOwner || slipped.Card.ID != handCard.ID || slipped.Position != 3 {
		t.Fatalf("slipped card = %+v, want face down, hidden, position 3", slipped)
	}
	if len(s.Players[0].Hand) != 1 {
		t.Fatalf("hand = %d cards, want 1", len(s.Players[0].Hand))
	}
	if s.Effect != nil {
		t.Fatal("effect should be cleared")
	}
}

func TestAddOneCannotTargetOwnOffer(t *testing.T) {
	rng := testRNG(66)
	s := actionPhaseGame(t)
	add := cardOf(t, AddOne, 0)
	// p1 holds the add one and an offer of their own.
	s.Players[1].Collection = []Card{add}
	s.Players[1].Hand = []Card{cardOf(t, ThingSubtype(2), 0)}
	setPhase(s, PhaseAction)

	if s.TurnIndex != 1 {
		t.Fatalf("turn = %d, want 1", s.TurnIndex)
	}
	s = mustAdvance(t, s, Action{Kind: ActionPlayActionCard, Actor: pid(1), CardID: add.ID}, rng)
	s = mustAdvance(t, s, Action{Kind: ActionSelectAddOneHandCard, Actor: pid(1), CardID: s.Players[1].Hand[0].ID}, rng)

	if _, err := Advance(s, Action{Kind: ActionSelectAddOneOffer, Actor: pid(1), Target: pid(1)}, rng); !errors.Is(err, ErrInvalidSelection) {
		t.Fatalf("own offer: err = %v, want ErrInvalidSelection", err)
	}
}

func TestRemoveOneEffectDiscardsAndRenumbers(t *testing.T) {
	rng := testRNG(67)
	s := actionPhaseGame(t)
	remove := cardOf(t, RemoveOne, 0)
	s.Players[0].Collection = []Card{remove}
	setPhase(s, PhaseAction)

	removed := s.Players[1].Offer[1].Card
	s = mustAdvance(t, s, Action{Kind: ActionPlayActionCard, Actor: pid(0), CardID: remove.ID}, rng)
	s = mustAdvance(t, s, Action{Kind: ActionSelectRemoveOneCard, Actor: pid(0), Owner: pid(1), Index: 1}, rng)

	offer := s.Players[1].Offer
	if len(offer) != 2 {
		t.Fatalf("offer = %d cards, want 2", len(offer))
	}
	for i, oc := range offer {
		if oc.Position != i {
			t.Errorf("position %d recorded as %d after removal", i, oc.Position)
		}
	}
	if last := s.DiscardPile[len(s.DiscardPile)-1]; last.ID != removed.ID {
		t.Fatalf("discard top = %d, want removed card %d", last.ID, removed.ID)
	}
}

func TestRemoveTwoCountdown(t *testing.T) {
	rng := testRNG(68)
	s := actionPhaseGame(t)
	remove := cardOf(t, RemoveTwo, 0)
	s.Players[0].Collection = []Card{remove}
	setPhase(s, PhaseAction)

	s = mustAdvance(t, s, Action{Kind: ActionPlayActionCard, Actor: pid(0), CardID: remove.ID}, rng)
	eff, ok := s.Effect.(*RemoveTwoEffect)
	if !ok || eff.CardsToSelect != 2 {
		t.Fatalf("effect = %+v, want countdown 2", s.Effect)
	}

	survivor := s.Players[1].Offer[1].Card

	s = mustAdvance(t, s, Action{Kind: ActionSelectRemoveTwoCard, Actor: pid(0), Owner: pid(1), Index: 0}, rng)
	eff, ok = s.Effect.(*RemoveTwoEffect)
	if !ok || eff.CardsToSelect != 1 {
		t.Fatalf("after first pick effect = %+v, want countdown 1", s.Effect)
	}
	// The first pick is only marked; both cards leave together at the end.
	if countOfferCards(s) != 6 || len(s.DiscardPile) != 1 {
		t.Fatalf("offers = %d discard = %d, want offers untouched until the second pick",
			countOfferCards(s), len(s.DiscardPile))
	}

	if _, err := Advance(s, Action{Kind: ActionSelectRemoveTwoCard, Actor: pid(0), Owner: pid(1), Index: 0}, rng); !errors.Is(err, ErrInvalidSelection) {
		t.Fatalf("duplicate pick: err = %v, want ErrInvalidSelection", err)
	}

	// Both picks hit p1's offer; removing the low index first would shift
	// the high one onto the wrong card.
	s = mustAdvance(t, s, Action{Kind: ActionSelectRemoveTwoCard, Actor: pid(0), Owner: pid(1), Index: 2}, rng)
	if s.Effect != nil {
		t.Fatalf("effect should be cleared, got %+v", s.Effect)
	}
	if len(s.DiscardPile) != 3 { // the played card plus two removed
		t.Fatalf("discard = %d cards, want 3", len(s.DiscardPile))
	}
	if len(s.Players[1].Offer) != 1 || s.Players[1].Offer[0].Card.ID != survivor.ID {
		t.Fatalf("offer = %+v, want only card %d left", s.Players[1].Offer, survivor.ID)
	}
	if len(s.Players[2].Offer) != 3 {
		t.Fatalf("p2 offer = %d cards, want untouched 3", len(s.Players[2].Offer))
	}
}

func TestRemoveTwoCapsAtAvailableCards(t *testing.T) {
	rng := testRNG(69)
	s := actionPhaseGame(t)
	// Only one offer card in the whole market.
	s.Players[1].Offer = s.Players[1].Offer[:1]
	s.Players[2].Offer = nil
	remove := cardOf(t, RemoveTwo, 0)
	s.Players[0].Collection = []Card{remove}
	setPhase(s, PhaseAction)

	s = mustAdvance(t, s, Action{Kind: ActionPlayActionCard, Actor: pid(0), CardID: remove.ID}, rng)
	eff, ok := s.Effect.(*RemoveTwoEffect)
	if !ok || eff.CardsToSelect != 1 {
		t.Fatalf("effect = %+v, want countdown capped at 1", s.Effect)
	}
	s = mustAdvance(t, s, Action{Kind: ActionSelectRemoveTwoCard, Actor: pid(0), Owner: pid(1), Index: 0}, rng)
	if s.Effect != nil {
		t.Fatal("effect should finish after the only card")
	}
}

func TestStealAPointEffect(t *testing.T) {
	rng := testRNG(70)
	s := actionPhaseGame(t)
	steal := cardOf(t, StealAPoint, 0)
	s.Players[0].Collection = []Card{steal}
	s.Players[1].Points = 2
	s.Players[2].Points = 1
	setPhase(s, PhaseAction)

	s = mustAdvance(t, s, Action{Kind: ActionPlayActionCard, Actor: pid(0), CardID: steal.ID}, rng)
	if _, ok := s.Effect.(*StealAPointEffect); !ok {
		t.Fatalf("effect = %T, want StealAPointEffect", s.Effect)
	}

	// Equal points is not strictly more.
	s.Players[2].Points = 0
	if _, err := Advance(s, Action{Kind: ActionSelectStealTarget, Actor: pid(0), Target: pid(2)}, rng); !errors.Is(err, ErrInvalidSelection) {
		t.Fatalf("equal target: err = %v, want ErrInvalidSelection", err)
	}

	s = mustAdvance(t, s, Action{Kind: ActionSelectStealTarget, Actor: pid(0), Target: pid(1)}, rng)
	if s.Players[0].Points != 1 || s.Players[1].Points != 1 {
		t.Fatalf("points = %d/%d, want 1/1", s.Players[0].Points, s.Players[1].Points)
	}
}

func TestStealAPointSkipsWhenNobodyRicher(t *testing.T) {
	rng := testRNG(71)
	s := actionPhaseGame(t)
	steal := cardOf(t, StealAPoint, 0)
	s.Players[0].Collection = []Card{steal}
	s.Players[0].Points = 3 // richest player plays the steal
	s.Players[2].Collection = []Card{cardOf(t, RemoveOne, 0)}
	setPhase(s, PhaseAction)

	s = mustAdvance(t, s, Action{Kind: ActionPlayActionCard, Actor: pid(0), CardID: steal.ID}, rng)

	if s.Effect != nil {
		t.Fatalf("effect = %T, want auto-skip", s.Effect)
	}
	if s.Players[0].Points != 3 {
		t.Fatal("points must not change on a skipped steal")
	}
	if s.TurnIndex != 2 {
		t.Fatalf("turn = %d, want 2", s.TurnIndex)
	}
}

func TestEffectBlocksOtherActionsUntilResolved(t *testing.T) {
	rng := testRNG(72)
	s := actionPhaseGame(t)
	flip := cardOf(t, FlipOne, 0)
	s.Players[0].Collection = []Card{flip}
	s.Players[2].Collection = []Card{cardOf(t, RemoveOne, 0)}
	setPhase(s, PhaseAction)

	s = mustAdvance(t, s, Action{Kind: ActionPlayActionCard, Actor: pid(0), CardID: flip.ID}, rng)

	other := cardOf(t, RemoveOne, 0)
	if _, err := Advance(s, Action{Kind: ActionPlayActionCard, Actor: pid(2), CardID: other.ID}, rng); !errors.Is(err, ErrOutOfTurn) && !errors.Is(err, ErrEffectPending) {
		t.Fatalf("play during effect: err = %v, want rejection", err)
	}
	if _, err := Advance(s, Action{Kind: ActionSelectRemoveOneCard, Actor: pid(0), Owner: pid(1), Index: 2}, rng); !errors.Is(err, ErrNoActiveEffect) {
		t.Fatalf("wrong selector: err = %v, want ErrNoActiveEffect", err)
	}
	if _, err := Advance(s, Action{Kind: ActionSelectFlipOneCard, Actor: pid(2), Owner: pid(1), Index: 2}, rng); !errors.Is(err, ErrOutOfTurn) {
		t.Fatalf("wrong actor: err = %v, want ErrOutOfTurn", err)
	}
}

func TestDeclareDoneIsNoOpForPlayerWithoutActionCards(t *testing.T) {
	rng := testRNG(73)
	s := actionPhaseGame(t)
	s.Players[0].Collection = []Card{cardOf(t, StealAPoint, 0)}
	s.Players[2].Collection = []Card{cardOf(t, RemoveOne, 0)}
	setPhase(s, PhaseAction)
	s.TurnIndex = 1 // force the edge: current player has nothing to play

	before := map[PlayerID]bool{}
	for k, v := range s.Done {
		before[k] = v
	}

	s = mustAdvance(t, s, Action{Kind: ActionDeclareDone, Actor: pid(1)}, rng)

	for id, want := range before {
		if s.Done[id] != want {
			t.Fatalf("done[%s] changed from %v to %v", id, want, s.Done[id])
		}
	}
	if s.TurnIndex != 2 {
		t.Fatalf("turn = %d, want rotation advanced to 2", s.TurnIndex)
	}
	if s.Phase != PhaseAction {
		t.Fatalf("phase = %s, want still action", s.Phase)
	}
}

func TestActionPhaseEndsWhenEveryoneIsDone(t *testing.T) {
	rng := testRNG(74)
	s := actionPhaseGame(t)
	s.Players[0].Collection = []Card{cardOf(t, StealAPoint, 0)}
	s.Players[2].Collection = []Card{cardOf(t, RemoveOne, 0)}
	setPhase(s, PhaseAction)

	s = mustAdvance(t, s, Action{Kind: ActionDeclareDone, Actor: pid(0)}, rng)
	if s.Phase != PhaseAction || s.TurnIndex != 2 {
		t.Fatalf("phase=%s turn=%d, want action phase at p2", s.Phase, s.TurnIndex)
	}
	s = mustAdvance(t, s, Action{Kind: ActionDeclareDone, Actor: pid(2)}, rng)
	if s.Phase != PhaseOfferSelection {
		t.Fatalf("phase = %s, want %s after everyone is done", s.Phase, PhaseOfferSelection)
	}
}
