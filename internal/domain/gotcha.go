package domain

import "fmt"

// runGotchaScan finds and resolves at most one completed gotcha set. The
// scan walks subtypes in priority order and players in rotation order
// from the buyer, so after every resolution the cascade restarts from the
// top. Returns false when no set is left.
func runGotchaScan(s *GameState) bool {
	for _, sub := range GotchaPriority {
		for _, idx := range RotationOrder(s) {
			p := s.Players[idx]
			if collectionCount(p, sub) < GotchaSetSize(sub) {
				continue
			}
			resolveGotchaSet(s, p, sub)
			return true
		}
	}
	return false
}

// resolveGotchaSet discards the completed set and applies its penalty.
// Bad sets settle immediately. Once and twice sets hand control to the
// buyer, pausing the cascade until the picks are decided.
func resolveGotchaSet(s *GameState, owner *Player, sub Subtype) {
	s.DiscardPile = append(s.DiscardPile, removeCollectionCards(owner, sub, GotchaSetSize(sub))...)

	buyer := s.Buyer()
	switch sub {
	case GotchaBad:
		if owner.Points > 0 {
			owner.Points--
			if owner.ID != buyer.ID {
				buyer.Points++
			}
		}
	case GotchaOnce:
		armGotchaPick(s, owner, sub, 1)
	case GotchaTwice:
		armGotchaPick(s, owner, sub, 2)
	}
}

// armGotchaPick installs the buyer's pick effect, auto-selecting when the
// owner has exactly one card and skipping entirely when they have none.
func armGotchaPick(s *GameState, owner *Player, sub Subtype, picks int) {
	if len(owner.Collection) == 0 {
		return
	}
	eff := &GotchaEffect{
		Player:    s.Buyer().ID,
		Owner:     owner.ID,
		Subtype:   sub,
		Iteration: 1,
		Picks:     picks,
	}
	if len(owner.Collection) == 1 {
		eff.SelectedCardID = owner.Collection[0].ID
	}
	s.Effect = eff
}

// selectGotchaCard records the buyer's pick from the set owner's
// collection.
func selectGotchaCard(s *GameState, a Action) error {
	eff, ok := s.Effect.(*GotchaEffect)
	if !ok {
		return ErrNoActiveEffect
	}
	if a.Actor != eff.Player {
		return ErrNotBuyer
	}
	if eff.SelectedCardID != 0 {
		return fmt.Errorf("%w: a card is already selected", ErrInvalidSelection)
	}
	owner, _, _ := s.PlayerByID(eff.Owner)
	if collectionIndexByID(owner, a.CardID) < 0 {
		return ErrUnknownCard
	}
	eff.SelectedCardID = a.CardID
	return nil
}

// chooseGotchaAction settles the current pick. Steal moves the card into
// the buyer's collection unless the buyer owns it; discard bins it. A
// twice set repeats once more if the owner still has cards.
func chooseGotchaAction(s *GameState, a Action) error {
	eff, ok := s.Effect.(*GotchaEffect)
	if !ok {
		return ErrNoActiveEffect
	}
	if a.Actor != eff.Player {
		return ErrNotBuyer
	}
	if eff.SelectedCardID == 0 {
		return fmt.Errorf("%w: no card selected yet", ErrInvalidSelection)
	}

	owner, _, _ := s.PlayerByID(eff.Owner)
	idx := collectionIndexByID(owner, eff.SelectedCardID)
	if idx < 0 {
		return ErrUnknownCard
	}
	card := owner.Collection[idx]

	switch a.Choice {
	case GotchaSteal:
		if owner.ID != eff.Player {
			owner.Collection = append(owner.Collection[:idx], owner.Collection[idx+1:]...)
			buyer, _, _ := s.PlayerByID(eff.Player)
			buyer.Collection = append(buyer.Collection, card)
		}
		// Buyer stealing from themselves leaves the card in place.
	case GotchaDiscard:
		owner.Collection = append(owner.Collection[:idx], owner.Collection[idx+1:]...)
		s.DiscardPile = append(s.DiscardPile, card)
	default:
		return fmt.Errorf("%w: choice must be steal or discard", ErrInvalidSelection)
	}

	if eff.Iteration < eff.Picks && len(owner.Collection) > 0 {
		eff.Iteration++
		eff.SelectedCardID = 0
		if len(owner.Collection) == 1 {
			eff.SelectedCardID = owner.Collection[0].ID
		}
		return nil
	}
	s.Effect = nil
	return nil
}
