package domain

import "fmt"

// placeOffer builds the current seller's offer. Clients either submit all
// cards at once with one marked face up, or place cards one at a time and
// finish with a FLIP_CARD on their own offer.
func placeOffer(s *GameState, a Action) error {
	p := s.Current()
	if p == nil || p.ID != a.Actor {
		return ErrOutOfTurn
	}
	if len(a.CardIDs) > 0 {
		return placeOfferAtomic(s, p, a)
	}
	if a.CardID != 0 {
		return placeOfferCard(s, p, a.CardID)
	}
	return fmt.Errorf("%w: no cards given", ErrInvalidSelection)
}

func placeOfferAtomic(s *GameState, p *Player, a Action) error {
	if len(p.Offer) > 0 {
		return fmt.Errorf("%w: offer already in progress", ErrInvalidSelection)
	}
	if len(a.CardIDs) != s.Rules.OfferSize {
		return fmt.Errorf("%w: an offer holds exactly %d cards", ErrInvalidSelection, s.Rules.OfferSize)
	}
	faceUpSeen := false
	seen := make(map[int]bool, len(a.CardIDs))
	for _, id := range a.CardIDs {
		if seen[id] {
			return fmt.Errorf("%w: duplicate card %d", ErrInvalidSelection, id)
		}
		seen[id] = true
		if handIndexByID(p, id) < 0 {
			return ErrUnknownCard
		}
		if id == a.FaceUpID {
			faceUpSeen = true
		}
	}
	if !faceUpSeen {
		return fmt.Errorf("%w: face-up card must be part of the offer", ErrInvalidSelection)
	}
	for pos, id := range a.CardIDs {
		idx := handIndexByID(p, id)
		card := p.Hand[idx]
		p.Hand = append(p.Hand[:idx], p.Hand[idx+1:]...)
		p.Offer = append(p.Offer, OfferCard{Card: card, FaceUp: id == a.FaceUpID, Position: pos})
	}
	completeOffer(s)
	return nil
}

func placeOfferCard(s *GameState, p *Player, cardID int) error {
	if len(p.Offer) >= s.Rules.OfferSize {
		return fmt.Errorf("%w: offer is full, flip a card to finish", ErrInvalidSelection)
	}
	idx := handIndexByID(p, cardID)
	if idx < 0 {
		return ErrUnknownCard
	}
	if s.Offering == nil {
		s.Offering = &OfferCreationState{Seller: p.ID, Mode: OfferSelecting}
	}
	card := p.Hand[idx]
	p.Hand = append(p.Hand[:idx], p.Hand[idx+1:]...)
	p.Offer = append(p.Offer, OfferCard{Card: card, FaceUp: false, Position: len(p.Offer)})
	if len(p.Offer) == s.Rules.OfferSize {
		s.Offering.Mode = OfferFlipping
	}
	return nil
}

// completeOffer closes the active seller's build and rotates to the next
// seller still able to offer.
func completeOffer(s *GameState) {
	s.Offering = nil
	s.TurnIndex = nextEligible(s, s.TurnIndex)
}

// flipCard serves two phases. During the offer phase the active seller
// reveals one card of their completed build. During the buyer flip phase
// the buyer reveals one face-down card in each offer.
func flipCard(s *GameState, a Action) error {
	switch s.Phase {
	case PhaseOffer:
		return sellerFlip(s, a)
	case PhaseBuyerFlip:
		return buyerFlip(s, a)
	}
	return &IllegalActionError{Phase: s.Phase, Kind: a.Kind}
}

func sellerFlip(s *GameState, a Action) error {
	if s.Offering == nil || s.Offering.Mode != OfferFlipping {
		return fmt.Errorf("%w: no offer awaiting a flip", ErrInvalidSelection)
	}
	if a.Actor != s.Offering.Seller {
		return ErrOutOfTurn
	}
	if a.Owner != "" && a.Owner != a.Actor {
		return fmt.Errorf("%w: sellers flip their own offer", ErrInvalidSelection)
	}
	p, _, _ := s.PlayerByID(a.Actor)
	if a.Index < 0 || a.Index >= len(p.Offer) {
		return fmt.Errorf("%w: offer position %d", ErrInvalidSelection, a.Index)
	}
	oc := &p.Offer[a.Index]
	if oc.FaceUp {
		return fmt.Errorf("%w: card is already face up", ErrInvalidSelection)
	}
	oc.FaceUp = true
	completeOffer(s)
	return nil
}

func buyerFlip(s *GameState, a Action) error {
	buyer := s.Buyer()
	if a.Actor != buyer.ID {
		return ErrNotBuyer
	}
	owner, oc, err := offerCardAt(s, a.Owner, a.Index)
	if err != nil {
		return err
	}
	if faceUpCount(owner.Offer) >= 2 {
		return fmt.Errorf("%w: offer of %s already has its second card revealed", ErrInvalidSelection, owner.ID)
	}
	if oc.FaceUp {
		return fmt.Errorf("%w: card is already face up", ErrInvalidSelection)
	}
	oc.FaceUp = true
	oc.HiddenFromOwner = false
	return nil
}

// buyerFlipPending reports whether any offer still owes the buyer flip.
func buyerFlipPending(s *GameState) bool {
	for _, p := range s.Players {
		if len(p.Offer) == 0 {
			continue
		}
		if faceUpCount(p.Offer) < 2 && faceDownCount(p.Offer) > 0 {
			return true
		}
	}
	return false
}

// selectOffer lets the buyer buy one offer. The chosen cards join the
// buyer's collection, every other seller reclaims their own offer, and
// the money bag moves to the chosen seller, who buys next round.
func selectOffer(s *GameState, a Action) error {
	buyer := s.Buyer()
	if a.Actor != buyer.ID {
		return ErrNotBuyer
	}
	seller, sellerIdx, found := s.PlayerByID(a.Target)
	if !found {
		return ErrUnknownPlayer
	}
	if seller.ID == buyer.ID || len(seller.Offer) == 0 {
		return fmt.Errorf("%w: %s has no offer on sale", ErrInvalidSelection, a.Target)
	}

	for _, oc := range seller.Offer {
		buyer.Collection = append(buyer.Collection, oc.Card)
	}
	seller.Offer = nil
	for _, p := range s.Players {
		for _, oc := range p.Offer {
			// Unsold offers return home, hidden cards included.
			p.Collection = append(p.Collection, oc.Card)
		}
		p.Offer = nil
	}

	buyer.HasMoney = false
	seller.HasMoney = true
	s.NextBuyerIndex = sellerIdx

	setPhase(s, PhaseOfferDistribution)
	return nil
}

// offerCardAt resolves an owner plus position reference into the offer
// card it names.
func offerCardAt(s *GameState, owner PlayerID, index int) (*Player, *OfferCard, error) {
	p, _, found := s.PlayerByID(owner)
	if !found {
		return nil, nil, ErrUnknownPlayer
	}
	if index < 0 || index >= len(p.Offer) {
		return nil, nil, fmt.Errorf("%w: %s has no offer card at %d", ErrInvalidSelection, owner, index)
	}
	return p, &p.Offer[index], nil
}

// removeOfferCard takes the card at index out of the offer and renumbers
// the remaining positions.
func removeOfferCard(p *Player, index int) Card {
	card := p.Offer[index].Card
	p.Offer = append(p.Offer[:index], p.Offer[index+1:]...)
	for i := range p.Offer {
		p.Offer[i].Position = i
	}
	return card
}

func faceUpCount(offer []OfferCard) int {
	n := 0
	for _, oc := range offer {
		if oc.FaceUp {
			n++
		}
	}
	return n
}

func faceDownCount(offer []OfferCard) int {
	return len(offer) - faceUpCount(offer)
}
