package domain

// RotationOrder returns the seat indexes that may act this phase, in turn
// order. Seller phases start left of the buyer and exclude the buyer; the
// action phase starts with the buyer; buyer phases contain only the buyer.
func RotationOrder(s *GameState) []int {
	n := len(s.Players)
	if n == 0 {
		return nil
	}
	switch s.Phase {
	case PhaseOffer:
		order := make([]int, 0, n-1)
		for off := 1; off < n; off++ {
			order = append(order, (s.BuyerIndex+off)%n)
		}
		return order
	case PhaseBuyerFlip, PhaseOfferSelection:
		return []int{s.BuyerIndex}
	default:
		order := make([]int, 0, n)
		for off := 0; off < n; off++ {
			order = append(order, (s.BuyerIndex+off)%n)
		}
		return order
	}
}

// eligible reports whether the seat may take a turn in the current phase.
func eligible(s *GameState, idx int) bool {
	if idx < 0 || idx >= len(s.Players) {
		return false
	}
	p := s.Players[idx]
	switch s.Phase {
	case PhaseOffer:
		// Sellers only, once, and only with enough cards to fill an offer.
		return idx != s.BuyerIndex && len(p.Offer) == 0 && len(p.Hand) >= s.Rules.OfferSize
	case PhaseAction:
		return hasActionCard(p) && !s.Done[p.ID]
	case PhaseBuyerFlip, PhaseOfferSelection:
		return idx == s.BuyerIndex
	}
	return false
}

// nextEligible returns the next eligible seat after from, walking the
// phase rotation cyclically. The seat at from is considered last, so a
// sole eligible player keeps the turn. Returns -1 when nobody is left.
func nextEligible(s *GameState, from int) int {
	n := len(s.Players)
	if n == 0 {
		return -1
	}
	if from < 0 {
		from = s.BuyerIndex
	}
	for off := 1; off <= n; off++ {
		idx := (from + off) % n
		if eligible(s, idx) {
			return idx
		}
	}
	return -1
}

// firstEligible returns the first eligible seat in phase rotation order,
// or -1.
func firstEligible(s *GameState) int {
	for _, idx := range RotationOrder(s) {
		if eligible(s, idx) {
			return idx
		}
	}
	return -1
}
