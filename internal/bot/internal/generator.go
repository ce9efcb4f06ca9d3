package internal

import (
	"gotcha/internal/domain"
)

// LegalActions returns every action the player may legally submit in the
// given state. The list is empty when the player is not the awaited actor.
// An active effect owns the turn, so its selections are enumerated before
// any phase rotation is consulted.
func LegalActions(s *domain.GameState, player *domain.Player) []domain.Action {
	if s == nil || player == nil || !s.Started {
		return nil
	}
	if s.Effect != nil {
		if s.Effect.Actor() != player.ID {
			return nil
		}
		return effectActions(s, player)
	}
	cur := s.Current()
	if cur == nil || cur.ID != player.ID {
		return nil
	}
	switch s.Phase {
	case domain.PhaseOffer:
		return offerActions(s, player)
	case domain.PhaseBuyerFlip:
		return buyerFlipActions(s, player)
	case domain.PhaseAction:
		return actionPhaseActions(player)
	case domain.PhaseOfferSelection:
		return offerSelectionActions(s, player)
	}
	return nil
}

// offerActions enumerates offer builds. A seller with no cards down yet
// gets every atomic combination with every face-up choice. A seller taken
// over mid-build (timeout handoff) finishes the incremental flow instead.
func offerActions(s *domain.GameState, p *domain.Player) []domain.Action {
	if s.Offering != nil && s.Offering.Seller == p.ID {
		if s.Offering.Mode == domain.OfferFlipping {
			var out []domain.Action
			for i, oc := range p.Offer {
				if oc.FaceUp {
					continue
				}
				out = append(out, domain.Action{
					Kind:  domain.ActionFlipCard,
					Actor: p.ID,
					Owner: p.ID,
					Index: i,
				})
			}
			return out
		}
		var out []domain.Action
		for _, c := range p.Hand {
			out = append(out, domain.Action{Kind: domain.ActionPlaceOffer, Actor: p.ID, CardID: c.ID})
		}
		return out
	}

	size := s.Rules.OfferSize
	if len(p.Hand) < size {
		return nil
	}
	var out []domain.Action
	for _, combo := range combinations(len(p.Hand), size) {
		ids := make([]int, size)
		for i, idx := range combo {
			ids[i] = p.Hand[idx].ID
		}
		for _, faceUp := range ids {
			out = append(out, domain.Action{
				Kind:     domain.ActionPlaceOffer,
				Actor:    p.ID,
				CardIDs:  ids,
				FaceUpID: faceUp,
			})
		}
	}
	return out
}

func buyerFlipActions(s *domain.GameState, buyer *domain.Player) []domain.Action {
	var out []domain.Action
	for _, p := range s.Players {
		if len(p.Offer) == 0 || FaceUpCount(p.Offer) >= 2 {
			continue
		}
		for i, oc := range p.Offer {
			if oc.FaceUp {
				continue
			}
			out = append(out, domain.Action{
				Kind:  domain.ActionFlipCard,
				Actor: buyer.ID,
				Owner: p.ID,
				Index: i,
			})
		}
	}
	return out
}

// actionPhaseActions always includes declaring done, so a strategy can
// decline to spend its cards.
func actionPhaseActions(p *domain.Player) []domain.Action {
	out := []domain.Action{{Kind: domain.ActionDeclareDone, Actor: p.ID}}
	for _, c := range p.Collection {
		if c.Type != domain.TypeAction {
			continue
		}
		out = append(out, domain.Action{Kind: domain.ActionPlayActionCard, Actor: p.ID, CardID: c.ID})
	}
	return out
}

func offerSelectionActions(s *domain.GameState, buyer *domain.Player) []domain.Action {
	var out []domain.Action
	for _, p := range s.Players {
		if p.ID == buyer.ID || len(p.Offer) == 0 {
			continue
		}
		out = append(out, domain.Action{Kind: domain.ActionSelectOffer, Actor: buyer.ID, Target: p.ID})
	}
	return out
}

func effectActions(s *domain.GameState, p *domain.Player) []domain.Action {
	switch eff := s.Effect.(type) {
	case *domain.FlipOneEffect:
		var out []domain.Action
		for _, owner := range s.Players {
			for i, oc := range owner.Offer {
				if oc.FaceUp {
					continue
				}
				out = append(out, domain.Action{
					Kind:  domain.ActionSelectFlipOneCard,
					Actor: p.ID,
					Owner: owner.ID,
					Index: i,
				})
			}
		}
		return out
	case *domain.AddOneEffect:
		if eff.HandCardID == 0 {
			var out []domain.Action
			for _, c := range p.Hand {
				out = append(out, domain.Action{Kind: domain.ActionSelectAddOneHandCard, Actor: p.ID, CardID: c.ID})
			}
			return out
		}
		var out []domain.Action
		for _, owner := range s.Players {
			if owner.ID == p.ID || len(owner.Offer) == 0 {
				continue
			}
			out = append(out, domain.Action{Kind: domain.ActionSelectAddOneOffer, Actor: p.ID, Target: owner.ID})
		}
		return out
	case *domain.RemoveOneEffect:
		return offerCardSelections(s, p, domain.ActionSelectRemoveOneCard)
	case *domain.RemoveTwoEffect:
		// Earlier picks stay in the offers until the effect completes, so
		// they must be skipped rather than re-targeted.
		var out []domain.Action
		for _, owner := range s.Players {
			for i := range owner.Offer {
				if removeTwoPicked(eff, owner.ID, i) {
					continue
				}
				out = append(out, domain.Action{
					Kind:  domain.ActionSelectRemoveTwoCard,
					Actor: p.ID,
					Owner: owner.ID,
					Index: i,
				})
			}
		}
		return out
	case *domain.StealAPointEffect:
		var out []domain.Action
		for _, other := range s.Players {
			if other.ID == p.ID || other.Points <= p.Points {
				continue
			}
			out = append(out, domain.Action{Kind: domain.ActionSelectStealTarget, Actor: p.ID, Target: other.ID})
		}
		return out
	case *domain.GotchaEffect:
		if eff.SelectedCardID == 0 {
			owner, _, found := s.PlayerByID(eff.Owner)
			if !found {
				return nil
			}
			var out []domain.Action
			for _, c := range owner.Collection {
				out = append(out, domain.Action{Kind: domain.ActionSelectGotchaCard, Actor: p.ID, CardID: c.ID})
			}
			return out
		}
		return []domain.Action{
			{Kind: domain.ActionChooseGotchaAction, Actor: p.ID, Choice: domain.GotchaSteal},
			{Kind: domain.ActionChooseGotchaAction, Actor: p.ID, Choice: domain.GotchaDiscard},
		}
	}
	return nil
}

func removeTwoPicked(eff *domain.RemoveTwoEffect, owner domain.PlayerID, index int) bool {
	for _, sel := range eff.Selected {
		if sel.Owner == owner && sel.Index == index {
			return true
		}
	}
	return false
}

// offerCardSelections targets every card in every offer, the actor's own
// included.
func offerCardSelections(s *domain.GameState, p *domain.Player, kind domain.ActionKind) []domain.Action {
	var out []domain.Action
	for _, owner := range s.Players {
		for i := range owner.Offer {
			out = append(out, domain.Action{Kind: kind, Actor: p.ID, Owner: owner.ID, Index: i})
		}
	}
	return out
}

// combinations returns every k-element index subset of 0..n-1 in
// lexicographic order.
func combinations(n, k int) [][]int {
	if k <= 0 || k > n {
		return nil
	}
	var out [][]int
	combo := make([]int, k)
	var walk func(start, depth int)
	walk = func(start, depth int) {
		if depth == k {
			out = append(out, append([]int(nil), combo...))
			return
		}
		for i := start; i <= n-(k-depth); i++ {
			combo[depth] = i
			walk(i+1, depth+1)
		}
	}
	walk(0, 0)
	return out
}
