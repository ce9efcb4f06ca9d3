package app

import "gotcha/internal/domain"

// GameView is the table as one player is allowed to see it. Hands other
// than the viewer's shrink to counts, face-down offer cards lose their
// identity, and a card slipped in by Add One stays hidden even from the
// offer's owner.
type GameView struct {
	Phase        domain.Phase `json:"phase"`
	Round        int          `json:"round"`
	Rules        domain.Rules `json:"rules"`
	ViewerID     string       `json:"viewer_id,omitempty"`
	BuyerID      string       `json:"buyer_id,omitempty"`
	NextBuyerID  string       `json:"next_buyer_id,omitempty"`
	CurrentID    string       `json:"current_id,omitempty"`
	Players      []PlayerView `json:"players"`
	DrawCount    int          `json:"draw_count"`
	DiscardCount int          `json:"discard_count"`
	DiscardTop   *domain.Card `json:"discard_top,omitempty"`
	Effect       *EffectView  `json:"effect,omitempty"`
	WinnerID     string       `json:"winner_id,omitempty"`
	Instructions string       `json:"instructions,omitempty"`
}

// PlayerView is one seat in a GameView. Hand is present only for the
// viewer's own seat; collections and points are public.
type PlayerView struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	HandCount  int             `json:"hand_count"`
	Hand       []domain.Card   `json:"hand,omitempty"`
	Offer      []OfferCardView `json:"offer,omitempty"`
	Collection []domain.Card   `json:"collection,omitempty"`
	Points     int             `json:"points"`
	HasMoney   bool            `json:"has_money"`
	Done       bool            `json:"done,omitempty"`
}

// OfferCardView is one offer slot. Card is nil when the viewer may not
// see its identity.
type OfferCardView struct {
	Position int          `json:"position"`
	FaceUp   bool         `json:"face_up"`
	Card     *domain.Card `json:"card,omitempty"`
}

// EffectView mirrors a pending effect. HandCardID is shown only to the
// effect's actor; everyone else just learns that the stage is done.
type EffectView struct {
	Kind           domain.EffectKind       `json:"kind"`
	Actor          string                  `json:"actor"`
	Owner          string                  `json:"owner,omitempty"`
	Subtype        domain.Subtype          `json:"subtype,omitempty"`
	CardsToSelect  int                     `json:"cards_to_select,omitempty"`
	Selected       []domain.OfferSelection `json:"selected,omitempty"`
	Iteration      int                     `json:"iteration,omitempty"`
	Picks          int                     `json:"picks,omitempty"`
	SelectedCardID int                     `json:"selected_card_id,omitempty"`
	HandCardChosen bool                    `json:"hand_card_chosen,omitempty"`
	HandCardID     int                     `json:"hand_card_id,omitempty"`
}

// ViewFor builds the redacted view of s for the given viewer. An empty
// viewer produces the spectator view with nothing private in it.
func ViewFor(s *domain.GameState, viewer string) *GameView {
	v := &GameView{
		Phase:        s.Phase,
		Round:        s.Round,
		Rules:        s.Rules,
		ViewerID:     viewer,
		DrawCount:    len(s.DrawPile),
		DiscardCount: len(s.DiscardPile),
		WinnerID:     string(s.Winner),
		Instructions: s.Instructions,
	}
	if s.Started && s.BuyerIndex >= 0 && s.BuyerIndex < len(s.Players) {
		v.BuyerID = string(s.Players[s.BuyerIndex].ID)
	}
	if s.Started && s.NextBuyerIndex >= 0 && s.NextBuyerIndex < len(s.Players) {
		v.NextBuyerID = string(s.Players[s.NextBuyerIndex].ID)
	}
	if id, ok := s.AwaitingActor(); ok {
		v.CurrentID = string(id)
	}
	if n := len(s.DiscardPile); n > 0 {
		top := s.DiscardPile[n-1]
		v.DiscardTop = &top
	}
	v.Players = make([]PlayerView, len(s.Players))
	for i, p := range s.Players {
		v.Players[i] = playerViewFor(s, p, viewer)
	}
	v.Effect = effectViewFor(s.Effect, viewer)
	return v
}

func playerViewFor(s *domain.GameState, p *domain.Player, viewer string) PlayerView {
	pv := PlayerView{
		ID:         string(p.ID),
		Name:       p.Name,
		HandCount:  len(p.Hand),
		Collection: append([]domain.Card(nil), p.Collection...),
		Points:     p.Points,
		HasMoney:   p.HasMoney,
		Done:       s.Done[p.ID],
	}
	if string(p.ID) == viewer {
		pv.Hand = append([]domain.Card(nil), p.Hand...)
	}
	if len(p.Offer) > 0 {
		pv.Offer = make([]OfferCardView, len(p.Offer))
		for i, oc := range p.Offer {
			ocv := OfferCardView{Position: oc.Position, FaceUp: oc.FaceUp}
			if offerCardVisible(oc, p.ID, viewer) {
				card := oc.Card
				ocv.Card = &card
			}
			pv.Offer[i] = ocv
		}
	}
	return pv
}

// offerCardVisible reports whether the viewer may learn the card's
// identity. Face-up cards are public; face-down cards are known only to
// the owner, and not even to them when the card was slipped in.
func offerCardVisible(oc domain.OfferCard, owner domain.PlayerID, viewer string) bool {
	if oc.FaceUp {
		return true
	}
	return string(owner) == viewer && !oc.HiddenFromOwner
}

func effectViewFor(eff domain.ActiveEffect, viewer string) *EffectView {
	if eff == nil {
		return nil
	}
	ev := &EffectView{Kind: eff.Kind(), Actor: string(eff.Actor())}
	switch e := eff.(type) {
	case *domain.AddOneEffect:
		if e.HandCardID != 0 {
			ev.HandCardChosen = true
			if string(e.Player) == viewer {
				ev.HandCardID = e.HandCardID
			}
		}
	case *domain.RemoveTwoEffect:
		ev.CardsToSelect = e.CardsToSelect
		ev.Selected = append([]domain.OfferSelection(nil), e.Selected...)
	case *domain.GotchaEffect:
		ev.Owner = string(e.Owner)
		ev.Subtype = e.Subtype
		ev.Iteration = e.Iteration
		ev.Picks = e.Picks
		ev.SelectedCardID = e.SelectedCardID
	}
	return ev
}
