package domain

import (
	"encoding/json"
	"fmt"
	"sort"
)

// EffectKind discriminates ActiveEffect variants on the wire.
type EffectKind string

const (
	EffectGotcha      EffectKind = "gotcha"
	EffectFlipOne     EffectKind = "flip_one"
	EffectAddOne      EffectKind = "add_one"
	EffectRemoveOne   EffectKind = "remove_one"
	EffectRemoveTwo   EffectKind = "remove_two"
	EffectStealAPoint EffectKind = "steal_a_point"
)

// ActiveEffect is a pending multi-step resolution. At most one effect is
// active at a time; while one is set, only its own follow-up selections
// are accepted by the engine.
type ActiveEffect interface {
	Kind() EffectKind
	// Actor is the player whose selection is awaited.
	Actor() PlayerID
	clone() ActiveEffect
}

// FlipOneEffect awaits one face-down offer card to reveal.
type FlipOneEffect struct {
	Player PlayerID `json:"player"`
}

func (e *FlipOneEffect) Kind() EffectKind    { return EffectFlipOne }
func (e *FlipOneEffect) Actor() PlayerID     { return e.Player }
func (e *FlipOneEffect) clone() ActiveEffect { cp := *e; return &cp }

// AddOneEffect awaits a hand card and then a target offer. The card lands
// face down and hidden from the offer's owner.
type AddOneEffect struct {
	Player PlayerID `json:"player"`
	// HandCardID is zero until the first selection is made.
	HandCardID int `json:"handCardId,omitempty"`
}

func (e *AddOneEffect) Kind() EffectKind    { return EffectAddOne }
func (e *AddOneEffect) Actor() PlayerID     { return e.Player }
func (e *AddOneEffect) clone() ActiveEffect { cp := *e; return &cp }

// RemoveOneEffect awaits one offer card to discard.
type RemoveOneEffect struct {
	Player PlayerID `json:"player"`
}

func (e *RemoveOneEffect) Kind() EffectKind    { return EffectRemoveOne }
func (e *RemoveOneEffect) Actor() PlayerID     { return e.Player }
func (e *RemoveOneEffect) clone() ActiveEffect { cp := *e; return &cp }

// OfferSelection names one offer card by its owner and position.
type OfferSelection struct {
	Owner PlayerID `json:"owner"`
	Index int      `json:"index"`
}

// RemoveTwoEffect accumulates offer card picks and discards them all at
// once when the countdown reaches zero, so no offer shifts under the
// picker's feet. CardsToSelect is capped at install time by the cards
// available.
type RemoveTwoEffect struct {
	Player        PlayerID         `json:"player"`
	CardsToSelect int              `json:"cardsToSelect"`
	Selected      []OfferSelection `json:"selected,omitempty"`
}

func (e *RemoveTwoEffect) Kind() EffectKind { return EffectRemoveTwo }
func (e *RemoveTwoEffect) Actor() PlayerID  { return e.Player }
func (e *RemoveTwoEffect) clone() ActiveEffect {
	cp := *e
	cp.Selected = append([]OfferSelection(nil), e.Selected...)
	return &cp
}

// StealAPointEffect awaits a target holding strictly more points than the
// player of the card.
type StealAPointEffect struct {
	Player PlayerID `json:"player"`
}

func (e *StealAPointEffect) Kind() EffectKind    { return EffectStealAPoint }
func (e *StealAPointEffect) Actor() PlayerID     { return e.Player }
func (e *StealAPointEffect) clone() ActiveEffect { cp := *e; return &cp }

// GotchaEffect pauses the gotcha trade-in cascade while the buyer picks a
// card from the set owner's collection and decides its fate. Picks is 1
// for a once set, 2 for a twice set.
type GotchaEffect struct {
	Player         PlayerID `json:"player"`
	Owner          PlayerID `json:"owner"`
	Subtype        Subtype  `json:"subtype"`
	Iteration      int      `json:"iteration"`
	Picks          int      `json:"picks"`
	SelectedCardID int      `json:"selectedCardId,omitempty"`
}

func (e *GotchaEffect) Kind() EffectKind    { return EffectGotcha }
func (e *GotchaEffect) Actor() PlayerID     { return e.Player }
func (e *GotchaEffect) clone() ActiveEffect { cp := *e; return &cp }

// effectEnvelope wraps an effect with its kind for JSON round-trips.
type effectEnvelope struct {
	Kind EffectKind      `json:"kind"`
	Data json.RawMessage `json:"data"`
}

func encodeEffect(e ActiveEffect) (*effectEnvelope, error) {
	if e == nil {
		return nil, nil
	}
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("encode %s effect: %w", e.Kind(), err)
	}
	return &effectEnvelope{Kind: e.Kind(), Data: data}, nil
}

func decodeEffect(env *effectEnvelope) (ActiveEffect, error) {
	if env == nil {
		return nil, nil
	}
	var e ActiveEffect
	switch env.Kind {
	case EffectGotcha:
		e = &GotchaEffect{}
	case EffectFlipOne:
		e = &FlipOneEffect{}
	case EffectAddOne:
		e = &AddOneEffect{}
	case EffectRemoveOne:
		e = &RemoveOneEffect{}
	case EffectRemoveTwo:
		e = &RemoveTwoEffect{}
	case EffectStealAPoint:
		e = &StealAPointEffect{}
	default:
		return nil, fmt.Errorf("unknown effect kind %q", env.Kind)
	}
	if err := json.Unmarshal(env.Data, e); err != nil {
		return nil, fmt.Errorf("decode %s effect: %w", env.Kind, err)
	}
	return e, nil
}

// playActionCard discards an action card from the current player's
// collection and installs its effect. Every done checkbox resets to the
// baseline so other players get another chance to respond.
func playActionCard(s *GameState, a Action) error {
	p := s.Current()
	if p == nil || p.ID != a.Actor {
		return ErrOutOfTurn
	}
	if s.Effect != nil {
		return ErrEffectPending
	}
	idx := collectionIndexByID(p, a.CardID)
	if idx < 0 {
		return ErrUnknownCard
	}
	card := p.Collection[idx]
	if card.Type != TypeAction {
		return fmt.Errorf("%w: card %d is not an action card", ErrInvalidSelection, card.ID)
	}
	p.Collection = append(p.Collection[:idx], p.Collection[idx+1:]...)
	s.DiscardPile = append(s.DiscardPile, card)
	resetDoneBaseline(s)
	installEffect(s, p, card.Subtype)
	return nil
}

// declareDone checks the current player's box and advances the rotation.
// For a player who holds no action card the baseline already has them
// done, so the call only advances.
func declareDone(s *GameState, a Action) error {
	p := s.Current()
	if p == nil || p.ID != a.Actor {
		return ErrOutOfTurn
	}
	if s.Effect != nil {
		return ErrEffectPending
	}
	if hasActionCard(p) {
		s.Done[p.ID] = true
	}
	s.TurnIndex = nextEligible(s, s.TurnIndex)
	return nil
}

// installEffect arms the effect for an action subtype. An effect with no
// legal target resolves immediately as a no-op; the card is still spent.
func installEffect(s *GameState, actor *Player, sub Subtype) {
	_, idx, _ := s.PlayerByID(actor.ID)
	switch sub {
	case FlipOne:
		if countFaceDownOfferCards(s) > 0 {
			s.Effect = &FlipOneEffect{Player: actor.ID}
			return
		}
	case AddOne:
		if len(actor.Hand) > 0 && hasOtherOffer(s, actor.ID) {
			s.Effect = &AddOneEffect{Player: actor.ID}
			return
		}
	case RemoveOne:
		if countOfferCards(s) > 0 {
			s.Effect = &RemoveOneEffect{Player: actor.ID}
			return
		}
	case RemoveTwo:
		if n := countOfferCards(s); n > 0 {
			s.Effect = &RemoveTwoEffect{Player: actor.ID, CardsToSelect: min(2, n)}
			return
		}
	case StealAPoint:
		if hasRicherPlayer(s, actor) {
			s.Effect = &StealAPointEffect{Player: actor.ID}
			return
		}
	}
	advanceActionTurn(s, idx)
}

// selectFlipOneCard reveals the chosen face-down offer card.
func selectFlipOneCard(s *GameState, a Action) error {
	eff, ok := s.Effect.(*FlipOneEffect)
	if !ok {
		return ErrNoActiveEffect
	}
	if a.Actor != eff.Player {
		return ErrOutOfTurn
	}
	_, oc, err := offerCardAt(s, a.Owner, a.Index)
	if err != nil {
		return err
	}
	if oc.FaceUp {
		return fmt.Errorf("%w: card is already face up", ErrInvalidSelection)
	}
	oc.FaceUp = true
	oc.HiddenFromOwner = false
	finishActionEffect(s, eff.Player)
	return nil
}

// selectAddOneHandCard records the hand card to slip into an offer.
func selectAddOneHandCard(s *GameState, a Action) error {
	eff, ok := s.Effect.(*AddOneEffect)
	if !ok {
		return ErrNoActiveEffect
	}
	if a.Actor != eff.Player {
		return ErrOutOfTurn
	}
	if eff.HandCardID != 0 {
		return fmt.Errorf("%w: hand card already chosen", ErrInvalidSelection)
	}
	actor, _, _ := s.PlayerByID(eff.Player)
	if handIndexByID(actor, a.CardID) < 0 {
		return ErrUnknownCard
	}
	eff.HandCardID = a.CardID
	return nil
}

// selectAddOneOffer moves the recorded hand card into the target offer,
// face down and hidden from its owner.
func selectAddOneOffer(s *GameState, a Action) error {
	eff, ok := s.Effect.(*AddOneEffect)
	if !ok {
		return ErrNoActiveEffect
	}
	if a.Actor != eff.Player {
		return ErrOutOfTurn
	}
	if eff.HandCardID == 0 {
		return fmt.Errorf("%w: choose a hand card first", ErrInvalidSelection)
	}
	target, _, found := s.PlayerByID(a.Target)
	if !found {
		return ErrUnknownPlayer
	}
	if target.ID == eff.Player {
		return fmt.Errorf("%w: cannot add to your own offer", ErrInvalidSelection)
	}
	if len(target.Offer) == 0 {
		return fmt.Errorf("%w: player %s has no offer", ErrInvalidSelection, target.ID)
	}
	actor, _, _ := s.PlayerByID(eff.Player)
	idx := handIndexByID(actor, eff.HandCardID)
	card := actor.Hand[idx]
	actor.Hand = append(actor.Hand[:idx], actor.Hand[idx+1:]...)
	target.Offer = append(target.Offer, OfferCard{
		Card:            card,
		FaceUp:          false,
		Position:        len(target.Offer),
		HiddenFromOwner: true,
	})
	finishActionEffect(s, eff.Player)
	return nil
}

// selectRemoveOneCard discards the chosen offer card.
func selectRemoveOneCard(s *GameState, a Action) error {
	eff, ok := s.Effect.(*RemoveOneEffect)
	if !ok {
		return ErrNoActiveEffect
	}
	if a.Actor != eff.Player {
		return ErrOutOfTurn
	}
	owner, _, err := offerCardAt(s, a.Owner, a.Index)
	if err != nil {
		return err
	}
	s.DiscardPile = append(s.DiscardPile, removeOfferCard(owner, a.Index))
	finishActionEffect(s, eff.Player)
	return nil
}

// selectRemoveTwoCard records one offer card per call. Nothing leaves an
// offer until the countdown reaches zero; the accumulated picks are then
// discarded together.
func selectRemoveTwoCard(s *GameState, a Action) error {
	eff, ok := s.Effect.(*RemoveTwoEffect)
	if !ok {
		return ErrNoActiveEffect
	}
	if a.Actor != eff.Player {
		return ErrOutOfTurn
	}
	if _, _, err := offerCardAt(s, a.Owner, a.Index); err != nil {
		return err
	}
	for _, sel := range eff.Selected {
		if sel.Owner == a.Owner && sel.Index == a.Index {
			return fmt.Errorf("%w: card is already selected", ErrInvalidSelection)
		}
	}
	eff.Selected = append(eff.Selected, OfferSelection{Owner: a.Owner, Index: a.Index})
	eff.CardsToSelect--
	if eff.CardsToSelect > 0 {
		return nil
	}
	removeSelectedOfferCards(s, eff.Selected)
	finishActionEffect(s, eff.Player)
	return nil
}

// removeSelectedOfferCards discards the accumulated picks, walking each
// offer highest index first so earlier removals cannot shift later ones.
func removeSelectedOfferCards(s *GameState, selected []OfferSelection) {
	byOwner := make(map[PlayerID][]int, len(selected))
	for _, sel := range selected {
		byOwner[sel.Owner] = append(byOwner[sel.Owner], sel.Index)
	}
	for _, p := range s.Players {
		indexes := byOwner[p.ID]
		if len(indexes) == 0 {
			continue
		}
		sort.Sort(sort.Reverse(sort.IntSlice(indexes)))
		for _, idx := range indexes {
			s.DiscardPile = append(s.DiscardPile, removeOfferCard(p, idx))
		}
	}
}

// selectStealTarget moves one point from a richer player to the actor.
func selectStealTarget(s *GameState, a Action) error {
	eff, ok := s.Effect.(*StealAPointEffect)
	if !ok {
		return ErrNoActiveEffect
	}
	if a.Actor != eff.Player {
		return ErrOutOfTurn
	}
	target, _, found := s.PlayerByID(a.Target)
	if !found {
		return ErrUnknownPlayer
	}
	actor, _, _ := s.PlayerByID(eff.Player)
	if target.ID == actor.ID || target.Points <= actor.Points {
		return fmt.Errorf("%w: target must hold more points", ErrInvalidSelection)
	}
	target.Points--
	actor.Points++
	finishActionEffect(s, eff.Player)
	return nil
}

func finishActionEffect(s *GameState, actor PlayerID) {
	s.Effect = nil
	_, idx, _ := s.PlayerByID(actor)
	advanceActionTurn(s, idx)
}

// advanceActionTurn marks the actor done when they are out of action cards
// and hands the turn to the next eligible player, or nobody.
func advanceActionTurn(s *GameState, from int) {
	p := s.Players[from]
	if !hasActionCard(p) {
		s.Done[p.ID] = true
	}
	s.TurnIndex = nextEligible(s, from)
}

// resetDoneBaseline re-arms every checkbox: players holding an action card
// become not done, everyone else stays done.
func resetDoneBaseline(s *GameState) {
	if s.Done == nil {
		s.Done = make(map[PlayerID]bool, len(s.Players))
	}
	for _, p := range s.Players {
		s.Done[p.ID] = !hasActionCard(p)
	}
}

func hasActionCard(p *Player) bool {
	for _, c := range p.Collection {
		if c.Type == TypeAction {
			return true
		}
	}
	return false
}

func countOfferCards(s *GameState) int {
	n := 0
	for _, p := range s.Players {
		n += len(p.Offer)
	}
	return n
}

func countFaceDownOfferCards(s *GameState) int {
	n := 0
	for _, p := range s.Players {
		for _, oc := range p.Offer {
			if !oc.FaceUp {
				n++
			}
		}
	}
	return n
}

func hasOtherOffer(s *GameState, actor PlayerID) bool {
	for _, p := range s.Players {
		if p.ID != actor && len(p.Offer) > 0 {
			return true
		}
	}
	return false
}

func hasRicherPlayer(s *GameState, actor *Player) bool {
	for _, p := range s.Players {
		if p.ID != actor.ID && p.Points > actor.Points {
			return true
		}
	}
	return false
}
