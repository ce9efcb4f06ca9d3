package domain

import (
	"encoding/json"
	"fmt"
)

// Phase represents the lifecycle stage of a Gotcha round.
type Phase string

const (
	// PhaseLobby is the pre-game state where players can join.
	PhaseLobby Phase = "lobby"
	// PhaseBuyerAssignment promotes the money bag holder to buyer.
	PhaseBuyerAssignment Phase = "buyer_assignment"
	// PhaseDeal refills every hand up to the hand size.
	PhaseDeal Phase = "deal"
	// PhaseOffer is where sellers build their three card offers.
	PhaseOffer Phase = "offer"
	// PhaseBuyerFlip is where the buyer reveals one card per offer.
	PhaseBuyerFlip Phase = "buyer_flip"
	// PhaseAction is where players play action cards from their collections.
	PhaseAction Phase = "action"
	// PhaseOfferSelection is where the buyer picks the offer to buy.
	PhaseOfferSelection Phase = "offer_selection"
	// PhaseOfferDistribution closes the market before trade-ins.
	PhaseOfferDistribution Phase = "offer_distribution"
	// PhaseGotchaTradeins resolves completed gotcha sets in priority order.
	PhaseGotchaTradeins Phase = "gotcha_tradeins"
	// PhaseThingTradeins converts completed thing sets into points.
	PhaseThingTradeins Phase = "thing_tradeins"
	// PhaseWinnerDetermination checks the win condition and wraps the round.
	PhaseWinnerDetermination Phase = "winner_determination"
	// PhaseEnded is the terminal state once a winner is found.
	PhaseEnded Phase = "ended"
)

// Player capacity of a single game.
const (
	MinPlayers = 3
	MaxPlayers = 6
)

// PlayerID identifies a participant. IDs are opaque to the rules engine;
// the transport layer uses Nakama user IDs, tests use short names.
type PlayerID string

// OfferCard is one card inside a seller's offer.
type OfferCard struct {
	Card     Card `json:"card"`
	FaceUp   bool `json:"faceUp"`
	Position int  `json:"position"`
	// HiddenFromOwner marks a card slipped in by Add One. The owner does
	// not learn its identity until it is flipped or lands in a collection.
	HiddenFromOwner bool `json:"hiddenFromOwner,omitempty"`
}

// Player holds all per-participant state.
type Player struct {
	ID         PlayerID    `json:"id"`
	Name       string      `json:"name"`
	Hand       []Card      `json:"hand"`
	Offer      []OfferCard `json:"offer"`
	Collection []Card      `json:"collection"`
	Points     int         `json:"points"`
	HasMoney   bool        `json:"hasMoney"`
}

// OfferCreationMode tracks an offer that is being built card by card.
type OfferCreationMode string

const (
	// OfferSelecting means the seller is still choosing hand cards.
	OfferSelecting OfferCreationMode = "selecting"
	// OfferFlipping means all cards are placed and one must be revealed.
	OfferFlipping OfferCreationMode = "flipping"
	// OfferComplete means the offer is done. The tracker is dropped at
	// this point, so the value never appears in a live state.
	OfferComplete OfferCreationMode = "complete"
)

// OfferCreationState tracks the active seller's incremental offer build.
// Nil when no seller is mid-build (atomic offers never create one).
type OfferCreationState struct {
	Seller PlayerID          `json:"seller"`
	Mode   OfferCreationMode `json:"mode"`
}

// Rules carries the tunable parameters of a game. The zero value is not
// valid; use DefaultRules.
type Rules struct {
	WinThreshold int `json:"winThreshold"`
	HandSize     int `json:"handSize"`
	OfferSize    int `json:"offerSize"`
}

// DefaultRules returns the standard Gotcha parameters.
func DefaultRules() Rules {
	return Rules{WinThreshold: 5, HandSize: 5, OfferSize: 3}
}

// GameState is the authoritative state of one game. Advance never mutates
// a state it was given; it returns an updated deep copy.
type GameState struct {
	Started bool  `json:"gameStarted"`
	Phase   Phase `json:"phase"`
	Round   int   `json:"roundNumber"`
	Rules   Rules `json:"rules"`

	Players []*Player `json:"players"`

	// BuyerIndex is this round's buyer, NextBuyerIndex the holder of the
	// money bag who buys next round. TurnIndex is the seat whose input is
	// awaited, -1 when the phase needs nobody.
	BuyerIndex     int `json:"currentBuyerIndex"`
	NextBuyerIndex int `json:"nextBuyerIndex"`
	TurnIndex      int `json:"currentPlayerIndex"`

	DrawPile    []Card `json:"drawPile"`
	DiscardPile []Card `json:"discardPile"`

	Offering *OfferCreationState `json:"offerCreationState,omitempty"`
	Effect   ActiveEffect        `json:"-"`

	// Done holds the action phase checkboxes. Baseline: players without
	// an action card are pre-marked done.
	Done map[PlayerID]bool `json:"actionPhaseDoneStates,omitempty"`

	Winner PlayerID `json:"winnerId,omitempty"`

	// Presentation hints mirrored to clients.
	Perspective           PlayerID `json:"selectedPerspective,omitempty"`
	AutoFollowPerspective bool     `json:"autoFollowPerspective,omitempty"`
	Instructions          string   `json:"phaseInstructions,omitempty"`
}

// NewGame returns an empty lobby state with the given rules.
func NewGame(rules Rules) *GameState {
	if rules == (Rules{}) {
		rules = DefaultRules()
	}
	return &GameState{Phase: PhaseLobby, Rules: rules, TurnIndex: -1}
}

// PlayerByID returns the player and seat index for id.
func (s *GameState) PlayerByID(id PlayerID) (*Player, int, bool) {
	for i, p := range s.Players {
		if p.ID == id {
			return p, i, true
		}
	}
	return nil, -1, false
}

// Buyer returns this round's buyer. Panics on an unstarted game.
func (s *GameState) Buyer() *Player {
	return s.Players[s.BuyerIndex]
}

// Current returns the player whose input is awaited, or nil.
func (s *GameState) Current() *Player {
	if s.TurnIndex < 0 || s.TurnIndex >= len(s.Players) {
		return nil
	}
	return s.Players[s.TurnIndex]
}

// AwaitingActor returns the player who must act next, if any. An active
// effect takes precedence over the phase rotation.
func (s *GameState) AwaitingActor() (PlayerID, bool) {
	if s.Effect != nil {
		return s.Effect.Actor(), true
	}
	if p := s.Current(); p != nil {
		return p.ID, true
	}
	return "", false
}

// Clone returns a deep copy. Pile and hand slices are copied, players are
// fresh structs, the active effect is cloned through its variant.
func (s *GameState) Clone() *GameState {
	out := *s
	out.Players = make([]*Player, len(s.Players))
	for i, p := range s.Players {
		cp := *p
		cp.Hand = append([]Card(nil), p.Hand...)
		cp.Offer = append([]OfferCard(nil), p.Offer...)
		cp.Collection = append([]Card(nil), p.Collection...)
		out.Players[i] = &cp
	}
	out.DrawPile = append([]Card(nil), s.DrawPile...)
	out.DiscardPile = append([]Card(nil), s.DiscardPile...)
	if s.Offering != nil {
		cp := *s.Offering
		out.Offering = &cp
	}
	if s.Effect != nil {
		out.Effect = s.Effect.clone()
	}
	if s.Done != nil {
		out.Done = make(map[PlayerID]bool, len(s.Done))
		for k, v := range s.Done {
			out.Done[k] = v
		}
	}
	return &out
}

// MarshalJSON encodes the active effect with a kind discriminator so the
// sum type survives storage round-trips.
func (s *GameState) MarshalJSON() ([]byte, error) {
	env, err := encodeEffect(s.Effect)
	if err != nil {
		return nil, err
	}
	type plain GameState
	return json.Marshal(struct {
		*plain
		Effect *effectEnvelope `json:"activeEffectState,omitempty"`
	}{(*plain)(s), env})
}

// UnmarshalJSON restores the concrete effect variant from its envelope.
func (s *GameState) UnmarshalJSON(data []byte) error {
	type plain GameState
	var raw struct {
		plain
		Effect *effectEnvelope `json:"activeEffectState,omitempty"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode game state: %w", err)
	}
	*s = GameState(raw.plain)
	eff, err := decodeEffect(raw.Effect)
	if err != nil {
		return err
	}
	s.Effect = eff
	return nil
}
