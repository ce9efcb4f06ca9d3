package domain

import (
	"fmt"
	"math/rand"
	"time"
)

// maxAutoAdvances bounds the automatic phase loop. Normal play stays far
// below it; hitting the limit means a rules bug, reported as
// ErrAdvanceLimit instead of spinning.
const maxAutoAdvances = 100

// Advance applies one player action, then runs every automatic phase that
// follows, stopping at the next state that awaits player input. The input
// state is never mutated: on success an updated deep copy is returned, on
// error the original state comes back unchanged alongside the error.
func Advance(s *GameState, a Action, rng *rand.Rand) (*GameState, error) {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if err := precheck(s, a); err != nil {
		return s, err
	}
	next := s.Clone()
	if err := apply(next, a, rng); err != nil {
		return s, err
	}
	if err := autoAdvance(next, rng); err != nil {
		return s, err
	}
	refreshPresentation(next)
	return next, nil
}

// precheck runs the guards every action shares: lifecycle, terminal
// state, phase legality and actor existence.
func precheck(s *GameState, a Action) error {
	switch a.Kind {
	case ActionChangePerspective, ActionResetGame:
		// Accepted in every phase, terminal included.
		return nil
	case ActionStartGame:
		if s.Started {
			return ErrGameAlreadyStarted
		}
		return nil
	}
	if !s.Started {
		return ErrGameNotStarted
	}
	if s.Phase == PhaseEnded || s.Winner != "" {
		return ErrGameEnded
	}
	if !AllowedInPhase(s.Phase, a.Kind) {
		return &IllegalActionError{Phase: s.Phase, Kind: a.Kind}
	}
	if _, _, found := s.PlayerByID(a.Actor); !found {
		return ErrUnknownPlayer
	}
	return nil
}

func apply(s *GameState, a Action, rng *rand.Rand) error {
	switch a.Kind {
	case ActionStartGame:
		return startGame(s, a, rng)
	case ActionPlaceOffer:
		return placeOffer(s, a)
	case ActionFlipCard:
		return flipCard(s, a)
	case ActionPlayActionCard:
		return playActionCard(s, a)
	case ActionDeclareDone:
		return declareDone(s, a)
	case ActionSelectFlipOneCard:
		return selectFlipOneCard(s, a)
	case ActionSelectAddOneHandCard:
		return selectAddOneHandCard(s, a)
	case ActionSelectAddOneOffer:
		return selectAddOneOffer(s, a)
	case ActionSelectRemoveOneCard:
		return selectRemoveOneCard(s, a)
	case ActionSelectRemoveTwoCard:
		return selectRemoveTwoCard(s, a)
	case ActionSelectStealTarget:
		return selectStealTarget(s, a)
	case ActionSelectGotchaCard:
		return selectGotchaCard(s, a)
	case ActionChooseGotchaAction:
		return chooseGotchaAction(s, a)
	case ActionSelectOffer:
		return selectOffer(s, a)
	case ActionChangePerspective:
		return changePerspective(s, a)
	case ActionResetGame:
		return resetGame(s)
	}
	return fmt.Errorf("unknown action kind %q", a.Kind)
}

// autoAdvance walks the phase cycle until a phase needs player input. All
// bookkeeping phases resolve inline; interactive phases stop the loop
// while an actor or an effect selection is awaited.
func autoAdvance(s *GameState, rng *rand.Rand) error {
	for i := 0; i < maxAutoAdvances; i++ {
		switch s.Phase {
		case PhaseLobby, PhaseEnded:
			return nil
		case PhaseBuyerAssignment:
			s.BuyerIndex = s.NextBuyerIndex
			setPhase(s, PhaseDeal)
		case PhaseDeal:
			dealHands(s, rng)
			setPhase(s, PhaseOffer)
		case PhaseOffer:
			if s.TurnIndex >= 0 {
				return nil
			}
			setPhase(s, PhaseBuyerFlip)
		case PhaseBuyerFlip:
			if buyerFlipPending(s) {
				return nil
			}
			setPhase(s, PhaseAction)
		case PhaseAction:
			if s.Effect != nil || s.TurnIndex >= 0 {
				return nil
			}
			setPhase(s, PhaseOfferSelection)
		case PhaseOfferSelection:
			if countOfferCards(s) > 0 {
				return nil
			}
			// Nothing went on sale this round.
			setPhase(s, PhaseOfferDistribution)
		case PhaseOfferDistribution:
			setPhase(s, PhaseGotchaTradeins)
		case PhaseGotchaTradeins:
			if s.Effect != nil {
				return nil
			}
			if runGotchaScan(s) {
				continue
			}
			setPhase(s, PhaseThingTradeins)
		case PhaseThingTradeins:
			tradeThings(s)
			setPhase(s, PhaseWinnerDetermination)
		case PhaseWinnerDetermination:
			if decideWinner(s) {
				setPhase(s, PhaseEnded)
				return nil
			}
			if !roundCanProgress(s) {
				decideExhaustedWinner(s)
				setPhase(s, PhaseEnded)
				return nil
			}
			s.Round++
			setPhase(s, PhaseBuyerAssignment)
		default:
			return nil
		}
	}
	return ErrAdvanceLimit
}

// roundCanProgress reports whether another round can reach a state that
// awaits player input. With both piles dry, no seller able to fill an
// offer and no action card left in any collection, every phase of the
// next round would resolve untouched and the cycle would spin forever.
// The upcoming buyer cannot sell, so their hand does not count.
func roundCanProgress(s *GameState) bool {
	if len(s.DrawPile)+len(s.DiscardPile) > 0 {
		return true
	}
	for i, p := range s.Players {
		if i != s.NextBuyerIndex && len(p.Hand) >= s.Rules.OfferSize {
			return true
		}
		if hasActionCard(p) {
			return true
		}
	}
	return false
}

// setPhase transitions to p and primes its turn pointer. TurnIndex is -1
// for phases that need nobody.
func setPhase(s *GameState, p Phase) {
	s.Phase = p
	s.Offering = nil
	switch p {
	case PhaseOffer:
		s.TurnIndex = firstEligible(s)
	case PhaseBuyerFlip, PhaseOfferSelection:
		s.TurnIndex = s.BuyerIndex
	case PhaseAction:
		resetDoneBaseline(s)
		s.TurnIndex = firstEligible(s)
	default:
		s.TurnIndex = -1
	}
}

func startGame(s *GameState, a Action, rng *rand.Rand) error {
	if len(a.Players) < MinPlayers || len(a.Players) > MaxPlayers {
		return fmt.Errorf("%w: got %d, want %d to %d", ErrPlayerCount, len(a.Players), MinPlayers, MaxPlayers)
	}
	seen := make(map[PlayerID]bool, len(a.Players))
	players := make([]*Player, 0, len(a.Players))
	for _, spec := range a.Players {
		if spec.ID == "" || seen[spec.ID] {
			return fmt.Errorf("%w: empty or duplicate id %q", ErrUnknownPlayer, spec.ID)
		}
		seen[spec.ID] = true
		name := spec.Name
		if name == "" {
			name = string(spec.ID)
		}
		players = append(players, &Player{ID: spec.ID, Name: name})
	}
	if s.Rules == (Rules{}) {
		s.Rules = DefaultRules()
	}
	s.Started = true
	s.Players = players
	s.Round = 1
	s.DrawPile = ShuffleDeck(NewDeck(), rng)
	s.DiscardPile = nil
	s.Done = nil
	s.Winner = ""

	// The money bag starts with a random player, who buys first.
	holder := rng.Intn(len(players))
	players[holder].HasMoney = true
	s.NextBuyerIndex = holder

	setPhase(s, PhaseBuyerAssignment)
	return nil
}

func changePerspective(s *GameState, a Action) error {
	if a.Target != "" {
		if _, _, found := s.PlayerByID(a.Target); !found {
			return ErrUnknownPlayer
		}
	}
	s.Perspective = a.Target
	s.AutoFollowPerspective = a.AutoFollow
	return nil
}

func resetGame(s *GameState) error {
	*s = *NewGame(s.Rules)
	return nil
}

// refreshPresentation recomputes the advisory strings mirrored to clients
// and moves the auto-followed perspective onto whoever must act.
func refreshPresentation(s *GameState) {
	s.Instructions = instructionsFor(s)
	if s.AutoFollowPerspective {
		if id, ok := s.AwaitingActor(); ok {
			s.Perspective = id
		}
	}
}

func instructionsFor(s *GameState) string {
	if s.Winner != "" {
		if p, _, found := s.PlayerByID(s.Winner); found {
			return fmt.Sprintf("%s wins with %d points", p.Name, p.Points)
		}
	}
	if s.Effect != nil {
		return effectInstructions(s)
	}
	name := func(idx int) string {
		if idx < 0 || idx >= len(s.Players) {
			return ""
		}
		return s.Players[idx].Name
	}
	switch s.Phase {
	case PhaseLobby:
		return "Waiting for players"
	case PhaseEnded:
		return "The cards have run out with no winner"
	case PhaseOffer:
		return fmt.Sprintf("%s is building an offer", name(s.TurnIndex))
	case PhaseBuyerFlip:
		return fmt.Sprintf("%s flips one card in each offer", name(s.BuyerIndex))
	case PhaseAction:
		return fmt.Sprintf("%s may play an action card or declare done", name(s.TurnIndex))
	case PhaseOfferSelection:
		return fmt.Sprintf("%s chooses an offer to buy", name(s.BuyerIndex))
	}
	return ""
}

func effectInstructions(s *GameState) string {
	actorName := func(id PlayerID) string {
		if p, _, found := s.PlayerByID(id); found {
			return p.Name
		}
		return string(id)
	}
	switch eff := s.Effect.(type) {
	case *FlipOneEffect:
		return fmt.Sprintf("%s chooses a face-down offer card to flip", actorName(eff.Player))
	case *AddOneEffect:
		if eff.HandCardID == 0 {
			return fmt.Sprintf("%s picks a hand card to slip into an offer", actorName(eff.Player))
		}
		return fmt.Sprintf("%s picks the offer that receives the card", actorName(eff.Player))
	case *RemoveOneEffect:
		return fmt.Sprintf("%s chooses an offer card to discard", actorName(eff.Player))
	case *RemoveTwoEffect:
		return fmt.Sprintf("%s picks %d more offer cards to discard", actorName(eff.Player), eff.CardsToSelect)
	case *StealAPointEffect:
		return fmt.Sprintf("%s picks a player to steal a point from", actorName(eff.Player))
	case *GotchaEffect:
		if eff.SelectedCardID == 0 {
			return fmt.Sprintf("%s picks a card from %s's collection", actorName(eff.Player), actorName(eff.Owner))
		}
		return fmt.Sprintf("%s decides whether to steal or discard the pick", actorName(eff.Player))
	}
	return ""
}
