package app

import (
	"errors"
	"math/rand"
	"time"

	"gotcha/internal/domain"
)

// Service contains the Gotcha use-cases operating on domain state. It is
// the only way the transport layer touches the rules engine.
type Service struct {
	rng *rand.Rand
}

// NewService constructs a Service with the provided rng or a time-seeded
// default.
func NewService(rng *rand.Rand) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Service{rng: rng}
}

var ErrNilState = errors.New("game state is required")

// StartGame starts a game for the given seats in seat order.
func (s *Service) StartGame(state *domain.GameState, specs []domain.PlayerSpec, actor string) (*domain.GameState, []Event, error) {
	return s.Apply(state, domain.Action{
		Kind:    domain.ActionStartGame,
		Actor:   domain.PlayerID(actor),
		Players: specs,
	})
}

// Apply runs one player action through the rules engine and derives the
// events the adapter must dispatch. On error the input state is returned
// unchanged with no events.
func (s *Service) Apply(state *domain.GameState, a domain.Action) (*domain.GameState, []Event, error) {
	if state == nil {
		return nil, nil, ErrNilState
	}
	next, err := domain.Advance(state, a, s.rng)
	if err != nil {
		return state, nil, err
	}
	return next, deriveEvents(state, next), nil
}

// deriveEvents compares the state before and after an action and emits
// everything clients must hear about. The engine may have auto-advanced
// through several phases, so events describe the transition as a whole.
func deriveEvents(old, next *domain.GameState) []Event {
	var events []Event

	started := !old.Started && next.Started
	if started {
		ids := make([]string, len(next.Players))
		for i, p := range next.Players {
			ids[i] = string(p.ID)
		}
		events = append(events, Event{
			Kind: EventGameStarted,
			Payload: GameStartedPayload{
				Players: ids,
				BuyerID: string(next.Buyer().ID),
				Rules:   next.Rules,
				Round:   next.Round,
			},
		})
	}

	if started || next.Round != old.Round {
		for _, p := range next.Players {
			events = append(events, Event{
				Kind: EventHandDealt,
				Payload: HandDealtPayload{
					UserID: string(p.ID),
					Round:  next.Round,
					Hand:   append([]domain.Card(nil), p.Hand...),
				},
				Recipients: []string{string(p.ID)},
			})
		}
	}

	if next.Phase != old.Phase || next.Round != old.Round {
		payload := PhaseChangedPayload{Phase: next.Phase, Round: next.Round}
		if next.Started && len(next.Players) > 0 {
			payload.BuyerID = string(next.Buyer().ID)
		}
		events = append(events, Event{Kind: EventPhaseChanged, Payload: payload})
	}

	for _, p := range next.Players {
		id := string(p.ID)
		events = append(events, Event{
			Kind:       EventStateUpdated,
			Payload:    StateUpdatedPayload{View: ViewFor(next, id)},
			Recipients: []string{id},
		})
	}

	// A win always ends the phase cycle, but an exhausted table can end
	// it drawn with no winner; both must announce the end exactly once.
	ended := next.Phase == domain.PhaseEnded && old.Phase != domain.PhaseEnded
	if ended || (next.Winner != "" && old.Winner == "") {
		points := make(map[string]int, len(next.Players))
		for _, p := range next.Players {
			points[string(p.ID)] = p.Points
		}
		events = append(events, Event{
			Kind: EventGameEnded,
			Payload: GameEndedPayload{
				WinnerID: string(next.Winner),
				Points:   points,
				Rounds:   next.Round,
			},
		})
	}

	return events
}
