package app

import "gotcha/internal/domain"

// EventKind identifies emitted app events for Nakama dispatch.
type EventKind string

const (
	EventPlayerJoined EventKind = "player_joined"
	EventPlayerLeft   EventKind = "player_left"
	EventGameStarted  EventKind = "game_started"
	EventHandDealt    EventKind = "hand_dealt"
	EventPhaseChanged EventKind = "phase_changed"
	EventStateUpdated EventKind = "state_updated"
	EventGameEnded    EventKind = "game_ended"
)

// Event is an app event with optional targeted recipients.
type Event struct {
	Kind       EventKind
	Payload    any
	Recipients []string // user IDs; empty means broadcast
}

type PlayerJoinedPayload struct {
	UserID string `json:"user_id"`
	Seat   int    `json:"seat"`
	Owner  bool   `json:"owner"`
}

type PlayerLeftPayload struct {
	UserID string `json:"user_id"`
}

type GameStartedPayload struct {
	Players []string     `json:"players"`
	BuyerID string       `json:"buyer_id"`
	Rules   domain.Rules `json:"rules"`
	Round   int          `json:"round"`
}

type HandDealtPayload struct {
	UserID string        `json:"user_id"`
	Round  int           `json:"round"`
	Hand   []domain.Card `json:"hand"`
}

type PhaseChangedPayload struct {
	Phase   domain.Phase `json:"phase"`
	Round   int          `json:"round"`
	BuyerID string       `json:"buyer_id"`
}

// StateUpdatedPayload carries the per-recipient redacted table view. One
// event per seated player, each with its own visibility.
type StateUpdatedPayload struct {
	View *GameView `json:"view"`
}

type GameEndedPayload struct {
	WinnerID string         `json:"winner_id"`
	Points   map[string]int `json:"points"`
	Rounds   int            `json:"rounds"`
}
