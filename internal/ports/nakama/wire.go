package nakama

import (
	"encoding/json"
	"fmt"

	"gotcha/internal/app"
	"gotcha/internal/domain"

	"github.com/heroiclabs/nakama-common/runtime"
)

// matchLabel is the JSON label advertised for quick-match queries. Open
// is the number of free seats so queries can filter on label.open:>=1.
type matchLabel struct {
	Open  int    `json:"open"`
	Game  string `json:"game"`
	Phase string `json:"phase"`
}

// SeatSnapshot is one occupied seat in a lobby snapshot.
type SeatSnapshot struct {
	UserID      string `json:"user_id"`
	Seat        int    `json:"seat"`
	IsOwner     bool   `json:"is_owner"`
	IsBot       bool   `json:"is_bot"`
	DisplayName string `json:"display_name"`
	Balance     int64  `json:"balance"`
	HandCount   int    `json:"hand_count"`
}

// MatchSnapshot is broadcast whenever seating changes so clients can
// render the table without waiting for game events.
type MatchSnapshot struct {
	Seats     []string       `json:"seats"`
	OwnerSeat int            `json:"owner_seat"`
	Tick      int64          `json:"tick"`
	Players   []SeatSnapshot `json:"players"`
}

// GameErrorPayload is sent privately to the player whose action was
// rejected.
type GameErrorPayload struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// actionKindByOpcode maps client op codes onto engine actions. Op codes
// with no entry are rejected before they reach the rules engine.
var actionKindByOpcode = map[int64]domain.ActionKind{
	OpPlaceOffer:           domain.ActionPlaceOffer,
	OpFlipCard:             domain.ActionFlipCard,
	OpPlayActionCard:       domain.ActionPlayActionCard,
	OpDeclareDone:          domain.ActionDeclareDone,
	OpSelectGotchaCard:     domain.ActionSelectGotchaCard,
	OpChooseGotchaAction:   domain.ActionChooseGotchaAction,
	OpSelectFlipOneCard:    domain.ActionSelectFlipOneCard,
	OpSelectAddOneHandCard: domain.ActionSelectAddOneHandCard,
	OpSelectAddOneOffer:    domain.ActionSelectAddOneOffer,
	OpSelectRemoveOneCard:  domain.ActionSelectRemoveOneCard,
	OpSelectRemoveTwoCard:  domain.ActionSelectRemoveTwoCard,
	OpSelectStealTarget:    domain.ActionSelectStealTarget,
	OpSelectOffer:          domain.ActionSelectOffer,
	OpChangePerspective:    domain.ActionChangePerspective,
	OpResetGame:            domain.ActionResetGame,
}

// actionFromMessage decodes a client message into an engine action. The
// payload unmarshals straight into domain.Action, then kind and actor
// are overridden server-side so clients cannot act for other seats.
func actionFromMessage(msg runtime.MatchData) (domain.Action, error) {
	kind, ok := actionKindByOpcode[msg.GetOpCode()]
	if !ok {
		return domain.Action{}, fmt.Errorf("unknown op code %d", msg.GetOpCode())
	}

	var a domain.Action
	if data := msg.GetData(); len(data) > 0 {
		if err := json.Unmarshal(data, &a); err != nil {
			return domain.Action{}, fmt.Errorf("decode payload for op %d: %w", msg.GetOpCode(), err)
		}
	}

	a.Kind = kind
	a.Actor = domain.PlayerID(msg.GetUserId())
	a.Players = nil
	return a, nil
}

// opcodeForEvent maps app events onto server op codes.
func opcodeForEvent(kind app.EventKind) (int64, bool) {
	switch kind {
	case app.EventPlayerJoined:
		return OpPlayerJoined, true
	case app.EventPlayerLeft:
		return OpPlayerLeft, true
	case app.EventGameStarted:
		return OpGameStarted, true
	case app.EventHandDealt:
		return OpHandDealt, true
	case app.EventPhaseChanged:
		return OpPhaseChanged, true
	case app.EventStateUpdated:
		return OpStateUpdated, true
	case app.EventGameEnded:
		return OpGameEnded, true
	default:
		return 0, false
	}
}
