package domain

// ActionKind names every input the engine accepts. The wire protocol uses
// these values verbatim.
type ActionKind string

const (
	ActionStartGame            ActionKind = "START_GAME"
	ActionPlaceOffer           ActionKind = "PLACE_OFFER"
	ActionFlipCard             ActionKind = "FLIP_CARD"
	ActionPlayActionCard       ActionKind = "PLAY_ACTION_CARD"
	ActionDeclareDone          ActionKind = "DECLARE_DONE"
	ActionSelectGotchaCard     ActionKind = "SELECT_GOTCHA_CARD"
	ActionChooseGotchaAction   ActionKind = "CHOOSE_GOTCHA_ACTION"
	ActionSelectFlipOneCard    ActionKind = "SELECT_FLIP_ONE_CARD"
	ActionSelectAddOneHandCard ActionKind = "SELECT_ADD_ONE_HAND_CARD"
	ActionSelectAddOneOffer    ActionKind = "SELECT_ADD_ONE_OFFER"
	ActionSelectRemoveOneCard  ActionKind = "SELECT_REMOVE_ONE_CARD"
	ActionSelectRemoveTwoCard  ActionKind = "SELECT_REMOVE_TWO_CARD"
	ActionSelectStealTarget    ActionKind = "SELECT_STEAL_A_POINT_TARGET"
	ActionSelectOffer          ActionKind = "SELECT_OFFER"
	ActionChangePerspective    ActionKind = "CHANGE_PERSPECTIVE"
	ActionResetGame            ActionKind = "RESET_GAME"
)

// GotchaChoice is the buyer's verdict on a selected gotcha pick.
type GotchaChoice string

const (
	GotchaSteal   GotchaChoice = "steal"
	GotchaDiscard GotchaChoice = "discard"
)

// PlayerSpec seeds one player at game start.
type PlayerSpec struct {
	ID   PlayerID `json:"id"`
	Name string   `json:"name"`
}

// Action is one player input. Kind decides which fields are read:
//
//	START_GAME                  Players
//	PLACE_OFFER                 CardIDs+FaceUpID (atomic) or CardID (one by one)
//	FLIP_CARD                   Owner, Index
//	PLAY_ACTION_CARD            CardID
//	SELECT_GOTCHA_CARD          CardID
//	CHOOSE_GOTCHA_ACTION        Choice
//	SELECT_FLIP_ONE_CARD        Owner, Index
//	SELECT_ADD_ONE_HAND_CARD    CardID
//	SELECT_ADD_ONE_OFFER        Target
//	SELECT_REMOVE_ONE_CARD      Owner, Index
//	SELECT_REMOVE_TWO_CARD      Owner, Index
//	SELECT_STEAL_A_POINT_TARGET Target
//	SELECT_OFFER                Target
//	CHANGE_PERSPECTIVE          Target, AutoFollow
type Action struct {
	Kind  ActionKind `json:"kind"`
	Actor PlayerID   `json:"actor"`

	Players []PlayerSpec `json:"players,omitempty"`

	CardID   int   `json:"cardId,omitempty"`
	CardIDs  []int `json:"cardIds,omitempty"`
	FaceUpID int   `json:"faceUpId,omitempty"`

	Owner PlayerID `json:"owner,omitempty"`
	Index int      `json:"index,omitempty"`

	Target PlayerID     `json:"target,omitempty"`
	Choice GotchaChoice `json:"choice,omitempty"`

	AutoFollow bool `json:"autoFollow,omitempty"`
}

// allowedActions is the phase legality table. CHANGE_PERSPECTIVE and
// RESET_GAME are accepted in every phase and checked before the table.
var allowedActions = map[Phase][]ActionKind{
	PhaseLobby:     {ActionStartGame},
	PhaseOffer:     {ActionPlaceOffer, ActionFlipCard},
	PhaseBuyerFlip: {ActionFlipCard},
	PhaseAction: {
		ActionPlayActionCard,
		ActionDeclareDone,
		ActionSelectFlipOneCard,
		ActionSelectAddOneHandCard,
		ActionSelectAddOneOffer,
		ActionSelectRemoveOneCard,
		ActionSelectRemoveTwoCard,
		ActionSelectStealTarget,
	},
	PhaseOfferSelection: {ActionSelectOffer},
	PhaseGotchaTradeins: {ActionSelectGotchaCard, ActionChooseGotchaAction},
	// BuyerAssignment, Deal, OfferDistribution, ThingTradeins,
	// WinnerDetermination and Ended accept no phase actions.
}

// AllowedInPhase reports whether kind may be dispatched during phase.
func AllowedInPhase(phase Phase, kind ActionKind) bool {
	if kind == ActionChangePerspective || kind == ActionResetGame {
		return true
	}
	for _, k := range allowedActions[phase] {
		if k == kind {
			return true
		}
	}
	return false
}
