package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the rules engine. Callers branch with errors.Is.
var (
	ErrGameAlreadyStarted = errors.New("game already started")
	ErrGameNotStarted     = errors.New("game not started")
	ErrGameEnded          = errors.New("game has ended")
	ErrPlayerCount        = errors.New("player count out of range")
	ErrUnknownPlayer      = errors.New("unknown player")
	ErrUnknownCard        = errors.New("unknown card")
	ErrOutOfTurn          = errors.New("acting out of turn")
	ErrNotBuyer           = errors.New("only the buyer may do that")
	ErrEffectPending      = errors.New("an effect is awaiting input")
	ErrNoActiveEffect     = errors.New("no matching effect awaits input")
	ErrInvalidSelection   = errors.New("invalid selection")
	ErrAdvanceLimit       = errors.New("automatic phase advance exceeded its limit")
)

// IllegalActionError reports an action kind dispatched in a phase whose
// legality table does not list it.
type IllegalActionError struct {
	Phase Phase
	Kind  ActionKind
}

func (e *IllegalActionError) Error() string {
	return fmt.Sprintf("action %s is not legal in phase %s", e.Kind, e.Phase)
}
