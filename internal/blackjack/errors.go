package blackjack

import "errors"

// Engine failures are synchronous and locally raised; no error leaves
// the table partially mutated. The action-distribution layer decides
// whether to drop, log, or echo a failure back to the client.
var (
	// ErrTableFull is returned when a sixth player tries to join.
	ErrTableFull = errors.New("table is full")

	// ErrDuplicateSeat is returned when a player id is already seated
	// or queued at this table.
	ErrDuplicateSeat = errors.New("player already at table")

	// ErrOutOfTurn covers the wrong actor acting, and acting when the
	// current phase does not permit the action at all.
	ErrOutOfTurn = errors.New("not this player's turn")

	// ErrInvalidBet is returned for a non-positive wager, or a wager
	// from a player with no hand awaiting a bet.
	ErrInvalidBet = errors.New("invalid bet")

	// ErrInvalidHandValue is returned for a Double outside the 9-11
	// window.
	ErrInvalidHandValue = errors.New("hand value must be between 9 and 11")

	// ErrUnequalCards is returned for a Split when the hand is not
	// exactly two cards of equal blackjack value, or the hand group is
	// already split.
	ErrUnequalCards = errors.New("cards are not splittable")

	// ErrUnknownAction is returned for an unrecognized action tag.
	ErrUnknownAction = errors.New("unknown action")

	// ErrUnknownPlayer is returned when the actor is not at the table.
	ErrUnknownPlayer = errors.New("player not at table")
)
