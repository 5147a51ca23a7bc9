package blackjack

import (
	"fmt"
	"strconv"
	"strings"
)

// DealerID is the actor id the distribution layer uses for
// dealer-origin actions.
const DealerID = "DEALER"

// Action is a decoded player or dealer intent. The wire format is a
// string tag ("Hit", "Wager:25", ...); ParseAction turns it into one
// of the variants below exactly once at the channel boundary so the
// state machine never sees raw strings.
type Action interface {
	fmt.Stringer
	isAction()
}

// StartGame begins a new round: reshuffle if needed, seat the queue,
// deal, and open betting. Dealer-issued.
type StartGame struct{}

// EndGame tears down the shown round and immediately starts the next
// one. Dealer-issued.
type EndGame struct{}

// Wager places the bet for the actor's hand that is awaiting one.
type Wager struct {
	Amount int
}

// Hit draws one card into the actor's active hand.
type Hit struct{}

// Stand finishes the actor's active hand.
type Stand struct{}

// Double draws one face-down card, doubles the bet, and stands.
type Double struct{}

// Split turns a two-card pair into two one-card hands.
type Split struct{}

// Leave removes the actor from the table.
type Leave struct{}

// Join is a no-op marker recorded for audit purposes; actual seating
// goes through Table.AddPlayer.
type Join struct{}

func (StartGame) isAction() {}
func (EndGame) isAction()   {}
func (Wager) isAction()     {}
func (Hit) isAction()       {}
func (Stand) isAction()     {}
func (Double) isAction()    {}
func (Split) isAction()     {}
func (Leave) isAction()     {}
func (Join) isAction()      {}

func (StartGame) String() string { return "StartGame" }
func (EndGame) String() string   { return "EndGame" }
func (w Wager) String() string   { return fmt.Sprintf("Wager:%d", w.Amount) }
func (Hit) String() string       { return "Hit" }
func (Stand) String() string     { return "Stand" }
func (Double) String() string    { return "Double" }
func (Split) String() string     { return "Split" }
func (Leave) String() string     { return "Leave" }
func (Join) String() string      { return "Join" }

const wagerPrefix = "Wager:"

// ParseAction decodes a wire action tag. Unknown tags return
// ErrUnknownAction.
func ParseAction(tag string) (Action, error) {
	if strings.HasPrefix(tag, wagerPrefix) {
		amount, err := strconv.Atoi(tag[len(wagerPrefix):])
		if err != nil {
			return nil, fmt.Errorf("%w: bad wager amount %q", ErrInvalidBet, tag)
		}
		return Wager{Amount: amount}, nil
	}

	switch tag {
	case "StartGame":
		return StartGame{}, nil
	case "EndGame":
		return EndGame{}, nil
	case "Hit":
		return Hit{}, nil
	case "Stand", "Stay":
		return Stand{}, nil
	case "Double":
		return Double{}, nil
	case "Split":
		return Split{}, nil
	case "Leave":
		return Leave{}, nil
	case "Join":
		return Join{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, tag)
	}
}

// Record is one entry in the ordered action stream a table consumes.
// Indices are assigned by the distribution layer and must be strictly
// increasing per table; the engine itself does not deduplicate.
type Record struct {
	Index   int    `json:"index"`
	ActorID string `json:"playerId"`
	Action  string `json:"action"`
}
