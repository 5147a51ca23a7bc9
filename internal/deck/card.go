package deck

import "fmt"

// Suit represents a card suit
type Suit int

const (
	Spades Suit = iota
	Hearts
	Diamonds
	Clubs
)

// String returns the display representation of a suit
func (s Suit) String() string {
	switch s {
	case Spades:
		return "♠"
	case Hearts:
		return "♥"
	case Diamonds:
		return "♦"
	case Clubs:
		return "♣"
	default:
		return "?"
	}
}

// Code returns the single-letter wire code of a suit
func (s Suit) Code() string {
	switch s {
	case Spades:
		return "S"
	case Hearts:
		return "H"
	case Diamonds:
		return "D"
	case Clubs:
		return "C"
	default:
		return "?"
	}
}

// MarshalText implements encoding.TextMarshaler using the wire code
func (s Suit) MarshalText() ([]byte, error) {
	return []byte(s.Code()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (s *Suit) UnmarshalText(text []byte) error {
	switch string(text) {
	case "S":
		*s = Spades
	case "H":
		*s = Hearts
	case "D":
		*s = Diamonds
	case "C":
		*s = Clubs
	default:
		return fmt.Errorf("invalid suit: %q", text)
	}
	return nil
}

// IsRed returns true if the suit is red (Hearts or Diamonds)
func (s Suit) IsRed() bool {
	return s == Hearts || s == Diamonds
}

// Rank represents a card rank
type Rank int

const (
	Two Rank = iota + 2
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

var rankNames = map[Rank]string{
	Two:   "Two",
	Three: "Three",
	Four:  "Four",
	Five:  "Five",
	Six:   "Six",
	Seven: "Seven",
	Eight: "Eight",
	Nine:  "Nine",
	Ten:   "Ten",
	Jack:  "Jack",
	Queen: "Queen",
	King:  "King",
	Ace:   "Ace",
}

// String returns the short display representation of a rank
func (r Rank) String() string {
	switch r {
	case Ten:
		return "T"
	case Jack:
		return "J"
	case Queen:
		return "Q"
	case King:
		return "K"
	case Ace:
		return "A"
	default:
		if r >= Two && r <= Nine {
			return fmt.Sprintf("%d", int(r))
		}
		return "?"
	}
}

// Name returns the full wire name of a rank (e.g. "Queen")
func (r Rank) Name() string {
	if name, ok := rankNames[r]; ok {
		return name
	}
	return "?"
}

// MarshalText implements encoding.TextMarshaler using the wire name
func (r Rank) MarshalText() ([]byte, error) {
	return []byte(r.Name()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (r *Rank) UnmarshalText(text []byte) error {
	for rank, name := range rankNames {
		if name == string(text) {
			*r = rank
			return nil
		}
	}
	return fmt.Errorf("invalid rank: %q", text)
}

// Card represents a playing card. Cards are value types: a card moved
// into a second hand by a split is a copy, never a shared reference.
type Card struct {
	Suit   Suit `json:"suit"`
	Rank   Rank `json:"rank"`
	FaceUp bool `json:"faceUp"`
}

// NewCard creates a new face-up card
func NewCard(suit Suit, rank Rank) Card {
	return Card{Suit: suit, Rank: rank, FaceUp: true}
}

// String returns the display representation of a card (e.g. "A♠")
func (c Card) String() string {
	return fmt.Sprintf("%s%s", c.Rank, c.Suit)
}

// Value returns the blackjack point value of the card.
// Aces count 11 here; demoting soft aces to 1 is the hand's job.
func (c Card) Value() int {
	switch {
	case c.Rank == Ace:
		return 11
	case c.Rank >= Ten:
		return 10
	default:
		return int(c.Rank)
	}
}

// IsAce returns true if the card is an Ace
func (c Card) IsAce() bool {
	return c.Rank == Ace
}
