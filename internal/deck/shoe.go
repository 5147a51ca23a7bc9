package deck

import (
	"errors"
	"math/rand/v2"
)

// ErrEmptyShoe is returned by Draw on an exhausted shoe. The table
// reshuffles between rounds before the shoe can run dry, so hitting
// this mid-round is an internal consistency violation.
var ErrEmptyShoe = errors.New("shoe is empty")

// reshuffleFraction is the fraction of a full shoe below which the
// shoe reports that it needs a reshuffle.
const reshuffleFraction = 4

// Shoe holds one or more decks of cards and deals from the tail.
type Shoe struct {
	cards    []Card
	numDecks int
	rng      *rand.Rand
}

// New creates a shoe of numDecks concatenated 52-card decks, shuffled
// with the provided rng using a Durstenfeld shuffle. A nil rng leaves
// the shoe in build order, which is useful for deterministic play.
func New(rng *rand.Rand, numDecks int) *Shoe {
	s := &Shoe{
		cards:    make([]Card, 0, numDecks*52),
		numDecks: numDecks,
		rng:      rng,
	}
	s.fill()
	if rng != nil {
		s.shuffle()
	}
	return s
}

// NewUnshuffled creates a shoe in build order.
func NewUnshuffled(numDecks int) *Shoe {
	return New(nil, numDecks)
}

// NewStacked creates a shoe containing exactly the given cards, drawn
// in the order they are listed. A stacked shoe never reports needing a
// reshuffle. Intended for tests and replays.
func NewStacked(cards ...Card) *Shoe {
	stacked := make([]Card, len(cards))
	for i, c := range cards {
		stacked[len(cards)-1-i] = c
	}
	return &Shoe{cards: stacked}
}

func (s *Shoe) fill() {
	s.cards = s.cards[:0]
	for d := 0; d < s.numDecks; d++ {
		for suit := Spades; suit <= Clubs; suit++ {
			for rank := Two; rank <= Ace; rank++ {
				s.cards = append(s.cards, NewCard(suit, rank))
			}
		}
	}
}

func (s *Shoe) shuffle() {
	for i := len(s.cards) - 1; i > 0; i-- {
		j := s.rng.IntN(i + 1)
		s.cards[i], s.cards[j] = s.cards[j], s.cards[i]
	}
}

// Draw removes and returns the top card of the shoe.
func (s *Shoe) Draw() (Card, error) {
	if len(s.cards) == 0 {
		return Card{}, ErrEmptyShoe
	}
	card := s.cards[len(s.cards)-1]
	s.cards = s.cards[:len(s.cards)-1]
	return card, nil
}

// NeedsReshuffle reports whether the remaining cards have fallen below
// a quarter of the shoe's full size.
func (s *Shoe) NeedsReshuffle() bool {
	return len(s.cards) < s.numDecks*52/reshuffleFraction
}

// Reshuffle rebuilds the full shoe and, when the shoe has an rng,
// shuffles it.
func (s *Shoe) Reshuffle() {
	s.fill()
	if s.rng != nil {
		s.shuffle()
	}
}

// CardsRemaining returns the number of cards left in the shoe.
func (s *Shoe) CardsRemaining() int {
	return len(s.cards)
}
