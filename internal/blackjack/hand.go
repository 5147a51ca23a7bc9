package blackjack

import "github.com/feltworks/blackjack/internal/deck"

// blackjackValue is the target hand total.
const blackjackValue = 21

// Hand is an ordered list of cards belonging to one player or the
// dealer.
type Hand []deck.Card

// Value returns the blackjack total of the hand: aces count 11, then
// are demoted to 1 one at a time while the total exceeds 21. Busted
// hands report their raw over-21 total.
func (h Hand) Value() int {
	total := 0
	aces := 0
	for _, c := range h {
		total += c.Value()
		if c.IsAce() {
			aces++
		}
	}
	for total > blackjackValue && aces > 0 {
		total -= 10
		aces--
	}
	return total
}

// IsNatural reports whether the hand is a two-card 21.
func (h Hand) IsNatural() bool {
	return len(h) == 2 && h.Value() == blackjackValue
}

// IsBust reports whether the hand total exceeds 21.
func (h Hand) IsBust() bool {
	return h.Value() > blackjackValue
}

// Copy returns an independent copy of the hand.
func (h Hand) Copy() Hand {
	out := make(Hand, len(h))
	copy(out, h)
	return out
}
