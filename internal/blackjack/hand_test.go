package blackjack

import (
	"testing"

	"github.com/feltworks/blackjack/internal/deck"
)

func card(suit deck.Suit, rank deck.Rank) deck.Card {
	return deck.NewCard(suit, rank)
}

func TestHandValue(t *testing.T) {
	tests := []struct {
		name     string
		hand     Hand
		expected int
	}{
		{
			name:     "empty hand",
			hand:     Hand{},
			expected: 0,
		},
		{
			name:     "simple total",
			hand:     Hand{card(deck.Spades, deck.Seven), card(deck.Hearts, deck.Five)},
			expected: 12,
		},
		{
			name:     "face cards count ten",
			hand:     Hand{card(deck.Spades, deck.Jack), card(deck.Hearts, deck.Queen)},
			expected: 20,
		},
		{
			name:     "soft ace",
			hand:     Hand{card(deck.Spades, deck.Ace), card(deck.Hearts, deck.Five)},
			expected: 16,
		},
		{
			name:     "ace demoted after draw",
			hand:     Hand{card(deck.Spades, deck.Ace), card(deck.Hearts, deck.Five), card(deck.Clubs, deck.Ten)},
			expected: 16,
		},
		{
			name:     "two aces demote one at a time",
			hand:     Hand{card(deck.Spades, deck.Ace), card(deck.Hearts, deck.Ace)},
			expected: 12,
		},
		{
			name:     "two aces and nine",
			hand:     Hand{card(deck.Spades, deck.Ace), card(deck.Hearts, deck.Ace), card(deck.Clubs, deck.Nine)},
			expected: 21,
		},
		{
			name:     "natural",
			hand:     Hand{card(deck.Spades, deck.Ace), card(deck.Hearts, deck.King)},
			expected: 21,
		},
		{
			name:     "bust reports raw total",
			hand:     Hand{card(deck.Spades, deck.King), card(deck.Hearts, deck.Queen), card(deck.Clubs, deck.Five)},
			expected: 25,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.hand.Value(); got != tt.expected {
				t.Errorf("Value() = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestIsNatural(t *testing.T) {
	natural := Hand{card(deck.Spades, deck.Ace), card(deck.Hearts, deck.King)}
	if !natural.IsNatural() {
		t.Error("ace plus king should be a natural")
	}

	threeCard := Hand{card(deck.Spades, deck.Seven), card(deck.Hearts, deck.Seven), card(deck.Clubs, deck.Seven)}
	if threeCard.IsNatural() {
		t.Error("three-card 21 is not a natural")
	}

	twenty := Hand{card(deck.Spades, deck.King), card(deck.Hearts, deck.Queen)}
	if twenty.IsNatural() {
		t.Error("two-card 20 is not a natural")
	}
}

func TestIsBust(t *testing.T) {
	bust := Hand{card(deck.Spades, deck.King), card(deck.Hearts, deck.Queen), card(deck.Clubs, deck.Five)}
	if !bust.IsBust() {
		t.Error("25 should be bust")
	}

	soft := Hand{card(deck.Spades, deck.Ace), card(deck.Hearts, deck.King), card(deck.Clubs, deck.Five)}
	if soft.IsBust() {
		t.Error("ace demotes to keep the hand at 16")
	}
}

func TestHandCopyIndependent(t *testing.T) {
	original := Hand{card(deck.Spades, deck.Ace), card(deck.Hearts, deck.King)}
	copied := original.Copy()
	copied[0] = card(deck.Clubs, deck.Two)

	if original[0] != card(deck.Spades, deck.Ace) {
		t.Error("mutating the copy changed the original")
	}
}
