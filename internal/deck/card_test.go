package deck

import (
	"encoding/json"
	"testing"
)

func TestCardValue(t *testing.T) {
	tests := []struct {
		name     string
		card     Card
		expected int
	}{
		{name: "ace counts eleven", card: NewCard(Spades, Ace), expected: 11},
		{name: "two", card: NewCard(Hearts, Two), expected: 2},
		{name: "nine", card: NewCard(Diamonds, Nine), expected: 9},
		{name: "ten", card: NewCard(Clubs, Ten), expected: 10},
		{name: "jack", card: NewCard(Spades, Jack), expected: 10},
		{name: "queen", card: NewCard(Hearts, Queen), expected: 10},
		{name: "king", card: NewCard(Diamonds, King), expected: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.card.Value(); got != tt.expected {
				t.Errorf("Value() = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestCardString(t *testing.T) {
	if got := NewCard(Spades, Ace).String(); got != "A♠" {
		t.Errorf("String() = %q, want %q", got, "A♠")
	}
	if got := NewCard(Hearts, Ten).String(); got != "T♥" {
		t.Errorf("String() = %q, want %q", got, "T♥")
	}
}

func TestCardJSONRoundTrip(t *testing.T) {
	card := NewCard(Diamonds, Queen)
	card.FaceUp = false

	data, err := json.Marshal(card)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	want := `{"suit":"D","rank":"Queen","faceUp":false}`
	if string(data) != want {
		t.Errorf("Marshal = %s, want %s", data, want)
	}

	var decoded Card
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if decoded != card {
		t.Errorf("round trip = %+v, want %+v", decoded, card)
	}
}

func TestCardUnmarshalInvalid(t *testing.T) {
	var card Card
	if err := json.Unmarshal([]byte(`{"suit":"X","rank":"Queen","faceUp":true}`), &card); err == nil {
		t.Error("expected error for invalid suit")
	}
	if err := json.Unmarshal([]byte(`{"suit":"S","rank":"Fifteen","faceUp":true}`), &card); err == nil {
		t.Error("expected error for invalid rank")
	}
}

func TestIsAce(t *testing.T) {
	if !NewCard(Clubs, Ace).IsAce() {
		t.Error("ace should report IsAce")
	}
	if NewCard(Clubs, King).IsAce() {
		t.Error("king should not report IsAce")
	}
}
