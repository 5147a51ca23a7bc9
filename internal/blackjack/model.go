package blackjack

// Model is the serializable snapshot of a table distributed to
// observers. Every slice is ordered by seat: position i of Hands,
// Balances, Bets, and Results all describe the player at Players[i] —
// position is the only correlation key, so ordering must survive
// serialization. Callers must treat a Model as read-only; it shares no
// memory with the table.
type Model struct {
	Hands      [][]Hand    `json:"hands"`
	Balances   []float64   `json:"balances"`
	Bets       [][]float64 `json:"bets"`
	CurrentID  string      `json:"currentId"`
	Players    []string    `json:"players"`
	Queue      []string    `json:"queue"`
	InProgress bool        `json:"inProgress"`
	DealerHand Hand        `json:"dealerHand"`
	Results    [][]Result  `json:"results"`
}

// ToModel projects the table into an immutable snapshot.
func (t *Table) ToModel() Model {
	m := Model{
		Hands:      make([][]Hand, len(t.seats)),
		Balances:   make([]float64, len(t.seats)),
		Bets:       make([][]float64, len(t.seats)),
		Players:    make([]string, len(t.seats)),
		Queue:      append([]string(nil), t.queue...),
		CurrentID:  t.CurrentPlayerID(),
		InProgress: t.phase != Lobby,
		DealerHand: t.dealer.Copy(),
		Results:    make([][]Result, len(t.seats)),
	}
	for i, s := range t.seats {
		m.Players[i] = s.id
		m.Balances[i] = s.balance
		hands := make([]Hand, len(s.hands))
		for j, h := range s.hands {
			hands[j] = h.Copy()
		}
		m.Hands[i] = hands
		m.Bets[i] = append([]float64(nil), s.bets...)
		m.Results[i] = append([]Result(nil), s.results...)
	}
	return m
}
