package blackjack

import (
	"fmt"
	rand "math/rand/v2"
	"slices"

	"github.com/feltworks/blackjack/internal/deck"
)

const (
	// MaxPlayers is the seat capacity of a table, seated and queued
	// combined.
	MaxPlayers = 5

	// StartingStake is the balance a player is staked with when they
	// first sit down, and again whenever they go broke.
	StartingStake = 100

	// DefaultNumDecks is the shoe size used when no option overrides it.
	DefaultNumDecks = 6

	// dealerStandValue is the total at which the dealer stops drawing.
	dealerStandValue = 17

	// naturalPayout is the multiplier for a two-card 21 against a
	// non-21 dealer hand.
	naturalPayout = 1.5

	// maxHandsPerSeat limits each seat to a single split.
	maxHandsPerSeat = 2
)

// Phase is the stage a table is in within one round.
type Phase int

const (
	Lobby Phase = iota
	Betting
	PlayerTurns
	DealerTurn
	Resolved
)

// String returns the string representation of a phase
func (p Phase) String() string {
	switch p {
	case Lobby:
		return "lobby"
	case Betting:
		return "betting"
	case PlayerTurns:
		return "player_turns"
	case DealerTurn:
		return "dealer_turn"
	case Resolved:
		return "resolved"
	default:
		return "unknown"
	}
}

// Result is the outcome of one hand after dealer resolution.
type Result string

const (
	ResultWon    Result = "won"
	ResultLost   Result = "lost"
	ResultPushed Result = "pushed"
)

// seat is the per-player round state. Everything that correlates a
// player with their hands, bets, and results lives on the seat slot,
// aligned by index, so there is a single join key.
type seat struct {
	id         string
	hands      []Hand
	bets       []float64
	activeHand int
	// awaitingBet is the index of the hand whose wager has not been
	// placed yet, nil when none. Hand 0 awaits during the betting
	// phase; a split marks the new hand awaiting mid-round.
	awaitingBet *int
	balance     float64
	results     []Result
}

// Table is the authoritative state of one blackjack table. It is a
// pure, synchronous state machine: it performs no I/O and no internal
// locking. Callers must serialize access — one Apply at a time, no
// interleaving (see server.Room for the single-writer loop).
type Table struct {
	shoe     *deck.Shoe
	seats    []*seat
	queue    []string
	dealer   Hand
	phase    Phase
	turn     int  // index into seats of the hand group due to act; len(seats) means dealer
	resolved bool // dealer resolution already ran this round
}

// Option configures a Table.
type Option func(*tableConfig)

type tableConfig struct {
	numDecks int
	shoe     *deck.Shoe
}

// WithNumDecks sets the number of decks in the shoe.
func WithNumDecks(n int) Option {
	return func(c *tableConfig) { c.numDecks = n }
}

// WithShoe replaces the shoe entirely, typically with a stacked one
// for deterministic play.
func WithShoe(s *deck.Shoe) Option {
	return func(c *tableConfig) { c.shoe = s }
}

// NewTable creates an empty table in the lobby phase. A nil rng gives
// an unshuffled shoe.
func NewTable(rng *rand.Rand, opts ...Option) *Table {
	cfg := tableConfig{numDecks: DefaultNumDecks}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.shoe == nil {
		cfg.shoe = deck.New(rng, cfg.numDecks)
	}
	return &Table{
		shoe:  cfg.shoe,
		phase: Lobby,
		turn:  -1,
	}
}

// AddPlayer queues a player to be seated at the next round start.
func (t *Table) AddPlayer(id string) error {
	if t.seatFor(id) != nil || slices.Contains(t.queue, id) {
		return fmt.Errorf("%w: %s", ErrDuplicateSeat, id)
	}
	if len(t.seats)+len(t.queue) >= MaxPlayers {
		return fmt.Errorf("%w: capacity %d", ErrTableFull, MaxPlayers)
	}
	t.queue = append(t.queue, id)
	return nil
}

// Apply performs one decoded action on behalf of actorID. It either
// fully applies the action's effects, including any cascading
// auto-stands and the dealer resolution they trigger, or returns an
// error with the table untouched.
func (t *Table) Apply(actorID string, action Action) error {
	switch act := action.(type) {
	case StartGame:
		if actorID != DealerID {
			return fmt.Errorf("%w: only the dealer may start a round", ErrOutOfTurn)
		}
		return t.startRound()
	case EndGame:
		if actorID != DealerID {
			return fmt.Errorf("%w: only the dealer may end a round", ErrOutOfTurn)
		}
		// EndGame tears the shown round down and immediately deals the
		// next one, which is exactly what a round start does.
		return t.startRound()
	case Wager:
		return t.applyWager(actorID, act)
	case Hit, Stand, Double, Split:
		return t.applyMove(actorID, action)
	case Leave:
		return t.removePlayer(actorID)
	case Join:
		// Audit marker only; seating goes through AddPlayer.
		return nil
	default:
		return fmt.Errorf("%w: %T", ErrUnknownAction, action)
	}
}

// startRound promotes the queue, seeds balances, resets all per-seat
// round state, deals two cards to every seat and the dealer, and opens
// betting.
func (t *Table) startRound() error {
	for _, id := range t.queue {
		t.seats = append(t.seats, &seat{id: id, balance: StartingStake})
	}
	t.queue = nil

	if len(t.seats) == 0 {
		// Nothing to deal to; stay in the lobby.
		t.reset()
		return nil
	}

	if t.shoe.NeedsReshuffle() {
		t.shoe.Reshuffle()
	}

	for _, s := range t.seats {
		if s.balance <= 0 {
			s.balance = StartingStake
		}
		s.hands = []Hand{{}}
		s.bets = []float64{0}
		s.activeHand = 0
		first := 0
		s.awaitingBet = &first
		s.results = nil
	}
	t.dealer = nil
	t.resolved = false
	t.turn = -1

	// Two passes, each seat then the dealer. The dealer's second card
	// is the hole card, face down until resolution.
	for pass := 0; pass < 2; pass++ {
		for _, s := range t.seats {
			card, err := t.shoe.Draw()
			if err != nil {
				return fmt.Errorf("dealing to %s: %w", s.id, err)
			}
			s.hands[0] = append(s.hands[0], card)
		}
		card, err := t.shoe.Draw()
		if err != nil {
			return fmt.Errorf("dealing to dealer: %w", err)
		}
		card.FaceUp = pass == 0
		t.dealer = append(t.dealer, card)
	}

	t.phase = Betting
	return nil
}

// applyWager records the bet for the actor's hand awaiting one. Once
// every seated player has placed every required bet, play begins and
// any immediately-resolving 21s are auto-stood.
func (t *Table) applyWager(actorID string, wager Wager) error {
	s := t.seatFor(actorID)
	if s == nil || s.awaitingBet == nil {
		return fmt.Errorf("%w: %s is not awaiting a bet", ErrInvalidBet, actorID)
	}
	if wager.Amount <= 0 {
		return fmt.Errorf("%w: amount must be positive, got %d", ErrInvalidBet, wager.Amount)
	}

	s.bets[*s.awaitingBet] = float64(wager.Amount)
	s.awaitingBet = nil

	if t.phase == Betting && !t.anyAwaitingBet() {
		t.phase = PlayerTurns
		t.turn = 0
		return t.advance()
	}
	return nil
}

// applyMove handles the in-turn actions: Hit, Stand, Double, Split.
func (t *Table) applyMove(actorID string, action Action) error {
	if t.phase != PlayerTurns || t.turn < 0 || t.turn >= len(t.seats) || t.seats[t.turn].id != actorID {
		return fmt.Errorf("%w: %s cannot %s now", ErrOutOfTurn, actorID, action)
	}
	s := t.seats[t.turn]
	active := s.activeHand

	switch action.(type) {
	case Hit:
		card, err := t.shoe.Draw()
		if err != nil {
			return fmt.Errorf("hit for %s: %w", actorID, err)
		}
		s.hands[active] = append(s.hands[active], card)
		// 21 or bust ends the hand; the advance loop moves on.

	case Stand:
		s.activeHand++

	case Double:
		value := s.hands[active].Value()
		if value < 9 || value > 11 {
			return fmt.Errorf("%w: have %d", ErrInvalidHandValue, value)
		}
		card, err := t.shoe.Draw()
		if err != nil {
			return fmt.Errorf("double for %s: %w", actorID, err)
		}
		card.FaceUp = false
		s.hands[active] = append(s.hands[active], card)
		s.bets[active] *= 2
		s.activeHand++

	case Split:
		hand := s.hands[active]
		if len(s.hands) >= maxHandsPerSeat {
			return fmt.Errorf("%w: hand group already split", ErrUnequalCards)
		}
		if len(hand) != 2 || hand[0].Value() != hand[1].Value() {
			return fmt.Errorf("%w: need two cards of equal value", ErrUnequalCards)
		}
		// Cards are values, so the second hand owns a copy; nothing is
		// aliased between the two hands.
		s.hands[active] = Hand{hand[0]}
		s.hands = append(s.hands, Hand{hand[1]})
		s.bets = append(s.bets, s.bets[active])
		idx := len(s.hands) - 1
		s.awaitingBet = &idx
	}

	return t.advance()
}

// advance is the post-action resolution loop. It repeatedly auto-stands
// any active hand already at 21 or busted and steps the cursor over
// finished hand groups; when the cursor passes the last seat it plays
// the dealer and settles the round, exactly once. The loop is bounded
// by the total number of hands at the table.
func (t *Table) advance() error {
	if t.phase != PlayerTurns {
		return nil
	}
	for t.turn < len(t.seats) {
		s := t.seats[t.turn]
		if s.activeHand >= len(s.hands) {
			t.turn++
			continue
		}
		if s.hands[s.activeHand].Value() >= blackjackValue {
			s.activeHand++
			continue
		}
		return nil
	}
	if t.resolved {
		return nil
	}
	return t.resolveRound()
}

// resolveRound reveals the hole card, plays the dealer hand, and pays
// out every seat.
func (t *Table) resolveRound() error {
	t.phase = DealerTurn
	if len(t.dealer) > 1 {
		t.dealer[1].FaceUp = true
	}
	for t.dealer.Value() < dealerStandValue {
		card, err := t.shoe.Draw()
		if err != nil {
			return fmt.Errorf("dealer draw: %w", err)
		}
		t.dealer = append(t.dealer, card)
	}

	dealerValue := t.dealer.Value()
	for _, s := range t.seats {
		s.results = make([]Result, len(s.hands))
		for i, hand := range s.hands {
			value := hand.Value()
			bet := s.bets[i]
			switch {
			case hand.IsNatural() && dealerValue != blackjackValue:
				s.balance += bet * naturalPayout
				s.results[i] = ResultWon
			case value > blackjackValue || (value < dealerValue && dealerValue <= blackjackValue):
				s.balance -= bet
				s.results[i] = ResultLost
			case value > dealerValue || dealerValue > blackjackValue:
				s.balance += bet
				s.results[i] = ResultWon
			default:
				s.results[i] = ResultPushed
			}
		}
	}

	t.resolved = true
	t.phase = Resolved
	return nil
}

// removePlayer handles the Leave action. The cursor is adjusted so the
// removal neither skips nor repeats a turn; removing the player due to
// move acts as an implicit stand for them.
func (t *Table) removePlayer(id string) error {
	if i := slices.Index(t.queue, id); i >= 0 {
		t.queue = slices.Delete(t.queue, i, i+1)
		if len(t.seats) == 0 && len(t.queue) == 0 {
			t.reset()
		}
		return nil
	}

	idx := -1
	for i, s := range t.seats {
		if s.id == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return fmt.Errorf("%w: %s", ErrUnknownPlayer, id)
	}

	// Last participant out: the table resets fully.
	if len(t.seats) == 1 && len(t.queue) == 0 {
		t.reset()
		return nil
	}

	t.seats = slices.Delete(t.seats, idx, idx+1)
	if idx < t.turn {
		t.turn--
	}

	// Only seated player gone but others are queued: restart so the
	// queue gets seated.
	if len(t.seats) == 0 {
		return t.startRound()
	}

	// The leaver may have been the last one holding up the betting
	// phase.
	if t.phase == Betting && !t.anyAwaitingBet() {
		t.phase = PlayerTurns
		t.turn = 0
	}

	// If the leaver was at the cursor, it now points at the next seat
	// (or past the end); the advance loop settles whatever follows.
	return t.advance()
}

// reset returns the table to an empty lobby. The shoe is kept; its
// contents are irrelevant until the next round start reshuffles.
func (t *Table) reset() {
	t.seats = nil
	t.queue = nil
	t.dealer = nil
	t.phase = Lobby
	t.turn = -1
	t.resolved = false
}

// CurrentPlayerID returns the id of the player due to move, or "" when
// no round is at the player-turns stage.
func (t *Table) CurrentPlayerID() string {
	if t.phase == PlayerTurns && t.turn >= 0 && t.turn < len(t.seats) {
		return t.seats[t.turn].id
	}
	return ""
}

// Phase returns the table's current phase.
func (t *Table) Phase() Phase {
	return t.phase
}

func (t *Table) seatFor(id string) *seat {
	for _, s := range t.seats {
		if s.id == id {
			return s
		}
	}
	return nil
}

func (t *Table) anyAwaitingBet() bool {
	for _, s := range t.seats {
		if s.awaitingBet != nil {
			return true
		}
	}
	return false
}
