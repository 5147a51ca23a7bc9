package server

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feltworks/blackjack/internal/blackjack"
	"github.com/feltworks/blackjack/internal/deck"
)

type updateRecorder struct {
	mu      sync.Mutex
	indices []int
	models  []blackjack.Model
}

func (u *updateRecorder) record(_ string, index int, model blackjack.Model) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.indices = append(u.indices, index)
	u.models = append(u.models, model)
}

func (u *updateRecorder) last() (int, blackjack.Model) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if len(u.models) == 0 {
		return -1, blackjack.Model{}
	}
	return u.indices[len(u.indices)-1], u.models[len(u.models)-1]
}

func (u *updateRecorder) count() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.models)
}

func testLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

func card(r deck.Rank, s deck.Suit) deck.Card {
	return deck.NewCard(s, r)
}

func newTestRoom(t *testing.T, clock quartz.Clock, timeout time.Duration, cards ...deck.Card) (*Room, *updateRecorder) {
	t.Helper()
	shoe := deck.NewStacked(cards...)
	room := NewRoom("table1", nil, testLogger(), clock, timeout, blackjack.WithShoe(shoe))
	rec := &updateRecorder{}
	room.SetOnUpdate(rec.record)
	return room, rec
}

func TestRoomSubmitAppliesAndBroadcasts(t *testing.T) {
	room, rec := newTestRoom(t, quartz.NewReal(), 0,
		card(deck.Ten, deck.Spades),   // alice
		card(deck.Nine, deck.Hearts),  // dealer up
		card(deck.Seven, deck.Spades), // alice
		card(deck.Eight, deck.Hearts), // dealer hole
	)

	_, err := room.AddPlayer("alice")
	require.NoError(t, err)

	err = room.Submit(blackjack.Record{Index: 0, ActorID: blackjack.DealerID, Action: "StartGame"})
	require.NoError(t, err)

	index, model := rec.last()
	assert.Equal(t, 0, index)
	assert.True(t, model.InProgress)
	assert.Equal(t, []string{"alice"}, model.Players)
	assert.Equal(t, 0, room.LastIndex())
}

func TestRoomRejectsStaleIndex(t *testing.T) {
	room, _ := newTestRoom(t, quartz.NewReal(), 0,
		card(deck.Ten, deck.Spades),
		card(deck.Nine, deck.Hearts),
		card(deck.Seven, deck.Spades),
		card(deck.Eight, deck.Hearts),
	)

	_, err := room.AddPlayer("alice")
	require.NoError(t, err)

	require.NoError(t, room.Submit(blackjack.Record{Index: 0, ActorID: blackjack.DealerID, Action: "StartGame"}))

	// Replay of an already-applied record
	err = room.Submit(blackjack.Record{Index: 0, ActorID: "alice", Action: "Wager:25"})
	assert.ErrorIs(t, err, ErrStaleAction)

	// Index below the high water mark
	err = room.Submit(blackjack.Record{Index: -3, ActorID: "alice", Action: "Wager:25"})
	assert.ErrorIs(t, err, ErrStaleAction)

	// The next index is fine, gaps included
	err = room.Submit(blackjack.Record{Index: 5, ActorID: "alice", Action: "Wager:25"})
	require.NoError(t, err)
	assert.Equal(t, 5, room.LastIndex())
}

func TestRoomRejectsMalformedAction(t *testing.T) {
	room, rec := newTestRoom(t, quartz.NewReal(), 0,
		card(deck.Ten, deck.Spades),
		card(deck.Nine, deck.Hearts),
		card(deck.Seven, deck.Spades),
		card(deck.Eight, deck.Hearts),
	)

	_, err := room.AddPlayer("alice")
	require.NoError(t, err)
	updates := rec.count()

	err = room.Submit(blackjack.Record{Index: 0, ActorID: "alice", Action: "Surrender"})
	assert.ErrorIs(t, err, blackjack.ErrUnknownAction)

	// Nothing applied, nothing broadcast, index untouched
	assert.Equal(t, -1, room.LastIndex())
	assert.Equal(t, updates, rec.count())
}

func TestRoomEngineErrorDoesNotAdvanceIndex(t *testing.T) {
	room, _ := newTestRoom(t, quartz.NewReal(), 0,
		card(deck.Ten, deck.Spades),
		card(deck.Nine, deck.Hearts),
		card(deck.Seven, deck.Spades),
		card(deck.Eight, deck.Hearts),
	)

	_, err := room.AddPlayer("alice")
	require.NoError(t, err)

	// Only the dealer can start the round
	err = room.Submit(blackjack.Record{Index: 0, ActorID: "alice", Action: "StartGame"})
	assert.ErrorIs(t, err, blackjack.ErrOutOfTurn)
	assert.Equal(t, -1, room.LastIndex())

	// The same index is still usable after the rejection
	err = room.Submit(blackjack.Record{Index: 0, ActorID: blackjack.DealerID, Action: "StartGame"})
	require.NoError(t, err)
}

func TestRoomRemovePlayerAssignsIndex(t *testing.T) {
	room, rec := newTestRoom(t, quartz.NewReal(), 0,
		card(deck.Ten, deck.Spades),
		card(deck.Nine, deck.Hearts),
		card(deck.Seven, deck.Spades),
		card(deck.Eight, deck.Hearts),
	)

	_, err := room.AddPlayer("alice")
	require.NoError(t, err)
	_, err = room.AddPlayer("bob")
	require.NoError(t, err)

	require.NoError(t, room.RemovePlayer("bob"))

	index, model := rec.last()
	assert.Equal(t, 0, index)
	assert.NotContains(t, model.Queue, "bob")

	// Client records must come in above the synthesized one
	err = room.Submit(blackjack.Record{Index: 0, ActorID: blackjack.DealerID, Action: "StartGame"})
	assert.ErrorIs(t, err, ErrStaleAction)
	require.NoError(t, room.Submit(blackjack.Record{Index: 1, ActorID: blackjack.DealerID, Action: "StartGame"}))
}

func TestRoomTurnTimeoutStandsPlayer(t *testing.T) {
	mockClock := quartz.NewMock(t)
	room, rec := newTestRoom(t, mockClock, 10*time.Second,
		card(deck.Ten, deck.Spades),   // alice
		card(deck.Nine, deck.Hearts),  // dealer up
		card(deck.Seven, deck.Spades), // alice
		card(deck.Eight, deck.Hearts), // dealer hole
	)

	var timeoutMu sync.Mutex
	var timedOut []string
	room.SetOnTimeout(func(tableID, playerID string) {
		timeoutMu.Lock()
		defer timeoutMu.Unlock()
		timedOut = append(timedOut, tableID+"/"+playerID)
	})

	_, err := room.AddPlayer("alice")
	require.NoError(t, err)
	require.NoError(t, room.Submit(blackjack.Record{Index: 0, ActorID: blackjack.DealerID, Action: "StartGame"}))
	require.NoError(t, room.Submit(blackjack.Record{Index: 1, ActorID: "alice", Action: "Wager:25"}))

	_, model := rec.last()
	require.Equal(t, "alice", model.CurrentID)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	mockClock.Advance(10 * time.Second).MustWait(ctx)

	// Forced stand ended alice's turn and let the dealer resolve. Both
	// sit on 17 so the hand pushes.
	index, model := rec.last()
	assert.Equal(t, 2, index)
	assert.Empty(t, model.CurrentID)
	assert.Equal(t, blackjack.ResultPushed, model.Results[0][0])
	assert.Equal(t, 100.0, model.Balances[0])

	// The timed-out player got a direct notice
	timeoutMu.Lock()
	defer timeoutMu.Unlock()
	assert.Equal(t, []string{"table1/alice"}, timedOut)
}

func TestRoomRemoveUnknownPlayer(t *testing.T) {
	room, _ := newTestRoom(t, quartz.NewReal(), 0,
		card(deck.Ten, deck.Spades),
		card(deck.Nine, deck.Hearts),
		card(deck.Seven, deck.Spades),
		card(deck.Eight, deck.Hearts),
	)

	_, err := room.AddPlayer("alice")
	require.NoError(t, err)

	err = room.RemovePlayer("ghost")
	require.ErrorIs(t, err, blackjack.ErrUnknownPlayer)
	assert.Equal(t, ErrorCodeUnknownPlayer, errorCode(err))
	assert.Equal(t, -1, room.LastIndex())
}

func TestRoomTurnTimerSupersededByAction(t *testing.T) {
	mockClock := quartz.NewMock(t)
	room, rec := newTestRoom(t, mockClock, 10*time.Second,
		card(deck.Ten, deck.Spades),    // alice
		card(deck.Nine, deck.Clubs),    // bob
		card(deck.Nine, deck.Hearts),   // dealer up
		card(deck.Seven, deck.Spades),  // alice
		card(deck.Eight, deck.Clubs),   // bob
		card(deck.Eight, deck.Hearts),  // dealer hole
	)

	_, err := room.AddPlayer("alice")
	require.NoError(t, err)
	_, err = room.AddPlayer("bob")
	require.NoError(t, err)
	require.NoError(t, room.Submit(blackjack.Record{Index: 0, ActorID: blackjack.DealerID, Action: "StartGame"}))
	require.NoError(t, room.Submit(blackjack.Record{Index: 1, ActorID: "alice", Action: "Wager:25"}))
	require.NoError(t, room.Submit(blackjack.Record{Index: 2, ActorID: "bob", Action: "Wager:25"}))

	// Alice acts well before her timer fires
	mockClock.Advance(4 * time.Second)
	require.NoError(t, room.Submit(blackjack.Record{Index: 3, ActorID: "alice", Action: "Stand"}))

	_, model := rec.last()
	require.Equal(t, "bob", model.CurrentID)

	// Bob gets a full fresh timeout, so 6 more seconds changes nothing
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	mockClock.Advance(6 * time.Second).MustWait(ctx)
	_, model = rec.last()
	assert.Equal(t, "bob", model.CurrentID)

	// The remaining 4 seconds expire bob's timer and force his stand
	mockClock.Advance(4 * time.Second).MustWait(ctx)
	index, model := rec.last()
	assert.Equal(t, 4, index)
	assert.Empty(t, model.CurrentID)
}
