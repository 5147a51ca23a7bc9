package server

import (
	"errors"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/feltworks/blackjack/internal/blackjack"
	"github.com/feltworks/blackjack/internal/deck"
)

// ErrStaleAction is returned when an action record arrives with an index
// at or below one already applied. The client is racing another client
// and must resubmit against the latest broadcast state.
var ErrStaleAction = errors.New("stale action index")

// Room wraps a single table behind a mutex so that concurrent websocket
// handlers apply actions one at a time. The mutex is held for the full
// duration of each Apply call, which keeps the index gate and the table
// mutation atomic with respect to each other.
type Room struct {
	id          string
	logger      *log.Logger
	clock       quartz.Clock
	turnTimeout time.Duration

	// onUpdate is invoked, outside the lock, with a fresh snapshot
	// after every successful state change.
	onUpdate func(tableID string, index int, model blackjack.Model)

	// onTimeout is invoked, outside the lock, when an expired turn
	// timer forces a player to stand.
	onTimeout func(tableID, playerID string)

	mu        sync.Mutex
	table     *blackjack.Table
	lastIndex int
	timer     *quartz.Timer
	timerGen  int
}

// NewRoom creates a room around a fresh table.
func NewRoom(id string, rng *rand.Rand, logger *log.Logger, clock quartz.Clock, turnTimeout time.Duration, opts ...blackjack.Option) *Room {
	return &Room{
		id:          id,
		logger:      logger.WithPrefix("room:" + id),
		clock:       clock,
		turnTimeout: turnTimeout,
		table:       blackjack.NewTable(rng, opts...),
		lastIndex:   -1,
	}
}

// ID returns the room identifier
func (r *Room) ID() string {
	return r.id
}

// SetOnUpdate registers the broadcast callback. Must be called before
// the room receives traffic.
func (r *Room) SetOnUpdate(fn func(tableID string, index int, model blackjack.Model)) {
	r.onUpdate = fn
}

// SetOnTimeout registers the forced-stand notification callback. Must
// be called before the room receives traffic.
func (r *Room) SetOnTimeout(fn func(tableID, playerID string)) {
	r.onTimeout = fn
}

// AddPlayer seats or queues a player and broadcasts the new state.
func (r *Room) AddPlayer(id string) (blackjack.Model, error) {
	r.mu.Lock()
	err := r.table.AddPlayer(id)
	if err != nil {
		r.mu.Unlock()
		return blackjack.Model{}, err
	}
	index, model := r.snapshotLocked()
	r.mu.Unlock()

	r.logger.Info("player joined", "player", id)
	r.notify(index, model)
	return model, nil
}

// Submit validates an action record's index, applies it to the table and
// broadcasts the resulting state. Records whose index is not strictly
// greater than the last applied one are rejected with ErrStaleAction.
func (r *Room) Submit(rec blackjack.Record) error {
	action, err := blackjack.ParseAction(rec.Action)
	if err != nil {
		return err
	}

	r.mu.Lock()
	if rec.Index <= r.lastIndex {
		r.mu.Unlock()
		return ErrStaleAction
	}
	if err := r.table.Apply(rec.ActorID, action); err != nil {
		r.mu.Unlock()
		return err
	}
	r.lastIndex = rec.Index
	index, model := r.snapshotLocked()
	r.mu.Unlock()

	r.logger.Debug("applied action", "index", rec.Index, "actor", rec.ActorID, "action", rec.Action)
	r.notify(index, model)
	return nil
}

// RemovePlayer leaves the table on behalf of a disconnected player. The
// record is synthesized server-side, so the room assigns the index.
func (r *Room) RemovePlayer(id string) error {
	r.mu.Lock()
	if err := r.table.Apply(id, blackjack.Leave{}); err != nil {
		r.mu.Unlock()
		return err
	}
	r.lastIndex++
	index, model := r.snapshotLocked()
	r.mu.Unlock()

	r.logger.Info("player left", "player", id)
	r.notify(index, model)
	return nil
}

// Model returns a snapshot of the table state
func (r *Room) Model() blackjack.Model {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.table.ToModel()
}

// LastIndex returns the index of the most recently applied record.
func (r *Room) LastIndex() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastIndex
}

// Info summarizes the room for table listings
func (r *Room) Info() TableInfo {
	r.mu.Lock()
	model := r.table.ToModel()
	r.mu.Unlock()

	return TableInfo{
		ID:          r.id,
		Players:     len(model.Players),
		Queued:      len(model.Queue),
		InProgress:  model.InProgress,
		TurnTimeout: int(r.turnTimeout / time.Second),
	}
}

// snapshotLocked captures the broadcast payload and rearms the turn
// timer. Caller holds r.mu.
func (r *Room) snapshotLocked() (int, blackjack.Model) {
	r.resetTimerLocked()
	return r.lastIndex, r.table.ToModel()
}

func (r *Room) notify(index int, model blackjack.Model) {
	if r.onUpdate != nil {
		r.onUpdate(r.id, index, model)
	}
}

// resetTimerLocked cancels any pending turn timer and arms a new one if
// somebody is on the clock. Caller holds r.mu.
func (r *Room) resetTimerLocked() {
	if r.turnTimeout <= 0 {
		return
	}
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
	r.timerGen++

	current := r.table.CurrentPlayerID()
	if current == "" || current == blackjack.DealerID {
		return
	}

	gen := r.timerGen
	r.timer = r.clock.AfterFunc(r.turnTimeout, func() {
		r.forceStand(current, gen)
	})
}

// forceStand stands a player whose turn timer expired. The generation
// check discards timers that were superseded while the callback was in
// flight.
func (r *Room) forceStand(id string, gen int) {
	r.mu.Lock()
	if gen != r.timerGen || r.table.CurrentPlayerID() != id {
		r.mu.Unlock()
		return
	}
	if err := r.table.Apply(id, blackjack.Stand{}); err != nil {
		r.mu.Unlock()
		r.logger.Warn("forced stand failed", "player", id, "error", err)
		return
	}
	r.lastIndex++
	index, model := r.snapshotLocked()
	r.mu.Unlock()

	r.logger.Info("turn timed out, standing player", "player", id, "timeout", r.turnTimeout.String())
	if r.onTimeout != nil {
		r.onTimeout(r.id, id)
	}
	r.notify(index, model)
}

// errorCode maps engine and room errors to protocol error codes.
func errorCode(err error) string {
	switch {
	case errors.Is(err, blackjack.ErrTableFull):
		return ErrorCodeTableFull
	case errors.Is(err, blackjack.ErrDuplicateSeat):
		return ErrorCodeDuplicateSeat
	case errors.Is(err, blackjack.ErrOutOfTurn):
		return ErrorCodeOutOfTurn
	case errors.Is(err, blackjack.ErrInvalidBet):
		return ErrorCodeInvalidBet
	case errors.Is(err, blackjack.ErrInvalidHandValue):
		return ErrorCodeInvalidHand
	case errors.Is(err, blackjack.ErrUnequalCards):
		return ErrorCodeUnequalCards
	case errors.Is(err, blackjack.ErrUnknownAction):
		return ErrorCodeUnknownAction
	case errors.Is(err, blackjack.ErrUnknownPlayer):
		return ErrorCodeUnknownPlayer
	case errors.Is(err, deck.ErrEmptyShoe):
		return ErrorCodeEmptyShoe
	case errors.Is(err, ErrStaleAction):
		return ErrorCodeStaleAction
	case errors.Is(err, ErrUnknownTable):
		return ErrorCodeUnknownTable
	default:
		return ErrorCodeInternal
	}
}
