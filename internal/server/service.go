package server

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/feltworks/blackjack/internal/blackjack"
	"github.com/feltworks/blackjack/internal/randutil"
)

// ErrUnknownTable is returned for requests naming a table that was
// never configured.
var ErrUnknownTable = errors.New("unknown table")

// GameService manages the set of rooms and routes client requests to
// them. Each room serializes its own table; the service only guards the
// room registry.
type GameService struct {
	server *Server
	logger *log.Logger
	clock  quartz.Clock

	mu    sync.RWMutex
	rooms map[string]*Room
}

// NewGameService creates a game service backed by the given server
func NewGameService(server *Server, logger *log.Logger, clock quartz.Clock) *GameService {
	gs := &GameService{
		server: server,
		logger: logger.WithPrefix("service"),
		clock:  clock,
		rooms:  make(map[string]*Room),
	}
	server.SetGameService(gs)
	return gs
}

// CreateRoom builds a room from its table configuration and registers
// it for traffic.
func (gs *GameService) CreateRoom(cfg TableConfig) (*Room, error) {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	if _, exists := gs.rooms[cfg.Name]; exists {
		return nil, fmt.Errorf("table already exists: %s", cfg.Name)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = gs.clock.Now().UnixNano()
	}

	rng := randutil.New(seed)
	if !cfg.Shuffled() {
		rng = nil
	}

	timeout := time.Duration(cfg.TurnTimeoutSeconds) * time.Second
	room := NewRoom(cfg.Name, rng, gs.logger, gs.clock, timeout, blackjack.WithNumDecks(cfg.NumDecks))
	room.SetOnUpdate(gs.broadcastState)
	room.SetOnTimeout(gs.notifyTimeout)

	gs.rooms[cfg.Name] = room
	gs.logger.Info("created table", "table", cfg.Name, "decks", cfg.NumDecks, "shuffled", cfg.Shuffled(), "turnTimeout", timeout.String())
	return room, nil
}

// GetRoom looks up a room by table ID
func (gs *GameService) GetRoom(tableID string) *Room {
	gs.mu.RLock()
	defer gs.mu.RUnlock()
	return gs.rooms[tableID]
}

// ListTables returns info for every configured table
func (gs *GameService) ListTables() []TableInfo {
	gs.mu.RLock()
	rooms := make([]*Room, 0, len(gs.rooms))
	for _, room := range gs.rooms {
		rooms = append(rooms, room)
	}
	gs.mu.RUnlock()

	tables := make([]TableInfo, 0, len(rooms))
	for _, room := range rooms {
		tables = append(tables, room.Info())
	}
	return tables
}

// JoinTable seats or queues a player at a table
func (gs *GameService) JoinTable(tableID, playerID string) (blackjack.Model, error) {
	room := gs.GetRoom(tableID)
	if room == nil {
		return blackjack.Model{}, fmt.Errorf("%w: %s", ErrUnknownTable, tableID)
	}
	return room.AddPlayer(playerID)
}

// LeaveTable removes a player from a table. Also used for cleanup when
// a connection drops.
func (gs *GameService) LeaveTable(tableID, playerID string) error {
	room := gs.GetRoom(tableID)
	if room == nil {
		return fmt.Errorf("%w: %s", ErrUnknownTable, tableID)
	}
	return room.RemovePlayer(playerID)
}

// HandleAction applies a client-submitted action record. playerID is
// the authenticated identity of the submitting connection; it must
// match the record's actor unless the record acts for the dealer, which
// any seated client may drive.
func (gs *GameService) HandleAction(playerID string, data GameActionData) error {
	if data.PlayerID != playerID && data.PlayerID != blackjack.DealerID {
		return fmt.Errorf("cannot act for player %s", data.PlayerID)
	}

	room := gs.GetRoom(data.TableID)
	if room == nil {
		return fmt.Errorf("%w: %s", ErrUnknownTable, data.TableID)
	}
	return room.Submit(data.Record())
}

// broadcastState fans a fresh table snapshot out to everyone at the
// table.
func (gs *GameService) broadcastState(tableID string, index int, model blackjack.Model) {
	msg, err := NewMessage(MessageTypeGameState, GameStateData{
		TableID: tableID,
		Index:   index,
		State:   model,
	})
	if err != nil {
		gs.logger.Error("failed to create game state message", "error", err)
		return
	}
	gs.server.BroadcastToTable(tableID, msg)
}

// notifyTimeout tells the timed-out player directly that the server
// stood their hand. The table-wide state change travels separately via
// broadcastState.
func (gs *GameService) notifyTimeout(tableID, playerID string) {
	msg, err := NewMessage(MessageTypeTurnTimeout, TurnTimeoutData{
		TableID:  tableID,
		PlayerID: playerID,
	})
	if err != nil {
		gs.logger.Error("failed to create turn timeout message", "error", err)
		return
	}
	if err := gs.server.SendToPlayer(playerID, msg); err != nil {
		// The player may have disconnected between arming the timer
		// and its expiry
		gs.logger.Debug("could not deliver turn timeout notice", "player", playerID, "error", err)
	}
}
