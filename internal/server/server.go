package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
)

// Server represents the WebSocket server
type Server struct {
	addr        string
	upgrader    websocket.Upgrader
	connections map[*Connection]bool
	register    chan *Connection
	unregister  chan *Connection
	logger      *log.Logger
	mu          sync.RWMutex
	ctx         context.Context
	cancel      context.CancelFunc
	httpServer  *http.Server
	gameService *GameService
}

// NewServer creates a new WebSocket server
func NewServer(addr string, logger *log.Logger) *Server {
	ctx, cancel := context.WithCancel(context.Background())

	return &Server{
		addr: addr,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// For development, allow all origins
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		connections: make(map[*Connection]bool),
		register:    make(chan *Connection),
		unregister:  make(chan *Connection),
		logger:      logger.WithPrefix("server"),
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Router builds the HTTP routes served by this server.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/ws", s.handleWebSocket)
	r.Get("/health", s.handleHealth)
	r.Get("/tables", s.handleTables)
	r.Get("/tables/{tableID}", s.handleTableState)

	return r
}

// Start starts the WebSocket server and blocks until it stops
func (s *Server) Start() error {
	go s.run()

	s.httpServer = &http.Server{
		Addr:    s.addr,
		Handler: s.Router(),
	}

	s.logger.Info("Starting server", "addr", s.addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop stops the WebSocket server
func (s *Server) Stop() error {
	s.cancel()

	s.mu.Lock()
	for conn := range s.connections {
		_ = conn.Close()
	}
	s.mu.Unlock()

	if s.httpServer != nil {
		return s.httpServer.Shutdown(context.Background())
	}
	return nil
}

// run handles connection lifecycle
func (s *Server) run() {
	for {
		select {
		case conn := <-s.register:
			s.mu.Lock()
			s.connections[conn] = true
			total := len(s.connections)
			s.mu.Unlock()
			s.logger.Info("Client connected", "total", total)

		case conn := <-s.unregister:
			var playerID, tableID string
			s.mu.Lock()
			if _, ok := s.connections[conn]; ok {
				delete(s.connections, conn)
				playerID = conn.GetPlayer()
				tableID = conn.GetTable()
				_ = conn.Close()
			}
			total := len(s.connections)
			s.mu.Unlock()

			// Leave any table the player was seated at so the round
			// can move on without them. LeaveTable broadcasts the new
			// table state, which takes the connection lock again, so
			// it must run outside the critical section.
			if playerID != "" && tableID != "" && s.gameService != nil {
				s.logger.Info("Cleaning up disconnected player", "player", playerID, "table", tableID)
				_ = s.gameService.LeaveTable(tableID, playerID)
			}
			s.logger.Info("Client disconnected", "total", total)

		case <-s.ctx.Done():
			return
		}
	}
}

// handleWebSocket handles WebSocket upgrade requests
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("Failed to upgrade connection", "error", err)
		return
	}

	client := NewConnection(conn, s.logger, s.gameService)
	s.register <- client
	client.Start()

	go func() {
		<-client.ctx.Done()
		s.unregister <- client
	}()
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "OK")
}

// handleTables serves the table directory over plain HTTP
func (s *Server) handleTables(w http.ResponseWriter, r *http.Request) {
	if s.gameService == nil {
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(TableListData{Tables: s.gameService.ListTables()})
}

// handleTableState serves a read-only snapshot of one table
func (s *Server) handleTableState(w http.ResponseWriter, r *http.Request) {
	if s.gameService == nil {
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return
	}

	tableID := chi.URLParam(r, "tableID")
	room := s.gameService.GetRoom(tableID)
	if room == nil {
		http.Error(w, "unknown table", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(GameStateData{
		TableID: tableID,
		Index:   room.LastIndex(),
		State:   room.Model(),
	})
}

// BroadcastToTable sends a message to all connections at a specific table
func (s *Server) BroadcastToTable(tableID string, msg *Message) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for conn := range s.connections {
		if conn.GetTable() == tableID {
			if err := conn.SendMessage(msg); err != nil {
				s.logger.Error("Failed to send message to client", "error", err, "player", conn.GetPlayer())
			} else {
				count++
			}
		}
	}

	s.logger.Debug("Broadcasted message to table", "tableId", tableID, "type", msg.Type, "recipients", count)
}

// SendToPlayer sends a message to a specific player
func (s *Server) SendToPlayer(playerID string, msg *Message) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for conn := range s.connections {
		if conn.GetPlayer() == playerID {
			return conn.SendMessage(msg)
		}
	}

	return fmt.Errorf("player not found: %s", playerID)
}

// SetGameService sets the game service for the server
func (s *Server) SetGameService(gameService *GameService) {
	s.gameService = gameService
}
