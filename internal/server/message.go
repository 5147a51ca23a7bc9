package server

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/feltworks/blackjack/internal/blackjack"
)

// Message is the envelope for all websocket traffic in both directions.
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewMessage creates a message with the given type and payload
func NewMessage(msgType MessageType, data interface{}) (*Message, error) {
	var raw json.RawMessage
	if data != nil {
		encoded, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal message data: %w", err)
		}
		raw = encoded
	}

	return &Message{
		Type:      msgType,
		Data:      raw,
		Timestamp: time.Now(),
	}, nil
}

// ParseData unmarshals the message payload into the given value
func (m *Message) ParseData(v interface{}) error {
	if len(m.Data) == 0 {
		return fmt.Errorf("message has no data")
	}
	return json.Unmarshal(m.Data, v)
}

// AuthData is sent by clients to identify themselves
type AuthData struct {
	PlayerName string `json:"playerName"`
}

// AuthResponseData confirms or rejects an auth request
type AuthResponseData struct {
	Success  bool   `json:"success"`
	PlayerID string `json:"playerId,omitempty"`
	Error    string `json:"error,omitempty"`
}

// JoinTableData asks to be seated or queued at a table
type JoinTableData struct {
	TableID string `json:"tableId"`
}

// LeaveTableData asks to leave a table
type LeaveTableData struct {
	TableID string `json:"tableId"`
}

// GameActionData carries one entry of a table's action stream.
type GameActionData struct {
	TableID  string `json:"tableId"`
	Index    int    `json:"index"`
	PlayerID string `json:"playerId"`
	Action   string `json:"action"`
}

// Record converts the payload into an engine action record.
func (d GameActionData) Record() blackjack.Record {
	return blackjack.Record{
		Index:   d.Index,
		ActorID: d.PlayerID,
		Action:  d.Action,
	}
}

// TableJoinedData confirms a join and snapshots the table
type TableJoinedData struct {
	TableID string          `json:"tableId"`
	State   blackjack.Model `json:"state"`
}

// TableLeftData confirms a leave
type TableLeftData struct {
	TableID string `json:"tableId"`
}

// TableInfo summarizes one table for listings
type TableInfo struct {
	ID          string `json:"id"`
	Players     int    `json:"players"`
	Queued      int    `json:"queued"`
	InProgress  bool   `json:"inProgress"`
	TurnTimeout int    `json:"turnTimeoutSeconds,omitempty"`
}

// TableListData carries the table directory
type TableListData struct {
	Tables []TableInfo `json:"tables"`
}

// GameStateData broadcasts a table snapshot after a state change.
type GameStateData struct {
	TableID string          `json:"tableId"`
	Index   int             `json:"index"`
	State   blackjack.Model `json:"state"`
}

// TurnTimeoutData tells a player their turn timer expired and the
// server stood their hand for them.
type TurnTimeoutData struct {
	TableID  string `json:"tableId"`
	PlayerID string `json:"playerId"`
}

// ErrorData reports a rejected request back to one client
type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
