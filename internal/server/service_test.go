package server

import (
	"testing"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feltworks/blackjack/internal/blackjack"
)

func newTestService(t *testing.T) *GameService {
	t.Helper()
	srv := NewServer("localhost:0", testLogger())
	gs := NewGameService(srv, testLogger(), quartz.NewReal())
	_, err := gs.CreateRoom(TableConfig{Name: "main", NumDecks: 6, Seed: 1})
	require.NoError(t, err)
	return gs
}

func TestServiceCreateRoomDuplicate(t *testing.T) {
	gs := newTestService(t)

	_, err := gs.CreateRoom(TableConfig{Name: "main", NumDecks: 6})
	assert.ErrorContains(t, err, "already exists")
}

func TestServiceJoinUnknownTable(t *testing.T) {
	gs := newTestService(t)

	_, err := gs.JoinTable("nope", "alice")
	assert.ErrorIs(t, err, ErrUnknownTable)
	assert.Equal(t, ErrorCodeUnknownTable, errorCode(err))
}

func TestServiceJoinAndList(t *testing.T) {
	gs := newTestService(t)

	model, err := gs.JoinTable("main", "alice")
	require.NoError(t, err)
	assert.Contains(t, model.Queue, "alice")

	tables := gs.ListTables()
	require.Len(t, tables, 1)
	assert.Equal(t, "main", tables[0].ID)
	assert.Equal(t, 1, tables[0].Queued)
	assert.False(t, tables[0].InProgress)
}

func TestServiceRejectsActingForOthers(t *testing.T) {
	gs := newTestService(t)

	_, err := gs.JoinTable("main", "alice")
	require.NoError(t, err)
	_, err = gs.JoinTable("main", "bob")
	require.NoError(t, err)

	err = gs.HandleAction("alice", GameActionData{
		TableID:  "main",
		Index:    0,
		PlayerID: "bob",
		Action:   "Wager:25",
	})
	assert.ErrorContains(t, err, "cannot act for player")
}

func TestServiceAllowsDrivingDealer(t *testing.T) {
	gs := newTestService(t)

	_, err := gs.JoinTable("main", "alice")
	require.NoError(t, err)

	err = gs.HandleAction("alice", GameActionData{
		TableID:  "main",
		Index:    0,
		PlayerID: blackjack.DealerID,
		Action:   "StartGame",
	})
	require.NoError(t, err)

	room := gs.GetRoom("main")
	require.NotNil(t, room)
	assert.True(t, room.Model().InProgress)
}
