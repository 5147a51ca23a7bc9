package server

// MessageType identifies the type of a websocket message
type MessageType string

// Client to server message types
const (
	MessageTypeAuth       MessageType = "auth"
	MessageTypeJoinTable  MessageType = "join_table"
	MessageTypeLeaveTable MessageType = "leave_table"
	MessageTypeListTables MessageType = "list_tables"
	MessageTypeGameAction MessageType = "game_action"
)

// Server to client message types
const (
	MessageTypeAuthResponse MessageType = "auth_response"
	MessageTypeTableJoined  MessageType = "table_joined"
	MessageTypeTableLeft    MessageType = "table_left"
	MessageTypeTableList    MessageType = "table_list"
	MessageTypeGameState    MessageType = "game_state"
	MessageTypeTurnTimeout  MessageType = "turn_timeout"
	MessageTypeError        MessageType = "error"
)

// Error codes sent in ErrorData
const (
	ErrorCodeNotAuthenticated = "not_authenticated"
	ErrorCodeUnknownTable     = "unknown_table"
	ErrorCodeTableFull        = "table_full"
	ErrorCodeDuplicateSeat    = "duplicate_seat"
	ErrorCodeOutOfTurn        = "out_of_turn"
	ErrorCodeInvalidBet       = "invalid_bet"
	ErrorCodeInvalidHand      = "invalid_hand"
	ErrorCodeUnequalCards     = "unequal_cards"
	ErrorCodeUnknownAction    = "unknown_action"
	ErrorCodeUnknownPlayer    = "unknown_player"
	ErrorCodeEmptyShoe        = "empty_shoe"
	ErrorCodeStaleAction      = "stale_action"
	ErrorCodeInternal         = "internal"
)
