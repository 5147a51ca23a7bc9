package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/feltworks/blackjack/internal/client"
	"github.com/feltworks/blackjack/internal/server"
)

// Program is the subset of tea.Program the bridge needs. It exists so
// tests can capture forwarded messages without a running terminal.
type Program interface {
	Send(msg tea.Msg)
}

// SetupNetworkHandlers wires server messages into the Bubble Tea
// program. Handlers run on the client's dispatch goroutines; Send is
// safe to call from any of them.
func SetupNetworkHandlers(wsClient *client.Client, program Program, logger *log.Logger) {
	bridgeLogger := logger.WithPrefix("bridge")

	forward := func(msgType server.MessageType, build func(*server.Message) (interface{}, error)) {
		wsClient.AddEventHandler(msgType, func(msg *server.Message) {
			out, err := build(msg)
			if err != nil {
				bridgeLogger.Error("Failed to parse message", "type", msgType, "error", err)
				return
			}
			program.Send(out)
		})
	}

	forward(server.MessageTypeAuthResponse, func(msg *server.Message) (interface{}, error) {
		var data server.AuthResponseData
		err := msg.ParseData(&data)
		return AuthedMsg{Data: data}, err
	})

	forward(server.MessageTypeTableJoined, func(msg *server.Message) (interface{}, error) {
		var data server.TableJoinedData
		err := msg.ParseData(&data)
		return JoinedMsg{Data: data}, err
	})

	forward(server.MessageTypeTableLeft, func(msg *server.Message) (interface{}, error) {
		var data server.TableLeftData
		err := msg.ParseData(&data)
		return LeftMsg{Data: data}, err
	})

	forward(server.MessageTypeTableList, func(msg *server.Message) (interface{}, error) {
		var data server.TableListData
		err := msg.ParseData(&data)
		return TableListMsg{Data: data}, err
	})

	forward(server.MessageTypeGameState, func(msg *server.Message) (interface{}, error) {
		var data server.GameStateData
		err := msg.ParseData(&data)
		return StateMsg{Data: data}, err
	})

	forward(server.MessageTypeTurnTimeout, func(msg *server.Message) (interface{}, error) {
		var data server.TurnTimeoutData
		err := msg.ParseData(&data)
		return TurnTimeoutMsg{Data: data}, err
	})

	forward(server.MessageTypeError, func(msg *server.Message) (interface{}, error) {
		var data server.ErrorData
		err := msg.ParseData(&data)
		return ServerErrorMsg{Data: data}, err
	})
}
