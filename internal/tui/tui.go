package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/feltworks/blackjack/internal/blackjack"
	"github.com/feltworks/blackjack/internal/client"
	"github.com/feltworks/blackjack/internal/deck"
	"github.com/feltworks/blackjack/internal/server"
)

// Model is the Bubble Tea model for the blackjack client
type Model struct {
	client   *client.Client
	logger   *log.Logger
	playerID string

	// UI components
	logViewport viewport.Model
	actionInput textinput.Model

	// Server state
	tableID   string
	state     *blackjack.Model
	lastIndex int
	tables    []server.TableInfo

	gameLog  []string
	errLine  string
	quitting bool

	width       int
	height      int
	initialized bool
}

// Messages pushed into the program by the network bridge

// StateMsg carries a table snapshot broadcast by the server
type StateMsg struct{ Data server.GameStateData }

// JoinedMsg confirms a table join
type JoinedMsg struct{ Data server.TableJoinedData }

// LeftMsg confirms a table leave
type LeftMsg struct{ Data server.TableLeftData }

// TableListMsg carries the table directory
type TableListMsg struct{ Data server.TableListData }

// TurnTimeoutMsg reports that the server stood this player's hand
type TurnTimeoutMsg struct{ Data server.TurnTimeoutData }

// ServerErrorMsg carries a rejected request
type ServerErrorMsg struct{ Data server.ErrorData }

// AuthedMsg confirms authentication
type AuthedMsg struct{ Data server.AuthResponseData }

// NewModel creates the TUI model
func NewModel(wsClient *client.Client, playerID string, logger *log.Logger) *Model {
	vp := viewport.New(10, 5)
	vp.SetContent("")

	ti := textinput.New()
	ti.Placeholder = "deal, bet 25, hit, stand, double, split, /tables, /join, /leave, /quit"
	ti.Focus()
	ti.CharLimit = 100
	ti.Width = 80
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true)
	ti.Prompt = "> "

	return &Model{
		client:      wsClient,
		logger:      logger.WithPrefix("tui"),
		playerID:    playerID,
		logViewport: vp,
		actionInput: ti,
		lastIndex:   -1,
		gameLog:     []string{},
	}
}

// Init initializes the TUI model
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages in the TUI
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		logHeight := m.height - 16
		if logHeight < 3 {
			logHeight = 3
		}
		m.logViewport.Width = m.width - 4
		m.logViewport.Height = logHeight
		m.initialized = true

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Sequence(tea.ClearScreen, tea.Quit)
		case "enter":
			input := strings.TrimSpace(m.actionInput.Value())
			m.actionInput.SetValue("")
			if input != "" {
				if cmd := m.handleCommand(input); cmd != nil {
					return m, cmd
				}
			}
		}

	case AuthedMsg:
		if msg.Data.Success {
			m.addLog(fmt.Sprintf("Authenticated as %s", msg.Data.PlayerID))
		} else {
			m.errLine = "Authentication failed: " + msg.Data.Error
		}

	case JoinedMsg:
		m.tableID = msg.Data.TableID
		m.state = &msg.Data.State
		m.addLog(fmt.Sprintf("Joined table %s", msg.Data.TableID))
		m.addLog("Type 'deal' to start a round once everyone is in")

	case LeftMsg:
		m.addLog(fmt.Sprintf("Left table %s", msg.Data.TableID))
		m.tableID = ""
		m.state = nil
		m.lastIndex = -1

	case TableListMsg:
		m.tables = msg.Data.Tables
		if len(m.tables) == 0 {
			m.addLog("No tables available")
		}
		for _, table := range m.tables {
			m.addLog(fmt.Sprintf("  %s: %d seated, %d queued, in progress: %v",
				table.ID, table.Players, table.Queued, table.InProgress))
		}

	case StateMsg:
		if msg.Data.TableID == m.tableID {
			m.applyState(msg.Data)
		}

	case TurnTimeoutMsg:
		if msg.Data.PlayerID == m.playerID {
			m.addLog("You took too long, the dealer stood your hand")
		}

	case ServerErrorMsg:
		m.errLine = fmt.Sprintf("%s: %s", msg.Data.Code, msg.Data.Message)
		m.logger.Warn("Server rejected request", "code", msg.Data.Code, "message", msg.Data.Message)
	}

	var cmd tea.Cmd
	m.actionInput, cmd = m.actionInput.Update(msg)
	cmds = append(cmds, cmd)

	m.logViewport.SetContent(strings.Join(m.gameLog, "\n"))
	m.logViewport.GotoBottom()
	m.logViewport, cmd = m.logViewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// applyState folds a broadcast snapshot into the display
func (m *Model) applyState(data server.GameStateData) {
	prev := m.state
	m.state = &data.State
	m.lastIndex = data.Index

	if data.State.CurrentID == m.playerID {
		m.addLog("Your turn")
	}
	if prev != nil && prev.CurrentID != "" && data.State.CurrentID == "" && data.State.InProgress {
		for i, id := range data.State.Players {
			if id != m.playerID || len(data.State.Results) <= i {
				continue
			}
			for _, result := range data.State.Results[i] {
				m.addLog(fmt.Sprintf("You %s", result))
			}
		}
	}
}

// handleCommand parses player input and sends it to the server
func (m *Model) handleCommand(input string) tea.Cmd {
	m.errLine = ""
	fields := strings.Fields(input)
	command := strings.ToLower(fields[0])

	switch command {
	case "/quit", "quit":
		m.quitting = true
		return tea.Sequence(tea.ClearScreen, tea.Quit)

	case "/tables", "tables":
		m.sendOrLog(m.client.ListTables())

	case "/join", "join":
		tableID := "main"
		if len(fields) > 1 {
			tableID = fields[1]
		}
		m.sendOrLog(m.client.JoinTable(tableID))

	case "/leave", "leave":
		if m.tableID == "" {
			m.errLine = "Not at a table"
			return nil
		}
		m.sendOrLog(m.client.LeaveTable(m.tableID))

	case "deal", "start":
		m.submit(blackjack.DealerID, "StartGame")

	case "bet", "wager":
		if len(fields) < 2 {
			m.errLine = "Usage: bet <amount>"
			return nil
		}
		if _, err := strconv.Atoi(fields[1]); err != nil {
			m.errLine = "Bet amount must be a number"
			return nil
		}
		m.submit(m.playerID, "Wager:"+fields[1])

	case "hit":
		m.submit(m.playerID, "Hit")

	case "stand", "stay":
		m.submit(m.playerID, "Stand")

	case "double":
		m.submit(m.playerID, "Double")

	case "split":
		m.submit(m.playerID, "Split")

	default:
		m.errLine = "Unknown command: " + command
	}

	return nil
}

// submit sends one action record at the next index
func (m *Model) submit(actorID, action string) {
	if m.tableID == "" {
		m.errLine = "Join a table first"
		return
	}
	m.sendOrLog(m.client.SendAction(m.tableID, m.lastIndex+1, actorID, action))
}

func (m *Model) sendOrLog(err error) {
	if err != nil {
		m.errLine = err.Error()
		m.logger.Error("Failed to send message", "error", err)
	}
}

func (m *Model) addLog(entry string) {
	m.gameLog = append(m.gameLog, entry)
	if len(m.gameLog) > 500 {
		m.gameLog = m.gameLog[len(m.gameLog)-500:]
	}
}

// View renders the TUI
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.initialized {
		return "Loading..."
	}

	var b strings.Builder

	header := fmt.Sprintf(" Blackjack — %s ", m.playerID)
	if m.tableID != "" {
		header = fmt.Sprintf(" Blackjack — %s @ %s ", m.playerID, m.tableID)
	}
	b.WriteString(HeaderStyle.Render(header))
	b.WriteString("\n\n")

	b.WriteString(m.renderTable())
	b.WriteString("\n")
	b.WriteString(m.logViewport.View())
	b.WriteString("\n\n")
	b.WriteString(m.actionInput.View())
	b.WriteString("\n")

	if m.errLine != "" {
		b.WriteString(ErrorStyle.Render(m.errLine))
	} else {
		b.WriteString(InfoStyle.Render("ctrl+c to quit"))
	}

	return b.String()
}

// renderTable draws the dealer and every seat from the latest snapshot
func (m *Model) renderTable() string {
	if m.state == nil {
		return FeltStyle.Render("Not at a table. Try /tables then /join <table>.") + "\n"
	}

	var b strings.Builder
	state := m.state

	b.WriteString(DealerStyle.Render("Dealer: "))
	b.WriteString(renderHand(state.DealerHand))
	b.WriteString("\n\n")

	for i, id := range state.Players {
		marker := "  "
		if state.CurrentID == id {
			marker = TurnStyle.Render("> ")
		}

		name := id
		if id == m.playerID {
			name += " (you)"
		}

		b.WriteString(fmt.Sprintf("%s%-20s $%.2f\n", marker, name, state.Balances[i]))
		for h, hand := range state.Hands[i] {
			line := "    " + renderHand(hand)
			if len(state.Bets) > i && len(state.Bets[i]) > h {
				line += FeltStyle.Render(fmt.Sprintf("  bet $%.2f", state.Bets[i][h]))
			}
			if len(state.Results) > i && len(state.Results[i]) > h {
				line += "  " + renderResult(state.Results[i][h])
			}
			b.WriteString(line)
			b.WriteString("\n")
		}
	}

	for _, id := range state.Queue {
		b.WriteString(InfoStyle.Render(fmt.Sprintf("  %s (waiting for next round)", id)))
		b.WriteString("\n")
	}

	return b.String()
}

// renderHand draws a hand with its running value
func renderHand(hand blackjack.Hand) string {
	if len(hand) == 0 {
		return InfoStyle.Render("(no cards)")
	}

	parts := make([]string, len(hand))
	allVisible := true
	for i, card := range hand {
		parts[i] = renderCard(card)
		if !card.FaceUp {
			allVisible = false
		}
	}

	s := strings.Join(parts, " ")
	if allVisible {
		s += FeltStyle.Render(fmt.Sprintf(" (%d)", hand.Value()))
	}
	return s
}

// renderCard draws one card, hiding face-down cards
func renderCard(card deck.Card) string {
	if !card.FaceUp {
		return HiddenCardStyle.Render("[??]")
	}

	face := fmt.Sprintf("[%s%s]", card.Rank, card.Suit)
	if card.Suit.IsRed() {
		return RedCardStyle.Render(face)
	}
	return BlackCardStyle.Render(face)
}

func renderResult(result blackjack.Result) string {
	switch result {
	case blackjack.ResultWon:
		return WonStyle.Render("WON")
	case blackjack.ResultLost:
		return LostStyle.Render("LOST")
	case blackjack.ResultPushed:
		return PushedStyle.Render("PUSH")
	default:
		return ""
	}
}
