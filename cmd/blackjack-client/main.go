package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/muesli/termenv"

	"github.com/feltworks/blackjack/internal/client"
	"github.com/feltworks/blackjack/internal/tui"
)

var CLI struct {
	Config   string `short:"c" long:"config" default:"blackjack-client.hcl" help:"Path to HCL configuration file"`
	Server   string `short:"s" long:"server" help:"Server URL to connect to (overrides config)"`
	Player   string `short:"p" long:"player" help:"Player name (overrides config)"`
	Table    string `short:"t" long:"table" help:"Table to join on connect (overrides config)"`
	LogLevel string `short:"l" long:"log-level" help:"Log level (overrides config)"`
	LogFile  string `long:"log-file" help:"Log file path (overrides config)"`
}

func main() {
	_ = godotenv.Load()

	ctx := kong.Parse(&CLI)

	cfg, err := client.LoadClientConfig(CLI.Config)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		ctx.Exit(1)
	}

	// Apply command line overrides
	if CLI.Server != "" {
		cfg.Server.URL = CLI.Server
	}
	if CLI.Player != "" {
		cfg.Player.Name = CLI.Player
	}
	if CLI.Table != "" {
		cfg.Player.DefaultTable = CLI.Table
	}
	if CLI.LogLevel != "" {
		cfg.UI.LogLevel = CLI.LogLevel
	}
	if CLI.LogFile != "" {
		cfg.UI.LogFile = CLI.LogFile
	}

	// Prompt for a name if none was supplied
	if cfg.Player.Name == "" {
		fmt.Print("Enter your player name: ")
		var input string
		_, _ = fmt.Scanln(&input)
		cfg.Player.Name = strings.TrimSpace(input)
	}

	if err := cfg.Validate(); err != nil {
		fmt.Printf("Invalid configuration: %v\n", err)
		ctx.Exit(1)
	}

	// The TUI owns the terminal, so logs go to a file
	logFile, err := os.OpenFile(cfg.UI.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o666)
	if err != nil {
		fmt.Printf("Failed to open log file: %v\n", err)
		ctx.Exit(1)
	}
	defer func() { _ = logFile.Close() }()

	logger := log.New(logFile)
	switch cfg.UI.LogLevel {
	case "debug":
		logger.SetLevel(log.DebugLevel)
	case "info":
		logger.SetLevel(log.InfoLevel)
	case "warn":
		logger.SetLevel(log.WarnLevel)
	case "error":
		logger.SetLevel(log.ErrorLevel)
	default:
		logger.SetLevel(log.WarnLevel)
	}

	logger.Info("Starting blackjack client",
		"server", cfg.Server.URL,
		"player", cfg.Player.Name)

	// Pin the color profile before the TUI renders anything
	lipgloss.SetColorProfile(termenv.ColorProfile())

	wsClient := client.NewClient(cfg.Server.URL, logger)

	model := tui.NewModel(wsClient, cfg.Player.Name, logger)
	program := tea.NewProgram(model, tea.WithAltScreen())

	tui.SetupNetworkHandlers(wsClient, program, logger)

	if err := wsClient.Connect(); err != nil {
		fmt.Printf("Failed to connect to server: %v\n", err)
		ctx.Exit(1)
	}
	defer func() { _ = wsClient.Disconnect() }()

	if err := wsClient.Auth(cfg.Player.Name); err != nil {
		fmt.Printf("Failed to authenticate: %v\n", err)
		ctx.Exit(1)
	}

	if cfg.Player.DefaultTable != "" {
		if err := wsClient.JoinTable(cfg.Player.DefaultTable); err != nil {
			logger.Error("Failed to join default table", "error", err)
		}
	}

	if _, err := program.Run(); err != nil {
		fmt.Printf("Error running TUI: %v\n", err)
		ctx.Exit(1)
	}

	_ = wsClient.Disconnect()
}
