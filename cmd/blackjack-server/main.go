package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/feltworks/blackjack/internal/server"
)

var CLI struct {
	Config   string `short:"c" long:"config" default:"blackjack-server.hcl" help:"Path to HCL configuration file"`
	Addr     string `short:"a" long:"addr" help:"Server address to bind to (overrides config)"`
	Port     int    `short:"p" long:"port" help:"Server port to bind to (overrides config)"`
	LogLevel string `short:"l" long:"log-level" help:"Log level (overrides config)"`
}

func main() {
	// Optional .env for local development; missing file is fine
	_ = godotenv.Load()

	ctx := kong.Parse(&CLI)

	cfg, err := server.LoadConfig(CLI.Config)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		ctx.Exit(1)
	}

	// Apply command line overrides
	if CLI.Addr != "" {
		cfg.Server.Address = CLI.Addr
	}
	if CLI.Port != 0 {
		cfg.Server.Port = CLI.Port
	}
	if CLI.LogLevel != "" {
		cfg.Server.LogLevel = CLI.LogLevel
	}

	if err := cfg.Validate(); err != nil {
		fmt.Printf("Invalid configuration: %v\n", err)
		ctx.Exit(1)
	}

	logger := log.New(os.Stderr)
	switch cfg.Server.LogLevel {
	case "debug":
		logger.SetLevel(log.DebugLevel)
	case "info":
		logger.SetLevel(log.InfoLevel)
	case "warn":
		logger.SetLevel(log.WarnLevel)
	case "error":
		logger.SetLevel(log.ErrorLevel)
	default:
		logger.SetLevel(log.InfoLevel)
	}

	logger.Info("Starting blackjack server",
		"addr", cfg.ListenAddress(),
		"tables", len(cfg.Tables))

	wsServer := server.NewServer(cfg.ListenAddress(), logger)
	gameService := server.NewGameService(wsServer, logger, quartz.NewReal())

	for _, tableConfig := range cfg.Tables {
		room, err := gameService.CreateRoom(tableConfig)
		if err != nil {
			logger.Error("Failed to create table", "error", err, "table", tableConfig.Name)
			ctx.Exit(1)
		}
		logger.Info("Table ready", "table", room.ID(), "decks", tableConfig.NumDecks)
	}

	// Serve until interrupted
	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(sigCtx)
	g.Go(func() error {
		return wsServer.Start()
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server...")
		return wsServer.Stop()
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server failed", "error", err)
		ctx.Exit(1)
	}
}
