package main

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/jwebster45206/terminal-scroll/internal/config"
	"github.com/jwebster45206/terminal-scroll/internal/logger"
	"github.com/jwebster45206/terminal-scroll/internal/services"
	"github.com/jwebster45206/terminal-scroll/internal/storage"
	"github.com/jwebster45206/terminal-scroll/pkg/textfilter"
	"github.com/jwebster45206/terminal-scroll/pkg/turn"
)

func main() {
	// Optional .env for local development.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	log := logger.Setup(cfg)
	provider := services.NewOpenAIService(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel, log)
	filter := textfilter.NewFilter(cfg.ContentRating)

	var store storage.Storage
	if cfg.RedisURL != "" {
		rs, err := storage.NewRedisStorage(cfg.RedisURL, log)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Storage error: %v\n", err)
			os.Exit(1)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := rs.Ping(ctx); err != nil {
			cancel()
			fmt.Fprintf(os.Stderr, "Could not connect to Redis at %s: %v\n", cfg.RedisURL, err)
			os.Exit(1)
		}
		cancel()
		store = rs
		defer func() { _ = rs.Close() }()
	}

	var engine *turn.Engine
	if cfg.SessionID != "" {
		session, err := store.LoadSession(context.Background(), cfg.SessionID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load session %s: %v\n", cfg.SessionID, err)
			os.Exit(1)
		}
		if session == nil {
			fmt.Fprintf(os.Stderr, "No saved session with ID %s\n", cfg.SessionID)
			os.Exit(1)
		}
		engine = turn.ResumeEngine(provider, log, session.GameState, session.Messages)
		log.Info("Session resumed", "session_id", cfg.SessionID)
	}

	ui, err := NewGameUI(provider, log, store, filter, engine)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}

	p := tea.NewProgram(ui,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
}
