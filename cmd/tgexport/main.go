package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	slogmulti "github.com/samber/slog-multi"

	"github.com/avolkov/tgexport/internal/cli"
	"github.com/avolkov/tgexport/internal/config"
	"github.com/avolkov/tgexport/internal/tdlib"
)

const configPath = "config.ini"

func main() {
	cfg, err := config.Load(configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	log, closeLog := setupLogger(cfg)
	defer closeLog()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	prompter := cli.NewLinerPrompter()
	defer prompter.Close()

	session, err := tdlib.NewSession(ctx, log, cfg, cli.LoginPrompts{P: prompter})
	if err != nil {
		log.Error("failed to connect to Telegram", "error", err)
		os.Exit(1)
	}
	defer session.Close()

	fmt.Printf("Connection to Telegram successful. Logged in as %s.\n", tdlib.GetUserFullname(session.Me()))

	controller := cli.NewController(log, cfg, session, prompter)
	if err := controller.Run(ctx); err != nil {
		log.Error("controller error", "error", err)
		os.Exit(1)
	}

	log.Info("disconnecting from Telegram")
}

// setupLogger builds a text logger on stderr, fanned out to a JSON debug
// file when settings.log_file is set.
func setupLogger(cfg *config.Config) (*slog.Logger, func()) {
	textHandler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})

	if cfg.LogFile == "" {
		log := slog.New(textHandler)
		slog.SetDefault(log)
		return log, func() {}
	}

	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		slog.Warn("failed to open log file, logging to stderr only", "path", cfg.LogFile, "error", err)
		log := slog.New(textHandler)
		slog.SetDefault(log)
		return log, func() {}
	}

	jsonHandler := slog.NewJSONHandler(f, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})
	log := slog.New(slogmulti.Fanout(textHandler, jsonHandler))
	slog.SetDefault(log)

	return log, func() { _ = f.Close() }
}
