package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/chzyer/readline"

	"github.com/sudo-paoo/math-game/internal/domain/arithmetic"
	"github.com/sudo-paoo/math-game/internal/infrastructure/config"
	"github.com/sudo-paoo/math-game/internal/terminal"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Logs would interleave with the prompt, so they go to stderr and only
	// at debug level.
	var logOut io.Writer = io.Discard
	if level, _ := cfg.SlogLevel(); level <= slog.LevelDebug {
		logOut = os.Stderr
	}
	logger := slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: slog.LevelDebug}))

	src, err := arithmetic.NewSeededSource()
	if err != nil {
		slog.Error("failed to seed problem generator", "error", err)
		os.Exit(1)
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "math> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
	})
	if err != nil {
		slog.Error("failed to open terminal", "error", err)
		os.Exit(1)
	}
	defer rl.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	shell := terminal.NewShell(arithmetic.NewGenerator(src), rl.Stdout(), logger)
	if err := shell.Run(ctx, rl); err != nil && ctx.Err() == nil {
		logger.Error("shell stopped", "error", err)
		rl.Close()
		os.Exit(1)
	}
}
