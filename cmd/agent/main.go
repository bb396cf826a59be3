package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"agent-runner/internal/di"
	"agent-runner/internal/domain/entity"
	"agent-runner/internal/infrastructure/config"
	"agent-runner/internal/infrastructure/console"
	"agent-runner/internal/infrastructure/env"
)

func main() {
	provider := flag.String("provider", "", "model backend: openai or anthropic")
	session := flag.String("session", "", "session id to continue; a new one is created when empty")
	maxSteps := flag.Int("max-steps", 0, "step budget for the run")
	flag.Parse()

	os.Exit(run(entity.RunConfig{
		MaxSteps:  *maxSteps,
		Provider:  entity.ProviderName(*provider),
		SessionID: *session,
	}))
}

func run(runCfg entity.RunConfig) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ui := console.NewConsole()

	cfg, err := config.Load(env.NewEnvService())
	if err != nil {
		ui.ShowError(ctx, err)
		return 1
	}

	container, err := di.NewContainer(ctx, cfg, "agent")
	if err != nil {
		ui.ShowError(ctx, fmt.Errorf("initialization failed: %w", err))
		return 1
	}
	defer container.Close()

	fmt.Fprintln(os.Stderr, "Enter a prompt, then Ctrl-D:")
	prompt, err := ui.ReadPrompt(ctx)
	if err != nil {
		ui.ShowError(ctx, err)
		return 1
	}
	runCfg.Prompt = prompt

	ui.ShowRunStart(ctx, runCfg)
	result, err := container.Runner.Run(ctx, runCfg, func(chunk string) error {
		return ui.ShowChunk(ctx, chunk)
	})
	ui.ShowRunResult(ctx, result)

	if err != nil {
		ui.ShowError(ctx, err)
		if errors.Is(err, entity.ErrDegraded) {
			return 0
		}
		return 1
	}
	return 0
}
