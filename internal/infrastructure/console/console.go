// Package console prints a streamed run to a terminal.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"agent-runner/internal/application/port/output"
	"agent-runner/internal/domain/entity"

	"github.com/fatih/color"
)

var _ output.UserInteractionPort = (*Console)(nil)

// Console writes fragments to out as they arrive and status lines to status.
type Console struct {
	reader *bufio.Reader
	out    io.Writer
	status io.Writer
}

func NewConsole() *Console {
	return New(os.Stdin, os.Stdout, os.Stderr)
}

func New(in io.Reader, out, status io.Writer) *Console {
	return &Console{
		reader: bufio.NewReader(in),
		out:    out,
		status: status,
	}
}

// ReadPrompt reads everything up to EOF. A prompt made only of whitespace is
// returned as empty so validation can reject it.
func (c *Console) ReadPrompt(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := io.ReadAll(c.reader)
	if err != nil {
		return "", fmt.Errorf("failed to read prompt: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

func (c *Console) ShowRunStart(ctx context.Context, cfg entity.RunConfig) {
	cyan := color.New(color.FgCyan, color.Bold)
	cyan.Fprintf(c.status, "━━━ %s ━━━\n", cfg.Provider)

	dim := color.New(color.Faint)
	dim.Fprintf(c.status, "prompt: %s\n", truncate(cfg.Prompt, 80))
	if cfg.SessionID != "" {
		dim.Fprintf(c.status, "session: %s\n", cfg.SessionID)
	}
}

func (c *Console) ShowChunk(ctx context.Context, chunk string) error {
	_, err := io.WriteString(c.out, chunk)
	return err
}

func (c *Console) ShowRunResult(ctx context.Context, result *entity.RunResult) {
	if result == nil {
		return
	}
	fmt.Fprintln(c.out)

	switch result.State {
	case entity.RunStateCompleted:
		green := color.New(color.FgGreen)
		green.Fprintf(c.status, "✓ completed (%d fragments)\n", result.Fragments)
	case entity.RunStateDegraded:
		yellow := color.New(color.FgYellow, color.Bold)
		yellow.Fprintf(c.status, "⚠ delivered but not recorded (%d fragments)\n", result.Fragments)
	default:
		red := color.New(color.FgRed)
		red.Fprintf(c.status, "✗ %s\n", result.State)
	}

	dim := color.New(color.Faint)
	dim.Fprintf(c.status, "session: %s  run: %s\n", result.SessionID, result.RunID)
}

func (c *Console) ShowError(ctx context.Context, err error) {
	if err == nil {
		return
	}
	red := color.New(color.FgRed, color.Bold)
	red.Fprint(c.status, "Error: ")

	dim := color.New(color.Faint)
	dim.Fprintln(c.status, truncate(err.Error(), 300))
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
