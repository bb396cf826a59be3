package console

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"agent-runner/internal/domain/entity"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConsole(input string) (*Console, *bytes.Buffer, *bytes.Buffer) {
	color.NoColor = true
	var out, status bytes.Buffer
	return New(strings.NewReader(input), &out, &status), &out, &status
}

func TestReadPrompt_TrimsInput(t *testing.T) {
	c, _, _ := newTestConsole("  summarize https://example.com\nplease \n\n")

	prompt, err := c.ReadPrompt(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "summarize https://example.com\nplease", prompt)
}

func TestReadPrompt_Canceled(t *testing.T) {
	c, _, _ := newTestConsole("hello")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.ReadPrompt(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestShowChunk_WritesFragmentsUnframed(t *testing.T) {
	c, out, status := newTestConsole("")

	require.NoError(t, c.ShowChunk(context.Background(), "Hi"))
	require.NoError(t, c.ShowChunk(context.Background(), " there"))

	assert.Equal(t, "Hi there", out.String())
	assert.Empty(t, status.String())
}

func TestShowRunResult(t *testing.T) {
	tests := []struct {
		state entity.RunState
		want  string
	}{
		{entity.RunStateCompleted, "✓ completed (2 fragments)"},
		{entity.RunStateDegraded, "delivered but not recorded"},
		{entity.RunStateFailed, "✗ failed"},
	}
	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			c, _, status := newTestConsole("")
			c.ShowRunResult(context.Background(), &entity.RunResult{
				RunID:     "r1",
				SessionID: "s1",
				State:     tt.state,
				Fragments: 2,
			})
			assert.Contains(t, status.String(), tt.want)
			assert.Contains(t, status.String(), "session: s1  run: r1")
		})
	}
}

func TestShowError_Truncates(t *testing.T) {
	c, _, status := newTestConsole("")
	c.ShowError(context.Background(), errors.New(strings.Repeat("x", 400)))

	assert.Contains(t, status.String(), "Error: ")
	assert.Contains(t, status.String(), strings.Repeat("x", 300)+"...")
	assert.NotContains(t, status.String(), strings.Repeat("x", 301))
}
