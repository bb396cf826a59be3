package config

import (
	"os"
	"path/filepath"
	"testing"

	"agent-runner/internal/domain/entity"
	"agent-runner/internal/infrastructure/env"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := Load(env.NewStaticEnvService())
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "sk-test", cfg.OpenAI.APIKey)
	assert.Equal(t, "gpt-4-turbo-preview", cfg.OpenAI.Model)
	assert.Equal(t, "claude-3-opus-20240229", cfg.Anthropic.Model)
	assert.Equal(t, MemoryDriverSQLite, cfg.Memory.Driver)
	assert.Equal(t, 5, cfg.Memory.ContextWindow)
	assert.True(t, cfg.MemoryEnabled())
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agent.toml")
	data := `
[server]
addr = ":9000"

[openai]
model = "gpt-4o-mini"

[memory]
driver = "memory"
context_window = 3
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("OPENAI_MODEL", "gpt-4o")
	t.Setenv("SLACK_WEBHOOK_URL", "https://hooks.slack.test/x")

	cfg, err := Load(env.NewStaticEnvService())
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, "gpt-4o", cfg.OpenAI.Model)
	assert.Equal(t, MemoryDriverMemory, cfg.Memory.Driver)
	assert.Equal(t, 3, cfg.Memory.ContextWindow)
	assert.Equal(t, "https://hooks.slack.test/x", cfg.Slack.WebhookURL)
}

func TestLoad_Errors(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.toml"))
	_, err := Load(env.NewStaticEnvService())
	assert.ErrorIs(t, err, entity.ErrConfiguration)

	t.Setenv("CONFIG_FILE", "")
	t.Setenv("MEMORY_DRIVER", "redis")
	_, err = Load(env.NewStaticEnvService())
	assert.ErrorIs(t, err, entity.ErrConfiguration)
}

func TestMemoryEnabled(t *testing.T) {
	cfg := Default()
	cfg.Memory.Driver = MemoryDriverNone
	assert.False(t, cfg.MemoryEnabled())
	assert.NoError(t, cfg.Validate())
}
