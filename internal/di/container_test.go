package di

import (
	"context"
	"path/filepath"
	"testing"

	"agent-runner/internal/domain/entity"
	"agent-runner/internal/infrastructure/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) config.Config {
	cfg := config.Default()
	cfg.Log.Console = false
	cfg.Slack.WebhookURL = "https://hooks.slack.com/services/T000/B000/XXX"
	cfg.Memory.DSN = filepath.Join(t.TempDir(), "memory.db")
	return cfg
}

func TestNewContainer_WiresComponents(t *testing.T) {
	c, err := NewContainer(context.Background(), testConfig(t), "test")
	require.NoError(t, err)
	defer c.Close()

	require.NotNil(t, c.Memory)
	require.NotNil(t, c.Runner)

	descriptors := c.Tools.Descriptors()
	require.Len(t, descriptors, 2)
	assert.Equal(t, entity.ToolHTTP, descriptors[0].Name)
	assert.Equal(t, entity.ToolSlack, descriptors[1].Name)
}

func TestNewContainer_MemoryDrivers(t *testing.T) {
	cfg := testConfig(t)
	cfg.Memory.Driver = config.MemoryDriverNone
	c, err := NewContainer(context.Background(), cfg, "test")
	require.NoError(t, err)
	assert.Nil(t, c.Memory)
	c.Close()

	cfg.Memory.Driver = config.MemoryDriverMemory
	c, err = NewContainer(context.Background(), cfg, "test")
	require.NoError(t, err)
	assert.NotNil(t, c.Memory)
	c.Close()
}

func TestNewContainer_RequiresSlackWebhook(t *testing.T) {
	cfg := testConfig(t)
	cfg.Slack.WebhookURL = ""

	_, err := NewContainer(context.Background(), cfg, "test")
	assert.ErrorIs(t, err, entity.ErrConfiguration)
}

func TestNewContainer_ProviderCredentialsCheckedOnUse(t *testing.T) {
	cfg := testConfig(t)
	cfg.Memory.Driver = config.MemoryDriverMemory
	cfg.Anthropic.APIKey = ""

	c, err := NewContainer(context.Background(), cfg, "test")
	require.NoError(t, err)
	defer c.Close()

	_, err = c.Providers.Resolve(entity.ProviderAnthropic)
	assert.ErrorIs(t, err, entity.ErrConfiguration)

	res, err := c.Runner.Run(context.Background(), entity.RunConfig{
		Prompt:   "hello",
		Provider: entity.ProviderAnthropic,
	}, func(string) error { return nil })
	assert.ErrorIs(t, err, entity.ErrConfiguration)
	require.NotNil(t, res)
	assert.Equal(t, entity.RunStateFailed, res.State)
}
