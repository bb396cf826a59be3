package entity

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunConfigNormalize_Defaults(t *testing.T) {
	cfg, err := RunConfig{Prompt: "hello"}.Normalize()
	require.NoError(t, err)

	assert.Equal(t, DefaultMaxSteps, cfg.MaxSteps)
	assert.Equal(t, ProviderOpenAI, cfg.Provider)
	assert.Empty(t, cfg.SessionID)
}

func TestRunConfigNormalize_DefaultAlias(t *testing.T) {
	cfg, err := RunConfig{Prompt: "hello", Provider: "default"}.Normalize()
	require.NoError(t, err)
	assert.Equal(t, DefaultProvider, cfg.Provider)

	cfg, err = RunConfig{Prompt: "hello", Provider: " Anthropic "}.Normalize()
	require.NoError(t, err)
	assert.Equal(t, ProviderAnthropic, cfg.Provider)
}

func TestRunConfigNormalize_Rejects(t *testing.T) {
	cases := map[string]RunConfig{
		"empty prompt":     {Prompt: ""},
		"blank prompt":     {Prompt: "  \n\t"},
		"negative steps":   {Prompt: "x", MaxSteps: -1},
		"unknown provider": {Prompt: "x", Provider: "opnai"},
	}

	for name, cfg := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := cfg.Normalize()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrValidation))
		})
	}
}

func TestRunConfigNormalize_KeepsExplicitValues(t *testing.T) {
	cfg, err := RunConfig{Prompt: "p", MaxSteps: 2, SessionID: " s1 "}.Normalize()
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.MaxSteps)
	assert.Equal(t, "s1", cfg.SessionID)
}

func TestParseRole(t *testing.T) {
	role, err := ParseRole("assistant")
	require.NoError(t, err)
	assert.Equal(t, RoleAssistant, role)

	_, err = ParseRole("tool")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestToolResultConstructors(t *testing.T) {
	ok := ToolSuccess(map[string]any{"status_code": 200})
	assert.True(t, ok.Success)
	assert.NotNil(t, ok.Result)
	assert.Empty(t, ok.Error)

	failed := ToolFailure(errors.New("boom"))
	assert.False(t, failed.Success)
	assert.Nil(t, failed.Result)
	assert.Equal(t, "boom", failed.Error)

	assert.NotEmpty(t, ToolFailure(nil).Error)
}
