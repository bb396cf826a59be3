package entity

import (
	"fmt"
	"strings"
)

const DefaultMaxSteps = 5

type ProviderName string

const (
	ProviderOpenAI    ProviderName = "openai"
	ProviderAnthropic ProviderName = "anthropic"

	// DefaultProvider is the primary backend.
	DefaultProvider = ProviderOpenAI
)

func (p ProviderName) String() string {
	return string(p)
}

// ParseProvider maps an identifier onto the closed provider set.
// Empty and "default" select DefaultProvider; anything unknown is rejected.
func ParseProvider(s string) (ProviderName, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "default":
		return DefaultProvider, nil
	case string(ProviderOpenAI):
		return ProviderOpenAI, nil
	case string(ProviderAnthropic):
		return ProviderAnthropic, nil
	}
	return "", fmt.Errorf("%w: unknown provider %q", ErrValidation, s)
}

func Providers() []ProviderName {
	return []ProviderName{ProviderOpenAI, ProviderAnthropic}
}

type RunConfig struct {
	Prompt    string       `json:"prompt"`
	MaxSteps  int          `json:"max_steps,omitempty"`
	Provider  ProviderName `json:"provider,omitempty"`
	SessionID string       `json:"session_id,omitempty"`
}

// Normalize resolves defaults and validates the config. The receiver is not modified.
func (c RunConfig) Normalize() (RunConfig, error) {
	if strings.TrimSpace(c.Prompt) == "" {
		return c, fmt.Errorf("%w: prompt is required", ErrValidation)
	}
	if c.MaxSteps < 0 {
		return c, fmt.Errorf("%w: max_steps must be positive, got %d", ErrValidation, c.MaxSteps)
	}
	if c.MaxSteps == 0 {
		c.MaxSteps = DefaultMaxSteps
	}
	provider, err := ParseProvider(string(c.Provider))
	if err != nil {
		return c, err
	}
	c.Provider = provider
	c.SessionID = strings.TrimSpace(c.SessionID)
	return c, nil
}

type RunState string

const (
	RunStateInitialized    RunState = "initialized"
	RunStatePromptComposed RunState = "prompt_composed"
	RunStateStreaming      RunState = "streaming"
	RunStateCompleted      RunState = "completed"
	RunStateDegraded       RunState = "degraded"
	RunStateFailed         RunState = "failed"
)

func (s RunState) Terminal() bool {
	return s == RunStateCompleted || s == RunStateDegraded || s == RunStateFailed
}

type RunResult struct {
	RunID     string
	SessionID string
	Provider  ProviderName
	State     RunState
	Response  string
	Fragments int
}
