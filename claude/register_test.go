package claude_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/claudelocal/claude"
	"github.com/randalmurphal/claudelocal/provider"
)

func TestRegistry_ClaudeProviders(t *testing.T) {
	assert.True(t, provider.IsRegistered(claude.ProviderName))
	assert.True(t, provider.IsRegistered(claude.StreamingProviderName))
	assert.Contains(t, provider.Available(), claude.ProviderName)
	assert.Contains(t, provider.Available(), claude.StreamingProviderName)
}

func TestRegistry_New(t *testing.T) {
	cfg := provider.Config{
		Provider: claude.ProviderName,
		Command:  "claude",
		Model:    "opus",
		Timeout:  time.Minute,
	}

	client, err := provider.New(claude.ProviderName, cfg)
	require.NoError(t, err)
	assert.Equal(t, claude.ProviderName, client.Provider())
	_, ok := client.(*claude.Provider)
	assert.True(t, ok, "expected *claude.Provider, got %T", client)

	cfg.Provider = claude.StreamingProviderName
	client, err = provider.New(claude.StreamingProviderName, cfg)
	require.NoError(t, err)
	assert.Equal(t, claude.StreamingProviderName, client.Provider())
	_, ok = client.(*claude.StreamingProvider)
	assert.True(t, ok, "expected *claude.StreamingProvider, got %T", client)
}

func TestNewFromConfig_Invalid(t *testing.T) {
	_, err := claude.NewFromConfig(provider.Config{Command: "  "})
	require.Error(t, err)
	assert.Contains(t, err.Error(), claude.ProviderName)

	_, err = claude.NewStreamingFromConfig(provider.Config{Command: "  "})
	require.Error(t, err)
	assert.Contains(t, err.Error(), claude.StreamingProviderName)
}
