package claude

import (
	"fmt"

	"github.com/randalmurphal/claudelocal/provider"
)

func init() {
	provider.Register(ProviderName, func(cfg provider.Config) (provider.Client, error) {
		return NewFromConfig(cfg)
	})
	provider.Register(StreamingProviderName, func(cfg provider.Config) (provider.Client, error) {
		return NewStreamingFromConfig(cfg)
	})
}

// NewFromConfig creates a Provider from a registry configuration.
func NewFromConfig(pc provider.Config) (*Provider, error) {
	cfg := configFromProvider(pc)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s config: %w", ProviderName, err)
	}
	return NewProvider(cfg.ToOptions()...), nil
}

// NewStreamingFromConfig creates a StreamingProvider from a registry configuration.
func NewStreamingFromConfig(pc provider.Config) (*StreamingProvider, error) {
	cfg := configFromProvider(pc)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s config: %w", StreamingProviderName, err)
	}
	return NewStreamingProvider(cfg.ToOptions()...), nil
}
