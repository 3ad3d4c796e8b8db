package provider

import (
	"fmt"
	"os"
	"time"
)

// Config holds configuration for creating a provider client through the registry.
// Provider-specific settings live in Options.
type Config struct {
	// Provider is the name of the provider to use.
	// Required. Values: "claude-code", "claude-code-streaming"
	Provider string `json:"provider" yaml:"provider" toml:"provider" mapstructure:"provider"`

	// Command is the default command line for the CLI.
	// Optional; resolution falls through to environment, RC file and detection.
	Command string `json:"command" yaml:"command" toml:"command" mapstructure:"command"`

	// Model is the default model or alias.
	// Optional.
	Model string `json:"model" yaml:"model" toml:"model" mapstructure:"model"`

	// Timeout is the maximum duration for one CLI invocation.
	// 0 uses the provider default.
	Timeout time.Duration `json:"timeout" yaml:"timeout" toml:"timeout" mapstructure:"timeout"`

	// WorkDir is the directory the CLI runs in and where ./.clauderc is looked up.
	// Default: current directory.
	WorkDir string `json:"work_dir" yaml:"work_dir" toml:"work_dir" mapstructure:"work_dir"`

	// RCPath is an RC file checked before the default search paths.
	RCPath string `json:"rc_path" yaml:"rc_path" toml:"rc_path" mapstructure:"rc_path"`

	// Env provides additional environment variables for the CLI process.
	Env map[string]string `json:"env" yaml:"env" toml:"env" mapstructure:"env"`

	// Options holds provider-specific configuration.
	//
	// claude-code:
	//   - "max_output_bytes": int (output cap, default 10 MB)
	//   - "temp_dir": string (directory for prompt files)
	//   - "use_file_reference": bool (replace embedded documents with file references)
	Options map[string]any `json:"options" yaml:"options" toml:"options" mapstructure:"options"`
}

// DefaultConfig returns a Config with sensible defaults.
// Provider must still be set before use.
func DefaultConfig() Config {
	return Config{
		Timeout: 5 * time.Minute,
	}
}

// LoadFromEnv populates config fields from environment variables.
// Environment variables take precedence over existing values.
//
// Supported variables:
//   - CLAUDELOCAL_PROVIDER: Provider name
//   - CLAUDELOCAL_WORK_DIR: Working directory
//   - CLAUDELOCAL_TIMEOUT: Timeout duration (e.g., "5m")
func (c *Config) LoadFromEnv() {
	if v := os.Getenv("CLAUDELOCAL_PROVIDER"); v != "" {
		c.Provider = v
	}
	if v := os.Getenv("CLAUDELOCAL_WORK_DIR"); v != "" {
		c.WorkDir = v
	}
	if v := os.Getenv("CLAUDELOCAL_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Timeout = d
		}
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Provider == "" {
		return fmt.Errorf("provider is required")
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must be >= 0, got %v", c.Timeout)
	}
	return nil
}

// WithProvider returns a copy of the config with the specified provider.
func (c Config) WithProvider(provider string) Config {
	c.Provider = provider
	return c
}

// WithModel returns a copy of the config with the specified model.
func (c Config) WithModel(model string) Config {
	c.Model = model
	return c
}

// WithWorkDir returns a copy of the config with the specified working directory.
func (c Config) WithWorkDir(dir string) Config {
	c.WorkDir = dir
	return c
}

// WithOption returns a copy of the config with the specified option set.
func (c Config) WithOption(key string, value any) Config {
	newOpts := make(map[string]any, len(c.Options)+1)
	for k, v := range c.Options {
		newOpts[k] = v
	}
	newOpts[key] = value
	c.Options = newOpts
	return c
}

// GetStringOption retrieves a string option, returning defaultVal if not set.
func (c Config) GetStringOption(key, defaultVal string) string {
	if v, ok := c.Options[key].(string); ok {
		return v
	}
	return defaultVal
}

// GetBoolOption retrieves a bool option, returning defaultVal if not set.
func (c Config) GetBoolOption(key string, defaultVal bool) bool {
	if v, ok := c.Options[key].(bool); ok {
		return v
	}
	return defaultVal
}

// GetIntOption retrieves an int option, returning defaultVal if not set.
// Handles int64 and float64 values from YAML and JSON decoding.
func (c Config) GetIntOption(key string, defaultVal int) int {
	switch v := c.Options[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return defaultVal
}
