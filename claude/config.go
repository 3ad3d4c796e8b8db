package claude

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/randalmurphal/claudelocal/claudecontract"
	"github.com/randalmurphal/claudelocal/provider"
)

// Config holds configuration for a Claude provider.
// Zero values use sensible defaults where noted.
type Config struct {
	// --- Command Resolution ---

	// Command is the command line used to start the CLI.
	// Optional; resolution falls through to CLAUDE_CODE_COMMAND, the RC file
	// and auto-detection.
	Command string `json:"command" yaml:"command" toml:"command" mapstructure:"command"`

	// Model is the model id, short name ("opus") or RC alias.
	// Optional.
	Model string `json:"model" yaml:"model" toml:"model" mapstructure:"model"`

	// RCPath is an RC file checked before the default search paths.
	RCPath string `json:"rc_path" yaml:"rc_path" toml:"rc_path" mapstructure:"rc_path"`

	// --- Execution Limits ---

	// Timeout is the maximum duration for one CLI invocation.
	// 0 uses the default (5 minutes).
	Timeout time.Duration `json:"timeout" yaml:"timeout" toml:"timeout" mapstructure:"timeout"`

	// MaxOutputBytes caps combined stdout and stderr.
	// 0 uses the default (10 MB).
	MaxOutputBytes int64 `json:"max_output_bytes" yaml:"max_output_bytes" toml:"max_output_bytes" mapstructure:"max_output_bytes"`

	// --- Process Environment ---

	// WorkDir is the directory the CLI runs in.
	// Default: current directory.
	WorkDir string `json:"work_dir" yaml:"work_dir" toml:"work_dir" mapstructure:"work_dir"`

	// TempDir holds prompt files.
	// Default: os.TempDir().
	TempDir string `json:"temp_dir" yaml:"temp_dir" toml:"temp_dir" mapstructure:"temp_dir"`

	// Env provides additional environment variables for the CLI process.
	Env map[string]string `json:"env" yaml:"env" toml:"env" mapstructure:"env"`

	// UseFileReference replaces embedded documents with file references.
	// Nil defers to CLAUDE_CODE_USE_FILE_REFERENCE.
	UseFileReference *bool `json:"use_file_reference,omitempty" yaml:"use_file_reference,omitempty" toml:"use_file_reference,omitempty" mapstructure:"use_file_reference"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Timeout:        DefaultTimeout,
		MaxOutputBytes: DefaultMaxOutputBytes,
	}
}

// LoadFromEnv populates config fields from environment variables.
// Environment variables take precedence over existing values.
//
// CLAUDE_CODE_COMMAND and CLAUDE_CODE_MODEL are not read here; the resolver
// consults them on every call so that an explicit Command still wins.
func (c *Config) LoadFromEnv() {
	if v := os.Getenv(claudecontract.EnvRCPath); v != "" {
		c.RCPath = v
	}
	if v := os.Getenv(claudecontract.EnvTimeout); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Timeout = d
		}
	}
	if v := os.Getenv(claudecontract.EnvMaxOutputBytes); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.MaxOutputBytes = n
		}
	}
	if v := os.Getenv(claudecontract.EnvWorkDir); v != "" {
		c.WorkDir = v
	}
	if v := os.Getenv(claudecontract.EnvTempDir); v != "" {
		c.TempDir = v
	}
	if v := os.Getenv(claudecontract.EnvUseFileReference); v != "" {
		enabled := claudecontract.IsTruthy(v)
		c.UseFileReference = &enabled
	}
}

// FromEnv creates a Config from environment variables with defaults.
func FromEnv() Config {
	cfg := DefaultConfig()
	cfg.LoadFromEnv()
	return cfg
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must be >= 0, got %v", c.Timeout)
	}
	if c.MaxOutputBytes < 0 {
		return fmt.Errorf("max_output_bytes must be >= 0, got %d", c.MaxOutputBytes)
	}
	if c.Command != "" && strings.TrimSpace(c.Command) == "" {
		return fmt.Errorf("command must not be blank")
	}
	return nil
}

// ToOptions converts the config to functional options.
// This enables mixing Config with additional options.
func (c *Config) ToOptions() []Option {
	opts := make([]Option, 0, 9)

	if c.Command != "" {
		opts = append(opts, WithCommand(c.Command))
	}
	if c.Model != "" {
		opts = append(opts, WithModel(c.Model))
	}
	if c.RCPath != "" {
		opts = append(opts, WithRCPath(c.RCPath))
	}
	if c.Timeout > 0 {
		opts = append(opts, WithTimeout(c.Timeout))
	}
	if c.MaxOutputBytes > 0 {
		opts = append(opts, WithMaxOutputBytes(c.MaxOutputBytes))
	}
	if c.WorkDir != "" {
		opts = append(opts, WithWorkdir(c.WorkDir))
	}
	if c.TempDir != "" {
		opts = append(opts, WithTempDir(c.TempDir))
	}
	if len(c.Env) > 0 {
		opts = append(opts, WithEnv(c.Env))
	}
	if c.UseFileReference != nil {
		opts = append(opts, WithFileReference(*c.UseFileReference))
	}

	return opts
}

// fileConfig is the on-disk form of Config. Durations are strings such as
// "90s" so that every format reads them the same way.
type fileConfig struct {
	Command          string            `json:"command" yaml:"command" toml:"command"`
	Model            string            `json:"model" yaml:"model" toml:"model"`
	RCPath           string            `json:"rc_path" yaml:"rc_path" toml:"rc_path"`
	Timeout          string            `json:"timeout" yaml:"timeout" toml:"timeout"`
	MaxOutputBytes   int64             `json:"max_output_bytes" yaml:"max_output_bytes" toml:"max_output_bytes"`
	WorkDir          string            `json:"work_dir" yaml:"work_dir" toml:"work_dir"`
	TempDir          string            `json:"temp_dir" yaml:"temp_dir" toml:"temp_dir"`
	Env              map[string]string `json:"env" yaml:"env" toml:"env"`
	UseFileReference *bool             `json:"use_file_reference" yaml:"use_file_reference" toml:"use_file_reference"`
}

// LoadConfigFile reads a Config from a YAML, TOML or JSON file, chosen by
// extension (.yaml/.yml, .toml, .json). Unset fields keep their defaults.
func LoadConfigFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var fc fileConfig
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	case ".toml":
		_, err = toml.Decode(string(data), &fc)
	case ".json":
		err = json.Unmarshal(data, &fc)
	default:
		return Config{}, fmt.Errorf("unsupported config format %q (want .yaml, .toml or .json)", ext)
	}
	if err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg := DefaultConfig()
	cfg.Command = fc.Command
	cfg.Model = fc.Model
	cfg.RCPath = fc.RCPath
	cfg.WorkDir = fc.WorkDir
	cfg.TempDir = fc.TempDir
	cfg.Env = fc.Env
	cfg.UseFileReference = fc.UseFileReference
	if fc.MaxOutputBytes != 0 {
		cfg.MaxOutputBytes = fc.MaxOutputBytes
	}
	if fc.Timeout != "" {
		d, err := time.ParseDuration(fc.Timeout)
		if err != nil {
			return Config{}, fmt.Errorf("parse config %s: timeout: %w", path, err)
		}
		cfg.Timeout = d
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// configFromProvider maps a registry configuration to a Config.
func configFromProvider(pc provider.Config) Config {
	cfg := DefaultConfig()
	cfg.Command = pc.Command
	cfg.Model = pc.Model
	cfg.RCPath = pc.RCPath
	cfg.WorkDir = pc.WorkDir
	cfg.Env = pc.Env
	if pc.Timeout > 0 {
		cfg.Timeout = pc.Timeout
	}
	if n := pc.GetIntOption("max_output_bytes", 0); n > 0 {
		cfg.MaxOutputBytes = int64(n)
	}
	cfg.TempDir = pc.GetStringOption("temp_dir", "")
	if _, ok := pc.Options["use_file_reference"]; ok {
		enabled := pc.GetBoolOption("use_file_reference", false)
		cfg.UseFileReference = &enabled
	}
	return cfg
}
