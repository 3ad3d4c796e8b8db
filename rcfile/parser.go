// Package rcfile parses .clauderc files: small bash-like configuration files
// holding variables, aliases and exports for the local Claude CLI.
//
// Supported syntax:
//
//	# comment
//	command=/usr/local/bin/claude
//	model=sonnet
//	alias fast="--model claude-3-5-haiku-20241022 --max-turns 1"
//	export ANTHROPIC_LOG=debug
//	export CLAUDE_CONFIG_DIR=${HOME}/.claude-work
//
// A trailing backslash continues a line. Lines that match none of the forms
// are kept verbatim in Config.Raw.
package rcfile

import (
	"errors"
	"os"
	"regexp"
	"strings"
	"unicode/utf8"
)

// ErrMalformed indicates the content is not a text RC file.
var ErrMalformed = errors.New("malformed rc file")

// Config is the parsed content of an RC file.
// It is immutable once returned by a Loader.
type Config struct {
	// Variables holds plain NAME=value assignments.
	Variables map[string]string `json:"variables" yaml:"variables"`

	// Aliases maps alias names to their raw expansion.
	Aliases map[string]string `json:"aliases" yaml:"aliases"`

	// Exports holds export NAME=value assignments.
	Exports map[string]string `json:"exports" yaml:"exports"`

	// Raw holds lines that were not recognized.
	Raw []string `json:"raw,omitempty" yaml:"raw,omitempty"`

	// SourcePath is the file the config was read from, empty for in-memory parses.
	SourcePath string `json:"source_path,omitempty" yaml:"source_path,omitempty"`
}

func newConfig() *Config {
	return &Config{
		Variables: make(map[string]string),
		Aliases:   make(map[string]string),
		Exports:   make(map[string]string),
	}
}

// Variable returns a variable value, or "" if unset.
func (c *Config) Variable(name string) string {
	if c == nil {
		return ""
	}
	return c.Variables[name]
}

// Alias returns the expansion of the named alias.
func (c *Config) Alias(name string) (string, bool) {
	if c == nil {
		return "", false
	}
	v, ok := c.Aliases[name]
	return v, ok
}

// LookupFunc resolves an environment variable.
type LookupFunc func(name string) (string, bool)

// Parser parses RC file content.
type Parser struct {
	lookup LookupFunc
}

// NewParser creates a parser that expands $NAME references with lookup.
// A nil lookup uses os.LookupEnv.
func NewParser(lookup LookupFunc) *Parser {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	return &Parser{lookup: lookup}
}

// Parse is a convenience function using a parser backed by the process environment.
func Parse(content string) (*Config, error) {
	return NewParser(nil).Parse(content)
}

// Parse parses RC file content.
func (p *Parser) Parse(content string) (*Config, error) {
	if !utf8.ValidString(content) || strings.ContainsRune(content, 0) {
		return nil, ErrMalformed
	}

	cfg := newConfig()
	for _, line := range joinContinuations(content) {
		p.parseLine(cfg, line)
	}
	return cfg, nil
}

func (p *Parser) parseLine(cfg *Config, line string) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return
	}

	switch {
	case strings.HasPrefix(line, "alias "):
		rest := strings.TrimSpace(strings.TrimPrefix(line, "alias "))
		idx := indexUnquoted(rest, '=')
		if idx <= 0 {
			cfg.Raw = append(cfg.Raw, line)
			return
		}
		name := strings.TrimSpace(rest[:idx])
		cfg.Aliases[name] = unquote(strings.TrimSpace(rest[idx+1:]))

	case strings.HasPrefix(line, "export "):
		rest := strings.TrimSpace(strings.TrimPrefix(line, "export "))
		idx := strings.IndexByte(rest, '=')
		if idx <= 0 {
			cfg.Raw = append(cfg.Raw, line)
			return
		}
		name := strings.TrimSpace(rest[:idx])
		cfg.Exports[name] = p.expand(unquote(strings.TrimSpace(rest[idx+1:])))

	case strings.Contains(line, "=") && !strings.Contains(line, " "):
		idx := strings.IndexByte(line, '=')
		if idx == 0 {
			cfg.Raw = append(cfg.Raw, line)
			return
		}
		cfg.Variables[line[:idx]] = p.expand(unquote(line[idx+1:]))

	default:
		cfg.Raw = append(cfg.Raw, line)
	}
}

// joinContinuations splits content into logical lines, joining any line that
// ends in a backslash with the line after it.
func joinContinuations(content string) []string {
	physical := strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")
	logical := make([]string, 0, len(physical))

	var pending strings.Builder
	for _, line := range physical {
		trimmed := strings.TrimRight(line, " \t")
		if strings.HasSuffix(trimmed, `\`) {
			pending.WriteString(strings.TrimSuffix(trimmed, `\`))
			continue
		}
		pending.WriteString(line)
		logical = append(logical, pending.String())
		pending.Reset()
	}
	if pending.Len() > 0 {
		logical = append(logical, pending.String())
	}
	return logical
}

// indexUnquoted returns the index of the first target byte outside single or
// double quotes, honoring backslash escapes. Returns -1 if not found.
func indexUnquoted(s string, target byte) int {
	var quote byte
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\':
			escaped = true
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == target:
			return i
		}
	}
	return -1
}

// unquote strips one matching pair of surrounding quotes.
func unquote(s string) string {
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '"' || first == '\'') && first == last {
			return s[1 : len(s)-1]
		}
	}
	return s
}

var envRefPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}|\$([A-Za-z_][A-Za-z0-9_]*)`)

// expand replaces $NAME and ${NAME} with environment values.
// Unresolved references are left untouched.
func (p *Parser) expand(s string) string {
	if !strings.Contains(s, "$") {
		return s
	}
	return envRefPattern.ReplaceAllStringFunc(s, func(ref string) string {
		m := envRefPattern.FindStringSubmatch(ref)
		name := m[1]
		if name == "" {
			name = m[2]
		}
		if v, ok := p.lookup(name); ok {
			return v
		}
		return ref
	})
}
