package rcfile

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// File names and locations searched by a Loader.
const (
	// FileName is the RC file name in a project or home directory.
	FileName = ".clauderc"

	// XDGFileName is the RC file name inside ~/.config/claude.
	XDGFileName = "clauderc"
)

// Loader finds and parses RC files.
type Loader struct {
	fs      afero.Fs
	workDir string
	homeDir string
	parser  *Parser
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithFs sets the filesystem used to read RC files.
func WithFs(fsys afero.Fs) LoaderOption {
	return func(l *Loader) { l.fs = fsys }
}

// WithWorkDir sets the directory searched for a project-level .clauderc.
func WithWorkDir(dir string) LoaderOption {
	return func(l *Loader) { l.workDir = dir }
}

// WithHomeDir overrides the home directory searched for user-level files.
func WithHomeDir(dir string) LoaderOption {
	return func(l *Loader) { l.homeDir = dir }
}

// WithLookupEnv sets the environment lookup used for $NAME expansion.
func WithLookupEnv(lookup LookupFunc) LoaderOption {
	return func(l *Loader) { l.parser = NewParser(lookup) }
}

// NewLoader creates a Loader backed by the OS filesystem, the current
// directory and the user's home directory unless overridden.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{
		fs:     afero.NewOsFs(),
		parser: NewParser(nil),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.workDir == "" {
		if wd, err := os.Getwd(); err == nil {
			l.workDir = wd
		}
	}
	if l.homeDir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			l.homeDir = home
		}
	}
	return l
}

// SearchPaths returns the candidate files in lookup order.
// The explicit path, when non-empty, comes first.
func (l *Loader) SearchPaths(explicit string) []string {
	paths := make([]string, 0, 4)
	if explicit != "" {
		paths = append(paths, explicit)
	}
	if l.workDir != "" {
		paths = append(paths, filepath.Join(l.workDir, FileName))
	}
	if l.homeDir != "" {
		paths = append(paths,
			filepath.Join(l.homeDir, FileName),
			filepath.Join(l.homeDir, ".config", "claude", XDGFileName),
		)
	}
	return paths
}

// Load returns the first RC file along the search path that exists and
// parses. Unreadable or malformed files are logged and skipped.
// Returns nil when no usable file is found.
func (l *Loader) Load(explicit string) *Config {
	for _, path := range l.SearchPaths(explicit) {
		cfg, err := l.LoadFile(path)
		if err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				slog.Warn("skipping rc file", "path", path, "error", err)
			}
			continue
		}
		slog.Debug("loaded rc file",
			"path", path,
			"variables", len(cfg.Variables),
			"aliases", len(cfg.Aliases),
			"exports", len(cfg.Exports),
		)
		return cfg
	}
	return nil
}

// LoadFile reads and parses a single RC file.
func (l *Loader) LoadFile(path string) (*Config, error) {
	info, err := l.fs.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s: is a directory", path)
	}

	data, err := afero.ReadFile(l.fs, path)
	if err != nil {
		return nil, fmt.Errorf("read rc file: %w", err)
	}

	cfg, err := l.parser.Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.SourcePath = path
	return cfg, nil
}
