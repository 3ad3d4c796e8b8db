package claude

import (
	"log/slog"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"sync"

	"github.com/spf13/afero"

	"github.com/randalmurphal/claudelocal/claudecontract"
	"github.com/randalmurphal/claudelocal/cmdline"
	"github.com/randalmurphal/claudelocal/model"
	"github.com/randalmurphal/claudelocal/provider"
	"github.com/randalmurphal/claudelocal/rcfile"
)

// ResolverConfig holds the collaborators used by a Resolver.
// Zero values use the OS filesystem and process environment.
type ResolverConfig struct {
	// Fs is used for RC files and install path probing.
	Fs afero.Fs

	// LookupEnv reads environment variables. Default: os.LookupEnv.
	LookupEnv func(string) (string, bool)

	// LookPath searches PATH for an executable. Default: exec.LookPath.
	LookPath func(string) (string, error)

	// GOOS selects the install path list. Default: runtime.GOOS.
	GOOS string

	// HomeDir is used for ~ locations. Default: os.UserHomeDir.
	HomeDir string

	// WorkDir is searched for ./.clauderc. Default: current directory.
	WorkDir string

	// RCPath is an RC file checked first. Default: CLAUDE_CODE_RC_PATH.
	RCPath string
}

// EffectiveConfig is the RC file merged with the environment.
// Environment values win. Empty strings mean unset.
type EffectiveConfig struct {
	Command     string            `json:"command" yaml:"command"`
	Model       string            `json:"model" yaml:"model"`
	Aliases     map[string]string `json:"aliases" yaml:"aliases"`
	Environment map[string]string `json:"environment" yaml:"environment"`
	RCPath      string            `json:"rc_path,omitempty" yaml:"rc_path,omitempty"`
}

// Resolver decides which command line starts the CLI.
// The RC file and the auto-detection result are computed once per Resolver.
// A Resolver is safe for concurrent use.
type Resolver struct {
	fs        afero.Fs
	lookupEnv func(string) (string, bool)
	lookPath  func(string) (string, error)
	goos      string
	homeDir   string
	workDir   string
	rcPath    string

	rcOnce sync.Once
	rc     *rcfile.Config

	detectOnce sync.Once
	detected   string
}

// NewResolver creates a Resolver.
func NewResolver(cfg ResolverConfig) *Resolver {
	r := &Resolver{
		fs:        cfg.Fs,
		lookupEnv: cfg.LookupEnv,
		lookPath:  cfg.LookPath,
		goos:      cfg.GOOS,
		homeDir:   cfg.HomeDir,
		workDir:   cfg.WorkDir,
		rcPath:    cfg.RCPath,
	}
	if r.fs == nil {
		r.fs = afero.NewOsFs()
	}
	if r.lookupEnv == nil {
		r.lookupEnv = os.LookupEnv
	}
	if r.lookPath == nil {
		r.lookPath = exec.LookPath
	}
	if r.goos == "" {
		r.goos = runtime.GOOS
	}
	if r.homeDir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			r.homeDir = home
		}
	}
	return r
}

// RC returns the parsed RC file, or nil when none was found.
// The search runs on the first call only.
func (r *Resolver) RC() *rcfile.Config {
	r.rcOnce.Do(func() {
		r.rc = r.loader().Load(r.explicitRCPath())
	})
	return r.rc
}

// RCSearchPaths returns the RC files consulted, in lookup order.
func (r *Resolver) RCSearchPaths() []string {
	return r.loader().SearchPaths(r.explicitRCPath())
}

func (r *Resolver) explicitRCPath() string {
	if r.rcPath != "" {
		return r.rcPath
	}
	return r.env(claudecontract.EnvRCPath)
}

func (r *Resolver) loader() *rcfile.Loader {
	return rcfile.NewLoader(
		rcfile.WithFs(r.fs),
		rcfile.WithWorkDir(r.workDir),
		rcfile.WithHomeDir(r.homeDir),
		rcfile.WithLookupEnv(r.lookupEnv),
	)
}

// Effective returns the RC values overlaid with the environment.
func (r *Resolver) Effective() EffectiveConfig {
	rc := r.RC()
	eff := EffectiveConfig{
		Command:     firstNonEmpty(r.env(claudecontract.EnvCommand), rc.Variable(claudecontract.RCVarCommand)),
		Model:       firstNonEmpty(r.env(claudecontract.EnvModel), rc.Variable(claudecontract.RCVarModel)),
		Aliases:     make(map[string]string),
		Environment: make(map[string]string),
	}
	if rc == nil {
		return eff
	}
	eff.RCPath = rc.SourcePath
	for k, v := range rc.Aliases {
		eff.Aliases[k] = v
	}
	for k, v := range rc.Exports {
		if envVal, ok := r.lookupEnv(k); ok {
			v = envVal
		}
		eff.Environment[k] = v
	}
	return eff
}

// IsAvailable reports whether a command can be resolved for p.
func (r *Resolver) IsAvailable(p provider.CommandParams) bool {
	_, ok := r.ResolveCommandParsed(p)
	return ok
}

// ResolveCommand returns the resolved command line as a single string.
func (r *Resolver) ResolveCommand(p provider.CommandParams) (string, bool) {
	cmd, ok := r.ResolveCommandParsed(p)
	if !ok {
		return "", false
	}
	return cmdline.Join(cmd), true
}

// ResolveCommandParsed returns the resolved command, or false when no
// source yields one. Not finding a command is not an error.
func (r *Resolver) ResolveCommandParsed(p provider.CommandParams) (cmdline.Command, bool) {
	rc := r.RC()

	base, source, ok := r.baseCommand(p, rc)
	if !ok {
		return cmdline.Command{}, false
	}

	cmd := applyAliases(base, rc)
	if cmd.IsZero() {
		slog.Debug("command empty after alias expansion", "source", source)
		return cmdline.Command{}, false
	}

	if claudecontract.HasModelFlag(cmd.Args) {
		return cmd, true
	}

	modelValue, raw := r.resolveModel(p, rc)
	switch {
	case raw != nil:
		cmd.Args = append(cmd.Args, raw...)
	case modelValue != "":
		cmd.Args = append(cmd.Args, claudecontract.FlagModel, modelValue)
	}
	return cmd, true
}

// Detected returns the auto-detected executable path, probing on the first
// call only.
func (r *Resolver) Detected() (string, bool) {
	path := r.detect()
	return path, path != ""
}

// baseCommand picks the first command source that yields tokens.
func (r *Resolver) baseCommand(p provider.CommandParams, rc *rcfile.Config) (cmdline.Command, string, bool) {
	candidates := []struct {
		source string
		value  string
	}{
		{"explicit", p.Command},
		{"environment", r.env(claudecontract.EnvCommand)},
		{"rc", rc.Variable(claudecontract.RCVarCommand)},
	}
	for _, c := range candidates {
		if cmd := cmdline.Tokenize(c.value); !cmd.IsZero() {
			return cmd, c.source, true
		}
	}

	if path := r.detect(); path != "" {
		return cmdline.Command{Executable: path}, "detected", true
	}
	return cmdline.Command{}, "", false
}

// resolveModel returns either a model id for --model or, when the value names
// an RC alias, the alias expansion as raw tokens.
func (r *Resolver) resolveModel(p provider.CommandParams, rc *rcfile.Config) (string, []string) {
	value := firstNonEmpty(
		strings.TrimSpace(p.ModelID),
		r.env(claudecontract.EnvModel),
		rc.Variable(claudecontract.RCVarModel),
	)
	if value == "" {
		return "", nil
	}
	if expansion, ok := rc.Alias(value); ok {
		return "", cmdline.Split(expansion)
	}
	return model.FullName(value), nil
}

func (r *Resolver) detect() string {
	r.detectOnce.Do(func() {
		if path, err := r.lookPath(claudecontract.BinaryName); err == nil {
			r.detected = path
			slog.Debug("detected claude CLI on PATH", "path", path)
			return
		}
		for _, candidate := range claudecontract.InstallPaths(r.goos, r.homeDir) {
			if isExecutableFile(r.fs, candidate) {
				r.detected = candidate
				slog.Debug("detected claude CLI", "path", candidate)
				return
			}
		}
		slog.Debug("claude CLI not detected", "goos", r.goos)
	})
	return r.detected
}

func (r *Resolver) env(key string) string {
	v, _ := r.lookupEnv(key)
	return strings.TrimSpace(v)
}

// applyAliases replaces every token that names an RC alias with the tokens of
// its expansion. The executable is a token like any other.
func applyAliases(cmd cmdline.Command, rc *rcfile.Config) cmdline.Command {
	if rc == nil || len(rc.Aliases) == 0 {
		return cmd.Clone()
	}
	tokens := make([]string, 0, len(cmd.Args)+1)
	for _, tok := range cmd.Tokens() {
		if expansion, ok := rc.Alias(tok); ok {
			tokens = append(tokens, cmdline.Split(expansion)...)
			continue
		}
		tokens = append(tokens, tok)
	}
	return cmdline.FromTokens(tokens)
}

func isExecutableFile(fsys afero.Fs, path string) bool {
	info, err := fsys.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular() && info.Mode().Perm()&0o111 != 0
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
