package claude

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/spf13/afero"

	"github.com/randalmurphal/claudelocal/claudecontract"
	"github.com/randalmurphal/claudelocal/provider"
	"github.com/randalmurphal/claudelocal/rcfile"
)

// waitDelay bounds how long Wait blocks on output pipes after the process
// has been killed.
const waitDelay = 2 * time.Second

// ExecuteOptions selects the command and model for one invocation.
// Empty fields fall back to the provider defaults and then to resolution.
type ExecuteOptions struct {
	Model   string
	Command string

	// Timeout overrides the provider timeout when positive.
	Timeout time.Duration
}

// invocation is a fully prepared CLI run.
type invocation struct {
	path       string
	args       []string
	env        []string
	promptFile string
	timeout    time.Duration
}

// Execute runs the CLI with prompt on stdin and returns its trimmed stdout.
// It does not retry.
func (p *Provider) Execute(ctx context.Context, prompt string, opts ExecuteOptions) (string, error) {
	const op = "execute"

	inv, err := p.prepare(op, prompt, opts)
	if err != nil {
		return "", err
	}
	defer p.removePromptFile(inv.promptFile)

	return p.run(ctx, op, inv)
}

// prepare resolves the command, checks the executable and writes the prompt
// file. On success the caller owns inv.promptFile.
func (p *Provider) prepare(op, prompt string, opts ExecuteOptions) (*invocation, error) {
	env := childEnv(os.Environ(), p.env, rcExports(p.resolver.RC()))

	cmd, ok := p.resolver.ResolveCommandParsed(p.params(opts.Command, opts.Model))
	if !ok {
		return nil, p.notConfiguredError(op)
	}

	if p.useFileReference() {
		prompt = substituteFileReferences(p.fs, prompt)
	}

	args := cmd.Args
	if !claudecontract.HasPrintFlag(args) {
		args = append([]string{claudecontract.FlagPrint}, args...)
	}

	path, err := p.verifyExecutable(op, cmd.Executable)
	if err != nil {
		return nil, err
	}

	promptFile, err := p.writePromptFile(op, prompt)
	if err != nil {
		return nil, err
	}

	timeout := p.timeout
	if opts.Timeout > 0 {
		timeout = opts.Timeout
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	slog.Debug("prepared claude CLI invocation",
		"path", path,
		"args", args,
		"prompt_bytes", len(prompt),
		"timeout", timeout,
	)

	return &invocation{
		path:       path,
		args:       args,
		env:        env,
		promptFile: promptFile,
		timeout:    timeout,
	}, nil
}

// run spawns the prepared invocation and waits for it.
func (p *Provider) run(ctx context.Context, op string, inv *invocation) (string, error) {
	stdin, err := p.fs.Open(inv.promptFile)
	if err != nil {
		return "", &provider.Error{Provider: p.name, Op: op, Kind: provider.ErrProcessFailure, Err: fmt.Errorf("open prompt file: %w", err)}
	}
	defer stdin.Close()

	inv.timeout = boundTimeout(ctx, inv.timeout)
	timeoutCtx, cancelTimeout := context.WithTimeout(ctx, inv.timeout)
	defer cancelTimeout()
	runCtx, abort := context.WithCancel(timeoutCtx)
	defer abort()

	limit := newOutputLimit(p.maxOutputBytes, abort)
	var stdout, stderr bytes.Buffer

	cmd := p.newCmd(runCtx, inv)
	cmd.Stdin = stdin
	cmd.Stdout = limit.writer(&stdout)
	cmd.Stderr = limit.writer(&stderr)

	start := time.Now()
	runErr := cmd.Run()
	slog.Debug("claude CLI finished",
		"path", inv.path,
		"duration", time.Since(start),
		"stdout_bytes", stdout.Len(),
		"stderr_bytes", stderr.Len(),
		"error", runErr,
	)

	if limit.exceeded() {
		return "", &provider.Error{
			Provider: p.name,
			Op:       op,
			Kind:     provider.ErrOutputTooLarge,
			Err:      fmt.Errorf("output exceeded %d bytes", p.maxOutputBytes),
			Path:     inv.path,
		}
	}
	if runErr != nil {
		if err := p.contextError(ctx, timeoutCtx, op, inv); err != nil {
			return "", err
		}
		return "", p.exitError(op, inv.path, runErr, stderr.String())
	}

	out := strings.TrimSpace(stdout.String())
	if out == "" && strings.TrimSpace(stderr.String()) != "" {
		// A zero exit that only wrote to stderr is treated as a failure.
		return "", &provider.Error{
			Provider:  p.name,
			Op:        op,
			Kind:      provider.ErrProcessFailure,
			Path:      inv.path,
			Stderr:    sanitizeStderr(stderr.String()),
			Retryable: isRetryableError(stderr.String()),
		}
	}
	return out, nil
}

// newCmd builds the child process in its own process group. Cancelling ctx
// kills the whole group.
func (p *Provider) newCmd(ctx context.Context, inv *invocation) *exec.Cmd {
	cmd := exec.CommandContext(ctx, inv.path, inv.args...)
	if p.workdir != "" {
		cmd.Dir = p.workdir
	}
	cmd.Env = inv.env

	// The CLI spawns helpers (MCP servers, tool subprocesses) that would be
	// orphaned if only the direct child were killed.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
	cmd.WaitDelay = waitDelay
	return cmd
}

// boundTimeout shortens d to the time left before ctx's deadline, so a
// timeout error reports the limit that was actually in force.
func boundTimeout(ctx context.Context, d time.Duration) time.Duration {
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline).Round(time.Millisecond); left < d {
			return left
		}
	}
	return d
}

// contextError maps a context that ended during the run to a provider error.
func (p *Provider) contextError(parent, timeoutCtx context.Context, op string, inv *invocation) error {
	switch {
	case errors.Is(parent.Err(), context.Canceled):
		return &provider.Error{
			Provider: p.name,
			Op:       op,
			Kind:     provider.ErrCancelled,
			Err:      parent.Err(),
			Path:     inv.path,
		}
	case timeoutCtx.Err() != nil:
		return &provider.Error{
			Provider:  p.name,
			Op:        op,
			Kind:      provider.ErrTimeout,
			Err:       timeoutCtx.Err(),
			Path:      inv.path,
			Timeout:   inv.timeout,
			Retryable: true,
		}
	}
	return nil
}

func (p *Provider) exitError(op, path string, err error, stderr string) error {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &provider.Error{
			Provider:  p.name,
			Op:        op,
			Kind:      provider.ErrProcessFailure,
			Path:      path,
			ExitCode:  exitErr.ExitCode(),
			Stderr:    sanitizeStderr(stderr),
			Retryable: isRetryableError(stderr),
		}
	}
	if errors.Is(err, fs.ErrPermission) {
		return &provider.Error{
			Provider: p.name,
			Op:       op,
			Kind:     provider.ErrNotExecutable,
			Err:      err,
			Path:     path,
			Fix:      "Run: chmod +x " + path,
		}
	}
	return &provider.Error{
		Provider: p.name,
		Op:       op,
		Kind:     provider.ErrProcessFailure,
		Err:      fmt.Errorf("start command: %w", err),
		Path:     path,
	}
}

func (p *Provider) notConfiguredError(op string) error {
	return &provider.Error{
		Provider: p.name,
		Op:       op,
		Kind:     provider.ErrNotConfigured,
		Fix: fmt.Sprintf("Install the Claude CLI (npm install -g @anthropic-ai/claude-code), "+
			"or set %s, or set %s=... in ~/%s",
			claudecontract.EnvCommand, claudecontract.RCVarCommand, rcfile.FileName),
	}
}

// verifyExecutable checks that the executable exists and may be run.
// Bare names are searched on PATH. The returned path is absolute when it
// could be determined.
func (p *Provider) verifyExecutable(op, exe string) (string, error) {
	if !strings.ContainsRune(exe, '/') && !strings.ContainsRune(exe, filepath.Separator) {
		path, err := p.lookPath(exe)
		if err != nil {
			return "", &provider.Error{
				Provider: p.name,
				Op:       op,
				Kind:     provider.ErrNotExecutable,
				Err:      err,
				Path:     exe,
				Fix:      fmt.Sprintf("Make sure %s is installed and on PATH", exe),
			}
		}
		return path, nil
	}

	path := exe
	if !filepath.IsAbs(path) {
		base := p.workdir
		if base == "" {
			base, _ = os.Getwd()
		}
		path = filepath.Join(base, path)
	}

	info, err := p.fs.Stat(path)
	if err != nil {
		return "", &provider.Error{
			Provider: p.name,
			Op:       op,
			Kind:     provider.ErrNotExecutable,
			Err:      err,
			Path:     path,
			Fix:      fmt.Sprintf("Check the command in %s or the RC file", claudecontract.EnvCommand),
		}
	}
	if !info.Mode().IsRegular() || info.Mode().Perm()&0o111 == 0 {
		return "", &provider.Error{
			Provider: p.name,
			Op:       op,
			Kind:     provider.ErrNotExecutable,
			Err:      fmt.Errorf("%s: %w", info.Mode(), fs.ErrPermission),
			Path:     path,
			Fix:      "Run: chmod +x " + path,
		}
	}
	return path, nil
}

// writePromptFile stores the prompt in a new temp file and returns its name.
func (p *Provider) writePromptFile(op, prompt string) (string, error) {
	f, err := afero.TempFile(p.fs, p.tempDir, "claude-prompt-*.txt")
	if err != nil {
		return "", &provider.Error{Provider: p.name, Op: op, Kind: provider.ErrProcessFailure, Err: fmt.Errorf("create prompt file: %w", err)}
	}
	name := f.Name()

	if _, err := io.WriteString(f, prompt); err != nil {
		_ = f.Close()
		p.removePromptFile(name)
		return "", &provider.Error{Provider: p.name, Op: op, Kind: provider.ErrProcessFailure, Err: fmt.Errorf("write prompt file: %w", err)}
	}
	if err := f.Close(); err != nil {
		p.removePromptFile(name)
		return "", &provider.Error{Provider: p.name, Op: op, Kind: provider.ErrProcessFailure, Err: fmt.Errorf("close prompt file: %w", err)}
	}
	return name, nil
}

func (p *Provider) removePromptFile(name string) {
	if err := p.fs.Remove(name); err != nil {
		slog.Debug("failed to remove prompt file", "path", name, "error", err)
	}
}

func rcExports(rc *rcfile.Config) map[string]string {
	if rc == nil {
		return nil
	}
	return rc.Exports
}

// outputLimit caps the bytes accepted across several writers and calls
// onExceed once when the cap is passed.
type outputLimit struct {
	max      int64
	used     atomic.Int64
	over     atomic.Bool
	once     sync.Once
	onExceed func()
}

func newOutputLimit(limit int64, onExceed func()) *outputLimit {
	return &outputLimit{max: limit, onExceed: onExceed}
}

func (l *outputLimit) writer(w io.Writer) io.Writer {
	return &limitedWriter{w: w, limit: l}
}

func (l *outputLimit) exceeded() bool {
	return l.over.Load()
}

func (l *outputLimit) add(n int) bool {
	if l.max <= 0 {
		return true
	}
	if l.used.Add(int64(n)) <= l.max {
		return true
	}
	l.over.Store(true)
	l.once.Do(l.onExceed)
	return false
}

type limitedWriter struct {
	w     io.Writer
	limit *outputLimit
}

// Write discards data past the cap without failing, so the copy goroutine
// keeps draining the pipe until the process is killed.
func (lw *limitedWriter) Write(b []byte) (int, error) {
	if !lw.limit.add(len(b)) {
		return len(b), nil
	}
	return lw.w.Write(b)
}
