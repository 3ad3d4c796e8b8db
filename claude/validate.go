package claude

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/randalmurphal/claudelocal/claudecontract"
	"github.com/randalmurphal/claudelocal/cmdline"
	"github.com/randalmurphal/claudelocal/provider"
)

// validationPrompt is the trivial prompt used for the live round-trip.
const validationPrompt = "Human: Reply with the single word OK.\n\nAssistant:"

// versionTimeout bounds the --version probe.
const versionTimeout = 10 * time.Second

// Validate resolves the command, checks the executable, probes the CLI
// version and sends a trivial prompt. Problems are reported in the result;
// Validate never returns an error.
// Implements provider.Client.
func (p *Provider) Validate(ctx context.Context, params provider.CommandParams) *provider.ValidationResult {
	const op = "validate"
	result := &provider.ValidationResult{IsValid: true}

	merged := p.params(params.Command, params.ModelID)
	cmd, ok := p.resolver.ResolveCommandParsed(merged)
	if !ok {
		result.AddError(classifyFailure(p.notConfiguredError(op)))
		return result
	}
	result.Command = cmdline.Join(cmd)

	path, err := p.verifyExecutable(op, cmd.Executable)
	if err != nil {
		result.AddError(classifyFailure(err))
		return result
	}

	p.checkVersion(ctx, result, path, leadingOperands(cmd.Args))

	timeout := p.validateTimeout
	if timeout <= 0 {
		timeout = DefaultValidateTimeout
	}
	_, err = p.Execute(ctx, validationPrompt, ExecuteOptions{
		Command: merged.Command,
		Model:   merged.ModelID,
		Timeout: timeout,
	})
	if err != nil {
		slog.Debug("claude CLI validation round-trip failed", "command", result.Command, "error", err)
		result.AddError(classifyFailure(err))
	}
	return result
}

// checkVersion records the CLI version and warns when it is newer than the
// tested version. The probe sees the same environment and directory as a
// real invocation. A failed probe is only a warning.
func (p *Provider) checkVersion(ctx context.Context, result *provider.ValidationResult, path string, prefixArgs []string) {
	vctx, cancel := context.WithTimeout(ctx, versionTimeout)
	defer cancel()

	probe := claudecontract.VersionProbe{
		Path:       path,
		PrefixArgs: prefixArgs,
		Env:        childEnv(os.Environ(), p.env, rcExports(p.resolver.RC())),
		Dir:        p.workdir,
	}
	v, err := probe.Detect(vctx)
	if err != nil {
		result.AddWarning("could not detect CLI version: %v", err)
		return
	}
	result.Version = v.String()
	if v.IsUntested() {
		result.AddWarning("CLI version %s is newer than tested version %s; behavior may differ",
			v, claudecontract.TestedCLIVersion)
	}
}

// leadingOperands returns the arguments before the first flag, such as the
// package name after a launcher like npx.
func leadingOperands(args []string) []string {
	for i, a := range args {
		if strings.HasPrefix(a, "-") {
			return args[:i]
		}
	}
	return args
}

var (
	usageLimitMarkers = []string{
		"usage limit", "rate limit", "quota", "limit reached", "credit balance",
		"subscription", "429",
	}
	networkMarkers = []string{
		"enotfound", "econnrefused", "econnreset", "etimedout", "getaddrinfo",
		"network", "could not resolve host", "unable to connect", "connection refused",
		"dns",
	}
	permissionMarkers = []string{
		"permission denied", "eacces", "operation not permitted",
	}
)

// classifyFailure maps an error to a validation issue with a suggested fix.
func classifyFailure(err error) provider.ValidationIssue {
	msg := err.Error()
	lower := strings.ToLower(failureText(err))

	switch {
	case errors.Is(err, provider.ErrNotConfigured):
		return provider.ValidationIssue{
			Type:    provider.IssueInstallationMissing,
			Message: msg,
			Fix:     "Install the Claude CLI with: npm install -g @anthropic-ai/claude-code",
		}
	case errors.Is(err, provider.ErrNotExecutable) && errors.Is(err, fs.ErrPermission):
		return provider.ValidationIssue{
			Type:    provider.IssuePermissionDenied,
			Message: msg,
			Fix:     fixFor(err, "Make the CLI executable with chmod +x"),
		}
	case errors.Is(err, provider.ErrNotExecutable):
		return provider.ValidationIssue{
			Type:    provider.IssueInstallationMissing,
			Message: msg,
			Fix:     fixFor(err, "Install the Claude CLI or correct the configured path"),
		}
	case containsAny(lower, usageLimitMarkers):
		return provider.ValidationIssue{
			Type:    provider.IssueUsageLimit,
			Message: msg,
			Fix:     "Wait for the usage limit to reset or check your plan at https://claude.ai/settings",
		}
	case containsAny(lower, networkMarkers), errors.Is(err, provider.ErrTimeout):
		return provider.ValidationIssue{
			Type:    provider.IssueNetworkUnreachable,
			Message: msg,
			Fix:     "Check your internet connection and proxy settings, then retry",
		}
	case containsAny(lower, permissionMarkers):
		return provider.ValidationIssue{
			Type:    provider.IssuePermissionDenied,
			Message: msg,
			Fix:     "Check file permissions of the CLI and its install directory",
		}
	}
	return provider.ValidationIssue{
		Type:    provider.IssueUnknown,
		Message: msg,
		Fix:     fmt.Sprintf("Run the command manually with %s to see the full error", claudecontract.FlagPrint),
	}
}

// failureText returns the CLI-reported part of err: stderr and the
// underlying cause, without paths.
func failureText(err error) string {
	var provErr *provider.Error
	if !errors.As(err, &provErr) {
		return err.Error()
	}
	text := provErr.Stderr
	if provErr.Err != nil {
		text += " " + provErr.Err.Error()
	}
	return text
}

func fixFor(err error, fallback string) string {
	var provErr *provider.Error
	if errors.As(err, &provErr) && provErr.Fix != "" {
		return provErr.Fix
	}
	return fallback
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}
