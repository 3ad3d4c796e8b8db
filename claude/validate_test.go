package claude

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/claudelocal/provider"
)

func requireSingleIssue(t *testing.T, result *provider.ValidationResult) provider.ValidationIssue {
	t.Helper()
	require.NotNil(t, result)
	require.False(t, result.IsValid)
	require.Len(t, result.Errors, 1, "errors: %+v", result.Errors)
	return result.Errors[0]
}

func TestValidate_Success(t *testing.T) {
	script := writeMockClaudeScript(t)
	p := newScriptProvider(t, script, nil)

	result := p.Validate(context.Background(), provider.CommandParams{})
	require.NotNil(t, result)
	assert.True(t, result.IsValid, "errors: %+v", result.Errors)
	assert.Empty(t, result.Errors)
	assert.Empty(t, result.Warnings)
	assert.Equal(t, "2.1.19", result.Version)
	assert.Equal(t, script, result.Command)
}

func TestValidate_UntestedVersionWarns(t *testing.T) {
	script := writeMockClaudeScript(t)
	p := newScriptProvider(t, script, map[string]string{"CLAUDE_TEST_VERSION": "99.0.0"})

	result := p.Validate(context.Background(), provider.CommandParams{})
	assert.True(t, result.IsValid)
	assert.Equal(t, "99.0.0", result.Version)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "newer than tested")
}

func TestValidate_NotConfigured(t *testing.T) {
	p := newScriptProvider(t, "", nil, WithFs(afero.NewMemMapFs()))

	issue := requireSingleIssue(t, p.Validate(context.Background(), provider.CommandParams{}))
	assert.Equal(t, provider.IssueInstallationMissing, issue.Type)
	assert.Contains(t, issue.Fix, "npm install")
}

func TestValidate_MissingExecutable(t *testing.T) {
	p := newScriptProvider(t, "/nonexistent/bin/claude", nil)

	issue := requireSingleIssue(t, p.Validate(context.Background(), provider.CommandParams{}))
	assert.Equal(t, provider.IssueInstallationMissing, issue.Type)
}

func TestValidate_PermissionDenied(t *testing.T) {
	path := filepath.Join(t.TempDir(), "claude")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\necho hi\n"), 0o644))
	p := newScriptProvider(t, path, nil)

	issue := requireSingleIssue(t, p.Validate(context.Background(), provider.CommandParams{}))
	assert.Equal(t, provider.IssuePermissionDenied, issue.Type)
	assert.Contains(t, issue.Fix, "chmod +x")
}

func TestValidate_ClassifiesCLIFailures(t *testing.T) {
	tests := []struct {
		name   string
		stderr string
		want   provider.IssueType
	}{
		{"usage limit", "Claude AI usage limit reached|1760000000", provider.IssueUsageLimit},
		{"rate limit", "API Error: 429 rate_limit_error", provider.IssueUsageLimit},
		{"dns failure", "getaddrinfo ENOTFOUND api.anthropic.com", provider.IssueNetworkUnreachable},
		{"refused", "connect ECONNREFUSED 127.0.0.1:443", provider.IssueNetworkUnreachable},
		{"eacces", "EACCES: permission denied, open '/root/.claude.json'", provider.IssuePermissionDenied},
		{"other", "unexpected internal error", provider.IssueUnknown},
	}

	script := writeMockClaudeScript(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newScriptProvider(t, script, map[string]string{
				"CLAUDE_TEST_MODE":   "fail",
				"CLAUDE_TEST_STDERR": tt.stderr,
			})

			issue := requireSingleIssue(t, p.Validate(context.Background(), provider.CommandParams{}))
			assert.Equal(t, tt.want, issue.Type, "message: %s", issue.Message)
			assert.NotEmpty(t, issue.Fix)
			assert.NotEmpty(t, issue.Message)
		})
	}
}

func TestValidate_TimeoutIsNetworkUnreachable(t *testing.T) {
	script := writeMockClaudeScript(t)
	p := newScriptProvider(t, script, map[string]string{"CLAUDE_TEST_MODE": "hang"},
		WithValidateTimeout(200*time.Millisecond))

	issue := requireSingleIssue(t, p.Validate(context.Background(), provider.CommandParams{}))
	assert.Equal(t, provider.IssueNetworkUnreachable, issue.Type)
}

func TestClassifyFailure_IgnoresPathText(t *testing.T) {
	// The executable path contains a marker word but the failure does not.
	err := &provider.Error{
		Provider: ProviderName,
		Op:       "validate",
		Kind:     provider.ErrProcessFailure,
		Path:     "/home/network-admin/quota/claude",
		Stderr:   "segmentation fault",
		Err:      errors.New("exit status 139"),
	}
	assert.Equal(t, provider.IssueUnknown, classifyFailure(err).Type)
}

func TestClassifyFailure_Kinds(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want provider.IssueType
	}{
		{"not configured", provider.NewError(ProviderName, "validate", provider.ErrNotConfigured, nil), provider.IssueInstallationMissing},
		{"missing", provider.NewError(ProviderName, "validate", provider.ErrNotExecutable, fs.ErrNotExist), provider.IssueInstallationMissing},
		{"no exec bit", provider.NewError(ProviderName, "validate", provider.ErrNotExecutable, fmt.Errorf("-rw-r--r--: %w", fs.ErrPermission)), provider.IssuePermissionDenied},
		{"timeout", provider.NewError(ProviderName, "validate", provider.ErrTimeout, nil), provider.IssueNetworkUnreachable},
		{"plain", errors.New("something odd"), provider.IssueUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classifyFailure(tt.err).Type)
		})
	}
}

func TestLeadingOperands(t *testing.T) {
	assert.Equal(t, []string{"@anthropic-ai/claude-code"}, leadingOperands([]string{"@anthropic-ai/claude-code", "--model", "x"}))
	assert.Empty(t, leadingOperands([]string{"--verbose"}))
	assert.Equal(t, []string{"a", "b"}, leadingOperands([]string{"a", "b"}))
	assert.Empty(t, leadingOperands(nil))
}
