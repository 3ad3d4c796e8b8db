package claude

import (
	"context"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/claudelocal/provider"
)

func newScriptStreamer(t *testing.T, script string, env map[string]string, opts ...Option) *StreamingProvider {
	t.Helper()
	p := newScriptProvider(t, script, env, opts...)
	p.name = StreamingProviderName
	return &StreamingProvider{base: p}
}

func userRequest(content string) provider.TextRequest {
	return provider.TextRequest{
		Messages: []provider.Message{provider.NewTextMessage(provider.RoleUser, content)},
	}
}

func TestStreamingProvider_StreamsLinesInOrder(t *testing.T) {
	script := writeMockClaudeScript(t)
	tempDir := t.TempDir()
	sp := newScriptStreamer(t, script, map[string]string{"CLAUDE_TEST_MODE": "lines"}, WithTempDir(tempDir))

	chunks, result, err := sp.StreamText(context.Background(), userRequest("count"))
	require.NoError(t, err)

	var contents []string
	var gotDone bool
	for chunk := range chunks {
		require.NoError(t, chunk.Error)
		if chunk.Done {
			gotDone = true
			continue
		}
		contents = append(contents, chunk.Content)
	}

	assert.True(t, gotDone, "expected a done chunk")
	assert.Equal(t, []string{"one\n", "two\n", "three\n"}, contents)

	resp, err := result.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "one\ntwo\nthree", resp.Text)
	assert.NotEmpty(t, resp.RequestID)
	assertDirEmpty(t, tempDir)
}

func TestStreamingProvider_CancelKillsProcess(t *testing.T) {
	script := writeMockClaudeScript(t)
	tempDir := t.TempDir()
	pidFile := filepath.Join(t.TempDir(), "pid.txt")
	sp := newScriptStreamer(t, script, map[string]string{
		"CLAUDE_TEST_MODE":     "stream_then_hang",
		"CLAUDE_TEST_PID_FILE": pidFile,
	}, WithTempDir(tempDir))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	chunks, result, err := sp.StreamText(ctx, userRequest("go"))
	require.NoError(t, err)

	first := <-chunks
	assert.Equal(t, "first\n", first.Content)

	cancel()

	var after []provider.StreamChunk
	for chunk := range chunks {
		after = append(after, chunk)
	}
	assert.Empty(t, after, "no chunks after cancellation")

	waitCtx, waitCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer waitCancel()
	_, err = result.Wait(waitCtx)
	require.Error(t, err)
	assert.ErrorIs(t, err, provider.ErrCancelled)

	pid, err := strconv.Atoi(strings.TrimSpace(readFileString(t, pidFile)))
	require.NoError(t, err)
	assert.ErrorIs(t, syscall.Kill(pid, 0), syscall.ESRCH, "child process should be gone")
	assertDirEmpty(t, tempDir)
}

func TestStreamingProvider_NoBufferedChunksAfterCancel(t *testing.T) {
	script := writeMockClaudeScript(t)
	sp := newScriptStreamer(t, script, map[string]string{"CLAUDE_TEST_MODE": "burst_then_hang"})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	chunks, result, err := sp.StreamText(ctx, userRequest("go"))
	require.NoError(t, err)

	first := <-chunks
	assert.Equal(t, "line1\n", first.Content)

	// Let the CLI write the rest of its lines before cancelling.
	time.Sleep(300 * time.Millisecond)
	cancel()

	var after []string
	for chunk := range chunks {
		after = append(after, chunk.Content)
	}
	assert.Empty(t, after, "chunks delivered after cancel")

	_, err = result.Wait(context.Background())
	assert.ErrorIs(t, err, provider.ErrCancelled)
}

func TestStreamingProvider_IsClient(t *testing.T) {
	var client provider.Client = NewStreamingProvider()
	assert.Equal(t, StreamingProviderName, client.Provider())
	assert.NoError(t, client.Close())
}

func TestStreamingProvider_ProcessFailure(t *testing.T) {
	script := writeMockClaudeScript(t)
	sp := newScriptStreamer(t, script, map[string]string{
		"CLAUDE_TEST_MODE":   "fail",
		"CLAUDE_TEST_STDERR": "invalid api key",
	})

	chunks, result, err := sp.StreamText(context.Background(), userRequest("go"))
	require.NoError(t, err)

	var last provider.StreamChunk
	for chunk := range chunks {
		last = chunk
	}
	assert.True(t, last.Done)
	assert.ErrorIs(t, last.Error, provider.ErrProcessFailure)

	_, err = result.Wait(context.Background())
	assert.ErrorIs(t, err, provider.ErrProcessFailure)
	assert.Contains(t, err.Error(), "invalid api key")
}

func TestStreamingProvider_Timeout(t *testing.T) {
	script := writeMockClaudeScript(t)
	sp := newScriptStreamer(t, script, map[string]string{"CLAUDE_TEST_MODE": "hang"}, WithTimeout(200*time.Millisecond))

	chunks, result, err := sp.StreamText(context.Background(), userRequest("go"))
	require.NoError(t, err)
	for range chunks {
	}

	_, err = result.Wait(context.Background())
	assert.ErrorIs(t, err, provider.ErrTimeout)
}

func TestStreamingProvider_NotConfigured(t *testing.T) {
	sp := newScriptStreamer(t, "", nil, WithFs(afero.NewMemMapFs()))

	_, _, err := sp.StreamText(context.Background(), userRequest("go"))
	assert.ErrorIs(t, err, provider.ErrNotConfigured)
}

func TestStreamingProvider_InheritsGenerateText(t *testing.T) {
	script := writeMockClaudeScript(t)
	sp := newScriptStreamer(t, script, nil)

	resp, err := sp.GenerateText(context.Background(), userRequest("hi"))
	require.NoError(t, err)
	assert.Equal(t, "Hello world", resp.Text)
}
