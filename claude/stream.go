package claude

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/randalmurphal/claudelocal/provider"
)

// StreamingProvider is a Provider that streams stdout line by line.
// Cancelling the request context kills the CLI process group and ends the
// stream.
type StreamingProvider struct {
	*base
}

// base lets StreamingProvider embed Provider without a field named Provider,
// which would hide the Provider method.
type base = Provider

// NewStreamingProvider creates a StreamingProvider.
func NewStreamingProvider(opts ...Option) *StreamingProvider {
	p := NewProvider(opts...)
	p.name = StreamingProviderName
	return &StreamingProvider{base: p}
}

// StreamText starts the CLI and returns a channel of stdout lines in arrival
// order. The channel is closed when the process exits or ctx is cancelled.
// The StreamResult resolves with the full trimmed output, or with an error
// whose kind is provider.ErrCancelled when ctx was cancelled.
//
// Example:
//
//	chunks, result, err := sp.StreamText(ctx, req)
//	if err != nil {
//	    return err
//	}
//	for chunk := range chunks {
//	    fmt.Print(chunk.Content)
//	}
//	final, err := result.Wait(context.Background())
//
// Implements provider.Client.
func (s *StreamingProvider) StreamText(ctx context.Context, req provider.TextRequest) (<-chan provider.StreamChunk, *provider.StreamResult, error) {
	const op = "stream_text"

	prompt, err := FormatPrompt(req.Messages)
	if err != nil {
		return nil, nil, provider.NewError(s.name, op, provider.ErrInvalidRequest, err)
	}

	inv, err := s.prepare(op, prompt, ExecuteOptions{Model: req.Model, Command: req.Command})
	if err != nil {
		return nil, nil, err
	}

	stdin, err := s.fs.Open(inv.promptFile)
	if err != nil {
		s.removePromptFile(inv.promptFile)
		return nil, nil, &provider.Error{Provider: s.name, Op: op, Kind: provider.ErrProcessFailure, Err: fmt.Errorf("open prompt file: %w", err)}
	}

	inv.timeout = boundTimeout(ctx, inv.timeout)
	timeoutCtx, abort := context.WithTimeout(ctx, inv.timeout)
	var stderr bytes.Buffer
	cmd := s.newCmd(timeoutCtx, inv)
	cmd.Stdin = stdin
	stderrLimit := newOutputLimit(s.maxOutputBytes, abort)
	cmd.Stderr = stderrLimit.writer(&stderr)

	stdout, err := cmd.StdoutPipe()
	if err == nil {
		err = cmd.Start()
	}
	if err != nil {
		abort()
		_ = stdin.Close()
		s.removePromptFile(inv.promptFile)
		return nil, nil, s.exitError(op, inv.path, err, "")
	}

	st := &stream{
		provider:   s.base,
		op:         op,
		inv:        inv,
		parent:     ctx,
		timeoutCtx: timeoutCtx,
		abort:      abort,
		stdout:     stdout,
		stderr:     &stderr,
		stderrCap:  stderrLimit,
		chunks:     make(chan provider.StreamChunk),
		result:     provider.NewStreamResult(),
		start:      time.Now(),
	}
	go func() {
		defer abort()
		defer s.removePromptFile(inv.promptFile)
		defer stdin.Close()
		st.process(cmd.Wait)
	}()

	return st.chunks, st.result, nil
}

// stream carries the state of one streaming invocation.
type stream struct {
	provider   *Provider
	op         string
	inv        *invocation
	parent     context.Context
	timeoutCtx context.Context
	abort      context.CancelFunc
	stdout     io.Reader
	stderr     *bytes.Buffer
	stderrCap  *outputLimit
	chunks     chan provider.StreamChunk
	result     *provider.StreamResult
	start      time.Time
}

func (st *stream) process(wait func() error) {
	defer close(st.chunks)

	scanner := bufio.NewScanner(st.stdout)
	// Increase buffer size for long lines (10MB max)
	const maxScanTokenSize = 10 * 1024 * 1024
	scanner.Buffer(make([]byte, 64*1024), maxScanTokenSize)

	var full strings.Builder
	tooLarge := false
	for scanner.Scan() {
		line := scanner.Text() + "\n"
		if limit := st.provider.maxOutputBytes; limit > 0 && int64(full.Len()+len(line)) > limit {
			tooLarge = true
			st.abort()
			break
		}
		full.WriteString(line)
		if !st.emit(provider.StreamChunk{Content: line}) {
			break
		}
	}
	scanErr := scanner.Err()

	// Wait must not run before reads from the pipe are finished.
	_, _ = io.Copy(io.Discard, st.stdout)
	waitErr := wait()
	tooLarge = tooLarge || st.stderrCap.exceeded()

	switch {
	case tooLarge:
		st.finish(nil, &provider.Error{
			Provider: st.provider.name,
			Op:       st.op,
			Kind:     provider.ErrOutputTooLarge,
			Err:      fmt.Errorf("output exceeded %d bytes", st.provider.maxOutputBytes),
			Path:     st.inv.path,
		})
		return
	case waitErr != nil && st.timeoutCtx.Err() != nil:
		if err := st.provider.contextError(st.parent, st.timeoutCtx, st.op, st.inv); err != nil {
			st.finish(nil, err)
			return
		}
	}

	if scanErr != nil {
		st.finish(nil, &provider.Error{
			Provider: st.provider.name,
			Op:       st.op,
			Kind:     provider.ErrProcessFailure,
			Err:      fmt.Errorf("read output: %w", scanErr),
			Path:     st.inv.path,
		})
		return
	}
	if waitErr != nil {
		st.finish(nil, st.provider.exitError(st.op, st.inv.path, waitErr, st.stderr.String()))
		return
	}

	text := strings.TrimSpace(full.String())
	if text == "" && strings.TrimSpace(st.stderr.String()) != "" {
		st.finish(nil, &provider.Error{
			Provider: st.provider.name,
			Op:       st.op,
			Kind:     provider.ErrProcessFailure,
			Path:     st.inv.path,
			Stderr:   sanitizeStderr(st.stderr.String()),
		})
		return
	}

	st.finish(&provider.TextResponse{
		Text:         text,
		RequestID:    uuid.NewString(),
		ResponseTime: time.Since(st.start),
	}, nil)
}

// emit delivers a content chunk. It reports false once the run has ended.
// The channel is unbuffered, so nothing is left queued for the consumer after
// cancellation.
func (st *stream) emit(chunk provider.StreamChunk) bool {
	select {
	case <-st.timeoutCtx.Done():
		return false
	default:
	}
	select {
	case st.chunks <- chunk:
		return true
	case <-st.timeoutCtx.Done():
		return false
	}
}

// finish sends the final chunk and resolves the result. A cancelled stream
// gets no final chunk.
func (st *stream) finish(resp *provider.TextResponse, err error) {
	if err != nil {
		slog.Debug("claude CLI stream failed", "path", st.inv.path, "error", err)
	}
	if st.parent.Err() == nil {
		select {
		case st.chunks <- provider.StreamChunk{Done: true, Error: err}:
		case <-st.parent.Done():
		}
	}
	st.result.Complete(resp, err)
}

var _ provider.Client = (*StreamingProvider)(nil)
