package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// Role identifies the message sender.
type Role string

// Message roles. The set is closed; any other value is rejected.
const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant:
		return true
	}
	return false
}

// Message is a conversation turn.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// NewTextMessage creates a simple text message.
func NewTextMessage(role Role, content string) Message {
	return Message{Role: role, Content: content}
}

// CommandParams selects the command and model for a single resolution.
// Empty fields fall through to the environment, the RC file and detection.
type CommandParams struct {
	// Command is an explicit command line, e.g. "/opt/claude/bin/claude --verbose".
	Command string `json:"command,omitempty" yaml:"command,omitempty"`

	// ModelID is a model name, short alias or RC alias name.
	ModelID string `json:"model_id,omitempty" yaml:"model_id,omitempty"`
}

// TextRequest configures a text generation call.
type TextRequest struct {
	// Messages is the conversation to render into the prompt. Required.
	Messages []Message `json:"messages"`

	// Model overrides the configured model for this call.
	Model string `json:"model,omitempty"`

	// Command overrides the configured command for this call.
	Command string `json:"command,omitempty"`
}

// Params returns the command resolution parameters for the request.
func (r TextRequest) Params() CommandParams {
	return CommandParams{Command: r.Command, ModelID: r.Model}
}

// Validate checks that the request has messages with known roles.
func (r TextRequest) Validate() error {
	if len(r.Messages) == 0 {
		return fmt.Errorf("%w: messages are required", ErrInvalidRequest)
	}
	for i, m := range r.Messages {
		if !m.Role.Valid() {
			return fmt.Errorf("%w: message %d has unknown role %q", ErrInvalidRequest, i, m.Role)
		}
	}
	return nil
}

// TokenUsage tracks token consumption.
// The local CLI does not report usage in text mode, so all counts are zero.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// TextResponse is the output of a text generation call.
type TextResponse struct {
	Text         string        `json:"text"`
	Usage        TokenUsage    `json:"usage"`
	RequestID    string        `json:"request_id"`
	ResponseTime time.Duration `json:"response_time"`
}

// ObjectRequest configures a JSON object generation call.
type ObjectRequest struct {
	// Messages is the conversation; the JSON instruction is appended to the
	// last user turn. Required.
	Messages []Message `json:"messages"`

	// Model overrides the configured model for this call.
	Model string `json:"model,omitempty"`

	// Command overrides the configured command for this call.
	Command string `json:"command,omitempty"`

	// Schema, when set, is a Go value (usually a pointer to a struct) whose
	// JSON Schema is included in the instruction.
	Schema any `json:"-"`

	// SchemaJSON is a literal JSON Schema used when Schema is nil.
	SchemaJSON json.RawMessage `json:"schema,omitempty"`
}

// TextRequest returns the text request carrying the same messages and overrides.
func (r ObjectRequest) TextRequest() TextRequest {
	msgs := make([]Message, len(r.Messages))
	copy(msgs, r.Messages)
	return TextRequest{Messages: msgs, Model: r.Model, Command: r.Command}
}

// ObjectResponse is the output of an object generation call.
type ObjectResponse struct {
	Object       map[string]any `json:"object"`
	Raw          string         `json:"raw"`
	Usage        TokenUsage     `json:"usage"`
	RequestID    string         `json:"request_id"`
	ResponseTime time.Duration  `json:"response_time"`
}

// Decode unmarshals the extracted JSON into v.
func (r *ObjectResponse) Decode(v any) error {
	return json.Unmarshal([]byte(r.Raw), v)
}

// StreamChunk is a piece of a streaming response.
type StreamChunk struct {
	// Content is the text content in this chunk.
	Content string `json:"content,omitempty"`

	// Done indicates this is the final chunk.
	Done bool `json:"done"`

	// Error is non-nil if streaming failed.
	Error error `json:"-"`
}

// StreamResult is a future that resolves when streaming completes.
// Use Wait() to block until the final result is available.
type StreamResult struct {
	done   chan struct{}
	once   sync.Once
	result *TextResponse
	err    error
	mu     sync.Mutex
}

// NewStreamResult creates a new, unresolved StreamResult.
func NewStreamResult() *StreamResult {
	return &StreamResult{
		done: make(chan struct{}),
	}
}

// Wait blocks until streaming completes and returns the final result.
func (sr *StreamResult) Wait(ctx context.Context) (*TextResponse, error) {
	select {
	case <-sr.done:
		sr.mu.Lock()
		defer sr.mu.Unlock()
		return sr.result, sr.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Done returns a channel that closes when streaming completes.
func (sr *StreamResult) Done() <-chan struct{} {
	return sr.done
}

// Complete sets the result and closes the done channel.
// Only the first call has any effect.
func (sr *StreamResult) Complete(result *TextResponse, err error) {
	sr.once.Do(func() {
		sr.mu.Lock()
		sr.result = result
		sr.err = err
		sr.mu.Unlock()
		close(sr.done)
	})
}

// IssueType classifies a validation failure.
type IssueType string

// Validation issue categories.
const (
	IssueInstallationMissing IssueType = "installation_missing"
	IssuePermissionDenied    IssueType = "permission_denied"
	IssueUsageLimit          IssueType = "usage_limit"
	IssueNetworkUnreachable  IssueType = "network_unreachable"
	IssueUnknown             IssueType = "unknown"
)

// ValidationIssue is a single classified failure with a suggested fix.
type ValidationIssue struct {
	Type    IssueType `json:"type" yaml:"type"`
	Message string    `json:"message" yaml:"message"`
	Fix     string    `json:"fix" yaml:"fix"`
}

// ValidationResult reports the outcome of a live round-trip check.
type ValidationResult struct {
	IsValid  bool              `json:"is_valid" yaml:"is_valid"`
	Errors   []ValidationIssue `json:"errors" yaml:"errors"`
	Warnings []string          `json:"warnings" yaml:"warnings"`

	// Command is the resolved command line that was checked, if any.
	Command string `json:"command,omitempty" yaml:"command,omitempty"`

	// Version is the detected CLI version, if any.
	Version string `json:"version,omitempty" yaml:"version,omitempty"`
}

// AddError records an issue and marks the result invalid.
func (v *ValidationResult) AddError(issue ValidationIssue) {
	v.Errors = append(v.Errors, issue)
	v.IsValid = false
}

// AddWarning records a non-fatal observation.
func (v *ValidationResult) AddWarning(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
