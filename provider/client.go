// Package provider defines the request/response contract between a host
// application and a local AI CLI provider.
//
// Hosts program against Client and obtain implementations from the registry,
// so the local Claude CLI can stand in for a hosted API:
//
//	client, err := provider.New("claude-code", provider.Config{
//	    Provider: "claude-code",
//	    Model:    "sonnet",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	if !client.IsAvailable(ctx, provider.CommandParams{}) {
//	    // fall back to a hosted provider
//	}
//	resp, err := client.GenerateText(ctx, provider.TextRequest{
//	    Messages: []provider.Message{provider.NewTextMessage(provider.RoleUser, "Summarize the task")},
//	})
//
// # Available Providers
//
//   - "claude-code": local Claude CLI, one process per call, no streaming
//   - "claude-code-streaming": same, with line-by-line streaming and cancellation
//
// # Errors
//
// Every failure is a *Error whose Kind is one of the sentinel errors in this
// package, so callers can branch with errors.Is.
package provider

import "context"

// Client is the host-facing interface for a local CLI provider.
// Implementations must be safe for concurrent use.
type Client interface {
	// IsAvailable reports whether a command can be resolved for params.
	// It never starts a process.
	IsAvailable(ctx context.Context, params CommandParams) bool

	// GenerateText renders the messages into a prompt, runs the CLI and
	// returns its trimmed output.
	GenerateText(ctx context.Context, req TextRequest) (*TextResponse, error)

	// GenerateObject asks for JSON only and decodes the outermost object in
	// the reply.
	GenerateObject(ctx context.Context, req ObjectRequest) (*ObjectResponse, error)

	// StreamText returns a channel of chunks and a future for the full text.
	// The channel is closed when streaming completes or ctx is cancelled.
	// Providers without streaming return ErrUnsupported.
	StreamText(ctx context.Context, req TextRequest) (<-chan StreamChunk, *StreamResult, error)

	// Validate performs a live round-trip and reports classified problems
	// instead of returning an error.
	Validate(ctx context.Context, params CommandParams) *ValidationResult

	// Provider returns the provider name (e.g., "claude-code").
	Provider() string

	// Close releases any resources held by the client.
	Close() error
}
