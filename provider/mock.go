package provider

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/randalmurphal/claudelocal/parser"
)

// MockClient is a test double for Client.
// It supports fixed responses, sequential responses, and custom handlers.
type MockClient struct {
	mu          sync.Mutex
	responses   []string
	responseIdx int
	err         error
	unavailable bool
	textFunc    func(ctx context.Context, req TextRequest) (*TextResponse, error)
	validation  *ValidationResult

	// Calls tracks all text requests for assertions. Object and stream
	// requests are recorded as their text form.
	Calls []TextRequest
}

// NewMockClient creates a mock that returns a fixed response.
func NewMockClient(response string) *MockClient {
	return &MockClient{responses: []string{response}}
}

// WithResponses configures sequential responses.
// Each call returns the next response in the list, cycling after the last.
func (m *MockClient) WithResponses(responses ...string) *MockClient {
	m.responses = responses
	return m
}

// WithError configures the mock to always return an error.
func (m *MockClient) WithError(err error) *MockClient {
	m.err = err
	return m
}

// WithUnavailable makes IsAvailable report false.
func (m *MockClient) WithUnavailable() *MockClient {
	m.unavailable = true
	return m
}

// WithTextFunc sets a custom handler for GenerateText calls.
// This takes precedence over fixed responses.
func (m *MockClient) WithTextFunc(fn func(ctx context.Context, req TextRequest) (*TextResponse, error)) *MockClient {
	m.textFunc = fn
	return m
}

// WithValidation sets the result returned by Validate.
func (m *MockClient) WithValidation(result *ValidationResult) *MockClient {
	m.validation = result
	return m
}

// IsAvailable implements Client.
func (m *MockClient) IsAvailable(ctx context.Context, params CommandParams) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return !m.unavailable
}

// GenerateText implements Client.
func (m *MockClient) GenerateText(ctx context.Context, req TextRequest) (*TextResponse, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, req)
	fn := m.textFunc
	m.mu.Unlock()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if fn != nil {
		return fn(ctx, req)
	}
	if err := req.Validate(); err != nil {
		return nil, NewError("mock", "generate_text", ErrInvalidRequest, err)
	}

	response, err := m.next()
	if err != nil {
		return nil, err
	}
	return &TextResponse{
		Text:         response,
		RequestID:    fmt.Sprintf("mock-%d", m.CallCount()),
		ResponseTime: 10 * time.Millisecond,
	}, nil
}

// GenerateObject implements Client.
func (m *MockClient) GenerateObject(ctx context.Context, req ObjectRequest) (*ObjectResponse, error) {
	resp, err := m.GenerateText(ctx, req.TextRequest())
	if err != nil {
		return nil, err
	}

	span, err := parser.ObjectSpan(resp.Text)
	if err != nil {
		return nil, NewError("mock", "generate_object", ErrParseFailure, err)
	}
	obj, err := parser.ExtractObject(span)
	if err != nil {
		return nil, NewError("mock", "generate_object", ErrParseFailure, err)
	}
	return &ObjectResponse{
		Object:       obj,
		Raw:          span,
		RequestID:    resp.RequestID,
		ResponseTime: resp.ResponseTime,
	}, nil
}

// StreamText implements Client. The whole response is sent as one chunk.
func (m *MockClient) StreamText(ctx context.Context, req TextRequest) (<-chan StreamChunk, *StreamResult, error) {
	resp, err := m.GenerateText(ctx, req)
	if err != nil {
		return nil, nil, err
	}

	chunks := make(chan StreamChunk, 2)
	result := NewStreamResult()
	chunks <- StreamChunk{Content: resp.Text}
	chunks <- StreamChunk{Done: true}
	close(chunks)
	result.Complete(resp, nil)
	return chunks, result, nil
}

// Validate implements Client.
func (m *MockClient) Validate(ctx context.Context, params CommandParams) *ValidationResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.validation != nil {
		return m.validation
	}
	return &ValidationResult{IsValid: !m.unavailable}
}

// Provider implements Client.
func (m *MockClient) Provider() string { return "mock" }

// Close implements Client.
func (m *MockClient) Close() error { return nil }

// Reset clears the call history and response index.
func (m *MockClient) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = nil
	m.responseIdx = 0
}

// CallCount returns the number of requests made.
func (m *MockClient) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// LastCall returns the most recent request, or nil if no calls made.
func (m *MockClient) LastCall() *TextRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Calls) == 0 {
		return nil
	}
	call := m.Calls[len(m.Calls)-1]
	return &call
}

func (m *MockClient) next() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return "", m.err
	}
	if len(m.responses) == 0 {
		return "", nil
	}
	response := m.responses[m.responseIdx%len(m.responses)]
	m.responseIdx++
	return response, nil
}

var _ Client = (*MockClient)(nil)
