package provider_test

import (
	"context"
	"errors"
	"testing"

	"github.com/randalmurphal/claudelocal/provider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func userRequest(text string) provider.TextRequest {
	return provider.TextRequest{
		Messages: []provider.Message{provider.NewTextMessage(provider.RoleUser, text)},
	}
}

func TestMockClient_FixedResponse(t *testing.T) {
	mock := provider.NewMockClient("Hello, world!")

	resp, err := mock.GenerateText(context.Background(), userRequest("Hi"))
	require.NoError(t, err)
	assert.Equal(t, "Hello, world!", resp.Text)
	assert.Equal(t, provider.TokenUsage{}, resp.Usage)
}

func TestMockClient_SequentialResponses(t *testing.T) {
	mock := provider.NewMockClient("").WithResponses("first", "second")

	for _, want := range []string{"first", "second", "first"} {
		resp, err := mock.GenerateText(context.Background(), userRequest("x"))
		require.NoError(t, err)
		assert.Equal(t, want, resp.Text)
	}
	assert.Equal(t, 3, mock.CallCount())
}

func TestMockClient_WithError(t *testing.T) {
	expectedErr := errors.New("test error")
	mock := provider.NewMockClient("").WithError(expectedErr)

	_, err := mock.GenerateText(context.Background(), userRequest("x"))
	assert.Equal(t, expectedErr, err)
}

func TestMockClient_RejectsEmptyMessages(t *testing.T) {
	mock := provider.NewMockClient("x")
	_, err := mock.GenerateText(context.Background(), provider.TextRequest{})
	assert.ErrorIs(t, err, provider.ErrInvalidRequest)
}

func TestMockClient_GenerateObject(t *testing.T) {
	mock := provider.NewMockClient("Sure!\n```json\n{\"a\":1}\n```\nDone.")

	resp, err := mock.GenerateObject(context.Background(), provider.ObjectRequest{
		Messages: []provider.Message{provider.NewTextMessage(provider.RoleUser, "give me json")},
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": float64(1)}, resp.Object)
	assert.Equal(t, `{"a":1}`, resp.Raw)
}

func TestMockClient_GenerateObjectParseFailure(t *testing.T) {
	mock := provider.NewMockClient("no json here")

	_, err := mock.GenerateObject(context.Background(), provider.ObjectRequest{
		Messages: []provider.Message{provider.NewTextMessage(provider.RoleUser, "x")},
	})
	assert.ErrorIs(t, err, provider.ErrParseFailure)
}

func TestMockClient_StreamText(t *testing.T) {
	mock := provider.NewMockClient("streamed")

	chunks, result, err := mock.StreamText(context.Background(), userRequest("x"))
	require.NoError(t, err)

	var text string
	for c := range chunks {
		text += c.Content
	}
	assert.Equal(t, "streamed", text)

	final, err := result.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "streamed", final.Text)
}

func TestMockClient_Availability(t *testing.T) {
	ctx := context.Background()
	assert.True(t, provider.NewMockClient("").IsAvailable(ctx, provider.CommandParams{}))

	mock := provider.NewMockClient("").WithUnavailable()
	assert.False(t, mock.IsAvailable(ctx, provider.CommandParams{}))
	assert.False(t, mock.Validate(ctx, provider.CommandParams{}).IsValid)
}

func TestMockClient_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := provider.NewMockClient("x").GenerateText(ctx, userRequest("x"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMockClient_ResetAndLastCall(t *testing.T) {
	mock := provider.NewMockClient("x")
	assert.Nil(t, mock.LastCall())

	_, _ = mock.GenerateText(context.Background(), userRequest("remember me"))
	require.NotNil(t, mock.LastCall())
	assert.Equal(t, "remember me", mock.LastCall().Messages[0].Content)

	mock.Reset()
	assert.Equal(t, 0, mock.CallCount())
}
