package provider

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRole_Valid(t *testing.T) {
	for _, r := range []Role{RoleSystem, RoleUser, RoleAssistant} {
		assert.True(t, r.Valid(), r)
	}
	assert.False(t, Role("tool").Valid())
	assert.False(t, Role("").Valid())
}

func TestTextRequest_Validate(t *testing.T) {
	err := TextRequest{}.Validate()
	assert.ErrorIs(t, err, ErrInvalidRequest)

	err = TextRequest{Messages: []Message{{Role: "narrator", Content: "x"}}}.Validate()
	assert.ErrorIs(t, err, ErrInvalidRequest)
	assert.Contains(t, err.Error(), "narrator")

	assert.NoError(t, TextRequest{Messages: []Message{NewTextMessage(RoleUser, "hi")}}.Validate())
}

func TestTextRequest_Params(t *testing.T) {
	req := TextRequest{Model: "opus", Command: "claude"}
	assert.Equal(t, CommandParams{Command: "claude", ModelID: "opus"}, req.Params())
}

func TestObjectRequest_TextRequestCopiesMessages(t *testing.T) {
	req := ObjectRequest{
		Messages: []Message{NewTextMessage(RoleUser, "original")},
		Model:    "haiku",
	}
	text := req.TextRequest()
	text.Messages[0].Content = "changed"

	assert.Equal(t, "original", req.Messages[0].Content)
	assert.Equal(t, "haiku", text.Model)
}

func TestObjectResponse_Decode(t *testing.T) {
	resp := &ObjectResponse{Raw: `{"title":"x","count":2}`}

	var out struct {
		Title string `json:"title"`
		Count int    `json:"count"`
	}
	require.NoError(t, resp.Decode(&out))
	assert.Equal(t, "x", out.Title)
	assert.Equal(t, 2, out.Count)
}

func TestStreamResult_CompleteOnce(t *testing.T) {
	sr := NewStreamResult()
	sr.Complete(&TextResponse{Text: "first"}, nil)
	sr.Complete(nil, errors.New("ignored"))

	resp, err := sr.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "first", resp.Text)

	select {
	case <-sr.Done():
	default:
		t.Fatal("Done channel should be closed")
	}
}

func TestStreamResult_WaitRespectsContext(t *testing.T) {
	sr := NewStreamResult()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := sr.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestValidationResult(t *testing.T) {
	v := &ValidationResult{IsValid: true}
	v.AddWarning("version %s is newer than tested", "9.9.9")
	assert.True(t, v.IsValid)
	assert.Equal(t, []string{"version 9.9.9 is newer than tested"}, v.Warnings)

	v.AddError(ValidationIssue{Type: IssueUsageLimit, Message: "limit reached", Fix: "wait"})
	assert.False(t, v.IsValid)
	assert.Len(t, v.Errors, 1)
}
