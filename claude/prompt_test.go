package claude

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/claudelocal/provider"
)

func TestFormatPrompt(t *testing.T) {
	tests := []struct {
		name     string
		messages []provider.Message
		want     string
	}{
		{
			name:     "single user turn",
			messages: []provider.Message{{Role: provider.RoleUser, Content: "Hi"}},
			want:     "Human: Hi\n\nAssistant:",
		},
		{
			name: "system and user",
			messages: []provider.Message{
				{Role: provider.RoleSystem, Content: "Be terse."},
				{Role: provider.RoleUser, Content: "List tasks"},
			},
			want: "System: Be terse.\n\nHuman: List tasks\n\nAssistant:",
		},
		{
			name: "assistant last gets no marker",
			messages: []provider.Message{
				{Role: provider.RoleUser, Content: "Start"},
				{Role: provider.RoleAssistant, Content: "Sure, here is"},
			},
			want: "Human: Start\n\nAssistant: Sure, here is",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FormatPrompt(tt.messages)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatPrompt_Invalid(t *testing.T) {
	_, err := FormatPrompt(nil)
	assert.ErrorIs(t, err, provider.ErrInvalidRequest)

	_, err = FormatPrompt([]provider.Message{{Role: "tool", Content: "x"}})
	assert.ErrorIs(t, err, provider.ErrInvalidRequest)
	assert.Contains(t, err.Error(), `"tool"`)
}

func TestWithJSONInstruction(t *testing.T) {
	msgs := []provider.Message{
		{Role: provider.RoleUser, Content: "first"},
		{Role: provider.RoleAssistant, Content: "ok"},
		{Role: provider.RoleUser, Content: "give me json"},
	}

	out := withJSONInstruction(msgs, "")
	require.Len(t, out, 3)
	assert.Equal(t, "first", out[0].Content)
	assert.True(t, strings.HasPrefix(out[2].Content, "give me json\n\n"))
	assert.Contains(t, out[2].Content, "valid JSON object")
	assert.Equal(t, "give me json", msgs[2].Content, "input must not be modified")

	withSchema := withJSONInstruction(msgs, `{"type":"object"}`)
	assert.Contains(t, withSchema[2].Content, `{"type":"object"}`)
}

func TestWithJSONInstruction_NoUserTurn(t *testing.T) {
	out := withJSONInstruction([]provider.Message{{Role: provider.RoleSystem, Content: "sys"}}, "")
	require.Len(t, out, 2)
	assert.Equal(t, provider.RoleUser, out[1].Role)
	assert.Contains(t, out[1].Content, "valid JSON object")
}
