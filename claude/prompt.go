package claude

import (
	"fmt"
	"strings"

	"github.com/randalmurphal/claudelocal/provider"
)

// rolePrefixes maps every message role to its prompt prefix.
var rolePrefixes = map[provider.Role]string{
	provider.RoleSystem:    "System:",
	provider.RoleUser:      "Human:",
	provider.RoleAssistant: "Assistant:",
}

const assistantMarker = "Assistant:"

// FormatPrompt renders messages into a single prompt.
// Turns are separated by a blank line. A trailing "Assistant:" marker is added
// unless the last turn is the assistant's.
func FormatPrompt(messages []provider.Message) (string, error) {
	if len(messages) == 0 {
		return "", fmt.Errorf("%w: messages are required", provider.ErrInvalidRequest)
	}

	turns := make([]string, 0, len(messages)+1)
	for i, m := range messages {
		prefix, ok := rolePrefixes[m.Role]
		if !ok {
			return "", fmt.Errorf("%w: message %d has unknown role %q", provider.ErrInvalidRequest, i, m.Role)
		}
		turns = append(turns, prefix+" "+m.Content)
	}
	if messages[len(messages)-1].Role != provider.RoleAssistant {
		turns = append(turns, assistantMarker)
	}
	return strings.Join(turns, "\n\n"), nil
}

const jsonInstruction = "Respond with only a valid JSON object. Do not include any explanation or text outside the JSON."

// withJSONInstruction returns a copy of messages with the JSON-only
// instruction appended to the last user turn. A user turn is added when
// there is none.
func withJSONInstruction(messages []provider.Message, schema string) []provider.Message {
	instruction := jsonInstruction
	if schema != "" {
		instruction += "\nThe JSON must conform to this JSON Schema:\n" + schema
	}

	out := make([]provider.Message, len(messages))
	copy(out, messages)
	for i := len(out) - 1; i >= 0; i-- {
		if out[i].Role == provider.RoleUser {
			out[i].Content = out[i].Content + "\n\n" + instruction
			return out
		}
	}
	return append(out, provider.NewTextMessage(provider.RoleUser, instruction))
}
