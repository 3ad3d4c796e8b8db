// Package claude runs the locally installed Claude CLI as a text provider.
//
// A Provider turns conversation messages into a single prompt, resolves the
// command line to run and pipes the prompt to the CLI through a temp file:
//
//	p := claude.NewProvider(claude.WithModel("sonnet"))
//	if !p.IsAvailable(ctx, provider.CommandParams{}) {
//	    return errors.New("claude CLI not installed")
//	}
//	resp, err := p.GenerateText(ctx, provider.TextRequest{
//	    Messages: []provider.Message{
//	        provider.NewTextMessage(provider.RoleUser, "List three colors"),
//	    },
//	})
//
// # Command Resolution
//
// The command line comes from the first source that yields a value:
//
//  1. the explicit command (request or WithCommand)
//  2. the CLAUDE_CODE_COMMAND environment variable
//  3. the "command" variable of the RC file
//  4. auto-detection on PATH and in well-known install locations
//
// RC aliases are substituted token by token, then a --model flag is appended
// unless the command already carries one. The model comes from the explicit
// model, CLAUDE_CODE_MODEL or the RC "model" variable, and may be an RC alias
// or a short name such as "opus".
//
// RC files are searched in CLAUDE_CODE_RC_PATH, ./.clauderc, ~/.clauderc and
// ~/.config/claude/clauderc. See package rcfile for the syntax.
//
// # Streaming
//
// Provider does not stream. StreamingProvider streams stdout line by line and
// aborts the child process group when the context is cancelled.
//
// # Registration
//
// Importing this package registers "claude-code" and "claude-code-streaming"
// with the provider registry:
//
//	import _ "github.com/randalmurphal/claudelocal/claude"
//
//	client, err := provider.New("claude-code", provider.Config{Provider: "claude-code"})
package claude
