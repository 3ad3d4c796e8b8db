// Package claudelocal runs a locally installed Claude CLI as a text
// generation backend.
//
// The work happens in subpackages:
//
//   - cmdline: shell-style tokenizing and quoting of command lines
//   - rcfile: .clauderc parsing and lookup
//   - model: short model names such as "opus" mapped to full ids
//   - claudecontract: CLI flags, environment variables, install paths, versions
//   - parser: JSON object extraction from model replies
//   - provider: the client interface, request types, typed errors and registry
//   - claude: command resolution, process execution, streaming and validation
//   - providers: side-effect import that registers the claude clients
//
// # Quick Start
//
//	import "github.com/randalmurphal/claudelocal/claude"
//
//	p := claude.NewProvider(claude.WithModel("sonnet"))
//	resp, err := p.GenerateText(ctx, provider.TextRequest{
//	    Messages: []provider.Message{
//	        provider.NewTextMessage(provider.RoleUser, "Name three Go proverbs"),
//	    },
//	})
//
// The command line comes from an explicit option, CLAUDE_CODE_COMMAND, the
// "command" variable of a .clauderc file or auto-detection, in that order.
// See package claude for details and cmd/clauderun for a command-line front end.
package claudelocal
