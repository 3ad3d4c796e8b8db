// Package providers registers the local Claude CLI clients.
// Import it for its side effect to make them available via provider.New():
//
//	import _ "github.com/randalmurphal/claudelocal/providers"
//
//	client, err := provider.New("claude-code", provider.Config{Provider: "claude-code"})
package providers

import (
	_ "github.com/randalmurphal/claudelocal/claude"
)
