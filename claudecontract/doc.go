// Package claudecontract provides a single source of truth for the local
// Claude CLI interface: flag names, environment variable names, RC file
// locations, well-known installation paths and version detection.
//
// When the CLI changes its interface, only this package needs to be updated.
//
// # Package Contents
//
//   - version.go: CLI version detection and compatibility checking
//   - flags.go: CLI flag name constants (--print, --model, etc.)
//   - env.go: environment variables read by the resolver
//   - paths.go: executable name and installation paths per OS family
//
// # Version Compatibility
//
// TestedCLIVersion is the CLI version this code was tested against. A
// VersionProbe reports the installed version; IsUntested flags newer ones:
//
//	v, err := claudecontract.VersionProbe{Path: "/usr/local/bin/claude"}.Detect(ctx)
//	if err == nil && v.IsUntested() {
//	    // warn
//	}
package claudecontract
