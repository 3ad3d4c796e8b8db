package claudecontract

import "path/filepath"

// BinaryName is the executable name looked up on PATH.
const BinaryName = "claude"

// InstallPaths returns well-known installation locations for the CLI on the
// given OS, in probe order. Home-relative entries are skipped when home is
// empty.
func InstallPaths(goos, home string) []string {
	var system []string
	switch goos {
	case "darwin":
		system = []string{
			"/opt/homebrew/bin/claude",
			"/usr/local/bin/claude",
		}
	case "windows":
		return nil
	default:
		system = []string{
			"/usr/local/bin/claude",
			"/usr/bin/claude",
			"/snap/bin/claude",
		}
	}

	if home == "" {
		return system
	}
	return append(system,
		filepath.Join(home, ".claude", "local", "claude"),
		filepath.Join(home, ".npm-global", "bin", "claude"),
		filepath.Join(home, ".local", "bin", "claude"),
	)
}
