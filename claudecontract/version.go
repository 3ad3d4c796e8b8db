package claudecontract

import (
	"bytes"
	"cmp"
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
)

// TestedCLIVersion is the Claude CLI version this code was tested against.
// Newer versions are reported as untested.
const TestedCLIVersion = "2.1.19"

var versionPattern = regexp.MustCompile(`^(\d+)\.(\d+)\.(\d+)`)

// CLIVersion is a parsed "major.minor.patch" version. Raw keeps the first
// word of the CLI output, including any pre-release suffix.
type CLIVersion struct {
	Major int
	Minor int
	Patch int
	Raw   string
}

// ParseVersion parses CLI version output such as "2.1.19 (Claude Code)".
func ParseVersion(s string) (*CLIVersion, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty version output")
	}
	word := fields[0]

	m := versionPattern.FindStringSubmatch(word)
	if m == nil {
		return nil, fmt.Errorf("invalid version format: %q", word)
	}
	v := &CLIVersion{Raw: word}
	v.Major, _ = strconv.Atoi(m[1])
	v.Minor, _ = strconv.Atoi(m[2])
	v.Patch, _ = strconv.Atoi(m[3])
	return v, nil
}

// MustParseVersion is ParseVersion for known-good constants. It panics on error.
func MustParseVersion(s string) *CLIVersion {
	v, err := ParseVersion(s)
	if err != nil {
		panic(err)
	}
	return v
}

// String returns the version as printed by the CLI.
func (v *CLIVersion) String() string {
	return v.Raw
}

// Compare returns -1, 0 or +1 as v is older than, equal to or newer than other.
// Pre-release suffixes are ignored.
func (v *CLIVersion) Compare(other *CLIVersion) int {
	if c := cmp.Compare(v.Major, other.Major); c != 0 {
		return c
	}
	if c := cmp.Compare(v.Minor, other.Minor); c != 0 {
		return c
	}
	return cmp.Compare(v.Patch, other.Patch)
}

// IsNewerThan reports whether v is newer than other.
func (v *CLIVersion) IsNewerThan(other *CLIVersion) bool {
	return v.Compare(other) > 0
}

// IsUntested reports whether v is newer than TestedCLIVersion.
func (v *CLIVersion) IsUntested() bool {
	return v.IsNewerThan(MustParseVersion(TestedCLIVersion))
}

// VersionProbe runs "<Path> <PrefixArgs...> --version".
type VersionProbe struct {
	// Path is the executable. Empty means BinaryName looked up on PATH.
	Path string

	// PrefixArgs go before --version, e.g. the package name after npx.
	PrefixArgs []string

	// Env is the process environment. Nil inherits the current one.
	Env []string

	// Dir is the working directory. Empty means the current one.
	Dir string
}

// Detect runs the probe and parses its output.
func (p VersionProbe) Detect(ctx context.Context) (*CLIVersion, error) {
	path := p.Path
	if path == "" {
		path = BinaryName
	}
	args := append(append([]string(nil), p.PrefixArgs...), FlagVersion)

	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Env = p.Env
	cmd.Dir = p.Dir
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("run %s %s: %w: %s", path, FlagVersion, err, msg)
		}
		return nil, fmt.Errorf("run %s %s: %w", path, FlagVersion, err)
	}
	return ParseVersion(string(out))
}

// DetectCLIVersion runs claudePath with --version in the current environment.
func DetectCLIVersion(ctx context.Context, claudePath string, prefixArgs ...string) (*CLIVersion, error) {
	return VersionProbe{Path: claudePath, PrefixArgs: prefixArgs}.Detect(ctx)
}
