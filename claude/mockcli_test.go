package claude

import (
	"bufio"
	"os"
	"path/filepath"
	"testing"
)

// writeMockClaudeScript writes a shell script that stands in for the claude
// CLI. Its behavior is selected by CLAUDE_TEST_* variables in its environment.
func writeMockClaudeScript(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "mock-claude")

	script := `#!/bin/sh
set -eu

if [ "${1:-}" = "--version" ]; then
  echo "${CLAUDE_TEST_VERSION:-2.1.19} (Claude Code)"
  exit 0
fi

if [ "${CLAUDE_TEST_ARGS_FILE:-}" != "" ]; then
  : > "$CLAUDE_TEST_ARGS_FILE"
  for arg in "$@"; do
    printf '%s\n' "$arg" >> "$CLAUDE_TEST_ARGS_FILE"
  done
fi

if [ "${CLAUDE_TEST_STDIN_FILE:-}" != "" ]; then
  cat > "$CLAUDE_TEST_STDIN_FILE"
else
  cat > /dev/null
fi

if [ "${CLAUDE_TEST_ENV_FILE:-}" != "" ]; then
  env > "$CLAUDE_TEST_ENV_FILE"
fi

if [ "${CLAUDE_TEST_CWD_FILE:-}" != "" ]; then
  pwd > "$CLAUDE_TEST_CWD_FILE"
fi

if [ "${CLAUDE_TEST_PID_FILE:-}" != "" ]; then
  echo $$ > "$CLAUDE_TEST_PID_FILE"
fi

mode="${CLAUDE_TEST_MODE:-success}"
case "$mode" in
  success)
    printf '\n  %s  \n\n' "${CLAUDE_TEST_OUTPUT:-Hello world}"
    ;;
  json)
    cat <<'OUT'
Here is the result:
` + "```json" + `
{"title": "Write tests", "priority": 2, "tags": ["go", "cli"]}
` + "```" + `
Let me know if you need anything else.
OUT
    ;;
  not_json)
    echo "I cannot produce JSON for that."
    ;;
  lines)
    echo "one"
    echo "two"
    echo "three"
    ;;
  stderr_only)
    echo "${CLAUDE_TEST_STDERR:-warning: nothing to do}" >&2
    ;;
  fail)
    echo "${CLAUDE_TEST_STDERR:-boom}" >&2
    exit "${CLAUDE_TEST_EXIT_CODE:-3}"
    ;;
  hang)
    exec sleep 30
    ;;
  stream_then_hang)
    echo "first"
    exec sleep 30
    ;;
  burst_then_hang)
    i=1
    while [ "$i" -le 10 ]; do
      echo "line$i"
      i=$((i + 1))
    done
    exec sleep 30
    ;;
  flood)
    i=0
    while [ "$i" -lt 5000 ]; do
      echo "xxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxx"
      i=$((i + 1))
    done
    ;;
  *)
    echo "unsupported CLAUDE_TEST_MODE=$mode" >&2
    exit 2
    ;;
esac
`
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("failed to write mock script: %v", err)
	}
	return path
}

// newScriptProvider returns a provider that runs script and is isolated from
// the host's RC files, PATH and CLAUDE_CODE_* variables.
func newScriptProvider(t *testing.T, script string, env map[string]string, opts ...Option) *Provider {
	t.Helper()
	base := []Option{
		WithCommand(script),
		WithHomeDir(t.TempDir()),
		WithWorkdir(t.TempDir()),
		WithTempDir(t.TempDir()),
		WithLookupEnv(mapLookup(nil)),
		WithLookPath(notFound),
		WithEnv(env),
	}
	return NewProvider(append(base, opts...)...)
}

func readLinesFile(t *testing.T, path string) []string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("failed to open %s: %v", path, err)
	}
	defer f.Close()

	var lines []string
	s := bufio.NewScanner(f)
	for s.Scan() {
		lines = append(lines, s.Text())
	}
	if err := s.Err(); err != nil {
		t.Fatalf("failed to scan %s: %v", path, err)
	}
	return lines
}

func readFileString(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	return string(data)
}

func assertDirEmpty(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("failed to read %s: %v", dir, err)
	}
	if len(entries) != 0 {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Fatalf("expected %s to be empty, found %v", dir, names)
	}
}

func assertArgAt(t *testing.T, args []string, index int, want string) {
	t.Helper()
	if index >= len(args) {
		t.Fatalf("args index %d out of range (len=%d): %v", index, len(args), args)
	}
	if args[index] != want {
		t.Fatalf("args[%d]=%q, want %q (args=%v)", index, args[index], want, args)
	}
}

func assertArgPair(t *testing.T, args []string, key, value string) {
	t.Helper()
	for i := 0; i < len(args)-1; i++ {
		if args[i] == key && args[i+1] == value {
			return
		}
	}
	t.Fatalf("arg pair %q %q not found in %v", key, value, args)
}

func countArg(args []string, want string) int {
	n := 0
	for _, arg := range args {
		if arg == want {
			n++
		}
	}
	return n
}
