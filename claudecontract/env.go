package claudecontract

// Environment variables consulted during command resolution.
const (
	// EnvCommand overrides the command line used to start the CLI.
	EnvCommand = "CLAUDE_CODE_COMMAND"

	// EnvModel selects the model when no explicit model is requested.
	EnvModel = "CLAUDE_CODE_MODEL"

	// EnvUseFileReference enables replacing embedded documents with file references.
	EnvUseFileReference = "CLAUDE_CODE_USE_FILE_REFERENCE"

	// EnvRCPath points at an RC file checked before the default search paths.
	EnvRCPath = "CLAUDE_CODE_RC_PATH"
)

// Environment variables read by claude.Config.LoadFromEnv.
const (
	EnvTimeout        = "CLAUDE_CODE_TIMEOUT"
	EnvWorkDir        = "CLAUDE_CODE_WORK_DIR"
	EnvMaxOutputBytes = "CLAUDE_CODE_MAX_OUTPUT_BYTES"
	EnvTempDir        = "CLAUDE_CODE_TEMP_DIR"
)

// RC file variable names understood by the resolver.
const (
	RCVarCommand = "command"
	RCVarModel   = "model"
)

// IsTruthy reports whether an environment value enables a boolean setting.
func IsTruthy(v string) bool {
	switch v {
	case "1", "true", "TRUE", "True", "yes", "YES", "on", "ON":
		return true
	}
	return false
}
