package claude

import "strings"

// transientMarkers appear in CLI stderr when a retry is likely to succeed.
var transientMarkers = []string{
	"rate limit", "rate_limit", "overloaded", "timeout", "timed out",
	"econnreset", "socket hang up", "503", "529",
}

// isRetryableError reports whether stderr describes a transient failure.
func isRetryableError(stderr string) bool {
	return containsAny(strings.ToLower(stderr), transientMarkers)
}

// maxStderrLength caps the stderr carried in errors.
const maxStderrLength = 500

// sanitizeStderr trims stderr and truncates it to maxStderrLength.
func sanitizeStderr(stderr string) string {
	stderr = strings.TrimSpace(stderr)
	if len(stderr) > maxStderrLength {
		return stderr[:maxStderrLength] + "... (truncated)"
	}
	return stderr
}
