package provider

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Sentinel error kinds for provider operations.
// Every *Error carries one of these as its Kind, so errors.Is(err, ErrTimeout)
// works regardless of the underlying cause.
var (
	// ErrUnknownProvider indicates the requested provider is not registered.
	ErrUnknownProvider = errors.New("unknown provider")

	// ErrNotConfigured indicates no CLI executable could be resolved by any method.
	ErrNotConfigured = errors.New("CLI not configured")

	// ErrNotExecutable indicates the resolved path is missing or lacks execute permission.
	ErrNotExecutable = errors.New("CLI not executable")

	// ErrTimeout indicates the process did not finish within the allotted time.
	ErrTimeout = errors.New("CLI timed out")

	// ErrProcessFailure indicates a non-zero exit, or a zero exit with only stderr output.
	ErrProcessFailure = errors.New("CLI process failed")

	// ErrParseFailure indicates a JSON object could not be extracted from the response.
	ErrParseFailure = errors.New("failed to parse response")

	// ErrUnsupported indicates the operation is not supported by this provider variant.
	ErrUnsupported = errors.New("operation not supported")

	// ErrCancelled indicates the caller aborted the operation.
	ErrCancelled = errors.New("operation cancelled")

	// ErrOutputTooLarge indicates the CLI produced more output than the configured cap.
	ErrOutputTooLarge = errors.New("CLI output too large")

	// ErrInvalidRequest indicates the request is malformed.
	ErrInvalidRequest = errors.New("invalid request")
)

// Error wraps provider errors with the context a user needs to self-diagnose.
type Error struct {
	Provider  string        // Provider name ("claude-code")
	Op        string        // Operation that failed ("execute", "generate_object")
	Kind      error         // One of the sentinel kinds above
	Err       error         // Underlying cause, may be nil
	Path      string        // Executable path involved, if any
	ExitCode  int           // Process exit code for ErrProcessFailure
	Stderr    string        // Sanitized stderr for ErrProcessFailure
	Timeout   time.Duration // Limit that was exceeded for ErrTimeout
	Fix       string        // Human-readable remediation
	Retryable bool          // Whether the error is likely transient
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	if e.Provider != "" {
		b.WriteString(e.Provider)
		b.WriteByte(' ')
	}
	b.WriteString(e.Op)
	b.WriteString(": ")

	// A cause that already wraps the kind carries the kind's text.
	causeHasKind := e.Kind != nil && e.Err != nil && errors.Is(e.Err, e.Kind)
	switch {
	case causeHasKind:
		b.WriteString(e.Err.Error())
	case e.Kind != nil:
		b.WriteString(e.Kind.Error())
	case e.Err != nil:
		b.WriteString(e.Err.Error())
	default:
		b.WriteString("unknown error")
	}

	if e.Path != "" {
		fmt.Fprintf(&b, " (path: %s)", e.Path)
	}
	if e.Timeout > 0 {
		fmt.Fprintf(&b, " after %s", e.Timeout)
	}
	if e.ExitCode != 0 {
		fmt.Fprintf(&b, ": exit code %d", e.ExitCode)
	}
	if e.Stderr != "" {
		fmt.Fprintf(&b, ": %s", e.Stderr)
	}
	if e.Kind != nil && e.Err != nil && !causeHasKind {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	if e.Fix != "" {
		fmt.Fprintf(&b, ". %s", e.Fix)
	}
	return b.String()
}

// Unwrap returns the kind and the underlying cause for errors.Is/As support.
func (e *Error) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// NewError creates a new provider error of the given kind.
func NewError(provider, op string, kind, err error) *Error {
	return &Error{
		Provider: provider,
		Op:       op,
		Kind:     kind,
		Err:      err,
	}
}

// KindOf returns the sentinel kind of err, or nil if err is not a *Error.
func KindOf(err error) error {
	var provErr *Error
	if errors.As(err, &provErr) {
		return provErr.Kind
	}
	return nil
}

// IsRetryable checks if an error is likely transient and worth retrying.
func IsRetryable(err error) bool {
	var provErr *Error
	if errors.As(err, &provErr) && provErr.Retryable {
		return true
	}
	return errors.Is(err, ErrTimeout)
}

// IsUnsupported checks if an error is due to a missing provider capability.
func IsUnsupported(err error) bool {
	return errors.Is(err, ErrUnsupported)
}
