package flasher

import (
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// ErrNoDeviceFound indicates that no listed device matched the configured
// bootloader or application USB IDs.
var ErrNoDeviceFound = errors.New("no supported devices found")

// ProcessError indicates that dfu-util failed. Both output streams are kept
// verbatim for diagnostics.
type ProcessError struct {
	// Op is the dfu-util operation: "list", "detach" or "download"
	Op string

	// Args are the arguments dfu-util was run with
	Args []string

	// ExitCode is the process exit status (0 if dfu-util exited cleanly
	// but reported an error in its output)
	ExitCode int

	// Stdout is the captured standard output
	Stdout string

	// Stderr is the captured standard error
	Stderr string

	// Err is the underlying *exec.ExitError, if any
	Err error
}

func (e *ProcessError) Error() string {
	reason := "error reported on stderr"
	if e.Err != nil {
		reason = e.Err.Error()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "dfu-util %s failed: %s\n", e.Op, reason)
	fmt.Fprintf(&b, "--- STDOUT ---\n%s\n", e.Stdout)
	fmt.Fprintf(&b, "--- STDERR ---\n%s\n", e.Stderr)
	return b.String()
}

func (e *ProcessError) Unwrap() error {
	return e.Err
}

// InvalidPathError indicates that a firmware path cannot be passed to
// dfu-util on the command line.
type InvalidPathError struct {
	Path string
}

func (e *InvalidPathError) Error() string {
	return fmt.Sprintf("path is not valid: %q", e.Path)
}

// TimeoutError indicates that the bootloader did not show up in time after
// the application was detached.
type TimeoutError struct {
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("bootloader did not appear within %s after detach", e.Timeout)
}

// IsProcessError returns true if err is or wraps a ProcessError.
func IsProcessError(err error) bool {
	var perr *ProcessError
	return errors.As(err, &perr)
}
