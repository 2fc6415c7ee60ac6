package flasher

import (
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/moffa90/go-dfuutil/lines"
	"github.com/pkg/errors"
)

// waitDelay bounds how long Wait keeps reading output after dfu-util was
// killed. Children of a wrapper script may hold the pipes open.
const waitDelay = time.Second

// command builds a dfu-util invocation. Neither stdout nor stderr is
// inherited from the current process.
func (f *Flasher) command(ctx context.Context, args ...string) *exec.Cmd {
	full := make([]string, 0, len(f.config.BaseArgs)+len(args))
	full = append(full, f.config.BaseArgs...)
	full = append(full, args...)

	cmd := exec.CommandContext(ctx, f.config.Binary, full...)
	cmd.WaitDelay = waitDelay
	if len(f.config.Env) > 0 {
		cmd.Env = append(os.Environ(), f.config.Env...)
	}
	return cmd
}

// run executes dfu-util to completion and returns its decoded output.
// A non-zero exit status yields a *ProcessError carrying both streams.
func (f *Flasher) run(ctx context.Context, op string, args ...string) (stdout, stderr string, err error) {
	cmd := f.command(ctx, args...)

	var outBuf, errBuf bytes.Buffer
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf

	f.logDebug("running dfu-util", "op", op, "binary", f.config.Binary, "args", args)

	runErr := cmd.Run()
	stdout = lines.Decode(outBuf.Bytes())
	stderr = lines.Decode(errBuf.Bytes())

	if runErr != nil {
		return stdout, stderr, f.classify(ctx, op, args, runErr, stdout, stderr)
	}

	f.logDebug("dfu-util finished", "op", op, "exit_code", 0)
	return stdout, stderr, nil
}

// stream starts dfu-util and calls fn for every stdout line while it runs.
// Stdout is drained to EOF before the exit status is collected, so dfu-util
// can never block on a full pipe while we wait for it.
func (f *Flasher) stream(ctx context.Context, op string, args []string, fn func(line string)) (stdout, stderr string, err error) {
	cmd := f.command(ctx, args...)

	pipe, err := cmd.StdoutPipe()
	if err != nil {
		return "", "", errors.Wrap(err, "failed to open stdout pipe")
	}

	var outBuf, errBuf bytes.Buffer
	cmd.Stderr = &errBuf

	f.logDebug("running dfu-util", "op", op, "binary", f.config.Binary, "args", args)

	if err := cmd.Start(); err != nil {
		return "", "", errors.Wrapf(err, "failed to start %s", f.config.Binary)
	}

	// Unblock the read on cancellation even if a grandchild still holds
	// the write end of the pipe.
	stop := context.AfterFunc(ctx, func() { _ = pipe.Close() })
	defer stop()

	readErr := lines.Each(io.TeeReader(pipe, &outBuf), fn)
	if readErr != nil {
		// Keep draining so that the process can finish writing.
		_, _ = io.Copy(&outBuf, pipe)
	}

	waitErr := cmd.Wait()
	stdout = lines.Decode(outBuf.Bytes())
	stderr = lines.Decode(errBuf.Bytes())

	if waitErr != nil {
		return stdout, stderr, f.classify(ctx, op, args, waitErr, stdout, stderr)
	}
	if readErr != nil {
		return stdout, stderr, errors.Wrap(readErr, "failed to read dfu-util output")
	}

	f.logDebug("dfu-util finished", "op", op, "exit_code", 0)
	return stdout, stderr, nil
}

// classify turns an exec error into the error returned to the caller.
func (f *Flasher) classify(ctx context.Context, op string, args []string, err error, stdout, stderr string) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return errors.Wrapf(ctxErr, "dfu-util %s interrupted", op)
	}

	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return errors.Wrapf(err, "failed to run %s", f.config.Binary)
	}

	f.logDebug("dfu-util failed", "op", op, "exit_code", exitErr.ExitCode())
	return &ProcessError{
		Op:       op,
		Args:     args,
		ExitCode: exitErr.ExitCode(),
		Stdout:   stdout,
		Stderr:   stderr,
		Err:      err,
	}
}
