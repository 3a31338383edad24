// Package xexec contains extended os/exec utilities.
package xexec

import (
	"context"
	"os"
	"os/exec"
	"syscall"

	"golang.org/x/xerrors"
)

// Attach connects cmd to the standard streams of the current process.
func Attach(cmd *exec.Cmd) {
	cmd.Stderr = os.Stderr
	cmd.Stdout = os.Stdout
	cmd.Stdin = os.Stdin
}

// Executor runs a child process to completion.
type Executor interface {
	// Run returns the exit code of the process.
	// The error is non-nil when the process could not be run or waited on,
	// or when ctx ended before the process did.
	Run(ctx context.Context, argv []string, env []string) (int, error)
}

// Attached runs processes attached to the standard streams.
type Attached struct{}

var _ Executor = Attached{}

// Run starts argv with env appended to the process environment and waits for it.
func (Attached) Run(ctx context.Context, argv []string, env []string) (int, error) {
	if len(argv) == 0 {
		return -1, xerrors.New("empty command")
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	Attach(cmd)
	if len(env) > 0 {
		cmd.Env = append(os.Environ(), env...)
	}

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if !xerrors.As(err, &exitErr) {
		return -1, xerrors.Errorf("failed to run %s: %w", argv[0], err)
	}

	code := ExitCode(exitErr)
	if ctx.Err() != nil {
		return code, xerrors.Errorf("%s interrupted: %w", argv[0], ctx.Err())
	}
	return code, nil
}

// ExitCode returns the shell style exit status of a finished process.
// A process killed by a signal reports 128 plus the signal number.
func ExitCode(err *exec.ExitError) int {
	ws, ok := err.Sys().(syscall.WaitStatus)
	if ok && ws.Signaled() {
		return 128 + int(ws.Signal())
	}
	return err.ExitCode()
}
