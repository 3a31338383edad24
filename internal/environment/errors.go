package environment

import (
	"fmt"

	"golang.org/x/xerrors"
)

// Exit codes of the ensure workflow.
const (
	// CodePartial means the environment exists but is not usable.
	CodePartial = 7
	// CodeBootstrap means the bootstrap environment or the install step failed unexpectedly.
	CodeBootstrap = 11
	// CodePrepare means a failure before the provisioning tool was invoked.
	CodePrepare = 23
	// CodeCreate means the provisioning tool could not be invoked.
	CodeCreate = 31
)

// ExitError carries the process exit code for a failed workflow stage.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return fmt.Sprintf("%v (exit status %d)", e.Err, e.Code)
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

func exitErr(code int, err error) error {
	return &ExitError{Code: code, Err: err}
}

// ExitCode maps err to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var ee *ExitError
	if xerrors.As(err, &ee) {
		return ee.Code
	}
	return 1
}
