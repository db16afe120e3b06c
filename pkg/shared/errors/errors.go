package errors

import "errors"

// CommandResult is the machine readable outcome attached to a failed command.
type CommandResult struct {
	Args    interface{} `json:"args"`
	Status  string      `json:"status"`
	Message string      `json:"message"`
}

// CommandError represents an error that occurred during command execution and
// the exit code the process should terminate with.
type CommandError struct {
	ExitCode    int
	CommonError string
	Result      CommandResult
	err         error
}

// Error implements the error interface, returning the message from the common error.
func (e *CommandError) Error() string {
	return e.CommonError
}

// Unwrap exposes the underlying error to errors.Is and errors.As.
func (e *CommandError) Unwrap() error {
	return e.err
}

// NewCommandError creates a new CommandError instance, encapsulating args and the error message.
func NewCommandError(args interface{}, err error, code int) *CommandError {
	return &CommandError{
		ExitCode:    code,
		CommonError: err.Error(),
		Result: CommandResult{
			Args:    args,
			Status:  "FAILED",
			Message: err.Error(),
		},
		err: err,
	}
}

// ExitCode extracts the exit code from err, defaulting to 1.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var cmdErr *CommandError
	if errors.As(err, &cmdErr) {
		return cmdErr.ExitCode
	}
	return 1
}
