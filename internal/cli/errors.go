package cli

import "github.com/spf13/cobra"

const (
	ExitCodeSuccess = 0
	ExitCodeGeneric = 1
	ExitCodeUsage   = 2

	// ExitCodeInterrupted follows the shell convention of 128+SIGINT.
	ExitCodeInterrupted = 130
)

// ExitError attaches a process exit code to an error.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e == nil || e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func (e *ExitError) ExitCode() int {
	if e == nil {
		return ExitCodeGeneric
	}
	return e.Code
}

func usageError(err error) error {
	if err == nil {
		return nil
	}
	return &ExitError{Code: ExitCodeUsage, Err: err}
}

// usageArgs reports a failed argument check as a usage error.
func usageArgs(check cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		return usageError(check(cmd, args))
	}
}

// requireFlags runs cobra's required-flag check ahead of its own, which
// would not carry a usage exit code.
func requireFlags(cmd *cobra.Command, _ []string) error {
	return usageError(cmd.ValidateRequiredFlags())
}
