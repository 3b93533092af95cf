package core

import (
	"fmt"
	"os/exec"
)

// SyntaxError reports a built-in command invoked with the wrong shape.
type SyntaxError struct {
	Usage string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("invalid statement; use as %s", e.Usage)
}

// ImportError reports a provider module or handler that could not be
// resolved.
type ImportError struct {
	Module string
	Name   string
}

func (e *ImportError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("no such module %q", e.Module)
	}
	return fmt.Sprintf("no such handler %q in module %q", e.Name, e.Module)
}

// CommandFailedError reports a spawned process that exited non-zero or could
// not be started.
type CommandFailedError struct {
	Args []string
	Err  error
}

func (e *CommandFailedError) Error() string {
	if exitErr, ok := e.Err.(*exec.ExitError); ok {
		return fmt.Sprintf("%s: exit status %d", e.Args[0], exitErr.ExitCode())
	}
	return fmt.Sprintf("%s: %v", e.Args[0], e.Err)
}

func (e *CommandFailedError) Unwrap() error {
	return e.Err
}
