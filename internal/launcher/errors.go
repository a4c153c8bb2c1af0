package launcher

import (
	"errors"
	"syscall"
)

// Error is returned by [Launcher.Exec] when a step before or including
// process replacement fails.
type Error struct {
	// Step is a short description of the failing step.
	Step string
	// Path is the target path, only set for the exec step.
	Path string
	Err  error
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Error() string {
	if e.Path != "" {
		return e.Step + " " + e.Path + ": " + e.Err.Error()
	}
	return e.Step + ": " + e.Err.Error()
}

func (e *Error) Message() string {
	if e.Path == "" {
		return "cannot " + e.Step + ": " + e.Err.Error()
	}

	switch {
	case errors.Is(e.Err, syscall.ENOENT):
		return "target " + e.Path + " does not exist"
	case errors.Is(e.Err, syscall.EACCES):
		return "permission denied executing " + e.Path
	default:
		return "cannot " + e.Step + " " + e.Path + ": " + e.Err.Error()
	}
}
