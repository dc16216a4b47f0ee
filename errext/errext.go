// Package errext contains extensions for normal Go errors that are used to
// carry process exit codes and user-facing remediation hints to the top of
// the command stack.
package errext

import (
	"errors"

	"github.com/sadosystems/conformance-report/errext/exitcodes"
)

// HasExitCode is an error with an attached process exit code. Values should
// stay between 0 and 125 so they survive every shell.
type HasExitCode interface {
	error
	ExitCode() exitcodes.ExitCode
}

// WithExitCodeIfNone attaches an exit code to the given error, unless it (or
// anything it wraps) already carries one. A nil error stays nil.
func WithExitCodeIfNone(err error, exitCode exitcodes.ExitCode) error {
	if err == nil {
		return nil
	}
	var ecerr HasExitCode
	if errors.As(err, &ecerr) {
		return err
	}
	return withExitCode{err, exitCode}
}

type withExitCode struct {
	error
	exitCode exitcodes.ExitCode
}

func (w withExitCode) Unwrap() error { return w.error }

func (w withExitCode) ExitCode() exitcodes.ExitCode { return w.exitCode }

// HasHint is an error with an attached human-readable hint, e.g. the exact
// command that would fix the reported condition.
type HasHint interface {
	error
	Hint() string
}

// WithHint attaches a hint to the given error. If the error already had a
// hint, the new one wraps it as "new hint (old hint)". A nil error stays nil.
func WithHint(err error, hint string) error {
	if err == nil {
		return nil
	}
	return withHint{err, hint}
}

type withHint struct {
	error
	hint string
}

func (w withHint) Unwrap() error { return w.error }

func (w withHint) Hint() string {
	hint := w.hint
	var oldhint HasHint
	if errors.As(w.error, &oldhint) {
		hint = hint + " (" + oldhint.Hint() + ")"
	}
	return hint
}

// Format renders the given error as a log message and a map of extra logrus
// fields, surfacing any attached hint as a "hint" field.
func Format(err error) (string, map[string]interface{}) {
	if err == nil {
		return "", nil
	}

	fields := make(map[string]interface{})
	var herr HasHint
	if errors.As(err, &herr) {
		fields["hint"] = herr.Hint()
	}

	return err.Error(), fields
}

var (
	_ HasExitCode = withExitCode{}
	_ HasHint     = withHint{}
)
