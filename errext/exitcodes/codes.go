// Package exitcodes contains the constants representing the possible
// conformance-report process exit codes.
package exitcodes

// ExitCode is the process exit code for one failure class.
type ExitCode uint8

// A stale document in check mode is the only expected failure, so it keeps
// the conventional exit code 1; everything else signals broken input or a
// broken run.
const (
	StaleReport      ExitCode = 1
	InvalidConfig    ExitCode = 2
	InvalidInput     ExitCode = 3
	BaselineMismatch ExitCode = 4
	InvalidDocument  ExitCode = 5
	InternalError    ExitCode = 6
	GoPanic          ExitCode = 7
)
