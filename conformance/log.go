package conformance

import (
	"fmt"
	"regexp"
	"strconv"
)

var (
	failureLineRe = regexp.MustCompile(`(?m)^ERROR, test=([^:]+):`)
	tallyLineRe   = regexp.MustCompile(`(\d+) successes, (\d+) skipped, (\d+) expected failures, (\d+) unexpected failures`)
)

// RunResult is the parsed outcome of one conformance runner invocation.
type RunResult struct {
	// Failed holds one entry per scraped failure line, in log order,
	// duplicates included.
	Failed []Test

	// Counters from the runner's final tally line. All zero when the log
	// has no tally (e.g. the run was cut short).
	Passed             int
	Skipped            int
	ExpectedFailures   int
	UnexpectedFailures int
}

// NumFailed returns the number of scraped failure lines.
func (r RunResult) NumFailed() int { return len(r.Failed) }

// ParseRunLog scrapes the failure lines and the final tally out of raw
// runner output. A missing tally line is not an error, but a failure line
// whose identifier does not classify is.
func ParseRunLog(log string) (RunResult, error) {
	var result RunResult
	for _, m := range failureLineRe.FindAllStringSubmatch(log, -1) {
		test, err := ParseTest(m[1])
		if err != nil {
			return RunResult{}, err
		}
		result.Failed = append(result.Failed, test)
	}

	if m := tallyLineRe.FindStringSubmatch(log); m != nil {
		var counters [4]int
		for i := range counters {
			n, err := strconv.Atoi(m[i+1])
			if err != nil {
				return RunResult{}, fmt.Errorf("unusable tally line %q: %w", m[0], err)
			}
			counters[i] = n
		}
		result.Passed = counters[0]
		result.Skipped = counters[1]
		result.ExpectedFailures = counters[2]
		result.UnexpectedFailures = counters[3]
	}

	return result, nil
}
