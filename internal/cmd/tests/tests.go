// Package tests contains integration tests that run command-line flows
// against an in-memory environment.
package tests

import (
	"bytes"
	"context"
	"io"
	"runtime"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/sadosystems/conformance-report/cmd/state"
	"github.com/sadosystems/conformance-report/lib/fsext"
	"github.com/sadosystems/conformance-report/lib/testutils"
	"github.com/sadosystems/conformance-report/ui/console"
)

// Main is a TestMain wrapper that ensures no goroutines leak from any test.
func Main(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// testOSFileW wraps a plain io.Writer in the console.OSFileW interface. The
// bogus file descriptor guarantees the console never detects a TTY.
type testOSFileW struct {
	io.Writer
}

func (f testOSFileW) Fd() uintptr {
	return ^uintptr(0)
}

// GlobalTestState is a wrapper around GlobalState for use in tests.
type GlobalTestState struct {
	*state.GlobalState
	Cancel func()

	Stdout, Stderr *bytes.Buffer
	LoggerHook     *testutils.SimpleLogrusHook

	Cwd string

	ExpectedExitCode int
}

// NewGlobalTestState returns an initialized GlobalTestState, mocking all
// operating system interfaces a command could reach for.
func NewGlobalTestState(tb testing.TB) *GlobalTestState {
	fs := fsext.NewMemMapFs()
	cwd := "/test/"
	if runtime.GOOS == "windows" {
		cwd = "c:\\test\\"
	}
	require.NoError(tb, fs.MkdirAll(cwd, 0o755))

	logger := logrus.New()
	logger.SetLevel(logrus.InfoLevel)
	logger.SetOutput(io.Discard)

	hook := testutils.NewLogHook(logrus.InfoLevel, logrus.WarnLevel, logrus.ErrorLevel)
	logger.AddHook(hook)

	ctx, cancel := context.WithCancel(context.Background())
	tb.Cleanup(cancel)

	ts := &GlobalTestState{
		Cwd:        cwd,
		Cancel:     cancel,
		Stdout:     new(bytes.Buffer),
		Stderr:     new(bytes.Buffer),
		LoggerHook: hook,
	}

	osExitCalled := false
	defaultOSExitHandle := func(exitCode int) {
		cancel()
		osExitCalled = true
		assert.Equal(tb, ts.ExpectedExitCode, exitCode)
	}

	tb.Cleanup(func() {
		if ts.ExpectedExitCode > 0 {
			// Ensure that, if we expected a specific exit code, it was
			// actually returned.
			assert.True(tb, osExitCalled)
		}
	})

	defaultFlags := state.GetDefaultFlags(".config")

	cons := console.New(testOSFileW{ts.Stdout}, testOSFileW{ts.Stderr}, false, "dumb")
	cons.SetLogger(logger)

	ts.GlobalState = &state.GlobalState{
		Ctx:          ctx,
		FS:           fs,
		Getwd:        func() (string, error) { return ts.Cwd, nil },
		BinaryName:   "conformance-report",
		CmdArgs:      []string{},
		Env:          map[string]string{},
		DefaultFlags: defaultFlags,
		Flags:        defaultFlags,
		Console:      cons,
		OSExit:       defaultOSExitHandle,
		Logger:       logger,
	}

	return ts
}
