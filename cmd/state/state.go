// Package state contains the conformance-report process state and the
// accessor methods for everything OS-facing, so commands stay testable.
package state

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/sadosystems/conformance-report/lib/fsext"
	"github.com/sadosystems/conformance-report/ui/console"
)

// GlobalState contains the GlobalFlags and accessor methods to fields that
// are normally part of the global scope. Instead of polluting the global
// scope, we use this struct to represent them, so tests can create and
// manipulate 'global' state in isolation.
type GlobalState struct {
	Ctx context.Context

	FS    fsext.Fs
	Getwd func() (string, error)

	BinaryName string
	CmdArgs    []string
	Env        map[string]string

	DefaultFlags, Flags GlobalFlags

	Console *console.Console

	OSExit func(int)

	Logger *logrus.Logger
}

// NewGlobalState returns a new GlobalState with the given ctx. Ideally, this
// should be the only function in the whole codebase where we use global
// variables and functions from the os package. Everywhere else should take
// the respective properties of GlobalState instead.
func NewGlobalState(ctx context.Context) *GlobalState {
	env := BuildEnvMap(os.Environ())

	// Support https://no-color.org/; even an empty NO_COLOR disables colors.
	_, noColorsSet := env["NO_COLOR"]
	colorize := !noColorsSet && env["CONFREPORT_NO_COLOR"] == ""

	cons := console.New(os.Stdout, os.Stderr, colorize, env["TERM"])

	logger := &logrus.Logger{
		Out: cons.ErrOut(),
		Formatter: &logrus.TextFormatter{
			ForceColors:   colorize && cons.IsTTY,
			DisableColors: !cons.IsTTY || !colorize,
		},
		Hooks: make(logrus.LevelHooks),
		Level: logrus.InfoLevel,
	}
	cons.SetLogger(logger)

	confDir, err := os.UserConfigDir()
	if err != nil {
		logger.WithError(err).Warn("could not get config directory")
		confDir = ".config"
	}

	defaultFlags := GetDefaultFlags(confDir)

	return &GlobalState{
		Ctx:          ctx,
		FS:           fsext.NewOsFs(),
		Getwd:        os.Getwd,
		BinaryName:   filepath.Base(os.Args[0]),
		CmdArgs:      os.Args,
		Env:          env,
		DefaultFlags: defaultFlags,
		Flags:        getFlags(defaultFlags, env),
		Console:      cons,
		OSExit:       os.Exit,
		Logger:       logger,
	}
}

// BuildEnvMap returns a map with the environment variables of the given
// array of "key=value" strings, as returned by os.Environ().
func BuildEnvMap(environ []string) map[string]string {
	env := make(map[string]string, len(environ))
	for _, kv := range environ {
		k, v, _ := strings.Cut(kv, "=")
		env[k] = v
	}
	return env
}
