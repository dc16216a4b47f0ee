package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gopkg.in/guregu/null.v3"

	"github.com/sadosystems/conformance-report/cmd/state"
	"github.com/sadosystems/conformance-report/conformance"
	"github.com/sadosystems/conformance-report/errext"
	"github.com/sadosystems/conformance-report/errext/exitcodes"
	"github.com/sadosystems/conformance-report/lib/fsext"
)

// Panic if the given error is not nil.
func must(err error) {
	if err != nil {
		panic(err)
	}
}

// TODO: refactor the CLI config so these functions aren't needed - they
// can mask errors by failing only at runtime, not at compile time
func getNullBool(flags *pflag.FlagSet, key string) null.Bool {
	v, err := flags.GetBool(key)
	if err != nil {
		panic(err)
	}
	return null.NewBool(v, flags.Changed(key))
}

func getNullInt64(flags *pflag.FlagSet, key string) null.Int {
	v, err := flags.GetInt64(key)
	if err != nil {
		panic(err)
	}
	return null.NewInt(v, flags.Changed(key))
}

func getNullString(flags *pflag.FlagSet, key string) null.String {
	v, err := flags.GetString(key)
	if err != nil {
		panic(err)
	}
	return null.NewString(v, flags.Changed(key))
}

func minimumArgsWithMsg(n int, msg string) cobra.PositionalArgs {
	return func(_ *cobra.Command, args []string) error {
		if len(args) < n {
			return fmt.Errorf("requires at least %d arg(s), received %d: %s", n, len(args), msg)
		}
		return nil
	}
}

func getExampleText(gs *state.GlobalState, tpl string) string {
	var exampleText bytes.Buffer
	exampleTemplate := template.Must(template.New("").Parse(tpl))

	if err := exampleTemplate.Execute(&exampleText, gs.BinaryName); err != nil {
		gs.Logger.WithError(err).Error("Error during help example generation")
	}

	return exampleText.String()
}

// wrapConformanceError attaches the exit code matching the kind of
// conformance data problem, so CI pipelines can tell a baseline mismatch
// from a malformed input file.
func wrapConformanceError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, conformance.ErrUnknownTest),
		errors.Is(err, conformance.ErrUnknownCategory),
		errors.Is(err, conformance.ErrTypeMismatch),
		errors.Is(err, conformance.ErrPathConflict):
		return errext.WithExitCodeIfNone(err, exitcodes.BaselineMismatch)
	case errors.Is(err, conformance.ErrMissingMarkers):
		return errext.WithExitCodeIfNone(err, exitcodes.InvalidDocument)
	default:
		return errext.WithExitCodeIfNone(err, exitcodes.InvalidInput)
	}
}

// absolutePath resolves a user-supplied path against the working directory,
// so relative arguments behave the same on every filesystem implementation.
func absolutePath(gs *state.GlobalState, path string) (string, error) {
	if filepath.IsAbs(path) {
		return path, nil
	}
	wd, err := gs.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(wd, path), nil
}

func loadFile(gs *state.GlobalState, path string) (string, error) {
	abs, err := absolutePath(gs, path)
	if err != nil {
		return "", err
	}
	data, err := fsext.ReadFile(gs.FS, abs)
	if err != nil {
		return "", errext.WithExitCodeIfNone(err, exitcodes.InvalidInput)
	}
	return string(data), nil
}

// fileStem returns the file name without directory or extension. It is the
// default column name for a listing or run log argument.
func fileStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
