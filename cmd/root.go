// Package cmd is the public entry point of the conformance-report CLI,
// allowing it to be embedded in other binaries.
package cmd

import (
	"context"

	"github.com/sadosystems/conformance-report/cmd/state"
	internalcmd "github.com/sadosystems/conformance-report/internal/cmd"
)

// Execute runs the root command against the real operating system state. It
// only returns via state.GlobalState.OSExit.
func Execute() {
	gs := state.NewGlobalState(context.Background())
	internalcmd.ExecuteWithGlobalState(gs)
}

// ExecuteWithGlobalState runs the root command with the given dependencies.
func ExecuteWithGlobalState(gs *state.GlobalState) {
	internalcmd.ExecuteWithGlobalState(gs)
}
