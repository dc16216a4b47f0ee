// Package main contains the main executable of conformance-report.
package main

import (
	"github.com/sadosystems/conformance-report/cmd"
)

func main() {
	cmd.Execute()
}
