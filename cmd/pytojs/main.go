// Package main implements the pytojs command.
//
// Design: Cobra commands over one shared app value. The root command loads
// config and wires logging, telemetry and the cache; subcommands only run
// the pipeline.
package main

import (
	"context"
	"os"

	"github.com/valdisz/PyToJs/pkg/report"
)

var version = "0.1.0"

func main() {
	a := &app{}
	if err := newRootCmd(a).Execute(); err != nil {
		_ = a.teardown(context.Background())
		report.NewPrinter(os.Stderr).Error("", err)
		os.Exit(1)
	}
}
