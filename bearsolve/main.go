// Command bearsolve enumerates the discretized solutions of a constraint over
// Range and bearing.
//
// License
//
// Governed by a 3-Clause BSD license. License file may be found in the root
// folder of this module.
//
// Copyright © 2021 Norbert Pillmayer <norbert@pillmayer.com>
//
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/npillmayer/bearsolve"
	"github.com/npillmayer/bearsolve/bearsolve/cli"
)

func main() {
	var stop context.CancelFunc
	bearsolve.SignalContext, stop = signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	cli.Execute() // does not return
}
