/*
Package bearsolve enumerates discretized solutions of constraints over a range
and a bearing.

An analyst writes a single-line infix expression relating the two declared
variables `Range` and `bearing`. The expression is translated to prefix form,
sin and cos are replaced by Taylor polynomials, and both variables are
restricted to finite grids. An enumerator then asks a decision procedure for
one model after another, blocking every model it has seen, until the grid is
exhausted.

Sub-packages:

	grammar     expression tree, parser, prefix translator
	trig        polynomial approximations of sin/cos with error bounds
	domain      discretized grids
	smt         term algebra and decision procedure interface
	enumerate   the model enumeration state machine
	sink        consumers of model sequences

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package bearsolve

import (
	"context"
	"io"
	"os"

	"github.com/knadh/koanf"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'bearsolve'.
func tracer() tracing.Trace {
	return tracing.Select("bearsolve")
}

// Configuration holds global configuration values of the command line
// application. We use koanf. Packages of the engine never read it; they
// receive a Config at construction time.
var Configuration *koanf.Koanf

// Tracefile is the file we write our log output, if not nil.
var Tracefile io.WriteCloser

// SignalContext is a global context for terminating the application by an interrupt
// signal.
var SignalContext context.Context = context.Background()

// Exit exits the application. It gracefully shuts down all resources.
func Exit(errcode int) {
	tracer().Debugf("exit with code %d", errcode)
	if Tracefile != nil {
		Tracefile.Close()
	}
	os.Exit(errcode)
}

// The two declared symbolic variables.
const (
	RangeVar   = "Range"
	BearingVar = "bearing"
)

// DeclaredVariables returns the names of all declared variables, in the order
// in which they are reported.
func DeclaredVariables() []string {
	return []string{BearingVar, RangeVar}
}

// IsDeclared is a predicate: is name one of the declared variables?
func IsDeclared(name string) bool {
	return name == RangeVar || name == BearingVar
}
