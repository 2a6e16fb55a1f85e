package cli

import (
	"github.com/knadh/koanf"
	"github.com/npillmayer/bearsolve"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

const longHelp = `bearsolve enumerates the discretized solutions of a constraint over
the two variables Range and bearing.

A constraint is a single-line infix expression, e.g.

    Range * cos(bearing) <= 5 and Range > 1

sin and cos are approximated by Taylor polynomials of a configurable order.
Range and bearing range over finite grids. Every grid point satisfying the
constraint is reported exactly once. A run which does not exhaust the grid,
because of a budget or an undecidable constraint, is reported as incomplete.
`

// app carries the state shared by all commands of one invocation.
type app struct {
	appTag  string // empty: no user configuration file, no environment
	tracing bool   // configure tracing from the configuration
	k       *koanf.Koanf
	conf    bearsolve.Config
}

// newRootCmd creates the command tree.
func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "bearsolve",
		Short:         "Enumerate solutions of constraints over Range and bearing",
		Long:          longHelp,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd.Root())
		},
	}
	addConfigFlags(root.PersistentFlags())
	root.AddCommand(
		translateCmd(a),
		solveCmd(a),
		tablesCmd(a),
		boundsCmd(a),
	)
	return root
}

// setup loads the configuration. It is called before any command runs.
func (a *app) setup(root *cobra.Command) error {
	konf, err := loadConfig(root.PersistentFlags(), a.appTag)
	if err != nil {
		return err
	}
	if a.tracing {
		if err := configureTracing(konf); err != nil {
			return err
		}
	}
	a.k = konf.Koanf()
	bearsolve.Configuration = a.k // push the configuration to app-global scope
	a.conf, err = ConfigFrom(a.k)
	return err
}

// Execute runs the command line interface. This is called exactly once by
// main(). It does not return.
func Execute() {
	a := &app{appTag: AppTag, tracing: true}
	root := newRootCmd(a)
	err := root.ExecuteContext(bearsolve.SignalContext)
	if err != nil {
		root.PrintErrln("Error:", err)
	}
	bearsolve.Exit(ExitCode(err))
}

// Exit codes
const (
	ExitOK          = 0
	ExitUsage       = 1 // invalid flags or configuration
	ExitInput       = 2 // InputFormatError
	ExitUnsupported = 3 // UnsupportedConstruct
	ExitIncomplete  = 4 // DecisionProcedureUnknown, enumeration incomplete
)

// ExitCode maps an error to the exit code of the application.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var inputErr *bearsolve.InputFormatError
	var unsupported *bearsolve.UnsupportedConstruct
	switch {
	case errors.As(err, &inputErr):
		return ExitInput
	case errors.As(err, &unsupported):
		return ExitUnsupported
	case bearsolve.IsUnknown(err):
		return ExitIncomplete
	}
	return ExitUsage
}
