package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/npillmayer/bearsolve/domain"
	"github.com/npillmayer/bearsolve/enumerate"
	"github.com/npillmayer/bearsolve/evaluator"
	"github.com/npillmayer/bearsolve/grammar"
	"github.com/npillmayer/bearsolve/sink"
	"github.com/npillmayer/bearsolve/smt"
	"github.com/npillmayer/bearsolve/smt/gridsat"
	"github.com/npillmayer/bearsolve/trig"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

// --- translate -------------------------------------------------------------

func translateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "translate <input> <output>",
		Short: "Translate an infix expression file into prefix form",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := SubstitutionTable(a.k, a.conf.Table)
			if err != nil {
				return err
			}
			text, err := grammar.ReadInputFile(args[0])
			if err != nil {
				return err
			}
			prefix, err := grammar.NewTranslator(table).Translate(text)
			if err != nil {
				return err
			}
			if err := grammar.WriteOutputFile(args[1], prefix); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), prefix)
			return nil
		},
	}
}

// --- solve -----------------------------------------------------------------

type solveOptions struct {
	format  string
	prefix  bool
	metrics bool
}

func solveCmd(a *app) *cobra.Command {
	opts := solveOptions{}
	cmd := &cobra.Command{
		Use:   "solve <input>",
		Short: "Enumerate all grid points satisfying the expression of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.solve(cmd.Context(), args[0], opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	cmd.Flags().StringVarP(&opts.format, "format", "f", "table", "output format: table, plot, csv or none")
	cmd.Flags().BoolVar(&opts.prefix, "prefix", false, "input file holds the prefix form written by 'translate'")
	cmd.Flags().BoolVar(&opts.metrics, "metrics", false, "print enumeration metrics")
	return cmd
}

// equation reads an expression file and builds the constraint from it.
func (a *app) equation(path string, prefix bool) (smt.Bool, error) {
	table, err := SubstitutionTable(a.k, a.conf.Table)
	if err != nil {
		return nil, err
	}
	tr := grammar.NewTranslator(table)
	text, err := grammar.ReadInputFile(path)
	if err != nil {
		return nil, err
	}
	var n grammar.Node
	if prefix {
		if n, err = grammar.ReadPrefix(text); err == nil {
			err = tr.Resolve(n)
		}
	} else {
		n, err = tr.Parse(text)
	}
	if err != nil {
		return nil, err
	}
	approx, err := trig.New(a.conf.PrecisionOrder, a.conf.Pi)
	if err != nil {
		return nil, err
	}
	return evaluator.NewEvaluator(approx).Equation(n)
}

func (a *app) solve(ctx context.Context, path string, opts solveOptions, stdout, stderr io.Writer) error {
	eq, err := a.equation(path, opts.prefix)
	if err != nil {
		return err
	}
	tracer().Infof("constraint: %s", eq)
	grids, err := enumerate.GridsFor(a.conf)
	if err != nil {
		return err
	}
	out, err := newSink(opts.format, stdout, grids)
	if err != nil {
		return err
	}
	var reg *prometheus.Registry
	var metrics *enumerate.Metrics
	if opts.metrics {
		reg = prometheus.NewRegistry()
		if metrics, err = enumerate.NewMetrics(reg); err != nil {
			return err
		}
	}
	build := func(g []domain.Grid) (*enumerate.Enumerator, error) {
		return enumerate.New(gridsat.New(), eq, g, enumerate.Budget(a.conf), enumerate.WithMetrics(metrics)), nil
	}
	summary, err := run(ctx, grids, a.conf.Shards, build, out)
	printSummary(stderr, summary)
	if reg != nil {
		if err := printMetrics(stderr, reg); err != nil {
			tracer().Errorf("cannot gather metrics: %v", err)
		}
	}
	if err != nil {
		return err
	}
	return summary.Err
}

// run enumerates into out, in a single run or sharded, and closes out.
func run(ctx context.Context, grids []domain.Grid, shards int, build enumerate.Builder,
	out sink.Sink) (enumerate.Summary, error) {
	//
	if shards <= 1 {
		e, err := build(grids)
		if err != nil {
			return enumerate.Summary{State: enumerate.Failed}, err
		}
		state, err := enumerate.Drain(ctx, e, out)
		summary := enumerate.Summary{State: state, Shards: 1, Stats: e.Stats(), Err: e.Err()}
		if err == e.Err() {
			err = nil // reported through summary
		}
		return summary, err
	}
	summary, err := enumerate.RunSharded(ctx, grids, shards, build, out.Accept)
	if cerr := out.Close(summary.State); err == nil {
		err = cerr
	}
	return summary, err
}

func newSink(format string, w io.Writer, grids []domain.Grid) (sink.Sink, error) {
	switch format {
	case "table":
		return sink.NewTable(w, "Solutions"), nil
	case "plot":
		return sink.NewPlot(w, grids[0], grids[1]), nil
	case "csv":
		return sink.NewCSV(w), nil
	case "none":
		return &sink.Discard{}, nil
	}
	return nil, errors.Errorf("unknown output format %q", format)
}

// --- tables ----------------------------------------------------------------

func tablesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tables",
		Short: "List the substitution tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := UserTables(a.k)
			if err != nil {
				return err
			}
			printTables(cmd.OutOrStdout(), append(user, grammar.Tables()...), a.conf.Table)
			return nil
		},
	}
}

// --- bounds ----------------------------------------------------------------

func boundsCmd(a *app) *cobra.Command {
	var upto int
	cmd := &cobra.Command{
		Use:   "bounds",
		Short: "Print the error bounds of the sin/cos approximation over the bearing grid",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			n := upto
			if n < a.conf.PrecisionOrder {
				n = a.conf.PrecisionOrder
			}
			return printBounds(cmd.OutOrStdout(), a.conf, n)
		},
	}
	cmd.Flags().IntVar(&upto, "upto", 8, "highest precision order to list")
	return cmd
}
