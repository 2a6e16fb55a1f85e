package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	prtxt "github.com/jedib0t/go-pretty/v6/text"
	"github.com/npillmayer/bearsolve"
	"github.com/npillmayer/bearsolve/enumerate"
	"github.com/npillmayer/bearsolve/grammar"
	"github.com/npillmayer/bearsolve/trig"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// render writes a table followed by a newline.
func render(w io.Writer, tw table.Writer) {
	tw.SetStyle(table.StyleLight)
	io.WriteString(w, tw.Render())
	w.Write([]byte{'\n'})
}

// --- Run summary -----------------------------------------------------------

func summaryLine(summary enumerate.Summary) string {
	st := summary.Stats
	line := fmt.Sprintf("--- %.3f seconds --- %d models, %d checks, %d refinements, %s",
		st.Elapsed.Seconds(), st.Models, st.Checks, st.Refinements, summary.State)
	if summary.Shards > 1 {
		line += fmt.Sprintf(" (%d shards)", summary.Shards)
	}
	return line
}

// printSummary reports a run. A run which did not exhaust the search space is
// marked in red, as its listing of models may be incomplete.
func printSummary(w io.Writer, summary enumerate.Summary) {
	line := summaryLine(summary)
	if bearsolve.Tracefile != nil {
		fmt.Fprintln(bearsolve.Tracefile, line)
	}
	color := prtxt.FgGreen
	if summary.State != enumerate.Exhausted {
		color = prtxt.FgRed
	}
	fmt.Fprintln(w, color.Sprint(line))
}

// --- Metrics ---------------------------------------------------------------

func printMetrics(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return err
	}
	tw := table.NewWriter()
	tw.SetTitle("Metrics")
	tw.AppendHeader(table.Row{"metric", "labels", "value"})
	for _, f := range families {
		for _, m := range f.GetMetric() {
			tw.AppendRow(table.Row{f.GetName(), labels(m), metricValue(f.GetType(), m)})
		}
	}
	render(w, tw)
	return nil
}

func labels(m *dto.Metric) string {
	pairs := make([]string, 0, len(m.GetLabel()))
	for _, l := range m.GetLabel() {
		pairs = append(pairs, l.GetName()+"="+l.GetValue())
	}
	return strings.Join(pairs, ",")
}

func metricValue(t dto.MetricType, m *dto.Metric) string {
	switch t {
	case dto.MetricType_COUNTER:
		return fmt.Sprintf("%g", m.GetCounter().GetValue())
	case dto.MetricType_GAUGE:
		return fmt.Sprintf("%g", m.GetGauge().GetValue())
	case dto.MetricType_HISTOGRAM:
		h := m.GetHistogram()
		return fmt.Sprintf("n=%d Σ=%.6fs", h.GetSampleCount(), h.GetSampleSum())
	}
	return "?"
}

// --- Substitution tables ---------------------------------------------------

func printTables(w io.Writer, tables []grammar.SubstitutionTable, current string) {
	fmt.Fprintf(w, "configured table: %s\n", current)
	for _, t := range tables {
		tw := table.NewWriter()
		tw.SetTitle(t.ID())
		tw.AppendHeader(table.Row{"#", "from", "to"})
		for i, r := range t.Rules {
			tw.AppendRow(table.Row{i + 1, fmt.Sprintf("%q", r.From), fmt.Sprintf("%q", r.To)})
		}
		render(w, tw)
	}
}

// --- Error bounds ----------------------------------------------------------

func printBounds(w io.Writer, conf bearsolve.Config, upto int) error {
	lo, _ := conf.BearingMin.Float64()
	hi, _ := conf.BearingMax.Float64()
	tw := table.NewWriter()
	tw.SetTitle("Approximation error for bearing in [%s, %s], π ≈ %s", conf.BearingMin, conf.BearingMax, conf.Pi)
	tw.AppendHeader(table.Row{"order", "max |sin − P|", "max |cos − Q|"})
	for p := 1; p <= upto; p++ {
		a, err := trig.New(p, conf.Pi)
		if err != nil {
			return err
		}
		mark := ""
		if p == conf.PrecisionOrder {
			mark = " ◀"
		}
		tw.AppendRow(table.Row{
			fmt.Sprintf("%d%s", p, mark),
			fmt.Sprintf("%.3e", a.MaxSinBound(lo, hi)),
			fmt.Sprintf("%.3e", a.MaxCosBound(lo, hi)),
		})
	}
	render(w, tw)
	return nil
}
