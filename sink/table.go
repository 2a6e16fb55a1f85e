package sink

import (
	"fmt"
	"io"

	"github.com/emirpasic/gods/maps/treemap"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/npillmayer/bearsolve"
	"github.com/npillmayer/bearsolve/enumerate"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// gridPoint orders models by bearing first, then by Range.
type gridPoint struct {
	bearing, rng decimal.Decimal
}

func pointOf(m bearsolve.Model) gridPoint {
	b, _ := m.Value(bearsolve.BearingVar)
	r, _ := m.Value(bearsolve.RangeVar)
	return gridPoint{bearing: b, rng: r}
}

func comparePoints(a, b interface{}) int {
	p, q := a.(gridPoint), b.(gridPoint)
	if c := p.bearing.Cmp(q.bearing); c != 0 {
		return c
	}
	return p.rng.Cmp(q.rng)
}

// Table renders all models as a table on Close.
type Table struct {
	Title  string
	w      io.Writer
	rows   *treemap.Map
	closed bool
}

// NewTable creates a table sink writing to w.
func NewTable(w io.Writer, title string) *Table {
	return &Table{
		Title: title,
		w:     w,
		rows:  treemap.NewWith(comparePoints),
	}
}

// Accept stores m. Models are unique, so no row is ever replaced.
func (t *Table) Accept(m bearsolve.Model) error {
	if t.closed {
		return ErrClosed
	}
	t.rows.Put(pointOf(m), m)
	return nil
}

// Close renders the table. The footer tells whether the listing is complete.
func (t *Table) Close(final enumerate.State) error {
	if t.closed {
		return ErrClosed
	}
	t.closed = true
	tw := t.Writer(final)
	if _, err := io.WriteString(t.w, tw.Render()+"\n"); err != nil {
		return errors.Wrap(err, "rendering table")
	}
	return nil
}

// Writer returns a go-pretty table writer holding the rows of t.
func (t *Table) Writer(final enumerate.State) table.Writer {
	tw := table.NewWriter()
	if t.Title != "" {
		tw.SetTitle(t.Title)
	}
	tw.AppendHeader(table.Row{"#", bearsolve.BearingVar, bearsolve.RangeVar})
	it := t.rows.Iterator()
	for i := 1; it.Next(); i++ {
		p := it.Key().(gridPoint)
		tw.AppendRow(table.Row{i, p.bearing.String(), p.rng.String()})
	}
	tw.AppendFooter(table.Row{"", summary(t.rows.Size(), final), ""})
	tw.SetStyle(table.StyleLight)
	return tw
}

func summary(n int, final enumerate.State) string {
	if final == enumerate.Exhausted {
		return fmt.Sprintf("%d models (complete)", n)
	}
	return fmt.Sprintf("%d models (%s, incomplete)", n, final)
}
