package sink

import (
	"encoding/csv"
	"io"

	"github.com/npillmayer/bearsolve"
	"github.com/npillmayer/bearsolve/enumerate"
	"github.com/pkg/errors"
)

// CSV streams models as `bearing,Range` records, preceded by a header line.
type CSV struct {
	w      *csv.Writer
	header bool
	closed bool
}

// NewCSV creates a CSV sink writing to w.
func NewCSV(w io.Writer) *CSV {
	return &CSV{w: csv.NewWriter(w)}
}

// Accept writes a record for m.
func (c *CSV) Accept(m bearsolve.Model) error {
	if c.closed {
		return ErrClosed
	}
	if !c.header {
		c.header = true
		if err := c.w.Write(bearsolve.DeclaredVariables()); err != nil {
			return errors.Wrap(err, "writing CSV header")
		}
	}
	pt := pointOf(m)
	if err := c.w.Write([]string{pt.bearing.String(), pt.rng.String()}); err != nil {
		return errors.Wrap(err, "writing CSV record")
	}
	return nil
}

// Close flushes the output. An incomplete enumeration is noted in the trace
// only, keeping the output a plain table.
func (c *CSV) Close(final enumerate.State) error {
	if c.closed {
		return ErrClosed
	}
	c.closed = true
	if !c.header {
		if err := c.w.Write(bearsolve.DeclaredVariables()); err != nil {
			return errors.Wrap(err, "writing CSV header")
		}
	}
	if final != enumerate.Exhausted {
		tracer().Errorf("CSV output is incomplete, enumeration ended in state %s", final)
	}
	c.w.Flush()
	return errors.Wrap(c.w.Error(), "flushing CSV")
}
