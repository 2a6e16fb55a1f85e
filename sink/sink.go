package sink

import (
	"github.com/npillmayer/bearsolve"
	"github.com/npillmayer/bearsolve/enumerate"
	"github.com/pkg/errors"
)

// ErrClosed is returned for models arriving after a sink has been closed.
var ErrClosed = errors.New("sink is closed")

// Sink consumes a sequence of models. Close is called exactly once, with the
// final state of the enumeration; a sink must not claim completeness unless
// that state is enumerate.Exhausted.
type Sink interface {
	Accept(bearsolve.Model) error
	Close(final enumerate.State) error
}

var _ enumerate.Acceptor = Sink(nil)

// --- Collect ---------------------------------------------------------------

// Collect keeps all models in memory.
type Collect struct {
	Models []bearsolve.Model
	Final  enumerate.State
	closed bool
}

// Accept appends m.
func (c *Collect) Accept(m bearsolve.Model) error {
	if c.closed {
		return ErrClosed
	}
	c.Models = append(c.Models, m)
	return nil
}

// Close records the final state.
func (c *Collect) Close(final enumerate.State) error {
	if c.closed {
		return ErrClosed
	}
	c.closed = true
	c.Final = final
	return nil
}

// Complete is a predicate: does c hold every model of a finished enumeration?
func (c *Collect) Complete() bool {
	return c.closed && c.Final == enumerate.Exhausted
}

// --- Multi -----------------------------------------------------------------

type multi []Sink

// Multi returns a sink which forwards to all of sinks, in order. Accept stops
// at the first error; Close closes every sink and returns the first error.
func Multi(sinks ...Sink) Sink {
	return multi(sinks)
}

func (ms multi) Accept(m bearsolve.Model) error {
	for i, s := range ms {
		if err := s.Accept(m); err != nil {
			return errors.Wrapf(err, "sink %d", i)
		}
	}
	return nil
}

func (ms multi) Close(final enumerate.State) error {
	var first error
	for i, s := range ms {
		if err := s.Close(final); err != nil && first == nil {
			first = errors.Wrapf(err, "sink %d", i)
		}
	}
	return first
}

// --- Discard ---------------------------------------------------------------

// Discard counts models and drops them.
type Discard struct {
	Count int
}

// Accept counts m.
func (d *Discard) Accept(bearsolve.Model) error {
	d.Count++
	return nil
}

// Close does nothing.
func (d *Discard) Close(enumerate.State) error {
	tracer().Debugf("discarded %d models", d.Count)
	return nil
}
