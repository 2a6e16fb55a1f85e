package enumerate

import (
	"context"

	"github.com/npillmayer/bearsolve"
	"github.com/pkg/errors"
)

// Acceptor receives models and is closed with the final state of the
// enumeration. Package sink provides implementations.
type Acceptor interface {
	Accept(bearsolve.Model) error
	Close(State) error
}

// Drain feeds every model of e to sink and closes sink with the final state.
// It returns the enumerator's error in state Failed, or an error of sink.
func Drain(ctx context.Context, e *Enumerator, sink Acceptor) (State, error) {
	for {
		model, ok := e.Next(ctx)
		if !ok {
			break
		}
		if err := sink.Accept(model); err != nil {
			_ = sink.Close(Failed)
			return Failed, errors.Wrap(err, "sink rejected model")
		}
	}
	state := e.State()
	if err := sink.Close(state); err != nil {
		return state, errors.Wrap(err, "closing sink")
	}
	return state, e.Err()
}
