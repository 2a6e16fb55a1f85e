package enumerate

import (
	"context"
	"time"

	"github.com/emirpasic/gods/sets/hashset"
	"github.com/npillmayer/bearsolve"
	"github.com/npillmayer/bearsolve/domain"
	"github.com/npillmayer/bearsolve/smt"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// State is the state of an Enumerator.
type State int8

// States of an enumerator
const (
	Idle State = iota
	Checking
	Emitting
	Exhausted
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Checking:
		return "Checking"
	case Emitting:
		return "Emitting"
	case Exhausted:
		return "Exhausted"
	case Failed:
		return "Failed"
	}
	return "?"
}

// IsFinal is a predicate: will an enumerator in state s never produce
// another model?
func (s State) IsFinal() bool {
	return s == Exhausted || s == Failed
}

// ProgressInterval is the number of models between two progress messages.
const ProgressInterval = 100

// Stats are the counters of an enumeration.
type Stats struct {
	Checks      int
	Models      int
	Refinements int
	Elapsed     time.Duration
}

// Add sums up two sets of counters. Elapsed is the maximum of both.
func (st Stats) Add(other Stats) Stats {
	st.Checks += other.Checks
	st.Models += other.Models
	st.Refinements += other.Refinements
	if other.Elapsed > st.Elapsed {
		st.Elapsed = other.Elapsed
	}
	return st
}

// Enumerator enumerates the models of an equation. It exclusively owns its
// solver and is not safe for concurrent use.
type Enumerator struct {
	solver    smt.Solver
	equation  smt.Bool
	grids     []domain.Grid
	state     State
	err       error
	maxChecks int
	timeout   time.Duration
	metrics   *Metrics
	started   time.Time
	deadline  time.Time
	stats     Stats
	emitted   *hashset.Set
	last      smt.Model // grid variables of the last model, blocked before the next check
}

// Option configures an Enumerator.
type Option func(*Enumerator)

// MaxChecks limits the number of satisfiability checks. 0 means no limit.
func MaxChecks(n int) Option {
	return func(e *Enumerator) {
		e.maxChecks = n
	}
}

// Timeout limits the wall-clock time of the enumeration. 0 means no limit.
func Timeout(d time.Duration) Option {
	return func(e *Enumerator) {
		e.timeout = d
	}
}

// WithMetrics makes the enumerator report to m.
func WithMetrics(m *Metrics) Option {
	return func(e *Enumerator) {
		e.metrics = m
	}
}

// Budget sets the budgets from a configuration.
func Budget(conf bearsolve.Config) Option {
	return func(e *Enumerator) {
		e.maxChecks = conf.MaxChecks
		e.timeout = conf.Timeout
	}
}

// New creates an enumerator for the models of equation, with the variables
// ranging over grids. Nothing is asserted before the first call of Next.
func New(solver smt.Solver, equation smt.Bool, grids []domain.Grid, opts ...Option) *Enumerator {
	e := &Enumerator{
		solver:   solver,
		equation: equation,
		grids:    grids,
		emitted:  hashset.New(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// State returns the current state of e.
func (e *Enumerator) State() State {
	return e.state
}

// Err returns the reason for e being in state Failed, or nil. Reasons are of
// type *bearsolve.DecisionProcedureUnknown.
func (e *Enumerator) Err() error {
	return e.err
}

// Stats returns the counters of e.
func (e *Enumerator) Stats() Stats {
	st := e.stats
	if !e.started.IsZero() && !e.state.IsFinal() {
		st.Elapsed = time.Since(e.started)
	}
	return st
}

// Next returns the next model, if any. After Next returned false, State
// tells whether the enumeration is complete (Exhausted) or not (Failed).
func (e *Enumerator) Next(ctx context.Context) (bearsolve.Model, bool) {
	switch e.state {
	case Exhausted, Failed:
		return bearsolve.Model{}, false
	case Idle:
		e.start()
	case Emitting:
		e.solver.Assert(e.last.Blocking())
		e.last = nil
	}
	if err := e.checkBudget(ctx); err != nil {
		e.fail(err)
		return bearsolve.Model{}, false
	}
	e.state = Checking
	res, err := e.check(ctx)
	switch res {
	case smt.Sat:
		return e.emit()
	case smt.Unsat:
		e.state = Exhausted
		e.stats.Elapsed = time.Since(e.started)
		tracer().Infof("enumeration exhausted after %d models, %d checks", e.stats.Models, e.stats.Checks)
		return bearsolve.Model{}, false
	}
	if err == nil {
		err = bearsolve.ErrIncomplete
	}
	if !e.deadline.IsZero() && !time.Now().Before(e.deadline) {
		err = errors.Wrap(bearsolve.ErrBudgetExhausted, "timeout")
	}
	e.fail(err)
	return bearsolve.Model{}, false
}

// start asserts the equation together with the bounds and the membership
// constraints of every grid.
func (e *Enumerator) start() {
	e.started = time.Now()
	if e.timeout > 0 {
		e.deadline = e.started.Add(e.timeout)
	}
	e.solver.Assert(e.equation)
	for _, g := range e.grids {
		e.solver.Assert(g.Bounds(), g.Membership())
	}
	tracer().Debugf("enumerating models of %s", e.equation)
}

func (e *Enumerator) checkBudget(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, "enumeration cancelled")
	}
	if e.maxChecks > 0 && e.stats.Checks >= e.maxChecks {
		return errors.Wrapf(bearsolve.ErrBudgetExhausted, "%d checks", e.stats.Checks)
	}
	if !e.deadline.IsZero() && !time.Now().Before(e.deadline) {
		return errors.Wrapf(bearsolve.ErrBudgetExhausted, "timeout of %s", e.timeout)
	}
	return nil
}

func (e *Enumerator) check(ctx context.Context) (smt.Result, error) {
	if !e.deadline.IsZero() {
		var cancel context.CancelFunc
		ctx, cancel = context.WithDeadline(ctx, e.deadline)
		defer cancel()
	}
	var before smt.Stats
	reporter, hasStats := e.solver.(smt.StatsReporter)
	if hasStats {
		before = reporter.Stats()
	}
	start := time.Now()
	res, err := e.solver.Check(ctx)
	e.stats.Checks++
	if hasStats {
		n := reporter.Stats().Refinements - before.Refinements
		e.stats.Refinements += n
		e.metrics.refined(n)
	}
	e.metrics.checked(res, time.Since(start))
	tracer().Debugf("check %d: %s", e.stats.Checks, res)
	return res, err
}

// emit copies the model out of the solver.
func (e *Enumerator) emit() (bearsolve.Model, bool) {
	m, err := e.solver.Model()
	if err != nil {
		e.fail(err)
		return bearsolve.Model{}, false
	}
	values := make(map[string]decimal.Decimal, len(e.grids))
	blocked := make(smt.Model, len(e.grids))
	for _, g := range e.grids {
		c, ok := m[g.Name]
		if !ok {
			e.fail(errors.Errorf("model does not assign %s", g.Name))
			return bearsolve.Model{}, false
		}
		values[g.Name] = c.Decimal()
		blocked[g.Name] = c
	}
	model := bearsolve.NewModel(values)
	key := model.Key()
	if e.emitted.Contains(key) {
		e.fail(errors.Errorf("duplicate model %s", model))
		return bearsolve.Model{}, false
	}
	e.emitted.Add(key)
	e.last = blocked
	e.state = Emitting
	e.stats.Models++
	e.metrics.emitted()
	if e.stats.Models%ProgressInterval == 0 {
		tracer().Infof("%d models after %d checks", e.stats.Models, e.stats.Checks)
	}
	return model, true
}

func (e *Enumerator) fail(err error) {
	e.state = Failed
	e.stats.Elapsed = time.Since(e.started)
	var unknown *bearsolve.DecisionProcedureUnknown
	if errors.As(err, &unknown) {
		e.err = unknown
	} else {
		e.err = &bearsolve.DecisionProcedureUnknown{Reason: reason(err), Err: err}
	}
	tracer().Errorf("enumeration failed after %d models: %v", e.stats.Models, e.err)
}

func reason(err error) string {
	switch {
	case errors.Is(err, bearsolve.ErrBudgetExhausted):
		return "budget exhausted"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	}
	return "check failed"
}
