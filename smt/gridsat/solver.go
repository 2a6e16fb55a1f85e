package gridsat

import (
	"context"
	"math/big"
	"time"

	"github.com/go-air/gini"
	"github.com/go-air/gini/logic"
	"github.com/go-air/gini/z"
	"github.com/npillmayer/bearsolve/smt"
	"github.com/npillmayer/bearsolve/vm"
	"github.com/pkg/errors"
)

// ErrNoDomain is reported (as the reason for an unknown result) if a
// variable is used without a finite domain.
var ErrNoDomain = errors.New("variable has no finite domain")

// ErrRefinementLimit is reported if a check needs too many refinements.
var ErrRefinementLimit = errors.New("refinement limit exceeded")

// ErrCancelled is reported if a check has been stopped before completion.
var ErrCancelled = errors.New("check cancelled")

// DefaultRefinementLimit is the default number of refinements per check.
const DefaultRefinementLimit = 1 << 20

// Solver is a lazy finite-domain solver. It is not safe for concurrent use.
type Solver struct {
	circuit *logic.C
	sat     *gini.Gini
	mark    []int8
	pending []smt.Bool
	domains map[string]*domain
	order   []string   // domain variables in order of creation
	atoms   []*atom    // theory atoms in order of creation
	atomIdx map[string]*atom
	model   smt.Model
	stats   smt.Stats
	limit   int
	failed  error // a sticky encoding error
}

// domain holds the values of a variable together with their inputs.
type domain struct {
	name   string
	values []*smt.Const
	lits   []z.Lit
	index  map[string]int // RatString → position
}

// atom is a comparison with its input and its compiled test.
type atom struct {
	cmp  *smt.Cmp
	lit  z.Lit
	prog *vm.Program
	vars []*domain // per slot of prog
}

// Option configures a Solver.
type Option func(*Solver)

// RefinementLimit sets the maximum number of refinements of a single check.
func RefinementLimit(n int) Option {
	return func(s *Solver) {
		if n > 0 {
			s.limit = n
		}
	}
}

// New creates an empty solver.
func New(opts ...Option) *Solver {
	s := &Solver{
		circuit: logic.NewC(),
		sat:     gini.New(),
		domains: make(map[string]*domain),
		atomIdx: make(map[string]*atom),
		limit:   DefaultRefinementLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Assert adds terms to the assertions of s. Assertions are encoded lazily
// by the next call to Check.
func (s *Solver) Assert(terms ...smt.Bool) {
	s.pending = append(s.pending, terms...)
}

// Stats returns the counters of s.
func (s *Solver) Stats() smt.Stats {
	return s.stats
}

// Domain returns the values known for a variable, in order of appearance.
func (s *Solver) Domain(name string) []*smt.Const {
	d, ok := s.domains[name]
	if !ok {
		return nil
	}
	values := make([]*smt.Const, len(d.values))
	copy(values, d.values)
	return values
}

// Model returns the model found by the last check, if it was satisfiable.
func (s *Solver) Model() (smt.Model, error) {
	if s.model == nil {
		return nil, smt.ErrNoModel
	}
	m := make(smt.Model, len(s.model))
	for k, v := range s.model {
		m[k] = v
	}
	return m, nil
}

// Check decides the conjunction of all assertions.
func (s *Solver) Check(ctx context.Context) (smt.Result, error) {
	s.model = nil
	if s.failed != nil {
		return smt.Unknown, s.failed
	}
	if err := s.flush(); err != nil {
		s.failed = err
		return smt.Unknown, err
	}
	refinements := 0
	for {
		if err := ctx.Err(); err != nil {
			return smt.Unknown, errors.Wrap(ErrCancelled, err.Error())
		}
		s.growVars()
		res, err := s.solve(ctx)
		s.stats.Solves++
		if err != nil {
			return smt.Unknown, err
		}
		if res < 0 {
			tracer().Debugf("unsat after %d refinements", refinements)
			return smt.Unsat, nil
		}
		point := s.decode()
		n, err := s.refine(point)
		if err != nil {
			return smt.Unknown, err
		}
		if n == 0 {
			s.model = s.modelAt(point)
			tracer().Debugf("sat after %d refinements: %v", refinements, s.model)
			return smt.Sat, nil
		}
		refinements += n
		s.stats.Refinements += n
		if refinements > s.limit {
			return smt.Unknown, errors.Wrapf(ErrRefinementLimit, "%d refinements", refinements)
		}
	}
}

// solve runs the SAT core. A cancellable context is observed by running
// the core in the background.
func (s *Solver) solve(ctx context.Context) (int, error) {
	if ctx.Done() == nil {
		return s.sat.Solve(), nil
	}
	run := s.sat.GoSolve()
	wait := 50 * time.Microsecond
	for {
		if res, done := run.Test(); done {
			if res == 0 {
				return 0, ErrCancelled
			}
			return res, nil
		}
		select {
		case <-ctx.Done():
			if res := run.Stop(); res != 0 {
				return res, nil
			}
			return 0, errors.Wrap(ErrCancelled, ctx.Err().Error())
		case <-time.After(wait):
		}
		if wait < 10*time.Millisecond {
			wait *= 2
		}
	}
}

// growVars makes sure every node of the circuit has a SAT variable, including
// inputs which do not occur in any clause.
func (s *Solver) growVars() {
	max := z.Var(s.circuit.Len() - 1)
	for s.sat.MaxVar() < max {
		s.sat.Lit()
	}
}

// decode reads the chosen value index of every domain variable.
func (s *Solver) decode() map[string]int {
	point := make(map[string]int, len(s.order))
	for _, name := range s.order {
		d := s.domains[name]
		for i, l := range d.lits {
			if s.sat.Value(l) {
				point[name] = i
				break
			}
		}
	}
	return point
}

func (s *Solver) modelAt(point map[string]int) smt.Model {
	m := make(smt.Model, len(point))
	for name, i := range point {
		m[name] = s.domains[name].values[i]
	}
	return m
}

// refine evaluates every theory atom at point and adds a clause for every
// atom whose proposed truth value is wrong. It returns the number of clauses
// added.
func (s *Solver) refine(point map[string]int) (int, error) {
	n := 0
	env := make([]*big.Rat, 0, 2)
	for _, a := range s.atoms {
		env = env[:0]
		for _, d := range a.vars {
			env = append(env, d.values[point[d.name]].Rat())
		}
		truth, err := a.prog.Test(env)
		if errors.Is(err, vm.ErrUndefined) {
			truth, err = false, nil
		}
		if err != nil {
			return n, errors.Wrapf(err, "evaluating %s", a.cmp)
		}
		if s.sat.Value(a.lit) == truth {
			continue
		}
		for _, d := range a.vars {
			s.sat.Add(d.lits[point[d.name]].Not())
		}
		if truth {
			s.sat.Add(a.lit)
		} else {
			s.sat.Add(a.lit.Not())
		}
		s.sat.Add(0)
		n++
	}
	return n, nil
}
