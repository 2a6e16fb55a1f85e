package gridsat

import (
	"github.com/go-air/gini/z"
	"github.com/npillmayer/bearsolve/smt"
	"github.com/pkg/errors"
)

// flush encodes all pending assertions. Domains are collected first, as
// membership assertions may follow the assertions using their variables.
func (s *Solver) flush() error {
	if len(s.pending) == 0 {
		return nil
	}
	for _, t := range s.pending {
		if name, values, ok := membership(t); ok {
			if _, exists := s.domains[name]; !exists {
				s.newDomain(name, values)
			}
		}
	}
	terms := make([]interface{}, len(s.pending))
	for i, t := range s.pending {
		terms[i] = t
	}
	for _, name := range smt.Vars(terms...) {
		if _, ok := s.domains[name]; !ok {
			return errors.Wrap(ErrNoDomain, name)
		}
	}
	roots := make([]z.Lit, 0, len(s.pending))
	for _, t := range s.pending {
		l, err := s.encode(t)
		if err != nil {
			return err
		}
		roots = append(roots, l)
	}
	s.pending = s.pending[:0]
	s.assertRoots(roots...)
	return nil
}

// assertRoots adds the circuit below roots to the SAT solver and asserts
// every root.
func (s *Solver) assertRoots(roots ...z.Lit) {
	var n int
	s.mark, n = s.circuit.CnfSince(s.sat, s.mark, roots...)
	tracer().Debugf("encoded %d circuit nodes for %d roots", n, len(roots))
	for _, r := range roots {
		s.sat.Add(r)
		s.sat.Add(0)
	}
}

// membership recognizes a disjunction of equations v == c over a single
// variable v, as well as a single such equation.
func membership(t smt.Bool) (string, []*smt.Const, bool) {
	var args []smt.Bool
	switch x := t.(type) {
	case *smt.Connective:
		if x.Op != smt.OpOr {
			return "", nil, false
		}
		args = x.Args
	case *smt.Cmp:
		args = []smt.Bool{x}
	default:
		return "", nil, false
	}
	var name string
	values := make([]*smt.Const, 0, len(args))
	for _, a := range args {
		cmp, ok := a.(*smt.Cmp)
		if !ok || cmp.Op != smt.Eq {
			return "", nil, false
		}
		v, c, ok := varConst(cmp)
		if !ok || (name != "" && v.Name != name) {
			return "", nil, false
		}
		name = v.Name
		values = append(values, c)
	}
	return name, values, name != ""
}

// varConst splits a comparison of a variable and a constant.
func varConst(cmp *smt.Cmp) (*smt.Var, *smt.Const, bool) {
	if v, ok := cmp.L.(*smt.Var); ok {
		if c, ok := cmp.R.(*smt.Const); ok {
			return v, c, true
		}
	}
	if v, ok := cmp.R.(*smt.Var); ok {
		if c, ok := cmp.L.(*smt.Const); ok {
			return v, c, true
		}
	}
	return nil, nil, false
}

// newDomain creates inputs for the values of a variable and asserts that
// exactly one of them holds.
func (s *Solver) newDomain(name string, values []*smt.Const) {
	d := &domain{name: name, index: make(map[string]int)}
	for _, c := range values {
		key := c.Rat().RatString()
		if _, dup := d.index[key]; dup {
			continue
		}
		d.index[key] = len(d.values)
		d.values = append(d.values, c)
		d.lits = append(d.lits, s.circuit.Lit())
	}
	s.domains[name] = d
	s.order = append(s.order, name)
	atLeastOne := s.circuit.Ors(d.lits...)
	atMostOne := s.circuit.CardSort(d.lits).Leq(1)
	s.assertRoots(atLeastOne, atMostOne)
	tracer().Debugf("domain of %s has %d values", name, len(d.values))
}

// encode translates a boolean term into a circuit literal.
func (s *Solver) encode(t smt.Bool) (z.Lit, error) {
	c := s.circuit
	switch x := t.(type) {
	case smt.Literal:
		if x {
			return c.T, nil
		}
		return c.F, nil
	case *smt.Negation:
		l, err := s.encode(x.X)
		return l.Not(), err
	case *smt.Connective:
		lits := make([]z.Lit, len(x.Args))
		for i, a := range x.Args {
			l, err := s.encode(a)
			if err != nil {
				return z.LitNull, err
			}
			lits[i] = l
		}
		if x.Op == smt.OpAnd {
			return c.Ands(lits...), nil
		}
		return c.Ors(lits...), nil
	case *smt.Cmp:
		if x.Op == smt.Eq || x.Op == smt.Ne {
			if v, k, ok := varConst(x); ok {
				l := s.valueLit(v.Name, k)
				if x.Op == smt.Ne {
					l = l.Not()
				}
				return l, nil
			}
		}
		return s.theoryAtom(x)
	}
	return z.LitNull, errors.Errorf("cannot encode term of type %T", t)
}

// valueLit returns the input for v == k. If k is not in the domain of v,
// the equation is false.
func (s *Solver) valueLit(name string, k *smt.Const) z.Lit {
	d := s.domains[name]
	i, ok := d.index[k.Rat().RatString()]
	if !ok {
		return s.circuit.F
	}
	return d.lits[i]
}

// theoryAtom returns the input of a comparison, creating it on first use.
func (s *Solver) theoryAtom(cmp *smt.Cmp) (z.Lit, error) {
	key := cmp.String()
	if a, ok := s.atomIdx[key]; ok {
		return a.lit, nil
	}
	prog, err := smt.CompileAtom(cmp)
	if err != nil {
		return z.LitNull, err
	}
	a := &atom{cmp: cmp, lit: s.circuit.Lit(), prog: prog}
	for _, name := range prog.Slots {
		a.vars = append(a.vars, s.domains[name])
	}
	s.atomIdx[key] = a
	s.atoms = append(s.atoms, a)
	tracer().Debugf("theory atom %s over %v", key, prog.Slots)
	return a.lit, nil
}
