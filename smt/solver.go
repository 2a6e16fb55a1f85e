package smt

import (
	"context"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// Result is the answer of a decision procedure.
type Result int

// Results of Check
const (
	Unknown Result = iota
	Sat
	Unsat
)

func (r Result) String() string {
	switch r {
	case Sat:
		return "sat"
	case Unsat:
		return "unsat"
	}
	return "unknown"
}

// ErrNoModel is returned by Model if the last check was not satisfiable.
var ErrNoModel = errors.New("no model available")

// Solver is a decision procedure for the term algebra.
//
// Assertions accumulate; they are never retracted. Check decides the
// conjunction of all assertions made so far. A result of Unknown is
// accompanied by an error explaining why the procedure gave up.
type Solver interface {
	Assert(terms ...Bool)
	Check(ctx context.Context) (Result, error)
	Model() (Model, error)
}

// Stats are counters a solver may report.
type Stats struct {
	Solves      int // calls of the SAT core
	Refinements int // clauses learned from evaluating atoms
}

// StatsReporter is implemented by solvers which keep statistics.
type StatsReporter interface {
	Stats() Stats
}

// Model is an assignment of constants to variables, found by a solver.
type Model map[string]*Const

// Names returns the variable names of m in sorted order.
func (m Model) Names() []string {
	names := make([]string, 0, len(m))
	for n := range m {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Assignment converts m for evaluation.
func (m Model) Assignment() Assignment {
	a := make(Assignment, len(m))
	for n, c := range m {
		a[n] = c.Rat()
	}
	return a
}

// Blocking returns a term excluding m: the disjunction of v != m[v] over all
// variables of m.
func (m Model) Blocking() Bool {
	names := m.Names()
	diseq := make([]Bool, len(names))
	for i, n := range names {
		diseq[i] = NotEquals(NewVar(n), m[n])
	}
	return Or(diseq...)
}

func (m Model) String() string {
	var b strings.Builder
	b.WriteString("(model")
	for _, n := range m.Names() {
		b.WriteString(" (")
		b.WriteString(n)
		b.WriteString(" ")
		b.WriteString(m[n].String())
		b.WriteString(")")
	}
	b.WriteString(")")
	return b.String()
}
