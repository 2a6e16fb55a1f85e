/*
Package domain discretizes the ranges of the variables into finite grids.

A grid (min, max, step) holds the values min + i·step for
i = 0 … ⌊(max−min)/step⌋. All arithmetic is exact: values are decimals and
the number of values is computed from a rational quotient, so a step of 0.4
on [0, 10] yields 26 values, the last one being exactly 10.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package domain

import (
	"fmt"
	"math/big"

	"github.com/npillmayer/bearsolve/smt"
	"github.com/npillmayer/schuko/tracing"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// tracer traces with key 'bearsolve.domain'
func tracer() tracing.Trace {
	return tracing.Select("bearsolve.domain")
}

// ErrInvalidGrid is returned for a grid with a non-positive step, with
// max < min, or with more than MaxValues values.
var ErrInvalidGrid = errors.New("invalid grid")

// MaxValues is the maximum number of values of a grid.
const MaxValues = 1 << 20

// Grid is the discretized domain of a variable.
type Grid struct {
	Name string
	Min  decimal.Decimal
	Max  decimal.Decimal
	Step decimal.Decimal
}

// New creates a grid for the variable name.
func New(name string, min, max, step decimal.Decimal) (Grid, error) {
	if !step.IsPositive() {
		return Grid{}, errors.Wrapf(ErrInvalidGrid, "%s: step %s is not positive", name, step)
	}
	if max.LessThan(min) {
		return Grid{}, errors.Wrapf(ErrInvalidGrid, "%s: max %s is less than min %s", name, max, min)
	}
	g := Grid{Name: name, Min: min, Max: max, Step: step}
	if n := g.count(); n.Cmp(big.NewInt(MaxValues)) > 0 {
		return Grid{}, errors.Wrapf(ErrInvalidGrid, "%s: %s values exceed the maximum of %d", name, n, MaxValues)
	}
	tracer().Debugf("grid %s has %d values", g, g.Len())
	return g, nil
}

// Len returns the number of values of g, ⌊(max−min)/step⌋+1.
func (g Grid) Len() int {
	return int(g.count().Int64())
}

func (g Grid) count() *big.Int {
	q := new(big.Rat).Quo(g.Max.Sub(g.Min).Rat(), g.Step.Rat())
	n := new(big.Int).Quo(q.Num(), q.Denom()) // q ≥ 0
	return n.Add(n, big.NewInt(1))
}

// Value returns the i-th value of g.
func (g Grid) Value(i int) decimal.Decimal {
	return g.Min.Add(g.Step.Mul(decimal.NewFromInt(int64(i))))
}

// Values returns all values of g in ascending order.
func (g Grid) Values() []decimal.Decimal {
	n := g.Len()
	values := make([]decimal.Decimal, n)
	for i := 0; i < n; i++ {
		values[i] = g.Value(i)
	}
	return values
}

// Contains is a predicate: is v a value of g?
func (g Grid) Contains(v decimal.Decimal) bool {
	if v.LessThan(g.Min) || v.GreaterThan(g.Max) {
		return false
	}
	q := new(big.Rat).Quo(v.Sub(g.Min).Rat(), g.Step.Rat())
	return q.IsInt()
}

// Index returns the position of v in g, if v is a value of g.
func (g Grid) Index(v decimal.Decimal) (int, bool) {
	if !g.Contains(v) {
		return -1, false
	}
	q := new(big.Rat).Quo(v.Sub(g.Min).Rat(), g.Step.Rat())
	return int(q.Num().Int64()), true
}

// Var returns the term for the variable of g.
func (g Grid) Var() *smt.Var {
	return smt.NewVar(g.Name)
}

// Membership returns the constraint v == v₁ ∨ v == v₂ ∨ … for the values vᵢ
// of g.
func (g Grid) Membership() smt.Bool {
	v := g.Var()
	values := g.Values()
	eqs := make([]smt.Bool, len(values))
	for i, x := range values {
		eqs[i] = smt.Equals(v, smt.FromDecimal(x))
	}
	return smt.Or(eqs...)
}

// Bounds returns the constraint min <= v ∧ v <= max.
func (g Grid) Bounds() smt.Bool {
	v := g.Var()
	return smt.And(
		smt.LessEq(smt.FromDecimal(g.Min), v),
		smt.LessEq(v, smt.FromDecimal(g.Max)),
	)
}

// Split partitions g into at most n contiguous grids with the step of g.
// Every value of g is a value of exactly one of the parts.
func (g Grid) Split(n int) []Grid {
	size := g.Len()
	if n < 1 {
		n = 1
	}
	if n > size {
		n = size
	}
	parts := make([]Grid, 0, n)
	start := 0
	for i := 0; i < n; i++ {
		count := size / n
		if i < size%n {
			count++
		}
		parts = append(parts, Grid{
			Name: g.Name,
			Min:  g.Value(start),
			Max:  g.Value(start + count - 1),
			Step: g.Step,
		})
		start += count
	}
	return parts
}

func (g Grid) String() string {
	return fmt.Sprintf("%s[%s..%s/%s]", g.Name, g.Min, g.Max, g.Step)
}
