/*
Package trig approximates sine and cosine of an angle given in degrees by
truncated Taylor series.

The approximations are built as terms of package smt, so they may be handed
to a decision procedure which does not know about trigonometry. For an order
P and an angle θ, with x = θ·π̃/180,

    sin θ ≈ x - x³/3! + x⁵/5! - … ± x^(2P-1)/(2P-1)!
    cos θ ≈ 1 - x²/2! + x⁴/4! - … ± x^(2P-2)/(2P-2)!

where π̃ is a decimal approximation of π. The error of both approximations
can be queried: it is the remainder of the series plus the error introduced
by π̃.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package trig

import (
	"math"
	"math/big"

	"github.com/npillmayer/bearsolve/smt"
	"github.com/npillmayer/schuko/tracing"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// tracer traces with key 'bearsolve.trig'
func tracer() tracing.Trace {
	return tracing.Select("bearsolve.trig")
}

// DefaultOrder is the default number of series terms.
const DefaultOrder = 5

// DefaultPi is the approximation of π used by default.
var DefaultPi = decimal.RequireFromString("3.14159")

// ErrInvalidOrder is returned for an order less than 1.
var ErrInvalidOrder = errors.New("approximation order must be at least 1")

// Approximator creates series approximations of a fixed order.
type Approximator struct {
	Order int
	Pi    decimal.Decimal
}

// New creates an approximator. A zero pi selects DefaultPi.
func New(order int, pi decimal.Decimal) (*Approximator, error) {
	if order < 1 {
		return nil, errors.Wrapf(ErrInvalidOrder, "order %d", order)
	}
	if pi.IsZero() {
		pi = DefaultPi
	}
	if !pi.IsPositive() {
		return nil, errors.Errorf("approximation of pi must be positive, is %s", pi)
	}
	return &Approximator{Order: order, Pi: pi}, nil
}

// Default returns an approximator of DefaultOrder using DefaultPi.
func Default() *Approximator {
	return &Approximator{Order: DefaultOrder, Pi: DefaultPi}
}

// radians converts a term in degrees to radians, using π̃.
func (a *Approximator) radians(theta smt.Real) smt.Real {
	f := new(big.Rat).Quo(a.Pi.Rat(), big.NewRat(180, 1))
	return smt.Mul(theta, smt.NewConst(f))
}

// coefficient returns (-1)^k / n!.
func coefficient(k, n int) *smt.Const {
	f := new(big.Int).MulRange(1, int64(n))
	c := new(big.Rat).SetFrac(big.NewInt(1), f)
	if k%2 == 1 {
		c.Neg(c)
	}
	return smt.NewConst(c)
}

func power(x smt.Real, n int) smt.Real {
	if n == 1 {
		return x
	}
	return smt.Pow(x, smt.Int(int64(n)))
}

// Sin returns the series approximation of the sine of theta (in degrees).
func (a *Approximator) Sin(theta smt.Real) smt.Real {
	x := a.radians(theta)
	terms := make([]smt.Real, 0, a.Order)
	for k := 0; k < a.Order; k++ {
		n := 2*k + 1
		if k == 0 {
			terms = append(terms, x)
			continue
		}
		terms = append(terms, smt.Mul(coefficient(k, n), power(x, n)))
	}
	tracer().Debugf("sin approximation of order %d for %s", a.Order, theta)
	return smt.Sum(terms...)
}

// Cos returns the series approximation of the cosine of theta (in degrees).
func (a *Approximator) Cos(theta smt.Real) smt.Real {
	x := a.radians(theta)
	terms := []smt.Real{smt.Int(1)}
	for k := 1; k < a.Order; k++ {
		n := 2 * k
		terms = append(terms, smt.Mul(coefficient(k, n), power(x, n)))
	}
	tracer().Debugf("cos approximation of order %d for %s", a.Order, theta)
	return smt.Sum(terms...)
}

// --- Floating point mirror -------------------------------------------------

func (a *Approximator) pi() float64 {
	pi, _ := a.Pi.Float64()
	return pi
}

// SinFloat evaluates the sine approximation in floating point.
func (a *Approximator) SinFloat(theta float64) float64 {
	x := theta * a.pi() / 180
	sum, term := 0.0, x
	for k := 0; k < a.Order; k++ {
		n := float64(2*k + 1)
		if k > 0 {
			term *= -x * x / ((n - 1) * n)
		}
		sum += term
	}
	return sum
}

// CosFloat evaluates the cosine approximation in floating point.
func (a *Approximator) CosFloat(theta float64) float64 {
	x := theta * a.pi() / 180
	sum, term := 1.0, 1.0
	for k := 1; k < a.Order; k++ {
		n := float64(2 * k)
		term *= -x * x / ((n - 1) * n)
		sum += term
	}
	return sum
}

// --- Error bounds ----------------------------------------------------------

// piError is the error introduced by using π̃ instead of π.
func (a *Approximator) piError(theta float64) float64 {
	return math.Abs(theta) * math.Abs(math.Pi-a.pi()) / 180
}

func remainder(x float64, n int) float64 {
	r := 1.0
	for i := 1; i <= n; i++ {
		r *= math.Abs(x) / float64(i)
	}
	return r
}

// SinBound returns an upper bound of |Sin(θ) - sin θ| for θ in degrees.
func (a *Approximator) SinBound(theta float64) float64 {
	x := theta * a.pi() / 180
	return remainder(x, 2*a.Order+1) + a.piError(theta)
}

// CosBound returns an upper bound of |Cos(θ) - cos θ| for θ in degrees.
func (a *Approximator) CosBound(theta float64) float64 {
	x := theta * a.pi() / 180
	return remainder(x, 2*a.Order) + a.piError(theta)
}

// MaxSinBound is the largest SinBound on the interval [lo, hi].
func (a *Approximator) MaxSinBound(lo, hi float64) float64 {
	return a.SinBound(farthest(lo, hi))
}

// MaxCosBound is the largest CosBound on the interval [lo, hi].
func (a *Approximator) MaxCosBound(lo, hi float64) float64 {
	return a.CosBound(farthest(lo, hi))
}

// bounds grow with |θ|
func farthest(lo, hi float64) float64 {
	return math.Max(math.Abs(lo), math.Abs(hi))
}
