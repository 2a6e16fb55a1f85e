package trig

import (
	"math"
	"math/big"
	"testing"

	"github.com/npillmayer/bearsolve/smt"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var exactPi = decimal.NewFromFloat(math.Pi)

func TestSeriesTerms(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "bearsolve.trig")
	defer teardown()
	//
	a, err := New(2, decimal.RequireFromString("3.14159"))
	require.NoError(t, err)
	b := smt.NewVar("bearing")
	assert.Equal(t, "(+ (* bearing 314159/18000000) (* (- 1/6) (^ (* bearing 314159/18000000) 3)))",
		a.Sin(b).String())
	assert.Equal(t, "(+ 1 (* (- 1/2) (^ (* bearing 314159/18000000) 2)))", a.Cos(b).String())
	one, _ := New(1, decimal.Zero)
	assert.Equal(t, "1", one.Cos(b).String())
	assert.True(t, one.Pi.Equal(DefaultPi))
	_, err = New(0, decimal.Zero)
	assert.True(t, errors.Is(err, ErrInvalidOrder))
}

func TestTermsMirrorFloats(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "bearsolve.trig")
	defer teardown()
	//
	a := Default()
	b := smt.NewVar("bearing")
	sin, cos := a.Sin(b), a.Cos(b)
	for i, theta := range []int64{-180, -96, -8, 0, 8, 45, 90, 172} {
		env := smt.Assignment{"bearing": big.NewRat(theta, 1)}
		s, err := smt.EvalReal(sin, env)
		require.NoError(t, err)
		c, err := smt.EvalReal(cos, env)
		require.NoError(t, err)
		sf, _ := s.Float64()
		cf, _ := c.Float64()
		if math.Abs(sf-a.SinFloat(float64(theta))) > 1e-12 {
			t.Errorf("test %d: sin(%d): exact %g, float %g", i, theta, sf, a.SinFloat(float64(theta)))
		}
		if math.Abs(cf-a.CosFloat(float64(theta))) > 1e-12 {
			t.Errorf("test %d: cos(%d): exact %g, float %g", i, theta, cf, a.CosFloat(float64(theta)))
		}
	}
}

func TestErrorDecreasesWithOrder(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "bearsolve.trig")
	defer teardown()
	//
	// cos of order 1 is the constant 1 and better than order 2 near ±180
	for theta := -180.0; theta <= 180; theta += 4 {
		rad := theta * math.Pi / 180
		for p := 1; p < 9; p++ {
			lo, hi := &Approximator{Order: p, Pi: exactPi}, &Approximator{Order: p + 1, Pi: exactPi}
			if math.Abs(hi.SinFloat(theta)-math.Sin(rad)) > math.Abs(lo.SinFloat(theta)-math.Sin(rad))+1e-12 {
				t.Errorf("sin(%g): error grows from order %d to %d", theta, p, p+1)
			}
			if p > 1 && math.Abs(hi.CosFloat(theta)-math.Cos(rad)) > math.Abs(lo.CosFloat(theta)-math.Cos(rad))+1e-12 {
				t.Errorf("cos(%g): error grows from order %d to %d", theta, p, p+1)
			}
		}
	}
}

func TestBoundsHold(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "bearsolve.trig")
	defer teardown()
	//
	for p := 1; p <= 8; p++ {
		for _, pi := range []decimal.Decimal{DefaultPi, exactPi} {
			a := &Approximator{Order: p, Pi: pi}
			for theta := -180.0; theta <= 180; theta += 8 {
				rad := theta * math.Pi / 180
				if e := math.Abs(a.SinFloat(theta) - math.Sin(rad)); e > a.SinBound(theta)+1e-12 {
					t.Errorf("order %d, pi %s: sin(%g) error %g exceeds bound %g", p, pi, theta, e, a.SinBound(theta))
				}
				if e := math.Abs(a.CosFloat(theta) - math.Cos(rad)); e > a.CosBound(theta)+1e-12 {
					t.Errorf("order %d, pi %s: cos(%g) error %g exceeds bound %g", p, pi, theta, e, a.CosBound(theta))
				}
			}
			if a.MaxSinBound(-180, 90) != a.SinBound(180) {
				t.Errorf("order %d: max sin bound not taken at the far end", p)
			}
			if a.MaxCosBound(-8, 40) != a.CosBound(40) {
				t.Errorf("order %d: max cos bound not taken at the far end", p)
			}
		}
	}
	a := Default()
	assert.Less(t, a.MaxSinBound(-180, 180), 0.01)
	assert.Greater(t, a.SinBound(180), a.SinBound(90))
}
