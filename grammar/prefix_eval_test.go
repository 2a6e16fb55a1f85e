package grammar_test

import (
	"math/big"
	"testing"

	"github.com/npillmayer/bearsolve"
	"github.com/npillmayer/bearsolve/evaluator"
	"github.com/npillmayer/bearsolve/grammar"
	"github.com/npillmayer/bearsolve/smt"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

var samplePoints = []smt.Assignment{
	{bearsolve.RangeVar: big.NewRat(2, 1), bearsolve.BearingVar: big.NewRat(-8, 1)},
	{bearsolve.RangeVar: big.NewRat(2, 5), bearsolve.BearingVar: big.NewRat(0, 1)},
	{bearsolve.RangeVar: big.NewRat(4, 1), bearsolve.BearingVar: big.NewRat(8, 1)},
	{bearsolve.RangeVar: big.NewRat(1, 1), bearsolve.BearingVar: big.NewRat(-1, 1)},
}

func truthTable(t *testing.T, n grammar.Node) []bool {
	eq, err := evaluator.NewEvaluator(nil).Equation(n)
	if err != nil {
		t.Fatalf("cannot build constraint: %v", err)
	}
	truth := make([]bool, len(samplePoints))
	for i, a := range samplePoints {
		if truth[i], err = smt.EvalBool(eq, a); err != nil {
			t.Fatalf("cannot evaluate %s at %v: %v", eq, a, err)
		}
	}
	return truth
}

func sameTruth(a, b []bool) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return len(a) == len(b)
}

func TestPrefixRoundTripKeepsTruth(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "bearsolve.grammar")
	defer teardown()
	//
	for i, input := range []string{
		"Range <= 5",
		"Range ** 2 + bearing ** 2 <= 20",
		"-8 <= bearing <= 0 and 0 < Range",
		"not (Range > 2 or bearing == 0)",
		"Range * sin(bearing) >= 2 - Range / 3",
		"abs(bearing - 1) < Range ** -1",
		"-(Range - bearing) != -0.5",
		"(-5) ** 2 == 25",
		"-5 ** 2 == -25",
		"(-Range) ** 2 <= 4",
		"(-0.5) ** -2 * Range > bearing",
		"-bearing ** 2 < -Range",
	} {
		tree, err := grammar.Parse(input)
		if err != nil {
			t.Errorf("test %d: %q: %v", i, input, err)
			continue
		}
		back, err := grammar.ReadPrefix(grammar.Prefix(tree))
		if err != nil {
			t.Errorf("test %d: cannot read back %s: %v", i, grammar.Prefix(tree), err)
			continue
		}
		if want, have := truthTable(t, tree), truthTable(t, back); !sameTruth(want, have) {
			t.Errorf("test %d: %q evaluates to %v, its prefix form to %v", i, input, want, have)
		}
	}
}

// Prefix text of arithmetic comparisons is itself an infix expression. Read
// with the usual precedence rules it must keep its meaning.
func TestPrefixTextKeepsInfixMeaning(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "bearsolve.grammar")
	defer teardown()
	//
	for i, x := range []struct {
		input string
		truth bool
	}{
		{"(-5) ** 2 == 25", true},
		{"-5 ** 2 == -25", true},
		{"(-2) ** 3 == -8", true},
		{"(-3) ** 2 > 0", true},
		{"2 ** -1 == 0.5", true},
	} {
		tree, err := grammar.Parse(x.input)
		if err != nil {
			t.Errorf("test %d: %q: %v", i, x.input, err)
			continue
		}
		prefix := grammar.Prefix(tree)
		reparsed, err := grammar.Parse(prefix)
		if err != nil {
			t.Errorf("test %d: cannot parse prefix text %s as infix: %v", i, prefix, err)
			continue
		}
		for _, n := range []grammar.Node{tree, reparsed} {
			if truth := truthTable(t, n); truth[0] != x.truth {
				t.Errorf("test %d: expected %s to be %v", i, grammar.Prefix(n), x.truth)
			}
		}
	}
}
