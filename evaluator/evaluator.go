package evaluator

import (
	"fmt"

	"github.com/npillmayer/bearsolve"
	"github.com/npillmayer/bearsolve/grammar"
	"github.com/npillmayer/bearsolve/smt"
	"github.com/npillmayer/bearsolve/trig"
	"github.com/pkg/errors"
)

// Evaluator translates expression trees into terms.
type Evaluator struct {
	approx    *trig.Approximator
	variables map[string]bool
}

// NewEvaluator creates an evaluator using approx for trigonometric
// functions. If no variables are given, the declared variables are
// accepted.
func NewEvaluator(approx *trig.Approximator, variables ...string) *Evaluator {
	if approx == nil {
		approx = trig.Default()
	}
	if len(variables) == 0 {
		variables = bearsolve.DeclaredVariables()
	}
	ev := &Evaluator{approx: approx, variables: make(map[string]bool, len(variables))}
	for _, v := range variables {
		ev.variables[v] = true
	}
	return ev
}

// Equation translates a boolean expression tree. The tree is normalized
// first.
func (ev *Evaluator) Equation(n grammar.Node) (smt.Bool, error) {
	b, err := ev.condition(grammar.Normalize(n))
	if err != nil {
		tracer().Infof("cannot translate %s: %v", grammar.Prefix(n), err)
		return nil, err
	}
	tracer().Debugf("equation %s", b)
	return b, nil
}

// Term translates an arithmetic expression tree.
func (ev *Evaluator) Term(n grammar.Node) (smt.Real, error) {
	return ev.term(grammar.Normalize(n))
}

func isCondition(n grammar.Node) bool {
	switch t := n.(type) {
	case grammar.BooleanConnective, grammar.Comparison:
		return true
	case grammar.UnaryOp:
		return t.Op == grammar.OpNot
	case grammar.Literal:
		return t.IsBool
	}
	return false
}

func (ev *Evaluator) condition(n grammar.Node) (smt.Bool, error) {
	if !isCondition(n) {
		return nil, bearsolve.Unsupported("ArithmeticCondition", grammar.Prefix(n))
	}
	switch t := n.(type) {
	case grammar.Literal:
		if t.Truth {
			return smt.True, nil
		}
		return smt.False, nil
	case grammar.UnaryOp:
		x, err := ev.condition(t.Operand)
		if err != nil {
			return nil, err
		}
		return smt.Not(x), nil
	case grammar.BooleanConnective:
		args := make([]smt.Bool, len(t.Operands))
		for i, o := range t.Operands {
			a, err := ev.condition(o)
			if err != nil {
				return nil, err
			}
			args[i] = a
		}
		if t.Op == grammar.OpAnd {
			return smt.And(args...), nil
		}
		return smt.Or(args...), nil
	case grammar.Comparison:
		return ev.comparison(t)
	}
	return nil, errors.Errorf("unexpected node %T", n)
}

// comparison expects a normalized comparison of two operands.
func (ev *Evaluator) comparison(c grammar.Comparison) (smt.Bool, error) {
	if len(c.Ops) != 1 || len(c.Rights) != 1 {
		return ev.condition(grammar.Normalize(c))
	}
	l, err := ev.term(c.Left)
	if err != nil {
		return nil, err
	}
	r, err := ev.term(c.Rights[0])
	if err != nil {
		return nil, err
	}
	return smt.Compare(smt.CmpOp(c.Ops[0]), l, r), nil
}

var arithOps = map[string]smt.ArithOp{
	grammar.OpAdd: smt.OpAdd,
	grammar.OpSub: smt.OpSub,
	grammar.OpMul: smt.OpMul,
	grammar.OpDiv: smt.OpDiv,
	grammar.OpPow: smt.OpPow,
}

func (ev *Evaluator) term(n grammar.Node) (smt.Real, error) {
	if isCondition(n) {
		return nil, bearsolve.Unsupported("BooleanOperand", grammar.Prefix(n))
	}
	switch t := n.(type) {
	case grammar.Literal:
		return smt.FromDecimal(t.Number), nil
	case grammar.Variable:
		if !ev.variables[t.Name] {
			return nil, bearsolve.Unsupported("Variable", t.Name)
		}
		return smt.NewVar(t.Name), nil
	case grammar.UnaryOp:
		x, err := ev.term(t.Operand)
		if err != nil {
			return nil, err
		}
		return smt.Neg(x), nil
	case grammar.BinaryArithmetic:
		l, err := ev.term(t.Left)
		if err != nil {
			return nil, err
		}
		r, err := ev.term(t.Right)
		if err != nil {
			return nil, err
		}
		op, ok := arithOps[t.Op]
		if !ok {
			return nil, bearsolve.Unsupported("Operator", t.Op)
		}
		return &smt.Binary{Op: op, L: l, R: r}, nil
	case grammar.Call:
		return ev.call(t)
	}
	return nil, errors.Errorf("unexpected node %T", n)
}

func (ev *Evaluator) call(c grammar.Call) (smt.Real, error) {
	if len(c.Args) != 1 {
		return nil, bearsolve.Unsupported("Call", fmt.Sprintf("%s with %d arguments", c.Name, len(c.Args)))
	}
	arg, err := ev.term(c.Args[0])
	if err != nil {
		return nil, err
	}
	switch c.Name {
	case "sin":
		return ev.approx.Sin(arg), nil
	case "cos":
		return ev.approx.Cos(arg), nil
	case "Abs", "abs":
		return smt.Abs(arg), nil
	}
	return nil, bearsolve.Unsupported("Call", c.Name)
}
