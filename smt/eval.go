package smt

import (
	"math/big"

	"github.com/npillmayer/bearsolve/vm"
	"github.com/pkg/errors"
)

// Assignment maps variable names to values.
type Assignment map[string]*big.Rat

// Env creates the slot environment for a compiled program.
func (a Assignment) Env(slots []string) ([]*big.Rat, error) {
	env := make([]*big.Rat, len(slots))
	for i, name := range slots {
		v, ok := a[name]
		if !ok {
			return nil, errors.Errorf("variable %s is not assigned", name)
		}
		env[i] = v
	}
	return env, nil
}

var cmpCodes = map[CmpOp]vm.OpCode{
	Lt: vm.Lt, Le: vm.Le, Gt: vm.Gt, Ge: vm.Ge, Eq: vm.Eq, Ne: vm.Ne,
}

var arithCodes = map[ArithOp]vm.OpCode{
	OpAdd: vm.Add, OpSub: vm.Sub, OpMul: vm.Mul, OpDiv: vm.Div, OpPow: vm.Pow,
	OpNeg: vm.Neg, OpAbs: vm.Abs,
}

// Compile translates a real term into a program. Variables are assigned to
// slots in sorted order of their names.
func Compile(t Real) (*vm.Program, error) {
	p := &vm.Program{Slots: Vars(t)}
	if err := emit(p, t, slotIndex(p.Slots)); err != nil {
		return nil, err
	}
	return p, nil
}

// CompileAtom translates a comparison into a program ending in the
// comparison's test.
func CompileAtom(c *Cmp) (*vm.Program, error) {
	p := &vm.Program{Slots: Vars(c.L, c.R)}
	slots := slotIndex(p.Slots)
	if err := emit(p, c.L, slots); err != nil {
		return nil, err
	}
	if err := emit(p, c.R, slots); err != nil {
		return nil, err
	}
	code, ok := cmpCodes[c.Op]
	if !ok {
		return nil, errors.Errorf("unknown comparison operator %q", c.Op)
	}
	p.Emit(code)
	return p, nil
}

func slotIndex(names []string) map[string]int {
	m := make(map[string]int, len(names))
	for i, n := range names {
		m[n] = i
	}
	return m
}

func emit(p *vm.Program, t Real, slots map[string]int) error {
	switch x := t.(type) {
	case *Const:
		p.EmitConst(x.value)
	case *Var:
		p.EmitLoad(slots[x.Name])
	case *Binary:
		if err := emit(p, x.L, slots); err != nil {
			return err
		}
		if err := emit(p, x.R, slots); err != nil {
			return err
		}
		code, ok := arithCodes[x.Op]
		if !ok {
			return errors.Errorf("unknown arithmetic operator %q", x.Op)
		}
		p.Emit(code)
	case *Unary:
		if err := emit(p, x.X, slots); err != nil {
			return err
		}
		code, ok := arithCodes[x.Op]
		if !ok {
			return errors.Errorf("unknown arithmetic operator %q", x.Op)
		}
		p.Emit(code)
	default:
		return errors.Errorf("cannot compile term of type %T", t)
	}
	return nil
}

// EvalReal evaluates t exactly under a.
func EvalReal(t Real, a Assignment) (*big.Rat, error) {
	p, err := Compile(t)
	if err != nil {
		return nil, err
	}
	env, err := a.Env(p.Slots)
	if err != nil {
		return nil, err
	}
	return p.Run(env)
}

// EvalAtom evaluates a compiled atom under a. An atom whose value is
// undefined at a, e.g. because of a division by zero, is false. Inexact
// results are reported as errors wrapping vm.ErrInexact.
func EvalAtom(p *vm.Program, a Assignment) (bool, error) {
	env, err := a.Env(p.Slots)
	if err != nil {
		return false, err
	}
	truth, err := p.Test(env)
	if errors.Is(err, vm.ErrUndefined) {
		return false, nil
	}
	return truth, err
}

// EvalBool evaluates b exactly under a.
func EvalBool(b Bool, a Assignment) (bool, error) {
	switch x := b.(type) {
	case Literal:
		return bool(x), nil
	case *Cmp:
		p, err := CompileAtom(x)
		if err != nil {
			return false, err
		}
		return EvalAtom(p, a)
	case *Negation:
		v, err := EvalBool(x.X, a)
		return !v, err
	case *Connective:
		for _, arg := range x.Args {
			v, err := EvalBool(arg, a)
			if err != nil {
				return false, err
			}
			if x.Op == OpAnd && !v {
				return false, nil
			}
			if x.Op == OpOr && v {
				return true, nil
			}
		}
		return x.Op == OpAnd, nil
	}
	return false, errors.Errorf("cannot evaluate term of type %T", b)
}
