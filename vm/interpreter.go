package vm

import (
	"math/big"
	"strings"

	"github.com/pkg/errors"
)

// ErrNoProgramToExecute flags an empty input program
var ErrNoProgramToExecute = errors.New("no program to execute")

// ErrUndefined flags an operation without a defined result, e.g. a division
// by zero.
var ErrUndefined = errors.New("undefined arithmetic result")

// ErrInexact flags an operation whose result is not a rational number, e.g.
// 2**(1/2), or which is too large to be computed exactly.
var ErrInexact = errors.New("result is not exactly representable")

// MaxExponent is the largest absolute integer exponent a program will compute.
const MaxExponent = 4096

// Program is a compiled sequence of ops. Variables are referenced by slot
// number; Slots holds the variable names in slot order.
type Program struct {
	ops   []Op
	Slots []string
}

// Emit appends an instruction without argument.
func (p *Program) Emit(code OpCode) *Program {
	p.ops = append(p.ops, Op{opcode: code})
	return p
}

// EmitConst appends an instruction pushing a rational constant. The
// constant is copied.
func (p *Program) EmitConst(r *big.Rat) *Program {
	p.ops = append(p.ops, Op{opcode: Const, arg: new(big.Rat).Set(r)})
	return p
}

// EmitLoad appends an instruction pushing the variable in slot.
func (p *Program) EmitLoad(slot int) *Program {
	p.ops = append(p.ops, Op{opcode: Load, arg: slot})
	return p
}

// Len returns the number of instructions of p.
func (p *Program) Len() int {
	return len(p.ops)
}

// IsCondition is a predicate: does p end with a comparison?
func (p *Program) IsCondition() bool {
	return len(p.ops) > 0 && p.ops[len(p.ops)-1].opcode.IsComparison()
}

func (p *Program) String() string {
	var b strings.Builder
	for i, op := range p.ops {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(op.String())
	}
	return b.String()
}

// Run executes p over the variable values in env and returns the value left
// on top of the stack. env is indexed by slot.
func (p *Program) Run(env []*big.Rat) (*big.Rat, error) {
	th := newThread(env)
	if err := th.execute(p); err != nil {
		return nil, err
	}
	if th.stack.Size() != 1 {
		return nil, errors.Errorf("program leaves %d values on the stack", th.stack.Size())
	}
	return th.stack.Pop(), nil
}

// Test executes a program ending in a comparison and returns the outcome.
func (p *Program) Test(env []*big.Rat) (bool, error) {
	if !p.IsCondition() {
		return false, errors.New("program is not a condition")
	}
	th := newThread(env)
	if err := th.execute(p); err != nil {
		return false, err
	}
	return th.regs.Flag, nil
}

// --- Threads ---------------------------------------------------------------

// thread is the fetch-decode-execute state of a single program run.
type thread struct {
	stack *RatStack
	regs  RegisterSet
	env   []*big.Rat
}

func newThread(env []*big.Rat) *thread {
	return &thread{stack: NewRatStack(), env: env}
}

func (th *thread) execute(p *Program) error {
	if p == nil || len(p.ops) == 0 {
		return ErrNoProgramToExecute
	}
	for pc, op := range p.ops {
		th.regs.DecodeArg(op)
		if err := th.step(op); err != nil {
			tracer().Debugf("program failed at %d (%s): %v", pc, op, err)
			return err
		}
	}
	return nil
}

func (th *thread) step(op Op) error {
	code := op.opcode
	switch code {
	case OpNop:
		return nil
	case Const:
		th.stack.Push(new(big.Rat).Set(th.regs.R))
		return nil
	case Load:
		if th.regs.I < 0 || th.regs.I >= len(th.env) || th.env[th.regs.I] == nil {
			return errors.Errorf("variable slot %d not bound", th.regs.I)
		}
		th.stack.Push(new(big.Rat).Set(th.env[th.regs.I]))
		return nil
	case Neg, Abs:
		if th.stack.Size() < 1 {
			return errors.Errorf("stack underflow at %s", code)
		}
		a := th.stack.Top()
		if code == Neg {
			a.Neg(a)
		} else {
			a.Abs(a)
		}
		return nil
	}
	if th.stack.Size() < 2 {
		return errors.Errorf("stack underflow at %s", code)
	}
	b := th.stack.Pop()
	a := th.stack.Pop()
	if code.IsComparison() {
		th.regs.Flag = compare(code, a.Cmp(b))
		return nil
	}
	r, err := arith(code, a, b)
	if err != nil {
		return err
	}
	th.stack.Push(r)
	return nil
}

func compare(code OpCode, c int) bool {
	switch code {
	case Lt:
		return c < 0
	case Le:
		return c <= 0
	case Gt:
		return c > 0
	case Ge:
		return c >= 0
	case Eq:
		return c == 0
	case Ne:
		return c != 0
	}
	return false
}

func arith(code OpCode, a, b *big.Rat) (*big.Rat, error) {
	switch code {
	case Add:
		return a.Add(a, b), nil
	case Sub:
		return a.Sub(a, b), nil
	case Mul:
		return a.Mul(a, b), nil
	case Div:
		if b.Sign() == 0 {
			return nil, ErrUndefined
		}
		return a.Quo(a, b), nil
	case Pow:
		return power(a, b)
	}
	return nil, errors.Errorf("illegal opcode %s", code)
}

// power computes a**b exactly. Integer exponents are always supported
// (up to MaxExponent); an exponent with denominator 2 is supported if a is
// the square of a rational.
func power(a, b *big.Rat) (*big.Rat, error) {
	if b.IsInt() {
		return intPower(a, b.Num())
	}
	if a.Sign() == 0 {
		if b.Sign() > 0 {
			return new(big.Rat), nil
		}
		return nil, ErrUndefined
	}
	if a.Cmp(big.NewRat(1, 1)) == 0 {
		return a, nil
	}
	if b.Denom().Cmp(big.NewInt(2)) != 0 || a.Sign() < 0 {
		return nil, ErrInexact
	}
	root, ok := ratSqrt(a)
	if !ok {
		return nil, ErrInexact
	}
	return intPower(root, b.Num())
}

func intPower(a *big.Rat, n *big.Int) (*big.Rat, error) {
	if !n.IsInt64() || n.Int64() > MaxExponent || n.Int64() < -MaxExponent {
		return nil, ErrInexact
	}
	e := n.Int64()
	if e < 0 {
		if a.Sign() == 0 {
			return nil, ErrUndefined
		}
		a = new(big.Rat).Inv(a)
		e = -e
	}
	num := new(big.Int).Exp(a.Num(), big.NewInt(e), nil)
	den := new(big.Int).Exp(a.Denom(), big.NewInt(e), nil)
	return new(big.Rat).SetFrac(num, den), nil
}

func ratSqrt(a *big.Rat) (*big.Rat, bool) {
	n, d := a.Num(), a.Denom()
	sn, sd := new(big.Int).Sqrt(n), new(big.Int).Sqrt(d)
	if new(big.Int).Mul(sn, sn).Cmp(n) != 0 || new(big.Int).Mul(sd, sd).Cmp(d) != 0 {
		return nil, false
	}
	return new(big.Rat).SetFrac(sn, sd), true
}
