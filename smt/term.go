package smt

import (
	"fmt"
	"math/big"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Real is a term of sort real.
type Real interface {
	fmt.Stringer
	isReal()
}

// Bool is a term of sort bool.
type Bool interface {
	fmt.Stringer
	isBool()
}

// --- Real terms ------------------------------------------------------------

// Const is an exact rational constant.
type Const struct {
	value *big.Rat
	text  string // decimal text, if constructed from a decimal
}

// NewConst creates a constant from a rational. r is copied.
func NewConst(r *big.Rat) *Const {
	return &Const{value: new(big.Rat).Set(r)}
}

// Int creates an integer constant.
func Int(n int64) *Const {
	return &Const{value: new(big.Rat).SetInt64(n), text: fmt.Sprintf("%d", n)}
}

// FromDecimal creates a constant from an exact decimal value.
func FromDecimal(d decimal.Decimal) *Const {
	return &Const{value: d.Rat(), text: d.String()}
}

// ParseConst creates a constant from a decimal or fraction literal, e.g.
// "0.4" or "2/5".
func ParseConst(s string) (*Const, error) {
	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return nil, fmt.Errorf("not a numeric constant: %q", s)
	}
	c := &Const{value: r}
	if !strings.Contains(s, "/") {
		if d, err := decimal.NewFromString(s); err == nil {
			c.text = d.String()
		}
	}
	return c, nil
}

// Rat returns a copy of the value of c.
func (c *Const) Rat() *big.Rat {
	return new(big.Rat).Set(c.value)
}

// Sign returns -1, 0 or +1.
func (c *Const) Sign() int {
	return c.value.Sign()
}

// Equal compares two constants by value.
func (c *Const) Equal(other *Const) bool {
	return other != nil && c.value.Cmp(other.value) == 0
}

// Decimal converts c to a decimal. Constants which are not finite decimal
// fractions are rounded to DecimalPlaces.
func (c *Const) Decimal() decimal.Decimal {
	if c.text != "" {
		return decimal.RequireFromString(c.text)
	}
	if c.value.IsInt() {
		return decimal.NewFromBigInt(c.value.Num(), 0)
	}
	num := decimal.NewFromBigInt(c.value.Num(), 0)
	den := decimal.NewFromBigInt(c.value.Denom(), 0)
	return num.DivRound(den, DecimalPlaces)
}

// DecimalPlaces is the precision used to convert non-decimal rationals.
const DecimalPlaces = 16

func (c *Const) String() string {
	s := c.text
	if s == "" {
		if c.value.IsInt() {
			s = c.value.Num().String()
		} else {
			s = c.value.RatString()
		}
	}
	if strings.HasPrefix(s, "-") {
		return "(- " + s[1:] + ")"
	}
	return s
}

func (c *Const) isReal() {}

// Var is a real variable, identified by its name.
type Var struct {
	Name string
}

// NewVar creates a variable term.
func NewVar(name string) *Var {
	return &Var{Name: name}
}

func (v *Var) String() string { return v.Name }
func (v *Var) isReal()        {}

// ArithOp is an arithmetic operator.
type ArithOp string

// Arithmetic operators
const (
	OpAdd ArithOp = "+"
	OpSub ArithOp = "-"
	OpMul ArithOp = "*"
	OpDiv ArithOp = "/"
	OpPow ArithOp = "^"
	OpNeg ArithOp = "neg"
	OpAbs ArithOp = "abs"
)

// Binary is a binary arithmetic term.
type Binary struct {
	Op   ArithOp
	L, R Real
}

func (b *Binary) String() string {
	return fmt.Sprintf("(%s %s %s)", b.Op, b.L, b.R)
}

func (b *Binary) isReal() {}

// Unary is a negation or an absolute value.
type Unary struct {
	Op ArithOp
	X  Real
}

func (u *Unary) String() string {
	if u.Op == OpNeg {
		return fmt.Sprintf("(- %s)", u.X)
	}
	return fmt.Sprintf("(%s %s)", u.Op, u.X)
}

func (u *Unary) isReal() {}

// Add creates l + r.
func Add(l, r Real) Real { return &Binary{Op: OpAdd, L: l, R: r} }

// Sub creates l - r.
func Sub(l, r Real) Real { return &Binary{Op: OpSub, L: l, R: r} }

// Mul creates l * r.
func Mul(l, r Real) Real { return &Binary{Op: OpMul, L: l, R: r} }

// Div creates l / r.
func Div(l, r Real) Real { return &Binary{Op: OpDiv, L: l, R: r} }

// Pow creates l ^ r.
func Pow(l, r Real) Real { return &Binary{Op: OpPow, L: l, R: r} }

// Neg creates -x. Negating a constant yields a constant.
func Neg(x Real) Real {
	if c, ok := x.(*Const); ok {
		n := &Const{value: new(big.Rat).Neg(c.value)}
		if c.text != "" {
			n.text = decimal.RequireFromString(c.text).Neg().String()
		}
		return n
	}
	return &Unary{Op: OpNeg, X: x}
}

// Abs creates |x|.
func Abs(x Real) Real { return &Unary{Op: OpAbs, X: x} }

// Sum adds up a list of terms. The sum of no terms is 0.
func Sum(terms ...Real) Real {
	if len(terms) == 0 {
		return Int(0)
	}
	s := terms[0]
	for _, t := range terms[1:] {
		s = Add(s, t)
	}
	return s
}

// --- Bool terms ------------------------------------------------------------

// Literal is a boolean constant.
type Literal bool

// The boolean constants
const (
	True  Literal = true
	False Literal = false
)

func (l Literal) String() string {
	if l {
		return "true"
	}
	return "false"
}

func (l Literal) isBool() {}

// CmpOp is a comparison operator.
type CmpOp string

// Comparison operators
const (
	Lt CmpOp = "<"
	Le CmpOp = "<="
	Gt CmpOp = ">"
	Ge CmpOp = ">="
	Eq CmpOp = "=="
	Ne CmpOp = "!="
)

// Negate returns the complementary comparison operator.
func (op CmpOp) Negate() CmpOp {
	switch op {
	case Lt:
		return Ge
	case Le:
		return Gt
	case Gt:
		return Le
	case Ge:
		return Lt
	case Eq:
		return Ne
	}
	return Eq
}

// Cmp is a comparison of two real terms, i.e. an atom.
type Cmp struct {
	Op   CmpOp
	L, R Real
}

// Compare creates the atom (l op r).
func Compare(op CmpOp, l, r Real) Bool {
	return &Cmp{Op: op, L: l, R: r}
}

// LessEq creates l <= r.
func LessEq(l, r Real) Bool { return Compare(Le, l, r) }

// GreaterEq creates l >= r.
func GreaterEq(l, r Real) Bool { return Compare(Ge, l, r) }

// Equals creates l == r.
func Equals(l, r Real) Bool { return Compare(Eq, l, r) }

// NotEquals creates l != r.
func NotEquals(l, r Real) Bool { return Compare(Ne, l, r) }

func (c *Cmp) String() string {
	switch c.Op {
	case Eq:
		return fmt.Sprintf("(= %s %s)", c.L, c.R)
	case Ne:
		return fmt.Sprintf("(not (= %s %s))", c.L, c.R)
	}
	return fmt.Sprintf("(%s %s %s)", c.Op, c.L, c.R)
}

func (c *Cmp) isBool() {}

// ConnOp is a boolean connective.
type ConnOp string

// Connectives
const (
	OpAnd ConnOp = "and"
	OpOr  ConnOp = "or"
)

// Connective is a conjunction or disjunction of boolean terms.
type Connective struct {
	Op   ConnOp
	Args []Bool
}

// And creates a conjunction. The empty conjunction is True, and a
// conjunction of one term is the term itself.
func And(args ...Bool) Bool {
	return connect(OpAnd, True, args)
}

// Or creates a disjunction. The empty disjunction is False.
func Or(args ...Bool) Bool {
	return connect(OpOr, False, args)
}

func connect(op ConnOp, unit Literal, args []Bool) Bool {
	switch len(args) {
	case 0:
		return unit
	case 1:
		return args[0]
	}
	a := make([]Bool, len(args))
	copy(a, args)
	return &Connective{Op: op, Args: a}
}

func (c *Connective) String() string {
	var b strings.Builder
	b.WriteString("(")
	b.WriteString(string(c.Op))
	for _, a := range c.Args {
		b.WriteString(" ")
		b.WriteString(a.String())
	}
	b.WriteString(")")
	return b.String()
}

func (c *Connective) isBool() {}

// Negation is the boolean complement of a term.
type Negation struct {
	X Bool
}

// Not creates the complement of x. Literals are complemented directly.
func Not(x Bool) Bool {
	if l, ok := x.(Literal); ok {
		return !l
	}
	return &Negation{X: x}
}

func (n *Negation) String() string {
	return fmt.Sprintf("(not %s)", n.X)
}

func (n *Negation) isBool() {}

// --- Traversal -------------------------------------------------------------

// WalkReal calls f for every sub-term of t in pre-order.
func WalkReal(t Real, f func(Real)) {
	f(t)
	switch x := t.(type) {
	case *Binary:
		WalkReal(x.L, f)
		WalkReal(x.R, f)
	case *Unary:
		WalkReal(x.X, f)
	}
}

// Atoms returns the comparisons of a boolean term in order of appearance.
func Atoms(b Bool) []*Cmp {
	var atoms []*Cmp
	var walk func(Bool)
	walk = func(b Bool) {
		switch x := b.(type) {
		case *Cmp:
			atoms = append(atoms, x)
		case *Connective:
			for _, a := range x.Args {
				walk(a)
			}
		case *Negation:
			walk(x.X)
		}
	}
	walk(b)
	return atoms
}

// Vars collects the names of the variables occurring in the terms. Terms
// must be of type Real or Bool. The result is sorted.
func Vars(terms ...interface{}) []string {
	set := make(map[string]struct{})
	collect := func(t Real) {
		WalkReal(t, func(r Real) {
			if v, ok := r.(*Var); ok {
				set[v.Name] = struct{}{}
			}
		})
	}
	for _, t := range terms {
		switch x := t.(type) {
		case Real:
			collect(x)
		case Bool:
			for _, a := range Atoms(x) {
				collect(a.L)
				collect(a.R)
			}
		}
	}
	names := make([]string, 0, len(set))
	for n := range set {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
