package grammar

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// NodeKind identifies the variant of an expression tree node.
type NodeKind int8

// Node kinds of the expression tree.
const (
	BinaryArithmeticKind NodeKind = iota
	BooleanConnectiveKind
	UnaryOpKind
	ComparisonKind
	LiteralKind
	VariableKind
	CallKind
)

func (k NodeKind) String() string {
	switch k {
	case BinaryArithmeticKind:
		return "BinaryArithmetic"
	case BooleanConnectiveKind:
		return "BooleanConnective"
	case UnaryOpKind:
		return "UnaryOp"
	case ComparisonKind:
		return "Comparison"
	case LiteralKind:
		return "Literal"
	case VariableKind:
		return "Variable"
	case CallKind:
		return "Call"
	}
	return fmt.Sprintf("NodeKind(%d)", int(k))
}

// Node is a node of an expression tree. The set of node types is closed.
type Node interface {
	Kind() NodeKind
	isNode()
}

// Operators of the expression tree.
const (
	OpAdd = "+"
	OpSub = "-"
	OpMul = "*"
	OpDiv = "/"
	OpPow = "**"

	OpAnd = "And"
	OpOr  = "Or"
	OpNot = "Not"
	OpNeg = "-"

	OpLt = "<"
	OpLe = "<="
	OpGt = ">"
	OpGe = ">="
	OpEq = "=="
	OpNe = "!="
)

// BinaryArithmetic is one of + - * / ** applied to two operands.
type BinaryArithmetic struct {
	Op          string
	Left, Right Node
}

// BooleanConnective is And or Or over an ordered sequence of operands.
type BooleanConnective struct {
	Op       string
	Operands []Node
}

// UnaryOp is Not or arithmetic negation.
type UnaryOp struct {
	Op      string
	Operand Node
}

// Comparison compares Left to Rights[0] with Ops[0], Rights[0] to Rights[1]
// with Ops[1], and so on. A chain holds if every single comparison holds.
type Comparison struct {
	Left   Node
	Ops    []string
	Rights []Node
}

// Literal is a numeric constant, or a boolean constant if IsBool is set.
type Literal struct {
	Number decimal.Decimal
	IsBool bool
	Truth  bool
}

// Variable is a reference to a declared variable.
type Variable struct {
	Name string
}

// Call is a function call.
type Call struct {
	Name string
	Args []Node
}

func (BinaryArithmetic) Kind() NodeKind  { return BinaryArithmeticKind }
func (BooleanConnective) Kind() NodeKind { return BooleanConnectiveKind }
func (UnaryOp) Kind() NodeKind           { return UnaryOpKind }
func (Comparison) Kind() NodeKind        { return ComparisonKind }
func (Literal) Kind() NodeKind           { return LiteralKind }
func (Variable) Kind() NodeKind          { return VariableKind }
func (Call) Kind() NodeKind              { return CallKind }

func (BinaryArithmetic) isNode()  {}
func (BooleanConnective) isNode() {}
func (UnaryOp) isNode()           {}
func (Comparison) isNode()        {}
func (Literal) isNode()           {}
func (Variable) isNode()          {}
func (Call) isNode()              {}

// Num creates a numeric literal node.
func Num(d decimal.Decimal) Literal {
	return Literal{Number: d}
}

// Bool creates a boolean literal node.
func Bool(b bool) Literal {
	return Literal{IsBool: true, Truth: b}
}

// IsArithmeticOp is a predicate: is op one of + - * / ** ?
func IsArithmeticOp(op string) bool {
	switch op {
	case OpAdd, OpSub, OpMul, OpDiv, OpPow:
		return true
	}
	return false
}

// IsComparisonOp is a predicate: is op a comparison operator?
func IsComparisonOp(op string) bool {
	switch op {
	case OpLt, OpLe, OpGt, OpGe, OpEq, OpNe:
		return true
	}
	return false
}

// --- Walking and rewriting -------------------------------------------------

// Walk visits n and its children in pre-order. If visit returns false, the
// children of a node are skipped.
func Walk(n Node, visit func(Node) bool) {
	if n == nil || !visit(n) {
		return
	}
	switch t := n.(type) {
	case BinaryArithmetic:
		Walk(t.Left, visit)
		Walk(t.Right, visit)
	case BooleanConnective:
		for _, o := range t.Operands {
			Walk(o, visit)
		}
	case UnaryOp:
		Walk(t.Operand, visit)
	case Comparison:
		Walk(t.Left, visit)
		for _, r := range t.Rights {
			Walk(r, visit)
		}
	case Call:
		for _, a := range t.Args {
			Walk(a, visit)
		}
	}
}

// Variables returns the names of all variables referenced in n, in order of
// first appearance.
func Variables(n Node) []string {
	seen := map[string]bool{}
	var names []string
	Walk(n, func(n Node) bool {
		if v, ok := n.(Variable); ok && !seen[v.Name] {
			seen[v.Name] = true
			names = append(names, v.Name)
		}
		return true
	})
	return names
}

// Normalize rewrites a tree into the shape produced by reading its prefix
// form:
//
//   - chained comparisons are split into a conjunction of pairs,
//   - nested And/Or with the same operator are flattened,
//   - negation of a numeric literal is folded into the literal,
//   - calls of 'abs' are renamed to 'Abs'.
//
func Normalize(n Node) Node {
	switch t := n.(type) {
	case BinaryArithmetic:
		return BinaryArithmetic{Op: t.Op, Left: Normalize(t.Left), Right: Normalize(t.Right)}
	case BooleanConnective:
		operands := make([]Node, 0, len(t.Operands))
		for _, o := range t.Operands {
			operands = append(operands, Normalize(o))
		}
		return flatten(t.Op, operands)
	case UnaryOp:
		operand := Normalize(t.Operand)
		if lit, ok := operand.(Literal); ok && t.Op == OpNeg && !lit.IsBool {
			return Num(lit.Number.Neg())
		}
		return UnaryOp{Op: t.Op, Operand: operand}
	case Comparison:
		left := Normalize(t.Left)
		if len(t.Ops) == 1 {
			return Comparison{Left: left, Ops: t.Ops, Rights: []Node{Normalize(t.Rights[0])}}
		}
		pairs := make([]Node, len(t.Ops))
		for i, op := range t.Ops {
			right := Normalize(t.Rights[i])
			pairs[i] = Comparison{Left: left, Ops: []string{op}, Rights: []Node{right}}
			left = right
		}
		return BooleanConnective{Op: OpAnd, Operands: pairs}
	case Call:
		args := make([]Node, len(t.Args))
		for i, a := range t.Args {
			args[i] = Normalize(a)
		}
		return Call{Name: canonicalFunction(t.Name), Args: args}
	}
	return n
}

// flatten merges operands which are connectives with the same operator into
// their parent.
func flatten(op string, operands []Node) Node {
	flat := make([]Node, 0, len(operands))
	for _, o := range operands {
		if c, ok := o.(BooleanConnective); ok && c.Op == op {
			flat = append(flat, c.Operands...)
			continue
		}
		flat = append(flat, o)
	}
	return BooleanConnective{Op: op, Operands: flat}
}

func canonicalFunction(name string) string {
	if name == "abs" {
		return "Abs"
	}
	return name
}
