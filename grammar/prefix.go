package grammar

import (
	"fmt"
	"strings"

	"github.com/npillmayer/bearsolve"
	"github.com/pkg/errors"
	"github.com/timtadh/lexmachine"
)

// Prefix returns the prefix call-tree form of n, as consumed by a decision
// procedure's expression builder. n is normalized first.
//
//   (left OP right)        arithmetic and single comparisons
//   ((-5) ** x)            negative base of a power
//   And(a, b, …) Or(…)     connectives
//   Not(x) (-x)            unary operators
//   f(a, …)                calls
//
func Prefix(n Node) string {
	var b strings.Builder
	writePrefix(&b, Normalize(n))
	return b.String()
}

func writePrefix(b *strings.Builder, n Node) {
	switch t := n.(type) {
	case BinaryArithmetic:
		b.WriteByte('(')
		if lit, ok := t.Left.(Literal); ok && t.Op == OpPow && !lit.IsBool && lit.Number.IsNegative() {
			// -5 ** 2 reads as -(5 ** 2)
			b.WriteString("(" + lit.Number.String() + ")")
		} else {
			writePrefix(b, t.Left)
		}
		b.WriteString(" " + t.Op + " ")
		writePrefix(b, t.Right)
		b.WriteByte(')')
	case BooleanConnective:
		writeCall(b, t.Op, t.Operands)
	case UnaryOp:
		if t.Op == OpNot {
			writeCall(b, OpNot, []Node{t.Operand})
			return
		}
		b.WriteString("(-")
		writePrefix(b, t.Operand)
		b.WriteByte(')')
	case Comparison:
		// normalized trees contain single comparisons only
		b.WriteByte('(')
		writePrefix(b, t.Left)
		for i, op := range t.Ops {
			b.WriteString(" " + op + " ")
			writePrefix(b, t.Rights[i])
		}
		b.WriteByte(')')
	case Literal:
		if t.IsBool {
			if t.Truth {
				b.WriteString("True")
			} else {
				b.WriteString("False")
			}
			return
		}
		b.WriteString(t.Number.String())
	case Variable:
		b.WriteString(t.Name)
	case Call:
		writeCall(b, t.Name, t.Args)
	default:
		b.WriteString(fmt.Sprintf("<%T>", n))
	}
}

func writeCall(b *strings.Builder, name string, args []Node) {
	b.WriteString(name)
	b.WriteByte('(')
	for i, a := range args {
		if i > 0 {
			b.WriteString(", ")
		}
		writePrefix(b, a)
	}
	b.WriteByte(')')
}

// --- Reading prefix form ---------------------------------------------------

// ReadPrefix parses the prefix form produced by Prefix back into an
// expression tree. The result is a normalized tree.
func ReadPrefix(text string) (Node, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, bearsolve.NewInputFormatError("", bearsolve.ErrEmptyInput, "")
	}
	if strings.ContainsAny(text, "\r\n") {
		return nil, bearsolve.NewInputFormatError("", bearsolve.ErrMultiLineInput, "")
	}
	tokens, err := tokenize(text)
	if err != nil {
		return nil, err
	}
	r := &prefixReader{parser{input: text, tokens: tokens}}
	n, err := r.operand()
	if err != nil {
		return nil, err
	}
	if r.peek() != nil {
		return nil, r.unexpected()
	}
	return n, nil
}

type prefixReader struct {
	parser
}

// operand → group | NUMBER | '-' NUMBER | 'True' | 'False' | NAME [ '(' operands ')' ]
func (r *prefixReader) operand() (Node, error) {
	t := r.peek()
	if t == nil {
		return nil, r.syntaxError("unexpected end of prefix expression")
	}
	switch {
	case r.is("("):
		return r.group()
	case r.is("-") && r.peekAt(1) != nil && r.peekAt(1).Type == NumberTok:
		r.advance()
		return r.number(true)
	case t.Type == NumberTok:
		return r.number(false)
	case r.is("True") || r.is("False"):
		r.advance()
		return Bool(lexeme(t) == "True"), nil
	case t.Type == NameTok:
		r.advance()
		if !r.is("(") {
			return Variable{Name: lexeme(t)}, nil
		}
		args, err := r.operands()
		if err != nil {
			return nil, err
		}
		return r.call(lexeme(t), args)
	case t.Type == StringTok:
		return nil, r.unsupported("StringLiteral")
	}
	return nil, r.unexpected()
}

func (r *prefixReader) number(negative bool) (Node, error) {
	t := r.advance()
	d, err := parseNumber(lexeme(t))
	if err != nil {
		return nil, bearsolve.NewInputFormatError("", errors.Wrapf(bearsolve.ErrSyntax, "at %d", t.TC), err.Error())
	}
	if negative {
		d = d.Neg()
	}
	return Num(d), nil
}

func (r *prefixReader) call(name string, args []Node) (Node, error) {
	switch name {
	case OpAnd, OpOr:
		if len(args) == 0 {
			return nil, r.syntaxError(name + " needs at least one operand")
		}
		return BooleanConnective{Op: name, Operands: args}, nil
	case OpNot:
		if len(args) != 1 {
			return nil, r.syntaxError("Not takes exactly one operand")
		}
		return UnaryOp{Op: OpNot, Operand: args[0]}, nil
	}
	return Call{Name: name, Args: args}, nil
}

// operands → '(' [ operand { ',' operand } ] ')'
func (r *prefixReader) operands() ([]Node, error) {
	if err := r.expect("("); err != nil {
		return nil, err
	}
	args := []Node{}
	for !r.is(")") {
		if len(args) > 0 {
			if err := r.expect(","); err != nil {
				return nil, err
			}
		}
		a, err := r.operand()
		if err != nil {
			return nil, err
		}
		args = append(args, a)
	}
	r.advance()
	return args, nil
}

// group → '(' '-' NUMBER ')' | '(' '-' operand ')' | '(' operand OP operand ')'
func (r *prefixReader) group() (Node, error) {
	r.advance() // '('
	if r.is("-") && r.peekAt(1) != nil && r.peekAt(1).Type == NumberTok &&
		r.peekAt(2) != nil && lexeme(r.peekAt(2)) == ")" {
		r.advance()
		n, err := r.number(true)
		if err != nil {
			return nil, err
		}
		r.advance() // ')'
		return n, nil
	}
	if r.is("-") && (r.peekAt(1) == nil || r.peekAt(1).Type != NumberTok) {
		r.advance()
		x, err := r.operand()
		if err != nil {
			return nil, err
		}
		if err := r.expect(")"); err != nil {
			return nil, err
		}
		return UnaryOp{Op: OpNeg, Operand: x}, nil
	}
	left, err := r.operand()
	if err != nil {
		return nil, err
	}
	opTok := r.peek()
	if opTok == nil || opTok.Type != OperatorTok {
		return nil, r.syntaxError(fmt.Sprintf("expected operator, found %q", lexeme(opTok)))
	}
	r.advance()
	right, err := r.operand()
	if err != nil {
		return nil, err
	}
	if err := r.expect(")"); err != nil {
		return nil, err
	}
	return r.binary(opTok, left, right)
}

func (r *prefixReader) binary(opTok *lexmachine.Token, left, right Node) (Node, error) {
	op := lexeme(opTok)
	if IsArithmeticOp(op) {
		return BinaryArithmetic{Op: op, Left: left, Right: right}, nil
	}
	if IsComparisonOp(op) {
		return Comparison{Left: left, Ops: []string{op}, Rights: []Node{right}}, nil
	}
	return nil, &bearsolve.UnsupportedConstruct{Kind: "Operator", Text: op, Pos: opTok.TC}
}
