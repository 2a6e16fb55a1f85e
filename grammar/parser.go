package grammar

import (
	"fmt"
	"strings"

	"github.com/npillmayer/bearsolve"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/timtadh/lexmachine"
)

// Parse parses a single-line infix expression into an expression tree.
// No substitutions are applied; see Translator for the full pipeline.
//
// Multi-line input and malformed expressions are reported as
// *bearsolve.InputFormatError, constructs outside of the grammar as
// *bearsolve.UnsupportedConstruct.
func Parse(expr string) (Node, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, bearsolve.NewInputFormatError("", bearsolve.ErrEmptyInput, "")
	}
	if strings.ContainsAny(expr, "\r\n") {
		return nil, bearsolve.NewInputFormatError("", bearsolve.ErrMultiLineInput, "")
	}
	tokens, err := tokenize(expr)
	if err != nil {
		return nil, err
	}
	p := &parser{input: expr, tokens: tokens}
	n, err := p.expression()
	if err != nil {
		return nil, err
	}
	if p.is(",") {
		return nil, p.unsupported("TupleLiteral")
	} else if p.peek() != nil {
		return nil, p.unexpected()
	}
	tracer().Debugf("parsed %q", expr)
	return n, nil
}

type parser struct {
	input  string
	tokens []*lexmachine.Token
	pos    int
}

func (p *parser) peek() *lexmachine.Token {
	if p.pos < len(p.tokens) {
		return p.tokens[p.pos]
	}
	return nil
}

func (p *parser) peekAt(offset int) *lexmachine.Token {
	if p.pos+offset < len(p.tokens) {
		return p.tokens[p.pos+offset]
	}
	return nil
}

// is checks if the next token has the given lexeme and is not a string.
func (p *parser) is(lx string) bool {
	t := p.peek()
	return t != nil && t.Type != StringTok && lexeme(t) == lx
}

func (p *parser) advance() *lexmachine.Token {
	t := p.peek()
	p.pos++
	return t
}

func (p *parser) expect(lx string) error {
	if !p.is(lx) {
		return p.syntaxError(fmt.Sprintf("expected %q, found %q", lx, lexeme(p.peek())))
	}
	p.advance()
	return nil
}

func (p *parser) offset() int {
	if t := p.peek(); t != nil {
		return t.TC
	}
	return len(p.input)
}

func (p *parser) syntaxError(msg string) error {
	return bearsolve.NewInputFormatError("", errors.Wrapf(bearsolve.ErrSyntax, "at %d", p.offset()), msg)
}

func (p *parser) unexpected() error {
	return p.syntaxError(fmt.Sprintf("unexpected %q", lexeme(p.peek())))
}

func (p *parser) unsupported(kind string) error {
	t := p.peek()
	return &bearsolve.UnsupportedConstruct{Kind: kind, Text: lexeme(t), Pos: p.offset()}
}

// --- Grammar rules ---------------------------------------------------------

// expression → disjunction
func (p *parser) expression() (Node, error) {
	if p.is("lambda") {
		return nil, p.unsupported("Lambda")
	}
	n, err := p.disjunction()
	if err != nil {
		return nil, err
	}
	switch {
	case p.is("if"):
		return nil, p.unsupported("Conditional")
	case p.is("for"):
		return nil, p.unsupported("Comprehension")
	case p.is("=") || p.is(":="):
		return nil, p.unsupported("Assignment")
	}
	return n, nil
}

// disjunction → conjunction { 'or' conjunction }
func (p *parser) disjunction() (Node, error) {
	return p.connective("or", OpOr, p.conjunction)
}

// conjunction → inversion { 'and' inversion }
func (p *parser) conjunction() (Node, error) {
	return p.connective("and", OpAnd, p.inversion)
}

func (p *parser) connective(keyword, op string, operand func() (Node, error)) (Node, error) {
	first, err := operand()
	if err != nil {
		return nil, err
	}
	if !p.is(keyword) {
		return first, nil
	}
	operands := []Node{first}
	for p.is(keyword) {
		p.advance()
		next, err := operand()
		if err != nil {
			return nil, err
		}
		operands = append(operands, next)
	}
	return BooleanConnective{Op: op, Operands: operands}, nil
}

// inversion → 'not' inversion | comparison
func (p *parser) inversion() (Node, error) {
	if p.is("not") {
		p.advance()
		operand, err := p.inversion()
		if err != nil {
			return nil, err
		}
		return UnaryOp{Op: OpNot, Operand: operand}, nil
	}
	return p.comparison()
}

var comparisonOps = map[string]string{
	"<": OpLt, "<=": OpLe, ">": OpGt, ">=": OpGe, "==": OpEq, "!=": OpNe,
}

// comparison → bitwise { compop bitwise }
func (p *parser) comparison() (Node, error) {
	left, err := p.bitwise()
	if err != nil {
		return nil, err
	}
	var ops []string
	var rights []Node
	for {
		if p.is("in") || (p.is("not") && p.peekAt(1) != nil && lexeme(p.peekAt(1)) == "in") {
			return nil, p.unsupported("Membership")
		}
		if p.is("is") {
			return nil, p.unsupported("Identity")
		}
		if p.is("<>") {
			return nil, p.syntaxError("operator '<>' is not supported, use '!='")
		}
		t := p.peek()
		if t == nil || t.Type != OperatorTok {
			break
		}
		op, ok := comparisonOps[lexeme(t)]
		if !ok {
			break
		}
		p.advance()
		right, err := p.bitwise()
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
		rights = append(rights, right)
	}
	if len(ops) == 0 {
		return left, nil
	}
	return Comparison{Left: left, Ops: ops, Rights: rights}, nil
}

// bitwise → arith, where bitwise and shift operators are recognized and rejected
func (p *parser) bitwise() (Node, error) {
	n, err := p.arith()
	if err != nil {
		return nil, err
	}
	switch {
	case p.is("|"):
		return nil, p.unsupported("BitOr")
	case p.is("^"):
		return nil, p.unsupported("BitXor")
	case p.is("&"):
		return nil, p.unsupported("BitAnd")
	case p.is("<<") || p.is(">>"):
		return nil, p.unsupported("Shift")
	}
	return n, nil
}

// arith → term { ('+'|'-') term }
func (p *parser) arith() (Node, error) {
	left, err := p.term()
	if err != nil {
		return nil, err
	}
	for p.is("+") || p.is("-") {
		op := lexeme(p.advance())
		right, err := p.term()
		if err != nil {
			return nil, err
		}
		left = BinaryArithmetic{Op: op, Left: left, Right: right}
	}
	return left, nil
}

// term → factor { ('*'|'/') factor }
func (p *parser) term() (Node, error) {
	left, err := p.factor()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.is("//"):
			return nil, p.unsupported("FloorDivision")
		case p.is("%"):
			return nil, p.unsupported("Modulo")
		case p.is("@"):
			return nil, p.unsupported("MatMult")
		case p.is("*") || p.is("/"):
			op := lexeme(p.advance())
			right, err := p.factor()
			if err != nil {
				return nil, err
			}
			left = BinaryArithmetic{Op: op, Left: left, Right: right}
			continue
		}
		return left, nil
	}
}

// factor → ('+'|'-'|'~') factor | power
func (p *parser) factor() (Node, error) {
	switch {
	case p.is("+"):
		p.advance()
		return p.factor()
	case p.is("-"):
		p.advance()
		operand, err := p.factor()
		if err != nil {
			return nil, err
		}
		if lit, ok := operand.(Literal); ok && !lit.IsBool {
			return Num(lit.Number.Neg()), nil
		}
		return UnaryOp{Op: OpNeg, Operand: operand}, nil
	case p.is("~"):
		p.advance()
		operand, err := p.factor()
		if err != nil {
			return nil, err
		}
		return UnaryOp{Op: OpNot, Operand: operand}, nil
	}
	return p.power()
}

// power → primary [ '**' factor ]
func (p *parser) power() (Node, error) {
	base, err := p.primary()
	if err != nil {
		return nil, err
	}
	if p.is("**") {
		p.advance()
		exp, err := p.factor()
		if err != nil {
			return nil, err
		}
		return BinaryArithmetic{Op: OpPow, Left: base, Right: exp}, nil
	}
	return base, nil
}

// primary → atom { trailer }
func (p *parser) primary() (Node, error) {
	n, err := p.atom()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.is("("):
			v, ok := n.(Variable)
			if !ok {
				return nil, p.unsupported("IndirectCall")
			}
			args, err := p.arguments()
			if err != nil {
				return nil, err
			}
			n = Call{Name: v.Name, Args: args}
		case p.is("["):
			return nil, p.unsupported("Subscript")
		case p.is("."):
			return nil, p.unsupported("Attribute")
		default:
			return n, nil
		}
	}
}

// arguments → '(' [ expression { ',' expression } ] ')'
func (p *parser) arguments() ([]Node, error) {
	if err := p.expect("("); err != nil {
		return nil, err
	}
	args := []Node{}
	for !p.is(")") {
		if len(args) > 0 {
			if err := p.expect(","); err != nil {
				return nil, err
			}
			if p.is(")") { // trailing comma
				break
			}
		}
		if p.is("*") || p.is("**") {
			return nil, p.unsupported("Starred")
		}
		if t := p.peek(); t != nil && t.Type == NameTok && p.peekAt(1) != nil && lexeme(p.peekAt(1)) == "=" {
			return nil, p.unsupported("KeywordArgument")
		}
		arg, err := p.expression()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	p.advance() // ')'
	return args, nil
}

// atom → NAME | NUMBER | 'True' | 'False' | '(' expression ')'
func (p *parser) atom() (Node, error) {
	t := p.peek()
	if t == nil {
		return nil, p.syntaxError("unexpected end of expression")
	}
	switch t.Type {
	case NumberTok:
		p.advance()
		d, err := parseNumber(lexeme(t))
		if err != nil {
			return nil, bearsolve.NewInputFormatError("", errors.Wrapf(bearsolve.ErrSyntax, "at %d", t.TC), err.Error())
		}
		return Num(d), nil
	case NameTok:
		p.advance()
		return Variable{Name: lexeme(t)}, nil
	case StringTok:
		return nil, p.unsupported("StringLiteral")
	case KeywordTok:
		switch lexeme(t) {
		case "True", "False":
			p.advance()
			return Bool(lexeme(t) == "True"), nil
		case "None":
			return nil, p.unsupported("NoneLiteral")
		case "lambda":
			return nil, p.unsupported("Lambda")
		}
	case DelimiterTok:
		switch lexeme(t) {
		case "(":
			return p.parenthesized()
		case "[":
			return nil, p.unsupported("ListLiteral")
		case "{":
			return nil, p.unsupported("DictLiteral")
		}
	}
	return nil, p.unexpected()
}

func (p *parser) parenthesized() (Node, error) {
	p.advance() // '('
	if p.is(")") {
		return nil, p.unsupported("TupleLiteral")
	}
	n, err := p.expression()
	if err != nil {
		return nil, err
	}
	if p.is(",") {
		return nil, p.unsupported("TupleLiteral")
	}
	if err := p.expect(")"); err != nil {
		return nil, err
	}
	return n, nil
}

// parseNumber converts a numeric lexeme into an exact decimal.
func parseNumber(s string) (decimal.Decimal, error) {
	s = strings.ToLower(s)
	if strings.HasPrefix(s, ".") {
		s = "0" + s
	}
	s = strings.Replace(s, ".e", ".0e", 1)
	s = strings.TrimSuffix(s, ".")
	return decimal.NewFromString(s)
}
