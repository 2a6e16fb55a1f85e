package grammar

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/npillmayer/bearsolve"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

func num(s string) Literal {
	return Num(decimal.RequireFromString(s))
}

func TestParsePrecedence(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "bearsolve.grammar")
	defer teardown()
	//
	R, b := Variable{Name: "Range"}, Variable{Name: "bearing"}
	for i, x := range []struct {
		input string
		tree  Node
	}{
		{"Range", R},
		{"5", num("5")},
		{"-8", num("-8")},
		{"Range + 1 * 2", BinaryArithmetic{Op: "+", Left: R, Right: BinaryArithmetic{Op: "*", Left: num("1"), Right: num("2")}}},
		{"Range - 1 - 2", BinaryArithmetic{Op: "-", Left: BinaryArithmetic{Op: "-", Left: R, Right: num("1")}, Right: num("2")}},
		{"Range ** 2 ** 3", BinaryArithmetic{Op: "**", Left: R, Right: BinaryArithmetic{Op: "**", Left: num("2"), Right: num("3")}}},
		{"-Range ** 2", UnaryOp{Op: OpNeg, Operand: BinaryArithmetic{Op: "**", Left: R, Right: num("2")}}},
		{"Range ** -1", BinaryArithmetic{Op: "**", Left: R, Right: num("-1")}},
		{"Range <= 5", Comparison{Left: R, Ops: []string{"<="}, Rights: []Node{num("5")}}},
		{"0 <= Range < 4", Comparison{Left: num("0"), Ops: []string{"<=", "<"}, Rights: []Node{R, num("4")}}},
		{"Range < 1 or bearing > 2 and True", BooleanConnective{Op: OpOr, Operands: []Node{
			Comparison{Left: R, Ops: []string{"<"}, Rights: []Node{num("1")}},
			BooleanConnective{Op: OpAnd, Operands: []Node{
				Comparison{Left: b, Ops: []string{">"}, Rights: []Node{num("2")}},
				Bool(true),
			}},
		}}},
		{"not Range == 1", UnaryOp{Op: OpNot, Operand: Comparison{Left: R, Ops: []string{"=="}, Rights: []Node{num("1")}}}},
		{"~(Range == 1)", UnaryOp{Op: OpNot, Operand: Comparison{Left: R, Ops: []string{"=="}, Rights: []Node{num("1")}}}},
		{"abs(bearing) / 2", BinaryArithmetic{Op: "/", Left: Call{Name: "abs", Args: []Node{b}}, Right: num("2")}},
		{"+Range", R},
	} {
		tree, err := Parse(x.input)
		if err != nil {
			t.Errorf("test %d: %q: unexpected error %v", i, x.input, err)
			continue
		}
		if diff := cmp.Diff(x.tree, tree); diff != "" {
			t.Errorf("test %d: %q: tree mismatch (-want +got):\n%s", i, x.input, diff)
		}
	}
}

func TestParseUnsupported(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "bearsolve.grammar")
	defer teardown()
	//
	for i, x := range []struct {
		input string
		kind  string
	}{
		{`Range == "five"`, "StringLiteral"},
		{`'abc'`, "StringLiteral"},
		{"(Range, bearing)", "TupleLiteral"},
		{"Range, bearing", "TupleLiteral"},
		{"[Range]", "ListLiteral"},
		{"{Range}", "DictLiteral"},
		{"lambda x: x", "Lambda"},
		{"Range[0]", "Subscript"},
		{"Range.real", "Attribute"},
		{"Range if True else bearing", "Conditional"},
		{"Range // 2", "FloorDivision"},
		{"Range % 2", "Modulo"},
		{"Range | bearing", "BitOr"},
		{"Range in bearing", "Membership"},
		{"Range is None", "Identity"},
		{"None", "NoneLiteral"},
		{"abs(*Range)", "Starred"},
		{"abs(x=Range)", "KeywordArgument"},
		{"Range = 5", "Assignment"},
	} {
		_, err := Parse(x.input)
		var uc *bearsolve.UnsupportedConstruct
		if !errors.As(err, &uc) {
			t.Errorf("test %d: %q: expected unsupported construct, got %v", i, x.input, err)
			continue
		}
		if uc.Kind != x.kind {
			t.Errorf("test %d: %q: expected kind %s, have %s", i, x.input, x.kind, uc.Kind)
		}
	}
}

func TestParseStringLiteralNamesKind(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "bearsolve.grammar")
	defer teardown()
	//
	_, err := Parse(`Range <= "5"`)
	if err == nil {
		t.Fatal("expected string literal to be rejected")
	}
	if err.Error() != `unsupported construct StringLiteral at 9: "5"` {
		t.Errorf("unexpected error message: %s", err.Error())
	}
}

func TestParseInputFormat(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "bearsolve.grammar")
	defer teardown()
	//
	for i, x := range []struct {
		input    string
		sentinel error
	}{
		{"Range <= 5\nbearing > 0", bearsolve.ErrMultiLineInput},
		{"   ", bearsolve.ErrEmptyInput},
		{"Range <=", bearsolve.ErrSyntax},
		{"(Range", bearsolve.ErrSyntax},
		{"Range 5", bearsolve.ErrSyntax},
	} {
		_, err := Parse(x.input)
		var ife *bearsolve.InputFormatError
		if !errors.As(err, &ife) {
			t.Errorf("test %d: expected input format error, got %v", i, err)
			continue
		}
		if !errors.Is(err, x.sentinel) {
			t.Errorf("test %d: expected %v, got %v", i, x.sentinel, err)
		}
	}
}

func TestNormalizeSplitsChains(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "bearsolve.grammar")
	defer teardown()
	//
	tree, err := Parse("Range > 0 and -8 <= bearing <= 8")
	if err != nil {
		t.Fatal(err)
	}
	b := Variable{Name: "bearing"}
	expected := BooleanConnective{Op: OpAnd, Operands: []Node{
		Comparison{Left: Variable{Name: "Range"}, Ops: []string{">"}, Rights: []Node{num("0")}},
		Comparison{Left: num("-8"), Ops: []string{"<="}, Rights: []Node{b}},
		Comparison{Left: b, Ops: []string{"<="}, Rights: []Node{num("8")}},
	}}
	if diff := cmp.Diff(Node(expected), Normalize(tree)); diff != "" {
		t.Errorf("normalized tree mismatch (-want +got):\n%s", diff)
	}
}
