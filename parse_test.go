package algebra

import (
	"errors"
	"fmt"
	"math/big"
	"reflect"
	"regexp"
	"strings"
	"testing"
)

// diff finds the first in-order node of n that differs from m, or nil, nil if
// the two ASTs are equal. If any node is nodeNone, it is returned.
func (n *node) diff(m *node) (*node, *node) {
	if n == nil {
		if m != nil {
			return n, m
		}
		return nil, nil
	}
	if m == nil {
		return n, m
	}
	if n.kind == nodeNone || m.kind == nodeNone {
		return n, m
	}
	if n.kind != m.kind {
		return n, m
	}
	switch n.kind {
	case nodeNum, nodeName:
		if n.name != m.name {
			return n, m
		}
	case nodeCall:
		if n.name != m.name {
			return n, m
		}
		if d, e := n.left.diff(m.left); d != nil || e != nil {
			return d, e
		}
	case nodeNeg:
		if d, e := n.left.diff(m.left); d != nil || e != nil {
			return d, e
		}
	case nodeAdd, nodeSub, nodeMul, nodeDiv, nodePow:
		if d, e := n.left.diff(m.left); d != nil || e != nil {
			return d, e
		}
		if d, e := n.right.diff(m.right); d != nil || e != nil {
			return d, e
		}
	default:
		panic(fmt.Errorf("invalid node kind: n=%+v m=%+v", n, m))
	}
	return nil, nil
}

// haskind checks whether a parse tree contains a node of the given type.
func (n *node) haskind(k nodeKind) bool {
	found := false
	n.walk(func(m *node) bool {
		found = found || m.kind == k
		return !found
	})
	return found
}

type mockfn struct {
	can []int
}

func mockFunc(n ...int) Func {
	return mockfn{can: n}
}

func (f mockfn) Call(ctx *Context, invoc []*big.Float, r *big.Float) error {
	return nil
}

func (f mockfn) CanCall(n int) bool {
	for _, v := range f.can {
		if v == n {
			return true
		}
	}
	return false
}

var testfns = map[string]Func{
	"zero":    mockFunc(0),
	"one":     mockFunc(1),
	"zeroone": mockFunc(0, 1),
}

var testopts = []ParseOption{DisableDefaultFuncs(), ParseFuncs(testfns)}

func TestOpPrecsExist(t *testing.T) {
	for _, r := range Operators {
		b := binop(string(r))
		u := unop(string(r))
		if b.op == nodeNone && u.op == nodeNone {
			t.Errorf("no operator for %c", r)
		}
	}
}

func TestPrintPrecsMatchParser(t *testing.T) {
	cases := []struct {
		op   string
		prec int
	}{
		{"+", precSum},
		{"-", precSum},
		{"*", precProd},
		{"/", precProd},
		{"^", precPow},
	}
	for _, c := range cases {
		if p := binop(c.op).prec; int(p) != c.prec {
			t.Errorf("%s parses with prec %d but prints with %d", c.op, p, c.prec)
		}
	}
	if p := unop("-").prec; int(p) != precNeg {
		t.Errorf("negation parses with prec %d but prints with %d", p, precNeg)
	}
}

func TestParseTrees(t *testing.T) {
	cases := []struct {
		name string
		a, b string
	}{
		{"paren", "(x)", "x"},
		{"multi", "(((x)))", "x"},

		{"plus", "+x", "x"},
		{"neg", "-x", "(-(x))"},
		{"negnum", "-1", "(-(1))"},
		{"add", "x+y", "((x)+(y))"},
		{"sub", "x-y", "((x)-(y))"},
		{"mul", "x*y", "((x)*(y))"},
		{"div", "x/y", "((x)/(y))"},
		{"pow", "x^y", "((x)^(y))"},

		{"call0", "zero()", "zero"},
		{"call0-up", "zero^x", "(zero())^x"},
		{"call1", "one(x)", "one((x))"},
		{"call1-up", "one(x)^y", "(one(x))^y"},
		{"call1-neg", "-one(x)^2", "-(one(x)^2)"},
		{"call01", "zeroone", "zeroone()"},

		{"add4", "w+x+y+z", "((w+x)+y)+z"},
		{"sub4", "w-x-y-z", "((w-x)-y)-z"},
		{"mul4", "w*x*y*z", "((w*x)*y)*z"},
		{"div4", "w/x/y/z", "((w/x)/y)/z"},
		{"pow4", "w^x^y^z", "w^(x^(y^z))"},

		{"negpow", "-1^n", "-(1^n)"},
		{"desc", "w^x*y+z", "((w^x)*y)+z"},
		{"asc", "w+x*y^z", "w+(x*(y^z))"},
		{"descasc", "w^x*y+z+a*b^c", "(((w^x)*y)+z)+a*(b^c)"},
		{"ascdesc", "w+x*y^z^a*b+c", "w+((x*(y^(z^a)))*b)+c"},
		{"negneg", "--x", "-(-x)"},
		{"negsub", "-x-x", "(-x)-x"},
		{"negmul", "-x*y", "(-x)*y"},
		{"mulneg", "2*-3", "2*(-3)"},
		{"mulnegpow", "2*-x^2", "2*(-(x^2))"},
		{"powneg", "x^-1", "x^(-1)"},
		{"pownegpow", "x^-y^-z", "x^(-(y^(-z)))"},
		{"pownegneg", "x^--y", "x^(-(-y))"},
		{"subneg", "a - -b", "a-(-b)"},
	}
	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			a, err := Parse(strings.NewReader(c.a), testopts...)
			if err != nil {
				t.Fatalf("failed to parse %q: %v", c.a, err)
			}
			b, err := Parse(strings.NewReader(c.b), testopts...)
			if err != nil {
				t.Fatalf("failed to parse %q: %v", c.b, err)
			}
			d, e := a.n.diff(b.n)
			if d != nil || e != nil {
				t.Errorf("mismatched AST:\n\t%q parses %v has %v\n\t%q parses %v has %v", c.a, a.n, d, c.b, b.n, e)
			}
		})
	}
}

func TestParseExact(t *testing.T) {
	cases := []struct {
		name string
		src  string
		n    *node
	}{
		{
			name: "call1-paren",
			src:  "one(x)",
			n: &node{
				kind: nodeCall,
				name: "one",
				left: &node{
					kind: nodeName,
					name: "x",
				},
			},
		},
		{
			name: "call0-bare",
			src:  "zero",
			n: &node{
				kind: nodeCall,
				name: "zero",
			},
		},
		{
			name: "call01-paren",
			src:  "zeroone(1)",
			n: &node{
				kind: nodeCall,
				name: "zeroone",
				left: &node{
					kind: nodeNum,
					name: "1",
				},
			},
		},
		{
			name: "num",
			src:  "1.5e3",
			n: &node{
				kind: nodeNum,
				name: "1.5e3",
			},
		},
		{
			name: "linear",
			src:  "2*x + 3 - 7",
			n: &node{
				kind: nodeSub,
				left: &node{
					kind: nodeAdd,
					left: &node{
						kind:  nodeMul,
						left:  &node{kind: nodeNum, name: "2"},
						right: &node{kind: nodeName, name: "x"},
					},
					right: &node{kind: nodeNum, name: "3"},
				},
				right: &node{kind: nodeNum, name: "7"},
			},
		},
	}
	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			a, err := Parse(strings.NewReader(c.src), testopts...)
			if err != nil {
				t.Fatalf("%q failed to parse: %v", c.src, err)
			}
			d, e := a.n.diff(c.n)
			if d != nil || e != nil {
				t.Errorf("mismatched AST:\n\twant %v which has %v\n\tgot  %v which has %v from %q", c.n, e, a.n, d, c.src)
			}
		})
	}
}

func TestExprString(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want string
	}{
		{"paren", "(x)", "x"},
		{"plus", "+x", "x"},
		{"neg", "-x", "-x"},
		{"add", "x+y", "x + y"},
		{"sub", "x-y", "x - y"},
		{"mul", "x*y", "x * y"},
		{"div", "x/y", "x / y"},
		{"pow", "x^y", "x^y"},

		{"call0", "zero()", "zero"},
		{"call1", "one(x+1)", "one(x + 1)"},
		{"call1-up", "one(x)^2", "one(x)^2"},

		{"add4", "w+x+y+z", "w + x + y + z"},
		{"sub-right", "x-(y-z)", "x - (y - z)"},
		{"div-right", "x/(y*z)", "x / (y * z)"},
		{"pow4", "w^x^y^z", "w^x^y^z"},
		{"pow-left", "(x^y)^z", "(x^y)^z"},
		{"sum-prod", "(x+y)*z", "(x + y) * z"},
		{"prod-sum", "x*y+z", "x * y + z"},

		{"negpow", "-x^2", "-x^2"},
		{"powof-neg", "(-x)^2", "(-x)^2"},
		{"neg-sum", "-(x+y)", "-(x + y)"},
		{"negneg", "--x", "--x"},
		{"negmul", "-x*y", "-x * y"},
		{"mulneg", "2*-3", "2 * -3"},
		{"powneg", "x^-1", "x^(-1)"},
		{"subneg", "a - -b", "a - -b"},
		{"pownegpow", "x^-y^-z", "x^(-y^(-z))"},
		{"num", "1.5e3", "1.5e3"},
	}
	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			a, err := Parse(strings.NewReader(c.src), testopts...)
			if err != nil {
				t.Fatalf("%q failed to parse: %v", c.src, err)
			}
			s := a.String()
			if s != c.want {
				t.Errorf("%q formatted wrong: want %q, got %q", c.src, c.want, s)
			}
			b, err := Parse(strings.NewReader(s), testopts...)
			if err != nil {
				t.Fatalf("%q -> %q failed to parse: %v", c.src, s, err)
			}
			d, e := a.n.diff(b.n)
			if d != nil || e != nil {
				t.Errorf("mismatched AST:\n\t%q parses %v has %v\n\t%q parses %v has %v", c.src, a.n, d, s, b.n, e)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		err  ParseError
		pos  int
		res  []string
		excl []string
	}{
		{"empty", "", new(EmptyExpressionError), 1, []string{`(?i)\b(no|empty)\b.*\bexpression\b`}, []string{`(?i)\bend\b`}},
		{"emptyparen", "()", new(EmptyExpressionError), 2, []string{`(?i)\b(no|empty)\b.*\bexpression\b`, `\)`}, nil},
		{"emptyoperand", "x*", new(EmptyExpressionError), 3, []string{`(?i)\b(no|empty)\b.*\bexpression\b`, `(?i)\bend\b`}, nil},
		{"emptyunary", "x*-", new(EmptyExpressionError), 4, []string{`(?i)\b(no|empty)\b.*\bexpression\b`, `(?i)\bend\b`}, nil},
		{"left", "(x", new(BracketError), 3, []string{`(?i)\bbracket\b`, `\(`}, nil},
		{"right", "x)", new(BracketError), 2, []string{`(?i)\bbracket\b`, `\)`}, nil},
		{"unbalanced", "2*(x + 3", new(BracketError), 9, []string{`(?i)\bbracket\b`, `\(`}, nil},
		{"nonunary", "*x", new(OperatorError), 1, []string{`(?i)\bunary\b`, `(?i)\bop`, `\*`}, nil},
		{"nonunary-after", "x*/y", new(OperatorError), 3, []string{`(?i)\bunary\b`, `/`}, nil},
		{"eq", "x = 1", new(SeparatorError), 3, []string{`"="`}, nil},
		{"eq-paren", "(x = 1)", new(SeparatorError), 4, []string{`"="`}, nil},
		{"call1-0", "one()", new(CallError), 4, []string{`(?i)\bcall\b`, `\bone\b`, `\b((?i)0|zero)\b`}, nil},
		{"call1-eof", "one", new(CallError), 4, []string{`(?i)\bcall\b`, `\bone\b`, `(?i)\bparenthesized\b`}, nil},
		{"call1-bare", "one x", new(CallError), 5, []string{`(?i)\bcall\b`, `\bone\b`, `(?i)\bparenthesized\b`}, nil},
		{"call1-pareneof", "one(", new(BracketError), 5, []string{`(?i)\bbracket\b`, `\(`}, nil},
		{"call0-1", "zero(x)", new(CallError), 5, []string{`(?i)\bcall\b`, `\bzero\b`, `\b1\b`}, nil},
		{"unknown-func", "f(x)", new(UnknownFuncError), 1, []string{`(?i)\bunknown\b`, `"f"`}, nil},
		{"juxtapose", "2 x", new(MissingOperatorError), 3, []string{`(?i)\bmissing\b`, `"x"`}, nil},
		{"juxtapose-paren", "2(x+1)", new(MissingOperatorError), 2, []string{`(?i)\bmissing\b`, `"\("`}, nil},
		{"juxtapose-names", "x y", new(MissingOperatorError), 3, []string{`(?i)\bmissing\b`, `"y"`}, nil},
		{"juxtapose-parens", "(x)(y)", new(MissingOperatorError), 4, []string{`(?i)\bmissing\b`}, nil},
		{"juxtapose-lex", "2x", new(LexError), 2, []string{`2x`}, nil},
		{"lexer", "2^one(-$)", new(LexError), 8, []string{`\$`}, nil},

		// Cases identified with fuzzing.
		{"op-paren", "(b*)", new(EmptyExpressionError), 4, []string{`\)`}, nil},
		{"haskell", "(+)", new(EmptyExpressionError), 3, []string{`\)`}, nil},
	}
	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			a, err := Parse(strings.NewReader(c.src), testopts...)
			if a != nil {
				t.Errorf("%q parsed non-nil to %v", c.src, a.n)
			}
			if reflect.TypeOf(err) != reflect.TypeOf(c.err) {
				t.Errorf("wrong error type from %q: want %T, got %T", c.src, c.err, err)
			}
			if err == nil {
				return
			}
			var pe ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("%T is not a ParseError", err)
			}
			if pe.Pos() != c.pos {
				t.Errorf("wrong position for %q: want %d, got %d", c.src, c.pos, pe.Pos())
			}
			msg := err.Error()
			for _, re := range c.res {
				if !regexp.MustCompile(re).MatchString(msg) {
					t.Errorf("error message %q does not match %s", msg, re)
				}
			}
			for _, re := range c.excl {
				if regexp.MustCompile(re).MatchString(msg) {
					t.Errorf("error message %q matches %s", msg, re)
				}
			}
		})
	}
}

func TestParseEquation(t *testing.T) {
	cases := []struct {
		name     string
		src      string
		lhs, rhs string
		vars     []string
	}{
		{"linear", "2*x + 3 = 7", "2 * x + 3", "7", []string{"x"}},
		{"implied", "2*x + 3 - 7", "2 * x + 3 - 7", "0", []string{"x"}},
		{"both", "y = x^2 + z", "y", "x^2 + z", []string{"x", "y", "z"}},
		{"shared", "x = x", "x", "x", []string{"x"}},
		{"consts", "1 = 2", "1", "2", nil},
		{"funcs", "log(x) = 3", "log(x)", "3", []string{"x"}},
	}
	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			eq, err := ParseEquationString(c.src)
			if err != nil {
				t.Fatalf("%q failed to parse: %v", c.src, err)
			}
			if s := eq.LHS.String(); s != c.lhs {
				t.Errorf("wrong lhs: want %q, got %q", c.lhs, s)
			}
			if s := eq.RHS.String(); s != c.rhs {
				t.Errorf("wrong rhs: want %q, got %q", c.rhs, s)
			}
			if v := eq.Vars(); !reflect.DeepEqual(v, c.vars) {
				t.Errorf("wrong variables: want %q, got %q", c.vars, v)
			}
			if s, want := eq.String(), c.lhs+" = "+c.rhs; s != want {
				t.Errorf("wrong string: want %q, got %q", want, s)
			}
		})
	}
}

func TestParseEquationErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		err  ParseError
	}{
		{"twice", "x = 1 = 2", new(SeparatorError)},
		{"empty-rhs", "x =", new(EmptyExpressionError)},
		{"empty-lhs", "= 1", new(EmptyExpressionError)},
		{"unbalanced", "2*(x + 3 = 1", new(SeparatorError)},
		{"unbalanced-end", "2*(x + 3", new(BracketError)},
		{"close", "x) = 1", new(BracketError)},
	}
	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			eq, err := ParseEquationString(c.src)
			if eq != nil {
				t.Errorf("%q parsed non-nil to %v", c.src, eq)
			}
			if reflect.TypeOf(err) != reflect.TypeOf(c.err) {
				t.Errorf("wrong error type from %q: want %T, got %T (%v)", c.src, c.err, err, err)
			}
		})
	}
}

func TestDisableDefaultFuncs(t *testing.T) {
	cases := []struct {
		name string
		src  string
	}{
		{"exp", "exp"},
		{"ln", "ln"},
		{"log", "log"},
		{"sqrt", "sqrt"},
		{"cos", "cos"},
		{"sin", "sin"},
		{"tan", "tan"},
		{"pi", "pi"},
		{"e", "e"},
	}
	// Check that we cover every case.
	check := func(n string) bool {
		for _, c := range cases {
			if c.name == n {
				return true
			}
		}
		return false
	}
	for k := range globalfuncs {
		if !check(k) {
			t.Fatalf("no test case for %q", k)
		}
	}

	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			a, err := Parse(strings.NewReader(c.src), DisableDefaultFuncs())
			if err != nil {
				t.Fatalf("%q failed to parse: %v", c.src, err)
			}
			if a.n.haskind(nodeCall) {
				t.Errorf("call expression in %v", a.n)
			}
			if v := a.Vars(); !reflect.DeepEqual(v, []string{c.name}) {
				t.Errorf("wrong variables: want [%s], got %q", c.name, v)
			}
		})
	}
}

func TestParseFuncOverride(t *testing.T) {
	a, err := ParseString("log + sqrt(x)", ParseFunc("log", nil))
	if err != nil {
		t.Fatal(err)
	}
	if v := a.Vars(); !reflect.DeepEqual(v, []string{"log", "x"}) {
		t.Errorf("wrong variables: want [log x], got %q", v)
	}
	if !a.n.haskind(nodeCall) {
		t.Errorf("sqrt was disabled along with log: %v", a.n)
	}
}

func TestMustParse(t *testing.T) {
	if e := MustParse("x + 1"); !e.Uses("x") {
		t.Errorf("%v does not use x", e)
	}
	defer func() {
		if recover() == nil {
			t.Error("no panic for bad input")
		}
	}()
	MustParse("x +")
}

func BenchmarkParse(b *testing.B) {
	cases := []struct {
		name string
		src  string
	}{
		{"descasc", "w^x*y+z+a*b^c"},
		{"descasc-parens", "(((w^x)*y)+z)+a*(b^c)"},
		{"ascdesc", "w+x*y^z^a*b+c"},
		{"ascdesc-parens", "w+((x*(y^(z^a)))*b)+c"},
		{"descasc-nums", "1^1.1*1.1e1+1.1e-1+.1*2^3"},
		{"call0", "zero()"},
		{"call1", "one(x)"},
	}
	for _, c := range cases {
		c := c
		b.Run(c.name, func(b *testing.B) {
			b.ReportAllocs()
			var src strings.Reader
			for i := 0; i < b.N; i++ {
				src.Reset(c.src)
				Parse(&src, testopts...)
			}
		})
	}
}
