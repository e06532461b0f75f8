package algebra

import (
	"io"
	"strings"
)

// Equation = Expr [ '=' Expr ]
// Expr = num | name | Call | Neg | Plus | Add | Sub | Mul | Div | Pow | '(' Expr ')'
// Call = funcname '(' Expr ')' | constname [ '(' ')' ]
// Neg = '-' Expr
// Plus = '+' Expr
// Add = Expr '+' Expr
// Sub = Expr '-' Expr
// Mul = Expr '*' Expr
// Div = Expr '/' Expr
// Pow = Expr '^' Expr

// Expr is a parsed expression that can be evaluated with a context. An Expr
// is immutable and safe to share between goroutines.
type Expr struct {
	// n is the root node of the expression.
	n *node
	// names is the list of variable names used in the expression.
	names []string
}

// Equation is a pair of expressions which are asserted to be equal.
type Equation struct {
	LHS, RHS *Expr
	// Var optionally names the variable to solve for.
	Var string
}

// parsectx holds general data for parsing.
type parsectx struct {
	// names is the set of variable names that have been seen this parse.
	names map[string]bool
	// funcs is the set of function names that trigger special parsing for ids.
	funcs map[string]Func
	// nodefaults indicates that parse options have set all default functions.
	nodefaults bool
}

func newparsectx(opts []ParseOption) parsectx {
	p := parsectx{
		names: make(map[string]bool),
	}
	for _, opt := range opts {
		p = opt.parseOption(p)
	}
	if p.funcs == nil {
		p.funcs = globalfuncs
	} else if !p.nodefaults {
		// Only set default functions that aren't already set.
		for k, v := range globalfuncs {
			if _, ok := p.funcs[k]; !ok {
				p.funcs[k] = v
			}
		}
	}
	return p
}

// expr creates an Expr rooted at n holding the names seen so far, then resets
// the name set.
func (p *parsectx) expr(n *node) *Expr {
	ex := Expr{
		n:     n,
		names: make([]string, 0, len(p.names)),
	}
	for k := range p.names {
		ex.names = append(ex.names, k)
	}
	sortstrs(ex.names)
	p.names = make(map[string]bool)
	return &ex
}

// Parse parses an expression so it can be evaluated with a context. The given
// options are applied in order. An equals sign in the input is an error; use
// ParseEquation for equations.
func Parse(src io.RuneScanner, opts ...ParseOption) (*Expr, error) {
	scan := lex(src)
	p := newparsectx(opts)
	n, err := parseside(scan, &p)
	if err != nil {
		return nil, err
	}
	if tok := scan.must(); tok.kind != tokenEOF {
		return nil, itShouldNotHaveEndedThisWay(tok, false)
	}
	return p.expr(n), nil
}

// ParseString is a shortcut to parse an expression from a string.
func ParseString(src string, opts ...ParseOption) (*Expr, error) {
	return Parse(strings.NewReader(src), opts...)
}

// MustParse is like ParseString but panics if the expression cannot be
// parsed. It simplifies safe initialization of global variables holding
// formulas.
func MustParse(src string, opts ...ParseOption) *Expr {
	e, err := ParseString(src, opts...)
	if err != nil {
		panic("algebra: MustParse(" + src + "): " + err.Error())
	}
	return e
}

// ParseEquation parses an equation. The sides are split on the first
// top-level equals sign. If there is none, the equation is "src = 0".
func ParseEquation(src io.RuneScanner, opts ...ParseOption) (*Equation, error) {
	scan := lex(src)
	p := newparsectx(opts)
	n, err := parseside(scan, &p)
	if err != nil {
		return nil, err
	}
	eq := Equation{LHS: p.expr(n)}
	switch tok := scan.must(); tok.kind {
	case tokenEOF:
		eq.RHS = &Expr{n: &node{kind: nodeNum, name: "0"}}
		return &eq, nil
	case tokenEq:
		n, err = parseside(scan, &p)
		if err != nil {
			return nil, err
		}
		if end := scan.must(); end.kind != tokenEOF {
			return nil, itShouldNotHaveEndedThisWay(end, false)
		}
		eq.RHS = p.expr(n)
		return &eq, nil
	default:
		return nil, itShouldNotHaveEndedThisWay(tok, false)
	}
}

// ParseEquationString is a shortcut to parse an equation from a string.
func ParseEquationString(src string, opts ...ParseOption) (*Equation, error) {
	return ParseEquation(strings.NewReader(src), opts...)
}

// sortstrs sorts a string slice without using package sort because that has
// reflection and allocation problems.
func sortstrs(names []string) {
	for i := 1; i < len(names); i++ {
		for j := i; j > 0 && names[j] < names[j-1]; j-- {
			names[j], names[j-1] = names[j-1], names[j]
		}
	}
}

// parseside parses one side of an equation. If there is no error, the token
// that ended it is pushed. An empty side is an error.
func parseside(scan *lexer, p *parsectx) (*node, error) {
	n, err := parseterm(scan, p, exprprec)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, emptyAt(scan)
	}
	return n, nil
}

// emptyAt creates an error for an empty subexpression ended by the pushed
// token.
func emptyAt(scan *lexer) error {
	tok := scan.peek()
	return &EmptyExpressionError{Col: tok.pos, End: tok.text}
}

// parseterm parses a single term. If there is no error, then parseterm pushes
// the last token it scans, including EOF. If the input is an empty
// subexpression, the result is nil with no error; callers must create an error
// in contexts where empty subexpressions are illegal.
func parseterm(scan *lexer, p *parsectx, until operator) (*node, error) {
	n, err := parselhs(scan, p, until)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, nil
	}
	for {
		tok, err := scan.next()
		if err != nil {
			return nil, err
		}
		switch tok.kind {
		case tokenNum, tokenIdent, tokenOpen:
			// 2 x, 2 (x), x y: no implied multiplication.
			return nil, &MissingOperatorError{Col: tok.pos, Text: tok.text}
		case tokenOp:
			// Binary operator.
			prec := binop(tok.text)
			if prec.op == nodeNone {
				return nil, &OperatorError{Col: tok.pos, Operator: tok.text, Unary: false}
			}
			if !prec.moreBinding(until) {
				scan.push(tok)
				return n, nil
			}
			rhs, err := parseterm(scan, p, prec)
			if err != nil {
				return nil, err
			}
			if rhs == nil {
				return nil, emptyAt(scan)
			}
			n = &node{kind: prec.op, left: n, right: rhs}
		case tokenClose, tokenEq, tokenEOF:
			// End of expression.
			scan.push(tok)
			return n, nil
		default:
			panic("algebra: unknown token: " + tok.String())
		}
	}
}

// parselhs parses the first component of a term. I.e., operators are unary
// and any encountered token must be valid as the start of a subexpression.
func parselhs(scan *lexer, p *parsectx, until operator) (*node, error) {
	tok, err := scan.next()
	if err != nil {
		return nil, err
	}
	var n *node
	switch tok.kind {
	case tokenNum:
		n = &node{kind: nodeNum, name: tok.text}
	case tokenIdent:
		fn := p.funcs[tok.text]
		if fn == nil {
			// A variable followed by an open bracket is an attempt to call a
			// function we don't have.
			after, err := scan.next()
			if err != nil {
				return nil, err
			}
			scan.push(after)
			if after.kind == tokenOpen {
				return nil, &UnknownFuncError{Col: tok.pos, Name: tok.text}
			}
			p.names[tok.text] = true
			n = &node{kind: nodeName, name: tok.text}
		} else {
			arg, err := parsecall(scan, p, fn, tok.text)
			if err != nil {
				return nil, err
			}
			n = &node{kind: nodeCall, name: tok.text, fn: fn, left: arg}
		}
	case tokenOp:
		// unary operator
		prec := unop(tok.text)
		if prec.op == nodeNone {
			return nil, &OperatorError{Col: tok.pos, Operator: tok.text, Unary: true}
		}
		if !prec.moreBinding(until) {
			// x^-y -> x^(-y)
			// Just use the new operator's precedence to simplify.
			prec.prec, prec.right = until.prec, until.right
		}
		rhs, err := parseterm(scan, p, prec)
		if err != nil {
			return nil, err
		}
		if rhs == nil {
			return nil, emptyAt(scan)
		}
		if tok.text == "+" {
			// Unary plus has no effect, so it has no node.
			n = rhs
		} else {
			n = &node{kind: nodeNeg, left: rhs}
		}
	case tokenOpen:
		rhs, err := parseterm(scan, p, exprprec)
		if err != nil {
			return nil, err
		}
		end := scan.must()
		if end.kind != tokenClose {
			return nil, itShouldNotHaveEndedThisWay(end, true)
		}
		if rhs == nil {
			return nil, &EmptyExpressionError{Col: end.pos, End: end.text}
		}
		n = rhs
	case tokenClose, tokenEq:
		// Let the caller decide what to do.
		scan.push(tok)
		return nil, nil
	case tokenEOF:
		return nil, &EmptyExpressionError{Col: tok.pos, End: ""}
	default:
		panic("algebra: unknown token: " + tok.String())
	}
	return n, nil
}

// parsecall parses the argument to a call of a given Func. The result is nil
// for a niladic call.
func parsecall(scan *lexer, p *parsectx, fn Func, name string) (*node, error) {
	tok, err := scan.next()
	if err != nil {
		return nil, err
	}
	if tok.kind != tokenOpen {
		// Constants can be written bare; anything else requires parentheses.
		scan.push(tok)
		if fn.CanCall(0) {
			return nil, nil
		}
		return nil, &CallError{Col: tok.pos, Func: name, Len: -1}
	}
	arg, err := parseterm(scan, p, exprprec)
	if err != nil {
		// As a special case, reporting mismatched brackets is more helpful
		// than empty expression, if that's what we'd do here.
		if ee, _ := err.(*EmptyExpressionError); ee != nil && ee.End == "" {
			err = &BracketError{Col: ee.Col, Left: tok.text}
		}
		return nil, err
	}
	end := scan.must()
	if end.kind != tokenClose {
		return nil, itShouldNotHaveEndedThisWay(end, true)
	}
	if arg == nil {
		if fn.CanCall(0) {
			return nil, nil
		}
		return nil, &CallError{Col: tok.pos, Func: name, Len: 0}
	}
	if !fn.CanCall(1) {
		return nil, &CallError{Col: tok.pos, Func: name, Len: 1}
	}
	return arg, nil
}

// itShouldNotHaveEndedThisWay returns an error appropriate for an unexpected
// token at the end of a subexpression. open is whether the subexpression
// began with an open bracket.
func itShouldNotHaveEndedThisWay(tok lexToken, open bool) error {
	left := ""
	if open {
		left = "("
	}
	switch tok.kind {
	case tokenEOF:
		// Unexpected EOF implies an open bracket that was not closed.
		return &BracketError{Col: tok.pos, Left: left, Right: ""}
	case tokenClose:
		return &BracketError{Col: tok.pos, Left: left, Right: tok.text}
	case tokenEq:
		return &SeparatorError{Col: tok.pos, Sep: tok.text}
	default:
		panic("algebra: it really should not have ended this way: " + tok.String())
	}
}

// Vars returns the variable names used when evaluating the expression, in
// sorted order.
func (e *Expr) Vars() []string {
	return append(([]string)(nil), e.names...)
}

// Uses reports whether the expression refers to the named variable.
func (e *Expr) Uses(name string) bool {
	return e.n.uses(name)
}

// String formats the expression in infix notation with the minimum
// parentheses needed to parse back to the same expression.
func (e *Expr) String() string {
	return e.n.String()
}

// Vars returns the variable names used on either side of the equation, in
// sorted order.
func (eq *Equation) Vars() []string {
	seen := make(map[string]bool, len(eq.LHS.names)+len(eq.RHS.names))
	var v []string
	for _, s := range [][]string{eq.LHS.names, eq.RHS.names} {
		for _, name := range s {
			if !seen[name] {
				seen[name] = true
				v = append(v, name)
			}
		}
	}
	sortstrs(v)
	return v
}

func (eq *Equation) String() string {
	return eq.LHS.String() + " = " + eq.RHS.String()
}

// residual is lhs - rhs, which is zero exactly where the equation holds.
func (eq *Equation) residual() *node {
	return &node{kind: nodeSub, left: eq.LHS.n, right: eq.RHS.n}
}

type operator struct {
	// prec is the precedence value. Higher is more binding.
	prec int8
	// right indicates right-associativity.
	right bool
	// op is the node kind to use when this operator is selected.
	op nodeKind
}

func (p operator) moreBinding(than operator) bool {
	if p.prec != than.prec {
		return p.prec > than.prec
	}
	return p.right
}

// binop gets a binary operator for a token string. If there is no such binary
// operator, then the result has an op of nodeNone.
func binop(text string) operator {
	switch text {
	case "+":
		return operator{1, false, nodeAdd}
	case "-":
		return operator{1, false, nodeSub}
	case "*":
		return operator{5, false, nodeMul}
	case "/":
		return operator{5, false, nodeDiv}
	case "^":
		return operator{15, true, nodePow}
	default:
		return operator{}
	}
}

// unop gets a unary operator for a token string. If there is no such unary
// operator, then the result has an op of nodeNone. Unary plus reports nodeNeg
// for its precedence, but the parser drops it.
func unop(text string) operator {
	switch text {
	case "+", "-":
		return operator{10, true, nodeNeg}
	default:
		return operator{}
	}
}

// exprprec is the precedence required to parse an entire subexpression.
var exprprec = operator{-128, true, nodeNone}
