package algebra

import (
	"strings"
)

// node is a node in the abstract syntax tree of an expression. Nodes are never
// modified after parsing.
type node struct {
	kind nodeKind

	name string
	fn   Func

	left  *node
	right *node
}

type nodeKind int8

const (
	nodeNone nodeKind = iota

	nodeNum  // push num
	nodeName // push lookup(name)

	nodeCall // name is Func to call, left is the argument unless niladic

	nodeNeg // evaluate left, then negate
	nodeAdd // evaluate left, add right
	nodeSub // evaluate left, sub right
	nodeMul // evaluate left, mul right
	nodeDiv // evaluate left, div by right
	nodePow // evaluate left, exp by right
)

//go:generate go mod edit -require=golang.org/x/tools@v0.1.0
//go:generate go mod download
//go:generate go run golang.org/x/tools/cmd/stringer -type=nodeKind -trimprefix=node
//go:generate go mod tidy

// Printing precedences. These mirror the parser's operator table, with
// leaves and calls binding tightest.
const (
	precSum  = 1
	precProd = 5
	precNeg  = 10
	precPow  = 15
	precLeaf = 20
)

func (n *node) prec() int {
	switch n.kind {
	case nodeAdd, nodeSub:
		return precSum
	case nodeMul, nodeDiv:
		return precProd
	case nodeNeg:
		return precNeg
	case nodePow:
		return precPow
	default:
		return precLeaf
	}
}

func (n *node) String() string {
	var b strings.Builder
	n.fmt(&b)
	return b.String()
}

// fmt writes n in infix form with only the parentheses needed to parse back
// to the same tree.
func (n *node) fmt(b *strings.Builder) {
	switch n.kind {
	case nodeNum, nodeName:
		b.WriteString(n.name)
	case nodeCall:
		b.WriteString(n.name)
		if n.left == nil {
			// Constants print bare.
			return
		}
		b.WriteByte('(')
		n.left.fmt(b)
		b.WriteByte(')')
	case nodeNeg:
		b.WriteByte('-')
		n.left.fmtsub(b, n.left.prec() < precNeg)
	case nodeAdd, nodeSub, nodeMul, nodeDiv, nodePow:
		p := n.prec()
		right := n.kind == nodePow
		lp, rp := n.left.prec(), n.right.prec()
		n.left.fmtsub(b, lp < p || lp == p && right)
		switch n.kind {
		case nodeAdd:
			b.WriteString(" + ")
		case nodeSub:
			b.WriteString(" - ")
		case nodeMul:
			b.WriteString(" * ")
		case nodeDiv:
			b.WriteString(" / ")
		case nodePow:
			b.WriteString("^")
		}
		n.right.fmtsub(b, rp < p || rp == p && !right)
	default:
		panic("algebra: invalid node kind " + n.kind.String() + " after writing " + b.String())
	}
}

func (n *node) fmtsub(b *strings.Builder, paren bool) {
	if !paren {
		n.fmt(b)
		return
	}
	b.WriteByte('(')
	n.fmt(b)
	b.WriteByte(')')
}

// equal reports whether two trees are structurally identical.
func (n *node) equal(m *node) bool {
	if n == nil || m == nil {
		return n == m
	}
	if n.kind != m.kind || n.name != m.name {
		return false
	}
	return n.left.equal(m.left) && n.right.equal(m.right)
}

// uses reports whether the variable name appears anywhere under n.
func (n *node) uses(name string) bool {
	if n == nil {
		return false
	}
	if n.kind == nodeName && n.name == name {
		return true
	}
	return n.left.uses(name) || n.right.uses(name)
}

// walk calls f on n and its descendants in prefix order. If f returns false,
// the children of that node are skipped.
func (n *node) walk(f func(*node) bool) {
	if n == nil {
		return
	}
	if !f(n) {
		return
	}
	n.left.walk(f)
	n.right.walk(f)
}
