package algebra

import (
	"errors"
	"math"
	"math/big"
	"strconv"
)

// poly is a polynomial with float64 coefficients. p[i] is the coefficient of
// the i-th power.
type poly []float64

// maxPower bounds constant exponents accepted during extraction. Anything
// beyond quadratic is rejected later, but cancellation like x^3 - x^3 is
// allowed to happen first.
const maxPower = 16

func (p poly) add(q poly) poly {
	if len(q) > len(p) {
		p, q = q, p
	}
	r := append(poly(nil), p...)
	for i, c := range q {
		r[i] += c
	}
	return r
}

func (p poly) scale(k float64) poly {
	r := make(poly, len(p))
	for i, c := range p {
		r[i] = c * k
	}
	return r
}

func (p poly) quo(k float64) poly {
	r := make(poly, len(p))
	for i, c := range p {
		r[i] = c / k
	}
	return r
}

func (p poly) mul(q poly) poly {
	r := make(poly, len(p)+len(q)-1)
	for i, a := range p {
		for j, b := range q {
			r[i+j] += a * b
		}
	}
	return r
}

// shift returns p - k.
func (p poly) shift(k float64) poly {
	r := append(poly(nil), p...)
	r[0] -= k
	return r
}

// trim removes zero leading coefficients. The result always has at least one
// coefficient.
func (p poly) trim() poly {
	for len(p) > 1 && p[len(p)-1] == 0 {
		p = p[:len(p)-1]
	}
	return p
}

// notPolyError is an error indicating a subexpression that is not a
// polynomial in the atom being extracted.
type notPolyError struct {
	n *node
}

func (err *notPolyError) Error() string {
	return "not a polynomial: " + err.n.String()
}

// value evaluates a subexpression which does not use any unknowns.
func (s *solver) value(n *node) (float64, error) {
	r, err := s.ctx.evalNode(n)
	if err != nil {
		return 0, err
	}
	f, _ := r.Float64()
	return f, nil
}

// poly extracts the coefficients of n as a polynomial in the subexpression
// matched by atom. Subexpressions that do not use the target are evaluated.
func (s *solver) poly(n *node, atom func(*node) bool) (poly, error) {
	if atom(n) {
		return poly{0, 1}, nil
	}
	if !n.uses(s.name) {
		v, err := s.value(n)
		if err != nil {
			return nil, err
		}
		return poly{v}, nil
	}
	switch n.kind {
	case nodeNeg:
		l, err := s.poly(n.left, atom)
		if err != nil {
			return nil, err
		}
		return l.scale(-1), nil
	case nodeAdd, nodeSub, nodeMul:
		l, err := s.poly(n.left, atom)
		if err != nil {
			return nil, err
		}
		r, err := s.poly(n.right, atom)
		if err != nil {
			return nil, err
		}
		switch n.kind {
		case nodeAdd:
			return l.add(r), nil
		case nodeSub:
			return l.add(r.scale(-1)), nil
		default:
			return l.mul(r), nil
		}
	case nodeDiv:
		if n.right.uses(s.name) {
			return nil, &notPolyError{n}
		}
		l, err := s.poly(n.left, atom)
		if err != nil {
			return nil, err
		}
		d, err := s.value(n.right)
		if err != nil {
			return nil, err
		}
		if d == 0 {
			return nil, &DomainError{X: new(big.Float), Func: "/", Expr: n.String()}
		}
		return l.quo(d), nil
	case nodePow:
		if n.right.uses(s.name) {
			return nil, &notPolyError{n}
		}
		k, err := s.value(n.right)
		if err != nil {
			return nil, err
		}
		if k < 0 || k > maxPower || k != math.Trunc(k) {
			return nil, &notPolyError{n}
		}
		b, err := s.poly(n.left, atom)
		if err != nil {
			return nil, err
		}
		if (len(b.trim())-1)*int(k) > maxPower {
			return nil, &notPolyError{n}
		}
		r := poly{1}
		for i := 0; i < int(k); i++ {
			r = r.mul(b)
		}
		return r, nil
	}
	return nil, &notPolyError{n}
}

// linform is the linear form x*X + y*Y + c in two unknowns.
type linform struct {
	x, y, c float64
}

func (f linform) add(g linform) linform {
	return linform{f.x + g.x, f.y + g.y, f.c + g.c}
}

func (f linform) scale(k float64) linform {
	return linform{f.x * k, f.y * k, f.c * k}
}

func (f linform) isConst() bool {
	return f.x == 0 && f.y == 0
}

// linear extracts n as a linear form in the variables x and y.
func (s *solver) linear(n *node, x, y string) (linform, error) {
	if !n.uses(x) && !n.uses(y) {
		v, err := s.value(n)
		if err != nil {
			var ne *NameError
			if errors.As(err, &ne) {
				return linform{}, &InvalidInputError{Op: "solve system", Reason: "unbound variable " + strconv.Quote(ne.Name) + " in " + n.String()}
			}
			return linform{}, err
		}
		return linform{c: v}, nil
	}
	nonlinear := func() error {
		return &InvalidInputError{Op: "solve system", Reason: n.String() + " is not linear in " + x + " and " + y}
	}
	switch n.kind {
	case nodeName:
		if n.name == x {
			return linform{x: 1}, nil
		}
		return linform{y: 1}, nil
	case nodeNeg:
		l, err := s.linear(n.left, x, y)
		return l.scale(-1), err
	case nodeAdd, nodeSub, nodeMul:
		l, err := s.linear(n.left, x, y)
		if err != nil {
			return linform{}, err
		}
		r, err := s.linear(n.right, x, y)
		if err != nil {
			return linform{}, err
		}
		switch n.kind {
		case nodeAdd:
			return l.add(r), nil
		case nodeSub:
			return l.add(r.scale(-1)), nil
		}
		switch {
		case l.isConst():
			return r.scale(l.c), nil
		case r.isConst():
			return l.scale(r.c), nil
		}
		return linform{}, nonlinear()
	case nodeDiv:
		if n.right.uses(x) || n.right.uses(y) {
			return linform{}, nonlinear()
		}
		l, err := s.linear(n.left, x, y)
		if err != nil {
			return linform{}, err
		}
		r, err := s.linear(n.right, x, y)
		if err != nil {
			return linform{}, err
		}
		if r.c == 0 {
			return linform{}, &DomainError{X: new(big.Float), Func: "/", Expr: n.String()}
		}
		return l.scale(1 / r.c), nil
	case nodePow:
		if n.right.uses(x) || n.right.uses(y) {
			return linform{}, nonlinear()
		}
		k, err := s.linear(n.right, x, y)
		if err != nil {
			return linform{}, err
		}
		switch k.c {
		case 0:
			return linform{c: 1}, nil
		case 1:
			return s.linear(n.left, x, y)
		}
	}
	return linform{}, nonlinear()
}
