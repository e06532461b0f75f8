package algebra

import (
	"math"
)

// SystemKind classifies the solution of a system of two linear equations.
type SystemKind int8

const (
	// SystemUnique is a system with exactly one solution.
	SystemUnique SystemKind = iota + 1
	// SystemInfinite is a consistent system whose equations are dependent.
	SystemInfinite
	// SystemInconsistent is a system with no solution.
	SystemInconsistent
)

//go:generate go mod edit -require=golang.org/x/tools@v0.1.0
//go:generate go mod download
//go:generate go run golang.org/x/tools/cmd/stringer -type=SystemKind -trimprefix=System
//go:generate go mod tidy

// SystemSolution is the solution of a 2x2 linear system. X and Y are set
// only when Kind is SystemUnique.
type SystemSolution struct {
	Kind SystemKind
	// VarX and VarY name the variables in declared order.
	VarX, VarY string
	X, Y       float64
}

func (s *SystemSolution) String() string {
	switch s.Kind {
	case SystemUnique:
		return s.VarX + " = " + ftoa(s.X) + ", " + s.VarY + " = " + ftoa(s.Y)
	case SystemInfinite:
		return "infinitely many solutions"
	case SystemInconsistent:
		return "no solution"
	default:
		return s.Kind.String()
	}
}

// SolveSystem solves two equations which are linear in x and y. Every other
// variable must have a value in the context given with Using.
func SolveSystem(e1, e2 *Equation, x, y string, opts ...SolveOption) (*SystemSolution, error) {
	if x == "" || y == "" || x == y {
		return nil, &InvalidInputError{Op: "solve system", Reason: "need two distinct variables, have " + x + " and " + y}
	}
	cfg := newsolvecfg(opts)
	s := solver{ctx: cfg.ctx.Clone()}
	delete(s.ctx.names, x)
	delete(s.ctx.names, y)
	var rows [2]linform
	for i, eq := range [2]*Equation{e1, e2} {
		f, err := s.linear(eq.residual(), x, y)
		if err != nil {
			return nil, err
		}
		rows[i] = f
	}
	// a*x + b*y + k = 0 is a*x + b*y = -k.
	r := SolveLinearSystem(rows[0].x, rows[0].y, -rows[0].c, rows[1].x, rows[1].y, -rows[1].c)
	r.VarX, r.VarY = x, y
	return r, nil
}

// SolveLinearSystem solves the system
//
//	a1*x + b1*y = c1
//	a2*x + b2*y = c2
//
// by Cramer's rule. A row with both coefficients zero is inconsistent if its
// constant is nonzero and is otherwise ignored.
func SolveLinearSystem(a1, b1, c1, a2, b2, c2 float64) *SystemSolution {
	r := &SystemSolution{VarX: "x", VarY: "y"}
	z1 := a1 == 0 && b1 == 0
	z2 := a2 == 0 && b2 == 0
	switch {
	case z1 && c1 != 0, z2 && c2 != 0:
		r.Kind = SystemInconsistent
		return r
	case z1 || z2:
		// One line or the whole plane.
		r.Kind = SystemInfinite
		return r
	}
	det := a1*b2 - a2*b1
	dx := c1*b2 - c2*b1
	dy := a1*c2 - a2*c1
	if nearZero(det, a1*b2, a2*b1) {
		if nearZero(dx, c1*b2, c2*b1) && nearZero(dy, a1*c2, a2*c1) {
			r.Kind = SystemInfinite
		} else {
			r.Kind = SystemInconsistent
		}
		return r
	}
	r.Kind = SystemUnique
	r.X, r.Y = dx/det, dy/det
	return r
}

// nearZero reports whether the difference d = p - q is negligible compared to
// its terms.
func nearZero(d, p, q float64) bool {
	return math.Abs(d) <= zeroTol*(math.Abs(p)+math.Abs(q))
}
