package algebra

import (
	"errors"
	"math"
	"math/big"
	"strconv"
	"strings"
)

// Class identifies the kind of equation that was solved.
type Class int8

const (
	ClassLinear Class = iota + 1
	ClassQuadratic
	ClassLogarithmic
	ClassExponential
	ClassRadical
)

//go:generate go mod edit -require=golang.org/x/tools@v0.1.0
//go:generate go mod download
//go:generate go run golang.org/x/tools/cmd/stringer -type=Class -trimprefix=Class
//go:generate go mod tidy

// DefaultTolerance is the relative tolerance used to compare solutions.
const DefaultTolerance = 1e-9

// zeroTol is the relative size below which a discriminant or determinant is
// treated as zero.
const zeroTol = 1e-12

// Approx reports whether a and b are equal within tol, relative to their
// magnitude, or absolute when both are smaller than 1.
func Approx(a, b, tol float64) bool {
	if a == b {
		return true
	}
	m := math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
	return math.Abs(a-b) <= tol*m
}

// Solution is one root of an equation. Im is zero for real roots.
type Solution struct {
	Re, Im float64
}

// Real reports whether the solution is a real number.
func (s Solution) Real() bool {
	return s.Im == 0
}

func (s Solution) String() string {
	if s.Im == 0 {
		return ftoa(s.Re)
	}
	sign := "+"
	im := s.Im
	if im < 0 {
		sign, im = "-", -im
	}
	return ftoa(s.Re) + sign + ftoa(im) + "i"
}

// SolutionSet is the set of solutions of an equation in one variable. Real
// roots are in ascending order. Complex roots appear only in complex mode and
// only for quadratics.
type SolutionSet struct {
	// Var is the variable that was solved for.
	Var string
	// Class is the kind of equation.
	Class Class
	// Roots are the solutions found.
	Roots []Solution
}

// Reals returns the real roots.
func (s *SolutionSet) Reals() []float64 {
	var r []float64
	for _, x := range s.Roots {
		if x.Real() {
			r = append(r, x.Re)
		}
	}
	return r
}

// Empty reports whether there is no real solution.
func (s *SolutionSet) Empty() bool {
	return len(s.Reals()) == 0
}

// Contains reports whether v is approximately a real root.
func (s *SolutionSet) Contains(v, tol float64) bool {
	for _, x := range s.Reals() {
		if Approx(x, v, tol) {
			return true
		}
	}
	return false
}

func (s *SolutionSet) String() string {
	if len(s.Roots) == 0 {
		return "no real solution for " + s.Var
	}
	var b strings.Builder
	b.WriteString(s.Var)
	b.WriteString(" = ")
	for i, x := range s.Roots {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(x.String())
	}
	return b.String()
}

// SolveOption is an option for solving equations.
type SolveOption interface {
	solveOption(solvecfg) solvecfg
}

type solvecfg struct {
	name    string
	complex bool
	ctx     *Context
}

type (
	foropt     string
	complexopt struct{}
	usingopt   struct{ ctx *Context }
)

func (o foropt) solveOption(c solvecfg) solvecfg {
	c.name = string(o)
	return c
}

func (complexopt) solveOption(c solvecfg) solvecfg {
	c.complex = true
	return c
}

func (o usingopt) solveOption(c solvecfg) solvecfg {
	c.ctx = o.ctx
	return c
}

// For sets the variable to solve for.
func For(name string) SolveOption {
	return foropt(name)
}

// Complex requests complex roots for quadratics with negative discriminant
// instead of an empty solution set.
func Complex() SolveOption {
	return complexopt{}
}

// Using evaluates constant subexpressions with a clone of ctx, which supplies
// values of other variables and the precision.
func Using(ctx *Context) SolveOption {
	return usingopt{ctx}
}

func newsolvecfg(opts []SolveOption) solvecfg {
	var c solvecfg
	for _, opt := range opts {
		c = opt.solveOption(c)
	}
	if c.ctx == nil {
		c.ctx = NewContext()
	}
	return c
}

// solver holds the state of one solve.
type solver struct {
	ctx  *Context
	name string
}

func (s *solver) isTarget(n *node) bool {
	return n.kind == nodeName && n.name == s.name
}

// target picks the variable to solve for: an explicit option, then the
// equation's own tag, then the only free variable, then x.
func (c *solvecfg) target(eq *Equation) (string, error) {
	if c.name != "" {
		return c.name, nil
	}
	if eq.Var != "" {
		return eq.Var, nil
	}
	var free []string
	for _, v := range eq.Vars() {
		if c.ctx.names[v] == nil {
			free = append(free, v)
		}
	}
	if len(free) == 1 {
		return free[0], nil
	}
	for _, v := range free {
		if v == "x" {
			return v, nil
		}
	}
	if len(free) == 0 && eq.residual().uses("x") {
		// Every variable has a value, but x is still the usual unknown.
		return "x", nil
	}
	if len(free) == 0 {
		return "", &InvalidInputError{Op: "solve", Reason: "no variable to solve for in " + eq.String()}
	}
	return "", &InvalidInputError{Op: "solve", Reason: "ambiguous variable in " + eq.String() + ": " + strings.Join(free, ", ")}
}

// Solve solves an equation in one variable.
func Solve(eq *Equation, opts ...SolveOption) (*SolutionSet, error) {
	cfg := newsolvecfg(opts)
	name, err := cfg.target(eq)
	if err != nil {
		return nil, err
	}
	s := solver{ctx: cfg.ctx.Clone(), name: name}
	delete(s.ctx.names, name)
	res := eq.residual()
	roots, class, err := s.roots(res, 0, cfg.complex)
	if err != nil {
		return nil, err
	}
	roots = sortroots(roots)
	if class != ClassLinear && class != ClassQuadratic {
		// Roots found by inverting functions must lie in the domain of every
		// function in the equation.
		var x big.Float
		for _, r := range roots {
			s.ctx.Set(name, x.SetFloat64(r.Re))
			if _, err := s.ctx.evalNode(res); err != nil {
				return nil, err
			}
		}
	}
	return &SolutionSet{Var: name, Class: class, Roots: roots}, nil
}

// SolveString parses and solves an equation.
func SolveString(src string, opts ...SolveOption) (*SolutionSet, error) {
	eq, err := ParseEquationString(src)
	if err != nil {
		return nil, err
	}
	return Solve(eq, opts...)
}

// SolveLinear solves a*x + b = 0.
func SolveLinear(a, b float64, opts ...SolveOption) (*SolutionSet, error) {
	cfg := newsolvecfg(opts)
	s := solver{name: cfg.varname()}
	if err := s.finite(a, b); err != nil {
		return nil, err
	}
	roots, class, err := s.polyroots(poly{b, a}, false)
	if err != nil {
		return nil, err
	}
	return &SolutionSet{Var: s.name, Class: class, Roots: roots}, nil
}

// SolveQuadratic solves a*x^2 + b*x + c = 0. If a is zero, the equation is
// solved as linear.
func SolveQuadratic(a, b, c float64, opts ...SolveOption) (*SolutionSet, error) {
	cfg := newsolvecfg(opts)
	s := solver{name: cfg.varname()}
	if err := s.finite(a, b, c); err != nil {
		return nil, err
	}
	roots, class, err := s.polyroots(poly{c, b, a}, cfg.complex)
	if err != nil {
		return nil, err
	}
	return &SolutionSet{Var: s.name, Class: class, Roots: sortroots(roots)}, nil
}

func (c *solvecfg) varname() string {
	if c.name == "" {
		return "x"
	}
	return c.name
}

func (s *solver) finite(coefs ...float64) error {
	for _, v := range coefs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return &InvalidInputError{Op: "solve", Reason: "coefficient " + ftoa(v) + " is not finite"}
		}
	}
	return nil
}

// roots solves n = k for the target.
func (s *solver) roots(n *node, k float64, complex bool) ([]Solution, Class, error) {
	p, err := s.poly(n, s.isTarget)
	if err == nil {
		return s.polyroots(p.shift(k), complex)
	}
	var np *notPolyError
	if !errors.As(err, &np) {
		return nil, 0, err
	}
	// Try the target inside a single invertible function.
	atom := s.atom(n)
	if atom == nil {
		return nil, 0, s.unsupported(n)
	}
	p, err = s.poly(n, atom.equal)
	if err != nil {
		if errors.As(err, &np) {
			return nil, 0, s.unsupported(n)
		}
		return nil, 0, err
	}
	vs, _, err := s.polyroots(p.shift(k), false)
	if err != nil {
		return nil, 0, err
	}
	var r []Solution
	for _, v := range vs {
		u, ok := invert(atom.name, v.Re)
		if !ok {
			continue
		}
		sub, _, err := s.roots(atom.left, u, false)
		if err != nil {
			var de *DegenerateEquationError
			if errors.As(err, &de) && !de.AllReals {
				continue
			}
			return nil, 0, err
		}
		r = append(r, sub...)
	}
	return r, inverseClass(atom.name), nil
}

func (s *solver) unsupported(n *node) error {
	return &InvalidInputError{Op: "solve", Reason: "cannot solve " + n.String() + " = 0 for " + s.name}
}

// atom finds the outermost call to an invertible function whose argument
// uses the target.
func (s *solver) atom(n *node) *node {
	var a *node
	n.walk(func(m *node) bool {
		if a != nil {
			return false
		}
		if m.kind == nodeCall && m.left != nil && inverseClass(m.name) != 0 && m.left.uses(s.name) {
			a = m
			return false
		}
		return true
	})
	return a
}

func inverseClass(name string) Class {
	switch name {
	case "log", "ln":
		return ClassLogarithmic
	case "exp":
		return ClassExponential
	case "sqrt":
		return ClassRadical
	default:
		return 0
	}
}

// invert returns u such that f(u) = v, if there is one.
func invert(f string, v float64) (float64, bool) {
	switch f {
	case "log", "ln":
		return math.Exp(v), true
	case "exp":
		if v <= 0 {
			return 0, false
		}
		return math.Log(v), true
	case "sqrt":
		if v < 0 {
			return 0, false
		}
		return v * v, true
	default:
		panic("algebra: no inverse for " + f)
	}
}

// polyroots finds the roots of a polynomial of degree 1 or 2.
func (s *solver) polyroots(p poly, complex bool) ([]Solution, Class, error) {
	p = p.trim()
	switch len(p) - 1 {
	case 0:
		return nil, 0, &DegenerateEquationError{Var: s.name, AllReals: p[0] == 0}
	case 1:
		return []Solution{{Re: -p[0] / p[1]}}, ClassLinear, nil
	case 2:
		return quadratic(p[2], p[1], p[0], complex), ClassQuadratic, nil
	default:
		return nil, 0, &InvalidInputError{Op: "solve", Reason: "degree " + strconv.Itoa(len(p)-1) + " polynomial in " + s.name + " is not supported"}
	}
}

// quadratic finds the roots of a*x^2 + b*x + c for nonzero a.
func quadratic(a, b, c float64, complex bool) []Solution {
	d := b*b - 4*a*c
	if math.Abs(d) <= zeroTol*(b*b+math.Abs(4*a*c)) {
		return []Solution{{Re: -b / (2 * a)}}
	}
	if d < 0 {
		if !complex {
			return nil
		}
		re := -b / (2 * a)
		im := math.Abs(math.Sqrt(-d) / (2 * a))
		return []Solution{{Re: re, Im: -im}, {Re: re, Im: im}}
	}
	// Avoid cancellation between -b and the square root.
	q := -(b + math.Copysign(math.Sqrt(d), b)) / 2
	return []Solution{{Re: q / a}, {Re: c / q}}
}

// sortroots sorts roots by real then imaginary part and removes duplicates.
func sortroots(r []Solution) []Solution {
	less := func(x, y Solution) bool {
		if x.Re != y.Re {
			return x.Re < y.Re
		}
		return x.Im < y.Im
	}
	for i := 1; i < len(r); i++ {
		for j := i; j > 0 && less(r[j], r[j-1]); j-- {
			r[j], r[j-1] = r[j-1], r[j]
		}
	}
	k := 0
	for i, x := range r {
		if i > 0 && Approx(x.Re, r[k-1].Re, DefaultTolerance) && Approx(x.Im, r[k-1].Im, DefaultTolerance) {
			continue
		}
		r[k] = x
		k++
	}
	return r[:k]
}
