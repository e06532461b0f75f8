package algebra_test

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"testing"

	"github.com/zephyrtronium/algebra"
)

func TestSolve(t *testing.T) {
	cases := []struct {
		name  string
		src   string
		class algebra.Class
		roots []float64
	}{
		{"linear", "2*x + 3 = 7", algebra.ClassLinear, []float64{2}},
		{"implied-zero", "2*x + 3 - 7", algebra.ClassLinear, []float64{2}},
		{"both-sides", "3*x - 1 = x + 5", algebra.ClassLinear, []float64{3}},
		{"fraction", "x/4 + 1 = 2", algebra.ClassLinear, []float64{4}},
		{"distribute", "2*(x - 1) = -(x + 5)", algebra.ClassLinear, []float64{-1}},
		{"squares", "x^2 = 4", algebra.ClassQuadratic, []float64{-2, 2}},
		{"trinomial", "x^2 - 5*x + 6 = 0", algebra.ClassQuadratic, []float64{2, 3}},
		{"double", "x^2 - 2*x + 1 = 0", algebra.ClassQuadratic, []float64{1}},
		{"product", "(x - 1)*(x + 3) = 0", algebra.ClassQuadratic, []float64{-3, 1}},
		{"cancel", "x^3 + x^2 - x^3 = 9", algebra.ClassQuadratic, []float64{-3, 3}},
		{"no-real", "x^2 + 1 = 0", algebra.ClassQuadratic, nil},
		{"log", "log(x) = 3", algebra.ClassLogarithmic, []float64{math.Exp(3)}},
		{"ln-shift", "ln(x - 1) = 0", algebra.ClassLogarithmic, []float64{2}},
		{"exp", "exp(x) = 1", algebra.ClassExponential, []float64{0}},
		{"exp-scaled", "2*exp(3*x) = 2*e", algebra.ClassExponential, []float64{1.0 / 3}},
		{"exp-neg", "exp(x) = -1", algebra.ClassExponential, nil},
		{"sqrt", "sqrt(x) = 3", algebra.ClassRadical, []float64{9}},
		{"sqrt-shift", "sqrt(x + 1) = 2", algebra.ClassRadical, []float64{3}},
		{"sqrt-neg", "sqrt(x) = -1", algebra.ClassRadical, nil},
		{"sqrt-quadratic", "sqrt(x^2) = 5", algebra.ClassRadical, []float64{-5, 5}},
	}
	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			s, err := algebra.SolveString(c.src)
			if err != nil {
				t.Fatalf("%q: %v", c.src, err)
			}
			if s.Var != "x" {
				t.Errorf("solved for %q", s.Var)
			}
			if s.Class != c.class {
				t.Errorf("wrong class: want %v, got %v", c.class, s.Class)
			}
			r := s.Reals()
			if len(r) != len(c.roots) {
				t.Fatalf("wrong roots: want %v, got %v", c.roots, r)
			}
			for i, x := range r {
				if !algebra.Approx(x, c.roots[i], 1e-12) {
					t.Errorf("wrong root %d: want %g, got %g", i, c.roots[i], x)
				}
			}
			if s.Empty() != (len(c.roots) == 0) {
				t.Errorf("Empty is %v with roots %v", s.Empty(), r)
			}
		})
	}
}

func TestSolveComplex(t *testing.T) {
	s, err := algebra.SolveString("x^2 + 2*x + 5 = 0", algebra.Complex())
	if err != nil {
		t.Fatal(err)
	}
	want := []algebra.Solution{{Re: -1, Im: -2}, {Re: -1, Im: 2}}
	if len(s.Roots) != 2 {
		t.Fatalf("wrong roots: want %v, got %v", want, s.Roots)
	}
	for i, r := range s.Roots {
		if r.Real() || !algebra.Approx(r.Re, want[i].Re, 1e-12) || !algebra.Approx(r.Im, want[i].Im, 1e-12) {
			t.Errorf("wrong root %d: want %v, got %v", i, want[i], r)
		}
	}
	if !s.Empty() {
		t.Error("complex roots counted as real")
	}
	if got := s.String(); got != "x = -1-2i, -1+2i" {
		t.Errorf("wrong string %q", got)
	}
}

func TestSolveErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		err  interface{}
	}{
		{"identity", "x - x = 0", new(*algebra.DegenerateEquationError)},
		{"contradiction", "x = x + 1", new(*algebra.DegenerateEquationError)},
		{"cubic", "x^3 = 1", new(*algebra.InvalidInputError)},
		{"trig", "sin(x) = 0", new(*algebra.InvalidInputError)},
		{"recip", "1/x = 2", new(*algebra.InvalidInputError)},
		{"var-exp", "2^x = 8", new(*algebra.InvalidInputError)},
		{"ambiguous", "a + b = 1", new(*algebra.InvalidInputError)},
		{"no-var", "1 = 1", new(*algebra.InvalidInputError)},
		{"unbound", "x + k = 1", new(*algebra.NameError)},
		{"div-zero", "x/0 = 1", new(*algebra.DomainError)},
		{"const-domain", "x + sqrt(-1) = 1", new(*algebra.DomainError)},
		{"parse", "2*(x + 3 = 1", new(algebra.ParseError)},
	}
	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			s, err := algebra.SolveString(c.src)
			if err == nil {
				t.Fatalf("%q: no error; got %v", c.src, s)
			}
			if !errors.As(err, c.err) {
				t.Errorf("%q: wrong error type %T: %v", c.src, err, err)
			}
		})
	}
}

func TestSolveDegenerateMessage(t *testing.T) {
	_, err := algebra.SolveString("2*x = x + x")
	var de *algebra.DegenerateEquationError
	if !errors.As(err, &de) || !de.AllReals {
		t.Fatalf("want all-reals DegenerateEquationError, got %#v", err)
	}
	if got := err.Error(); got != "equation is true for every x" {
		t.Errorf("wrong message %q", got)
	}
	_, err = algebra.SolveString("0*x = 1")
	if !errors.As(err, &de) || de.AllReals {
		t.Fatalf("want no-solution DegenerateEquationError, got %#v", err)
	}
	if got := err.Error(); got != "equation has no solution for x" {
		t.Errorf("wrong message %q", got)
	}
}

func TestSolveTarget(t *testing.T) {
	ctx := algebra.NewContext(algebra.Bindings(map[string]float64{"a": 2, "b": -4, "x": 100}))
	cases := []struct {
		name string
		src  string
		opts []algebra.SolveOption
		v    string
		root float64
	}{
		{"only", "y + 1 = 3", nil, "y", 2},
		{"prefer-x", "x + 2*y = 3", []algebra.SolveOption{algebra.Using(algebra.NewContext(algebra.Bindings(map[string]float64{"y": 1})))}, "x", 1},
		{"for", "t^2 = 9 + 0*u", []algebra.SolveOption{algebra.For("u"), algebra.For("t"), algebra.Using(algebra.NewContext(algebra.Bindings(map[string]float64{"u": 0})))}, "t", -3},
		{"using", "a*x + b = 0", []algebra.SolveOption{algebra.Using(ctx)}, "x", 2},
		{"using-free", "a*z + b = 0", []algebra.SolveOption{algebra.Using(ctx)}, "z", 2},
		{"for-bound", "a*x + b = 0", []algebra.SolveOption{algebra.Using(ctx), algebra.For("a")}, "a", 0.04},
	}
	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			s, err := algebra.SolveString(c.src, c.opts...)
			if err != nil {
				t.Fatal(err)
			}
			if s.Var != c.v {
				t.Errorf("solved for %q instead of %q", s.Var, c.v)
			}
			if r := s.Reals(); len(r) == 0 || !algebra.Approx(r[0], c.root, 1e-12) {
				t.Errorf("wrong roots: want %g first, got %v", c.root, r)
			}
		})
	}
	if x := ctx.Lookup("x"); x == nil {
		t.Error("solving removed x from the context")
	} else if f, _ := x.Float64(); f != 100 {
		t.Errorf("solving changed x in the context to %v", x)
	}
}

func TestEquationVar(t *testing.T) {
	eq, err := algebra.ParseEquationString("p*q = 6")
	if err != nil {
		t.Fatal(err)
	}
	eq.Var = "q"
	s, err := algebra.Solve(eq, algebra.Using(algebra.NewContext(algebra.Bindings(map[string]float64{"p": 3}))))
	if err != nil {
		t.Fatal(err)
	}
	if s.Var != "q" || !s.Contains(2, algebra.DefaultTolerance) {
		t.Errorf("wrong solution %v", s)
	}
}

func TestSolveLinear(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 1000; i++ {
		a := rng.NormFloat64() * 100
		b := rng.NormFloat64() * 100
		if a == 0 {
			continue
		}
		s, err := algebra.SolveLinear(a, b)
		if err != nil {
			t.Fatalf("%g*x + %g: %v", a, b, err)
		}
		if len(s.Roots) != 1 || s.Class != algebra.ClassLinear {
			t.Fatalf("%g*x + %g: wrong solution %v", a, b, s)
		}
		x := s.Roots[0].Re
		if r := a*x + b; !algebra.Approx(r, 0, 1e-12*math.Max(math.Abs(a*x), math.Abs(b))) {
			t.Errorf("%g*x + %g: residual %g at x=%g", a, b, r, x)
		}
	}
	_, err := algebra.SolveLinear(0, 1)
	var de *algebra.DegenerateEquationError
	if !errors.As(err, &de) || de.AllReals {
		t.Errorf("0*x + 1: want no-solution error, got %#v", err)
	}
	_, err = algebra.SolveLinear(0, 0)
	if !errors.As(err, &de) || !de.AllReals {
		t.Errorf("0*x + 0: want all-reals error, got %#v", err)
	}
	_, err = algebra.SolveLinear(math.Inf(1), 0)
	var ie *algebra.InvalidInputError
	if !errors.As(err, &ie) {
		t.Errorf("inf*x: want InvalidInputError, got %#v", err)
	}
}

func TestSolveQuadratic(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	for i := 0; i < 1000; i++ {
		r1 := math.Round(rng.NormFloat64()*1000) / 100
		r2 := math.Round(rng.NormFloat64()*1000) / 100
		if r1 > r2 {
			r1, r2 = r2, r1
		}
		k := 1 + rng.Float64()*9
		a, b, c := k, -k*(r1+r2), k*r1*r2
		s, err := algebra.SolveQuadratic(a, b, c)
		if err != nil {
			t.Fatalf("roots %g, %g: %v", r1, r2, err)
		}
		r := s.Reals()
		want := []float64{r1, r2}
		if r1 == r2 {
			want = want[:1]
		}
		if len(r) != len(want) {
			t.Errorf("roots %g, %g: got %v", r1, r2, r)
			continue
		}
		for j, x := range r {
			if !algebra.Approx(x, want[j], 1e-9) {
				t.Errorf("roots %g, %g: got %v", r1, r2, r)
				break
			}
			if j > 0 && x <= r[j-1] {
				t.Errorf("roots out of order: %v", r)
			}
		}
	}
}

func TestSolveQuadraticCases(t *testing.T) {
	s, err := algebra.SolveQuadratic(1, -1e8, 1)
	if err != nil {
		t.Fatal(err)
	}
	if r := s.Reals(); len(r) != 2 || !algebra.Approx(r[0], 1e-8, 1e-15) || !algebra.Approx(r[1], 1e8, 1e-15) {
		t.Errorf("ill-conditioned roots: %v", r)
	}

	s, err = algebra.SolveQuadratic(0, 2, -4)
	if err != nil {
		t.Fatal(err)
	}
	if s.Class != algebra.ClassLinear || !s.Contains(2, algebra.DefaultTolerance) {
		t.Errorf("a=0 not solved as linear: %v", s)
	}

	s, err = algebra.SolveQuadratic(1, 0, 1)
	if err != nil {
		t.Fatal(err)
	}
	if !s.Empty() || len(s.Roots) != 0 {
		t.Errorf("real roots for x^2 + 1: %v", s)
	}
	if got := s.String(); got != "no real solution for x" {
		t.Errorf("wrong string %q", got)
	}

	s, err = algebra.SolveQuadratic(1, 0, 1, algebra.Complex(), algebra.For("z"))
	if err != nil {
		t.Fatal(err)
	}
	if got := s.String(); got != "z = 0-1i, 0+1i" {
		t.Errorf("wrong complex roots %q", got)
	}

	if _, err := algebra.SolveQuadratic(1, math.NaN(), 1); err == nil {
		t.Error("no error for NaN coefficient")
	}
}

func TestApprox(t *testing.T) {
	cases := []struct {
		a, b, tol float64
		want      bool
	}{
		{1, 1, 0, true},
		{0, 1e-10, 1e-9, true},
		{0, 1e-8, 1e-9, false},
		{1e10, 1e10 + 1, 1e-9, true},
		{1e10, 1e10 + 100, 1e-9, false},
		{math.Inf(1), math.Inf(1), 1e-9, true},
		{math.NaN(), math.NaN(), 1e-9, false},
	}
	for _, c := range cases {
		if got := algebra.Approx(c.a, c.b, c.tol); got != c.want {
			t.Errorf("Approx(%g, %g, %g) = %v", c.a, c.b, c.tol, got)
		}
	}
}

func TestClassString(t *testing.T) {
	cases := map[algebra.Class]string{
		algebra.ClassLinear:      "Linear",
		algebra.ClassQuadratic:   "Quadratic",
		algebra.ClassLogarithmic: "Logarithmic",
		algebra.ClassExponential: "Exponential",
		algebra.ClassRadical:     "Radical",
	}
	for c, want := range cases {
		if got := c.String(); got != want {
			t.Errorf("wrong name for %d: want %q, got %q", c, want, got)
		}
	}
}

func ExampleSolveString() {
	for _, eq := range []string{"2*x + 3 = 7", "x^2 - 4 = 0", "log(x) = 0", "x^2 + 4 = 0"} {
		s, err := algebra.SolveString(eq)
		if err != nil {
			fmt.Println(err)
			continue
		}
		fmt.Printf("%s: %v (%v)\n", eq, s, s.Class)
	}

	// Output:
	// 2*x + 3 = 7: x = 2 (Linear)
	// x^2 - 4 = 0: x = -2, 2 (Quadratic)
	// log(x) = 0: x = 1 (Logarithmic)
	// x^2 + 4 = 0: no real solution for x (Quadratic)
}
