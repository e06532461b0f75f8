package main

import (
	"fmt"
	"math"
	"math/big"
	"sort"
	"strconv"
	"strings"

	"github.com/zephyrtronium/algebra"
)

// runner executes one kind of request on each input item.
type runner struct {
	cfg  *config
	ctx  *algebra.Context
	mode func(r *runner, s string) (string, error)
	echo bool
}

var modes = map[string]func(r *runner, s string) (string, error){
	"eval":       evalMode,
	"solve":      solveMode,
	"sample":     sampleMode,
	"table":      tableMode,
	"frac":       fracMode,
	"percent":    percentMode,
	"sci":        sciMode,
	"sqrt":       sqrtMode,
	"system":     systemMode,
	"proportion": proportionMode,
}

func modeNames() string {
	v := make([]string, 0, len(modes))
	for k := range modes {
		v = append(v, k)
	}
	sort.Strings(v)
	return strings.Join(v, "|")
}

func newRunner(cfg *config) (*runner, error) {
	m := modes[cfg.Mode]
	if m == nil {
		return nil, fmt.Errorf("unknown mode %q (want %s)", cfg.Mode, modeNames())
	}
	if cfg.Precision <= 0 {
		return nil, fmt.Errorf("precision (%d) must be positive", cfg.Precision)
	}
	r := runner{
		cfg:  cfg,
		ctx:  algebra.NewContext(algebra.Prec(uint(cfg.Precision))),
		mode: m,
	}
	for _, g := range cfg.Given {
		if err := r.given(g); err != nil {
			return nil, err
		}
	}
	return &r, nil
}

// given evaluates a "name=value" definition and sets the variable. Values
// may refer to variables defined before them.
func (r *runner) given(s string) error {
	name, value, err := splitGiven(s)
	if err != nil {
		return err
	}
	e, err := algebra.ParseString(value)
	if err != nil {
		return fmt.Errorf("setting %s: %w", name, err)
	}
	v := r.ctx.Eval(e)
	if v == nil {
		return fmt.Errorf("setting %s: %w", name, r.ctx.Err())
	}
	r.ctx.Set(name, v)
	return nil
}

func (r *runner) do(s string) (string, error) {
	return r.mode(r, s)
}

// interactive is like do, except that in the eval and solve modes the input
// picks between them by whether it has an equals sign.
func (r *runner) interactive(s string) (string, error) {
	if r.cfg.Mode == "eval" || r.cfg.Mode == "solve" {
		if strings.Contains(s, "=") {
			return solveMode(r, s)
		}
		return evalMode(r, s)
	}
	return r.do(s)
}

func (r *runner) varOr(def string) string {
	if r.cfg.Var != "" {
		return r.cfg.Var
	}
	return def
}

func (r *runner) prefix(v fmt.Stringer) string {
	if !r.echo {
		return ""
	}
	return v.String() + " : "
}

func (r *runner) eval(s string) (*big.Float, *algebra.Expr, error) {
	e, err := algebra.ParseString(s)
	if err != nil {
		return nil, nil, err
	}
	v := r.ctx.Eval(e)
	if v == nil {
		return nil, nil, r.ctx.Err()
	}
	return v, e, nil
}

func (r *runner) evalFloat(s string) (float64, error) {
	v, _, err := r.eval(s)
	if err != nil {
		return 0, err
	}
	f, _ := v.Float64()
	return f, nil
}

func evalMode(r *runner, s string) (string, error) {
	v, e, err := r.eval(s)
	if err != nil {
		return "", err
	}
	return r.prefix(e) + fmt.Sprintf(r.cfg.Format, v), nil
}

func (r *runner) solveOpts() []algebra.SolveOption {
	opts := []algebra.SolveOption{algebra.Using(r.ctx)}
	if r.cfg.Var != "" {
		opts = append(opts, algebra.For(r.cfg.Var))
	}
	if r.cfg.Complex {
		opts = append(opts, algebra.Complex())
	}
	return opts
}

func solveMode(r *runner, s string) (string, error) {
	eq, err := algebra.ParseEquationString(s)
	if err != nil {
		return "", err
	}
	sol, err := algebra.Solve(eq, r.solveOpts()...)
	if err != nil {
		return "", err
	}
	return r.prefix(eq) + sol.String(), nil
}

func formatSample(s algebra.Sample) string {
	var b strings.Builder
	for i, p := range s {
		if i > 0 {
			b.WriteByte('\n')
		}
		if p.Defined() {
			fmt.Fprintf(&b, "%g\t%g", p.X, p.Y)
		} else {
			fmt.Fprintf(&b, "%g\tundefined", p.X)
		}
	}
	return b.String()
}

func sampleMode(r *runner, s string) (string, error) {
	e, err := algebra.ParseString(s)
	if err != nil {
		return "", err
	}
	min, max, n, err := parseRange(r.cfg.Range)
	if err != nil {
		return "", err
	}
	smp, err := r.ctx.Sample(e, r.varOr("x"), min, max, n)
	if err != nil {
		return "", err
	}
	return r.prefix(e) + formatSample(smp), nil
}

func tableMode(r *runner, s string) (string, error) {
	e, err := algebra.ParseString(s)
	if err != nil {
		return "", err
	}
	min, max, _, err := parseRange(r.cfg.Range)
	if err != nil {
		return "", err
	}
	start, ok1 := toInt(min)
	end, ok2 := toInt(max)
	if !ok1 || !ok2 {
		return "", &algebra.InvalidRangeError{Min: min, Max: max}
	}
	smp, err := r.ctx.Table(e, r.varOr("x"), start, end)
	if err != nil {
		return "", err
	}
	return r.prefix(e) + formatSample(smp), nil
}

// toInt truncates x to an int, reporting false if x is NaN or out of range.
func toInt(x float64) (int, bool) {
	x = math.Trunc(x)
	if !(x >= math.MinInt && x < -math.MinInt) {
		return 0, false
	}
	return int(x), true
}

func (r *runner) conversion(c algebra.Conversion) string {
	return strconv.FormatFloat(c.Decimal, 'g', -1, 64) + " = " + c.Fraction.String() + " = " + algebra.FormatPercent(c.Decimal, r.cfg.PercentPlaces)
}

func fracMode(r *runner, s string) (string, error) {
	if f, err := algebra.ParseFraction(s); err == nil {
		c, err := algebra.FractionToDecimal(f.Num, f.Den)
		if err != nil {
			return "", err
		}
		return r.conversion(c), nil
	}
	d, err := r.evalFloat(s)
	if err != nil {
		return "", err
	}
	c, err := algebra.DecimalToFraction(d, r.cfg.MaxDenominator)
	if err != nil {
		return "", err
	}
	return r.conversion(c), nil
}

func percentMode(r *runner, s string) (string, error) {
	p, err := r.evalFloat(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	if err != nil {
		return "", err
	}
	c, err := algebra.PercentToDecimal(p, r.cfg.MaxDenominator)
	if err != nil {
		return "", err
	}
	return r.conversion(c), nil
}

func sciMode(r *runner, s string) (string, error) {
	x, err := r.evalFloat(s)
	if err != nil {
		return "", err
	}
	sc, err := algebra.ScientificNotation(x, r.cfg.Digits)
	if err != nil {
		return "", err
	}
	return sc.String() + " (" + sc.Text + ")", nil
}

func sqrtMode(r *runner, s string) (string, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return "", fmt.Errorf("sqrt needs an integer: %w", err)
	}
	rad, err := algebra.SimplifySqrt(n)
	if err != nil {
		return "", err
	}
	return "sqrt(" + strconv.FormatInt(n, 10) + ") = " + rad.String(), nil
}

func systemMode(r *runner, s string) (string, error) {
	parts := strings.Split(s, ";")
	if len(parts) != 2 {
		return "", fmt.Errorf(`system must be two equations separated by ";", not %q`, s)
	}
	x, y := "x", "y"
	if r.cfg.Var != "" {
		v := strings.Split(r.cfg.Var, ",")
		if len(v) != 2 {
			return "", fmt.Errorf(`system variables must be "x,y", not %q`, r.cfg.Var)
		}
		x, y = strings.TrimSpace(v[0]), strings.TrimSpace(v[1])
	}
	e1, err := algebra.ParseEquationString(parts[0])
	if err != nil {
		return "", err
	}
	e2, err := algebra.ParseEquationString(parts[1])
	if err != nil {
		return "", err
	}
	sol, err := algebra.SolveSystem(e1, e2, x, y, algebra.Using(r.ctx))
	if err != nil {
		return "", err
	}
	return sol.String(), nil
}

func proportionMode(r *runner, s string) (string, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return "", fmt.Errorf(`proportion must be "a,b,c,d" for a/b = c/d, not %q`, s)
	}
	var t [4]algebra.Term
	for i, p := range parts {
		v, err := algebra.ParseTerm(p)
		if err != nil {
			return "", err
		}
		t[i] = v
	}
	v, err := algebra.SolveProportion(t[0], t[1], t[2], t[3])
	if err != nil {
		return "", err
	}
	return "x = " + strconv.FormatFloat(v, 'g', -1, 64), nil
}
