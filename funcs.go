package algebra

import (
	"math"
	"math/big"

	"github.com/zephyrtronium/bigfloat"
)

// Func is a function from reals to reals.
type Func interface {
	// Call evaluates the function. The function arguments are passed in
	// invoc, which has a length for which CanCall returned true. The function
	// must set r to its result and should not use the value of r otherwise.
	// Call may modify the elements of invoc. An argument outside the
	// function's domain should be reported with a *DomainError; the evaluator
	// fills in the function name and subexpression.
	Call(ctx *Context, invoc []*big.Float, r *big.Float) error

	// CanCall returns whether the function can be called with n arguments,
	// which is always 0 or 1. Functions that can be called with 0 arguments
	// may be written without parentheses.
	CanCall(n int) bool
}

var globalfuncs = map[string]Func{
	"exp":  Monadic(bigfloat.Exp),
	"ln":   Restricted(bigfloat.Log, positive),
	"log":  Restricted(bigfloat.Log, positive),
	"sqrt": Restricted((*big.Float).Sqrt, nonnegative),

	// trig, computed in float64 since bigfloat doesn't have it
	"cos": Restricted(float64fn(math.Cos), finite),
	"sin": Restricted(float64fn(math.Sin), finite),
	"tan": Restricted(float64fn(math.Tan), finite),

	// constants
	"pi": Niladic(bigfloat.Pi),
	"e": Niladic(func(out *big.Float) *big.Float {
		var one big.Float
		one.SetFloat64(1)
		return bigfloat.Exp(out, &one)
	}),
}

func positive(x *big.Float) bool    { return x.Sign() > 0 }
func nonnegative(x *big.Float) bool { return x.Sign() >= 0 }
func finite(x *big.Float) bool      { return !x.IsInf() }

// float64fn adapts a float64 function to the shape Monadic wants.
func float64fn(f func(float64) float64) func(out, in *big.Float) *big.Float {
	return func(out, in *big.Float) *big.Float {
		x, _ := in.Float64()
		return out.SetFloat64(f(x))
	}
}

type monadic struct {
	f  func(out, in *big.Float) *big.Float
	ok func(in *big.Float) bool
}

func (m monadic) Call(ctx *Context, invoc []*big.Float, r *big.Float) (err error) {
	in := invoc[0]
	if m.ok != nil && !m.ok(in) {
		return &DomainError{X: new(big.Float).Copy(in)}
	}
	defer func() {
		p := recover()
		if p == nil {
			return
		}
		if _, ok := p.(big.ErrNaN); !ok {
			panic(p)
		}
		err = &DomainError{X: new(big.Float).Copy(in)}
	}()
	r.SetPrec(ctx.Prec())
	m.f(r, in)
	return nil
}

func (m monadic) CanCall(n int) bool {
	return n == 1
}

// Monadic wraps a function of one variable into a Func. f must set out to its
// result, to the precision of out; its return value is always ignored. If f is
// called on an argument outside its domain, it should panic with big.ErrNaN.
func Monadic(f func(out, in *big.Float) *big.Float) Func {
	return monadic{f: f}
}

// Restricted is like Monadic, but the function is only called for arguments
// for which ok returns true. Other arguments produce a *DomainError.
func Restricted(f func(out, in *big.Float) *big.Float, ok func(in *big.Float) bool) Func {
	return monadic{f: f, ok: ok}
}

type niladic struct {
	f func(out *big.Float) *big.Float
}

func (n niladic) Call(ctx *Context, invoc []*big.Float, r *big.Float) error {
	r.SetPrec(ctx.Prec())
	n.f(r)
	return nil
}

func (n niladic) CanCall(k int) bool {
	return k == 0
}

// Niladic wraps a function of zero variables, generally a function which
// computes a constant, into a Func. f must set out to its result; its return
// value is always ignored. Unlike Monadic, the wrapped function is expected
// never to panic.
func Niladic(f func(out *big.Float) *big.Float) Func {
	return niladic{f}
}

// DomainError is an error returned when a function or operator is evaluated
// outside its domain: division by zero, the logarithm of a non-positive
// number, the square root of a negative number, and so on.
type DomainError struct {
	// X is the out-of-domain argument.
	X *big.Float
	// Func is a name identifying the function or operator.
	Func string
	// Expr is the subexpression whose evaluation failed.
	Expr string
}

func (err *DomainError) Error() string {
	r := "undefined"
	if err.X != nil {
		r = err.X.String() + " outside domain"
	}
	if err.Func != "" {
		r += " of " + err.Func
	}
	if err.Expr != "" {
		r += " in " + err.Expr
	}
	return r
}
