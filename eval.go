package algebra

import (
	"errors"
	"io"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/zephyrtronium/bigfloat"
)

// Context is a context for evaluating expressions. It holds variable values
// and the precision of calculations. It is not safe to use a Context
// concurrently; use Clone to give each goroutine its own.
type Context struct {
	stack []*big.Float
	nums  map[string]*big.Float
	names map[string]*big.Float
	prec  uint
	err   error
	busy  bool
}

// ContextOption is an option used when creating a context.
type ContextOption interface {
	ctxOption()
}

type (
	varopt struct {
		name string
		val  *big.Float
	}
	varsopt   map[string]*big.Float
	floatsopt map[string]float64
	precopt   uint
)

func (varopt) ctxOption()    {}
func (varsopt) ctxOption()   {}
func (floatsopt) ctxOption() {}
func (precopt) ctxOption()   {}

// SetVar sets the value of a variable in the context.
func SetVar(name string, val *big.Float) ContextOption {
	return varopt{name, val}
}

// SetVars sets the values of any number of variables in the context.
func SetVars(vars map[string]*big.Float) ContextOption {
	return varsopt(vars)
}

// Bindings sets the values of any number of variables in the context from
// float64 values. Applying the option panics if any value is NaN.
func Bindings(vars map[string]float64) ContextOption {
	return floatsopt(vars)
}

// Prec sets the precision of calculations in bits.
func Prec(prec uint) ContextOption {
	return precopt(prec)
}

// NewContext creates a new evaluation context. If no precision is given, the
// default is 64.
func NewContext(opts ...ContextOption) *Context {
	ctx := Context{nums: make(map[string]*big.Float), prec: 64}
	return ctx.Clone(opts...)
}

// Eval evaluates an expression and returns the result. If an error occurs,
// e.g. a missing variable definition or an argument to a function is outside
// the function's domain, then the result is nil and ctx.Err returns the error.
func (ctx *Context) Eval(e *Expr) *big.Float {
	r, err := ctx.evalNode(e.n)
	ctx.err = err
	return r
}

// evalNode evaluates a tree and returns its value, which stays valid until
// the next evaluation with ctx.
func (ctx *Context) evalNode(n *node) (*big.Float, error) {
	if ctx.busy {
		panic("algebra: Eval during Eval")
	}
	ctx.busy = true
	defer func() { ctx.busy = false }()
	if len(ctx.stack) > 0 {
		// The previous result may still be held by the caller.
		ctx.stack[0] = new(big.Float).SetPrec(ctx.prec)
		ctx.stack = ctx.stack[:0]
	}
	if err := n.eval(ctx); err != nil {
		ctx.stack = ctx.stack[:0]
		return nil, err
	}
	if len(ctx.stack) != 1 {
		panic("algebra: inconsistent stack: " + strconv.Itoa(len(ctx.stack)) + " items (bad AST?)")
	}
	return ctx.stack[0], nil
}

// Result returns the result obtained after evaluating an expression. Panics if
// ctx has not been used to evaluate an expression. Returns nil if an error
// occurred during evaluation.
func (ctx *Context) Result() *big.Float {
	if ctx.err != nil {
		return nil
	}
	if len(ctx.stack) != 1 {
		panic("algebra: Context.Result called before evaluating any expression")
	}
	return ctx.stack[0]
}

// Err returns the error from the last evaluation with ctx, if any.
func (ctx *Context) Err() error {
	return ctx.err
}

// Set sets the value of a variable. Returns ctx for chaining. Calling Set
// while the context is being used to evaluate an expression panics.
func (ctx *Context) Set(name string, value *big.Float) *Context {
	if ctx.busy {
		panic("algebra: Set on in-use context")
	}
	if ctx.names == nil {
		ctx.names = make(map[string]*big.Float)
	}
	ctx.names[name] = new(big.Float).SetPrec(ctx.prec).Set(value)
	return ctx
}

// Lookup returns a copy of the value of a variable. If there is no such
// variable in the context, then the result is nil.
func (ctx *Context) Lookup(name string) *big.Float {
	v := ctx.names[name]
	if v == nil {
		return nil
	}
	return new(big.Float).Copy(v)
}

// Prec returns the precision to which values are computed in the context.
func (ctx *Context) Prec() uint {
	return ctx.prec
}

// Clone creates a copy of a context and applies options to it. The returned
// context has no Result and is safe to use to evaluate an expression.
func (ctx *Context) Clone(opts ...ContextOption) *Context {
	n := Context{
		stack: make([]*big.Float, 0, cap(ctx.stack)),
		nums:  make(map[string]*big.Float, len(ctx.nums)),
		names: make(map[string]*big.Float, len(ctx.names)),
		prec:  ctx.prec,
	}
	// First, check for a precision setting. Loop backward so we apply the last
	// precision.
	for i := len(opts) - 1; i >= 0; i-- {
		if p, ok := opts[i].(precopt); ok {
			n.prec = uint(p)
			break
		}
	}
	// Copy numbers only if the new precision is no higher than the old, so
	// that we always use the precision we need.
	if n.prec <= ctx.prec {
		for k, v := range ctx.nums {
			n.nums[k] = new(big.Float).SetPrec(n.prec).Set(v)
		}
	}
	// Copy variables. (We always need a copy in case of Set.) If we have the
	// same precision, we can just copy pointers, since Set replaces them.
	if n.prec == ctx.prec {
		for name, val := range ctx.names {
			n.names[name] = val
		}
	} else {
		for name, val := range ctx.names {
			n.names[name] = new(big.Float).SetPrec(n.prec).Set(val)
		}
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		switch opt := opt.(type) {
		case varopt:
			n.names[opt.name] = new(big.Float).SetPrec(n.prec).Set(opt.val)
		case varsopt:
			for k, v := range opt {
				n.names[k] = new(big.Float).SetPrec(n.prec).Set(v)
			}
		case floatsopt:
			for k, v := range opt {
				n.names[k] = new(big.Float).SetPrec(n.prec).SetFloat64(v)
			}
		case precopt:
			// Already done. Do nothing.
		default:
			panic("algebra: unknown option type")
		}
	}
	return &n
}

// push ensures a settable value on the stack.
func (ctx *Context) push() *big.Float {
	if len(ctx.stack) < cap(ctx.stack) {
		ctx.stack = ctx.stack[:len(ctx.stack)+1]
		if ctx.stack[len(ctx.stack)-1] == nil {
			ctx.stack[len(ctx.stack)-1] = new(big.Float).SetPrec(ctx.prec)
		}
	} else {
		ctx.stack = append(ctx.stack, new(big.Float).SetPrec(ctx.prec))
	}
	return ctx.stack[len(ctx.stack)-1]
}

// pop removes the top from the stack and returns it. The returned value may be
// modified by future node evaluations.
func (ctx *Context) pop() *big.Float {
	r := ctx.stack[len(ctx.stack)-1]
	ctx.stack = ctx.stack[:len(ctx.stack)-1]
	return r
}

// top is a shortcut to get the top element of the stack.
func (ctx *Context) top() *big.Float {
	return ctx.stack[len(ctx.stack)-1]
}

// num gets a possibly cached number from its text.
func (ctx *Context) num(s string) *big.Float {
	if r := ctx.nums[s]; r != nil {
		return r
	}
	r, _, err := new(big.Float).SetPrec(ctx.prec).Parse(s, 0)
	switch {
	case err == nil: // do nothing
	case err.Error() == "exponent overflow",
		strings.HasSuffix(err.Error(), ": value out of range"):
		// There isn't realistically any better way to detect this error.
		// N.B. s is non-empty, otherwise we couldn't overflow.
		r = new(big.Float).SetInf(s[0] == '-')
	default:
		panic("algebra: invalid number: " + s + " (" + err.Error() + ")")
	}
	ctx.nums[s] = r
	return r
}

// eval pushes the node's value to the context's stack.
func (n *node) eval(ctx *Context) error {
	switch n.kind {
	case nodeNum:
		ctx.push().Set(ctx.num(n.name))
	case nodeName:
		v := ctx.names[n.name]
		if v == nil {
			return &NameError{Name: n.name}
		}
		ctx.push().Set(v)
	case nodeCall:
		r := ctx.push()
		k := len(ctx.stack)
		if n.left != nil {
			if err := n.left.eval(ctx); err != nil {
				return err
			}
		}
		invoc := ctx.stack[k:len(ctx.stack):len(ctx.stack)]
		if err := n.fn.Call(ctx, invoc, r); err != nil {
			var de *DomainError
			if errors.As(err, &de) && de.Func == "" {
				de.Func = n.name
				de.Expr = n.String()
			}
			return err
		}
		ctx.stack = ctx.stack[:k]
	case nodeNeg:
		if err := n.left.eval(ctx); err != nil {
			return err
		}
		v := ctx.top()
		v.Neg(v)
	case nodeAdd, nodeSub, nodeMul, nodeDiv, nodePow:
		if err := n.left.eval(ctx); err != nil {
			return err
		}
		if err := n.right.eval(ctx); err != nil {
			return err
		}
		r := ctx.pop()
		l := ctx.top()
		return n.arith(ctx, l, r)
	default:
		panic("algebra: invalid AST node " + n.kind.String())
	}
	return nil
}

// arith sets l to l op r. Operations with no real result, like inf - inf or
// division by zero, produce a *DomainError.
func (n *node) arith(ctx *Context, l, r *big.Float) (err error) {
	defer func() {
		p := recover()
		if p == nil {
			return
		}
		if _, ok := p.(big.ErrNaN); !ok {
			panic(p)
		}
		err = n.domain(r)
	}()
	switch n.kind {
	case nodeAdd:
		l.Add(l, r)
	case nodeSub:
		l.Sub(l, r)
	case nodeMul:
		l.Mul(l, r)
	case nodeDiv:
		if r.Sign() == 0 {
			return n.domain(r)
		}
		l.Quo(l, r)
	case nodePow:
		return ctx.pow(n, l, r)
	default:
		panic("algebra: arith on " + n.kind.String())
	}
	return nil
}

// op returns the operator symbol for a binary node.
func (n *node) op() string {
	switch n.kind {
	case nodeAdd:
		return "+"
	case nodeSub:
		return "-"
	case nodeMul:
		return "*"
	case nodeDiv:
		return "/"
	case nodePow:
		return "^"
	default:
		return n.kind.String()
	}
}

// domain creates a DomainError for evaluating n with the offending value x.
func (n *node) domain(x *big.Float) error {
	return &DomainError{X: new(big.Float).Copy(x), Func: n.op(), Expr: n.String()}
}

// pow sets l to l^r. Negative bases are allowed only with integer exponents.
func (ctx *Context) pow(n *node, l, r *big.Float) error {
	switch {
	case l.IsInf() || r.IsInf():
		x, _ := l.Float64()
		y, _ := r.Float64()
		z := math.Pow(x, y)
		if math.IsNaN(z) {
			return n.domain(l)
		}
		l.SetFloat64(z)
	case l.Sign() == 0:
		switch r.Sign() {
		case 1:
			l.SetInt64(0)
		case 0:
			l.SetInt64(1)
		default:
			// 0^-k is a division by zero.
			return n.domain(l)
		}
	case r.IsInt():
		ctx.intpow(l, r)
	case l.Signbit():
		return n.domain(l)
	default:
		bigfloat.Pow(l, l, r)
	}
	return nil
}

// intpow sets l to l^r where r is an integer and l is finite and nonzero.
func (ctx *Context) intpow(l, r *big.Float) {
	k, acc := r.Int64()
	if acc != big.Exact || k == math.MinInt64 {
		// Too big to square and multiply. Use the magnitude and fix the sign
		// by parity.
		i, _ := r.Int(nil)
		neg := l.Signbit() && i.Bit(0) == 1
		l.Abs(l)
		bigfloat.Pow(l, l, r)
		if neg {
			l.Neg(l)
		}
		return
	}
	inv := k < 0
	if inv {
		k = -k
	}
	z := new(big.Float).SetPrec(ctx.prec).SetInt64(1)
	b := new(big.Float).SetPrec(ctx.prec).Set(l)
	for k > 0 {
		if k&1 == 1 {
			z.Mul(z, b)
		}
		k >>= 1
		if k > 0 {
			b.Mul(b, b)
		}
	}
	if inv {
		z.Quo(new(big.Float).SetPrec(ctx.prec).SetInt64(1), z)
	}
	l.Set(z)
}

// Evaluate evaluates an expression with the given variable values in float64
// at the default precision.
func Evaluate(e *Expr, bindings map[string]float64) (float64, error) {
	for name, v := range bindings {
		if math.IsNaN(v) {
			return 0, &ValueError{Value: v, Reason: "value of " + strconv.Quote(name)}
		}
	}
	ctx := NewContext(Bindings(bindings))
	r := ctx.Eval(e)
	if r == nil {
		return 0, ctx.Err()
	}
	f, _ := r.Float64()
	return f, nil
}

// Eval is a shortcut to parse an expression and return its result using the
// default functions.
func Eval(src io.RuneScanner, opts ...ContextOption) (*big.Float, error) {
	ctx := NewContext(opts...)
	a, err := Parse(src)
	if err != nil {
		return nil, err
	}
	ctx.Eval(a)
	return ctx.Result(), ctx.Err()
}

// EvalString is a shortcut to parse and evaluate a string expression.
func EvalString(src string, opts ...ContextOption) (*big.Float, error) {
	return Eval(strings.NewReader(src), opts...)
}

// NameError is an error from a lookup for a variable that is missing from the
// evaluation context.
type NameError struct {
	// Name is the name that was missing.
	Name string
}

func (err *NameError) Error() string {
	return "undefined variable: " + strconv.Quote(err.Name)
}
