package algebra

import (
	"errors"
	"math"
	"math/big"
)

// Point is one sampled point of a function. If the function is undefined at
// X, then Y is NaN and Err holds the *DomainError that evaluation produced.
type Point struct {
	X, Y float64
	Err  error
}

// Defined reports whether the function had a value at the point.
func (p Point) Defined() bool {
	return p.Err == nil
}

// Sample is an ordered sequence of points of a function of one variable.
type Sample []Point

// MaxPoints is the greatest number of points Sample and Table produce.
const MaxPoints = 1 << 20

// Sample evaluates e at n evenly spaced values of the variable name over
// [min, max], inclusive of both ends. Points where evaluation fails with a
// *DomainError are kept but marked undefined; any other error aborts the
// sample. n must be between 2 and MaxPoints. The receiver is not modified.
func (ctx *Context) Sample(e *Expr, name string, min, max float64, n int) (Sample, error) {
	if n < 2 || n > MaxPoints || !(min <= max) || math.IsInf(min, 0) || math.IsInf(max, 0) {
		return nil, &InvalidRangeError{Min: min, Max: max, N: n}
	}
	xs := make([]float64, n)
	step := (max - min) / float64(n-1)
	if math.IsInf(step, 0) {
		// max-min overflows. Step by halves of it instead.
		h := (max/2 - min/2) / float64(n-1)
		for i := range xs {
			d := float64(i) * h
			xs[i] = min + d + d
		}
	} else {
		for i := range xs {
			xs[i] = min + float64(i)*step
		}
	}
	// Accumulated rounding must not move the ends off the bounds.
	xs[0], xs[n-1] = min, max
	return ctx.sample(e, name, xs)
}

// Table evaluates e at each integer from start to end inclusive. The range may
// contain at most MaxPoints integers.
func (ctx *Context) Table(e *Expr, name string, start, end int) (Sample, error) {
	if start > end {
		return nil, &InvalidRangeError{Min: float64(start), Max: float64(end)}
	}
	// Unsigned subtraction gives the span even when end-start overflows int.
	span := uint64(end) - uint64(start)
	if span >= MaxPoints {
		return nil, &InvalidRangeError{Min: float64(start), Max: float64(end), N: MaxPoints + 1}
	}
	xs := make([]float64, span+1)
	for k := range xs {
		xs[k] = float64(start + k)
	}
	return ctx.sample(e, name, xs)
}

func (ctx *Context) sample(e *Expr, name string, xs []float64) (Sample, error) {
	c := ctx.Clone()
	s := make(Sample, len(xs))
	var x big.Float
	for i, v := range xs {
		c.Set(name, x.SetFloat64(v))
		r, err := c.evalNode(e.n)
		if err != nil {
			var de *DomainError
			if !errors.As(err, &de) {
				return nil, err
			}
			s[i] = Point{X: v, Y: math.NaN(), Err: err}
			continue
		}
		y, _ := r.Float64()
		s[i] = Point{X: v, Y: y}
	}
	return s, nil
}

// SampleExpr samples e using a new context with default settings.
func SampleExpr(e *Expr, name string, min, max float64, n int) (Sample, error) {
	return NewContext().Sample(e, name, min, max, n)
}

// Defined returns the number of points at which the function is defined.
func (s Sample) Defined() int {
	k := 0
	for _, p := range s {
		if p.Defined() {
			k++
		}
	}
	return k
}

// Bounds returns the least and greatest defined values in the sample. ok is
// false if no point is defined.
func (s Sample) Bounds() (min, max float64, ok bool) {
	for _, p := range s {
		if !p.Defined() {
			continue
		}
		if !ok {
			min, max, ok = p.Y, p.Y, true
			continue
		}
		if p.Y < min {
			min = p.Y
		}
		if p.Y > max {
			max = p.Y
		}
	}
	return min, max, ok
}
