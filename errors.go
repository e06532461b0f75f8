package algebra

import (
	"strconv"
)

// DegenerateEquationError is an error indicating that an equation does not
// depend on the variable being solved for, e.g. "x - x = 0" or "x = x + 1".
type DegenerateEquationError struct {
	// Var is the variable that was being solved for.
	Var string
	// AllReals is true when the equation holds for every value of Var and
	// false when it holds for none.
	AllReals bool
}

func (err *DegenerateEquationError) Error() string {
	if err.AllReals {
		return "equation is true for every " + err.Var
	}
	return "equation has no solution for " + err.Var
}

// InvalidInputError is an error indicating input that is well formed but
// outside what an operation supports, like a cubic equation or a proportion
// with two unknowns.
type InvalidInputError struct {
	// Op names the operation that rejected the input.
	Op string
	// Reason describes the problem.
	Reason string
}

func (err *InvalidInputError) Error() string {
	return err.Op + ": " + err.Reason
}

// InvalidRangeError is an error indicating a bad sampling range.
type InvalidRangeError struct {
	Min, Max float64
	N        int
}

func (err *InvalidRangeError) Error() string {
	return "invalid range [" + ftoa(err.Min) + ", " + ftoa(err.Max) + "] with " + strconv.Itoa(err.N) + " points"
}

// DivisionByZeroError is an error indicating a fraction with a zero
// denominator.
type DivisionByZeroError struct {
	Num int64
}

func (err *DivisionByZeroError) Error() string {
	return "division by zero: " + strconv.FormatInt(err.Num, 10) + "/0"
}

// ValueError is an error indicating a number that an operation cannot
// represent, like NaN or a fraction whose numerator overflows int64.
type ValueError struct {
	Value float64
	// Reason describes where the value came from.
	Reason string
}

func (err *ValueError) Error() string {
	s := "invalid value " + ftoa(err.Value)
	if err.Reason != "" {
		s += " for " + err.Reason
	}
	return s
}

func ftoa(x float64) string {
	if x == 0 {
		// No -0.
		x = 0
	}
	return strconv.FormatFloat(x, 'g', -1, 64)
}
