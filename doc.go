// Package algebra parses, evaluates and solves small algebraic formulas.
//
// Expressions are written the way you'd type them into a calculator, with
// explicit operators: "2*x^2 - 3*x + 1", "sqrt(x)", "log(x - 1)". "-2^2" is
// the same as "-(2^2)" and "a^b^c" is "a^(b^c)". Juxtaposition is not
// multiplication, so "2 x" and "2(x+1)" are parse errors.
//
// Parse an expression once and evaluate or sample it at as many points as you
// like. Equations ("2*x + 3 = 7", or "2*x - 4" meaning "= 0") are solved when
// they are linear, quadratic, or become so after inverting a single log, exp
// or sqrt. There are also 2×2 linear systems, proportions, and conversions
// among decimals, fractions, percents and scientific notation.
//
package algebra
