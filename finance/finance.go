// Package finance computes common personal finance formulas. Each formula is
// an algebra expression parsed once and evaluated with the given values.
package finance

import (
	"github.com/zephyrtronium/algebra"
)

var (
	compound   = algebra.MustParse("pv * (1 + r)^t")
	continuous = algebra.MustParse("pv * exp(r * t)")

	mortgage     = algebra.MustParse("p * (r / 12) / (1 - (1 + r / 12)^-n)")
	mortgageFlat = algebra.MustParse("p / n")

	retirement     = algebra.MustParse("a * (1 + r / 12)^(12 * y) + c * ((1 + r / 12)^(12 * y) - 1) / (r / 12)")
	retirementFlat = algebra.MustParse("a + c * 12 * y")

	// rule of 72
	doubling = algebra.MustParse("72 / (r * 100)")
)

// Growth returns the value of pv after t periods of growth at rate per
// period. If cont is true, growth is compounded continuously.
func Growth(pv, rate, t float64, cont bool) (float64, error) {
	e := compound
	if cont {
		e = continuous
	}
	return algebra.Evaluate(e, map[string]float64{"pv": pv, "r": rate, "t": t})
}

// MortgagePayment returns the monthly payment on a loan of principal at an
// annual interest rate over a number of months.
func MortgagePayment(principal, annualRate, months float64) (float64, error) {
	if annualRate == 0 {
		return algebra.Evaluate(mortgageFlat, map[string]float64{"p": principal, "n": months})
	}
	return algebra.Evaluate(mortgage, map[string]float64{"p": principal, "r": annualRate, "n": months})
}

// RetirementBalance estimates the balance after years of monthly
// contributions on top of an initial amount, compounded monthly at an annual
// rate.
func RetirementBalance(initial, monthly, rate, years float64) (float64, error) {
	if rate == 0 {
		return algebra.Evaluate(retirementFlat, map[string]float64{"a": initial, "c": monthly, "y": years})
	}
	return algebra.Evaluate(retirement, map[string]float64{"a": initial, "c": monthly, "r": rate, "y": years})
}

// DoublingTime estimates the number of periods for an amount to double at
// rate per period. A zero rate is a *algebra.DomainError.
func DoublingTime(rate float64) (float64, error) {
	return algebra.Evaluate(doubling, map[string]float64{"r": rate})
}
