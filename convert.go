package algebra

import (
	"math"
	"math/big"
	"strconv"
	"strings"
)

const (
	// DefaultMaxDenominator is the default bound on fraction denominators.
	DefaultMaxDenominator int64 = 1000000
	// PercentPlaces is the number of decimal places in percent strings.
	PercentPlaces = 2
	// DefaultSignificantDigits is the default number of significant digits in
	// scientific notation.
	DefaultSignificantDigits = 7
)

// Rational is a fraction in lowest terms with a positive denominator.
type Rational struct {
	Num, Den int64
}

// Float64 returns the nearest float64 to r.
func (r Rational) Float64() float64 {
	f, _ := new(big.Rat).SetFrac64(r.Num, r.Den).Float64()
	return f
}

func (r Rational) String() string {
	if r.Den == 1 {
		return strconv.FormatInt(r.Num, 10)
	}
	return strconv.FormatInt(r.Num, 10) + "/" + strconv.FormatInt(r.Den, 10)
}

// Conversion is a number in decimal, fraction and percent forms.
type Conversion struct {
	Decimal  float64
	Fraction Rational
	Percent  string
}

// DecimalToFraction finds the fraction closest to d whose denominator is at
// most maxDen. Ties go to the smaller denominator.
func DecimalToFraction(d float64, maxDen int64) (Conversion, error) {
	if math.IsNaN(d) || math.IsInf(d, 0) {
		return Conversion{}, &ValueError{Value: d, Reason: "fraction conversion"}
	}
	if maxDen < 1 {
		return Conversion{}, &InvalidInputError{Op: "fraction conversion", Reason: "denominator bound " + strconv.FormatInt(maxDen, 10) + " is less than 1"}
	}
	// SetFloat64 is exact, so the search sees the true binary value of d.
	f := limitDenominator(new(big.Rat).SetFloat64(d), maxDen)
	r, ok := rational(f)
	if !ok {
		return Conversion{}, &ValueError{Value: d, Reason: "fraction with int64 numerator"}
	}
	return Conversion{Decimal: d, Fraction: r, Percent: FormatPercent(d, PercentPlaces)}, nil
}

func rational(f *big.Rat) (Rational, bool) {
	if !f.Num().IsInt64() || !f.Denom().IsInt64() {
		return Rational{}, false
	}
	return Rational{Num: f.Num().Int64(), Den: f.Denom().Int64()}, true
}

// limitDenominator walks the continued fraction expansion of x until the
// convergent denominators exceed maxDen, then chooses between the last
// convergent and the best semiconvergent.
func limitDenominator(x *big.Rat, maxDen int64) *big.Rat {
	bound := big.NewInt(maxDen)
	if x.Denom().Cmp(bound) <= 0 {
		return new(big.Rat).Set(x)
	}
	ax := new(big.Rat).Abs(x)
	n := new(big.Int).Set(ax.Num())
	d := new(big.Int).Set(ax.Denom())
	p0, q0 := big.NewInt(0), big.NewInt(1)
	p1, q1 := big.NewInt(1), big.NewInt(0)
	a, q2, t := new(big.Int), new(big.Int), new(big.Int)
	for {
		a.Quo(n, d)
		q2.Mul(a, q1).Add(q2, q0)
		if q2.Cmp(bound) > 0 {
			break
		}
		t.Mul(a, p1).Add(t, p0)
		p0, p1 = p1, new(big.Int).Set(t)
		q0, q1 = q1, new(big.Int).Set(q2)
		t.Mul(a, d)
		n.Sub(n, t)
		n, d = d, n
	}
	k := new(big.Int).Sub(bound, q0)
	k.Quo(k, q1)
	semi := new(big.Rat).SetFrac(
		new(big.Int).Add(p0, new(big.Int).Mul(k, p1)),
		new(big.Int).Add(q0, new(big.Int).Mul(k, q1)),
	)
	conv := new(big.Rat).SetFrac(p1, q1)
	ds := new(big.Rat).Sub(semi, ax)
	ds.Abs(ds)
	dc := new(big.Rat).Sub(conv, ax)
	dc.Abs(dc)
	r := conv
	switch c := ds.Cmp(dc); {
	case c < 0:
		r = semi
	case c == 0 && semi.Denom().Cmp(conv.Denom()) < 0:
		r = semi
	}
	if x.Sign() < 0 {
		r.Neg(r)
	}
	return r
}

// FractionToDecimal converts num/den to lowest terms and to decimal.
func FractionToDecimal(num, den int64) (Conversion, error) {
	if den == 0 {
		return Conversion{}, &DivisionByZeroError{Num: num}
	}
	f := new(big.Rat).SetFrac64(num, den)
	r, ok := rational(f)
	if !ok {
		// Only -MinInt64 can get here.
		v, _ := f.Float64()
		return Conversion{}, &ValueError{Value: v, Reason: "fraction with int64 numerator"}
	}
	d, _ := f.Float64()
	return Conversion{Decimal: d, Fraction: r, Percent: FormatPercent(d, PercentPlaces)}, nil
}

// ParseFraction parses "p/q" or an integer "p" into lowest terms.
func ParseFraction(s string) (Rational, error) {
	num, den := s, "1"
	if i := strings.IndexByte(s, '/'); i >= 0 {
		num, den = s[:i], s[i+1:]
	}
	p, err := strconv.ParseInt(strings.TrimSpace(num), 10, 64)
	if err != nil {
		return Rational{}, &InvalidInputError{Op: "parse fraction " + strconv.Quote(s), Reason: "bad numerator"}
	}
	q, err := strconv.ParseInt(strings.TrimSpace(den), 10, 64)
	if err != nil {
		return Rational{}, &InvalidInputError{Op: "parse fraction " + strconv.Quote(s), Reason: "bad denominator"}
	}
	c, err := FractionToDecimal(p, q)
	if err != nil {
		return Rational{}, err
	}
	return c.Fraction, nil
}

// PercentToDecimal converts p percent to decimal and to the closest fraction
// with denominator at most maxDen.
func PercentToDecimal(p float64, maxDen int64) (Conversion, error) {
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return Conversion{}, &ValueError{Value: p, Reason: "percent conversion"}
	}
	return DecimalToFraction(p/100, maxDen)
}

// FormatPercent formats d as a percentage with the given number of decimal
// places.
func FormatPercent(d float64, places int) string {
	return strconv.FormatFloat(d*100, 'f', places, 64) + "%"
}

// Scientific is a number in scientific notation.
type Scientific struct {
	// Mantissa is in [1, 10) in magnitude, or zero.
	Mantissa float64
	Exponent int
	// Text is the number formatted like 1.234560e+03.
	Text string
	// Value is the number that Text represents.
	Value float64
}

func (s Scientific) String() string {
	m := s.Text
	if i := strings.IndexByte(m, 'e'); i >= 0 {
		m = m[:i]
	}
	return m + " × 10^" + strconv.Itoa(s.Exponent)
}

// ScientificNotation formats x with the given number of significant digits.
func ScientificNotation(x float64, digits int) (Scientific, error) {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return Scientific{}, &ValueError{Value: x, Reason: "scientific notation"}
	}
	if digits < 1 {
		return Scientific{}, &InvalidInputError{Op: "scientific notation", Reason: strconv.Itoa(digits) + " significant digits"}
	}
	text := strconv.FormatFloat(x, 'e', digits-1, 64)
	i := strings.IndexByte(text, 'e')
	m, err := strconv.ParseFloat(text[:i], 64)
	if err != nil {
		panic("algebra: bad mantissa in " + text)
	}
	e, err := strconv.Atoi(text[i+1:])
	if err != nil {
		panic("algebra: bad exponent in " + text)
	}
	v, _ := strconv.ParseFloat(text, 64)
	return Scientific{Mantissa: m, Exponent: e, Text: text, Value: v}, nil
}

// Radical is the number Coef * sqrt(Radicand).
type Radical struct {
	Coef, Radicand int64
}

// Float64 returns the value of the radical.
func (r Radical) Float64() float64 {
	return float64(r.Coef) * math.Sqrt(float64(r.Radicand))
}

func (r Radical) String() string {
	switch {
	case r.Radicand == 1:
		return strconv.FormatInt(r.Coef, 10)
	case r.Coef == 1:
		return "sqrt(" + strconv.FormatInt(r.Radicand, 10) + ")"
	default:
		return strconv.FormatInt(r.Coef, 10) + "*sqrt(" + strconv.FormatInt(r.Radicand, 10) + ")"
	}
}

// SimplifySqrt writes sqrt(n) as c*sqrt(r) with r square-free. It takes time
// proportional to the cube root of n.
func SimplifySqrt(n int64) (Radical, error) {
	if n < 0 {
		return Radical{}, &DomainError{
			X:    new(big.Float).SetInt64(n),
			Func: "sqrt",
			Expr: "sqrt(" + strconv.FormatInt(n, 10) + ")",
		}
	}
	if n == 0 {
		return Radical{Coef: 0, Radicand: 1}, nil
	}
	r := Radical{Coef: 1, Radicand: 1}
	m := n
	// Divide out primes up to the cube root of what remains.
	p := int64(2)
	for ; p <= m/p/p; p++ {
		e := 0
		for m%p == 0 {
			m /= p
			e++
		}
		for ; e >= 2; e -= 2 {
			r.Coef *= p
		}
		if e == 1 {
			r.Radicand *= p
		}
	}
	// m has no prime factor below p and m < p³, so it is 1, a prime, a
	// product of two distinct primes, or the square of a prime.
	if s := isqrt(m); m > 1 && s*s == m {
		r.Coef *= s
	} else {
		r.Radicand *= m
	}
	return r, nil
}

// isqrt returns the greatest s with s*s <= m for m >= 0.
func isqrt(m int64) int64 {
	s := int64(math.Sqrt(float64(m)))
	for s > 0 && s > m/s {
		s--
	}
	for s+1 <= m/(s+1) {
		s++
	}
	return s
}
