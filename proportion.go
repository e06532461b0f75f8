package algebra

import (
	"math"
	"strings"
)

// Term is one of the four terms of a proportion a/b = c/d. It is either a
// known value or the unknown.
type Term struct {
	v       float64
	unknown bool
}

// Unknown is the term to solve for.
var Unknown = Term{unknown: true}

// Known creates a term with a value.
func Known(v float64) Term {
	return Term{v: v}
}

// ParseTerm parses a term. "x" and "?" are the unknown; anything else is an
// expression without variables.
func ParseTerm(s string) (Term, error) {
	s = strings.TrimSpace(s)
	if s == "x" || s == "?" {
		return Unknown, nil
	}
	e, err := ParseString(s)
	if err != nil {
		return Term{}, err
	}
	v, err := Evaluate(e, nil)
	if err != nil {
		return Term{}, err
	}
	return Known(v), nil
}

// IsUnknown reports whether t is the unknown.
func (t Term) IsUnknown() bool {
	return t.unknown
}

// Value returns the value of a known term.
func (t Term) Value() float64 {
	return t.v
}

func (t Term) String() string {
	if t.unknown {
		return "x"
	}
	return ftoa(t.v)
}

// SolveProportion solves a/b = c/d for the single unknown term by
// cross-multiplication.
func SolveProportion(a, b, c, d Term) (float64, error) {
	terms := [4]Term{a, b, c, d}
	k := -1
	for i, t := range terms {
		if t.unknown {
			if k >= 0 {
				return 0, proportionError(terms, "more than one unknown")
			}
			k = i
			continue
		}
		if math.IsNaN(t.v) || math.IsInf(t.v, 0) {
			return 0, proportionError(terms, "term "+t.String()+" is not finite")
		}
	}
	if k < 0 {
		return 0, proportionError(terms, "no unknown")
	}
	if !b.unknown && b.v == 0 || !d.unknown && d.v == 0 {
		return 0, proportionError(terms, "zero denominator")
	}
	var num, den float64
	switch k {
	case 0:
		num, den = c.v*b.v, d.v
	case 1:
		num, den = a.v*d.v, c.v
	case 2:
		num, den = a.v*d.v, b.v
	case 3:
		num, den = c.v*b.v, a.v
	}
	if den == 0 {
		return 0, proportionError(terms, "unknown is undetermined")
	}
	r := num / den
	if (k == 1 || k == 3) && r == 0 {
		return 0, proportionError(terms, "solution is a zero denominator")
	}
	return r, nil
}

func proportionError(t [4]Term, reason string) error {
	return &InvalidInputError{
		Op:     "solve proportion " + t[0].String() + "/" + t[1].String() + " = " + t[2].String() + "/" + t[3].String(),
		Reason: reason,
	}
}
