// Package model defines the core domain models used throughout the application.
package model

import (
	"fmt"
	"strings"
)

// Ratio is a digit ratio d_p / d_N of two positive integers.
type Ratio struct {
	Numerator   int
	Denominator int
}

// NewRatio builds a ratio without validating it.
func NewRatio(numerator, denominator int) Ratio {
	return Ratio{Numerator: numerator, Denominator: denominator}
}

// Value returns the ratio as a float. It is meant for display only.
func (r Ratio) Value() float64 {
	if r.Denominator == 0 {
		return 0
	}
	return float64(r.Numerator) / float64(r.Denominator)
}

// Reduced returns the ratio in lowest terms.
func (r Ratio) Reduced() Ratio {
	g := gcd(r.Numerator, r.Denominator)
	if g <= 1 {
		return r
	}
	return Ratio{Numerator: r.Numerator / g, Denominator: r.Denominator / g}
}

// String renders the ratio as "p/N".
func (r Ratio) String() string {
	return fmt.Sprintf("%d/%d", r.Numerator, r.Denominator)
}

func gcd(a, b int) int {
	if a < 0 {
		a = -a
	}
	if b < 0 {
		b = -b
	}
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// ContinuedFraction holds the coefficients [a0, a1, a2, ...] of an expansion.
type ContinuedFraction []int

// Tail returns the coefficients after a0.
func (cf ContinuedFraction) Tail() []int {
	if len(cf) < 2 {
		return nil
	}
	return cf[1:]
}

// Truncate returns at most n leading coefficients.
func (cf ContinuedFraction) Truncate(n int) ContinuedFraction {
	if n < 0 || len(cf) <= n {
		return cf
	}
	return cf[:n]
}

// String renders the expansion as [0; 3, 1, 2].
func (cf ContinuedFraction) String() string {
	if len(cf) == 0 {
		return "[]"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "[%d", cf[0])
	for i, a := range cf[1:] {
		if i == 0 {
			b.WriteString("; ")
		} else {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%d", a)
	}
	b.WriteString("]")
	return b.String()
}

// Pattern is a classified digit ratio.
type Pattern struct {
	CF        ContinuedFraction
	Ratio     Ratio
	Kappa     int
	Consonant bool
}

// Class returns "consonant" or "dissonant".
func (p Pattern) Class() string {
	if p.Consonant {
		return "consonant"
	}
	return "dissonant"
}
