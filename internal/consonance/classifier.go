// Package consonance classifies digit ratios by the consonance of their
// continued-fraction expansion.
//
// A digit ratio r = d_p / d_N (0 < r < 1) expands as [0; a1, a2, ...]. Its
// consonance degree is kappa = max{a1, a2, ...}; ratios with kappa <= 4 are
// consonant. By Tamaki's Lemma the first coefficient is always
// a1 = floor(d_N / d_p). All arithmetic in this package is exact integer
// arithmetic.
package consonance

import (
	"fmt"
	"math/big"

	"github.com/miosync-masa/digit-consonance/internal/common"
	"github.com/miosync-masa/digit-consonance/internal/model"
)

// DefaultKappaThreshold is the classical consonant/dissonant boundary.
const DefaultKappaThreshold = 4

// Validate checks that 0 < numerator < denominator.
func Validate(r model.Ratio) error {
	switch {
	case r.Numerator <= 0:
		return fmt.Errorf("%w: numerator %d must be positive", common.ErrInvalidRatio, r.Numerator)
	case r.Denominator <= 0:
		return fmt.Errorf("%w: denominator %d must be positive", common.ErrInvalidRatio, r.Denominator)
	case r.Numerator >= r.Denominator:
		return fmt.Errorf("%w: %s is not below 1", common.ErrInvalidRatio, r)
	}
	return nil
}

// Expand returns the continued fraction of r via the Euclidean algorithm on
// (d_N, d_p), prefixed with a0 = 0.
func Expand(r model.Ratio) (model.ContinuedFraction, error) {
	if err := Validate(r); err != nil {
		return nil, err
	}

	cf := model.ContinuedFraction{0}
	x, y := r.Denominator, r.Numerator
	for y != 0 {
		cf = append(cf, x/y)
		x, y = y, x%y
	}
	return cf, nil
}

// ConsonanceDegree returns the largest coefficient after a0. ok is false when
// the tail is empty, which only happens for a ratio of exactly zero.
func ConsonanceDegree(cf model.ContinuedFraction) (kappa int, ok bool) {
	tail := cf.Tail()
	if len(tail) == 0 {
		return 0, false
	}
	kappa = tail[0]
	for _, a := range tail[1:] {
		if a > kappa {
			kappa = a
		}
	}
	return kappa, true
}

// Classify expands r and marks it consonant when kappa <= threshold.
func Classify(r model.Ratio, threshold int) (model.Pattern, error) {
	cf, err := Expand(r)
	if err != nil {
		return model.Pattern{}, err
	}
	kappa, _ := ConsonanceDegree(cf)

	return model.Pattern{
		Ratio:     r,
		CF:        cf,
		Kappa:     kappa,
		Consonant: kappa <= threshold,
	}, nil
}

// FirstCoefficient is the value Tamaki's Lemma predicts for a1.
func FirstCoefficient(r model.Ratio) (int, error) {
	if err := Validate(r); err != nil {
		return 0, err
	}
	return r.Denominator / r.Numerator, nil
}

// Reconstruct folds a continued fraction back into a reduced fraction using
// the convergent recurrence h_k = a_k*h_{k-1} + h_{k-2}.
func Reconstruct(cf model.ContinuedFraction) *big.Rat {
	if len(cf) == 0 {
		return new(big.Rat)
	}

	hPrev, h := big.NewInt(1), big.NewInt(int64(cf[0]))
	kPrev, k := big.NewInt(0), big.NewInt(1)
	a := new(big.Int)
	for _, coeff := range cf[1:] {
		a.SetInt64(int64(coeff))
		hNext := new(big.Int).Mul(a, h)
		hNext.Add(hNext, hPrev)
		kNext := new(big.Int).Mul(a, k)
		kNext.Add(kNext, kPrev)
		hPrev, h = h, hNext
		kPrev, k = k, kNext
	}

	return new(big.Rat).SetFrac(h, k)
}
