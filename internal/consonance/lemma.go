package consonance

import (
	"github.com/miosync-masa/digit-consonance/internal/model"
)

// Default lemma verification grid.
var (
	DefaultLemmaDigits  = []int{10, 20, 30, 50, 77, 88, 100, 154, 256}
	DefaultLemmaSamples = []int{1, 2, 3, 5, 7, 10, 15, 20, 30}
)

// LemmaCase is one (d_p, d_N) check of Tamaki's Lemma.
type LemmaCase struct {
	Digits   int
	PDigits  int
	Quotient float64
	Expected int
	Actual   int
	Match    bool
}

// LemmaReport aggregates a verification run.
type LemmaReport struct {
	Details map[int][]LemmaCase
	Digits  []int
	Total   int
	Matches int
}

// MatchRate returns the percentage of matching cases.
func (r *LemmaReport) MatchRate() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Matches) / float64(r.Total) * 100
}

// Verified reports whether every case matched.
func (r *LemmaReport) Verified() bool {
	return r.Total > 0 && r.Matches == r.Total
}

// VerifyLemma checks a1 == floor(d_N/d_p) for every digit count and sample
// with d_p < floor(d_N/2).
func VerifyLemma(digits, samples []int) *LemmaReport {
	if len(digits) == 0 {
		digits = DefaultLemmaDigits
	}
	if len(samples) == 0 {
		samples = DefaultLemmaSamples
	}

	report := &LemmaReport{
		Details: make(map[int][]LemmaCase, len(digits)),
		Digits:  digits,
	}

	for _, n := range digits {
		cases := make([]LemmaCase, 0, len(samples))
		for _, p := range samples {
			if p <= 0 || p >= n/2 {
				continue
			}
			r := model.NewRatio(p, n)

			cf, err := Expand(r)
			if err != nil {
				continue
			}
			expected, _ := FirstCoefficient(r)

			actual := 0
			if tail := cf.Tail(); len(tail) > 0 {
				actual = tail[0]
			}

			c := LemmaCase{
				Digits:   n,
				PDigits:  p,
				Quotient: float64(n) / float64(p),
				Expected: expected,
				Actual:   actual,
				Match:    expected == actual,
			}
			cases = append(cases, c)

			report.Total++
			if c.Match {
				report.Matches++
			}
		}
		report.Details[n] = cases
	}

	return report
}
