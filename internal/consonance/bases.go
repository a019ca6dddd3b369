package consonance

import (
	"fmt"
	"math/big"

	"github.com/miosync-masa/digit-consonance/internal/common"
	"github.com/miosync-masa/digit-consonance/internal/model"
)

var baseNames = map[int]string{
	2:  "Binary",
	3:  "Ternary",
	7:  "Septenary",
	8:  "Octal",
	10: "Decimal",
	12: "Duodecimal",
	16: "Hexadecimal",
	60: "Sexagesimal",
}

// BaseName returns a human name for a number base.
func BaseName(base int) string {
	if name, ok := baseNames[base]; ok {
		return name
	}
	return fmt.Sprintf("Base-%d", base)
}

// DigitCount returns the number of digits of n written in base. Values <= 0
// count as one digit.
func DigitCount(n *big.Int, base int) (int, error) {
	if base < 2 || base > 62 {
		return 0, fmt.Errorf("%w: base %d outside 2..62", common.ErrInvalidConfig, base)
	}
	if n == nil || n.Sign() <= 0 {
		return 1, nil
	}
	return len(n.Text(base)), nil
}

// BaseCase is a number N and a factor-sized p compared across bases.
type BaseCase struct {
	N     *big.Int
	P     *big.Int
	Label string
}

func pow(base, exp int64) *big.Int {
	return new(big.Int).Exp(big.NewInt(base), big.NewInt(exp), nil)
}

// DefaultBases are the bases compared by the base report.
func DefaultBases() []int {
	return []int{2, 3, 7, 10, 12, 16, 60}
}

// DefaultBaseCases are power-of-base pairs of RSA-like sizes.
func DefaultBaseCases() []BaseCase {
	return []BaseCase{
		{N: pow(10, 20), P: pow(10, 7), Label: "10^20 / 10^7"},
		{N: pow(10, 50), P: pow(10, 20), Label: "10^50 / 10^20"},
		{N: pow(10, 77), P: pow(10, 30), Label: "10^77 / 10^30"},
		{N: pow(10, 100), P: pow(10, 33), Label: "10^100 / 10^33"},
		{N: pow(2, 128), P: pow(2, 50), Label: "2^128 / 2^50"},
		{N: pow(2, 256), P: pow(2, 100), Label: "2^256 / 2^100"},
		{N: pow(2, 1024), P: pow(2, 400), Label: "2^1024 / 2^400"},
		{N: pow(10, 154), P: pow(10, 60), Label: "10^154 / 10^60"},
		{N: pow(7, 50), P: pow(7, 20), Label: "7^50 / 7^20"},
		{N: pow(16, 32), P: pow(16, 12), Label: "16^32 / 16^12"},
	}
}

// DefaultRepresentationBases are the bases used for the single-number
// representation report.
var DefaultRepresentationBases = []int{2, 8, 10, 16}

// MersenneCase is N = 2^127 - 1 against a factor-sized p = 2^50.
func MersenneCase() BaseCase {
	return BaseCase{
		N:     new(big.Int).Sub(pow(2, 127), big.NewInt(1)),
		P:     pow(2, 50),
		Label: "N = 2^127 - 1, p = 2^50",
	}
}

// DefaultKappaCases are the pairs checked for kappa invariance.
func DefaultKappaCases() []BaseCase {
	return []BaseCase{
		{N: pow(10, 77), P: pow(10, 30), Label: "N = 10^77, p = 10^30"},
		{N: pow(10, 77), P: pow(10, 20), Label: "N = 10^77, p = 10^20"},
		{N: pow(10, 100), P: pow(10, 50), Label: "N = 10^100, p = 10^50"},
		{N: pow(10, 100), P: pow(10, 33), Label: "N = 10^100, p = 10^33"},
	}
}

// BaseRow is a lemma check for one case in one base.
type BaseRow struct {
	Pattern  model.Pattern
	Label    string
	Expected int
	Actual   int
	Match    bool
}

// BaseReport is the lemma verification for one base.
type BaseReport struct {
	Name    string
	Rows    []BaseRow
	Base    int
	Matches int
}

// Total returns the number of checked cases.
func (r BaseReport) Total() int {
	return len(r.Rows)
}

// Rate returns the match percentage.
func (r BaseReport) Rate() float64 {
	if len(r.Rows) == 0 {
		return 0
	}
	return float64(r.Matches) / float64(len(r.Rows)) * 100
}

// BaseRatio expresses a case as a digit ratio in base.
func BaseRatio(c BaseCase, base int) (model.Ratio, error) {
	dN, err := DigitCount(c.N, base)
	if err != nil {
		return model.Ratio{}, err
	}
	dP, err := DigitCount(c.P, base)
	if err != nil {
		return model.Ratio{}, err
	}
	return model.NewRatio(dP, dN), nil
}

// CompareBases verifies the lemma for every case in every base. Cases whose
// factor has at least as many digits as N are skipped.
func CompareBases(cases []BaseCase, bases []int, threshold int) ([]BaseReport, error) {
	reports := make([]BaseReport, 0, len(bases))
	for _, base := range bases {
		report := BaseReport{Base: base, Name: BaseName(base)}
		for _, c := range cases {
			r, err := BaseRatio(c, base)
			if err != nil {
				return nil, err
			}
			if r.Numerator >= r.Denominator {
				continue
			}

			pattern, err := Classify(r, threshold)
			if err != nil {
				return nil, fmt.Errorf("base %d case %s: %w", base, c.Label, err)
			}
			expected, _ := FirstCoefficient(r)

			row := BaseRow{
				Label:    c.Label,
				Pattern:  pattern,
				Expected: expected,
				Actual:   pattern.CF.Tail()[0],
			}
			row.Match = row.Expected == row.Actual
			if row.Match {
				report.Matches++
			}
			report.Rows = append(report.Rows, row)
		}
		if len(report.Rows) > 0 {
			reports = append(reports, report)
		}
	}
	return reports, nil
}

// AllPerfect reports whether every base matched every case.
func AllPerfect(reports []BaseReport) bool {
	for _, r := range reports {
		if r.Matches != r.Total() {
			return false
		}
	}
	return len(reports) > 0
}

// BaseKappa is the classification of one case in one base.
type BaseKappa struct {
	Pattern model.Pattern
	Base    int
}

// KappaRow compares the classification of a case across bases.
type KappaRow struct {
	Label      string
	PerBase    []BaseKappa
	Consistent bool
}

// CompareRepresentations classifies one case in each base.
func CompareRepresentations(c BaseCase, bases []int, threshold int) ([]BaseKappa, error) {
	out := make([]BaseKappa, 0, len(bases))
	for _, base := range bases {
		r, err := BaseRatio(c, base)
		if err != nil {
			return nil, err
		}
		pattern, err := Classify(r, threshold)
		if err != nil {
			return nil, fmt.Errorf("base %d case %s: %w", base, c.Label, err)
		}
		out = append(out, BaseKappa{Base: base, Pattern: pattern})
	}
	return out, nil
}

// KappaInvariance checks whether consonance survives a change of base.
func KappaInvariance(cases []BaseCase, bases []int, threshold int) ([]KappaRow, error) {
	rows := make([]KappaRow, 0, len(cases))
	for _, c := range cases {
		perBase, err := CompareRepresentations(c, bases, threshold)
		if err != nil {
			return nil, err
		}
		consistent := true
		for i := 1; i < len(perBase); i++ {
			if perBase[i].Pattern.Consonant != perBase[0].Pattern.Consonant {
				consistent = false
				break
			}
		}
		rows = append(rows, KappaRow{Label: c.Label, PerBase: perBase, Consistent: consistent})
	}
	return rows, nil
}
