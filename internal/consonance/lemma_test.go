package consonance

import (
	"math/big"
	"testing"

	"github.com/miosync-masa/digit-consonance/internal/common"
	"github.com/miosync-masa/digit-consonance/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyLemma_Defaults(t *testing.T) {
	report := VerifyLemma(nil, nil)

	assert.True(t, report.Verified())
	assert.Equal(t, report.Total, report.Matches)
	assert.InDelta(t, 100.0, report.MatchRate(), 1e-12)
	assert.Equal(t, DefaultLemmaDigits, report.Digits)

	// N=10 only admits samples below 5.
	ten := report.Details[10]
	require.Len(t, ten, 3)
	assert.Equal(t, LemmaCase{Digits: 10, PDigits: 3, Quotient: 10.0 / 3.0, Expected: 3, Actual: 3, Match: true}, ten[2])

	// N=256 admits every default sample.
	assert.Len(t, report.Details[256], len(DefaultLemmaSamples))
}

func TestVerifyLemma_CustomGrid(t *testing.T) {
	report := VerifyLemma([]int{77, 154, 617}, []int{10, 20, 30, 38, 50, 77, 100, 200, 308})

	assert.True(t, report.Verified())
	assert.Len(t, report.Details[77], 3)
	assert.Len(t, report.Details[154], 5)
	assert.Len(t, report.Details[617], 8)

	empty := VerifyLemma([]int{2}, []int{5})
	assert.False(t, empty.Verified())
	assert.Zero(t, empty.MatchRate())
}

func TestDigitCount(t *testing.T) {
	tests := []struct {
		n    *big.Int
		name string
		base int
		want int
	}{
		{name: "10^20 decimal", n: pow(10, 20), base: 10, want: 21},
		{name: "10^7 decimal", n: pow(10, 7), base: 10, want: 8},
		{name: "2^128 binary", n: pow(2, 128), base: 2, want: 129},
		{name: "2^128 - 1 binary", n: new(big.Int).Sub(pow(2, 128), big.NewInt(1)), base: 2, want: 128},
		{name: "16^32 hex", n: pow(16, 32), base: 16, want: 33},
		{name: "sexagesimal", n: big.NewInt(3600), base: 60, want: 3},
		{name: "zero", n: big.NewInt(0), base: 10, want: 1},
		{name: "nil", n: nil, base: 10, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DigitCount(tt.n, tt.base)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := DigitCount(big.NewInt(10), 1)
	assert.ErrorIs(t, err, common.ErrInvalidConfig)
	_, err = DigitCount(big.NewInt(10), 63)
	assert.ErrorIs(t, err, common.ErrInvalidConfig)
}

func TestCompareBases(t *testing.T) {
	reports, err := CompareBases(DefaultBaseCases(), DefaultBases(), DefaultKappaThreshold)
	require.NoError(t, err)

	require.Len(t, reports, len(DefaultBases()))
	assert.True(t, AllPerfect(reports))
	for _, r := range reports {
		assert.Equal(t, BaseName(r.Base), r.Name)
		assert.Equal(t, r.Total(), r.Matches)
		assert.InDelta(t, 100.0, r.Rate(), 1e-12)
	}

	decimal := reports[3]
	require.Equal(t, 10, decimal.Base)
	assert.Equal(t, model.NewRatio(8, 21), decimal.Rows[0].Pattern.Ratio)
	assert.Equal(t, 2, decimal.Rows[0].Expected)

	assert.False(t, AllPerfect(nil))
}

func TestBaseName(t *testing.T) {
	assert.Equal(t, "Hexadecimal", BaseName(16))
	assert.Equal(t, "Base-5", BaseName(5))
}

func TestKappaInvariance(t *testing.T) {
	rows, err := KappaInvariance(DefaultKappaCases(), []int{2, 10, 16}, DefaultKappaThreshold)
	require.NoError(t, err)
	require.Len(t, rows, 4)

	// 10^77 / 10^30: kappa 3 in binary and hex, 15 in decimal.
	first := rows[0]
	assert.False(t, first.Consistent)
	assert.Equal(t, model.NewRatio(100, 256), first.PerBase[0].Pattern.Ratio)
	assert.Equal(t, 3, first.PerBase[0].Pattern.Kappa)
	assert.Equal(t, model.ContinuedFraction{0, 2, 1, 1, 15}, first.PerBase[1].Pattern.CF)
	assert.Equal(t, 15, first.PerBase[1].Pattern.Kappa)

	// 10^77 / 10^20 stays consonant everywhere.
	assert.True(t, rows[1].Consistent)
	for _, bk := range rows[1].PerBase {
		assert.True(t, bk.Pattern.Consonant)
	}
}

func TestMersenneCase(t *testing.T) {
	perBase, err := CompareRepresentations(MersenneCase(), DefaultRepresentationBases, DefaultKappaThreshold)
	require.NoError(t, err)

	got := make([]model.Ratio, 0, len(perBase))
	for _, bk := range perBase {
		got = append(got, bk.Pattern.Ratio)
		assert.Equal(t, bk.Pattern.Ratio.Denominator/bk.Pattern.Ratio.Numerator, bk.Pattern.CF[1])
	}
	assert.Equal(t, []model.Ratio{
		model.NewRatio(51, 127),
		model.NewRatio(17, 43),
		model.NewRatio(16, 39),
		model.NewRatio(13, 32),
	}, got)
}

func TestCompareRepresentations_Mersenne(t *testing.T) {
	mersenne := new(big.Int).Sub(pow(2, 127), big.NewInt(1))
	perBase, err := CompareRepresentations(BaseCase{N: mersenne, P: pow(2, 50), Label: "2^127-1"}, []int{2, 16}, DefaultKappaThreshold)
	require.NoError(t, err)
	require.Len(t, perBase, 2)

	assert.Equal(t, model.NewRatio(51, 127), perBase[0].Pattern.Ratio)
	assert.Equal(t, model.NewRatio(13, 32), perBase[1].Pattern.Ratio)
}
