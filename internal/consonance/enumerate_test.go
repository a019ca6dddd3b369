package consonance

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/miosync-masa/digit-consonance/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func numerators(a *Analysis) (cons, dis []int) {
	for _, p := range a.Consonant {
		cons = append(cons, p.Ratio.Numerator)
	}
	for _, p := range a.Dissonant {
		dis = append(dis, p.Ratio.Numerator)
	}
	return cons, dis
}

func TestEnumerate_HalfRange(t *testing.T) {
	analysis, err := Enumerate(77)
	require.NoError(t, err)

	cons, dis := numerators(analysis)
	want := []int{16, 18, 21, 22, 24, 28, 30, 33, 34}
	if diff := cmp.Diff(want, cons); diff != "" {
		t.Errorf("consonant numerators mismatch (-want +got):\n%s", diff)
	}
	assert.Len(t, dis, 29)
	assert.Equal(t, 38, analysis.Total())
	assert.Equal(t, 77, analysis.Digits)
	assert.Equal(t, DefaultKappaThreshold, analysis.Threshold)
	assert.InDelta(t, 9.0/38.0, analysis.ConsonantShare(), 1e-12)

	for i := 1; i < len(dis); i++ {
		assert.Less(t, dis[i-1], dis[i], "dissonant partition keeps ascending numerator order")
	}
	for _, p := range analysis.Consonant {
		assert.LessOrEqual(t, p.Kappa, 4)
	}
	for _, p := range analysis.Dissonant {
		assert.Greater(t, p.Kappa, 4)
	}
}

func TestEnumerate_FullRange(t *testing.T) {
	analysis, err := Enumerate(77, WithFullRange())
	require.NoError(t, err)

	assert.Len(t, analysis.Consonant, 19)
	assert.Len(t, analysis.Dissonant, 57)
}

func TestEnumerate_Idempotent(t *testing.T) {
	first, err := Enumerate(154, WithFullRange(), WithThreshold(3))
	require.NoError(t, err)
	second, err := Enumerate(154, WithFullRange(), WithThreshold(3))
	require.NoError(t, err)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("repeated enumeration differs (-first +second):\n%s", diff)
	}
}

func TestEnumerate_CoprimeOnly(t *testing.T) {
	analysis, err := Enumerate(12, WithFullRange(), WithCoprimeOnly())
	require.NoError(t, err)

	cons, dis := numerators(analysis)
	all := append(cons, dis...)
	assert.ElementsMatch(t, []int{1, 5, 7, 11}, all)
}

func TestEnumerate_ExplicitRangeSkipsDegenerate(t *testing.T) {
	analysis, err := Enumerate(10, WithRange(0, 12))
	require.NoError(t, err)

	assert.Equal(t, 9, analysis.Total())
	// 0, 10, 11 and 12 are not valid numerators.
	assert.Equal(t, 4, analysis.Skipped)
}

func TestEnumerate_InvalidRange(t *testing.T) {
	tests := []struct {
		name string
		opts []EnumerateOption
		n    int
	}{
		{name: "digit count one", n: 1},
		{name: "digit count zero", n: 0},
		{name: "reversed range", n: 77, opts: []EnumerateOption{WithRange(40, 10)}},
		{name: "fully degenerate range", n: 77, opts: []EnumerateOption{WithRange(77, 100)}},
		{name: "only zero", n: 77, opts: []EnumerateOption{WithRange(-5, 0)}},
		{name: "explicit zero range", n: 77, opts: []EnumerateOption{WithRange(0, 0)}},
		{name: "explicit zero range wins over mode", n: 77, opts: []EnumerateOption{WithRange(0, 0), WithFullRange()}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Enumerate(tt.n, tt.opts...)
			assert.ErrorIs(t, err, common.ErrInvalidRange)
		})
	}
}

func TestParseRangeMode(t *testing.T) {
	mode, err := ParseRangeMode("full")
	require.NoError(t, err)
	assert.Equal(t, RangeFull, mode)

	mode, err = ParseRangeMode("")
	require.NoError(t, err)
	assert.Equal(t, RangeHalf, mode)

	_, err = ParseRangeMode("quarter")
	assert.ErrorIs(t, err, common.ErrInvalidConfig)
}

func TestSummarize(t *testing.T) {
	rows, err := Summarize([]int{30, 50, 77, 100, 154, 256, 617})
	require.NoError(t, err)

	want := []SummaryRow{
		{Digits: 30, Consonant: 8, Dissonant: 7},
		{Digits: 50, Consonant: 8, Dissonant: 17},
		{Digits: 77, Consonant: 9, Dissonant: 29},
		{Digits: 100, Consonant: 16, Dissonant: 34},
		{Digits: 154, Consonant: 19, Dissonant: 58},
		{Digits: 256, Consonant: 26, Dissonant: 102},
		{Digits: 617, Consonant: 18, Dissonant: 290},
	}
	require.Len(t, rows, len(want))
	for i, w := range want {
		assert.Equal(t, w.Digits, rows[i].Digits)
		assert.Equal(t, w.Consonant, rows[i].Consonant, "N=%d", w.Digits)
		assert.Equal(t, w.Dissonant, rows[i].Dissonant, "N=%d", w.Digits)
		assert.InDelta(t, float64(w.Consonant)/float64(w.Consonant+w.Dissonant), rows[i].Share, 1e-12)
	}

	_, err = Summarize([]int{77, 1})
	assert.ErrorIs(t, err, common.ErrInvalidRange)
}

func TestThresholdSweep(t *testing.T) {
	rows, err := ThresholdSweep(77, []int{3, 4, 5})
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, 4, rows[1].Threshold)
	assert.Equal(t, 9, rows[1].Consonant)
	for i, row := range rows {
		assert.Equal(t, 38, row.Consonant+row.Dissonant)
		if i > 0 {
			assert.GreaterOrEqual(t, row.Consonant, rows[i-1].Consonant)
		}
	}
}
