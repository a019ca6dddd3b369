package resonance

import (
	"context"
	"math"
	"math/big"
	"strconv"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/miosync-masa/digit-consonance/internal/common"
	"github.com/miosync-masa/digit-consonance/internal/model"
	"github.com/miosync-masa/digit-consonance/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

const bigTarget = "999999999999999999999999999999999999945999999999999999999999999999999999999829"

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func mustInt(t *testing.T, s string) *big.Int {
	t.Helper()
	n, ok := new(big.Int).SetString(s, 10)
	require.True(t, ok, "bad integer %q", s)
	return n
}

// tunedTable builds zeros whose phase against n lands on the given cycle counts.
func tunedTable(n int64, cycles ...float64) *model.ZeroTable {
	logN := math.Log(float64(n))
	table := &model.ZeroTable{}
	for i, c := range cycles {
		gamma := 2 * math.Pi * c / logN
		table.Zeros = append(table.Zeros, model.ZetaZero{
			Index:  i + 1,
			Gamma:  model.MustDecimal(strconv.FormatFloat(gamma, 'g', -1, 64)),
			Weight: model.MustDecimal("0.01"),
		})
	}
	table.UpdateRanges()
	return table
}

func resonantIndexes(rs []model.ResonanceResult) []int {
	out := make([]int, len(rs))
	for i, r := range rs {
		out[i] = r.Zero.Index
	}
	return out
}

func TestScan_SampleZeros(t *testing.T) {
	report, err := Scan(context.Background(), big.NewInt(77), testutil.SampleTable(10))
	require.NoError(t, err)

	require.Len(t, report.Results, 10)
	assert.Equal(t, 2, report.Digits)
	assert.InDelta(t, math.Log(77), report.LogN, 1e-12)
	assert.InDelta(t, 0.137006679, report.Results[0].Score, 1e-6)
	assert.InDelta(t, 9.771874090, report.Results[0].Cycles, 1e-6)

	assert.Equal(t, []int{6, 4, 8}, resonantIndexes(report.Resonant))
	assert.InDelta(t, 0.3, report.ResonanceRate(), 1e-12)

	strongest, err := report.StrongestResonance()
	require.NoError(t, err)
	assert.Equal(t, 6, strongest.Zero.Index)
	assert.InDelta(t, 0.995417222, strongest.Score, 1e-6)
	assert.InDelta(t, 25.984757172, strongest.Cycles, 1e-6)
}

func TestScan_Signatures(t *testing.T) {
	// Cycle counts: two near-even counts that split cleanly, a count that
	// splits into neither 2 nor 3 digits, an anti-resonant half turn, and a
	// count divisible by 3 that only the distance check accepts.
	table := tunedTable(77, 30.002, 30.5, 31, 12.001, 9.0005)

	t.Run("harmonic filter", func(t *testing.T) {
		report, err := Scan(context.Background(), big.NewInt(77), table)
		require.NoError(t, err)

		assert.Equal(t, []int{3, 5, 4, 1}, resonantIndexes(report.Resonant))
		assert.Less(t, report.Results[1].Score, -0.99)

		require.Len(t, report.Signatures, 4)
		first := report.Signatures[0]
		assert.Equal(t, 4, first.ZeroIndex)
		assert.InDelta(t, 0.002, first.Consistency, 1e-9)
		assert.InDelta(t, 0.004, report.Signatures[3].Consistency, 1e-9)

		sig, ok := report.SignatureFor(4)
		require.True(t, ok)
		assert.Equal(t, model.Signature{PDigits: 1, QDigits: 1, TotalDigits: 2}, sig.Signature)
		assert.Equal(t, int64(6), sig.NP)
		assert.Equal(t, int64(6), sig.NQ)

		_, ok = report.SignatureFor(3)
		assert.False(t, ok)

		require.Len(t, report.Groups, 2)
		best, err := report.BestSignature()
		require.NoError(t, err)
		assert.Equal(t, model.Signature{PDigits: 1, QDigits: 1, TotalDigits: 2}, best.Signature)
		assert.Equal(t, 2, best.Count)
		assert.InDelta(t, 0.003, best.MeanConsistency, 1e-9)
		assert.InDelta(t, 1e-6, best.Variance, 1e-9)
		assert.InDelta(t, 0.002, best.MinConsistency, 1e-9)
		assert.Equal(t, model.Signature{PDigits: 1, QDigits: 2, TotalDigits: 3}, report.Groups[1].Signature)
	})

	t.Run("distance only", func(t *testing.T) {
		report, err := Scan(context.Background(), big.NewInt(77), table, WithoutHarmonicFilter())
		require.NoError(t, err)

		require.Len(t, report.Signatures, 5)
		assert.Equal(t, 5, report.Signatures[0].ZeroIndex)
		assert.Equal(t, model.Signature{PDigits: 1, QDigits: 2, TotalDigits: 3}, report.Signatures[0].Signature)
		assert.InDelta(t, 0.0005, report.Signatures[0].Consistency, 1e-9)
		assert.Equal(t, int64(3), report.Signatures[0].NP)
		assert.Equal(t, int64(6), report.Signatures[0].NQ)
	})

	t.Run("all splits", func(t *testing.T) {
		report, err := Scan(context.Background(), big.NewInt(77), table, WithAllSplits())
		require.NoError(t, err)

		// Mirrored (2, 1) splits of three digits pass for zeros 1, 4 and 5.
		require.Len(t, report.Signatures, 7)
		assert.Equal(t, 5, report.Signatures[0].ZeroIndex)
		assert.Equal(t, model.Signature{PDigits: 2, QDigits: 1, TotalDigits: 3}, report.Signatures[0].Signature)
	})
}

func TestScan_NoResonance(t *testing.T) {
	report, err := Scan(context.Background(), big.NewInt(77), tunedTable(77, 30.5, 12.25))
	require.NoError(t, err)

	assert.Empty(t, report.Resonant)
	_, err = report.StrongestResonance()
	assert.ErrorIs(t, err, common.ErrNoResonance)
	_, err = report.BestSignature()
	assert.ErrorIs(t, err, common.ErrNoResonance)
}

func TestScan_ArbitraryPrecisionAgreesWithFloat(t *testing.T) {
	target := mustInt(t, bigTarget)
	table := testutil.SampleTable(10)

	fast, err := Scan(context.Background(), target, table)
	require.NoError(t, err)
	precise, err := Scan(context.Background(), target, table, WithPrecision(PrecisionArbitrary, 320))
	require.NoError(t, err)

	assert.Equal(t, 78, precise.Digits)
	assert.Equal(t, PrecisionArbitrary, precise.Config.Precision)
	assert.Equal(t, uint(320), precise.Config.Bits)

	for i := range fast.Results {
		assert.InDelta(t, fast.Results[i].Score, precise.Results[i].Score, 1e-9, "zero %d", i+1)
		assert.InDelta(t, fast.Results[i].Cycles, precise.Results[i].Cycles, 1e-9, "zero %d", i+1)
	}

	assert.Equal(t, []int{1}, resonantIndexes(precise.Resonant))
	assert.InDelta(t, 0.977419420, precise.Resonant[0].Score, 1e-6)
	assert.InDelta(t, 404.033886233, precise.Resonant[0].Cycles, 1e-6)
}

func TestScan_ParallelMatchesSerial(t *testing.T) {
	table := testutil.SampleTable(10)
	target := big.NewInt(77)

	serial, err := Scan(context.Background(), target, table)
	require.NoError(t, err)

	var (
		mu    sync.Mutex
		calls int
		last  int
	)
	progress := func(done, total int) {
		mu.Lock()
		defer mu.Unlock()
		calls++
		last = done
		assert.Equal(t, 10, total)
	}

	parallel, err := Scan(context.Background(), target, table,
		WithWorkers(4), WithChunkSize(3), WithProgress(progress))
	require.NoError(t, err)

	if diff := cmp.Diff(serial.Results, parallel.Results); diff != "" {
		t.Errorf("parallel results differ from serial (-serial +parallel):\n%s", diff)
	}
	if diff := cmp.Diff(serial.Signatures, parallel.Signatures); diff != "" {
		t.Errorf("parallel signatures differ from serial (-serial +parallel):\n%s", diff)
	}
	assert.Equal(t, 4, calls)
	assert.Equal(t, 10, last)
}

func TestScan_Errors(t *testing.T) {
	table := testutil.SampleTable(3)

	tests := []struct {
		wantErr error
		target  *big.Int
		table   *model.ZeroTable
		name    string
		opts    []Option
	}{
		{name: "nil table", target: big.NewInt(77), table: nil, wantErr: common.ErrEmptyZeroSet},
		{name: "empty table", target: big.NewInt(77), table: &model.ZeroTable{}, wantErr: common.ErrEmptyZeroSet},
		{name: "target one", target: big.NewInt(1), table: table, wantErr: common.ErrInvalidTarget},
		{name: "negative target", target: big.NewInt(-77), table: table, wantErr: common.ErrInvalidTarget},
		{name: "nil target", target: nil, table: table, wantErr: common.ErrInvalidTarget},
		{name: "threshold too high", target: big.NewInt(77), table: table, opts: []Option{WithThreshold(1.5)}, wantErr: common.ErrInvalidConfig},
		{name: "zero distance", target: big.NewInt(77), table: table, opts: []Option{WithDistThreshold(0)}, wantErr: common.ErrInvalidConfig},
		{name: "unknown precision", target: big.NewInt(77), table: table, opts: []Option{WithPrecision("decimal128", 0)}, wantErr: common.ErrInvalidConfig},
		{name: "too few bits", target: big.NewInt(77), table: table, opts: []Option{WithPrecision(PrecisionArbitrary, 32)}, wantErr: common.ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Scan(context.Background(), tt.target, tt.table, tt.opts...)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestScan_NonFiniteGamma(t *testing.T) {
	inf := testutil.SampleTable(3)
	inf.Zeros[1].Gamma = model.Decimal{Text: "Inf", Float: math.Inf(1)}

	nan := testutil.SampleTable(3)
	nan.Zeros[1].Gamma = model.Decimal{Text: "NaN", Float: math.NaN()}

	for _, precision := range []Precision{PrecisionFloat64, PrecisionArbitrary} {
		t.Run(string(precision)+"/inf", func(t *testing.T) {
			_, err := Scan(context.Background(), big.NewInt(77), inf,
				WithPrecision(precision, 128), WithWorkers(2), WithChunkSize(1))
			assert.ErrorIs(t, err, common.ErrMalformedZeroFile)
		})
		t.Run(string(precision)+"/nan", func(t *testing.T) {
			_, err := Scan(context.Background(), big.NewInt(77), nan, WithPrecision(precision, 128))
			assert.Error(t, err)
		})
	}
}

func TestScan_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Scan(ctx, big.NewInt(77), testutil.SampleTable(10), WithWorkers(2), WithChunkSize(2))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParsePrecision(t *testing.T) {
	tests := []struct {
		in      string
		want    Precision
		wantErr bool
	}{
		{in: "", want: PrecisionFloat64},
		{in: "float64", want: PrecisionFloat64},
		{in: " Arbitrary ", want: PrecisionArbitrary},
		{in: "float32", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePrecision(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, common.ErrInvalidConfig)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEstimateFactorMagnitude(t *testing.T) {
	est := EstimateFactorMagnitude(2*math.Pi, 10)
	assert.InDelta(t, 10.0, est.LogP, 1e-12)
	assert.InDelta(t, 4.342944819, est.Log10, 1e-9)
}

func TestLogInt_LargeValues(t *testing.T) {
	n := new(big.Int).Lsh(big.NewInt(1), 2000)
	assert.InDelta(t, 2000*math.Ln2, logInt(n), 1e-9)
	assert.InDelta(t, math.Log(77), logInt(big.NewInt(77)), 1e-12)
}
