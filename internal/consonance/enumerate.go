package consonance

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/miosync-masa/digit-consonance/internal/common"
	"github.com/miosync-masa/digit-consonance/internal/model"
)

// RangeMode selects which numerators are enumerated by default.
type RangeMode string

// Range modes.
const (
	// RangeHalf enumerates 1..floor(N/2), the smaller factor of a split.
	RangeHalf RangeMode = "half"
	// RangeFull enumerates 1..N-1.
	RangeFull RangeMode = "full"
)

// ParseRangeMode validates a configured range mode.
func ParseRangeMode(s string) (RangeMode, error) {
	switch RangeMode(s) {
	case RangeHalf, RangeFull:
		return RangeMode(s), nil
	case "":
		return RangeHalf, nil
	default:
		return "", fmt.Errorf("%w: unknown range mode %q", common.ErrInvalidConfig, s)
	}
}

// EnumerateConfig holds enumeration settings.
type EnumerateConfig struct {
	Mode        RangeMode
	Threshold   int
	Low         int
	High        int
	RangeSet    bool
	CoprimeOnly bool
}

// EnumerateOption configures Enumerate.
type EnumerateOption func(*EnumerateConfig)

// WithThreshold sets the kappa threshold.
func WithThreshold(k int) EnumerateOption {
	return func(cfg *EnumerateConfig) {
		cfg.Threshold = k
	}
}

// WithRange enumerates the explicit numerator range [lo, hi].
func WithRange(lo, hi int) EnumerateOption {
	return func(cfg *EnumerateConfig) {
		cfg.Low = lo
		cfg.High = hi
		cfg.RangeSet = true
	}
}

// WithHalfRange enumerates 1..floor(N/2).
func WithHalfRange() EnumerateOption {
	return WithRangeMode(RangeHalf)
}

// WithFullRange enumerates 1..N-1.
func WithFullRange() EnumerateOption {
	return WithRangeMode(RangeFull)
}

// WithRangeMode selects a default range. An explicit WithRange wins.
func WithRangeMode(mode RangeMode) EnumerateOption {
	return func(cfg *EnumerateConfig) {
		cfg.Mode = mode
	}
}

// WithCoprimeOnly keeps only numerators coprime with N.
func WithCoprimeOnly() EnumerateOption {
	return func(cfg *EnumerateConfig) {
		cfg.CoprimeOnly = true
	}
}

func newEnumerateConfig(opts []EnumerateOption) EnumerateConfig {
	cfg := EnumerateConfig{
		Mode:      RangeHalf,
		Threshold: DefaultKappaThreshold,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

func (cfg EnumerateConfig) bounds(n int) (int, int) {
	if cfg.RangeSet {
		return cfg.Low, cfg.High
	}
	if cfg.Mode == RangeFull {
		return 1, n - 1
	}
	return 1, n / 2
}

// Analysis partitions the enumerated ratios of one digit count.
type Analysis struct {
	Consonant []model.Pattern
	Dissonant []model.Pattern
	Digits    int
	Threshold int
	Skipped   int
}

// Total returns the number of classified ratios.
func (a *Analysis) Total() int {
	return len(a.Consonant) + len(a.Dissonant)
}

// ConsonantShare returns the fraction of consonant ratios.
func (a *Analysis) ConsonantShare() float64 {
	total := a.Total()
	if total == 0 {
		return 0
	}
	return float64(len(a.Consonant)) / float64(total)
}

// Enumerate classifies every candidate numerator p/N in increasing order.
// Degenerate candidates are skipped; the call fails with ErrInvalidRange when
// nothing is left to classify.
func Enumerate(n int, opts ...EnumerateOption) (*Analysis, error) {
	cfg := newEnumerateConfig(opts)

	if n < 2 {
		return nil, fmt.Errorf("%w: digit count %d leaves no numerators", common.ErrInvalidRange, n)
	}

	lo, hi := cfg.bounds(n)
	if lo > hi {
		return nil, fmt.Errorf("%w: empty range [%d, %d]", common.ErrInvalidRange, lo, hi)
	}

	analysis := &Analysis{
		Digits:    n,
		Threshold: cfg.Threshold,
	}

	for p := lo; p <= hi; p++ {
		if cfg.CoprimeOnly && gcd(p, n) != 1 {
			continue
		}

		pattern, err := Classify(model.NewRatio(p, n), cfg.Threshold)
		if err != nil {
			if errors.Is(err, common.ErrInvalidRatio) {
				slog.Debug("skipping degenerate candidate", "numerator", p, "digits", n)
				analysis.Skipped++
				continue
			}
			return nil, err
		}

		if pattern.Consonant {
			analysis.Consonant = append(analysis.Consonant, pattern)
		} else {
			analysis.Dissonant = append(analysis.Dissonant, pattern)
		}
	}

	if analysis.Total() == 0 {
		return nil, fmt.Errorf("%w: no valid numerators in [%d, %d] for N=%d", common.ErrInvalidRange, lo, hi, n)
	}

	return analysis, nil
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	if a < 0 {
		return -a
	}
	return a
}

// SummaryRow is one line of the consonance distribution table.
type SummaryRow struct {
	Digits    int
	Consonant int
	Dissonant int
	Share     float64
}

// Summarize enumerates several digit counts with the same options.
func Summarize(digits []int, opts ...EnumerateOption) ([]SummaryRow, error) {
	rows := make([]SummaryRow, 0, len(digits))
	for _, n := range digits {
		analysis, err := Enumerate(n, opts...)
		if err != nil {
			return nil, fmt.Errorf("summarize N=%d: %w", n, err)
		}
		rows = append(rows, SummaryRow{
			Digits:    n,
			Consonant: len(analysis.Consonant),
			Dissonant: len(analysis.Dissonant),
			Share:     analysis.ConsonantShare(),
		})
	}
	return rows, nil
}

// SweepRow holds the partition sizes for one threshold.
type SweepRow struct {
	Threshold int
	Consonant int
	Dissonant int
}

// ThresholdSweep re-partitions N for each threshold.
func ThresholdSweep(n int, thresholds []int, opts ...EnumerateOption) ([]SweepRow, error) {
	rows := make([]SweepRow, 0, len(thresholds))
	for _, k := range thresholds {
		withK := append(opts[:len(opts):len(opts)], WithThreshold(k))
		analysis, err := Enumerate(n, withK...)
		if err != nil {
			return nil, err
		}
		rows = append(rows, SweepRow{
			Threshold: k,
			Consonant: len(analysis.Consonant),
			Dissonant: len(analysis.Dissonant),
		})
	}
	return rows, nil
}
