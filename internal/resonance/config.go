package resonance

import (
	"fmt"
	"strings"

	"github.com/miosync-masa/digit-consonance/internal/common"
)

// Scoring defaults.
const (
	DefaultThreshold         = 0.95
	DefaultDistThreshold     = 0.01
	DefaultHarmonicThreshold = 0.02
	DefaultBits              = 256
	DefaultChunkSize         = 256
)

// Precision selects how the phase gamma*ln(N) is computed.
type Precision string

// Precision modes.
const (
	PrecisionFloat64   Precision = "float64"
	PrecisionArbitrary Precision = "arbitrary"
)

// ParsePrecision parses a precision name. An empty name means float64.
func ParsePrecision(s string) (Precision, error) {
	switch p := Precision(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return PrecisionFloat64, nil
	case PrecisionFloat64, PrecisionArbitrary:
		return p, nil
	default:
		return "", fmt.Errorf("%w: unknown precision %q", common.ErrInvalidConfig, s)
	}
}

// ProgressFunc receives the number of zeros scored so far and the total.
type ProgressFunc func(done, total int)

// Config controls a resonance scan.
type Config struct {
	Progress          ProgressFunc
	Precision         Precision
	Threshold         float64
	DistThreshold     float64
	HarmonicThreshold float64
	Bits              uint
	Workers           int
	ChunkSize         int
	HarmonicFilter    bool
	// AllSplits also reports mirrored splits with p > q.
	AllSplits bool
}

// DefaultConfig returns the reference scoring settings.
func DefaultConfig() Config {
	return Config{
		Precision:         PrecisionFloat64,
		Threshold:         DefaultThreshold,
		DistThreshold:     DefaultDistThreshold,
		HarmonicThreshold: DefaultHarmonicThreshold,
		HarmonicFilter:    true,
		Bits:              DefaultBits,
		Workers:           1,
		ChunkSize:         DefaultChunkSize,
	}
}

// Option configures a Scanner.
type Option func(*Config)

// WithThreshold sets the cosine cutoff above which a zero is resonant.
func WithThreshold(t float64) Option {
	return func(c *Config) { c.Threshold = t }
}

// WithDistThreshold sets the pattern distance cutoff for signatures.
func WithDistThreshold(t float64) Option {
	return func(c *Config) { c.DistThreshold = t }
}

// WithHarmonicFilter enables the secondary consistency check with the given cutoff.
func WithHarmonicFilter(t float64) Option {
	return func(c *Config) {
		c.HarmonicFilter = true
		c.HarmonicThreshold = t
	}
}

// WithoutHarmonicFilter keeps every signature that passes the distance check.
func WithoutHarmonicFilter() Option {
	return func(c *Config) { c.HarmonicFilter = false }
}

// WithPrecision selects the phase arithmetic. bits applies to PrecisionArbitrary
// and falls back to DefaultBits when zero.
func WithPrecision(p Precision, bits uint) Option {
	return func(c *Config) {
		c.Precision = p
		if bits > 0 {
			c.Bits = bits
		}
	}
}

// WithWorkers scores chunks of zeros on n goroutines.
func WithWorkers(n int) Option {
	return func(c *Config) { c.Workers = n }
}

// WithChunkSize sets how many zeros a worker scores per unit of work.
func WithChunkSize(n int) Option {
	return func(c *Config) { c.ChunkSize = n }
}

// WithProgress registers a callback invoked after each chunk.
func WithProgress(fn ProgressFunc) Option {
	return func(c *Config) { c.Progress = fn }
}

// WithAllSplits includes mirrored (q, p) signatures.
func WithAllSplits() Option {
	return func(c *Config) { c.AllSplits = true }
}

func (c Config) validate() error {
	switch {
	case c.Threshold < -1 || c.Threshold >= 1:
		return fmt.Errorf("%w: resonance threshold %v must be in [-1, 1)", common.ErrInvalidConfig, c.Threshold)
	case c.DistThreshold <= 0:
		return fmt.Errorf("%w: distance threshold %v must be positive", common.ErrInvalidConfig, c.DistThreshold)
	case c.HarmonicFilter && c.HarmonicThreshold <= 0:
		return fmt.Errorf("%w: harmonic threshold %v must be positive", common.ErrInvalidConfig, c.HarmonicThreshold)
	case c.Precision != PrecisionFloat64 && c.Precision != PrecisionArbitrary:
		return fmt.Errorf("%w: unknown precision %q", common.ErrInvalidConfig, c.Precision)
	case c.Precision == PrecisionArbitrary && c.Bits < 64:
		return fmt.Errorf("%w: %d bits is below float64 precision", common.ErrInvalidConfig, c.Bits)
	}
	return nil
}
