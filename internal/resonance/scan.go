// Package resonance scores Riemann zeta zeros against a target integer N.
//
// A zero 1/2 + i*gamma resonates with N when gamma*ln(N) lies close to a whole
// number of turns, that is when cos(gamma*ln(N)) is near 1. The cycle count of
// each resonant zero is then split across candidate digit counts (p, q) of the
// factors of N to find digit signatures.
package resonance

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"sort"
	"sync"
	"time"

	"github.com/miosync-masa/digit-consonance/internal/common"
	"github.com/miosync-masa/digit-consonance/internal/consonance"
	"github.com/miosync-masa/digit-consonance/internal/model"
	"golang.org/x/sync/errgroup"
)

// Report is the outcome of scanning one target against a zero table.
type Report struct {
	Target     *big.Int
	Results    []model.ResonanceResult
	Resonant   []model.ResonanceResult
	Signatures []model.SignatureMatch
	Groups     []SignatureGroup
	Config     Config
	Elapsed    time.Duration
	Digits     int
	LogN       float64
}

// StrongestResonance returns the resonant zero with the highest score.
func (r *Report) StrongestResonance() (model.ResonanceResult, error) {
	if len(r.Resonant) == 0 {
		return model.ResonanceResult{}, common.ErrNoResonance
	}
	return r.Resonant[0], nil
}

// SignatureFor returns the most consistent signature found for a zero.
func (r *Report) SignatureFor(zeroIndex int) (model.SignatureMatch, bool) {
	for _, s := range r.Signatures {
		if s.ZeroIndex == zeroIndex {
			return s, true
		}
	}
	return model.SignatureMatch{}, false
}

// BestSignature returns the signature group with the smallest mean inconsistency.
func (r *Report) BestSignature() (SignatureGroup, error) {
	if len(r.Groups) == 0 {
		return SignatureGroup{}, fmt.Errorf("%w: no digit signatures", common.ErrNoResonance)
	}
	return r.Groups[0], nil
}

// ResonanceRate returns the share of zeros that were flagged.
func (r *Report) ResonanceRate() float64 {
	if len(r.Results) == 0 {
		return 0
	}
	return float64(len(r.Resonant)) / float64(len(r.Results))
}

// Scanner scores zero tables with a fixed configuration.
type Scanner struct {
	cfg Config
}

// NewScanner returns a scanner with DefaultConfig adjusted by opts.
func NewScanner(opts ...Option) (*Scanner, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.ChunkSize < 1 {
		cfg.ChunkSize = DefaultChunkSize
	}
	return &Scanner{cfg: cfg}, nil
}

// Config returns the effective configuration.
func (s *Scanner) Config() Config {
	return s.cfg
}

// Scan is a convenience wrapper around NewScanner and Scanner.Scan.
func Scan(ctx context.Context, target *big.Int, table *model.ZeroTable, opts ...Option) (*Report, error) {
	s, err := NewScanner(opts...)
	if err != nil {
		return nil, err
	}
	return s.Scan(ctx, target, table)
}

// Scan scores every zero in table against target and extracts digit signatures
// from the resonant ones. The result order matches the table order regardless
// of the number of workers.
func (s *Scanner) Scan(ctx context.Context, target *big.Int, table *model.ZeroTable) (*Report, error) {
	if table.Len() == 0 {
		return nil, common.ErrEmptyZeroSet
	}
	if target == nil || target.Cmp(big.NewInt(2)) < 0 {
		return nil, fmt.Errorf("%w: N must be at least 2, got %v", common.ErrInvalidTarget, target)
	}

	start := time.Now()
	digits, err := consonance.DigitCount(target, 10)
	if err != nil {
		return nil, err
	}

	ph, err := s.phaser(target)
	if err != nil {
		return nil, err
	}

	results, err := s.scoreAll(ctx, ph, table.Zeros)
	if err != nil {
		return nil, err
	}

	report := &Report{
		Target:  new(big.Int).Set(target),
		Digits:  digits,
		LogN:    logInt(target),
		Results: results,
		Config:  s.cfg,
	}

	for _, r := range results {
		if r.Flagged {
			report.Resonant = append(report.Resonant, r)
		}
	}

	report.Signatures = findSignatures(report.Resonant, digits, report.LogN, s.cfg)
	report.Groups = groupSignatures(report.Signatures)

	sort.SliceStable(report.Resonant, func(i, j int) bool {
		return report.Resonant[i].Score > report.Resonant[j].Score
	})

	report.Elapsed = time.Since(start)
	slog.Debug("resonance scan complete",
		"digits", digits,
		"zeros", len(results),
		"resonant", len(report.Resonant),
		"signatures", len(report.Signatures),
		"precision", s.cfg.Precision,
		"elapsed", report.Elapsed)

	return report, nil
}

func (s *Scanner) phaser(target *big.Int) (phaser, error) {
	if s.cfg.Precision == PrecisionArbitrary {
		return newBigPhaser(target, s.cfg.Bits)
	}
	return floatPhaser{logN: logInt(target)}, nil
}

// scoreAll splits zeros into contiguous chunks and scores them on up to
// cfg.Workers goroutines. Each chunk writes only its own slots of results.
func (s *Scanner) scoreAll(ctx context.Context, ph phaser, zeros []model.ZetaZero) ([]model.ResonanceResult, error) {
	results := make([]model.ResonanceResult, len(zeros))
	total := len(zeros)

	var (
		mu   sync.Mutex
		done int
	)
	report := func(n int) {
		if s.cfg.Progress == nil {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		done += n
		s.cfg.Progress(done, total)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Workers)

	for lo := 0; lo < total; lo += s.cfg.ChunkSize {
		hi := min(lo+s.cfg.ChunkSize, total)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			for i := lo; i < hi; i++ {
				score, cycles, err := ph.phase(zeros[i])
				if err != nil {
					return fmt.Errorf("zero n=%d: %w", zeros[i].Index, err)
				}
				results[i] = model.ResonanceResult{
					Zero:    zeros[i],
					Score:   score,
					Cycles:  cycles,
					Flagged: score > s.cfg.Threshold,
				}
			}
			report(hi - lo)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
