// Package zeta loads tables of non-trivial Riemann zeta zeros.
//
// Tables are JSON documents of the form
//
//	{
//	  "source": "mpmath_zetazero", "version": "2.0", "K": 10000, "T": 10000.0,
//	  "accuracy": "mpmath dps=80",
//	  "zeros": [{"n": 1, "gamma": 14.134725..., "w": 0.0615...}, ...],
//	  "meta": {...}
//	}
//
// gamma and w may be JSON numbers or decimal strings; their source text is kept
// verbatim so callers can recover full precision.
package zeta

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"

	"github.com/miosync-masa/digit-consonance/internal/common"
	"github.com/miosync-masa/digit-consonance/internal/model"
)

const unknown = "unknown"

// LoadConfig holds loader settings.
type LoadConfig struct {
	MaxZeros int
}

// LoadOption configures Load and Decode.
type LoadOption func(*LoadConfig)

// WithMaxZeros keeps only the first k zeros by index. k <= 0 keeps all.
func WithMaxZeros(k int) LoadOption {
	return func(cfg *LoadConfig) {
		cfg.MaxZeros = k
	}
}

type fileZero struct {
	N     *int           `json:"n"`
	Gamma *model.Decimal `json:"gamma"`
	W     *model.Decimal `json:"w"`
}

type fileTable struct {
	Source   any            `json:"source"`
	Version  any            `json:"version"`
	K        *int           `json:"K"`
	T        *float64       `json:"T"`
	Accuracy any            `json:"accuracy"`
	Meta     map[string]any `json:"meta"`
	Zeros    []fileZero     `json:"zeros"`
}

// Load reads a zero table from a JSON file.
func Load(path string, opts ...LoadOption) (*model.ZeroTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open zero file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			slog.Warn("Failed to close zero file", "path", path, "error", closeErr)
		}
	}()

	table, err := Decode(f, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	common.LogDebug("loaded zeta zeros", common.Fields{
		"path":   path,
		"source": table.Metadata.Source,
		"loaded": table.Metadata.LoadedK,
		"file_k": table.Metadata.FileK,
	})
	return table, nil
}

// Decode reads a zero table from r.
func Decode(r io.Reader, opts ...LoadOption) (*model.ZeroTable, error) {
	cfg := LoadConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	dec := json.NewDecoder(r)
	dec.UseNumber()

	var raw fileTable
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", common.ErrMalformedZeroFile)
		}
		return nil, fmt.Errorf("%w: %v", common.ErrMalformedZeroFile, err)
	}

	if len(raw.Zeros) == 0 {
		return nil, fmt.Errorf("%w: no zeros found in file", common.ErrEmptyZeroSet)
	}

	zeros, err := convertZeros(raw.Zeros)
	if err != nil {
		return nil, err
	}

	if cfg.MaxZeros > 0 && len(zeros) > cfg.MaxZeros {
		zeros = zeros[:cfg.MaxZeros]
	}

	table := &model.ZeroTable{Zeros: zeros, Metadata: buildMetadata(raw)}
	table.UpdateRanges()
	warnIfUnordered(zeros)

	return table, nil
}

func convertZeros(records []fileZero) ([]model.ZetaZero, error) {
	zeros := make([]model.ZetaZero, 0, len(records))
	seen := make(map[int]struct{}, len(records))

	for i, rec := range records {
		switch {
		case rec.N == nil:
			return nil, fmt.Errorf("%w: zero at position %d: missing n", common.ErrMalformedZeroFile, i)
		case *rec.N <= 0:
			return nil, fmt.Errorf("%w: zero at position %d: index %d must be positive", common.ErrMalformedZeroFile, i, *rec.N)
		case rec.Gamma == nil:
			return nil, fmt.Errorf("%w: zero n=%d: missing gamma", common.ErrMalformedZeroFile, *rec.N)
		case rec.W == nil:
			return nil, fmt.Errorf("%w: zero n=%d: missing w", common.ErrMalformedZeroFile, *rec.N)
		case !rec.Gamma.IsFinitePositive():
			return nil, fmt.Errorf("%w: zero n=%d: gamma %s must be positive", common.ErrMalformedZeroFile, *rec.N, rec.Gamma)
		case !rec.W.IsFinitePositive():
			return nil, fmt.Errorf("%w: zero n=%d: weight %s must be positive", common.ErrMalformedZeroFile, *rec.N, rec.W)
		}

		if _, dup := seen[*rec.N]; dup {
			return nil, fmt.Errorf("%w: duplicate zero index %d", common.ErrMalformedZeroFile, *rec.N)
		}
		seen[*rec.N] = struct{}{}

		zeros = append(zeros, model.ZetaZero{
			Index:  *rec.N,
			Gamma:  *rec.Gamma,
			Weight: *rec.W,
		})
	}

	sort.Slice(zeros, func(i, j int) bool {
		return zeros[i].Index < zeros[j].Index
	})
	return zeros, nil
}

func buildMetadata(raw fileTable) model.ZeroMetadata {
	meta := model.ZeroMetadata{
		Source:   stringOr(raw.Source, unknown),
		Version:  stringOr(raw.Version, unknown),
		Accuracy: stringOr(raw.Accuracy, unknown),
		FileK:    len(raw.Zeros),
		T:        raw.T,
		FileMeta: raw.Meta,
	}
	if raw.K != nil {
		meta.FileK = *raw.K
	}
	return meta
}

func stringOr(v any, fallback string) string {
	switch t := v.(type) {
	case nil:
		return fallback
	case string:
		if t == "" {
			return fallback
		}
		return t
	default:
		return fmt.Sprint(t)
	}
}

// warnIfUnordered logs when gammas are not strictly increasing in index order.
// Scoring does not depend on the order, so the table is still accepted.
func warnIfUnordered(zeros []model.ZetaZero) {
	for i := 1; i < len(zeros); i++ {
		if zeros[i].Gamma.Float <= zeros[i-1].Gamma.Float {
			slog.Warn("zeta zeros are not strictly increasing",
				"index", zeros[i].Index,
				"gamma", zeros[i].Gamma.Text,
				"previous", zeros[i-1].Gamma.Text)
			return
		}
	}
}
