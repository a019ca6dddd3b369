package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
	"time"
)

// Decimal is a decimal number that keeps its source text so that precision
// beyond float64 is not lost.
type Decimal struct {
	Text  string
	Float float64
}

// ParseDecimal parses a decimal literal.
func ParseDecimal(text string) (Decimal, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Decimal{}, fmt.Errorf("empty decimal")
	}
	if strings.ContainsAny(text, "xXpP_") {
		return Decimal{}, fmt.Errorf("parse decimal %q: not a base-10 literal", text)
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return Decimal{}, fmt.Errorf("parse decimal %q: %w", text, err)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Decimal{}, fmt.Errorf("parse decimal %q: not a finite number", text)
	}
	return Decimal{Text: text, Float: f}, nil
}

// MustDecimal parses text or panics. Intended for fixtures and constants.
func MustDecimal(text string) Decimal {
	d, err := ParseDecimal(text)
	if err != nil {
		panic(err)
	}
	return d
}

// IsFinitePositive reports whether the decimal is set and holds a finite
// value above zero.
func (d Decimal) IsFinitePositive() bool {
	return d.Text != "" && d.Float > 0 && !math.IsInf(d.Float, 1)
}

// IsZero reports whether the decimal was never set.
func (d Decimal) IsZero() bool {
	return d.Text == ""
}

// BigFloat returns the decimal at the given precision in bits.
func (d Decimal) BigFloat(prec uint) (*big.Float, error) {
	f, _, err := big.ParseFloat(d.Text, 10, prec, big.ToNearestEven)
	if err != nil {
		return nil, fmt.Errorf("parse decimal %q: %w", d.Text, err)
	}
	return f, nil
}

// String returns the source text.
func (d Decimal) String() string {
	return d.Text
}

// UnmarshalJSON accepts both JSON numbers and decimal strings.
func (d *Decimal) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return fmt.Errorf("decimal is null")
	}
	text := string(data)
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
	}
	parsed, err := ParseDecimal(text)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MarshalJSON writes the decimal as a bare JSON number using its source text.
func (d Decimal) MarshalJSON() ([]byte, error) {
	if d.Text == "" {
		return []byte("null"), nil
	}
	return []byte(d.Text), nil
}

// ZetaZero is one non-trivial zero 1/2 + i*gamma of the Riemann zeta function.
type ZetaZero struct {
	Gamma  Decimal
	Weight Decimal
	Index  int
}

// ZeroMetadata describes the provenance of a zero table.
type ZeroMetadata struct {
	FileMeta  map[string]any
	T         *float64
	Source    string
	Version   string
	Accuracy  string
	FileK     int
	LoadedK   int
	GammaMin  float64
	GammaMax  float64
	WeightMin float64
	WeightMax float64
}

// ZeroTable is an ordered list of zeros plus metadata.
type ZeroTable struct {
	Zeros    []ZetaZero
	Metadata ZeroMetadata
}

// Gammas returns the imaginary parts in index order.
func (t *ZeroTable) Gammas() []float64 {
	out := make([]float64, len(t.Zeros))
	for i, z := range t.Zeros {
		out[i] = z.Gamma.Float
	}
	return out
}

// Weights returns the weights in index order.
func (t *ZeroTable) Weights() []float64 {
	out := make([]float64, len(t.Zeros))
	for i, z := range t.Zeros {
		out[i] = z.Weight.Float
	}
	return out
}

// Len returns the number of zeros.
func (t *ZeroTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Zeros)
}

// ZeroTableInfo summarizes a cached zero table.
type ZeroTableInfo struct {
	ImportedAt time.Time
	Name       string
	Source     string
	Version    string
	Accuracy   string
	Count      int
}

// UpdateRanges recomputes LoadedK and the gamma and weight ranges from Zeros.
func (t *ZeroTable) UpdateRanges() {
	m := &t.Metadata
	m.LoadedK = len(t.Zeros)
	m.GammaMin, m.GammaMax, m.WeightMin, m.WeightMax = 0, 0, 0, 0
	for i, z := range t.Zeros {
		g, w := z.Gamma.Float, z.Weight.Float
		if i == 0 {
			m.GammaMin, m.GammaMax = g, g
			m.WeightMin, m.WeightMax = w, w
			continue
		}
		m.GammaMin = min(m.GammaMin, g)
		m.GammaMax = max(m.GammaMax, g)
		m.WeightMin = min(m.WeightMin, w)
		m.WeightMax = max(m.WeightMax, w)
	}
}
