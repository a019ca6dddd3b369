package resonance

import (
	"math"
	"sort"

	"github.com/miosync-masa/digit-consonance/internal/model"
)

// SignatureGroup aggregates the matches of one (p, q, d) signature.
type SignatureGroup struct {
	Signature       model.Signature
	Count           int
	MeanConsistency float64
	Variance        float64
	MinConsistency  float64
}

// FactorEstimate is the factor size implied by a cycle split.
type FactorEstimate struct {
	LogP  float64 // natural log of the estimated factor
	Log10 float64
}

// EstimateFactorMagnitude returns ln p = nP*2pi/gamma.
func EstimateFactorMagnitude(gamma float64, nP int64) FactorEstimate {
	logP := float64(nP) * 2 * math.Pi / gamma
	return FactorEstimate{LogP: logP, Log10: logP / math.Ln10}
}

// harmonicCheck tests whether the p-cycle estimate, turned back into ln p,
// leaves a q-cycle count consistent with the split. The split ratio is taken
// against the digit count of N itself.
func harmonicCheck(gamma, logN, cycles float64, pDigits, digitsN int) (patternDist, total float64) {
	ratio := float64(pDigits) / float64(digitsN)
	expP := cycles * ratio
	expQ := cycles * (1 - ratio)
	patternDist = math.Abs(expP-math.RoundToEven(expP)) + math.Abs(expQ-math.RoundToEven(expQ))

	logP := math.RoundToEven(expP) * 2 * math.Pi / gamma
	qCheck := gamma * (logN - logP) / (2 * math.Pi)
	nqDist := math.Abs(qCheck - math.RoundToEven(expQ))

	return patternDist, patternDist + nqDist
}

// findSignatures splits the cycle count of each resonant zero across every
// digit split of digitsN and digitsN+1 total digits and keeps the splits that
// land on whole cycle counts. The result is sorted by consistency.
func findSignatures(resonant []model.ResonanceResult, digitsN int, logN float64, cfg Config) []model.SignatureMatch {
	var matches []model.SignatureMatch

	for _, r := range resonant {
		gamma := r.Zero.Gamma.Float
		n := r.Cycles

		for _, total := range [2]int{digitsN, digitsN + 1} {
			for p := 1; p < total; p++ {
				q := total - p
				// Equal splits stay: they are the balanced-factor case.
				if !cfg.AllSplits && p > q {
					break
				}

				ratio := float64(p) / float64(total)
				expP := n * ratio
				expQ := n * (1 - ratio)
				dist := math.Abs(expP-math.RoundToEven(expP)) + math.Abs(expQ-math.RoundToEven(expQ))
				if dist >= cfg.DistThreshold {
					continue
				}

				consistency := dist
				if cfg.HarmonicFilter {
					_, c := harmonicCheck(gamma, logN, n, p, digitsN)
					if c >= cfg.HarmonicThreshold {
						continue
					}
					consistency = c
				}

				matches = append(matches, model.SignatureMatch{
					Gamma:       r.Zero.Gamma,
					ZeroIndex:   r.Zero.Index,
					Signature:   model.Signature{PDigits: p, QDigits: q, TotalDigits: total},
					Cycles:      n,
					NP:          int64(math.RoundToEven(expP)),
					NQ:          int64(math.RoundToEven(expQ)),
					Distance:    dist,
					Consistency: consistency,
				})
			}
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Consistency < matches[j].Consistency
	})
	return matches
}

// groupSignatures groups matches by signature and ranks the groups by mean
// consistency, then by match count, then by smaller p.
func groupSignatures(matches []model.SignatureMatch) []SignatureGroup {
	byKey := make(map[model.Signature][]float64)
	var order []model.Signature
	for _, m := range matches {
		if _, ok := byKey[m.Signature]; !ok {
			order = append(order, m.Signature)
		}
		byKey[m.Signature] = append(byKey[m.Signature], m.Consistency)
	}

	groups := make([]SignatureGroup, 0, len(order))
	for _, sig := range order {
		vals := byKey[sig]
		g := SignatureGroup{Signature: sig, Count: len(vals), MinConsistency: vals[0]}
		var sum float64
		for _, v := range vals {
			sum += v
			g.MinConsistency = min(g.MinConsistency, v)
		}
		g.MeanConsistency = sum / float64(len(vals))
		for _, v := range vals {
			d := v - g.MeanConsistency
			g.Variance += d * d
		}
		g.Variance /= float64(len(vals))
		groups = append(groups, g)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		a, b := groups[i], groups[j]
		if a.MeanConsistency != b.MeanConsistency {
			return a.MeanConsistency < b.MeanConsistency
		}
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		if a.Signature.PDigits != b.Signature.PDigits {
			return a.Signature.PDigits < b.Signature.PDigits
		}
		return a.Signature.TotalDigits < b.Signature.TotalDigits
	})
	return groups
}
