package resonance

import (
	"fmt"
	"math"
	"math/big"

	"github.com/ALTree/bigfloat"
	"github.com/miosync-masa/digit-consonance/internal/common"
	"github.com/miosync-masa/digit-consonance/internal/model"
)

// piText is pi to 110 decimal places.
const piText = "3.14159265358979323846264338327950288419716939937510582097494459230781640628620899862803482534211706798214808651"

// phaser turns a zero into (score, cycles) for a fixed target.
type phaser interface {
	phase(z model.ZetaZero) (score, cycles float64, err error)
}

// logInt returns ln(n) for n > 0 without overflowing float64 on large n.
func logInt(n *big.Int) float64 {
	mant := new(big.Float)
	exp := new(big.Float).SetInt(n).MantExp(mant)
	m, _ := mant.Float64()
	return math.Log(m) + float64(exp)*math.Ln2
}

type floatPhaser struct {
	logN float64
}

func (p floatPhaser) phase(z model.ZetaZero) (float64, float64, error) {
	phi := z.Gamma.Float * p.logN
	if math.IsNaN(phi) || math.IsInf(phi, 0) {
		return 0, 0, fmt.Errorf("%w: zero n=%d has no finite phase", common.ErrMalformedZeroFile, z.Index)
	}
	return math.Cos(phi), phi / (2 * math.Pi), nil
}

// bigPhaser computes gamma*ln(N) from the zero's decimal text and reduces it
// mod 2pi before taking the cosine, so the score keeps its precision even when
// the phase is in the hundreds of thousands of radians.
type bigPhaser struct {
	logN  *big.Float
	twoPi *big.Float
	prec  uint
}

func newBigPhaser(n *big.Int, prec uint) (*bigPhaser, error) {
	x := new(big.Float).SetPrec(prec).SetInt(n)
	pi, _, err := big.ParseFloat(piText, 10, prec, big.ToNearestEven)
	if err != nil {
		return nil, fmt.Errorf("parse pi: %w", err)
	}
	return &bigPhaser{
		logN:  bigfloat.Log(x),
		twoPi: new(big.Float).SetPrec(prec).Mul(pi, big.NewFloat(2)),
		prec:  prec,
	}, nil
}

func (p *bigPhaser) phase(z model.ZetaZero) (float64, float64, error) {
	gamma, err := z.Gamma.BigFloat(p.prec)
	if err != nil {
		return 0, 0, err
	}

	phi := new(big.Float).SetPrec(p.prec).Mul(gamma, p.logN)
	if phi.IsInf() {
		return 0, 0, fmt.Errorf("%w: zero n=%d has no finite phase", common.ErrMalformedZeroFile, z.Index)
	}
	cycles := new(big.Float).SetPrec(p.prec).Quo(phi, p.twoPi)

	whole, _ := cycles.Int(nil)
	turns := new(big.Float).SetPrec(p.prec).SetInt(whole)
	rem := new(big.Float).SetPrec(p.prec).Mul(turns, p.twoPi)
	rem.Sub(phi, rem)

	r, _ := rem.Float64()
	c, _ := cycles.Float64()
	return math.Cos(r), c, nil
}
