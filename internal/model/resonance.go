package model

// ResonanceResult is the score of one zero against a target integer.
type ResonanceResult struct {
	Zero    ZetaZero
	Score   float64 // cos(gamma * ln N)
	Cycles  float64 // gamma * ln N / 2pi
	Flagged bool
}

// Signature is a candidate digit split (p, q) of a total digit count.
type Signature struct {
	PDigits     int
	QDigits     int
	TotalDigits int
}

// SignatureMatch is a signature that aligned with a resonant zero.
type SignatureMatch struct {
	Gamma       Decimal
	Signature   Signature
	Cycles      float64
	NP          int64
	NQ          int64
	Distance    float64
	Consistency float64
	ZeroIndex   int
}
