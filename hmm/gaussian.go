package hmm

import "math"

// gaussian is a single multivariate Gaussian with diagonal covariance,
// used as the emission density of one hidden state.
type gaussian struct {
	Mean     []float64 // [dim]
	Variance []float64 // [dim] diagonal covariance

	// Pre-computed values, rebuilt by precompute() after any parameter update.
	logNormConst float64
	invVariance  []float64
}

// precompute recalculates the cached normalization constant and inverse
// variances. Must be called after updating Mean or Variance.
func (g *gaussian) precompute() {
	dim := len(g.Mean)
	sumLog := 0.0
	for _, v := range g.Variance {
		sumLog += math.Log(v)
	}
	g.logNormConst = float64(dim)/2.0*math.Log(2*math.Pi) + 0.5*sumLog
	if g.invVariance == nil {
		g.invVariance = make([]float64, dim)
	}
	for i, v := range g.Variance {
		g.invVariance[i] = 1.0 / v
	}
}

// logProb computes log N(x; mean, diag variance).
func (g *gaussian) logProb(x []float64) float64 {
	maha := 0.0
	for d, xd := range x {
		diff := xd - g.Mean[d]
		maha += diff * diff * g.invVariance[d]
	}
	return -0.5*maha - g.logNormConst
}
