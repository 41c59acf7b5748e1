// Package hmm implements diagonal-covariance Gaussian hidden Markov models
// with ergodic topology, trained by log-domain Baum-Welch and scored by the
// forward algorithm. One model is trained per vocabulary word; the number of
// hidden states is chosen by the selector package.
package hmm

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"

	"github.com/LRParser/sign-language-hmm/internal/logmath"
)

// Config holds training parameters.
type Config struct {
	NComponents int     // number of hidden states
	MaxIter     int     // max Baum-Welch iterations
	Tol         float64 // log-likelihood improvement threshold
	MinVariance float64 // variance floor, relative to global data variance
	Seed        int64   // rng seed for parameter initialization
}

// DefaultConfig returns the training parameters used throughout the
// recognizer: up to 1000 EM iterations with a fixed seed so that repeated
// runs select the same models.
func DefaultConfig(numStates int) Config {
	return Config{
		NComponents: numStates,
		MaxIter:     1000,
		Tol:         0.01,
		MinVariance: 1e-3,
		Seed:        14,
	}
}

// Model is a trained Gaussian HMM. All probabilities are stored in the log
// domain. States are fully connected.
type Model struct {
	NComponents int
	Dim         int
	StartLog    []float64   // [N] log initial state probs
	TransLog    [][]float64 // [N][N] log transition probs
	states      []gaussian  // [N] emission densities
}

// Means returns the per-state emission means, one row per state.
func (m *Model) Means() [][]float64 {
	out := make([][]float64, m.NComponents)
	for i := range m.states {
		out[i] = m.states[i].Mean
	}
	return out
}

// Variances returns the per-state diagonal covariances, one row per state.
func (m *Model) Variances() [][]float64 {
	out := make([][]float64, m.NComponents)
	for i := range m.states {
		out[i] = m.states[i].Variance
	}
	return out
}

// validate checks that X and lengths describe a consistent set of
// concatenated sequences of dimension dim (dim <= 0 means any).
func validate(X [][]float64, lengths []int, dim int) (int, error) {
	if len(X) == 0 {
		return 0, errors.New("no observations")
	}
	if len(lengths) == 0 {
		return 0, errors.New("no sequence lengths")
	}
	total := 0
	for i, l := range lengths {
		if l <= 0 {
			return 0, errors.Errorf("sequence %d has non-positive length %d", i, l)
		}
		total += l
	}
	if total != len(X) {
		return 0, errors.Errorf("lengths sum to %d but X has %d frames", total, len(X))
	}
	d := len(X[0])
	if d == 0 {
		return 0, errors.New("zero-dimensional observations")
	}
	if dim > 0 && d != dim {
		return 0, errors.Errorf("observation dim %d, model dim %d", d, dim)
	}
	for t := 1; t < len(X); t++ {
		if len(X[t]) != d {
			return 0, errors.Errorf("frame %d has dim %d, want %d", t, len(X[t]), d)
		}
	}
	return d, nil
}

// splitSequences slices the concatenated X back into its per-sequence views.
func splitSequences(X [][]float64, lengths []int) [][][]float64 {
	seqs := make([][][]float64, len(lengths))
	off := 0
	for i, l := range lengths {
		seqs[i] = X[off : off+l]
		off += l
	}
	return seqs
}

// forward runs the forward recursion for one sequence, reusing the emit and
// alpha workspaces (both at least T rows of N columns). It returns the
// sequence log-likelihood log P(O | model).
func (m *Model) forward(obs [][]float64, emit, alpha [][]float64) float64 {
	T := len(obs)
	N := m.NComponents

	// State-outer loop keeps each state's cached parameters hot.
	for j := 0; j < N; j++ {
		g := &m.states[j]
		for t, o := range obs {
			emit[t][j] = g.logProb(o)
		}
	}

	for j := 0; j < N; j++ {
		alpha[0][j] = m.StartLog[j] + emit[0][j]
	}
	for t := 1; t < T; t++ {
		for j := 0; j < N; j++ {
			logSum := logmath.LogZero
			for i := 0; i < N; i++ {
				logSum = logmath.LogAdd(logSum, alpha[t-1][i]+m.TransLog[i][j])
			}
			alpha[t][j] = logSum + emit[t][j]
		}
	}
	return floats.LogSumExp(alpha[T-1])
}

// Score returns the total forward log-likelihood of the concatenated
// sequences under the model.
func (m *Model) Score(X [][]float64, lengths []int) (float64, error) {
	if _, err := validate(X, lengths, m.Dim); err != nil {
		return 0, errors.Wrap(err, "score")
	}
	total := 0.0
	emit := logmath.NewMat(maxLen(lengths), m.NComponents)
	alpha := logmath.NewMat(maxLen(lengths), m.NComponents)
	for _, obs := range splitSequences(X, lengths) {
		ll := m.forward(obs, emit, alpha)
		if math.IsNaN(ll) || ll <= logmath.LogZero+1 {
			return 0, errors.New("score: sequence has zero likelihood under model")
		}
		total += ll
	}
	return total, nil
}

func maxLen(lengths []int) int {
	m := 0
	for _, l := range lengths {
		if l > m {
			m = l
		}
	}
	return m
}
