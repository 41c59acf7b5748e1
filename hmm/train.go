package hmm

import (
	"math"
	"math/rand"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/LRParser/sign-language-hmm/internal/logmath"
)

// Train fits a Gaussian HMM to the concatenated sequences by log-domain
// Baum-Welch (EM). X holds all frames back to back; lengths gives the frame
// count of each sequence. Training is deterministic for a given Config.Seed.
func Train(X [][]float64, lengths []int, cfg Config) (*Model, error) {
	dim, err := validate(X, lengths, 0)
	if err != nil {
		return nil, errors.Wrap(err, "train")
	}
	N := cfg.NComponents
	if N < 1 {
		return nil, errors.Errorf("train: invalid state count %d", N)
	}
	if len(X) < N {
		return nil, errors.Errorf("train: %d frames cannot support %d states", len(X), N)
	}

	m, varFloor := initModel(X, dim, cfg)
	seqs := splitSequences(X, lengths)
	maxT := maxLen(lengths)

	// Workspaces reused across iterations and sequences.
	alpha := logmath.NewMat(maxT, N)
	beta := logmath.NewMat(maxT, N)
	emit := logmath.NewMat(maxT, N)
	gamma := logmath.NewMat(maxT, N) // linear-domain posteriors

	// Accumulators. Transitions stay in the log domain; occupancy-weighted
	// moment sums are linear, as in standard EM re-estimation.
	startAcc := make([]float64, N)
	occAcc := make([]float64, N)
	transAcc := logmath.NewMat(N, N)
	meanAcc := logmath.NewMat(N, dim)
	varAcc := logmath.NewMat(N, dim)

	prevLL := math.Inf(-1)
	for iter := 0; iter < cfg.MaxIter; iter++ {
		logmath.FillVec(startAcc, 0)
		logmath.FillVec(occAcc, 0)
		logmath.FillMat(transAcc, logmath.LogZero)
		logmath.FillMat(meanAcc, 0)
		logmath.FillMat(varAcc, 0)

		totalLL := 0.0
		scored := 0
		for _, obs := range seqs {
			T := len(obs)

			// E-step for one sequence.
			// forward fills emit as a side effect; backward reuses it.
			ll := m.forward(obs, emit[:T], alpha[:T])
			if math.IsNaN(ll) || ll <= logmath.LogZero+1 {
				continue
			}
			m.backward(obs, emit[:T], beta[:T])
			totalLL += ll
			scored++

			for t := 0; t < T; t++ {
				for j := 0; j < N; j++ {
					gamma[t][j] = math.Exp(alpha[t][j] + beta[t][j] - ll)
				}
			}
			for j := 0; j < N; j++ {
				startAcc[j] += gamma[0][j]
			}
			for t := 0; t < T-1; t++ {
				for i := 0; i < N; i++ {
					ai := alpha[t][i]
					if ai <= logmath.LogZero+1 {
						continue
					}
					for j := 0; j < N; j++ {
						xi := ai + m.TransLog[i][j] + emit[t+1][j] + beta[t+1][j] - ll
						transAcc[i][j] = logmath.LogAdd(transAcc[i][j], xi)
					}
				}
			}
			for t := 0; t < T; t++ {
				ot := obs[t]
				for j := 0; j < N; j++ {
					w := gamma[t][j]
					if w == 0 {
						continue
					}
					occAcc[j] += w
					mRow, vRow := meanAcc[j], varAcc[j]
					for d, xd := range ot {
						wx := w * xd
						mRow[d] += wx
						vRow[d] += wx * xd
					}
				}
			}
		}

		if scored == 0 {
			return nil, errors.New("train: no sequence has nonzero likelihood")
		}
		if iter > 0 && totalLL-prevLL < cfg.Tol {
			break
		}
		prevLL = totalLL

		// M-step.
		if sum := floats.Sum(startAcc); sum > 0 {
			for j := 0; j < N; j++ {
				if startAcc[j] > 0 {
					m.StartLog[j] = math.Log(startAcc[j] / sum)
				} else {
					m.StartLog[j] = logmath.LogZero
				}
			}
		}
		for i := 0; i < N; i++ {
			denom := logmath.LogZero
			for j := 0; j < N; j++ {
				denom = logmath.LogAdd(denom, transAcc[i][j])
			}
			if denom <= logmath.LogZero+1 {
				continue
			}
			for j := 0; j < N; j++ {
				if transAcc[i][j] > logmath.LogZero+1 {
					m.TransLog[i][j] = transAcc[i][j] - denom
				} else {
					m.TransLog[i][j] = logmath.LogZero
				}
			}
		}
		for j := 0; j < N; j++ {
			occ := occAcc[j]
			if occ < 1e-10 {
				// Starved state: leave its parameters untouched.
				continue
			}
			g := &m.states[j]
			for d := 0; d < dim; d++ {
				g.Mean[d] = meanAcc[j][d] / occ
				v := varAcc[j][d]/occ - g.Mean[d]*g.Mean[d]
				if v < varFloor[d] {
					v = varFloor[d]
				}
				g.Variance[d] = v
			}
			g.precompute()
		}
	}

	// A state that never acquired probability mass makes the model unusable
	// for scoring unseen data; report it as a fit failure so callers can
	// skip this state count.
	for j := 0; j < N; j++ {
		reachable := m.StartLog[j] > logmath.LogZero+1
		for i := 0; i < N && !reachable; i++ {
			reachable = m.TransLog[i][j] > logmath.LogZero+1
		}
		if !reachable {
			return nil, errors.Errorf("train: state %d unreachable after EM", j)
		}
	}
	return m, nil
}

// initModel builds the starting point for EM: uniform start and transition
// probabilities, means drawn from evenly spaced frames with seeded jitter,
// and variances from the global per-dimension data variance. It also returns
// the per-dimension variance floor.
func initModel(X [][]float64, dim int, cfg Config) (*Model, []float64) {
	N := cfg.NComponents
	rng := rand.New(rand.NewSource(cfg.Seed))

	m := &Model{
		NComponents: N,
		Dim:         dim,
		StartLog:    logmath.NewVecFill(N, -math.Log(float64(N))),
		TransLog:    logmath.NewMatFill(N, N, -math.Log(float64(N))),
		states:      make([]gaussian, N),
	}

	globalVar := make([]float64, dim)
	col := make([]float64, len(X))
	for d := 0; d < dim; d++ {
		for t := range X {
			col[t] = X[t][d]
		}
		globalVar[d] = stat.Variance(col, nil)
		if globalVar[d] < 1e-8 {
			globalVar[d] = 1e-8
		}
	}
	varFloor := make([]float64, dim)
	for d := range varFloor {
		varFloor[d] = cfg.MinVariance * globalVar[d]
	}

	for j := 0; j < N; j++ {
		// Anchor each state's mean at an evenly spaced frame so states start
		// spread across the data, with jitter to break ties between states
		// anchored near similar frames.
		anchor := X[(2*j+1)*len(X)/(2*N)]
		mean := make([]float64, dim)
		variance := make([]float64, dim)
		for d := 0; d < dim; d++ {
			mean[d] = anchor[d] + rng.NormFloat64()*0.01*math.Sqrt(globalVar[d])
			variance[d] = globalVar[d]
		}
		m.states[j] = gaussian{Mean: mean, Variance: variance}
		m.states[j].precompute()
	}
	return m, varFloor
}

// backward runs the backward recursion for one sequence using the emission
// log-probs already computed by forward.
func (m *Model) backward(obs [][]float64, emit, beta [][]float64) {
	T := len(obs)
	N := m.NComponents

	for j := 0; j < N; j++ {
		beta[T-1][j] = 0 // log(1)
	}
	for t := T - 2; t >= 0; t-- {
		for i := 0; i < N; i++ {
			logSum := logmath.LogZero
			for j := 0; j < N; j++ {
				logSum = logmath.LogAdd(logSum, m.TransLog[i][j]+emit[t+1][j]+beta[t+1][j])
			}
			beta[t][i] = logSum
		}
	}
}
