package hmm

import (
	"github.com/LRParser/sign-language-hmm/internal/logmath"
)

// Decode returns the most likely hidden state sequence for a single
// observation sequence and the joint log-probability of that path.
func (m *Model) Decode(obs [][]float64) ([]int, float64) {
	T := len(obs)
	N := m.NComponents
	if T == 0 {
		return nil, logmath.LogZero
	}

	delta := logmath.NewMat(T, N)
	back := make([][]int, T)
	for t := range back {
		back[t] = make([]int, N)
	}

	for j := 0; j < N; j++ {
		delta[0][j] = m.StartLog[j] + m.states[j].logProb(obs[0])
	}
	for t := 1; t < T; t++ {
		for j := 0; j < N; j++ {
			best, bestI := logmath.LogZero, 0
			for i := 0; i < N; i++ {
				if s := delta[t-1][i] + m.TransLog[i][j]; s > best {
					best, bestI = s, i
				}
			}
			delta[t][j] = best + m.states[j].logProb(obs[t])
			back[t][j] = bestI
		}
	}

	bestScore, bestJ := logmath.LogZero, 0
	for j := 0; j < N; j++ {
		if delta[T-1][j] > bestScore {
			bestScore, bestJ = delta[T-1][j], j
		}
	}

	path := make([]int, T)
	path[T-1] = bestJ
	for t := T - 1; t > 0; t-- {
		path[t-1] = back[t][path[t]]
	}
	return path, bestScore
}
