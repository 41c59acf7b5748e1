package selector

import (
	"math"

	"github.com/pkg/errors"

	"github.com/LRParser/sign-language-hmm/hmm"
)

// BIC selects the state count with the lowest Bayesian information
// criterion: BIC = -2·logL + p·log N, where logL is the fitted model's
// log-likelihood on the training data, p the number of free parameters and
// N the number of training sequences. The parameter count for n states over
// d-dimensional observations is n² + 2·n·d − 1 (transitions, start
// probabilities, means and diagonal covariances).
type BIC struct {
	Base
}

// NewBIC returns a BIC selector for the given word.
func NewBIC(base Base) *BIC { return &BIC{Base: base} }

// Select sweeps the candidate state counts and returns the model with the
// lowest BIC. Sizes that exceed the shortest training sequence or fail to
// fit are skipped.
func (s *BIC) Select() (*hmm.Model, error) {
	data := s.Data()
	if len(data.X) == 0 {
		return nil, errors.Errorf("no training data for %q", s.ThisWord)
	}
	d := s.dim()
	shortest := minSeqLen(data)
	logN := math.Log(float64(len(data.Lengths)))

	var best *hmm.Model
	bestScore := math.Inf(1)
	bestN := 0
	for n := s.MinComponents; n <= s.MaxComponents; n++ {
		if n > shortest {
			continue
		}
		model, err := s.fit(data, n)
		if err != nil {
			s.Logger.WithField("word", s.ThisWord).
				Debugf("bic: fit failed with %d states: %v", n, err)
			continue
		}
		logL, err := model.Score(data.X, data.Lengths)
		if err != nil {
			continue
		}
		p := float64(n*n + 2*n*d - 1)
		score := -2*logL + p*logN
		if score < bestScore {
			bestScore, best, bestN = score, model, n
		}
	}
	if best == nil {
		return nil, errors.Errorf("bic: no candidate size fit %q", s.ThisWord)
	}
	s.Logger.WithField("word", s.ThisWord).
		Debugf("bic: selected %d states (score %.1f)", bestN, bestScore)
	return best, nil
}
