package selector

import (
	"math"

	"github.com/pkg/errors"

	"github.com/LRParser/sign-language-hmm/asldata"
	"github.com/LRParser/sign-language-hmm/hmm"
)

// cvFolds caps the fold count; words with few recorded examples use fewer.
const cvFolds = 3

// CV selects the state count with the highest average log-likelihood on
// held-out cross-validation folds, then refits that size on all of the
// word's data. Words with a single training sequence cannot be split and
// fall back to the constant-size model.
type CV struct {
	Base
}

// NewCV returns a CV selector for the given word.
func NewCV(base Base) *CV { return &CV{Base: base} }

// Select sweeps the candidate state counts, scoring each on held-out folds.
func (s *CV) Select() (*hmm.Model, error) {
	seqs := s.Sequences()
	if len(seqs) == 0 {
		return nil, errors.Errorf("no training data for %q", s.ThisWord)
	}
	if len(seqs) < 2 {
		s.Logger.WithField("word", s.ThisWord).
			Debug("cv: single sequence, falling back to constant size")
		return s.BaseModel(s.NConstant)
	}

	k := cvFolds
	if len(seqs) < k {
		k = len(seqs)
	}
	folds := KFold(len(seqs), k)
	shortest := minSeqLen(s.Data())

	bestScore := math.Inf(-1)
	bestN := 0
	for n := s.MinComponents; n <= s.MaxComponents; n++ {
		if n > shortest {
			continue
		}
		total := 0.0
		scored := 0
		for _, fold := range folds {
			train := asldata.CombineSequences(fold.Train, seqs)
			test := asldata.CombineSequences(fold.Test, seqs)
			model, err := s.fit(train, n)
			if err != nil {
				continue
			}
			ll, err := model.Score(test.X, test.Lengths)
			if err != nil {
				continue
			}
			total += ll
			scored++
		}
		if scored == 0 {
			continue
		}
		if avg := total / float64(scored); avg > bestScore {
			bestScore, bestN = avg, n
		}
	}
	if bestN == 0 {
		return nil, errors.Errorf("cv: no candidate size fit %q", s.ThisWord)
	}
	s.Logger.WithField("word", s.ThisWord).
		Debugf("cv: selected %d states (avg held-out logL %.1f)", bestN, bestScore)

	// Refit the winning size on everything the word has.
	return s.fit(s.Data(), bestN)
}
