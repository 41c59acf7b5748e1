package selector

import (
	"math"
	"sort"

	"github.com/pkg/errors"

	"github.com/LRParser/sign-language-hmm/hmm"
)

// DIC selects the state count with the highest discriminative information
// criterion:
//
//	DIC = logL(word) − (1/(M−1)) · Σ logL(other words)
//
// where each competing term trains a model for another vocabulary word at
// the same state count and scores it on that word's own data. A size wins
// when it explains the target word well relative to how well it serves the
// rest of the vocabulary.
//
// Biem, "A model selection criterion for classification: Application to HMM
// topology optimization", ICDAR 2003.
type DIC struct {
	Base
}

// NewDIC returns a DIC selector for the given word.
func NewDIC(base Base) *DIC { return &DIC{Base: base} }

// Select sweeps the candidate state counts and returns the model with the
// highest DIC. Competitors that fail to score contribute zero, matching the
// treatment of degenerate fits elsewhere in the pipeline.
func (s *DIC) Select() (*hmm.Model, error) {
	data := s.Data()
	if len(data.X) == 0 {
		return nil, errors.Errorf("no training data for %q", s.ThisWord)
	}
	shortest := minSeqLen(data)

	// Stable competitor order keeps runs reproducible.
	others := make([]string, 0, len(s.XLengths))
	for w := range s.XLengths {
		if w != s.ThisWord {
			others = append(others, w)
		}
	}
	sort.Strings(others)

	var best *hmm.Model
	bestScore := math.Inf(-1)
	bestN := 0
	for n := s.MinComponents; n <= s.MaxComponents; n++ {
		if n > shortest {
			continue
		}
		model, err := s.fit(data, n)
		if err != nil {
			s.Logger.WithField("word", s.ThisWord).
				Debugf("dic: fit failed with %d states: %v", n, err)
			continue
		}
		thisScore, err := model.Score(data.X, data.Lengths)
		if err != nil {
			continue
		}

		otherTotal := 0.0
		counted := 0
		for _, w := range others {
			otherData := s.XLengths[w]
			if n > minSeqLen(otherData) {
				continue
			}
			otherModel, err := s.fit(otherData, n)
			if err != nil {
				continue
			}
			otherScore, err := otherModel.Score(otherData.X, otherData.Lengths)
			if err != nil {
				// A competitor that cannot score contributes nothing
				// rather than sinking the whole candidate size.
				otherScore = 0
			}
			otherTotal += otherScore
			counted++
		}

		score := thisScore
		if counted > 0 {
			score = thisScore - otherTotal/float64(counted)
		}
		if score > bestScore {
			bestScore, best, bestN = score, model, n
		}
	}
	if best == nil {
		return nil, errors.Errorf("dic: no candidate size fit %q", s.ThisWord)
	}
	s.Logger.WithField("word", s.ThisWord).
		Debugf("dic: selected %d states (score %.1f)", bestN, bestScore)
	return best, nil
}
