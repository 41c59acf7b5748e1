// Package recognizer scores test items against the trained word models and
// emits best-guess transcriptions.
package recognizer

import (
	"math"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/LRParser/sign-language-hmm/asldata"
	"github.com/LRParser/sign-language-hmm/hmm"
)

// failureLogL stands in for the log-likelihood of a model that cannot score
// an item, keeping the item rankable against the rest of the vocabulary.
const failureLogL = -1000

// Recognize scores every test item under every word model. It returns, both
// ordered by item id, the per-word log-likelihood map of each item and the
// best-scoring word for each item.
func Recognize(models map[string]*hmm.Model, ts *asldata.TestSet) ([]map[string]float64, []string) {
	words := make([]string, 0, len(models))
	for w := range models {
		words = append(words, w)
	}
	sort.Strings(words)

	probabilities := make([]map[string]float64, 0, ts.Num())
	guesses := make([]string, 0, ts.Num())

	for id := 0; id < ts.Num(); id++ {
		item := ts.XLengths(id)
		probs := make(map[string]float64, len(words))
		best := ""
		bestScore := math.Inf(-1)

		for _, w := range words {
			score, err := models[w].Score(item.X, item.Lengths)
			if err != nil {
				logrus.WithField("word", w).
					Debugf("scoring item %d failed: %v", id, err)
				score = failureLogL
			}
			probs[w] = score
			if score > bestScore {
				bestScore, best = score, w
			}
		}

		probabilities = append(probabilities, probs)
		guesses = append(guesses, best)
	}
	return probabilities, guesses
}
