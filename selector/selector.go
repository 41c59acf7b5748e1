// Package selector implements the model-selection strategies that choose the
// number of hidden states for each word's Gaussian HMM: a fixed state count,
// the Bayesian information criterion, the discriminative information
// criterion, and cross-validated likelihood.
package selector

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/LRParser/sign-language-hmm/asldata"
	"github.com/LRParser/sign-language-hmm/hmm"
)

// A Selector picks a trained model for one word.
type Selector interface {
	Select() (*hmm.Model, error)
}

var (
	_ Selector = (*Constant)(nil)
	_ Selector = (*BIC)(nil)
	_ Selector = (*DIC)(nil)
	_ Selector = (*CV)(nil)
)

// New returns the named strategy: "constant", "bic", "dic" or "cv".
func New(name string, base Base) (Selector, error) {
	switch name {
	case "constant":
		return NewConstant(base), nil
	case "bic":
		return NewBIC(base), nil
	case "dic":
		return NewDIC(base), nil
	case "cv":
		return NewCV(base), nil
	}
	return nil, errors.Errorf("unknown selector %q", name)
}

// Base carries the data and bounds shared by every strategy.
type Base struct {
	Words    map[string][][][]float64    // training sequences of every word
	XLengths map[string]asldata.Sequence // concatenated form of every word
	ThisWord string

	NConstant     int // state count used by the constant strategy
	MinComponents int
	MaxComponents int
	Seed          int64
	MaxIter       int

	Logger logrus.FieldLogger
}

// NewBase builds a Base for one word with the defaults used throughout the
// recognizer: candidate sizes 2..10, constant size 3, fixed seed.
func NewBase(ts *asldata.TrainingSet, word string) Base {
	return Base{
		Words:         ts.AllSequences(),
		XLengths:      ts.AllXLengths(),
		ThisWord:      word,
		NConstant:     3,
		MinComponents: 2,
		MaxComponents: 10,
		Seed:          14,
		MaxIter:       1000,
		Logger:        logrus.StandardLogger(),
	}
}

// Sequences returns the target word's individual training sequences.
func (b *Base) Sequences() [][][]float64 { return b.Words[b.ThisWord] }

// Data returns the target word's training data in concatenated form.
func (b *Base) Data() asldata.Sequence { return b.XLengths[b.ThisWord] }

// dim returns the observation dimension of the target word's data.
func (b *Base) dim() int {
	data := b.Data()
	if len(data.X) == 0 {
		return 0
	}
	return len(data.X[0])
}

// minSeqLen returns the shortest training sequence length for a word.
// Candidate state counts above it cannot be supported by every sequence.
func minSeqLen(s asldata.Sequence) int {
	m := 0
	for i, l := range s.Lengths {
		if i == 0 || l < m {
			m = l
		}
	}
	return m
}

// fit trains a model with numStates states on the given data.
func (b *Base) fit(data asldata.Sequence, numStates int) (*hmm.Model, error) {
	cfg := hmm.DefaultConfig(numStates)
	cfg.Seed = b.Seed
	if b.MaxIter > 0 {
		cfg.MaxIter = b.MaxIter
	}
	return hmm.Train(data.X, data.Lengths, cfg)
}

// BaseModel fits a model with numStates states on the target word's full
// training data, logging failures.
func (b *Base) BaseModel(numStates int) (*hmm.Model, error) {
	data := b.Data()
	if len(data.X) == 0 {
		return nil, errors.Errorf("no training data for %q", b.ThisWord)
	}
	model, err := b.fit(data, numStates)
	if err != nil {
		b.Logger.WithField("word", b.ThisWord).
			Debugf("fit failed with %d states: %v", numStates, err)
		return nil, err
	}
	b.Logger.WithField("word", b.ThisWord).
		Debugf("model created with %d states", numStates)
	return model, nil
}
