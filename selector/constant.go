package selector

import "github.com/LRParser/sign-language-hmm/hmm"

// Constant ignores the data and always trains a model with NConstant states.
type Constant struct {
	Base
}

// NewConstant returns a Constant selector for the given word.
func NewConstant(base Base) *Constant { return &Constant{Base: base} }

// Select trains the target word's model with the fixed state count.
func (s *Constant) Select() (*hmm.Model, error) {
	return s.BaseModel(s.NConstant)
}
