package recognizer

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LRParser/sign-language-hmm/asldata"
	"github.com/LRParser/sign-language-hmm/hmm"
)

// trainWordModel fits a small model on sequences clustered around center.
func trainWordModel(t *testing.T, rng *rand.Rand, center float64) *hmm.Model {
	t.Helper()
	var X [][]float64
	var lengths []int
	for s := 0; s < 4; s++ {
		for f := 0; f < 12; f++ {
			X = append(X, []float64{center + rng.NormFloat64()*0.3})
		}
		lengths = append(lengths, 12)
	}
	cfg := hmm.DefaultConfig(2)
	cfg.MaxIter = 25
	m, err := hmm.Train(X, lengths, cfg)
	require.NoError(t, err)
	return m
}

// makeItem builds one test sequence around center.
func makeItem(rng *rand.Rand, center float64, T int) [][]float64 {
	item := make([][]float64, T)
	for t := range item {
		item[t] = []float64{center + rng.NormFloat64()*0.3}
	}
	return item
}

func TestRecognize(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	models := map[string]*hmm.Model{
		"LOW":  trainWordModel(t, rng, 0.0),
		"HIGH": trainWordModel(t, rng, 10.0),
	}

	ts := asldata.NewTestSet(
		[]string{"LOW", "HIGH", "LOW"},
		[][][]float64{
			makeItem(rng, 0.0, 8),
			makeItem(rng, 10.0, 8),
			makeItem(rng, 0.0, 8),
		},
		map[int][]int{1: {0, 1}, 2: {2}},
	)

	probs, guesses := Recognize(models, ts)
	require.Len(t, probs, 3)
	require.Len(t, guesses, 3)

	assert.Equal(t, []string{"LOW", "HIGH", "LOW"}, guesses)
	for id, p := range probs {
		require.Contains(t, p, "LOW", "item %d", id)
		require.Contains(t, p, "HIGH", "item %d", id)
	}
	assert.Greater(t, probs[0]["LOW"], probs[0]["HIGH"])
	assert.Greater(t, probs[1]["HIGH"], probs[1]["LOW"])
}

func TestRecognizeScoringFailure(t *testing.T) {
	rng := rand.New(rand.NewSource(13))
	models := map[string]*hmm.Model{
		"LOW": trainWordModel(t, rng, 0.0),
	}

	// Two-dimensional item cannot be scored by a one-dimensional model.
	bad := [][]float64{{0, 0}, {1, 1}}
	ts := asldata.NewTestSet([]string{"LOW"}, [][][]float64{bad}, nil)

	probs, guesses := Recognize(models, ts)
	require.Len(t, probs, 1)
	assert.Equal(t, float64(-1000), probs[0]["LOW"])
	assert.Equal(t, "LOW", guesses[0], "a failed score still yields a guess")
}

func TestWER(t *testing.T) {
	ts := asldata.NewTestSet([]string{"A", "B", "C", "D"}, make([][][]float64, 4), nil)

	r := WER([]string{"A", "B", "X", "D"}, ts)
	assert.Equal(t, 4, r.Total)
	assert.Equal(t, 1, r.Errors)
	assert.InDelta(t, 0.25, r.WER, 1e-12)

	// Short guess list counts missing items as errors.
	r = WER([]string{"A"}, ts)
	assert.Equal(t, 3, r.Errors)
}

func TestSentences(t *testing.T) {
	ts := asldata.NewTestSet(
		[]string{"JOHN", "WRITE", "HOMEWORK", "JOHN"},
		make([][][]float64, 4),
		map[int][]int{2: {0, 1, 2}, 7: {3}},
	)
	guesses := []string{"JOHN", "WRITE", "BOOK", "MARY"}

	sentences := Sentences(guesses, ts)
	require.Len(t, sentences, 2)
	assert.Equal(t, 2, sentences[0].Video)
	assert.Equal(t, []string{"JOHN", "WRITE", "HOMEWORK"}, sentences[0].Actual)
	assert.Equal(t, []string{"JOHN", "WRITE", "BOOK"}, sentences[0].Guessed)
	assert.Equal(t, 1, sentences[0].Distance, "one substitution in video 2")
	assert.Equal(t, 7, sentences[1].Video)
	assert.Equal(t, []string{"MARY"}, sentences[1].Guessed)
	assert.Equal(t, 1, sentences[1].Distance)
}

func TestEditDistance(t *testing.T) {
	tests := []struct {
		a, b []string
		want int
	}{
		{nil, nil, 0},
		{[]string{"JOHN"}, nil, 1},
		{nil, []string{"JOHN"}, 1},
		{[]string{"JOHN", "WRITE"}, []string{"JOHN", "WRITE"}, 0},
		{[]string{"JOHN", "WRITE"}, []string{"JOHN", "READ"}, 1},
		{[]string{"JOHN", "WRITE", "HOMEWORK"}, []string{"WRITE", "HOMEWORK"}, 1},
		{[]string{"A", "B", "C"}, []string{"X", "Y", "Z"}, 3},
	}
	for _, tc := range tests {
		if got := EditDistance(tc.a, tc.b); got != tc.want {
			t.Errorf("EditDistance(%v, %v) = %d, want %d", tc.a, tc.b, got, tc.want)
		}
	}
}
