package recognizer

import (
	"sort"

	"github.com/LRParser/sign-language-hmm/asldata"
)

// Report summarizes recognition accuracy over a test set.
type Report struct {
	Total  int
	Errors int
	WER    float64
}

// WER compares guesses (ordered by item id) with the test set's true words
// and returns the word error rate.
func WER(guesses []string, ts *asldata.TestSet) Report {
	truth := ts.WordList()
	r := Report{Total: len(truth)}
	for id, want := range truth {
		if id >= len(guesses) || guesses[id] != want {
			r.Errors++
		}
	}
	if r.Total > 0 {
		r.WER = float64(r.Errors) / float64(r.Total)
	}
	return r
}

// Sentence pairs a video's recognized transcription with the truth.
// Distance is the word-level edit distance between the two.
type Sentence struct {
	Video    int
	Guessed  []string
	Actual   []string
	Distance int
}

// Sentences reassembles per-item guesses into per-video transcriptions,
// sorted by video number.
func Sentences(guesses []string, ts *asldata.TestSet) []Sentence {
	truth := ts.WordList()
	index := ts.SentencesIndex()

	videos := make([]int, 0, len(index))
	for v := range index {
		videos = append(videos, v)
	}
	sort.Ints(videos)

	out := make([]Sentence, 0, len(videos))
	for _, v := range videos {
		s := Sentence{Video: v}
		for _, id := range index[v] {
			s.Actual = append(s.Actual, truth[id])
			if id < len(guesses) {
				s.Guessed = append(s.Guessed, guesses[id])
			}
		}
		s.Distance = EditDistance(s.Guessed, s.Actual)
		out = append(out, s)
	}
	return out
}

// EditDistance computes the Levenshtein distance between two word sequences
// using a single-row DP table.
func EditDistance(a, b []string) int {
	la, lb := len(a), len(b)
	if la == 0 {
		return lb
	}
	if lb == 0 {
		return la
	}

	prev := make([]int, lb+1)
	for j := 0; j <= lb; j++ {
		prev[j] = j
	}
	for i := 1; i <= la; i++ {
		cur := make([]int, lb+1)
		cur[0] = i
		for j := 1; j <= lb; j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			del := prev[j] + 1
			ins := cur[j-1] + 1
			sub := prev[j-1] + cost
			m := del
			if ins < m {
				m = ins
			}
			if sub < m {
				m = sub
			}
			cur[j] = m
		}
		prev = cur
	}
	return prev[lb]
}
