package asldata

import (
	"encoding/csv"
	"io"
	"os"
	"sort"
	"strconv"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Sequence is a set of concatenated observation sequences: X holds all
// frames back to back and Lengths records where each sequence ends.
type Sequence struct {
	X       [][]float64
	Lengths []int
}

// CombineSequences concatenates the selected sequences into a single
// Sequence, preserving their order and per-sequence lengths. It is used to
// assemble cross-validation folds.
func CombineSequences(indices []int, sequences [][][]float64) Sequence {
	var s Sequence
	for _, idx := range indices {
		seq := sequences[idx]
		s.X = append(s.X, seq...)
		s.Lengths = append(s.Lengths, len(seq))
	}
	return s
}

// concat flattens a word's sequences into one Sequence.
func concat(sequences [][][]float64) Sequence {
	indices := make([]int, len(sequences))
	for i := range indices {
		indices[i] = i
	}
	return CombineSequences(indices, sequences)
}

// segment is one row of a word-list CSV.
type segment struct {
	video      int
	speaker    string
	word       string
	startFrame int
	endFrame   int
}

func readSegments(r io.Reader) ([]segment, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, errors.Wrap(err, "read word list header")
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}
	for _, name := range []string{"video", "speaker", "word", "startframe", "endframe"} {
		if _, ok := col[name]; !ok {
			return nil, errors.Errorf("word list missing column %q", name)
		}
	}

	var segs []segment
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "word list line %d", line)
		}
		var s segment
		if s.video, err = strconv.Atoi(rec[col["video"]]); err != nil {
			return nil, errors.Wrapf(err, "word list line %d: video", line)
		}
		if s.startFrame, err = strconv.Atoi(rec[col["startframe"]]); err != nil {
			return nil, errors.Wrapf(err, "word list line %d: startframe", line)
		}
		if s.endFrame, err = strconv.Atoi(rec[col["endframe"]]); err != nil {
			return nil, errors.Wrapf(err, "word list line %d: endframe", line)
		}
		if s.endFrame < s.startFrame {
			return nil, errors.Errorf("word list line %d: endframe before startframe", line)
		}
		s.speaker = rec[col["speaker"]]
		s.word = rec[col["word"]]
		segs = append(segs, s)
	}
	return segs, nil
}

// extract pulls one segment's frames (inclusive of endframe) from the
// database as feature vectors.
func extract(db *Database, s segment, features []string) ([][]float64, error) {
	seq := make([][]float64, 0, s.endFrame-s.startFrame+1)
	for frame := s.startFrame; frame <= s.endFrame; frame++ {
		vec, err := db.FrameVector(s.video, frame, features)
		if err != nil {
			return nil, errors.Wrapf(err, "word %q", s.word)
		}
		seq = append(seq, vec)
	}
	return seq, nil
}

// TrainingSet groups the training sequences by word.
type TrainingSet struct {
	sequences map[string][][][]float64
}

// NewTrainingSet wraps already-extracted sequences, keyed by word.
func NewTrainingSet(sequences map[string][][][]float64) *TrainingSet {
	return &TrainingSet{sequences: sequences}
}

// BuildTrainingSet reads a training word-list CSV
// (video,speaker,word,startframe,endframe) and extracts each segment's
// feature vectors from the database.
func BuildTrainingSet(db *Database, path string, features []string) (*TrainingSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open training word list")
	}
	defer f.Close()
	return ReadTrainingSet(db, f, features)
}

// ReadTrainingSet parses the training word list from r.
func ReadTrainingSet(db *Database, r io.Reader, features []string) (*TrainingSet, error) {
	segs, err := readSegments(r)
	if err != nil {
		return nil, err
	}
	ts := &TrainingSet{sequences: make(map[string][][][]float64)}
	for _, s := range segs {
		if !db.HasVideo(s.video) {
			logrus.WithFields(logrus.Fields{"word": s.word, "video": s.video}).
				Debug("segment video not in database, skipping")
			continue
		}
		seq, err := extract(db, s, features)
		if err != nil {
			return nil, err
		}
		ts.sequences[s.word] = append(ts.sequences[s.word], seq)
	}
	return ts, nil
}

// Words returns the vocabulary, sorted.
func (ts *TrainingSet) Words() []string {
	words := make([]string, 0, len(ts.sequences))
	for w := range ts.sequences {
		words = append(words, w)
	}
	sort.Strings(words)
	return words
}

// AllSequences returns each word's training sequences.
func (ts *TrainingSet) AllSequences() map[string][][][]float64 {
	return ts.sequences
}

// AllXLengths returns each word's sequences concatenated into a Sequence.
func (ts *TrainingSet) AllXLengths() map[string]Sequence {
	out := make(map[string]Sequence, len(ts.sequences))
	for w, seqs := range ts.sequences {
		out[w] = concat(seqs)
	}
	return out
}

// TestSet holds the test items in word-list order. Each item is a single
// sequence to be recognized independently; SentencesIndex groups item ids by
// their source video so transcriptions can be reassembled.
type TestSet struct {
	wordList  []string
	items     [][][]float64
	sentences map[int][]int
}

// NewTestSet wraps already-extracted test items. wordList and items are
// parallel and ordered by item id; sentences groups ids by source video.
func NewTestSet(wordList []string, items [][][]float64, sentences map[int][]int) *TestSet {
	if sentences == nil {
		sentences = make(map[int][]int)
	}
	return &TestSet{wordList: wordList, items: items, sentences: sentences}
}

// BuildTestSet reads a test word-list CSV and extracts each item's feature
// vectors from the database.
func BuildTestSet(db *Database, path string, features []string) (*TestSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open test word list")
	}
	defer f.Close()
	return ReadTestSet(db, f, features)
}

// ReadTestSet parses the test word list from r.
func ReadTestSet(db *Database, r io.Reader, features []string) (*TestSet, error) {
	segs, err := readSegments(r)
	if err != nil {
		return nil, err
	}
	ts := &TestSet{sentences: make(map[int][]int)}
	for _, s := range segs {
		if !db.HasVideo(s.video) {
			logrus.WithFields(logrus.Fields{"word": s.word, "video": s.video}).
				Debug("segment video not in database, skipping")
			continue
		}
		seq, err := extract(db, s, features)
		if err != nil {
			return nil, err
		}
		id := len(ts.wordList)
		ts.wordList = append(ts.wordList, s.word)
		ts.items = append(ts.items, seq)
		ts.sentences[s.video] = append(ts.sentences[s.video], id)
	}
	return ts, nil
}

// Num returns the number of test items.
func (ts *TestSet) Num() int { return len(ts.wordList) }

// WordList returns the true words ordered by item id.
func (ts *TestSet) WordList() []string { return ts.wordList }

// XLengths returns item id's observations as a single-sequence Sequence.
func (ts *TestSet) XLengths(id int) Sequence {
	return Sequence{X: ts.items[id], Lengths: []int{len(ts.items[id])}}
}

// AllXLengths returns every item keyed by id.
func (ts *TestSet) AllXLengths() map[int]Sequence {
	out := make(map[int]Sequence, len(ts.items))
	for id := range ts.items {
		out[id] = ts.XLengths(id)
	}
	return out
}

// SentencesIndex returns the item ids of each video, in word-list order.
func (ts *TestSet) SentencesIndex() map[int][]int { return ts.sentences }
