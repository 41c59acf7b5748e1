package asldata

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const handsCSV = `video,frame,left-x,left-y,right-x,right-y,nose-x,nose-y,speaker
1,0,150,180,90,170,120,80,man-1
1,1,152,182,92,172,120,80,man-1
1,2,154,184,94,174,121,81,man-1
1,3,156,186,96,176,121,81,man-1
1,4,158,188,98,178,122,82,man-1
1,5,160,190,100,180,122,82,man-1
2,0,140,170,80,160,110,70,woman-2
2,1,142,172,82,162,110,70,woman-2
2,2,144,174,84,164,111,71,woman-2
2,3,146,176,86,166,111,71,woman-2
`

const trainCSV = `video,speaker,word,startframe,endframe
1,man-1,JOHN,0,2
1,man-1,BOOK,3,5
2,woman-2,JOHN,0,3
`

const testCSV = `video,speaker,word,startframe,endframe
1,man-1,JOHN,1,3
1,man-1,BOOK,4,5
2,woman-2,JOHN,0,2
`

func loadTestDB(t *testing.T) *Database {
	t.Helper()
	db, err := ReadDatabase(strings.NewReader(handsCSV))
	require.NoError(t, err)
	return db
}

func TestReadDatabase(t *testing.T) {
	db := loadTestDB(t)

	assert.Equal(t, []int{1, 2}, db.Videos())
	assert.Equal(t, "man-1", db.Speaker(1))
	assert.Equal(t, "woman-2", db.Speaker(2))

	v, ok := db.Value(1, 0, "right-x")
	require.True(t, ok)
	assert.Equal(t, 90.0, v)

	_, ok = db.Value(1, 99, "right-x")
	assert.False(t, ok)
}

func TestReadDatabaseMissingColumn(t *testing.T) {
	_, err := ReadDatabase(strings.NewReader("video,frame\n1,0\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing column")
}

func TestBuildGround(t *testing.T) {
	db := loadTestDB(t)
	db.BuildGround()

	// grnd-rx = right-x - nose-x
	v, ok := db.Value(1, 0, "grnd-rx")
	require.True(t, ok)
	assert.Equal(t, -30.0, v)
	v, _ = db.Value(1, 0, "grnd-ry")
	assert.Equal(t, 90.0, v)
}

func TestBuildNormIsZScorePerSpeaker(t *testing.T) {
	db := loadTestDB(t)
	db.BuildNorm()

	// Per speaker, normalized columns must have mean ~0.
	for _, video := range []int{1, 2} {
		sum, n := 0.0, 0
		for frame := 0; frame < 10; frame++ {
			if v, ok := db.Value(video, frame, "norm-rx"); ok {
				sum += v
				n++
			}
		}
		require.Greater(t, n, 0)
		assert.InDelta(t, 0.0, sum/float64(n), 1e-9, "video %d", video)
	}
}

func TestBuildPolar(t *testing.T) {
	db := loadTestDB(t)
	db.BuildGround()
	db.BuildPolar()

	rx, _ := db.Value(1, 0, "grnd-rx")
	ry, _ := db.Value(1, 0, "grnd-ry")
	rr, _ := db.Value(1, 0, "polar-rr")
	assert.InDelta(t, math.Hypot(rx, ry), rr, 1e-12)
	theta, _ := db.Value(1, 0, "polar-rtheta")
	assert.InDelta(t, math.Atan2(rx, ry), theta, 1e-12)
}

func TestBuildDelta(t *testing.T) {
	db := loadTestDB(t)
	db.BuildGround()
	db.BuildDelta()

	// First frame of each video is zero.
	v, _ := db.Value(1, 0, "delta-rx")
	assert.Equal(t, 0.0, v)
	// Subsequent frames are the grnd difference.
	a, _ := db.Value(1, 1, "grnd-rx")
	b, _ := db.Value(1, 0, "grnd-rx")
	d, _ := db.Value(1, 1, "delta-rx")
	assert.InDelta(t, a-b, d, 1e-12)
}

func TestReadTrainingSet(t *testing.T) {
	db := loadTestDB(t)
	db.BuildGround()

	ts, err := ReadTrainingSet(db, strings.NewReader(trainCSV), FeaturesGround)
	require.NoError(t, err)

	assert.Equal(t, []string{"BOOK", "JOHN"}, ts.Words())

	seqs := ts.AllSequences()
	require.Len(t, seqs["JOHN"], 2)
	assert.Len(t, seqs["JOHN"][0], 3) // frames 0..2 inclusive
	assert.Len(t, seqs["JOHN"][1], 4) // frames 0..3 inclusive
	assert.Len(t, seqs["JOHN"][0][0], len(FeaturesGround))

	xl := ts.AllXLengths()
	assert.Equal(t, []int{3, 4}, xl["JOHN"].Lengths)
	assert.Len(t, xl["JOHN"].X, 7)
}

func TestReadTrainingSetSkipsUnknownVideo(t *testing.T) {
	db := loadTestDB(t)
	db.BuildGround()

	csv := trainCSV + "99,man-1,FISH,0,4\n"
	ts, err := ReadTrainingSet(db, strings.NewReader(csv), FeaturesGround)
	require.NoError(t, err, "a segment from an unknown video is dropped, not an error")
	assert.Equal(t, []string{"BOOK", "JOHN"}, ts.Words())
	assert.NotContains(t, ts.AllSequences(), "FISH")
}

func TestReadTestSetSkipsUnknownVideo(t *testing.T) {
	db := loadTestDB(t)
	db.BuildGround()

	csv := testCSV + "99,man-1,FISH,0,4\n"
	ts, err := ReadTestSet(db, strings.NewReader(csv), FeaturesGround)
	require.NoError(t, err)
	assert.Equal(t, 3, ts.Num())
	assert.NotContains(t, ts.WordList(), "FISH")
	_, ok := ts.SentencesIndex()[99]
	assert.False(t, ok)
}

func TestReadTrainingSetMissingFrame(t *testing.T) {
	db := loadTestDB(t)
	db.BuildGround()

	bad := "video,speaker,word,startframe,endframe\n1,man-1,JOHN,0,50\n"
	_, err := ReadTrainingSet(db, strings.NewReader(bad), FeaturesGround)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JOHN")
}

func TestReadTestSet(t *testing.T) {
	db := loadTestDB(t)
	db.BuildGround()

	ts, err := ReadTestSet(db, strings.NewReader(testCSV), FeaturesGround)
	require.NoError(t, err)

	assert.Equal(t, 3, ts.Num())
	assert.Equal(t, []string{"JOHN", "BOOK", "JOHN"}, ts.WordList())

	s := ts.XLengths(0)
	assert.Equal(t, []int{3}, s.Lengths)
	assert.Len(t, s.X, 3)

	all := ts.AllXLengths()
	assert.Len(t, all, 3)

	idx := ts.SentencesIndex()
	assert.Equal(t, []int{0, 1}, idx[1])
	assert.Equal(t, []int{2}, idx[2])
}

func TestCombineSequences(t *testing.T) {
	seqs := [][][]float64{
		{{1}, {2}},
		{{3}},
		{{4}, {5}, {6}},
	}
	s := CombineSequences([]int{2, 0}, seqs)
	assert.Equal(t, []int{3, 2}, s.Lengths)
	assert.Equal(t, [][]float64{{4}, {5}, {6}, {1}, {2}}, s.X)
}

func TestFeatureSet(t *testing.T) {
	assert.Equal(t, FeaturesGround, FeatureSet("ground"))
	assert.Equal(t, FeaturesPolar, FeatureSet("polar"))
	assert.Nil(t, FeatureSet("mfcc"))
}
