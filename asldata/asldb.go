// Package asldata loads the hand-tracking database and word-segment lists
// used to train and test the recognizer, and assembles them into the
// observation arrays the model code consumes: per-word frame sequences and
// their lengths.
package asldata

import (
	"encoding/csv"
	"io"
	"os"
	"sort"
	"strconv"

	"github.com/pkg/errors"
)

// Raw tracking columns present in the hand-position database.
var rawColumns = []string{
	"left-x", "left-y", "right-x", "right-y", "nose-x", "nose-y",
}

type frameKey struct {
	video int
	frame int
}

// Database holds per-frame tracking values indexed by (video, frame), the
// speaker of each video, and any derived feature columns added after loading.
type Database struct {
	frames   map[frameKey]map[string]float64
	speakers map[int]string
	videos   map[int][]int // video -> sorted frame numbers
}

// LoadDatabase reads a hand-tracking CSV with columns
// video,frame,left-x,left-y,right-x,right-y,nose-x,nose-y,speaker.
func LoadDatabase(path string) (*Database, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open tracking csv")
	}
	defer f.Close()
	return ReadDatabase(f)
}

// ReadDatabase parses the hand-tracking CSV from r.
func ReadDatabase(r io.Reader) (*Database, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, errors.Wrap(err, "read tracking header")
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}
	for _, name := range append([]string{"video", "frame", "speaker"}, rawColumns...) {
		if _, ok := col[name]; !ok {
			return nil, errors.Errorf("tracking csv missing column %q", name)
		}
	}

	db := &Database{
		frames:   make(map[frameKey]map[string]float64),
		speakers: make(map[int]string),
		videos:   make(map[int][]int),
	}
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "tracking csv line %d", line)
		}
		video, err := strconv.Atoi(rec[col["video"]])
		if err != nil {
			return nil, errors.Wrapf(err, "tracking csv line %d: video", line)
		}
		frame, err := strconv.Atoi(rec[col["frame"]])
		if err != nil {
			return nil, errors.Wrapf(err, "tracking csv line %d: frame", line)
		}
		values := make(map[string]float64, len(rawColumns))
		for _, name := range rawColumns {
			v, err := strconv.ParseFloat(rec[col[name]], 64)
			if err != nil {
				return nil, errors.Wrapf(err, "tracking csv line %d: %s", line, name)
			}
			values[name] = v
		}
		db.frames[frameKey{video, frame}] = values
		db.speakers[video] = rec[col["speaker"]]
		db.videos[video] = append(db.videos[video], frame)
	}
	for v := range db.videos {
		sort.Ints(db.videos[v])
	}
	return db, nil
}

// HasVideo reports whether the database has any frames for a video.
func (db *Database) HasVideo(video int) bool {
	_, ok := db.videos[video]
	return ok
}

// Speaker returns the speaker of a video.
func (db *Database) Speaker(video int) string { return db.speakers[video] }

// Videos returns the video numbers present in the database, sorted.
func (db *Database) Videos() []int {
	out := make([]int, 0, len(db.videos))
	for v := range db.videos {
		out = append(out, v)
	}
	sort.Ints(out)
	return out
}

// Value returns the value of column name at (video, frame).
func (db *Database) Value(video, frame int, name string) (float64, bool) {
	vals, ok := db.frames[frameKey{video, frame}]
	if !ok {
		return 0, false
	}
	v, ok := vals[name]
	return v, ok
}

// FrameVector extracts the named feature columns of one frame, in order.
func (db *Database) FrameVector(video, frame int, features []string) ([]float64, error) {
	vals, ok := db.frames[frameKey{video, frame}]
	if !ok {
		return nil, errors.Errorf("video %d has no frame %d", video, frame)
	}
	vec := make([]float64, len(features))
	for i, name := range features {
		v, ok := vals[name]
		if !ok {
			return nil, errors.Errorf("video %d frame %d has no column %q", video, frame, name)
		}
		vec[i] = v
	}
	return vec, nil
}

// setValue writes a derived column value; the frame must already exist.
func (db *Database) setValue(video, frame int, name string, v float64) {
	db.frames[frameKey{video, frame}][name] = v
}
