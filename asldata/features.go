package asldata

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Feature column names produced by the builders below.
var (
	FeaturesGround = []string{"grnd-rx", "grnd-ry", "grnd-lx", "grnd-ly"}
	FeaturesNorm   = []string{"norm-rx", "norm-ry", "norm-lx", "norm-ly"}
	FeaturesPolar  = []string{"polar-rr", "polar-rtheta", "polar-lr", "polar-ltheta"}
	FeaturesDelta  = []string{"delta-rx", "delta-ry", "delta-lx", "delta-ly"}
)

// FeatureSet returns the column names for a named feature set, or nil when
// the name is unknown.
func FeatureSet(name string) []string {
	switch name {
	case "ground":
		return FeaturesGround
	case "norm":
		return FeaturesNorm
	case "polar":
		return FeaturesPolar
	case "delta":
		return FeaturesDelta
	}
	return nil
}

// BuildGround adds hand positions relative to the nose:
// grnd-rx = right-x - nose-x and so on.
func (db *Database) BuildGround() {
	for _, vals := range db.frames {
		vals["grnd-rx"] = vals["right-x"] - vals["nose-x"]
		vals["grnd-ry"] = vals["right-y"] - vals["nose-y"]
		vals["grnd-lx"] = vals["left-x"] - vals["nose-x"]
		vals["grnd-ly"] = vals["left-y"] - vals["nose-y"]
	}
}

// BuildNorm adds per-speaker z-scores of the raw hand positions, removing
// differences in signer height and camera placement.
func (db *Database) BuildNorm() {
	pairs := [][2]string{
		{"norm-rx", "right-x"}, {"norm-ry", "right-y"},
		{"norm-lx", "left-x"}, {"norm-ly", "left-y"},
	}
	// Group raw values by speaker.
	bySpeaker := make(map[string]map[string][]float64)
	for key, vals := range db.frames {
		sp := db.speakers[key.video]
		cols, ok := bySpeaker[sp]
		if !ok {
			cols = make(map[string][]float64)
			bySpeaker[sp] = cols
		}
		for _, p := range pairs {
			cols[p[1]] = append(cols[p[1]], vals[p[1]])
		}
	}
	type ms struct{ mean, std float64 }
	stats := make(map[string]map[string]ms)
	for sp, cols := range bySpeaker {
		stats[sp] = make(map[string]ms)
		for name, xs := range cols {
			mean, std := stat.MeanStdDev(xs, nil)
			if std == 0 || math.IsNaN(std) {
				std = 1
			}
			stats[sp][name] = ms{mean, std}
		}
	}
	for key, vals := range db.frames {
		sp := db.speakers[key.video]
		for _, p := range pairs {
			s := stats[sp][p[1]]
			vals[p[0]] = (vals[p[1]] - s.mean) / s.std
		}
	}
}

// BuildPolar adds polar coordinates of the nose-relative hand positions:
// radius and angle of each hand. Requires BuildGround to have run.
func (db *Database) BuildPolar() {
	for _, vals := range db.frames {
		rx, ry := vals["grnd-rx"], vals["grnd-ry"]
		lx, ly := vals["grnd-lx"], vals["grnd-ly"]
		vals["polar-rr"] = math.Hypot(rx, ry)
		vals["polar-rtheta"] = math.Atan2(rx, ry)
		vals["polar-lr"] = math.Hypot(lx, ly)
		vals["polar-ltheta"] = math.Atan2(lx, ly)
	}
}

// BuildDelta adds frame-to-frame differences of the nose-relative positions.
// The first frame of each video gets zeros. Requires BuildGround.
func (db *Database) BuildDelta() {
	pairs := [][2]string{
		{"delta-rx", "grnd-rx"}, {"delta-ry", "grnd-ry"},
		{"delta-lx", "grnd-lx"}, {"delta-ly", "grnd-ly"},
	}
	for video, frames := range db.videos {
		for i, frame := range frames {
			vals := db.frames[frameKey{video, frame}]
			if i == 0 {
				for _, p := range pairs {
					vals[p[0]] = 0
				}
				continue
			}
			prev := db.frames[frameKey{video, frames[i-1]}]
			for _, p := range pairs {
				vals[p[0]] = vals[p[1]] - prev[p[1]]
			}
		}
	}
}

// BuildAll runs every feature builder in dependency order.
func (db *Database) BuildAll() {
	db.BuildGround()
	db.BuildNorm()
	db.BuildPolar()
	db.BuildDelta()
}
