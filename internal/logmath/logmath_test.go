package logmath

import (
	"math"
	"testing"
)

func TestLogAdd(t *testing.T) {
	// log(exp(log(2)) + exp(log(3))) = log(5)
	got := LogAdd(math.Log(2), math.Log(3))
	want := math.Log(5)
	if math.Abs(got-want) > 1e-10 {
		t.Errorf("LogAdd(log 2, log 3) = %f, want %f", got, want)
	}
}

func TestLogAddCommutes(t *testing.T) {
	a, b := math.Log(0.25), math.Log(7)
	if got, rev := LogAdd(a, b), LogAdd(b, a); got != rev {
		t.Errorf("LogAdd not symmetric: %f vs %f", got, rev)
	}
}

func TestLogAddWithLogZero(t *testing.T) {
	a := math.Log(5)
	if got := LogAdd(LogZero, a); math.Abs(got-a) > 1e-10 {
		t.Errorf("LogAdd(LogZero, a) = %f, want %f", got, a)
	}
	if got := LogAdd(a, LogZero); math.Abs(got-a) > 1e-10 {
		t.Errorf("LogAdd(a, LogZero) = %f, want %f", got, a)
	}
}

func TestNewMatFill(t *testing.T) {
	m := NewMatFill(3, 4, LogZero)
	if len(m) != 3 || len(m[0]) != 4 {
		t.Fatalf("shape = %dx%d, want 3x4", len(m), len(m[0]))
	}
	for i := range m {
		for j := range m[i] {
			if m[i][j] != LogZero {
				t.Fatalf("m[%d][%d] = %f, want LogZero", i, j, m[i][j])
			}
		}
	}
}
