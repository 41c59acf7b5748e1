// Package logmath provides log-domain arithmetic for the forward/backward
// recursions used by the Gaussian HMM code.
package logmath

import "math"

// LogZero represents log(0) in log-domain arithmetic. Values at or below
// LogZero+1 are treated as impossible.
const LogZero = -1e30

// LogAdd returns log(exp(a) + exp(b)) without leaving the log domain.
// When the smaller term is more than 36 nats below the larger it is dropped,
// since exp(-36) is below float64 precision.
func LogAdd(a, b float64) float64 {
	if a < b {
		a, b = b, a
	}
	if b == LogZero {
		return a
	}
	d := b - a
	if d < -36.0 {
		return a
	}
	return a + math.Log1p(math.Exp(d))
}
