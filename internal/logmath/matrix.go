package logmath

// NewMat creates a rows x cols matrix backed by a single contiguous slice.
func NewMat(rows, cols int) [][]float64 {
	m := make([][]float64, rows)
	data := make([]float64, rows*cols)
	for i := range m {
		m[i] = data[i*cols : (i+1)*cols]
	}
	return m
}

// NewMatFill creates a rows x cols matrix filled with val.
func NewMatFill(rows, cols int, val float64) [][]float64 {
	m := NewMat(rows, cols)
	FillMat(m, val)
	return m
}

// FillMat sets every element of m to val.
func FillMat(m [][]float64, val float64) {
	for i := range m {
		FillVec(m[i], val)
	}
}

// FillVec sets every element of v to val.
func FillVec(v []float64, val float64) {
	for i := range v {
		v[i] = val
	}
}

// NewVecFill creates a vector of length n filled with val.
func NewVecFill(n int, val float64) []float64 {
	v := make([]float64, n)
	FillVec(v, val)
	return v
}
