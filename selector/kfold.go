package selector

// Fold is one train/test split of sequence indices.
type Fold struct {
	Train []int
	Test  []int
}

// KFold splits the indices 0..n-1 into k contiguous folds without shuffling,
// the way the usual k-fold splitter does: the first n%k folds receive one
// extra index. n must be at least k.
func KFold(n, k int) []Fold {
	folds := make([]Fold, 0, k)
	size, extra := n/k, n%k
	start := 0
	for f := 0; f < k; f++ {
		end := start + size
		if f < extra {
			end++
		}
		test := make([]int, 0, end-start)
		train := make([]int, 0, n-(end-start))
		for i := 0; i < n; i++ {
			if i >= start && i < end {
				test = append(test, i)
			} else {
				train = append(train, i)
			}
		}
		folds = append(folds, Fold{Train: train, Test: test})
		start = end
	}
	return folds
}
