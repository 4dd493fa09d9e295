package search

// Distance returns the Levenshtein edit distance between a and b, counted in
// characters. If the distance exceeds limit it returns limit+1 as soon as that is
// known. A negative limit disables the cutoff.
func Distance(a, b string, limit int) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) < len(rb) {
		ra, rb = rb, ra
	}
	if limit >= 0 && len(ra)-len(rb) > limit {
		return limit + 1
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		rowMin := curr[0]
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
			rowMin = min(rowMin, curr[j])
		}
		if limit >= 0 && rowMin > limit {
			return limit + 1
		}
		prev, curr = curr, prev
	}

	d := prev[len(rb)]
	if limit >= 0 && d > limit {
		return limit + 1
	}
	return d
}
