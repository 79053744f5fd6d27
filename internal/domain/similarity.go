package domain

// EditDistance is the Levenshtein distance between a and b, counted in runes,
// with unit cost for insertion, deletion and substitution.
func EditDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	cur := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		cur[0] = i
		for j := 1; j <= len(rb); j++ {
			if ra[i-1] == rb[j-1] {
				cur[j] = prev[j-1]
				continue
			}
			cur[j] = 1 + min(prev[j-1], prev[j], cur[j-1])
		}
		prev, cur = cur, prev
	}
	return prev[len(rb)]
}

// Similarity returns (maxLen - EditDistance) / maxLen, in [0, 1].
// Two empty strings are fully similar.
func Similarity(a, b string) float64 {
	longest := max(len([]rune(a)), len([]rune(b)))
	if longest == 0 {
		return 1.0
	}
	return float64(longest-EditDistance(a, b)) / float64(longest)
}
