package classifier

import (
	"slices"
	"sort"
)

// Rank returns a copy of scores ordered best first. Posterior is monotonic
// in Score, so this is also posterior order. Ties keep registration order.
func Rank(scores []ClassScore) []ClassScore {
	ranked := slices.Clone(scores)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}

// Top returns at most n entries of a ranked slice. n <= 0 means all.
func Top(ranked []ClassScore, n int) []ClassScore {
	if n <= 0 || n >= len(ranked) {
		return ranked
	}
	return ranked[:n]
}
